package foldr_go

var keywords_ = map[string]TokenKind{
	"func":     FUNC,
	"let":      LET,
	"const":    CONST,
	"if":       IF,
	"else":     ELSE,
	"for":      FOR,
	"while":    WHILE,
	"return":   RETURN,
	"in":       IN,
	"break":    BREAK,
	"continue": CONTINUE,
	"true":     TRUE,
	"false":    FALSE,
}

// Type names are recognised by the parser in annotation position only.
var typeNames_ = map[string]TokenKind{
	"int":    INT_TYPE,
	"float":  FLOAT_TYPE,
	"string": STRING_TYPE,
	"bool":   BOOL_TYPE,
	"array":  ARRAY_TYPE,
	"void":   VOID_TYPE,
}

func keywordText(kind TokenKind) string {
	for text, k := range keywords_ {
		if k == kind {
			return text
		}
	}
	for text, k := range typeNames_ {
		if k == kind {
			return text
		}
	}
	return kind.String()
}

// / Lexer splits Foldr source into tokens. It never fails: characters it
// / does not understand come back as ERROR tokens.
type Lexer struct {
	input_ string
	ofs_   int
	line_  int
}

func NewLexer(input string) *Lexer {
	ret := Lexer{}
	ret.input_ = input
	ret.line_ = 1
	return &ret
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isAlpha(c byte) bool { return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') }

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\v' || c == '\f'
}

// / Skip whitespace and '#' comments, counting newlines.
func (this *Lexer) EatWhitespace() {
	for this.ofs_ < len(this.input_) {
		c := this.input_[this.ofs_]
		if isSpace(c) {
			if c == '\n' {
				this.line_++
			}
			this.ofs_++
			continue
		}
		if c == '#' {
			for this.ofs_ < len(this.input_) && this.input_[this.ofs_] != '\n' {
				this.ofs_++
			}
			continue
		}
		return
	}
}

// / Read the next token. Returns a TEOF token once the input is exhausted.
func (this *Lexer) ReadToken() Token {
	this.EatWhitespace()
	if this.ofs_ >= len(this.input_) {
		return Token{Kind: TEOF, Line: this.line_}
	}

	line := this.line_
	start := this.ofs_
	c := this.input_[start]

	switch {
	case c == '"' || c == '\'':
		this.ofs_++
		for this.ofs_ < len(this.input_) && this.input_[this.ofs_] != c {
			if this.input_[this.ofs_] == '\n' {
				this.line_++
			}
			this.ofs_++
		}
		text := this.input_[start+1 : this.ofs_]
		if this.ofs_ < len(this.input_) {
			this.ofs_++ // closing quote
		}
		return Token{Kind: STRING, Lexeme: text, Line: line}

	case isDigit(c):
		for this.ofs_ < len(this.input_) && (isDigit(this.input_[this.ofs_]) || this.input_[this.ofs_] == '.') {
			this.ofs_++
		}
		return Token{Kind: NUMBER, Lexeme: this.input_[start:this.ofs_], Line: line}

	case isAlpha(c) || c == '_':
		for this.ofs_ < len(this.input_) {
			d := this.input_[this.ofs_]
			if !isAlpha(d) && !isDigit(d) && d != '_' {
				break
			}
			this.ofs_++
		}
		text := this.input_[start:this.ofs_]
		if kind, ok := keywords_[text]; ok {
			return Token{Kind: kind, Lexeme: text, Line: line}
		}
		return Token{Kind: IDENTIFIER, Lexeme: text, Line: line}
	}

	return this.readOperator(line)
}

func (this *Lexer) readOperator(line int) Token {
	c := this.input_[this.ofs_]
	var next byte
	if this.ofs_+1 < len(this.input_) {
		next = this.input_[this.ofs_+1]
	}
	two := func(kind TokenKind) Token {
		t := Token{Kind: kind, Lexeme: this.input_[this.ofs_ : this.ofs_+2], Line: line}
		this.ofs_ += 2
		return t
	}
	one := func(kind TokenKind) Token {
		t := Token{Kind: kind, Lexeme: this.input_[this.ofs_ : this.ofs_+1], Line: line}
		this.ofs_++
		return t
	}

	switch c {
	case '+':
		if next == '=' {
			return two(PLUS_ASSIGN)
		}
		return one(PLUS)
	case '-':
		if next == '=' {
			return two(MINUS_ASSIGN)
		}
		if next == '>' {
			return two(ARROW)
		}
		return one(MINUS)
	case '*':
		return one(MULT)
	case '/':
		return one(DIV)
	case '%':
		return one(MOD)
	case '=':
		if next == '=' {
			return two(EQ)
		}
		return one(ASSIGN)
	case '!':
		if next == '=' {
			return two(NEQ)
		}
		return one(NOT)
	case '<':
		if next == '=' {
			return two(LTE)
		}
		return one(LT)
	case '>':
		if next == '=' {
			return two(GTE)
		}
		return one(GT)
	case '&':
		if next == '&' {
			return two(AND)
		}
	case '|':
		if next == '|' {
			return two(OR)
		}
	case '(':
		return one(LPAREN)
	case ')':
		return one(RPAREN)
	case '{':
		return one(LBRACE)
	case '}':
		return one(RBRACE)
	case '[':
		return one(LBRACKET)
	case ']':
		return one(RBRACKET)
	case ';':
		return one(SEMICOLON)
	case ':':
		return one(COLON)
	case ',':
		return one(COMMA)
	case '.':
		return one(DOT)
	}
	return one(ERROR)
}

// / Tokenize the whole source. The result always ends with a TEOF token.
// / The first ERROR token is reported as a LexicalError.
func Tokenize(source string) ([]Token, error) {
	defer METRIC_RECORD("lex").Stop()

	lexer := NewLexer(source)
	tokens := []Token{}
	for {
		t := lexer.ReadToken()
		tokens = append(tokens, t)
		if t.Kind == ERROR {
			return tokens, NewError(LexicalError, t, "unexpected character '%s'", t.Lexeme)
		}
		if t.Kind == TEOF {
			return tokens, nil
		}
	}
}

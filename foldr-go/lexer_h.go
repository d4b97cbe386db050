package foldr_go

// TokenKind enumerates every kind of token the Lexer can produce.
type TokenKind uint8

const (
	TEOF TokenKind = iota
	ERROR

	// keywords
	FUNC
	LET
	CONST
	IF
	ELSE
	FOR
	WHILE
	RETURN
	IN
	BREAK
	CONTINUE

	// primitive type names; these lex as IDENTIFIER and are never enforced
	INT_TYPE
	FLOAT_TYPE
	STRING_TYPE
	BOOL_TYPE
	ARRAY_TYPE
	VOID_TYPE

	// literals
	NUMBER
	STRING
	TRUE
	FALSE
	IDENTIFIER

	// operators
	PLUS
	MINUS
	MULT
	DIV
	MOD
	ASSIGN
	PLUS_ASSIGN
	MINUS_ASSIGN
	EQ
	NEQ
	LT
	GT
	LTE
	GTE
	AND
	OR
	NOT

	// punctuation
	LPAREN
	RPAREN
	LBRACE
	RBRACE
	LBRACKET
	RBRACKET
	SEMICOLON
	COLON
	COMMA
	ARROW
	DOT
)

var tokenNames_ = [...]string{
	TEOF:         "EOF",
	ERROR:        "ERROR",
	FUNC:         "FUNC",
	LET:          "LET",
	CONST:        "CONST",
	IF:           "IF",
	ELSE:         "ELSE",
	FOR:          "FOR",
	WHILE:        "WHILE",
	RETURN:       "RETURN",
	IN:           "IN",
	BREAK:        "BREAK",
	CONTINUE:     "CONTINUE",
	INT_TYPE:     "INT_TYPE",
	FLOAT_TYPE:   "FLOAT_TYPE",
	STRING_TYPE:  "STRING_TYPE",
	BOOL_TYPE:    "BOOL_TYPE",
	ARRAY_TYPE:   "ARRAY_TYPE",
	VOID_TYPE:    "VOID_TYPE",
	NUMBER:       "NUMBER",
	STRING:       "STRING",
	TRUE:         "TRUE",
	FALSE:        "FALSE",
	IDENTIFIER:   "IDENTIFIER",
	PLUS:         "PLUS",
	MINUS:        "MINUS",
	MULT:         "MULT",
	DIV:          "DIV",
	MOD:          "MOD",
	ASSIGN:       "ASSIGN",
	PLUS_ASSIGN:  "PLUS_ASSIGN",
	MINUS_ASSIGN: "MINUS_ASSIGN",
	EQ:           "EQ",
	NEQ:          "NEQ",
	LT:           "LT",
	GT:           "GT",
	LTE:          "LTE",
	GTE:          "GTE",
	AND:          "AND",
	OR:           "OR",
	NOT:          "NOT",
	LPAREN:       "LPAREN",
	RPAREN:       "RPAREN",
	LBRACE:       "LBRACE",
	RBRACE:       "RBRACE",
	LBRACKET:     "LBRACKET",
	RBRACKET:     "RBRACKET",
	SEMICOLON:    "SEMICOLON",
	COLON:        "COLON",
	COMMA:        "COMMA",
	ARROW:        "ARROW",
	DOT:          "DOT",
}

func (this TokenKind) String() string {
	if int(this) < len(tokenNames_) {
		return tokenNames_[this]
	}
	return "UNKNOWN"
}

// / Return a human-readable form of a token kind, used in error messages
// / such as "expected ')', got '}'".
func TokenName(kind TokenKind) string {
	switch kind {
	case TEOF:
		return "eof"
	case ERROR:
		return "lexing error"
	case NUMBER:
		return "number"
	case STRING:
		return "string"
	case IDENTIFIER:
		return "identifier"
	case PLUS:
		return "'+'"
	case MINUS:
		return "'-'"
	case MULT:
		return "'*'"
	case DIV:
		return "'/'"
	case MOD:
		return "'%'"
	case ASSIGN:
		return "'='"
	case PLUS_ASSIGN:
		return "'+='"
	case MINUS_ASSIGN:
		return "'-='"
	case EQ:
		return "'=='"
	case NEQ:
		return "'!='"
	case LT:
		return "'<'"
	case GT:
		return "'>'"
	case LTE:
		return "'<='"
	case GTE:
		return "'>='"
	case AND:
		return "'&&'"
	case OR:
		return "'||'"
	case NOT:
		return "'!'"
	case LPAREN:
		return "'('"
	case RPAREN:
		return "')'"
	case LBRACE:
		return "'{'"
	case RBRACE:
		return "'}'"
	case LBRACKET:
		return "'['"
	case RBRACKET:
		return "']'"
	case SEMICOLON:
		return "';'"
	case COLON:
		return "':'"
	case COMMA:
		return "','"
	case ARROW:
		return "'->'"
	case DOT:
		return "'.'"
	}
	return "'" + keywordText(kind) + "'"
}

// / Token is one lexeme of the input, tagged with its kind and source line.
type Token struct {
	Kind   TokenKind
	Lexeme string
	Line   int
}

func (this Token) String() string {
	return this.Kind.String() + "(" + this.Lexeme + ")"
}

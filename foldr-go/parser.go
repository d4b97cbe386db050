package foldr_go

import (
	"strconv"
	"strings"
)

// / Parser turns a token sequence into a Program. It stops at the first
// / unexpected token.
type Parser struct {
	tokens_ []Token
	pos_    int
}

func NewParser(tokens []Token) *Parser {
	ret := Parser{}
	ret.tokens_ = tokens
	if len(tokens) == 0 || tokens[len(tokens)-1].Kind != TEOF {
		line := 1
		if len(tokens) > 0 {
			line = tokens[len(tokens)-1].Line
		}
		ret.tokens_ = append(ret.tokens_, Token{Kind: TEOF, Line: line})
	}
	return &ret
}

// / Lex and parse source text.
func ParseSource(source string) (*Program, error) {
	tokens, err := Tokenize(source)
	if err != nil {
		return nil, err
	}
	return NewParser(tokens).Parse()
}

func (this *Parser) Parse() (*Program, error) {
	defer METRIC_RECORD("parse").Stop()

	prog := &Program{}
	for this.peek().Kind != TEOF {
		stmt, err := this.ParseStatement()
		if err != nil {
			return nil, err
		}
		prog.Statements = append(prog.Statements, stmt)
	}
	return prog, nil
}

func (this *Parser) peek() Token {
	return this.tokens_[this.pos_]
}

func (this *Parser) peekAt(n int) Token {
	if this.pos_+n < len(this.tokens_) {
		return this.tokens_[this.pos_+n]
	}
	return this.tokens_[len(this.tokens_)-1]
}

// / Consume and return the current token. TEOF is never consumed.
func (this *Parser) ReadToken() Token {
	t := this.tokens_[this.pos_]
	if t.Kind != TEOF {
		this.pos_++
	}
	return t
}

// / If the next token is of kind, consume it and return true.
func (this *Parser) PeekToken(kind TokenKind) bool {
	if this.peek().Kind == kind {
		this.ReadToken()
		return true
	}
	return false
}

func (this *Parser) ExpectToken(kind TokenKind) (Token, error) {
	t := this.peek()
	if t.Kind != kind {
		return t, this.errorf(t, "expected %s, got %s", TokenName(kind), TokenName(t.Kind))
	}
	return this.ReadToken(), nil
}

func (this *Parser) errorf(t Token, format string, args ...interface{}) error {
	return NewError(SyntaxError, t, format, args...)
}

func (this *Parser) ParseStatement() (Stmt, error) {
	stmt, err := this.parseStatement()
	if err != nil {
		return nil, err
	}
	this.PeekToken(SEMICOLON)
	return stmt, nil
}

func (this *Parser) parseStatement() (Stmt, error) {
	t := this.peek()
	switch t.Kind {
	case BREAK:
		return &BreakStmt{Tok: this.ReadToken()}, nil
	case CONTINUE:
		return &ContinueStmt{Tok: this.ReadToken()}, nil
	case WHILE:
		return this.ParseWhile()
	case FUNC:
		return this.ParseFunc()
	case LET, CONST:
		return this.ParseVarDecl()
	case IF:
		return this.ParseIf()
	case FOR:
		return this.ParseFor()
	case RETURN:
		return this.ParseReturn()
	case IDENTIFIER:
		switch this.peekAt(1).Kind {
		case ASSIGN, PLUS_ASSIGN, MINUS_ASSIGN:
			return this.ParseAssign()
		case LPAREN:
			call, err := this.parseCall()
			if err != nil {
				return nil, err
			}
			return &ExprStmt{Call: call}, nil
		}
		next := this.peekAt(1)
		return nil, this.errorf(next, "expected assignment or call after '%s', got %s", t.Lexeme, TokenName(next.Kind))
	case TEOF:
		return nil, this.errorf(t, "unexpected end of input")
	}
	return nil, this.errorf(t, "unexpected %s", TokenName(t.Kind))
}

// / Parse '{' statement* '}'.
func (this *Parser) ParseBlock() (*Block, error) {
	open, err := this.ExpectToken(LBRACE)
	if err != nil {
		return nil, err
	}
	block := &Block{Tok: open}
	for !this.PeekToken(RBRACE) {
		if this.peek().Kind == TEOF {
			return nil, this.errorf(this.peek(), "expected '}' to close block opened on line %d", open.Line)
		}
		stmt, err := this.ParseStatement()
		if err != nil {
			return nil, err
		}
		block.Statements = append(block.Statements, stmt)
	}
	return block, nil
}

// / Parse '(' expr ')'.
func (this *Parser) parseCondition() (Expr, error) {
	if _, err := this.ExpectToken(LPAREN); err != nil {
		return nil, err
	}
	cond, err := this.ParseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := this.ExpectToken(RPAREN); err != nil {
		return nil, err
	}
	return cond, nil
}

func (this *Parser) ParseWhile() (Stmt, error) {
	stmt := &WhileStmt{Tok: this.ReadToken()}
	var err error
	if stmt.Cond, err = this.parseCondition(); err != nil {
		return nil, err
	}
	if stmt.Body, err = this.ParseBlock(); err != nil {
		return nil, err
	}
	return stmt, nil
}

func (this *Parser) ParseIf() (Stmt, error) {
	stmt := &IfStmt{Tok: this.ReadToken()}
	var err error
	if stmt.Cond, err = this.parseCondition(); err != nil {
		return nil, err
	}
	if stmt.Then, err = this.ParseBlock(); err != nil {
		return nil, err
	}
	if this.PeekToken(ELSE) {
		if stmt.Else, err = this.ParseBlock(); err != nil {
			return nil, err
		}
	}
	return stmt, nil
}

// / Parse 'for' '(' name 'in' expr ')' block.
func (this *Parser) ParseFor() (Stmt, error) {
	stmt := &ForStmt{Tok: this.ReadToken()}
	if _, err := this.ExpectToken(LPAREN); err != nil {
		return nil, err
	}
	name, err := this.ExpectToken(IDENTIFIER)
	if err != nil {
		return nil, err
	}
	stmt.Var = name.Lexeme
	if _, err := this.ExpectToken(IN); err != nil {
		return nil, err
	}
	if stmt.Iterable, err = this.ParseExpression(); err != nil {
		return nil, err
	}
	if _, err := this.ExpectToken(RPAREN); err != nil {
		return nil, err
	}
	if stmt.Body, err = this.ParseBlock(); err != nil {
		return nil, err
	}
	return stmt, nil
}

func (this *Parser) ParseReturn() (Stmt, error) {
	stmt := &ReturnStmt{Tok: this.ReadToken()}
	switch this.peek().Kind {
	case SEMICOLON, RBRACE, TEOF:
		return stmt, nil
	}
	var err error
	if stmt.Value, err = this.ParseExpression(); err != nil {
		return nil, err
	}
	return stmt, nil
}

// / Type annotations accept a type name or any identifier and are not
// / checked.
func (this *Parser) parseTypeName() (string, error) {
	t := this.peek()
	if t.Kind != IDENTIFIER {
		return "", this.errorf(t, "expected type name, got %s", TokenName(t.Kind))
	}
	this.ReadToken()
	return t.Lexeme, nil
}

// / Parse 'func' name '(' params ')' ('->' type)? block.
func (this *Parser) ParseFunc() (Stmt, error) {
	decl := &FuncDecl{Tok: this.ReadToken()}
	name, err := this.ExpectToken(IDENTIFIER)
	if err != nil {
		return nil, this.errorf(name, "expected function name, got %s", TokenName(name.Kind))
	}
	decl.Name = name.Lexeme
	if _, err := this.ExpectToken(LPAREN); err != nil {
		return nil, err
	}
	if !this.PeekToken(RPAREN) {
		for {
			pname, err := this.ExpectToken(IDENTIFIER)
			if err != nil {
				return nil, this.errorf(pname, "expected parameter name, got %s", TokenName(pname.Kind))
			}
			param := Param{Name: pname}
			if this.PeekToken(COLON) {
				if param.TypeName, err = this.parseTypeName(); err != nil {
					return nil, err
				}
			}
			decl.Params = append(decl.Params, param)
			if this.PeekToken(RPAREN) {
				break
			}
			if _, err := this.ExpectToken(COMMA); err != nil {
				return nil, err
			}
		}
	}
	if this.PeekToken(ARROW) {
		if decl.ReturnType, err = this.parseTypeName(); err != nil {
			return nil, err
		}
	}
	if decl.Body, err = this.ParseBlock(); err != nil {
		return nil, err
	}
	return decl, nil
}

// / Parse ('let' | 'const') name (':' type)? '=' expr.
func (this *Parser) ParseVarDecl() (Stmt, error) {
	kw := this.ReadToken()
	decl := &VarDecl{Tok: kw, Const: kw.Kind == CONST}
	name, err := this.ExpectToken(IDENTIFIER)
	if err != nil {
		return nil, this.errorf(name, "expected variable name, got %s", TokenName(name.Kind))
	}
	decl.Name = name.Lexeme
	if this.PeekToken(COLON) {
		if decl.TypeName, err = this.parseTypeName(); err != nil {
			return nil, err
		}
	}
	if _, err := this.ExpectToken(ASSIGN); err != nil {
		return nil, err
	}
	if decl.Init, err = this.ParseExpression(); err != nil {
		return nil, err
	}
	return decl, nil
}

func (this *Parser) ParseAssign() (Stmt, error) {
	name := this.ReadToken()
	stmt := &AssignStmt{Tok: name, Name: name.Lexeme, Op: this.ReadToken()}
	var err error
	if stmt.Value, err = this.ParseExpression(); err != nil {
		return nil, err
	}
	return stmt, nil
}

func isBinaryOperator(kind TokenKind) bool {
	switch kind {
	case PLUS, MINUS, MULT, DIV, MOD, EQ, NEQ, LT, GT, LTE, GTE, AND, OR:
		return true
	}
	return false
}

// / Binary operators share one precedence level and associate to the left.
func (this *Parser) ParseExpression() (Expr, error) {
	left, err := this.ParsePrimary()
	if err != nil {
		return nil, err
	}
	for isBinaryOperator(this.peek().Kind) {
		op := this.ReadToken()
		right, err := this.ParsePrimary()
		if err != nil {
			return nil, err
		}
		left = &BinaryExpr{Op: op, Left: left, Right: right}
	}
	return left, nil
}

func (this *Parser) ParsePrimary() (Expr, error) {
	t := this.peek()
	switch t.Kind {
	case NUMBER:
		this.ReadToken()
		return parseNumber(t)
	case STRING:
		this.ReadToken()
		return &Literal{Tok: t, Value: StringValue(t.Lexeme)}, nil
	case TRUE, FALSE:
		this.ReadToken()
		return &Literal{Tok: t, Value: BoolValue(t.Kind == TRUE)}, nil
	case NOT, MINUS:
		op := this.ReadToken()
		operand, err := this.ParsePrimary()
		if err != nil {
			return nil, err
		}
		return &UnaryExpr{Op: op, Operand: operand}, nil
	case LPAREN:
		this.ReadToken()
		e, err := this.ParseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := this.ExpectToken(RPAREN); err != nil {
			return nil, err
		}
		return e, nil
	case LBRACKET:
		return this.parseArray()
	case IDENTIFIER:
		switch this.peekAt(1).Kind {
		case LPAREN:
			return this.parseCall()
		case LBRACKET:
			this.ReadToken()
			this.ReadToken()
			index, err := this.ParseExpression()
			if err != nil {
				return nil, err
			}
			if _, err := this.ExpectToken(RBRACKET); err != nil {
				return nil, err
			}
			return &IndexExpr{Tok: t, Name: t.Lexeme, Index: index}, nil
		}
		this.ReadToken()
		return &Identifier{Tok: t, Name: t.Lexeme}, nil
	case TEOF:
		return nil, this.errorf(t, "expected expression, got end of input")
	}
	return nil, this.errorf(t, "expected expression, got %s", TokenName(t.Kind))
}

func (this *Parser) parseArray() (Expr, error) {
	arr := &ArrayLiteral{Tok: this.ReadToken()}
	if this.PeekToken(RBRACKET) {
		return arr, nil
	}
	for {
		e, err := this.ParseExpression()
		if err != nil {
			return nil, err
		}
		arr.Elements = append(arr.Elements, e)
		if this.PeekToken(RBRACKET) {
			return arr, nil
		}
		if _, err := this.ExpectToken(COMMA); err != nil {
			return nil, err
		}
	}
}

// / Parse name '(' (expr (',' expr)*)? ')'.
func (this *Parser) parseCall() (*CallExpr, error) {
	name := this.ReadToken()
	call := &CallExpr{Tok: name, Name: name.Lexeme}
	if _, err := this.ExpectToken(LPAREN); err != nil {
		return nil, err
	}
	if this.PeekToken(RPAREN) {
		return call, nil
	}
	for {
		e, err := this.ParseExpression()
		if err != nil {
			return nil, err
		}
		call.Args = append(call.Args, e)
		if this.PeekToken(RPAREN) {
			return call, nil
		}
		if _, err := this.ExpectToken(COMMA); err != nil {
			return nil, err
		}
	}
}

func parseNumber(t Token) (Expr, error) {
	if strings.Contains(t.Lexeme, ".") {
		return &Literal{Tok: t, Value: FloatValue(Atof(t.Lexeme))}, nil
	}
	n, err := strconv.ParseInt(t.Lexeme, 10, 64)
	if err != nil {
		return nil, NewError(SyntaxError, t, "integer literal out of range")
	}
	return &Literal{Tok: t, Value: IntValue(n)}, nil
}

package foldr_go

// / Node is any element of the syntax tree. Pos returns the token that
// / introduced the node; runtime errors report it.
type Node interface {
	Pos() Token
}

// / Stmt is a node that can appear in a statement list.
type Stmt interface {
	Node
	stmtNode()
}

// / Expr is a node that produces a Value.
type Expr interface {
	Node
	exprNode()
}

// / Program is the root of a parsed source file.
type Program struct {
	Statements []Stmt
}

// / Block is a braced statement list.
type Block struct {
	Tok        Token
	Statements []Stmt
}

type Param struct {
	Name     Token
	TypeName string
}

type FuncDecl struct {
	Tok        Token
	Name       string
	Params     []Param
	ReturnType string
	Body       *Block
}

type VarDecl struct {
	Tok      Token
	Name     string
	TypeName string
	Const    bool
	Init     Expr
}

type IfStmt struct {
	Tok  Token
	Cond Expr
	Then *Block
	Else *Block
}

type ForStmt struct {
	Tok      Token
	Var      string
	Iterable Expr
	Body     *Block
}

type WhileStmt struct {
	Tok  Token
	Cond Expr
	Body *Block
}

type ReturnStmt struct {
	Tok   Token
	Value Expr // nil for a bare return
}

type BreakStmt struct {
	Tok Token
}

type ContinueStmt struct {
	Tok Token
}

// / AssignStmt covers '=', '+=' and '-='; Op is the operator token.
type AssignStmt struct {
	Tok   Token
	Name  string
	Op    Token
	Value Expr
}

// / ExprStmt is a call evaluated for its effects.
type ExprStmt struct {
	Call *CallExpr
}

type BinaryExpr struct {
	Op    Token
	Left  Expr
	Right Expr
}

type UnaryExpr struct {
	Op      Token
	Operand Expr
}

type CallExpr struct {
	Tok  Token
	Name string
	Args []Expr
}

// / Literal holds a number, string or boolean constant, converted at parse
// / time.
type Literal struct {
	Tok   Token
	Value Value
}

type Identifier struct {
	Tok  Token
	Name string
}

type ArrayLiteral struct {
	Tok      Token
	Elements []Expr
}

type IndexExpr struct {
	Tok   Token
	Name  string
	Index Expr
}

func (this *Block) Pos() Token        { return this.Tok }
func (this *FuncDecl) Pos() Token     { return this.Tok }
func (this *VarDecl) Pos() Token      { return this.Tok }
func (this *IfStmt) Pos() Token       { return this.Tok }
func (this *ForStmt) Pos() Token      { return this.Tok }
func (this *WhileStmt) Pos() Token    { return this.Tok }
func (this *ReturnStmt) Pos() Token   { return this.Tok }
func (this *BreakStmt) Pos() Token    { return this.Tok }
func (this *ContinueStmt) Pos() Token { return this.Tok }
func (this *AssignStmt) Pos() Token   { return this.Tok }
func (this *ExprStmt) Pos() Token     { return this.Call.Tok }
func (this *BinaryExpr) Pos() Token   { return this.Op }
func (this *UnaryExpr) Pos() Token    { return this.Op }
func (this *CallExpr) Pos() Token     { return this.Tok }
func (this *Literal) Pos() Token      { return this.Tok }
func (this *Identifier) Pos() Token   { return this.Tok }
func (this *ArrayLiteral) Pos() Token { return this.Tok }
func (this *IndexExpr) Pos() Token    { return this.Tok }

func (*FuncDecl) stmtNode()     {}
func (*VarDecl) stmtNode()      {}
func (*IfStmt) stmtNode()       {}
func (*ForStmt) stmtNode()      {}
func (*WhileStmt) stmtNode()    {}
func (*ReturnStmt) stmtNode()   {}
func (*BreakStmt) stmtNode()    {}
func (*ContinueStmt) stmtNode() {}
func (*AssignStmt) stmtNode()   {}
func (*ExprStmt) stmtNode()     {}

func (*BinaryExpr) exprNode()   {}
func (*UnaryExpr) exprNode()    {}
func (*CallExpr) exprNode()     {}
func (*Literal) exprNode()      {}
func (*Identifier) exprNode()   {}
func (*ArrayLiteral) exprNode() {}
func (*IndexExpr) exprNode()    {}

// / Walk calls f for every statement in stmts and in the blocks nested
// / below them, parents before children.
func Walk(stmts []Stmt, f func(Stmt)) {
	for _, s := range stmts {
		f(s)
		switch n := s.(type) {
		case *FuncDecl:
			Walk(n.Body.Statements, f)
		case *IfStmt:
			Walk(n.Then.Statements, f)
			if n.Else != nil {
				Walk(n.Else.Statements, f)
			}
		case *WhileStmt:
			Walk(n.Body.Statements, f)
		case *ForStmt:
			Walk(n.Body.Statements, f)
		}
	}
}

// / Functions returns every function declaration in source order,
// / including nested ones.
func (this *Program) Functions() []*FuncDecl {
	ret := []*FuncDecl{}
	Walk(this.Statements, func(s Stmt) {
		if fn, ok := s.(*FuncDecl); ok {
			ret = append(ret, fn)
		}
	})
	return ret
}

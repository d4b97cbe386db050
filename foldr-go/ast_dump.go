package foldr_go

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// / Serialize renders a node as a compact S-expression. Used by tests and
// / the ast tool.
func Serialize(n Node) string {
	var b strings.Builder
	serialize(&b, n)
	return b.String()
}

func serializeBlock(b *strings.Builder, stmts []Stmt) {
	b.WriteString("(block")
	for _, s := range stmts {
		b.WriteByte(' ')
		serialize(b, s)
	}
	b.WriteByte(')')
}

func serialize(b *strings.Builder, n Node) {
	switch x := n.(type) {
	case *Block:
		serializeBlock(b, x.Statements)
	case *FuncDecl:
		params := make([]string, len(x.Params))
		for i, p := range x.Params {
			params[i] = p.Name.Lexeme
		}
		fmt.Fprintf(b, "(func %s (%s) ", x.Name, strings.Join(params, " "))
		serializeBlock(b, x.Body.Statements)
		b.WriteByte(')')
	case *VarDecl:
		kw := "let"
		if x.Const {
			kw = "const"
		}
		fmt.Fprintf(b, "(%s %s ", kw, x.Name)
		serialize(b, x.Init)
		b.WriteByte(')')
	case *IfStmt:
		b.WriteString("(if ")
		serialize(b, x.Cond)
		b.WriteByte(' ')
		serializeBlock(b, x.Then.Statements)
		if x.Else != nil {
			b.WriteByte(' ')
			serializeBlock(b, x.Else.Statements)
		}
		b.WriteByte(')')
	case *ForStmt:
		fmt.Fprintf(b, "(for %s ", x.Var)
		serialize(b, x.Iterable)
		b.WriteByte(' ')
		serializeBlock(b, x.Body.Statements)
		b.WriteByte(')')
	case *WhileStmt:
		b.WriteString("(while ")
		serialize(b, x.Cond)
		b.WriteByte(' ')
		serializeBlock(b, x.Body.Statements)
		b.WriteByte(')')
	case *ReturnStmt:
		b.WriteString("(return")
		if x.Value != nil {
			b.WriteByte(' ')
			serialize(b, x.Value)
		}
		b.WriteByte(')')
	case *BreakStmt:
		b.WriteString("(break)")
	case *ContinueStmt:
		b.WriteString("(continue)")
	case *AssignStmt:
		fmt.Fprintf(b, "(%s %s ", x.Op.Lexeme, x.Name)
		serialize(b, x.Value)
		b.WriteByte(')')
	case *ExprStmt:
		serialize(b, x.Call)
	case *BinaryExpr:
		fmt.Fprintf(b, "(%s ", x.Op.Lexeme)
		serialize(b, x.Left)
		b.WriteByte(' ')
		serialize(b, x.Right)
		b.WriteByte(')')
	case *UnaryExpr:
		fmt.Fprintf(b, "(%s ", x.Op.Lexeme)
		serialize(b, x.Operand)
		b.WriteByte(')')
	case *CallExpr:
		fmt.Fprintf(b, "(call %s", x.Name)
		for _, a := range x.Args {
			b.WriteByte(' ')
			serialize(b, a)
		}
		b.WriteByte(')')
	case *Literal:
		if s, ok := x.Value.(StringValue); ok {
			b.WriteString(strconv.Quote(string(s)))
		} else {
			b.WriteString(ValueText(x.Value))
		}
	case *Identifier:
		b.WriteString(x.Name)
	case *ArrayLiteral:
		b.WriteString("[")
		for i, e := range x.Elements {
			if i > 0 {
				b.WriteByte(' ')
			}
			serialize(b, e)
		}
		b.WriteString("]")
	case *IndexExpr:
		fmt.Fprintf(b, "(index %s ", x.Name)
		serialize(b, x.Index)
		b.WriteByte(')')
	default:
		panic(fmt.Sprintf("unknown node type %T", n))
	}
}

// / DumpProgram writes one serialized top-level statement per line.
func DumpProgram(w io.Writer, prog *Program) {
	for _, s := range prog.Statements {
		fmt.Fprintf(w, "%4d  %s\n", s.Pos().Line, Serialize(s))
	}
}

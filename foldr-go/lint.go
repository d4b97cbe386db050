package foldr_go

import "fmt"

// / Warning is one lint finding. Flag names the -w family it belongs to.
type Warning struct {
	Flag string
	Tok  Token
	Msg  string
}

const (
	kWarnShadow = "shadow"
	kWarnTypes  = "types"
)

func (this Warning) String() string {
	return fmt.Sprintf("line %d: %s", this.Tok.Line, this.Msg)
}

// / Lint reports declarations that parse fine but cannot behave as
// / written: functions hidden by a built-in or an earlier top-level
// / declaration, and unknown type annotations.
func Lint(prog *Program) []Warning {
	warnings := []Warning{}
	checkType := func(tok Token, name string) {
		if name == "" {
			return
		}
		if _, ok := typeNames_[name]; !ok {
			warnings = append(warnings, Warning{kWarnTypes, tok, fmt.Sprintf("unknown type '%s'", name)})
		}
	}

	seen := map[string]*FuncDecl{}
	for _, s := range prog.Statements {
		if fn, ok := s.(*FuncDecl); ok {
			if first, dup := seen[fn.Name]; dup {
				warnings = append(warnings, Warning{kWarnShadow, fn.Tok,
					fmt.Sprintf("function '%s' redeclared; the declaration on line %d is used", fn.Name, first.Tok.Line)})
			} else {
				seen[fn.Name] = fn
			}
		}
	}

	Walk(prog.Statements, func(s Stmt) {
		switch n := s.(type) {
		case *FuncDecl:
			if IsBuiltin(n.Name) {
				warnings = append(warnings, Warning{kWarnShadow, n.Tok,
					fmt.Sprintf("function '%s' is shadowed by a built-in and can never be called", n.Name)})
			}
			for _, p := range n.Params {
				checkType(p.Name, p.TypeName)
			}
			checkType(n.Tok, n.ReturnType)
		case *VarDecl:
			checkType(n.Tok, n.TypeName)
		}
	})
	return warnings
}

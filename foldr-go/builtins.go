package foldr_go

import (
	"io"
	"strings"

	"github.com/ahrtr/gocontainer/set"
)

type builtinFunc func(*Evaluator, *CallExpr, *Environment) (Value, error)

// In resolution order.
var builtinNames_ = []string{"input", "print", "str", "int", "len"}

var builtinSet_ = set.New()

func init() {
	for _, name := range builtinNames_ {
		builtinSet_.Add(name)
	}
}

func BuiltinNames() []string {
	return append([]string(nil), builtinNames_...)
}

// / IsBuiltin reports whether calls to name always reach a built-in.
func IsBuiltin(name string) bool {
	return builtinSet_.Contains(name)
}

func lookupBuiltin(name string) builtinFunc {
	switch name {
	case "input":
		return builtinInput
	case "print":
		return builtinPrint
	case "str":
		return builtinStr
	case "int":
		return builtinInt
	case "len":
		return builtinLen
	}
	return nil
}

// / input(prompt?) writes a String prompt, then reads one line from stdin
// / without its trailing newline. EOF yields "".
func builtinInput(this *Evaluator, n *CallExpr, env *Environment) (Value, error) {
	if len(n.Args) >= 1 {
		prompt, err := this.Eval(n.Args[0], env)
		if err != nil {
			return nil, err
		}
		if s, ok := prompt.(StringValue); ok {
			this.out_.WriteString(string(s))
		}
	}
	if err := this.out_.Flush(); err != nil {
		return nil, err
	}
	line, err := this.in_.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return StringValue(""), nil
	}
	return StringValue(strings.TrimSuffix(line, "\n")), nil
}

// / print(args...) writes each argument's text form and a newline.
func builtinPrint(this *Evaluator, n *CallExpr, env *Environment) (Value, error) {
	for _, a := range n.Args {
		v, err := this.Eval(a, env)
		if err != nil {
			return nil, err
		}
		this.out_.WriteString(ValueText(v))
	}
	this.out_.WriteByte('\n')
	return Null, nil
}

// Evaluates the first argument of a one-argument built-in; extra
// arguments are ignored and not evaluated.
func firstArg(this *Evaluator, n *CallExpr, env *Environment) (Value, error) {
	if len(n.Args) == 0 {
		return nil, NewError(ArityMismatch, n.Tok, "%s() takes 1 argument, got 0", n.Name)
	}
	return this.Eval(n.Args[0], env)
}

func builtinStr(this *Evaluator, n *CallExpr, env *Environment) (Value, error) {
	v, err := firstArg(this, n, env)
	if err != nil {
		return nil, err
	}
	if s, ok := v.(StringValue); ok {
		return s, nil
	}
	return StringValue(ValueText(v)), nil
}

func builtinInt(this *Evaluator, n *CallExpr, env *Environment) (Value, error) {
	v, err := firstArg(this, n, env)
	if err != nil {
		return nil, err
	}
	switch x := v.(type) {
	case StringValue:
		return IntValue(Atoi(string(x))), nil
	case FloatValue:
		return IntValue(truncFloat(float64(x))), nil
	}
	return v, nil
}

func builtinLen(this *Evaluator, n *CallExpr, env *Environment) (Value, error) {
	v, err := firstArg(this, n, env)
	if err != nil {
		return nil, err
	}
	if arr, ok := v.(ArrayValue); ok {
		return IntValue(len(arr)), nil
	}
	return IntValue(0), nil
}

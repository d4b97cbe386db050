package foldr_go

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/edwingeng/deque"
)

// / Signal tells the enclosing construct how a statement completed.
type Signal int8

const (
	NORMAL Signal = iota
	RETURNED
	BROKE
	CONTINUED
)

// / Outcome is the result of executing a statement. Value is set only for
// / RETURNED.
type Outcome struct {
	Signal Signal
	Value  Value
}

var normalOutcome = Outcome{Signal: NORMAL}

const kDefaultMaxCallDepth = 10000

// / Tracer receives call entry and exit events when tracing is enabled.
type Tracer interface {
	Trace(depth int, format string, args ...interface{})
}

type EvalOptions struct {
	/// Reproduce the silent failure modes of the reference interpreter.
	Legacy bool

	/// Maximum nesting of user function calls; 0 means the default.
	MaxCallDepth int

	/// Optional call tracer (-d trace).
	Tracer Tracer
}

type callFrame struct {
	name string
	tok  Token
}

// / Evaluator walks a Program. It keeps no control-flow state between
// / statements: every Exec returns an Outcome.
type Evaluator struct {
	options_   EvalOptions
	in_        *bufio.Reader
	out_       *bufio.Writer
	frames_    deque.Deque
	interrupt_ *Interrupter
}

func NewEvaluator(stdin io.Reader, stdout io.Writer, options EvalOptions) *Evaluator {
	ret := Evaluator{}
	ret.options_ = options
	if ret.options_.MaxCallDepth <= 0 {
		ret.options_.MaxCallDepth = kDefaultMaxCallDepth
	}
	ret.in_ = bufio.NewReader(stdin)
	ret.out_ = bufio.NewWriter(stdout)
	ret.frames_ = deque.NewDeque()
	ret.interrupt_ = NewInterrupter()
	return &ret
}

func (this *Evaluator) Interrupter() *Interrupter { return this.interrupt_ }

// / Run executes the program's top-level statements against env. A
// / top-level return, break or continue ends the program normally.
func (this *Evaluator) Run(prog *Program, env *Environment) error {
	defer METRIC_RECORD("eval").Stop()
	_, err := this.ExecBlock(prog.Statements, env)
	if ferr := this.out_.Flush(); err == nil && ferr != nil {
		err = ferr
	}
	return err
}

func (this *Evaluator) ExecBlock(stmts []Stmt, env *Environment) (Outcome, error) {
	for _, s := range stmts {
		out, err := this.Exec(s, env)
		if err != nil || out.Signal != NORMAL {
			return out, err
		}
	}
	return normalOutcome, nil
}

// / Attach tok to an error raised without position information.
func at(err error, tok Token) error {
	var e *Error
	if errors.As(err, &e) && e.Tok == (Token{}) {
		e.Tok = tok
	}
	return err
}

func (this *Evaluator) Exec(stmt Stmt, env *Environment) (Outcome, error) {
	switch n := stmt.(type) {
	case *FuncDecl:
		env.AddFunction(NewFunction(n))
		return normalOutcome, nil

	case *VarDecl:
		v, err := this.Eval(n.Init, env)
		if err != nil {
			return normalOutcome, err
		}
		return normalOutcome, at(env.DeclareVariable(n.Name, v, n.Const), n.Tok)

	case *AssignStmt:
		return normalOutcome, this.execAssign(n, env)

	case *IfStmt:
		cond, err := this.Eval(n.Cond, env)
		if err != nil {
			return normalOutcome, err
		}
		if Truthy(cond) {
			return this.ExecBlock(n.Then.Statements, env)
		}
		if n.Else != nil {
			return this.ExecBlock(n.Else.Statements, env)
		}
		return normalOutcome, nil

	case *WhileStmt:
		for {
			if err := this.interrupt_.Check(n.Tok); err != nil {
				return normalOutcome, err
			}
			cond, err := this.Eval(n.Cond, env)
			if err != nil {
				return normalOutcome, err
			}
			if !Truthy(cond) {
				return normalOutcome, nil
			}
			out, err := this.ExecBlock(n.Body.Statements, env)
			if err != nil || out.Signal == RETURNED {
				return out, err
			}
			if out.Signal == BROKE {
				return normalOutcome, nil
			}
		}

	case *ForStmt:
		iterable, err := this.Eval(n.Iterable, env)
		if err != nil {
			return normalOutcome, err
		}
		arr, ok := iterable.(ArrayValue)
		if !ok {
			return normalOutcome, nil
		}
		for _, elem := range arr {
			if err := this.interrupt_.Check(n.Tok); err != nil {
				return normalOutcome, err
			}
			if err := env.SetVariable(n.Var, elem); err != nil {
				return normalOutcome, at(err, n.Tok)
			}
			out, err := this.ExecBlock(n.Body.Statements, env)
			if err != nil || out.Signal == RETURNED {
				return out, err
			}
			if out.Signal == BROKE {
				return normalOutcome, nil
			}
		}
		return normalOutcome, nil

	case *ReturnStmt:
		if n.Value == nil {
			return Outcome{Signal: RETURNED, Value: Null}, nil
		}
		v, err := this.Eval(n.Value, env)
		if err != nil {
			return normalOutcome, err
		}
		return Outcome{Signal: RETURNED, Value: v}, nil

	case *BreakStmt:
		return Outcome{Signal: BROKE}, nil

	case *ContinueStmt:
		return Outcome{Signal: CONTINUED}, nil

	case *ExprStmt:
		_, err := this.Eval(n.Call, env)
		return normalOutcome, err
	}
	panic(fmt.Sprintf("unknown statement type %T", stmt))
}

func (this *Evaluator) execAssign(n *AssignStmt, env *Environment) error {
	rhs, err := this.Eval(n.Value, env)
	if err != nil {
		return err
	}
	if n.Op.Kind == ASSIGN {
		return at(env.SetVariable(n.Name, rhs), n.Tok)
	}

	op := PLUS
	if n.Op.Kind == MINUS_ASSIGN {
		op = MINUS
	}
	cur := env.FindVariable(n.Name)
	var result Value
	switch {
	case this.options_.Legacy && cur == nil:
		result = rhs
	case this.options_.Legacy:
		a, b := legacyInt(cur.Value), legacyInt(rhs)
		if op == PLUS {
			result = IntValue(a + b)
		} else {
			result = IntValue(a - b)
		}
	case cur == nil:
		return NewError(UndefinedVariable, n.Tok, "undefined variable '%s'", n.Name)
	default:
		opTok := Token{Kind: op, Lexeme: n.Op.Lexeme[:1], Line: n.Op.Line}
		if result, err = this.binary(opTok, cur.Value, rhs); err != nil {
			return err
		}
	}
	return at(env.SetVariable(n.Name, result), n.Tok)
}

func (this *Evaluator) Eval(expr Expr, env *Environment) (Value, error) {
	switch n := expr.(type) {
	case *Literal:
		if b, ok := n.Value.(BoolValue); ok && this.options_.Legacy {
			if b {
				return IntValue(1), nil
			}
			return IntValue(0), nil
		}
		return n.Value, nil

	case *Identifier:
		if v := env.FindVariable(n.Name); v != nil {
			return v.Value, nil
		}
		if this.options_.Legacy {
			return Null, nil
		}
		return nil, NewError(UndefinedVariable, n.Tok, "undefined variable '%s'", n.Name)

	case *ArrayLiteral:
		arr := make(ArrayValue, 0, len(n.Elements))
		for _, e := range n.Elements {
			v, err := this.Eval(e, env)
			if err != nil {
				return nil, err
			}
			arr = append(arr, v)
		}
		return arr, nil

	case *IndexExpr:
		return this.evalIndex(n, env)

	case *UnaryExpr:
		v, err := this.Eval(n.Operand, env)
		if err != nil {
			return nil, err
		}
		return this.unary(n.Op, v)

	case *BinaryExpr:
		left, err := this.Eval(n.Left, env)
		if err != nil {
			return nil, err
		}
		if this.options_.Legacy && (n.Op.Kind == AND || n.Op.Kind == OR) {
			// Both sides run for their effects; the result is never true.
			if _, err := this.Eval(n.Right, env); err != nil {
				return nil, err
			}
			return Null, nil
		}
		switch n.Op.Kind {
		case AND:
			if !Truthy(left) {
				return BoolValue(false), nil
			}
		case OR:
			if Truthy(left) {
				return BoolValue(true), nil
			}
		}
		right, err := this.Eval(n.Right, env)
		if err != nil {
			return nil, err
		}
		return this.binary(n.Op, left, right)

	case *CallExpr:
		return this.call(n, env)
	}
	panic(fmt.Sprintf("unknown expression type %T", expr))
}

func (this *Evaluator) evalIndex(n *IndexExpr, env *Environment) (Value, error) {
	legacy := this.options_.Legacy
	v := env.FindVariable(n.Name)
	if v == nil {
		if legacy {
			return Null, nil
		}
		return nil, NewError(UndefinedVariable, n.Tok, "undefined variable '%s'", n.Name)
	}
	arr, ok := v.Value.(ArrayValue)
	if !ok {
		if legacy {
			return Null, nil
		}
		return nil, NewError(TypeMismatch, n.Tok, "cannot index %s '%s'", v.Value.Kind(), n.Name)
	}
	idx, err := this.Eval(n.Index, env)
	if err != nil {
		return nil, err
	}
	i, ok := idx.(IntValue)
	if !ok {
		if legacy {
			return Null, nil
		}
		return nil, NewError(TypeMismatch, n.Index.Pos(), "array index must be Int, got %s", idx.Kind())
	}
	if i < 0 || int64(i) >= int64(len(arr)) {
		if legacy {
			return Null, nil
		}
		return nil, NewError(IndexOutOfRange, n.Index.Pos(), "index %d out of range for '%s' of length %d", i, n.Name, len(arr))
	}
	return arr[i], nil
}

func (this *Evaluator) unary(op Token, v Value) (Value, error) {
	if op.Kind == NOT {
		return BoolValue(!Truthy(v)), nil
	}
	switch x := v.(type) {
	case IntValue:
		if x == math.MinInt64 && !this.options_.Legacy {
			return nil, NewError(IntegerOverflow, op, "integer overflow")
		}
		return -x, nil
	case FloatValue:
		return -x, nil
	}
	if this.options_.Legacy {
		return IntValue(-legacyInt(v)), nil
	}
	return nil, NewError(TypeMismatch, op, "bad operand type for unary -: %s", v.Kind())
}

func (this *Evaluator) binary(op Token, left, right Value) (Value, error) {
	switch op.Kind {
	case AND, OR:
		if op.Kind == AND {
			return BoolValue(Truthy(left) && Truthy(right)), nil
		}
		return BoolValue(Truthy(left) || Truthy(right)), nil
	case PLUS:
		if l, ok := left.(IntValue); ok {
			if r, ok := right.(IntValue); ok {
				return this.intArith(op, int64(l), int64(r))
			}
		}
		if left.Kind() == KindString || right.Kind() == KindString {
			return StringValue(ValueText(left) + ValueText(right)), nil
		}
		if this.options_.Legacy {
			return FloatValue(legacyFloat(left) + legacyFloat(right)), nil
		}
		if isNumeric(left) && isNumeric(right) {
			return FloatValue(toFloat(left) + toFloat(right)), nil
		}
		return nil, this.operandError(op, left, right)
	case MINUS, MULT, DIV, MOD:
		if this.options_.Legacy {
			return this.intArith(op, legacyInt(left), legacyInt(right))
		}
		if l, ok := left.(IntValue); ok {
			if r, ok := right.(IntValue); ok {
				return this.intArith(op, int64(l), int64(r))
			}
		}
		if isNumeric(left) && isNumeric(right) {
			return floatArith(op, toFloat(left), toFloat(right))
		}
		return nil, this.operandError(op, left, right)
	case EQ:
		if this.options_.Legacy {
			return BoolValue(legacyInt(left) == legacyInt(right)), nil
		}
		return BoolValue(Equal(left, right)), nil
	case NEQ:
		if this.options_.Legacy {
			return BoolValue(legacyInt(left) != legacyInt(right)), nil
		}
		return BoolValue(!Equal(left, right)), nil
	case LT, GT, LTE, GTE:
		return this.compare(op, left, right)
	}
	panic(fmt.Sprintf("unknown binary operator %s", op.Kind))
}

func (this *Evaluator) operandError(op Token, left, right Value) error {
	return NewError(TypeMismatch, op, "unsupported operand types for %s: %s and %s", op.Lexeme, left.Kind(), right.Kind())
}

func (this *Evaluator) intArith(op Token, a, b int64) (Value, error) {
	var r int64
	ok := true
	switch op.Kind {
	case PLUS:
		r, ok = addInt64(a, b)
	case MINUS:
		r, ok = subInt64(a, b)
	case MULT:
		r, ok = mulInt64(a, b)
	case DIV, MOD:
		if b == 0 {
			return nil, NewError(ZeroDivision, op, "division by zero")
		}
		if op.Kind == DIV {
			r, ok = divInt64(a, b)
		} else if b == -1 {
			r = 0
		} else {
			r = a % b
		}
	}
	if !ok && !this.options_.Legacy {
		return nil, NewError(IntegerOverflow, op, "integer overflow")
	}
	return IntValue(r), nil
}

func floatArith(op Token, a, b float64) (Value, error) {
	switch op.Kind {
	case MINUS:
		return FloatValue(a - b), nil
	case MULT:
		return FloatValue(a * b), nil
	}
	if b == 0 {
		return nil, NewError(ZeroDivision, op, "division by zero")
	}
	if op.Kind == DIV {
		return FloatValue(a / b), nil
	}
	return FloatValue(math.Mod(a, b)), nil
}

func (this *Evaluator) compare(op Token, left, right Value) (Value, error) {
	var c int
	switch {
	case this.options_.Legacy:
		c = cmpOrdered(legacyInt(left), legacyInt(right))
	case left.Kind() == KindInt && right.Kind() == KindInt:
		c = cmpOrdered(left.(IntValue), right.(IntValue))
	case isNumeric(left) && isNumeric(right):
		c = cmpOrdered(toFloat(left), toFloat(right))
	case left.Kind() == KindString && right.Kind() == KindString:
		c = strings.Compare(string(left.(StringValue)), string(right.(StringValue)))
	default:
		return nil, this.operandError(op, left, right)
	}
	switch op.Kind {
	case LT:
		return BoolValue(c < 0), nil
	case GT:
		return BoolValue(c > 0), nil
	case LTE:
		return BoolValue(c <= 0), nil
	}
	return BoolValue(c >= 0), nil
}

func cmpOrdered[T int64 | IntValue | float64](a, b T) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// / Resolve and invoke a call. Built-ins always win over user functions.
func (this *Evaluator) call(n *CallExpr, env *Environment) (Value, error) {
	if err := this.interrupt_.Check(n.Tok); err != nil {
		return nil, err
	}
	if builtin := lookupBuiltin(n.Name); builtin != nil {
		return builtin(this, n, env)
	}

	fn := env.FindFunction(n.Name)
	if fn == nil {
		if this.options_.Legacy {
			return Null, nil
		}
		e := NewError(UndefinedFunction, n.Tok, "undefined function '%s'", n.Name)
		if suggestion := this.suggestFunction(n.Name, env); suggestion != "" {
			e.Msg += fmt.Sprintf(", did you mean '%s'?", suggestion)
		}
		return nil, e
	}
	return this.callUser(fn, n, env)
}

func (this *Evaluator) suggestFunction(name string, env *Environment) string {
	words := BuiltinNames()
	env.funcs_.Range(func(key string, _ *Function) bool {
		words = append(words, key)
		return true
	})
	suggestion := SpellcheckStringV(name, words)
	// Short names are within a few edits of every built-in.
	if suggestion != "" && 2*EditDistance(suggestion, name, true, len(name)) > len(name) {
		return ""
	}
	return suggestion
}

// / callUser binds arguments by position into a snapshot of the caller's
// / environment and runs the body there. Arguments beyond the parameter
// / list are not evaluated; missing ones stay unbound.
func (this *Evaluator) callUser(fn *Function, n *CallExpr, env *Environment) (Value, error) {
	if this.frames_.Len() >= this.options_.MaxCallDepth {
		return nil, NewError(CallDepthExceeded, n.Tok, "maximum call depth %d exceeded", this.options_.MaxCallDepth)
	}
	if GMetrics != nil {
		defer METRIC_RECORD("call " + fn.Name).Stop()
	}

	local := env.Snapshot()
	args := make([]Value, 0, len(fn.Params))
	for i, param := range fn.Params {
		if i >= len(n.Args) {
			break
		}
		v, err := this.Eval(n.Args[i], env)
		if err != nil {
			return nil, err
		}
		args = append(args, v)
		if err := local.SetVariable(param, v); err != nil {
			return nil, at(err, n.Args[i].Pos())
		}
	}

	depth := this.frames_.Len()
	if this.options_.Tracer != nil {
		this.options_.Tracer.Trace(depth, "-> %s(%s) line %d", fn.Name, joinValues(args), n.Tok.Line)
	}
	this.frames_.PushBack(&callFrame{name: fn.Name, tok: n.Tok})
	out, err := this.ExecBlock(fn.Body.Statements, local)
	frame := this.frames_.PopBack().(*callFrame)
	if err != nil {
		var e *Error
		if errors.As(err, &e) && e.Function == "" {
			e.Function = frame.name
		}
		return nil, err
	}

	result := Null
	if out.Signal == RETURNED {
		result = out.Value
	}
	if this.options_.Tracer != nil {
		this.options_.Tracer.Trace(depth, "<- %s = %s", fn.Name, ValueText(result))
	}
	return result, nil
}

func joinValues(vs []Value) string {
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = ValueText(v)
	}
	return strings.Join(parts, ", ")
}

package foldr_go

// / Variable is a named binding. Values of a Variable are never mutated in
// / place; SetVariable stores a fresh record.
type Variable struct {
	Name  string
	Value Value
	Const bool
}

// / Function is a user-defined function. Body points into the program's
// / syntax tree.
type Function struct {
	Name   string
	Params []string
	Body   *Block
	Decl   *FuncDecl
}

func NewFunction(decl *FuncDecl) *Function {
	ret := Function{}
	ret.Name = decl.Name
	ret.Decl = decl
	ret.Body = decl.Body
	for _, p := range decl.Params {
		ret.Params = append(ret.Params, p.Name.Lexeme)
	}
	return &ret
}

// / Environment holds one variable table and one function table. There is
// / no parent chain: a call evaluates against a Snapshot of its caller.
type Environment struct {
	vars_  PersistentMap[*Variable]
	funcs_ PersistentMap[*Function]
}

func NewEnvironment() *Environment {
	ret := Environment{}
	return &ret
}

func (this *Environment) FindVariable(name string) *Variable {
	v, ok := this.vars_.Get(name)
	if !ok {
		return nil
	}
	return v
}

// / Replace the value of an existing variable or create a new non-const
// / one. Fails with ConstAssignment if the variable is const.
func (this *Environment) SetVariable(name string, value Value) error {
	if v := this.FindVariable(name); v != nil && v.Const {
		return NewError(ConstAssignment, Token{}, "Cannot reassign const variable '%s'", name)
	}
	this.vars_ = this.vars_.Set(name, &Variable{Name: name, Value: value})
	return nil
}

// / Declare runs SetVariable and then records the const flag, so a
// / redeclaration over a const variable fails.
func (this *Environment) DeclareVariable(name string, value Value, isConst bool) error {
	if err := this.SetVariable(name, value); err != nil {
		return err
	}
	this.vars_ = this.vars_.Set(name, &Variable{Name: name, Value: value, Const: isConst})
	return nil
}

func (this *Environment) FindFunction(name string) *Function {
	f, ok := this.funcs_.Get(name)
	if !ok {
		return nil
	}
	return f
}

// / AddFunction registers fn unless a function with that name already
// / exists; the first registration wins. Returns false for a duplicate.
func (this *Environment) AddFunction(fn *Function) bool {
	if this.FindFunction(fn.Name) != nil {
		return false
	}
	this.funcs_ = this.funcs_.Set(fn.Name, fn)
	return true
}

// / Snapshot returns an independent copy. Changes to either environment
// / are invisible to the other.
func (this *Environment) Snapshot() *Environment {
	ret := Environment{}
	ret.vars_ = this.vars_
	ret.funcs_ = this.funcs_
	return &ret
}

func (this *Environment) VariableCount() int { return this.vars_.Len() }

func (this *Environment) FunctionCount() int { return this.funcs_.Len() }

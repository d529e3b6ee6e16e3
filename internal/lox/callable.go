package lox

import "time"

// Callable is any value invocable via a CallExpr: native functions,
// user functions, and classes (calling a class constructs an
// instance).
type Callable interface {
	Object
	Arity() int
	Call(interp *Interpreter, args []Object) Object
}

// nativeFn wraps a Go function as a Lox callable, grounded on
// spec.md §4.G's single built-in, `clock`.
type nativeFn struct {
	name  string
	arity int
	fn    func(interp *Interpreter, args []Object) Object
}

func (n *nativeFn) String() string { return "<native fn " + n.name + ">" }
func (n *nativeFn) Arity() int     { return n.arity }
func (n *nativeFn) Call(interp *Interpreter, args []Object) Object {
	return n.fn(interp, args)
}

func newClock() *nativeFn {
	return &nativeFn{
		name:  "clock",
		arity: 0,
		fn: func(interp *Interpreter, args []Object) Object {
			return LoxNumber(float64(time.Now().UnixNano()) / 1e9)
		},
	}
}

// LoxFunction is a user-defined function or method: its declaration
// plus the environment captured at definition time (its closure).
type LoxFunction struct {
	decl          *FunDecl
	closure       *Environment
	isInitializer bool
}

func (f *LoxFunction) String() string { return "<fn " + f.decl.Name.Lexeme + ">" }
func (f *LoxFunction) Arity() int     { return len(f.decl.Params) }

// Call runs the function body in a fresh environment parented on the
// closure, binding each parameter positionally.
func (f *LoxFunction) Call(interp *Interpreter, args []Object) Object {
	env := NewEnvironment(f.closure)
	for i, param := range f.decl.Params {
		env.Define(param.Lexeme, args[i])
	}

	retVal, ret := interp.executeBody(f.decl.Body, env)

	if f.isInitializer {
		return f.closure.GetAt(0, "this")
	}
	if ret {
		return retVal
	}
	return Nil
}

// bind produces a copy of f whose closure has one additional frame
// binding `this` to instance — used both for plain method lookup and
// for resolving `super.method()`.
func (f *LoxFunction) bind(instance *LoxInstance) *LoxFunction {
	env := NewEnvironment(f.closure)
	env.Define("this", instance)
	return &LoxFunction{decl: f.decl, closure: env, isInitializer: f.isInitializer}
}

// LoxClass is a class value: its name, optional superclass, and own
// method table (superclass methods are found by walking upward).
type LoxClass struct {
	Name       string
	Superclass *LoxClass
	Methods    map[string]*LoxFunction
}

func (c *LoxClass) String() string { return c.Name }

func (c *LoxClass) Arity() int {
	if init := c.FindMethod("init"); init != nil {
		return init.Arity()
	}
	return 0
}

// Call constructs an instance and, when present, runs `init` on it.
func (c *LoxClass) Call(interp *Interpreter, args []Object) Object {
	instance := &LoxInstance{class: c, fields: make(map[string]Object)}
	if init := c.FindMethod("init"); init != nil {
		init.bind(instance).Call(interp, args)
	}
	return instance
}

// FindMethod walks this class and then its superclass chain.
func (c *LoxClass) FindMethod(name string) *LoxFunction {
	if m, ok := c.Methods[name]; ok {
		return m
	}
	if c.Superclass != nil {
		return c.Superclass.FindMethod(name)
	}
	return nil
}

// LoxInstance is a runtime object: a class pointer plus its own field
// map, consulted before falling back to the class's methods.
type LoxInstance struct {
	class  *LoxClass
	fields map[string]Object
}

func (i *LoxInstance) String() string { return i.class.Name + " instance" }

// Get implements property access (spec.md §4.G GetExpr): fields shadow
// methods, and a found method is bound to this instance.
func (i *LoxInstance) Get(name Token) Object {
	if v, ok := i.fields[name.Lexeme]; ok {
		return v
	}
	if m := i.class.FindMethod(name.Lexeme); m != nil {
		return m.bind(i)
	}
	runtimeError(name.Line, "Undefined property '%s'.", name.Lexeme)
	return nil
}

func (i *LoxInstance) Set(name Token, value Object) {
	i.fields[name.Lexeme] = value
}

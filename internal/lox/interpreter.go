package lox

import "io"

// Interpreter owns the global environment, the current environment
// cursor, and the resolver's depth side-table (spec.md §3 "Depth
// side-table", §4.G). It is strictly single-threaded (spec.md §5).
type Interpreter struct {
	globals *Environment
	env     *Environment
	locals  map[Expr]int

	diag *Diagnostics
	out  io.Writer
}

// NewInterpreter builds an interpreter that writes `print` output to
// out and reports runtime errors through diag. The globals frame is
// seeded with the single native `clock`.
func NewInterpreter(out io.Writer, diag *Diagnostics) *Interpreter {
	globals := NewEnvironment(nil)
	globals.Define("clock", newClock())
	return &Interpreter{
		globals: globals,
		env:     globals,
		locals:  make(map[Expr]int),
		diag:    diag,
		out:     out,
	}
}

// Resolver exposes a resolver bound to this interpreter's locals table,
// so Run (pipeline.go) can run scan -> parse -> resolve -> interpret
// as four independent stages.
func (interp *Interpreter) Resolver() *Resolver {
	return NewResolver(interp, interp.diag)
}

// Interpret runs a resolved program. A runtime error unwinds here (via
// panic/recover) and is reported, halting this run without panicking
// the host process (spec.md §7 item 4).
func (interp *Interpreter) Interpret(program *Program) {
	defer func() {
		if r := recover(); r != nil {
			if rerr, ok := r.(*LoxRuntimeError); ok {
				interp.diag.RuntimeError(rerr)
				return
			}
			panic(r)
		}
	}()

	for _, stmt := range program.Decls {
		stmt.Run(interp)
	}
}

// executeBody runs a function/method body in env, restoring the
// interpreter's environment cursor on every exit path (scoped
// acquisition, spec.md §5/§7's restoration guarantee).
func (interp *Interpreter) executeBody(body []Stmt, env *Environment) (Object, bool) {
	previous := interp.env
	interp.env = env
	defer func() { interp.env = previous }()

	for _, stmt := range body {
		if retVal, ret := stmt.Run(interp); ret {
			return retVal, true
		}
	}
	return Nil, false
}

// lookUpVariable resolves a Variable/This read through the depth
// table when present, falling back to a by-name global lookup
// otherwise (spec.md §4.G).
func (interp *Interpreter) lookUpVariable(expr Expr, name Token) Object {
	if depth, ok := interp.locals[expr]; ok {
		return interp.env.GetAt(depth, name.Lexeme)
	}
	return interp.globals.Get(name)
}

// --------------- Statement execution --------------- //

func (fd *FunDecl) Run(interp *Interpreter) (Object, bool) {
	fn := &LoxFunction{decl: fd, closure: interp.env, isInitializer: false}
	interp.env.Define(fd.Name.Lexeme, fn)
	return Nil, false
}

func (vd *VarDecl) Run(interp *Interpreter) (Object, bool) {
	value := Object(Nil)
	if vd.Init != nil {
		value = vd.Init.Evaluate(interp)
	}
	interp.env.Define(vd.Name.Lexeme, value)
	return Nil, false
}

func (es *ExprStmt) Run(interp *Interpreter) (Object, bool) {
	es.Expr.Evaluate(interp)
	return Nil, false
}

func (ps *PrintStmt) Run(interp *Interpreter) (Object, bool) {
	value := ps.Expr.Evaluate(interp)
	io.WriteString(interp.out, stringify(value)+"\n")
	return Nil, false
}

func (rs *ReturnStmt) Run(interp *Interpreter) (Object, bool) {
	return rs.Expr.Evaluate(interp), true
}

func (is *IfStmt) Run(interp *Interpreter) (Object, bool) {
	if isTruthy(is.Condition.Evaluate(interp)) {
		return is.Then.Run(interp)
	} else if is.Else != nil {
		return is.Else.Run(interp)
	}
	return Nil, false
}

func (ws *WhileStmt) Run(interp *Interpreter) (Object, bool) {
	for isTruthy(ws.Condition.Evaluate(interp)) {
		if retVal, ret := ws.Body.Run(interp); ret {
			return retVal, true
		}
	}
	return Nil, false
}

// Block executes its statements in a fresh child environment, always
// restoring the saved cursor on the way out (normal or via a pending
// return) — spec.md §5's scoped acquisition discipline.
func (b *Block) Run(interp *Interpreter) (Object, bool) {
	previous := interp.env
	interp.env = NewEnvironment(previous)
	defer func() { interp.env = previous }()

	for _, decl := range b.Decls {
		if retVal, ret := decl.Run(interp); ret {
			return retVal, true
		}
	}
	return Nil, false
}

// ClassDecl: the class name is defined as nil before the body runs, so
// methods can refer to the class by name (e.g. to construct siblings),
// then reassigned to the built class value (spec.md §4.G).
func (cd *ClassDecl) Run(interp *Interpreter) (Object, bool) {
	var superclass *LoxClass
	if cd.Superclass != nil {
		sc := cd.Superclass.Evaluate(interp)
		var ok bool
		superclass, ok = sc.(*LoxClass)
		if !ok {
			runtimeError(cd.Superclass.Name.Line, "Superclass must be a class.")
		}
	}

	interp.env.Define(cd.Name.Lexeme, Nil)

	classEnv := interp.env
	if cd.Superclass != nil {
		classEnv = NewEnvironment(interp.env)
		classEnv.Define("super", superclass)
	}

	methods := make(map[string]*LoxFunction, len(cd.Methods))
	for _, m := range cd.Methods {
		methods[m.Name.Lexeme] = &LoxFunction{
			decl:          m,
			closure:       classEnv,
			isInitializer: m.Name.Lexeme == "init",
		}
	}

	class := &LoxClass{Name: cd.Name.Lexeme, Superclass: superclass, Methods: methods}
	interp.env.Assign(cd.Name, class)
	return Nil, false
}

// --------------- Expression evaluation --------------- //

func (ae *AssignmentExpr) Evaluate(interp *Interpreter) Object {
	value := ae.Value.Evaluate(interp)
	if depth, ok := interp.locals[ae]; ok {
		interp.env.AssignAt(depth, ae.Name.Lexeme, value)
	} else {
		interp.globals.Assign(ae.Name, value)
	}
	return value
}

func (le *LogicalExpr) Evaluate(interp *Interpreter) Object {
	left := le.Left.Evaluate(interp)
	switch le.Op.Type {
	case OR:
		if isTruthy(left) {
			return left
		}
	case AND:
		if !isTruthy(left) {
			return left
		}
	}
	return le.Right.Evaluate(interp)
}

func (ue *UnaryExpr) Evaluate(interp *Interpreter) Object {
	right := ue.Right.Evaluate(interp)
	switch ue.Op.Type {
	case BANG:
		return LoxBool(!isTruthy(right))
	case MINUS:
		n, ok := asNumber(right)
		if !ok {
			runtimeError(ue.Op.Line, "Operand must be a number.")
		}
		return LoxNumber(-n)
	}
	panic("unreachable: unary operator " + ue.Op.Type.String())
}

func (be *BinaryExpr) Evaluate(interp *Interpreter) Object {
	left := be.Left.Evaluate(interp)
	right := be.Right.Evaluate(interp)

	switch be.Op.Type {
	case PLUS:
		if a, ok := asString(left); ok {
			if b, ok := asString(right); ok {
				return LoxString(a + b)
			}
		}
		if a, ok := asNumber(left); ok {
			if b, ok := asNumber(right); ok {
				return LoxNumber(a + b)
			}
		}
		runtimeError(be.Op.Line, "Operands must be two numbers or two strings.")
	case MINUS:
		a, b := numberOperands(be.Op, left, right)
		return LoxNumber(a - b)
	case STAR:
		a, b := numberOperands(be.Op, left, right)
		return LoxNumber(a * b)
	case SLASH:
		a, b := numberOperands(be.Op, left, right)
		return LoxNumber(a / b)
	case GREATER:
		a, b := numberOperands(be.Op, left, right)
		return LoxBool(a > b)
	case GREATER_EQUAL:
		a, b := numberOperands(be.Op, left, right)
		return LoxBool(a >= b)
	case LESS:
		a, b := numberOperands(be.Op, left, right)
		return LoxBool(a < b)
	case LESS_EQUAL:
		a, b := numberOperands(be.Op, left, right)
		return LoxBool(a <= b)
	case EQUAL_EQUAL:
		return LoxBool(isEqual(left, right))
	case BANG_EQUAL:
		return LoxBool(!isEqual(left, right))
	}
	panic("unreachable: binary operator " + be.Op.Type.String())
}

func numberOperands(op Token, left, right Object) (float64, float64) {
	a, aok := asNumber(left)
	b, bok := asNumber(right)
	if !aok || !bok {
		runtimeError(op.Line, "Operands must be numbers.")
	}
	return a, b
}

func (ge *GroupExpr) Evaluate(interp *Interpreter) Object {
	return ge.Inner.Evaluate(interp)
}

func (le *LiteralExpr) Evaluate(interp *Interpreter) Object {
	return le.Value
}

func (ve *VariableExpr) Evaluate(interp *Interpreter) Object {
	return interp.lookUpVariable(ve, ve.Name)
}

func (te *ThisExpr) Evaluate(interp *Interpreter) Object {
	return interp.lookUpVariable(te, te.Keyword)
}

func (ce *CallExpr) Evaluate(interp *Interpreter) Object {
	callee := ce.Callee.Evaluate(interp)

	args := make([]Object, len(ce.Args))
	for i, a := range ce.Args {
		args[i] = a.Evaluate(interp)
	}

	fn, ok := callee.(Callable)
	if !ok {
		runtimeError(ce.Paren.Line, "Can only call functions and classes.")
	}

	if len(args) != fn.Arity() {
		runtimeError(ce.Paren.Line, "Expected %d arguments but got %d.", fn.Arity(), len(args))
	}

	return fn.Call(interp, args)
}

func (ge *GetExpr) Evaluate(interp *Interpreter) Object {
	object := ge.Object.Evaluate(interp)
	instance, ok := object.(*LoxInstance)
	if !ok {
		runtimeError(ge.Name.Line, "Only instances have properties.")
	}
	return instance.Get(ge.Name)
}

func (se *SetExpr) Evaluate(interp *Interpreter) Object {
	object := se.Object.Evaluate(interp)
	instance, ok := object.(*LoxInstance)
	if !ok {
		runtimeError(se.Name.Line, "Only instances have fields.")
	}
	value := se.Value.Evaluate(interp)
	instance.Set(se.Name, value)
	return value
}

// SuperExpr: `super` is bound depth links out; `this` sits one frame
// closer (spec.md §4.G).
func (se *SuperExpr) Evaluate(interp *Interpreter) Object {
	depth := interp.locals[se]
	superclass := interp.env.GetAt(depth, "super").(*LoxClass)
	instance := interp.env.GetAt(depth-1, "this").(*LoxInstance)

	method := superclass.FindMethod(se.Method.Lexeme)
	if method == nil {
		runtimeError(se.Method.Line, "Undefined property '%s'.", se.Method.Lexeme)
	}
	return method.bind(instance)
}

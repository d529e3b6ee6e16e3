package lox

// Resolver is the second static pass (spec.md §4.F): it walks the AST
// once to assign each variable-use expression a scope depth (written
// into the interpreter's locals side-table) and to catch a handful of
// static errors the book reserves for this pass rather than deferring
// them to runtime.
//
// The scope stack never gets an entry for the global scope: a lookup
// that falls off the bottom is left unresolved, which the interpreter
// takes to mean "ask globals".
type Resolver struct {
	interp *Interpreter
	diag   *Diagnostics

	scopes    []map[string]bool // false = declared, true = defined
	funcType  functionType
	classType classType
}

type functionType int

const (
	funcNone functionType = iota
	funcFunction
	funcMethod
	funcInitializer
)

type classType int

const (
	classNone classType = iota
	classClass
	classSubclass
)

// NewResolver binds a resolver to the interpreter whose locals table
// it will populate, and the diagnostics sink it reports through.
func NewResolver(interp *Interpreter, diag *Diagnostics) *Resolver {
	return &Resolver{interp: interp, diag: diag}
}

// Resolve runs static analysis over a parsed program.
func (r *Resolver) Resolve(program *Program) {
	for _, decl := range program.Decls {
		decl.resolve(r)
	}
}

func (r *Resolver) beginScope() { r.scopes = append(r.scopes, map[string]bool{}) }
func (r *Resolver) endScope()   { r.scopes = r.scopes[:len(r.scopes)-1] }

func (r *Resolver) declare(name Token) {
	if len(r.scopes) == 0 {
		return
	}
	scope := r.scopes[len(r.scopes)-1]
	if _, ok := scope[name.Lexeme]; ok {
		r.diag.ErrorAt(name, "Already a variable with this name in this scope.")
	}
	scope[name.Lexeme] = false
}

func (r *Resolver) define(name string) {
	if len(r.scopes) == 0 {
		return
	}
	r.scopes[len(r.scopes)-1][name] = true
}

// declareDefine is used for synthetic bindings ("this", "super") that
// carry no source token.
func (r *Resolver) declareDefine(name string) {
	if len(r.scopes) == 0 {
		return
	}
	r.scopes[len(r.scopes)-1][name] = true
}

// resolveLocal scans scopes innermost-out and records the first hit's
// depth on expr, keyed by the expression's identity.
func (r *Resolver) resolveLocal(expr Expr, name string) {
	for i := len(r.scopes) - 1; i >= 0; i-- {
		if _, ok := r.scopes[i][name]; ok {
			r.interp.locals[expr] = len(r.scopes) - 1 - i
			return
		}
	}
	// Unresolved: treated as a global at evaluation time.
}

func (r *Resolver) resolveFunction(fd *FunDecl, typ functionType) {
	enclosing := r.funcType
	r.funcType = typ

	r.beginScope()
	for _, param := range fd.Params {
		r.declare(param)
		r.define(param.Lexeme)
	}
	for _, stmt := range fd.Body {
		stmt.resolve(r)
	}
	r.endScope()

	r.funcType = enclosing
}

func (cd *ClassDecl) resolve(r *Resolver) {
	enclosingClass := r.classType
	r.classType = classClass

	r.declare(cd.Name)
	r.define(cd.Name.Lexeme)

	if cd.Superclass != nil {
		if cd.Superclass.Name.Lexeme == cd.Name.Lexeme {
			r.diag.ErrorAt(cd.Superclass.Name, "A class can't inherit from itself.")
		}
		r.classType = classSubclass
		cd.Superclass.resolve(r)

		r.beginScope()
		r.declareDefine("super")
	}

	r.beginScope()
	r.declareDefine("this")

	for _, method := range cd.Methods {
		typ := funcMethod
		if method.Name.Lexeme == "init" {
			typ = funcInitializer
		}
		r.resolveFunction(method, typ)
	}

	r.endScope()
	if cd.Superclass != nil {
		r.endScope()
	}

	r.classType = enclosingClass
}

func (fd *FunDecl) resolve(r *Resolver) {
	r.declare(fd.Name)
	r.define(fd.Name.Lexeme)
	r.resolveFunction(fd, funcFunction)
}

func (vd *VarDecl) resolve(r *Resolver) {
	r.declare(vd.Name)
	if vd.Init != nil {
		vd.Init.resolve(r)
	}
	r.define(vd.Name.Lexeme)
}

func (es *ExprStmt) resolve(r *Resolver) { es.Expr.resolve(r) }

func (is *IfStmt) resolve(r *Resolver) {
	is.Condition.resolve(r)
	is.Then.resolve(r)
	if is.Else != nil {
		is.Else.resolve(r)
	}
}

func (ps *PrintStmt) resolve(r *Resolver) { ps.Expr.resolve(r) }

func (rs *ReturnStmt) resolve(r *Resolver) {
	if r.funcType == funcNone {
		r.diag.ErrorAt(rs.Keyword, "Can't return from top-level code.")
	}
	if rs.HasValue && r.funcType == funcInitializer {
		r.diag.ErrorAt(rs.Keyword, "Can't return a value from an initializer.")
	}
	rs.Expr.resolve(r)
}

func (ws *WhileStmt) resolve(r *Resolver) {
	ws.Condition.resolve(r)
	ws.Body.resolve(r)
}

func (b *Block) resolve(r *Resolver) {
	r.beginScope()
	for _, decl := range b.Decls {
		decl.resolve(r)
	}
	r.endScope()
}

func (ae *AssignmentExpr) resolve(r *Resolver) {
	ae.Value.resolve(r)
	r.resolveLocal(ae, ae.Name.Lexeme)
}

func (se *SetExpr) resolve(r *Resolver) {
	se.Value.resolve(r)
	se.Object.resolve(r) // the field name is resolved dynamically
}

func (te *ThisExpr) resolve(r *Resolver) {
	if r.classType == classNone {
		r.diag.ErrorAt(te.Keyword, "Can't use 'this' outside of a class.")
		return
	}
	r.resolveLocal(te, "this")
}

func (le *LogicalExpr) resolve(r *Resolver) {
	le.Left.resolve(r)
	le.Right.resolve(r)
}

func (be *BinaryExpr) resolve(r *Resolver) {
	be.Left.resolve(r)
	be.Right.resolve(r)
}

func (ue *UnaryExpr) resolve(r *Resolver) { ue.Right.resolve(r) }

func (ce *CallExpr) resolve(r *Resolver) {
	ce.Callee.resolve(r)
	for _, arg := range ce.Args {
		arg.resolve(r)
	}
}

func (ge *GetExpr) resolve(r *Resolver) { ge.Object.resolve(r) }

func (le *LiteralExpr) resolve(r *Resolver) {}

func (ge *GroupExpr) resolve(r *Resolver) { ge.Inner.resolve(r) }

func (ve *VariableExpr) resolve(r *Resolver) {
	if len(r.scopes) > 0 {
		if defined, declared := r.scopes[len(r.scopes)-1][ve.Name.Lexeme]; declared && !defined {
			r.diag.ErrorAt(ve.Name, "Can't read local variable in its own initializer.")
		}
	}
	r.resolveLocal(ve, ve.Name.Lexeme)
}

func (se *SuperExpr) resolve(r *Resolver) {
	switch r.classType {
	case classNone:
		r.diag.ErrorAt(se.Keyword, "Can't use 'super' outside of a class.")
	case classClass:
		r.diag.ErrorAt(se.Keyword, "Can't use 'super' in a class with no superclass.")
	}
	r.resolveLocal(se, "super")
}

package lox

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func parseSource(t *testing.T, source string) (*Program, *Diagnostics) {
	t.Helper()
	program, _, diag := parseSourceWithStderr(t, source)
	return program, diag
}

func parseSourceWithStderr(t *testing.T, source string) (*Program, string, *Diagnostics) {
	t.Helper()
	var errBuf bytes.Buffer
	diag := NewDiagnostics(&errBuf)
	toks := NewScanner([]byte(source), diag).ScanTokens()
	program := NewParser(toks, diag).Parse()
	return program, errBuf.String(), diag
}

func TestParserPrecedenceAndAssociativity(t *testing.T) {
	program, diag := parseSource(t, "1 + 2 * 3;")
	require.False(t, diag.HadError)
	require.Len(t, program.Decls, 1)

	es := program.Decls[0].(*ExprStmt)
	bin := es.Expr.(*BinaryExpr)
	require.Equal(t, PLUS, bin.Op.Type)
	require.Equal(t, LoxNumber(1), bin.Left.(*LiteralExpr).Value)
	mul := bin.Right.(*BinaryExpr)
	require.Equal(t, STAR, mul.Op.Type)
}

func TestParserAssignmentRightAssociative(t *testing.T) {
	program, diag := parseSource(t, "a = b = 3;")
	require.False(t, diag.HadError)
	outer := program.Decls[0].(*ExprStmt).Expr.(*AssignmentExpr)
	require.Equal(t, "a", outer.Name.Lexeme)
	inner := outer.Value.(*AssignmentExpr)
	require.Equal(t, "b", inner.Name.Lexeme)
}

func TestParserInvalidAssignmentTargetKeepsRHS(t *testing.T) {
	// "1 = 2;" must report an error but still parse the expression
	// statement rather than aborting outright (spec.md §4.D).
	program, diag := parseSource(t, "1 = 2;")
	require.True(t, diag.HadError)
	require.Len(t, program.Decls, 1)
}

func TestParserForDesugars(t *testing.T) {
	program, diag := parseSource(t, "for (var i = 0; i < 3; i = i + 1) print i;")
	require.False(t, diag.HadError)

	outer := program.Decls[0].(*Block)
	require.Len(t, outer.Decls, 2)
	_, isVarDecl := outer.Decls[0].(*VarDecl)
	require.True(t, isVarDecl)

	while := outer.Decls[1].(*WhileStmt)
	cond := while.Condition.(*BinaryExpr)
	require.Equal(t, LESS, cond.Op.Type)

	body := while.Body.(*Block)
	require.Len(t, body.Decls, 2)
	_, isPrint := body.Decls[0].(*PrintStmt)
	require.True(t, isPrint)
	_, isIncrement := body.Decls[1].(*ExprStmt)
	require.True(t, isIncrement)
}

func TestParserForWithoutConditionIsTrue(t *testing.T) {
	program, diag := parseSource(t, "for (;;) print 1;")
	require.False(t, diag.HadError)
	while := program.Decls[0].(*WhileStmt)
	lit := while.Condition.(*LiteralExpr)
	require.Equal(t, LoxBool(true), lit.Value)
}

func TestParserErrorRecoveryReportsLaterDeclarations(t *testing.T) {
	// A malformed declaration must not suppress reporting of errors in
	// declarations that follow it (spec.md §8 "Error isolation"): both
	// bad `var` declarations get their own diagnostic even though
	// neither contributes a statement to the program.
	_, stderr, diag := parseSourceWithStderr(t, "var ; \n var ;")
	require.True(t, diag.HadError)
	require.Equal(t, 2, strings.Count(stderr, "[line"))
}

func TestParserClassWithSuperclassAndMethods(t *testing.T) {
	program, diag := parseSource(t, `
		class Base {}
		class Derived < Base {
			init(x) { this.x = x; }
			greet() { return this.x; }
		}
	`)
	require.False(t, diag.HadError)
	require.Len(t, program.Decls, 2)

	derived := program.Decls[1].(*ClassDecl)
	require.Equal(t, "Derived", derived.Name.Lexeme)
	require.NotNil(t, derived.Superclass)
	require.Equal(t, "Base", derived.Superclass.Name.Lexeme)
	require.Len(t, derived.Methods, 2)
	require.Equal(t, "init", derived.Methods[0].Name.Lexeme)
}

func TestParserGetSetChain(t *testing.T) {
	program, diag := parseSource(t, "a.b.c = 1;")
	require.False(t, diag.HadError)
	set := program.Decls[0].(*ExprStmt).Expr.(*SetExpr)
	require.Equal(t, "c", set.Name.Lexeme)
	get := set.Object.(*GetExpr)
	require.Equal(t, "b", get.Name.Lexeme)
}

func TestParserSuperCall(t *testing.T) {
	program, diag := parseSource(t, `
		class B < A {
			say() { super.say(); }
		}
	`)
	require.False(t, diag.HadError)
	class := program.Decls[0].(*ClassDecl)
	body := class.Methods[0].Body
	call := body[0].(*ExprStmt).Expr.(*CallExpr)
	super := call.Callee.(*SuperExpr)
	require.Equal(t, "say", super.Method.Lexeme)
}

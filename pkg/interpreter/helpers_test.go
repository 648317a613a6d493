package interpreter

import (
	"testing"

	"ofml/interpreter-go/pkg/ast"
	"ofml/interpreter-go/pkg/runtime"
)

// AST shorthand used across the interpreter tests.

func num(n int64) ast.Expression       { return ast.NewIntLiteral(n) }
func flt(f float64) ast.Expression     { return ast.NewFloatLiteral(f) }
func str(s string) ast.Expression      { return ast.NewStringLiteral(s) }
func sym(name string) ast.Expression   { return ast.NewSymbolLiteral(name) }
func nullLit() ast.Expression          { return ast.NewNullLiteral() }
func ident(name string) ast.Expression { return ast.NewIdentifier(name) }

func qual(absolute bool, parts ...string) *ast.QualifiedName {
	return ast.NewQualifiedName(parts, absolute)
}

func bin(op ast.BinaryOperator, left, right ast.Expression) ast.Expression {
	return ast.NewBinaryExpression(op, left, right)
}

func assign(target, value ast.Expression) ast.Expression {
	return ast.NewAssignmentExpression(ast.AssignPlain, target, value)
}

func call(callee ast.Expression, args ...ast.Expression) ast.Expression {
	return ast.NewCallExpression(callee, args)
}

func member(object ast.Expression, name string) ast.Expression {
	return ast.NewMemberExpression(object, name)
}

func exprStmt(expr ast.Expression) ast.Statement {
	return ast.NewExpressionStatement(expr)
}

func blockOf(stmts ...ast.Statement) *ast.Block {
	return ast.NewBlock(stmts)
}

func varDecl(name string, init ast.Expression) ast.Statement {
	return ast.NewVarDecl(name, init, nil)
}

func fieldMember(name string, init ast.Expression) ast.ClassMember {
	return ast.NewVarMember(ast.NewVarDecl(name, init, nil))
}

func staticMember(name string, init ast.Expression) ast.ClassMember {
	return ast.NewVarMember(ast.NewVarDecl(name, init, []string{"static"}))
}

func methodMember(name string, params []string, stmts ...ast.Statement) ast.ClassMember {
	return ast.NewFuncMember(ast.NewFuncDecl(name, params, blockOf(stmts...), nil))
}

func staticMethodMember(name string, params []string, stmts ...ast.Statement) ast.ClassMember {
	return ast.NewFuncMember(ast.NewFuncDecl(name, params, blockOf(stmts...), []string{"static"}))
}

func classDecl(name, parent string, members ...ast.ClassMember) ast.Statement {
	var parentName *ast.QualifiedName
	if parent != "" {
		parentName = qual(false, parent)
	}
	return ast.NewClassDecl(name, parentName, members, nil)
}

func execUnit(t *testing.T, i *Interpreter, pkg string, stmts ...ast.Statement) {
	t.Helper()
	if err := i.ExecuteUnit(ast.NewTranslationUnit(pkg, nil, stmts)); err != nil {
		t.Fatalf("unit execution failed: %v", err)
	}
}

func evalExpr(t *testing.T, i *Interpreter, expr ast.Expression) runtime.Value {
	t.Helper()
	v, err := i.Evaluate(expr)
	if err != nil {
		t.Fatalf("evaluation failed: %v", err)
	}
	return v
}

func mustInt(t *testing.T, v runtime.Value) int64 {
	t.Helper()
	iv, ok := v.(runtime.IntValue)
	if !ok {
		t.Fatalf("expected integer, got %s (%v)", v.Kind(), v)
	}
	return iv.Val
}

func mustFloat(t *testing.T, v runtime.Value) float64 {
	t.Helper()
	fv, ok := v.(runtime.FloatValue)
	if !ok {
		t.Fatalf("expected float, got %s (%v)", v.Kind(), v)
	}
	return fv.Val
}

func mustString(t *testing.T, v runtime.Value) string {
	t.Helper()
	sv, ok := v.(runtime.StringValue)
	if !ok {
		t.Fatalf("expected string, got %s (%v)", v.Kind(), v)
	}
	return sv.Val
}

func mustBool(t *testing.T, v runtime.Value) bool {
	t.Helper()
	bv, ok := v.(runtime.BoolValue)
	if !ok {
		t.Fatalf("expected bool, got %s (%v)", v.Kind(), v)
	}
	return bv.Val
}

func mustNull(t *testing.T, v runtime.Value) {
	t.Helper()
	if _, ok := v.(runtime.NullValue); !ok {
		t.Fatalf("expected null, got %s (%v)", v.Kind(), v)
	}
}

func mustObject(t *testing.T, v runtime.Value) *runtime.ObjectValue {
	t.Helper()
	obj, ok := v.(*runtime.ObjectValue)
	if !ok {
		t.Fatalf("expected object, got %s (%v)", v.Kind(), v)
	}
	return obj
}

func mustScriptError(t *testing.T, err error, kind ErrorKind) *ScriptError {
	t.Helper()
	if err == nil {
		t.Fatal("expected an error")
	}
	scriptErr, ok := err.(*ScriptError)
	if !ok {
		t.Fatalf("expected ScriptError, got %T: %v", err, err)
	}
	if scriptErr.Kind != kind {
		t.Fatalf("error kind = %s, want %s (%v)", scriptErr.Kind, kind, scriptErr)
	}
	return scriptErr
}

func newInstance(t *testing.T, i *Interpreter, className string, args ...runtime.Value) *runtime.ObjectValue {
	t.Helper()
	cls, ok := i.LookupClass(className)
	if !ok {
		t.Fatalf("class %q not registered", className)
	}
	v, err := i.Instantiate(cls, args)
	if err != nil {
		t.Fatalf("instantiate %s: %v", className, err)
	}
	return mustObject(t, v)
}

package interpreter

import (
	"testing"

	"ofml/interpreter-go/pkg/ast"
	"ofml/interpreter-go/pkg/runtime"
)

func TestShortNameLastRegistrationWins(t *testing.T) {
	i := New()
	execUnit(t, i, "vendor_a::tables", classDecl("Desk", "OiBlock"))
	execUnit(t, i, "vendor_b::tables", classDecl("Desk", "OiCylinder"))

	cls, ok := i.LookupClass("Desk")
	if !ok {
		t.Fatal("Desk must resolve")
	}
	if cls.Package != "vendor_b::tables" {
		t.Fatalf("unqualified lookup returned %s, want the later registration", cls.QualifiedName())
	}
}

func TestQualifiedNamesSurviveShadowing(t *testing.T) {
	i := New()
	execUnit(t, i, "vendor_a::tables", classDecl("Desk", "OiBlock"))
	execUnit(t, i, "vendor_b::tables", classDecl("Desk", "OiCylinder"))

	a, ok := i.LookupClass("::vendor_a::tables::Desk")
	if !ok || a.Package != "vendor_a::tables" {
		t.Fatal("the first package's qualified name must keep resolving to its own class")
	}
	b, ok := i.LookupClass("vendor_b::tables::Desk")
	if !ok || b.Package != "vendor_b::tables" {
		t.Fatal("the second package's qualified name must resolve")
	}
	if a == b {
		t.Fatal("qualified lookups must be distinct classes")
	}
}

// Packages load in priority order, not dependency order: a class may be
// declared before its parent exists. The parent link resolves at use time.
func TestParentResolvesAfterLateRegistration(t *testing.T) {
	i := New()
	execUnit(t, i, "product", classDecl("Chair", "ChairBase"))
	execUnit(t, i, "basics", classDecl("ChairBase", "OiPart",
		methodMember("seatHeight", nil, ast.NewReturnStatement(num(45))),
	))

	chair := newInstance(t, i, "Chair")
	v, err := i.CallMethod(chair, "seatHeight", nil)
	if err != nil {
		t.Fatalf("seatHeight: %v", err)
	}
	if mustInt(t, v) != 45 {
		t.Fatalf("seatHeight = %v, want the late-registered parent's method", v)
	}
}

// A higher-priority package re-registering a shared base swaps the ancestor
// for all existing subclasses, because the chain re-resolves on every walk.
func TestParentRebindsToLastRegistration(t *testing.T) {
	i := New()
	execUnit(t, i, "pkg_a", classDecl("Base", "",
		methodMember("origin", nil, ast.NewReturnStatement(str("a"))),
	))
	execUnit(t, i, "product", classDecl("Item", "Base"))
	execUnit(t, i, "pkg_b", classDecl("Base", "",
		methodMember("origin", nil, ast.NewReturnStatement(str("b"))),
	))

	item := newInstance(t, i, "Item")
	v, err := i.CallMethod(item, "origin", nil)
	if err != nil {
		t.Fatalf("origin: %v", err)
	}
	if mustString(t, v) != "b" {
		t.Fatalf("origin = %v, want dispatch through the re-registered base", v)
	}
}

func TestInheritedMethodDispatch(t *testing.T) {
	i := New()
	execUnit(t, i, "",
		classDecl("Base", "", methodMember("f", nil, ast.NewReturnStatement(num(1)))),
		classDecl("Derived", "Base"),
	)

	b := newInstance(t, i, "Derived")
	v, err := i.CallMethod(b, "f", nil)
	if err != nil {
		t.Fatalf("f: %v", err)
	}
	if mustInt(t, v) != 1 {
		t.Fatalf("b.f() = %v, want 1", v)
	}
}

func TestOverrideAndSuperDispatch(t *testing.T) {
	i := New()
	execUnit(t, i, "",
		classDecl("Base", "",
			methodMember("label", nil, ast.NewReturnStatement(str("base"))),
		),
		classDecl("Derived", "Base",
			methodMember("label", nil, ast.NewReturnStatement(
				bin(ast.BinaryAdd,
					call(member(ast.NewSuperExpression(), "label")),
					str("+derived")))),
		),
	)

	d := newInstance(t, i, "Derived")
	v, err := i.CallMethod(d, "label", nil)
	if err != nil {
		t.Fatalf("label: %v", err)
	}
	if mustString(t, v) != "base+derived" {
		t.Fatalf("label = %v", v)
	}
}

func TestSuperInitializeChains(t *testing.T) {
	i := New()
	execUnit(t, i, "",
		classDecl("Base", "",
			methodMember("initialize", []string{"a"},
				exprStmt(assign(member(ast.NewSelfExpression(), "base_arg"), ident("a")))),
		),
		classDecl("Derived", "Base",
			methodMember("initialize", []string{"a"},
				exprStmt(call(ast.NewSuperExpression(), ident("a"))),
				exprStmt(assign(member(ast.NewSelfExpression(), "derived_seen"), num(1)))),
		),
	)

	d := newInstance(t, i, "Derived", runtime.StringValue{Val: "hello"})
	if got := runtime.Stringify(d.Fields["base_arg"]); got != "hello" {
		t.Fatalf("base_arg = %q, want the argument forwarded through super", got)
	}
	if _, ok := d.Fields["derived_seen"]; !ok {
		t.Fatal("the derived initializer must continue after super")
	}
}

func TestStaticVarsAndStaticMethods(t *testing.T) {
	i := New()
	execUnit(t, i, "vendor",
		classDecl("Catalog", "",
			staticMember("count", num(3)),
			staticMethodMember("limit", nil, ast.NewReturnStatement(num(99))),
		),
	)

	if got := mustInt(t, evalExpr(t, i, qual(false, "vendor", "Catalog", "count"))); got != 3 {
		t.Fatalf("static var via qualified name = %d", got)
	}
	if got := mustInt(t, evalExpr(t, i, call(qual(false, "vendor", "Catalog", "limit")))); got != 99 {
		t.Fatalf("static method via qualified name = %d", got)
	}
}

func TestStaticVarsInheritedAndAssignable(t *testing.T) {
	i := New()
	execUnit(t, i, "",
		classDecl("Base", "", staticMember("shared", num(1))),
		classDecl("Derived", "Base"),
	)

	if got := mustInt(t, evalExpr(t, i, member(ident("Derived"), "shared"))); got != 1 {
		t.Fatalf("static var through subclass = %d", got)
	}
	evalExpr(t, i, assign(member(ident("Base"), "shared"), num(7)))
	if got := mustInt(t, evalExpr(t, i, member(ident("Derived"), "shared"))); got != 7 {
		t.Fatalf("static var after assignment = %d", got)
	}
}

// Missing qualified targets degrade rather than fail when scripts probe for
// optional hooks: a found class with a missing method yields null, and a
// missing class yields null for initialize-style names only.
func TestQualifiedCallDegradation(t *testing.T) {
	i := New()
	execUnit(t, i, "vendor", classDecl("Desk", "OiBlock"))

	mustNull(t, evalExpr(t, i, call(qual(false, "vendor", "Desk", "noSuchMethod"))))
	mustNull(t, evalExpr(t, i, call(qual(false, "ghost", "Sofa", "initialize"))))
	mustNull(t, evalExpr(t, i, call(qual(false, "ghost", "Sofa", "initExtras"))))

	if _, err := i.Evaluate(call(qual(false, "ghost", "Sofa", "render"))); err == nil {
		t.Fatal("a missing class with a non-initializer method must raise NameError")
	} else {
		mustScriptError(t, err, ErrName)
	}
}

func TestUndefinedIdentifierIsNameError(t *testing.T) {
	i := New()
	if _, err := i.Evaluate(ident("no_such_name")); err == nil {
		t.Fatal("unknown identifiers must fail")
	} else {
		mustScriptError(t, err, ErrName)
	}
}

func TestInstanceof(t *testing.T) {
	i := New()
	execUnit(t, i, "vendor", classDecl("Desk", "OiBlock"))
	desk := newInstance(t, i, "Desk")
	i.Environment().DefineGlobal("desk", desk)

	if !mustBool(t, evalExpr(t, i, ast.NewInstanceofExpression(ident("desk"), qual(false, "Desk")))) {
		t.Error("desk instanceof Desk")
	}
	if !mustBool(t, evalExpr(t, i, ast.NewInstanceofExpression(ident("desk"), qual(false, "OiPlanningElement")))) {
		t.Error("instanceof must see through the native ancestry")
	}
	if mustBool(t, evalExpr(t, i, ast.NewInstanceofExpression(ident("desk"), qual(false, "OiCylinder")))) {
		t.Error("desk is not a cylinder")
	}
	if mustBool(t, evalExpr(t, i, ast.NewInstanceofExpression(num(1), qual(false, "Desk")))) {
		t.Error("scalars are never instances")
	}
}

func TestCycleSafeInheritanceChain(t *testing.T) {
	i := New()
	execUnit(t, i, "",
		classDecl("A", "B"),
		classDecl("B", "A"),
	)
	cls, _ := i.LookupClass("A")
	chain := i.inheritanceChain(cls)
	if len(chain) != 2 {
		t.Fatalf("cyclic chain length = %d, want termination after each class once", len(chain))
	}
}

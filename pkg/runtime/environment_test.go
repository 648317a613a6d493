package runtime

import "testing"

func TestEnvironmentDefineAndShadow(t *testing.T) {
	env := NewEnvironment()
	env.Define("x", IntValue{Val: 1})

	env.PushScope()
	env.Define("x", IntValue{Val: 2})
	if v, _ := env.Get("x"); !Equals(v, IntValue{Val: 2}) {
		t.Fatalf("inner scope must shadow: got %v", v)
	}
	env.PopScope()

	if v, _ := env.Get("x"); !Equals(v, IntValue{Val: 1}) {
		t.Fatalf("outer binding must survive the inner scope: got %v", v)
	}
}

func TestEnvironmentSetWritesOwningScope(t *testing.T) {
	env := NewEnvironment()
	env.Define("x", IntValue{Val: 1})

	env.PushScope()
	if ok := env.Set("x", IntValue{Val: 5}); !ok {
		t.Fatal("Set must find the outer binding")
	}
	env.PopScope()

	if v, _ := env.Get("x"); !Equals(v, IntValue{Val: 5}) {
		t.Fatalf("Set from an inner scope must update the owner: got %v", v)
	}
}

func TestEnvironmentSetUnknown(t *testing.T) {
	env := NewEnvironment()
	if ok := env.Set("missing", IntValue{Val: 1}); ok {
		t.Fatal("Set on an unbound name must report failure")
	}
}

func TestEnvironmentGlobalVisibleFromNestedScopes(t *testing.T) {
	env := NewEnvironment()
	env.DefineGlobal("print_width", FloatValue{Val: 0.1})

	env.PushScope()
	env.PushScope()
	defer func() {
		env.PopScope()
		env.PopScope()
	}()

	if v, ok := env.Get("print_width"); !ok || !Equals(v, FloatValue{Val: 0.1}) {
		t.Fatalf("globals must be reachable from nested scopes: got %v, %v", v, ok)
	}
}

func TestEnvironmentPopAtGlobalIsNoop(t *testing.T) {
	env := NewEnvironment()
	env.Define("x", IntValue{Val: 1})
	env.PopScope()
	env.PopScope()
	if v, ok := env.Get("x"); !ok || !Equals(v, IntValue{Val: 1}) {
		t.Fatal("popping past the global scope must not lose bindings")
	}
}

package runtime

import "sort"

// Scope is one lexical frame of name→value bindings. Chains terminate at the
// global scope, whose parent is always nil.
type Scope struct {
	vars   map[string]Value
	parent *Scope
}

// NewScope creates a root scope with no parent.
func NewScope() *Scope {
	return &Scope{vars: make(map[string]Value)}
}

// ChildScope creates a scope nested under parent.
func ChildScope(parent *Scope) *Scope {
	return &Scope{vars: make(map[string]Value), parent: parent}
}

// Define inserts or shadows a binding in this scope.
func (s *Scope) Define(name string, value Value) {
	s.vars[name] = value
}

// Get retrieves a binding, searching outward through the parent chain.
func (s *Scope) Get(name string) (Value, bool) {
	if v, ok := s.vars[name]; ok {
		return v, true
	}
	if s.parent != nil {
		return s.parent.Get(name)
	}
	return nil, false
}

// Set updates the first scope in the chain that already owns the name and
// reports whether an existing binding was updated. It never creates one.
func (s *Scope) Set(name string, value Value) bool {
	if _, ok := s.vars[name]; ok {
		s.vars[name] = value
		return true
	}
	if s.parent != nil {
		return s.parent.Set(name, value)
	}
	return false
}

// Has reports whether the name is visible from this scope.
func (s *Scope) Has(name string) bool {
	if _, ok := s.vars[name]; ok {
		return true
	}
	if s.parent != nil {
		return s.parent.Has(name)
	}
	return false
}

// Keys returns this scope's own bindings in sorted order.
func (s *Scope) Keys() []string {
	keys := make([]string, 0, len(s.vars))
	for k := range s.vars {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Environment owns the scope stack: a movable current scope and the always
// reachable global scope.
type Environment struct {
	current *Scope
	global  *Scope
}

// NewEnvironment creates an environment whose current scope is the global one.
func NewEnvironment() *Environment {
	global := NewScope()
	return &Environment{current: global, global: global}
}

// PushScope enters a new scope nested under the current one.
func (e *Environment) PushScope() {
	e.current = ChildScope(e.current)
}

// PopScope leaves the current scope. Popping the global scope is a no-op.
func (e *Environment) PopScope() {
	if e.current.parent != nil {
		e.current = e.current.parent
	}
}

// Define inserts a binding into the current scope.
func (e *Environment) Define(name string, value Value) {
	e.current.Define(name, value)
}

// DefineGlobal inserts a binding into the global scope.
func (e *Environment) DefineGlobal(name string, value Value) {
	e.global.Define(name, value)
}

// Get reads a binding through the current chain, falling back to global.
func (e *Environment) Get(name string) (Value, bool) {
	if v, ok := e.current.Get(name); ok {
		return v, true
	}
	return e.global.Get(name)
}

// Set updates an existing binding through the current chain or global scope,
// reporting whether one was found.
func (e *Environment) Set(name string, value Value) bool {
	if e.current.Set(name, value) {
		return true
	}
	return e.global.Set(name, value)
}

// SetOrDefine updates an existing binding, or defines the name in the current
// scope when no scope owns it. This is assignment-declares-on-first-use.
func (e *Environment) SetOrDefine(name string, value Value) {
	if !e.Set(name, value) {
		e.Define(name, value)
	}
}

// Global exposes the global scope.
func (e *Environment) Global() *Scope {
	return e.global
}

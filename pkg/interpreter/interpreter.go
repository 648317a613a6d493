// Package interpreter executes parsed OFML translation units: it owns the
// lexical environment, the class registry, the 3D scene mapping and the
// resource governor for one session.
package interpreter

import (
	"fmt"
	"io"
	"os"
	"strings"

	"ofml/interpreter-go/pkg/ast"
	"ofml/interpreter-go/pkg/runtime"
	"ofml/interpreter-go/pkg/scene"
)

// Resource governor ceilings. Scripts are third-party and frequently buggy;
// these convert runaway recursion and loops into bounded termination.
const (
	maxCallDepth      = 500
	maxLoopIterations = 100_000
	maxOperations     = 1_000_000
)

// Interpreter is one self-contained runtime session. All registries hang off
// the instance; multiple interpreters can coexist in a process.
type Interpreter struct {
	env       *runtime.Environment
	classes   map[string]*runtime.ClassValue // short name, last registration wins
	qualified map[string]*runtime.ClassValue // package::Name, never overwritten

	scene *scene.Graph
	nodes map[*runtime.ObjectValue]*scene.Node

	self          *runtime.ObjectValue
	activePackage string
	currentMethod string // name of the executing method, for super dispatch
	currentOwner  string // qualified class the executing method was found on

	instanceSeq map[string]int
	callDepth   int
	opCount     int

	out io.Writer
}

// New creates an interpreter with the native base classes and native global
// functions already registered.
func New() *Interpreter {
	i := &Interpreter{
		env:         runtime.NewEnvironment(),
		classes:     make(map[string]*runtime.ClassValue),
		qualified:   make(map[string]*runtime.ClassValue),
		scene:       scene.NewGraph(),
		nodes:       make(map[*runtime.ObjectValue]*scene.Node),
		instanceSeq: make(map[string]int),
		out:         os.Stdout,
	}
	i.registerNativeClasses()
	i.registerNativeFunctions()
	return i
}

// SetOutput redirects print output, which tests use to capture it.
func (i *Interpreter) SetOutput(w io.Writer) {
	i.out = w
}

// Environment exposes the interpreter's environment.
func (i *Interpreter) Environment() *runtime.Environment {
	return i.env
}

// Scene exposes the scene graph populated by geometry instantiation.
func (i *Interpreter) Scene() *scene.Graph {
	return i.scene
}

// NodeFor returns the scene node associated with an instance, or nil.
func (i *Interpreter) NodeFor(obj *runtime.ObjectValue) *scene.Node {
	return i.nodes[obj]
}

// ActivePackage returns the package context of the unit being executed.
func (i *Interpreter) ActivePackage() string {
	return i.activePackage
}

// ExecuteUnit runs one translation unit with its package declaration as the
// active package context, restoring the previous context afterwards.
func (i *Interpreter) ExecuteUnit(unit *ast.TranslationUnit) error {
	prev := i.activePackage
	i.activePackage = unit.Package
	defer func() { i.activePackage = prev }()

	for _, stmt := range unit.Statements {
		if err := i.executeStatement(stmt); err != nil {
			switch err.(type) {
			case returnSignal, breakSignal, continueSignal:
				// Top-level control flow ends the unit without failing it.
				return nil
			}
			return err
		}
	}
	return nil
}

// Evaluate evaluates a single expression against the current state.
func (i *Interpreter) Evaluate(expr ast.Expression) (runtime.Value, error) {
	return i.evaluateExpression(expr)
}

// Execute runs a single statement against the current state.
func (i *Interpreter) Execute(stmt ast.Statement) error {
	return i.executeStatement(stmt)
}

// chargeOperation counts one evaluated expression against the global budget.
// Past the ceiling evaluation degrades to Null instead of erroring: most
// constructors are fire-and-forget side-effecting code and the surrounding
// load must still finish.
func (i *Interpreter) chargeOperation() bool {
	i.opCount++
	return i.opCount <= maxOperations
}

//-----------------------------------------------------------------------------
// Class registry
//-----------------------------------------------------------------------------

// RegisterClass stores a class under its short name (last registration wins)
// and permanently under its qualified name.
func (i *Interpreter) RegisterClass(cls *runtime.ClassValue) {
	i.classes[cls.Name] = cls
	qualified := cls.QualifiedName()
	if _, exists := i.qualified[qualified]; !exists {
		i.qualified[qualified] = cls
	}
}

// LookupClass resolves a class reference. Absolute names (::pkg::Class) use
// the qualified table; other names try the active package first, then the
// qualified form as written, then the short-name table.
func (i *Interpreter) LookupClass(name string) (*runtime.ClassValue, bool) {
	if strings.HasPrefix(name, "::") {
		cls, ok := i.qualified[strings.TrimPrefix(name, "::")]
		if ok {
			return cls, true
		}
		// Fall back to the final segment's short name.
		parts := strings.Split(strings.TrimPrefix(name, "::"), "::")
		cls, ok = i.classes[parts[len(parts)-1]]
		return cls, ok
	}
	if strings.Contains(name, "::") {
		if i.activePackage != "" {
			if cls, ok := i.qualified[strings.TrimPrefix(i.activePackage, "::")+"::"+name]; ok {
				return cls, true
			}
		}
		if cls, ok := i.qualified[name]; ok {
			return cls, true
		}
		parts := strings.Split(name, "::")
		cls, ok := i.classes[parts[len(parts)-1]]
		return cls, ok
	}
	cls, ok := i.classes[name]
	return cls, ok
}

// resolveParent re-resolves a class's declared parent through the registry.
// The result is never cached: packages load in priority order, not dependency
// order, so the winning parent may register after its children.
func (i *Interpreter) resolveParent(cls *runtime.ClassValue) (*runtime.ClassValue, bool) {
	if cls.ParentName == "" {
		return nil, false
	}
	return i.LookupClass(cls.ParentName)
}

// inheritanceChain walks derived→root from cls, resolving each parent by name
// on demand. Cycles and repeats terminate the walk.
func (i *Interpreter) inheritanceChain(cls *runtime.ClassValue) []*runtime.ClassValue {
	var chain []*runtime.ClassValue
	seen := make(map[*runtime.ClassValue]bool)
	for cls != nil && !seen[cls] {
		seen[cls] = true
		chain = append(chain, cls)
		parent, ok := i.resolveParent(cls)
		if !ok {
			break
		}
		cls = parent
	}
	return chain
}

// findMethod searches cls and its resolved ancestors for a method, returning
// the defining class alongside it.
func (i *Interpreter) findMethod(cls *runtime.ClassValue, name string) (*runtime.FunctionValue, *runtime.ClassValue, bool) {
	for _, c := range i.inheritanceChain(cls) {
		if fn, ok := c.Methods[name]; ok {
			return fn, c, true
		}
	}
	return nil, nil, false
}

// classInheritsFrom reports whether cls is name or has name as an ancestor.
func (i *Interpreter) classInheritsFrom(cls *runtime.ClassValue, name string) bool {
	for _, c := range i.inheritanceChain(cls) {
		if c.Name == name || c.QualifiedName() == name {
			return true
		}
	}
	return false
}

// nextInstanceName generates the synthetic name used when an instance is
// created outside the parent/@name convention.
func (i *Interpreter) nextInstanceName(className string) string {
	i.instanceSeq[className]++
	return fmt.Sprintf("%s_%d", strings.ToLower(className), i.instanceSeq[className])
}

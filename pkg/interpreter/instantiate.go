package interpreter

import (
	"ofml/interpreter-go/pkg/ast"
	"ofml/interpreter-go/pkg/runtime"
	"ofml/interpreter-go/pkg/scene"
)

// Geometry base classes whose descendants get a scene node on instantiation.
const (
	classOiBlock           = "OiBlock"
	classOiCylinder        = "OiCylinder"
	classOiSphere          = "OiSphere"
	classOiPart            = "OiPart"
	classOiPlanningElement = "OiPlanningElement"
)

// parseConstructorArgs recognises the constructor convention
// (parentObject, @name, ...rest). Unmatched argument lists leave the instance
// parentless under a synthetic name.
func (i *Interpreter) parseConstructorArgs(cls *runtime.ClassValue, args []runtime.Value) (parent *runtime.ObjectValue, name string, rest []runtime.Value) {
	if len(args) >= 2 {
		if parentObj, ok := args[0].(*runtime.ObjectValue); ok {
			if sym, ok := args[1].(runtime.SymbolValue); ok {
				return parentObj, sym.Name, args[2:]
			}
		}
	}
	return nil, i.nextInstanceName(cls.Name), args
}

// Instantiate builds a new instance of cls: it links the child/parent object
// graph, creates a matching scene node for geometry classes, runs field
// initializers root-to-derived and finally invokes initialize with the full
// original argument list.
func (i *Interpreter) Instantiate(cls *runtime.ClassValue, args []runtime.Value) (runtime.Value, error) {
	parent, name, rest := i.parseConstructorArgs(cls, args)
	obj := runtime.NewObject(cls, name)

	if parent != nil {
		obj.Parent = parent
		parent.Children = append(parent.Children, obj)
		parent.Fields[name] = obj
	}

	i.createSceneNode(obj, parent, rest)

	// Field initializers run root-to-derived so a derived class's initializer
	// overrides an ancestor's value.
	chain := i.inheritanceChain(cls)
	for idx := len(chain) - 1; idx >= 0; idx-- {
		if err := i.runFieldInitializers(chain[idx], obj); err != nil {
			return nil, err
		}
	}

	if fn, owner, ok := i.findMethod(cls, "initialize"); ok {
		if _, err := i.callFunction(fn, obj, owner.QualifiedName(), args); err != nil {
			return nil, err
		}
	}
	return obj, nil
}

// createSceneNode mirrors a geometry-class instance as a scene node, mapping
// the trailing constructor arguments onto the primitive's parameters.
func (i *Interpreter) createSceneNode(obj *runtime.ObjectValue, parent *runtime.ObjectValue, rest []runtime.Value) {
	var parentNode *scene.Node
	if parent != nil {
		parentNode = i.nodes[parent]
	}

	var node *scene.Node
	switch {
	case i.classInheritsFrom(obj.Class, classOiBlock):
		node = i.scene.CreateBlock(obj.Name, geometryDims(rest), parentNode)
	case i.classInheritsFrom(obj.Class, classOiCylinder):
		radius := floatArgOr(rest, 0, 0.5)
		height := floatArgOr(rest, 1, 1.0)
		node = i.scene.CreateCylinder(obj.Name, radius, height, parentNode)
	case i.classInheritsFrom(obj.Class, classOiSphere):
		node = i.scene.CreateSphere(obj.Name, floatArgOr(rest, 0, 0.5), parentNode)
	case i.classInheritsFrom(obj.Class, classOiPart), i.classInheritsFrom(obj.Class, classOiPlanningElement):
		node = i.scene.CreatePart(obj.Name, parentNode)
	default:
		return
	}
	i.nodes[obj] = node
}

// geometryDims reads [width, height, depth] from either a single array
// argument or three scalars, defaulting missing entries to 1.
func geometryDims(rest []runtime.Value) [3]float64 {
	dims := [3]float64{1, 1, 1}
	if len(rest) >= 1 {
		if arr, ok := rest[0].(*runtime.ArrayValue); ok {
			for idx := 0; idx < 3 && idx < len(arr.Elements); idx++ {
				if f, ok := runtime.ToFloat(arr.Elements[idx]); ok {
					dims[idx] = f
				}
			}
			return dims
		}
	}
	for idx := 0; idx < 3 && idx < len(rest); idx++ {
		if f, ok := runtime.ToFloat(rest[idx]); ok {
			dims[idx] = f
		}
	}
	return dims
}

func floatArgOr(args []runtime.Value, idx int, fallback float64) float64 {
	if idx < len(args) {
		if f, ok := runtime.ToFloat(args[idx]); ok {
			return f
		}
	}
	return fallback
}

// runFieldInitializers evaluates a class's non-static member variables with
// self bound to the new instance. Declared fields without an initializer
// still get a Null slot.
func (i *Interpreter) runFieldInitializers(cls *runtime.ClassValue, obj *runtime.ObjectValue) error {
	if cls.Decl == nil {
		return nil
	}
	prevSelf := i.self
	i.self = obj
	i.env.PushScope()
	defer func() {
		i.env.PopScope()
		i.self = prevSelf
	}()

	for _, member := range cls.Decl.Members {
		varMember, ok := member.(*ast.VarMember)
		if !ok || hasModifier(varMember.Decl.Modifiers, "static") {
			continue
		}
		var value runtime.Value = runtime.NullValue{}
		if varMember.Decl.Init != nil {
			v, err := i.evaluateExpression(varMember.Decl.Init)
			if err != nil {
				return err
			}
			value = v
		} else if existing, exists := obj.Fields[varMember.Decl.Name]; exists {
			value = existing
		}
		obj.Fields[varMember.Decl.Name] = value
	}
	return nil
}

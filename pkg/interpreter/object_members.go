package interpreter

import (
	"sort"

	"ofml/interpreter-go/pkg/runtime"
	"ofml/interpreter-go/pkg/scene"
)

func symbolName(v runtime.Value) (string, bool) {
	switch s := v.(type) {
	case runtime.SymbolValue:
		return s.Name, true
	case runtime.StringValue:
		return s.Val, true
	default:
		return "", false
	}
}

func alignModeFromSymbol(name string) (scene.AlignMode, bool) {
	switch name {
	case "I":
		return scene.AlignMin, true
	case "C":
		return scene.AlignCenter, true
	case "A":
		return scene.AlignMax, true
	default:
		return scene.AlignMin, false
	}
}

func axisFromSymbol(name string) (scene.Axis, bool) {
	switch name {
	case "NX":
		return scene.AxisX, true
	case "NY":
		return scene.AxisY, true
	case "NZ":
		return scene.AxisZ, true
	default:
		return scene.AxisX, false
	}
}

func vectorArg(args []runtime.Value) ([3]float64, bool) {
	if len(args) == 1 {
		arr, ok := args[0].(*runtime.ArrayValue)
		if !ok || len(arr.Elements) < 3 {
			return [3]float64{}, false
		}
		var out [3]float64
		for idx := 0; idx < 3; idx++ {
			f, _ := runtime.ToFloat(arr.Elements[idx])
			out[idx] = f
		}
		return out, true
	}
	if len(args) >= 3 {
		var out [3]float64
		for idx := 0; idx < 3; idx++ {
			f, _ := runtime.ToFloat(args[idx])
			out[idx] = f
		}
		return out, true
	}
	return [3]float64{}, false
}

func vectorValue(v [3]float64) *runtime.ArrayValue {
	return runtime.NewArray(
		runtime.FloatValue{Val: v[0]},
		runtime.FloatValue{Val: v[1]},
		runtime.FloatValue{Val: v[2]},
	)
}

// callObjectIntrinsic implements the built-in object catalogue: geometry
// transforms, hierarchy navigation, the property system and class queries.
// It reports whether the name was recognised; unmatched names fall through to
// user-defined methods.
func (i *Interpreter) callObjectIntrinsic(obj *runtime.ObjectValue, name string, args []runtime.Value) (runtime.Value, bool, error) {
	switch name {
	// Geometry.
	case "setPosition":
		pos, ok := vectorArg(args)
		if !ok {
			return nil, true, typeErrorf("setPosition expects a 3-element position")
		}
		obj.Position = pos
		if node := i.nodes[obj]; node != nil {
			node.SetPosition(pos)
		}
		return runtime.NullValue{}, true, nil
	case "getPosition":
		return vectorValue(obj.Position), true, nil
	case "translate":
		delta, ok := vectorArg(args)
		if !ok {
			return nil, true, typeErrorf("translate expects a 3-element offset")
		}
		for idx := 0; idx < 3; idx++ {
			obj.Position[idx] += delta[idx]
		}
		if node := i.nodes[obj]; node != nil {
			node.SetPosition(obj.Position)
		}
		return runtime.NullValue{}, true, nil
	case "rotate":
		axisSym, ok := symbolName(argAt(args, 0))
		if !ok {
			return nil, true, typeErrorf("rotate expects an axis symbol")
		}
		axis, ok := axisFromSymbol(axisSym)
		if !ok {
			return nil, true, runtimeErrorf("unknown rotation axis @%s", axisSym)
		}
		angle, _ := runtime.ToFloat(argAt(args, 1))
		obj.Rotation[int(axis)] += angle
		if node := i.nodes[obj]; node != nil {
			node.Rotate(axis, angle)
		}
		return runtime.NullValue{}, true, nil
	case "getRotation":
		return vectorValue(obj.Rotation), true, nil
	case "setScale":
		scaleVal, _ := runtime.ToFloat(argAt(args, 0))
		obj.Scale = scaleVal
		return runtime.NullValue{}, true, nil
	case "getScale":
		return runtime.FloatValue{Val: obj.Scale}, true, nil
	case "setMaterial":
		obj.Material = stringArg(args, 0)
		if node := i.nodes[obj]; node != nil {
			node.SetMaterial(obj.Material)
		}
		return runtime.NullValue{}, true, nil
	case "getMaterial":
		if obj.Material == "" {
			return runtime.NullValue{}, true, nil
		}
		return runtime.StringValue{Val: obj.Material}, true, nil
	case "setAlignment":
		sym, ok := symbolName(argAt(args, 0))
		if !ok {
			return nil, true, typeErrorf("setAlignment expects an alignment symbol")
		}
		mode, ok := alignModeFromSymbol(sym)
		if !ok {
			return nil, true, runtimeErrorf("unknown alignment @%s", sym)
		}
		if node := i.nodes[obj]; node != nil {
			node.SetAlignment(mode)
		}
		return runtime.NullValue{}, true, nil
	case "setFootAlignment":
		sym, ok := symbolName(argAt(args, 0))
		if !ok {
			return nil, true, typeErrorf("setFootAlignment expects an alignment symbol")
		}
		mode, ok := alignModeFromSymbol(sym)
		if !ok {
			return nil, true, runtimeErrorf("unknown alignment @%s", sym)
		}
		if node := i.nodes[obj]; node != nil {
			node.SetFootAlignment(mode)
		}
		return runtime.NullValue{}, true, nil
	case "setSelectable":
		if node := i.nodes[obj]; node != nil {
			node.SetSelectable(runtime.Truthy(argAt(args, 0)))
		}
		return runtime.NullValue{}, true, nil
	case "getLocalBounds":
		node := i.nodes[obj]
		if node == nil {
			return runtime.NullValue{}, true, nil
		}
		min, max := node.LocalBounds()
		return runtime.NewArray(vectorValue(min), vectorValue(max)), true, nil

	// Hierarchy.
	case "getName":
		return runtime.StringValue{Val: obj.Name}, true, nil
	case "getParent":
		if obj.Parent == nil {
			return runtime.NullValue{}, true, nil
		}
		return obj.Parent, true, nil
	case "getChildren":
		out := make([]runtime.Value, len(obj.Children))
		for idx, child := range obj.Children {
			out[idx] = child
		}
		return &runtime.ArrayValue{Elements: out}, true, nil
	case "getChild":
		want := stringArg(args, 0)
		for _, child := range obj.Children {
			if child.Name == want {
				return child, true, nil
			}
		}
		return runtime.NullValue{}, true, nil
	case "removeChild":
		want := stringArg(args, 0)
		for idx, child := range obj.Children {
			if child.Name == want {
				obj.Children = append(obj.Children[:idx], obj.Children[idx+1:]...)
				delete(obj.Fields, want)
				child.Parent = nil
				if node := i.nodes[child]; node != nil {
					i.scene.Remove(node.Name)
					delete(i.nodes, child)
				}
				return runtime.BoolValue{Val: true}, true, nil
			}
		}
		return runtime.BoolValue{Val: false}, true, nil
	case "getRoot":
		root := obj
		for root.Parent != nil {
			root = root.Parent
		}
		return root, true, nil

	// Property system.
	case "setupProperty":
		sym, ok := symbolName(argAt(args, 0))
		if !ok {
			return nil, true, typeErrorf("setupProperty expects a property symbol")
		}
		def := runtime.NewPropertyDef(sym)
		def.TypeInfo = stringArg(args, 1)
		if len(args) > 2 {
			def.Description = stringArg(args, 2)
		}
		if group, ok := intArg(args, 3); ok {
			def.Group = int(group)
		}
		if order, ok := intArg(args, 4); ok {
			def.SortOrder = int(order)
		}
		obj.PropDefs[sym] = def
		obj.PropStates[sym] = def.State
		if _, exists := obj.Properties[sym]; !exists {
			obj.Properties[sym] = def.Default
		}
		return runtime.NullValue{}, true, nil
	case "setPropChoices":
		sym, ok := symbolName(argAt(args, 0))
		if !ok {
			return nil, true, typeErrorf("setPropChoices expects a property symbol")
		}
		def, exists := obj.PropDefs[sym]
		if !exists {
			def = runtime.NewPropertyDef(sym)
			obj.PropDefs[sym] = def
		}
		if arr, ok := argAt(args, 1).(*runtime.ArrayValue); ok {
			def.Choices = append([]runtime.Value{}, arr.Elements...)
		}
		return runtime.NullValue{}, true, nil
	case "getPropChoices":
		sym, _ := symbolName(argAt(args, 0))
		if def, ok := obj.PropDefs[sym]; ok {
			return &runtime.ArrayValue{Elements: append([]runtime.Value{}, def.Choices...)}, true, nil
		}
		return runtime.NullValue{}, true, nil
	case "getPropValue":
		sym, _ := symbolName(argAt(args, 0))
		return obj.PropValue(sym), true, nil
	case "setPropValue":
		sym, ok := symbolName(argAt(args, 0))
		if !ok {
			return nil, true, typeErrorf("setPropValue expects a property symbol")
		}
		obj.Properties[sym] = argAt(args, 1)
		return runtime.NullValue{}, true, nil
	case "getPropState":
		sym, _ := symbolName(argAt(args, 0))
		if state, ok := obj.PropStates[sym]; ok {
			return runtime.IntValue{Val: int64(state)}, true, nil
		}
		return runtime.NullValue{}, true, nil
	case "setPropState":
		sym, ok := symbolName(argAt(args, 0))
		if !ok {
			return nil, true, typeErrorf("setPropState expects a property symbol")
		}
		state, _ := intArg(args, 1)
		obj.PropStates[sym] = int(state)
		return runtime.NullValue{}, true, nil
	case "getProperties":
		type entry struct {
			name  string
			order int
		}
		entries := make([]entry, 0, len(obj.PropDefs))
		for propName, def := range obj.PropDefs {
			entries = append(entries, entry{name: propName, order: def.SortOrder})
		}
		sort.Slice(entries, func(a, b int) bool {
			if entries[a].order != entries[b].order {
				return entries[a].order < entries[b].order
			}
			return entries[a].name < entries[b].name
		})
		out := make([]runtime.Value, len(entries))
		for idx, e := range entries {
			out[idx] = runtime.SymbolValue{Name: e.name}
		}
		return &runtime.ArrayValue{Elements: out}, true, nil

	// Class queries.
	case "getClass":
		return obj.Class, true, nil
	case "getClassName":
		return runtime.StringValue{Val: obj.Class.Name}, true, nil
	case "isA":
		switch want := argAt(args, 0).(type) {
		case *runtime.ClassValue:
			return runtime.BoolValue{Val: i.classInheritsFrom(obj.Class, want.QualifiedName())}, true, nil
		default:
			return runtime.BoolValue{Val: i.classInheritsFrom(obj.Class, runtime.Stringify(want))}, true, nil
		}
	}
	return nil, false, nil
}

package interpreter

import (
	"ofml/interpreter-go/pkg/ast"
	"ofml/interpreter-go/pkg/runtime"
)

func (i *Interpreter) evaluateExpression(expr ast.Expression) (runtime.Value, error) {
	if !i.chargeOperation() {
		return runtime.NullValue{}, nil
	}
	switch node := expr.(type) {
	case *ast.IntLiteral:
		return runtime.IntValue{Val: node.Value}, nil
	case *ast.FloatLiteral:
		return runtime.FloatValue{Val: node.Value}, nil
	case *ast.StringLiteral:
		return runtime.StringValue{Val: node.Value}, nil
	case *ast.SymbolLiteral:
		return runtime.SymbolValue{Name: node.Name}, nil
	case *ast.NullLiteral:
		return runtime.NullValue{}, nil
	case *ast.ArrayLiteral:
		return i.evaluateElements(node.Elements)
	case *ast.ListLiteral:
		return i.evaluateElements(node.Elements)
	case *ast.SelfExpression:
		if i.self == nil {
			return runtime.NullValue{}, nil
		}
		return i.self, nil
	case *ast.SuperExpression:
		// Bare super outside a call position degrades to the instance itself.
		if i.self == nil {
			return runtime.NullValue{}, nil
		}
		return i.self, nil
	case *ast.Identifier:
		return i.resolveIdentifier(node.Name)
	case *ast.QualifiedName:
		return i.resolveQualifiedName(node)
	case *ast.UnaryExpression:
		return i.evaluateUnary(node)
	case *ast.BinaryExpression:
		return i.evaluateBinary(node)
	case *ast.ConditionalExpression:
		cond, err := i.evaluateExpression(node.Condition)
		if err != nil {
			return nil, err
		}
		if runtime.Truthy(cond) {
			return i.evaluateExpression(node.Then)
		}
		return i.evaluateExpression(node.Else)
	case *ast.AssignmentExpression:
		return i.evaluateAssignment(node)
	case *ast.CallExpression:
		return i.evaluateCall(node)
	case *ast.IndexExpression:
		return i.evaluateIndex(node)
	case *ast.SliceExpression:
		return i.evaluateSlice(node)
	case *ast.MemberExpression:
		return i.evaluateMember(node)
	case *ast.InstanceofExpression:
		return i.evaluateInstanceof(node)
	default:
		return nil, typeErrorf("cannot evaluate %s expression", expr.NodeType())
	}
}

func (i *Interpreter) evaluateElements(elements []ast.Expression) (runtime.Value, error) {
	values := make([]runtime.Value, 0, len(elements))
	for _, el := range elements {
		v, err := i.evaluateExpression(el)
		if err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	return &runtime.ArrayValue{Elements: values}, nil
}

// resolveIdentifier checks the environment first, then the current instance's
// fields (scripts reference instance fields unqualified), then the class
// registry for bare class names.
func (i *Interpreter) resolveIdentifier(name string) (runtime.Value, error) {
	if v, ok := i.env.Get(name); ok {
		return v, nil
	}
	if i.self != nil {
		if v, ok := i.self.Fields[name]; ok {
			return v, nil
		}
	}
	if cls, ok := i.LookupClass(name); ok {
		return cls, nil
	}
	return nil, nameErrorf("undefined identifier '%s'", name)
}

// resolveQualifiedName resolves a class reference, or a static member when
// the trailing segment names one on an enclosing class.
func (i *Interpreter) resolveQualifiedName(node *ast.QualifiedName) (runtime.Value, error) {
	full := node.String()
	if cls, ok := i.LookupClass(full); ok {
		return cls, nil
	}
	if len(node.Parts) >= 2 {
		prefix := ast.NewQualifiedName(node.Parts[:len(node.Parts)-1], node.Absolute)
		member := node.Parts[len(node.Parts)-1]
		if cls, ok := i.LookupClass(prefix.String()); ok {
			for _, c := range i.inheritanceChain(cls) {
				if v, ok := c.StaticVars[member]; ok {
					return v, nil
				}
			}
			if fn, _, ok := i.findMethod(cls, member); ok {
				return fn, nil
			}
		}
	}
	return runtime.NullValue{}, nil
}

func (i *Interpreter) evaluateBinary(node *ast.BinaryExpression) (runtime.Value, error) {
	switch node.Operator {
	case ast.BinaryAnd:
		left, err := i.evaluateExpression(node.Left)
		if err != nil {
			return nil, err
		}
		if !runtime.Truthy(left) {
			return runtime.BoolValue{Val: false}, nil
		}
		right, err := i.evaluateExpression(node.Right)
		if err != nil {
			return nil, err
		}
		return runtime.BoolValue{Val: runtime.Truthy(right)}, nil
	case ast.BinaryOr:
		left, err := i.evaluateExpression(node.Left)
		if err != nil {
			return nil, err
		}
		if runtime.Truthy(left) {
			return runtime.BoolValue{Val: true}, nil
		}
		right, err := i.evaluateExpression(node.Right)
		if err != nil {
			return nil, err
		}
		return runtime.BoolValue{Val: runtime.Truthy(right)}, nil
	}
	left, err := i.evaluateExpression(node.Left)
	if err != nil {
		return nil, err
	}
	right, err := i.evaluateExpression(node.Right)
	if err != nil {
		return nil, err
	}
	return applyBinary(node.Operator, left, right)
}

func (i *Interpreter) evaluateUnary(node *ast.UnaryExpression) (runtime.Value, error) {
	switch node.Operator {
	case ast.UnaryPreInc, ast.UnaryPreDec, ast.UnaryPostInc, ast.UnaryPostDec:
		return i.evaluateIncDec(node)
	}
	operand, err := i.evaluateExpression(node.Operand)
	if err != nil {
		return nil, err
	}
	switch node.Operator {
	case ast.UnaryNeg:
		switch v := operand.(type) {
		case runtime.NullValue:
			return runtime.IntValue{Val: 0}, nil
		case runtime.IntValue:
			return runtime.IntValue{Val: -v.Val}, nil
		case runtime.FloatValue:
			return runtime.FloatValue{Val: -v.Val}, nil
		}
		return nil, typeErrorf("cannot negate %s", operand.Kind())
	case ast.UnaryPos:
		switch operand.(type) {
		case runtime.NullValue, runtime.IntValue, runtime.FloatValue:
			return operand, nil
		}
		return nil, typeErrorf("cannot apply unary + to %s", operand.Kind())
	case ast.UnaryNot:
		return runtime.BoolValue{Val: !runtime.Truthy(operand)}, nil
	case ast.UnaryBitNot:
		if _, ok := operand.(runtime.NullValue); ok {
			return runtime.NullValue{}, nil
		}
		if v, ok := operand.(runtime.IntValue); ok {
			return runtime.IntValue{Val: ^v.Val}, nil
		}
		return nil, typeErrorf("bitwise complement requires an integer, got %s", operand.Kind())
	default:
		return nil, typeErrorf("unknown unary operator %q", node.Operator)
	}
}

// evaluateIncDec implements ++/-- by reading the target, adding ±1 through the
// regular addition rules and writing the result back.
func (i *Interpreter) evaluateIncDec(node *ast.UnaryExpression) (runtime.Value, error) {
	old, err := i.evaluateExpression(node.Operand)
	if err != nil {
		return nil, err
	}
	op := ast.BinaryAdd
	if node.Operator == ast.UnaryPreDec || node.Operator == ast.UnaryPostDec {
		op = ast.BinarySub
	}
	updated, err := applyBinary(op, old, runtime.IntValue{Val: 1})
	if err != nil {
		return nil, err
	}
	if err := i.assignTo(node.Operand, updated); err != nil {
		return nil, err
	}
	if node.Operator == ast.UnaryPostInc || node.Operator == ast.UnaryPostDec {
		return old, nil
	}
	return updated, nil
}

func (i *Interpreter) evaluateAssignment(node *ast.AssignmentExpression) (runtime.Value, error) {
	value, err := i.evaluateExpression(node.Value)
	if err != nil {
		return nil, err
	}
	if base := node.Operator.BaseOperator(); base != "" {
		old, err := i.evaluateExpression(node.Target)
		if err != nil {
			return nil, err
		}
		value, err = applyBinary(base, old, value)
		if err != nil {
			return nil, err
		}
	}
	if err := i.assignTo(node.Target, value); err != nil {
		return nil, err
	}
	return value, nil
}

// assignTo writes a value through an assignment target. Targets are limited
// to identifiers, member expressions and index expressions; anything else is
// a hard error.
func (i *Interpreter) assignTo(target ast.Expression, value runtime.Value) error {
	switch t := target.(type) {
	case *ast.Identifier:
		if i.env.Set(t.Name, value) {
			return nil
		}
		if i.self != nil {
			if _, ok := i.self.Fields[t.Name]; ok {
				i.self.Fields[t.Name] = value
				return nil
			}
			if _, ok := i.self.PropDefs[t.Name]; ok {
				i.self.Properties[t.Name] = value
				return nil
			}
		}
		i.env.Define(t.Name, value)
		return nil
	case *ast.MemberExpression:
		obj, err := i.evaluateExpression(t.Object)
		if err != nil {
			return err
		}
		switch target := obj.(type) {
		case runtime.NullValue:
			return nil // null-safe navigation: writing through null is dropped
		case *runtime.ObjectValue:
			if _, ok := target.PropDefs[t.Member]; ok {
				target.Properties[t.Member] = value
				return nil
			}
			target.Fields[t.Member] = value
			return nil
		case *runtime.HashValue:
			target.Entries[t.Member] = value
			return nil
		case *runtime.ClassValue:
			target.StaticVars[t.Member] = value
			return nil
		default:
			return runtimeErrorf("cannot assign member '%s' on %s", t.Member, obj.Kind())
		}
	case *ast.IndexExpression:
		obj, err := i.evaluateExpression(t.Object)
		if err != nil {
			return err
		}
		index, err := i.evaluateExpression(t.Index)
		if err != nil {
			return err
		}
		switch target := obj.(type) {
		case runtime.NullValue:
			return nil
		case *runtime.ArrayValue:
			idx, ok := runtime.ToInt(index)
			if !ok {
				return typeErrorf("array index must be numeric, got %s", index.Kind())
			}
			switch {
			case idx >= 0 && int(idx) < len(target.Elements):
				target.Elements[idx] = value
			case int(idx) == len(target.Elements):
				target.Elements = append(target.Elements, value)
			default:
				return runtimeErrorf("array index %d out of range (len %d)", idx, len(target.Elements))
			}
			return nil
		case *runtime.HashValue:
			target.Entries[runtime.Stringify(index)] = value
			return nil
		default:
			return runtimeErrorf("cannot index-assign into %s", obj.Kind())
		}
	default:
		return runtimeErrorf("invalid assignment target %s", target.NodeType())
	}
}

func (i *Interpreter) evaluateIndex(node *ast.IndexExpression) (runtime.Value, error) {
	obj, err := i.evaluateExpression(node.Object)
	if err != nil {
		return nil, err
	}
	index, err := i.evaluateExpression(node.Index)
	if err != nil {
		return nil, err
	}
	switch target := obj.(type) {
	case runtime.NullValue:
		return runtime.NullValue{}, nil
	case *runtime.ArrayValue:
		idx, ok := runtime.ToInt(index)
		if !ok || idx < 0 || int(idx) >= len(target.Elements) {
			return runtime.NullValue{}, nil
		}
		return target.Elements[idx], nil
	case runtime.StringValue:
		idx, ok := runtime.ToInt(index)
		if !ok || idx < 0 || int(idx) >= len(target.Val) {
			return runtime.NullValue{}, nil
		}
		return runtime.IntValue{Val: int64(target.Val[idx])}, nil
	case *runtime.HashValue:
		if v, ok := target.Entries[runtime.Stringify(index)]; ok {
			return v, nil
		}
		return runtime.NullValue{}, nil
	default:
		return nil, typeErrorf("cannot index %s", obj.Kind())
	}
}

func (i *Interpreter) evaluateSlice(node *ast.SliceExpression) (runtime.Value, error) {
	obj, err := i.evaluateExpression(node.Object)
	if err != nil {
		return nil, err
	}
	startVal, err := i.evaluateExpression(node.Start)
	if err != nil {
		return nil, err
	}
	start, _ := runtime.ToInt(startVal)
	var end int64 = -1
	if node.End != nil {
		endVal, err := i.evaluateExpression(node.End)
		if err != nil {
			return nil, err
		}
		end, _ = runtime.ToInt(endVal)
	}
	clamp := func(v, length int64) int64 {
		if v < 0 {
			return 0
		}
		if v > length {
			return length
		}
		return v
	}
	switch target := obj.(type) {
	case runtime.NullValue:
		return runtime.NullValue{}, nil
	case *runtime.ArrayValue:
		length := int64(len(target.Elements))
		if end < 0 {
			end = length - 1
		}
		start = clamp(start, length)
		stop := clamp(end+1, length)
		if stop < start {
			stop = start
		}
		out := make([]runtime.Value, stop-start)
		copy(out, target.Elements[start:stop])
		return &runtime.ArrayValue{Elements: out}, nil
	case runtime.StringValue:
		length := int64(len(target.Val))
		if end < 0 {
			end = length - 1
		}
		start = clamp(start, length)
		stop := clamp(end+1, length)
		if stop < start {
			stop = start
		}
		return runtime.StringValue{Val: target.Val[start:stop]}, nil
	default:
		return nil, typeErrorf("cannot slice %s", obj.Kind())
	}
}

// evaluateMember implements the lenient member policy: fields, then
// properties, then the virtual members geo and parent, then a method
// reference; anything unresolved is Null.
func (i *Interpreter) evaluateMember(node *ast.MemberExpression) (runtime.Value, error) {
	obj, err := i.evaluateExpression(node.Object)
	if err != nil {
		return nil, err
	}
	switch target := obj.(type) {
	case runtime.NullValue:
		return runtime.NullValue{}, nil
	case *runtime.ObjectValue:
		if v, ok := target.Fields[node.Member]; ok {
			return v, nil
		}
		if v, ok := target.Properties[node.Member]; ok {
			return v, nil
		}
		switch node.Member {
		case "geo":
			return target, nil
		case "parent":
			if target.Parent == nil {
				return runtime.NullValue{}, nil
			}
			return target.Parent, nil
		}
		if fn, _, ok := i.findMethod(target.Class, node.Member); ok {
			return fn, nil
		}
		return runtime.NullValue{}, nil
	case *runtime.ClassValue:
		for _, c := range i.inheritanceChain(target) {
			if v, ok := c.StaticVars[node.Member]; ok {
				return v, nil
			}
		}
		if fn, _, ok := i.findMethod(target, node.Member); ok {
			return fn, nil
		}
		return runtime.NullValue{}, nil
	case *runtime.HashValue:
		if v, ok := target.Entries[node.Member]; ok {
			return v, nil
		}
		return runtime.NullValue{}, nil
	default:
		return runtime.NullValue{}, nil
	}
}

func (i *Interpreter) evaluateInstanceof(node *ast.InstanceofExpression) (runtime.Value, error) {
	value, err := i.evaluateExpression(node.Value)
	if err != nil {
		return nil, err
	}
	obj, ok := value.(*runtime.ObjectValue)
	if !ok {
		return runtime.BoolValue{Val: false}, nil
	}
	name := node.Class.String()
	if cls, found := i.LookupClass(name); found {
		name = cls.QualifiedName()
		for _, c := range i.inheritanceChain(obj.Class) {
			if c == cls || c.QualifiedName() == name {
				return runtime.BoolValue{Val: true}, nil
			}
		}
		return runtime.BoolValue{Val: false}, nil
	}
	return runtime.BoolValue{Val: i.classInheritsFrom(obj.Class, name)}, nil
}

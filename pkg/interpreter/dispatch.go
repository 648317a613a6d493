package interpreter

import (
	"strings"

	"ofml/interpreter-go/pkg/ast"
	"ofml/interpreter-go/pkg/runtime"
)

func (i *Interpreter) evaluateArgs(exprs []ast.Expression) ([]runtime.Value, error) {
	args := make([]runtime.Value, 0, len(exprs))
	for _, expr := range exprs {
		v, err := i.evaluateExpression(expr)
		if err != nil {
			return nil, err
		}
		args = append(args, v)
	}
	return args, nil
}

func (i *Interpreter) evaluateCall(node *ast.CallExpression) (runtime.Value, error) {
	switch callee := node.Callee.(type) {
	case *ast.MemberExpression:
		if _, ok := callee.Object.(*ast.SuperExpression); ok {
			args, err := i.evaluateArgs(node.Arguments)
			if err != nil {
				return nil, err
			}
			return i.callSuperMethod(callee.Member, args)
		}
		receiver, err := i.evaluateExpression(callee.Object)
		if err != nil {
			return nil, err
		}
		args, err := i.evaluateArgs(node.Arguments)
		if err != nil {
			return nil, err
		}
		return i.callMethodOnValue(receiver, callee.Member, args)
	case *ast.SuperExpression:
		// super(...) chains to the parent's method of the same name, which in
		// practice is almost always initialize.
		args, err := i.evaluateArgs(node.Arguments)
		if err != nil {
			return nil, err
		}
		return i.callSuperMethod(i.currentMethod, args)
	case *ast.Identifier:
		return i.callBareIdentifier(callee.Name, node.Arguments)
	case *ast.QualifiedName:
		return i.callQualifiedName(callee, node.Arguments)
	default:
		fn, err := i.evaluateExpression(node.Callee)
		if err != nil {
			return nil, err
		}
		args, err := i.evaluateArgs(node.Arguments)
		if err != nil {
			return nil, err
		}
		return i.callValue(fn, args)
	}
}

// callBareIdentifier models the implicit-self convention: with self set the
// name is first tried as a method on self's class chain, then as a built-in
// object method on self, before falling back to a global lookup.
func (i *Interpreter) callBareIdentifier(name string, argExprs []ast.Expression) (runtime.Value, error) {
	args, err := i.evaluateArgs(argExprs)
	if err != nil {
		return nil, err
	}
	if i.self != nil {
		if fn, owner, ok := i.findMethod(i.self.Class, name); ok {
			return i.callFunction(fn, i.self, owner.QualifiedName(), args)
		}
		if result, handled, err := i.callObjectIntrinsic(i.self, name, args); handled {
			return result, err
		}
	}
	if value, ok := i.env.Get(name); ok {
		return i.callValue(value, args)
	}
	if cls, ok := i.LookupClass(name); ok {
		return i.Instantiate(cls, args)
	}
	return nil, nameErrorf("undefined function '%s'", name)
}

// callQualifiedName handles Pkg::Class(...) constructor calls and
// Pkg::Class::method(...) static calls, with the degradation rules scripts
// rely on: a found class with a missing method yields Null, and a missing
// class yields Null for initialize-style chaining instead of failing.
func (i *Interpreter) callQualifiedName(name *ast.QualifiedName, argExprs []ast.Expression) (runtime.Value, error) {
	args, err := i.evaluateArgs(argExprs)
	if err != nil {
		return nil, err
	}
	if cls, ok := i.LookupClass(name.String()); ok {
		return i.Instantiate(cls, args)
	}
	if len(name.Parts) >= 2 {
		prefix := ast.NewQualifiedName(name.Parts[:len(name.Parts)-1], name.Absolute)
		method := name.Parts[len(name.Parts)-1]
		if cls, ok := i.LookupClass(prefix.String()); ok {
			if fn, owner, ok := i.findMethod(cls, method); ok {
				self := i.self
				if fn.Static {
					self = nil
				}
				return i.callFunction(fn, self, owner.QualifiedName(), args)
			}
			return runtime.NullValue{}, nil
		}
		if isInitializerName(method) {
			return runtime.NullValue{}, nil
		}
	}
	return nil, nameErrorf("undefined class or function '%s'", name.String())
}

func isInitializerName(name string) bool {
	return name == "initialize" || strings.HasPrefix(name, "init")
}

// callSuperMethod resolves a method starting above the class that defined the
// currently executing method.
func (i *Interpreter) callSuperMethod(name string, args []runtime.Value) (runtime.Value, error) {
	if i.self == nil || i.currentOwner == "" || name == "" {
		return runtime.NullValue{}, nil
	}
	owner, ok := i.LookupClass(i.currentOwner)
	if !ok {
		return runtime.NullValue{}, nil
	}
	parent, ok := i.resolveParent(owner)
	if !ok {
		return runtime.NullValue{}, nil
	}
	fn, defining, ok := i.findMethod(parent, name)
	if !ok {
		return runtime.NullValue{}, nil
	}
	return i.callFunction(fn, i.self, defining.QualifiedName(), args)
}

// callValue invokes whatever value a call expression resolved to. Calling
// through null is null-safe navigation and yields Null.
func (i *Interpreter) callValue(callee runtime.Value, args []runtime.Value) (runtime.Value, error) {
	switch fn := callee.(type) {
	case runtime.NullValue:
		return runtime.NullValue{}, nil
	case *runtime.FunctionValue:
		self := i.self
		if fn.OwnerClass == "" || fn.Static {
			self = nil
		}
		return i.callFunction(fn, self, fn.OwnerClass, args)
	case *runtime.NativeFunctionValue:
		return fn.Fn(&runtime.NativeCallContext{Env: i.env}, args)
	case *runtime.ClassValue:
		return i.Instantiate(fn, args)
	default:
		return nil, typeErrorf("%s is not callable", callee.Kind())
	}
}

// callFunction invokes a user function: parameters bind positionally with
// missing trailing arguments as Null, and a Return signal unwraps into the
// call's value.
func (i *Interpreter) callFunction(fn *runtime.FunctionValue, self *runtime.ObjectValue, owner string, args []runtime.Value) (runtime.Value, error) {
	i.callDepth++
	defer func() { i.callDepth-- }()
	if i.callDepth > maxCallDepth {
		return nil, runtimeErrorf("call depth limit exceeded in '%s'", fn.Name)
	}
	if fn.Body == nil {
		return runtime.NullValue{}, nil
	}

	prevSelf, prevMethod, prevOwner := i.self, i.currentMethod, i.currentOwner
	i.self, i.currentMethod, i.currentOwner = self, fn.Name, owner
	i.env.PushScope()
	defer func() {
		i.env.PopScope()
		i.self, i.currentMethod, i.currentOwner = prevSelf, prevMethod, prevOwner
	}()

	for idx, param := range fn.Params {
		if idx < len(args) {
			i.env.Define(param, args[idx])
		} else {
			i.env.Define(param, runtime.NullValue{})
		}
	}

	err := i.executeStatements(fn.Body.Body)
	switch sig := err.(type) {
	case nil:
		return runtime.NullValue{}, nil
	case returnSignal:
		return sig.value, nil
	default:
		return nil, err
	}
}

// CallMethod invokes a named method on an instance, for hosts and tests.
func (i *Interpreter) CallMethod(obj *runtime.ObjectValue, name string, args []runtime.Value) (runtime.Value, error) {
	return i.callMethodOnValue(obj, name, args)
}

// callMethodOnValue dispatches a method call against a receiver: built-in
// intrinsic catalogues by receiver type first, then the class method table up
// the lazily resolved chain.
func (i *Interpreter) callMethodOnValue(receiver runtime.Value, name string, args []runtime.Value) (runtime.Value, error) {
	switch target := receiver.(type) {
	case runtime.NullValue:
		return runtime.NullValue{}, nil
	case *runtime.ArrayValue:
		return i.callArrayMethod(target, name, args)
	case *runtime.HashValue:
		return i.callHashMethod(target, name, args)
	case runtime.StringValue:
		return i.callStringMethod(target, name, args)
	case *runtime.ObjectValue:
		if result, handled, err := i.callObjectIntrinsic(target, name, args); handled {
			return result, err
		}
		if fn, owner, ok := i.findMethod(target.Class, name); ok {
			return i.callFunction(fn, target, owner.QualifiedName(), args)
		}
		// Unknown object methods degrade to Null; the corpus calls methods on
		// classes whose packages may not have loaded.
		return runtime.NullValue{}, nil
	case *runtime.ClassValue:
		if fn, owner, ok := i.findMethod(target, name); ok {
			self := i.self
			if fn.Static {
				self = nil
			}
			return i.callFunction(fn, self, owner.QualifiedName(), args)
		}
		return runtime.NullValue{}, nil
	default:
		return nil, typeErrorf("cannot call method '%s' on %s", name, receiver.Kind())
	}
}

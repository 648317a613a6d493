package interpreter

import (
	"fmt"
	"math"
	"strings"

	"ofml/interpreter-go/pkg/runtime"
)

// registerNativeClasses installs the fixed catalogue of base classes every
// script package builds on. They live in the empty package, so their short
// and qualified names coincide.
func (i *Interpreter) registerNativeClasses() {
	register := func(name, parent string) {
		i.RegisterClass(runtime.NewClass(name, "", parent, nil))
	}
	register("MObject", "")
	register("OiObject", "MObject")
	register("OiPart", "OiObject")
	register("OiPlanningElement", "OiObject")
	register("OiBlock", "OiPlanningElement")
	register("OiCylinder", "OiPlanningElement")
	register("OiSphere", "OiPlanningElement")
}

func nativeArgs(args []runtime.Value) []any {
	out := make([]any, len(args))
	for idx, arg := range args {
		switch v := arg.(type) {
		case runtime.IntValue:
			out[idx] = v.Val
		case runtime.FloatValue:
			out[idx] = v.Val
		case runtime.StringValue:
			out[idx] = v.Val
		default:
			out[idx] = runtime.Stringify(arg)
		}
	}
	return out
}

func mathUnary(fn func(float64) float64) runtime.NativeFn {
	return func(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
		f, ok := runtime.ToFloat(argAt(args, 0))
		if !ok {
			return runtime.NullValue{}, nil
		}
		return runtime.FloatValue{Val: fn(f)}, nil
	}
}

// registerNativeFunctions installs the global native function library.
func (i *Interpreter) registerNativeFunctions() {
	define := func(name string, fn runtime.NativeFn) {
		i.env.DefineGlobal(name, &runtime.NativeFunctionValue{Name: name, Fn: fn})
	}

	define("print", func(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
		parts := make([]string, len(args))
		for idx, arg := range args {
			parts[idx] = runtime.Stringify(arg)
		}
		fmt.Fprintln(i.out, strings.Join(parts, " "))
		return runtime.NullValue{}, nil
	})
	define("printf", func(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
		if len(args) == 0 {
			return runtime.NullValue{}, nil
		}
		format := runtime.Stringify(args[0])
		fmt.Fprintf(i.out, format, nativeArgs(args[1:])...)
		return runtime.NullValue{}, nil
	})
	define("sprintf", func(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
		if len(args) == 0 {
			return runtime.StringValue{}, nil
		}
		format := runtime.Stringify(args[0])
		return runtime.StringValue{Val: fmt.Sprintf(format, nativeArgs(args[1:])...)}, nil
	})

	define("abs", func(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
		switch v := argAt(args, 0).(type) {
		case runtime.IntValue:
			if v.Val < 0 {
				return runtime.IntValue{Val: -v.Val}, nil
			}
			return v, nil
		case runtime.FloatValue:
			return runtime.FloatValue{Val: math.Abs(v.Val)}, nil
		default:
			return runtime.NullValue{}, nil
		}
	})
	define("sqrt", mathUnary(math.Sqrt))
	define("floor", mathUnary(math.Floor))
	define("ceil", mathUnary(math.Ceil))
	define("round", mathUnary(math.Round))
	define("sin", mathUnary(math.Sin))
	define("cos", mathUnary(math.Cos))
	define("tan", mathUnary(math.Tan))
	define("pow", func(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
		base, ok1 := runtime.ToFloat(argAt(args, 0))
		exp, ok2 := runtime.ToFloat(argAt(args, 1))
		if !ok1 || !ok2 {
			return runtime.NullValue{}, nil
		}
		return runtime.FloatValue{Val: math.Pow(base, exp)}, nil
	})
	define("atan2", func(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
		y, ok1 := runtime.ToFloat(argAt(args, 0))
		x, ok2 := runtime.ToFloat(argAt(args, 1))
		if !ok1 || !ok2 {
			return runtime.NullValue{}, nil
		}
		return runtime.FloatValue{Val: math.Atan2(y, x)}, nil
	})

	define("typeof", func(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
		return runtime.StringValue{Val: argAt(args, 0).Kind().String()}, nil
	})
	define("str", func(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
		return runtime.StringValue{Val: runtime.Stringify(argAt(args, 0))}, nil
	})
	define("int", func(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
		if n, ok := runtime.ToInt(argAt(args, 0)); ok {
			return runtime.IntValue{Val: n}, nil
		}
		return runtime.NullValue{}, nil
	})
	define("float", func(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
		if f, ok := runtime.ToFloat(argAt(args, 0)); ok {
			return runtime.FloatValue{Val: f}, nil
		}
		return runtime.NullValue{}, nil
	})
	define("len", func(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
		switch v := argAt(args, 0).(type) {
		case *runtime.ArrayValue:
			return runtime.IntValue{Val: int64(len(v.Elements))}, nil
		case *runtime.HashValue:
			return runtime.IntValue{Val: int64(len(v.Entries))}, nil
		case runtime.StringValue:
			return runtime.IntValue{Val: int64(len(v.Val))}, nil
		default:
			return runtime.NullValue{}, nil
		}
	})
	define("sym", func(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
		return runtime.SymbolValue{Name: runtime.Stringify(argAt(args, 0))}, nil
	})
	define("hash", func(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
		return runtime.NewHash(), nil
	})
}

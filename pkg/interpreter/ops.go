package interpreter

import (
	"math"

	"ofml/interpreter-go/pkg/ast"
	"ofml/interpreter-go/pkg/runtime"
)

func isNull(v runtime.Value) bool {
	_, ok := v.(runtime.NullValue)
	return ok
}

// applyBinary implements the language's operator table. Null participates in
// arithmetic as an absorbing/identity element: uninitialized configuration
// properties are commonly null and scripts routinely compute with them, so
// these rules are graceful degradation, not accidents. Preserve them exactly.
func applyBinary(op ast.BinaryOperator, left, right runtime.Value) (runtime.Value, error) {
	switch op {
	case ast.BinaryAdd:
		return applyAdd(left, right)
	case ast.BinarySub:
		return applySub(left, right)
	case ast.BinaryMul:
		if isNull(left) || isNull(right) {
			return runtime.IntValue{Val: 0}, nil
		}
		return applyNumeric(op, left, right)
	case ast.BinaryDiv, ast.BinaryMod:
		if isNull(right) {
			return left, nil // division/modulo by null return the numerator
		}
		if isNull(left) {
			if op == ast.BinaryDiv {
				return runtime.FloatValue{Val: 0}, nil
			}
			return runtime.IntValue{Val: 0}, nil
		}
		return applyNumeric(op, left, right)
	case ast.BinaryEq:
		return runtime.BoolValue{Val: runtime.Equals(left, right)}, nil
	case ast.BinaryNe:
		return runtime.BoolValue{Val: !runtime.Equals(left, right)}, nil
	case ast.BinaryLt, ast.BinaryLe, ast.BinaryGt, ast.BinaryGe:
		return applyCompare(op, left, right)
	case ast.BinaryBand, ast.BinaryBor, ast.BinaryBxor, ast.BinaryShl, ast.BinaryShr, ast.BinaryUshr:
		return applyBitwise(op, left, right)
	case ast.BinaryMin, ast.BinaryMax:
		return applyMinMax(op, left, right)
	default:
		return nil, typeErrorf("unknown binary operator %q", op)
	}
}

func applyAdd(left, right runtime.Value) (runtime.Value, error) {
	// String concatenation auto-coerces the non-string operand, null included:
	// "label" + null is "labelNULL". Null acts as 0 only against numbers.
	if _, ok := left.(runtime.StringValue); ok {
		return runtime.StringValue{Val: runtime.Stringify(left) + runtime.Stringify(right)}, nil
	}
	if _, ok := right.(runtime.StringValue); ok {
		return runtime.StringValue{Val: runtime.Stringify(left) + runtime.Stringify(right)}, nil
	}
	switch {
	case isNull(left) && isNull(right):
		return runtime.NullValue{}, nil
	case isNull(left):
		return right, nil
	case isNull(right):
		return left, nil
	}
	if la, ok := left.(*runtime.ArrayValue); ok {
		if ra, ok := right.(*runtime.ArrayValue); ok {
			out := make([]runtime.Value, 0, len(la.Elements)+len(ra.Elements))
			out = append(out, la.Elements...)
			out = append(out, ra.Elements...)
			return &runtime.ArrayValue{Elements: out}, nil
		}
	}
	return applyNumeric(ast.BinaryAdd, left, right)
}

func applySub(left, right runtime.Value) (runtime.Value, error) {
	switch {
	case isNull(left) && isNull(right):
		return runtime.NullValue{}, nil
	case isNull(right):
		return left, nil
	case isNull(left):
		// null - x == -x
		switch v := right.(type) {
		case runtime.IntValue:
			return runtime.IntValue{Val: -v.Val}, nil
		case runtime.FloatValue:
			return runtime.FloatValue{Val: -v.Val}, nil
		}
		return nil, typeErrorf("cannot subtract %s from null", right.Kind())
	}
	return applyNumeric(ast.BinarySub, left, right)
}

// applyNumeric handles +, -, *, / and % over non-null operands, coercing
// int/float pairs to float. Integer division or modulo by a real zero is a
// hard error; only null divisors degrade.
func applyNumeric(op ast.BinaryOperator, left, right runtime.Value) (runtime.Value, error) {
	li, lIsInt := left.(runtime.IntValue)
	ri, rIsInt := right.(runtime.IntValue)
	if lb, ok := left.(runtime.BoolValue); ok {
		li, lIsInt = runtime.IntValue{Val: boolToInt(lb.Val)}, true
	}
	if rb, ok := right.(runtime.BoolValue); ok {
		ri, rIsInt = runtime.IntValue{Val: boolToInt(rb.Val)}, true
	}
	if lIsInt && rIsInt {
		switch op {
		case ast.BinaryAdd:
			return runtime.IntValue{Val: li.Val + ri.Val}, nil
		case ast.BinarySub:
			return runtime.IntValue{Val: li.Val - ri.Val}, nil
		case ast.BinaryMul:
			return runtime.IntValue{Val: li.Val * ri.Val}, nil
		case ast.BinaryDiv:
			if ri.Val == 0 {
				return nil, runtimeErrorf("integer division by zero")
			}
			return runtime.IntValue{Val: li.Val / ri.Val}, nil
		case ast.BinaryMod:
			if ri.Val == 0 {
				return nil, runtimeErrorf("integer modulo by zero")
			}
			return runtime.IntValue{Val: li.Val % ri.Val}, nil
		}
	}
	lf, lok := runtime.ToFloat(left)
	rf, rok := runtime.ToFloat(right)
	if !lok || !rok {
		return nil, typeErrorf("operator %q is not defined for %s and %s", op, left.Kind(), right.Kind())
	}
	switch op {
	case ast.BinaryAdd:
		return runtime.FloatValue{Val: lf + rf}, nil
	case ast.BinarySub:
		return runtime.FloatValue{Val: lf - rf}, nil
	case ast.BinaryMul:
		return runtime.FloatValue{Val: lf * rf}, nil
	case ast.BinaryDiv:
		if rf == 0 {
			return nil, runtimeErrorf("division by zero")
		}
		return runtime.FloatValue{Val: lf / rf}, nil
	case ast.BinaryMod:
		if rf == 0 {
			return nil, runtimeErrorf("modulo by zero")
		}
		return runtime.FloatValue{Val: math.Mod(lf, rf)}, nil
	default:
		return nil, typeErrorf("unknown numeric operator %q", op)
	}
}

// applyCompare: relational comparisons involving null always evaluate to
// false, in both operand positions.
func applyCompare(op ast.BinaryOperator, left, right runtime.Value) (runtime.Value, error) {
	if isNull(left) || isNull(right) {
		return runtime.BoolValue{Val: false}, nil
	}
	if ls, ok := left.(runtime.StringValue); ok {
		if rs, ok := right.(runtime.StringValue); ok {
			return runtime.BoolValue{Val: compareOrdered(op, ls.Val, rs.Val)}, nil
		}
	}
	lf, lok := runtime.ToFloat(left)
	rf, rok := runtime.ToFloat(right)
	if !lok || !rok {
		return runtime.BoolValue{Val: false}, nil
	}
	return runtime.BoolValue{Val: compareOrdered(op, lf, rf)}, nil
}

func compareOrdered[T interface{ ~string | ~float64 }](op ast.BinaryOperator, a, b T) bool {
	switch op {
	case ast.BinaryLt:
		return a < b
	case ast.BinaryLe:
		return a <= b
	case ast.BinaryGt:
		return a > b
	case ast.BinaryGe:
		return a >= b
	default:
		return false
	}
}

func applyBitwise(op ast.BinaryOperator, left, right runtime.Value) (runtime.Value, error) {
	if isNull(left) || isNull(right) {
		return runtime.NullValue{}, nil
	}
	li, lok := left.(runtime.IntValue)
	ri, rok := right.(runtime.IntValue)
	if !lok || !rok {
		return nil, typeErrorf("operator %q requires integer operands, got %s and %s", op, left.Kind(), right.Kind())
	}
	switch op {
	case ast.BinaryBand:
		return runtime.IntValue{Val: li.Val & ri.Val}, nil
	case ast.BinaryBor:
		return runtime.IntValue{Val: li.Val | ri.Val}, nil
	case ast.BinaryBxor:
		return runtime.IntValue{Val: li.Val ^ ri.Val}, nil
	case ast.BinaryShl:
		return runtime.IntValue{Val: li.Val << uint64(ri.Val)}, nil
	case ast.BinaryShr:
		return runtime.IntValue{Val: li.Val >> uint64(ri.Val)}, nil
	case ast.BinaryUshr:
		return runtime.IntValue{Val: int64(uint64(li.Val) >> uint64(ri.Val))}, nil
	default:
		return nil, typeErrorf("unknown bitwise operator %q", op)
	}
}

// applyMinMax treats null as the identity element, returning the other
// operand unchanged.
func applyMinMax(op ast.BinaryOperator, left, right runtime.Value) (runtime.Value, error) {
	if isNull(left) {
		return right, nil
	}
	if isNull(right) {
		return left, nil
	}
	lf, lok := runtime.ToFloat(left)
	rf, rok := runtime.ToFloat(right)
	if lok && rok {
		if (op == ast.BinaryMin) == (lf <= rf) {
			return left, nil
		}
		return right, nil
	}
	if ls, ok := left.(runtime.StringValue); ok {
		if rs, ok := right.(runtime.StringValue); ok {
			if (op == ast.BinaryMin) == (ls.Val <= rs.Val) {
				return left, nil
			}
			return right, nil
		}
	}
	return nil, typeErrorf("operator %q is not defined for %s and %s", op, left.Kind(), right.Kind())
}

func boolToInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

package interpreter

import (
	"strings"

	"ofml/interpreter-go/pkg/runtime"
)

func argAt(args []runtime.Value, idx int) runtime.Value {
	if idx < len(args) {
		return args[idx]
	}
	return runtime.NullValue{}
}

func intArg(args []runtime.Value, idx int) (int64, bool) {
	return runtime.ToInt(argAt(args, idx))
}

func stringArg(args []runtime.Value, idx int) string {
	return runtime.Stringify(argAt(args, idx))
}

func (i *Interpreter) callArrayMethod(arr *runtime.ArrayValue, name string, args []runtime.Value) (runtime.Value, error) {
	switch name {
	case "size", "length":
		return runtime.IntValue{Val: int64(len(arr.Elements))}, nil
	case "empty":
		return runtime.BoolValue{Val: len(arr.Elements) == 0}, nil
	case "push", "pushBack":
		arr.Elements = append(arr.Elements, argAt(args, 0))
		return runtime.NullValue{}, nil
	case "pushFront":
		arr.Elements = append([]runtime.Value{argAt(args, 0)}, arr.Elements...)
		return runtime.NullValue{}, nil
	case "pop", "popBack":
		if len(arr.Elements) == 0 {
			return runtime.NullValue{}, nil
		}
		last := arr.Elements[len(arr.Elements)-1]
		arr.Elements = arr.Elements[:len(arr.Elements)-1]
		return last, nil
	case "popFront":
		if len(arr.Elements) == 0 {
			return runtime.NullValue{}, nil
		}
		first := arr.Elements[0]
		arr.Elements = arr.Elements[1:]
		return first, nil
	case "clear":
		arr.Elements = arr.Elements[:0]
		return runtime.NullValue{}, nil
	case "find":
		for idx, el := range arr.Elements {
			if runtime.Equals(el, argAt(args, 0)) {
				return runtime.IntValue{Val: int64(idx)}, nil
			}
		}
		return runtime.IntValue{Val: -1}, nil
	case "get":
		idx, ok := intArg(args, 0)
		if !ok || idx < 0 || int(idx) >= len(arr.Elements) {
			return runtime.NullValue{}, nil
		}
		return arr.Elements[idx], nil
	case "insert":
		arr.Elements = append(arr.Elements, argAt(args, 0))
		return runtime.NullValue{}, nil
	case "insertAt":
		idx, ok := intArg(args, 0)
		if !ok || idx < 0 || int(idx) > len(arr.Elements) {
			return runtime.NullValue{}, nil
		}
		value := argAt(args, 1)
		arr.Elements = append(arr.Elements, nil)
		copy(arr.Elements[idx+1:], arr.Elements[idx:])
		arr.Elements[idx] = value
		return runtime.NullValue{}, nil
	case "removeAt":
		idx, ok := intArg(args, 0)
		if !ok || idx < 0 || int(idx) >= len(arr.Elements) {
			return runtime.NullValue{}, nil
		}
		removed := arr.Elements[idx]
		arr.Elements = append(arr.Elements[:idx], arr.Elements[idx+1:]...)
		return removed, nil
	case "erase":
		for idx, el := range arr.Elements {
			if runtime.Equals(el, argAt(args, 0)) {
				arr.Elements = append(arr.Elements[:idx], arr.Elements[idx+1:]...)
				return runtime.BoolValue{Val: true}, nil
			}
		}
		return runtime.BoolValue{Val: false}, nil
	default:
		return nil, runtimeErrorf("unknown array method '%s'", name)
	}
}

func (i *Interpreter) callHashMethod(hash *runtime.HashValue, name string, args []runtime.Value) (runtime.Value, error) {
	switch name {
	case "size", "length":
		return runtime.IntValue{Val: int64(len(hash.Entries))}, nil
	case "empty":
		return runtime.BoolValue{Val: len(hash.Entries) == 0}, nil
	case "hasKey", "contains":
		_, ok := hash.Entries[stringArg(args, 0)]
		return runtime.BoolValue{Val: ok}, nil
	case "keys":
		keys := hash.SortedKeys()
		out := make([]runtime.Value, len(keys))
		for idx, key := range keys {
			out[idx] = runtime.StringValue{Val: key}
		}
		return &runtime.ArrayValue{Elements: out}, nil
	case "get":
		if v, ok := hash.Entries[stringArg(args, 0)]; ok {
			return v, nil
		}
		return runtime.NullValue{}, nil
	case "remove":
		key := stringArg(args, 0)
		_, ok := hash.Entries[key]
		delete(hash.Entries, key)
		return runtime.BoolValue{Val: ok}, nil
	case "clear":
		hash.Entries = make(map[string]runtime.Value)
		return runtime.NullValue{}, nil
	default:
		return nil, runtimeErrorf("unknown hash method '%s'", name)
	}
}

// callStringMethod covers the string catalogue. Unknown string methods return
// Null instead of erroring; scripts probe for helpers that newer runtimes
// provide.
func (i *Interpreter) callStringMethod(str runtime.StringValue, name string, args []runtime.Value) (runtime.Value, error) {
	s := str.Val
	switch name {
	case "size", "length":
		return runtime.IntValue{Val: int64(len(s))}, nil
	case "empty":
		return runtime.BoolValue{Val: s == ""}, nil
	case "find", "indexOf":
		return runtime.IntValue{Val: int64(strings.Index(s, stringArg(args, 0)))}, nil
	case "contains":
		return runtime.BoolValue{Val: strings.Contains(s, stringArg(args, 0))}, nil
	case "substr":
		start, ok := intArg(args, 0)
		if !ok || start < 0 || int(start) > len(s) {
			return runtime.StringValue{Val: ""}, nil
		}
		end := int64(len(s))
		if count, ok := intArg(args, 1); ok && start+count < end {
			end = start + count
		}
		return runtime.StringValue{Val: s[start:end]}, nil
	case "substring":
		start, ok := intArg(args, 0)
		if !ok || start < 0 || int(start) > len(s) {
			return runtime.StringValue{Val: ""}, nil
		}
		end := int64(len(s))
		if stop, ok := intArg(args, 1); ok && stop >= start && stop < end {
			end = stop
		}
		return runtime.StringValue{Val: s[start:end]}, nil
	case "toUpper":
		return runtime.StringValue{Val: strings.ToUpper(s)}, nil
	case "toLower":
		return runtime.StringValue{Val: strings.ToLower(s)}, nil
	case "trim":
		return runtime.StringValue{Val: strings.TrimSpace(s)}, nil
	case "startsWith":
		return runtime.BoolValue{Val: strings.HasPrefix(s, stringArg(args, 0))}, nil
	case "endsWith":
		return runtime.BoolValue{Val: strings.HasSuffix(s, stringArg(args, 0))}, nil
	case "replace":
		return runtime.StringValue{Val: strings.Replace(s, stringArg(args, 0), stringArg(args, 1), 1)}, nil
	case "replaceAll":
		return runtime.StringValue{Val: strings.ReplaceAll(s, stringArg(args, 0), stringArg(args, 1))}, nil
	case "split":
		parts := strings.Split(s, stringArg(args, 0))
		out := make([]runtime.Value, len(parts))
		for idx, part := range parts {
			out[idx] = runtime.StringValue{Val: part}
		}
		return &runtime.ArrayValue{Elements: out}, nil
	case "charAt":
		idx, ok := intArg(args, 0)
		if !ok || idx < 0 || int(idx) >= len(s) {
			return runtime.StringValue{Val: ""}, nil
		}
		return runtime.StringValue{Val: string(s[idx])}, nil
	default:
		return runtime.NullValue{}, nil
	}
}

package runtime

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"ofml/interpreter-go/pkg/ast"
)

// Kind identifies the runtime value category.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindSymbol
	KindArray
	KindHash
	KindObject
	KindFunction
	KindNativeFunction
	KindClass
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "Null"
	case KindBool:
		return "Bool"
	case KindInt:
		return "Int"
	case KindFloat:
		return "Float"
	case KindString:
		return "String"
	case KindSymbol:
		return "Symbol"
	case KindArray:
		return "Array"
	case KindHash:
		return "Hash"
	case KindObject:
		return "Object"
	case KindFunction:
		return "Func"
	case KindNativeFunction:
		return "NativeFunc"
	case KindClass:
		return "Class"
	default:
		return fmt.Sprintf("unknown_kind_%d", int(k))
	}
}

// Value is the shared behaviour for all runtime values.
type Value interface {
	Kind() Kind
}

//-----------------------------------------------------------------------------
// Scalars
//-----------------------------------------------------------------------------

type NullValue struct{}

func (NullValue) Kind() Kind { return KindNull }

type BoolValue struct {
	Val bool
}

func (v BoolValue) Kind() Kind { return KindBool }

type IntValue struct {
	Val int64
}

func (v IntValue) Kind() Kind { return KindInt }

type FloatValue struct {
	Val float64
}

func (v FloatValue) Kind() Kind { return KindFloat }

type StringValue struct {
	Val string
}

func (v StringValue) Kind() Kind { return KindString }

// SymbolValue is an interned name (@name in source). Two symbols are equal
// when their names are equal.
type SymbolValue struct {
	Name string
}

func (v SymbolValue) Kind() Kind { return KindSymbol }

//-----------------------------------------------------------------------------
// Containers
//-----------------------------------------------------------------------------

// ArrayValue is shared and mutably aliased: every Value holding the same
// *ArrayValue observes the same elements, which gives arrays identity
// semantics across function calls and field slots.
type ArrayValue struct {
	Elements []Value
}

func (v *ArrayValue) Kind() Kind { return KindArray }

func NewArray(elements ...Value) *ArrayValue {
	return &ArrayValue{Elements: elements}
}

// HashValue is a string-keyed mapping with the same aliasing behaviour as
// ArrayValue.
type HashValue struct {
	Entries map[string]Value
}

func (v *HashValue) Kind() Kind { return KindHash }

func NewHash() *HashValue {
	return &HashValue{Entries: make(map[string]Value)}
}

// SortedKeys returns the hash keys in deterministic order.
func (v *HashValue) SortedKeys() []string {
	keys := make([]string, 0, len(v.Entries))
	for k := range v.Entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

//-----------------------------------------------------------------------------
// Objects and classes
//-----------------------------------------------------------------------------

// PropertyDef describes one configurable property of an object.
type PropertyDef struct {
	Name        string
	TypeInfo    string
	Description string
	SortOrder   int
	Group       int
	Choices     []Value
	State       int
	Default     Value
}

// Property states.
const (
	PropHidden   = 0
	PropReadonly = 1
	PropEditable = 3
)

func NewPropertyDef(name string) *PropertyDef {
	return &PropertyDef{Name: name, State: PropEditable, Default: NullValue{}}
}

// ObjectValue is a class instance. Parent is a non-owning back-reference; the
// owning edge runs parent→Children.
type ObjectValue struct {
	Class      *ClassValue
	Fields     map[string]Value
	Properties map[string]Value
	PropDefs   map[string]*PropertyDef
	PropStates map[string]int
	Parent     *ObjectValue
	Children   []*ObjectValue
	Name       string
	Position   [3]float64
	Rotation   [3]float64
	Scale      float64
	Material   string
}

func (v *ObjectValue) Kind() Kind { return KindObject }

func NewObject(class *ClassValue, name string) *ObjectValue {
	return &ObjectValue{
		Class:      class,
		Fields:     make(map[string]Value),
		Properties: make(map[string]Value),
		PropDefs:   make(map[string]*PropertyDef),
		PropStates: make(map[string]int),
		Name:       name,
		Scale:      1.0,
	}
}

// PropValue returns the stored property value, or Null when unset.
func (v *ObjectValue) PropValue(name string) Value {
	if val, ok := v.Properties[name]; ok {
		return val
	}
	return NullValue{}
}

// ClassValue is a registered class. ParentName is the declared parent as
// written in source; it is resolved through the registry on every chain walk
// rather than cached, so a parent registered after its children still wins.
type ClassValue struct {
	Name       string
	Package    string
	ParentName string
	Methods    map[string]*FunctionValue
	Rules      map[string]*FunctionValue
	StaticVars map[string]Value
	Decl       *ast.ClassDecl
}

func (v *ClassValue) Kind() Kind { return KindClass }

func NewClass(name, pkg, parentName string, decl *ast.ClassDecl) *ClassValue {
	return &ClassValue{
		Name:       name,
		Package:    pkg,
		ParentName: parentName,
		Methods:    make(map[string]*FunctionValue),
		Rules:      make(map[string]*FunctionValue),
		StaticVars: make(map[string]Value),
		Decl:       decl,
	}
}

// QualifiedName returns the package-qualified class name, or the short name
// for classes registered in the empty package (native base classes).
func (v *ClassValue) QualifiedName() string {
	if v.Package == "" {
		return v.Name
	}
	return v.Package + "::" + v.Name
}

//-----------------------------------------------------------------------------
// Functions
//-----------------------------------------------------------------------------

// FunctionValue is a user-defined function or method. A nil Body marks a
// declaration without an implementation (abstract or externally provided).
// OwnerClass holds the qualified name of the defining class, empty for free
// functions; dispatch resolves it through the registry when walking to super.
type FunctionValue struct {
	Name       string
	Params     []string
	Body       *ast.Block
	OwnerClass string
	Static     bool
}

func (v *FunctionValue) Kind() Kind { return KindFunction }

// NativeCallContext gives native functions access to the calling environment.
type NativeCallContext struct {
	Env *Environment
}

// NativeFn is the calling convention for functions implemented in Go.
type NativeFn func(ctx *NativeCallContext, args []Value) (Value, error)

type NativeFunctionValue struct {
	Name string
	Fn   NativeFn
}

func (v *NativeFunctionValue) Kind() Kind { return KindNativeFunction }

//-----------------------------------------------------------------------------
// Coercion and comparison
//-----------------------------------------------------------------------------

// Truthy implements the language's condition test: null, false, numeric zero
// and empty string/array are false; everything else, including an empty hash,
// is true.
func Truthy(v Value) bool {
	switch val := v.(type) {
	case NullValue:
		return false
	case BoolValue:
		return val.Val
	case IntValue:
		return val.Val != 0
	case FloatValue:
		return val.Val != 0
	case StringValue:
		return val.Val != ""
	case *ArrayValue:
		return len(val.Elements) > 0
	default:
		return true
	}
}

// ToInt converts a value to an integer where the language defines one.
func ToInt(v Value) (int64, bool) {
	switch val := v.(type) {
	case IntValue:
		return val.Val, true
	case FloatValue:
		return int64(val.Val), true
	case BoolValue:
		if val.Val {
			return 1, true
		}
		return 0, true
	case StringValue:
		n, err := strconv.ParseInt(strings.TrimSpace(val.Val), 10, 64)
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}

// ToFloat converts a value to a float where the language defines one.
func ToFloat(v Value) (float64, bool) {
	switch val := v.(type) {
	case IntValue:
		return float64(val.Val), true
	case FloatValue:
		return val.Val, true
	case StringValue:
		f, err := strconv.ParseFloat(strings.TrimSpace(val.Val), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// Stringify renders a value in the language's textual form. Booleans print as
// 1/0 and null prints as NULL, matching what scripts concatenate into labels.
func Stringify(v Value) string {
	switch val := v.(type) {
	case NullValue:
		return "NULL"
	case BoolValue:
		if val.Val {
			return "1"
		}
		return "0"
	case IntValue:
		return strconv.FormatInt(val.Val, 10)
	case FloatValue:
		return strconv.FormatFloat(val.Val, 'g', -1, 64)
	case StringValue:
		return val.Val
	case SymbolValue:
		return "@" + val.Name
	case *ArrayValue:
		parts := make([]string, len(val.Elements))
		for i, el := range val.Elements {
			parts[i] = Stringify(el)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case *HashValue:
		return "[Hash]"
	case *ObjectValue:
		return "[Object:" + val.Name + "]"
	case *FunctionValue:
		return "[Func:" + val.Name + "]"
	case *NativeFunctionValue:
		return "[NativeFunc:" + val.Name + "]"
	case *ClassValue:
		return "[Class:" + val.Name + "]"
	default:
		return fmt.Sprintf("[%s]", v.Kind())
	}
}

// Equals implements value equality: numeric values compare across int/float,
// scalars compare by value, containers and objects only by identity.
func Equals(a, b Value) bool {
	switch av := a.(type) {
	case NullValue:
		_, ok := b.(NullValue)
		return ok
	case IntValue:
		switch bv := b.(type) {
		case IntValue:
			return av.Val == bv.Val
		case FloatValue:
			return float64(av.Val) == bv.Val
		}
		return false
	case FloatValue:
		switch bv := b.(type) {
		case IntValue:
			return av.Val == float64(bv.Val)
		case FloatValue:
			return av.Val == bv.Val
		}
		return false
	case BoolValue:
		bv, ok := b.(BoolValue)
		return ok && av.Val == bv.Val
	case StringValue:
		bv, ok := b.(StringValue)
		return ok && av.Val == bv.Val
	case SymbolValue:
		bv, ok := b.(SymbolValue)
		return ok && av.Name == bv.Name
	default:
		return a == b
	}
}

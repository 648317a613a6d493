package driver

import (
	"encoding/json"
	"strings"
	"testing"

	"ofml/interpreter-go/pkg/ast"
	"ofml/interpreter-go/pkg/interpreter"
	"ofml/interpreter-go/pkg/runtime"
)

func encodeUnit(t *testing.T, unit *ast.TranslationUnit) []byte {
	t.Helper()
	data, err := json.Marshal(unit)
	if err != nil {
		t.Fatalf("marshal unit: %v", err)
	}
	return data
}

// Decoding a realistic unit and executing it exercises the full node set the
// encoder produces: declarations, classes with members, control flow and
// expressions.
func TestDecodeUnitExecutes(t *testing.T) {
	unit := ast.NewTranslationUnit("vendor::tables", []string{"::ofml::oi"}, []ast.Statement{
		ast.NewClassDecl("Desk", ast.NewQualifiedName([]string{"OiPart"}, false), []ast.ClassMember{
			ast.NewVarMember(ast.NewVarDecl("width", ast.NewFloatLiteral(1.6), nil)),
			ast.NewFuncMember(ast.NewFuncDecl("widen", []string{"by"}, ast.NewBlock([]ast.Statement{
				ast.NewExpressionStatement(ast.NewAssignmentExpression(ast.AssignAdd,
					ast.NewMemberExpression(ast.NewSelfExpression(), "width"),
					ast.NewIdentifier("by"))),
				ast.NewReturnStatement(ast.NewMemberExpression(ast.NewSelfExpression(), "width")),
			}), nil)),
		}, nil),
		ast.NewVarDecl("sizes", ast.NewArrayLiteral([]ast.Expression{
			ast.NewIntLiteral(1), ast.NewIntLiteral(2), ast.NewIntLiteral(3),
		}), nil),
		ast.NewVarDecl("total", ast.NewIntLiteral(0), nil),
		ast.NewForeachStatement("s", ast.NewIdentifier("sizes"), ast.NewBlock([]ast.Statement{
			ast.NewExpressionStatement(ast.NewAssignmentExpression(ast.AssignAdd,
				ast.NewIdentifier("total"), ast.NewIdentifier("s"))),
		})),
	})

	decoded, err := DecodeUnit(encodeUnit(t, unit))
	if err != nil {
		t.Fatalf("DecodeUnit: %v", err)
	}
	if decoded.Package != "vendor::tables" || len(decoded.Imports) != 1 {
		t.Fatalf("unit header = %q %v", decoded.Package, decoded.Imports)
	}

	interp := interpreter.New()
	if err := interp.ExecuteUnit(decoded); err != nil {
		t.Fatalf("execute decoded unit: %v", err)
	}

	v, ok := interp.Environment().Get("total")
	if !ok || runtime.Stringify(v) != "6" {
		t.Fatalf("total = %v", v)
	}

	cls, ok := interp.LookupClass("vendor::tables::Desk")
	if !ok {
		t.Fatal("decoded class must register under its qualified name")
	}
	obj, err := interp.Instantiate(cls, nil)
	if err != nil {
		t.Fatalf("instantiate decoded class: %v", err)
	}
	result, err := interp.CallMethod(obj.(*runtime.ObjectValue), "widen", []runtime.Value{runtime.FloatValue{Val: 0.2}})
	if err != nil {
		t.Fatalf("widen: %v", err)
	}
	if f, _ := runtime.ToFloat(result); f != 1.8 {
		t.Fatalf("widen = %v", result)
	}
}

func TestDecodeUnitControlFlowNodes(t *testing.T) {
	unit := ast.NewTranslationUnit("", nil, []ast.Statement{
		ast.NewVarDecl("label", ast.NewStringLiteral(""), nil),
		ast.NewSwitchStatement(ast.NewIntLiteral(2), []*ast.SwitchCase{
			ast.NewSwitchCase(ast.NewIntLiteral(1), []ast.Statement{
				ast.NewExpressionStatement(ast.NewAssignmentExpression(ast.AssignPlain,
					ast.NewIdentifier("label"), ast.NewStringLiteral("one"))),
				ast.NewBreakStatement(),
			}),
			ast.NewSwitchCase(nil, []ast.Statement{
				ast.NewExpressionStatement(ast.NewAssignmentExpression(ast.AssignPlain,
					ast.NewIdentifier("label"), ast.NewStringLiteral("other"))),
			}),
		}),
		ast.NewTryStatement(
			ast.NewBlock([]ast.Statement{ast.NewThrowStatement(ast.NewStringLiteral("oops"))}),
			"e",
			ast.NewBlock([]ast.Statement{
				ast.NewExpressionStatement(ast.NewAssignmentExpression(ast.AssignAdd,
					ast.NewIdentifier("label"), ast.NewIdentifier("e"))),
			}),
			nil,
		),
	})

	decoded, err := DecodeUnit(encodeUnit(t, unit))
	if err != nil {
		t.Fatalf("DecodeUnit: %v", err)
	}
	interp := interpreter.New()
	if err := interp.ExecuteUnit(decoded); err != nil {
		t.Fatalf("execute: %v", err)
	}
	v, _ := interp.Environment().Get("label")
	if runtime.Stringify(v) != "otheroops" {
		t.Fatalf("label = %v", v)
	}
}

func TestDecodeUnitRejectsBadInput(t *testing.T) {
	if _, err := DecodeUnit([]byte("{not json")); err == nil {
		t.Error("malformed JSON must fail")
	}
	if _, err := DecodeUnit([]byte(`{"type":"Block","body":[]}`)); err == nil || !strings.Contains(err.Error(), "TranslationUnit") {
		t.Errorf("wrong top-level node: %v", err)
	}
	if _, err := DecodeUnit([]byte(`{"type":"TranslationUnit","statements":[{"type":"Mystery"}]}`)); err == nil || !strings.Contains(err.Error(), "Mystery") {
		t.Errorf("unknown statement type: %v", err)
	}
	bad := `{"type":"TranslationUnit","statements":[{"type":"ExpressionStatement","expression":{"type":"Warp"}}]}`
	if _, err := DecodeUnit([]byte(bad)); err == nil || !strings.Contains(err.Error(), "Warp") {
		t.Errorf("unknown expression type: %v", err)
	}
}

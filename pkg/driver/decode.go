package driver

import (
	"encoding/json"
	"fmt"

	"ofml/interpreter-go/pkg/ast"
)

// DecodeUnit parses one JSON-encoded translation unit. The encoding mirrors
// the ast package's json tags: every node object carries a "type"
// discriminator naming its NodeType.
func DecodeUnit(data []byte) (*ast.TranslationUnit, error) {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("unit: parse: %w", err)
	}
	node, err := nodeMap(raw)
	if err != nil {
		return nil, err
	}
	if kind := nodeType(node); kind != ast.NodeTranslationUnit {
		return nil, fmt.Errorf("unit: expected %s at top level but found %s", ast.NodeTranslationUnit, kind)
	}
	statements, err := decodeStatements(node["statements"])
	if err != nil {
		return nil, err
	}
	return ast.NewTranslationUnit(strField(node, "package"), strList(node["imports"]), statements), nil
}

func nodeMap(raw any) (map[string]any, error) {
	node, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("unit: expected node object but found %T", raw)
	}
	return node, nil
}

func nodeType(node map[string]any) ast.NodeType {
	return ast.NodeType(strField(node, "type"))
}

func strField(node map[string]any, key string) string {
	if s, ok := node[key].(string); ok {
		return s
	}
	return ""
}

func strList(raw any) []string {
	items, ok := raw.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func decodeExpression(raw any) (ast.Expression, error) {
	if raw == nil {
		return nil, nil
	}
	node, err := nodeMap(raw)
	if err != nil {
		return nil, err
	}
	kind := nodeType(node)
	switch kind {
	case ast.NodeIdentifier:
		return ast.NewIdentifier(strField(node, "name")), nil
	case ast.NodeQualifiedName:
		return decodeQualifiedName(node)
	case ast.NodeIntLiteral:
		value, err := intField(node, "value")
		if err != nil {
			return nil, err
		}
		return ast.NewIntLiteral(value), nil
	case ast.NodeFloatLiteral:
		value, ok := node["value"].(float64)
		if !ok {
			return nil, fmt.Errorf("unit: %s requires a numeric value", kind)
		}
		return ast.NewFloatLiteral(value), nil
	case ast.NodeStringLiteral:
		return ast.NewStringLiteral(strField(node, "value")), nil
	case ast.NodeSymbolLiteral:
		return ast.NewSymbolLiteral(strField(node, "name")), nil
	case ast.NodeNullLiteral:
		return ast.NewNullLiteral(), nil
	case ast.NodeArrayLiteral:
		elements, err := decodeExpressions(node["elements"])
		if err != nil {
			return nil, err
		}
		return ast.NewArrayLiteral(elements), nil
	case ast.NodeListLiteral:
		elements, err := decodeExpressions(node["elements"])
		if err != nil {
			return nil, err
		}
		return ast.NewListLiteral(elements), nil
	case ast.NodeSelfExpression:
		return ast.NewSelfExpression(), nil
	case ast.NodeSuperExpression:
		return ast.NewSuperExpression(), nil
	case ast.NodeUnaryExpression:
		operand, err := decodeExpression(node["operand"])
		if err != nil {
			return nil, err
		}
		return ast.NewUnaryExpression(ast.UnaryOperator(strField(node, "operator")), operand), nil
	case ast.NodeBinaryExpression:
		left, err := decodeExpression(node["left"])
		if err != nil {
			return nil, err
		}
		right, err := decodeExpression(node["right"])
		if err != nil {
			return nil, err
		}
		return ast.NewBinaryExpression(ast.BinaryOperator(strField(node, "operator")), left, right), nil
	case ast.NodeConditionalExpression:
		condition, err := decodeExpression(node["condition"])
		if err != nil {
			return nil, err
		}
		then, err := decodeExpression(node["then"])
		if err != nil {
			return nil, err
		}
		els, err := decodeExpression(node["else"])
		if err != nil {
			return nil, err
		}
		return ast.NewConditionalExpression(condition, then, els), nil
	case ast.NodeAssignmentExpression:
		target, err := decodeExpression(node["target"])
		if err != nil {
			return nil, err
		}
		value, err := decodeExpression(node["value"])
		if err != nil {
			return nil, err
		}
		return ast.NewAssignmentExpression(ast.AssignOperator(strField(node, "operator")), target, value), nil
	case ast.NodeCallExpression:
		callee, err := decodeExpression(node["callee"])
		if err != nil {
			return nil, err
		}
		arguments, err := decodeExpressions(node["arguments"])
		if err != nil {
			return nil, err
		}
		return ast.NewCallExpression(callee, arguments), nil
	case ast.NodeIndexExpression:
		object, err := decodeExpression(node["object"])
		if err != nil {
			return nil, err
		}
		index, err := decodeExpression(node["index"])
		if err != nil {
			return nil, err
		}
		return ast.NewIndexExpression(object, index), nil
	case ast.NodeSliceExpression:
		object, err := decodeExpression(node["object"])
		if err != nil {
			return nil, err
		}
		start, err := decodeExpression(node["start"])
		if err != nil {
			return nil, err
		}
		end, err := decodeExpression(node["end"])
		if err != nil {
			return nil, err
		}
		return ast.NewSliceExpression(object, start, end), nil
	case ast.NodeMemberExpression:
		object, err := decodeExpression(node["object"])
		if err != nil {
			return nil, err
		}
		return ast.NewMemberExpression(object, strField(node, "member")), nil
	case ast.NodeInstanceofExpression:
		value, err := decodeExpression(node["value"])
		if err != nil {
			return nil, err
		}
		class, err := decodeOptionalQualifiedName(node["class"])
		if err != nil {
			return nil, err
		}
		return ast.NewInstanceofExpression(value, class), nil
	default:
		return nil, fmt.Errorf("unit: unknown expression type %q", kind)
	}
}

func decodeExpressions(raw any) ([]ast.Expression, error) {
	if raw == nil {
		return nil, nil
	}
	items, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("unit: expected expression list but found %T", raw)
	}
	out := make([]ast.Expression, 0, len(items))
	for _, item := range items {
		expr, err := decodeExpression(item)
		if err != nil {
			return nil, err
		}
		out = append(out, expr)
	}
	return out, nil
}

func decodeQualifiedName(node map[string]any) (*ast.QualifiedName, error) {
	parts := strList(node["parts"])
	if len(parts) == 0 {
		return nil, fmt.Errorf("unit: %s requires at least one part", ast.NodeQualifiedName)
	}
	absolute, _ := node["absolute"].(bool)
	return ast.NewQualifiedName(parts, absolute), nil
}

func decodeOptionalQualifiedName(raw any) (*ast.QualifiedName, error) {
	if raw == nil {
		return nil, nil
	}
	node, err := nodeMap(raw)
	if err != nil {
		return nil, err
	}
	if kind := nodeType(node); kind != ast.NodeQualifiedName {
		return nil, fmt.Errorf("unit: expected %s but found %s", ast.NodeQualifiedName, kind)
	}
	return decodeQualifiedName(node)
}

func intField(node map[string]any, key string) (int64, error) {
	switch v := node[key].(type) {
	case float64:
		return int64(v), nil
	case json.Number:
		return v.Int64()
	default:
		return 0, fmt.Errorf("unit: field %q requires an integer", key)
	}
}

func decodeStatement(raw any) (ast.Statement, error) {
	if raw == nil {
		return nil, nil
	}
	node, err := nodeMap(raw)
	if err != nil {
		return nil, err
	}
	kind := nodeType(node)
	switch kind {
	case ast.NodeVarDecl:
		return decodeVarDecl(node)
	case ast.NodeVarListDecl:
		items, ok := node["decls"].([]any)
		if !ok {
			return nil, fmt.Errorf("unit: %s requires a decls list", kind)
		}
		decls := make([]*ast.VarDecl, 0, len(items))
		for _, item := range items {
			declNode, err := nodeMap(item)
			if err != nil {
				return nil, err
			}
			decl, err := decodeVarDecl(declNode)
			if err != nil {
				return nil, err
			}
			decls = append(decls, decl)
		}
		return ast.NewVarListDecl(decls), nil
	case ast.NodeClassDecl:
		parent, err := decodeOptionalQualifiedName(node["parent"])
		if err != nil {
			return nil, err
		}
		members, err := decodeClassMembers(node["members"])
		if err != nil {
			return nil, err
		}
		return ast.NewClassDecl(strField(node, "name"), parent, members, strList(node["modifiers"])), nil
	case ast.NodeFuncDecl:
		return decodeFuncDecl(node)
	case ast.NodeExpressionStatement:
		expr, err := decodeExpression(node["expression"])
		if err != nil {
			return nil, err
		}
		return ast.NewExpressionStatement(expr), nil
	case ast.NodeBlock:
		return decodeBlock(node)
	case ast.NodeIfStatement:
		condition, err := decodeExpression(node["condition"])
		if err != nil {
			return nil, err
		}
		then, err := decodeStatement(node["then"])
		if err != nil {
			return nil, err
		}
		els, err := decodeStatement(node["else"])
		if err != nil {
			return nil, err
		}
		return ast.NewIfStatement(condition, then, els), nil
	case ast.NodeSwitchStatement:
		subject, err := decodeExpression(node["subject"])
		if err != nil {
			return nil, err
		}
		items, ok := node["cases"].([]any)
		if !ok {
			return nil, fmt.Errorf("unit: %s requires a cases list", kind)
		}
		cases := make([]*ast.SwitchCase, 0, len(items))
		for _, item := range items {
			caseNode, err := nodeMap(item)
			if err != nil {
				return nil, err
			}
			value, err := decodeExpression(caseNode["value"])
			if err != nil {
				return nil, err
			}
			body, err := decodeStatements(caseNode["body"])
			if err != nil {
				return nil, err
			}
			cases = append(cases, ast.NewSwitchCase(value, body))
		}
		return ast.NewSwitchStatement(subject, cases), nil
	case ast.NodeWhileStatement:
		condition, err := decodeExpression(node["condition"])
		if err != nil {
			return nil, err
		}
		body, err := decodeStatement(node["body"])
		if err != nil {
			return nil, err
		}
		return ast.NewWhileStatement(condition, body), nil
	case ast.NodeDoWhileStatement:
		body, err := decodeStatement(node["body"])
		if err != nil {
			return nil, err
		}
		condition, err := decodeExpression(node["condition"])
		if err != nil {
			return nil, err
		}
		return ast.NewDoWhileStatement(body, condition), nil
	case ast.NodeForStatement:
		init, err := decodeStatement(node["init"])
		if err != nil {
			return nil, err
		}
		condition, err := decodeExpression(node["condition"])
		if err != nil {
			return nil, err
		}
		update, err := decodeExpression(node["update"])
		if err != nil {
			return nil, err
		}
		body, err := decodeStatement(node["body"])
		if err != nil {
			return nil, err
		}
		return ast.NewForStatement(init, condition, update, body), nil
	case ast.NodeForeachStatement:
		iterable, err := decodeExpression(node["iterable"])
		if err != nil {
			return nil, err
		}
		body, err := decodeStatement(node["body"])
		if err != nil {
			return nil, err
		}
		return ast.NewForeachStatement(strField(node, "var"), iterable, body), nil
	case ast.NodeReturnStatement:
		value, err := decodeExpression(node["value"])
		if err != nil {
			return nil, err
		}
		return ast.NewReturnStatement(value), nil
	case ast.NodeBreakStatement:
		return ast.NewBreakStatement(), nil
	case ast.NodeContinueStatement:
		return ast.NewContinueStatement(), nil
	case ast.NodeThrowStatement:
		value, err := decodeExpression(node["value"])
		if err != nil {
			return nil, err
		}
		return ast.NewThrowStatement(value), nil
	case ast.NodeTryStatement:
		body, err := decodeOptionalBlock(node["body"])
		if err != nil {
			return nil, err
		}
		catch, err := decodeOptionalBlock(node["catch"])
		if err != nil {
			return nil, err
		}
		finally, err := decodeOptionalBlock(node["finally"])
		if err != nil {
			return nil, err
		}
		return ast.NewTryStatement(body, strField(node, "catchVar"), catch, finally), nil
	case ast.NodeEmptyStatement:
		return ast.NewEmptyStatement(), nil
	default:
		return nil, fmt.Errorf("unit: unknown statement type %q", kind)
	}
}

func decodeStatements(raw any) ([]ast.Statement, error) {
	if raw == nil {
		return nil, nil
	}
	items, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("unit: expected statement list but found %T", raw)
	}
	out := make([]ast.Statement, 0, len(items))
	for _, item := range items {
		stmt, err := decodeStatement(item)
		if err != nil {
			return nil, err
		}
		out = append(out, stmt)
	}
	return out, nil
}

func decodeVarDecl(node map[string]any) (*ast.VarDecl, error) {
	if kind := nodeType(node); kind != ast.NodeVarDecl {
		return nil, fmt.Errorf("unit: expected %s but found %s", ast.NodeVarDecl, kind)
	}
	init, err := decodeExpression(node["init"])
	if err != nil {
		return nil, err
	}
	return ast.NewVarDecl(strField(node, "name"), init, strList(node["modifiers"])), nil
}

func decodeFuncDecl(node map[string]any) (*ast.FuncDecl, error) {
	if kind := nodeType(node); kind != ast.NodeFuncDecl {
		return nil, fmt.Errorf("unit: expected %s but found %s", ast.NodeFuncDecl, kind)
	}
	body, err := decodeOptionalBlock(node["body"])
	if err != nil {
		return nil, err
	}
	return ast.NewFuncDecl(strField(node, "name"), strList(node["params"]), body, strList(node["modifiers"])), nil
}

func decodeBlock(node map[string]any) (*ast.Block, error) {
	body, err := decodeStatements(node["body"])
	if err != nil {
		return nil, err
	}
	return ast.NewBlock(body), nil
}

func decodeOptionalBlock(raw any) (*ast.Block, error) {
	if raw == nil {
		return nil, nil
	}
	node, err := nodeMap(raw)
	if err != nil {
		return nil, err
	}
	if kind := nodeType(node); kind != ast.NodeBlock {
		return nil, fmt.Errorf("unit: expected %s but found %s", ast.NodeBlock, kind)
	}
	return decodeBlock(node)
}

func decodeClassMembers(raw any) ([]ast.ClassMember, error) {
	if raw == nil {
		return nil, nil
	}
	items, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("unit: expected member list but found %T", raw)
	}
	out := make([]ast.ClassMember, 0, len(items))
	for _, item := range items {
		node, err := nodeMap(item)
		if err != nil {
			return nil, err
		}
		kind := nodeType(node)
		switch kind {
		case ast.NodeVarMember:
			declNode, err := nodeMap(node["decl"])
			if err != nil {
				return nil, err
			}
			decl, err := decodeVarDecl(declNode)
			if err != nil {
				return nil, err
			}
			out = append(out, ast.NewVarMember(decl))
		case ast.NodeFuncMember:
			declNode, err := nodeMap(node["decl"])
			if err != nil {
				return nil, err
			}
			decl, err := decodeFuncDecl(declNode)
			if err != nil {
				return nil, err
			}
			out = append(out, ast.NewFuncMember(decl))
		case ast.NodeRuleMember:
			declNode, err := nodeMap(node["decl"])
			if err != nil {
				return nil, err
			}
			decl, err := decodeFuncDecl(declNode)
			if err != nil {
				return nil, err
			}
			out = append(out, ast.NewRuleMember(decl))
		default:
			return nil, fmt.Errorf("unit: unknown class member type %q", kind)
		}
	}
	return out, nil
}

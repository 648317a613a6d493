package interpreter

import (
	"ofml/interpreter-go/pkg/ast"
	"ofml/interpreter-go/pkg/runtime"
)

func (i *Interpreter) executeStatement(stmt ast.Statement) error {
	switch node := stmt.(type) {
	case *ast.VarDecl:
		return i.executeVarDecl(node)
	case *ast.VarListDecl:
		for _, decl := range node.Decls {
			if err := i.executeVarDecl(decl); err != nil {
				return err
			}
		}
		return nil
	case *ast.ClassDecl:
		return i.registerClassDecl(node)
	case *ast.FuncDecl:
		fn := &runtime.FunctionValue{
			Name:   node.Name,
			Params: node.Params,
			Body:   node.Body,
			Static: node.IsStatic(),
		}
		i.env.DefineGlobal(node.Name, fn)
		return nil
	case *ast.ExpressionStatement:
		_, err := i.evaluateExpression(node.Expression)
		return err
	case *ast.Block:
		return i.executeBlockScoped(node)
	case *ast.IfStatement:
		cond, err := i.evaluateExpression(node.Condition)
		if err != nil {
			return err
		}
		if runtime.Truthy(cond) {
			return i.executeStatement(node.Then)
		}
		if node.Else != nil {
			return i.executeStatement(node.Else)
		}
		return nil
	case *ast.WhileStatement:
		return i.executeWhile(node)
	case *ast.DoWhileStatement:
		return i.executeDoWhile(node)
	case *ast.ForStatement:
		return i.executeFor(node)
	case *ast.ForeachStatement:
		return i.executeForeach(node)
	case *ast.SwitchStatement:
		return i.executeSwitch(node)
	case *ast.ReturnStatement:
		var value runtime.Value = runtime.NullValue{}
		if node.Value != nil {
			v, err := i.evaluateExpression(node.Value)
			if err != nil {
				return err
			}
			value = v
		}
		return returnSignal{value: value}
	case *ast.BreakStatement:
		return breakSignal{}
	case *ast.ContinueStatement:
		return continueSignal{}
	case *ast.ThrowStatement:
		value, err := i.evaluateExpression(node.Value)
		if err != nil {
			return err
		}
		return &ScriptError{Kind: ErrRuntime, Message: runtime.Stringify(value)}
	case *ast.TryStatement:
		return i.executeTry(node)
	case *ast.EmptyStatement:
		return nil
	default:
		return typeErrorf("cannot execute %s statement", stmt.NodeType())
	}
}

func (i *Interpreter) executeStatements(stmts []ast.Statement) error {
	for _, stmt := range stmts {
		if err := i.executeStatement(stmt); err != nil {
			return err
		}
	}
	return nil
}

func (i *Interpreter) executeBlockScoped(block *ast.Block) error {
	i.env.PushScope()
	defer i.env.PopScope()
	return i.executeStatements(block.Body)
}

func (i *Interpreter) executeVarDecl(decl *ast.VarDecl) error {
	var value runtime.Value = runtime.NullValue{}
	if decl.Init != nil {
		v, err := i.evaluateExpression(decl.Init)
		if err != nil {
			return err
		}
		value = v
	}
	i.env.Define(decl.Name, value)
	return nil
}

// registerClassDecl builds the class value and registers it. Static member
// variables are evaluated once at registration; instance field initializers
// stay on the declaration and run per instantiation.
func (i *Interpreter) registerClassDecl(decl *ast.ClassDecl) error {
	parentName := ""
	if decl.Parent != nil {
		parentName = decl.Parent.String()
	}
	cls := runtime.NewClass(decl.Name, i.activePackage, parentName, decl)
	owner := cls.QualifiedName()

	for _, member := range decl.Members {
		switch m := member.(type) {
		case *ast.VarMember:
			if hasModifier(m.Decl.Modifiers, "static") {
				var value runtime.Value = runtime.NullValue{}
				if m.Decl.Init != nil {
					v, err := i.evaluateExpression(m.Decl.Init)
					if err != nil {
						return err
					}
					value = v
				}
				cls.StaticVars[m.Decl.Name] = value
			}
		case *ast.FuncMember:
			cls.Methods[m.Decl.Name] = &runtime.FunctionValue{
				Name:       m.Decl.Name,
				Params:     m.Decl.Params,
				Body:       m.Decl.Body,
				OwnerClass: owner,
				Static:     m.Decl.IsStatic(),
			}
		case *ast.RuleMember:
			cls.Rules[m.Decl.Name] = &runtime.FunctionValue{
				Name:       m.Decl.Name,
				Params:     m.Decl.Params,
				Body:       m.Decl.Body,
				OwnerClass: owner,
			}
		}
	}
	i.RegisterClass(cls)
	return nil
}

func hasModifier(modifiers []string, want string) bool {
	for _, m := range modifiers {
		if m == want {
			return true
		}
	}
	return false
}

// handleLoopSignal folds break/continue into loop-local control flow.
// Everything else propagates.
func handleLoopSignal(err error) (stop bool, out error) {
	switch err.(type) {
	case nil:
		return false, nil
	case breakSignal:
		return true, nil
	case continueSignal:
		return false, nil
	default:
		return true, err
	}
}

func (i *Interpreter) executeWhile(node *ast.WhileStatement) error {
	iterations := 0
	for {
		if iterations++; iterations > maxLoopIterations {
			return nil // iteration ceiling: break out silently
		}
		cond, err := i.evaluateExpression(node.Condition)
		if err != nil {
			return err
		}
		if !runtime.Truthy(cond) {
			return nil
		}
		if stop, err := handleLoopSignal(i.executeStatement(node.Body)); stop {
			return err
		}
	}
}

func (i *Interpreter) executeDoWhile(node *ast.DoWhileStatement) error {
	iterations := 0
	for {
		if iterations++; iterations > maxLoopIterations {
			return nil
		}
		if stop, err := handleLoopSignal(i.executeStatement(node.Body)); stop {
			return err
		}
		cond, err := i.evaluateExpression(node.Condition)
		if err != nil {
			return err
		}
		if !runtime.Truthy(cond) {
			return nil
		}
	}
}

func (i *Interpreter) executeFor(node *ast.ForStatement) error {
	i.env.PushScope()
	defer i.env.PopScope()
	if node.Init != nil {
		if err := i.executeStatement(node.Init); err != nil {
			return err
		}
	}
	iterations := 0
	for {
		if iterations++; iterations > maxLoopIterations {
			return nil
		}
		if node.Condition != nil {
			cond, err := i.evaluateExpression(node.Condition)
			if err != nil {
				return err
			}
			if !runtime.Truthy(cond) {
				return nil
			}
		}
		if stop, err := handleLoopSignal(i.executeStatement(node.Body)); stop {
			return err
		}
		if node.Update != nil {
			if _, err := i.evaluateExpression(node.Update); err != nil {
				return err
			}
		}
	}
}

// executeForeach iterates arrays by element, hashes by key, strings by
// character code, and null as the empty sequence.
func (i *Interpreter) executeForeach(node *ast.ForeachStatement) error {
	iterable, err := i.evaluateExpression(node.Iterable)
	if err != nil {
		return err
	}
	var items []runtime.Value
	switch src := iterable.(type) {
	case runtime.NullValue:
		return nil
	case *runtime.ArrayValue:
		items = append(items, src.Elements...)
	case *runtime.HashValue:
		for _, key := range src.SortedKeys() {
			items = append(items, runtime.StringValue{Val: key})
		}
	case runtime.StringValue:
		for _, ch := range []byte(src.Val) {
			items = append(items, runtime.IntValue{Val: int64(ch)})
		}
	default:
		return typeErrorf("cannot iterate %s", iterable.Kind())
	}

	i.env.PushScope()
	defer i.env.PopScope()
	for n, item := range items {
		if n >= maxLoopIterations {
			return nil
		}
		i.env.Define(node.Var, item)
		if stop, err := handleLoopSignal(i.executeStatement(node.Body)); stop {
			return err
		}
	}
	return nil
}

// executeSwitch evaluates case expressions lazily in order, matches by value
// equality, and on match falls through every subsequent case until a break.
// An unmatched subject falls through from the default clause the same way.
func (i *Interpreter) executeSwitch(node *ast.SwitchStatement) error {
	subject, err := i.evaluateExpression(node.Subject)
	if err != nil {
		return err
	}
	matched := -1
	defaultIdx := -1
	for idx, c := range node.Cases {
		if c.Value == nil {
			if defaultIdx < 0 {
				defaultIdx = idx
			}
			continue
		}
		candidate, err := i.evaluateExpression(c.Value)
		if err != nil {
			return err
		}
		if runtime.Equals(subject, candidate) {
			matched = idx
			break
		}
	}
	start := matched
	if start < 0 {
		start = defaultIdx
	}
	if start < 0 {
		return nil
	}

	i.env.PushScope()
	defer i.env.PopScope()
	for idx := start; idx < len(node.Cases); idx++ {
		for _, stmt := range node.Cases[idx].Body {
			err := i.executeStatement(stmt)
			if _, ok := err.(breakSignal); ok {
				return nil
			}
			if err != nil {
				return err
			}
		}
	}
	return nil
}

// executeTry runs finally on every exit path. Only ScriptError values reach
// the catch clause; control signals pass through untouched.
func (i *Interpreter) executeTry(node *ast.TryStatement) error {
	err := i.executeBlockScoped(node.Body)
	if err != nil {
		if scriptErr, ok := err.(*ScriptError); ok && node.Catch != nil {
			i.env.PushScope()
			if node.CatchVar != "" {
				i.env.Define(node.CatchVar, runtime.StringValue{Val: scriptErr.Message})
			}
			err = i.executeStatements(node.Catch.Body)
			i.env.PopScope()
		}
	}
	if node.Finally != nil {
		if ferr := i.executeBlockScoped(node.Finally); ferr != nil {
			return ferr
		}
	}
	return err
}

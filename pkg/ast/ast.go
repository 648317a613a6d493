package ast

type NodeType string

const (
	NodeIdentifier            NodeType = "Identifier"
	NodeQualifiedName         NodeType = "QualifiedName"
	NodeIntLiteral            NodeType = "IntLiteral"
	NodeFloatLiteral          NodeType = "FloatLiteral"
	NodeStringLiteral         NodeType = "StringLiteral"
	NodeSymbolLiteral         NodeType = "SymbolLiteral"
	NodeNullLiteral           NodeType = "NullLiteral"
	NodeArrayLiteral          NodeType = "ArrayLiteral"
	NodeListLiteral           NodeType = "ListLiteral"
	NodeSelfExpression        NodeType = "SelfExpression"
	NodeSuperExpression       NodeType = "SuperExpression"
	NodeUnaryExpression       NodeType = "UnaryExpression"
	NodeBinaryExpression      NodeType = "BinaryExpression"
	NodeConditionalExpression NodeType = "ConditionalExpression"
	NodeAssignmentExpression  NodeType = "AssignmentExpression"
	NodeCallExpression        NodeType = "CallExpression"
	NodeIndexExpression       NodeType = "IndexExpression"
	NodeSliceExpression       NodeType = "SliceExpression"
	NodeMemberExpression      NodeType = "MemberExpression"
	NodeInstanceofExpression  NodeType = "InstanceofExpression"
	NodeVarDecl               NodeType = "VarDecl"
	NodeVarListDecl           NodeType = "VarListDecl"
	NodeClassDecl             NodeType = "ClassDecl"
	NodeFuncDecl              NodeType = "FuncDecl"
	NodeVarMember             NodeType = "VarMember"
	NodeFuncMember            NodeType = "FuncMember"
	NodeRuleMember            NodeType = "RuleMember"
	NodeExpressionStatement   NodeType = "ExpressionStatement"
	NodeBlock                 NodeType = "Block"
	NodeIfStatement           NodeType = "IfStatement"
	NodeSwitchStatement       NodeType = "SwitchStatement"
	NodeSwitchCase            NodeType = "SwitchCase"
	NodeWhileStatement        NodeType = "WhileStatement"
	NodeDoWhileStatement      NodeType = "DoWhileStatement"
	NodeForStatement          NodeType = "ForStatement"
	NodeForeachStatement      NodeType = "ForeachStatement"
	NodeReturnStatement       NodeType = "ReturnStatement"
	NodeBreakStatement        NodeType = "BreakStatement"
	NodeContinueStatement     NodeType = "ContinueStatement"
	NodeThrowStatement        NodeType = "ThrowStatement"
	NodeTryStatement          NodeType = "TryStatement"
	NodeEmptyStatement        NodeType = "EmptyStatement"
	NodeTranslationUnit       NodeType = "TranslationUnit"
)

type Node interface {
	NodeType() NodeType
	isNode()
}

type nodeImpl struct {
	Type NodeType `json:"type"`
}

func newNodeImpl(kind NodeType) nodeImpl {
	return nodeImpl{Type: kind}
}

func (n nodeImpl) NodeType() NodeType { return n.Type }
func (nodeImpl) isNode()              {}

// Marker interfaces.

type Expression interface {
	Node
	expressionNode()
}

type expressionMarker struct{}

func (expressionMarker) expressionNode() {}

type Statement interface {
	Node
	statementNode()
}

type statementMarker struct{}

func (statementMarker) statementNode() {}

// ClassMember is a declaration appearing inside a class body.
type ClassMember interface {
	Node
	classMemberNode()
}

type classMemberMarker struct{}

func (classMemberMarker) classMemberNode() {}

// Identifier

type Identifier struct {
	nodeImpl
	expressionMarker

	Name string `json:"name"`
}

func NewIdentifier(name string) *Identifier {
	return &Identifier{nodeImpl: newNodeImpl(NodeIdentifier), Name: name}
}

// QualifiedName is a package-qualified reference such as ::ofml::oi::OiBlock.
// Absolute names start at the package root; relative ones resolve against the
// active package first.
type QualifiedName struct {
	nodeImpl
	expressionMarker

	Parts    []string `json:"parts"`
	Absolute bool     `json:"absolute"`
}

func NewQualifiedName(parts []string, absolute bool) *QualifiedName {
	return &QualifiedName{nodeImpl: newNodeImpl(NodeQualifiedName), Parts: parts, Absolute: absolute}
}

// String renders the name in source form.
func (q *QualifiedName) String() string {
	out := ""
	for i, part := range q.Parts {
		if i > 0 || q.Absolute {
			out += "::"
		}
		out += part
	}
	return out
}

// Literals

type IntLiteral struct {
	nodeImpl
	expressionMarker

	Value int64 `json:"value"`
}

func NewIntLiteral(value int64) *IntLiteral {
	return &IntLiteral{nodeImpl: newNodeImpl(NodeIntLiteral), Value: value}
}

type FloatLiteral struct {
	nodeImpl
	expressionMarker

	Value float64 `json:"value"`
}

func NewFloatLiteral(value float64) *FloatLiteral {
	return &FloatLiteral{nodeImpl: newNodeImpl(NodeFloatLiteral), Value: value}
}

type StringLiteral struct {
	nodeImpl
	expressionMarker

	Value string `json:"value"`
}

func NewStringLiteral(value string) *StringLiteral {
	return &StringLiteral{nodeImpl: newNodeImpl(NodeStringLiteral), Value: value}
}

// SymbolLiteral is an interned name written @name in source.
type SymbolLiteral struct {
	nodeImpl
	expressionMarker

	Name string `json:"name"`
}

func NewSymbolLiteral(name string) *SymbolLiteral {
	return &SymbolLiteral{nodeImpl: newNodeImpl(NodeSymbolLiteral), Name: name}
}

type NullLiteral struct {
	nodeImpl
	expressionMarker
}

func NewNullLiteral() *NullLiteral {
	return &NullLiteral{nodeImpl: newNodeImpl(NodeNullLiteral)}
}

type ArrayLiteral struct {
	nodeImpl
	expressionMarker

	Elements []Expression `json:"elements"`
}

func NewArrayLiteral(elements []Expression) *ArrayLiteral {
	return &ArrayLiteral{nodeImpl: newNodeImpl(NodeArrayLiteral), Elements: elements}
}

// ListLiteral is the parenthesised tuple form (a, b, c); it evaluates to the
// same array value an ArrayLiteral does.
type ListLiteral struct {
	nodeImpl
	expressionMarker

	Elements []Expression `json:"elements"`
}

func NewListLiteral(elements []Expression) *ListLiteral {
	return &ListLiteral{nodeImpl: newNodeImpl(NodeListLiteral), Elements: elements}
}

type SelfExpression struct {
	nodeImpl
	expressionMarker
}

func NewSelfExpression() *SelfExpression {
	return &SelfExpression{nodeImpl: newNodeImpl(NodeSelfExpression)}
}

type SuperExpression struct {
	nodeImpl
	expressionMarker
}

func NewSuperExpression() *SuperExpression {
	return &SuperExpression{nodeImpl: newNodeImpl(NodeSuperExpression)}
}

// Operators

type UnaryOperator string

const (
	UnaryNeg     UnaryOperator = "-"
	UnaryPos     UnaryOperator = "+"
	UnaryNot     UnaryOperator = "!"
	UnaryBitNot  UnaryOperator = "~"
	UnaryPreInc  UnaryOperator = "++pre"
	UnaryPreDec  UnaryOperator = "--pre"
	UnaryPostInc UnaryOperator = "++post"
	UnaryPostDec UnaryOperator = "--post"
)

type UnaryExpression struct {
	nodeImpl
	expressionMarker

	Operator UnaryOperator `json:"operator"`
	Operand  Expression    `json:"operand"`
}

func NewUnaryExpression(operator UnaryOperator, operand Expression) *UnaryExpression {
	return &UnaryExpression{nodeImpl: newNodeImpl(NodeUnaryExpression), Operator: operator, Operand: operand}
}

type BinaryOperator string

const (
	BinaryAdd  BinaryOperator = "+"
	BinarySub  BinaryOperator = "-"
	BinaryMul  BinaryOperator = "*"
	BinaryDiv  BinaryOperator = "/"
	BinaryMod  BinaryOperator = "%"
	BinaryEq   BinaryOperator = "=="
	BinaryNe   BinaryOperator = "!="
	BinaryLt   BinaryOperator = "<"
	BinaryLe   BinaryOperator = "<="
	BinaryGt   BinaryOperator = ">"
	BinaryGe   BinaryOperator = ">="
	BinaryAnd  BinaryOperator = "&&"
	BinaryOr   BinaryOperator = "||"
	BinaryBand BinaryOperator = "&"
	BinaryBor  BinaryOperator = "|"
	BinaryBxor BinaryOperator = "^"
	BinaryShl  BinaryOperator = "<<"
	BinaryShr  BinaryOperator = ">>"
	BinaryUshr BinaryOperator = ">>>"
	BinaryMin  BinaryOperator = "<?"
	BinaryMax  BinaryOperator = ">?"
)

type BinaryExpression struct {
	nodeImpl
	expressionMarker

	Operator BinaryOperator `json:"operator"`
	Left     Expression     `json:"left"`
	Right    Expression     `json:"right"`
}

func NewBinaryExpression(operator BinaryOperator, left, right Expression) *BinaryExpression {
	return &BinaryExpression{nodeImpl: newNodeImpl(NodeBinaryExpression), Operator: operator, Left: left, Right: right}
}

type ConditionalExpression struct {
	nodeImpl
	expressionMarker

	Condition Expression `json:"condition"`
	Then      Expression `json:"then"`
	Else      Expression `json:"else"`
}

func NewConditionalExpression(condition, then, els Expression) *ConditionalExpression {
	return &ConditionalExpression{nodeImpl: newNodeImpl(NodeConditionalExpression), Condition: condition, Then: then, Else: els}
}

type AssignOperator string

const (
	AssignPlain  AssignOperator = "="
	AssignAdd    AssignOperator = "+="
	AssignSub    AssignOperator = "-="
	AssignMul    AssignOperator = "*="
	AssignDiv    AssignOperator = "/="
	AssignMod    AssignOperator = "%="
	AssignBand   AssignOperator = "&="
	AssignBor    AssignOperator = "|="
	AssignBxor   AssignOperator = "^="
	AssignShiftL AssignOperator = "<<="
	AssignShiftR AssignOperator = ">>="
)

// BaseOperator returns the binary operator a compound assignment dispatches
// through, or "" for plain assignment.
func (op AssignOperator) BaseOperator() BinaryOperator {
	switch op {
	case AssignAdd:
		return BinaryAdd
	case AssignSub:
		return BinarySub
	case AssignMul:
		return BinaryMul
	case AssignDiv:
		return BinaryDiv
	case AssignMod:
		return BinaryMod
	case AssignBand:
		return BinaryBand
	case AssignBor:
		return BinaryBor
	case AssignBxor:
		return BinaryBxor
	case AssignShiftL:
		return BinaryShl
	case AssignShiftR:
		return BinaryShr
	default:
		return ""
	}
}

type AssignmentExpression struct {
	nodeImpl
	expressionMarker

	Operator AssignOperator `json:"operator"`
	Target   Expression     `json:"target"`
	Value    Expression     `json:"value"`
}

func NewAssignmentExpression(operator AssignOperator, target, value Expression) *AssignmentExpression {
	return &AssignmentExpression{nodeImpl: newNodeImpl(NodeAssignmentExpression), Operator: operator, Target: target, Value: value}
}

type CallExpression struct {
	nodeImpl
	expressionMarker

	Callee    Expression   `json:"callee"`
	Arguments []Expression `json:"arguments"`
}

func NewCallExpression(callee Expression, arguments []Expression) *CallExpression {
	return &CallExpression{nodeImpl: newNodeImpl(NodeCallExpression), Callee: callee, Arguments: arguments}
}

type IndexExpression struct {
	nodeImpl
	expressionMarker

	Object Expression `json:"object"`
	Index  Expression `json:"index"`
}

func NewIndexExpression(object, index Expression) *IndexExpression {
	return &IndexExpression{nodeImpl: newNodeImpl(NodeIndexExpression), Object: object, Index: index}
}

// SliceExpression selects a[start..end] from an array or string.
type SliceExpression struct {
	nodeImpl
	expressionMarker

	Object Expression `json:"object"`
	Start  Expression `json:"start"`
	End    Expression `json:"end,omitempty"`
}

func NewSliceExpression(object, start, end Expression) *SliceExpression {
	return &SliceExpression{nodeImpl: newNodeImpl(NodeSliceExpression), Object: object, Start: start, End: end}
}

type MemberExpression struct {
	nodeImpl
	expressionMarker

	Object Expression `json:"object"`
	Member string     `json:"member"`
}

func NewMemberExpression(object Expression, member string) *MemberExpression {
	return &MemberExpression{nodeImpl: newNodeImpl(NodeMemberExpression), Object: object, Member: member}
}

type InstanceofExpression struct {
	nodeImpl
	expressionMarker

	Value Expression     `json:"value"`
	Class *QualifiedName `json:"class"`
}

func NewInstanceofExpression(value Expression, class *QualifiedName) *InstanceofExpression {
	return &InstanceofExpression{nodeImpl: newNodeImpl(NodeInstanceofExpression), Value: value, Class: class}
}

// Declarations

type VarDecl struct {
	nodeImpl
	statementMarker

	Modifiers []string   `json:"modifiers,omitempty"`
	Name      string     `json:"name"`
	Init      Expression `json:"init,omitempty"`
}

func NewVarDecl(name string, init Expression, modifiers []string) *VarDecl {
	return &VarDecl{nodeImpl: newNodeImpl(NodeVarDecl), Modifiers: modifiers, Name: name, Init: init}
}

type VarListDecl struct {
	nodeImpl
	statementMarker

	Decls []*VarDecl `json:"decls"`
}

func NewVarListDecl(decls []*VarDecl) *VarListDecl {
	return &VarListDecl{nodeImpl: newNodeImpl(NodeVarListDecl), Decls: decls}
}

type ClassDecl struct {
	nodeImpl
	statementMarker

	Modifiers []string       `json:"modifiers,omitempty"`
	Name      string         `json:"name"`
	Parent    *QualifiedName `json:"parent,omitempty"`
	Members   []ClassMember  `json:"members"`
}

func NewClassDecl(name string, parent *QualifiedName, members []ClassMember, modifiers []string) *ClassDecl {
	return &ClassDecl{nodeImpl: newNodeImpl(NodeClassDecl), Modifiers: modifiers, Name: name, Parent: parent, Members: members}
}

type FuncDecl struct {
	nodeImpl
	statementMarker

	Modifiers []string `json:"modifiers,omitempty"`
	Name      string   `json:"name"`
	Params    []string `json:"params"`
	Body      *Block   `json:"body,omitempty"`
}

func NewFuncDecl(name string, params []string, body *Block, modifiers []string) *FuncDecl {
	return &FuncDecl{nodeImpl: newNodeImpl(NodeFuncDecl), Modifiers: modifiers, Name: name, Params: params, Body: body}
}

// IsStatic reports whether the declaration carries the static modifier.
func (f *FuncDecl) IsStatic() bool {
	for _, m := range f.Modifiers {
		if m == "static" {
			return true
		}
	}
	return false
}

// Class members

type VarMember struct {
	nodeImpl
	classMemberMarker

	Decl *VarDecl `json:"decl"`
}

func NewVarMember(decl *VarDecl) *VarMember {
	return &VarMember{nodeImpl: newNodeImpl(NodeVarMember), Decl: decl}
}

type FuncMember struct {
	nodeImpl
	classMemberMarker

	Decl *FuncDecl `json:"decl"`
}

func NewFuncMember(decl *FuncDecl) *FuncMember {
	return &FuncMember{nodeImpl: newNodeImpl(NodeFuncMember), Decl: decl}
}

// RuleMember declares a validation rule; rules live in their own table and are
// never found by ordinary method dispatch.
type RuleMember struct {
	nodeImpl
	classMemberMarker

	Decl *FuncDecl `json:"decl"`
}

func NewRuleMember(decl *FuncDecl) *RuleMember {
	return &RuleMember{nodeImpl: newNodeImpl(NodeRuleMember), Decl: decl}
}

// Statements

type ExpressionStatement struct {
	nodeImpl
	statementMarker

	Expression Expression `json:"expression"`
}

func NewExpressionStatement(expression Expression) *ExpressionStatement {
	return &ExpressionStatement{nodeImpl: newNodeImpl(NodeExpressionStatement), Expression: expression}
}

type Block struct {
	nodeImpl
	statementMarker

	Body []Statement `json:"body"`
}

func NewBlock(body []Statement) *Block {
	return &Block{nodeImpl: newNodeImpl(NodeBlock), Body: body}
}

type IfStatement struct {
	nodeImpl
	statementMarker

	Condition Expression `json:"condition"`
	Then      Statement  `json:"then"`
	Else      Statement  `json:"else,omitempty"`
}

func NewIfStatement(condition Expression, then, els Statement) *IfStatement {
	return &IfStatement{nodeImpl: newNodeImpl(NodeIfStatement), Condition: condition, Then: then, Else: els}
}

// SwitchCase with a nil Value is the default clause.
type SwitchCase struct {
	nodeImpl

	Value Expression  `json:"value,omitempty"`
	Body  []Statement `json:"body"`
}

func NewSwitchCase(value Expression, body []Statement) *SwitchCase {
	return &SwitchCase{nodeImpl: newNodeImpl(NodeSwitchCase), Value: value, Body: body}
}

type SwitchStatement struct {
	nodeImpl
	statementMarker

	Subject Expression    `json:"subject"`
	Cases   []*SwitchCase `json:"cases"`
}

func NewSwitchStatement(subject Expression, cases []*SwitchCase) *SwitchStatement {
	return &SwitchStatement{nodeImpl: newNodeImpl(NodeSwitchStatement), Subject: subject, Cases: cases}
}

type WhileStatement struct {
	nodeImpl
	statementMarker

	Condition Expression `json:"condition"`
	Body      Statement  `json:"body"`
}

func NewWhileStatement(condition Expression, body Statement) *WhileStatement {
	return &WhileStatement{nodeImpl: newNodeImpl(NodeWhileStatement), Condition: condition, Body: body}
}

type DoWhileStatement struct {
	nodeImpl
	statementMarker

	Body      Statement  `json:"body"`
	Condition Expression `json:"condition"`
}

func NewDoWhileStatement(body Statement, condition Expression) *DoWhileStatement {
	return &DoWhileStatement{nodeImpl: newNodeImpl(NodeDoWhileStatement), Body: body, Condition: condition}
}

type ForStatement struct {
	nodeImpl
	statementMarker

	Init      Statement  `json:"init,omitempty"`
	Condition Expression `json:"condition,omitempty"`
	Update    Expression `json:"update,omitempty"`
	Body      Statement  `json:"body"`
}

func NewForStatement(init Statement, condition, update Expression, body Statement) *ForStatement {
	return &ForStatement{nodeImpl: newNodeImpl(NodeForStatement), Init: init, Condition: condition, Update: update, Body: body}
}

type ForeachStatement struct {
	nodeImpl
	statementMarker

	Var      string     `json:"var"`
	Iterable Expression `json:"iterable"`
	Body     Statement  `json:"body"`
}

func NewForeachStatement(varName string, iterable Expression, body Statement) *ForeachStatement {
	return &ForeachStatement{nodeImpl: newNodeImpl(NodeForeachStatement), Var: varName, Iterable: iterable, Body: body}
}

type ReturnStatement struct {
	nodeImpl
	statementMarker

	Value Expression `json:"value,omitempty"`
}

func NewReturnStatement(value Expression) *ReturnStatement {
	return &ReturnStatement{nodeImpl: newNodeImpl(NodeReturnStatement), Value: value}
}

type BreakStatement struct {
	nodeImpl
	statementMarker
}

func NewBreakStatement() *BreakStatement {
	return &BreakStatement{nodeImpl: newNodeImpl(NodeBreakStatement)}
}

type ContinueStatement struct {
	nodeImpl
	statementMarker
}

func NewContinueStatement() *ContinueStatement {
	return &ContinueStatement{nodeImpl: newNodeImpl(NodeContinueStatement)}
}

type ThrowStatement struct {
	nodeImpl
	statementMarker

	Value Expression `json:"value"`
}

func NewThrowStatement(value Expression) *ThrowStatement {
	return &ThrowStatement{nodeImpl: newNodeImpl(NodeThrowStatement), Value: value}
}

type TryStatement struct {
	nodeImpl
	statementMarker

	Body     *Block `json:"body"`
	CatchVar string `json:"catchVar,omitempty"`
	Catch    *Block `json:"catch,omitempty"`
	Finally  *Block `json:"finally,omitempty"`
}

func NewTryStatement(body *Block, catchVar string, catch, finally *Block) *TryStatement {
	return &TryStatement{nodeImpl: newNodeImpl(NodeTryStatement), Body: body, CatchVar: catchVar, Catch: catch, Finally: finally}
}

type EmptyStatement struct {
	nodeImpl
	statementMarker
}

func NewEmptyStatement() *EmptyStatement {
	return &EmptyStatement{nodeImpl: newNodeImpl(NodeEmptyStatement)}
}

// Translation unit root

// TranslationUnit is one parsed source file: its package declaration, imports
// and top-level statements.
type TranslationUnit struct {
	nodeImpl

	Package    string      `json:"package,omitempty"`
	Imports    []string    `json:"imports,omitempty"`
	Statements []Statement `json:"statements"`
}

func NewTranslationUnit(pkg string, imports []string, statements []Statement) *TranslationUnit {
	return &TranslationUnit{nodeImpl: newNodeImpl(NodeTranslationUnit), Package: pkg, Imports: imports, Statements: statements}
}

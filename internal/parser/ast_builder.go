package parser

import (
	sitter "github.com/smacker/go-tree-sitter"
)

// ASTBuilder builds the structural model from a tree-sitter Python CST
type ASTBuilder struct {
	filename string
	source   []byte
}

// NewASTBuilder creates a new AST builder
func NewASTBuilder(filename string, source []byte) *ASTBuilder {
	return &ASTBuilder{
		filename: filename,
		source:   source,
	}
}

// Build builds a module from the tree-sitter root node
func (b *ASTBuilder) Build(root *sitter.Node) *Module {
	if root == nil {
		return nil
	}

	module := &Module{
		Location:  b.getLocation(root),
		HasErrors: root.HasError(),
	}
	module.Body = b.buildBlock(root, nil)
	return module
}

// buildBlock converts the named statement children of a module or block node
func (b *ASTBuilder) buildBlock(tsNode *sitter.Node, class *ClassDef) []Statement {
	if tsNode == nil {
		return nil
	}

	var stmts []Statement
	for i := 0; i < int(tsNode.NamedChildCount()); i++ {
		child := tsNode.NamedChild(i)
		if child == nil || b.isTrivia(child) {
			continue
		}
		if stmt := b.buildStatement(child, class); stmt != nil {
			stmts = append(stmts, stmt)
		}
	}
	return stmts
}

// buildBody converts a block and strips a leading docstring
func (b *ASTBuilder) buildBody(tsNode *sitter.Node, class *ClassDef) ([]Statement, string) {
	stmts := b.buildBlock(tsNode, class)
	if len(stmts) == 0 {
		return stmts, ""
	}
	if es, ok := stmts[0].(*ExprStmt); ok {
		if c, ok := es.Value.(*Constant); ok && c.Kind == ConstString {
			return stmts[1:], c.Raw
		}
	}
	return stmts, ""
}

// buildStatement converts a single statement node. class is the enclosing
// class when the statement sits directly in a class body.
func (b *ASTBuilder) buildStatement(tsNode *sitter.Node, class *ClassDef) Statement {
	loc := b.getLocation(tsNode)

	switch tsNode.Type() {
	case "class_definition":
		return b.buildClassDefinition(tsNode, nil)
	case "function_definition":
		return b.buildFunctionDefinition(tsNode, nil, class)
	case "decorated_definition":
		return b.buildDecoratedDefinition(tsNode, class)
	case "pass_statement":
		return &PassStmt{Location: loc}
	case "break_statement":
		return &BreakStmt{Location: loc}
	case "continue_statement":
		return &ContinueStmt{Location: loc}
	case "return_statement":
		return &ReturnStmt{Value: b.buildExpr(b.firstNamedChild(tsNode)), Location: loc}
	case "raise_statement":
		var exc Expr
		for i := 0; i < int(tsNode.ChildCount()); i++ {
			if tsNode.FieldNameForChild(i) == "cause" {
				continue
			}
			child := tsNode.Child(i)
			if child != nil && child.IsNamed() && !b.isTrivia(child) {
				exc = b.buildExpr(child)
				break
			}
		}
		return &RaiseStmt{Exc: exc, Location: loc}
	case "if_statement":
		return b.buildIfStatement(tsNode)
	case "for_statement":
		return b.buildLoop(tsNode, LoopFor)
	case "while_statement":
		return b.buildLoop(tsNode, LoopWhile)
	case "try_statement":
		return b.buildTryStatement(tsNode)
	case "with_statement":
		return &WithStmt{Body: b.buildBlock(b.getChildByFieldName(tsNode, "body"), nil), Location: loc}
	case "match_statement":
		return b.buildMatchStatement(tsNode)
	case "expression_statement":
		return b.buildExpressionStatement(tsNode)
	default:
		return &OtherStmt{Kind: tsNode.Type(), Location: loc}
	}
}

// buildDecoratedDefinition attaches decorators to the wrapped definition
func (b *ASTBuilder) buildDecoratedDefinition(tsNode *sitter.Node, class *ClassDef) Statement {
	var decorators []Expr
	for i := 0; i < int(tsNode.NamedChildCount()); i++ {
		child := tsNode.NamedChild(i)
		if child != nil && child.Type() == "decorator" {
			decorators = append(decorators, b.buildExpr(b.firstNamedChild(child)))
		}
	}

	def := b.getChildByFieldName(tsNode, "definition")
	if def == nil {
		return &OtherStmt{Kind: tsNode.Type(), Location: b.getLocation(tsNode)}
	}

	switch def.Type() {
	case "class_definition":
		return b.buildClassDefinition(def, decorators)
	case "function_definition":
		return b.buildFunctionDefinition(def, decorators, class)
	}
	return &OtherStmt{Kind: def.Type(), Location: b.getLocation(def)}
}

// buildClassDefinition builds a class node and collects its instance fields
func (b *ASTBuilder) buildClassDefinition(tsNode *sitter.Node, decorators []Expr) *ClassDef {
	class := &ClassDef{
		Decorators: decorators,
		Location:   b.getLocation(tsNode),
	}

	if nameNode := b.getChildByFieldName(tsNode, "name"); nameNode != nil {
		class.Name = nameNode.Content(b.source)
	}

	if supers := b.getChildByFieldName(tsNode, "superclasses"); supers != nil {
		class.Bases = b.buildBases(supers)
	}

	class.Body, class.Doc = b.buildBody(b.getChildByFieldName(tsNode, "body"), class)
	class.Fields = collectInstanceFields(class)

	return class
}

// buildBases extracts positional base references from an argument list
func (b *ASTBuilder) buildBases(tsNode *sitter.Node) []BaseRef {
	var bases []BaseRef
	for i := 0; i < int(tsNode.NamedChildCount()); i++ {
		child := tsNode.NamedChild(i)
		if child == nil || b.isTrivia(child) {
			continue
		}
		switch child.Type() {
		case "keyword_argument", "list_splat", "dictionary_splat":
			continue
		case "identifier":
			bases = append(bases, BaseRef{Name: child.Content(b.source)})
		default:
			bases = append(bases, BaseRef{Name: child.Content(b.source), Qualified: true})
		}
	}
	return bases
}

// buildFunctionDefinition builds a function node
func (b *ASTBuilder) buildFunctionDefinition(tsNode *sitter.Node, decorators []Expr, class *ClassDef) *FunctionDef {
	fn := &FunctionDef{
		Decorators: decorators,
		Location:   b.getLocation(tsNode),
		Class:      class,
	}

	if nameNode := b.getChildByFieldName(tsNode, "name"); nameNode != nil {
		fn.Name = nameNode.Content(b.source)
	}

	// Nested definitions are never methods of the outer class
	fn.Body, fn.Doc = b.buildBody(b.getChildByFieldName(tsNode, "body"), nil)

	if class != nil {
		if params := b.getChildByFieldName(tsNode, "parameters"); params != nil {
			fn.Receiver = b.receiverName(params)
		}
	}

	return fn
}

// receiverName returns the first positional parameter name
func (b *ASTBuilder) receiverName(params *sitter.Node) string {
	for i := 0; i < int(params.NamedChildCount()); i++ {
		child := params.NamedChild(i)
		if child == nil || b.isTrivia(child) {
			continue
		}
		switch child.Type() {
		case "identifier":
			return child.Content(b.source)
		case "typed_parameter", "default_parameter", "typed_default_parameter":
			if name := b.getChildByFieldName(child, "name"); name != nil {
				return name.Content(b.source)
			}
			if first := b.firstNamedChild(child); first != nil && first.Type() == "identifier" {
				return first.Content(b.source)
			}
		}
		return ""
	}
	return ""
}

// buildIfStatement folds elif/else clauses into nested IfStmt values
func (b *ASTBuilder) buildIfStatement(tsNode *sitter.Node) *IfStmt {
	root := &IfStmt{
		Test:     b.buildExpr(b.getChildByFieldName(tsNode, "condition")),
		Body:     b.buildBlock(b.getChildByFieldName(tsNode, "consequence"), nil),
		Location: b.getLocation(tsNode),
	}

	current := root
	for _, alt := range b.getChildrenByFieldName(tsNode, "alternative") {
		switch alt.Type() {
		case "elif_clause":
			elif := &IfStmt{
				Test:     b.buildExpr(b.getChildByFieldName(alt, "condition")),
				Body:     b.buildBlock(b.getChildByFieldName(alt, "consequence"), nil),
				Location: b.getLocation(alt),
			}
			current.Else = []Statement{elif}
			current = elif
		case "else_clause":
			current.Else = b.buildBlock(b.getChildByFieldName(alt, "body"), nil)
		}
	}

	return root
}

// buildLoop builds a for or while loop
func (b *ASTBuilder) buildLoop(tsNode *sitter.Node, kind LoopKind) *LoopStmt {
	loop := &LoopStmt{
		Kind:     kind,
		Body:     b.buildBlock(b.getChildByFieldName(tsNode, "body"), nil),
		Location: b.getLocation(tsNode),
	}
	if alt := b.getChildByFieldName(tsNode, "alternative"); alt != nil {
		loop.Else = b.buildBlock(b.getChildByFieldName(alt, "body"), nil)
	}
	return loop
}

// buildTryStatement builds a try statement with its handlers
func (b *ASTBuilder) buildTryStatement(tsNode *sitter.Node) *TryStmt {
	try := &TryStmt{
		Body:     b.buildBlock(b.getChildByFieldName(tsNode, "body"), nil),
		Location: b.getLocation(tsNode),
	}

	for i := 0; i < int(tsNode.NamedChildCount()); i++ {
		child := tsNode.NamedChild(i)
		if child == nil {
			continue
		}
		switch child.Type() {
		case "except_clause", "except_group_clause":
			try.Handlers = append(try.Handlers, b.buildBlock(b.lastChildOfType(child, "block"), nil))
		case "else_clause":
			try.Else = b.buildBlock(b.getChildByFieldName(child, "body"), nil)
		case "finally_clause":
			try.Finally = b.buildBlock(b.lastChildOfType(child, "block"), nil)
		}
	}

	return try
}

// buildMatchStatement builds a match statement, one body per case
func (b *ASTBuilder) buildMatchStatement(tsNode *sitter.Node) *MatchStmt {
	match := &MatchStmt{Location: b.getLocation(tsNode)}

	body := b.getChildByFieldName(tsNode, "body")
	if body == nil {
		return match
	}
	for i := 0; i < int(body.NamedChildCount()); i++ {
		child := body.NamedChild(i)
		if child != nil && child.Type() == "case_clause" {
			match.Cases = append(match.Cases, b.buildBlock(b.getChildByFieldName(child, "consequence"), nil))
		}
	}
	return match
}

// buildExpressionStatement separates assignments from plain expressions
func (b *ASTBuilder) buildExpressionStatement(tsNode *sitter.Node) Statement {
	loc := b.getLocation(tsNode)
	inner := b.firstNamedChild(tsNode)
	if inner == nil {
		return &OtherStmt{Kind: tsNode.Type(), Location: loc}
	}

	switch inner.Type() {
	case "assignment", "augmented_assignment":
		assign := &AssignStmt{Location: loc}
		// Chained assignments nest the next assignment on the right
		for cur := inner; cur != nil; {
			assign.Targets = append(assign.Targets, b.buildTargets(b.getChildByFieldName(cur, "left"))...)
			right := b.getChildByFieldName(cur, "right")
			if right != nil && right.Type() == "assignment" {
				cur = right
				continue
			}
			assign.Value = b.buildExpr(right)
			cur = nil
		}
		return assign
	}

	return &ExprStmt{Value: b.buildExpr(inner), Location: loc}
}

// buildTargets flattens tuple and list assignment targets
func (b *ASTBuilder) buildTargets(tsNode *sitter.Node) []Expr {
	if tsNode == nil {
		return nil
	}
	switch tsNode.Type() {
	case "pattern_list", "tuple_pattern", "list_pattern", "tuple", "list", "expression_list":
		var targets []Expr
		for i := 0; i < int(tsNode.NamedChildCount()); i++ {
			targets = append(targets, b.buildTargets(tsNode.NamedChild(i))...)
		}
		return targets
	}
	return []Expr{b.buildExpr(tsNode)}
}

// buildExpr converts the expression shapes the engine inspects
func (b *ASTBuilder) buildExpr(tsNode *sitter.Node) Expr {
	if tsNode == nil {
		return nil
	}

	switch tsNode.Type() {
	case "identifier":
		return &Name{ID: tsNode.Content(b.source)}
	case "attribute":
		attr := &Attribute{Value: b.buildExpr(b.getChildByFieldName(tsNode, "object"))}
		if name := b.getChildByFieldName(tsNode, "attribute"); name != nil {
			attr.Attr = name.Content(b.source)
		}
		return attr
	case "call":
		call := &Call{Func: b.buildExpr(b.getChildByFieldName(tsNode, "function"))}
		if args := b.getChildByFieldName(tsNode, "arguments"); args != nil {
			for i := 0; i < int(args.NamedChildCount()); i++ {
				if arg := args.NamedChild(i); arg != nil && !b.isTrivia(arg) {
					call.Args = append(call.Args, b.buildExpr(arg))
				}
			}
		}
		return call
	case "none":
		return &Constant{Kind: ConstNone, Raw: tsNode.Content(b.source)}
	case "true":
		return &Constant{Kind: ConstTrue, Raw: tsNode.Content(b.source)}
	case "false":
		return &Constant{Kind: ConstFalse, Raw: tsNode.Content(b.source)}
	case "string", "concatenated_string":
		return &Constant{Kind: ConstString, Raw: tsNode.Content(b.source)}
	case "integer", "float":
		return &Constant{Kind: ConstNumber, Raw: tsNode.Content(b.source)}
	case "parenthesized_expression":
		return b.buildExpr(b.firstNamedChild(tsNode))
	case "boolean_operator":
		op := &BoolOp{
			Values: []Expr{
				b.buildExpr(b.getChildByFieldName(tsNode, "left")),
				b.buildExpr(b.getChildByFieldName(tsNode, "right")),
			},
		}
		if operator := b.getChildByFieldName(tsNode, "operator"); operator != nil {
			op.Operator = operator.Type()
		}
		return op
	}

	return &OtherExpr{Kind: tsNode.Type(), Raw: tsNode.Content(b.source)}
}

// Helper methods

// getLocation extracts location information from a tree-sitter node
func (b *ASTBuilder) getLocation(tsNode *sitter.Node) Location {
	return Location{
		File:      b.filename,
		StartLine: int(tsNode.StartPoint().Row) + 1,
		StartCol:  int(tsNode.StartPoint().Column),
		EndLine:   int(tsNode.EndPoint().Row) + 1,
		EndCol:    int(tsNode.EndPoint().Column),
	}
}

// getChildByFieldName gets a child node by field name
func (b *ASTBuilder) getChildByFieldName(tsNode *sitter.Node, fieldName string) *sitter.Node {
	if tsNode == nil {
		return nil
	}
	for i := 0; i < int(tsNode.ChildCount()); i++ {
		child := tsNode.Child(i)
		if child != nil && tsNode.FieldNameForChild(i) == fieldName {
			return child
		}
	}
	return nil
}

// getChildrenByFieldName gets every child carrying the field name
func (b *ASTBuilder) getChildrenByFieldName(tsNode *sitter.Node, fieldName string) []*sitter.Node {
	var children []*sitter.Node
	for i := 0; i < int(tsNode.ChildCount()); i++ {
		child := tsNode.Child(i)
		if child != nil && tsNode.FieldNameForChild(i) == fieldName {
			children = append(children, child)
		}
	}
	return children
}

// firstNamedChild returns the first non-trivia named child
func (b *ASTBuilder) firstNamedChild(tsNode *sitter.Node) *sitter.Node {
	if tsNode == nil {
		return nil
	}
	for i := 0; i < int(tsNode.NamedChildCount()); i++ {
		child := tsNode.NamedChild(i)
		if child != nil && !b.isTrivia(child) {
			return child
		}
	}
	return nil
}

// lastChildOfType returns the last named child with the given type
func (b *ASTBuilder) lastChildOfType(tsNode *sitter.Node, nodeType string) *sitter.Node {
	var found *sitter.Node
	for i := 0; i < int(tsNode.NamedChildCount()); i++ {
		child := tsNode.NamedChild(i)
		if child != nil && child.Type() == nodeType {
			found = child
		}
	}
	return found
}

// isTrivia checks if a node is trivia (comments, etc.)
func (b *ASTBuilder) isTrivia(tsNode *sitter.Node) bool {
	nodeType := tsNode.Type()
	return nodeType == "comment" || nodeType == ""
}

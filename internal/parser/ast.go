package parser

import (
	"fmt"
	"strings"
)

// DefaultPrivatePrefix marks non-public method names
const DefaultPrivatePrefix = "_"

// Location represents the position of a node in the source code
type Location struct {
	File      string
	StartLine int
	StartCol  int
	EndLine   int
	EndCol    int
}

// String returns a string representation of the location
func (l Location) String() string {
	return fmt.Sprintf("%s:%d:%d", l.File, l.StartLine, l.StartCol)
}

// Module is the root container of one analyzed source file
type Module struct {
	Name     string
	Path     string // Absolute, cleaned path; the cohesion tool input key
	Body     []Statement
	Location Location

	// HasErrors is set when the front end recovered from syntax errors
	HasErrors bool
}

// Classes returns every class definition in the module in document order,
// including classes nested in functions and other classes.
func (m *Module) Classes() []*ClassDef {
	var classes []*ClassDef
	Walk(m.Body, func(s Statement) bool {
		if c, ok := s.(*ClassDef); ok {
			classes = append(classes, c)
		}
		return true
	})
	return classes
}

// BaseRef is a declared base-class reference. Only unqualified names can be
// resolved against a module's class index.
type BaseRef struct {
	Name      string
	Qualified bool
}

// String returns the base name as written
func (b BaseRef) String() string {
	return b.Name
}

// ClassDef is a class declaration
type ClassDef struct {
	Name       string
	Bases      []BaseRef
	Decorators []Expr
	Body       []Statement
	Fields     []string // Instance attribute names, first-seen order
	Doc        string
	Location   Location
}

// Methods returns the functions declared directly in the class body
func (c *ClassDef) Methods() []*FunctionDef {
	var methods []*FunctionDef
	for _, stmt := range c.Body {
		if fn, ok := stmt.(*FunctionDef); ok {
			methods = append(methods, fn)
		}
	}
	return methods
}

// Method returns the declared method with the given name.
// When a name is declared more than once the first declaration wins.
func (c *ClassDef) Method(name string) (*FunctionDef, bool) {
	for _, fn := range c.Methods() {
		if fn.Name == name {
			return fn, true
		}
	}
	return nil, false
}

// HasBases reports whether the class declares at least one base
func (c *ClassDef) HasBases() bool {
	return len(c.Bases) > 0
}

// FunctionDef is a function or method declaration
type FunctionDef struct {
	Name       string
	Decorators []Expr
	Body       []Statement
	Doc        string
	Location   Location

	// Class is the enclosing class for methods, nil otherwise
	Class *ClassDef

	// Receiver is the first positional parameter of a method ("self")
	Receiver string
}

// IsMethod reports whether the function is declared directly in a class body
func (f *FunctionDef) IsMethod() bool {
	return f.Class != nil
}

// IsPublic reports whether the name lacks the non-public prefix
func (f *FunctionDef) IsPublic(prefix string) bool {
	if prefix == "" {
		prefix = DefaultPrivatePrefix
	}
	return !strings.HasPrefix(f.Name, prefix)
}

// QualifiedName returns Class.method for methods and the bare name otherwise
func (f *FunctionDef) QualifiedName() string {
	if f.Class != nil {
		return f.Class.Name + "." + f.Name
	}
	return f.Name
}

// FirstStatement returns the first body statement, or nil for an empty body
func (f *FunctionDef) FirstStatement() Statement {
	if len(f.Body) == 0 {
		return nil
	}
	return f.Body[0]
}

// Statement is the closed set of statement shapes the engine understands
type Statement interface {
	isStatement()
	Loc() Location
}

// LoopKind distinguishes loop statements
type LoopKind string

const (
	LoopFor   LoopKind = "for"
	LoopWhile LoopKind = "while"
)

// PassStmt is a no-op statement
type PassStmt struct{ Location Location }

// RaiseStmt raises Exc; Exc is nil for a bare re-raise
type RaiseStmt struct {
	Exc      Expr
	Location Location
}

// ReturnStmt returns Value; Value is nil for a bare return
type ReturnStmt struct {
	Value    Expr
	Location Location
}

// IfStmt is a conditional. elif chains are nested IfStmt values in Else.
type IfStmt struct {
	Test     Expr
	Body     []Statement
	Else     []Statement
	Location Location
}

// LoopStmt is a for or while loop with an optional else block
type LoopStmt struct {
	Kind     LoopKind
	Body     []Statement
	Else     []Statement
	Location Location
}

// TryStmt is a try statement with one body per except handler
type TryStmt struct {
	Body     []Statement
	Handlers [][]Statement
	Else     []Statement
	Finally  []Statement
	Location Location
}

// WithStmt is a context-manager block
type WithStmt struct {
	Body     []Statement
	Location Location
}

// MatchStmt is a structural pattern match, one body per case
type MatchStmt struct {
	Cases    [][]Statement
	Location Location
}

// BreakStmt exits the innermost loop
type BreakStmt struct{ Location Location }

// ContinueStmt jumps to the innermost loop header
type ContinueStmt struct{ Location Location }

// ExprStmt is an expression evaluated for its side effects
type ExprStmt struct {
	Value    Expr
	Location Location
}

// AssignStmt covers plain, augmented and annotated assignments
type AssignStmt struct {
	Targets  []Expr
	Value    Expr
	Location Location
}

// OtherStmt is any statement without control-flow or stub meaning
type OtherStmt struct {
	Kind     string
	Location Location
}

func (*PassStmt) isStatement()     {}
func (*RaiseStmt) isStatement()    {}
func (*ReturnStmt) isStatement()   {}
func (*IfStmt) isStatement()       {}
func (*LoopStmt) isStatement()     {}
func (*TryStmt) isStatement()      {}
func (*WithStmt) isStatement()     {}
func (*MatchStmt) isStatement()    {}
func (*BreakStmt) isStatement()    {}
func (*ContinueStmt) isStatement() {}
func (*ExprStmt) isStatement()     {}
func (*AssignStmt) isStatement()   {}
func (*OtherStmt) isStatement()    {}
func (*FunctionDef) isStatement()  {}
func (*ClassDef) isStatement()     {}

func (s *PassStmt) Loc() Location     { return s.Location }
func (s *RaiseStmt) Loc() Location    { return s.Location }
func (s *ReturnStmt) Loc() Location   { return s.Location }
func (s *IfStmt) Loc() Location       { return s.Location }
func (s *LoopStmt) Loc() Location     { return s.Location }
func (s *TryStmt) Loc() Location      { return s.Location }
func (s *WithStmt) Loc() Location     { return s.Location }
func (s *MatchStmt) Loc() Location    { return s.Location }
func (s *BreakStmt) Loc() Location    { return s.Location }
func (s *ContinueStmt) Loc() Location { return s.Location }
func (s *ExprStmt) Loc() Location     { return s.Location }
func (s *AssignStmt) Loc() Location   { return s.Location }
func (s *OtherStmt) Loc() Location    { return s.Location }
func (s *FunctionDef) Loc() Location  { return s.Location }
func (s *ClassDef) Loc() Location     { return s.Location }

// Expr is the closed set of expression shapes the engine understands
type Expr interface {
	isExpr()
}

// ConstKind classifies literal constants
type ConstKind string

const (
	ConstNone   ConstKind = "none"
	ConstTrue   ConstKind = "true"
	ConstFalse  ConstKind = "false"
	ConstString ConstKind = "string"
	ConstNumber ConstKind = "number"
)

// Name is a bare identifier
type Name struct{ ID string }

// Attribute is Value.Attr
type Attribute struct {
	Value Expr
	Attr  string
}

// Call is Func(Args...)
type Call struct {
	Func Expr
	Args []Expr
}

// Constant is a literal
type Constant struct {
	Kind ConstKind
	Raw  string
}

// BoolOp is an and/or chain
type BoolOp struct {
	Operator string
	Values   []Expr
}

// OtherExpr is any expression the engine never inspects structurally
type OtherExpr struct {
	Kind string
	Raw  string
}

func (*Name) isExpr()      {}
func (*Attribute) isExpr() {}
func (*Call) isExpr()      {}
func (*Constant) isExpr()  {}
func (*BoolOp) isExpr()    {}
func (*OtherExpr) isExpr() {}

// IsNone reports whether e is the literal null constant
func IsNone(e Expr) bool {
	c, ok := e.(*Constant)
	return ok && c.Kind == ConstNone
}

// TrailingName returns the identifier at the end of a Name or Attribute chain
func TrailingName(e Expr) string {
	switch v := e.(type) {
	case *Name:
		return v.ID
	case *Attribute:
		return v.Attr
	}
	return ""
}

// Children returns the nested statement blocks of a compound statement in
// source order. Function and class bodies are included.
func Children(s Statement) [][]Statement {
	switch v := s.(type) {
	case *IfStmt:
		return [][]Statement{v.Body, v.Else}
	case *LoopStmt:
		return [][]Statement{v.Body, v.Else}
	case *TryStmt:
		blocks := [][]Statement{v.Body}
		blocks = append(blocks, v.Handlers...)
		return append(blocks, v.Else, v.Finally)
	case *WithStmt:
		return [][]Statement{v.Body}
	case *MatchStmt:
		return v.Cases
	case *FunctionDef:
		return [][]Statement{v.Body}
	case *ClassDef:
		return [][]Statement{v.Body}
	}
	return nil
}

// Walk traverses statements depth-first in document order.
// If the visitor returns false, traversal of that statement's children is skipped.
func Walk(stmts []Statement, visitor func(Statement) bool) {
	for _, stmt := range stmts {
		if stmt == nil {
			continue
		}
		if !visitor(stmt) {
			continue
		}
		for _, block := range Children(stmt) {
			Walk(block, visitor)
		}
	}
}

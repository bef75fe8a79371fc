package analyzer

import (
	"strings"

	"github.com/ludo-technologies/solidscan/internal/config"
	"github.com/ludo-technologies/solidscan/internal/parser"
)

// StubDetector decides whether a method only declares a contract
type StubDetector struct {
	markers []string
}

// NewStubDetector creates a detector for the given abstract decorator names.
// An empty list falls back to config.DefaultAbstractMarker.
func NewStubDetector(markers []string) *StubDetector {
	if len(markers) == 0 {
		markers = []string{config.DefaultAbstractMarker}
	}
	return &StubDetector{markers: markers}
}

// IsAbstract reports whether fn carries an abstract-method decorator. Both
// bare names and qualified names such as abc.abstractmethod match, and a
// called decorator is matched by its callee.
func (d *StubDetector) IsAbstract(fn *parser.FunctionDef) bool {
	if fn == nil {
		return false
	}
	for _, dec := range fn.Decorators {
		if call, ok := dec.(*parser.Call); ok {
			dec = call.Func
		}
		dotted := dottedName(dec)
		trailing := parser.TrailingName(dec)
		for _, marker := range d.markers {
			if marker == trailing || marker == dotted {
				return true
			}
		}
	}
	return false
}

// IsStub reports whether fn is annotated abstract or first is stub-shaped.
// A nil first statement is a stub only when fn is annotated.
func (d *StubDetector) IsStub(fn *parser.FunctionDef, first parser.Statement) bool {
	if d.IsAbstract(fn) {
		return true
	}
	return first != nil && isStubShaped(first, true)
}

// IsStubMethod reports whether fn degenerates to a stub: an empty body, or
// any top-level statement that is stub-shaped after descending into
// compound statements.
func (d *StubDetector) IsStubMethod(fn *parser.FunctionDef) bool {
	if fn == nil {
		return false
	}
	if len(fn.Body) == 0 {
		return true
	}
	for _, stmt := range fn.Body {
		if d.IsStub(fn, stmt) {
			return true
		}
	}
	return false
}

// IsStubShallow inspects only the first statement without recursion. An
// empty body counts as a stub.
func (d *StubDetector) IsStubShallow(fn *parser.FunctionDef) bool {
	if fn == nil {
		return false
	}
	if d.IsAbstract(fn) || len(fn.Body) == 0 {
		return true
	}
	return isStubShaped(fn.Body[0], false)
}

// isStubShaped matches pass, a bare or null return, and a raise of
// NotImplementedError. When nested is set, compound statements match if any
// statement in their blocks does. Nested definitions are never entered.
func isStubShaped(stmt parser.Statement, nested bool) bool {
	switch s := stmt.(type) {
	case *parser.PassStmt:
		return true
	case *parser.ReturnStmt:
		return s.Value == nil || parser.IsNone(s.Value)
	case *parser.RaiseStmt:
		return raisesNotImplemented(s.Exc)
	case *parser.FunctionDef, *parser.ClassDef:
		return false
	}

	if !nested {
		return false
	}
	for _, block := range parser.Children(stmt) {
		for _, inner := range block {
			if isStubShaped(inner, true) {
				return true
			}
		}
	}
	return false
}

func raisesNotImplemented(exc parser.Expr) bool {
	if call, ok := exc.(*parser.Call); ok {
		exc = call.Func
	}
	return parser.TrailingName(exc) == "NotImplementedError"
}

// dottedName renders a Name/Attribute chain, or "" for other shapes
func dottedName(e parser.Expr) string {
	var parts []string
	for e != nil {
		switch v := e.(type) {
		case *parser.Name:
			parts = append(parts, v.ID)
			e = nil
		case *parser.Attribute:
			parts = append(parts, v.Attr)
			e = v.Value
		default:
			return ""
		}
	}
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return strings.Join(parts, ".")
}

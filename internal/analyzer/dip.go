package analyzer

import (
	"github.com/ludo-technologies/solidscan/internal/parser"
)

// DIPChecker reports derived methods that replace a concrete base method
// instead of delegating to it or leaving it abstract
type DIPChecker struct {
	hierarchyChecker
	stubs *StubDetector
}

// NewDIPChecker creates a DIP checker
func NewDIPChecker(stubs *StubDetector, reporter Reporter, filter RuleFilter) *DIPChecker {
	c := &DIPChecker{stubs: stubs}
	c.hierarchyChecker = hierarchyChecker{
		baseChecker: baseChecker{reporter: reporter, filter: filter},
		check:       c.check,
	}
	return c
}

// Principle returns DIP
func (c *DIPChecker) Principle() Principle { return PrincipleDIP }

func (c *DIPChecker) check(idx *ClassIndex) {
	for _, class := range idx.Classes() {
		if !class.HasBases() {
			continue
		}
		for _, method := range class.Methods() {
			if c.stubs.IsStubShallow(method) || IsSuperDelegation(method) {
				continue
			}
			if c.overridesConcrete(idx, class, method.Name) {
				c.report(NewViolation(RuleDIPConcreteOverrideReplaced, method.QualifiedName(), method.Location, class.Name, method.Name))
			}
		}
	}
}

// overridesConcrete reports whether the nearest declaration of name on any
// base branch is concrete. Only the first statement decides that, and an
// abstract declaration hides whatever its own ancestors implement.
func (c *DIPChecker) overridesConcrete(idx *ClassIndex, class *parser.ClassDef, name string) bool {
	for _, declared := range idx.NearestDeclarations(class, name) {
		if !c.stubs.IsStubShallow(declared) {
			return true
		}
	}
	return false
}

// IsSuperDelegation reports whether the body is exactly one return or
// expression statement whose value is super(...).<same name>(...)
func IsSuperDelegation(fn *parser.FunctionDef) bool {
	if fn == nil || len(fn.Body) != 1 {
		return false
	}

	var value parser.Expr
	switch s := fn.Body[0].(type) {
	case *parser.ReturnStmt:
		value = s.Value
	case *parser.ExprStmt:
		value = s.Value
	default:
		return false
	}

	call, ok := value.(*parser.Call)
	if !ok {
		return false
	}
	attr, ok := call.Func.(*parser.Attribute)
	if !ok || attr.Attr != fn.Name {
		return false
	}
	inner, ok := attr.Value.(*parser.Call)
	if !ok {
		return false
	}
	name, ok := inner.Func.(*parser.Name)
	return ok && name.ID == "super"
}

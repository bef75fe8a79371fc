package analyzer

import (
	"github.com/ludo-technologies/solidscan/internal/parser"
)

// LSPChecker reports derived methods that stub out a base method with a
// concrete implementation somewhere up the hierarchy
type LSPChecker struct {
	hierarchyChecker
	stubs *StubDetector
}

// NewLSPChecker creates an LSP checker
func NewLSPChecker(stubs *StubDetector, reporter Reporter, filter RuleFilter) *LSPChecker {
	c := &LSPChecker{stubs: stubs}
	c.hierarchyChecker = hierarchyChecker{
		baseChecker: baseChecker{reporter: reporter, filter: filter},
		check:       c.check,
	}
	return c
}

// Principle returns LSP
func (c *LSPChecker) Principle() Principle { return PrincipleLSP }

func (c *LSPChecker) check(idx *ClassIndex) {
	concrete := func(fn *parser.FunctionDef) bool {
		return !c.stubs.IsStubMethod(fn)
	}

	for _, class := range idx.Classes() {
		if !class.HasBases() {
			continue
		}
		for _, method := range class.Methods() {
			if !c.stubs.IsStubMethod(method) {
				continue
			}
			if _, found := idx.FindInBases(class, method.Name, concrete); found {
				c.report(NewViolation(RuleLSPDegenerateOverride, method.QualifiedName(), method.Location))
			}
		}
	}
}

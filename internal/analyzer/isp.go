package analyzer

import (
	"github.com/ludo-technologies/solidscan/internal/parser"
)

// ISPChecker reports interface classes whose direct implementers leave an
// interface method missing or stubbed
type ISPChecker struct {
	hierarchyChecker
	stubs *StubDetector
}

// NewISPChecker creates an ISP checker
func NewISPChecker(stubs *StubDetector, reporter Reporter, filter RuleFilter) *ISPChecker {
	c := &ISPChecker{stubs: stubs}
	c.hierarchyChecker = hierarchyChecker{
		baseChecker: baseChecker{reporter: reporter, filter: filter},
		check:       c.check,
	}
	return c
}

// Principle returns ISP
func (c *ISPChecker) Principle() Principle { return PrincipleISP }

// IsInterface reports whether class declares at least one method and every
// method with a body is a stub. Methods with an empty body do not
// disqualify a class.
func (c *ISPChecker) IsInterface(class *parser.ClassDef) bool {
	methods := class.Methods()
	for _, method := range methods {
		first := method.FirstStatement()
		if first == nil {
			continue
		}
		if !c.stubs.IsStub(method, first) {
			return false
		}
	}
	return len(methods) > 0
}

// IsFullyImplemented reports whether client declares every method of iface
// with a non-stub body
func (c *ISPChecker) IsFullyImplemented(client, iface *parser.ClassDef) bool {
	for _, required := range iface.Methods() {
		match, ok := client.Method(required.Name)
		if !ok {
			return false
		}
		first := match.FirstStatement()
		if first == nil || c.stubs.IsStub(match, first) {
			return false
		}
	}
	return true
}

func (c *ISPChecker) check(idx *ClassIndex) {
	interfaces := make(map[*parser.ClassDef]bool)
	for _, class := range idx.Classes() {
		if c.IsInterface(class) {
			interfaces[class] = true
		}
	}
	if len(interfaces) == 0 {
		return
	}

	for _, client := range idx.Classes() {
		for _, ref := range client.Bases {
			iface, ok := idx.Resolve(ref)
			if !ok || iface == client || !interfaces[iface] {
				continue
			}
			if !c.IsFullyImplemented(client, iface) {
				c.report(NewViolation(RuleISPIncompleteImplementation, iface.Name, iface.Location, iface.Name, client.Name))
			}
		}
	}
}

package analyzer

import (
	"context"

	"github.com/ludo-technologies/solidscan/internal/parser"
)

// Violation is one emitted diagnostic
type Violation struct {
	Rule      RuleID
	Principle Principle
	Severity  Severity
	Message   string
	Args      []any

	// Symbol names the anchor: Class or Class.method
	Symbol   string
	Location parser.Location

	// Complexity is set for srp-complexity-high
	Complexity *ComplexityResult
}

// NewViolation formats the rule's message with args
func NewViolation(rule RuleID, symbol string, loc parser.Location, args ...any) Violation {
	info, _ := LookupRule(rule)
	return Violation{
		Rule:      rule,
		Principle: info.Principle,
		Severity:  SeverityWarning,
		Message:   info.Format(args...),
		Args:      args,
		Symbol:    symbol,
		Location:  loc,
	}
}

// Reporter receives violations from checkers
type Reporter interface {
	Report(v Violation)
}

// ViolationCollector is a Reporter that keeps violations in emission order
type ViolationCollector struct {
	Violations []Violation
}

// Report appends v
func (c *ViolationCollector) Report(v Violation) {
	c.Violations = append(c.Violations, v)
}

// Checker receives structural events for one module in document order:
// VisitModule once, VisitClass and LeaveClass around every class body
// (nested classes included), then Close.
type Checker interface {
	Principle() Principle
	VisitModule(ctx context.Context, module *parser.Module)
	VisitClass(class *parser.ClassDef)
	LeaveClass(class *parser.ClassDef)
	Close()
}

// baseChecker provides no-op events and filtered reporting
type baseChecker struct {
	reporter Reporter
	filter   RuleFilter
}

func (c *baseChecker) VisitModule(context.Context, *parser.Module) {}
func (c *baseChecker) VisitClass(*parser.ClassDef)                 {}
func (c *baseChecker) LeaveClass(*parser.ClassDef)                 {}
func (c *baseChecker) Close()                                      {}

func (c *baseChecker) enabled(rule RuleID) bool {
	return c.filter.Enabled(rule)
}

func (c *baseChecker) report(v Violation) {
	if c.reporter != nil && c.filter.Enabled(v.Rule) {
		c.reporter.Report(v)
	}
}

// hierarchyChecker accumulates the module's classes while visiting and
// runs check against the frozen index at close
type hierarchyChecker struct {
	baseChecker
	builder *IndexBuilder
	check   func(idx *ClassIndex)
}

func (c *hierarchyChecker) VisitModule(context.Context, *parser.Module) {
	c.builder = NewIndexBuilder()
}

func (c *hierarchyChecker) VisitClass(class *parser.ClassDef) {
	if c.builder == nil {
		c.builder = NewIndexBuilder()
	}
	c.builder.Add(class)
}

func (c *hierarchyChecker) Close() {
	if c.builder == nil {
		return
	}
	c.check(c.builder.Build())
	c.builder = nil
}

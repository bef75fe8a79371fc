package analyzer

import (
	"fmt"
	"strings"
)

// Principle names a design principle family
type Principle string

const (
	PrincipleSRP Principle = "SRP"
	PrincipleLSP Principle = "LSP"
	PrincipleISP Principle = "ISP"
	PrincipleDIP Principle = "DIP"
)

// RuleID identifies one diagnostic kind
type RuleID string

const (
	RuleSRPCohesionLow              RuleID = "srp-cohesion-low"
	RuleSRPComplexityHigh           RuleID = "srp-complexity-high"
	RuleSRPTooManyPublicMethods     RuleID = "srp-too-many-public-methods"
	RuleSRPTooManyFields            RuleID = "srp-too-many-fields"
	RuleLSPDegenerateOverride       RuleID = "lsp-degenerate-override"
	RuleISPIncompleteImplementation RuleID = "isp-incomplete-implementation"
	RuleDIPConcreteOverrideReplaced RuleID = "dip-concrete-override-replaced"
)

// Severity of a diagnostic. Every rule here is advisory.
type Severity string

const SeverityWarning Severity = "warning"

// RuleInfo describes a rule and its message template
type RuleInfo struct {
	ID          RuleID
	Principle   Principle
	Template    string
	Description string
}

// Format renders the message template with args
func (r RuleInfo) Format(args ...any) string {
	if len(args) == 0 {
		return r.Template
	}
	return fmt.Sprintf(r.Template, args...)
}

var ruleInfos = []RuleInfo{
	{
		ID:          RuleSRPCohesionLow,
		Principle:   PrincipleSRP,
		Template:    "Class is potentially violating Single Responsibility Principle. Cohesion among methods in class is low.",
		Description: "Class cohesion defect score reported by the cohesion tool is greater than 1.",
	},
	{
		ID:          RuleSRPComplexityHigh,
		Principle:   PrincipleSRP,
		Template:    "Class method is potentially violating Single Responsibility Principle. Cyclomatic complexity (%d) is too high.",
		Description: "Function or method cyclomatic complexity exceeds max-complexity.",
	},
	{
		ID:          RuleSRPTooManyPublicMethods,
		Principle:   PrincipleSRP,
		Template:    "Class is potentially violating Single Responsibility Principle. It has too many (%d) public methods.",
		Description: "Class declares more public methods than max-public-methods.",
	},
	{
		ID:          RuleSRPTooManyFields,
		Principle:   PrincipleSRP,
		Template:    "Class is potentially violating Single Responsibility Principle. It has too many (%d) attributes.",
		Description: "Class assigns more instance attributes than max-fields.",
	},
	{
		ID:          RuleLSPDegenerateOverride,
		Principle:   PrincipleLSP,
		Template:    "Class is potentially violating Liskov Substitution Principle. Derived class method(s) degenerate base class methods.",
		Description: "Derived method stubs out a base method that has a concrete implementation.",
	},
	{
		ID:          RuleISPIncompleteImplementation,
		Principle:   PrincipleISP,
		Template:    `Interface is potentially violating Interface Segregation Principle. Interface "%s" is not fully implemented by client class "%s".`,
		Description: "Class derived from an interface leaves an interface method missing or stubbed.",
	},
	{
		ID:          RuleDIPConcreteOverrideReplaced,
		Principle:   PrincipleDIP,
		Template:    `Class is potentially violating Dependency Inversion Principle. Class "%s" overrides already implemented base class method "%s".`,
		Description: "Derived method replaces a concrete base method instead of delegating to it.",
	},
}

// Rules returns every known rule in a stable order
func Rules() []RuleInfo {
	rules := make([]RuleInfo, len(ruleInfos))
	copy(rules, ruleInfos)
	return rules
}

// LookupRule finds a rule by ID
func LookupRule(id RuleID) (RuleInfo, bool) {
	for _, info := range ruleInfos {
		if info.ID == id {
			return info, true
		}
	}
	return RuleInfo{}, false
}

// ParsePrinciple parses a principle name case-insensitively
func ParsePrinciple(s string) (Principle, bool) {
	switch Principle(strings.ToUpper(strings.TrimSpace(s))) {
	case PrincipleSRP:
		return PrincipleSRP, true
	case PrincipleLSP:
		return PrincipleLSP, true
	case PrincipleISP:
		return PrincipleISP, true
	case PrincipleDIP:
		return PrincipleDIP, true
	}
	return "", false
}

// RuleFilter decides which rules may report
type RuleFilter struct {
	disabled   map[RuleID]bool
	principles map[Principle]bool
}

// NewRuleFilter builds a filter from disabled rule IDs and an optional
// principle selection. An empty selection enables every principle.
func NewRuleFilter(disabled []string, selected []string) RuleFilter {
	f := RuleFilter{disabled: make(map[RuleID]bool)}
	for _, id := range disabled {
		f.disabled[RuleID(strings.TrimSpace(id))] = true
	}
	for _, s := range selected {
		if p, ok := ParsePrinciple(s); ok {
			if f.principles == nil {
				f.principles = make(map[Principle]bool)
			}
			f.principles[p] = true
		}
	}
	return f
}

// Enabled reports whether rule may report
func (f RuleFilter) Enabled(rule RuleID) bool {
	if f.disabled[rule] {
		return false
	}
	if f.principles == nil {
		return true
	}
	info, ok := LookupRule(rule)
	return ok && f.principles[info.Principle]
}

// PrincipleEnabled reports whether any rule of p may report
func (f RuleFilter) PrincipleEnabled(p Principle) bool {
	for _, info := range ruleInfos {
		if info.Principle == p && f.Enabled(info.ID) {
			return true
		}
	}
	return false
}

package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ludo-technologies/solidscan/internal/config"
)

func TestRules_MatchConfigRuleIDs(t *testing.T) {
	var ids []string
	for _, info := range Rules() {
		ids = append(ids, string(info.ID))
	}
	assert.Equal(t, config.KnownRuleIDs, ids)
}

func TestRuleInfo_Format(t *testing.T) {
	info, ok := LookupRule(RuleISPIncompleteImplementation)
	assert.True(t, ok)
	assert.Equal(t,
		`Interface is potentially violating Interface Segregation Principle. Interface "I" is not fully implemented by client class "C".`,
		info.Format("I", "C"))

	info, _ = LookupRule(RuleSRPTooManyFields)
	assert.Equal(t,
		"Class is potentially violating Single Responsibility Principle. It has too many (16) attributes.",
		info.Format(16))

	info, _ = LookupRule(RuleLSPDegenerateOverride)
	assert.Equal(t, info.Template, info.Format())
}

func TestLookupRule_Unknown(t *testing.T) {
	_, ok := LookupRule("ocp-anything")
	assert.False(t, ok)
}

func TestParsePrinciple(t *testing.T) {
	p, ok := ParsePrinciple(" lsp ")
	assert.True(t, ok)
	assert.Equal(t, PrincipleLSP, p)

	_, ok = ParsePrinciple("ocp")
	assert.False(t, ok)
}

func TestRuleFilter(t *testing.T) {
	all := NewRuleFilter(nil, nil)
	for _, info := range Rules() {
		assert.True(t, all.Enabled(info.ID), info.ID)
	}

	disabled := NewRuleFilter([]string{"srp-cohesion-low"}, nil)
	assert.False(t, disabled.Enabled(RuleSRPCohesionLow))
	assert.True(t, disabled.Enabled(RuleSRPComplexityHigh))
	assert.True(t, disabled.PrincipleEnabled(PrincipleSRP))

	selected := NewRuleFilter(nil, []string{"isp", "DIP"})
	assert.False(t, selected.Enabled(RuleSRPTooManyFields))
	assert.False(t, selected.PrincipleEnabled(PrincipleLSP))
	assert.True(t, selected.Enabled(RuleISPIncompleteImplementation))
	assert.True(t, selected.Enabled(RuleDIPConcreteOverrideReplaced))

	onlyRuleOff := NewRuleFilter([]string{"lsp-degenerate-override"}, []string{"lsp"})
	assert.False(t, onlyRuleOff.PrincipleEnabled(PrincipleLSP))
}

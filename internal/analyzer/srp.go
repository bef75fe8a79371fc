package analyzer

import (
	"context"
	"io"
	"log/slog"

	"github.com/ludo-technologies/solidscan/internal/config"
	"github.com/ludo-technologies/solidscan/internal/parser"
)

// SRPChecker reports classes and functions that carry too much
// responsibility: low cohesion, high complexity, too many public methods
// or too many instance attributes
type SRPChecker struct {
	baseChecker
	cfg        config.SRPConfig
	prefix     string
	provider   ScoreProvider
	complexity *ComplexityAnalyzer
	logger     *slog.Logger

	// scores is nil when the module has no cohesion data
	scores CohesionScores
}

// NewSRPChecker creates an SRP checker. A nil provider disables cohesion checks.
func NewSRPChecker(cfg config.SRPConfig, privatePrefix string, provider ScoreProvider, reporter Reporter, filter RuleFilter) *SRPChecker {
	return &SRPChecker{
		baseChecker: baseChecker{reporter: reporter, filter: filter},
		cfg:         cfg,
		prefix:      privatePrefix,
		provider:    provider,
		complexity:  NewComplexityAnalyzer(),
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// SetLogger sets an optional logger
func (c *SRPChecker) SetLogger(logger *slog.Logger) {
	if logger != nil {
		c.logger = logger
		c.complexity.SetLogger(logger)
	}
}

// Principle returns SRP
func (c *SRPChecker) Principle() Principle { return PrincipleSRP }

// VisitModule reports complex functions and loads the module's cohesion
// scores. Cohesion failures only disable the cohesion check.
func (c *SRPChecker) VisitModule(ctx context.Context, module *parser.Module) {
	c.scores = nil

	if c.enabled(RuleSRPComplexityHigh) {
		c.checkComplexity(module)
	}

	if c.provider == nil || !c.enabled(RuleSRPCohesionLow) {
		return
	}
	scores, err := c.provider.Scores(ctx, module.Path)
	if err != nil {
		c.logger.Warn("cohesion scores unavailable, skipping cohesion check",
			"module", module.Path, "error", err)
		return
	}
	c.scores = scores
}

func (c *SRPChecker) checkComplexity(module *parser.Module) {
	results, err := c.complexity.AnalyzeModule(module)
	if err != nil {
		c.logger.Warn("complexity analysis failed", "module", module.Path, "error", err)
		return
	}
	for _, result := range results {
		if result.IsModuleLevel() || !c.cfg.ExceedsMaxComplexity(result.Complexity) {
			continue
		}
		v := NewViolation(RuleSRPComplexityHigh, result.FunctionName, result.Function.Location, result.Complexity)
		v.Complexity = result
		c.report(v)
	}
}

// VisitClass checks attribute count and cohesion
func (c *SRPChecker) VisitClass(class *parser.ClassDef) {
	if n := len(class.Fields); n > c.cfg.MaxFields {
		c.report(NewViolation(RuleSRPTooManyFields, class.Name, class.Location, n))
	}

	if score, ok := c.scores.Score(class.Name); ok && score > 1 {
		c.report(NewViolation(RuleSRPCohesionLow, class.Name, class.Location))
	}
}

// LeaveClass checks the public method count
func (c *SRPChecker) LeaveClass(class *parser.ClassDef) {
	public := 0
	for _, method := range class.Methods() {
		if method.IsPublic(c.prefix) {
			public++
		}
	}
	if public > c.cfg.MaxPublicMethods {
		c.report(NewViolation(RuleSRPTooManyPublicMethods, class.Name, class.Location, public))
	}
}

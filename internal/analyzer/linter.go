package analyzer

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/ludo-technologies/solidscan/internal/config"
	"github.com/ludo-technologies/solidscan/internal/parser"
)

// Linter runs the SRP, LSP, ISP and DIP checkers over one module at a time.
// Every call to Check builds fresh checkers, so no class index or cohesion
// data leaks between modules.
type Linter struct {
	cfg      *config.Config
	provider ScoreProvider
	filter   RuleFilter
	stubs    *StubDetector
	logger   *slog.Logger
}

// NewLinter creates a linter. A nil cfg uses the defaults and a nil
// provider disables cohesion checks.
func NewLinter(cfg *config.Config, provider ScoreProvider) *Linter {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	return &Linter{
		cfg:      cfg,
		provider: provider,
		filter:   NewRuleFilter(cfg.Rules.Disabled, cfg.Rules.Select),
		stubs:    NewStubDetector(cfg.Stub.AbstractMarkers),
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// SetLogger sets an optional logger
func (l *Linter) SetLogger(logger *slog.Logger) {
	if logger != nil {
		l.logger = logger
	}
}

// Filter returns the active rule filter
func (l *Linter) Filter() RuleFilter {
	return l.filter
}

// newCheckers creates the per-module checker set
func (l *Linter) newCheckers(reporter Reporter) []Checker {
	srp := NewSRPChecker(l.cfg.SRP, l.cfg.Stub.PrivatePrefix, l.provider, reporter, l.filter)
	srp.SetLogger(l.logger)

	all := []Checker{
		srp,
		NewLSPChecker(l.stubs, reporter, l.filter),
		NewISPChecker(l.stubs, reporter, l.filter),
		NewDIPChecker(l.stubs, reporter, l.filter),
	}

	checkers := all[:0]
	for _, c := range all {
		if l.filter.PrincipleEnabled(c.Principle()) {
			checkers = append(checkers, c)
		}
	}
	return checkers
}

// Check analyzes a module and returns its violations in emission order:
// complexity at module enter, class events in document order, then the
// hierarchy rules at close.
func (l *Linter) Check(ctx context.Context, module *parser.Module) ([]Violation, error) {
	if module == nil {
		return nil, fmt.Errorf("module is nil")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	collector := &ViolationCollector{}
	checkers := l.newCheckers(collector)

	l.logger.Debug("checking module", "module", module.Path, "checkers", len(checkers))

	for _, c := range checkers {
		c.VisitModule(ctx, module)
	}
	walkClasses(module.Body, checkers)
	for _, c := range checkers {
		c.Close()
	}

	return collector.Violations, nil
}

// walkClasses emits class enter and leave events in document order,
// descending into every block so nested classes are visited too
func walkClasses(stmts []parser.Statement, checkers []Checker) {
	for _, stmt := range stmts {
		class, isClass := stmt.(*parser.ClassDef)
		if isClass {
			for _, c := range checkers {
				c.VisitClass(class)
			}
		}
		for _, block := range parser.Children(stmt) {
			walkClasses(block, checkers)
		}
		if isClass {
			for _, c := range checkers {
				c.LeaveClass(class)
			}
		}
	}
}

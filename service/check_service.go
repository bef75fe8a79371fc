package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"time"

	"github.com/ludo-technologies/solidscan/domain"
	"github.com/ludo-technologies/solidscan/internal/analyzer"
	"github.com/ludo-technologies/solidscan/internal/config"
	"github.com/ludo-technologies/solidscan/internal/parser"
	"github.com/ludo-technologies/solidscan/internal/version"
)

// CheckServiceImpl implements the CheckService interface
type CheckServiceImpl struct {
	config   *config.Config
	provider analyzer.ScoreProvider
	progress domain.ProgressManager
	logger   *slog.Logger
}

// NewCheckService creates a check service. A nil provider disables the
// cohesion rule.
func NewCheckService(cfg *config.Config, provider analyzer.ScoreProvider) *CheckServiceImpl {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	return &CheckServiceImpl{
		config:   cfg,
		provider: provider,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// NewCheckServiceWithProgress creates a check service with progress reporting
func NewCheckServiceWithProgress(cfg *config.Config, provider analyzer.ScoreProvider, pm domain.ProgressManager) *CheckServiceImpl {
	s := NewCheckService(cfg, provider)
	s.progress = pm
	return s
}

// SetLogger sets an optional logger
func (s *CheckServiceImpl) SetLogger(logger *slog.Logger) {
	if logger != nil {
		s.logger = logger
	}
}

// Check analyzes every file in req.Paths in parallel. A file that cannot be
// read or parsed is recorded in the response's Errors; the remaining files
// are still analyzed.
func (s *CheckServiceImpl) Check(ctx context.Context, req domain.CheckRequest) (*domain.CheckResponse, error) {
	if len(req.Paths) == 0 {
		return nil, domain.NewInvalidInputError("no files to check", nil)
	}
	start := time.Now()

	linter := analyzer.NewLinter(s.config, s.provider)
	linter.SetLogger(s.logger)

	tasks := make([]*fileTask, len(req.Paths))
	executable := make([]domain.ExecutableTask, len(req.Paths))
	for i, path := range req.Paths {
		tasks[i] = &fileTask{path: path, linter: linter}
		executable[i] = tasks[i]
	}

	executor := NewParallelExecutorWithProgress(&s.config.Performance, s.progress)
	executor.SetDescription("Checking files")

	var failures map[string]error
	if err := executor.Execute(ctx, executable); err != nil {
		var aggErr *AggregatedError
		if !errors.As(err, &aggErr) {
			return nil, domain.NewAnalysisError("check failed", err)
		}
		failures = aggErr.ByTask()
	}
	if err := ctx.Err(); err != nil {
		return nil, domain.NewAnalysisError("check cancelled", err)
	}

	response := &domain.CheckResponse{
		Diagnostics: []domain.Diagnostic{},
	}
	filesAnalyzed, filesFailed, classes := 0, 0, 0
	for _, task := range tasks {
		if err, failed := failures[task.path]; failed {
			s.logger.Warn("file analysis failed", "file", task.path, "error", err)
			response.Errors = append(response.Errors, fmt.Sprintf("[%s] %v", task.path, err))
			filesFailed++
			continue
		}
		response.Diagnostics = append(response.Diagnostics, task.diagnostics...)
		response.Warnings = append(response.Warnings, task.warnings...)
		classes += task.classes
		filesAnalyzed++
	}

	sortDiagnostics(response.Diagnostics, req.SortBy)

	response.Summary = domain.NewCheckSummary(response.Diagnostics)
	response.Summary.FilesAnalyzed = filesAnalyzed
	response.Summary.FilesFailed = filesFailed
	response.Summary.ClassesAnalyzed = classes
	response.GeneratedAt = time.Now().Format(time.RFC3339)
	response.DurationMs = time.Since(start).Milliseconds()
	response.Version = version.Version
	response.Config = s.buildConfigForResponse()

	return response, nil
}

// CheckFile analyzes a single Python file
func (s *CheckServiceImpl) CheckFile(ctx context.Context, filePath string, req domain.CheckRequest) (*domain.CheckResponse, error) {
	singleFileReq := req
	singleFileReq.Paths = []string{filePath}
	return s.Check(ctx, singleFileReq)
}

// buildConfigForResponse reports the thresholds the run used
func (s *CheckServiceImpl) buildConfigForResponse() map[string]any {
	return map[string]any{
		"max_complexity":     s.config.SRP.MaxComplexity,
		"max_public_methods": s.config.SRP.MaxPublicMethods,
		"max_fields":         s.config.SRP.MaxFields,
		"cohesion_enabled":   s.provider != nil && s.config.Cohesion.Enabled,
		"disabled_rules":     s.config.Rules.Disabled,
		"selected":           s.config.Rules.Select,
	}
}

// fileTask parses and checks one file. It is executed at most once.
type fileTask struct {
	path   string
	linter *analyzer.Linter

	diagnostics []domain.Diagnostic
	warnings    []string
	classes     int
}

func (t *fileTask) Name() string    { return t.path }
func (t *fileTask) IsEnabled() bool { return true }

func (t *fileTask) Execute(ctx context.Context) (any, error) {
	content, err := os.ReadFile(t.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	module, err := parser.ParseSource(ctx, t.path, content)
	if err != nil {
		return nil, domain.NewParseError(t.path, err)
	}
	if module.HasErrors {
		t.warnings = append(t.warnings, fmt.Sprintf("[%s] syntax errors found, analyzing the recoverable parts", t.path))
	}

	violations, err := t.linter.Check(ctx, module)
	if err != nil {
		return nil, err
	}

	t.classes = len(module.Classes())
	t.diagnostics = make([]domain.Diagnostic, 0, len(violations))
	for _, v := range violations {
		t.diagnostics = append(t.diagnostics, ToDiagnostic(t.path, v))
	}
	return t.diagnostics, nil
}

// ToDiagnostic converts an engine violation into the reported form
func ToDiagnostic(file string, v analyzer.Violation) domain.Diagnostic {
	d := domain.Diagnostic{
		Rule:      domain.RuleID(v.Rule),
		Principle: domain.Principle(v.Principle),
		Severity:  domain.Severity(v.Severity),
		Message:   v.Message,
		Args:      v.Args,
		File:      file,
		Line:      v.Location.StartLine,
		Column:    v.Location.StartCol,
		Symbol:    v.Symbol,
	}
	if c := v.Complexity; c != nil {
		d.Complexity = &domain.ComplexityDetails{
			Complexity:        c.Complexity,
			Nodes:             c.Nodes,
			Edges:             c.Edges,
			NestingDepth:      c.NestingDepth,
			IfStatements:      c.IfStatements,
			LoopStatements:    c.LoopStatements,
			ExceptionHandlers: c.ExceptionHandlers,
			MatchCases:        c.MatchCases,
		}
	}
	return d
}

var principleOrder = map[domain.Principle]int{
	domain.PrincipleSRP: 0,
	domain.PrincipleLSP: 1,
	domain.PrincipleISP: 2,
	domain.PrincipleDIP: 3,
}

// sortDiagnostics orders diagnostics stably. Location order keeps the
// engine's per-file emission order for diagnostics on the same line.
func sortDiagnostics(diagnostics []domain.Diagnostic, sortBy domain.SortCriteria) {
	byLocation := func(a, b domain.Diagnostic) bool {
		if a.File != b.File {
			return a.File < b.File
		}
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		return a.Column < b.Column
	}

	switch sortBy {
	case domain.SortByRule:
		sort.SliceStable(diagnostics, func(i, j int) bool {
			if diagnostics[i].Rule != diagnostics[j].Rule {
				return diagnostics[i].Rule < diagnostics[j].Rule
			}
			return byLocation(diagnostics[i], diagnostics[j])
		})
	case domain.SortByPrinciple:
		sort.SliceStable(diagnostics, func(i, j int) bool {
			pi, pj := principleOrder[diagnostics[i].Principle], principleOrder[diagnostics[j].Principle]
			if pi != pj {
				return pi < pj
			}
			return byLocation(diagnostics[i], diagnostics[j])
		})
	case domain.SortByLocation:
		sort.SliceStable(diagnostics, func(i, j int) bool {
			return byLocation(diagnostics[i], diagnostics[j])
		})
	default:
		// Emission order
	}
}

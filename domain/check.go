package domain

import "io"

// Principle is one of the four design principles the engine checks
type Principle string

const (
	PrincipleSRP Principle = "SRP"
	PrincipleLSP Principle = "LSP"
	PrincipleISP Principle = "ISP"
	PrincipleDIP Principle = "DIP"
)

// Principles lists every principle in report order
var Principles = []Principle{PrincipleSRP, PrincipleLSP, PrincipleISP, PrincipleDIP}

// RuleID is the stable symbolic name of a rule, e.g. "srp-too-many-fields"
type RuleID string

// Severity is the diagnostic level
type Severity string

const (
	SeverityWarning Severity = "warning"
)

// OutputFormat represents the supported output formats
type OutputFormat string

const (
	OutputFormatText OutputFormat = "text"
	OutputFormatJSON OutputFormat = "json"
	OutputFormatYAML OutputFormat = "yaml"
	OutputFormatCSV  OutputFormat = "csv"
)

// ParseOutputFormat validates a format name
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch f := OutputFormat(s); f {
	case OutputFormatText, OutputFormatJSON, OutputFormatYAML, OutputFormatCSV:
		return f, nil
	}
	return "", NewUnsupportedFormatError(s)
}

// SortCriteria orders diagnostics in the response
type SortCriteria string

const (
	SortByLocation  SortCriteria = "location"
	SortByRule      SortCriteria = "rule"
	SortByPrinciple SortCriteria = "principle"
)

// CheckRequest represents a request to check a set of paths
type CheckRequest struct {
	// Input files or directories to analyze
	Paths []string

	// Output configuration
	OutputFormat OutputFormat
	OutputWriter io.Writer
	ShowDetails  bool
	SortBy       SortCriteria

	// Configuration
	ConfigPath string

	// File selection
	Recursive        bool
	IncludePatterns  []string
	ExcludePatterns  []string
	RespectGitignore bool

	// FailOnViolation turns any diagnostic into a failing exit status
	FailOnViolation bool
}

// ComplexityDetails describes the control-flow graph behind a complexity diagnostic
type ComplexityDetails struct {
	Complexity        int `json:"complexity" yaml:"complexity"`
	Nodes             int `json:"nodes" yaml:"nodes"`
	Edges             int `json:"edges" yaml:"edges"`
	NestingDepth      int `json:"nesting_depth" yaml:"nesting_depth"`
	IfStatements      int `json:"if_statements" yaml:"if_statements"`
	LoopStatements    int `json:"loop_statements" yaml:"loop_statements"`
	ExceptionHandlers int `json:"exception_handlers" yaml:"exception_handlers"`
	MatchCases        int `json:"match_cases" yaml:"match_cases"`
}

// Diagnostic is a single rule violation
type Diagnostic struct {
	Rule      RuleID    `json:"rule" yaml:"rule"`
	Principle Principle `json:"principle" yaml:"principle"`
	Severity  Severity  `json:"severity" yaml:"severity"`
	Message   string    `json:"message" yaml:"message"`
	Args      []any     `json:"args,omitempty" yaml:"args,omitempty"`

	// Location of the anchor node
	File   string `json:"file" yaml:"file"`
	Line   int    `json:"line" yaml:"line"`
	Column int    `json:"column" yaml:"column"`
	Symbol string `json:"symbol" yaml:"symbol"`

	Complexity *ComplexityDetails `json:"complexity,omitempty" yaml:"complexity,omitempty"`
}

// CheckSummary provides aggregate statistics
type CheckSummary struct {
	FilesAnalyzed    int               `json:"files_analyzed" yaml:"files_analyzed"`
	FilesFailed      int               `json:"files_failed" yaml:"files_failed"`
	ClassesAnalyzed  int               `json:"classes_analyzed" yaml:"classes_analyzed"`
	TotalDiagnostics int               `json:"total_diagnostics" yaml:"total_diagnostics"`
	ByPrinciple      map[Principle]int `json:"by_principle" yaml:"by_principle"`
	ByRule           map[RuleID]int    `json:"by_rule" yaml:"by_rule"`
}

// NewCheckSummary tallies diagnostics by principle and rule
func NewCheckSummary(diagnostics []Diagnostic) CheckSummary {
	summary := CheckSummary{
		TotalDiagnostics: len(diagnostics),
		ByPrinciple:      make(map[Principle]int, len(Principles)),
		ByRule:           make(map[RuleID]int),
	}
	for _, p := range Principles {
		summary.ByPrinciple[p] = 0
	}
	for _, d := range diagnostics {
		summary.ByPrinciple[d.Principle]++
		summary.ByRule[d.Rule]++
	}
	return summary
}

// CheckResponse represents the complete check result
type CheckResponse struct {
	Diagnostics []Diagnostic `json:"diagnostics" yaml:"diagnostics"`
	Summary     CheckSummary `json:"summary" yaml:"summary"`

	// Warnings and per-file failures; neither aborts the run
	Warnings []string `json:"warnings,omitempty" yaml:"warnings,omitempty"`
	Errors   []string `json:"errors,omitempty" yaml:"errors,omitempty"`

	// Metadata
	GeneratedAt string `json:"generated_at" yaml:"generated_at"`
	DurationMs  int64  `json:"duration_ms" yaml:"duration_ms"`
	Version     string `json:"version" yaml:"version"`
	Config      any    `json:"config,omitempty" yaml:"config,omitempty"`
}

// HasDiagnostics reports whether any rule fired
func (r *CheckResponse) HasDiagnostics() bool {
	return r != nil && len(r.Diagnostics) > 0
}

// HasErrors reports whether any file failed to analyze
func (r *CheckResponse) HasErrors() bool {
	return r != nil && len(r.Errors) > 0
}

package analyzer

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/ludo-technologies/solidscan/internal/parser"
)

// ComplexityResult holds cyclomatic complexity metrics for a function or method
type ComplexityResult struct {
	Complexity        int
	Edges             int
	Nodes             int
	FunctionName      string
	StartLine         int
	StartCol          int
	EndLine           int
	NestingDepth      int
	IfStatements      int
	LoopStatements    int
	ExceptionHandlers int
	MatchCases        int

	// Function is nil for top-level script code
	Function *parser.FunctionDef
}

// IsModuleLevel reports whether the result describes top-level script code.
// Such results are never reported as violations.
func (cr *ComplexityResult) IsModuleLevel() bool {
	return cr.Function == nil
}

// GetDetailedMetrics returns the structural counts behind the score
func (cr *ComplexityResult) GetDetailedMetrics() map[string]int {
	return map[string]int{
		"nodes":              cr.Nodes,
		"edges":              cr.Edges,
		"if_statements":      cr.IfStatements,
		"loop_statements":    cr.LoopStatements,
		"exception_handlers": cr.ExceptionHandlers,
		"match_cases":        cr.MatchCases,
		"nesting_depth":      cr.NestingDepth,
	}
}

func (cr *ComplexityResult) String() string {
	return fmt.Sprintf("Function: %s, Complexity: %d", cr.FunctionName, cr.Complexity)
}

// CalculateComplexity computes McCabe cyclomatic complexity as
// edges - nodes + 2 over the blocks reachable from entry, with a floor of 1.
func CalculateComplexity(cfg *CFG) *ComplexityResult {
	if cfg == nil {
		return &ComplexityResult{Complexity: 1}
	}

	reachable := cfg.Reachable()
	nodes := len(reachable)
	edges := 0
	for block := range reachable {
		edges += len(block.Successors)
	}

	complexity := edges - nodes + 2
	if complexity < 1 {
		complexity = 1
	}

	result := &ComplexityResult{
		Complexity:   complexity,
		Edges:        edges,
		Nodes:        nodes,
		FunctionName: cfg.Name,
		Function:     cfg.Function,
	}

	if fn := cfg.Function; fn != nil {
		result.StartLine = fn.Location.StartLine
		result.StartCol = fn.Location.StartCol
		result.EndLine = fn.Location.EndLine
		result.NestingDepth = CalculateNestingDepth(fn.Body)
		countDecisionPoints(fn.Body, result)
	}

	return result
}

// countDecisionPoints tallies branching statements of one unit, closures
// included
func countDecisionPoints(body []parser.Statement, result *ComplexityResult) {
	parser.Walk(body, func(s parser.Statement) bool {
		switch v := s.(type) {
		case *parser.IfStmt:
			result.IfStatements++
		case *parser.LoopStmt:
			result.LoopStatements++
		case *parser.TryStmt:
			result.ExceptionHandlers += len(v.Handlers)
		case *parser.MatchStmt:
			result.MatchCases += len(v.Cases)
		}
		return true
	})
}

// CalculateNestingDepth calculates the maximum nesting depth of a body.
// elif chains count as one level.
func CalculateNestingDepth(body []parser.Statement) int {
	maxDepth := 0
	var visit func(stmts []parser.Statement, depth int)
	visit = func(stmts []parser.Statement, depth int) {
		for _, stmt := range stmts {
			if !isControlStructure(stmt) {
				continue
			}
			next := depth + 1
			if next > maxDepth {
				maxDepth = next
			}
			if ifs, ok := stmt.(*parser.IfStmt); ok {
				visit(ifs.Body, next)
				if len(ifs.Else) == 1 {
					if elif, ok := ifs.Else[0].(*parser.IfStmt); ok {
						visit([]parser.Statement{elif}, depth)
						continue
					}
				}
				visit(ifs.Else, next)
				continue
			}
			for _, block := range parser.Children(stmt) {
				visit(block, next)
			}
		}
	}
	visit(body, 0)
	return maxDepth
}

func isControlStructure(stmt parser.Statement) bool {
	switch stmt.(type) {
	case *parser.IfStmt, *parser.LoopStmt, *parser.TryStmt, *parser.WithStmt, *parser.MatchStmt:
		return true
	}
	return false
}

// ComplexityAnalyzer computes complexity for every function-like unit of a module
type ComplexityAnalyzer struct {
	logger *slog.Logger
}

// NewComplexityAnalyzer creates a complexity analyzer
func NewComplexityAnalyzer() *ComplexityAnalyzer {
	return &ComplexityAnalyzer{logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

// SetLogger sets an optional logger
func (ca *ComplexityAnalyzer) SetLogger(logger *slog.Logger) {
	if logger != nil {
		ca.logger = logger
	}
}

// AnalyzeModule returns one result per graph in document order. The first
// result is always the module-level script graph.
func (ca *ComplexityAnalyzer) AnalyzeModule(module *parser.Module) ([]*ComplexityResult, error) {
	if module == nil {
		return nil, fmt.Errorf("module is nil")
	}

	builder := NewCFGBuilder()
	builder.SetLogger(ca.logger)
	cfgs, err := builder.BuildAll(module)
	if err != nil {
		return nil, fmt.Errorf("failed to build CFGs: %w", err)
	}

	results := make([]*ComplexityResult, 0, len(cfgs))
	for _, cfg := range cfgs {
		results = append(results, CalculateComplexity(cfg))
	}
	return results, nil
}

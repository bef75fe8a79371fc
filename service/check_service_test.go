package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ludo-technologies/solidscan/domain"
	"github.com/ludo-technologies/solidscan/internal/analyzer"
	"github.com/ludo-technologies/solidscan/internal/config"
)

const lspSource = `class Base:
    def area(self):
        return 1


class Square(Base):
    def area(self):
        pass
`

const dipSource = `class Base:
    def run(self):
        return 1


class Job(Base):
    def run(self):
        return 2
`

func writePython(t *testing.T, dir, name, source string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(source), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

func complexSource(ifs int) string {
	var sb strings.Builder
	sb.WriteString("def busy(x):\n")
	for i := 0; i < ifs; i++ {
		sb.WriteString("    if x == 0:\n        x += 1\n")
	}
	sb.WriteString("    return x\n")
	return sb.String()
}

func TestCheckService_MultipleFiles(t *testing.T) {
	dir := t.TempDir()
	lsp := writePython(t, dir, "a_shapes.py", lspSource)
	dip := writePython(t, dir, "b_jobs.py", dipSource)

	svc := NewCheckService(config.DefaultConfig(), analyzer.NoopScoreProvider{})
	resp, err := svc.Check(context.Background(), domain.CheckRequest{
		Paths:  []string{dip, lsp},
		SortBy: domain.SortByLocation,
	})
	if err != nil {
		t.Fatalf("Check failed: %v", err)
	}

	if resp.Summary.FilesAnalyzed != 2 || resp.Summary.FilesFailed != 0 {
		t.Errorf("unexpected file counts: %+v", resp.Summary)
	}
	if resp.Summary.ClassesAnalyzed != 4 {
		t.Errorf("expected 4 classes, got %d", resp.Summary.ClassesAnalyzed)
	}
	if len(resp.Diagnostics) != 2 {
		t.Fatalf("expected 2 diagnostics, got %d: %+v", len(resp.Diagnostics), resp.Diagnostics)
	}

	first, second := resp.Diagnostics[0], resp.Diagnostics[1]
	if first.File != lsp || first.Rule != "lsp-degenerate-override" {
		t.Errorf("expected LSP diagnostic first, got %+v", first)
	}
	if first.Line != 7 || first.Symbol != "Square.area" {
		t.Errorf("unexpected LSP anchor: line %d symbol %s", first.Line, first.Symbol)
	}
	if second.File != dip || second.Rule != "dip-concrete-override-replaced" {
		t.Errorf("expected DIP diagnostic second, got %+v", second)
	}
	if second.Principle != domain.PrincipleDIP || second.Severity != domain.SeverityWarning {
		t.Errorf("unexpected principle/severity: %s/%s", second.Principle, second.Severity)
	}

	if resp.Summary.ByPrinciple[domain.PrincipleLSP] != 1 || resp.Summary.ByPrinciple[domain.PrincipleDIP] != 1 {
		t.Errorf("unexpected per-principle counts: %v", resp.Summary.ByPrinciple)
	}
	if resp.Version == "" || resp.GeneratedAt == "" {
		t.Error("metadata should be set")
	}
}

func TestCheckService_FailedFileDoesNotAbortOthers(t *testing.T) {
	dir := t.TempDir()
	good := writePython(t, dir, "good.py", lspSource)
	missing := filepath.Join(dir, "missing.py")

	svc := NewCheckService(nil, nil)
	resp, err := svc.Check(context.Background(), domain.CheckRequest{Paths: []string{missing, good}})
	if err != nil {
		t.Fatalf("Check failed: %v", err)
	}

	if resp.Summary.FilesAnalyzed != 1 || resp.Summary.FilesFailed != 1 {
		t.Errorf("unexpected file counts: %+v", resp.Summary)
	}
	if len(resp.Errors) != 1 || !strings.Contains(resp.Errors[0], "missing.py") {
		t.Errorf("expected one error for missing.py, got %v", resp.Errors)
	}
	if len(resp.Diagnostics) != 1 {
		t.Errorf("expected diagnostics from good.py, got %d", len(resp.Diagnostics))
	}
}

func TestCheckService_SyntaxErrorsAreWarnings(t *testing.T) {
	dir := t.TempDir()
	path := writePython(t, dir, "broken.py", lspSource+"\ndef oops(:\n    pass\n")

	resp, err := NewCheckService(nil, nil).Check(context.Background(), domain.CheckRequest{Paths: []string{path}})
	if err != nil {
		t.Fatalf("Check failed: %v", err)
	}
	if resp.Summary.FilesAnalyzed != 1 {
		t.Errorf("file with syntax errors should still be analyzed")
	}
	if len(resp.Warnings) != 1 {
		t.Errorf("expected a syntax warning, got %v", resp.Warnings)
	}
}

func TestCheckService_ComplexityDetails(t *testing.T) {
	dir := t.TempDir()
	path := writePython(t, dir, "busy.py", complexSource(11))

	resp, err := NewCheckService(nil, nil).Check(context.Background(), domain.CheckRequest{Paths: []string{path}})
	if err != nil {
		t.Fatalf("Check failed: %v", err)
	}
	if len(resp.Diagnostics) != 1 {
		t.Fatalf("expected 1 diagnostic, got %d", len(resp.Diagnostics))
	}

	d := resp.Diagnostics[0]
	if d.Rule != "srp-complexity-high" || d.Symbol != "busy" {
		t.Errorf("unexpected diagnostic: %+v", d)
	}
	if d.Complexity == nil || d.Complexity.Complexity != 12 || d.Complexity.IfStatements != 11 {
		t.Errorf("unexpected complexity details: %+v", d.Complexity)
	}
	if d.Complexity.Edges-d.Complexity.Nodes+2 != d.Complexity.Complexity {
		t.Errorf("complexity should equal E - N + 2: %+v", d.Complexity)
	}
}

func TestCheckService_CohesionScoresByPath(t *testing.T) {
	dir := t.TempDir()
	source := "class Scattered:\n    def a(self):\n        return 1\n\nclass Tight:\n    def b(self):\n        return 2\n"
	path := writePython(t, dir, "cohesion.py", source)
	other := writePython(t, dir, "other.py", source)

	provider := analyzer.StaticScoreProvider{ByPath: map[string]analyzer.CohesionScores{
		path: {"Scattered": 3, "Tight": 1},
	}}

	resp, err := NewCheckService(nil, provider).Check(context.Background(), domain.CheckRequest{Paths: []string{path, other}})
	if err != nil {
		t.Fatalf("Check failed: %v", err)
	}
	if len(resp.Diagnostics) != 1 {
		t.Fatalf("expected 1 cohesion diagnostic, got %+v", resp.Diagnostics)
	}
	if resp.Diagnostics[0].Symbol != "Scattered" || resp.Diagnostics[0].File != path {
		t.Errorf("unexpected cohesion diagnostic: %+v", resp.Diagnostics[0])
	}
}

func TestCheckService_CohesionFailureIsNotFileFailure(t *testing.T) {
	dir := t.TempDir()
	path := writePython(t, dir, "shapes.py", lspSource)

	provider := analyzer.StaticScoreProvider{Err: errors.New("lcom: not found")}
	resp, err := NewCheckService(nil, provider).Check(context.Background(), domain.CheckRequest{Paths: []string{path}})
	if err != nil {
		t.Fatalf("Check failed: %v", err)
	}
	if resp.Summary.FilesFailed != 0 || len(resp.Diagnostics) != 1 {
		t.Errorf("cohesion errors should be ignored: %+v", resp.Summary)
	}
}

func TestCheckService_SortByRule(t *testing.T) {
	dir := t.TempDir()
	path := writePython(t, dir, "mixed.py", dipSource+"\n\n"+strings.ReplaceAll(lspSource, "Base", "Shape"))

	resp, err := NewCheckService(nil, nil).Check(context.Background(), domain.CheckRequest{
		Paths:  []string{path},
		SortBy: domain.SortByRule,
	})
	if err != nil {
		t.Fatalf("Check failed: %v", err)
	}
	if len(resp.Diagnostics) != 2 {
		t.Fatalf("expected 2 diagnostics, got %d", len(resp.Diagnostics))
	}
	if resp.Diagnostics[0].Rule != "dip-concrete-override-replaced" || resp.Diagnostics[1].Rule != "lsp-degenerate-override" {
		t.Errorf("unexpected order: %s, %s", resp.Diagnostics[0].Rule, resp.Diagnostics[1].Rule)
	}
}

func TestCheckService_DisabledRule(t *testing.T) {
	dir := t.TempDir()
	path := writePython(t, dir, "shapes.py", lspSource)

	cfg := config.DefaultConfig()
	cfg.Rules.Disabled = []string{"lsp-degenerate-override"}

	resp, err := NewCheckService(cfg, nil).Check(context.Background(), domain.CheckRequest{Paths: []string{path}})
	if err != nil {
		t.Fatalf("Check failed: %v", err)
	}
	if len(resp.Diagnostics) != 0 {
		t.Errorf("disabled rule should not report, got %+v", resp.Diagnostics)
	}
}

func TestCheckService_InvalidRequest(t *testing.T) {
	_, err := NewCheckService(nil, nil).Check(context.Background(), domain.CheckRequest{})

	var domainErr domain.DomainError
	if !errors.As(err, &domainErr) || domainErr.Code != domain.ErrCodeInvalidInput {
		t.Errorf("expected invalid input error, got %v", err)
	}
}

func TestCheckService_Cancelled(t *testing.T) {
	dir := t.TempDir()
	path := writePython(t, dir, "shapes.py", lspSource)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := NewCheckService(nil, nil).Check(ctx, domain.CheckRequest{Paths: []string{path}}); err == nil {
		t.Error("expected error for cancelled context")
	}
}

func TestCheckService_CheckFile(t *testing.T) {
	dir := t.TempDir()
	path := writePython(t, dir, "shapes.py", lspSource)
	ignored := writePython(t, dir, "jobs.py", dipSource)

	resp, err := NewCheckService(nil, nil).CheckFile(context.Background(), path, domain.CheckRequest{Paths: []string{ignored}})
	if err != nil {
		t.Fatalf("CheckFile failed: %v", err)
	}
	if resp.Summary.FilesAnalyzed != 1 || resp.Diagnostics[0].File != path {
		t.Errorf("CheckFile should analyze only its file: %+v", resp.Summary)
	}
}

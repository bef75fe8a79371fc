package analyzer

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// Cohesion tool defaults
const (
	DefaultCohesionCommand = "lcom"
	DefaultCohesionTimeout = 30 * time.Second

	// cohesionWaitDelay bounds the wait for output pipes after the tool is killed
	cohesionWaitDelay = time.Second
)

// CohesionScores maps class names to cohesion defect scores. A missing class
// means no score is available.
type CohesionScores map[string]int

// Score returns the score for a class and whether one is present
func (s CohesionScores) Score(class string) (int, bool) {
	score, ok := s[class]
	return score, ok
}

// ScoreProvider supplies cohesion scores for a module path
type ScoreProvider interface {
	Scores(ctx context.Context, path string) (CohesionScores, error)
}

// ErrCohesionTimeout is returned when the cohesion tool exceeds its deadline
var ErrCohesionTimeout = errors.New("cohesion tool timed out")

// CommandScoreProvider runs an external cohesion tool with the module path
// as its last argument and parses its standard output
type CommandScoreProvider struct {
	Command string
	Args    []string
	Timeout time.Duration
	Logger  *slog.Logger
}

// NewCommandScoreProvider creates a provider for the given command. Empty
// values fall back to the lcom defaults.
func NewCommandScoreProvider(command string, args []string, timeout time.Duration) *CommandScoreProvider {
	if command == "" {
		command = DefaultCohesionCommand
	}
	if timeout <= 0 {
		timeout = DefaultCohesionTimeout
	}
	return &CommandScoreProvider{
		Command: command,
		Args:    args,
		Timeout: timeout,
	}
}

// Scores runs the tool and parses its output. Missing binaries, non-zero
// exits, timeouts and malformed output are all errors.
func (p *CommandScoreProvider) Scores(ctx context.Context, path string) (CohesionScores, error) {
	timeout := p.Timeout
	if timeout <= 0 {
		timeout = DefaultCohesionTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	args := append(append([]string{}, p.Args...), path)
	cmd := exec.CommandContext(ctx, p.Command, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.WaitDelay = cohesionWaitDelay

	if p.Logger != nil {
		p.Logger.Debug("running cohesion tool", "command", p.Command, "path", path)
	}

	runErr := cmd.Run()

	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return nil, fmt.Errorf("%w after %v: %s", ErrCohesionTimeout, timeout, path)
	}
	if runErr != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return nil, fmt.Errorf("cohesion tool %s failed: %w: %s", p.Command, runErr, msg)
		}
		return nil, fmt.Errorf("cohesion tool %s failed: %w", p.Command, runErr)
	}

	return ParseCohesionOutput(&stdout)
}

// ParseCohesionOutput parses lines shaped "<prefix>.<Class> | <score>".
// Lines without a dot past the first character, lines without a score
// separator and summary lines containing the word Average are skipped.
func ParseCohesionOutput(r io.Reader) (CohesionScores, error) {
	scores := make(CohesionScores)
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if strings.Index(line, ".") <= 0 || hasWord(line, "Average") {
			continue
		}

		entry := line[strings.LastIndex(line, ".")+1:]
		name, rawScore, found := strings.Cut(entry, "|")
		if !found {
			continue
		}
		score, err := strconv.Atoi(strings.TrimSpace(rawScore))
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid score: %w", lineNo, err)
		}
		scores[strings.TrimSpace(name)] = score
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read cohesion output: %w", err)
	}
	return scores, nil
}

func hasWord(line, word string) bool {
	for _, w := range strings.Fields(line) {
		if w == word {
			return true
		}
	}
	return false
}

// NoopScoreProvider never returns scores
type NoopScoreProvider struct{}

// Scores returns an empty mapping
func (NoopScoreProvider) Scores(context.Context, string) (CohesionScores, error) {
	return CohesionScores{}, nil
}

// StaticScoreProvider serves pre-computed scores keyed by module path.
// The empty key applies to every path without its own entry.
type StaticScoreProvider struct {
	ByPath map[string]CohesionScores
	Err    error
}

// Scores returns the configured scores or error
func (p StaticScoreProvider) Scores(_ context.Context, path string) (CohesionScores, error) {
	if p.Err != nil {
		return nil, p.Err
	}
	if scores, ok := p.ByPath[path]; ok {
		return scores, nil
	}
	if scores, ok := p.ByPath[""]; ok {
		return scores, nil
	}
	return CohesionScores{}, nil
}

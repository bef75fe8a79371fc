package domain

import (
	"context"
	"io"
	"time"
)

// CheckService defines the core business logic for principle checks
type CheckService interface {
	// Check analyzes every file in req.Paths
	Check(ctx context.Context, req CheckRequest) (*CheckResponse, error)

	// CheckFile analyzes a single Python file
	CheckFile(ctx context.Context, filePath string, req CheckRequest) (*CheckResponse, error)
}

// FileReader defines the interface for reading and collecting files
type FileReader interface {
	// CollectPythonFiles finds Python files under the given paths
	CollectPythonFiles(paths []string, recursive bool, includePatterns, excludePatterns []string) ([]string, error)

	// ReadFile reads the content of a file
	ReadFile(path string) ([]byte, error)

	// IsValidPythonFile checks the file extension
	IsValidPythonFile(path string) bool

	// FileExists checks if a regular file exists
	FileExists(path string) (bool, error)
}

// OutputFormatter defines the interface for formatting check results
type OutputFormatter interface {
	// Format renders the response according to the specified format
	Format(response *CheckResponse, format OutputFormat) (string, error)

	// Write writes the formatted output to the writer
	Write(response *CheckResponse, format OutputFormat, writer io.Writer) error
}

// ProgressManager creates progress reporters for long-running work
type ProgressManager interface {
	// StartTask begins a task with a known number of steps
	StartTask(description string, total int) TaskProgress

	// IsInteractive reports whether progress is rendered
	IsInteractive() bool

	// Close finishes all open tasks
	Close()
}

// TaskProgress tracks one task
type TaskProgress interface {
	Increment(n int)
	Describe(description string)
	Complete()
}

// ExecutableTask is a unit of work for a ParallelExecutor
type ExecutableTask interface {
	Name() string
	Execute(ctx context.Context) (any, error)
	IsEnabled() bool
}

// ParallelExecutor runs tasks with bounded concurrency
type ParallelExecutor interface {
	Execute(ctx context.Context, tasks []ExecutableTask) error
	SetMaxConcurrency(max int)
	SetTimeout(timeout time.Duration)
}

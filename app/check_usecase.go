package app

import (
	"context"
	"fmt"
	"os"

	"github.com/ludo-technologies/solidscan/domain"
)

// Exit codes returned by the check command
const (
	ExitCodeClean      = 0
	ExitCodeViolations = 1
	ExitCodeError      = 2
)

// CheckUseCase orchestrates the principle check workflow
type CheckUseCase struct {
	service    domain.CheckService
	formatter  domain.OutputFormatter
	fileHelper *FileHelper
}

// NewCheckUseCase creates a new check use case
func NewCheckUseCase(service domain.CheckService, formatter domain.OutputFormatter) *CheckUseCase {
	return &CheckUseCase{
		service:    service,
		formatter:  formatter,
		fileHelper: NewFileHelper(),
	}
}

// Execute validates the request, collects Python files, runs the checks and
// writes the formatted response to req.OutputWriter (stdout when nil)
func (uc *CheckUseCase) Execute(ctx context.Context, req domain.CheckRequest) (*domain.CheckResponse, error) {
	if err := uc.validateRequest(req); err != nil {
		return nil, domain.NewInvalidInputError("invalid request", err)
	}

	files, err := ResolveFilePaths(
		uc.fileHelper.WithGitignore(req.RespectGitignore),
		req.Paths,
		req.Recursive,
		req.IncludePatterns,
		req.ExcludePatterns,
	)
	if err != nil {
		return nil, domain.NewFileNotFoundError("failed to collect files", err)
	}

	if len(files) == 0 {
		return nil, domain.NewInvalidInputError("no Python files found in the specified paths", nil)
	}

	req.Paths = files
	if req.OutputFormat == "" {
		req.OutputFormat = domain.OutputFormatText
	}

	response, err := uc.service.Check(ctx, req)
	if err != nil {
		return nil, domain.NewAnalysisError("check failed", err)
	}

	writer := req.OutputWriter
	if writer == nil {
		writer = os.Stdout
	}
	if uc.formatter != nil {
		if err := uc.formatter.Write(response, req.OutputFormat, writer); err != nil {
			return response, err
		}
	}

	return response, nil
}

// CheckFile checks a single file without writing output
func (uc *CheckUseCase) CheckFile(ctx context.Context, filePath string, req domain.CheckRequest) (*domain.CheckResponse, error) {
	if !uc.fileHelper.IsValidPythonFile(filePath) {
		return nil, domain.NewInvalidInputError(fmt.Sprintf("not a valid Python file: %s", filePath), nil)
	}

	exists, err := uc.fileHelper.FileExists(filePath)
	if err != nil {
		return nil, domain.NewFileNotFoundError(filePath, err)
	}
	if !exists {
		return nil, domain.NewFileNotFoundError(filePath, fmt.Errorf("file does not exist"))
	}

	return uc.service.CheckFile(ctx, filePath, req)
}

// validateRequest validates the check request
func (uc *CheckUseCase) validateRequest(req domain.CheckRequest) error {
	if len(req.Paths) == 0 {
		return fmt.Errorf("no input paths specified")
	}

	if req.OutputFormat != "" {
		if _, err := domain.ParseOutputFormat(string(req.OutputFormat)); err != nil {
			return err
		}
	}

	switch req.SortBy {
	case "", domain.SortByLocation, domain.SortByRule, domain.SortByPrinciple:
	default:
		return fmt.Errorf("unsupported sort criteria: %s", req.SortBy)
	}

	return nil
}

// ExitCode maps a response to the process exit status. Files that could
// not be analyzed take precedence over diagnostics.
func ExitCode(response *domain.CheckResponse, failOnViolation bool) int {
	if response == nil || response.HasErrors() {
		return ExitCodeError
	}
	if failOnViolation && response.HasDiagnostics() {
		return ExitCodeViolations
	}
	return ExitCodeClean
}

// CheckUseCaseBuilder provides a builder pattern for creating CheckUseCase
type CheckUseCaseBuilder struct {
	service    domain.CheckService
	formatter  domain.OutputFormatter
	fileHelper *FileHelper
}

// NewCheckUseCaseBuilder creates a new builder
func NewCheckUseCaseBuilder() *CheckUseCaseBuilder {
	return &CheckUseCaseBuilder{}
}

// WithService sets the check service
func (b *CheckUseCaseBuilder) WithService(service domain.CheckService) *CheckUseCaseBuilder {
	b.service = service
	return b
}

// WithFormatter sets the output formatter
func (b *CheckUseCaseBuilder) WithFormatter(formatter domain.OutputFormatter) *CheckUseCaseBuilder {
	b.formatter = formatter
	return b
}

// WithFileHelper sets the file helper
func (b *CheckUseCaseBuilder) WithFileHelper(fileHelper *FileHelper) *CheckUseCaseBuilder {
	b.fileHelper = fileHelper
	return b
}

// Build creates the CheckUseCase with the configured dependencies
func (b *CheckUseCaseBuilder) Build() (*CheckUseCase, error) {
	if b.service == nil {
		return nil, fmt.Errorf("check service is required")
	}

	uc := &CheckUseCase{
		service:    b.service,
		formatter:  b.formatter,
		fileHelper: b.fileHelper,
	}

	if uc.fileHelper == nil {
		uc.fileHelper = NewFileHelper()
	}

	return uc, nil
}

package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ludo-technologies/solidscan/app"
	"github.com/ludo-technologies/solidscan/domain"
	"github.com/ludo-technologies/solidscan/service"
)

// CheckExitError is a custom error type for check command exit codes
type CheckExitError struct {
	Code    int
	Message string
}

func (e *CheckExitError) Error() string {
	return e.Message
}

type checkOptions struct {
	maxComplexity    int
	maxPublicMethods int
	maxFields        int
	selectPrinciples []string
	disableRules     []string
	format           string
	configPath       string
	sortBy           string
	failOnViolation  bool
	noCohesion       bool
	details          bool
}

func checkCmd() *cobra.Command {
	opts := &checkOptions{}

	cmd := &cobra.Command{
		Use:   "check [path...]",
		Short: "Check Python classes for SOLID principle violations",
		Long: `Analyze Python files and report likely SOLID principle violations.

Exit codes:
  0 - No violations, or violations without --fail-on-violation
  1 - Violations found and --fail-on-violation is set
  2 - Analysis error (file not found, unreadable file, invalid configuration)

Examples:
  # Check a project with defaults
  solidscan check src/

  # Tighter SRP thresholds
  solidscan check --max-complexity 8 --max-fields 10 src/

  # Only Liskov and Dependency Inversion checks
  solidscan check --select lsp,dip src/

  # JSON output for CI
  solidscan check --format json --fail-on-violation src/`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, args, opts)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.Flags().IntVar(&opts.maxComplexity, "max-complexity", 0,
		"Maximum cyclomatic complexity per method (default from config: 10)")
	cmd.Flags().IntVar(&opts.maxPublicMethods, "max-public-methods", 0,
		"Maximum public methods per class (default from config: 20)")
	cmd.Flags().IntVar(&opts.maxFields, "max-fields", 0,
		"Maximum instance fields per class (default from config: 15)")
	cmd.Flags().StringSliceVarP(&opts.selectPrinciples, "select", "s", nil,
		"Principles to check: srp,lsp,isp,dip (default all)")
	cmd.Flags().StringSliceVar(&opts.disableRules, "disable", nil,
		"Rule IDs to disable")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "",
		"Output format: text, json, yaml, csv (default from config: text)")
	cmd.Flags().StringVarP(&opts.configPath, "config", "c", "",
		"Path to config file")
	cmd.Flags().StringVar(&opts.sortBy, "sort", "",
		"Sort diagnostics by: location, rule, principle")
	cmd.Flags().BoolVar(&opts.failOnViolation, "fail-on-violation", false,
		"Exit with code 1 when violations are found")
	cmd.Flags().BoolVar(&opts.noCohesion, "no-cohesion", false,
		"Skip the external cohesion tool")
	cmd.Flags().BoolVar(&opts.details, "details", false,
		"Show complexity details in text output")

	return cmd
}

func runCheck(cmd *cobra.Command, args []string, opts *checkOptions) error {
	if len(args) == 0 {
		return &CheckExitError{Code: app.ExitCodeError, Message: "no paths specified"}
	}

	logger := loggerFor(cmd)
	loader := service.NewConfigurationLoader()

	cfg, err := loader.LoadConfig(opts.configPath, args[0])
	if err != nil {
		return &CheckExitError{Code: app.ExitCodeError, Message: err.Error()}
	}

	err = loader.ApplyOverrides(cfg, service.ConfigOverrides{
		MaxComplexity:    opts.maxComplexity,
		MaxPublicMethods: opts.maxPublicMethods,
		MaxFields:        opts.maxFields,
		Select:           opts.selectPrinciples,
		Disable:          opts.disableRules,
		OutputFormat:     opts.format,
		SortBy:           opts.sortBy,
		NoCohesion:       opts.noCohesion,
	})
	if err != nil {
		return &CheckExitError{Code: app.ExitCodeError, Message: err.Error()}
	}

	req := loader.BuildRequest(cfg, args)
	req.OutputWriter = cmd.OutOrStdout()
	req.ConfigPath = opts.configPath
	req.FailOnViolation = opts.failOnViolation
	if opts.details {
		req.ShowDetails = true
	}

	logger.Debug("configuration loaded",
		"format", req.OutputFormat,
		"max_complexity", cfg.SRP.MaxComplexity,
		"cohesion", cfg.Cohesion.Enabled)

	// Progress bars only accompany human-readable output
	pm := service.NewProgressManager(req.OutputFormat == domain.OutputFormatText)
	defer pm.Close()

	svc := service.NewCheckServiceWithProgress(cfg, service.NewScoreProvider(cfg.Cohesion, logger), pm)
	svc.SetLogger(logger)

	formatter := service.NewOutputFormatter()
	formatter.SetShowDetails(req.ShowDetails)

	uc, err := app.NewCheckUseCaseBuilder().
		WithService(svc).
		WithFormatter(formatter).
		Build()
	if err != nil {
		return &CheckExitError{Code: app.ExitCodeError, Message: err.Error()}
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	resp, err := uc.Execute(ctx, req)
	if err != nil {
		return &CheckExitError{Code: app.ExitCodeError, Message: err.Error()}
	}

	if code := app.ExitCode(resp, req.FailOnViolation); code != app.ExitCodeClean {
		msg := ""
		if code == app.ExitCodeError {
			msg = fmt.Sprintf("%d file(s) could not be analyzed", resp.Summary.FilesFailed)
		}
		return &CheckExitError{Code: code, Message: msg}
	}
	return nil
}

package service

import (
	"log/slog"
	"strings"

	"github.com/ludo-technologies/solidscan/domain"
	"github.com/ludo-technologies/solidscan/internal/analyzer"
	"github.com/ludo-technologies/solidscan/internal/config"
)

// ConfigOverrides carries command-line values that take precedence over the
// configuration file. Zero values keep the file's setting.
type ConfigOverrides struct {
	MaxComplexity    int
	MaxPublicMethods int
	MaxFields        int
	Select           []string
	Disable          []string
	OutputFormat     string
	SortBy           string
	NoCohesion       bool
}

// ConfigurationLoaderImpl loads, merges and validates configuration
type ConfigurationLoaderImpl struct{}

// NewConfigurationLoader creates a new configuration loader service
func NewConfigurationLoader() *ConfigurationLoaderImpl {
	return &ConfigurationLoaderImpl{}
}

// LoadConfig loads configuration from configPath, or discovers a config
// file near targetPath when configPath is empty
func (c *ConfigurationLoaderImpl) LoadConfig(configPath, targetPath string) (*config.Config, error) {
	cfg, err := config.LoadConfigWithTarget(configPath, targetPath)
	if err != nil {
		return nil, domain.NewConfigError("failed to load configuration file", err)
	}
	return cfg, nil
}

// LoadDefaultConfig loads a discovered config file, falling back to defaults
func (c *ConfigurationLoaderImpl) LoadDefaultConfig() *config.Config {
	cfg, err := config.LoadConfigWithTarget("", "")
	if err != nil {
		return config.DefaultConfig()
	}
	return cfg
}

// ApplyOverrides merges overrides into cfg and validates the result
func (c *ConfigurationLoaderImpl) ApplyOverrides(cfg *config.Config, o ConfigOverrides) error {
	if o.MaxComplexity != 0 {
		cfg.SRP.MaxComplexity = o.MaxComplexity
	}
	if o.MaxPublicMethods != 0 {
		cfg.SRP.MaxPublicMethods = o.MaxPublicMethods
	}
	if o.MaxFields != 0 {
		cfg.SRP.MaxFields = o.MaxFields
	}
	if len(o.Select) > 0 {
		cfg.Rules.Select = splitList(o.Select)
	}
	if len(o.Disable) > 0 {
		cfg.Rules.Disabled = append(cfg.Rules.Disabled, splitList(o.Disable)...)
	}
	if o.OutputFormat != "" {
		cfg.Output.Format = o.OutputFormat
	}
	if o.SortBy != "" {
		cfg.Output.SortBy = o.SortBy
	}
	if o.NoCohesion {
		cfg.Cohesion.Enabled = false
	}

	if err := cfg.Validate(); err != nil {
		return domain.NewConfigError("invalid configuration", err)
	}
	return nil
}

// BuildRequest creates a check request for paths from the configuration
func (c *ConfigurationLoaderImpl) BuildRequest(cfg *config.Config, paths []string) domain.CheckRequest {
	return domain.CheckRequest{
		Paths:            paths,
		OutputFormat:     domain.OutputFormat(cfg.Output.Format),
		ShowDetails:      cfg.Output.ShowDetails,
		SortBy:           domain.SortCriteria(cfg.Output.SortBy),
		Recursive:        cfg.Analysis.Recursive,
		IncludePatterns:  cfg.Analysis.IncludePatterns,
		ExcludePatterns:  cfg.Analysis.ExcludePatterns,
		RespectGitignore: cfg.Analysis.RespectGitignore,
	}
}

// NewScoreProvider returns the cohesion tool runner for cfg, or a provider
// that never reports scores when cohesion is disabled
func NewScoreProvider(cfg config.CohesionConfig, logger *slog.Logger) analyzer.ScoreProvider {
	if !cfg.Enabled {
		return analyzer.NoopScoreProvider{}
	}
	provider := analyzer.NewCommandScoreProvider(cfg.Command, cfg.Args, cfg.Timeout())
	provider.Logger = logger
	return provider
}

// splitList flattens comma-separated flag values
func splitList(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Default SRP thresholds
const (
	// DefaultMaxComplexity is the cyclomatic complexity a function may reach
	// before it is reported
	DefaultMaxComplexity = 10

	// DefaultMaxPublicMethods is the number of public methods a class may declare
	DefaultMaxPublicMethods = 20

	// DefaultMaxFields is the number of instance attributes a class may assign
	DefaultMaxFields = 15
)

// Default cohesion tool settings
const (
	DefaultCohesionCommand        = "lcom"
	DefaultCohesionTimeoutSeconds = 30
)

// Default stub detection settings
const (
	DefaultAbstractMarker = "abstractmethod"
	DefaultPrivatePrefix  = "_"
)

// Default performance settings
const (
	DefaultMaxGoroutines  = 4
	DefaultTimeoutSeconds = 300
)

// ConfigEnvVar names the environment variable holding an explicit config path
const ConfigEnvVar = "SOLIDSCAN_CONFIG"

// Config represents the main configuration structure
type Config struct {
	// SRP holds Single Responsibility thresholds
	SRP SRPConfig `json:"srp" mapstructure:"srp" yaml:"srp"`

	// Stub holds stub-detection settings shared by LSP, ISP and DIP
	Stub StubConfig `json:"stub" mapstructure:"stub" yaml:"stub"`

	// Cohesion holds the external cohesion tool settings
	Cohesion CohesionConfig `json:"cohesion" mapstructure:"cohesion" yaml:"cohesion"`

	// Rules holds rule selection
	Rules RulesConfig `json:"rules" mapstructure:"rules" yaml:"rules"`

	// Output holds output formatting configuration
	Output OutputConfig `json:"output" mapstructure:"output" yaml:"output"`

	// Analysis holds file selection configuration
	Analysis AnalysisConfig `json:"analysis" mapstructure:"analysis" yaml:"analysis"`

	// Performance holds parallelism settings
	Performance PerformanceConfig `json:"performance" mapstructure:"performance" yaml:"performance"`
}

// SRPConfig holds the Single Responsibility thresholds. A value is reported
// only when it strictly exceeds its threshold.
type SRPConfig struct {
	MaxComplexity    int `json:"max_complexity" mapstructure:"max_complexity" yaml:"max_complexity"`
	MaxPublicMethods int `json:"max_public_methods" mapstructure:"max_public_methods" yaml:"max_public_methods"`
	MaxFields        int `json:"max_fields" mapstructure:"max_fields" yaml:"max_fields"`
}

// StubConfig controls which methods count as abstract contracts
type StubConfig struct {
	// AbstractMarkers are decorator names that declare an abstract method
	AbstractMarkers []string `json:"abstract_markers" mapstructure:"abstract_markers" yaml:"abstract_markers"`

	// PrivatePrefix marks non-public method names
	PrivatePrefix string `json:"private_prefix" mapstructure:"private_prefix" yaml:"private_prefix"`
}

// CohesionConfig configures the external cohesion tool
type CohesionConfig struct {
	Enabled bool `json:"enabled" mapstructure:"enabled" yaml:"enabled"`

	// Command is run with Args followed by the module path
	Command string   `json:"command" mapstructure:"command" yaml:"command"`
	Args    []string `json:"args" mapstructure:"args" yaml:"args"`

	// TimeoutSeconds bounds a single tool invocation
	TimeoutSeconds int `json:"timeout_seconds" mapstructure:"timeout_seconds" yaml:"timeout_seconds"`
}

// Timeout returns the per-invocation deadline
func (c CohesionConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// RulesConfig selects which rules report
type RulesConfig struct {
	// Disabled lists rule IDs that never report
	Disabled []string `json:"disabled" mapstructure:"disabled" yaml:"disabled"`

	// Select restricts reporting to the listed principles (srp, lsp, isp, dip).
	// Empty means all.
	Select []string `json:"select" mapstructure:"select" yaml:"select"`
}

// OutputConfig holds configuration for output formatting
type OutputConfig struct {
	// Format specifies the output format: text, json, yaml, csv
	Format string `json:"format" mapstructure:"format" yaml:"format"`

	// SortBy orders diagnostics: location, rule, principle
	SortBy string `json:"sort_by" mapstructure:"sort_by" yaml:"sort_by"`

	// ShowDetails adds complexity details to text output
	ShowDetails bool `json:"show_details" mapstructure:"show_details" yaml:"show_details"`
}

// AnalysisConfig holds file selection configuration
type AnalysisConfig struct {
	IncludePatterns  []string `json:"include_patterns" mapstructure:"include_patterns" yaml:"include_patterns"`
	ExcludePatterns  []string `json:"exclude_patterns" mapstructure:"exclude_patterns" yaml:"exclude_patterns"`
	Recursive        bool     `json:"recursive" mapstructure:"recursive" yaml:"recursive"`
	FollowSymlinks   bool     `json:"follow_symlinks" mapstructure:"follow_symlinks" yaml:"follow_symlinks"`
	RespectGitignore bool     `json:"respect_gitignore" mapstructure:"respect_gitignore" yaml:"respect_gitignore"`
}

// PerformanceConfig holds parallelism settings
type PerformanceConfig struct {
	// MaxGoroutines bounds concurrent file analysis
	MaxGoroutines int `json:"max_goroutines" mapstructure:"max_goroutines" yaml:"max_goroutines"`

	// TimeoutSeconds bounds the whole run, 0 for no limit
	TimeoutSeconds int `json:"timeout_seconds" mapstructure:"timeout_seconds" yaml:"timeout_seconds"`
}

// Timeout returns the overall run deadline, 0 for none
func (p PerformanceConfig) Timeout() time.Duration {
	return time.Duration(p.TimeoutSeconds) * time.Second
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		SRP: SRPConfig{
			MaxComplexity:    DefaultMaxComplexity,
			MaxPublicMethods: DefaultMaxPublicMethods,
			MaxFields:        DefaultMaxFields,
		},
		Stub: StubConfig{
			AbstractMarkers: []string{DefaultAbstractMarker},
			PrivatePrefix:   DefaultPrivatePrefix,
		},
		Cohesion: CohesionConfig{
			Enabled:        true,
			Command:        DefaultCohesionCommand,
			Args:           []string{},
			TimeoutSeconds: DefaultCohesionTimeoutSeconds,
		},
		Rules: RulesConfig{
			Disabled: []string{},
			Select:   []string{},
		},
		Output: OutputConfig{
			Format: "text",
			SortBy: "location",
		},
		Analysis: AnalysisConfig{
			IncludePatterns: []string{"**/*.py"},
			ExcludePatterns: []string{
				"**/.venv/**",
				"**/venv/**",
				"**/__pycache__/**",
				"**/.tox/**",
				"**/build/**",
				"**/dist/**",
				"**/site-packages/**",
			},
			Recursive:        true,
			FollowSymlinks:   false,
			RespectGitignore: true,
		},
		Performance: PerformanceConfig{
			MaxGoroutines:  DefaultMaxGoroutines,
			TimeoutSeconds: DefaultTimeoutSeconds,
		},
	}
}

// LoadConfig loads configuration from file or returns default config
func LoadConfig(configPath string) (*Config, error) {
	return LoadConfigWithTarget(configPath, "")
}

// LoadConfigWithTarget loads configuration, discovering a config file near
// targetPath when configPath is empty
func LoadConfigWithTarget(configPath string, targetPath string) (*Config, error) {
	if configPath == "" {
		configPath = findDefaultConfig(targetPath)
	}
	return loadConfigFromFile(configPath)
}

// loadConfigFromFile reads and parses a configuration file
func loadConfigFromFile(configPath string) (*Config, error) {
	if configPath == "" {
		return DefaultConfig(), nil
	}

	// Create a new viper instance to avoid race conditions
	v := viper.New()
	config := DefaultConfig()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
	}

	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// ConfigFileNames lists the file names searched during discovery, in priority order
var ConfigFileNames = []string{
	"solidscan.yaml",
	"solidscan.yml",
	".solidscan.yaml",
	".solidscan.yml",
	"solidscan.json",
	".solidscan.toml",
}

// searchConfigInDirectory searches for configuration files in a specific directory
func searchConfigInDirectory(dir string) string {
	for _, candidate := range ConfigFileNames {
		path := filepath.Join(dir, candidate)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// findDefaultConfig searches upward from targetPath, then the current
// directory, the XDG config directory and finally SOLIDSCAN_CONFIG
func findDefaultConfig(targetPath string) string {
	if targetPath != "" {
		if absPath, err := filepath.Abs(targetPath); err == nil {
			if info, err := os.Stat(absPath); err == nil && !info.IsDir() {
				absPath = filepath.Dir(absPath)
			}

			volume := filepath.VolumeName(absPath)
			for dir := absPath; ; dir = filepath.Dir(dir) {
				if config := searchConfigInDirectory(dir); config != "" {
					return config
				}

				parent := filepath.Dir(dir)
				if parent == dir || dir == volume ||
					(volume != "" && dir == volume+string(filepath.Separator)) {
					break
				}
			}
		}
	}

	if config := searchConfigInDirectory("."); config != "" {
		return config
	}

	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		if config := searchConfigInDirectory(filepath.Join(xdgConfig, "solidscan")); config != "" {
			return config
		}
	}

	if envConfig := os.Getenv(ConfigEnvVar); envConfig != "" {
		if _, err := os.Stat(envConfig); err == nil {
			return envConfig
		}
	}

	return ""
}

// KnownRuleIDs lists the rule IDs accepted in rules.disabled
var KnownRuleIDs = []string{
	"srp-cohesion-low",
	"srp-complexity-high",
	"srp-too-many-public-methods",
	"srp-too-many-fields",
	"lsp-degenerate-override",
	"isp-incomplete-implementation",
	"dip-concrete-override-replaced",
}

var knownPrinciples = []string{"srp", "lsp", "isp", "dip"}

// Validate checks the configuration for invalid values
func (c *Config) Validate() error {
	if c.SRP.MaxComplexity < 1 {
		return fmt.Errorf("srp.max_complexity must be >= 1, got %d", c.SRP.MaxComplexity)
	}
	if c.SRP.MaxPublicMethods < 1 {
		return fmt.Errorf("srp.max_public_methods must be >= 1, got %d", c.SRP.MaxPublicMethods)
	}
	if c.SRP.MaxFields < 1 {
		return fmt.Errorf("srp.max_fields must be >= 1, got %d", c.SRP.MaxFields)
	}

	if len(c.Stub.AbstractMarkers) == 0 {
		return fmt.Errorf("stub.abstract_markers cannot be empty")
	}
	if c.Stub.PrivatePrefix == "" {
		return fmt.Errorf("stub.private_prefix cannot be empty")
	}

	if c.Cohesion.Enabled {
		if strings.TrimSpace(c.Cohesion.Command) == "" {
			return fmt.Errorf("cohesion.command cannot be empty when cohesion is enabled")
		}
		if c.Cohesion.TimeoutSeconds < 1 {
			return fmt.Errorf("cohesion.timeout_seconds must be >= 1, got %d", c.Cohesion.TimeoutSeconds)
		}
	}

	for _, id := range c.Rules.Disabled {
		if !contains(KnownRuleIDs, id) {
			return fmt.Errorf("unknown rule '%s' in rules.disabled, must be one of: %s", id, strings.Join(KnownRuleIDs, ", "))
		}
	}
	for _, p := range c.Rules.Select {
		if !contains(knownPrinciples, strings.ToLower(p)) {
			return fmt.Errorf("unknown principle '%s' in rules.select, must be one of: %s", p, strings.Join(knownPrinciples, ", "))
		}
	}

	validFormats := map[string]bool{
		"text": true,
		"json": true,
		"yaml": true,
		"csv":  true,
	}
	if !validFormats[c.Output.Format] {
		return fmt.Errorf("invalid output.format '%s', must be one of: text, json, yaml, csv", c.Output.Format)
	}

	validSortBy := map[string]bool{
		"location":  true,
		"rule":      true,
		"principle": true,
	}
	if !validSortBy[c.Output.SortBy] {
		return fmt.Errorf("invalid output.sort_by '%s', must be one of: location, rule, principle", c.Output.SortBy)
	}

	if len(c.Analysis.IncludePatterns) == 0 {
		return fmt.Errorf("analysis.include_patterns cannot be empty")
	}

	if c.Performance.MaxGoroutines < 1 {
		return fmt.Errorf("performance.max_goroutines must be >= 1, got %d", c.Performance.MaxGoroutines)
	}
	if c.Performance.TimeoutSeconds < 0 {
		return fmt.Errorf("performance.timeout_seconds must be >= 0, got %d", c.Performance.TimeoutSeconds)
	}

	return nil
}

// ExceedsMaxComplexity reports whether complexity strictly exceeds the threshold
func (c *SRPConfig) ExceedsMaxComplexity(complexity int) bool {
	return complexity > c.MaxComplexity
}

func contains(items []string, s string) bool {
	for _, item := range items {
		if item == s {
			return true
		}
	}
	return false
}

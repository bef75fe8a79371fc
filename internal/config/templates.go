package config

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"
)

// ProjectType represents the layout of the Python project being configured
type ProjectType string

const (
	ProjectTypeGeneric ProjectType = "generic"
	ProjectTypeDjango  ProjectType = "django"
	ProjectTypeLibrary ProjectType = "library"
)

// Strictness represents the analysis strictness level
type Strictness string

const (
	StrictnessRelaxed  Strictness = "relaxed"
	StrictnessStandard Strictness = "standard"
	StrictnessStrict   Strictness = "strict"
)

// ProjectPreset holds file selection presets for a project type
type ProjectPreset struct {
	IncludePatterns []string
	ExcludePatterns []string
}

// StrictnessPreset holds SRP thresholds for a strictness level
type StrictnessPreset struct {
	MaxComplexity    int
	MaxPublicMethods int
	MaxFields        int
}

// GetProjectPresets returns presets for different project types
func GetProjectPresets() map[ProjectType]ProjectPreset {
	common := DefaultConfig().Analysis.ExcludePatterns
	return map[ProjectType]ProjectPreset{
		ProjectTypeGeneric: {
			IncludePatterns: []string{"**/*.py"},
			ExcludePatterns: common,
		},
		ProjectTypeDjango: {
			IncludePatterns: []string{"**/*.py"},
			ExcludePatterns: append(append([]string{}, common...),
				"**/migrations/**",
				"**/static/**",
			),
		},
		ProjectTypeLibrary: {
			IncludePatterns: []string{"src/**/*.py", "**/*.py"},
			ExcludePatterns: append(append([]string{}, common...),
				"**/tests/**",
				"**/docs/**",
			),
		},
	}
}

// GetStrictnessPresets returns presets for different strictness levels
func GetStrictnessPresets() map[Strictness]StrictnessPreset {
	return map[Strictness]StrictnessPreset{
		StrictnessRelaxed: {
			MaxComplexity:    15,
			MaxPublicMethods: 30,
			MaxFields:        25,
		},
		StrictnessStandard: {
			MaxComplexity:    DefaultMaxComplexity,
			MaxPublicMethods: DefaultMaxPublicMethods,
			MaxFields:        DefaultMaxFields,
		},
		StrictnessStrict: {
			MaxComplexity:    7,
			MaxPublicMethods: 12,
			MaxFields:        10,
		},
	}
}

// NewPresetConfig returns the default configuration adjusted for a project
// type and strictness. Unknown values keep the defaults.
func NewPresetConfig(projectType ProjectType, strictness Strictness) *Config {
	cfg := DefaultConfig()
	if preset, ok := GetProjectPresets()[projectType]; ok {
		cfg.Analysis.IncludePatterns = preset.IncludePatterns
		cfg.Analysis.ExcludePatterns = preset.ExcludePatterns
	}
	if strict, ok := GetStrictnessPresets()[strictness]; ok {
		cfg.SRP.MaxComplexity = strict.MaxComplexity
		cfg.SRP.MaxPublicMethods = strict.MaxPublicMethods
		cfg.SRP.MaxFields = strict.MaxFields
	}
	return cfg
}

var sectionComments = map[string]string{
	"srp":         "Single Responsibility thresholds. A value is reported only when it\nstrictly exceeds its threshold.",
	"stub":        "Stub detection shared by the LSP, ISP and DIP rules.",
	"cohesion":    "External cohesion tool. It is run as: <command> <args...> <module path>\nand must print lines shaped \"<prefix>.<Class> | <score>\".",
	"rules":       "Rule selection. disabled takes rule IDs (see `solidscan rules`),\nselect takes principles: srp, lsp, isp, dip.",
	"output":      "Output format: text, json, yaml, csv.",
	"analysis":    "Files to analyze.",
	"performance": "Parallel file analysis.",
}

// GetFullConfigTemplate returns the documented YAML config template
func GetFullConfigTemplate(projectType ProjectType, strictness Strictness) (string, error) {
	return RenderConfigTemplate(NewPresetConfig(projectType, strictness))
}

// RenderConfigTemplate renders cfg as YAML with a comment above each section
func RenderConfigTemplate(cfg *Config) (string, error) {
	var doc yaml.Node
	if err := doc.Encode(cfg); err != nil {
		return "", fmt.Errorf("failed to encode config: %w", err)
	}

	// Mapping content alternates key and value nodes
	for i := 0; i+1 < len(doc.Content); i += 2 {
		key := doc.Content[i]
		if comment, ok := sectionComments[key.Value]; ok {
			key.HeadComment = comment
		}
	}
	doc.HeadComment = "solidscan configuration\nDocumentation: https://github.com/ludo-technologies/solidscan"

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&doc); err != nil {
		return "", fmt.Errorf("failed to render config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return "", fmt.Errorf("failed to render config: %w", err)
	}
	return buf.String(), nil
}

// GetMinimalConfigTemplate returns a minimal config template
func GetMinimalConfigTemplate() string {
	return `# solidscan configuration (minimal)
# See full options: solidscan init --force

srp:
  max_complexity: 10
  max_public_methods: 20
  max_fields: 15

cohesion:
  enabled: true
  command: lcom

analysis:
  include_patterns: ["**/*.py"]
  exclude_patterns: ["**/.venv/**", "**/__pycache__/**"]
`
}

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/ludo-technologies/solidscan/internal/config"
)

const defaultInitPath = "solidscan.yaml"

// initOptions collects the choices that shape a generated config file
type initOptions struct {
	path        string
	force       bool
	minimal     bool
	interactive bool

	project    string
	strictness string
	markers    []string
	noCohesion bool
}

func initCmd() *cobra.Command {
	opts := &initOptions{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Generate a solidscan configuration file",
		Long: `Generate a documented solidscan configuration file.

The SRP thresholds come from a strictness preset and the file selection
from a project preset. Extra abstract-method decorators can be declared
so that methods carrying them count as stubs for LSP, ISP and DIP.

Examples:
  # Standard thresholds for a generic project
  solidscan init

  # Tight thresholds for a Django app, no cohesion tool
  solidscan init --project django --strictness strict --no-cohesion

  # Treat @abstractproperty and @interface_method as abstract
  solidscan init --abstract-marker abstractproperty,interface_method

  # Guided setup
  solidscan init --interactive`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.path, "config", "c", defaultInitPath, "Output path for the config file")
	cmd.Flags().BoolVarP(&opts.force, "force", "f", false, "Overwrite existing config file")
	cmd.Flags().BoolVar(&opts.minimal, "minimal", false, "Write only the SRP, cohesion and analysis sections")
	cmd.Flags().BoolVarP(&opts.interactive, "interactive", "i", false, "Choose the presets interactively")
	cmd.Flags().StringVar(&opts.project, "project", string(config.ProjectTypeGeneric), "Project preset: generic, django, library")
	cmd.Flags().StringVar(&opts.strictness, "strictness", string(config.StrictnessStandard), "SRP threshold preset: relaxed, standard, strict")
	cmd.Flags().StringSliceVar(&opts.markers, "abstract-marker", nil, "Additional abstract-method decorator names")
	cmd.Flags().BoolVar(&opts.noCohesion, "no-cohesion", false, "Disable the external cohesion tool")

	return cmd
}

func runInit(cmd *cobra.Command, opts *initOptions) error {
	if opts.interactive {
		if err := runInitWizard(opts); err != nil {
			return err
		}
	}

	if !opts.force {
		if _, err := os.Stat(opts.path); err == nil {
			return fmt.Errorf("%s already exists. Use --force to overwrite", opts.path)
		}
	}
	if dir := filepath.Dir(opts.path); dir != "." && dir != "" {
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			return fmt.Errorf("directory does not exist: %s", dir)
		}
	}

	content, err := opts.render()
	if err != nil {
		return err
	}
	if err := os.WriteFile(opts.path, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	out := cmd.OutOrStdout()
	displayPath := opts.path
	if absPath, err := filepath.Abs(opts.path); err == nil {
		displayPath = absPath
	}
	fmt.Fprintf(out, "Created %s\n", displayPath)
	fmt.Fprintln(out, "\nRun 'solidscan check .' to check your project.")
	return nil
}

// buildConfig applies the presets and stub choices to the defaults
func (o *initOptions) buildConfig() (*config.Config, error) {
	project := config.ProjectType(strings.ToLower(o.project))
	if _, ok := config.GetProjectPresets()[project]; !ok {
		return nil, fmt.Errorf("unknown project type '%s', must be one of: generic, django, library", o.project)
	}
	strictness := config.Strictness(strings.ToLower(o.strictness))
	if _, ok := config.GetStrictnessPresets()[strictness]; !ok {
		return nil, fmt.Errorf("unknown strictness '%s', must be one of: relaxed, standard, strict", o.strictness)
	}

	cfg := config.NewPresetConfig(project, strictness)
	for _, marker := range o.markers {
		marker = strings.TrimSpace(marker)
		if marker == "" {
			continue
		}
		if !isDecoratorName(marker) {
			return nil, fmt.Errorf("invalid abstract marker '%s'", marker)
		}
		if !containsString(cfg.Stub.AbstractMarkers, marker) {
			cfg.Stub.AbstractMarkers = append(cfg.Stub.AbstractMarkers, marker)
		}
	}
	cfg.Cohesion.Enabled = !o.noCohesion

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (o *initOptions) render() (string, error) {
	if o.minimal {
		return config.GetMinimalConfigTemplate(), nil
	}
	cfg, err := o.buildConfig()
	if err != nil {
		return "", err
	}
	content, err := config.RenderConfigTemplate(cfg)
	if err != nil {
		return "", fmt.Errorf("failed to render config template: %w", err)
	}
	return content, nil
}

// isDecoratorName accepts dotted Python identifiers such as abc.abstractmethod
func isDecoratorName(name string) bool {
	for _, part := range strings.Split(name, ".") {
		if part == "" {
			return false
		}
		for i, r := range part {
			switch {
			case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
			case i > 0 && r >= '0' && r <= '9':
			default:
				return false
			}
		}
	}
	return true
}

func containsString(items []string, s string) bool {
	for _, item := range items {
		if item == s {
			return true
		}
	}
	return false
}

type choice[T any] struct {
	Label string
	Hint  string
	Value T
}

var choiceTemplates = &promptui.SelectTemplates{
	Label:    "{{ . }}",
	Active:   "\U0001F449 {{ .Label | cyan }} {{ .Hint | faint }}",
	Inactive: "   {{ .Label | white }} {{ .Hint | faint }}",
	Selected: "\U00002705 {{ .Label | green }}",
}

func choose[T any](label string, items []choice[T]) (T, error) {
	prompt := promptui.Select{Label: label, Items: items, Templates: choiceTemplates}
	idx, _, err := prompt.Run()
	if err != nil {
		var zero T
		return zero, fmt.Errorf("%s: selection cancelled: %w", label, err)
	}
	return items[idx].Value, nil
}

// runInitWizard asks for the presets and stub options, overwriting opts
func runInitWizard(opts *initOptions) error {
	fmt.Println("\nsolidscan configuration")
	fmt.Println()

	project, err := choose("Project layout", []choice[config.ProjectType]{
		{"Generic", "all *.py files", config.ProjectTypeGeneric},
		{"Django", "skips migrations and static", config.ProjectTypeDjango},
		{"Library", "src/ layout, skips tests and docs", config.ProjectTypeLibrary},
	})
	if err != nil {
		return err
	}

	presets := config.GetStrictnessPresets()
	levels := []config.Strictness{config.StrictnessStandard, config.StrictnessRelaxed, config.StrictnessStrict}
	items := make([]choice[config.Strictness], 0, len(levels))
	for _, level := range levels {
		p := presets[level]
		items = append(items, choice[config.Strictness]{
			Label: string(level),
			Hint:  fmt.Sprintf("complexity %d, public methods %d, fields %d", p.MaxComplexity, p.MaxPublicMethods, p.MaxFields),
			Value: level,
		})
	}
	strictness, err := choose("SRP thresholds", items)
	if err != nil {
		return err
	}

	markerPrompt := promptui.Prompt{
		Label: "Extra abstract decorators (comma separated, empty for none)",
		Validate: func(input string) error {
			for _, m := range strings.Split(input, ",") {
				if m = strings.TrimSpace(m); m != "" && !isDecoratorName(m) {
					return fmt.Errorf("invalid decorator name %q", m)
				}
			}
			return nil
		},
	}
	markers, err := markerPrompt.Run()
	if err != nil {
		return fmt.Errorf("abstract decorators: input cancelled: %w", err)
	}

	cohesionPrompt := promptui.Prompt{Label: "Run the lcom cohesion tool", IsConfirm: true, Default: "y"}
	_, cohesionErr := cohesionPrompt.Run()

	opts.project = string(project)
	opts.strictness = string(strictness)
	opts.markers = append(opts.markers, strings.Split(markers, ",")...)
	// A declined confirm prompt reports ErrAbort
	opts.noCohesion = cohesionErr != nil
	opts.minimal = false
	return nil
}

// Package driver is the CLI's glue layer: project config loading, the
// between-rewrite debug hook, and the small amount of terminal-aware
// presentation logic that doesn't belong in pkg/compile itself.
package driver

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/inkc/inkc/pkg/compile"
	"github.com/inkc/inkc/pkg/desugar"
)

// ConfigFileName is the project file cmd/inkc loads by default (the
// --config flag's default value); a --preset flag overrides the preset
// it names.
const ConfigFileName = ".inkc.yaml"

// Config is the on-disk shape of .inkc.yaml: a named preset plus the
// per-pass overrides a project wants baked in rather than typed on the
// command line every time.
type Config struct {
	Preset string `yaml:"preset"`

	AdtEncoding string `yaml:"adtEncoding,omitempty"`
	Eager       *bool  `yaml:"eager,omitempty"`

	Passes *PassConfig `yaml:"passes,omitempty"`
	Warn   *WarnConfig `yaml:"warn,omitempty"`
}

// PassConfig overrides individual optimizer passes on top of whichever
// preset Config.Preset selects.
type PassConfig struct {
	Eta            *bool `yaml:"eta,omitempty"`
	RefToRef       *bool `yaml:"refToRef,omitempty"`
	SimplifyMain   *bool `yaml:"simplifyMain,omitempty"`
	Supercombinators *bool `yaml:"supercombinators,omitempty"`
	Inline         *bool `yaml:"inline,omitempty"`
	Merge          *bool `yaml:"merge,omitempty"`
	Prune          *bool `yaml:"prune,omitempty"`
}

// WarnConfig mirrors compile.WarningOpts for YAML loading.
type WarnConfig struct {
	MatchOnlyVarsFatal    bool `yaml:"matchOnlyVarsFatal,omitempty"`
	UnusedDefinitionFatal bool `yaml:"unusedDefinitionFatal,omitempty"`
}

// LoadConfig reads and parses path. A missing file is not an error:
// callers get a zero Config (preset "light") so a project with no
// .inkc.yaml still builds with sane defaults.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Config{Preset: "light"}, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("driver: reading %s: %w", path, err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("driver: parsing %s: %w", path, err)
	}
	if cfg.Preset == "" {
		cfg.Preset = "light"
	}
	return cfg, nil
}

// ResolveOpts turns a Config into a compile.CompileOpts, starting from
// the named preset and layering any explicit overrides on top.
func ResolveOpts(cfg Config) (compile.CompileOpts, error) {
	var opts compile.CompileOpts
	switch cfg.Preset {
	case "light", "":
		opts = compile.Light()
	case "heavy":
		opts = compile.Heavy()
	default:
		return compile.CompileOpts{}, fmt.Errorf("driver: unknown preset %q (want \"light\" or \"heavy\")", cfg.Preset)
	}

	switch cfg.AdtEncoding {
	case "":
	case "scott":
		opts.AdtEncoding = desugar.Scott
	case "tagged-scott":
		opts.AdtEncoding = desugar.TaggedScott
	default:
		return compile.CompileOpts{}, fmt.Errorf("driver: unknown adtEncoding %q", cfg.AdtEncoding)
	}

	if cfg.Eager != nil {
		opts.Eager = *cfg.Eager
	}

	if p := cfg.Passes; p != nil {
		applyBool(&opts.RunEta, p.Eta)
		applyBool(&opts.RunRefToRef, p.RefToRef)
		applyBool(&opts.RunSimplifyMain, p.SimplifyMain)
		applyBool(&opts.RunSupercombs, p.Supercombinators)
		applyBool(&opts.RunInline, p.Inline)
		applyBool(&opts.RunMerge, p.Merge)
		applyBool(&opts.RunPrune, p.Prune)
	}

	if w := cfg.Warn; w != nil {
		opts.Warn = compile.WarningOpts{
			MatchOnlyVarsFatal:    w.MatchOnlyVarsFatal,
			UnusedDefinitionFatal: w.UnusedDefinitionFatal,
		}
	}

	return opts, nil
}

func applyBool(dst *bool, src *bool) {
	if src != nil {
		*dst = *src
	}
}

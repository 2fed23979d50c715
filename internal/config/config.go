// Package config loads the YAML configuration describing the cvars this
// module takes as explicit inputs rather than global reads.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ernie/q2netcore/internal/interp"
	"github.com/ernie/q2netcore/internal/netlog"
)

// Config holds the five cvars the core consumes directly. All other cvars
// belong to external collaborators and are never read here.
type Config struct {
	// ClPredict disables the Predictor and uses the live frame value when
	// false. Defaults to true when omitted.
	ClPredict *bool `yaml:"cl_predict"`

	// ClShowclamp emits a log line whenever render time is clamped to
	// server time.
	ClShowclamp bool `yaml:"cl_showclamp"`

	// ClTimedemo forces lerp_frac = 1 (no interpolation) when true.
	ClTimedemo bool `yaml:"cl_timedemo"`

	// MapNoareas forces area-bits queries to answer "all connected".
	MapNoareas bool `yaml:"map_noareas"`

	// SvEntfile, when true, substitutes a companion .ent file's contents
	// for the embedded entity string on map load, if one exists.
	SvEntfile bool `yaml:"sv_entfile"`
}

// Predict reports the effective cl_predict value, defaulting to true.
func (c *Config) Predict() bool {
	if c.ClPredict == nil {
		return true
	}
	return *c.ClPredict
}

// InterpConfig derives the Interpolator's Config from the two cvars it
// consults, attaching logger so ClampRenderTime's cl_showclamp line goes
// through the shared logger instead of being dropped.
func (c *Config) InterpConfig(logger *netlog.Logger) interp.Config {
	return interp.Config{
		Timedemo:  c.ClTimedemo,
		ShowClamp: c.ClShowclamp,
		Logger:    logger,
	}
}

// Load reads the YAML file at path and unmarshals it into a Config.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: cannot read %q: %w", path, err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: cannot parse %q: %w", path, err)
	}
	return &cfg, nil
}

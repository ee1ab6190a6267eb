// Copyright (C) 2022-2025, VigilantDoomer
//
// This file is part of VigilantBSP program.
//
// VigilantBSP is free software: you can redistribute it
// and/or modify it under the terms of GNU General Public License
// as published by the Free Software Foundation, either version 2 of
// the License, or (at your option) any later version.
//
// VigilantBSP is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with VigilantBSP.  If not, see <https://www.gnu.org/licenses/>.

// config.go
package bsp

import (
	"errors"
	"fmt"
	"io"
	"math"

	"gopkg.in/yaml.v3"
)

const (
	DEFAULT_WELD_EPSILON       = 0.005
	DEFAULT_PUNISHABLE_DIST    = 0.1
	DEFAULT_MAX_DEPTH          = 10000
	DEFAULT_NOT_AXIS_ALIGNED   = 5
	DEFAULT_NEAR_ENDPOINT      = 100
	DEFAULT_IMBALANCE          = 1
	DEFAULT_SPLIT_SCORE_FACTOR = 2
)

// Relative tolerance (sine of the angle) for treating two directions as
// parallel
const PARALLEL_SINE_EPSILON = 1e-10

// SplitWeights are the per-criterion weights of the splitter score. Lower
// total score is better.
type SplitWeights struct {
	// Added once when the splitter is neither horizontal nor vertical
	NotAxisAligned int `yaml:"not_axis_aligned"`
	// Added for every segment the splitter's line passes close to (but not
	// through) an endpoint of
	NearEndpoint int `yaml:"near_endpoint"`
	// Multiplies |left - right|
	Imbalance int `yaml:"imbalance"`
	// Multiplies the number of segments that would be split
	SplitFactor int `yaml:"split_factor"`
}

// Config holds the tunables of one build. It is never mutated by the builder.
type Config struct {
	// Vertices closer than this are the same vertex, and points closer than
	// this to a line are on it
	WeldEpsilon float64 `yaml:"weld_epsilon"`
	// Intersections closer than this to a segment endpoint (but farther than
	// WeldEpsilon) get punished when scoring splitters
	PunishableEndpointDistance float64 `yaml:"punishable_endpoint_distance"`
	// Iterate splitter candidates back to front instead of front to back
	BranchRight bool         `yaml:"branch_right"`
	Weights     SplitWeights `yaml:"weights"`
	// Recursion overflow guard: depth of the tree and size of the pending
	// work stack may not exceed it
	MaxDepth int `yaml:"max_depth"`
	// Remove dangling one-sided chains before building
	PruneDanglingChains bool `yaml:"prune_dangling_chains"`
}

func DefaultSplitWeights() SplitWeights {
	return SplitWeights{
		NotAxisAligned: DEFAULT_NOT_AXIS_ALIGNED,
		NearEndpoint:   DEFAULT_NEAR_ENDPOINT,
		Imbalance:      DEFAULT_IMBALANCE,
		SplitFactor:    DEFAULT_SPLIT_SCORE_FACTOR,
	}
}

func DefaultConfig() Config {
	return Config{
		WeldEpsilon:                DEFAULT_WELD_EPSILON,
		PunishableEndpointDistance: DEFAULT_PUNISHABLE_DIST,
		BranchRight:                false,
		Weights:                    DefaultSplitWeights(),
		MaxDepth:                   DEFAULT_MAX_DEPTH,
		PruneDanglingChains:        true,
	}
}

// Validate reports the first problem found with the config, wrapping
// ErrInvalidConfig
func (c Config) Validate() error {
	if !(c.WeldEpsilon > 0) || math.IsInf(c.WeldEpsilon, 0) {
		return fmt.Errorf("%w: weld epsilon must be positive, got %v",
			ErrInvalidConfig, c.WeldEpsilon)
	}
	if math.IsNaN(c.PunishableEndpointDistance) ||
		c.PunishableEndpointDistance < c.WeldEpsilon {
		return fmt.Errorf("%w: punishable endpoint distance %v is below weld epsilon %v",
			ErrInvalidConfig, c.PunishableEndpointDistance, c.WeldEpsilon)
	}
	if c.MaxDepth <= 0 {
		return fmt.Errorf("%w: max depth must be positive, got %d",
			ErrInvalidConfig, c.MaxDepth)
	}
	w := c.Weights
	if w.NotAxisAligned < 0 || w.NearEndpoint < 0 || w.Imbalance < 0 ||
		w.SplitFactor < 0 {
		return fmt.Errorf("%w: split weights must not be negative: %+v",
			ErrInvalidConfig, w)
	}
	return nil
}

// LoadConfig decodes a YAML preset on top of DefaultConfig. Fields absent from
// the preset keep their defaults, unknown fields are an error.
func LoadConfig(r io.Reader) (Config, error) {
	cfg := DefaultConfig()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

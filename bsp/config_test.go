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

// config_test.go
package bsp

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	require.Equal(t, DEFAULT_MAX_DEPTH, cfg.MaxDepth)
	require.True(t, cfg.PruneDanglingChains)
}

func TestValidate(t *testing.T) {
	cases := map[string]func(*Config){
		"zero epsilon":      func(c *Config) { c.WeldEpsilon = 0 },
		"negative epsilon":  func(c *Config) { c.WeldEpsilon = -1 },
		"punish below weld": func(c *Config) { c.PunishableEndpointDistance = 0.001 },
		"zero depth":        func(c *Config) { c.MaxDepth = 0 },
		"negative weight":   func(c *Config) { c.Weights.Imbalance = -2 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := DefaultConfig()
			mutate(&cfg)
			require.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
		})
	}
}

func TestLoadConfig(t *testing.T) {
	cfg, err := LoadConfig(strings.NewReader(""))
	require.NoError(t, err)
	require.Equal(t, DefaultConfig(), cfg)

	cfg, err = LoadConfig(strings.NewReader(`
weld_epsilon: 0.01
branch_right: true
weights:
  split_factor: 8
`))
	require.NoError(t, err)
	require.Equal(t, 0.01, cfg.WeldEpsilon)
	require.True(t, cfg.BranchRight)
	require.Equal(t, 8, cfg.Weights.SplitFactor)
	// Untouched fields keep their defaults
	require.Equal(t, DEFAULT_NEAR_ENDPOINT, cfg.Weights.NearEndpoint)
	require.Equal(t, DEFAULT_PUNISHABLE_DIST, cfg.PunishableEndpointDistance)
}

func TestLoadConfigRejectsBadPresets(t *testing.T) {
	_, err := LoadConfig(strings.NewReader("weld_epsilon: 0.01\nsplit_harder: yes\n"))
	require.ErrorIs(t, err, ErrInvalidConfig)

	_, err = LoadConfig(strings.NewReader("max_depth: -5\n"))
	require.ErrorIs(t, err, ErrInvalidConfig)

	_, err = LoadConfig(strings.NewReader("weld_epsilon: [1, 2]\n"))
	require.ErrorIs(t, err, ErrInvalidConfig)
}

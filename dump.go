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

// dump.go
package main

import (
	"io"

	"gopkg.in/yaml.v3"

	"github.com/vigilantdoomer/floatbsp/bsp"
)

// LevelDump is what --dump-dir writes for every level built
type LevelDump struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	// Linedef each builder line was made from
	Linedefs   []int           `yaml:"linedefs,flow"`
	ZeroLength int             `yaml:"zero_length_skipped,omitempty"`
	NoSidedefs int             `yaml:"no_sidedefs_skipped,omitempty"`
	Flipped    int             `yaml:"flipped,omitempty"`
	RootTrials []RootTrialDump `yaml:"root_trials,omitempty"`
	Tree       bsp.TreeSummary `yaml:"tree"`
}

type RootTrialDump struct {
	Line    int            `yaml:"line"`
	Linedef int            `yaml:"linedef"`
	Score   int            `yaml:"score"`
	Stats   *bsp.TreeStats `yaml:"stats,omitempty"`
	Error   string         `yaml:"error,omitempty"`
}

func newLevelDump(res *LevelResult) *LevelDump {
	d := &LevelDump{
		Level:      res.Name,
		Format:     res.Format.String(),
		Linedefs:   res.Conversion.Linedefs,
		ZeroLength: res.Conversion.ZeroLength,
		NoSidedefs: res.Conversion.NoSidedefs,
		Flipped:    res.Conversion.Flipped,
		Tree:       res.Tree.Summary(),
	}
	for _, trial := range res.Trials {
		td := RootTrialDump{
			Line:    trial.Line,
			Linedef: res.Conversion.Linedefs[trial.Line],
			Score:   trial.Score.Score,
		}
		if trial.Tree != nil {
			st := trial.Tree.Stats()
			td.Stats = &st
		}
		if trial.Err != nil {
			td.Error = trial.Err.Error()
		}
		d.RootTrials = append(d.RootTrials, td)
	}
	return d
}

// WriteDump writes the YAML dump of a built level
func WriteDump(w io.Writer, res *LevelResult) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(newLevelDump(res)); err != nil {
		return err
	}
	return enc.Close()
}

// Copyright 2020-2025 Buf Technologies, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package musubi

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Attach selects where a single-line label's anchor column sits within its
// span.
type Attach int

const (
	AttachMiddle Attach = iota
	AttachStart
	AttachEnd
)

// IndexType selects whether Label.Start/End are interpreted as byte offsets
// or character (rune) offsets.
type IndexType int

const (
	IndexByte IndexType = iota
	IndexChar
)

// Config controls the layout and drawing behavior of a Report's render.
// It is serializable via gopkg.in/yaml.v3 so a host application can store
// a named set of presets alongside its own configuration files.
type Config struct {
	// CrossGap makes a horizontal margin rail win over a crossing vertical
	// rail, leaving a one-column gap instead of drawing an XBar.
	CrossGap bool `yaml:"cross_gap"`
	// Compact suppresses underline rows and blank separator rows.
	Compact bool `yaml:"compact"`
	// Underlines draws an underline row beneath single-line labels.
	Underlines bool `yaml:"underlines"`
	// MultilineArrows draws an up-arrow on a multi-line label's opening row.
	MultilineArrows bool `yaml:"multiline_arrows"`
	// TabWidth is the display width tabs expand to.
	TabWidth int `yaml:"tab_width"`
	// LimitWidth caps the full rendered line width; 0 disables limiting.
	LimitWidth int `yaml:"limit_width"`
	// Ambiwidth is the display width (1 or 2) assigned to East-Asian
	// "ambiguous width" runes.
	Ambiwidth int `yaml:"ambiwidth"`
	// LabelAttach selects the anchor column policy for single-line labels.
	LabelAttach Attach `yaml:"label_attach"`
	// IndexType selects whether Label offsets are byte or char offsets.
	IndexType IndexType `yaml:"index_type"`
	// Color is the active palette function; nil produces escape-free
	// output. Not serialized (functions aren't YAML-representable); a
	// loaded Config always starts with Color unset, matching the "color
	// = null produces ANSI-escape-free output" testable property.
	Color ColorFunc `yaml:"-"`
	// CharSet selects the glyph table; nil defaults to Unicode.
	CharSet *CharSet `yaml:"-"`
	// CharSetName is the serializable twin of CharSet: "ascii" or
	// "unicode". Loading a Config resolves CharSet from this field.
	CharSetName string `yaml:"char_set"`
}

// DefaultConfig returns the built-in configuration: non-compact, unicode
// charset, underlines and multiline arrows enabled, tab width 4, no width
// limit, ambiguous-width runes counted as narrow, middle-attach labels,
// byte-indexed spans.
func DefaultConfig() Config {
	return Config{
		Underlines:       true,
		MultilineArrows:  true,
		TabWidth:         TabstopWidth,
		LimitWidth:       0,
		Ambiwidth:        1,
		LabelAttach:      AttachMiddle,
		IndexType:        IndexByte,
		CharSetName:      "unicode",
	}
}

func (c *Config) resolveCharSet() *CharSet {
	if c.CharSet != nil {
		return c.CharSet
	}
	if c.CharSetName == "ascii" {
		return &ASCII
	}
	return &Unicode
}

// LoadConfig reads a yaml-encoded Config from path, starting from
// DefaultConfig so unspecified fields keep their defaults.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, wrapf(ErrFile, "musubi: reading config %s: %v", path, err)
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, wrapf(ErrParam, "musubi: parsing config %s: %v", path, err)
	}
	return cfg, nil
}

// SaveConfig writes cfg as yaml to path.
func SaveConfig(path string, cfg Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return wrapf(ErrParam, "musubi: encoding config: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return wrapf(ErrFile, "musubi: writing config %s: %v", path, err)
	}
	return nil
}

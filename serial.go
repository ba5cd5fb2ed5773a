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

import "gopkg.in/yaml.v3"

// reportDoc is the serialized shape of a Report's accumulated inputs:
// header metadata, footer text, sources, and labels. Per-label ColorFunc
// overrides and the Config are not part of it (functions have no yaml
// form; the Config has its own LoadConfig/SaveConfig round-trip).
type reportDoc struct {
	Level   int         `yaml:"level"`
	Custom  string      `yaml:"custom_level,omitempty"`
	Title   string      `yaml:"title,omitempty"`
	Code    string      `yaml:"code,omitempty"`
	Help    []string    `yaml:"help,omitempty"`
	Notes   []string    `yaml:"notes,omitempty"`
	Sources []sourceDoc `yaml:"sources,omitempty"`
	Labels  []labelDoc  `yaml:"labels,omitempty"`
}

// sourceDoc carries either an inline text (memory-backed) or a path
// (file-backed, re-read on load).
type sourceDoc struct {
	Name string `yaml:"name"`
	Text string `yaml:"text,omitempty"`
	Path string `yaml:"path,omitempty"`
}

// labelDoc references its source by index into reportDoc.Sources.
type labelDoc struct {
	Source   int    `yaml:"source"`
	Start    int    `yaml:"start"`
	End      int    `yaml:"end"`
	Message  string `yaml:"message,omitempty"`
	Width    int    `yaml:"message_width,omitempty"`
	Order    int    `yaml:"order,omitempty"`
	Priority int    `yaml:"priority,omitempty"`
}

// MarshalReport encodes r's accumulated inputs as yaml, so a diagnostic
// can be captured, stored alongside test fixtures, and replayed later
// with UnmarshalReport.
func MarshalReport(r *Report) ([]byte, error) {
	doc := reportDoc{
		Level:  int(r.level),
		Custom: r.custom,
		Title:  r.title,
		Code:   r.code,
		Help:   r.help,
		Notes:  r.notes,
	}

	idx := make(map[int]int, len(r.sources))
	for i, h := range r.sources {
		idx[h.id] = i
		switch s := h.source.(type) {
		case *MemorySource:
			doc.Sources = append(doc.Sources, sourceDoc{Name: s.name, Text: s.text})
		case *FileSource:
			doc.Sources = append(doc.Sources, sourceDoc{Name: s.path, Path: s.path})
		default:
			text, err := h.source.Text()
			if err != nil {
				return nil, err
			}
			doc.Sources = append(doc.Sources, sourceDoc{Name: h.source.Name(), Text: text})
		}
	}

	for i := range r.labels {
		lbl := &r.labels[i]
		doc.Labels = append(doc.Labels, labelDoc{
			Source:   idx[lbl.srcID],
			Start:    lbl.start,
			End:      lbl.end,
			Message:  lbl.message,
			Width:    lbl.messageWidth,
			Order:    lbl.order,
			Priority: lbl.priority,
		})
	}

	data, err := yaml.Marshal(doc)
	if err != nil {
		return nil, wrapf(ErrParam, "musubi: encoding report: %v", err)
	}
	return data, nil
}

// UnmarshalReport decodes a MarshalReport document and appends its
// contents to r: sources are attached (memory-backed inline, file-backed
// re-read from their path on first use) and labels are replayed against
// the fresh source ids. Header and footer fields are only overwritten
// when the document carries them.
func UnmarshalReport(r *Report, data []byte) error {
	var doc reportDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return wrapf(ErrParam, "musubi: parsing report: %v", err)
	}

	if doc.Level != 0 || doc.Custom != "" || doc.Title != "" {
		r.Title(Level(doc.Level), doc.Custom, doc.Title)
	}
	if doc.Code != "" {
		r.Code(doc.Code)
	}
	for _, h := range doc.Help {
		r.Help(h)
	}
	for _, n := range doc.Notes {
		r.Note(n)
	}

	ids := make([]int, len(doc.Sources))
	for i, s := range doc.Sources {
		var src Source
		if s.Path != "" {
			src = NewFileSource(s.Path)
		} else {
			src = NewMemorySource(s.Name, s.Text)
		}
		ids[i] = r.Source(src)
	}

	for _, l := range doc.Labels {
		if l.Source < 0 || l.Source >= len(ids) {
			return wrapf(ErrSource, "musubi: label references source %d of %d", l.Source, len(ids))
		}
		if err := r.Label(ids[l.Source], l.Start, l.End); err != nil {
			return err
		}
		if l.Message != "" || l.Width != 0 {
			if err := r.Message(l.Message, l.Width); err != nil {
				return err
			}
		}
		if l.Order != 0 {
			if err := r.Order(l.Order); err != nil {
				return err
			}
		}
		if l.Priority != 0 {
			if err := r.Priority(l.Priority); err != nil {
				return err
			}
		}
	}
	return nil
}

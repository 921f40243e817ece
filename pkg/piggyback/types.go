// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package piggyback

import (
	"fmt"
	"sort"

	"github.com/NVIDIA/kube-telemetry/pkg/errors"
)

// TargetData is one element's contribution to a section, used by
// Group.Join to fan data out across piggyback targets in a stable
// order.
type TargetData struct {
	Target string
	Data   map[string]any
}

// Group holds one Element per piggyback target, in creation order.
type Group struct {
	elements []*namedElement
}

type namedElement struct {
	name    string
	element *Element
}

// NewGroup returns an empty group.
func NewGroup() *Group {
	return &Group{}
}

// Get returns the element for the named target, creating it on first
// access.
func (g *Group) Get(name string) *Element {
	for _, e := range g.elements {
		if e.name == name {
			return e.element
		}
	}
	e := &namedElement{name: name, element: NewElement()}
	g.elements = append(g.elements, e)
	return e.element
}

// Join inserts each pair's data into the named section of the pair's
// target element. Targets are created as needed, so the first Join
// call fixes the element order of the rendered group.
func (g *Group) Join(sectionName string, pairs []TargetData) error {
	for _, pair := range pairs {
		if err := g.Get(pair.Target).Get(sectionName).Insert(pair.Data); err != nil {
			return errors.Wrap(errors.ErrCodeInternal,
				fmt.Sprintf("joining section %s for target %s", sectionName, pair.Target), err)
		}
	}
	return nil
}

// Output renders every element wrapped in piggyback markers, one line
// per slice entry.
func (g *Group) Output() ([]string, error) {
	var data []string
	for _, e := range g.elements {
		lines, err := e.element.Output()
		if err != nil {
			return nil, err
		}
		data = append(data, fmt.Sprintf("<<<<%s>>>>", e.name))
		data = append(data, lines...)
		data = append(data, "<<<<>>>>")
	}
	return data, nil
}

// Element bundles named sections in creation order.
type Element struct {
	sections []*namedSection
}

type namedSection struct {
	name    string
	section *Section
}

// NewElement returns an empty element.
func NewElement() *Element {
	return &Element{}
}

// Get returns the named section, creating it on first access.
func (e *Element) Get(name string) *Section {
	for _, s := range e.sections {
		if s.name == name {
			return s.section
		}
	}
	s := &namedSection{name: name, section: NewSection()}
	e.sections = append(e.sections, s)
	return s.section
}

// Output renders every section as a header line followed by its JSON
// payload line.
func (e *Element) Output() ([]string, error) {
	var data []string
	for _, s := range e.sections {
		payload, err := s.section.Output()
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal,
				fmt.Sprintf("rendering section %s", s.name), err)
		}
		data = append(data, fmt.Sprintf("<<<%s:sep(0)>>>", s.name))
		data = append(data, payload)
	}
	return data, nil
}

// Section is a single agent section: a JSON object rendered on one
// line. Top-level keys keep the order they were first inserted in.
type Section struct {
	keys    []string
	content map[string]any
}

// NewSection returns an empty section.
func NewSection() *Section {
	return &Section{content: make(map[string]any)}
}

// Insert merges data into the section. A key not yet present is
// adopted as is. A key already present is merged one level deep when
// both values are objects; inserting a scalar under an existing key
// reports ErrCodeDuplicateKey. Keys introduced by a single call are
// recorded in sorted order so rendering stays deterministic.
func (s *Section) Insert(data map[string]any) error {
	keys := make([]string, 0, len(data))
	for key := range data {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		value := data[key]
		existing, ok := s.content[key]
		if !ok {
			s.keys = append(s.keys, key)
			s.content[key] = value
			continue
		}
		incoming, incomingIsMap := value.(map[string]any)
		target, existingIsMap := existing.(map[string]any)
		if !incomingIsMap || !existingIsMap {
			return errors.NewWithContext(errors.ErrCodeDuplicateKey,
				"key is already present and cannot be merged",
				map[string]any{"key": key})
		}
		for k, v := range incoming {
			target[k] = v
		}
	}
	return nil
}

// Output renders the section payload as a single JSON line.
func (s *Section) Output() (string, error) {
	b := []byte{'{'}
	for i, key := range s.keys {
		if i > 0 {
			b = append(b, ", "...)
		}
		b = appendString(b, key)
		b = append(b, ": "...)
		var err error
		b, err = appendValue(b, s.content[key])
		if err != nil {
			return "", err
		}
	}
	b = append(b, '}')
	return string(b), nil
}

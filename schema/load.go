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

package schema

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

type yamlSchema struct {
	Language string     `yaml:"language"`
	Kinds    []yamlKind `yaml:"kinds"`
}

type yamlKind struct {
	Name      string   `yaml:"name"`
	Token     string   `yaml:"token"`
	Slots     []string `yaml:"slots"`
	Template  []string `yaml:"template"`
	Separator *string  `yaml:"separator"`
}

// Load decodes and validates the YAML form of a language schema.
//
// The expected document shape is
//
//	language: calc
//	kinds:
//	  - name: Identifier
//	    token: identifier
//	  - name: Def
//	    slots: [name, value]
//	    template: [$name, "=", $value]
//	  - name: DefList
//	    separator: "; "
//
// Each kind is given exactly one shape: a token class (one of identifier,
// number, string, punct), slots plus a template, or a list separator.
// Template entries starting with $ reference a slot by name; everything
// else is emitted literally. A literal starting with a dollar sign can be
// written by doubling it, as in "$$x". Every slot must be rendered by the
// template exactly once.
func Load(text []byte) (*Schema, error) {
	var raw yamlSchema
	dec := yaml.NewDecoder(bytes.NewReader(text))
	dec.KnownFields(true)
	if err := dec.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("schema: empty input")
		}
		return nil, fmt.Errorf("schema: %w", err)
	}

	if raw.Language == "" {
		return nil, errors.New("schema: missing language name")
	}
	if len(raw.Kinds) == 0 {
		return nil, fmt.Errorf("schema: language %q defines no kinds", raw.Language)
	}

	s := &Schema{
		language: raw.Language,
		kinds:    make([]kindSpec, 0, len(raw.Kinds)),
		byName:   make(map[string]uint32, len(raw.Kinds)),
	}
	for _, kind := range raw.Kinds {
		spec, err := kind.build()
		if err != nil {
			return nil, fmt.Errorf("schema: %w", err)
		}
		if _, ok := s.byName[spec.name]; ok {
			return nil, fmt.Errorf("schema: kind %q defined multiple times", spec.name)
		}
		s.kinds = append(s.kinds, spec)
		s.byName[spec.name] = uint32(len(s.kinds))
	}
	return s, nil
}

var classes = map[string]TokenClass{
	"identifier": ClassIdentifier,
	"number":     ClassNumber,
	"string":     ClassString,
	"punct":      ClassPunct,
}

func (y yamlKind) build() (kindSpec, error) {
	spec := kindSpec{name: y.Name}
	if y.Name == "" {
		return spec, errors.New("kind with no name")
	}

	isToken := y.Token != ""
	isFixed := len(y.Slots) > 0 || len(y.Template) > 0
	isList := y.Separator != nil

	switch {
	case isToken && (isFixed || isList), isFixed && isList:
		return spec, fmt.Errorf("kind %q mixes shapes", y.Name)

	case isToken:
		class, ok := classes[y.Token]
		if !ok {
			return spec, fmt.Errorf("kind %q has unknown token class %q", y.Name, y.Token)
		}
		spec.shape = ShapeToken
		spec.class = class

	case isList:
		spec.shape = ShapeList
		spec.separator = *y.Separator

	case isFixed:
		spec.shape = ShapeFixed
		if len(y.Slots) == 0 {
			return spec, fmt.Errorf("kind %q has a template but no slots", y.Name)
		}
		if len(y.Template) == 0 {
			return spec, fmt.Errorf("kind %q has slots but no template", y.Name)
		}
		spec.slots = slices.Clone(y.Slots)

		slotIdx := make(map[string]int32, len(y.Slots))
		for i, slot := range y.Slots {
			if slot == "" {
				return spec, fmt.Errorf("kind %q has an unnamed slot", y.Name)
			}
			if _, ok := slotIdx[slot]; ok {
				return spec, fmt.Errorf("kind %q has two slots named %q", y.Name, slot)
			}
			slotIdx[slot] = int32(i) + 1
		}

		rendered := make([]bool, len(y.Slots))
		for _, piece := range y.Template {
			if strings.HasPrefix(piece, "$$") {
				spec.template = append(spec.template, Piece{literal: piece[1:]})
				continue
			}
			role, ok := strings.CutPrefix(piece, "$")
			if !ok {
				spec.template = append(spec.template, Piece{literal: piece})
				continue
			}
			idx, ok := slotIdx[role]
			if !ok {
				return spec, fmt.Errorf("template for kind %q references unknown slot %q", y.Name, role)
			}
			if rendered[idx-1] {
				return spec, fmt.Errorf("template for kind %q renders slot %q twice", y.Name, role)
			}
			rendered[idx-1] = true
			spec.template = append(spec.template, Piece{slot: idx})
		}
		for i, ok := range rendered {
			if !ok {
				return spec, fmt.Errorf("template for kind %q never renders slot %q", y.Name, y.Slots[i])
			}
		}

	default:
		return spec, fmt.Errorf("kind %q has no shape; give it a token class, slots and a template, or a separator", y.Name)
	}

	return spec, nil
}

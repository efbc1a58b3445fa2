// Package practice holds the practice library and the rule-based recommender.
package practice

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/easeaico/project-integrate/internal/types"
)

// Practice types referenced by the recommender.
const (
	TypePolyvagal      = "polyvagal"
	TypeParts          = "parts"
	TypeSomatic        = "somatic"
	TypeBreathing      = "breathing"
	TypeOrienting      = "orienting"
	TypeSelfCompassion = "self_compassion"
)

var requiredTypes = []string{
	TypePolyvagal,
	TypeParts,
	TypeSomatic,
	TypeBreathing,
	TypeOrienting,
	TypeSelfCompassion,
}

//go:embed library.yaml
var embeddedLibrary []byte

// Library is the read-only practice catalogue.
type Library struct {
	practices []types.Practice
	byID      map[string]int
	byType    map[string]int
}

type libraryFile struct {
	Practices []types.Practice `yaml:"practices"`
}

// LoadLibrary reads the practice library from path, or the built-in library when path is empty.
func LoadLibrary(path string) (*Library, error) {
	data := embeddedLibrary
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read practice library: %w", err)
		}
		data = raw
	}
	return ParseLibrary(data)
}

// DefaultLibrary returns the built-in library. It panics if the embedded file is invalid.
func DefaultLibrary() *Library {
	lib, err := ParseLibrary(embeddedLibrary)
	if err != nil {
		panic(err)
	}
	return lib
}

// ParseLibrary decodes and validates a YAML practice library.
func ParseLibrary(data []byte) (*Library, error) {
	var file libraryFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse practice library: %w", err)
	}

	lib := &Library{
		practices: file.Practices,
		byID:      make(map[string]int, len(file.Practices)),
		byType:    make(map[string]int),
	}
	for i, p := range file.Practices {
		if p.ID == "" || p.Title == "" || p.Type == "" {
			return nil, fmt.Errorf("practice %d: id, type and title are required", i)
		}
		if _, dup := lib.byID[p.ID]; dup {
			return nil, fmt.Errorf("duplicate practice id %q", p.ID)
		}
		switch p.Urgency {
		case types.UrgencyLow, types.UrgencyMedium, types.UrgencyHigh:
		default:
			return nil, fmt.Errorf("practice %q: invalid urgency %q", p.ID, p.Urgency)
		}
		lib.byID[p.ID] = i
		if _, ok := lib.byType[p.Type]; !ok {
			lib.byType[p.Type] = i
		}
	}
	for _, t := range requiredTypes {
		if _, ok := lib.byType[t]; !ok {
			return nil, fmt.Errorf("practice library has no %q practice", t)
		}
	}
	return lib, nil
}

// All returns a copy of every practice.
func (l *Library) All() []types.Practice {
	out := make([]types.Practice, len(l.practices))
	for i, p := range l.practices {
		out[i] = clonePractice(p)
	}
	return out
}

// ByID returns the practice with id.
func (l *Library) ByID(id string) (*types.Practice, bool) {
	i, ok := l.byID[id]
	if !ok {
		return nil, false
	}
	p := clonePractice(l.practices[i])
	return &p, true
}

func (l *Library) byKind(kind string) types.Practice {
	return clonePractice(l.practices[l.byType[kind]])
}

func clonePractice(p types.Practice) types.Practice {
	p.Steps = append([]string(nil), p.Steps...)
	return p
}

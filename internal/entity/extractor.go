// Package entity extracts thematic mentions from conversation text.
package entity

import (
	"slices"
	"strings"

	"github.com/easeaico/project-integrate/internal/types"
	"github.com/easeaico/project-integrate/internal/utils"
)

// MaxEntities caps the entities returned for one text.
const MaxEntities = 5

const (
	wholeWordConfidence   = 0.9
	partialWordConfidence = 0.7
)

// Extractor applies the category patterns to text.
type Extractor struct {
	patterns map[types.EntityCategory][]pattern
}

// NewExtractor returns an Extractor over the built-in vocabularies.
func NewExtractor() *Extractor {
	return &Extractor{patterns: compileCategories()}
}

type entityKey struct {
	name     string
	category types.EntityCategory
}

// Extract returns at most MaxEntities entities found in text. Categories are
// scanned in types.AllCategories order; a nil or empty list scans all of them.
func (e *Extractor) Extract(text string, categories []types.EntityCategory) []types.Entity {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	enabled := make(map[types.EntityCategory]bool, len(types.AllCategories))
	for _, c := range categories {
		enabled[c] = true
	}

	seen := make(map[entityKey]struct{})
	var out []types.Entity
	for _, category := range types.AllCategories {
		if len(categories) > 0 && !enabled[category] {
			continue
		}
		for _, p := range e.patterns[category] {
			for _, found := range e.matches(text, p) {
				key := entityKey{name: found.Name, category: category}
				if _, ok := seen[key]; ok {
					continue
				}
				seen[key] = struct{}{}
				found.Category = category
				out = append(out, found)
				if len(out) == MaxEntities {
					return out
				}
			}
		}
	}
	return out
}

func (e *Extractor) matches(text string, p pattern) []types.Entity {
	var out []types.Entity
	if p.term == "" {
		for _, m := range p.re.FindAllStringSubmatch(text, -1) {
			name, ok := partName(m)
			if !ok {
				continue
			}
			out = append(out, types.Entity{
				Name:           name,
				ContextSnippet: utils.SentenceContaining(text, m[0]),
				Confidence:     wholeWordConfidence,
			})
		}
		return out
	}

	for _, surface := range p.re.FindAllString(text, -1) {
		name := strings.ToLower(surface)
		confidence := wholeWordConfidence
		if len(name) > len(p.term) {
			confidence = partialWordConfidence
		}
		out = append(out, types.Entity{
			Name:           name,
			ContextSnippet: utils.SentenceContaining(text, surface),
			Confidence:     confidence,
		})
	}
	return out
}

// Names returns the entity names in order, restricted to categories when any are given.
func Names(entities []types.Entity, categories ...types.EntityCategory) []string {
	out := make([]string, 0, len(entities))
	for _, e := range entities {
		if len(categories) == 0 || slices.Contains(categories, e.Category) {
			out = append(out, e.Name)
		}
	}
	return out
}

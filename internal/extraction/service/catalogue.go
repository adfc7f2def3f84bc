package service

import (
	_ "embed"
	"fmt"
	"maps"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed fields.yaml
var fieldsYAML []byte

type fieldEntry struct {
	Label    string   `yaml:"label"`
	Synonyms []string `yaml:"synonyms"`
}

// Catalogue maps instruction wording to refinable fields.
type Catalogue struct {
	Fields     map[string]fieldEntry `yaml:"fields"`
	Categories map[string][]string   `yaml:"categories"`
}

// LoadCatalogue parses a catalogue document.
func LoadCatalogue(doc []byte) (*Catalogue, error) {
	var c Catalogue
	if err := yaml.Unmarshal(doc, &c); err != nil {
		return nil, fmt.Errorf("failed to parse field catalogue: %w", err)
	}
	for keyword, fields := range c.Categories {
		for _, f := range fields {
			if _, ok := c.Fields[f]; !ok {
				return nil, fmt.Errorf("category %q references unknown field %q", keyword, f)
			}
		}
	}
	return &c, nil
}

// DefaultCatalogue returns the embedded catalogue.
func DefaultCatalogue() *Catalogue {
	c, err := LoadCatalogue(fieldsYAML)
	if err != nil {
		panic(err)
	}
	return c
}

// TargetFields lists the fields an instruction refers to, sorted. An empty
// result leaves the choice to the model.
func (c *Catalogue) TargetFields(instruction string) []string {
	msg := strings.ToLower(instruction)
	found := make(map[string]bool)

	for keyword, fields := range c.Categories {
		if strings.Contains(msg, strings.ToLower(keyword)) {
			for _, f := range fields {
				found[f] = true
			}
		}
	}
	for field, entry := range c.Fields {
		for _, synonym := range entry.Synonyms {
			if strings.Contains(msg, strings.ToLower(synonym)) {
				found[field] = true
				break
			}
		}
	}
	return slices.Sorted(maps.Keys(found))
}

// Known reports whether field is refinable.
func (c *Catalogue) Known(field string) bool {
	_, ok := c.Fields[field]
	return ok
}

// Label is the display name of a field, or the key itself.
func (c *Catalogue) Label(field string) string {
	if e, ok := c.Fields[field]; ok && e.Label != "" {
		return e.Label
	}
	return field
}

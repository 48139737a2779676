// ABOUTME: Embedded seed corpus of reply templates
// ABOUTME: Loaded into the store exactly once, when the template table is empty
package core

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/harper/nova/internal/models"
)

//go:embed seeds.yaml
var seedsYAML []byte

type seedFile struct {
	Templates []models.Template `yaml:"templates"`
}

// SeedTemplates parses the embedded corpus
func SeedTemplates() ([]models.Template, error) {
	var f seedFile
	if err := yaml.Unmarshal(seedsYAML, &f); err != nil {
		return nil, fmt.Errorf("failed to parse seed templates: %w", err)
	}
	for i := range f.Templates {
		if strings.TrimSpace(f.Templates[i].Locale) == "" {
			f.Templates[i].Locale = "en"
		}
	}
	return f.Templates, nil
}

// SeedAllIfEmpty loads the corpus unless templates already exist.
// Safe to call on every start.
func SeedAllIfEmpty(store Store) error {
	if store.TemplateCount() > 0 {
		return nil
	}
	rows, err := SeedTemplates()
	if err != nil {
		return err
	}
	store.SeedTemplatesIfEmpty(rows)
	return nil
}

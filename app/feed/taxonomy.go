package feed

import (
	_ "embed"
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed taxonomy.yml
var defaultTaxonomyYAML []byte

// Taxonomy is the data-driven category mapping configuration: ordered
// title-inference term rules plus the per-provider section tables.
type Taxonomy struct {
	Terms            []TermRule        `yaml:"terms"`
	GuardianSections map[string]string `yaml:"guardian_sections"`
	NYTimesSections  map[string]string `yaml:"nytimes_sections"`
}

type TermRule struct {
	Category string   `yaml:"category"`
	Patterns []string `yaml:"patterns"`
}

// LoadTaxonomy returns the embedded default taxonomy, or the parsed
// contents of taxonomyFile when it is set.
func LoadTaxonomy(taxonomyFile string) (*Taxonomy, error) {
	data := defaultTaxonomyYAML

	if taxonomyFile != "" {
		fileData, err := os.ReadFile(taxonomyFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read taxonomy file: %w", err)
		}
		data = fileData
		slog.Debug("Taxonomy loaded from file", "file", taxonomyFile)
	}

	var taxonomy Taxonomy
	if err := yaml.Unmarshal(data, &taxonomy); err != nil {
		return nil, fmt.Errorf("failed to parse taxonomy YAML: %w", err)
	}

	if err := validateTaxonomy(&taxonomy); err != nil {
		return nil, fmt.Errorf("invalid taxonomy: %w", err)
	}

	return &taxonomy, nil
}

func validateTaxonomy(taxonomy *Taxonomy) error {
	if len(taxonomy.Terms) == 0 {
		return fmt.Errorf("at least one term rule is required")
	}

	for i, rule := range taxonomy.Terms {
		if !Category(rule.Category).Valid() {
			return fmt.Errorf("invalid category at term rule %d: %s", i, rule.Category)
		}
		if len(rule.Patterns) == 0 {
			return fmt.Errorf("term rule %d (%s) must have at least one pattern", i, rule.Category)
		}
	}

	sectionTables := map[string]map[string]string{
		"guardian_sections": taxonomy.GuardianSections,
		"nytimes_sections":  taxonomy.NYTimesSections,
	}

	for tableName, table := range sectionTables {
		for section, category := range table {
			if !Category(category).Valid() {
				return fmt.Errorf("invalid category in %s for section '%s': %s", tableName, section, category)
			}
		}
	}

	return nil
}

package feed

import (
	"fmt"
	"regexp"
	"strings"
)

// Classifier maps article metadata to the closed category set. Title
// inference is a pure function over the taxonomy term rules; section
// mapping is a fixed table lookup per provider. Anything unmatched
// falls back to general.
type Classifier struct {
	rules            []classifierRule
	guardianSections map[string]Category
	nytimesSections  map[string]Category
}

type classifierRule struct {
	category Category
	pattern  *regexp.Regexp
}

func NewClassifier(taxonomy *Taxonomy) (*Classifier, error) {
	classifier := &Classifier{
		rules:            make([]classifierRule, 0, len(taxonomy.Terms)),
		guardianSections: make(map[string]Category, len(taxonomy.GuardianSections)),
		nytimesSections:  make(map[string]Category, len(taxonomy.NYTimesSections)),
	}

	for _, rule := range taxonomy.Terms {
		// Word-boundary matching so short terms like "ai" do not fire
		// inside unrelated words ("raises").
		expr := fmt.Sprintf(`(?i)\b(?:%s)\b`, strings.Join(rule.Patterns, "|"))
		pattern, err := regexp.Compile(expr)
		if err != nil {
			return nil, fmt.Errorf("failed to compile term patterns for %s: %w", rule.Category, err)
		}
		classifier.rules = append(classifier.rules, classifierRule{
			category: Category(rule.Category),
			pattern:  pattern,
		})
	}

	for section, category := range taxonomy.GuardianSections {
		classifier.guardianSections[section] = Category(category)
	}
	for section, category := range taxonomy.NYTimesSections {
		classifier.nytimesSections[section] = Category(category)
	}

	return classifier, nil
}

// Classify infers a category from an article title. Rules are checked
// in taxonomy order, first match wins.
func (c *Classifier) Classify(title string) Category {
	for _, rule := range c.rules {
		if rule.pattern.MatchString(title) {
			return rule.category
		}
	}
	return CategoryGeneral
}

// GuardianSection maps a Guardian section id to a canonical category.
func (c *Classifier) GuardianSection(section string) Category {
	if category, ok := c.guardianSections[section]; ok {
		return category
	}
	return CategoryGeneral
}

// NYTimesSection maps a NYT section name to a canonical category.
func (c *Classifier) NYTimesSection(section string) Category {
	if category, ok := c.nytimesSections[section]; ok {
		return category
	}
	return CategoryGeneral
}

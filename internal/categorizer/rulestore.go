package categorizer

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"budget-dashboard/internal/logging"
	"budget-dashboard/internal/models"
)

// RuleStore loads the keyword table from a YAML file. The table is
// configuration data, not code: categorization rules can be extended without
// touching parsing logic.
type RuleStore struct {
	File   string
	logger logging.Logger
}

// NewRuleStore creates a store reading the given file name. Relative names
// are searched in the standard config locations.
func NewRuleStore(file string, logger logging.Logger) *RuleStore {
	if file == "" {
		file = "categories.yaml"
	}
	return &RuleStore{File: file, logger: logger}
}

// Load reads the rule table. When no file can be found the built-in default
// table is returned; a file that exists but cannot be parsed is an error.
// Keywords are normalized to lowercase and rules naming a category outside
// the enumerated set are skipped with a warning.
func (s *RuleStore) Load() ([]Rule, error) {
	path, err := s.findConfigFile(s.File)
	if err != nil {
		s.logger.WithField("file", s.File).Debug("No categories file found, using built-in rules")
		return DefaultRules(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading categories file: %w", err)
	}

	var file RulesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("error parsing categories file %s: %w", path, err)
	}
	if len(file.Categories) == 0 {
		s.logger.WithField("file", path).Warn("Categories file holds no rules, using built-in rules")
		return DefaultRules(), nil
	}

	rules := make([]Rule, 0, len(file.Categories))
	for _, rule := range file.Categories {
		if !models.ValidCategory(rule.Name) {
			s.logger.WithField("category", rule.Name).Warn("Skipping rule for unknown category")
			continue
		}
		normalized := Rule{Name: rule.Name, Keywords: make([]string, 0, len(rule.Keywords))}
		for _, kw := range rule.Keywords {
			kw = strings.ToLower(strings.TrimSpace(kw))
			if kw != "" {
				normalized.Keywords = append(normalized.Keywords, kw)
			}
		}
		rules = append(rules, normalized)
	}

	s.logger.WithFields(
		logging.Field{Key: "file", Value: path},
		logging.Field{Key: "count", Value: len(rules)},
	).Debug("Loaded category rules")
	return rules, nil
}

// findConfigFile looks for the rule file in standard locations.
func (s *RuleStore) findConfigFile(filename string) (string, error) {
	if filepath.IsAbs(filename) {
		if _, err := os.Stat(filename); err == nil {
			return filename, nil
		}
		return "", os.ErrNotExist
	}

	locations := []string{
		filename,
		filepath.Join("config", filename),
	}
	if homeDir, err := os.UserHomeDir(); err == nil {
		locations = append(locations, filepath.Join(homeDir, ".budget-dashboard", filename))
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location, nil
		}
	}
	return "", os.ErrNotExist
}

// Package categorizer assigns a spending category to a transaction
// description. The primary method is ordered keyword matching against a
// configurable rule table; an AI fallback can optionally be consulted for
// descriptions no rule matches.
package categorizer

import (
	"context"
	"strings"

	"budget-dashboard/internal/logging"
	"budget-dashboard/internal/models"
)

// Engine performs the keyword categorization. It is safe for concurrent use:
// the rule table is read-only after construction.
type Engine struct {
	rules  []Rule
	ai     AIClient
	logger logging.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithAIFallback makes the engine consult client for descriptions no keyword
// rule matches. The keyword result always takes precedence.
func WithAIFallback(client AIClient) Option {
	return func(e *Engine) {
		e.ai = client
	}
}

// New creates an Engine over the given rule table. Keywords are expected
// lowercase (RuleStore and DefaultRules guarantee that).
func New(rules []Rule, logger logging.Logger, opts ...Option) *Engine {
	e := &Engine{rules: rules, logger: logger}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Categorize maps a free-text description to a category. Matching is
// case-insensitive substring search, categories in declared order, keywords
// in declared order, first hit wins. Empty or unmatched descriptions return
// the fallback category; Categorize never fails.
func (e *Engine) Categorize(ctx context.Context, description string) string {
	desc := strings.ToLower(strings.TrimSpace(description))
	if desc == "" {
		return models.CategoryFallback
	}

	for _, rule := range e.rules {
		for _, keyword := range rule.Keywords {
			if strings.Contains(desc, keyword) {
				e.logger.WithFields(
					logging.Field{Key: "keyword", Value: keyword},
					logging.Field{Key: "category", Value: rule.Name},
				).Debug("Description categorized by keyword")
				return rule.Name
			}
		}
	}

	if e.ai != nil {
		if category, ok := e.categorizeWithAI(ctx, description); ok {
			return category
		}
	}

	return models.CategoryFallback
}

// categorizeWithAI asks the AI client for a category. Any failure, and any
// answer outside the enumerated set, degrades to a miss.
func (e *Engine) categorizeWithAI(ctx context.Context, description string) (string, bool) {
	category, err := e.ai.Categorize(ctx, description, models.Categories())
	if err != nil {
		e.logger.WithError(err).Warn("AI categorization failed, using fallback category")
		return "", false
	}
	if !models.ValidCategory(category) {
		e.logger.WithField("category", category).Warn("AI returned a category outside the enumerated set")
		return "", false
	}
	e.logger.WithFields(
		logging.Field{Key: "category", Value: category},
	).Debug("Description categorized by AI fallback")
	return category, true
}

package categorizer

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"budget-dashboard/internal/logging"
)

// AIClient is the interface the engine uses for fallback categorization.
// Implementations interact with an external AI service.
type AIClient interface {
	// Categorize picks one of categories for the given description.
	Categorize(ctx context.Context, description string, categories []string) (string, error)
}

// GeminiClient implements AIClient against the Google Gemini API.
type GeminiClient struct {
	client *genai.Client
	model  *genai.GenerativeModel
	logger logging.Logger
}

// NewGeminiClient creates a Gemini-backed AIClient.
func NewGeminiClient(ctx context.Context, apiKey, model string, logger logging.Logger) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key not set")
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &GeminiClient{
		client: client,
		model:  client.GenerativeModel(model),
		logger: logger,
	}, nil
}

// Close releases the underlying API client.
func (c *GeminiClient) Close() error {
	return c.client.Close()
}

// Categorize prompts the model to pick exactly one category for the
// description and parses the "Category:" line out of the response.
func (c *GeminiClient) Categorize(ctx context.Context, description string, categories []string) (string, error) {
	prompt := fmt.Sprintf(`Categorize the following bank transaction description:
%s

Assign it to exactly one of the following categories:
%s

Respond in this format:
Category: [Selected Category Name]`,
		description,
		strings.Join(categories, ", "))

	resp, err := c.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("gemini API error: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil ||
		len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no response from Gemini API")
	}

	text := fmt.Sprintf("%v", resp.Candidates[0].Content.Parts[0])
	category := extractCategory(text)
	if category == "" {
		return "", fmt.Errorf("no category in Gemini response")
	}

	c.logger.WithFields(
		logging.Field{Key: "description", Value: description},
		logging.Field{Key: "category", Value: category},
	).Debug("Gemini classified description")
	return category, nil
}

// extractCategory parses the model response for the "Category:" line,
// stripping any bracket decoration the model kept from the prompt.
func extractCategory(response string) string {
	for _, line := range strings.Split(response, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "Category:") {
			continue
		}
		category := strings.TrimSpace(strings.TrimPrefix(line, "Category:"))
		category = strings.Trim(category, "[]")
		return strings.TrimSpace(category)
	}
	return ""
}

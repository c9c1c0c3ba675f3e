// Package gemini connects to the Gemini API and holds the helpers shared by
// document extraction and the assistant.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// ErrNotConfigured is returned when no API key is available
var ErrNotConfigured = errors.New("generative AI API key not configured")

// Generator is the part of the genai client the service calls
type Generator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// NewGenerator creates a Gemini API client
func NewGenerator(ctx context.Context, apiKey string) (Generator, error) {
	if apiKey == "" {
		return nil, ErrNotConfigured
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}
	return client.Models, nil
}

// Text returns the text of the first candidate, or an error when the model
// produced nothing
func Text(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", errors.New("empty response from model")
	}
	return resp.Text(), nil
}

// Sources lists the web pages a grounded answer was based on
func Sources(resp *genai.GenerateContentResponse) []Source {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].GroundingMetadata == nil {
		return nil
	}

	var sources []Source
	seen := make(map[string]bool)
	for _, chunk := range resp.Candidates[0].GroundingMetadata.GroundingChunks {
		if chunk == nil || chunk.Web == nil || chunk.Web.URI == "" || seen[chunk.Web.URI] {
			continue
		}
		seen[chunk.Web.URI] = true
		sources = append(sources, Source{Title: chunk.Web.Title, URI: chunk.Web.URI})
	}
	return sources
}

// Source is a web reference cited by a grounded answer
type Source struct {
	Title string `json:"title"`
	URI   string `json:"uri"`
}

// CleanJSON strips Markdown fences and surrounding prose from a model reply
// and returns the outermost JSON object, else the outermost array, else "{}"
func CleanJSON(text string) string {
	clean := strings.ReplaceAll(text, "```json", "")
	clean = strings.ReplaceAll(clean, "```", "")

	if start, end := strings.Index(clean, "{"), strings.LastIndex(clean, "}"); start != -1 && end > start {
		return clean[start : end+1]
	}
	if start, end := strings.Index(clean, "["), strings.LastIndex(clean, "]"); start != -1 && end > start {
		return clean[start : end+1]
	}
	return "{}"
}

// Ptr returns a pointer to v
func Ptr[T any](v T) *T {
	return &v
}

package caption

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/tejakonduru/caption-serve/logger"
	"google.golang.org/genai"
)

const defaultModel = "gemini-2.0-flash"

// Gemini generates captions through the Gemini multimodal API, one request
// per language. Best effort only: no retries, default client timeouts.
type Gemini struct {
	client *genai.Client
	model  string

	// describe performs one per-language model call; a field so the
	// fallback behavior stays testable without a live client.
	describe func(ctx context.Context, data []byte, mimeType, language string) (string, error)
}

// NewGemini builds the adapter. A missing API key is a configuration error,
// not something to discover one upload at a time.
func NewGemini(ctx context.Context, apiKey string) (*Gemini, error) {
	if apiKey == "" {
		return nil, errors.New("GEMINI_API_KEY not set")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	g := &Gemini{client: client, model: defaultModel}
	g.describe = g.callModel
	return g, nil
}

// Generate asks for one caption per language. If any request fails the whole
// result is the fallback triple, so callers never see a partial Set.
func (g *Gemini) Generate(ctx context.Context, data []byte, mimeType string) Set {
	var out Set
	targets := []struct {
		language string
		dst      *string
	}{
		{"English", &out.English},
		{"Telugu", &out.Telugu},
		{"Hindi", &out.Hindi},
	}

	for _, t := range targets {
		text, err := g.describe(ctx, data, mimeType, t.language)
		if err != nil {
			logger.Log.Warnw("caption request failed", "language", t.language, "error", err)
			return Fallback
		}
		*t.dst = text
	}

	return out
}

func languagePrompt(language string) string {
	return fmt.Sprintf("Describe this image in detail in 2-3 sentences in %s.", language)
}

func (g *Gemini) callModel(ctx context.Context, data []byte, mimeType, language string) (string, error) {
	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromBytes(data, mimeType),
			genai.NewPartFromText(languagePrompt(language)),
		}, genai.RoleUser),
	}

	result, err := g.client.Models.GenerateContent(ctx, g.model, contents, &genai.GenerateContentConfig{})
	if err != nil {
		return "", err
	}

	text := strings.TrimSpace(result.Text())
	if text == "" {
		return "", errors.New("no caption text in response")
	}

	return text, nil
}

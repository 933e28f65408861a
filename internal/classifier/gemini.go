package classifier

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

type gemini struct {
	client *genai.Client
	model  string
}

func newGemini(ctx context.Context, apiKey, model string) (*gemini, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	return &gemini{client: client, model: model}, nil
}

func (g *gemini) Name() string {
	return "gemini:" + g.model
}

func (g *gemini) Generate(ctx context.Context, img *Image, prompt string) (string, error) {
	parts := []*genai.Part{
		genai.NewPartFromBytes(img.Data, img.ContentType),
		genai.NewPartFromText(prompt),
	}
	contents := []*genai.Content{
		genai.NewContentFromParts(parts, genai.RoleUser),
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   judgmentSchema(),
	})
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("empty response")
	}
	return text, nil
}

func judgmentSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"lightsOn": {
				Type:        genai.TypeBoolean,
				Description: "Whether the lights in the ceiling are turned on.",
			},
			"confidence": {
				Type:        genai.TypeNumber,
				Description: "Confidence level of the assessment, from 0.0 to 1.0.",
			},
			"explanation": {
				Type:        genai.TypeString,
				Description: "Brief reason for the assessment.",
			},
		},
		Required: []string{"lightsOn", "confidence", "explanation"},
	}
}

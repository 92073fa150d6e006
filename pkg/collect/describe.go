package collect

import (
	"context"
	"fmt"
	"os"
	"strings"

	"google.golang.org/genai"
	"k8s.io/klog/v2"
)

// DefaultModel is the Gemini model used for alt text.
var DefaultModel = "gemini-2.5-flash"

var describePrompt = "Write alt text for this photo: one plain sentence, under 20 words, " +
	"describing what is visible for someone who cannot see it. " +
	"Do not start with 'photo of' or 'image of'. Do not use quotes."

// Describer generates image descriptions with Gemini.
type Describer struct {
	client *genai.Client
	model  string
}

// NewDescriber returns a Describer using the Gemini API.
func NewDescriber(ctx context.Context, apiKey string, model string) (*Describer, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("genai client: %w", err)
	}
	if model == "" {
		model = DefaultModel
	}
	return &Describer{client: client, model: model}, nil
}

// Describe returns a one-sentence description of the JPEG at path.
func (d *Describer) Describe(ctx context.Context, path string) (string, error) {
	bs, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}

	parts := []*genai.Part{
		genai.NewPartFromBytes(bs, "image/jpeg"),
		genai.NewPartFromText(describePrompt),
	}
	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}

	resp, err := d.client.Models.GenerateContent(ctx, d.model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("generate: %w", err)
	}

	text := cleanDescription(resp.Text())
	klog.V(1).Infof("described %s: %q", path, text)
	return text, nil
}

// cleanDescription trims model output down to a single line.
func cleanDescription(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	return strings.Trim(strings.TrimSpace(s), `"'`)
}

package llm

import (
	"context"
	"fmt"
	"iter"

	"github.com/PabloGalante/mul/internal/domain"
	"google.golang.org/genai"
)

// GeminiConfig selects the Gemini API (API key) or Vertex AI (project and
// location) backend.
type GeminiConfig struct {
	APIKey    string
	Vertex    bool
	ProjectID string
	Location  string
	ModelName string
}

type GeminiClient struct {
	client    *genai.Client
	modelName string
}

// NewGeminiClient creates an LLMClient backed by Gemini.
func NewGeminiClient(ctx context.Context, cfg GeminiConfig) (*GeminiClient, error) {
	cc := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.Vertex {
		if cfg.ProjectID == "" || cfg.Location == "" {
			return nil, fmt.Errorf("vertex backend needs project and location: %w", domain.ErrMissingCredentials)
		}
		cc = &genai.ClientConfig{
			Project:  cfg.ProjectID,
			Location: cfg.Location,
			Backend:  genai.BackendVertexAI,
		}
	} else if cfg.APIKey == "" {
		return nil, domain.ErrMissingCredentials
	}

	modelName := cfg.ModelName
	if modelName == "" {
		modelName = "gemini-2.5-flash"
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}

	return &GeminiClient{
		client:    client,
		modelName: modelName,
	}, nil
}

// StartChat opens a chat with Mul's persona as the system instruction.
func (g *GeminiClient) StartChat(ctx context.Context, cfg domain.ChatConfig) (domain.ChatSession, error) {
	temp := cfg.Temperature
	gcfg := &genai.GenerateContentConfig{
		// the system instruction is sent with the user role, like the official examples
		SystemInstruction: genai.NewContentFromText(SystemInstruction, genai.RoleUser),
		Temperature:       &temp,
		CandidateCount:    cfg.CandidateCount,
	}

	chat, err := g.client.Chats.Create(ctx, g.modelName, gcfg, nil)
	if err != nil {
		return nil, fmt.Errorf("gemini create chat: %w", err)
	}
	return &geminiChat{chat: chat}, nil
}

// GenerateStructured asks for a JSON document constrained by the shape's schema.
func (g *GeminiClient) GenerateStructured(ctx context.Context, req domain.StructuredRequest) (string, error) {
	prompt, err := renderPrompt(req)
	if err != nil {
		return "", err
	}

	cfg := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   responseSchema(req.Shape),
	}

	contents := []*genai.Content{genai.NewContentFromText(prompt, genai.RoleUser)}
	res, err := g.client.Models.GenerateContent(ctx, g.modelName, contents, cfg)
	if err != nil {
		return "", fmt.Errorf("gemini generate content: %w", err)
	}

	text := res.Text()
	if text == "" {
		return "", fmt.Errorf("gemini returned empty text")
	}
	return text, nil
}

type geminiChat struct {
	chat *genai.Chat
}

func (c *geminiChat) SendStream(ctx context.Context, text string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		for res, err := range c.chat.SendStream(ctx, genai.NewPartFromText(text)) {
			if err != nil {
				yield("", fmt.Errorf("gemini stream: %w", err))
				return
			}
			if delta := res.Text(); delta != "" {
				if !yield(delta, nil) {
					return
				}
			}
		}
	}
}

func responseSchema(shape domain.ResponseShape) *genai.Schema {
	switch shape {
	case domain.ShapeIntervention:
		return &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"mood": {
					Type: genai.TypeString,
					Enum: []string{"happy", "sad", "calm", "curious", "thinking", "listening", "celebrating"},
				},
				"reasoning": {
					Type:        genai.TypeString,
					Description: "At most five words.",
				},
				"recommendedMode": {
					Type: genai.TypeString,
					Enum: []string{"CHAT", "BREATHING", "TODO", "JOURNAL", "GROUNDING"},
				},
			},
			PropertyOrdering: []string{"mood", "reasoning", "recommendedMode"},
			Required:         []string{"mood", "reasoning", "recommendedMode"},
		}
	case domain.ShapeTaskList:
		return &genai.Schema{
			Type:     genai.TypeArray,
			Items:    &genai.Schema{Type: genai.TypeString},
			MinItems: genai.Ptr[int64](3),
			MaxItems: genai.Ptr[int64](5),
		}
	default:
		return nil
	}
}

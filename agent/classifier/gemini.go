package classifier

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	contractx "github.com/tanpawarit/realty-assistant/agent/contract"
	"google.golang.org/api/option"
)

type GeminiConfig struct {
	APIKey      string
	Model       string
	Temperature float32
	MaxTokens   int
}

// GeminiClassifier asks a Gemini model for the same {tool, parameters,
// response} object the eino graph expects.
type GeminiClassifier struct {
	client      *genai.Client
	modelName   string
	temperature float32
	maxTokens   int32
}

var _ contractx.Classifier = (*GeminiClassifier)(nil)

func NewGemini(ctx context.Context, cfg GeminiConfig) (*GeminiClassifier, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, fmt.Errorf("%w: gemini api key is required", contractx.ErrValidation)
	}
	modelName := strings.TrimSpace(cfg.Model)
	if modelName == "" {
		return nil, fmt.Errorf("%w: gemini model is required", contractx.ErrValidation)
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("%w: create gemini client: %v", contractx.ErrModelInvoke, err)
	}
	return &GeminiClassifier{
		client:      client,
		modelName:   modelName,
		temperature: cfg.Temperature,
		maxTokens:   int32(cfg.MaxTokens),
	}, nil
}

func (g *GeminiClassifier) Close() error {
	if g == nil || g.client == nil {
		return nil
	}
	return g.client.Close()
}

func (g *GeminiClassifier) Classify(ctx context.Context, req contractx.ClassifyRequest) (contractx.Classification, error) {
	if err := validateRequest(req); err != nil {
		return contractx.Classification{}, err
	}

	// the system instruction changes per client, so each call gets its own model handle
	model := g.client.GenerativeModel(g.modelName)
	model.ResponseMIMEType = "application/json"
	model.SetTemperature(g.temperature)
	if g.maxTokens > 0 {
		model.SetMaxOutputTokens(g.maxTokens)
	}
	model.SystemInstruction = genai.NewUserContent(genai.Text(req.SystemPrompt))

	session := model.StartChat()
	session.History = geminiHistory(req.History)

	resp, err := session.SendMessage(ctx, genai.Text(req.Message))
	if err != nil {
		return contractx.Classification{}, fmt.Errorf("%w: gemini generate: %v", contractx.ErrModelInvoke, err)
	}

	text, err := responseText(resp)
	if err != nil {
		return contractx.Classification{}, err
	}

	var out llmOutput
	if err := json.Unmarshal([]byte(stripFences(text)), &out); err != nil {
		return contractx.Classification{}, fmt.Errorf("%w: parse gemini json: %v", contractx.ErrSchemaViolation, err)
	}
	return toClassification(out)
}

func geminiHistory(turns []contractx.Turn) []*genai.Content {
	history := make([]*genai.Content, 0, len(turns)*2)
	for _, t := range turns {
		if strings.TrimSpace(t.UserMessage) != "" {
			history = append(history, &genai.Content{Role: "user", Parts: []genai.Part{genai.Text(t.UserMessage)}})
		}
		if strings.TrimSpace(t.Response) != "" {
			history = append(history, &genai.Content{Role: "model", Parts: []genai.Part{genai.Text(t.Response)}})
		}
	}
	return history
}

func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("%w: %v", contractx.ErrModelInvoke, errors.New("no response candidates from gemini"))
	}

	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			b.WriteString(string(txt))
		}
	}
	return b.String(), nil
}

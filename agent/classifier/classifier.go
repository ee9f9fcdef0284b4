package classifier

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
	contractx "github.com/tanpawarit/realty-assistant/agent/contract"
	llmx "github.com/tanpawarit/realty-assistant/agent/llm"
	openrouterx "github.com/tanpawarit/realty-assistant/pkg/openrouter"
)

type llmOutput struct {
	Tool       string          `json:"tool"`
	Parameters json.RawMessage `json:"parameters"`
	Response   string          `json:"response"`
}

// Classifier picks a tool for a chat message through an eino chat model.
type Classifier struct {
	runner compose.Runnable[map[string]any, llmOutput]
}

var _ contractx.Classifier = (*Classifier)(nil)

func New(ctx context.Context, chatModel einomodel.BaseChatModel) (*Classifier, error) {
	if chatModel == nil {
		return nil, errors.New("chat model is required")
	}
	runner, err := compileClassifierGraph(ctx, chatModel)
	if err != nil {
		return nil, fmt.Errorf("%w: compile classifier graph: %v", contractx.ErrModelInvoke, err)
	}
	return &Classifier{runner: runner}, nil
}

func (c *Classifier) Classify(ctx context.Context, req contractx.ClassifyRequest) (contractx.Classification, error) {
	if err := validateRequest(req); err != nil {
		return contractx.Classification{}, err
	}

	out, err := c.runner.Invoke(ctx, map[string]any{
		varSystem:  req.SystemPrompt,
		varHistory: historyMessages(req.History),
		varInput:   req.Message,
	})
	if err != nil {
		return contractx.Classification{}, fmt.Errorf("%w: classifier invoke: %v", contractx.ErrModelInvoke, err)
	}
	return toClassification(out)
}

func validateRequest(req contractx.ClassifyRequest) error {
	if strings.TrimSpace(req.SystemPrompt) == "" {
		return fmt.Errorf("%w: system prompt", contractx.ErrPromptMissing)
	}
	if strings.TrimSpace(req.Message) == "" {
		return fmt.Errorf("%w: message is required", contractx.ErrValidation)
	}
	return nil
}

func historyMessages(turns []contractx.Turn) []*schema.Message {
	msgs := make([]*schema.Message, 0, len(turns)*2)
	for _, t := range turns {
		if strings.TrimSpace(t.UserMessage) != "" {
			msgs = append(msgs, schema.UserMessage(t.UserMessage))
		}
		if strings.TrimSpace(t.Response) != "" {
			msgs = append(msgs, schema.AssistantMessage(t.Response, nil))
		}
	}
	return msgs
}

func toClassification(out llmOutput) (contractx.Classification, error) {
	tool, err := contractx.ParseToolName(out.Tool)
	if err != nil {
		return contractx.Classification{}, err
	}
	response := strings.TrimSpace(out.Response)
	if response == "" {
		return contractx.Classification{}, fmt.Errorf("%w: response is empty", contractx.ErrSchemaViolation)
	}
	inv, err := contractx.DecodeInvocation(tool, out.Parameters)
	if err != nil {
		return contractx.Classification{}, err
	}
	return contractx.Classification{Invocation: inv, Response: response}, nil
}

// NewFromConfig builds the classifier for the configured provider. The
// returned close function releases provider clients and is never nil.
func NewFromConfig(ctx context.Context, cfg llmx.Config) (contractx.Classifier, func() error, error) {
	noop := func() error { return nil }
	if err := cfg.Validate(); err != nil {
		return nil, noop, err
	}

	switch cfg.ProviderName() {
	case llmx.ProviderGemini:
		g, err := NewGemini(ctx, GeminiConfig{
			APIKey:      cfg.GeminiAPIKey,
			Model:       cfg.GeminiModel,
			Temperature: cfg.Temperature,
			MaxTokens:   cfg.MaxCompletionToken,
		})
		if err != nil {
			return nil, noop, err
		}
		return g, g.Close, nil
	default:
		orCfg := cfg.OpenRouter()
		if cfg.VerifyModel {
			if err := openrouterx.VerifyModel(ctx, openrouterx.NewClient(orCfg), orCfg.Model); err != nil {
				return nil, noop, fmt.Errorf("%w: %v", contractx.ErrValidation, err)
			}
		}
		chatModel, err := orCfg.New(ctx)
		if err != nil {
			return nil, noop, fmt.Errorf("%w: %v", contractx.ErrModelInvoke, err)
		}
		c, err := New(ctx, chatModel)
		if err != nil {
			return nil, noop, err
		}
		return c, noop, nil
	}
}

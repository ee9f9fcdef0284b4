package dispatchnode

import (
	"context"
	"fmt"
	"strings"

	contractx "github.com/tanpawarit/realty-assistant/agent/contract"
)

type PromptRenderer interface {
	Render(actx contractx.AgentContext) (string, error)
}

// Classify sends the rendered system prompt, the trailing history window and
// the new message to the classifier.
func Classify(
	ctx context.Context,
	in *GraphState,
	classifier contractx.Classifier,
	renderer PromptRenderer,
	historyWindow int,
) (*GraphState, error) {
	if in == nil || in.Session == nil {
		return nil, fmt.Errorf("%w: graph session is nil", contractx.ErrValidation)
	}

	systemPrompt, err := renderer.Render(in.Context)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", contractx.ErrPromptMissing, err)
	}

	out, err := classifier.Classify(ctx, contractx.ClassifyRequest{
		SystemPrompt: systemPrompt,
		History:      in.Session.Recent(historyWindow),
		Message:      in.Message,
	})
	if err != nil {
		return nil, err
	}

	in.Classification = out
	return in, nil
}

func DispatchTool(ctx context.Context, in *GraphState, tools contractx.ToolExecutor) (*GraphState, error) {
	if in == nil || in.Session == nil {
		return nil, fmt.Errorf("%w: graph session is nil", contractx.ErrValidation)
	}

	if strings.TrimSpace(in.Classification.Response) == "" {
		return nil, fmt.Errorf("%w: classification has no response", contractx.ErrSchemaViolation)
	}

	res, err := tools.Execute(ctx, in.Classification.Invocation, in.Session, in.Context, in.Selected)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", contractx.ErrToolFailed, in.Classification.Invocation.Tool, err)
	}

	in.ToolResult = res
	in.Result = contractx.ChatResult{
		Response:   in.Classification.Response,
		ToolUsed:   in.Classification.Invocation.Tool,
		ToolResult: res,
	}
	return in, nil
}

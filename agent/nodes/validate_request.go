package dispatchnode

import (
	"strings"
	"time"

	contractx "github.com/tanpawarit/realty-assistant/agent/contract"
	statex "github.com/tanpawarit/realty-assistant/agent/state"
)

var (
	ErrInvalidMessage = contractx.ErrInvalidMessage
	ErrInvalidSession = statex.ErrInvalidSession
)

type GraphInput struct {
	Request contractx.ChatRequest
}

type GraphOutput struct {
	Result contractx.ChatResult
}

type GraphState struct {
	SessionID string
	Message   string
	Selected  []string
	Context   contractx.AgentContext
	Now       time.Time

	CacheKey string
	CacheHit bool

	Session        *statex.Session
	Classification contractx.Classification
	ToolResult     *contractx.ToolResult

	Result contractx.ChatResult
}

func ValidateRequest(in GraphInput, nowFn func() time.Time) (*GraphState, error) {
	sessionID := strings.TrimSpace(in.Request.SessionID)
	if sessionID == "" {
		return nil, ErrInvalidSession
	}

	message := strings.TrimSpace(in.Request.Message)
	if message == "" {
		return nil, ErrInvalidMessage
	}

	selected := make([]string, 0, len(in.Request.SelectedPropertyIDs))
	for _, id := range in.Request.SelectedPropertyIDs {
		if id = strings.TrimSpace(id); id != "" {
			selected = append(selected, id)
		}
	}

	return &GraphState{
		SessionID: sessionID,
		Message:   message,
		Selected:  selected,
		Context:   in.Request.Context,
		Now:       nowFn().UTC(),
	}, nil
}

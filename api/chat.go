package api

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	contractx "github.com/tanpawarit/realty-assistant/agent/contract"
	"github.com/tanpawarit/realty-assistant/records"
)

const chatErrorResponse = "I'm sorry, I'm having trouble processing your request. Please try again."

type chatHandler struct {
	chat    ChatService
	timeout time.Duration
}

type chatRequest struct {
	Message            string                   `json:"message"`
	BrokerData         *contractx.BrokerProfile `json:"brokerData"`
	ClientData         *records.Client          `json:"clientData"`
	SelectedProperties []string                 `json:"selectedProperties"`
	SessionID          string                   `json:"sessionId"`
}

type chatResponse struct {
	Success    bool                  `json:"success"`
	Response   string                `json:"response"`
	ToolUsed   contractx.ToolName    `json:"tool_used,omitempty"`
	ToolResult *contractx.ToolResult `json:"tool_result"`
	SessionID  string                `json:"session_id,omitempty"`
	Cached     bool                  `json:"cached"`
	Error      string                `json:"error,omitempty"`
}

// Chat handles POST /api/chat.
func (h *chatHandler) Chat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		writeError(c, http.StatusBadRequest, "Message is required")
		return
	}

	actx := agentContext(req.BrokerData, req.ClientData)
	sessionID := strings.TrimSpace(req.SessionID)
	if sessionID == "" {
		sessionID = deriveSessionID(actx)
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	result, err := h.chat.Chat(ctx, contractx.ChatRequest{
		SessionID:           sessionID,
		Message:             req.Message,
		SelectedPropertyIDs: req.SelectedProperties,
		Context:             actx,
	})
	if err != nil {
		if errors.Is(err, contractx.ErrInvalidMessage) {
			writeError(c, http.StatusBadRequest, "Message is required")
			return
		}
		log.Ctx(ctx).Error().Err(err).Str("session_id", sessionID).Msg("chat request failed")
		writeJSON(c, http.StatusInternalServerError, chatResponse{
			Success:  false,
			Error:    "Internal server error",
			Response: chatErrorResponse,
		})
		return
	}

	writeJSON(c, http.StatusOK, chatResponse{
		Success:    true,
		Response:   result.Response,
		ToolUsed:   result.ToolUsed,
		ToolResult: result.ToolResult,
		SessionID:  sessionID,
		Cached:     result.Cached,
	})
}

func agentContext(broker *contractx.BrokerProfile, client *records.Client) contractx.AgentContext {
	actx := contractx.AgentContext{Broker: broker}
	if client != nil {
		actx.Client = &contractx.ClientProfile{
			ID:    client.ID,
			Name:  client.Name,
			Phone: client.Phone,
			Email: client.Email,
		}
		if prefs := client.Preferences(); !prefs.IsZero() {
			actx.Client.Preferences = &prefs
		}
	}
	return actx
}

// deriveSessionID keys history by broker and client when the caller did not
// send a session id. Anonymous callers get a fresh session.
func deriveSessionID(actx contractx.AgentContext) string {
	brokerID, clientID := actx.BrokerID(), actx.ClientID()
	if brokerID == "" && clientID == "" {
		return uuid.NewString()
	}
	return "broker:" + brokerID + ":client:" + clientID
}

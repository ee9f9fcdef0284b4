package contract

import (
	"time"

	"github.com/tanpawarit/realty-assistant/lead"
)

type ToolName string

const (
	ToolSearchProperties  ToolName = "search_properties"
	ToolAnalyzeProperty   ToolName = "analyze_property"
	ToolCompareProperties ToolName = "compare_properties"
	ToolAnalyzeMarket     ToolName = "analyze_market"
	ToolSetupShowing      ToolName = "setup_showing"
	ToolGeneralHelp       ToolName = "general_help"
)

var toolNames = []ToolName{
	ToolSearchProperties,
	ToolAnalyzeProperty,
	ToolCompareProperties,
	ToolAnalyzeMarket,
	ToolSetupShowing,
	ToolGeneralHelp,
}

// ToolNames returns the six tools in catalog order.
func ToolNames() []ToolName {
	return append([]ToolName(nil), toolNames...)
}

// BrokerProfile is the agent persona the assistant speaks as.
type BrokerProfile struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	YearsExperience int    `json:"years_of_experience"`
	ServiceArea     string `json:"area_of_service"`
}

// ClientProfile is the client the broker is serving. Preferences is nil for a
// new client who has not finished onboarding.
type ClientProfile struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Phone       string            `json:"phone"`
	Email       string            `json:"email"`
	Preferences *lead.Preferences `json:"preferences,omitempty"`
}

type AgentContext struct {
	Broker *BrokerProfile `json:"broker,omitempty"`
	Client *ClientProfile `json:"client,omitempty"`
}

func (c AgentContext) BrokerID() string {
	if c.Broker == nil {
		return ""
	}
	return c.Broker.ID
}

func (c AgentContext) ClientID() string {
	if c.Client == nil {
		return ""
	}
	return c.Client.ID
}

// ClientPreferences returns the client's preferences or nil.
func (c AgentContext) ClientPreferences() *lead.Preferences {
	if c.Client == nil {
		return nil
	}
	return c.Client.Preferences
}

type ChatRequest struct {
	SessionID           string       `json:"session_id"`
	Message             string       `json:"message"`
	SelectedPropertyIDs []string     `json:"selected_property_ids,omitempty"`
	Context             AgentContext `json:"context"`
}

type ChatResult struct {
	Response   string      `json:"response"`
	ToolUsed   ToolName    `json:"tool_used"`
	ToolResult *ToolResult `json:"tool_result"`
	Cached     bool        `json:"-"`
}

// Turn is one user message and the reply that answered it.
type Turn struct {
	UserMessage string    `json:"user_message"`
	Response    string    `json:"response"`
	ToolUsed    ToolName  `json:"tool_used"`
	At          time.Time `json:"at"`
}

type ClassifyRequest struct {
	SystemPrompt string `json:"system_prompt"`
	History      []Turn `json:"history,omitempty"`
	Message      string `json:"message"`
}

// Classification is the model's pick of tool plus the reply text shown to the user.
type Classification struct {
	Invocation ToolInvocation `json:"invocation"`
	Response   string         `json:"response"`
}

type Property struct {
	ID           string    `json:"id"`
	Address      string    `json:"address"`
	Price        int       `json:"price"`
	Bedrooms     int       `json:"bedrooms"`
	Bathrooms    int       `json:"bathrooms"`
	Sqft         int       `json:"sqft"`
	PropertyType string    `json:"property_type"`
	Amenities    []string  `json:"amenities"`
	Description  string    `json:"description"`
	Images       []string  `json:"images"`
	ListedDate   time.Time `json:"listed_date"`
	Location     string    `json:"location"`
}

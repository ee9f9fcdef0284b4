package prompt

import (
	_ "embed"
	"fmt"
	"strconv"
	"strings"
	"text/template"

	contractx "github.com/tanpawarit/realty-assistant/agent/contract"
)

//go:embed template/dispatcher.txt
var dispatcherRaw string

const (
	defaultBrokerName  = "a professional real estate agent"
	defaultYears       = 5
	defaultServiceArea = "residential properties"
)

// PromptSet holds loaded prompt content.
type PromptSet struct {
	Dispatcher string
}

// LoadPromptSet returns a PromptSet with trimmed prompt strings.
func LoadPromptSet() PromptSet {
	return PromptSet{
		Dispatcher: strings.TrimSpace(dispatcherRaw),
	}
}

type clientView struct {
	Name      string
	RentOrBuy string
	BudgetMin string
	BudgetMax string
	Bedrooms  int
	Bathrooms int
	Location  string
	Amenities string
}

type promptView struct {
	BrokerName      string
	YearsExperience int
	ServiceArea     string
	Client          *clientView
	Tools           string
}

// Renderer fills the dispatcher prompt with broker and client context.
type Renderer struct {
	tmpl  *template.Template
	tools string
}

// NewRenderer parses raw once. tools is the numbered tool list shown to the model.
func NewRenderer(raw, tools string) (*Renderer, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, fmt.Errorf("%w: dispatcher prompt", contractx.ErrPromptMissing)
	}
	tmpl, err := template.New("dispatcher").Option("missingkey=error").Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: parse dispatcher prompt: %v", contractx.ErrPromptMissing, err)
	}
	return &Renderer{tmpl: tmpl, tools: strings.TrimSpace(tools)}, nil
}

func (r *Renderer) Render(actx contractx.AgentContext) (string, error) {
	var b strings.Builder
	if err := r.tmpl.Execute(&b, r.view(actx)); err != nil {
		return "", fmt.Errorf("render dispatcher prompt: %w", err)
	}
	return strings.TrimSpace(b.String()), nil
}

// RenderSystemPrompt is the one-shot form of NewRenderer followed by Render.
func RenderSystemPrompt(raw, tools string, actx contractx.AgentContext) (string, error) {
	r, err := NewRenderer(raw, tools)
	if err != nil {
		return "", err
	}
	return r.Render(actx)
}

func (r *Renderer) view(actx contractx.AgentContext) promptView {
	v := promptView{
		BrokerName:      defaultBrokerName,
		YearsExperience: defaultYears,
		ServiceArea:     defaultServiceArea,
		Tools:           r.tools,
	}
	if b := actx.Broker; b != nil {
		if name := strings.TrimSpace(b.Name); name != "" {
			v.BrokerName = name
		}
		if b.YearsExperience > 0 {
			v.YearsExperience = b.YearsExperience
		}
		if area := strings.TrimSpace(b.ServiceArea); area != "" {
			v.ServiceArea = area
		}
	}

	if c := actx.Client; c != nil && c.Preferences != nil {
		p := c.Preferences
		v.Client = &clientView{
			Name:      strings.TrimSpace(c.Name),
			RentOrBuy: string(p.RentOrBuy),
			BudgetMin: groupThousands(int64(p.BudgetMin)),
			BudgetMax: groupThousands(int64(p.BudgetMax)),
			Bedrooms:  p.Bedrooms,
			Bathrooms: p.Bathrooms,
			Location:  p.Location,
			Amenities: strings.Join(p.Amenities, ", "),
		}
	}
	return v
}

func groupThousands(n int64) string {
	sign := ""
	if n < 0 {
		sign = "-"
		n = -n
	}
	digits := strconv.FormatInt(n, 10)
	for i := len(digits) - 3; i > 0; i -= 3 {
		digits = digits[:i] + "," + digits[i:]
	}
	return sign + digits
}

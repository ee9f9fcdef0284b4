package contract

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

type SearchParams struct {
	Location     string   `json:"location,omitempty"`
	BudgetMin    float64  `json:"budget_min,omitempty"`
	BudgetMax    float64  `json:"budget_max,omitempty"`
	Bedrooms     int      `json:"bedrooms,omitempty"`
	Bathrooms    int      `json:"bathrooms,omitempty"`
	PropertyType string   `json:"property_type,omitempty"`
	Amenities    []string `json:"amenities,omitempty"`
}

type AnalyzeParams struct {
	PropertyID   string `json:"property_id,omitempty"`
	AnalysisType string `json:"analysis_type,omitempty"`
}

type CompareParams struct {
	PropertyIDs        []string   `json:"property_ids,omitempty"`
	ComparisonCriteria StringList `json:"comparison_criteria,omitempty"`
}

// StringList accepts either a JSON array of strings or a single
// comma-separated string.
type StringList []string

func (l *StringList) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*l = nil
		return nil
	}
	if trimmed[0] == '"' {
		var joined string
		if err := json.Unmarshal(trimmed, &joined); err != nil {
			return err
		}
		var out StringList
		for _, part := range strings.Split(joined, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
		*l = out
		return nil
	}
	var items []string
	if err := json.Unmarshal(trimmed, &items); err != nil {
		return err
	}
	*l = items
	return nil
}

type MarketParams struct {
	Location     string `json:"location,omitempty"`
	AnalysisType string `json:"analysis_type,omitempty"`
}

type ShowingParams struct {
	PropertyID    string `json:"property_id,omitempty"`
	PreferredTime string `json:"preferred_time,omitempty"`
}

// ToolInvocation is a closed union: exactly the field matching Tool is set,
// and general_help carries none.
type ToolInvocation struct {
	Tool    ToolName       `json:"tool"`
	Search  *SearchParams  `json:"search,omitempty"`
	Analyze *AnalyzeParams `json:"analyze,omitempty"`
	Compare *CompareParams `json:"compare,omitempty"`
	Market  *MarketParams  `json:"market,omitempty"`
	Showing *ShowingParams `json:"showing,omitempty"`
}

func ParseToolName(raw string) (ToolName, error) {
	name := ToolName(strings.TrimSpace(raw))
	for _, known := range toolNames {
		if name == known {
			return name, nil
		}
	}
	return "", fmt.Errorf("%w: unknown tool %q", ErrSchemaViolation, raw)
}

// DecodeInvocation turns the model's free-form parameter payload into the
// variant for tool. A missing or null payload decodes to zero parameters.
func DecodeInvocation(tool ToolName, raw json.RawMessage) (ToolInvocation, error) {
	inv := ToolInvocation{Tool: tool}
	payload := bytes.TrimSpace(raw)
	if len(payload) == 0 || bytes.Equal(payload, []byte("null")) {
		payload = []byte("{}")
	}

	var err error
	switch tool {
	case ToolSearchProperties:
		inv.Search = &SearchParams{}
		err = json.Unmarshal(payload, inv.Search)
	case ToolAnalyzeProperty:
		inv.Analyze = &AnalyzeParams{}
		err = json.Unmarshal(payload, inv.Analyze)
	case ToolCompareProperties:
		inv.Compare = &CompareParams{}
		err = json.Unmarshal(payload, inv.Compare)
	case ToolAnalyzeMarket:
		inv.Market = &MarketParams{}
		err = json.Unmarshal(payload, inv.Market)
	case ToolSetupShowing:
		inv.Showing = &ShowingParams{}
		err = json.Unmarshal(payload, inv.Showing)
	case ToolGeneralHelp:
		return inv, nil
	default:
		return ToolInvocation{}, fmt.Errorf("%w: unknown tool %q", ErrSchemaViolation, tool)
	}
	if err != nil {
		return ToolInvocation{}, fmt.Errorf("%w: decode %s parameters: %v", ErrSchemaViolation, tool, err)
	}
	return inv, nil
}

type SearchCriteria struct {
	Location     string   `json:"location"`
	BudgetMin    float64  `json:"budget_min"`
	BudgetMax    float64  `json:"budget_max"`
	Bedrooms     int      `json:"bedrooms"`
	Bathrooms    int      `json:"bathrooms"`
	PropertyType string   `json:"property_type"`
	RentOrBuy    string   `json:"rent_or_buy"`
	Amenities    []string `json:"amenities"`
}

type SearchResult struct {
	Properties     []Property     `json:"properties"`
	Total          int            `json:"total"`
	SearchCriteria SearchCriteria `json:"search_criteria"`
}

type PropertyAnalysis struct {
	MarketValue        int     `json:"market_value"`
	EstimatedRent      int     `json:"estimated_rent"`
	PropertyTaxes      int     `json:"property_taxes"`
	NeighborhoodRating float64 `json:"neighborhood_rating"`
	InvestmentScore    int     `json:"investment_score"`
	DaysOnMarket       int     `json:"days_on_market"`
	PricePerSqft       int     `json:"price_per_sqft"`
}

type AnalysisResult struct {
	PropertyID   string           `json:"property_id"`
	AnalysisType string           `json:"analysis_type"`
	Analysis     PropertyAnalysis `json:"analysis"`
}

type PriceComparison struct {
	PropertyID      string `json:"property_id"`
	PropertyAddress string `json:"property_address"`
	Price           int    `json:"price"`
	PricePerSqft    int    `json:"price_per_sqft"`
}

type FeatureComparison struct {
	PropertyID      string `json:"property_id"`
	PropertyAddress string `json:"property_address"`
	Bedrooms        int    `json:"bedrooms"`
	Bathrooms       int    `json:"bathrooms"`
	Sqft            int    `json:"sqft"`
}

type Comparison struct {
	PriceComparison   []PriceComparison   `json:"price_comparison"`
	FeatureComparison []FeatureComparison `json:"feature_comparison"`
	Recommendation    string              `json:"recommendation"`
	Warnings          []string            `json:"warnings,omitempty"`
}

type ComparisonResult struct {
	PropertyIDs []string   `json:"property_ids"`
	Criteria    string     `json:"criteria"`
	Comparison  Comparison `json:"comparison"`
}

type MarketAnalysis struct {
	AveragePrice   int    `json:"average_price"`
	PriceTrend     string `json:"price_trend"`
	DaysOnMarket   int    `json:"days_on_market"`
	InventoryLevel string `json:"inventory_level"`
	MarketActivity string `json:"market_activity"`
	Forecast       string `json:"forecast"`
}

type MarketResult struct {
	Location       string         `json:"location"`
	AnalysisType   string         `json:"analysis_type"`
	MarketAnalysis MarketAnalysis `json:"market_analysis"`
}

type Showing struct {
	PropertyID     string   `json:"property_id"`
	AvailableSlots []string `json:"available_slots"`
	PreferredTime  string   `json:"preferred_time"`
	Duration       string   `json:"duration"`
	MeetingPoint   string   `json:"meeting_location"`
	ContactInfo    string   `json:"contact_info"`
	Notes          string   `json:"notes"`
}

type ShowingResult struct {
	Showing    Showing `json:"showing"`
	ClientName string  `json:"client_name"`
	BrokerName string  `json:"broker_name"`
}

// ToolResult carries at most one populated variant; a failed tool sets Error
// and leaves them all nil.
type ToolResult struct {
	Tool       ToolName          `json:"tool"`
	Success    bool              `json:"success"`
	Error      string            `json:"error,omitempty"`
	Search     *SearchResult     `json:"search,omitempty"`
	Analysis   *AnalysisResult   `json:"analysis,omitempty"`
	Comparison *ComparisonResult `json:"comparison,omitempty"`
	Market     *MarketResult     `json:"market,omitempty"`
	Showing    *ShowingResult    `json:"showing,omitempty"`
}

// Failed builds the structured {success:false, error} result for bad input.
func Failed(tool ToolName, msg string) *ToolResult {
	return &ToolResult{Tool: tool, Success: false, Error: msg}
}

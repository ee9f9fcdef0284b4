package tool

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/schema"
	contractx "github.com/tanpawarit/realty-assistant/agent/contract"
)

var catalog = []*schema.ToolInfo{
	{
		Name: string(contractx.ToolSearchProperties),
		Desc: "ONLY when user explicitly wants to find/search for new properties",
		ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
			"location":      {Type: schema.String, Desc: "The location to search for properties"},
			"budget_min":    {Type: schema.Number, Desc: "Minimum budget in USD"},
			"budget_max":    {Type: schema.Number, Desc: "Maximum budget in USD"},
			"bedrooms":      {Type: schema.Integer, Desc: "Number of bedrooms required"},
			"bathrooms":     {Type: schema.Integer, Desc: "Number of bathrooms required"},
			"property_type": {Type: schema.String, Desc: "Type of property", Enum: []string{"house", "apartment", "condo", "townhouse", "any"}},
			"amenities":     {Type: schema.Array, Desc: "Required amenities", ElemInfo: &schema.ParameterInfo{Type: schema.String}},
		}),
	},
	{
		Name: string(contractx.ToolAnalyzeProperty),
		Desc: "When user asks about a specific property address or ID",
		ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
			"property_id":   {Type: schema.String, Desc: "The property ID to analyze", Required: true},
			"analysis_type": {Type: schema.String, Desc: "Type of analysis to perform", Enum: []string{"market_value", "investment_potential", "neighborhood_info", "comprehensive"}},
		}),
	},
	{
		Name: string(contractx.ToolCompareProperties),
		Desc: "When user wants to compare multiple properties",
		ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
			"property_ids":        {Type: schema.Array, Desc: "Array of property IDs to compare", ElemInfo: &schema.ParameterInfo{Type: schema.String}},
			"comparison_criteria": {Type: schema.Array, Desc: "Criteria to compare (price, location, amenities, etc.)", ElemInfo: &schema.ParameterInfo{Type: schema.String}},
		}),
	},
	{
		Name: string(contractx.ToolAnalyzeMarket),
		Desc: "When user asks about market trends, conditions, or analysis",
		ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
			"location":      {Type: schema.String, Desc: "Location for market analysis", Required: true},
			"analysis_type": {Type: schema.String, Desc: "Type of market analysis", Enum: []string{"price_trends", "inventory_levels", "days_on_market", "comprehensive"}},
		}),
	},
	{
		Name: string(contractx.ToolSetupShowing),
		Desc: "When user wants to schedule a showing, book a viewing, or arrange a property visit",
		ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
			"property_id":    {Type: schema.String, Desc: "The property to visit"},
			"preferred_time": {Type: schema.String, Desc: "When the client would like to visit"},
		}),
	},
	{
		Name: string(contractx.ToolGeneralHelp),
		Desc: "For general questions, greetings, or when no specific tool is needed",
	},
}

// Catalog describes the six tools the classifier may choose from.
func Catalog() []*schema.ToolInfo {
	return append([]*schema.ToolInfo(nil), catalog...)
}

// Describe renders the catalog as the numbered list embedded in the system
// prompt. Each tool is followed by the JSON schema of its parameters so the
// model answers with the keys the executors decode.
func Describe(infos []*schema.ToolInfo) (string, error) {
	var b strings.Builder
	for i, info := range infos {
		if info == nil {
			continue
		}
		fmt.Fprintf(&b, "%d. %s - %s\n", i+1, info.Name, info.Desc)
		if info.ParamsOneOf == nil {
			b.WriteString("   parameters: null\n")
			continue
		}

		params, err := info.ParamsOneOf.ToOpenAPIV3()
		if err != nil {
			return "", fmt.Errorf("%s parameter schema: %w", info.Name, err)
		}
		raw, err := json.Marshal(params)
		if err != nil {
			return "", fmt.Errorf("encode %s parameter schema: %w", info.Name, err)
		}
		fmt.Fprintf(&b, "   parameters: %s\n", raw)
	}
	return strings.TrimRight(b.String(), "\n"), nil
}

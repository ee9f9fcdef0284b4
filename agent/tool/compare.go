package tool

import (
	"fmt"
	"strings"

	contractx "github.com/tanpawarit/realty-assistant/agent/contract"
	"github.com/tanpawarit/realty-assistant/lead"
)

const fabricatedArea = "Downtown"

func (e *Executor) compare(
	p contractx.CompareParams,
	book contractx.ListingBook,
	actx contractx.AgentContext,
	selected []string,
) *contractx.ToolResult {
	ids := cleanIDs(selected)
	if len(ids) == 0 {
		ids = cleanIDs(p.PropertyIDs)
	}
	if len(ids) < 2 {
		return contractx.Failed(contractx.ToolCompareProperties, ErrNeedTwoProperties)
	}

	candidates := make([]contractx.Property, 0, len(ids))
	var warnings []string
	for _, id := range ids {
		if book != nil {
			if prop, ok := book.Listing(id); ok {
				candidates = append(candidates, prop)
				continue
			}
		}
		candidates = append(candidates, e.fabricate(id))
		warnings = append(warnings, fmt.Sprintf("Property %s was not found in recent search results; showing estimated data.", id))
	}

	comparison := contractx.Comparison{
		PriceComparison:   make([]contractx.PriceComparison, 0, len(candidates)),
		FeatureComparison: make([]contractx.FeatureComparison, 0, len(candidates)),
		Warnings:          warnings,
	}
	for _, prop := range candidates {
		comparison.PriceComparison = append(comparison.PriceComparison, contractx.PriceComparison{
			PropertyID:      prop.ID,
			PropertyAddress: prop.Address,
			Price:           prop.Price,
			PricePerSqft:    pricePerSqft(prop),
		})
		comparison.FeatureComparison = append(comparison.FeatureComparison, contractx.FeatureComparison{
			PropertyID:      prop.ID,
			PropertyAddress: prop.Address,
			Bedrooms:        prop.Bedrooms,
			Bathrooms:       prop.Bathrooms,
			Sqft:            prop.Sqft,
		})
	}

	best := BestFit(candidates, actx.ClientPreferences())
	comparison.Recommendation = fmt.Sprintf(
		"Based on your preferences, I recommend %s as it offers the best value for your budget.",
		best.Address,
	)

	criteria := strings.Join(p.ComparisonCriteria, ",")
	if criteria == "" {
		criteria = defaultCompareCriteria
	}

	return &contractx.ToolResult{
		Tool:    contractx.ToolCompareProperties,
		Success: true,
		Comparison: &contractx.ComparisonResult{
			PropertyIDs: ids,
			Criteria:    criteria,
			Comparison:  comparison,
		},
	}
}

// BestFit returns the candidate that fits the client best. The first candidate
// wins unless a later one scores strictly higher. candidates must be non-empty.
func BestFit(candidates []contractx.Property, prefs *lead.Preferences) contractx.Property {
	best := candidates[0]
	bestScore := FitScore(best, prefs)
	for _, c := range candidates[1:] {
		if s := FitScore(c, prefs); s > bestScore {
			best, bestScore = c, s
		}
	}
	return best
}

// FitScore rates a listing against the client's budget and room counts.
// Without preferences every listing scores 0.
func FitScore(p contractx.Property, prefs *lead.Preferences) int {
	if prefs == nil {
		return 0
	}

	score := 0
	price := float64(p.Price)
	switch {
	case price >= prefs.BudgetMin && price <= prefs.BudgetMax:
		score += 3
	case price <= prefs.BudgetMax*1.1:
		score++
	}

	switch {
	case p.Bedrooms == prefs.Bedrooms:
		score += 2
	case p.Bedrooms > prefs.Bedrooms:
		score++
	}

	if p.Bathrooms >= prefs.Bathrooms {
		score++
	}
	return score
}

func (e *Executor) fabricate(id string) contractx.Property {
	street := streetNames[e.rng.Intn(5)]
	sqft := e.rng.Intn(2000) + 800
	return contractx.Property{
		ID:        id,
		Address:   fmt.Sprintf("%d %s St, %s", e.rng.Intn(9999)+1, street, fabricatedArea),
		Price:     e.rng.Intn(200000) + 300000,
		Bedrooms:  e.rng.Intn(4) + 1,
		Bathrooms: e.rng.Intn(3) + 1,
		Sqft:      sqft,
		Location:  fabricatedArea,
	}
}

func pricePerSqft(p contractx.Property) int {
	if p.Sqft <= 0 {
		return 0
	}
	return p.Price / p.Sqft
}

func cleanIDs(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id = strings.TrimSpace(id); id != "" {
			out = append(out, id)
		}
	}
	return out
}

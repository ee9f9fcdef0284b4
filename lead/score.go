package lead

import "strings"

type RentOrBuy string

const (
	Rent RentOrBuy = "rent"
	Buy  RentOrBuy = "buy"
)

type Qualification string

const (
	Hot  Qualification = "Hot"
	Warm Qualification = "Warm"
	Cold Qualification = "Cold"
)

const (
	hotThreshold  = 80
	warmThreshold = 60
)

// Preferences is what a client submitted during onboarding. The scorer reads it
// as-is; ranges are not validated.
type Preferences struct {
	BudgetMin float64   `json:"budget_min"`
	BudgetMax float64   `json:"budget_max"`
	RentOrBuy RentOrBuy `json:"rent_or_buy"`
	Bedrooms  int       `json:"bedrooms"`
	Bathrooms int       `json:"bathrooms"`
	Location  string    `json:"location"`
	Amenities []string  `json:"amenities"`
}

// IsZero reports whether no preference was submitted.
func (p Preferences) IsZero() bool {
	return p.BudgetMin == 0 && p.BudgetMax == 0 && p.RentOrBuy == "" &&
		p.Bedrooms == 0 && p.Bathrooms == 0 && p.Location == "" && len(p.Amenities) == 0
}

type Breakdown struct {
	Budget      int `json:"budget"`
	Urgency     int `json:"urgency"`
	Commitment  int `json:"commitment"`
	Location    int `json:"location"`
	Preferences int `json:"preferences"`
}

func (b Breakdown) Total() int {
	return b.Budget + b.Urgency + b.Commitment + b.Location + b.Preferences
}

type Score struct {
	TotalScore      int           `json:"totalScore"`
	ScoreBreakdown  Breakdown     `json:"scoreBreakdown"`
	Qualification   Qualification `json:"qualification"`
	Recommendations []string      `json:"recommendations"`
}

const (
	RecHotFollowUp     = "High priority lead - follow up within 24 hours"
	RecHotViewings     = "Schedule property viewings immediately"
	RecWarmFollowUp    = "Good potential - follow up within 48 hours"
	RecWarmPersonalize = "Send personalized property recommendations"
	RecColdNurture     = "Low priority - nurture with content marketing"
	RecColdRelation    = "Focus on building relationship over time"

	RecLowerPriceRange  = "Consider showing properties in lower price ranges"
	RecBuildRelation    = "Focus on relationship building before pushing for decisions"
	RecClarifyLocation  = "Help clarify location preferences with market overview"
	budgetAdviceBelow   = 15
	urgencyAdviceBelow  = 15
	locationAdviceBelow = 10
)

// Calculate scores a lead with the fixed weighted-rule table.
func Calculate(p Preferences) Score {
	breakdown := Breakdown{
		Budget:      budgetScore(p.BudgetMin, p.BudgetMax),
		Urgency:     urgencyScore(p.RentOrBuy),
		Commitment:  commitmentScore(len(p.Amenities)),
		Location:    locationScore(p.Location),
		Preferences: roomScore(p.Bedrooms, p.Bathrooms),
	}

	total := breakdown.Total()
	qualification := Qualify(total)

	recommendations := make([]string, 0, 5)
	recommendations = append(recommendations, tierRecommendations(qualification)...)
	if breakdown.Budget < budgetAdviceBelow {
		recommendations = append(recommendations, RecLowerPriceRange)
	}
	if breakdown.Urgency < urgencyAdviceBelow {
		recommendations = append(recommendations, RecBuildRelation)
	}
	if breakdown.Location < locationAdviceBelow {
		recommendations = append(recommendations, RecClarifyLocation)
	}

	return Score{
		TotalScore:      total,
		ScoreBreakdown:  breakdown,
		Qualification:   qualification,
		Recommendations: recommendations,
	}
}

func Qualify(total int) Qualification {
	switch {
	case total >= hotThreshold:
		return Hot
	case total >= warmThreshold:
		return Warm
	default:
		return Cold
	}
}

func tierRecommendations(q Qualification) []string {
	switch q {
	case Hot:
		return []string{RecHotFollowUp, RecHotViewings}
	case Warm:
		return []string{RecWarmFollowUp, RecWarmPersonalize}
	default:
		return []string{RecColdNurture, RecColdRelation}
	}
}

func budgetScore(minBudget, maxBudget float64) int {
	avg := (minBudget + maxBudget) / 2

	var score int
	switch {
	case avg >= 500000:
		score = 25
	case avg >= 300000:
		score = 20
	case avg >= 200000:
		score = 15
	case avg >= 100000:
		score = 10
	default:
		score = 5
	}

	// a narrow range means the client knows what they can spend
	switch spread := maxBudget - minBudget; {
	case spread <= 50000:
		score += 5
	case spread <= 100000:
		score += 3
	default:
		score++
	}
	return score
}

func urgencyScore(kind RentOrBuy) int {
	if kind == Buy {
		return 20
	}
	return 10
}

func commitmentScore(amenities int) int {
	switch {
	case amenities >= 5:
		return 20
	case amenities >= 3:
		return 15
	case amenities >= 1:
		return 10
	default:
		return 5
	}
}

func locationScore(location string) int {
	loc := strings.ToLower(location)
	switch {
	case strings.Contains(loc, "downtown") || strings.Contains(loc, "city center"):
		return 20
	case strings.Contains(loc, "suburb") || strings.Contains(loc, "neighborhood"):
		return 15
	case strings.Contains(loc, "area") || strings.Contains(loc, "district"):
		return 10
	default:
		return 5
	}
}

func roomScore(bedrooms, bathrooms int) int {
	switch {
	case bedrooms >= 3 && bathrooms >= 2:
		return 15
	case bedrooms >= 2 && bathrooms >= 1:
		return 12
	case bedrooms >= 1 && bathrooms >= 1:
		return 8
	default:
		return 5
	}
}

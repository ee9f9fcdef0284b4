package tool

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	contractx "github.com/tanpawarit/realty-assistant/agent/contract"
)

const (
	listingsPerSearch = 5

	defaultLocation  = "Downtown"
	defaultBudgetMin = 300000
	defaultBudgetMax = 800000
	defaultBedrooms  = 2
	defaultBathrooms = 2
	defaultRentOrBuy = "buy"
	anyPropertyType  = "any"

	defaultCompareCriteria = "price,features,value"
	ErrNeedTwoProperties   = "Need at least 2 property IDs to compare"
)

var (
	streetNames       = []string{"Oak", "Maple", "Pine", "Cedar", "Elm", "Birch", "Willow", "Cherry"}
	propertyTypes     = []string{"house", "apartment", "condo"}
	fallbackAmenities = []string{"Parking", "Gym", "Pool"}
	showingSlots      = []string{
		"Tomorrow at 2:00 PM",
		"Tomorrow at 4:00 PM",
		"Wednesday at 10:00 AM",
		"Wednesday at 3:00 PM",
		"Thursday at 1:00 PM",
		"Friday at 11:00 AM",
	}
)

const (
	showingDuration = "45 minutes"
	showingLocation = "Property location"
	showingNotes    = "Please bring photo ID and be prepared to discuss financing options."
)

type Option func(*Executor)

// WithSeed makes generated data reproducible.
func WithSeed(seed int64) Option {
	return func(e *Executor) {
		e.rng = rand.New(rand.NewSource(seed))
	}
}

func WithClock(now func() time.Time) Option {
	return func(e *Executor) {
		if now != nil {
			e.now = now
		}
	}
}

// Executor runs the six tools against generated listing data.
type Executor struct {
	mu  sync.Mutex
	rng *rand.Rand
	now func() time.Time
}

var _ contractx.ToolExecutor = (*Executor)(nil)

func NewExecutor(opts ...Option) *Executor {
	e := &Executor{
		rng: rand.New(rand.NewSource(time.Now().UnixNano())),
		now: time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	return e
}

// Execute dispatches inv to its tool. selected overrides the comparison ids
// when non-empty. general_help yields a nil result.
func (e *Executor) Execute(
	ctx context.Context,
	inv contractx.ToolInvocation,
	book contractx.ListingBook,
	actx contractx.AgentContext,
	selected []string,
) (*contractx.ToolResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	switch inv.Tool {
	case contractx.ToolSearchProperties:
		return e.search(deref(inv.Search), book, actx), nil
	case contractx.ToolAnalyzeProperty:
		return e.analyze(deref(inv.Analyze)), nil
	case contractx.ToolCompareProperties:
		return e.compare(deref(inv.Compare), book, actx, selected), nil
	case contractx.ToolAnalyzeMarket:
		return e.market(deref(inv.Market)), nil
	case contractx.ToolSetupShowing:
		return e.showing(deref(inv.Showing), actx), nil
	case contractx.ToolGeneralHelp:
		return nil, nil
	default:
		return nil, fmt.Errorf("%w: unknown tool %q", contractx.ErrToolFailed, inv.Tool)
	}
}

func deref[T any](p *T) T {
	if p == nil {
		var zero T
		return zero
	}
	return *p
}

func (e *Executor) search(p contractx.SearchParams, book contractx.ListingBook, actx contractx.AgentContext) *contractx.ToolResult {
	criteria := searchCriteria(p, actx)
	props := e.generateListings(criteria)
	if book != nil {
		book.RememberListings(props, e.now())
	}

	return &contractx.ToolResult{
		Tool:    contractx.ToolSearchProperties,
		Success: true,
		Search: &contractx.SearchResult{
			Properties:     props,
			Total:          len(props),
			SearchCriteria: criteria,
		},
	}
}

// searchCriteria fills each missing parameter from the client's preferences,
// then from fixed defaults.
func searchCriteria(p contractx.SearchParams, actx contractx.AgentContext) contractx.SearchCriteria {
	c := contractx.SearchCriteria{
		Location:     strings.TrimSpace(p.Location),
		BudgetMin:    p.BudgetMin,
		BudgetMax:    p.BudgetMax,
		Bedrooms:     p.Bedrooms,
		Bathrooms:    p.Bathrooms,
		PropertyType: strings.TrimSpace(p.PropertyType),
		Amenities:    p.Amenities,
	}

	if prefs := actx.ClientPreferences(); prefs != nil {
		if c.Location == "" {
			c.Location = strings.TrimSpace(prefs.Location)
		}
		if c.BudgetMin == 0 {
			c.BudgetMin = prefs.BudgetMin
		}
		if c.BudgetMax == 0 {
			c.BudgetMax = prefs.BudgetMax
		}
		if c.Bedrooms == 0 {
			c.Bedrooms = prefs.Bedrooms
		}
		if c.Bathrooms == 0 {
			c.Bathrooms = prefs.Bathrooms
		}
		if len(c.Amenities) == 0 {
			c.Amenities = prefs.Amenities
		}
		c.RentOrBuy = string(prefs.RentOrBuy)
	}

	if c.Location == "" {
		c.Location = defaultLocation
	}
	if c.BudgetMin == 0 {
		c.BudgetMin = defaultBudgetMin
	}
	if c.BudgetMax == 0 {
		c.BudgetMax = defaultBudgetMax
	}
	if c.Bedrooms == 0 {
		c.Bedrooms = defaultBedrooms
	}
	if c.Bathrooms == 0 {
		c.Bathrooms = defaultBathrooms
	}
	if c.PropertyType == "" {
		c.PropertyType = anyPropertyType
	}
	if c.RentOrBuy == "" {
		c.RentOrBuy = defaultRentOrBuy
	}
	if c.Amenities == nil {
		c.Amenities = []string{}
	}
	return c
}

func (e *Executor) generateListings(c contractx.SearchCriteria) []contractx.Property {
	listedAt := e.now().UTC()
	props := make([]contractx.Property, 0, listingsPerSearch)

	for i := 1; i <= listingsPerSearch; i++ {
		price := int(c.BudgetMin)
		if span := int(c.BudgetMax - c.BudgetMin); span > 0 {
			price += e.rng.Intn(span)
		}

		bedrooms := max(1, c.Bedrooms+e.rng.Intn(3)-1)
		bathrooms := max(1, c.Bathrooms+e.rng.Intn(3)-1)

		street := streetNames[e.rng.Intn(len(streetNames))]
		number := e.rng.Intn(9999) + 1

		propertyType := c.PropertyType
		describedAs := propertyType
		if propertyType == anyPropertyType {
			propertyType = propertyTypes[e.rng.Intn(len(propertyTypes))]
			describedAs = "property"
		}

		amenities := c.Amenities
		if len(amenities) > 3 {
			amenities = amenities[:3]
		}
		if len(amenities) == 0 {
			amenities = fallbackAmenities[:e.rng.Intn(len(fallbackAmenities))+1]
		}

		purpose := "renting"
		if c.RentOrBuy == "buy" {
			purpose = "buying"
		}

		props = append(props, contractx.Property{
			ID:           fmt.Sprintf("prop_%d", i),
			Address:      fmt.Sprintf("%d %s St, %s", number, street, c.Location),
			Price:        price,
			Bedrooms:     bedrooms,
			Bathrooms:    bathrooms,
			Sqft:         e.rng.Intn(2000) + 800,
			PropertyType: propertyType,
			Amenities:    append([]string(nil), amenities...),
			Description: fmt.Sprintf("Beautiful %s in %s with %d bedrooms and %d bathrooms. Perfect for %s.",
				describedAs, c.Location, bedrooms, bathrooms, purpose),
			Images:     []string{fmt.Sprintf("/api/property-image/%d", i)},
			ListedDate: listedAt,
			Location:   c.Location,
		})
	}
	return props
}

func (e *Executor) analyze(p contractx.AnalyzeParams) *contractx.ToolResult {
	analysisType := strings.TrimSpace(p.AnalysisType)
	if analysisType == "" {
		analysisType = "comprehensive"
	}

	return &contractx.ToolResult{
		Tool:    contractx.ToolAnalyzeProperty,
		Success: true,
		Analysis: &contractx.AnalysisResult{
			PropertyID:   strings.TrimSpace(p.PropertyID),
			AnalysisType: analysisType,
			Analysis: contractx.PropertyAnalysis{
				MarketValue:        e.rng.Intn(200000) + 300000,
				EstimatedRent:      e.rng.Intn(3000) + 1500,
				PropertyTaxes:      e.rng.Intn(5000) + 2000,
				NeighborhoodRating: float64(30+e.rng.Intn(21)) / 10,
				InvestmentScore:    e.rng.Intn(40) + 60,
				DaysOnMarket:       e.rng.Intn(30) + 5,
				PricePerSqft:       e.rng.Intn(200) + 150,
			},
		},
	}
}

func (e *Executor) market(p contractx.MarketParams) *contractx.ToolResult {
	location := strings.TrimSpace(p.Location)
	if location == "" {
		location = defaultLocation
	}
	analysisType := strings.TrimSpace(p.AnalysisType)
	if analysisType == "" {
		analysisType = "comprehensive"
	}

	return &contractx.ToolResult{
		Tool:    contractx.ToolAnalyzeMarket,
		Success: true,
		Market: &contractx.MarketResult{
			Location:     location,
			AnalysisType: analysisType,
			MarketAnalysis: contractx.MarketAnalysis{
				AveragePrice:   e.rng.Intn(200000) + 400000,
				PriceTrend:     e.pick("increasing", "decreasing"),
				DaysOnMarket:   e.rng.Intn(30) + 15,
				InventoryLevel: e.pick("low", "high"),
				MarketActivity: e.pick("active", "slow"),
				Forecast: fmt.Sprintf("The %s market is expected to remain %s in the coming months.",
					location, e.pick("strong", "stable")),
			},
		},
	}
}

func (e *Executor) showing(p contractx.ShowingParams, actx contractx.AgentContext) *contractx.ToolResult {
	var clientName, contact, brokerName string
	if actx.Client != nil {
		clientName = actx.Client.Name
		contact = actx.Client.Phone
		if strings.TrimSpace(contact) == "" {
			contact = actx.Client.Email
		}
	}
	if actx.Broker != nil {
		brokerName = actx.Broker.Name
	}

	return &contractx.ToolResult{
		Tool:    contractx.ToolSetupShowing,
		Success: true,
		Showing: &contractx.ShowingResult{
			Showing: contractx.Showing{
				PropertyID:     strings.TrimSpace(p.PropertyID),
				AvailableSlots: append([]string(nil), showingSlots...),
				PreferredTime:  showingSlots[e.rng.Intn(len(showingSlots))],
				Duration:       showingDuration,
				MeetingPoint:   showingLocation,
				ContactInfo:    contact,
				Notes:          showingNotes,
			},
			ClientName: clientName,
			BrokerName: brokerName,
		},
	}
}

func (e *Executor) pick(a, b string) string {
	if e.rng.Intn(2) == 0 {
		return a
	}
	return b
}

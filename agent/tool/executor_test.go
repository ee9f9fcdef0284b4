package tool

import (
	"context"
	"strings"
	"testing"
	"time"

	contractx "github.com/tanpawarit/realty-assistant/agent/contract"
	"github.com/tanpawarit/realty-assistant/lead"
)

type fakeBook struct {
	listings map[string]contractx.Property
	saved    int
}

func (b *fakeBook) Listing(id string) (contractx.Property, bool) {
	p, ok := b.listings[id]
	return p, ok
}

func (b *fakeBook) RememberListings(props []contractx.Property, _ time.Time) {
	b.saved++
	b.listings = make(map[string]contractx.Property, len(props))
	for _, p := range props {
		b.listings[p.ID] = p
	}
}

func newTestExecutor() *Executor {
	fixed := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	return NewExecutor(WithSeed(42), WithClock(func() time.Time { return fixed }))
}

func testContext(prefs *lead.Preferences) contractx.AgentContext {
	return contractx.AgentContext{
		Broker: &contractx.BrokerProfile{ID: "b1", Name: "Dana Reyes", YearsExperience: 12, ServiceArea: "Austin"},
		Client: &contractx.ClientProfile{ID: "c1", Name: "Sam Lee", Phone: "555-0100", Email: "sam@example.com", Preferences: prefs},
	}
}

func TestSearchGeneratesListingsWithinConstraints(t *testing.T) {
	t.Parallel()

	exec := newTestExecutor()
	book := &fakeBook{}
	inv := contractx.ToolInvocation{
		Tool:   contractx.ToolSearchProperties,
		Search: &contractx.SearchParams{Location: "Midtown", BudgetMin: 400000, BudgetMax: 500000, Bedrooms: 3, Bathrooms: 2},
	}

	res, err := exec.Execute(context.Background(), inv, book, contractx.AgentContext{}, nil)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !res.Success || res.Search == nil {
		t.Fatalf("Execute() = %+v, want successful search", res)
	}
	if res.Search.Total != 5 || len(res.Search.Properties) != 5 {
		t.Fatalf("search total = %d, properties = %d", res.Search.Total, len(res.Search.Properties))
	}

	for i, p := range res.Search.Properties {
		if p.Price < 400000 || p.Price >= 500000 {
			t.Errorf("listing %d price %d outside [400000, 500000)", i, p.Price)
		}
		if p.Bedrooms < 2 || p.Bedrooms > 4 {
			t.Errorf("listing %d bedrooms %d outside 3±1", i, p.Bedrooms)
		}
		if p.Bathrooms < 1 || p.Bathrooms > 3 {
			t.Errorf("listing %d bathrooms %d outside 2±1", i, p.Bathrooms)
		}
		if p.Sqft < 800 || p.Sqft >= 2800 {
			t.Errorf("listing %d sqft %d outside [800, 2800)", i, p.Sqft)
		}
		if !strings.HasSuffix(p.Address, " St, Midtown") {
			t.Errorf("listing %d address %q", i, p.Address)
		}
		if len(p.Amenities) == 0 || len(p.Amenities) > 3 {
			t.Errorf("listing %d amenities %v", i, p.Amenities)
		}
	}
	if res.Search.Properties[0].ID != "prop_1" || res.Search.Properties[4].ID != "prop_5" {
		t.Fatalf("unexpected ids: %s..%s", res.Search.Properties[0].ID, res.Search.Properties[4].ID)
	}

	if book.saved != 1 || len(book.listings) != 5 {
		t.Fatalf("listings not remembered: saved=%d stored=%d", book.saved, len(book.listings))
	}
}

func TestSearchFallsBackToClientPreferencesThenDefaults(t *testing.T) {
	t.Parallel()

	prefs := &lead.Preferences{BudgetMin: 1000, BudgetMax: 2500, RentOrBuy: lead.Rent, Bedrooms: 1, Location: "Harbor District", Amenities: []string{"Balcony", "Garden", "Pool", "Gym"}}
	inv := contractx.ToolInvocation{Tool: contractx.ToolSearchProperties}

	res, err := newTestExecutor().Execute(context.Background(), inv, nil, testContext(prefs), nil)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	c := res.Search.SearchCriteria
	if c.Location != "Harbor District" || c.BudgetMin != 1000 || c.BudgetMax != 2500 {
		t.Fatalf("criteria did not use client preferences: %+v", c)
	}
	if c.Bathrooms != defaultBathrooms || c.PropertyType != "any" || c.RentOrBuy != "rent" {
		t.Fatalf("criteria defaults not applied: %+v", c)
	}

	p := res.Search.Properties[0]
	if len(p.Amenities) != 3 || p.Amenities[0] != "Balcony" {
		t.Fatalf("amenities = %v, want first three requested", p.Amenities)
	}
	if !strings.HasPrefix(p.Description, "Beautiful property in Harbor District") || !strings.HasSuffix(p.Description, "Perfect for renting.") {
		t.Fatalf("description = %q", p.Description)
	}
}

func TestSearchWithoutAnyInputUsesDefaults(t *testing.T) {
	t.Parallel()

	res, err := newTestExecutor().Execute(context.Background(), contractx.ToolInvocation{Tool: contractx.ToolSearchProperties}, nil, contractx.AgentContext{}, nil)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	c := res.Search.SearchCriteria
	want := contractx.SearchCriteria{Location: "Downtown", BudgetMin: 300000, BudgetMax: 800000, Bedrooms: 2, Bathrooms: 2, PropertyType: "any", RentOrBuy: "buy", Amenities: []string{}}
	if c.Location != want.Location || c.BudgetMin != want.BudgetMin || c.BudgetMax != want.BudgetMax ||
		c.Bedrooms != want.Bedrooms || c.Bathrooms != want.Bathrooms || c.RentOrBuy != want.RentOrBuy {
		t.Fatalf("criteria = %+v, want %+v", c, want)
	}
	if !strings.HasSuffix(res.Search.Properties[0].Description, "Perfect for buying.") {
		t.Fatalf("description = %q", res.Search.Properties[0].Description)
	}
}

func TestCompareNeedsTwoIDs(t *testing.T) {
	t.Parallel()

	inv := contractx.ToolInvocation{
		Tool:    contractx.ToolCompareProperties,
		Compare: &contractx.CompareParams{PropertyIDs: []string{"prop_1"}},
	}
	res, err := newTestExecutor().Execute(context.Background(), inv, &fakeBook{}, contractx.AgentContext{}, nil)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if res.Success || res.Error != ErrNeedTwoProperties {
		t.Fatalf("Execute() = %+v, want failure %q", res, ErrNeedTwoProperties)
	}
	if res.Comparison != nil {
		t.Fatal("failed comparison carries a result")
	}
}

func TestCompareFabricatesUnseenProperty(t *testing.T) {
	t.Parallel()

	book := &fakeBook{listings: map[string]contractx.Property{
		"prop_1": {ID: "prop_1", Address: "12 Oak St, Downtown", Price: 450000, Bedrooms: 2, Bathrooms: 2, Sqft: 1500},
	}}
	inv := contractx.ToolInvocation{
		Tool:    contractx.ToolCompareProperties,
		Compare: &contractx.CompareParams{PropertyIDs: []string{"prop_1", "prop_99"}},
	}

	res, err := newTestExecutor().Execute(context.Background(), inv, book, contractx.AgentContext{}, nil)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !res.Success || res.Comparison == nil {
		t.Fatalf("Execute() = %+v, want success", res)
	}
	cmp := res.Comparison.Comparison
	if cmp.Recommendation == "" {
		t.Fatal("empty recommendation")
	}
	if len(cmp.Warnings) != 1 || !strings.Contains(cmp.Warnings[0], "prop_99") {
		t.Fatalf("warnings = %v", cmp.Warnings)
	}
	if cmp.PriceComparison[0].PricePerSqft != 300 {
		t.Fatalf("price_per_sqft = %d, want 300", cmp.PriceComparison[0].PricePerSqft)
	}
	if cmp.FeatureComparison[1].PropertyID != "prop_99" || cmp.FeatureComparison[1].PropertyAddress == "" {
		t.Fatalf("fabricated entry = %+v", cmp.FeatureComparison[1])
	}
	if res.Comparison.Criteria != defaultCompareCriteria {
		t.Fatalf("criteria = %q", res.Comparison.Criteria)
	}
}

func TestCompareSelectedIDsOverrideParams(t *testing.T) {
	t.Parallel()

	book := &fakeBook{listings: map[string]contractx.Property{
		"prop_2": {ID: "prop_2", Address: "2 Elm St, Downtown", Price: 700000, Bedrooms: 5, Bathrooms: 1, Sqft: 2000},
		"prop_4": {ID: "prop_4", Address: "4 Pine St, Downtown", Price: 480000, Bedrooms: 3, Bathrooms: 2, Sqft: 1600},
	}}
	prefs := &lead.Preferences{BudgetMin: 400000, BudgetMax: 500000, Bedrooms: 3, Bathrooms: 2}
	inv := contractx.ToolInvocation{
		Tool:    contractx.ToolCompareProperties,
		Compare: &contractx.CompareParams{PropertyIDs: []string{"prop_7"}, ComparisonCriteria: contractx.StringList{"price", "location"}},
	}

	res, err := newTestExecutor().Execute(context.Background(), inv, book, testContext(prefs), []string{"prop_2", "prop_4"})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if got := res.Comparison.PropertyIDs; len(got) != 2 || got[0] != "prop_2" {
		t.Fatalf("property ids = %v", got)
	}
	if res.Comparison.Criteria != "price,location" {
		t.Fatalf("criteria = %q", res.Comparison.Criteria)
	}
	if len(res.Comparison.Comparison.Warnings) != 0 {
		t.Fatalf("warnings = %v", res.Comparison.Comparison.Warnings)
	}
	want := "Based on your preferences, I recommend 4 Pine St, Downtown as it offers the best value for your budget."
	if res.Comparison.Comparison.Recommendation != want {
		t.Fatalf("recommendation = %q", res.Comparison.Comparison.Recommendation)
	}
}

func TestBestFit(t *testing.T) {
	t.Parallel()

	first := contractx.Property{ID: "a", Price: 900000, Bedrooms: 1, Bathrooms: 1}
	second := contractx.Property{ID: "b", Price: 950000, Bedrooms: 1, Bathrooms: 1}

	tests := []struct {
		name       string
		candidates []contractx.Property
		prefs      *lead.Preferences
		want       string
	}{
		{name: "no preferences keeps first", candidates: []contractx.Property{first, second}, want: "a"},
		{name: "all zero keeps first", candidates: []contractx.Property{first, second}, prefs: &lead.Preferences{BudgetMin: 100, BudgetMax: 200, Bedrooms: 4, Bathrooms: 3}, want: "a"},
		{
			name: "later strictly better wins",
			candidates: []contractx.Property{
				first,
				{ID: "c", Price: 150, Bedrooms: 4, Bathrooms: 3},
			},
			prefs: &lead.Preferences{BudgetMin: 100, BudgetMax: 200, Bedrooms: 4, Bathrooms: 3},
			want:  "c",
		},
		{
			name: "tie keeps earlier",
			candidates: []contractx.Property{
				{ID: "d", Price: 150, Bedrooms: 5, Bathrooms: 3},
				{ID: "e", Price: 180, Bedrooms: 6, Bathrooms: 3},
			},
			prefs: &lead.Preferences{BudgetMin: 100, BudgetMax: 200, Bedrooms: 4, Bathrooms: 3},
			want:  "d",
		},
	}
	for _, tt := range tests {
		if got := BestFit(tt.candidates, tt.prefs); got.ID != tt.want {
			t.Errorf("%s: BestFit() = %s, want %s", tt.name, got.ID, tt.want)
		}
	}
}

func TestAnalyzeAndMarketRanges(t *testing.T) {
	t.Parallel()

	exec := newTestExecutor()
	ctx := context.Background()
	for i := 0; i < 20; i++ {
		res, err := exec.Execute(ctx, contractx.ToolInvocation{Tool: contractx.ToolAnalyzeProperty, Analyze: &contractx.AnalyzeParams{PropertyID: "prop_1"}}, nil, contractx.AgentContext{}, nil)
		if err != nil {
			t.Fatalf("analyze error = %v", err)
		}
		a := res.Analysis.Analysis
		if a.MarketValue < 300000 || a.MarketValue >= 500000 || a.NeighborhoodRating < 3 || a.NeighborhoodRating > 5 ||
			a.InvestmentScore < 60 || a.InvestmentScore >= 100 || a.DaysOnMarket < 5 || a.DaysOnMarket >= 35 {
			t.Fatalf("analysis out of range: %+v", a)
		}

		res, err = exec.Execute(ctx, contractx.ToolInvocation{Tool: contractx.ToolAnalyzeMarket, Market: &contractx.MarketParams{Location: "Austin"}}, nil, contractx.AgentContext{}, nil)
		if err != nil {
			t.Fatalf("market error = %v", err)
		}
		m := res.Market.MarketAnalysis
		if m.AveragePrice < 400000 || m.AveragePrice >= 600000 || m.DaysOnMarket < 15 || m.DaysOnMarket >= 45 {
			t.Fatalf("market out of range: %+v", m)
		}
		if !strings.HasPrefix(m.Forecast, "The Austin market is expected to remain ") {
			t.Fatalf("forecast = %q", m.Forecast)
		}
	}
}

func TestShowingUsesClientContact(t *testing.T) {
	t.Parallel()

	actx := testContext(nil)
	actx.Client.Phone = ""
	res, err := newTestExecutor().Execute(context.Background(), contractx.ToolInvocation{Tool: contractx.ToolSetupShowing}, nil, actx, nil)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	s := res.Showing
	if s.ClientName != "Sam Lee" || s.BrokerName != "Dana Reyes" {
		t.Fatalf("names = %q/%q", s.ClientName, s.BrokerName)
	}
	if s.Showing.ContactInfo != "sam@example.com" {
		t.Fatalf("contact = %q, want email fallback", s.Showing.ContactInfo)
	}
	if len(s.Showing.AvailableSlots) != 6 || s.Showing.Duration != "45 minutes" {
		t.Fatalf("showing = %+v", s.Showing)
	}
	found := false
	for _, slot := range s.Showing.AvailableSlots {
		if slot == s.Showing.PreferredTime {
			found = true
		}
	}
	if !found {
		t.Fatalf("preferred time %q not among slots", s.Showing.PreferredTime)
	}
}

func TestGeneralHelpHasNoResult(t *testing.T) {
	t.Parallel()

	res, err := newTestExecutor().Execute(context.Background(), contractx.ToolInvocation{Tool: contractx.ToolGeneralHelp}, nil, contractx.AgentContext{}, nil)
	if err != nil || res != nil {
		t.Fatalf("Execute(general_help) = %+v, %v, want nil, nil", res, err)
	}
}

func TestSeededExecutorIsReproducible(t *testing.T) {
	t.Parallel()

	inv := contractx.ToolInvocation{Tool: contractx.ToolSearchProperties}
	a, _ := newTestExecutor().Execute(context.Background(), inv, nil, contractx.AgentContext{}, nil)
	b, _ := newTestExecutor().Execute(context.Background(), inv, nil, contractx.AgentContext{}, nil)
	for i := range a.Search.Properties {
		if a.Search.Properties[i].Address != b.Search.Properties[i].Address || a.Search.Properties[i].Price != b.Search.Properties[i].Price {
			t.Fatalf("listing %d differs between equally seeded executors", i)
		}
	}
}

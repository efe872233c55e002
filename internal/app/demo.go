package app

import (
	"strings"

	"github.com/google/uuid"

	"github.com/Youngregg/gbp-audit-tool/internal/domain"
)

// demoNamespace seeds the name-based UUIDs of synthetic place ids.
var demoNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://gbp-audit-tool/demo"))

// rule pairs a predicate over the query with the value it selects.
// Tables are evaluated first-match-wins and must end in a catch-all.
type rule[T any] struct {
	match func(query string) bool
	value func(query string) T
}

func contains(sub string) func(string) bool {
	sub = strings.ToLower(sub)
	return func(q string) bool { return strings.Contains(strings.ToLower(q), sub) }
}

func always(string) bool { return true }

func fixed[T any](v T) func(string) T { return func(string) T { return v } }

func pick[T any](rules []rule[T], query string) T {
	for _, r := range rules {
		if r.match(query) {
			return r.value(query)
		}
	}
	var zero T
	return zero
}

// DemoGenerator synthesizes a plausible Profile from the query text alone. It
// never fails and is deterministic in the query.
type DemoGenerator struct {
	names      []rule[string]
	addresses  []rule[string]
	categories []rule[[]string]
}

func NewDemoGenerator() *DemoGenerator {
	return &DemoGenerator{
		names: []rule[string]{
			{contains("Bakkerswinkel"), fixed("De Bakkerswinkel Centrum")},
			{contains("coffee"), fixed("Demo Coffee Shop")},
			{always, func(q string) string { return "Demo Business (" + q + ")" }},
		},
		addresses: []rule[string]{
			{contains("Centrum"), fixed("Warmoesstraat 69, 1012 HX Amsterdam, Netherlands")},
			{always, fixed("123 Main Street, Demo City, DC 12345")},
		},
		categories: []rule[[]string]{
			{contains("Bakkerswinkel"), fixed([]string{"Bakery", "Cafe", "Breakfast Restaurant"})},
			{contains("coffee"), fixed([]string{"Coffee Shop", "Cafe"})},
			{always, fixed([]string{"Restaurant", "Food"})},
		},
	}
}

func (g *DemoGenerator) Generate(query string) domain.Profile {
	query = strings.TrimSpace(query)
	phone := "+31 20 489 8000"
	website := "https://demobusiness.com"
	price := 2

	p := domain.Profile{
		PlaceID:      "demo_" + uuid.NewSHA1(demoNamespace, []byte(query)).String(),
		Name:         pick(g.names, query),
		Address:      pick(g.addresses, query),
		Phone:        &phone,
		Website:      &website,
		Rating:       4.3,
		TotalReviews: 89,
		Categories:   pick(g.categories, query),
		Hours: &domain.Hours{
			IsOpen: true,
			WeekdayText: []string{
				"Monday: 8:00 AM – 6:00 PM",
				"Tuesday: 8:00 AM – 6:00 PM",
				"Wednesday: 8:00 AM – 6:00 PM",
				"Thursday: 8:00 AM – 6:00 PM",
				"Friday: 8:00 AM – 7:00 PM",
				"Saturday: 8:00 AM – 7:00 PM",
				"Sunday: 9:00 AM – 5:00 PM",
			},
		},
		PhotoCount:     12,
		BusinessStatus: domain.StatusOperational,
		PriceLevel:     &price,
		RecentReviews: []domain.Review{
			{Rating: 5, Text: "Excellent service and quality!", Date: "1/20/2025", Author: "Maria K."},
			{Rating: 4, Text: "Great atmosphere and friendly staff", Date: "1/18/2025", Author: "John D."},
			{Rating: 5, Text: "Highly recommend this place!", Date: "1/15/2025", Author: "Sophie L."},
		},
	}
	// Normalize copies the table slices so callers can't alias them.
	return p.Normalize()
}

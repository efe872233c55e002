package app_test

import (
	"context"
	"encoding/json"
	"sync/atomic"

	"github.com/Youngregg/gbp-audit-tool/internal/domain"
)

// ---- fakes ----

type fakePlaces struct {
	search      []map[string]any
	searchErr   error
	details     map[string]any
	detailsErr  error
	searchCalls int32
	detailCalls int32
}

func (f *fakePlaces) TextSearch(ctx context.Context, query string) ([]map[string]any, error) {
	atomic.AddInt32(&f.searchCalls, 1)
	return f.search, f.searchErr
}

func (f *fakePlaces) Details(ctx context.Context, placeID string) (map[string]any, error) {
	atomic.AddInt32(&f.detailCalls, 1)
	return f.details, f.detailsErr
}

type fakeLookup struct {
	fn    func(ctx context.Context, q string) (domain.Profile, error)
	calls int32
}

func (f *fakeLookup) Lookup(ctx context.Context, q string) (domain.Profile, error) {
	atomic.AddInt32(&f.calls, 1)
	return f.fn(ctx, q)
}

type fakeCache struct {
	store map[string][]byte
}

func (c *fakeCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	b, ok := c.store[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, dst)
}

func (c *fakeCache) Set(ctx context.Context, key string, v any, ttlSec int) error {
	if c.store == nil {
		c.store = map[string][]byte{}
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.store[key] = b
	return nil
}

func (c *fakeCache) Del(ctx context.Context, key string) error {
	delete(c.store, key)
	return nil
}

func ptr[T any](v T) *T { return &v }

// fullDetails is a complete directory record: every criterion maxed out.
func fullDetails() map[string]any {
	return map[string]any{
		"place_id":               "ChIJ-full",
		"name":                   "De Bakkerswinkel",
		"formatted_address":      "Warmoesstraat 69, 1012 HX Amsterdam",
		"formatted_phone_number": "020 489 8000",
		"website":                "https://bakkerswinkel.nl",
		"rating":                 4.6,
		"user_ratings_total":     120.0,
		"types":                  []any{"bakery", "cafe", "point_of_interest", "establishment"},
		"business_status":        "OPERATIONAL",
		"price_level":            2.0,
		"photos":                 make([]any, 15),
		"opening_hours": map[string]any{
			"open_now": true,
			"weekday_text": []any{
				"Monday: 8:00 AM – 6:00 PM", "Tuesday: 8:00 AM – 6:00 PM",
				"Wednesday: 8:00 AM – 6:00 PM", "Thursday: 8:00 AM – 6:00 PM",
				"Friday: 8:00 AM – 7:00 PM", "Saturday: 8:00 AM – 7:00 PM",
				"Sunday: 9:00 AM – 5:00 PM",
			},
		},
		"reviews": []any{
			map[string]any{"author_name": "Old", "rating": 3.0, "text": "ok", "time": 1736899200.0},   // 2025-01-15
			map[string]any{"author_name": "Newest", "rating": 5.0, "text": "great", "time": 1737331200.0}, // 2025-01-20
			map[string]any{"author_name": "Mid", "rating": 4.0, "text": "good", "time": 1737158400.0},    // 2025-01-18
			map[string]any{"author_name": "Oldest", "rating": 1.0, "text": "meh", "time": 1704067200.0},   // 2024-01-01
		},
	}
}

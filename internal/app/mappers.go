package app

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/Youngregg/gbp-audit-tool/internal/domain"
)

/********** alias registries (single source of truth) **********/

// detailAliases covers both the legacy Places web service and Places API v1 field names.
var detailAliases = map[string][]string{
	"place_id": {"place_id", "placeId", "id"},
	"name":     {"displayName.text", "name"},
	"address":  {"formatted_address", "formattedAddress", "vicinity", "shortFormattedAddress"},
	"phone": {
		"formatted_phone_number", "nationalPhoneNumber",
		"international_phone_number", "internationalPhoneNumber",
	},
	"website": {"website", "websiteUri"},
	"status":  {"business_status", "businessStatus"},
}

var reviewAliases = map[string][]string{
	"author": {"author_name", "authorAttribution.displayName", "author"},
	"text":   {"text", "text.text", "originalText.text"},
}

var hoursPaths = []string{"opening_hours", "current_opening_hours", "regularOpeningHours", "currentOpeningHours"}

// generic directory types that say nothing about the business
var ignoredTypes = map[string]struct{}{
	"point_of_interest": {},
	"establishment":     {},
}

const reviewDateLayout = "1/2/2006"

/********** tiny helpers **********/

// lookupAny: safe nested lookup with dot paths on maps.
func lookupAny(m map[string]any, path string) any {
	cur := any(m)
	for _, part := range strings.Split(path, ".") {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		v, ok := obj[part]
		if !ok {
			return nil
		}
		cur = v
	}
	return cur
}

// lookupStr returns string at path or "".
func lookupStr(m map[string]any, path string) string {
	if v := lookupAny(m, path); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// firstNonEmptyAlias: first non-empty string for a named alias set.
func firstNonEmptyAlias(m map[string]any, aliases map[string][]string, key string) *string {
	for _, p := range aliases[key] {
		if s := strings.TrimSpace(lookupStr(m, p)); s != "" {
			return &s
		}
	}
	return nil
}

// mapName skips v1 resource names ("places/<id>"), which are ids, not display names.
func mapName(m map[string]any) string {
	for _, k := range detailAliases["name"] {
		s := strings.TrimSpace(lookupStr(m, k))
		if s != "" && !strings.HasPrefix(s, "places/") {
			return s
		}
	}
	return ""
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

// getFloatFlexible: number from several paths (float64/int/string like "4,5").
func getFloatFlexible(m map[string]any, paths ...string) *float64 {
	for _, k := range paths {
		switch v := lookupAny(m, k).(type) {
		case float64:
			f := v
			return &f
		case int:
			f := float64(v)
			return &f
		case string:
			s := strings.TrimSpace(strings.ReplaceAll(v, ",", "."))
			if s == "" {
				continue
			}
			if f, err := strconv.ParseFloat(s, 64); err == nil {
				return &f
			}
		}
	}
	return nil
}

// firstInt64Flexible: int64 from several paths (float64/int/string).
func firstInt64Flexible(m map[string]any, paths ...string) *int64 {
	for _, k := range paths {
		switch v := lookupAny(m, k).(type) {
		case float64:
			x := int64(v)
			return &x
		case int:
			x := int64(v)
			return &x
		case int64:
			x := v
			return &x
		case string:
			s := strings.TrimSpace(v)
			if s == "" {
				continue
			}
			if n, err := strconv.ParseInt(s, 10, 64); err == nil {
				return &n
			}
		}
	}
	return nil
}

// firstSlice returns the first path that holds a JSON array.
func firstSlice(m map[string]any, paths ...string) ([]any, bool) {
	for _, k := range paths {
		if raw, ok := lookupAny(m, k).([]any); ok {
			return raw, true
		}
	}
	return nil, false
}

func firstMap(m map[string]any, paths ...string) map[string]any {
	for _, k := range paths {
		if obj, ok := lookupAny(m, k).(map[string]any); ok {
			return obj
		}
	}
	return nil
}

// humanizeType turns "breakfast_restaurant" into "Breakfast Restaurant".
func humanizeType(t string) string {
	words := strings.Fields(strings.ReplaceAll(t, "_", " "))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

/********** details mapper **********/

// mapDetails maps a directory detail record onto a Profile. Only a missing
// place id makes the record unusable; every other field has a default.
func mapDetails(p map[string]any, loc *time.Location) (domain.Profile, error) {
	id := firstNonEmptyAlias(p, detailAliases, "place_id")
	if id == nil {
		return domain.Profile{}, fmt.Errorf("details without place id: %w", domain.ErrMalformed)
	}
	if loc == nil {
		loc = time.UTC
	}

	prof := domain.Profile{
		PlaceID:        *id,
		Name:           mapName(p),
		Address:        deref(firstNonEmptyAlias(p, detailAliases, "address")),
		Phone:          firstNonEmptyAlias(p, detailAliases, "phone"),
		Website:        firstNonEmptyAlias(p, detailAliases, "website"),
		Categories:     mapCategories(p),
		Hours:          mapHours(p),
		BusinessStatus: domain.ParseBusinessStatus(deref(firstNonEmptyAlias(p, detailAliases, "status"))),
		RecentReviews:  mapReviews(p, loc),
	}
	if f := getFloatFlexible(p, "rating"); f != nil {
		prof.Rating = *f
	}
	if n := firstInt64Flexible(p, "user_ratings_total", "userRatingCount"); n != nil {
		prof.TotalReviews = int(*n)
	}
	if photos, ok := firstSlice(p, "photos"); ok {
		prof.PhotoCount = len(photos)
	}
	if n := firstInt64Flexible(p, "price_level"); n != nil {
		lvl := int(*n)
		prof.PriceLevel = &lvl
	}
	return prof.Normalize(), nil
}

func mapCategories(p map[string]any) []string {
	raw, _ := firstSlice(p, "types")
	out := make([]string, 0, len(raw))
	seen := make(map[string]struct{}, len(raw))
	for _, it := range raw {
		t, ok := it.(string)
		if !ok || t == "" {
			continue
		}
		if _, skip := ignoredTypes[t]; skip {
			continue
		}
		h := humanizeType(t)
		if _, dup := seen[h]; dup {
			continue
		}
		seen[h] = struct{}{}
		out = append(out, h)
	}
	return out
}

// mapHours returns nil when the record carries no opening hours object at all.
func mapHours(p map[string]any) *domain.Hours {
	oh := firstMap(p, hoursPaths...)
	if oh == nil {
		return nil
	}
	h := &domain.Hours{WeekdayText: []string{}}
	for _, k := range []string{"open_now", "openNow"} {
		if b, ok := oh[k].(bool); ok {
			h.IsOpen = b
			break
		}
	}
	if raw, ok := firstSlice(oh, "weekday_text", "weekdayDescriptions"); ok {
		for _, it := range raw {
			if s, ok := it.(string); ok && strings.TrimSpace(s) != "" {
				h.WeekdayText = append(h.WeekdayText, s)
			}
		}
	}
	return h
}

type datedReview struct {
	domain.Review
	at time.Time
}

// mapReviews keeps the most recent reviews first, at most three.
func mapReviews(p map[string]any, loc *time.Location) []domain.Review {
	raw, _ := firstSlice(p, "reviews")
	items := make([]datedReview, 0, len(raw))
	for _, it := range raw {
		r, ok := it.(map[string]any)
		if !ok {
			continue
		}
		var dr datedReview
		dr.Author = deref(firstNonEmptyAlias(r, reviewAliases, "author"))
		dr.Text = deref(firstNonEmptyAlias(r, reviewAliases, "text"))
		if f := getFloatFlexible(r, "rating"); f != nil {
			dr.Rating = int(math.Round(*f))
		}
		if sec := firstInt64Flexible(r, "time"); sec != nil {
			dr.at = time.Unix(*sec, 0)
		} else if ts := lookupStr(r, "publishTime"); ts != "" {
			if t, err := time.Parse(time.RFC3339, ts); err == nil {
				dr.at = t
			}
		}
		if !dr.at.IsZero() {
			dr.Date = dr.at.In(loc).Format(reviewDateLayout)
		}
		items = append(items, dr)
	}

	sort.SliceStable(items, func(i, j int) bool { return items[i].at.After(items[j].at) })
	if len(items) > domain.MaxRecentReviews {
		items = items[:domain.MaxRecentReviews]
	}
	out := make([]domain.Review, len(items))
	for i, it := range items {
		out[i] = it.Review
	}
	return out
}

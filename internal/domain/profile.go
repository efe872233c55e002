package domain

import "strings"

type BusinessStatus string

const (
	StatusOperational       BusinessStatus = "OPERATIONAL"
	StatusClosedTemporarily BusinessStatus = "CLOSED_TEMPORARILY"
	StatusClosedPermanently BusinessStatus = "CLOSED_PERMANENTLY"
	StatusUnknown           BusinessStatus = "UNKNOWN"
)

// ParseBusinessStatus maps a directory status string onto the enum; anything
// unrecognized (including "") is UNKNOWN.
func ParseBusinessStatus(s string) BusinessStatus {
	switch BusinessStatus(strings.ToUpper(strings.TrimSpace(s))) {
	case StatusOperational:
		return StatusOperational
	case StatusClosedTemporarily:
		return StatusClosedTemporarily
	case StatusClosedPermanently:
		return StatusClosedPermanently
	}
	return StatusUnknown
}

const MaxRecentReviews = 3

type Hours struct {
	IsOpen      bool     `json:"isOpen"`
	WeekdayText []string `json:"weekdayText"`
}

// Profile is the normalized business record an audit is computed from.
// Treat it as a value: build it, Normalize it, never mutate it afterwards.
type Profile struct {
	PlaceID        string         `json:"placeId"`
	Name           string         `json:"name"`
	Address        string         `json:"address"`
	Phone          *string        `json:"phone"`
	Website        *string        `json:"website"`
	Rating         float64        `json:"rating"`
	TotalReviews   int            `json:"totalReviews"`
	Categories     []string       `json:"categories"`
	Hours          *Hours         `json:"hours"`
	PhotoCount     int            `json:"photos"`
	BusinessStatus BusinessStatus `json:"businessStatus"`
	PriceLevel     *int           `json:"priceLevel,omitempty"`
	RecentReviews  []Review       `json:"recentReviews"`
}

// Normalize returns a copy with every invariant enforced. The copy shares no
// slices or pointers with p.
func (p Profile) Normalize() Profile {
	out := p

	switch {
	case out.Rating < 0:
		out.Rating = 0
	case out.Rating > 5:
		out.Rating = 5
	}
	if out.TotalReviews < 0 {
		out.TotalReviews = 0
	}
	if out.PhotoCount < 0 {
		out.PhotoCount = 0
	}
	out.BusinessStatus = ParseBusinessStatus(string(out.BusinessStatus))

	out.Phone = copyStr(p.Phone)
	out.Website = copyStr(p.Website)
	if p.PriceLevel != nil {
		lvl := *p.PriceLevel
		out.PriceLevel = &lvl
	}

	out.Categories = make([]string, 0, len(p.Categories))
	for _, c := range p.Categories {
		if c = strings.TrimSpace(c); c != "" {
			out.Categories = append(out.Categories, c)
		}
	}

	if p.Hours != nil {
		h := Hours{IsOpen: p.Hours.IsOpen, WeekdayText: make([]string, len(p.Hours.WeekdayText))}
		copy(h.WeekdayText, p.Hours.WeekdayText)
		out.Hours = &h
	}

	n := len(p.RecentReviews)
	if n > MaxRecentReviews {
		n = MaxRecentReviews
	}
	out.RecentReviews = make([]Review, n)
	for i := 0; i < n; i++ {
		out.RecentReviews[i] = p.RecentReviews[i].clamped()
	}
	return out
}

func copyStr(p *string) *string {
	if p == nil {
		return nil
	}
	s := *p
	return &s
}

package app

import (
	"strings"

	"github.com/Youngregg/gbp-audit-tool/internal/domain"
)

const MaxScore = 100

// tier is one threshold of a tiered criterion; tiers are listed highest first.
type tier struct {
	min    int
	points int
}

func tiered(v int, tiers ...tier) int {
	for _, t := range tiers {
		if v >= t.min {
			return t.points
		}
	}
	return 0
}

func flag(ok bool, points int) int {
	if ok {
		return points
	}
	return 0
}

type criterion struct {
	id    domain.Criterion
	max   int
	award func(p domain.Profile) int
}

var criteria = []criterion{
	{domain.CriterionName, 5, func(p domain.Profile) int { return flag(present(p.Name), 5) }},
	{domain.CriterionAddress, 5, func(p domain.Profile) int { return flag(present(p.Address), 5) }},
	{domain.CriterionPhone, 5, func(p domain.Profile) int { return flag(p.Phone != nil, 5) }},
	{domain.CriterionWebsite, 5, func(p domain.Profile) int { return flag(p.Website != nil, 5) }},
	{domain.CriterionCategories, 5, func(p domain.Profile) int { return flag(len(p.Categories) > 0, 5) }},
	{domain.CriterionOperational, 5, func(p domain.Profile) int {
		return flag(p.BusinessStatus == domain.StatusOperational, 5)
	}},
	{domain.CriterionHasReviews, 10, func(p domain.Profile) int { return flag(p.TotalReviews > 0, 10) }},
	{domain.CriterionRating40, 10, func(p domain.Profile) int { return flag(p.Rating >= 4.0, 10) }},
	{domain.CriterionRating45, 5, func(p domain.Profile) int { return flag(p.Rating >= 4.5, 5) }},
	{domain.CriterionPhotos, 15, func(p domain.Profile) int {
		return tiered(p.PhotoCount, tier{10, 15}, tier{5, 10}, tier{1, 5})
	}},
	{domain.CriterionHours, 15, func(p domain.Profile) int {
		if p.Hours == nil {
			return 0
		}
		return tiered(len(p.Hours.WeekdayText), tier{7, 15}, tier{5, 10}, tier{0, 5})
	}},
	{domain.CriterionRecentReviews, 10, func(p domain.Profile) int {
		return tiered(len(p.RecentReviews), tier{3, 10}, tier{1, 5})
	}},
	{domain.CriterionReviewVolume, 5, func(p domain.Profile) int { return flag(p.TotalReviews >= 50, 5) }},
}

// MaxPoints is the sum of every criterion's maximum award.
func MaxPoints() int {
	n := 0
	for _, c := range criteria {
		n += c.max
	}
	return n
}

// Score computes the completeness score of p. It is pure: no I/O, and p is
// only read.
func Score(p domain.Profile) domain.Score {
	out := domain.Score{Breakdown: make(map[domain.Criterion]int, len(criteria))}
	for _, c := range criteria {
		pts := c.award(p)
		out.Breakdown[c.id] = pts
		out.Total += pts
	}
	// safety net; the weights sum to MaxScore
	if out.Total > MaxScore {
		out.Total = MaxScore
	}
	if out.Total < 0 {
		out.Total = 0
	}
	return out
}

var placeholders = map[string]struct{}{
	"unknown": {},
	"n/a":     {},
	"na":      {},
	"-":       {},
	"none":    {},
}

func present(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return false
	}
	_, sentinel := placeholders[s]
	return !sentinel
}

package domain

// Source tells the caller whether a Profile came from the live directory or
// was synthesized locally.
type Source string

const (
	SourceLive Source = "LIVE"
	SourceDemo Source = "DEMO"
)

type FetchResult struct {
	Profile  Profile
	Source   Source
	Advisory string        // set for DEMO results only
	Fallback FailureReason // why the live lookup was abandoned; empty for LIVE
}

type Criterion string

const (
	CriterionName          Criterion = "name"
	CriterionAddress       Criterion = "address"
	CriterionPhone         Criterion = "phone"
	CriterionWebsite       Criterion = "website"
	CriterionCategories    Criterion = "categories"
	CriterionOperational   Criterion = "operational"
	CriterionHasReviews    Criterion = "has_reviews"
	CriterionRating40      Criterion = "rating_4_0"
	CriterionRating45      Criterion = "rating_4_5"
	CriterionPhotos        Criterion = "photos"
	CriterionHours         Criterion = "hours"
	CriterionRecentReviews Criterion = "recent_reviews"
	CriterionReviewVolume  Criterion = "review_volume"
)

// Criteria lists every scoring criterion in display order.
var Criteria = []Criterion{
	CriterionName, CriterionAddress, CriterionPhone, CriterionWebsite,
	CriterionCategories, CriterionOperational, CriterionHasReviews,
	CriterionRating40, CriterionRating45, CriterionPhotos, CriterionHours,
	CriterionRecentReviews, CriterionReviewVolume,
}

type Score struct {
	Total     int               `json:"total"`
	Breakdown map[Criterion]int `json:"breakdown"`
}

// AuditReport is what callers render: the fetched profile, where it came from,
// and its score.
type AuditReport struct {
	Query    string        `json:"query"`
	Source   Source        `json:"source"`
	Advisory string        `json:"advisory,omitempty"`
	Fallback FailureReason `json:"fallbackReason,omitempty"`
	Profile  Profile       `json:"profile"`
	Score    Score         `json:"score"`
}

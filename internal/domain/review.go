package domain

// Review is one of the most recent directory reviews attached to a Profile.
type Review struct {
	Rating int    `json:"rating"`
	Text   string `json:"text"`
	Date   string `json:"date"` // locale-formatted, e.g. 1/20/2025
	Author string `json:"author"`
}

func (r Review) clamped() Review {
	switch {
	case r.Rating < 1:
		r.Rating = 1
	case r.Rating > 5:
		r.Rating = 5
	}
	return r
}

package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNoCandidates: the directory resolved the query to zero places.
	ErrNoCandidates = errors.New("directory: no matching place")
	// ErrMalformed: the directory answered but the payload is unusable.
	ErrMalformed = errors.New("directory: malformed payload")
	// ErrMissingCredentials: no directory credentials are configured.
	ErrMissingCredentials = errors.New("directory: credentials not configured")
)

type FailureReason string

const (
	ReasonInvalidInput        FailureReason = "INVALID_INPUT"
	ReasonMissingCredentials  FailureReason = "MISSING_CREDENTIALS"
	ReasonUpstreamUnavailable FailureReason = "UPSTREAM_UNAVAILABLE"
	ReasonMalformedResponse   FailureReason = "MALFORMED_RESPONSE"
)

// FetchFailure is the only error a profile fetch returns. Reason is always
// INVALID_INPUT or MISSING_CREDENTIALS; the other reasons degrade to demo data.
type FetchFailure struct {
	Reason FailureReason
	Err    error
}

func (f *FetchFailure) Error() string {
	if f.Err != nil {
		return fmt.Sprintf("%s: %v", f.Reason, f.Err)
	}
	return string(f.Reason)
}

func (f *FetchFailure) Unwrap() error { return f.Err }

// AsFetchFailure reports whether err carries a FetchFailure and returns it.
func AsFetchFailure(err error) (*FetchFailure, bool) {
	var ff *FetchFailure
	if errors.As(err, &ff) {
		return ff, true
	}
	return nil, false
}

package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Youngregg/gbp-audit-tool/internal/domain"
)

const (
	DefaultLookupTimeout = 10 * time.Second

	DemoAdvisory = "Backend API not available. Showing demo data. Deploy with backend support for real data."
)

// FetcherConfig is everything a Fetcher needs from the outside world.
type FetcherConfig struct {
	APIKey  string        // directory credential; empty is a hard failure
	Timeout time.Duration // bound on the live lookup; <=0 means DefaultLookupTimeout
}

// Fetcher turns a query into a Profile: live when the directory answers,
// demo data otherwise. It holds no per-call state.
type Fetcher struct {
	cfg    FetcherConfig
	lookup domain.ProfileLookup
	demo   *DemoGenerator
}

func NewFetcher(cfg FetcherConfig, lookup domain.ProfileLookup, demo *DemoGenerator) *Fetcher {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultLookupTimeout
	}
	if demo == nil {
		demo = NewDemoGenerator()
	}
	return &Fetcher{cfg: cfg, lookup: lookup, demo: demo}
}

// Fetch returns a tagged Profile, or a *domain.FetchFailure for an empty query
// or missing credentials. Every other failure falls back to demo data.
func (f *Fetcher) Fetch(ctx context.Context, query string) (domain.FetchResult, error) {
	q := strings.TrimSpace(query)
	if q == "" {
		return domain.FetchResult{}, &domain.FetchFailure{Reason: domain.ReasonInvalidInput, Err: errors.New("query is empty")}
	}
	if f.cfg.APIKey == "" {
		return domain.FetchResult{}, &domain.FetchFailure{Reason: domain.ReasonMissingCredentials, Err: domain.ErrMissingCredentials}
	}

	prof, err := f.live(ctx, q)
	if err == nil {
		return domain.FetchResult{Profile: prof, Source: domain.SourceLive}, nil
	}
	if errors.Is(err, domain.ErrMissingCredentials) {
		return domain.FetchResult{}, &domain.FetchFailure{Reason: domain.ReasonMissingCredentials, Err: err}
	}

	reason := domain.ReasonUpstreamUnavailable
	if errors.Is(err, domain.ErrMalformed) {
		reason = domain.ReasonMalformedResponse
	}
	log.Warn().Err(err).Str("query", q).Str("reason", string(reason)).Msg("live lookup failed; serving demo profile")

	return domain.FetchResult{
		Profile:  f.demo.Generate(q),
		Source:   domain.SourceDemo,
		Advisory: DemoAdvisory,
		Fallback: reason,
	}, nil
}

func (f *Fetcher) live(ctx context.Context, q string) (prof domain.Profile, err error) {
	if f.lookup == nil {
		return domain.Profile{}, errors.New("no live lookup configured")
	}
	ctx, cancel := context.WithTimeout(ctx, f.cfg.Timeout)
	defer cancel()

	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("lookup panic: %v", rec)
		}
	}()

	prof, err = f.lookup.Lookup(ctx, q)
	if err != nil {
		return domain.Profile{}, err
	}
	if prof.PlaceID == "" {
		return domain.Profile{}, fmt.Errorf("profile without place id: %w", domain.ErrMalformed)
	}
	return prof.Normalize(), nil
}

package app

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Youngregg/gbp-audit-tool/internal/adapters/observability"
	"github.com/Youngregg/gbp-audit-tool/internal/domain"
)

// AuditService runs the whole pipeline: fetch a profile, then score it.
type AuditService struct {
	fetcher *Fetcher
}

func NewAuditService(f *Fetcher) *AuditService {
	return &AuditService{fetcher: f}
}

func (s *AuditService) Audit(ctx context.Context, query string) (domain.AuditReport, error) {
	start := time.Now()
	res, err := s.fetcher.Fetch(ctx, query)
	if err != nil {
		reason := "error"
		if ff, ok := domain.AsFetchFailure(err); ok {
			reason = string(ff.Reason)
		}
		observability.ObserveFetch("FAILED", reason)
		log.Warn().Err(err).Str("reason", reason).Msg("audit rejected")
		return domain.AuditReport{}, err
	}

	sc := Score(res.Profile)
	observability.ObserveFetch(string(res.Source), string(res.Fallback))
	observability.ObserveScore(sc.Total)

	log.Info().
		Str("place_id", res.Profile.PlaceID).
		Str("source", string(res.Source)).
		Int("score", sc.Total).
		Dur("duration", time.Since(start)).
		Msg("audit completed")

	return domain.AuditReport{
		Query:    strings.TrimSpace(query),
		Source:   res.Source,
		Advisory: res.Advisory,
		Fallback: res.Fallback,
		Profile:  res.Profile,
		Score:    sc,
	}, nil
}

package app

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Youngregg/gbp-audit-tool/internal/domain"
)

// Resolver is the live profile lookup: query -> place id -> detail record -> Profile.
// Only the query -> place id step is cached; profiles are always built fresh.
type Resolver struct {
	places   domain.PlacesClient
	cache    domain.Cache
	cacheTTL time.Duration
	loc      *time.Location
}

// NewResolver wires the directory client. p may be nil when no credentials are
// configured; c may be nil to disable resolution caching.
func NewResolver(p domain.PlacesClient, c domain.Cache, ttl time.Duration, loc *time.Location) *Resolver {
	if loc == nil {
		loc = time.UTC
	}
	return &Resolver{places: p, cache: c, cacheTTL: ttl, loc: loc}
}

func (r *Resolver) Lookup(ctx context.Context, query string) (domain.Profile, error) {
	if r.places == nil {
		return domain.Profile{}, domain.ErrMissingCredentials
	}
	query = strings.TrimSpace(query)

	placeID, cached, err := r.resolve(ctx, query)
	if err != nil {
		return domain.Profile{}, err
	}

	raw, err := r.places.Details(ctx, placeID)
	if err != nil {
		// a cached id the directory no longer knows must not stick around
		if cached && errors.Is(err, domain.ErrNoCandidates) {
			r.invalidate(ctx, query)
		}
		return domain.Profile{}, fmt.Errorf("details %s: %w", placeID, err)
	}
	return mapDetails(raw, r.loc)
}

func (r *Resolver) resolve(ctx context.Context, query string) (id string, cached bool, err error) {
	key := resolveKey(query)
	if r.cache != nil {
		if ok, _ := r.cache.Get(ctx, key, &id); ok && id != "" {
			return id, true, nil
		}
	}

	cands, err := r.places.TextSearch(ctx, query)
	if err != nil {
		return "", false, fmt.Errorf("text search: %w", err)
	}
	if len(cands) == 0 {
		return "", false, domain.ErrNoCandidates
	}
	pid := firstNonEmptyAlias(cands[0], detailAliases, "place_id")
	if pid == nil {
		return "", false, fmt.Errorf("candidate without place id: %w", domain.ErrMalformed)
	}

	if r.cache != nil {
		if err := r.cache.Set(ctx, key, *pid, int(r.cacheTTL.Seconds())); err != nil {
			log.Debug().Err(err).Msg("resolution cache set failed")
		}
	}
	return *pid, false, nil
}

func (r *Resolver) invalidate(ctx context.Context, query string) {
	if r.cache == nil {
		return
	}
	_ = r.cache.Del(ctx, resolveKey(query))
}

func resolveKey(query string) string {
	sum := sha1.Sum([]byte(strings.ToLower(query)))
	return "resolve:" + hex.EncodeToString(sum[:])
}

// Package wiring assembles the fetch pipeline from configuration; both
// binaries share it.
package wiring

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Youngregg/gbp-audit-tool/internal/adapters/places"
	redisad "github.com/Youngregg/gbp-audit-tool/internal/adapters/redis"
	"github.com/Youngregg/gbp-audit-tool/internal/app"
	"github.com/Youngregg/gbp-audit-tool/internal/domain"
	"github.com/Youngregg/gbp-audit-tool/internal/shared"
)

type Deps struct {
	Resolver *app.Resolver
	Fetcher  *app.Fetcher
	cache    *redisad.Cache
}

func (d *Deps) Close() {
	if d.cache != nil {
		_ = d.cache.Close()
	}
}

// Build never fails: a missing key leaves the resolver without a directory
// client, and an unreachable redis just disables the resolution cache.
func Build(ctx context.Context, cfg shared.Config) *Deps {
	d := &Deps{}

	var pc domain.PlacesClient
	if client, err := places.New(cfg.PlacesBase, cfg.PlacesKey, cfg.PlacesRPS); err != nil {
		log.Warn().Err(err).Msg("places client disabled")
	} else {
		pc = client
	}

	var cache domain.Cache
	if cfg.RedisAddr != "" {
		rc := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
		pctx, cancel := context.WithTimeout(ctx, 2*time.Second)
		err := rc.Ping(pctx)
		cancel()
		if err != nil {
			log.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("redis unavailable; resolution cache disabled")
			_ = rc.Close()
		} else {
			log.Info().Str("addr", cfg.RedisAddr).Msg("resolution cache enabled")
			d.cache = rc
			cache = rc
		}
	}

	d.Resolver = app.NewResolver(pc, cache, cfg.CacheTTL, cfg.TimeZone)
	d.Fetcher = app.NewFetcher(app.FetcherConfig{APIKey: cfg.PlacesKey, Timeout: cfg.LookupTimeout}, d.Resolver, app.NewDemoGenerator())
	return d
}

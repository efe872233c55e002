package wiring_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Youngregg/gbp-audit-tool/internal/domain"
	"github.com/Youngregg/gbp-audit-tool/internal/shared"
	"github.com/Youngregg/gbp-audit-tool/internal/wiring"
)

func baseConfig() shared.Config {
	return shared.Config{
		PlacesBase:    "http://127.0.0.1:1", // nothing listens here
		PlacesRPS:     50,
		LookupTimeout: 2 * time.Second,
		CacheTTL:      time.Minute,
		TimeZone:      time.UTC,
	}
}

func TestBuild_WithoutKeyIsHardFailure(t *testing.T) {
	d := wiring.Build(context.Background(), baseConfig())
	defer d.Close()

	_, err := d.Fetcher.Fetch(context.Background(), "acme")
	ff, ok := domain.AsFetchFailure(err)
	require.True(t, ok)
	assert.Equal(t, domain.ReasonMissingCredentials, ff.Reason)
}

func TestBuild_UnreachableDirectoryServesDemo(t *testing.T) {
	cfg := baseConfig()
	cfg.PlacesKey = "k"
	cfg.RedisAddr = miniredis.RunT(t).Addr()

	d := wiring.Build(context.Background(), cfg)
	defer d.Close()

	res, err := d.Fetcher.Fetch(context.Background(), "acme")
	require.NoError(t, err)
	assert.Equal(t, domain.SourceDemo, res.Source)
	assert.Contains(t, res.Profile.Name, "acme")
}

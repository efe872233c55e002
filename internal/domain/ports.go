package domain

import "context"

// PlacesClient is the upstream directory: text query resolution, then detail
// fetch by opaque place id. Payloads are returned loosely typed.
type PlacesClient interface {
	TextSearch(ctx context.Context, query string) ([]map[string]any, error)
	Details(ctx context.Context, placeID string) (map[string]any, error)
}

// ProfileLookup is the primary (live) lookup behind a profile fetch.
type ProfileLookup interface {
	Lookup(ctx context.Context, query string) (Profile, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}

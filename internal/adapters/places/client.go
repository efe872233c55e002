// internal/adapters/places/client.go
package places

import (
	"context"
	crand "crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/Youngregg/gbp-audit-tool/internal/adapters/observability"
	"github.com/Youngregg/gbp-audit-tool/internal/domain"
)

const DefaultBaseURL = "https://maps.googleapis.com/maps/api/place"

// detailFields is the field mask for the detail call; billing is per field group.
var detailFields = strings.Join([]string{
	"place_id", "name", "formatted_address", "vicinity",
	"formatted_phone_number", "international_phone_number", "website",
	"rating", "user_ratings_total", "types", "opening_hours", "photos",
	"business_status", "price_level", "reviews",
}, ",")

type Client struct {
	base string
	hc   *http.Client
	key  string
	rl   *rate.Limiter
}

func New(base, key string, rps int) (*Client, error) {
	if key == "" {
		return nil, domain.ErrMissingCredentials
	}
	if base == "" {
		base = DefaultBaseURL
	}
	if rps <= 0 {
		rps = 5
	}
	return &Client{
		base: strings.TrimRight(base, "/"),
		hc:   &http.Client{Timeout: 20 * time.Second},
		key:  key,
		rl:   rate.NewLimiter(rate.Limit(rps), rps),
	}, nil
}

// ---- Public API ----

// TextSearch resolves a free-text query to candidate places, best match first.
func (c *Client) TextSearch(ctx context.Context, query string) ([]map[string]any, error) {
	q := url.Values{}
	q.Set("query", query)
	var out struct {
		envelope
		Results []map[string]any `json:"results"`
	}
	if err := c.get(ctx, "textsearch", q, &out); err != nil {
		return nil, err
	}
	if err := out.check(); err != nil {
		return nil, err
	}
	if len(out.Results) == 0 {
		return nil, domain.ErrNoCandidates
	}
	return out.Results, nil
}

// Details fetches the full record for a place id.
func (c *Client) Details(ctx context.Context, placeID string) (map[string]any, error) {
	q := url.Values{}
	q.Set("place_id", placeID)
	q.Set("fields", detailFields)
	q.Set("reviews_sort", "newest")
	var out struct {
		envelope
		Result map[string]any `json:"result"`
	}
	if err := c.get(ctx, "details", q, &out); err != nil {
		return nil, err
	}
	if err := out.check(); err != nil {
		return nil, err
	}
	if out.Result == nil {
		return nil, fmt.Errorf("details %s: %w", placeID, domain.ErrMalformed)
	}
	return out.Result, nil
}

// ---- Internals ----

var (
	ErrUnauthorized = errors.New("places: request denied")
	ErrQuota        = errors.New("places: over query limit")
	ErrInvalid      = errors.New("places: invalid request")
)

// envelope is the status block every Places web-service response carries.
type envelope struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
}

func (e envelope) check() error {
	switch e.Status {
	case "OK":
		return nil
	case "ZERO_RESULTS", "NOT_FOUND":
		return domain.ErrNoCandidates
	case "REQUEST_DENIED":
		return fmt.Errorf("%w: %s", ErrUnauthorized, e.ErrorMessage)
	case "OVER_QUERY_LIMIT":
		return fmt.Errorf("%w: %s", ErrQuota, e.ErrorMessage)
	case "INVALID_REQUEST":
		return fmt.Errorf("%w: %s", ErrInvalid, e.ErrorMessage)
	case "":
		return fmt.Errorf("missing status: %w", domain.ErrMalformed)
	default:
		return fmt.Errorf("places: status %s: %s", e.Status, e.ErrorMessage)
	}
}

// get performs a GET with client-side rate limiting, retries, and JSON decode into out.
// Retries on 429 and transient 5xx, honoring Retry-After when provided.
func (c *Client) get(ctx context.Context, endpoint string, q url.Values, out any) error {
	if err := c.rl.Wait(ctx); err != nil {
		return err
	}

	q.Set("key", c.key)
	u := fmt.Sprintf("%s/%s/json?%s", c.base, endpoint, q.Encode())

	var lastErr error
	for i := 0; i < 4; i++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return err
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set("User-Agent", "gbp-audit-tool/1.0")

		start := time.Now()
		resp, err := c.hc.Do(req)
		if err != nil {
			observability.ObserveExternal("places", endpoint, 0, time.Since(start))
			if ctx.Err() != nil {
				return ctx.Err()
			}
			lastErr = err
			log.Debug().Err(err).Str("endpoint", endpoint).Int("attempt", i+1).Msg("places request failed")
			if i < 3 && sleepCtx(ctx, backoff(i)) {
				continue
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return lastErr
		}
		observability.ObserveExternal("places", endpoint, resp.StatusCode, time.Since(start))

		switch resp.StatusCode {
		case http.StatusOK:
			err := json.NewDecoder(resp.Body).Decode(out)
			resp.Body.Close()
			if err != nil {
				return fmt.Errorf("decode %s: %v: %w", endpoint, err, domain.ErrMalformed)
			}
			return nil

		case http.StatusUnauthorized, http.StatusForbidden:
			resp.Body.Close()
			return ErrUnauthorized

		case http.StatusTooManyRequests, http.StatusInternalServerError,
			http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			wait := retryAfter(resp)
			resp.Body.Close()
			if wait == 0 {
				wait = backoff(i)
			}
			lastErr = fmt.Errorf("remote %d", resp.StatusCode)
			log.Debug().Int("status", resp.StatusCode).Str("endpoint", endpoint).Dur("wait", wait).Msg("places retrying")
			if i < 3 && sleepCtx(ctx, wait) {
				continue
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return lastErr

		default:
			b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
			resp.Body.Close()
			return fmt.Errorf("bad status %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
		}
	}

	return lastErr
}

// sleepCtx waits for d or returns early if ctx is done.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// retryAfter parses Retry-After header (seconds or HTTP-date). Returns 0 if absent/invalid.
func retryAfter(resp *http.Response) time.Duration {
	h := resp.Header.Get("Retry-After")
	if h == "" {
		return 0
	}
	if secs, err := strconv.Atoi(strings.TrimSpace(h)); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(h); err == nil {
		if d := time.Until(t); d > 0 {
			return d
		}
	}
	return 0
}

// backoff returns 200ms, 400ms, 800ms... plus up to 50% jitter.
func backoff(i int) time.Duration {
	base := time.Duration(1<<i) * 200 * time.Millisecond
	var b [1]byte
	if _, err := crand.Read(b[:]); err != nil {
		return base
	}
	f := float64(b[0]) / 255.0
	j := time.Duration(0.5 * f * float64(base))
	return base + j
}

package httpserver_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	httpserver "github.com/Youngregg/gbp-audit-tool/internal/adapters/http_server"
	"github.com/Youngregg/gbp-audit-tool/internal/app"
	"github.com/Youngregg/gbp-audit-tool/internal/domain"
)

type stubLookup struct {
	p     domain.Profile
	err   error
	calls int
}

func (s *stubLookup) Lookup(ctx context.Context, q string) (domain.Profile, error) {
	s.calls++
	return s.p, s.err
}

func pstr(s string) *string { return &s }

func liveProfile() domain.Profile {
	return domain.Profile{
		PlaceID:        "ChIJ1",
		Name:           "Acme Bakery",
		Address:        "1 Main St",
		Phone:          pstr("555"),
		Website:        pstr("https://acme.example"),
		Rating:         4.6,
		TotalReviews:   120,
		Categories:     []string{"Bakery"},
		Hours:          &domain.Hours{IsOpen: true, WeekdayText: []string{"1", "2", "3", "4", "5", "6", "7"}},
		PhotoCount:     15,
		BusinessStatus: domain.StatusOperational,
		RecentReviews:  []domain.Review{{Rating: 5}, {Rating: 4}, {Rating: 5}},
	}
}

func newServer(lk *stubLookup, key string) *httptest.Server {
	fetcher := app.NewFetcher(app.FetcherConfig{APIKey: key, Timeout: time.Second}, lk, nil)
	srv := httpserver.New(5 * time.Second)
	srv.MountHandlers(&httpserver.Handlers{
		Audit:          app.NewAuditService(fetcher),
		Lookup:         lk,
		HasCredentials: key != "",
	})
	return httptest.NewServer(srv.Mux())
}

func do(t *testing.T, method, url, body string) (*http.Response, map[string]any) {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	defer res.Body.Close()
	var out map[string]any
	_ = json.NewDecoder(res.Body).Decode(&out)
	return res, out
}

func TestPlacesSearch_Preflight(t *testing.T) {
	ts := newServer(&stubLookup{}, "k")
	defer ts.Close()

	res, _ := do(t, http.MethodOptions, ts.URL+"/api/places-search", "")
	if res.StatusCode != http.StatusOK {
		t.Fatalf("status %d", res.StatusCode)
	}
	for k, want := range map[string]string{
		"Access-Control-Allow-Origin":  "*",
		"Access-Control-Allow-Headers": "Content-Type",
		"Access-Control-Allow-Methods": "POST, OPTIONS",
	} {
		if got := res.Header.Get(k); got != want {
			t.Fatalf("%s = %q, want %q", k, got, want)
		}
	}
}

func TestPlacesSearch_StatusCodes(t *testing.T) {
	tests := []struct {
		name    string
		method  string
		body    string
		key     string
		lookup  *stubLookup
		status  int
		errMsg  string
		success any
	}{
		{"wrong method", http.MethodGet, "", "k", &stubLookup{}, 405, "Method not allowed", nil},
		{"bad json", http.MethodPost, "{", "k", &stubLookup{}, 500, "Internal server error", nil},
		{"no key", http.MethodPost, `{"businessQuery":""}`, "", &stubLookup{}, 500, "API key not configured on server", nil},
		{"missing query", http.MethodPost, `{"businessQuery":"  "}`, "k", &stubLookup{}, 400, "Business query is required", nil},
		{"no match", http.MethodPost, `{"businessQuery":"zzz"}`, "k", &stubLookup{err: domain.ErrNoCandidates}, 200, "No matching business found", false},
		{"upstream down", http.MethodPost, `{"businessQuery":"zzz"}`, "k", &stubLookup{err: errors.New("remote 503")}, 500, "Internal server error", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newServer(tt.lookup, tt.key)
			defer ts.Close()

			res, body := do(t, tt.method, ts.URL+"/api/places-search", tt.body)
			if res.StatusCode != tt.status {
				t.Fatalf("status %d, want %d (%v)", res.StatusCode, tt.status, body)
			}
			if res.Header.Get("Access-Control-Allow-Origin") != "*" {
				t.Fatalf("missing CORS header")
			}
			if body["error"] != tt.errMsg {
				t.Fatalf("error %v, want %q", body["error"], tt.errMsg)
			}
			if body["success"] != tt.success {
				t.Fatalf("success %v, want %v", body["success"], tt.success)
			}
		})
	}
}

func TestPlacesSearch_Success(t *testing.T) {
	lk := &stubLookup{p: liveProfile()}
	ts := newServer(lk, "k")
	defer ts.Close()

	res, body := do(t, http.MethodPost, ts.URL+"/api/places-search", `{"businessQuery":"acme bakery"}`)
	if res.StatusCode != http.StatusOK || body["success"] != true {
		t.Fatalf("unexpected response %d %v", res.StatusCode, body)
	}
	data, _ := body["data"].(map[string]any)
	if data["placeId"] != "ChIJ1" || data["photos"] != 15.0 || data["businessStatus"] != "OPERATIONAL" {
		t.Fatalf("unexpected data: %v", data)
	}
	if lk.calls != 1 {
		t.Fatalf("lookup calls %d", lk.calls)
	}
}

func TestCreateAudit(t *testing.T) {
	t.Run("live", func(t *testing.T) {
		ts := newServer(&stubLookup{p: liveProfile()}, "k")
		defer ts.Close()

		res, body := do(t, http.MethodPost, ts.URL+"/v1/audits", `{"query":"acme"}`)
		if res.StatusCode != 200 || body["source"] != "LIVE" {
			t.Fatalf("unexpected %d %v", res.StatusCode, body)
		}
		score, _ := body["score"].(map[string]any)
		if score["total"] != 100.0 {
			t.Fatalf("score %v", score)
		}
	})

	t.Run("demo", func(t *testing.T) {
		ts := newServer(&stubLookup{err: errors.New("down")}, "k")
		defer ts.Close()

		res, body := do(t, http.MethodPost, ts.URL+"/v1/audits", `{"query":"Joe's Tacos"}`)
		if res.StatusCode != 200 || body["source"] != "DEMO" || body["advisory"] != app.DemoAdvisory {
			t.Fatalf("unexpected %d %v", res.StatusCode, body)
		}
		prof, _ := body["profile"].(map[string]any)
		if !strings.Contains(prof["name"].(string), "Joe's Tacos") {
			t.Fatalf("demo name %v", prof["name"])
		}
	})

	t.Run("invalid input", func(t *testing.T) {
		lk := &stubLookup{}
		ts := newServer(lk, "k")
		defer ts.Close()

		res, body := do(t, http.MethodPost, ts.URL+"/v1/audits", `{"query":"   "}`)
		if res.StatusCode != 400 || body["title"] != "INVALID_INPUT" {
			t.Fatalf("unexpected %d %v", res.StatusCode, body)
		}
		if lk.calls != 0 {
			t.Fatalf("lookup must not run")
		}
	})

	t.Run("missing credentials", func(t *testing.T) {
		ts := newServer(&stubLookup{}, "")
		defer ts.Close()

		res, body := do(t, http.MethodPost, ts.URL+"/v1/audits", `{"query":"acme"}`)
		if res.StatusCode != 500 || body["title"] != "MISSING_CREDENTIALS" {
			t.Fatalf("unexpected %d %v", res.StatusCode, body)
		}
	})

	t.Run("wrong method", func(t *testing.T) {
		ts := newServer(&stubLookup{}, "k")
		defer ts.Close()

		res, _ := do(t, http.MethodGet, ts.URL+"/v1/audits", "")
		if res.StatusCode != http.StatusMethodNotAllowed {
			t.Fatalf("status %d", res.StatusCode)
		}
	})
}

package datasource

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

const archiveFixture = `tourney_id,tourney_name,surface,tourney_date,winner_name,loser_name,w_svpt,w_1stWon,w_2ndWon,l_svpt,l_1stWon,l_2ndWon,minutes
2024-001,Australian Open,Hard,20240115,Jannik Sinner,Daniil Medvedev,80,40,18,85,38,15,222
2024-002,Rome Masters,Clay,20240510,Carlos Alcaraz,Casper Ruud,,,,,,,95
2024-003,Bad Date Open,Hard,not-a-date,Somebody,Someone,10,5,2,10,4,2,50
2024-004,No Names Open,Grass,20240701,,Someone,10,5,2,10,4,2,50
`

func TestParseArchiveCSV(t *testing.T) {
	logger := log.New(io.Discard, "", 0)

	matches, err := parseArchiveCSV(strings.NewReader(archiveFixture), logger)
	if err != nil {
		t.Fatalf("parseArchiveCSV failed: %v", err)
	}
	// Bad-date and missing-name rows are dropped
	if len(matches) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(matches))
	}

	first := matches[0]
	if first.WinnerName != "Jannik Sinner" || first.LoserName != "Daniil Medvedev" {
		t.Errorf("unexpected players: %s vs %s", first.WinnerName, first.LoserName)
	}
	if first.Date.Format("2006-01-02") != "2024-01-15" {
		t.Errorf("unexpected date %v", first.Date)
	}
	line, ok := first.WinnerServeLine()
	if !ok || line.Played != 80 || line.Won != 58 {
		t.Errorf("unexpected winner serve line %+v ok=%v", line, ok)
	}
	if first.DurationMinutes(90) != 222 {
		t.Errorf("unexpected duration %d", first.DurationMinutes(90))
	}

	second := matches[1]
	if second.WinnerServePts != nil || second.LoserFirstWon != nil {
		t.Error("missing serve statistics must stay nil")
	}
	if _, ok := second.WinnerServeLine(); ok {
		t.Error("serve line must report missing data")
	}
}

func TestParseArchiveCSVMissingDateColumn(t *testing.T) {
	logger := log.New(io.Discard, "", 0)
	_, err := parseArchiveCSV(strings.NewReader("a,b,c\n1,2,3\n"), logger)
	if err == nil {
		t.Fatal("expected error for a file without tourney_date")
	}
}

func TestParseOptionalInt(t *testing.T) {
	cases := []struct {
		in   string
		want *int
	}{
		{"", nil},
		{"abc", nil},
		{"42", intPtr(42)},
		{"42.0", intPtr(42)},
	}
	for _, tc := range cases {
		got := parseOptionalInt(tc.in)
		switch {
		case tc.want == nil && got != nil:
			t.Errorf("parseOptionalInt(%q) = %d, want nil", tc.in, *got)
		case tc.want != nil && (got == nil || *got != *tc.want):
			t.Errorf("parseOptionalInt(%q) = %v, want %d", tc.in, got, *tc.want)
		}
	}
}

func intPtr(n int) *int { return &n }

func newTestHTTPClient(t *testing.T) *RateLimitedHTTPClient {
	t.Helper()
	cfg := DefaultHTTPClientConfig()
	cfg.RateLimit = 1000
	cfg.MaxRetries = 0
	cfg.Timeout = 5 * time.Second
	return NewRateLimitedHTTPClient(cfg, log.New(io.Discard, "", 0))
}

func TestArchiveClientFetchHistory(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		switch r.URL.Path {
		case "/2024.csv":
			fmt.Fprint(w, archiveFixture)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	client := NewArchiveClient(newTestHTTPClient(t), server.URL, time.Minute, log.New(io.Discard, "", 0))

	// 2023 is missing but 2024 resolves, so the fetch succeeds
	matches, err := client.FetchHistory(context.Background(), []int{2023, 2024})
	if err != nil {
		t.Fatalf("FetchHistory failed: %v", err)
	}
	if len(matches) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(matches))
	}

	// Second fetch is served from cache
	before := requests
	if _, err := client.FetchHistory(context.Background(), []int{2024}); err != nil {
		t.Fatalf("cached FetchHistory failed: %v", err)
	}
	if requests != before {
		t.Errorf("expected cache hit, saw %d extra requests", requests-before)
	}
}

func TestArchiveClientAllYearsMissing(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := NewArchiveClient(newTestHTTPClient(t), server.URL, time.Minute, log.New(io.Discard, "", 0))
	if _, err := client.FetchHistory(context.Background(), []int{2023, 2024}); err == nil {
		t.Fatal("expected error when no season resolves")
	}
}

func TestSeasonURL(t *testing.T) {
	client := NewArchiveClient(nil, "", time.Minute, nil)
	want := "https://raw.githubusercontent.com/Tennismylife/TML-Database/master/2025.csv"
	if got := client.seasonURL(2025); got != want {
		t.Errorf("default seasonURL = %q, want %q", got, want)
	}

	client = NewArchiveClient(nil, "https://example.com/archive/", time.Minute, nil)
	if got := client.seasonURL(2024); got != "https://example.com/archive/2024.csv" {
		t.Errorf("seasonURL with trailing slash = %q", got)
	}
}

package datasource

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/simuteknikko/tennis-moneyline/internal/models"
)

const scoreboardFixture = `{
  "events": [
    {
      "date": "2026-08-24T11:00Z",
      "season": {"slug": "us-open"},
      "status": {"type": {"state": "pre"}},
      "competitions": [{"competitors": [
        {"team": {"displayName": "Jannik Sinner"}},
        {"team": {"displayName": "Carlos Alcaraz"}}
      ]}]
    },
    {
      "date": "2026-08-24T09:00Z",
      "season": {"slug": "us-open"},
      "status": {"type": {"state": "post"}},
      "competitions": [{"competitors": [
        {"team": {"displayName": "Played One"}},
        {"team": {"displayName": "Played Two"}}
      ]}]
    },
    {
      "date": "2026-08-24T12:00Z",
      "season": {"slug": "us-open"},
      "status": {"type": {"state": "pre"}},
      "competitions": []
    }
  ]
}`

func TestScheduleClientScansForward(t *testing.T) {
	// Day 0 is empty; day 2 has the fixture events
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("dates") == "20260824" {
			fmt.Fprint(w, scoreboardFixture)
			return
		}
		fmt.Fprint(w, `{"events": []}`)
	}))
	defer server.Close()

	client := NewScheduleClient(newTestHTTPClient(t), server.URL, log.New(io.Discard, "", 0))
	from := time.Date(2026, 8, 22, 0, 0, 0, 0, time.UTC)

	matchups, err := client.FetchUpcoming(context.Background(), from, 14)
	if err != nil {
		t.Fatalf("FetchUpcoming failed: %v", err)
	}
	// Completed and competitor-less events are dropped
	if len(matchups) != 1 {
		t.Fatalf("expected 1 matchup, got %d", len(matchups))
	}

	m := matchups[0]
	if m.Player1 != "Jannik Sinner" || m.Player2 != "Carlos Alcaraz" {
		t.Errorf("unexpected players: %s vs %s", m.Player1, m.Player2)
	}
	if m.Tournament != "us-open" {
		t.Errorf("unexpected tournament %q", m.Tournament)
	}
	if m.Format != models.BestOfFive {
		t.Errorf("grand slam must map to best-of-five, got %v", m.Format)
	}
	if !m.Date.Equal(time.Date(2026, 8, 24, 11, 0, 0, 0, time.UTC)) {
		t.Errorf("unexpected date %v", m.Date)
	}
}

func TestScheduleClientQuietWindow(t *testing.T) {
	days := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		days++
		fmt.Fprint(w, `{"events": []}`)
	}))
	defer server.Close()

	client := NewScheduleClient(newTestHTTPClient(t), server.URL, log.New(io.Discard, "", 0))

	matchups, err := client.FetchUpcoming(context.Background(), time.Now(), 3)
	if err != nil {
		t.Fatalf("FetchUpcoming failed: %v", err)
	}
	if matchups != nil {
		t.Errorf("expected no matchups, got %d", len(matchups))
	}
	if days != 3 {
		t.Errorf("expected 3 day probes, got %d", days)
	}
}

func TestScheduleClientSkipsFailedDays(t *testing.T) {
	day := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		day++
		if day == 1 {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		fmt.Fprint(w, scoreboardFixture)
	}))
	defer server.Close()

	client := NewScheduleClient(newTestHTTPClient(t), server.URL, log.New(io.Discard, "", 0))

	matchups, err := client.FetchUpcoming(context.Background(), time.Now(), 5)
	if err != nil {
		t.Fatalf("FetchUpcoming failed: %v", err)
	}
	if len(matchups) != 1 {
		t.Fatalf("expected matchups from the second day, got %d", len(matchups))
	}
}

func TestSurfaceFromSlug(t *testing.T) {
	cases := []struct {
		slug string
		want models.Surface
	}{
		{"atp-rome-clay", models.SurfaceClay},
		{"roland-garros", models.SurfaceClay},
		{"wimbledon", models.SurfaceGrass},
		{"stuttgart-grass", models.SurfaceGrass},
		{"us-open", models.SurfaceHard},
		{"Unknown", models.SurfaceHard},
	}
	for _, tc := range cases {
		if got := surfaceFromSlug(tc.slug); got != tc.want {
			t.Errorf("surfaceFromSlug(%q) = %v, want %v", tc.slug, got, tc.want)
		}
	}
}

func TestFormatFromSlug(t *testing.T) {
	if formatFromSlug("australian-open") != models.BestOfFive {
		t.Error("grand slams play best-of-five")
	}
	if formatFromSlug("miami-open") != models.BestOfThree {
		t.Error("regular tour events play best-of-three")
	}
}

func TestParseEventDateFallback(t *testing.T) {
	fallback := time.Date(2026, 8, 23, 0, 0, 0, 0, time.UTC)
	if got := parseEventDate("garbage", fallback); !got.Equal(fallback) {
		t.Errorf("expected fallback date, got %v", got)
	}
	if got := parseEventDate("2026-08-24T11:00Z", fallback); got.Equal(fallback) {
		t.Error("valid timestamp must not fall back")
	}
}

package datasource

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/simuteknikko/tennis-moneyline/internal/models"
)

// ScheduleClient implements ScheduleProvider against the ESPN tennis
// scoreboard API. The scoreboard is day-keyed, so the client scans forward
// one day at a time until it finds scheduled play.
type ScheduleClient struct {
	httpClient *RateLimitedHTTPClient
	baseURL    string
	logger     *log.Logger
}

// DefaultScheduleBaseURL is the public ATP scoreboard endpoint
const DefaultScheduleBaseURL = "http://site.api.espn.com/apis/site/v2/sports/tennis/atp/scoreboard"

// scoreboardResponse mirrors the subset of the scoreboard payload we read
type scoreboardResponse struct {
	Events []scoreboardEvent `json:"events"`
}

type scoreboardEvent struct {
	Date   string `json:"date"`
	Season struct {
		Slug string `json:"slug"`
	} `json:"season"`
	Status struct {
		Type struct {
			State string `json:"state"`
		} `json:"type"`
	} `json:"status"`
	Competitions []struct {
		Competitors []struct {
			Team struct {
				DisplayName string `json:"displayName"`
			} `json:"team"`
		} `json:"competitors"`
	} `json:"competitions"`
}

// NewScheduleClient creates a new scoreboard schedule client
func NewScheduleClient(httpClient *RateLimitedHTTPClient, baseURL string, logger *log.Logger) *ScheduleClient {
	if baseURL == "" {
		baseURL = DefaultScheduleBaseURL
	}
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &ScheduleClient{
		httpClient: httpClient,
		baseURL:    baseURL,
		logger:     logger,
	}
}

// FetchUpcoming scans forward from the given date and returns the matchups of
// the first day with any playable singles events. Completed events and days
// that fail to fetch are skipped; an empty slice means the whole scan window
// was quiet.
func (c *ScheduleClient) FetchUpcoming(ctx context.Context, from time.Time, scanDays int) ([]models.Matchup, error) {
	if scanDays <= 0 {
		scanDays = 1
	}

	for i := 0; i < scanDays; i++ {
		day := from.AddDate(0, 0, i)
		matchups, err := c.fetchDay(ctx, day)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			c.logger.Printf("Scoreboard scan failed for %s: %v", day.Format("2006-01-02"), err)
			continue
		}
		if len(matchups) > 0 {
			return matchups, nil
		}
	}
	return nil, nil
}

// Name returns the data source name
func (c *ScheduleClient) Name() string {
	return "espn_scoreboard"
}

func (c *ScheduleClient) fetchDay(ctx context.Context, day time.Time) ([]models.Matchup, error) {
	url := fmt.Sprintf("%s?dates=%s", c.baseURL, day.Format("20060102"))
	resp, err := c.httpClient.Get(ctx, url)
	if err != nil {
		return nil, NewDataSourceError(c.Name(), ErrCodeNetworkError, "failed to fetch scoreboard", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, NewDataSourceError(c.Name(), ErrCodeServerError, fmt.Sprintf("unexpected status %d", resp.StatusCode), nil)
	}

	var sb scoreboardResponse
	if err := json.NewDecoder(resp.Body).Decode(&sb); err != nil {
		return nil, NewDataSourceError(c.Name(), ErrCodeInvalidData, "failed to parse scoreboard", err)
	}

	var matchups []models.Matchup
	for _, event := range sb.Events {
		// Already played
		if event.Status.Type.State == "post" {
			continue
		}
		if len(event.Competitions) == 0 {
			continue
		}
		competitors := event.Competitions[0].Competitors
		if len(competitors) != 2 {
			continue
		}

		slug := event.Season.Slug
		if slug == "" {
			slug = "Unknown"
		}

		matchups = append(matchups, models.Matchup{
			Date:       parseEventDate(event.Date, day),
			Tournament: slug,
			Surface:    surfaceFromSlug(slug),
			Player1:    competitors[0].Team.DisplayName,
			Player2:    competitors[1].Team.DisplayName,
			Format:     formatFromSlug(slug),
		})
	}
	return matchups, nil
}

// parseEventDate parses the scoreboard event timestamp, falling back to the
// scan day when the field is absent or malformed.
func parseEventDate(s string, fallback time.Time) time.Time {
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04Z"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return fallback
}

// surfaceFromSlug infers the court surface from the tournament slug. The
// scoreboard has no surface field, so clay and grass are recognized by name
// and everything else defaults to hard court.
func surfaceFromSlug(slug string) models.Surface {
	lower := strings.ToLower(slug)
	switch {
	case strings.Contains(lower, "clay"), strings.Contains(lower, "roland-garros"), strings.Contains(lower, "french-open"):
		return models.SurfaceClay
	case strings.Contains(lower, "grass"), strings.Contains(lower, "wimbledon"):
		return models.SurfaceGrass
	default:
		return models.SurfaceHard
	}
}

// formatFromSlug maps grand slam slugs to best-of-five; everything else on
// the ATP calendar plays best-of-three.
func formatFromSlug(slug string) models.MatchFormat {
	lower := strings.ToLower(slug)
	for _, slam := range []string{"australian-open", "roland-garros", "french-open", "wimbledon", "us-open"} {
		if strings.Contains(lower, slam) {
			return models.BestOfFive
		}
	}
	return models.BestOfThree
}

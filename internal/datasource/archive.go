package datasource

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/simuteknikko/tennis-moneyline/internal/models"
)

// ArchiveClient implements HistoryProvider against the Tennis Match Library
// season archive, one CSV file per year at <base>/<year>.csv.
type ArchiveClient struct {
	httpClient *RateLimitedHTTPClient
	baseURL    string
	cache      *cache.Cache
	logger     *log.Logger
}

// DefaultArchiveBaseURL is the public TML season archive, which serves one
// Sackmann-format CSV per year at <base>/<year>.csv.
const DefaultArchiveBaseURL = "https://raw.githubusercontent.com/Tennismylife/TML-Database/master"

// NewArchiveClient creates a new archive client. Season files change at most
// daily, so responses are cached per year for cacheTTL.
func NewArchiveClient(httpClient *RateLimitedHTTPClient, baseURL string, cacheTTL time.Duration, logger *log.Logger) *ArchiveClient {
	if baseURL == "" {
		baseURL = DefaultArchiveBaseURL
	}
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &ArchiveClient{
		httpClient: httpClient,
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		cache:      cache.New(cacheTTL, 2*cacheTTL),
		logger:     logger,
	}
}

// FetchHistory retrieves all completed matches for the given seasons. A year
// whose file cannot be fetched is logged and skipped; an error is returned
// only when no year yields any data.
func (c *ArchiveClient) FetchHistory(ctx context.Context, years []int) ([]models.HistoricalMatch, error) {
	var all []models.HistoricalMatch
	fetched := 0

	for _, year := range years {
		matches, err := c.fetchYear(ctx, year)
		if err != nil {
			c.logger.Printf("Skipping season %d: %v", year, err)
			continue
		}
		all = append(all, matches...)
		fetched++
	}

	if fetched == 0 {
		return nil, NewDataSourceError(c.Name(), ErrCodeNetworkError,
			fmt.Sprintf("no season data available for years %v", years), nil)
	}
	return all, nil
}

// Name returns the data source name
func (c *ArchiveClient) Name() string {
	return "tml_archive"
}

func (c *ArchiveClient) fetchYear(ctx context.Context, year int) ([]models.HistoricalMatch, error) {
	key := strconv.Itoa(year)
	if cached, ok := c.cache.Get(key); ok {
		return cached.([]models.HistoricalMatch), nil
	}

	resp, err := c.httpClient.Get(ctx, c.seasonURL(year))
	if err != nil {
		return nil, NewDataSourceError(c.Name(), ErrCodeNetworkError, "failed to fetch season file", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, NewDataSourceError(c.Name(), ErrCodeNotFound, fmt.Sprintf("no archive for %d", year), nil)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, NewDataSourceError(c.Name(), ErrCodeServerError, fmt.Sprintf("unexpected status %d", resp.StatusCode), nil)
	}

	matches, err := parseArchiveCSV(resp.Body, c.logger)
	if err != nil {
		return nil, NewDataSourceError(c.Name(), ErrCodeInvalidData, "failed to parse season file", err)
	}

	c.cache.Set(key, matches, cache.DefaultExpiration)
	return matches, nil
}

// seasonURL builds the download URL for one season file
func (c *ArchiveClient) seasonURL(year int) string {
	return fmt.Sprintf("%s/%d.csv", c.baseURL, year)
}

// archiveDateLayout is the compact date format the archive uses
const archiveDateLayout = "20060102"

// parseArchiveCSV reads one season file. Columns are resolved by header name,
// so column reordering across seasons is harmless. Rows with an unparseable
// date or missing player names are skipped; missing serve statistics become
// nil pointers on an otherwise valid row.
func parseArchiveCSV(r io.Reader, logger *log.Logger) ([]models.HistoricalMatch, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.TrimSpace(name)] = i
	}
	if _, ok := cols["tourney_date"]; !ok {
		return nil, fmt.Errorf("column tourney_date missing")
	}

	var matches []models.HistoricalMatch
	skipped := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// Malformed line; keep the rest of the file
			skipped++
			continue
		}

		field := func(name string) string {
			i, ok := cols[name]
			if !ok || i >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[i])
		}

		date, err := time.Parse(archiveDateLayout, field("tourney_date"))
		if err != nil {
			skipped++
			continue
		}
		winner := field("winner_name")
		loser := field("loser_name")
		if winner == "" || loser == "" {
			skipped++
			continue
		}

		matches = append(matches, models.HistoricalMatch{
			Date:            date,
			Tournament:      field("tourney_name"),
			Surface:         models.ParseSurface(field("surface")),
			WinnerName:      winner,
			LoserName:       loser,
			WinnerServePts:  parseOptionalInt(field("w_svpt")),
			WinnerFirstWon:  parseOptionalInt(field("w_1stWon")),
			WinnerSecondWon: parseOptionalInt(field("w_2ndWon")),
			LoserServePts:   parseOptionalInt(field("l_svpt")),
			LoserFirstWon:   parseOptionalInt(field("l_1stWon")),
			LoserSecondWon:  parseOptionalInt(field("l_2ndWon")),
			Minutes:         parseOptionalInt(field("minutes")),
		})
	}

	if skipped > 0 {
		logger.Printf("Skipped %d unusable archive rows", skipped)
	}
	return matches, nil
}

// parseOptionalInt parses an archive numeric cell, returning nil for empty or
// non-numeric values. Some seasons export integers as "123.0".
func parseOptionalInt(s string) *int {
	if s == "" {
		return nil
	}
	if n, err := strconv.Atoi(s); err == nil {
		return &n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		n := int(f)
		return &n
	}
	return nil
}

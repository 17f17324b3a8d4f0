package cablecast

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cicero-foco/cicero/pkg/config"
)

// Show is one entry from the Cablecast VOD catalog
type Show struct {
	ID           int           `json:"id"`
	Title        string        `json:"title"`
	EventDate    string        `json:"eventDate"`
	CustomFields []CustomField `json:"customFields"`
	HasCaptions  bool          `json:"hasCaptions"`
}

// CustomField is a named metadata value attached to a show
type CustomField struct {
	FieldName string  `json:"fieldName"`
	Value     *string `json:"value"`
}

// SearchResponse is the catalog search payload
type SearchResponse struct {
	Shows []Show `json:"shows"`
}

const downloadFieldName = "Download VOD"

// Client queries the Cablecast VOD catalog
type Client struct {
	baseURL     string
	searchQuery string
	pageSize    int
	client      *http.Client
}

// NewClient creates a Cablecast catalog client from config
func NewClient(cfg *config.CablecastConfig) *Client {
	return &Client{
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		searchQuery: cfg.SearchQuery,
		pageSize:    cfg.PageSize,
		client:      &http.Client{Timeout: cfg.Timeout},
	}
}

// SearchShows runs the configured catalog search and returns all shows
func (c *Client) SearchShows(ctx context.Context) ([]Show, error) {
	endpoint := fmt.Sprintf("%s/shows?search=%s&pageSize=%d",
		c.baseURL, url.QueryEscape(c.searchQuery), c.pageSize)

	req, err := http.NewRequestWithContext(ctx, "GET", endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "Cicero/1.0 (+https://cicero.app)")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("cablecast returned status %d", resp.StatusCode)
	}

	var sr SearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil, fmt.Errorf("failed to decode cablecast response: %w", err)
	}

	return sr.Shows, nil
}

// FindMatchingShow returns the first show broadcast on the same calendar day
// as the meeting whose title shares the meeting's type keyword. Returns nil
// when nothing matches.
func FindMatchingShow(shows []Show, meetingTitle string, meetingDate time.Time) *Show {
	meetingDay := NormalizeDate(meetingDate)
	meetingTitleLower := strings.ToLower(meetingTitle)

	for i := range shows {
		show := &shows[i]

		showDate, err := time.Parse(time.RFC3339, show.EventDate)
		if err != nil {
			continue
		}
		if NormalizeDate(showDate) != meetingDay {
			continue
		}

		titleLower := strings.ToLower(show.Title)
		typeMatches := (strings.Contains(meetingTitleLower, "regular") && strings.Contains(titleLower, "regular")) ||
			(strings.Contains(meetingTitleLower, "work session") && strings.Contains(titleLower, "work session")) ||
			(strings.Contains(meetingTitleLower, "special") && strings.Contains(titleLower, "special"))

		if typeMatches {
			return show
		}
	}

	return nil
}

// DownloadURL returns the show's VOD download URL, or nil when the field is
// absent or empty.
func (s *Show) DownloadURL() *string {
	for _, f := range s.CustomFields {
		if f.FieldName == downloadFieldName && f.Value != nil && *f.Value != "" {
			return f.Value
		}
	}
	return nil
}

// NormalizeDate reduces a timestamp to its UTC calendar day, e.g. "2026-01-14"
func NormalizeDate(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

package municode

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	backoff "github.com/cenkalti/backoff/v4"

	"github.com/cicero-foco/cicero/internal/domain/entities"
	"github.com/cicero-foco/cicero/pkg/config"
)

// ScrapedMeeting is one row parsed from the Municode calendar page
type ScrapedMeeting struct {
	MunicodeID      string
	Date            time.Time
	DateUnparsed    bool
	Title           string
	Type            entities.MeetingType
	AgendaURL       *string
	AgendaPacketURL *string
	VideoPageURL    *string
}

var (
	agendaIDRe = regexp.MustCompile(`(?i)MEET-(?:Agenda|Packet)-([a-f0-9-]+)\.pdf`)
	pageIDRe   = regexp.MustCompile(`/page/(.+)$`)
	dateRe     = regexp.MustCompile(`(?i)(\d{2})/(\d{2})/(\d{4})\s*-\s*(\d{1,2}):(\d{2})(am|pm)`)
)

// Client fetches and parses the Municode meeting calendar
type Client struct {
	baseURL   string
	userAgent string
	client    *http.Client
}

// NewClient creates a Municode calendar client from config
func NewClient(cfg *config.MunicodeConfig) *Client {
	return &Client{
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		userAgent: cfg.UserAgent,
		client:    &http.Client{Timeout: cfg.Timeout},
	}
}

// FetchUpcoming downloads the calendar page and returns every City Council
// meeting row it contains. The fetch is retried with exponential backoff;
// parsing is not.
func (c *Client) FetchUpcoming(ctx context.Context) ([]ScrapedMeeting, error) {
	var html string

	fetchFn := func() error {
		req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL, nil)
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("User-Agent", c.userAgent)

		resp, err := c.client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 400 {
			return fmt.Errorf("municode returned status %d", resp.StatusCode)
		}

		doc, err := goquery.NewDocumentFromReader(resp.Body)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("failed to parse municode page: %w", err))
		}
		html, err = doc.Html()
		if err != nil {
			return backoff.Permanent(err)
		}
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 2 * time.Second
	bo.MaxInterval = 10 * time.Second
	bo.MaxElapsedTime = 30 * time.Second

	if err := backoff.Retry(fetchFn, backoff.WithContext(bo, ctx)); err != nil {
		return nil, fmt.Errorf("failed to fetch municode calendar: %w", err)
	}

	return c.ParseCalendar(strings.NewReader(html))
}

// ParseCalendar parses calendar HTML into meeting rows. Rows that are not
// City Council meetings are skipped.
func (c *Client) ParseCalendar(r io.Reader) ([]ScrapedMeeting, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse calendar html: %w", err)
	}

	var meetings []ScrapedMeeting

	doc.Find("table tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() < 2 {
			return
		}

		dateCell := strings.TrimSpace(cells.Eq(0).Text())
		meetingCell := strings.TrimSpace(cells.Eq(1).Text())
		if dateCell == "" || meetingCell == "" {
			return
		}

		if !strings.Contains(strings.ToLower(meetingCell), "city council") {
			return
		}

		agendaLink := attrOrNil(row.Find(`a[href*="MEET-Agenda"]`), "href")
		packetLink := attrOrNil(row.Find(`a[href*="MEET-Packet"]`), "href")
		detailsLink := attrOrNil(row.Find(`a[href*="/page/"]`), "href")
		videoLink := attrOrNil(row.Find(`a[title*="Video"]`), "href")

		date, parsed := ParseMunicodeDate(dateCell, time.Now())

		var videoPageURL *string
		if videoLink != nil {
			full := c.baseURL + *videoLink
			videoPageURL = &full
		}

		meetings = append(meetings, ScrapedMeeting{
			MunicodeID:      ExtractMunicodeID(agendaLink, detailsLink),
			Date:            date,
			DateUnparsed:    !parsed,
			Title:           meetingCell,
			Type:            entities.ParseMeetingType(meetingCell),
			AgendaURL:       agendaLink,
			AgendaPacketURL: packetLink,
			VideoPageURL:    videoPageURL,
		})
	})

	return meetings, nil
}

// ExtractMunicodeID pulls a stable meeting ID out of the agenda PDF URL or
// the details page path. When neither matches it synthesizes a unique
// placeholder so the row is still stored.
func ExtractMunicodeID(agendaURL, detailsPath *string) string {
	if agendaURL != nil {
		if m := agendaIDRe.FindStringSubmatch(*agendaURL); m != nil {
			return m[1]
		}
	}
	if detailsPath != nil {
		if m := pageIDRe.FindStringSubmatch(*detailsPath); m != nil {
			return m[1]
		}
	}
	return fmt.Sprintf("unknown-%d-%s", time.Now().UnixMilli(), randomSuffix())
}

// ParseMunicodeDate parses the calendar's "01/14/2026 - 6:00pm" format in
// local time. Returns fallback and false when the cell does not match.
func ParseMunicodeDate(dateStr string, fallback time.Time) (time.Time, bool) {
	m := dateRe.FindStringSubmatch(dateStr)
	if m == nil {
		return fallback, false
	}

	month, _ := strconv.Atoi(m[1])
	day, _ := strconv.Atoi(m[2])
	year, _ := strconv.Atoi(m[3])
	hour, _ := strconv.Atoi(m[4])
	minute, _ := strconv.Atoi(m[5])

	ampm := strings.ToLower(m[6])
	if ampm == "pm" && hour != 12 {
		hour += 12
	} else if ampm == "am" && hour == 12 {
		hour = 0
	}

	return time.Date(year, time.Month(month), day, hour, minute, 0, 0, time.Local), true
}

func attrOrNil(sel *goquery.Selection, attr string) *string {
	val, ok := sel.First().Attr(attr)
	if !ok {
		return nil
	}
	return &val
}

const suffixAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

func randomSuffix() string {
	b := make([]byte, 11)
	for i := range b {
		b[i] = suffixAlphabet[rand.Intn(len(suffixAlphabet))]
	}
	return string(b)
}

// Package riot provides a rate-limited client for the Riot account and
// match-v5 APIs.
package riot

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	json "github.com/goccy/go-json"
	log "github.com/sirupsen/logrus"

	"github.com/pable/go-lol-metrics/internal/model"
)

const (
	// Development key limits are 20/s and 100/2min; stay a little under.
	defaultPerSecond  = 15
	defaultPer2Min    = 90
	defaultRetryAfter = 10 * time.Second
	maxRetries        = 3

	// PageSize is the number of match ids requested per page.
	PageSize = 40
	// RankedSoloQueue is the ranked solo/duo queue id.
	RankedSoloQueue = 420
)

// StatusError is returned for any non-200 API response.
type StatusError struct {
	Code int
	Path string
}

func (e *StatusError) Error() string {
	switch e.Code {
	case http.StatusForbidden, http.StatusUnauthorized:
		return fmt.Sprintf("GET %s: HTTP %d (check the API key)", e.Path, e.Code)
	case http.StatusNotFound:
		return fmt.Sprintf("GET %s: HTTP 404 not found", e.Path)
	}
	return fmt.Sprintf("GET %s: HTTP %d", e.Path, e.Code)
}

// IsNotFound reports whether err is a 404 from the API.
func IsNotFound(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Code == http.StatusNotFound
}

// Client is a rate-limited Riot API client for one regional route.
type Client struct {
	apiKey  string
	baseURL string
	http    *http.Client

	perSecond int
	per2Min   int

	mu          sync.Mutex
	shortWindow []time.Time
	longWindow  []time.Time
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the regional endpoint.
func WithBaseURL(u string) Option { return func(c *Client) { c.baseURL = u } }

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(h *http.Client) Option { return func(c *Client) { c.http = h } }

// WithLimits sets the per-second and per-two-minute request budgets.
func WithLimits(perSecond, per2Min int) Option {
	return func(c *Client) {
		c.perSecond = perSecond
		c.per2Min = per2Min
	}
}

// NewClient returns a client for the regional route (americas, europe, asia, sea).
func NewClient(apiKey, region string, opts ...Option) *Client {
	c := &Client{
		apiKey:    apiKey,
		baseURL:   fmt.Sprintf("https://%s.api.riotgames.com", region),
		http:      &http.Client{Timeout: 30 * time.Second},
		perSecond: defaultPerSecond,
		per2Min:   defaultPer2Min,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// waitForRateLimit blocks until both request windows have room.
func (c *Client) waitForRateLimit(ctx context.Context) error {
	for {
		c.mu.Lock()
		now := time.Now()
		c.shortWindow = prune(c.shortWindow, now.Add(-time.Second))
		c.longWindow = prune(c.longWindow, now.Add(-2*time.Minute))

		var wait time.Duration
		switch {
		case len(c.shortWindow) >= c.perSecond:
			wait = c.shortWindow[0].Add(time.Second).Sub(now)
		case len(c.longWindow) >= c.per2Min:
			wait = c.longWindow[0].Add(2 * time.Minute).Sub(now)
		default:
			c.shortWindow = append(c.shortWindow, now)
			c.longWindow = append(c.longWindow, now)
			c.mu.Unlock()
			return nil
		}
		short, long := len(c.shortWindow), len(c.longWindow)
		c.mu.Unlock()

		wait += 100 * time.Millisecond
		log.WithFields(log.Fields{
			"short": short,
			"long":  long,
			"wait":  wait.Round(100 * time.Millisecond),
		}).Debug("rate limit reached, waiting")
		if err := sleep(ctx, wait); err != nil {
			return err
		}
	}
}

func prune(window []time.Time, cutoff time.Time) []time.Time {
	i := 0
	for i < len(window) && !window[i].After(cutoff) {
		i++
	}
	return window[i:]
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// get performs a rate-limited, authenticated GET and JSON-decodes the body
// into out. 429 responses are retried after the advertised delay.
func (c *Client) get(ctx context.Context, path string, out any) error {
	for attempt := 0; ; attempt++ {
		if err := c.waitForRateLimit(ctx); err != nil {
			return err
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
		if err != nil {
			return err
		}
		req.Header.Set("X-Riot-Token", c.apiKey)

		resp, err := c.http.Do(req)
		if err != nil {
			return fmt.Errorf("GET %s: %w", path, err)
		}

		if resp.StatusCode == http.StatusTooManyRequests && attempt < maxRetries {
			wait := retryAfter(resp.Header.Get("Retry-After"))
			resp.Body.Close()
			log.WithFields(log.Fields{"path": path, "wait": wait}).Warn("429 from API, retrying")
			if err := sleep(ctx, wait); err != nil {
				return err
			}
			continue
		}

		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return &StatusError{Code: resp.StatusCode, Path: path}
		}
		err = json.NewDecoder(resp.Body).Decode(out)
		resp.Body.Close()
		if err != nil {
			return fmt.Errorf("GET %s: decode: %w", path, err)
		}
		return nil
	}
}

func retryAfter(h string) time.Duration {
	if h == "" {
		return defaultRetryAfter
	}
	secs, err := strconv.Atoi(h)
	if err != nil || secs < 0 {
		return defaultRetryAfter
	}
	return time.Duration(secs) * time.Second
}

// AccountByRiotID resolves "gameName#tagLine" to an account.
func (c *Client) AccountByRiotID(ctx context.Context, gameName, tagLine string) (*model.Account, error) {
	path := fmt.Sprintf("/riot/account/v1/accounts/by-riot-id/%s/%s",
		url.PathEscape(gameName), url.PathEscape(tagLine))
	var a model.Account
	if err := c.get(ctx, path, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

// MatchIDsQuery selects a page of a player's match history.
type MatchIDsQuery struct {
	Queue     int
	StartTime time.Time
	Start     int
	Count     int
}

// MatchIDs returns one page of match ids, newest first.
func (c *Client) MatchIDs(ctx context.Context, puuid string, q MatchIDsQuery) ([]string, error) {
	v := url.Values{}
	if q.Queue > 0 {
		v.Set("queue", strconv.Itoa(q.Queue))
	}
	if !q.StartTime.IsZero() {
		v.Set("startTime", strconv.FormatInt(q.StartTime.Unix(), 10))
	}
	v.Set("start", strconv.Itoa(q.Start))
	count := q.Count
	if count <= 0 {
		count = PageSize
	}
	v.Set("count", strconv.Itoa(count))

	path := fmt.Sprintf("/lol/match/v5/matches/by-puuid/%s/ids?%s", url.PathEscape(puuid), v.Encode())
	var ids []string
	if err := c.get(ctx, path, &ids); err != nil {
		return nil, err
	}
	return ids, nil
}

// MatchIDsSince pages through the ranked history of puuid back to since.
func (c *Client) MatchIDsSince(ctx context.Context, puuid string, since time.Time) ([]string, error) {
	var all []string
	for start := 0; ; start += PageSize {
		page, err := c.MatchIDs(ctx, puuid, MatchIDsQuery{
			Queue:     RankedSoloQueue,
			StartTime: since,
			Start:     start,
			Count:     PageSize,
		})
		if err != nil {
			return nil, err
		}
		log.WithFields(log.Fields{"start": start, "ids": len(page)}).Debug("match id page")
		all = append(all, page...)
		if len(page) < PageSize {
			return all, nil
		}
	}
}

// Match fetches a match record.
func (c *Client) Match(ctx context.Context, matchID string) (*model.Match, error) {
	var m model.Match
	if err := c.get(ctx, "/lol/match/v5/matches/"+url.PathEscape(matchID), &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// Timeline fetches the per-minute timeline of a match.
func (c *Client) Timeline(ctx context.Context, matchID string) (*model.Timeline, error) {
	var tl model.Timeline
	if err := c.get(ctx, "/lol/match/v5/matches/"+url.PathEscape(matchID)+"/timeline", &tl); err != nil {
		return nil, err
	}
	return &tl, nil
}

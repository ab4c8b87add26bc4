package chesscom

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	apperrors "github.com/vytor/chessactivity/internal/errors"
	"github.com/vytor/chessactivity/internal/logger"
	"github.com/vytor/chessactivity/internal/metrics"
	"github.com/vytor/chessactivity/internal/models"
)

const (
	DefaultBaseURL   = "https://api.chess.com/pub/player"
	DefaultUserAgent = "chessactivity/1.0"
)

type Client struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at another API root, e.g. an httptest server.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		if u != "" {
			c.baseURL = strings.TrimRight(u, "/")
		}
	}
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

func New(opts ...Option) *Client {
	c := &Client{
		baseURL:    DefaultBaseURL,
		userAgent:  DefaultUserAgent,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type profileResp struct {
	PlayerID   int64  `json:"player_id"`
	URL        string `json:"url"`
	Username   string `json:"username"`
	Name       string `json:"name"`
	Country    string `json:"country"`
	Status     string `json:"status"`
	Followers  int    `json:"followers"`
	Joined     int64  `json:"joined"`
	LastOnline int64  `json:"last_online"`
}

type archivesResp struct {
	Archives []string `json:"archives"`
}

// MonthlyGame is one entry of a monthly archive page. Only the fields the
// activity metrics need are decoded.
type MonthlyGame struct {
	URL       string `json:"url"`
	TimeClass string `json:"time_class"`
	EndTime   *int64 `json:"end_time,omitempty"`
	Rated     bool   `json:"rated"`
	Rules     string `json:"rules"`
}

// errNotFound marks a 404 from the API; callers decide what it means.
type errNotFound struct{ url string }

func (e errNotFound) Error() string { return "not found: " + e.url }

func (c *Client) FetchProfile(ctx context.Context, username string) (*models.Profile, error) {
	log := logger.FromContext(ctx).WithPrefix("chesscom").WithField("username", username)
	url := fmt.Sprintf("%s/%s", c.baseURL, username)

	var out profileResp
	if err := c.getJSON(ctx, metrics.EndpointProfile, url, &out); err != nil {
		if _, ok := err.(errNotFound); ok {
			log.Info("profile not found")
			return nil, apperrors.NewNotFoundError("user", username)
		}
		return nil, err
	}

	p := &models.Profile{
		PlayerID:  out.PlayerID,
		Username:  out.Username,
		Name:      out.Name,
		URL:       out.URL,
		Country:   countryCode(out.Country),
		Status:    out.Status,
		Followers: out.Followers,
	}
	if out.Joined > 0 {
		p.JoinedAt = time.Unix(out.Joined, 0).UTC()
	}
	if out.LastOnline > 0 {
		p.LastOnline = time.Unix(out.LastOnline, 0).UTC()
	}
	if p.Username == "" {
		p.Username = username
	}

	log.Debug("fetched profile player_id=%d", p.PlayerID)
	return p, nil
}

func (c *Client) FetchArchives(ctx context.Context, username string) ([]string, error) {
	log := logger.FromContext(ctx).WithPrefix("chesscom").WithField("username", username)
	url := fmt.Sprintf("%s/%s/games/archives", c.baseURL, username)

	var out archivesResp
	if err := c.getJSON(ctx, metrics.EndpointArchives, url, &out); err != nil {
		if _, ok := err.(errNotFound); ok {
			return nil, apperrors.NewNotFoundError("user", username)
		}
		return nil, err
	}

	log.Info("fetched %d archives", len(out.Archives))
	return out.Archives, nil
}

// FetchMonthly returns the games of one monthly archive. A month the API does
// not know about is an empty page, not an error.
func (c *Client) FetchMonthly(ctx context.Context, username string, month models.YearMonth) ([]MonthlyGame, error) {
	log := logger.FromContext(ctx).WithPrefix("chesscom").
		WithFields(map[string]any{"username": username, "month": month.String()})
	url := fmt.Sprintf("%s/%s/games/%04d/%02d", c.baseURL, username, month.Year, int(month.Month))

	var payload struct {
		Games []MonthlyGame `json:"games"`
	}
	if err := c.getJSON(ctx, metrics.EndpointMonthly, url, &payload); err != nil {
		if _, ok := err.(errNotFound); ok {
			log.Debug("no archive for month")
			return []MonthlyGame{}, nil
		}
		return nil, err
	}

	log.Info("fetched %d games from archive", len(payload.Games))
	return payload.Games, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint, url string, dst any) error {
	log := logger.FromContext(ctx).WithPrefix("chesscom").WithField("endpoint", endpoint)

	log.Debug("GET %s", url)
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		log.Error("failed to create request: %v", err)
		return err
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	metrics.ChessComRequestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.ChessComRequestsTotal.WithLabelValues(endpoint, "error").Inc()
		log.Error("request failed: %v", err)
		return apperrors.NewUpstreamError("chess.com request failed", err)
	}
	defer resp.Body.Close()

	metrics.ChessComRequestsTotal.WithLabelValues(endpoint, strconv.Itoa(resp.StatusCode)).Inc()
	log.Debug("response received in %v, status=%d", time.Since(start), resp.StatusCode)

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return errNotFound{url: url}
	case resp.StatusCode != http.StatusOK:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		log.Error("request failed: status=%d, body=%s", resp.StatusCode, string(body))
		return apperrors.NewUpstreamError(
			fmt.Sprintf("chess.com returned status %d", resp.StatusCode),
			fmt.Errorf("%s: %s", url, string(body)),
		)
	}

	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		log.Error("failed to decode response: %v", err)
		return apperrors.NewUpstreamError("invalid response from chess.com", err)
	}
	return nil
}

// countryCode turns ".../pub/country/US" into "US".
func countryCode(u string) string {
	if i := strings.LastIndex(u, "/"); i >= 0 {
		return u[i+1:]
	}
	return u
}

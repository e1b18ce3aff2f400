package teamsapi

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/match-roulette/internal/domain/team"
	"github.com/riskibarqy/match-roulette/internal/platform/logging"
	"github.com/riskibarqy/match-roulette/internal/usecase"
	"github.com/valyala/bytebufferpool"
)

const (
	DefaultBaseURL   = "https://us-central1-soccerapi-4e947.cloudfunctions.net"
	defaultUserAgent = "match-roulette/1.0"
	defaultTimeout   = 20 * time.Second
	maxResponseBytes = 4 << 20
)

// endpoint binds a team kind to its path and record shape.
type endpoint struct {
	path        string
	leagueQuery bool
	decode      func([]byte) ([]team.Team, error)
}

var endpoints = map[team.Kind]endpoint{
	team.KindClub: {
		path:        "/expressApi/teams",
		leagueQuery: true,
		decode:      decodeClubRecords,
	},
	team.KindInternational: {
		path:   "/expressApi/intl",
		decode: decodeIntlRecords,
	},
}

type ClientConfig struct {
	HTTPClient *http.Client
	BaseURL    string
	Timeout    time.Duration
	UserAgent  string
	Logger     *logging.Logger
}

// Client fetches team lists. It issues exactly one request per call.
type Client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
	logger     *logging.Logger
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	// the caller's client is copied, never modified
	httpClient := &http.Client{}
	if cfg.HTTPClient != nil {
		copied := *cfg.HTTPClient
		httpClient = &copied
	}
	if cfg.Timeout > 0 {
		httpClient.Timeout = cfg.Timeout
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = defaultTimeout
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	userAgent := strings.TrimSpace(cfg.UserAgent)
	if userAgent == "" {
		userAgent = defaultUserAgent
	}

	return &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
		userAgent:  userAgent,
		logger:     logger,
	}
}

// FetchTeams downloads the catalog for kind. leagueQuery must already be
// query-encoded; it is ignored for international teams.
func (c *Client) FetchTeams(ctx context.Context, kind team.Kind, leagueQuery string) ([]team.Team, error) {
	ep, ok := endpoints[kind]
	if !ok {
		return nil, fmt.Errorf("%w: unsupported team kind %q", usecase.ErrInvalidInput, kind)
	}

	fullURL := c.buildURL(ep, leagueQuery)
	raw, err := c.get(ctx, fullURL)
	if err != nil {
		c.logger.WarnContext(ctx, "teams api request failed", "kind", kind, "url", fullURL, "error", err)
		return nil, err
	}

	teams, err := ep.decode(raw)
	if err != nil {
		c.logger.WarnContext(ctx, "teams api payload rejected", "kind", kind, "url", fullURL, "error", err)
		return nil, fmt.Errorf("%w: %w", usecase.ErrDecode, err)
	}

	c.logger.DebugContext(ctx, "teams api fetched", "kind", kind, "count", len(teams))
	return teams, nil
}

func (c *Client) buildURL(ep endpoint, leagueQuery string) string {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	_, _ = buf.WriteString(c.baseURL)
	_, _ = buf.WriteString(ep.path)
	if ep.leagueQuery {
		_, _ = buf.WriteString("?leagues=")
		_, _ = buf.WriteString(strings.TrimSpace(leagueQuery))
	}

	return buf.String()
}

func (c *Client) get(ctx context.Context, fullURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", usecase.ErrNetwork, crerr.Wrap(err, "build request"))
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", usecase.ErrNetwork, crerr.Wrap(err, "send request"))
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes+1))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", usecase.ErrNetwork, crerr.Wrap(err, "read response body"))
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %w", usecase.ErrNetwork, crerr.Newf("teams api status=%d body=%s", resp.StatusCode, abbreviateBody(raw)))
	}
	if len(raw) > maxResponseBytes {
		return nil, fmt.Errorf("%w: %w", usecase.ErrDecode, crerr.Newf("response body exceeds %d bytes", maxResponseBytes))
	}

	return raw, nil
}

func abbreviateBody(raw []byte) string {
	const limit = 256
	body := strings.TrimSpace(string(raw))
	if len(body) <= limit {
		return body
	}
	return body[:limit] + "..."
}

package footballdata

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/bytedance/sonic/ast"
	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/league-insights/internal/platform/logging"
	"github.com/riskibarqy/league-insights/internal/platform/resilience"
	"github.com/riskibarqy/league-insights/internal/usecase"
)

const (
	defaultBaseURL  = "https://api.football-data.org/v4"
	defaultTimeout  = 20 * time.Second
	maxResponseBody = 16 << 20
	authHeader      = "X-Auth-Token"
)

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	Token          string
	Timeout        time.Duration
	MaxRetries     int
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client fetches competition fixtures from football-data.org.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
	maxRetries int
	logger     *logging.Logger
	breaker    *resilience.CircuitBreaker
	backoff    func(attempt int) time.Duration
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = defaultTimeout
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	return &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
		token:      strings.TrimSpace(cfg.Token),
		maxRetries: max(cfg.MaxRetries, 0),
		logger:     logger,
		breaker:    resilience.NewCircuitBreaker(cfg.CircuitBreaker),
		backoff: func(attempt int) time.Duration {
			return time.Duration(attempt+1) * time.Second
		},
	}
}

// FetchCompetitionMatches returns the raw body of GET /competitions/{code}/matches.
// The body is returned only when the provider answered 2xx with a JSON object
// carrying a "matches" array.
func (c *Client) FetchCompetitionMatches(ctx context.Context, leagueCode string) ([]byte, error) {
	leagueCode = strings.TrimSpace(leagueCode)
	if leagueCode == "" {
		return nil, fmt.Errorf("%w: league code is required", usecase.ErrInvalidInput)
	}

	fullURL := c.baseURL + "/competitions/" + url.PathEscape(leagueCode) + "/matches"
	raw, err := resilience.Do(ctx, c.breaker, func(ctx context.Context) ([]byte, error) {
		return c.executeRequest(ctx, fullURL)
	})
	if crerr.Is(err, resilience.ErrCircuitOpen) {
		c.logger.WarnContext(ctx, "football-data circuit breaker rejected request",
			"league", leagueCode,
			"state", c.breaker.State(),
		)
		return nil, fmt.Errorf("%w: %w: match data provider is temporarily unavailable", usecase.ErrUpstreamFetch, usecase.ErrDependencyUnavailable)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: league=%s: %w", usecase.ErrUpstreamFetch, leagueCode, err)
	}

	if err := checkMatchesPayload(raw); err != nil {
		return nil, fmt.Errorf("%w: league=%s: %w", usecase.ErrUpstreamFetch, leagueCode, err)
	}
	return raw, nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return nil, resilience.Permanent(crerr.Wrap(err, "build request"))
		}
		req.Header.Set("accept", "application/json")
		if c.token != "" {
			req.Header.Set(authHeader, c.token)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			lastErr = crerr.Newf("send request: %s", sanitizeSensitiveText(err.Error(), c.token))
		} else {
			raw, readErr := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
			_ = resp.Body.Close()
			switch {
			case readErr != nil:
				lastErr = crerr.Wrap(readErr, "read response body")
			case resp.StatusCode >= 200 && resp.StatusCode < 300:
				return raw, nil
			case isRetryableStatus(resp.StatusCode):
				lastErr = crerr.Newf("provider status=%d body=%s", resp.StatusCode, abbreviateBody(raw))
			default:
				return nil, resilience.Permanent(crerr.Newf("provider status=%d body=%s", resp.StatusCode, abbreviateBody(raw)))
			}
		}

		if attempt == c.maxRetries {
			break
		}
		timer := time.NewTimer(c.backoff(attempt))
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if lastErr == nil {
		lastErr = crerr.New("provider request failed")
	}
	c.logger.WarnContext(ctx, "football-data request failed", "url", fullURL, "error", lastErr)
	return nil, lastErr
}

func checkMatchesPayload(raw []byte) error {
	node, err := sonic.Get(raw, "matches")
	if err != nil {
		return crerr.Wrap(err, `response has no "matches" field`)
	}
	if node.TypeSafe() != ast.V_ARRAY {
		return crerr.New(`response field "matches" is not an array`)
	}
	return nil
}

func isRetryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

func sanitizeSensitiveText(value, token string) string {
	value = strings.TrimSpace(value)
	if value == "" || token == "" {
		return value
	}
	return strings.ReplaceAll(value, token, "REDACTED")
}

func abbreviateBody(body []byte) string {
	text := strings.TrimSpace(string(body))
	if len(text) <= 240 {
		return text
	}
	return text[:240] + "..."
}

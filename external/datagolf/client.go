package datagolf

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/valyala/fasthttp"

	"github.com/pgctour/api/internal/platform/logging"
	"github.com/pgctour/api/internal/platform/resilience"
	"github.com/pgctour/api/internal/usecase"
)

const (
	defaultBaseURL  = "https://feeds.datagolf.com"
	rankingsPath    = "/preds/get-dg-rankings"
	maxResponseSize = 6 << 20
)

var keyParamRegex = regexp.MustCompile(`key=[^&\s"']+`)
var errDataGolfTransient = crerr.New("datagolf transient failure")

// transport is the slice of fasthttp.Client the client needs; tests swap it
// for a stub.
type transport interface {
	Do(req *fasthttp.Request, resp *fasthttp.Response) error
	DoDeadline(req *fasthttp.Request, resp *fasthttp.Response, deadline time.Time) error
}

type ClientConfig struct {
	Transport      transport
	BaseURL        string
	Key            string
	Timeout        time.Duration
	MaxRetries     int
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client fetches golfer skill estimates from the Data Golf feed. It is the
// production usecase.RankingsProvider.
type Client struct {
	transport      transport
	baseURL        string
	key            string
	maxRetries     int
	retryBackoff   time.Duration
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
	flight         resilience.SingleFlight
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	httpTransport := cfg.Transport
	if httpTransport == nil {
		httpTransport = &fasthttp.Client{
			MaxConnsPerHost:     64,
			ReadTimeout:         timeout,
			WriteTimeout:        timeout,
			MaxIdleConnDuration: time.Minute,
		}
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &Client{
		transport:      httpTransport,
		baseURL:        baseURL,
		key:            strings.TrimSpace(cfg.Key),
		maxRetries:     maxInt(cfg.MaxRetries, 0),
		retryBackoff:   time.Second,
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq),
		circuitEnabled: breakerCfg.Enabled,
	}
}

type rankingsEnvelope struct {
	LastUpdated string        `json:"last_updated"`
	Rankings    []rankingItem `json:"rankings"`
}

type rankingItem struct {
	DGID          int64   `json:"dg_id"`
	PlayerName    string  `json:"player_name"`
	OWGRRank      int     `json:"owgr_rank"`
	DGRank        int     `json:"datagolf_rank"`
	SkillEstimate float64 `json:"dg_skill_estimate"`
}

// FetchRankings returns the current skill estimates keyed by golfer api id.
// Entries without a usable rank are skipped.
func (c *Client) FetchRankings(ctx context.Context) (map[string]usecase.ExternalRanking, error) {
	var envelope rankingsEnvelope
	if err := c.doJSON(ctx, rankingsPath, map[string]string{"file_format": "json"}, &envelope); err != nil {
		return nil, fmt.Errorf("fetch rankings: %w", err)
	}

	out := make(map[string]usecase.ExternalRanking, len(envelope.Rankings))
	for _, item := range envelope.Rankings {
		if item.DGID <= 0 {
			continue
		}
		rank := item.OWGRRank
		if rank <= 0 {
			rank = item.DGRank
		}
		if rank <= 0 {
			continue
		}

		apiID := "dg-" + strconv.FormatInt(item.DGID, 10)
		out[apiID] = usecase.ExternalRanking{
			GolferAPIID:   apiID,
			Name:          item.PlayerName,
			WorldRank:     rank,
			SkillEstimate: item.SkillEstimate,
		}
	}

	return out, nil
}

func (c *Client) doJSON(ctx context.Context, path string, query map[string]string, target any) error {
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "datagolf circuit breaker rejected request", "state", c.breaker.State())
			return fmt.Errorf("%w: rankings provider is temporarily unavailable", usecase.ErrDependencyUnavailable)
		}
	}

	values := url.Values{}
	for key, value := range query {
		values.Set(key, value)
	}
	values.Set("key", c.key)

	fullURL := c.baseURL + path + "?" + values.Encode()

	out, err, _ := c.flight.Do(path+"?"+values.Encode(), func() (any, error) {
		raw, reqErr := c.executeRequest(ctx, fullURL)
		if c.circuitEnabled {
			if reqErr != nil && isDataGolfCircuitFailure(reqErr) {
				c.breaker.RecordFailure()
			} else {
				c.breaker.RecordSuccess()
			}
		}
		return raw, reqErr
	})
	if err != nil {
		return err
	}

	raw, ok := out.([]byte)
	if !ok {
		return fmt.Errorf("unexpected response payload type %T", out)
	}

	if err := sonic.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("decode rankings payload: %w", err)
	}

	return nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		raw, done, err := c.sendOnce(ctx, fullURL)
		if err == nil {
			return raw, nil
		}
		lastErr = err
		if done {
			return nil, lastErr
		}

		if attempt == c.maxRetries {
			break
		}
		backoff := time.Duration(attempt+1) * c.retryBackoff
		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("rankings request failed")
	}
	c.logger.WarnContext(ctx, "datagolf request failed", "url", redactKeyURL(fullURL), "error", lastErr)
	return nil, lastErr
}

// sendOnce performs one transport round trip. done reports whether the error
// is permanent and retrying is pointless.
func (c *Client) sendOnce(ctx context.Context, fullURL string) ([]byte, bool, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(fullURL)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("accept", "application/json")

	var err error
	if deadline, ok := ctx.Deadline(); ok {
		err = c.transport.DoDeadline(req, resp, deadline)
	} else {
		err = c.transport.Do(req, resp)
	}
	if err != nil {
		return nil, false, fmt.Errorf("%w: send request: %s", errDataGolfTransient, sanitizeSensitiveText(err.Error(), c.key))
	}

	status := resp.StatusCode()
	body := append([]byte(nil), resp.Body()...)
	if len(body) > maxResponseSize {
		body = body[:maxResponseSize]
	}

	if status >= 200 && status < 300 {
		return body, true, nil
	}
	if isRetryableStatus(status) {
		return nil, false, fmt.Errorf("%w: provider status=%d body=%s", errDataGolfTransient, status, abbreviateBody(body))
	}
	return nil, true, fmt.Errorf("provider status=%d body=%s", status, abbreviateBody(body))
}

func isDataGolfCircuitFailure(err error) bool {
	if err == nil {
		return false
	}
	return stderrors.Is(err, errDataGolfTransient)
}

func isRetryableStatus(code int) bool {
	return code == fasthttp.StatusTooManyRequests || code >= fasthttp.StatusInternalServerError
}

func redactKeyURL(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return keyParamRegex.ReplaceAllString(rawURL, "key=REDACTED")
	}
	query := parsed.Query()
	if query.Has("key") {
		query.Set("key", "REDACTED")
		parsed.RawQuery = query.Encode()
	}
	return parsed.String()
}

func sanitizeSensitiveText(text, secret string) string {
	if secret == "" {
		return text
	}
	return strings.ReplaceAll(text, secret, "REDACTED")
}

func abbreviateBody(body []byte) string {
	text := strings.TrimSpace(string(body))
	if len(text) <= 240 {
		return text
	}
	return text[:240] + "..."
}

func maxInt(left, right int) int {
	if left > right {
		return left
	}
	return right
}

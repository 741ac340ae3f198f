// Package wyscout downloads dataset exports from the provider feed: a JSON
// manifest describing the latest export, then the CSV file it points to.
package wyscout

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/cockroachdb/errors"
	"github.com/valyala/bytebufferpool"

	"github.com/german-fros/tablero-api/internal/platform/logging"
	"github.com/german-fros/tablero-api/internal/platform/resilience"
	"github.com/german-fros/tablero-api/internal/usecase"
)

const (
	defaultTimeout        = 30 * time.Second
	defaultMaxExportBytes = 20 << 20
	manifestSizeCap       = 1 << 20
)

var errTransient = errors.New("wyscout transient failure")

// ErrExportTooLarge is permanent: a feed larger than the cap will not
// shrink on retry, so callers should not re-attempt the download.
var ErrExportTooLarge = errors.New("export exceeds the configured size cap")

var tokenParamRegex = regexp.MustCompile(`(?i)(token|access_token|api_key)=[^&\s"']+`)

// Manifest describes the latest export of one dataset.
type Manifest struct {
	Dataset     string    `json:"dataset"`
	FileURL     string    `json:"file_url"`
	GeneratedAt time.Time `json:"generated_at"`
	RowCount    int       `json:"row_count"`
}

// Export is a downloaded dataset: the manifest plus the raw CSV bytes.
type Export struct {
	Manifest Manifest
	CSV      []byte
}

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	Token          string
	Timeout        time.Duration
	MaxRetries     int
	RetryBackoff   time.Duration
	MaxExportBytes int64
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

type Client struct {
	httpClient     *http.Client
	baseURL        string
	token          string
	maxRetries     int
	retryBackoff   time.Duration
	maxExportBytes int64
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

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = defaultTimeout
	}

	maxExportBytes := cfg.MaxExportBytes
	if maxExportBytes <= 0 {
		maxExportBytes = defaultMaxExportBytes
	}

	retryBackoff := cfg.RetryBackoff
	if retryBackoff <= 0 {
		retryBackoff = time.Second
	}

	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &Client{
		httpClient:     httpClient,
		baseURL:        strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		token:          strings.TrimSpace(cfg.Token),
		maxRetries:     max(cfg.MaxRetries, 0),
		retryBackoff:   retryBackoff,
		maxExportBytes: maxExportBytes,
		logger:         logger.Named("wyscout"),
		breaker:        resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq),
		circuitEnabled: breakerCfg.Enabled,
	}
}

// Latest fetches the newest export of the named dataset. Concurrent calls
// for the same dataset are collapsed into one download.
func (c *Client) Latest(ctx context.Context, name string) (Export, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Export{}, errors.New("dataset name is required")
	}
	if c.baseURL == "" {
		return Export{}, errors.New("export feed base url is not configured")
	}

	out, err, _ := c.flight.Do("latest:"+name, func() (any, error) {
		return c.fetchLatest(ctx, name)
	})
	if err != nil {
		return Export{}, err
	}

	export, ok := out.(Export)
	if !ok {
		return Export{}, errors.Newf("unexpected export payload type %T", out)
	}
	return export, nil
}

func (c *Client) fetchLatest(ctx context.Context, name string) (Export, error) {
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "wyscout circuit breaker rejected request", "state", c.breaker.State())
			return Export{}, fmt.Errorf("%w: export feed is temporarily unavailable", usecase.ErrDependencyUnavailable)
		}
	}

	export, err := c.download(ctx, name)
	if c.circuitEnabled {
		if err != nil && errors.Is(err, errTransient) {
			c.breaker.RecordFailure()
		} else {
			c.breaker.RecordSuccess()
		}
	}
	return export, err
}

func (c *Client) download(ctx context.Context, name string) (Export, error) {
	manifestURL := c.baseURL + "/v1/exports/" + url.PathEscape(name) + "/latest"
	raw, err := c.get(ctx, manifestURL, "application/json", manifestSizeCap)
	if err != nil {
		return Export{}, errors.Wrapf(err, "fetch manifest dataset=%s", name)
	}

	var manifest Manifest
	if err := sonic.Unmarshal(raw, &manifest); err != nil {
		return Export{}, errors.Wrap(err, "decode export manifest")
	}
	if strings.TrimSpace(manifest.Dataset) == "" {
		manifest.Dataset = name
	}
	if strings.TrimSpace(manifest.FileURL) == "" {
		return Export{}, errors.Newf("manifest for dataset %q carries no file url", name)
	}

	csv, err := c.get(ctx, c.resolveFileURL(manifest.FileURL), "text/csv", c.maxExportBytes)
	if err != nil {
		return Export{}, errors.Wrapf(err, "download export dataset=%s", name)
	}

	c.logger.InfoContext(ctx, "export downloaded",
		"dataset", manifest.Dataset,
		"rows", manifest.RowCount,
		"bytes", len(csv),
		"generated_at", manifest.GeneratedAt,
	)

	return Export{Manifest: manifest, CSV: csv}, nil
}

func (c *Client) get(ctx context.Context, fullURL, accept string, sizeCap int64) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return nil, errors.Wrap(err, "build request")
		}
		req.Header.Set("Accept", accept)
		if c.token != "" {
			req.Header.Set("Authorization", "Bearer "+c.token)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = errors.Mark(errors.Newf("send request: %s", c.sanitize(err.Error())), errTransient)
		} else {
			body, readErr := c.readBody(resp.Body, sizeCap)
			_ = resp.Body.Close()
			switch {
			case errors.Is(readErr, ErrExportTooLarge):
				return nil, readErr
			case readErr != nil:
				lastErr = errors.Mark(errors.Wrap(readErr, "read response body"), errTransient)
			case resp.StatusCode >= 200 && resp.StatusCode < 300:
				return body, nil
			case isRetryableStatus(resp.StatusCode):
				lastErr = errors.Mark(errors.Newf("feed status=%d body=%s", resp.StatusCode, abbreviateBody(body)), errTransient)
			default:
				return nil, errors.Newf("feed status=%d body=%s", resp.StatusCode, abbreviateBody(body))
			}
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
		lastErr = errors.New("export feed request failed")
	}
	c.logger.WarnContext(ctx, "wyscout request failed", "url", redactURL(fullURL), "error", lastErr)
	return nil, lastErr
}

func (c *Client) readBody(r io.Reader, sizeCap int64) ([]byte, error) {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	n, err := io.Copy(buf, io.LimitReader(r, sizeCap+1))
	if err != nil {
		return nil, err
	}
	if n > sizeCap {
		return nil, errors.Wrapf(ErrExportTooLarge, "cap %d bytes", sizeCap)
	}

	out := make([]byte, buf.Len())
	copy(out, buf.B)
	return out, nil
}

func (c *Client) resolveFileURL(fileURL string) string {
	fileURL = strings.TrimSpace(fileURL)
	if strings.HasPrefix(fileURL, "http://") || strings.HasPrefix(fileURL, "https://") {
		return fileURL
	}
	if !strings.HasPrefix(fileURL, "/") {
		fileURL = "/" + fileURL
	}
	return c.baseURL + fileURL
}

// sanitize strips the bearer token and token-shaped query parameters from
// text that may end up in logs or wrapped errors.
func (c *Client) sanitize(value string) string {
	value = strings.TrimSpace(value)
	if c.token != "" {
		value = strings.ReplaceAll(value, c.token, "REDACTED")
	}
	return tokenParamRegex.ReplaceAllString(value, "$1=REDACTED")
}

func redactURL(raw string) string {
	parsed, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	query := parsed.Query()
	for key := range query {
		switch strings.ToLower(key) {
		case "token", "access_token", "api_key":
			query.Set(key, "REDACTED")
		}
	}
	parsed.RawQuery = query.Encode()
	return parsed.String()
}

func isRetryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

func abbreviateBody(body []byte) string {
	text := strings.TrimSpace(string(body))
	if len(text) <= 240 {
		return text
	}
	return text[:240] + "..."
}

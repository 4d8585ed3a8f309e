package restcountries

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/mmcdole/globe/internal/domain"
)

const (
	DefaultBaseURL = "https://restcountries.com/v3.1"
	DefaultTimeout = 10 * time.Second
	userAgent      = "globe/1.0"
)

// StatusError reports an unexpected HTTP status from the API
type StatusError struct {
	StatusCode int
	URL        string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status code %d from %s", e.StatusCode, e.URL)
}

// Client implements domain.CountryRepository for the REST Countries API
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a new REST Countries client. Empty baseURL and zero
// timeout fall back to the public API defaults.
func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// FetchAll returns every country. fields restricts the response to the
// named record fields; nil requests DefaultFields.
func (c *Client) FetchAll(ctx context.Context, fields []string) ([]*domain.Country, error) {
	if fields == nil {
		fields = ListFields(DefaultFields)
	}
	query := url.Values{}
	if len(fields) > 0 {
		query.Set("fields", strings.Join(fields, ","))
	}

	body, err := c.doRequest(ctx, "/all", query)
	if err != nil {
		return nil, err
	}

	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("failed to parse country list: invalid JSON")
	}
	result := gjson.ParseBytes(body)
	if !result.IsArray() {
		return nil, fmt.Errorf("failed to parse country list: expected array, got %s", result.Type)
	}

	records := result.Array()
	countries := make([]*domain.Country, 0, len(records))
	for _, r := range records {
		countries = append(countries, formatCountry(r))
	}

	c.logger.Debug("fetched countries", "count", len(countries))
	return countries, nil
}

// FetchDetail returns the full record for one cca3 code. The endpoint
// answers with either a single record or a one-element array.
func (c *Client) FetchDetail(ctx context.Context, code string) (*domain.CountryDetail, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, domain.ErrEmptyCode
	}

	body, err := c.doRequest(ctx, "/alpha/"+url.PathEscape(code), nil)
	if err != nil {
		return nil, err
	}

	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("failed to parse country %s: invalid JSON", code)
	}
	result := gjson.ParseBytes(body)
	if result.IsArray() {
		records := result.Array()
		if len(records) == 0 {
			return nil, domain.ErrCountryNotFound
		}
		result = records[0]
	}

	return formatCountryDetail(result), nil
}

// doRequest performs a GET and maps transport and status failures to
// domain errors.
func (c *Client) doRequest(ctx context.Context, path string, query url.Values) ([]byte, error) {
	reqURL := c.baseURL + path
	if len(query) > 0 {
		reqURL = fmt.Sprintf("%s?%s", reqURL, query.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	c.logger.Debug("countries request", "url", reqURL)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		c.logger.Error("countries request failed", "url", reqURL, "error", err)
		return nil, fmt.Errorf("%w: %w", domain.ErrSourceUnreachable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode == http.StatusNotFound {
		return nil, domain.ErrCountryNotFound
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.Error("countries request error", "status", resp.StatusCode, "body", truncateBody(body))
		return nil, &StatusError{StatusCode: resp.StatusCode, URL: reqURL}
	}

	return body, nil
}

// IsRetryable reports whether a failed request may succeed when repeated.
func IsRetryable(err error) bool {
	if errors.Is(err, domain.ErrCountryNotFound) || errors.Is(err, domain.ErrEmptyCode) {
		return false
	}
	if errors.Is(err, context.Canceled) {
		return false
	}
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode >= 500 || statusErr.StatusCode == http.StatusTooManyRequests
	}
	return true
}

func truncateBody(body []byte) string {
	const limit = 256
	if len(body) > limit {
		return string(body[:limit]) + "..."
	}
	return string(body)
}

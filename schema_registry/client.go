package schema_registry

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/aalemi-dev/lims-events/observability"
)

// Registry fetches schema definitions by subject and version.
type Registry interface {
	// GetSchemaByVersion returns the raw schema text registered for subject at version.
	GetSchemaByVersion(ctx context.Context, subject string, version int) (string, error)
}

// Client is the HTTP implementation of Registry.
// It does not cache; Resolver layers caching on top of it.
type Client struct {
	url          string
	httpClient   *http.Client
	maxRedirects int

	username string
	password string

	observer observability.Observer
	logger   Logger
}

// NewClient creates a registry client. Redirects are followed up to
// cfg.MaxRedirects hops; one more fails with ErrTooManyRedirects.
//
// Parameters:
//   - cfg: the registry base URL, ending in "/subjects/", with optional basic
//     auth credentials and timeout
//
// Returns:
//   - *Client: a Registry implementation over net/http
//   - error: when cfg.URL is empty
func NewClient(cfg Config) (*Client, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("schema registry URL is required")
	}
	cfg = cfg.withDefaults()

	c := &Client{
		url:          cfg.URL,
		maxRedirects: cfg.MaxRedirects,
		username:     cfg.Username,
		password:     cfg.Password,
	}
	c.httpClient = &http.Client{
		Timeout:       cfg.Timeout,
		CheckRedirect: c.checkRedirect,
	}
	return c, nil
}

func (c *Client) checkRedirect(req *http.Request, via []*http.Request) error {
	if len(via) > c.maxRedirects {
		return fmt.Errorf("%w: gave up after %d hops", ErrTooManyRedirects, c.maxRedirects)
	}
	if c.username != "" {
		req.SetBasicAuth(c.username, c.password)
	}
	return nil
}

// GetSchemaByVersion performs GET {url}{subject}/versions/{version} and returns
// the "schema" field of the JSON response.
func (c *Client) GetSchemaByVersion(ctx context.Context, subject string, version int) (string, error) {
	start := time.Now()
	versionStr := strconv.Itoa(version)

	schema, status, err := c.get(ctx, fmt.Sprintf("%s%s/versions/%d", c.url, subject, version))

	metadata := map[string]interface{}{}
	if status != 0 {
		metadata["status_code"] = status
	}
	observeOperation(c.observer, "get_schema_by_version", subject, versionStr, time.Since(start), err, int64(len(schema)), metadata)
	if err != nil {
		logWarn(c.logger, ctx, "schema registry request failed", err, map[string]interface{}{
			"subject":     subject,
			"version":     version,
			"status_code": status,
		})
	}

	return schema, err
}

func (c *Client) get(ctx context.Context, url string) (string, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", 0, fmt.Errorf("%w: failed to create request: %w", ErrSchemaFetch, err)
	}

	if c.username != "" {
		req.SetBasicAuth(c.username, c.password)
	}
	req.Header.Set("Accept", "application/vnd.schemaregistry.v1+json")

	resp, err := c.httpClient.Do(req) //nolint:gosec
	if err != nil {
		return "", 0, fmt.Errorf("%w: %w", ErrSchemaFetch, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", resp.StatusCode, fmt.Errorf("%w: schema registry returned status %d: %s", ErrSchemaFetch, resp.StatusCode, string(body))
	}

	var result struct {
		Schema string `json:"schema"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", resp.StatusCode, fmt.Errorf("%w: failed to decode registry response: %w", ErrSchemaParse, err)
	}
	if result.Schema == "" {
		return "", resp.StatusCode, fmt.Errorf("%w: registry response has no schema field", ErrSchemaParse)
	}

	return result.Schema, resp.StatusCode, nil
}

// WithObserver sets the observer and returns the client for chaining.
func (c *Client) WithObserver(observer observability.Observer) *Client {
	c.observer = observer
	return c
}

// WithLogger sets the logger and returns the client for chaining.
func (c *Client) WithLogger(logger Logger) *Client {
	c.logger = logger
	return c
}

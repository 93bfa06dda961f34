// Package portal fetches datasets, files, analysis audits, and schema
// profiles from an ENCODE-style data portal.
package portal

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	"github.com/encoded/filegallery/internal/record"
)

const (
	// BaseURL is the default portal.
	BaseURL = "https://www.encodeproject.org"

	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 60 * time.Second

	// RateLimit is the default number of requests per second.
	RateLimit = 10.0

	// ObjectBatchSize is the number of @ids requested per batched search.
	ObjectBatchSize = 100

	// maxErrorBody bounds how much of an error response is kept.
	maxErrorBody = 512
)

// Client is a rate-limited HTTP client for the portal's JSON API.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	baseURL    string
	apiKey     string
	apiSecret  string

	profiles   singleflight.Group
	profilesMu sync.Mutex
	profileMap map[string]json.RawMessage
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithCredentials sets the access key pair sent with basic auth.
func WithCredentials(key, secret string) ClientOption {
	return func(c *Client) {
		c.apiKey = key
		c.apiSecret = secret
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithBaseURL sets the portal URL.
func WithBaseURL(u string) ClientOption {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(u, "/")
	}
}

// WithRateLimit sets the allowed requests per second.
func WithRateLimit(perSecond float64) ClientOption {
	return func(c *Client) {
		if perSecond > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
		}
	}
}

// NewClient creates a portal client. Credentials default to FG_API_KEY and
// FG_API_SECRET from the environment.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		limiter:    rate.NewLimiter(rate.Limit(RateLimit), 1),
		baseURL:    BaseURL,
		apiKey:     os.Getenv("FG_API_KEY"),
		apiSecret:  os.Getenv("FG_API_SECRET"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// checkHTTPErrors returns an error if the response indicates a problem.
func checkHTTPErrors(resp *http.Response, path string) error {
	if resp.StatusCode < 400 {
		return nil
	}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%w: status %d for %s", ErrAuthError, resp.StatusCode, path)
	case http.StatusTooManyRequests:
		return fmt.Errorf("%w: status %d for %s", ErrRateLimited, resp.StatusCode, path)
	}
	return &APIError{
		StatusCode: resp.StatusCode,
		Path:       path,
		Message:    strings.TrimSpace(string(body)),
	}
}

// get fetches path from the portal and returns the JSON body.
func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.SetBasicAuth(c.apiKey, c.apiSecret)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetworkError, err)
	}
	defer resp.Body.Close()

	if err := checkHTTPErrors(resp, path); err != nil {
		return nil, err
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %v", ErrNetworkError, path, err)
	}
	return body, nil
}

// searchResult is the envelope of a portal search.
type searchResult struct {
	Graph []json.RawMessage `json:"@graph"`
	Total int               `json:"total"`
}

func (c *Client) search(ctx context.Context, path string) ([]json.RawMessage, error) {
	body, err := c.get(ctx, path)
	if err != nil {
		// Searches without hits come back as 404.
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	var result searchResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("%w: parsing search results: %v", ErrInvalidResponse, err)
	}
	return result.Graph, nil
}

func decodeAll[T any](raw []json.RawMessage) ([]T, error) {
	out := make([]T, 0, len(raw))
	for i, item := range raw {
		var v T
		if err := json.Unmarshal(item, &v); err != nil {
			return nil, fmt.Errorf("%w: result %d: %v", ErrInvalidResponse, i, err)
		}
		out = append(out, v)
	}
	return out, nil
}

// RequestSearch runs a file search with the given query string and returns
// the matching files.
func (c *Client) RequestSearch(ctx context.Context, query string) ([]record.File, error) {
	raw, err := c.search(ctx, "/search/?"+query)
	if err != nil {
		return nil, err
	}
	return decodeAll[record.File](raw)
}

// requestObjects searches for the given @ids in batches appended to
// suffix, preserving the order of the batches.
func (c *Client) requestObjects(ctx context.Context, ids []string, suffix string) ([]json.RawMessage, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var batches [][]string
	for start := 0; start < len(ids); start += ObjectBatchSize {
		end := min(start+ObjectBatchSize, len(ids))
		batches = append(batches, ids[start:end])
	}

	results := make([][]json.RawMessage, len(batches))
	g, ctx := errgroup.WithContext(ctx)
	for i, batch := range batches {
		g.Go(func() error {
			var b strings.Builder
			b.WriteString(suffix)
			for _, id := range batch {
				b.WriteString("&@id=")
				b.WriteString(url.QueryEscape(id))
			}
			raw, err := c.search(ctx, b.String())
			if err != nil {
				return err
			}
			results[i] = raw
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var out []json.RawMessage
	for _, r := range results {
		out = append(out, r...)
	}
	return out, nil
}

// Audit is one audit finding on a portal object.
type Audit struct {
	Category  string `json:"category"`
	Level     int    `json:"level"`
	LevelName string `json:"level_name"`
	Detail    string `json:"detail,omitempty"`
}

// AuditedObject is an object with its audits grouped by level name.
type AuditedObject struct {
	ID    string             `json:"@id"`
	Audit map[string][]Audit `json:"audit,omitempty"`
}

// RequestObjects fetches the audits of the objects with the given @ids
// using a search suffix such as AnalysisAuditSearch.
func (c *Client) RequestObjects(ctx context.Context, ids []string, suffix string) ([]AuditedObject, error) {
	raw, err := c.requestObjects(ctx, ids, suffix)
	if err != nil {
		return nil, err
	}
	return decodeAll[AuditedObject](raw)
}

// AnalysisAudits returns the audits of the given analyses keyed by @id.
// Analyses without audits map to an empty set.
func (c *Client) AnalysisAudits(ctx context.Context, analysisIDs []string) (map[string]map[string][]Audit, error) {
	objects, err := c.RequestObjects(ctx, analysisIDs, AnalysisAuditSearch)
	if err != nil {
		return nil, err
	}
	audits := make(map[string]map[string][]Audit, len(objects))
	for _, o := range objects {
		if o.Audit == nil {
			o.Audit = map[string][]Audit{}
		}
		audits[o.ID] = o.Audit
	}
	return audits, nil
}

// RequestFiles fetches the files with the given @ids.
func (c *Client) RequestFiles(ctx context.Context, ids []string) ([]record.File, error) {
	raw, err := c.requestObjects(ctx, ids, FileSearch)
	if err != nil {
		return nil, err
	}
	return decodeAll[record.File](raw)
}

// RequestURI fetches the JSON document at path.
func (c *Client) RequestURI(ctx context.Context, path string) (json.RawMessage, error) {
	body, err := c.get(ctx, path)
	if err != nil {
		return nil, err
	}
	if !json.Valid(body) {
		return nil, fmt.Errorf("%w: %s is not JSON", ErrInvalidResponse, path)
	}
	return body, nil
}

// Profiles returns the schema profiles keyed by type name. Concurrent
// callers share one request and the result is kept for the client's
// lifetime.
func (c *Client) Profiles(ctx context.Context) (map[string]json.RawMessage, error) {
	c.profilesMu.Lock()
	cached := c.profileMap
	c.profilesMu.Unlock()
	if cached != nil {
		return cached, nil
	}

	v, err, _ := c.profiles.Do("/profiles/", func() (any, error) {
		body, err := c.RequestURI(ctx, "/profiles/")
		if err != nil {
			return nil, err
		}
		var profiles map[string]json.RawMessage
		if err := json.Unmarshal(body, &profiles); err != nil {
			return nil, fmt.Errorf("%w: parsing profiles: %v", ErrInvalidResponse, err)
		}
		c.profilesMu.Lock()
		c.profileMap = profiles
		c.profilesMu.Unlock()
		return profiles, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(map[string]json.RawMessage), nil
}

// GetDataset fetches a dataset by @id or accession with its embedded
// analyses and files.
func (c *Client) GetDataset(ctx context.Context, id string) (*record.Dataset, error) {
	path := id
	if !strings.HasPrefix(path, "/") {
		path = "/" + path + "/"
	}
	body, err := c.get(ctx, path+"?format=json")
	if err != nil {
		if IsNotFound(err) {
			return nil, fmt.Errorf("%w: dataset %s", ErrNotFound, id)
		}
		return nil, err
	}
	var ds record.Dataset
	if err := json.Unmarshal(body, &ds); err != nil {
		return nil, fmt.Errorf("%w: parsing dataset %s: %v", ErrInvalidResponse, id, err)
	}
	if ds.ID == "" {
		return nil, fmt.Errorf("%w: dataset %s has no @id", ErrInvalidResponse, id)
	}
	return &ds, nil
}

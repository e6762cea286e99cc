package youtube

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"
)

const DefaultBaseURL = "https://www.googleapis.com/youtube/v3"

// Client talks to the YouTube Data API v3 with a caller-supplied API key.
type Client struct {
	baseURL       string
	http          *http.Client
	maxRetries    uint64
	retryInterval time.Duration
	logger        zerolog.Logger
}

type Option func(*Client)

// WithMaxRetries sets how many times a transport failure, 429 or 5xx is
// retried. Other API errors are returned immediately.
func WithMaxRetries(n uint64) Option {
	return func(c *Client) { c.maxRetries = n }
}

func WithRetryInterval(d time.Duration) Option {
	return func(c *Client) { c.retryInterval = d }
}

func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

func NewClient(baseURL string, httpClient *http.Client, opts ...Option) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	c := &Client{
		baseURL:       strings.TrimRight(baseURL, "/"),
		http:          httpClient,
		maxRetries:    2,
		retryInterval: 500 * time.Millisecond,
		logger:        zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// get issues GET /<endpoint>?<params>&key=<apiKey> and decodes the JSON body
// into out.
func (c *Client) get(ctx context.Context, apiKey, endpoint string, params url.Values, out any) error {
	q := make(url.Values, len(params)+1)
	for k, v := range params {
		q[k] = v
	}
	q.Set("key", apiKey)

	attempt := 0
	op := func() error {
		attempt++
		req, err := c.newRequest(ctx, endpoint, q)
		if err != nil {
			return backoff.Permanent(err)
		}

		resp, err := c.http.Do(req)
		if err != nil {
			return &NetworkError{Op: endpoint, Err: err}
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			apiErr := decodeAPIError(resp)
			if apiErr.retryable() {
				return apiErr
			}
			return backoff.Permanent(apiErr)
		}

		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return backoff.Permanent(fmt.Errorf("decode %s response: %w", endpoint, err))
		}
		return nil
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = c.retryInterval
	b := backoff.WithContext(backoff.WithMaxRetries(policy, c.maxRetries), ctx)

	err := backoff.RetryNotify(op, b, func(err error, wait time.Duration) {
		c.logger.Debug().Err(err).Str("endpoint", endpoint).Int("attempt", attempt).Dur("wait", wait).Msg("retrying upstream request")
	})
	return err
}

func (c *Client) newRequest(ctx context.Context, endpoint string, q url.Values) (*http.Request, error) {
	fullURL := c.baseURL + "/" + endpoint + "?" + q.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	return req, nil
}

func decodeAPIError(resp *http.Response) *APIError {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 16<<10))
	var decoded errorBody
	if err := json.Unmarshal(body, &decoded); err != nil {
		return newAPIError(resp.StatusCode, "")
	}
	return newAPIError(resp.StatusCode, strings.TrimSpace(decoded.Error.Message))
}

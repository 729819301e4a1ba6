package sensor

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rileyhilliard/sensordash/internal/errors"
)

// DefaultEndpoint is the sensor data endpoint used when none is configured.
const DefaultEndpoint = "https://evidencia-2-amt-ispc.onrender.com/data"

// userAgent identifies sensordash requests.
const userAgent = "sensordash"

// Client fetches the full record set from the sensor endpoint.
type Client struct {
	endpoint   string
	httpClient *http.Client
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// NewClient creates a client for the given endpoint. The default HTTP client
// has no timeout; per-request deadlines come from the caller's context.
func NewClient(endpoint string, opts ...ClientOption) *Client {
	c := &Client{
		endpoint:   endpoint,
		httpClient: &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Endpoint returns the URL this client fetches from.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Fetch performs a single GET and decodes the JSON array body.
// Any failure (transport, non-2xx status, malformed body) is returned as an
// *errors.Error with code ErrFetch.
func (c *Client) Fetch(ctx context.Context) ([]Record, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint, nil)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrFetch,
			fmt.Sprintf("Invalid sensor endpoint: %s", c.endpoint),
			"Set a valid http(s) URL with --endpoint or in .sensordash.yaml")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrFetch,
			"Sensor endpoint unreachable",
			"Check your network connection and the endpoint URL")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
		return nil, errors.New(errors.ErrFetch,
			fmt.Sprintf("Sensor endpoint returned %d %s", resp.StatusCode, http.StatusText(resp.StatusCode)),
			"The service may be starting up; the next refresh will try again")
	}

	records, err := Decode(resp.Body)
	if err != nil {
		return nil, err
	}
	return records, nil
}

// Decode reads a JSON array of records. A body that is not an array of
// record-shaped objects is a fetch failure.
func Decode(r io.Reader) ([]Record, error) {
	var records []Record
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrFetch,
			"Sensor endpoint returned a malformed body",
			"Expected a JSON array of {id, value, timestamp} objects")
	}
	if records == nil {
		// A literal null is not a record set.
		return nil, errors.New(errors.ErrFetch,
			"Sensor endpoint returned null",
			"Expected a JSON array of {id, value, timestamp} objects")
	}
	return records, nil
}

// FetchOnce runs a single fetch with an optional timeout (0 means none).
func FetchOnce(ctx context.Context, c *Client, timeout time.Duration) ([]Record, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	return c.Fetch(ctx)
}

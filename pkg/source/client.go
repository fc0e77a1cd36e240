package source

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/matzehuels/circuitview/pkg/buildinfo"
	"github.com/matzehuels/circuitview/pkg/circuit"
	"github.com/matzehuels/circuitview/pkg/errors"
	"github.com/matzehuels/circuitview/pkg/observability"
)

// DefaultBaseURL is the backend address used when none is configured.
const DefaultBaseURL = "http://localhost:8001"

// DefaultTimeout bounds a single backend request.
const DefaultTimeout = 10 * time.Second

// circuitPath is the backend endpoint serving interactive circuits.
const circuitPath = "/circuit-interactive"

// Client fetches circuits from the backend. Each call makes exactly one
// request; failures are returned, never retried.
type Client struct {
	http    *http.Client
	baseURL string
}

// NewClient creates a client for baseURL. A zero timeout uses
// [DefaultTimeout].
func NewClient(baseURL string, timeout time.Duration) (*Client, error) {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if err := errors.ValidateURL(baseURL); err != nil {
		return nil, err
	}
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		http:    &http.Client{Timeout: timeout},
		baseURL: strings.TrimRight(baseURL, "/"),
	}, nil
}

// BaseURL returns the backend address.
func (c *Client) BaseURL() string { return c.baseURL }

// URL returns the request URL for s.
func (c *Client) URL(s Settings) string {
	q := url.Values{}
	q.Set("reps", strconv.Itoa(s.Reps))
	q.Set("entanglement", string(s.Topology))
	return c.baseURL + circuitPath + "?" + q.Encode()
}

// Circuit performs GET /circuit-interactive and ingests the response.
func (c *Client) Circuit(ctx context.Context, s Settings) (*circuit.Circuit, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.URL(s), nil)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "build request")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", buildinfo.UserAgent())

	host, path := req.URL.Host, req.URL.Path
	observability.HTTP().OnRequest(ctx, req.Method, host, path)
	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		observability.HTTP().OnError(ctx, req.Method, host, path, err)
		if ctx.Err() != nil {
			return nil, errors.Wrap(errors.ErrCodeTimeout, ctx.Err(), "fetch circuit")
		}
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "fetch circuit")
	}
	defer resp.Body.Close()
	observability.HTTP().OnResponse(ctx, req.Method, host, path, resp.StatusCode, time.Since(start))

	if err := checkStatus(resp.StatusCode); err != nil {
		return nil, err
	}
	return circuit.Decode(resp.Body)
}

func checkStatus(code int) error {
	switch {
	case code == http.StatusOK:
		return nil
	case code == http.StatusNotFound:
		return errors.New(errors.ErrCodeNotFound, "circuit endpoint not found")
	case code == http.StatusUnprocessableEntity || code == http.StatusBadRequest:
		return errors.New(errors.ErrCodeInvalidInput, "backend rejected settings: status %d", code)
	default:
		return errors.New(errors.ErrCodeNetwork, "backend status %d", code)
	}
}

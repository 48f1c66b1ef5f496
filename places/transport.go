package places

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/context/ctxhttp"
)

// Response is the decoded body of an Overpass query.
type Response struct {
	Elements []Element `json:"elements"`
}

// Transport runs one query against one mirror endpoint.
type Transport interface {
	Query(ctx context.Context, endpoint, query string) (*Response, error)
}

// StatusError is returned when a mirror answers with a non-2xx status.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("overpass returned status %d", e.Code)
}

// HTTPTransport posts queries as url-encoded forms.
type HTTPTransport struct {
	Client    *http.Client
	UserAgent string
}

// NewHTTPTransport returns a transport using a dedicated client. Per-attempt
// deadlines come from the context passed to Query.
func NewHTTPTransport() *HTTPTransport {
	return &HTTPTransport{
		Client:    &http.Client{Timeout: 60 * time.Second},
		UserAgent: "TripSpotter/1.0",
	}
}

func (t *HTTPTransport) Query(ctx context.Context, endpoint, query string) (*Response, error) {
	req, err := http.NewRequest(http.MethodPost, endpoint, strings.NewReader("data="+url.QueryEscape(query)))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	if t.UserAgent != "" {
		req.Header.Set("User-Agent", t.UserAgent)
	}

	resp, err := ctxhttp.Do(ctx, t.Client, req)
	if err != nil {
		return nil, fmt.Errorf("overpass request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body)
		return nil, &StatusError{Code: resp.StatusCode}
	}

	var out Response
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("overpass decode: %w", err)
	}
	return &out, nil
}

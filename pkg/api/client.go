package api

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

// Well-known resource paths, relative to the configured base URL.
const (
	PathUsers  = "/Users"
	PathRoutes = "/Rutas"
	PathBikes  = "/Bikes"
	PathEvents = "/Eventos"
)

// RequestIDHeader carries a per-request correlation id.
const RequestIDHeader = "X-Request-ID"

// Client performs list/create round trips against the remote REST API.
// It never retries: every call is exactly one request.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient returns a Client rooted at baseURL (host + "/api").
// A nil httpClient uses http.DefaultClient.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), http: httpClient}
}

// NewHTTPClient builds the transport used against development backends.
// insecure accepts self-signed certificates (local ASP.NET dev certs).
func NewHTTPClient(insecure bool) *http.Client {
	if !insecure {
		return &http.Client{}
	}
	tr := http.DefaultTransport.(*http.Transport).Clone()
	tr.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec
	return &http.Client{Transport: tr}
}

// BaseURL reports the root every resource path is appended to.
func (c *Client) BaseURL() string { return c.baseURL }

// List fetches the full collection at path into out, which must be a pointer to a slice.
// A response that is not a JSON array yields a *ShapeError.
func (c *Client) List(ctx context.Context, path string, out any) error {
	body, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return &ShapeError{Path: path, Body: snippet(trimmed)}
	}
	if err := json.Unmarshal(trimmed, out); err != nil {
		return &ShapeError{Path: path, Body: snippet(trimmed), Err: err}
	}
	return nil
}

// Create posts record to path. When out is non-nil the created record is decoded into it.
func (c *Client) Create(ctx context.Context, path string, record, out any) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("encode %s payload: %w", path, err)
	}
	body, err := c.do(ctx, http.MethodPost, path, data)
	if err != nil {
		return err
	}
	if out == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		// The record exists server-side; a body we cannot read does not undo that.
		log.Printf("[api] POST %s: created record not decodable: %v", path, err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, payload []byte) ([]byte, error) {
	var rd io.Reader
	if payload != nil {
		rd = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rd)
	if err != nil {
		return nil, &Failure{Err: err}
	}
	reqID := uuid.New().String()
	req.Header.Set("Accept", "*/*")
	req.Header.Set(RequestIDHeader, reqID)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		log.Printf("[api] %s %s failed (%s): %v", method, path, reqID, err)
		return nil, &Failure{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Printf("[api] %s %s read body (%s): %v", method, path, reqID, err)
		return nil, &Failure{Status: resp.StatusCode, Err: err}
	}
	log.Printf("[api] %s %s -> %d (%s)", method, path, resp.StatusCode, reqID)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &Failure{Status: resp.StatusCode, Message: serverMessage(body)}
	}
	return body, nil
}

func snippet(b []byte) string {
	const max = 120
	if len(b) > max {
		return string(b[:max]) + "..."
	}
	return string(b)
}

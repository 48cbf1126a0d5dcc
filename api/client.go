// Package api implements the Alpaca trading and market-data REST/WebSocket
// endpoints used by the CLI.
package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"gopkg.in/matryer/try.v1"
)

const (
	rateLimitRetryCount = 3
	rateLimitRetryDelay = time.Second
	transportRetryCount = 3

	defaultTimeout = 10 * time.Second

	// v2MaxLimit is the maximum allowed page size for the v2 data endpoints.
	v2MaxLimit = 10000
)

// APIError wraps the detailed code and message supplied by Alpaca's API.
type APIError struct {
	StatusCode int    `json:"-"`
	Code       int    `json:"code"`
	Message    string `json:"message"`
}

func (e *APIError) Error() string {
	return e.Message
}

// Credentials identifies the account to the API.
type Credentials struct {
	ID     string
	Secret string
}

// Options configures a Client.
type Options struct {
	// BaseURL is the trading API endpoint (paper or live).
	BaseURL string
	// DataURL is the market-data API endpoint.
	DataURL string
	Timeout time.Duration
	// HTTPClient overrides the transport, used by tests.
	HTTPClient *http.Client
}

// Client is an Alpaca REST API client.
type Client struct {
	credentials Credentials
	base        string
	dataBase    string
	httpClient  *http.Client
}

// NewClient creates a new Alpaca client with the specified credentials.
func NewClient(credentials Credentials, opts Options) *Client {
	base := strings.TrimSuffix(opts.BaseURL, "/")
	if base == "" {
		base = "https://api.alpaca.markets"
	}
	dataBase := strings.TrimSuffix(opts.DataURL, "/")
	if dataBase == "" {
		dataBase = "https://data.alpaca.markets"
	}
	timeout := opts.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}
	return &Client{
		credentials: credentials,
		base:        base,
		dataBase:    dataBase,
		httpClient:  httpClient,
	}
}

func (c *Client) do(req *http.Request) (*http.Response, error) {
	req.Header.Set("APCA-API-KEY-ID", c.credentials.ID)
	req.Header.Set("APCA-API-SECRET-KEY", c.credentials.Secret)
	if req.Body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	var resp *http.Response
	for i := 0; ; i++ {
		err := try.Do(func(attempt int) (bool, error) {
			if req.GetBody != nil {
				body, err := req.GetBody()
				if err != nil {
					return false, err
				}
				req.Body = body
			}
			var err error
			resp, err = c.httpClient.Do(req) //nolint:bodyclose // closed by unmarshal/verify
			return attempt < transportRetryCount, err
		})
		if err != nil {
			return nil, err
		}
		if resp.StatusCode != http.StatusTooManyRequests || i >= rateLimitRetryCount {
			break
		}
		resp.Body.Close()
		time.Sleep(rateLimitRetryDelay)
	}

	if err := verify(resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *Client) get(u *url.URL) (*http.Response, error) {
	req, err := http.NewRequest(http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	return c.do(req)
}

func (c *Client) post(u *url.URL, data interface{}) (*http.Response, error) {
	return c.send(http.MethodPost, u, data)
}

func (c *Client) patch(u *url.URL, data interface{}) (*http.Response, error) {
	return c.send(http.MethodPatch, u, data)
}

func (c *Client) put(u *url.URL, data interface{}) (*http.Response, error) {
	return c.send(http.MethodPut, u, data)
}

func (c *Client) send(method string, u *url.URL, data interface{}) (*http.Response, error) {
	buf, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequest(method, u.String(), bytes.NewReader(buf))
	if err != nil {
		return nil, err
	}
	return c.do(req)
}

func (c *Client) delete(u *url.URL) (*http.Response, error) {
	req, err := http.NewRequest(http.MethodDelete, u.String(), nil)
	if err != nil {
		return nil, err
	}
	return c.do(req)
}

// verify turns non-2xx responses into an *APIError.
func verify(resp *http.Response) error {
	if resp.StatusCode < http.StatusMultipleChoices {
		return nil
	}
	defer resp.Body.Close()

	apiErr := &APIError{StatusCode: resp.StatusCode}
	body, err := io.ReadAll(resp.Body)
	if err != nil || json.Unmarshal(body, apiErr) != nil || apiErr.Message == "" {
		apiErr.Message = fmt.Sprintf("request failed: %s", resp.Status)
	}
	return apiErr
}

// readBody drains the response and returns its raw body.
func readBody(resp *http.Response) ([]byte, error) {
	defer resp.Body.Close()
	return io.ReadAll(resp.Body)
}

func decode(body []byte, data interface{}) error {
	return json.Unmarshal(body, data)
}

func unmarshal(resp *http.Response, data interface{}) error {
	defer func() {
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
	}()
	return json.NewDecoder(resp.Body).Decode(data)
}

// closeResp drains responses whose bodies carry nothing of interest.
func closeResp(resp *http.Response) {
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
}

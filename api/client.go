package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// ApiKeyHeader is the bearer-token header required by authenticated
// endpoints.
const ApiKeyHeader = "epoch_api_key"

// ContentType is set on every gateway request.
const ContentType = "application/json"

// DefaultTimeout bounds a single gateway round trip.
const DefaultTimeout = 60 * time.Second

// TransportError is returned for any failed gateway round trip: network
// errors, non-2xx statuses, malformed response bodies, and malformed key
// strings crossing the wire.  StatusCode is zero when the failure happened
// before a response arrived.
type TransportError struct {
	StatusCode int
	Method     string
	URL        string
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s %s: status %d: %v", e.Method, e.URL, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Method, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Client issues signed JSON requests against the Epoch REST service.  It is
// stateless with respect to authentication: the api key is an argument to
// each authenticated call, owned by the session controller.
type Client struct {
	// BaseUrl is the service address, fixed at construction.
	BaseUrl string

	client  *http.Client
	headers map[string]string
}

// NewClient creates a gateway client for the given service base URL.
func NewClient(baseUrl string) *Client {
	return NewClientWithHttpClient(baseUrl, &http.Client{Timeout: DefaultTimeout})
}

// NewClientWithHttpClient creates a gateway client with a caller-supplied
// http.Client, e.g. for custom transports in tests.
func NewClientWithHttpClient(baseUrl string, httpClient *http.Client) *Client {
	return &Client{
		BaseUrl: strings.TrimRight(baseUrl, "/"),
		client:  httpClient,
		headers: make(map[string]string),
	}
}

// SetTimeout adjusts the HTTP client timeout
//
//	client.SetTimeout(5 * time.Second)
func (c *Client) SetTimeout(timeout time.Duration) {
	c.client.Timeout = timeout
}

// SetHeader sets the header for all future requests
//
//	client.SetHeader("X-Request-Source", "bot")
func (c *Client) SetHeader(key string, value string) {
	c.headers[key] = value
}

// RemoveHeader removes the header from being automatically set on all future
// requests.
func (c *Client) RemoveHeader(key string) {
	delete(c.headers, key)
}

// Post issues a JSON POST.  A nil body sends an empty JSON object; a nil out
// discards the response body.
func (c *Client) Post(path string, apiKey string, body any, out any) error {
	return c.roundTrip(http.MethodPost, path, apiKey, body, out)
}

// Get issues a GET with JSON headers.
func (c *Client) Get(path string, apiKey string, out any) error {
	return c.roundTrip(http.MethodGet, path, apiKey, nil, out)
}

func (c *Client) roundTrip(method string, path string, apiKey string, body any, out any) error {
	url := c.BaseUrl + path

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return &TransportError{Method: method, URL: url, Err: err}
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		return &TransportError{Method: method, URL: url, Err: err}
	}
	req.Header.Set("Content-Type", ContentType)
	for key, value := range c.headers {
		req.Header.Set(key, value)
	}
	if apiKey != "" {
		req.Header.Set(ApiKeyHeader, apiKey)
	}

	res, err := c.client.Do(req)
	if err != nil {
		return &TransportError{Method: method, URL: url, Err: err}
	}
	defer res.Body.Close()

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return &TransportError{StatusCode: res.StatusCode, Method: method, URL: url, Err: err}
	}
	if res.StatusCode < 200 || res.StatusCode > 299 {
		return &TransportError{
			StatusCode: res.StatusCode,
			Method:     method,
			URL:        url,
			Err:        fmt.Errorf("%s", strings.TrimSpace(string(data))),
		}
	}
	if out == nil {
		return nil
	}
	if err := decodeBody(data, out); err != nil {
		return &TransportError{StatusCode: res.StatusCode, Method: method, URL: url, Err: err}
	}
	return nil
}

// decodeBody unmarshals a response body.  String targets additionally accept
// plain-text bodies, since the service returns bare strings for challenge,
// token, and message responses.
func decodeBody(data []byte, out any) error {
	trimmed := strings.TrimSpace(string(data))
	if target, ok := out.(*string); ok {
		if trimmed == "" || trimmed == "null" {
			*target = ""
			return nil
		}
		if err := json.Unmarshal(data, target); err != nil {
			*target = trimmed
		}
		return nil
	}
	if trimmed == "" || trimmed == "null" {
		return nil
	}
	return json.Unmarshal(data, out)
}

package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"
)

// Client wraps http.Client with test-friendly request methods.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: baseURL,
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Response wraps an HTTP response with its fully read body.
type Response struct {
	*http.Response
	Body []byte
}

func (r *Response) DecodeJSON(target any) error {
	return json.Unmarshal(r.Body, target)
}

func (c *Client) GET(t *testing.T, path string) *Response {
	t.Helper()
	return c.request(t, http.MethodGet, path, nil, nil)
}

func (c *Client) POST(t *testing.T, path string, body any) *Response {
	t.Helper()
	return c.request(t, http.MethodPost, path, body, nil)
}

func (c *Client) POSTRaw(t *testing.T, path string, raw []byte) *Response {
	t.Helper()
	req, err := http.NewRequestWithContext(context.Background(), http.MethodPost, c.BaseURL+path, bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("failed to create request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(t, req)
}

func (c *Client) PATCH(t *testing.T, path string, body any) *Response {
	t.Helper()
	return c.request(t, http.MethodPatch, path, body, nil)
}

func (c *Client) DELETE(t *testing.T, path string) *Response {
	t.Helper()
	return c.request(t, http.MethodDelete, path, nil, nil)
}

func (c *Client) POSTWithHeaders(t *testing.T, path string, body any, headers map[string]string) *Response {
	t.Helper()
	return c.request(t, http.MethodPost, path, body, headers)
}

func (c *Client) request(t *testing.T, method, path string, body any, headers map[string]string) *Response {
	t.Helper()

	var reqBody io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal request body: %v", err)
		}
		reqBody = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(context.Background(), method, c.BaseURL+path, reqBody)
	if err != nil {
		t.Fatalf("failed to create request: %v", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	return c.do(t, req)
}

func (c *Client) do(t *testing.T, req *http.Request) *Response {
	t.Helper()

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read response body: %v", err)
	}

	return &Response{
		Response: resp,
		Body:     respBody,
	}
}

// WaitForHealthy polls the health endpoint until the service is ready.
func (c *Client) WaitForHealthy(t *testing.T, maxWait time.Duration) {
	t.Helper()

	deadline := time.Now().Add(maxWait)
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	for time.Now().Before(deadline) {
		resp, err := c.HTTPClient.Get(c.BaseURL + "/health")
		if resp != nil {
			resp.Body.Close()
		}
		if err == nil && resp.StatusCode == http.StatusOK {
			return
		}
		<-ticker.C
	}

	t.Fatalf("service did not become healthy within %v", maxWait)
}

func AssertStatusCode(t *testing.T, resp *Response, expected int) {
	t.Helper()
	if resp.StatusCode != expected {
		t.Fatalf("expected status %d, got %d. Body: %s", expected, resp.StatusCode, string(resp.Body))
	}
}

func AssertErrorCode(t *testing.T, resp *Response, expected string) {
	t.Helper()
	var errResp struct {
		Code string `json:"code"`
	}
	if err := resp.DecodeJSON(&errResp); err != nil {
		t.Fatalf("failed to decode error response: %v. Body: %s", err, string(resp.Body))
	}
	if errResp.Code != expected {
		t.Fatalf("expected error code %q, got %q. Body: %s", expected, errResp.Code, string(resp.Body))
	}
}

func AssertContains(t *testing.T, resp *Response, substr string) {
	t.Helper()
	if !strings.Contains(string(resp.Body), substr) {
		t.Fatalf("response body does not contain %q. Body: %s", substr, string(resp.Body))
	}
}

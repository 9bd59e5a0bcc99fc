// Package client implements the HTTP API client fgctl uses to talk to a
// filegate server.
package client

import (
	"bytes"
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"strings"
	"time"
)

// APIError mirrors the server's standardized error body.
type APIError struct {
	Message string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s (%s)", e.Message, e.Code)
	}
	return e.Message
}

type Client struct {
	baseURL   *url.URL
	token     string
	http      *http.Client
	userAgent string
}

type Option func(*Client) error

func New(opts ...Option) (*Client, error) {
	c := &Client{
		http:      &http.Client{Timeout: 30 * time.Second},
		userAgent: "fgctl",
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	if c.baseURL == nil {
		return nil, errors.New("server is required")
	}
	// Redirects carry the artifact location; the client inspects them
	// instead of following.
	c.http.CheckRedirect = func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}
	return c, nil
}

func WithServer(server string) Option {
	return func(c *Client) error {
		if server == "" {
			return errors.New("server is required")
		}
		parsed, err := url.Parse(server)
		if err != nil {
			return fmt.Errorf("invalid server: %w", err)
		}
		c.baseURL = parsed
		return nil
	}
}

func WithToken(token string) Option {
	return func(c *Client) error {
		c.token = token
		return nil
	}
}

func WithUserAgent(agent string) Option {
	return func(c *Client) error {
		c.userAgent = agent
		return nil
	}
}

func WithTLSConfig(caFile string, insecureSkipTLSVerify bool) Option {
	return func(c *Client) error {
		tlsConfig := &tls.Config{MinVersion: tls.VersionTLS12, InsecureSkipVerify: insecureSkipTLSVerify}
		if caFile != "" {
			data, err := os.ReadFile(caFile)
			if err != nil {
				return fmt.Errorf("failed to read CA file: %w", err)
			}
			pool := x509.NewCertPool()
			if ok := pool.AppendCertsFromPEM(data); !ok {
				return errors.New("failed to parse CA file")
			}
			tlsConfig.RootCAs = pool
		}
		transport := &http.Transport{TLSClientConfig: tlsConfig}
		c.http = &http.Client{Transport: transport, Timeout: 30 * time.Second}
		return nil
	}
}

// SetToken replaces the bearer token used on subsequent requests.
func (c *Client) SetToken(token string) {
	c.token = token
}

func (c *Client) do(ctx context.Context, method, endpoint string, body any, out any) (*http.Response, error) {
	fullURL := *c.baseURL
	fullURL.Path = path.Join(fullURL.Path, endpoint)

	var payload io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		payload = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL.String(), payload)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, err
	}

	if resp.StatusCode >= http.StatusBadRequest {
		apiErr := &APIError{}
		if jsonErr := json.Unmarshal(raw, apiErr); jsonErr != nil || apiErr.Message == "" {
			apiErr.Message = fmt.Sprintf("unexpected status %d", resp.StatusCode)
		}
		return resp, apiErr
	}

	if out != nil && len(raw) > 0 {
		if err := json.Unmarshal(raw, out); err != nil {
			return resp, fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return resp, nil
}

// LoginResponse is the token grant returned by the server.
type LoginResponse struct {
	Token     string `json:"token"`
	ExpiresIn int    `json:"expiresIn"`
	TokenType string `json:"tokenType"`
}

// Login exchanges client credentials for a bearer token and arms the
// client with it.
func (c *Client) Login(ctx context.Context, clientID, clientSecret string) (*LoginResponse, error) {
	var resp LoginResponse
	_, err := c.do(ctx, http.MethodPost, "api/auth/login", map[string]string{
		"clientId":     clientID,
		"clientSecret": clientSecret,
	}, &resp)
	if err != nil {
		return nil, err
	}
	c.token = resp.Token
	return &resp, nil
}

// ArtifactURL resolves the redirect target of the download endpoint
// without downloading the artifact.
func (c *Client) ArtifactURL(ctx context.Context) (string, error) {
	resp, err := c.do(ctx, http.MethodGet, "api/download/artifact", nil, nil)
	if err != nil {
		return "", err
	}
	location := resp.Header.Get("Location")
	if location == "" {
		return "", errors.New("server did not return a redirect")
	}
	return location, nil
}

// FileInfo describes the gated artifact.
type FileInfo struct {
	URL       string `json:"url"`
	FileName  string `json:"fileName"`
	Source    string `json:"source"`
	Timestamp string `json:"timestamp"`
}

func (c *Client) FileInfo(ctx context.Context) (*FileInfo, error) {
	var info FileInfo
	if _, err := c.do(ctx, http.MethodGet, "api/files/info", nil, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// FileEntry is one stored object as reported by the server.
type FileEntry struct {
	Name    string    `json:"name"`
	Size    int64     `json:"size"`
	Created time.Time `json:"created"`
	Updated time.Time `json:"updated"`
}

func (c *Client) ListFiles(ctx context.Context) ([]FileEntry, error) {
	var resp struct {
		Files []FileEntry `json:"files"`
	}
	if _, err := c.do(ctx, http.MethodGet, "api/files/list", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Files, nil
}

// UploadResult reports a completed upload.
type UploadResult struct {
	FileName   string `json:"fileName"`
	FileSize   int    `json:"fileSize"`
	UploadedAt string `json:"uploadedAt"`
}

// Upload sends raw file bytes under the given name.
func (c *Client) Upload(ctx context.Context, fileName string, data []byte) (*UploadResult, error) {
	if strings.TrimSpace(fileName) == "" {
		return nil, errors.New("file name is required")
	}
	var result UploadResult
	_, err := c.do(ctx, http.MethodPost, "api/files/upload", map[string]string{
		"fileName": fileName,
		"fileData": base64.StdEncoding.EncodeToString(data),
	}, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// Health reports the server health document.
func (c *Client) Health(ctx context.Context) (map[string]any, error) {
	var doc map[string]any
	if _, err := c.do(ctx, http.MethodGet, "health", nil, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

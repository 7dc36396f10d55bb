// Package render calls an external headless-rendering backend to turn a
// preview URL into PDF bytes or a screenshot.
package render

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Viewport is the browser viewport used for screenshots.
type Viewport struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// DefaultViewport matches the preview layout of the web client.
var DefaultViewport = Viewport{Width: 794, Height: 1123}

// ExternalRenderError is a non-success response or timeout from the
// render backend. Status is zero for transport-level failures. Handlers
// surface it as a generic internal error; the original status and
// message are preserved for logs.
type ExternalRenderError struct {
	Status  int
	Message string
}

// Error implements the error interface.
func (e *ExternalRenderError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("render backend unreachable: %s", e.Message)
	}
	return fmt.Sprintf("render backend returned status %d: %s", e.Status, e.Message)
}

// Client renders URLs through the external backend.
type Client interface {
	// RenderPDF produces a paginated document for the target URL.
	RenderPDF(ctx context.Context, url string, pageFormat string) ([]byte, error)

	// RenderScreenshot produces a webp raster image for the target URL.
	RenderScreenshot(ctx context.Context, url string, viewport Viewport) ([]byte, error)
}

// Config holds the render backend settings.
type Config struct {
	// BaseURL is the endpoint of the rendering backend.
	BaseURL string
	// Username and Password are optional basic-auth credentials.
	Username string
	Password string
	// Timeout bounds every render call. A timed-out render is treated
	// identically to a backend error, never left pending.
	Timeout time.Duration
}

// client implements Client against a browserless-style HTTP API.
type client struct {
	cfg        Config
	httpClient *http.Client
}

// NewClient creates a render client with a bounded timeout.
func NewClient(cfg Config) Client {
	return &client{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// pdfRequest is the render backend payload for PDF generation.
type pdfRequest struct {
	URL     string     `json:"url"`
	Options pdfOptions `json:"options"`
}

type pdfOptions struct {
	Format          string `json:"format"`
	PrintBackground bool   `json:"printBackground"`
}

// screenshotRequest is the render backend payload for screenshots.
type screenshotRequest struct {
	URL      string            `json:"url"`
	Options  screenshotOptions `json:"options"`
	Viewport Viewport          `json:"viewport"`
}

type screenshotOptions struct {
	Type string `json:"type"`
}

// RenderPDF issues a render request for a paginated document. There is
// no automatic retry; a caller that needs resilience retries explicitly.
func (c *client) RenderPDF(ctx context.Context, url string, pageFormat string) ([]byte, error) {
	payload := pdfRequest{
		URL: url,
		Options: pdfOptions{
			Format:          pageFormat,
			PrintBackground: true,
		},
	}
	return c.post(ctx, "/pdf", payload)
}

// RenderScreenshot issues a render request for a webp raster image.
func (c *client) RenderScreenshot(ctx context.Context, url string, viewport Viewport) ([]byte, error) {
	payload := screenshotRequest{
		URL:      url,
		Options:  screenshotOptions{Type: "webp"},
		Viewport: viewport,
	}
	return c.post(ctx, "/screenshot", payload)
}

// post sends a JSON render request and translates every failure mode
// into an ExternalRenderError.
func (c *client) post(ctx context.Context, path string, payload any) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, &ExternalRenderError{Message: fmt.Sprintf("failed to encode render request: %v", err)}
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, &ExternalRenderError{Message: fmt.Sprintf("failed to build render request: %v", err)}
	}
	req.Header.Set("Content-Type", "application/json")
	if c.cfg.Username != "" {
		req.SetBasicAuth(c.cfg.Username, c.cfg.Password)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &ExternalRenderError{Message: err.Error()}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &ExternalRenderError{Status: resp.StatusCode, Message: err.Error()}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &ExternalRenderError{Status: resp.StatusCode, Message: string(data)}
	}

	return data, nil
}

package render

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_RenderPDF(t *testing.T) {
	t.Run("Success_SendsFormatAndReturnsBytes", func(t *testing.T) {
		var captured pdfRequest
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/pdf", r.URL.Path)
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
			require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

			w.Header().Set("Content-Type", "application/pdf")
			_, _ = w.Write([]byte("%PDF-1.4 content"))
		}))
		defer server.Close()

		client := NewClient(Config{BaseURL: server.URL, Timeout: 5 * time.Second})

		data, err := client.RenderPDF(context.Background(), "http://app/v1/printer/r1/preview?token=abc", "A4")
		require.NoError(t, err)
		assert.Equal(t, []byte("%PDF-1.4 content"), data)
		assert.Equal(t, "http://app/v1/printer/r1/preview?token=abc", captured.URL)
		assert.Equal(t, "A4", captured.Options.Format)
		assert.True(t, captured.Options.PrintBackground)
	})

	t.Run("Success_BasicAuthForwarded", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, pass, ok := r.BasicAuth()
			assert.True(t, ok)
			assert.Equal(t, "chrome", user)
			assert.Equal(t, "chromepass", pass)
			_, _ = w.Write([]byte("ok"))
		}))
		defer server.Close()

		client := NewClient(Config{
			BaseURL:  server.URL,
			Username: "chrome",
			Password: "chromepass",
			Timeout:  5 * time.Second,
		})

		_, err := client.RenderPDF(context.Background(), "http://app/preview", "A4")
		require.NoError(t, err)
	})

	t.Run("Failure_BackendErrorPreservesStatusAndMessage", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "browser pool exhausted", http.StatusServiceUnavailable)
		}))
		defer server.Close()

		client := NewClient(Config{BaseURL: server.URL, Timeout: 5 * time.Second})

		_, err := client.RenderPDF(context.Background(), "http://app/preview", "A4")
		require.Error(t, err)

		var renderErr *ExternalRenderError
		require.ErrorAs(t, err, &renderErr)
		assert.Equal(t, http.StatusServiceUnavailable, renderErr.Status)
		assert.Contains(t, renderErr.Message, "browser pool exhausted")
	})

	t.Run("Failure_TimeoutBecomesExternalRenderError", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(200 * time.Millisecond)
		}))
		defer server.Close()

		client := NewClient(Config{BaseURL: server.URL, Timeout: 20 * time.Millisecond})

		_, err := client.RenderPDF(context.Background(), "http://app/preview", "A4")
		require.Error(t, err)

		var renderErr *ExternalRenderError
		require.ErrorAs(t, err, &renderErr)
		assert.Zero(t, renderErr.Status)
	})
}

func TestClient_RenderScreenshot(t *testing.T) {
	t.Run("Success_SendsViewportAndWebpType", func(t *testing.T) {
		var captured screenshotRequest
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/screenshot", r.URL.Path)
			require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

			w.Header().Set("Content-Type", "image/webp")
			_, _ = w.Write([]byte("webp-bytes"))
		}))
		defer server.Close()

		client := NewClient(Config{BaseURL: server.URL, Timeout: 5 * time.Second})

		data, err := client.RenderScreenshot(context.Background(), "http://app/preview", DefaultViewport)
		require.NoError(t, err)
		assert.Equal(t, []byte("webp-bytes"), data)
		assert.Equal(t, "webp", captured.Options.Type)
		assert.Equal(t, DefaultViewport, captured.Viewport)
	})

	t.Run("Failure_ContextCancellation", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(200 * time.Millisecond)
		}))
		defer server.Close()

		client := NewClient(Config{BaseURL: server.URL, Timeout: 5 * time.Second})

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := client.RenderScreenshot(ctx, "http://app/preview", DefaultViewport)
		var renderErr *ExternalRenderError
		require.ErrorAs(t, err, &renderErr)
	})
}

func TestExternalRenderError_Error(t *testing.T) {
	assert.Contains(t, (&ExternalRenderError{Status: 500, Message: "boom"}).Error(), "500")
	assert.Contains(t, (&ExternalRenderError{Message: "dial refused"}).Error(), "unreachable")
}

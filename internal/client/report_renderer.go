package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"rti-service/internal/config"
)

// ReportRenderer talks to the external document-rendering service. The
// service receives the summary series and produces the paginated PDF;
// layout is entirely on its side.
type ReportRenderer struct {
	baseURL    string
	httpClient *http.Client
}

func NewReportRenderer(cfg *config.Config) *ReportRenderer {
	return &ReportRenderer{
		baseURL: cfg.ExternalServices.ReportRendererURL,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

func (c *ReportRenderer) Configured() bool {
	return c.baseURL != ""
}

// Render posts the summary payload and returns the rendered PDF bytes.
// Transient network failures are retried with backoff.
func (c *ReportRenderer) Render(ctx context.Context, summary interface{}) ([]byte, error) {
	if c.baseURL == "" {
		return nil, fmt.Errorf("report renderer URL is not configured")
	}

	payload, err := json.Marshal(summary)
	if err != nil {
		return nil, fmt.Errorf("failed to encode summary: %w", err)
	}

	url := c.baseURL + "/internal/reports/render"

	var resp *http.Response
	var lastErr error
	maxRetries := 3
	for attempt := 0; attempt < maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")

		resp, lastErr = c.httpClient.Do(req)
		if lastErr == nil {
			break
		}
		if attempt == maxRetries-1 {
			return nil, fmt.Errorf("failed to execute request after %d attempts: %w", maxRetries, lastErr)
		}
		time.Sleep(time.Duration(attempt+1) * 500 * time.Millisecond)
	}
	if resp == nil {
		return nil, fmt.Errorf("failed to execute request: %w", lastErr)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("report renderer returned status %d: %s", resp.StatusCode, string(body))
	}

	return body, nil
}

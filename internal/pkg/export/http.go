package export

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

const maxResponseBytes = 1 << 20

// HTTPError is returned when the export endpoint answers with a non-2xx status
type HTTPError struct {
	StatusCode int
	Message    string
}

func (e *HTTPError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("export endpoint returned %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("export endpoint returned %d: %s", e.StatusCode, http.StatusText(e.StatusCode))
}

// HTTPExporter posts export requests to an external endpoint
type HTTPExporter struct {
	url        string
	apiKey     string
	httpClient *http.Client
	logger     zerolog.Logger
}

// NewHTTPExporter creates an exporter for the endpoint at url
func NewHTTPExporter(url, apiKey string, timeout time.Duration, logger zerolog.Logger) *HTTPExporter {
	return &HTTPExporter{
		url:        url,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

type responseBody struct {
	ApplicationCount *int   `json:"applicationCount"`
	SpreadsheetURL   string `json:"spreadsheetUrl"`
	Error            string `json:"error"`
}

// Export sends the request and decodes {applicationCount, spreadsheetUrl}.
// A non-2xx status or an {error} payload is a failure.
func (e *HTTPExporter) Export(ctx context.Context, req Request) (*Result, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal export request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, e.url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build export request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	if e.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+e.apiKey)
	}

	resp, err := e.httpClient.Do(httpReq)
	if err != nil {
		e.logger.Error().Err(err).Str("eventID", req.EventID.String()).Msg("Export request failed")
		return nil, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var decoded responseBody
	decodeErr := json.Unmarshal(body, &decoded)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		httpErr := &HTTPError{StatusCode: resp.StatusCode}
		if decodeErr == nil {
			httpErr.Message = decoded.Error
		}
		e.logger.Warn().Int("status", resp.StatusCode).Str("eventID", req.EventID.String()).Msg("Export endpoint rejected request")
		return nil, httpErr
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("decode export response: %w", decodeErr)
	}
	if decoded.Error != "" {
		return nil, fmt.Errorf("export failed: %s", decoded.Error)
	}
	if decoded.ApplicationCount == nil {
		return nil, fmt.Errorf("export response is missing applicationCount")
	}

	e.logger.Info().
		Str("eventID", req.EventID.String()).
		Int("applicationCount", *decoded.ApplicationCount).
		Msg("Export completed")

	return &Result{
		ApplicationCount: *decoded.ApplicationCount,
		SpreadsheetURL:   decoded.SpreadsheetURL,
	}, nil
}

// Package cocapi is the client of the external inventory system that issues
// certificate-of-conformance documents for received raw material.
package cocapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	appcoc "github.com/solarqc/coc-backend/internal/application/coc"
	"github.com/solarqc/coc-backend/internal/domain/shared"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

const (
	// DefaultTimeout bounds a single feed request
	DefaultTimeout = 30 * time.Second
	// DefaultMaxResponseBytes limits the response body to prevent memory exhaustion
	DefaultMaxResponseBytes = 32 << 20
)

var (
	// ErrFeedUnavailable wraps transport failures, non-2xx responses and
	// undecodable payloads
	ErrFeedUnavailable = fmt.Errorf("cocapi: %w", shared.ErrFeedUnavailable)
	// ErrFeedRejected is returned when the feed answers with status=false
	ErrFeedRejected = fmt.Errorf("cocapi: feed rejected the request: %w", shared.ErrFeedUnavailable)
	// ErrNotConfigured is returned when no base URL is set
	ErrNotConfigured = errors.New("cocapi: base url is not configured")
)

// Config configures the feed client
type Config struct {
	BaseURL          string
	Timeout          time.Duration
	MaxResponseBytes int64
}

// Client fetches COC lot records over HTTP
type Client struct {
	cfg        Config
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a feed client. Outbound requests carry trace context.
func NewClient(cfg Config, logger *zap.Logger) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.MaxResponseBytes <= 0 {
		cfg.MaxResponseBytes = DefaultMaxResponseBytes
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		logger: logger,
	}
}

// FetchLots returns the lot records invoiced between from and to, inclusive
func (c *Client) FetchLots(ctx context.Context, from, to time.Time) ([]appcoc.ExternalLot, error) {
	if c.cfg.BaseURL == "" {
		return nil, ErrNotConfigured
	}

	body, err := json.Marshal(fetchRequest{
		From: from.Format(appcoc.DateLayout),
		To:   to.Format(appcoc.DateLayout),
	})
	if err != nil {
		return nil, fmt.Errorf("cocapi: failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("cocapi: failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFeedUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, c.cfg.MaxResponseBytes+1))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response: %v", ErrFeedUnavailable, err)
	}
	if int64(len(raw)) > c.cfg.MaxResponseBytes {
		return nil, fmt.Errorf("%w: response exceeds %d bytes", ErrFeedUnavailable, c.cfg.MaxResponseBytes)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: HTTP %d", ErrFeedUnavailable, resp.StatusCode)
	}

	var payload fetchResponse
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("%w: invalid payload: %v", ErrFeedUnavailable, err)
	}
	if !payload.Status {
		return nil, ErrFeedRejected
	}

	c.logger.Debug("COC feed fetched",
		zap.String("from", from.Format(appcoc.DateLayout)),
		zap.String("to", to.Format(appcoc.DateLayout)),
		zap.Int("records", len(payload.Data)),
		zap.Int("bytes", len(raw)),
		zap.Duration("elapsed", time.Since(start)),
	)

	lots := make([]appcoc.ExternalLot, 0, len(payload.Data))
	for _, r := range payload.Data {
		lots = append(lots, r.toExternal())
	}
	return lots, nil
}

func (r lotRecord) toExternal() appcoc.ExternalLot {
	return appcoc.ExternalLot{
		ExternalID:     string(r.ID),
		CompanyName:    string(r.StoreName),
		MaterialName:   string(r.MaterialName),
		Brand:          string(r.Brand),
		ProductType:    string(r.ProductType),
		LotBatchNo:     string(r.LotBatchNo),
		InvoiceNo:      string(r.InvoiceNo),
		InvoiceQty:     string(r.InvoiceQty),
		COCQty:         string(r.COCQty),
		InvoiceDate:    string(r.InvoiceDate),
		EntryDate:      string(r.EntryDate),
		Username:       string(r.Username),
		COCDocumentURL: string(r.COCDocumentURL),
		IQCDocumentURL: string(r.IQCDocumentURL),
	}
}

// Ensure Client implements LotFeed
var _ appcoc.LotFeed = (*Client)(nil)

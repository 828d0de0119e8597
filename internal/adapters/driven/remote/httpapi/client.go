// Package httpapi implements the remote validation client over JSON HTTP.
package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/refstack-labs/refcheck/internal/core/domain"
	"github.com/refstack-labs/refcheck/internal/core/ports/driven"
)

// Ensure Client implements the interface.
var _ driven.RemoteValidationClient = (*Client)(nil)

const (
	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 30 * time.Second

	// checkAttachmentPath is the single-attachment verification endpoint.
	checkAttachmentPath = "/attachments/check"

	// checkBatchPath is the batched item verification endpoint.
	checkBatchPath = "/items/check-batch"
)

// RateLimitConfig holds rate limiting configuration for the service.
type RateLimitConfig struct {
	// RequestsPerSecond is the sustained rate limit.
	RequestsPerSecond float64
	// BurstSize is the maximum burst size.
	BurstSize int
}

// DefaultRateLimit is a conservative default, well below the service's
// documented quota.
var DefaultRateLimit = RateLimitConfig{RequestsPerSecond: 5.0, BurstSize: 10}

// Config holds the remote client configuration.
type Config struct {
	// BaseURL is the service endpoint, without trailing slash.
	BaseURL string

	// APIKey is sent as a bearer token when non-empty.
	APIKey string

	// RateLimit overrides DefaultRateLimit when BurstSize is non-zero.
	RateLimit RateLimitConfig

	// HTTPClient overrides the default client (useful for tests).
	HTTPClient *http.Client
}

// Client talks to the remote validation service over JSON HTTP.
// Transport failures and non-OK statuses are reported as errors wrapping
// domain.ErrRemoteUnavailable so the engine never caches them as
// authoritative.
type Client struct {
	baseURL string
	apiKey  string
	httpc   *http.Client
	limiter *rate.Limiter
}

// NewClient creates a new remote validation client.
func NewClient(cfg Config) *Client {
	limit := cfg.RateLimit
	if limit.BurstSize == 0 {
		limit = DefaultRateLimit
	}

	httpc := cfg.HTTPClient
	if httpc == nil {
		httpc = &http.Client{Timeout: DefaultTimeout}
	}

	return &Client{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		httpc:   httpc,
		limiter: rate.NewLimiter(rate.Limit(limit.RequestsPerSecond), limit.BurstSize),
	}
}

// attachmentCheckRequest is the wire form of a single-attachment check.
type attachmentCheckRequest struct {
	CollectionID     int64  `json:"collectionId"`
	Key              string `json:"key"`
	ContentHash      string `json:"contentHash"`
	AddedAt          string `json:"addedAt"`
	RequestUploadURL bool   `json:"requestUploadUrl"`
}

// attachmentCheckResponse is the wire form of a single-attachment verdict.
type attachmentCheckResponse struct {
	Processed bool   `json:"processed"`
	Details   string `json:"details,omitempty"`
}

// batchCheckRequest is the wire form of a batched item check.
type batchCheckRequest struct {
	Parent      batchParent      `json:"parent"`
	Attachments []batchCandidate `json:"attachments"`
}

type batchParent struct {
	CollectionID int64  `json:"collectionId"`
	Key          string `json:"key"`
}

type batchCandidate struct {
	CollectionID int64  `json:"collectionId"`
	Key          string `json:"key"`
	ContentHash  string `json:"contentHash"`
}

// batchCheckResponse is the wire form of a batched verdict.
type batchCheckResponse struct {
	Parent struct {
		Exists  bool   `json:"exists"`
		Details string `json:"details,omitempty"`
	} `json:"parent"`
	Attachments []struct {
		CollectionID int64  `json:"collectionId"`
		Key          string `json:"key"`
		Processed    bool   `json:"processed"`
		Details      string `json:"details,omitempty"`
	} `json:"attachments"`
}

// CheckAttachment verifies a single attachment remotely.
func (c *Client) CheckAttachment(ctx context.Context, check driven.AttachmentCheck) (*driven.AttachmentStatus, error) {
	body := attachmentCheckRequest{
		CollectionID:     check.CollectionID,
		Key:              check.Key,
		ContentHash:      check.ContentHash,
		AddedAt:          check.AddedAt.UTC().Format(time.RFC3339),
		RequestUploadURL: check.RequestUploadURL,
	}

	var resp attachmentCheckResponse
	if err := c.post(ctx, checkAttachmentPath, body, &resp); err != nil {
		return nil, err
	}

	return &driven.AttachmentStatus{
		CollectionID: check.CollectionID,
		Key:          check.Key,
		Processed:    resp.Processed,
		Details:      resp.Details,
	}, nil
}

// CheckRegularItemBatch verifies all candidate attachments of one parent in
// a single round trip.
func (c *Client) CheckRegularItemBatch(ctx context.Context, parent domain.Subject, candidates []driven.BatchCandidate) (*driven.BatchResult, error) {
	parentID := parent.ID()
	body := batchCheckRequest{
		Parent:      batchParent{CollectionID: parentID.CollectionID, Key: parentID.Key},
		Attachments: make([]batchCandidate, 0, len(candidates)),
	}
	for _, candidate := range candidates {
		id := candidate.Subject.ID()
		body.Attachments = append(body.Attachments, batchCandidate{
			CollectionID: id.CollectionID,
			Key:          id.Key,
			ContentHash:  candidate.ContentHash,
		})
	}

	var resp batchCheckResponse
	if err := c.post(ctx, checkBatchPath, body, &resp); err != nil {
		return nil, err
	}

	result := &driven.BatchResult{
		ParentExists:  resp.Parent.Exists,
		ParentDetails: resp.Parent.Details,
		Attachments:   make([]driven.AttachmentStatus, 0, len(resp.Attachments)),
	}
	for _, status := range resp.Attachments {
		result.Attachments = append(result.Attachments, driven.AttachmentStatus{
			CollectionID: status.CollectionID,
			Key:          status.Key,
			Processed:    status.Processed,
			Details:      status.Details,
		})
	}
	return result, nil
}

// post sends a JSON request and decodes the JSON response.
func (c *Client) post(ctx context.Context, path string, body, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrRemoteUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: unexpected status %d", domain.ErrRemoteUnavailable, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode response: %v", domain.ErrRemoteUnavailable, err)
	}
	return nil
}

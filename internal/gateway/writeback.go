package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"

	apperrors "lifeos-proxy/internal/errors"
)

// UpdateRequest is the body posted to the write-back endpoint.
type UpdateRequest struct {
	TaskKey string `json:"taskKey"`
	Status  string `json:"status"`
}

// RelayedResponse is the write-back endpoint's answer, passed to callers unchanged.
type RelayedResponse struct {
	StatusCode int
	Body       []byte
}

// WriteBack forwards status updates to the remote write-back script.
type WriteBack struct {
	client *http.Client
	url    string
}

// NewWriteBack creates a forwarder posting to url.
func NewWriteBack(client *http.Client, url string) *WriteBack {
	if client == nil {
		client = http.DefaultClient
	}
	return &WriteBack{client: client, url: url}
}

// Forward posts update as JSON and returns the status and raw body of the
// answer. Non-2xx answers are relayed, not treated as errors.
func (w *WriteBack) Forward(ctx context.Context, update UpdateRequest) (*RelayedResponse, error) {
	const operation = "forward status update"

	payload, err := json.Marshal(update)
	if err != nil {
		return nil, apperrors.NewInternalError("encoding status update", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(payload))
	if err != nil {
		return nil, apperrors.NewInternalError("building status update request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		return nil, transportError(operation, w.client.Timeout, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, transportError(operation, w.client.Timeout, err)
	}

	return &RelayedResponse{StatusCode: resp.StatusCode, Body: body}, nil
}

// Forwarder relays status updates.
type Forwarder interface {
	Forward(ctx context.Context, update UpdateRequest) (*RelayedResponse, error)
}

// InvalidatingForwarder drops cached sheets after the write-back endpoint
// accepts an update, so the next read sees the new status.
type InvalidatingForwarder struct {
	next   Forwarder
	cache  *CachedSource
	sheets []string
}

// NewInvalidatingForwarder wraps next. sheets are invalidated on any 2xx answer.
func NewInvalidatingForwarder(next Forwarder, cache *CachedSource, sheets ...string) *InvalidatingForwarder {
	return &InvalidatingForwarder{next: next, cache: cache, sheets: sheets}
}

// Forward implements Forwarder.
func (f *InvalidatingForwarder) Forward(ctx context.Context, update UpdateRequest) (*RelayedResponse, error) {
	resp, err := f.next.Forward(ctx, update)
	if err != nil || resp.StatusCode < 200 || resp.StatusCode > 299 {
		return resp, err
	}

	for _, sheet := range f.sheets {
		if err := f.cache.Invalidate(ctx, sheet); err != nil {
			f.cache.logger.Warn("cache invalidation failed", "sheet", sheet, "err", err)
		}
	}
	return resp, nil
}

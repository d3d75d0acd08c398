package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"lifeos-proxy/internal/domain"
	apperrors "lifeos-proxy/internal/errors"
	"lifeos-proxy/internal/logging"
)

const (
	gvizMarker   = "/*O_o*/"
	gvizCallback = "google.visualization.Query.setResponse("
	gvizTrailer  = ");"
)

// maxBodyBytes bounds how much of an upstream response is read.
const maxBodyBytes = 16 << 20

// DecodeGViz strips the callback wrapper from a visualization query response
// and decodes the envelope inside it.
func DecodeGViz(body []byte) (*domain.Response, error) {
	idx := bytes.Index(body, []byte(gvizMarker))
	if idx < 0 {
		return nil, apperrors.NewUpstreamFormatError("invalid response from sheet source: missing "+gvizMarker+" wrapper", nil)
	}

	payload := bytes.TrimSpace(body[idx+len(gvizMarker):])
	payload = bytes.TrimPrefix(payload, []byte(gvizCallback))
	payload = bytes.TrimSpace(payload)
	payload = bytes.TrimSuffix(payload, []byte(gvizTrailer))
	payload = bytes.TrimSpace(payload)

	var resp domain.Response
	if err := json.Unmarshal(payload, &resp); err != nil {
		return nil, apperrors.NewUpstreamFormatError("failed to parse sheet source response", err)
	}

	if resp.Failed() {
		return nil, apperrors.NewUpstreamFormatError("sheet source reported an error: "+resp.ErrorMessages(), nil).
			WithContext("reqId", resp.ReqID)
	}
	if resp.Table == nil {
		return nil, apperrors.NewUpstreamFormatError("sheet source response has no table", nil)
	}

	return &resp, nil
}

// GVizSource reads sheets through the public visualization query endpoint.
type GVizSource struct {
	client *http.Client
	urlFor func(sheet string) string
	now    func() time.Time
}

// NewGVizSource creates a source that GETs urlFor(sheet) with client.
func NewGVizSource(client *http.Client, urlFor func(sheet string) string) *GVizSource {
	if client == nil {
		client = http.DefaultClient
	}
	return &GVizSource{client: client, urlFor: urlFor, now: time.Now}
}

// FetchTable implements TableSource.
func (s *GVizSource) FetchTable(ctx context.Context, sheet string) (*Snapshot, error) {
	operation := fmt.Sprintf("read sheet %s", sheet)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.urlFor(sheet), nil)
	if err != nil {
		return nil, apperrors.NewInternalError("building sheet request", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, transportError(operation, s.client.Timeout, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, apperrors.NewUpstreamStatusError(operation, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, transportError(operation, s.client.Timeout, err)
	}

	decoded, err := DecodeGViz(body)
	if err != nil {
		return nil, err
	}

	logging.Debugf("read %d rows from sheet %s", len(decoded.Table.Rows), sheet)

	return &Snapshot{Sheet: sheet, Table: decoded.Table, FetchedAt: s.now()}, nil
}

// transportError classifies a failed outbound call.
func transportError(operation string, timeout time.Duration, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || isTimeout(err) {
		appErr := apperrors.NewTimeoutError(operation, timeout.String())
		appErr.Cause = err
		return appErr
	}
	return apperrors.NewUpstreamUnavailableError(operation, err)
}

func isTimeout(err error) bool {
	var t interface{ Timeout() bool }
	return errors.As(err, &t) && t.Timeout()
}

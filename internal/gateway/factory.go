package gateway

import (
	"context"
	"fmt"
	"net/http"

	"lifeos-proxy/internal/config"
	"lifeos-proxy/internal/repository/sqlite"

	"github.com/charmbracelet/log"
)

// NewHTTPClient returns the client used for outbound calls.
func NewHTTPClient(cfg *config.Config) *http.Client {
	return &http.Client{Timeout: cfg.Upstream.Timeout}
}

// NewTableSource builds the configured sheet source. When store is non-nil
// the source is wrapped in a read-through cache.
func NewTableSource(ctx context.Context, cfg *config.Config, client *http.Client, store sqlite.Repository, logger *log.Logger) (TableSource, error) {
	var source TableSource
	switch cfg.Source.Kind {
	case config.SourceGViz:
		source = NewGVizSource(client, cfg.GVizURL)
	case config.SourceSheets:
		srv, err := NewSheetsService(ctx, SheetsCredentials{
			APIKey:          cfg.Source.APIKey,
			CredentialsFile: cfg.Source.CredentialsFile,
		})
		if err != nil {
			return nil, err
		}
		source = NewSheetsSource(srv, cfg.Sheet.SpreadsheetID, 1, cfg.Upstream.Timeout)
	default:
		return nil, fmt.Errorf("unknown source kind %q", cfg.Source.Kind)
	}

	if store == nil {
		return source, nil
	}
	return NewCachedSource(source, store, cfg.Cache.TTL, logger).WithFetchTimeout(cfg.Upstream.Timeout), nil
}

package gateway

import (
	"context"
	"errors"
	"fmt"
	"time"

	"lifeos-proxy/internal/domain"
	apperrors "lifeos-proxy/internal/errors"

	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// sheetsFields limits the grid data returned to what rows need.
const sheetsFields = "sheets(data(rowData(values(formattedValue,effectiveValue))))"

// SheetsCredentials selects how the Sheets API client authenticates.
type SheetsCredentials struct {
	APIKey          string
	CredentialsFile string
}

// NewSheetsService builds a Sheets API client. Extra options are applied last.
func NewSheetsService(ctx context.Context, creds SheetsCredentials, opts ...option.ClientOption) (*sheets.Service, error) {
	var all []option.ClientOption
	switch {
	case creds.CredentialsFile != "":
		all = append(all, option.WithCredentialsFile(creds.CredentialsFile))
	case creds.APIKey != "":
		all = append(all, option.WithAPIKey(creds.APIKey))
	}
	all = append(all, opts...)

	srv, err := sheets.NewService(ctx, all...)
	if err != nil {
		return nil, fmt.Errorf("unable to create sheets client: %w", err)
	}
	return srv, nil
}

// SheetsSource reads sheets through the Google Sheets API and converts the
// grid into the same table shape the visualization query returns.
type SheetsSource struct {
	srv           *sheets.Service
	spreadsheetID string
	headerRows    int
	timeout       time.Duration
	now           func() time.Time
}

// NewSheetsSource creates a source over srv. The first headerRows rows of
// each sheet are skipped. A positive timeout bounds each read.
func NewSheetsSource(srv *sheets.Service, spreadsheetID string, headerRows int, timeout time.Duration) *SheetsSource {
	return &SheetsSource{srv: srv, spreadsheetID: spreadsheetID, headerRows: headerRows, timeout: timeout, now: time.Now}
}

// FetchTable implements TableSource.
func (s *SheetsSource) FetchTable(ctx context.Context, sheet string) (*Snapshot, error) {
	operation := fmt.Sprintf("read sheet %s", sheet)

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	spreadsheet, err := s.srv.Spreadsheets.Get(s.spreadsheetID).
		Ranges(sheet).
		IncludeGridData(true).
		Fields(sheetsFields).
		Context(ctx).
		Do()
	if err != nil {
		var apiErr *googleapi.Error
		if errors.As(err, &apiErr) {
			return nil, apperrors.NewUpstreamStatusError(operation, apiErr.Code)
		}
		return nil, transportError(operation, s.timeout, err)
	}

	if len(spreadsheet.Sheets) == 0 {
		return nil, apperrors.NewUpstreamFormatError("sheet source response has no sheet named "+sheet, nil)
	}

	table := &domain.Table{}
	skipped := 0
	for _, grid := range spreadsheet.Sheets[0].Data {
		for _, rowData := range grid.RowData {
			if skipped < s.headerRows {
				skipped++
				continue
			}
			table.Rows = append(table.Rows, convertRow(rowData))
		}
	}

	return &Snapshot{Sheet: sheet, Table: table, FetchedAt: s.now()}, nil
}

func convertRow(rowData *sheets.RowData) domain.Row {
	if rowData == nil {
		return domain.Row{}
	}
	row := domain.Row{C: make([]*domain.Cell, len(rowData.Values))}
	for i, value := range rowData.Values {
		row.C[i] = convertCell(value)
	}
	return row
}

func convertCell(value *sheets.CellData) *domain.Cell {
	if value == nil || (value.EffectiveValue == nil && value.FormattedValue == "") {
		return nil
	}

	cell := &domain.Cell{F: value.FormattedValue}
	if ev := value.EffectiveValue; ev != nil {
		switch {
		case ev.NumberValue != nil:
			cell.V = *ev.NumberValue
		case ev.StringValue != nil:
			cell.V = *ev.StringValue
		case ev.BoolValue != nil:
			cell.V = *ev.BoolValue
		}
	}
	if cell.V == nil {
		cell.V = value.FormattedValue
	}
	return cell
}

package sources

import (
	"context"
	"fmt"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// DefaultMetricsRange is the sheet range holding date, six counters and notes.
const DefaultMetricsRange = "A:H"

// TableSource reads a rectangular range of cells as strings.
type TableSource interface {
	Read(ctx context.Context, sheetID, cellRange string) ([][]string, error)
}

// SheetsSource reads spreadsheets through the Google Sheets v4 API.
type SheetsSource struct {
	service *sheets.Service
}

// NewSheetsSource authenticates with a service-account JSON credential using the read-only scope.
func NewSheetsSource(ctx context.Context, credentialsJSON []byte, opts ...option.ClientOption) (*SheetsSource, error) {
	if len(credentialsJSON) == 0 {
		return nil, &SourceError{Locator: "sheets", Message: "service account credentials are empty"}
	}

	clientOpts := append([]option.ClientOption{
		option.WithCredentialsJSON(credentialsJSON),
		option.WithScopes(sheets.SpreadsheetsReadonlyScope),
	}, opts...)

	service, err := sheets.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, &SourceError{Locator: "sheets", Message: "failed to create sheets client", Cause: err}
	}
	return &SheetsSource{service: service}, nil
}

// Read returns the values in cellRange, each cell formatted as a string.
func (s *SheetsSource) Read(ctx context.Context, sheetID, cellRange string) ([][]string, error) {
	if cellRange == "" {
		cellRange = DefaultMetricsRange
	}
	locator := sheetID + "!" + cellRange

	resp, err := s.service.Spreadsheets.Values.Get(sheetID, cellRange).Context(ctx).Do()
	if err != nil {
		return nil, &SourceError{Locator: locator, Message: "failed to read range", Cause: err}
	}
	return stringRows(resp.Values), nil
}

func stringRows(values [][]interface{}) [][]string {
	rows := make([][]string, len(values))
	for i, row := range values {
		cells := make([]string, len(row))
		for j, cell := range row {
			if cell == nil {
				continue
			}
			if s, ok := cell.(string); ok {
				cells[j] = s
				continue
			}
			cells[j] = fmt.Sprint(cell)
		}
		rows[i] = cells
	}
	return rows
}

package repository

import (
	"context"
	"fmt"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// valueInputOption lets the spreadsheet parse dates and numbers as if typed.
const valueInputOption = "USER_ENTERED"

// SheetsTable is a Table stored in one A1 range of a Google spreadsheet.
type SheetsTable struct {
	values        *sheets.SpreadsheetsValuesService
	spreadsheetID string
	rng           string
}

// NewSheetsService builds a Sheets client. Credentials come from the service
// account JSON unless opts already configure authentication.
func NewSheetsService(ctx context.Context, credentialsJSON []byte, opts ...option.ClientOption) (*sheets.Service, error) {
	all := make([]option.ClientOption, 0, len(opts)+2)
	if len(credentialsJSON) > 0 {
		all = append(all,
			option.WithCredentialsJSON(credentialsJSON),
			option.WithScopes(sheets.SpreadsheetsScope),
		)
	}
	all = append(all, opts...)
	svc, err := sheets.NewService(ctx, all...)
	if err != nil {
		return nil, fmt.Errorf("sheets client: %w", err)
	}
	return svc, nil
}

// NewSheetsTable binds a table to range rng (e.g. "Events!A:I") of a spreadsheet.
func NewSheetsTable(svc *sheets.Service, spreadsheetID, rng string) *SheetsTable {
	return &SheetsTable{
		values:        svc.Spreadsheets.Values,
		spreadsheetID: spreadsheetID,
		rng:           rng,
	}
}

// Append adds row after the last non-empty row of the range.
func (s *SheetsTable) Append(ctx context.Context, row []string) error {
	cells := make([]interface{}, len(row))
	for i, v := range row {
		cells[i] = v
	}
	_, err := s.values.
		Append(s.spreadsheetID, s.rng, &sheets.ValueRange{Values: [][]interface{}{cells}}).
		ValueInputOption(valueInputOption).
		Context(ctx).
		Do()
	return err
}

// Rows reads the whole range. The service drops trailing empty cells, so
// rows may be shorter than the range width.
func (s *SheetsTable) Rows(ctx context.Context) ([][]string, error) {
	resp, err := s.values.Get(s.spreadsheetID, s.rng).Context(ctx).Do()
	if err != nil {
		return nil, err
	}
	rows := make([][]string, 0, len(resp.Values))
	for _, r := range resp.Values {
		row := make([]string, len(r))
		for i, v := range r {
			if v != nil {
				row[i] = fmt.Sprint(v)
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

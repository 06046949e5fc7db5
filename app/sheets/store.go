package sheets

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// Initial grid size for newly created worksheets.
const (
	initialRows = 100
	initialCols = 20
)

// Store provides table-level operations over one shared workbook. The
// workbook is the pipeline's only system of record; the store itself
// holds no state beyond the service handle.
type Store struct {
	svc           *sheets.Service
	spreadsheetID string
}

// NewStore builds a Store authenticated with a service account
// credentials file.
func NewStore(ctx context.Context, credentialsFile, spreadsheetID string) (*Store, error) {
	svc, err := sheets.NewService(ctx,
		option.WithCredentialsFile(credentialsFile),
		option.WithScopes(sheets.SpreadsheetsScope),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	return &Store{svc: svc, spreadsheetID: spreadsheetID}, nil
}

// NewStoreWithService builds a Store around an existing service handle.
// Used by tests with a stub HTTP backend.
func NewStoreWithService(svc *sheets.Service, spreadsheetID string) *Store {
	return &Store{svc: svc, spreadsheetID: spreadsheetID}
}

// Ensure returns the sheet ID of the named worksheet, creating it with
// the initial grid size when absent. Idempotent.
func (s *Store) Ensure(ctx context.Context, title string) (int64, error) {
	id, found, err := s.lookup(ctx, title)
	if err != nil {
		return 0, err
	}
	if found {
		return id, nil
	}

	resp, err := s.svc.Spreadsheets.BatchUpdate(s.spreadsheetID, &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{{
			AddSheet: &sheets.AddSheetRequest{
				Properties: &sheets.SheetProperties{
					Title: title,
					GridProperties: &sheets.GridProperties{
						RowCount:    initialRows,
						ColumnCount: initialCols,
					},
				},
			},
		}},
	}).Context(ctx).Do()
	if err != nil {
		return 0, fmt.Errorf("failed to create worksheet %q: %w", title, WrapError(err))
	}

	slog.Info("Created worksheet", "title", title)
	return resp.Replies[0].AddSheet.Properties.SheetId, nil
}

// Overwrite replaces the entire content of the named worksheet with
// [header] + rows, resizing the grid to exactly fit. Previous content
// outside the new bounds is truncated by the resize. Every row must be
// as wide as the header.
func (s *Store) Overwrite(ctx context.Context, title string, header []string, rows [][]string) error {
	for i, row := range rows {
		if len(row) != len(header) {
			return fmt.Errorf("row %d width %d does not match header width %d", i, len(row), len(header))
		}
	}

	sheetID, err := s.Ensure(ctx, title)
	if err != nil {
		return err
	}

	_, err = s.svc.Spreadsheets.BatchUpdate(s.spreadsheetID, &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{{
			UpdateSheetProperties: &sheets.UpdateSheetPropertiesRequest{
				Properties: &sheets.SheetProperties{
					SheetId: sheetID,
					GridProperties: &sheets.GridProperties{
						RowCount:    int64(len(rows) + 1),
						ColumnCount: int64(len(header)),
					},
				},
				Fields: "gridProperties(rowCount,columnCount)",
			},
		}},
	}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to resize worksheet %q: %w", title, WrapError(err))
	}

	values := make([][]interface{}, 0, len(rows)+1)
	values = append(values, toInterfaceRow(header))
	for _, row := range rows {
		values = append(values, toInterfaceRow(row))
	}

	_, err = s.svc.Spreadsheets.Values.Update(s.spreadsheetID, rangeRef(title, "A1"), &sheets.ValueRange{
		Values: values,
	}).ValueInputOption("USER_ENTERED").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to overwrite worksheet %q: %w", title, WrapError(err))
	}

	slog.Debug("Worksheet overwritten", "title", title, "rows", len(rows))
	return nil
}

// AppendRow adds one row after the existing content of the named
// worksheet, creating it first when absent.
func (s *Store) AppendRow(ctx context.Context, title string, row []string) error {
	if _, err := s.Ensure(ctx, title); err != nil {
		return err
	}

	_, err := s.svc.Spreadsheets.Values.Append(s.spreadsheetID, rangeRef(title, "A1"), &sheets.ValueRange{
		Values: [][]interface{}{toInterfaceRow(row)},
	}).ValueInputOption("USER_ENTERED").InsertDataOption("INSERT_ROWS").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to append to worksheet %q: %w", title, WrapError(err))
	}

	return nil
}

// ReadTable returns the full content of the named worksheet including
// its header row. A missing worksheet reads as an empty table.
func (s *Store) ReadTable(ctx context.Context, title string) ([][]string, error) {
	_, found, err := s.lookup(ctx, title)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}

	resp, err := s.svc.Spreadsheets.Values.Get(s.spreadsheetID, rangeRef(title, "")).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to read worksheet %q: %w", title, WrapError(err))
	}

	table := make([][]string, 0, len(resp.Values))
	for _, row := range resp.Values {
		out := make([]string, len(row))
		for i, cell := range row {
			out[i] = fmt.Sprint(cell)
		}
		table = append(table, out)
	}

	return table, nil
}

// ReadCell returns the value of a single cell (1-based row and column).
// A missing worksheet or empty cell reads as "".
func (s *Store) ReadCell(ctx context.Context, title string, row, col int) (string, error) {
	_, found, err := s.lookup(ctx, title)
	if err != nil {
		return "", err
	}
	if !found {
		return "", nil
	}

	ref := cellRef(row, col)
	resp, err := s.svc.Spreadsheets.Values.Get(s.spreadsheetID, rangeRef(title, ref)).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("failed to read cell %s of %q: %w", ref, title, WrapError(err))
	}

	if len(resp.Values) == 0 || len(resp.Values[0]) == 0 {
		return "", nil
	}
	return fmt.Sprint(resp.Values[0][0]), nil
}

// UpdateCell writes a single cell (1-based row and column), creating the
// worksheet first when absent.
func (s *Store) UpdateCell(ctx context.Context, title string, row, col int, value string) error {
	if _, err := s.Ensure(ctx, title); err != nil {
		return err
	}

	ref := cellRef(row, col)
	_, err := s.svc.Spreadsheets.Values.Update(s.spreadsheetID, rangeRef(title, ref), &sheets.ValueRange{
		Values: [][]interface{}{{value}},
	}).ValueInputOption("USER_ENTERED").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to update cell %s of %q: %w", ref, title, WrapError(err))
	}

	return nil
}

func (s *Store) lookup(ctx context.Context, title string) (int64, bool, error) {
	resp, err := s.svc.Spreadsheets.Get(s.spreadsheetID).Fields("sheets.properties").Context(ctx).Do()
	if err != nil {
		return 0, false, fmt.Errorf("failed to list worksheets: %w", WrapError(err))
	}

	for _, sh := range resp.Sheets {
		if sh.Properties != nil && sh.Properties.Title == title {
			return sh.Properties.SheetId, true, nil
		}
	}
	return 0, false, nil
}

// rangeRef builds an A1-notation range with a quoted sheet title.
func rangeRef(title, ref string) string {
	quoted := "'" + strings.ReplaceAll(title, "'", "''") + "'"
	if ref == "" {
		return quoted
	}
	return quoted + "!" + ref
}

// cellRef converts 1-based row/column to A1 notation. Columns beyond Z
// never occur here (grids are at most 20 columns wide).
func cellRef(row, col int) string {
	return fmt.Sprintf("%c%d", 'A'+col-1, row)
}

func toInterfaceRow(row []string) []interface{} {
	out := make([]interface{}, len(row))
	for i, v := range row {
		out[i] = v
	}
	return out
}

package sheets

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/oauth2"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	portsrepo "github.com/lumina-tracker/lumina_backend/internal/core/ports/repositories"
)

// TokenProvider yields the token source of the active session. The store
// builds its API client lazily from it, so a store constructed before
// sign-in becomes usable the moment a session exists.
type TokenProvider interface {
	TokenSource() (oauth2.TokenSource, bool)
}

// Store is the Google Sheets implementation of the tabular contracts. One
// Store is bound to one spreadsheet; Open derives read-only stores for
// foreign spreadsheets from the same session.
type Store struct {
	auth          TokenProvider
	spreadsheetID string

	mu  sync.Mutex
	svc *sheetsapi.Service
}

// NewStore binds a store to the ledger spreadsheet.
func NewStore(auth TokenProvider, spreadsheetID string) *Store {
	return &Store{auth: auth, spreadsheetID: spreadsheetID}
}

var (
	_ portsrepo.TabularStore        = (*Store)(nil)
	_ portsrepo.TabularSourceOpener = (*Store)(nil)
)

// Open returns a source over a foreign spreadsheet using the same session.
func (s *Store) Open(ctx context.Context, spreadsheetID string) (portsrepo.TabularSource, error) {
	if _, ok := s.auth.TokenSource(); !ok {
		return nil, fmt.Errorf("no active google session")
	}
	return &Store{auth: s.auth, spreadsheetID: spreadsheetID}, nil
}

// service lazily builds the Sheets API client from the current session.
func (s *Store) service(ctx context.Context) (*sheetsapi.Service, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.svc != nil {
		return s.svc, nil
	}
	tokenSource, ok := s.auth.TokenSource()
	if !ok {
		return nil, fmt.Errorf("no active google session")
	}
	svc, err := sheetsapi.NewService(context.Background(), option.WithTokenSource(tokenSource))
	if err != nil {
		return nil, fmt.Errorf("failed to build sheets client: %w", err)
	}
	s.svc = svc
	return svc, nil
}

func (s *Store) ListTables(ctx context.Context) ([]string, error) {
	svc, err := s.service(ctx)
	if err != nil {
		return nil, err
	}
	spreadsheet, err := svc.Spreadsheets.Get(s.spreadsheetID).Fields("sheets.properties").Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get spreadsheet %s: %w", s.spreadsheetID, err)
	}
	tables := make([]string, 0, len(spreadsheet.Sheets))
	for _, sheet := range spreadsheet.Sheets {
		if sheet.Properties != nil {
			tables = append(tables, sheet.Properties.Title)
		}
	}
	return tables, nil
}

func (s *Store) ListRows(ctx context.Context, table string) ([]portsrepo.Row, error) {
	svc, err := s.service(ctx)
	if err != nil {
		return nil, err
	}
	resp, err := svc.Spreadsheets.Values.Get(s.spreadsheetID, table+"!A:Z").Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", table, err)
	}
	rows := make([]portsrepo.Row, 0, len(resp.Values))
	for _, raw := range resp.Values {
		row := make(portsrepo.Row, len(raw))
		for i, cell := range raw {
			row[i] = fmt.Sprint(cell)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (s *Store) AppendRows(ctx context.Context, table string, rows []portsrepo.Row) error {
	svc, err := s.service(ctx)
	if err != nil {
		return err
	}
	_, err = svc.Spreadsheets.Values.
		Append(s.spreadsheetID, table+"!A:Z", toValueRange(rows)).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to append to %s: %w", table, err)
	}
	return nil
}

func (s *Store) UpdateRow(ctx context.Context, table string, rowNumber int, values portsrepo.Row) error {
	svc, err := s.service(ctx)
	if err != nil {
		return err
	}
	_, err = svc.Spreadsheets.Values.
		Update(s.spreadsheetID, fmt.Sprintf("%s!A%d", table, rowNumber), toValueRange([]portsrepo.Row{values})).
		ValueInputOption("USER_ENTERED").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to update %s row %d: %w", table, rowNumber, err)
	}
	return nil
}

func (s *Store) DeleteRow(ctx context.Context, table string, rowNumber int) error {
	svc, err := s.service(ctx)
	if err != nil {
		return err
	}
	sheetID, err := s.sheetID(ctx, table)
	if err != nil {
		return err
	}
	req := &sheetsapi.BatchUpdateSpreadsheetRequest{
		Requests: []*sheetsapi.Request{{
			DeleteDimension: &sheetsapi.DeleteDimensionRequest{
				Range: &sheetsapi.DimensionRange{
					SheetId:    sheetID,
					Dimension:  "ROWS",
					StartIndex: int64(rowNumber - 1),
					EndIndex:   int64(rowNumber),
				},
			},
		}},
	}
	if _, err := svc.Spreadsheets.BatchUpdate(s.spreadsheetID, req).Context(ctx).Do(); err != nil {
		return fmt.Errorf("failed to delete %s row %d: %w", table, rowNumber, err)
	}
	return nil
}

func (s *Store) EnsureTable(ctx context.Context, table string, header portsrepo.Row) error {
	svc, err := s.service(ctx)
	if err != nil {
		return err
	}
	tables, err := s.ListTables(ctx)
	if err != nil {
		return err
	}
	for _, t := range tables {
		if t == table {
			return nil
		}
	}

	req := &sheetsapi.BatchUpdateSpreadsheetRequest{
		Requests: []*sheetsapi.Request{{
			AddSheet: &sheetsapi.AddSheetRequest{
				Properties: &sheetsapi.SheetProperties{Title: table},
			},
		}},
	}
	if _, err := svc.Spreadsheets.BatchUpdate(s.spreadsheetID, req).Context(ctx).Do(); err != nil {
		return fmt.Errorf("failed to create table %s: %w", table, err)
	}
	return s.UpdateRow(ctx, table, 1, header)
}

func (s *Store) sheetID(ctx context.Context, table string) (int64, error) {
	svc, err := s.service(ctx)
	if err != nil {
		return 0, err
	}
	spreadsheet, err := svc.Spreadsheets.Get(s.spreadsheetID).Fields("sheets.properties").Context(ctx).Do()
	if err != nil {
		return 0, fmt.Errorf("failed to get spreadsheet %s: %w", s.spreadsheetID, err)
	}
	for _, sheet := range spreadsheet.Sheets {
		if sheet.Properties != nil && sheet.Properties.Title == table {
			return sheet.Properties.SheetId, nil
		}
	}
	return 0, fmt.Errorf("table %s not found in spreadsheet %s", table, s.spreadsheetID)
}

func toValueRange(rows []portsrepo.Row) *sheetsapi.ValueRange {
	values := make([][]interface{}, len(rows))
	for i, row := range rows {
		cells := make([]interface{}, len(row))
		for j, cell := range row {
			cells[j] = cell
		}
		values[i] = cells
	}
	return &sheetsapi.ValueRange{Values: values}
}

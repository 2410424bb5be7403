package sheets

import (
	"context"
	"fmt"
	"os"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/oauth2/google"
	"golang.org/x/oauth2/jwt"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"cashflow/internal/logger"
	"cashflow/internal/store"
)

// DefaultTimeout bounds every call to the Sheets API when Options.Timeout is unset.
const DefaultTimeout = 15 * time.Second

var spreadsheetURLPattern = regexp.MustCompile(`/spreadsheets/d/([a-zA-Z0-9-_]+)`)

// Service implements store.Store on top of a Google spreadsheet.
type Service struct {
	sheetsService *sheets.Service
	spreadsheetID string
	timeout       time.Duration
	log           zerolog.Logger

	mu       sync.Mutex
	sheetIDs map[string]int64
}

var _ store.Store = (*Service)(nil)

// Options configures the connection to the spreadsheet.
type Options struct {
	// SheetURL or SpreadsheetID identifies the spreadsheet; the ID wins if both are set.
	SheetURL      string
	SpreadsheetID string

	// Credentials, tried in order: a service account file, inline service
	// account JSON, or a client email and private key pair.
	CredentialsFile string
	CredentialsJSON string
	ClientEmail     string
	PrivateKey      string

	// Timeout bounds each API call. A timed-out call is reported, never retried.
	Timeout time.Duration
}

// NewSheetsService creates a new Google Sheets backed store
func NewSheetsService(ctx context.Context, opts Options) (*Service, error) {
	const op = "NewSheetsService"

	log := logger.WithComponent("sheets")

	spreadsheetID := opts.SpreadsheetID
	if spreadsheetID == "" {
		var err error
		spreadsheetID, err = extractSpreadsheetID(opts.SheetURL)
		if err != nil {
			return nil, fmt.Errorf("%s: failed to extract spreadsheet ID: %w", op, err)
		}
	}

	log.Debug().Str("spreadsheet_id", spreadsheetID).Msg("Resolved spreadsheet ID")

	jwtConfig, err := credentialsConfig(opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	client := jwtConfig.Client(ctx)
	sheetsService, err := sheets.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("%s: failed to create sheets service: %w", op, err)
	}

	return newService(sheetsService, spreadsheetID, opts.Timeout), nil
}

func newService(sheetsService *sheets.Service, spreadsheetID string, timeout time.Duration) *Service {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Service{
		sheetsService: sheetsService,
		spreadsheetID: spreadsheetID,
		timeout:       timeout,
		log:           logger.WithComponent("sheets"),
		sheetIDs:      make(map[string]int64),
	}
}

// credentialsConfig builds a service account JWT config from whichever
// credential source is configured.
func credentialsConfig(opts Options) (*jwt.Config, error) {
	var creds []byte
	switch {
	case opts.CredentialsFile != "":
		data, err := os.ReadFile(opts.CredentialsFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read credentials file: %w", err)
		}
		creds = data
	case opts.CredentialsJSON != "":
		creds = []byte(opts.CredentialsJSON)
	case opts.ClientEmail != "" && opts.PrivateKey != "":
		return &jwt.Config{
			Email: opts.ClientEmail,
			// Keys pasted into env files usually carry literal \n sequences
			PrivateKey: []byte(strings.ReplaceAll(opts.PrivateKey, `\n`, "\n")),
			Scopes:     []string{sheets.SpreadsheetsScope},
			TokenURL:   google.JWTTokenURL,
		}, nil
	default:
		return nil, fmt.Errorf("no Google credentials configured: set GOOGLE_APPLICATION_CREDENTIALS, GOOGLE_CREDENTIALS, or GOOGLE_SHEETS_CLIENT_EMAIL and GOOGLE_SHEETS_PRIVATE_KEY")
	}

	config, err := google.JWTConfigFromJSON(creds, sheets.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("failed to parse credentials: %w", err)
	}
	return config, nil
}

// extractSpreadsheetID extracts the spreadsheet ID from a Google Sheets URL
func extractSpreadsheetID(url string) (string, error) {
	matches := spreadsheetURLPattern.FindStringSubmatch(url)
	if len(matches) < 2 {
		return "", fmt.Errorf("invalid Google Sheets URL format")
	}
	return matches[1], nil
}

// SpreadsheetID returns the ID of the backing spreadsheet.
func (s *Service) SpreadsheetID() string {
	return s.spreadsheetID
}

func (s *Service) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.timeout)
}

// Ping verifies that the spreadsheet is reachable with the configured credentials.
func (s *Service) Ping(ctx context.Context) error {
	const op = "Ping"

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	_, err := s.sheetsService.Spreadsheets.Get(s.spreadsheetID).Fields("spreadsheetId").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("%s: spreadsheet %s is not accessible: %w", op, s.spreadsheetID, err)
	}
	return nil
}

// ReadRange reads values from a specified range in the spreadsheet
func (s *Service) ReadRange(ctx context.Context, rangeSpec string) ([][]interface{}, error) {
	const op = "ReadRange"

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	s.log.Debug().
		Str("range", rangeSpec).
		Msg("Reading range from spreadsheet")

	resp, err := s.sheetsService.Spreadsheets.Values.Get(s.spreadsheetID, rangeSpec).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to read range %s: %w", op, rangeSpec, err)
	}

	s.log.Debug().
		Int("rows", len(resp.Values)).
		Str("range", rangeSpec).
		Msg("Successfully read range from spreadsheet")

	return resp.Values, nil
}

// GetRows reads every data row of a table, skipping the header.
func (s *Service) GetRows(ctx context.Context, table store.Table) ([][]interface{}, error) {
	return s.ReadRange(ctx, fmt.Sprintf("%s!A2:%s", quoteSheet(table.Name), table.LastColumn()))
}

// AppendRows appends rows below the last data row of a table.
func (s *Service) AppendRows(ctx context.Context, table store.Table, rows [][]interface{}) error {
	const op = "AppendRows"

	if len(rows) == 0 {
		return nil
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	rangeSpec := fmt.Sprintf("%s!A:%s", quoteSheet(table.Name), table.LastColumn())
	valueRange := &sheets.ValueRange{Values: rows}

	_, err := s.sheetsService.Spreadsheets.Values.Append(
		s.spreadsheetID,
		rangeSpec,
		valueRange,
	).ValueInputOption("USER_ENTERED").InsertDataOption("INSERT_ROWS").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("%s: failed to append %d rows to %s: %w", op, len(rows), table.Name, err)
	}

	s.log.Info().
		Str("sheet", table.Name).
		Int("rows_written", len(rows)).
		Msg("Appended rows")

	return nil
}

// DeleteRow removes one data row from a table.
func (s *Service) DeleteRow(ctx context.Context, table store.Table, index int) error {
	const op = "DeleteRow"

	if index < 0 {
		return fmt.Errorf("%s: %s row %d: %w", op, table.Name, index, store.ErrRowOutOfRange)
	}

	sheetID, err := s.sheetID(ctx, table.Name)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	// Grid indexes are zero-based and include the header row
	req := &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{
			{
				DeleteDimension: &sheets.DeleteDimensionRequest{
					Range: &sheets.DimensionRange{
						SheetId:         sheetID,
						Dimension:       "ROWS",
						StartIndex:      int64(index + 1),
						EndIndex:        int64(index + 2),
						ForceSendFields: []string{"SheetId"},
					},
				},
			},
		},
	}

	if _, err := s.sheetsService.Spreadsheets.BatchUpdate(s.spreadsheetID, req).Context(ctx).Do(); err != nil {
		return fmt.Errorf("%s: failed to delete %s row %d: %w", op, table.Name, store.SheetRow(index), err)
	}

	s.log.Info().
		Str("sheet", table.Name).
		Int("row", store.SheetRow(index)).
		Msg("Deleted row")

	return nil
}

// UpdateCells overwrites consecutive cells of one data row.
func (s *Service) UpdateCells(ctx context.Context, table store.Table, index, firstColumn int, values []interface{}) error {
	const op = "UpdateCells"

	if len(values) == 0 {
		return nil
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	row := store.SheetRow(index)
	rangeSpec := fmt.Sprintf("%s!%s%d:%s%d",
		quoteSheet(table.Name),
		store.ColumnLetter(firstColumn), row,
		store.ColumnLetter(firstColumn+len(values)-1), row,
	)

	valueRange := &sheets.ValueRange{Values: [][]interface{}{values}}
	_, err := s.sheetsService.Spreadsheets.Values.Update(
		s.spreadsheetID,
		rangeSpec,
		valueRange,
	).ValueInputOption("USER_ENTERED").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("%s: failed to update %s: %w", op, rangeSpec, err)
	}

	s.log.Debug().Str("range", rangeSpec).Msg("Updated cells")
	return nil
}

// sheetID resolves a sheet title to its numeric grid ID, caching the lookup.
func (s *Service) sheetID(ctx context.Context, title string) (int64, error) {
	const op = "sheetID"

	s.mu.Lock()
	id, ok := s.sheetIDs[title]
	s.mu.Unlock()
	if ok {
		return id, nil
	}

	if err := s.refreshSheetIDs(ctx); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok = s.sheetIDs[title]
	if !ok {
		return 0, fmt.Errorf("%s: sheet %q does not exist", op, title)
	}
	return id, nil
}

func (s *Service) refreshSheetIDs(ctx context.Context) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	spreadsheet, err := s.sheetsService.Spreadsheets.Get(s.spreadsheetID).Fields("sheets.properties").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to get spreadsheet: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sheet := range spreadsheet.Sheets {
		if sheet.Properties == nil {
			continue
		}
		s.sheetIDs[sheet.Properties.Title] = sheet.Properties.SheetId
	}
	return nil
}

// EnsureTable makes sure the table's sheet exists and carries a header row.
func (s *Service) EnsureTable(ctx context.Context, table store.Table) error {
	const op = "EnsureTable"

	if err := s.refreshSheetIDs(ctx); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.mu.Lock()
	sheetID, exists := s.sheetIDs[table.Name]
	s.mu.Unlock()

	if !exists {
		s.log.Info().Str("sheet", table.Name).Msg("Creating new sheet")

		batchUpdateReq := &sheets.BatchUpdateSpreadsheetRequest{
			Requests: []*sheets.Request{
				{AddSheet: &sheets.AddSheetRequest{
					Properties: &sheets.SheetProperties{Title: table.Name},
				}},
			},
		}

		callCtx, cancel := s.withTimeout(ctx)
		resp, err := s.sheetsService.Spreadsheets.BatchUpdate(s.spreadsheetID, batchUpdateReq).Context(callCtx).Do()
		cancel()
		if err != nil {
			return fmt.Errorf("%s: failed to create sheet %s: %w", op, table.Name, err)
		}

		if len(resp.Replies) > 0 && resp.Replies[0].AddSheet != nil {
			sheetID = resp.Replies[0].AddSheet.Properties.SheetId
			s.mu.Lock()
			s.sheetIDs[table.Name] = sheetID
			s.mu.Unlock()
		}
	}

	headerRange := fmt.Sprintf("%s!A1:%s1", quoteSheet(table.Name), table.LastColumn())
	header, err := s.ReadRange(ctx, headerRange)
	if err != nil {
		return fmt.Errorf("%s: failed to get headers: %w", op, err)
	}
	if len(header) > 0 && len(header[0]) > 0 {
		return nil
	}

	s.log.Info().Str("sheet", table.Name).Msg("Adding headers to sheet")

	headers := make([]interface{}, 0, table.Width())
	for _, column := range table.Columns {
		headers = append(headers, column)
	}

	callCtx, cancel := s.withTimeout(ctx)
	_, err = s.sheetsService.Spreadsheets.Values.Update(
		s.spreadsheetID,
		headerRange,
		&sheets.ValueRange{Values: [][]interface{}{headers}},
	).ValueInputOption("RAW").Context(callCtx).Do()
	cancel()
	if err != nil {
		return fmt.Errorf("%s: failed to add headers: %w", op, err)
	}

	if err := s.formatHeaders(ctx, sheetID, table.Width()); err != nil {
		s.log.Warn().Err(err).Msg("Failed to format headers, continuing anyway")
	}

	return nil
}

// formatHeaders makes the header row bold and auto-sizes the table's columns
func (s *Service) formatHeaders(ctx context.Context, sheetID int64, width int) error {
	const op = "formatHeaders"

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	requests := []*sheets.Request{
		{
			RepeatCell: &sheets.RepeatCellRequest{
				Range: &sheets.GridRange{
					SheetId:          sheetID,
					StartRowIndex:    0,
					EndRowIndex:      1,
					StartColumnIndex: 0,
					EndColumnIndex:   int64(width),
					ForceSendFields:  []string{"SheetId", "StartRowIndex", "StartColumnIndex"},
				},
				Cell: &sheets.CellData{
					UserEnteredFormat: &sheets.CellFormat{
						TextFormat: &sheets.TextFormat{
							Bold: true,
						},
						BackgroundColor: &sheets.Color{
							Red:   0.9,
							Green: 0.9,
							Blue:  0.9,
						},
					},
				},
				Fields: "userEnteredFormat(textFormat,backgroundColor)",
			},
		},
		{
			AutoResizeDimensions: &sheets.AutoResizeDimensionsRequest{
				Dimensions: &sheets.DimensionRange{
					SheetId:         sheetID,
					Dimension:       "COLUMNS",
					StartIndex:      0,
					EndIndex:        int64(width),
					ForceSendFields: []string{"SheetId", "StartIndex"},
				},
			},
		},
	}

	batchUpdateReq := &sheets.BatchUpdateSpreadsheetRequest{Requests: requests}
	if _, err := s.sheetsService.Spreadsheets.BatchUpdate(s.spreadsheetID, batchUpdateReq).Context(ctx).Do(); err != nil {
		return fmt.Errorf("%s: failed to format headers: %w", op, err)
	}

	return nil
}

// quoteSheet quotes a sheet title for use in A1 notation.
func quoteSheet(name string) string {
	return "'" + strings.ReplaceAll(name, "'", "''") + "'"
}

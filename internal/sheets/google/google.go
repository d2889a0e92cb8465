// Package google mirrors the journal to a Google Sheets spreadsheet, one
// tab per ledger.
package google

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"registre/internal/core"
	ports "registre/internal/sheets"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	tabNames      map[core.Source]string
}

// Ensure interface conformance
var _ ports.Journal = (*Client)(nil)

// NewFromEnv creates a Sheets client using environment variables.
// Required: GOOGLE_SPREADSHEET_ID.
// Auth: GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or
// GOOGLE_APPLICATION_CREDENTIALS.
// Optional tab names: RAW_MATERIALS_SHEET_NAME (default "Raw Materials"),
// PRODUCTIONS_SHEET_NAME (default "Productions"),
// SALES_SHEET_NAME (default "Sales").
func NewFromEnv(ctx context.Context) (*Client, error) {
	spreadsheetID := strings.TrimSpace(os.Getenv("GOOGLE_SPREADSHEET_ID"))
	if spreadsheetID == "" {
		return nil, errors.New("missing GOOGLE_SPREADSHEET_ID")
	}

	svc, err := newSheetsService(ctx)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}

	return &Client{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		tabNames: map[core.Source]string{
			core.SourceRawMaterials:  envOr("RAW_MATERIALS_SHEET_NAME", "Raw Materials"),
			core.SourceProductions:   envOr("PRODUCTIONS_SHEET_NAME", "Productions"),
			core.SourceSalesExpenses: envOr("SALES_SHEET_NAME", "Sales"),
		},
	}, nil
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

// newSheetsService initializes a Sheets service using Service Account
// credentials from the environment.
func newSheetsService(ctx context.Context) (*gsheet.Service, error) {
	serviceAccountJSON := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"))
	serviceAccountFile := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"))
	if serviceAccountJSON == "" && serviceAccountFile == "" {
		serviceAccountFile = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	var credentialsJSON []byte
	var err error

	switch {
	case serviceAccountJSON != "":
		credentialsJSON = []byte(serviceAccountJSON)
	case serviceAccountFile != "":
		credentialsJSON, err = os.ReadFile(serviceAccountFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}

	service, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return service, nil
}

func (c *Client) tabName(source core.Source) string {
	if name, ok := c.tabNames[source]; ok {
		return name
	}
	return string(source)
}

// Append adds the record as a new row at the bottom of the source's tab.
func (c *Client) Append(ctx context.Context, source core.Source, rec core.HistoryRecord) (string, error) {
	if c.svc == nil {
		return "", errors.New("sheets service not initialized")
	}

	tab := c.tabName(source)
	rng := fmt.Sprintf("%s!A:G", tab)
	vr := &gsheet.ValueRange{Values: [][]any{ports.Row(rec)}}

	resp, err := c.svc.Spreadsheets.Values.Append(c.spreadsheetID, rng, vr).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("append to sheet %s: %w", tab, err)
	}
	if resp.Updates != nil && resp.Updates.UpdatedRange != "" {
		return resp.Updates.UpdatedRange, nil
	}
	return rng, nil
}

// Delete finds the first row whose receipt id column matches and removes it.
// A receipt id that is not present is not an error.
func (c *Client) Delete(ctx context.Context, source core.Source, receiptID string) error {
	if c.svc == nil {
		return errors.New("sheets service not initialized")
	}

	tab := c.tabName(source)
	rng := fmt.Sprintf("%s!A:A", tab)
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("read %s: %w", rng, err)
	}

	rowIndex := -1
	for i, row := range resp.Values {
		if len(row) > 0 && strings.TrimSpace(fmt.Sprint(row[0])) == receiptID {
			rowIndex = i
			break
		}
	}
	if rowIndex < 0 {
		return nil
	}

	sheetID, err := c.sheetID(ctx, tab)
	if err != nil {
		return err
	}

	req := &gsheet.BatchUpdateSpreadsheetRequest{
		Requests: []*gsheet.Request{{
			DeleteDimension: &gsheet.DeleteDimensionRequest{
				Range: &gsheet.DimensionRange{
					SheetId:    sheetID,
					Dimension:  "ROWS",
					StartIndex: int64(rowIndex),
					EndIndex:   int64(rowIndex + 1),
				},
			},
		}},
	}
	if _, err := c.svc.Spreadsheets.BatchUpdate(c.spreadsheetID, req).Context(ctx).Do(); err != nil {
		return fmt.Errorf("delete row %d from sheet %s: %w", rowIndex+1, tab, err)
	}
	return nil
}

// Replace clears the tab and writes all rows from scratch.
func (c *Client) Replace(ctx context.Context, source core.Source, recs []core.HistoryRecord) error {
	if c.svc == nil {
		return errors.New("sheets service not initialized")
	}

	tab := c.tabName(source)
	rng := fmt.Sprintf("%s!A:G", tab)
	if _, err := c.svc.Spreadsheets.Values.Clear(c.spreadsheetID, rng, &gsheet.ClearValuesRequest{}).Context(ctx).Do(); err != nil {
		return fmt.Errorf("clear sheet %s: %w", tab, err)
	}
	if len(recs) == 0 {
		return nil
	}

	values := make([][]any, 0, len(recs))
	for _, rec := range recs {
		values = append(values, ports.Row(rec))
	}
	vr := &gsheet.ValueRange{Values: values}
	writeRange := fmt.Sprintf("%s!A1", tab)
	if _, err := c.svc.Spreadsheets.Values.Update(c.spreadsheetID, writeRange, vr).
		ValueInputOption("USER_ENTERED").Context(ctx).Do(); err != nil {
		return fmt.Errorf("write sheet %s: %w", tab, err)
	}
	return nil
}

func (c *Client) sheetID(ctx context.Context, tab string) (int64, error) {
	meta, err := c.svc.Spreadsheets.Get(c.spreadsheetID).Fields("sheets.properties").Context(ctx).Do()
	if err != nil {
		return 0, fmt.Errorf("read spreadsheet metadata: %w", err)
	}
	for _, sheet := range meta.Sheets {
		if sheet.Properties != nil && sheet.Properties.Title == tab {
			return sheet.Properties.SheetId, nil
		}
	}
	return 0, fmt.Errorf("sheet %q not found", tab)
}

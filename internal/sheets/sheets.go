// Package sheets persists run results to a Google spreadsheet: a dashboard
// worksheet replaced on every run and an append-only history worksheet.
package sheets

import (
	"context"
	"fmt"
	"log"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

type Writer struct {
	svc           *sheets.Service
	spreadsheetID string
	dashboard     string
	history       string
}

func NewWriter(credentialsJSON []byte, spreadsheetID, dashboard, history string) (*Writer, error) {
	ctx := context.Background()
	svc, err := sheets.NewService(ctx,
		option.WithCredentialsJSON(credentialsJSON),
		option.WithScopes(sheets.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("failed to create Sheets client: %w", err)
	}

	w := &Writer{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		dashboard:     dashboard,
		history:       history,
	}

	if err := w.ensureWorksheets(); err != nil {
		return nil, err
	}
	return w, nil
}

// ensureWorksheets creates the dashboard and history worksheets when the
// spreadsheet does not have them yet.
func (w *Writer) ensureWorksheets() error {
	spreadsheet, err := w.svc.Spreadsheets.Get(w.spreadsheetID).Do()
	if err != nil {
		return fmt.Errorf("failed to open spreadsheet %s: %w", w.spreadsheetID, err)
	}

	existing := map[string]bool{}
	for _, sheet := range spreadsheet.Sheets {
		if sheet.Properties != nil {
			existing[sheet.Properties.Title] = true
		}
	}

	var requests []*sheets.Request
	for _, title := range []string{w.dashboard, w.history} {
		if existing[title] {
			continue
		}
		requests = append(requests, &sheets.Request{
			AddSheet: &sheets.AddSheetRequest{
				Properties: &sheets.SheetProperties{Title: title},
			},
		})
	}
	if len(requests) == 0 {
		return nil
	}

	_, err = w.svc.Spreadsheets.BatchUpdate(w.spreadsheetID, &sheets.BatchUpdateSpreadsheetRequest{
		Requests: requests,
	}).Do()
	if err != nil {
		return fmt.Errorf("failed to add worksheets: %w", err)
	}
	log.Printf("Created %d missing worksheet(s)", len(requests))
	return nil
}

// WriteDashboard replaces the dashboard view: a bold title line, a blank
// spacer row, the header and one row per term.
func (w *Writer) WriteDashboard(title string, rows [][]interface{}) error {
	_, err := w.svc.Spreadsheets.Values.Clear(w.spreadsheetID, w.dashboard, &sheets.ClearValuesRequest{}).Do()
	if err != nil {
		return fmt.Errorf("failed to clear dashboard: %w", err)
	}

	values := [][]interface{}{{title}, {}, headerRow()}
	values = append(values, rows...)

	_, err = w.svc.Spreadsheets.Values.Update(w.spreadsheetID, w.dashboard+"!A1", &sheets.ValueRange{
		Values: values,
	}).ValueInputOption("USER_ENTERED").Do()
	if err != nil {
		return fmt.Errorf("failed to update dashboard: %w", err)
	}

	log.Printf("Dashboard worksheet %q replaced with %d row(s)", w.dashboard, len(rows))
	return nil
}

// AppendHistory adds the run's rows to the append-only log, writing the
// header first if the worksheet is still empty.
func (w *Writer) AppendHistory(rows [][]interface{}) error {
	resp, err := w.svc.Spreadsheets.Values.Get(w.spreadsheetID, w.history+"!A1").Do()
	if err != nil {
		return fmt.Errorf("failed to read history header: %w", err)
	}

	values := rows
	if len(resp.Values) == 0 {
		values = append([][]interface{}{headerRow()}, rows...)
	}

	_, err = w.svc.Spreadsheets.Values.Append(w.spreadsheetID, w.history, &sheets.ValueRange{
		Values: values,
	}).ValueInputOption("USER_ENTERED").InsertDataOption("INSERT_ROWS").Do()
	if err != nil {
		return fmt.Errorf("failed to append history: %w", err)
	}

	log.Printf("Appended %d row(s) to history worksheet %q", len(rows), w.history)
	return nil
}

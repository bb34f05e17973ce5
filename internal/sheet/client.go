// Package sheet implements the data.Table boundary on top of the Google
// Sheets API using a service account.
package sheet

import (
	"context"
	"fmt"
	"os"

	"github.com/wajahatariq/twhspecfastapi/internal/data"
	"github.com/wajahatariq/twhspecfastapi/utils"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	sheets "google.golang.org/api/sheets/v4"
)

type Client struct {
	srv           *sheets.Service
	spreadsheetID string
}

// NewClient builds an authenticated Sheets client. Credentials come from
// GOOGLE_SERVICE_ACCOUNT_JSON when set, otherwise from the key file path,
// matching how deployments ship the service account.
func NewClient(ctx context.Context, cfg utils.Config) (*Client, error) {
	var creds []byte
	if cfg.Sheets.ServiceAccountJSON != "" {
		creds = []byte(cfg.Sheets.ServiceAccountJSON)
	} else {
		b, err := os.ReadFile(cfg.Sheets.ServiceAccountFile)
		if err != nil {
			return nil, fmt.Errorf("unable to read service account key: %w", err)
		}
		creds = b
	}

	conf, err := google.JWTConfigFromJSON(creds, sheets.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("unable to parse service account key: %w", err)
	}

	srv, err := sheets.NewService(ctx, option.WithHTTPClient(conf.Client(ctx)))
	if err != nil {
		return nil, fmt.Errorf("unable to create sheets service: %w", err)
	}

	return &Client{srv: srv, spreadsheetID: cfg.Sheets.SpreadsheetID}, nil
}

// Worksheet returns a Table view of one named worksheet. Handles are built
// once at startup and injected; a renamed worksheet needs a restart.
func (c *Client) Worksheet(title string) data.Table {
	return &worksheet{client: c, title: title}
}

type worksheet struct {
	client *Client
	title  string
}

func (w *worksheet) ReadAll(ctx context.Context) ([]string, []data.Record, error) {
	resp, err := w.client.srv.Spreadsheets.Values.Get(w.client.spreadsheetID, w.title).
		Context(ctx).Do()
	if err != nil {
		return nil, nil, fmt.Errorf("values get %q: %w", w.title, err)
	}

	if len(resp.Values) == 0 {
		return nil, nil, nil
	}

	header := make([]string, len(resp.Values[0]))
	for i, v := range resp.Values[0] {
		header[i] = data.Str(v)
	}

	rows := make([]data.Record, 0, len(resp.Values)-1)
	for _, raw := range resp.Values[1:] {
		row := data.Record{}
		for i, col := range header {
			if i < len(raw) {
				row[col] = raw[i]
			} else {
				row[col] = ""
			}
		}
		rows = append(rows, row)
	}
	return header, rows, nil
}

func (w *worksheet) Append(ctx context.Context, row []interface{}) error {
	vr := &sheets.ValueRange{Values: [][]interface{}{row}}
	_, err := w.client.srv.Spreadsheets.Values.Append(w.client.spreadsheetID, w.title, vr).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("values append %q: %w", w.title, err)
	}
	return nil
}

func (w *worksheet) UpdateCell(ctx context.Context, rowNum, colNum int, value interface{}) error {
	cell := fmt.Sprintf("%s!%s%d", w.title, columnLetters(colNum), rowNum)
	vr := &sheets.ValueRange{Values: [][]interface{}{{value}}}
	_, err := w.client.srv.Spreadsheets.Values.Update(w.client.spreadsheetID, cell, vr).
		ValueInputOption("USER_ENTERED").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("values update %q: %w", cell, err)
	}
	return nil
}

// columnLetters converts a 1-based column number to A1 notation (1 -> A,
// 27 -> AA).
func columnLetters(n int) string {
	letters := ""
	for n > 0 {
		n--
		letters = string(rune('A'+n%26)) + letters
		n /= 26
	}
	return letters
}

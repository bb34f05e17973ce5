package data

import (
	"context"
	"fmt"
)

// Record is one worksheet row keyed by its header column name.
type Record map[string]interface{}

// Table is a single worksheet of the backing spreadsheet. Row and column
// numbers are 1-based; row 1 is the header, data rows start at row 2.
type Table interface {
	// ReadAll returns the header row and every data row keyed by header.
	// Rows keep sheet order so that data row i maps to sheet row i+2.
	ReadAll(ctx context.Context) (header []string, rows []Record, err error)

	// Append adds one row after the last data row, in header column order.
	Append(ctx context.Context, row []interface{}) error

	// UpdateCell overwrites a single cell at the given coordinates.
	UpdateCell(ctx context.Context, rowNum, colNum int, value interface{}) error
}

// Str renders a cell value the way the sheet API hands it back: nil cells
// become "", everything else its string form.
func Str(v interface{}) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

func colIndex(header []string, name string) int {
	for i, h := range header {
		if h == name {
			return i
		}
	}
	return -1
}

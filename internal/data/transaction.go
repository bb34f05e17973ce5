package data

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

type Category string

const (
	CategorySpectrum  Category = "spectrum"
	CategoryInsurance Category = "insurance"
)

func ParseCategory(s string) (Category, error) {
	switch Category(s) {
	case CategorySpectrum, CategoryInsurance:
		return Category(s), nil
	}
	return "", ErrInvalidCategory
}

const (
	StatusPending    = "Pending"
	StatusCharged    = "Charged"
	StatusDeclined   = "Declined"
	StatusChargeBack = "Charge Back"
)

var (
	ErrInvalidCategory = errors.New("sheet must be 'spectrum' or 'insurance'")
	ErrRecordNotFound  = errors.New("record not found")
	ErrSchema          = errors.New("sheet missing required columns")
	ErrReload          = errors.New("unable to reload updated record")
)

// Fixed append order per category. The insurance sheet carries no Provider
// column; everything else matches position for position.
var spectrumColumns = []string{
	"Record_ID", "Agent Name", "Name", "Ph Number", "Address", "Email",
	"Card Holder Name", "Card Number", "Expiry Date", "CVC", "Charge",
	"LLC", "Provider", "Date of Charge", "Status", "Timestamp",
}

var insuranceColumns = []string{
	"Record_ID", "Agent Name", "Name", "Ph Number", "Address", "Email",
	"Card Holder Name", "Card Number", "Expiry Date", "CVC", "Charge",
	"LLC", "Date of Charge", "Status", "Timestamp",
}

// Resolved rows linger in the pending view this long for dashboard
// transition animations.
const retentionWindow = 5 * time.Minute

// TxnInput carries the agent-submitted lead fields for Create. Card number
// and expiry arrive raw and are normalized before they touch the sheet.
type TxnInput struct {
	AgentName      string
	Name           string
	PhNumber       string
	Address        string
	Email          string
	CardHolderName string
	CardNumber     string
	ExpiryDate     string
	CVC            int
	Charge         string
	LLC            string
	Provider       string
}

// TxnModel is the category-scoped store over the backing worksheet tables.
// It holds no state of its own; every operation is a fresh round-trip, and
// read-modify-write sequences are not atomic against concurrent writers
// (last write wins, same as the sheet itself).
type TxnModel struct {
	Tables map[Category]Table
	Loc    *time.Location

	// Now overrides the clock in tests. Leave nil in production.
	Now func() time.Time
}

func (t TxnModel) table(cat Category) (Table, error) {
	tbl, ok := t.Tables[cat]
	if !ok {
		return nil, ErrInvalidCategory
	}
	return tbl, nil
}

// naiveNow is "now" in the configured timezone with the zone dropped, so it
// compares directly against the naive timestamps stored in the sheet.
func (t TxnModel) naiveNow() time.Time {
	n := time.Now()
	if t.Now != nil {
		n = t.Now()
	}
	n = n.In(t.Loc)
	return time.Date(n.Year(), n.Month(), n.Day(), n.Hour(), n.Minute(), n.Second(), 0, time.UTC)
}

// loadDisplay reads a table and applies the display normalization the
// dashboard expects on the Expiry Date column.
func (t TxnModel) loadDisplay(cat Category) ([]string, []Record, error) {
	tbl, err := t.table(cat)
	if err != nil {
		return nil, nil, err
	}

	ctx, cancel := Handlectx()
	defer cancel()

	header, rows, err := tbl.ReadAll(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("read %s sheet: %w", cat, err)
	}

	if colIndex(header, "Expiry Date") >= 0 {
		for _, row := range rows {
			row["Expiry Date"] = displayExpiry(row["Expiry Date"])
		}
	}
	return header, rows, nil
}

// GetPending returns the rows an agent still has to act on. Rows resolved
// within the retention window survive the first filter stage, but the final
// stage keeps Pending rows only, so the window has no effect on the output
// of this call. Kept as-is from the dashboard's earlier soft-delete pass.
func (t TxnModel) GetPending(cat Category) ([]Record, error) {
	header, rows, err := t.loadDisplay(cat)
	if err != nil {
		return nil, err
	}

	if colIndex(header, "Timestamp") >= 0 {
		cutoff := t.naiveNow().Add(-retentionWindow)
		visible := rows[:0]
		for _, row := range rows {
			status := Str(row["Status"])
			if status == StatusPending {
				visible = append(visible, row)
				continue
			}
			if status == StatusCharged || status == StatusDeclined {
				if ts, ok := ParseTimestamp(row["Timestamp"]); ok && !ts.Before(cutoff) {
					visible = append(visible, row)
				}
			}
		}
		rows = visible
	}

	pending := make([]Record, 0, len(rows))
	for _, row := range rows {
		if Str(row["Status"]) == StatusPending {
			pending = append(pending, row)
		}
	}
	return pending, nil
}

// GetAll returns every row of the category's sheet, unfiltered.
func (t TxnModel) GetAll(cat Category) ([]Record, error) {
	_, rows, err := t.loadDisplay(cat)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// GetRecent returns rows stamped within the last `minutes` minutes,
// optionally narrowed to one agent. The agent match is case-sensitive but
// ignores surrounding whitespace on both sides. Rows whose timestamp does
// not parse are dropped.
func (t TxnModel) GetRecent(cat Category, minutes int, agentName string) ([]Record, error) {
	tbl, err := t.table(cat)
	if err != nil {
		return nil, err
	}

	ctx, cancel := Handlectx()
	defer cancel()

	header, rows, err := tbl.ReadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("read %s sheet: %w", cat, err)
	}

	if colIndex(header, "Timestamp") < 0 {
		return []Record{}, nil
	}

	cutoff := t.naiveNow().Add(-time.Duration(minutes) * time.Minute)
	agent := strings.TrimSpace(agentName)
	hasAgentCol := colIndex(header, "Agent Name") >= 0

	recent := make([]Record, 0, len(rows))
	for _, row := range rows {
		ts, ok := ParseTimestamp(row["Timestamp"])
		if !ok || ts.Before(cutoff) {
			continue
		}
		if agent != "" && hasAgentCol {
			if strings.TrimSpace(Str(row["Agent Name"])) != agent {
				continue
			}
		}
		recent = append(recent, row)
	}
	return recent, nil
}

// GetByID returns the first row whose Record_ID matches, or nil when no row
// does. A missing record is not an error at this layer.
func (t TxnModel) GetByID(cat Category, recordID string) (Record, error) {
	tbl, err := t.table(cat)
	if err != nil {
		return nil, err
	}

	ctx, cancel := Handlectx()
	defer cancel()

	_, rows, err := tbl.ReadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("read %s sheet: %w", cat, err)
	}

	recordID = strings.TrimSpace(recordID)
	for _, row := range rows {
		if strings.TrimSpace(Str(row["Record_ID"])) == recordID {
			return row, nil
		}
	}
	return nil, nil
}

var idDigits = regexp.MustCompile(`\d+`)

// nextRecordID scans every existing identifier for its first digit run and
// returns max+1, so gaps from manually removed rows are never refilled.
// An empty table (or one with no numeric identifiers) starts at "1".
func nextRecordID(rows []Record) string {
	max := 0
	found := false
	for _, row := range rows {
		m := idDigits.FindString(Str(row["Record_ID"]))
		if m == "" {
			continue
		}
		n, err := strconv.Atoi(m)
		if err != nil {
			continue
		}
		found = true
		if n > max {
			max = n
		}
	}
	if !found {
		return "1"
	}
	return strconv.Itoa(max + 1)
}

// Create appends a new Pending row and returns it as written. The returned
// record is zipped from the sheet header and the appended values, not read
// back, so it reflects exactly what went over the wire.
func (t TxnModel) Create(cat Category, in TxnInput) (Record, error) {
	tbl, err := t.table(cat)
	if err != nil {
		return nil, err
	}

	ctx, cancel := Handlectx()
	defer cancel()

	header, rows, err := tbl.ReadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("read %s sheet: %w", cat, err)
	}

	recordID := nextRecordID(rows)

	now := t.naiveNow()
	dateOfCharge := now.Format("2006-01-02")
	ts := now.Format("2006-01-02 03:04:05 PM")

	cardNumber := NormalizeCardNumber(in.CardNumber)
	expiry := NormalizeExpiry(in.ExpiryDate)

	row := []interface{}{
		recordID,
		in.AgentName,
		in.Name,
		in.PhNumber,
		in.Address,
		in.Email,
		in.CardHolderName,
		cardNumber,
		expiry,
		in.CVC,
		in.Charge,
		in.LLC,
	}
	if cat == CategorySpectrum {
		row = append(row, in.Provider)
	}
	row = append(row, dateOfCharge, StatusPending, ts)

	if err := tbl.Append(ctx, row); err != nil {
		return nil, fmt.Errorf("append %s row: %w", cat, err)
	}

	cols := header
	if len(cols) == 0 {
		cols = insuranceColumns
		if cat == CategorySpectrum {
			cols = spectrumColumns
		}
	}

	record := Record{}
	for i, col := range cols {
		if i >= len(row) {
			break
		}
		record[col] = row[i]
	}
	return record, nil
}

// UpdateStatus writes the Status cell of the matched row and nothing else.
func (t TxnModel) UpdateStatus(cat Category, recordID, newStatus string) error {
	tbl, err := t.table(cat)
	if err != nil {
		return err
	}

	ctx, cancel := Handlectx()
	defer cancel()

	header, rows, err := tbl.ReadAll(ctx)
	if err != nil {
		return fmt.Errorf("read %s sheet: %w", cat, err)
	}

	statusCol := colIndex(header, "Status")
	if len(rows) == 0 || colIndex(header, "Record_ID") < 0 || statusCol < 0 {
		return ErrSchema
	}

	idx := matchRecord(rows, recordID)
	if idx < 0 {
		return ErrRecordNotFound
	}

	if err := tbl.UpdateCell(ctx, idx+2, statusCol+1, newStatus); err != nil {
		return fmt.Errorf("update %s status: %w", cat, err)
	}
	return nil
}

// fieldMap translates the agent-facing update keys to sheet columns. Keys
// outside this map are ignored, as are columns the category's sheet lacks.
var fieldMap = []struct {
	key string
	col string
}{
	{"name", "Name"},
	{"ph_number", "Ph Number"},
	{"address", "Address"},
	{"email", "Email"},
	{"charge", "Charge"},
	{"llc", "LLC"},
	{"provider", "Provider"},
}

// UpdateFields writes each applicable update to its cell, then reloads the
// table and returns the freshly matched row. Unlike Create this reads back,
// so any transformation the backing store applies on write shows up here.
func (t TxnModel) UpdateFields(cat Category, recordID string, updates map[string]interface{}) (Record, error) {
	tbl, err := t.table(cat)
	if err != nil {
		return nil, err
	}

	ctx, cancel := Handlectx()
	defer cancel()

	header, rows, err := tbl.ReadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("read %s sheet: %w", cat, err)
	}

	if len(rows) == 0 || colIndex(header, "Record_ID") < 0 {
		return nil, ErrSchema
	}

	idx := matchRecord(rows, recordID)
	if idx < 0 {
		return nil, ErrRecordNotFound
	}
	rowNum := idx + 2

	for _, f := range fieldMap {
		value, ok := updates[f.key]
		if !ok {
			continue
		}
		col := colIndex(header, f.col)
		if col < 0 {
			continue
		}
		if value == nil {
			value = ""
		}
		if err := tbl.UpdateCell(ctx, rowNum, col+1, value); err != nil {
			return nil, fmt.Errorf("update %s %s: %w", cat, f.col, err)
		}
	}

	header, rows, err = tbl.ReadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("reload %s sheet: %w", cat, err)
	}
	if len(rows) == 0 || colIndex(header, "Record_ID") < 0 {
		return nil, ErrReload
	}

	idx = matchRecord(rows, recordID)
	if idx < 0 {
		return nil, ErrRecordNotFound
	}
	return rows[idx], nil
}

// NightChargedTotal sums the Charge of every row marked Charged inside the
// current night window (19:00 through 06:00, inclusive at both ends). An
// empty category sums both sheets.
func (t TxnModel) NightChargedTotal(cat Category) (float64, error) {
	var cats []Category
	switch cat {
	case CategorySpectrum:
		cats = []Category{CategorySpectrum}
	case CategoryInsurance:
		cats = []Category{CategoryInsurance}
	default:
		cats = []Category{CategorySpectrum, CategoryInsurance}
	}

	now := t.naiveNow()
	start, end := nightWindow(now)

	total := 0.0
	for _, c := range cats {
		tbl, err := t.table(c)
		if err != nil {
			return 0, err
		}

		ctx, cancel := Handlectx()
		header, rows, err := tbl.ReadAll(ctx)
		cancel()
		if err != nil {
			return 0, fmt.Errorf("read %s sheet: %w", c, err)
		}

		if colIndex(header, "Timestamp") < 0 || colIndex(header, "Status") < 0 || colIndex(header, "Charge") < 0 {
			continue
		}

		for _, row := range rows {
			if Str(row["Status"]) != StatusCharged {
				continue
			}
			ts, ok := ParseTimestamp(row["Timestamp"])
			if !ok {
				continue
			}
			if ts.Before(start) || ts.After(end) {
				continue
			}
			total += ChargeToFloat(row["Charge"])
		}
	}
	return total, nil
}

// nightWindow picks the reporting window around "tonight". The daytime and
// early-morning branches produce the same window; the split is kept so the
// 06:00-07:00 gap keeps resolving the way the dashboard always has.
func nightWindow(now time.Time) (start, end time.Time) {
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	tod := now.Sub(day)

	switch {
	case tod >= 7*time.Hour && tod < 19*time.Hour:
		start = day.AddDate(0, 0, -1).Add(19 * time.Hour)
		end = day.Add(6 * time.Hour)
	case tod >= 19*time.Hour:
		start = day.Add(19 * time.Hour)
		end = day.AddDate(0, 0, 1).Add(6 * time.Hour)
	default:
		start = day.AddDate(0, 0, -1).Add(19 * time.Hour)
		end = day.Add(6 * time.Hour)
	}
	return start, end
}

func matchRecord(rows []Record, recordID string) int {
	recordID = strings.TrimSpace(recordID)
	for i, row := range rows {
		if strings.TrimSpace(Str(row["Record_ID"])) == recordID {
			return i
		}
	}
	return -1
}

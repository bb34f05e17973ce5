package data

import (
	"context"
	"errors"
	"testing"
	"time"
)

type cellWrite struct {
	row, col int
	value    interface{}
}

// fakeTable is an in-memory worksheet with the same 1-based coordinate
// conventions as the real backing store.
type fakeTable struct {
	header  []string
	rows    [][]interface{}
	appends [][]interface{}
	writes  []cellWrite
	readErr error
}

func (f *fakeTable) ReadAll(_ context.Context) ([]string, []Record, error) {
	if f.readErr != nil {
		return nil, nil, f.readErr
	}
	records := make([]Record, 0, len(f.rows))
	for _, raw := range f.rows {
		row := Record{}
		for i, col := range f.header {
			if i < len(raw) {
				row[col] = raw[i]
			} else {
				row[col] = ""
			}
		}
		records = append(records, row)
	}
	return f.header, records, nil
}

func (f *fakeTable) Append(_ context.Context, row []interface{}) error {
	f.appends = append(f.appends, row)
	f.rows = append(f.rows, row)
	return nil
}

func (f *fakeTable) UpdateCell(_ context.Context, rowNum, colNum int, value interface{}) error {
	f.writes = append(f.writes, cellWrite{rowNum, colNum, value})
	f.rows[rowNum-2][colNum-1] = value
	return nil
}

func spectrumRow(id, agent, name, charge, status, ts string) []interface{} {
	return []interface{}{
		id, agent, name, "0300-1234567", "12 Main St", "c@example.com",
		name, "4111111111111111", "0934", 123, charge, "Acme LLC",
		"Spectrum Gold", "2025-03-10", status, ts,
	}
}

func testModel(tbl *fakeTable, now time.Time) TxnModel {
	return TxnModel{
		Tables: map[Category]Table{CategorySpectrum: tbl},
		Loc:    time.UTC,
		Now:    func() time.Time { return now },
	}
}

func TestParseCategory(t *testing.T) {
	if _, err := ParseCategory("spectrum"); err != nil {
		t.Errorf("spectrum should parse: %v", err)
	}
	if _, err := ParseCategory("insurance"); err != nil {
		t.Errorf("insurance should parse: %v", err)
	}
	if _, err := ParseCategory("crypto"); !errors.Is(err, ErrInvalidCategory) {
		t.Errorf("expected ErrInvalidCategory, got %v", err)
	}
}

func TestCreateAssignsFirstID(t *testing.T) {
	tbl := &fakeTable{header: spectrumColumns}
	model := testModel(tbl, time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC))

	record, err := model.Create(CategorySpectrum, TxnInput{AgentName: "Alice", Name: "Bob"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if got := Str(record["Record_ID"]); got != "1" {
		t.Errorf("Record_ID = %q, want \"1\" on empty table", got)
	}
	if got := Str(record["Status"]); got != StatusPending {
		t.Errorf("Status = %q, want Pending", got)
	}
}

func TestCreateSkipsNonNumericIDs(t *testing.T) {
	tbl := &fakeTable{header: spectrumColumns, rows: [][]interface{}{
		spectrumRow("3", "Alice", "A", "$10", StatusPending, "2025-03-10 11:00:00 AM"),
		spectrumRow("7", "Alice", "B", "$10", StatusPending, "2025-03-10 11:00:00 AM"),
		spectrumRow("X", "Alice", "C", "$10", StatusPending, "2025-03-10 11:00:00 AM"),
	}}
	model := testModel(tbl, time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC))

	record, err := model.Create(CategorySpectrum, TxnInput{AgentName: "Alice"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if got := Str(record["Record_ID"]); got != "8" {
		t.Errorf("Record_ID = %q, want \"8\" (max numeric + 1)", got)
	}
}

func TestCreateNormalizesCardAndTimes(t *testing.T) {
	tbl := &fakeTable{header: spectrumColumns}
	now := time.Date(2025, 3, 10, 14, 5, 9, 0, time.UTC)
	model := testModel(tbl, now)

	record, err := model.Create(CategorySpectrum, TxnInput{
		AgentName:  "Alice",
		CardNumber: "4111-1111 1111x1111",
		ExpiryDate: "9/34",
		Charge:     "$120",
		Provider:   "Spectrum Gold",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if got := Str(record["Card Number"]); got != "4111111111111111" {
		t.Errorf("Card Number = %q", got)
	}
	if got := Str(record["Expiry Date"]); got != "0934" {
		t.Errorf("Expiry Date = %q, want 0934", got)
	}
	if got := Str(record["Date of Charge"]); got != "2025-03-10" {
		t.Errorf("Date of Charge = %q", got)
	}
	if got := Str(record["Timestamp"]); got != "2025-03-10 02:05:09 PM" {
		t.Errorf("Timestamp = %q", got)
	}

	if len(tbl.appends) != 1 {
		t.Fatalf("expected 1 append, got %d", len(tbl.appends))
	}
	if got := len(tbl.appends[0]); got != len(spectrumColumns) {
		t.Errorf("appended %d cells, want %d", got, len(spectrumColumns))
	}
}

func TestCreateInsuranceOmitsProvider(t *testing.T) {
	tbl := &fakeTable{header: insuranceColumns}
	model := TxnModel{
		Tables: map[Category]Table{CategoryInsurance: tbl},
		Loc:    time.UTC,
		Now:    func() time.Time { return time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC) },
	}

	record, err := model.Create(CategoryInsurance, TxnInput{AgentName: "Alice", Provider: "ignored"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, ok := record["Provider"]; ok {
		t.Error("insurance record should have no Provider column")
	}
	if got := len(tbl.appends[0]); got != len(insuranceColumns) {
		t.Errorf("appended %d cells, want %d", got, len(insuranceColumns))
	}
}

func TestCreateThenGetByIDRoundTrip(t *testing.T) {
	tbl := &fakeTable{header: spectrumColumns}
	model := testModel(tbl, time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC))

	created, err := model.Create(CategorySpectrum, TxnInput{
		AgentName: "Alice", Name: "Bob", Charge: "$99", CVC: 321,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := model.GetByID(CategorySpectrum, Str(created["Record_ID"]))
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got == nil {
		t.Fatal("created record not found on re-read")
	}
	for _, col := range []string{"Record_ID", "Agent Name", "Name", "Charge", "CVC", "Status", "Timestamp"} {
		if Str(got[col]) != Str(created[col]) {
			t.Errorf("%s diverged on re-read: %q != %q", col, Str(got[col]), Str(created[col]))
		}
	}
}

func TestGetByIDMissingIsNotAnError(t *testing.T) {
	tbl := &fakeTable{header: spectrumColumns}
	model := testModel(tbl, time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC))

	got, err := model.GetByID(CategorySpectrum, "42")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil record, got %v", got)
	}
}

func TestGetPendingReturnsOnlyPending(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	tbl := &fakeTable{header: spectrumColumns, rows: [][]interface{}{
		spectrumRow("1", "Alice", "A", "$10", StatusPending, "2025-03-10 11:59:00 AM"),
		// resolved inside the retention window: survives the first filter
		// stage but must still be absent from the result
		spectrumRow("2", "Alice", "B", "$10", StatusCharged, "2025-03-10 11:58:00 AM"),
		spectrumRow("3", "Alice", "C", "$10", StatusDeclined, "2025-03-10 09:00:00 AM"),
		// pending with an unparsable timestamp is still pending
		spectrumRow("4", "Alice", "D", "$10", StatusPending, "garbage"),
		spectrumRow("5", "Alice", "E", "$10", StatusChargeBack, "2025-03-10 11:59:00 AM"),
	}}
	model := testModel(tbl, now)

	rows, err := model.GetPending(CategorySpectrum)
	if err != nil {
		t.Fatalf("GetPending: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 pending rows, got %d", len(rows))
	}
	for _, row := range rows {
		if Str(row["Status"]) != StatusPending {
			t.Errorf("non-pending row returned: %v", row["Record_ID"])
		}
	}
}

func TestGetAllAppliesExpiryDisplayNormalization(t *testing.T) {
	row := spectrumRow("1", "Alice", "A", "$10", StatusPending, "2025-03-10 11:00:00 AM")
	row[8] = "9/34"
	tbl := &fakeTable{header: spectrumColumns, rows: [][]interface{}{row}}
	model := testModel(tbl, time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC))

	rows, err := model.GetAll(CategorySpectrum)
	if err != nil {
		t.Fatalf("GetAll: %v", err)
	}
	if got := Str(rows[0]["Expiry Date"]); got != "0934" {
		t.Errorf("Expiry Date = %q, want 0934", got)
	}
}

func TestGetRecentWindowAndAgentFilter(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	tbl := &fakeTable{header: spectrumColumns, rows: [][]interface{}{
		spectrumRow("1", "Alice", "A", "$10", StatusPending, "2025-03-10 11:50:00 AM"),
		spectrumRow("2", " Alice ", "B", "$10", StatusPending, "2025-03-10 11:55:00 AM"),
		spectrumRow("3", "alice", "C", "$10", StatusPending, "2025-03-10 11:56:00 AM"),
		spectrumRow("4", "Alice", "D", "$10", StatusPending, "2025-03-10 11:00:00 AM"),
		spectrumRow("5", "Alice", "E", "$10", StatusPending, "unparsable"),
	}}
	model := testModel(tbl, now)

	rows, err := model.GetRecent(CategorySpectrum, 20, "Alice")
	if err != nil {
		t.Fatalf("GetRecent: %v", err)
	}

	ids := map[string]bool{}
	for _, row := range rows {
		ids[Str(row["Record_ID"])] = true
	}
	if !ids["1"] {
		t.Error("in-window exact match excluded")
	}
	if !ids["2"] {
		t.Error("whitespace-only difference should match after trimming")
	}
	if ids["3"] {
		t.Error("agent match must be case-sensitive")
	}
	if ids["4"] {
		t.Error("row outside the window returned")
	}
	if ids["5"] {
		t.Error("row with unparsable timestamp returned")
	}
}

func TestGetRecentNoAgentFilter(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	tbl := &fakeTable{header: spectrumColumns, rows: [][]interface{}{
		spectrumRow("1", "Alice", "A", "$10", StatusPending, "2025-03-10 11:50:00 AM"),
		spectrumRow("2", "Omar", "B", "$10", StatusCharged, "2025-03-10 11:55:00 AM"),
	}}
	model := testModel(tbl, now)

	rows, err := model.GetRecent(CategorySpectrum, 20, "")
	if err != nil {
		t.Fatalf("GetRecent: %v", err)
	}
	if len(rows) != 2 {
		t.Errorf("expected 2 rows without agent filter, got %d", len(rows))
	}
}

func TestUpdateStatusWritesOneCell(t *testing.T) {
	tbl := &fakeTable{header: spectrumColumns, rows: [][]interface{}{
		spectrumRow("1", "Alice", "A", "$10", StatusPending, "2025-03-10 11:00:00 AM"),
		spectrumRow("2", "Alice", "B", "$10", StatusPending, "2025-03-10 11:00:00 AM"),
	}}
	model := testModel(tbl, time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC))

	if err := model.UpdateStatus(CategorySpectrum, " 2 ", StatusCharged); err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}

	if len(tbl.writes) != 1 {
		t.Fatalf("expected exactly 1 cell write, got %d", len(tbl.writes))
	}
	w := tbl.writes[0]
	if w.row != 3 {
		t.Errorf("wrote row %d, want 3 (second data row)", w.row)
	}
	if w.col != colIndex(spectrumColumns, "Status")+1 {
		t.Errorf("wrote col %d, want Status column", w.col)
	}
	if Str(w.value) != StatusCharged {
		t.Errorf("wrote %v, want Charged", w.value)
	}
}

func TestUpdateStatusRecordNotFound(t *testing.T) {
	tbl := &fakeTable{header: spectrumColumns, rows: [][]interface{}{
		spectrumRow("1", "Alice", "A", "$10", StatusPending, "2025-03-10 11:00:00 AM"),
	}}
	model := testModel(tbl, time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC))

	err := model.UpdateStatus(CategorySpectrum, "99", StatusCharged)
	if !errors.Is(err, ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound, got %v", err)
	}
	if len(tbl.writes) != 0 {
		t.Errorf("no write should happen for a missing record, got %d", len(tbl.writes))
	}
}

func TestUpdateStatusSchemaError(t *testing.T) {
	tbl := &fakeTable{header: []string{"Something", "Else"}, rows: [][]interface{}{{"a", "b"}}}
	model := testModel(tbl, time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC))

	if err := model.UpdateStatus(CategorySpectrum, "1", StatusCharged); !errors.Is(err, ErrSchema) {
		t.Fatalf("expected ErrSchema, got %v", err)
	}
}

func TestUpdateFieldsWritesAndReloads(t *testing.T) {
	tbl := &fakeTable{header: spectrumColumns, rows: [][]interface{}{
		spectrumRow("1", "Alice", "A", "$10", StatusPending, "2025-03-10 11:00:00 AM"),
	}}
	model := testModel(tbl, time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC))

	record, err := model.UpdateFields(CategorySpectrum, "1", map[string]interface{}{
		"name":     "Bobby",
		"charge":   "$55",
		"bogus":    "ignored",
		"provider": nil,
	})
	if err != nil {
		t.Fatalf("UpdateFields: %v", err)
	}

	// name, charge, provider applied; bogus silently skipped
	if len(tbl.writes) != 3 {
		t.Fatalf("expected 3 cell writes, got %d", len(tbl.writes))
	}
	if got := Str(record["Name"]); got != "Bobby" {
		t.Errorf("reloaded Name = %q, want Bobby", got)
	}
	if got := Str(record["Charge"]); got != "$55" {
		t.Errorf("reloaded Charge = %q, want $55", got)
	}
	if got := Str(record["Provider"]); got != "" {
		t.Errorf("nil update should blank the cell, got %q", got)
	}
}

func TestUpdateFieldsSkipsMissingColumn(t *testing.T) {
	tbl := &fakeTable{header: insuranceColumns, rows: [][]interface{}{
		{"1", "Alice", "A", "0300", "addr", "a@b.c", "A", "4111", "0934", 1, "$10", "LLC", "2025-03-10", StatusPending, "2025-03-10 11:00:00 AM"},
	}}
	model := TxnModel{
		Tables: map[Category]Table{CategoryInsurance: tbl},
		Loc:    time.UTC,
		Now:    func() time.Time { return time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC) },
	}

	_, err := model.UpdateFields(CategoryInsurance, "1", map[string]interface{}{
		"provider": "no such column here",
		"name":     "Bobby",
	})
	if err != nil {
		t.Fatalf("UpdateFields: %v", err)
	}
	if len(tbl.writes) != 1 {
		t.Errorf("provider update on insurance must be skipped; got %d writes", len(tbl.writes))
	}
}

func TestUpdateFieldsRecordNotFound(t *testing.T) {
	tbl := &fakeTable{header: spectrumColumns, rows: [][]interface{}{
		spectrumRow("1", "Alice", "A", "$10", StatusPending, "2025-03-10 11:00:00 AM"),
	}}
	model := testModel(tbl, time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC))

	if _, err := model.UpdateFields(CategorySpectrum, "42", map[string]interface{}{"name": "x"}); !errors.Is(err, ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound, got %v", err)
	}
	if len(tbl.writes) != 0 {
		t.Errorf("no writes expected, got %d", len(tbl.writes))
	}
}

func TestNightChargedTotalEarlyMorning(t *testing.T) {
	// 03:00: window is yesterday 19:00 through today 06:00
	now := time.Date(2025, 3, 10, 3, 0, 0, 0, time.UTC)
	tbl := &fakeTable{header: spectrumColumns, rows: [][]interface{}{
		spectrumRow("1", "Alice", "A", "$100", StatusCharged, "2025-03-09 09:00:00 PM"),
		spectrumRow("2", "Alice", "B", "$50.50", StatusCharged, "2025-03-10 05:59:00 AM"),
		spectrumRow("3", "Alice", "C", "$999", StatusCharged, "2025-03-09 06:00:00 PM"), // before window
		spectrumRow("4", "Alice", "D", "$999", StatusCharged, "2025-03-10 07:00:00 AM"), // after window
		spectrumRow("5", "Alice", "E", "$999", StatusPending, "2025-03-09 09:30:00 PM"), // wrong status
		spectrumRow("6", "Alice", "F", "$999", StatusCharged, "garbage"),                // bad timestamp
		spectrumRow("7", "Alice", "G", "abc", StatusCharged, "2025-03-09 10:00:00 PM"),  // bad charge counts as 0
	}}
	model := testModel(tbl, now)

	total, err := model.NightChargedTotal(CategorySpectrum)
	if err != nil {
		t.Fatalf("NightChargedTotal: %v", err)
	}
	if total != 150.50 {
		t.Errorf("total = %v, want 150.50", total)
	}
}

func TestNightChargedTotalEvening(t *testing.T) {
	// 20:00: window is today 19:00 through tomorrow 06:00
	now := time.Date(2025, 3, 10, 20, 0, 0, 0, time.UTC)
	tbl := &fakeTable{header: spectrumColumns, rows: [][]interface{}{
		spectrumRow("1", "Alice", "A", "$200", StatusCharged, "2025-03-10 09:00:00 PM"),
		spectrumRow("2", "Alice", "B", "$999", StatusCharged, "2025-03-10 02:00:00 PM"), // before window
		spectrumRow("3", "Alice", "C", "$25", StatusCharged, "2025-03-11 05:00:00 AM"),
	}}
	model := testModel(tbl, now)

	total, err := model.NightChargedTotal(CategorySpectrum)
	if err != nil {
		t.Fatalf("NightChargedTotal: %v", err)
	}
	if total != 225.0 {
		t.Errorf("total = %v, want 225.0", total)
	}
}

func TestNightChargedTotalBothCategories(t *testing.T) {
	now := time.Date(2025, 3, 10, 3, 0, 0, 0, time.UTC)
	spectrum := &fakeTable{header: spectrumColumns, rows: [][]interface{}{
		spectrumRow("1", "Alice", "A", "$100", StatusCharged, "2025-03-09 09:00:00 PM"),
	}}
	insurance := &fakeTable{header: insuranceColumns, rows: [][]interface{}{
		{"1", "Omar", "B", "0300", "addr", "a@b.c", "B", "4111", "0934", 1, "$40", "LLC", "2025-03-09", StatusCharged, "2025-03-09 11:00:00 PM"},
	}}
	model := TxnModel{
		Tables: map[Category]Table{CategorySpectrum: spectrum, CategoryInsurance: insurance},
		Loc:    time.UTC,
		Now:    func() time.Time { return now },
	}

	total, err := model.NightChargedTotal("")
	if err != nil {
		t.Fatalf("NightChargedTotal: %v", err)
	}
	if total != 140.0 {
		t.Errorf("total = %v, want 140.0", total)
	}
}

func TestInvalidCategorySurfaces(t *testing.T) {
	model := testModel(&fakeTable{header: spectrumColumns}, time.Now())

	if _, err := model.GetAll("crypto"); !errors.Is(err, ErrInvalidCategory) {
		t.Errorf("GetAll: expected ErrInvalidCategory, got %v", err)
	}
	if _, err := model.Create("crypto", TxnInput{}); !errors.Is(err, ErrInvalidCategory) {
		t.Errorf("Create: expected ErrInvalidCategory, got %v", err)
	}
	if err := model.UpdateStatus("crypto", "1", StatusCharged); !errors.Is(err, ErrInvalidCategory) {
		t.Errorf("UpdateStatus: expected ErrInvalidCategory, got %v", err)
	}
}

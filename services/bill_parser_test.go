package services

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"contractorbill/testhelpers"
)

func TestParseBillBytes_FullWorkbook(t *testing.T) {
	workbook := testhelpers.BuildWorkbook(t,
		testhelpers.Sheet{Name: TitleSheetName, Rows: [][]any{
			{"Name of Work", "Road Widening"},
			{"Agency", "ABC Corp"},
			{"Date of Bill", 45366}, // 2024-03-15
			{"Tender Premium", "4%"},
		}},
		testhelpers.Sheet{Name: QuantitySheetName, Rows: [][]any{
			{"Item No", "Description", "Unit", "Qty", "Rate", "Prev Qty"},
			{"1.0", "Earthwork", "cum", 10, 100, 2},
			{"a", "Hard rock", "cum", 5, 50},
			{"b", "", "cum", 5, 50},
			{"c", "Not executed, no rate", "cum", 0, 0},
			{"2.0", "Rate only", "nos", "", 75},
		}},
	)

	bill, err := ParseBillBytes(workbook)
	if err != nil {
		t.Fatalf("ParseBillBytes: %v", err)
	}

	p := bill.ProjectDetails
	if p.ProjectName != "Road Widening" || p.ContractorName != "ABC Corp" {
		t.Errorf("project = %+v", p)
	}
	if p.TenderPremium != 4 {
		t.Errorf("premium = %v, want 4", p.TenderPremium)
	}
	if !p.BillDate.Equal(time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("bill date = %v, want 2024-03-15", p.BillDate)
	}

	want := []struct {
		itemNo string
		level  ItemLevel
		qty    float64
		rate   float64
		prev   float64
	}{
		{"1.0", LevelMain, 10, 100, 2},
		{"a", LevelSub, 5, 50, 0},
		// "2.0" follows the filtered-out "c", so it is classified as a restart.
		{"2.0", LevelSubSub, 0, 75, 0},
	}
	if len(bill.Items) != len(want) {
		t.Fatalf("items = %d, want %d: %+v", len(bill.Items), len(want), bill.Items)
	}
	for i, w := range want {
		got := bill.Items[i]
		if got.ItemNo != w.itemNo || got.Level != w.level || got.Quantity != w.qty || got.Rate != w.rate || got.PreviousQty != w.prev {
			t.Errorf("item %d = %+v, want %+v", i, got, w)
		}
	}
}

func TestParseBillBytes_Aliases(t *testing.T) {
	workbook := testhelpers.BuildWorkbook(t,
		testhelpers.Sheet{Name: TitleSheetName, Rows: [][]any{
			{"Project Name", "Canal Lining"},
			{"Contractor", "XYZ Infra"},
			{"Date", "05/01/2024"},
		}},
		testhelpers.Sheet{Name: QuantitySheetName, Rows: [][]any{
			{"S.No", "Particulars", "Quantity", "Rate", "Unit"},
			{"1", "Lining", "12 sqm", 30, "sqm"},
		}},
	)

	bill, err := ParseBillBytes(workbook)
	if err != nil {
		t.Fatalf("ParseBillBytes: %v", err)
	}
	if bill.ProjectDetails.ProjectName != "Canal Lining" || bill.ProjectDetails.ContractorName != "XYZ Infra" {
		t.Errorf("project = %+v", bill.ProjectDetails)
	}
	if got := FormatBillDate(bill.ProjectDetails.BillDate); got != "05/01/2024" {
		t.Errorf("bill date = %s, want 05/01/2024", got)
	}
	if bill.ProjectDetails.TenderPremium != 0 {
		t.Errorf("premium = %v, want 0 when absent", bill.ProjectDetails.TenderPremium)
	}
	if len(bill.Items) != 1 {
		t.Fatalf("items = %d, want 1", len(bill.Items))
	}
	item := bill.Items[0]
	if item.Description != "Lining" || item.Quantity != 12 || item.Unit != "sqm" {
		t.Errorf("item = %+v", item)
	}
}

func TestParseBillBytes_FirstNonEmptyAliasWins(t *testing.T) {
	workbook := testhelpers.BuildWorkbook(t,
		testhelpers.Sheet{Name: QuantitySheetName, Rows: [][]any{
			{"Item", "Item No", "Description", "Qty", "Rate"},
			{"fallback", "", "Work", 1, 1},
			{"ignored", "7", "Work", 1, 1},
		}},
	)
	bill, err := ParseBillBytes(workbook)
	if err != nil {
		t.Fatalf("ParseBillBytes: %v", err)
	}
	if len(bill.Items) != 2 {
		t.Fatalf("items = %d, want 2", len(bill.Items))
	}
	if bill.Items[0].ItemNo != "fallback" || bill.Items[1].ItemNo != "7" {
		t.Errorf("item numbers = %q, %q", bill.Items[0].ItemNo, bill.Items[1].ItemNo)
	}
}

func TestParseBill_MissingSheets(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	workbook := testhelpers.BuildWorkbook(t,
		testhelpers.Sheet{Name: "Notes", Rows: [][]any{{"nothing here"}}},
	)

	bill, err := parseBill(bytesReader(workbook), now)
	if err != nil {
		t.Fatalf("parseBill: %v", err)
	}
	if bill.ProjectDetails.ProjectName != "" || bill.ProjectDetails.ContractorName != "" {
		t.Errorf("project = %+v, want empty", bill.ProjectDetails)
	}
	if !bill.ProjectDetails.BillDate.Equal(now) {
		t.Errorf("bill date = %v, want parse time", bill.ProjectDetails.BillDate)
	}
	if bill.Items == nil || len(bill.Items) != 0 {
		t.Errorf("items = %#v, want empty list", bill.Items)
	}
}

func TestParseBill_UnparseableDateUsesNow(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	workbook := testhelpers.BuildWorkbook(t,
		testhelpers.Sheet{Name: TitleSheetName, Rows: [][]any{
			{"Date of Bill", "sometime soon"},
		}},
	)
	bill, err := parseBill(bytesReader(workbook), now)
	if err != nil {
		t.Fatalf("parseBill: %v", err)
	}
	if !bill.ProjectDetails.BillDate.Equal(now) {
		t.Errorf("bill date = %v, want %v", bill.ProjectDetails.BillDate, now)
	}
}

func TestParseBillBytes_NotAWorkbook(t *testing.T) {
	_, err := ParseBillBytes([]byte("definitely not a spreadsheet"))
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("err = %v, want *ParseError", err)
	}
	if pe.Op != "open workbook" || pe.Unwrap() == nil {
		t.Errorf("parse error = %+v", pe)
	}
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		input string
		want  float64
	}{
		{"", 0},
		{"12", 12},
		{" 2.5 ", 2.5},
		{"4%", 4},
		{"12 nos", 12},
		{"-3", -3},
		{"1e3", 1000},
		{"abc", 0},
		{"NaN", 0},
		{"Inf", 0},
	}
	for _, tt := range tests {
		if got := parseNumber(tt.input); got != tt.want {
			t.Errorf("parseNumber(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestExcelSerialToTime(t *testing.T) {
	tests := []struct {
		serial float64
		want   time.Time
	}{
		{25569, time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC)},
		{45366, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)},
		{45366.5, time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		if got := excelSerialToTime(tt.serial); !got.Equal(tt.want) {
			t.Errorf("excelSerialToTime(%v) = %v, want %v", tt.serial, got, tt.want)
		}
	}
}

func TestParseBill_OutOfRangeDateUsesNow(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	for _, raw := range []any{99999999999, -99999999, "1e300"} {
		workbook := testhelpers.BuildWorkbook(t,
			testhelpers.Sheet{Name: TitleSheetName, Rows: [][]any{
				{"Date of Bill", raw},
			}},
		)
		bill, err := parseBill(bytesReader(workbook), now)
		if err != nil {
			t.Fatalf("parseBill(%v): %v", raw, err)
		}
		if !bill.ProjectDetails.BillDate.Equal(now) {
			t.Errorf("date %v parsed as %v, want %v", raw, bill.ProjectDetails.BillDate, now)
		}
		if _, err := json.Marshal(bill); err != nil {
			t.Errorf("date %v: marshal parsed bill: %v", raw, err)
		}
	}
}

func TestParseBillDate_Bounds(t *testing.T) {
	tests := []struct {
		raw    string
		wantOK bool
	}{
		{"2958465", true},  // 9999-12-31
		{"2958466", false}, // 10000-01-01
		{"-693593", true},  // 0001-01-01
		{"-693594", false}, // year 0
		{"NaN", false},
	}
	for _, tt := range tests {
		if _, ok := parseBillDate(tt.raw); ok != tt.wantOK {
			t.Errorf("parseBillDate(%q) ok = %v, want %v", tt.raw, ok, tt.wantOK)
		}
	}
}

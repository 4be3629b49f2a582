package services

import (
	"bytes"
	"io"
	"math"
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/spf13/cast"
	"github.com/xuri/excelize/v2"
)

// Sheet names read from an uploaded bill workbook.
const (
	TitleSheetName    = "Title"
	QuantitySheetName = "Bill Quantity"
)

// Serials outside these bounds fall outside years 1..9999 and are treated as
// unparseable dates.
const (
	minExcelSerial = -693593   // 0001-01-01
	maxExcelSerial = 2958465.0 // 9999-12-31
)

// excelEpochOffsetDays is the number of days between the spreadsheet epoch
// (1899-12-30) and the Unix epoch.
const excelEpochOffsetDays = 25569

// Accepted spellings per field, tried in order; the first non-empty match wins.
var (
	projectNameKeys    = []string{"Name of Work", "Project Name"}
	contractorNameKeys = []string{"Agency", "Contractor"}
	billDateKeys       = []string{"Date of Bill", "Date"}
	tenderPremiumKeys  = []string{"Tender Premium"}

	itemNoColumns      = []string{"Item No", "S.No", "Item"}
	descriptionColumns = []string{"Description", "Particulars"}
	quantityColumns    = []string{"Qty", "Quantity"}
	rateColumns        = []string{"Rate"}
	unitColumns        = []string{"Unit"}
	previousQtyColumns = []string{"Prev Qty"}
)

// textDateLayouts are tried, in order, when a bill date is text that cast
// does not recognise.
var textDateLayouts = []string{
	"02/01/2006",
	"2/1/2006",
	"02-01-2006",
	"02.01.2006",
	"2 January 2006",
	"January 2, 2006",
}

var leadingNumber = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)

// ParsedBill is the project header and item list recovered from a workbook.
type ParsedBill struct {
	ProjectDetails ProjectDetails `json:"projectDetails"`
	Items          []BillItem     `json:"items"`
}

// ParseBillFile reads a bill workbook. Project details come from the "Title"
// sheet and items from the "Bill Quantity" sheet; either sheet may be absent.
// A stream that is not a readable workbook yields a *ParseError.
func ParseBillFile(r io.Reader) (*ParsedBill, error) {
	return parseBill(r, time.Now())
}

// ParseBillBytes is ParseBillFile over an in-memory buffer.
func ParseBillBytes(b []byte) (*ParsedBill, error) {
	return ParseBillFile(bytes.NewReader(b))
}

func parseBill(r io.Reader, now time.Time) (*ParsedBill, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, &ParseError{Op: "open workbook", Err: err}
	}
	defer f.Close()

	result := &ParsedBill{
		ProjectDetails: ProjectDetails{BillDate: now},
		Items:          []BillItem{},
	}
	sheets := f.GetSheetList()

	if slices.Contains(sheets, TitleSheetName) {
		rows, err := f.GetRows(TitleSheetName, excelize.Options{RawCellValue: true})
		if err != nil {
			return nil, &ParseError{Op: "read sheet " + TitleSheetName, Err: err}
		}
		result.ProjectDetails = parseTitleRows(rows, now)
	}

	if slices.Contains(sheets, QuantitySheetName) {
		rows, err := f.GetRows(QuantitySheetName, excelize.Options{RawCellValue: true})
		if err != nil {
			return nil, &ParseError{Op: "read sheet " + QuantitySheetName, Err: err}
		}
		result.Items = parseQuantityRows(rows)
	}

	return result, nil
}

// parseTitleRows reads key/value pairs from the first two columns.
func parseTitleRows(rows [][]string, now time.Time) ProjectDetails {
	values := make(map[string]string)
	for _, row := range rows {
		if len(row) < 2 {
			continue
		}
		key := strings.TrimSpace(row[0])
		if key == "" || row[1] == "" {
			continue
		}
		values[key] = row[1]
	}

	details := ProjectDetails{
		ProjectName:    firstValue(values, projectNameKeys),
		ContractorName: firstValue(values, contractorNameKeys),
		BillDate:       now,
		TenderPremium:  parseNumber(firstValue(values, tenderPremiumKeys)),
	}
	if raw := firstValue(values, billDateKeys); raw != "" {
		if t, ok := parseBillDate(raw); ok {
			details.BillDate = t
		}
	}
	return details
}

// parseQuantityRows treats the first row as column headers. Levels are
// classified over the rows in file order before rows without a description,
// or with neither quantity nor rate, are dropped.
func parseQuantityRows(rows [][]string) []BillItem {
	items := []BillItem{}
	if len(rows) == 0 {
		return items
	}

	columns := indexHeaders(rows[0])
	var candidates []BillItem
	for _, row := range rows[1:] {
		if isBlankRow(row) {
			continue
		}
		cell := func(aliases []string) string {
			return firstCell(row, columns, aliases)
		}
		candidates = append(candidates, BillItem{
			ItemNo:      cell(itemNoColumns),
			Description: cell(descriptionColumns),
			Quantity:    parseNumber(cell(quantityColumns)),
			Rate:        parseNumber(cell(rateColumns)),
			Unit:        cell(unitColumns),
			PreviousQty: parseNumber(cell(previousQtyColumns)),
		})
	}

	for _, item := range AssignLevels(candidates) {
		if item.Description != "" && (item.Quantity > 0 || item.Rate > 0) {
			items = append(items, item)
		}
	}
	return items
}

// indexHeaders maps each trimmed header to its first column index.
func indexHeaders(headers []string) map[string]int {
	index := make(map[string]int, len(headers))
	for i, h := range headers {
		key := strings.TrimSpace(h)
		if key == "" {
			continue
		}
		if _, seen := index[key]; !seen {
			index[key] = i
		}
	}
	return index
}

// firstCell returns the first non-empty cell among the aliased columns.
func firstCell(row []string, columns map[string]int, aliases []string) string {
	for _, alias := range aliases {
		i, ok := columns[alias]
		if !ok || i >= len(row) {
			continue
		}
		if v := strings.TrimSpace(row[i]); v != "" {
			return v
		}
	}
	return ""
}

func firstValue(values map[string]string, keys []string) string {
	for _, k := range keys {
		if v := strings.TrimSpace(values[k]); v != "" {
			return v
		}
	}
	return ""
}

func isBlankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// parseNumber reads the leading number of s, so "4%" is 4 and "12 nos" is 12.
// Anything without a leading number, or a non-finite result, is 0.
func parseNumber(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	v, err := cast.ToFloat64E(s)
	if err != nil {
		m := leadingNumber.FindString(s)
		if m == "" {
			return 0
		}
		if v, err = cast.ToFloat64E(m); err != nil {
			return 0
		}
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// parseBillDate accepts a spreadsheet serial day number or date text.
func parseBillDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if serial, err := cast.ToFloat64E(raw); err == nil {
		if math.IsNaN(serial) || serial < minExcelSerial || serial >= maxExcelSerial+1 {
			return time.Time{}, false
		}
		return excelSerialToTime(serial), true
	}
	if t, err := cast.ToTimeE(raw); err == nil {
		return t, inYearRange(t)
	}
	for _, layout := range textDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// inYearRange reports whether t can be encoded as a JSON timestamp.
func inYearRange(t time.Time) bool {
	y := t.Year()
	return y >= 1 && y <= 9999
}

// excelSerialToTime converts a serial day count (day 0 = 1899-12-30) to UTC.
func excelSerialToTime(serial float64) time.Time {
	seconds := math.Round((serial - excelEpochOffsetDays) * 86400)
	return time.Unix(int64(seconds), 0).UTC()
}

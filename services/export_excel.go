package services

import (
	"bytes"
	"fmt"
	"math"

	"github.com/xuri/excelize/v2"
)

// BillSheetName is the worksheet holding the rendered bill.
const BillSheetName = "Bill Summary"

// Fill colours shared by the spreadsheet and HTML renderers.
const (
	headerFill     = "#F0F0F0"
	grandTotalFill = "#E8F5E9"
	premiumFill    = "#FFF3E0"
	netPayableFill = "#C8E6C9"
)

// Spreadsheet layout: title block in rows 1-5, a spacer, the header row, then
// the items.
const (
	titleRow     = 1
	tableHeadRow = 7
	firstItemRow = 8
)

// numFmtTwoDecimals is the built-in "0.00" number format.
const numFmtTwoDecimals = 2

// paperSizeA4 is the OOXML paper size code for A4.
const paperSizeA4 = 9

// excelStyles holds the style IDs registered on a workbook.
type excelStyles struct {
	title     int
	info      int
	header    int
	text      int
	number    int
	summary   map[SummaryKind]int
	summaryNo map[SummaryKind]int
}

// GenerateExcel renders the bill as an xlsx workbook and returns its bytes.
func GenerateExcel(data ExportData) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	defaultSheet := f.GetSheetName(0)
	if err := f.SetSheetName(defaultSheet, BillSheetName); err != nil {
		return nil, fmt.Errorf("set sheet name: %w", err)
	}
	sheet := BillSheetName
	lastCol := columnName(len(Columns))

	for i, w := range ColumnWidths {
		col := columnName(i + 1)
		if err := f.SetColWidth(sheet, col, col, w); err != nil {
			return nil, fmt.Errorf("set col width %s: %w", col, err)
		}
	}

	styles, err := newExcelStyles(f)
	if err != nil {
		return nil, err
	}

	// ── Title block ─────────────────────────────────────────────────────

	if err := f.MergeCell(sheet, cellName(1, titleRow), cellName(len(Columns), titleRow)); err != nil {
		return nil, fmt.Errorf("merge title: %w", err)
	}
	f.SetCellValue(sheet, cellName(1, titleRow), DocumentTitle)
	f.SetCellStyle(sheet, "A1", lastCol+"1", styles.title)

	for i, field := range data.HeaderFields() {
		row := titleRow + 1 + i
		f.SetCellValue(sheet, cellName(1, row), field[0])
		f.SetCellValue(sheet, cellName(2, row), sanitizeExcelCell(field[1]))
		f.SetCellStyle(sheet, cellName(1, row), cellName(2, row), styles.info)
	}

	// ── Column headers ──────────────────────────────────────────────────

	for i, h := range Columns {
		f.SetCellValue(sheet, cellName(i+1, tableHeadRow), h)
	}
	f.SetCellStyle(sheet, cellName(1, tableHeadRow), cellName(len(Columns), tableHeadRow), styles.header)

	// ── Item rows ───────────────────────────────────────────────────────

	row := firstItemRow
	for _, r := range data.Rows {
		f.SetCellValue(sheet, cellName(colUnit+1, row), sanitizeExcelCell(r.Unit))
		setNumber(f, sheet, cellName(colPreviousQty+1, row), r.PreviousQty)
		setNumber(f, sheet, cellName(colQuantity+1, row), r.Quantity)
		f.SetCellValue(sheet, cellName(colItemNo+1, row), sanitizeExcelCell(r.ItemNo))
		f.SetCellValue(sheet, cellName(colDescription+1, row), sanitizeExcelCell(r.IndentedDescription()))
		setNumber(f, sheet, cellName(colRate+1, row), r.Rate)
		setNumber(f, sheet, cellName(colAmount+1, row), r.Amount)
		setNumber(f, sheet, cellName(colSincePrev+1, row), 0)
		f.SetCellValue(sheet, cellName(colRemarks+1, row), "")

		f.SetCellStyle(sheet, cellName(1, row), cellName(colRate, row), styles.text)
		f.SetCellStyle(sheet, cellName(colRate+1, row), cellName(colSincePrev+1, row), styles.number)
		f.SetCellStyle(sheet, cellName(colRemarks+1, row), cellName(colRemarks+1, row), styles.text)
		row++
	}

	// ── Summary rows ────────────────────────────────────────────────────

	// Skip a blank row.
	row++

	for _, s := range data.SummaryRows() {
		f.SetCellValue(sheet, cellName(colDescription+1, row), s.Label)
		setNumber(f, sheet, cellName(colAmount+1, row), s.Amount)
		setNumber(f, sheet, cellName(colSincePrev+1, row), s.Amount)

		f.SetCellStyle(sheet, cellName(1, row), cellName(colRate, row), styles.summary[s.Kind])
		f.SetCellStyle(sheet, cellName(colRate+1, row), cellName(colSincePrev+1, row), styles.summaryNo[s.Kind])
		f.SetCellStyle(sheet, cellName(colRemarks+1, row), cellName(colRemarks+1, row), styles.summary[s.Kind])
		row++
	}

	// ── Page setup ──────────────────────────────────────────────────────

	if err := setA4Portrait(f, sheet); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write excel: %w", err)
	}
	return buf.Bytes(), nil
}

// newExcelStyles registers every style the bill sheet uses.
func newExcelStyles(f *excelize.File) (*excelStyles, error) {
	font := func(bold bool, size float64) *excelize.Font {
		return &excelize.Font{Family: "Calibri", Size: size, Bold: bold, Color: "#000000"}
	}
	left := &excelize.Alignment{Horizontal: "left", Vertical: "top", WrapText: true}
	right := &excelize.Alignment{Horizontal: "right", Vertical: "center"}
	fill := func(color string) excelize.Fill {
		return excelize.Fill{Type: "pattern", Color: []string{color}, Pattern: 1}
	}

	s := &excelStyles{
		summary:   make(map[SummaryKind]int, 3),
		summaryNo: make(map[SummaryKind]int, 3),
	}
	var err error

	if s.title, err = f.NewStyle(&excelize.Style{
		Font:      font(true, 12),
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    thinBorders(),
	}); err != nil {
		return nil, fmt.Errorf("create title style: %w", err)
	}

	if s.info, err = f.NewStyle(&excelize.Style{
		Font:      font(false, 9),
		Alignment: left,
		Border:    thinBorders(),
	}); err != nil {
		return nil, fmt.Errorf("create info style: %w", err)
	}

	// Column header style: bold on light gray, centred and wrapped.
	if s.header, err = f.NewStyle(&excelize.Style{
		Font:      font(true, 9),
		Fill:      fill(headerFill),
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
		Border:    thinBorders(),
	}); err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}

	if s.text, err = f.NewStyle(&excelize.Style{
		Font:      font(false, 9),
		Alignment: left,
		Border:    thinBorders(),
	}); err != nil {
		return nil, fmt.Errorf("create text style: %w", err)
	}

	if s.number, err = f.NewStyle(&excelize.Style{
		Font:      font(false, 9),
		Alignment: right,
		Border:    thinBorders(),
		NumFmt:    numFmtTwoDecimals,
	}); err != nil {
		return nil, fmt.Errorf("create number style: %w", err)
	}

	fills := []struct {
		kind  SummaryKind
		color string
	}{
		{SummaryGrandTotal, grandTotalFill},
		{SummaryPremium, premiumFill},
		{SummaryNetPayable, netPayableFill},
	}
	for _, sf := range fills {
		kind, color := sf.kind, sf.color
		if s.summary[kind], err = f.NewStyle(&excelize.Style{
			Font:      font(true, 9),
			Fill:      fill(color),
			Alignment: left,
			Border:    thinBorders(),
		}); err != nil {
			return nil, fmt.Errorf("create summary style: %w", err)
		}
		if s.summaryNo[kind], err = f.NewStyle(&excelize.Style{
			Font:      font(true, 9),
			Fill:      fill(color),
			Alignment: right,
			Border:    thinBorders(),
			NumFmt:    numFmtTwoDecimals,
		}); err != nil {
			return nil, fmt.Errorf("create summary amount style: %w", err)
		}
	}

	return s, nil
}

// setA4Portrait configures A4 portrait printing scaled to a single page.
func setA4Portrait(f *excelize.File, sheet string) error {
	size := paperSizeA4
	orientation := "portrait"
	one := 1
	fitToPage := true
	margin := 0.5
	zero := 0.0

	if err := f.SetSheetProps(sheet, &excelize.SheetPropsOptions{FitToPage: &fitToPage}); err != nil {
		return fmt.Errorf("set fit to page: %w", err)
	}
	if err := f.SetPageLayout(sheet, &excelize.PageLayoutOptions{
		Size:        &size,
		Orientation: &orientation,
		FitToHeight: &one,
		FitToWidth:  &one,
	}); err != nil {
		return fmt.Errorf("set page layout: %w", err)
	}
	if err := f.SetPageMargins(sheet, &excelize.PageLayoutMarginsOptions{
		Top:    &margin,
		Bottom: &margin,
		Left:   &margin,
		Right:  &margin,
		Header: &zero,
		Footer: &zero,
	}); err != nil {
		return fmt.Errorf("set page margins: %w", err)
	}
	return nil
}

// setNumber writes a numeric cell. Non-finite values cannot be stored as
// numbers, so they are written as their text form instead.
func setNumber(f *excelize.File, sheet, cell string, v float64) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		f.SetCellValue(sheet, cell, FormatAmount(v))
		return
	}
	f.SetCellFloat(sheet, cell, v, -1, 64)
}

// columnName converts a 1-based column number to its letter, e.g. 9 → "I".
func columnName(col int) string {
	name, _ := excelize.ColumnNumberToName(col)
	return name
}

// cellName converts 1-based column and row numbers to a cell reference.
func cellName(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}

// sanitizeExcelCell prevents formula injection by prefixing dangerous leading
// characters with a single quote. Excel interprets cells starting with =, +, -,
// @, \t or \r as formulas, which can be abused for code execution or data theft.
func sanitizeExcelCell(s string) string {
	if len(s) == 0 {
		return s
	}
	switch s[0] {
	case '=', '+', '-', '@', '\t', '\r', '|':
		return "'" + s
	}
	return s
}

// thinBorders returns a slice of excelize.Border for thin borders on all four sides.
func thinBorders() []excelize.Border {
	sides := []string{"left", "top", "bottom", "right"}
	borders := make([]excelize.Border, len(sides))
	for i, side := range sides {
		borders[i] = excelize.Border{
			Type:  side,
			Color: "#000000",
			Style: 1, // thin
		}
	}
	return borders
}

package services

import (
	"math"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

func openGenerated(t *testing.T, data ExportData) *excelize.File {
	t.Helper()
	result, err := GenerateExcel(data)
	if err != nil {
		t.Fatalf("GenerateExcel() error = %v", err)
	}
	if len(result) == 0 {
		t.Fatal("GenerateExcel() returned empty bytes")
	}
	f, err := excelize.OpenReader(bytesReader(result))
	if err != nil {
		t.Fatalf("result is not valid Excel: %v", err)
	}
	t.Cleanup(func() { f.Close() })
	return f
}

func TestGenerateExcel_Layout(t *testing.T) {
	f := openGenerated(t, BuildExportData(sampleProject(), sampleItems()))

	sheets := f.GetSheetList()
	if len(sheets) != 1 || sheets[0] != BillSheetName {
		t.Fatalf("sheets = %v, want [%s]", sheets, BillSheetName)
	}

	cells := map[string]string{
		"A1":  "CONTRACTOR BILL",
		"A2":  "Project:",
		"B2":  "Road Widening",
		"A3":  "Contractor:",
		"B3":  "ABC Corp",
		"B4":  "15/03/2024",
		"B5":  "4%",
		"A7":  "Unit",
		"E7":  "Item of Work",
		"I7":  "Remarks",
		"A8":  "cum",
		"D8":  "1.0",
		"E8":  "Earthwork in excavation",
		"E9":  "  Hard rock",
		"E11": "Grand Total Rs.",
		"E12": "Tender Premium @ 4%",
		"E13": "NET PAYABLE AMOUNT Rs.",
	}
	for cell, want := range cells {
		got, err := f.GetCellValue(BillSheetName, cell)
		if err != nil {
			t.Fatalf("GetCellValue(%s): %v", cell, err)
		}
		if got != want {
			t.Errorf("%s = %q, want %q", cell, got, want)
		}
	}

	// Numeric cells keep their raw values.
	numbers := map[string]string{
		"B9":  "2",
		"C9":  "5",
		"G9":  "250",
		"H9":  "0",
		"G11": "1250",
		"H11": "1250",
		"G12": "50",
		"G13": "1300",
		"H13": "1300",
	}
	for cell, want := range numbers {
		got, _ := f.GetCellValue(BillSheetName, cell, excelize.Options{RawCellValue: true})
		if got != want {
			t.Errorf("%s raw = %q, want %q", cell, got, want)
		}
	}
	// Two-decimal number format on amounts.
	if got, _ := f.GetCellValue(BillSheetName, "G8"); got != "1000.00" {
		t.Errorf("G8 formatted = %q, want 1000.00", got)
	}
	if blank, _ := f.GetCellValue(BillSheetName, "E10"); blank != "" {
		t.Errorf("row 10 should be the spacer, got %q", blank)
	}
}

func TestGenerateExcel_TitleMergedAcrossColumns(t *testing.T) {
	f := openGenerated(t, BuildExportData(sampleProject(), sampleItems()))

	merged, err := f.GetMergeCells(BillSheetName)
	if err != nil {
		t.Fatalf("GetMergeCells: %v", err)
	}
	if len(merged) != 1 {
		t.Fatalf("merged ranges = %d, want 1", len(merged))
	}
	if merged[0].GetStartAxis() != "A1" || merged[0].GetEndAxis() != "I1" {
		t.Errorf("merge = %s:%s, want A1:I1", merged[0].GetStartAxis(), merged[0].GetEndAxis())
	}
}

func TestGenerateExcel_ColumnWidths(t *testing.T) {
	f := openGenerated(t, BuildExportData(sampleProject(), sampleItems()))

	for i, want := range ColumnWidths {
		col := columnName(i + 1)
		got, err := f.GetColWidth(BillSheetName, col)
		if err != nil {
			t.Fatalf("GetColWidth(%s): %v", col, err)
		}
		if math.Abs(got-want) > 0.01 {
			t.Errorf("column %s width = %v, want %v", col, got, want)
		}
	}
}

func TestGenerateExcel_PageSetup(t *testing.T) {
	f := openGenerated(t, BuildExportData(sampleProject(), sampleItems()))

	layout, err := f.GetPageLayout(BillSheetName)
	if err != nil {
		t.Fatalf("GetPageLayout: %v", err)
	}
	if layout.Size == nil || *layout.Size != paperSizeA4 {
		t.Errorf("paper size = %v, want A4", layout.Size)
	}
	if layout.Orientation == nil || *layout.Orientation != "portrait" {
		t.Errorf("orientation = %v, want portrait", layout.Orientation)
	}
	if layout.FitToWidth == nil || *layout.FitToWidth != 1 || layout.FitToHeight == nil || *layout.FitToHeight != 1 {
		t.Errorf("fit to = %v x %v, want 1 x 1", layout.FitToWidth, layout.FitToHeight)
	}

	props, err := f.GetSheetProps(BillSheetName)
	if err != nil {
		t.Fatalf("GetSheetProps: %v", err)
	}
	if props.FitToPage == nil || !*props.FitToPage {
		t.Error("fit to page not enabled")
	}
}

func TestGenerateExcel_SummaryFills(t *testing.T) {
	f := openGenerated(t, BuildExportData(sampleProject(), sampleItems()))

	tests := []struct {
		cell string
		fill string
	}{
		{"A7", headerFill},
		{"E11", grandTotalFill},
		{"G12", premiumFill},
		{"H13", netPayableFill},
	}
	for _, tt := range tests {
		id, err := f.GetCellStyle(BillSheetName, tt.cell)
		if err != nil {
			t.Fatalf("GetCellStyle(%s): %v", tt.cell, err)
		}
		style, err := f.GetStyle(id)
		if err != nil {
			t.Fatalf("GetStyle(%d): %v", id, err)
		}
		if len(style.Fill.Color) == 0 || !sameColor(style.Fill.Color[0], tt.fill) {
			t.Errorf("%s fill = %v, want %s", tt.cell, style.Fill.Color, tt.fill)
		}
		if len(style.Border) != 4 {
			t.Errorf("%s borders = %d, want 4", tt.cell, len(style.Border))
		}
	}
}

// sameColor compares hex colours ignoring case, a leading "#" and an alpha
// prefix.
func sameColor(a, b string) bool {
	norm := func(s string) string {
		if len(s) > 0 && s[0] == '#' {
			s = s[1:]
		}
		out := []byte(s)
		for i, c := range out {
			if c >= 'a' && c <= 'z' {
				out[i] = c - 'a' + 'A'
			}
		}
		return string(out)
	}
	return strings.HasSuffix(norm(a), norm(b)) || strings.HasSuffix(norm(b), norm(a))
}

func TestGenerateExcel_SanitizesFormulas(t *testing.T) {
	items := []BillItem{{ItemNo: "=1+1", Description: "=HYPERLINK(\"x\")", Quantity: 1, Rate: 1, Unit: "@u"}}
	f := openGenerated(t, BuildExportData(sampleProject(), items))

	for cell, want := range map[string]string{
		"A8": "'@u",
		"D8": "'=1+1",
		"E8": `'=HYPERLINK("x")`,
	} {
		got, _ := f.GetCellValue(BillSheetName, cell)
		if got != want {
			t.Errorf("%s = %q, want %q", cell, got, want)
		}
		if formula, _ := f.GetCellFormula(BillSheetName, cell); formula != "" {
			t.Errorf("%s has formula %q", cell, formula)
		}
	}
}

func TestGenerateExcel_NonFiniteAmount(t *testing.T) {
	items := []BillItem{{ItemNo: "1", Description: "overflow", Quantity: math.MaxFloat64, Rate: 10}}
	f := openGenerated(t, BuildExportData(sampleProject(), items))

	if got, _ := f.GetCellValue(BillSheetName, "G8"); got != "Infinity" {
		t.Errorf("G8 = %q, want Infinity", got)
	}
}

func TestSanitizeExcelCell(t *testing.T) {
	tests := []struct {
		input, want string
	}{
		{"", ""},
		{"plain", "plain"},
		{"=SUM(A1)", "'=SUM(A1)"},
		{"+1", "'+1"},
		{"-1", "'-1"},
		{"@cmd", "'@cmd"},
		{"|pipe", "'|pipe"},
		{"\tTab", "'\tTab"},
	}
	for _, tt := range tests {
		if got := sanitizeExcelCell(tt.input); got != tt.want {
			t.Errorf("sanitizeExcelCell(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

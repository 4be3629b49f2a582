package services

import "strings"

// DocumentTitle heads every rendered bill.
const DocumentTitle = "CONTRACTOR BILL"

// Columns are the nine bill columns, in the order every format renders them.
var Columns = []string{
	"Unit",
	"Qty executed since last cert",
	"Qty executed upto date",
	"S. No.",
	"Item of Work",
	"Rate",
	"Upto date Amount",
	"Amount Since prev bill",
	"Remarks",
}

// ColumnWidths are the spreadsheet widths of Columns, in character units.
var ColumnWidths = []float64{12.29, 62.43, 13.0, 8.71, 9.0, 11.0, 9.14, 12.0, 10.0}

// ColumnWidthsMM are the printed widths of Columns, in millimetres.
var ColumnWidthsMM = []string{"10.06", "13.76", "13.76", "9.55", "63.83", "13.16", "19.53", "15.15", "11.96"}

// Column positions (0-based) referenced by the renderers.
const (
	colUnit = iota
	colPreviousQty
	colQuantity
	colItemNo
	colDescription
	colRate
	colAmount
	colSincePrev
	colRemarks
)

// ExportRow is one item line of a rendered bill.
type ExportRow struct {
	Level       ItemLevel
	Unit        string
	PreviousQty float64
	Quantity    float64
	ItemNo      string
	Description string
	Rate        float64
	Amount      float64
}

// SummaryKind identifies one of the three fixed rows under the items.
type SummaryKind int

const (
	SummaryGrandTotal SummaryKind = iota
	SummaryPremium
	SummaryNetPayable
)

// SummaryRow is a labelled amount shown under the item rows.
type SummaryRow struct {
	Kind   SummaryKind
	Label  string
	Amount float64
}

// ExportData holds everything a renderer needs for one bill.
type ExportData struct {
	Project       ProjectDetails
	Rows          []ExportRow
	TotalAmount   float64
	PremiumAmount float64
	NetPayable    float64
}

// BuildExportData prepares a bill for rendering. Only items with a positive
// quantity are rendered; unlike CalculateBillStats a zero rate does not drop
// an item, and the totals are neither clamped nor guarded against non-finite
// line amounts.
func BuildExportData(project ProjectDetails, items []BillItem) ExportData {
	data := ExportData{Project: project}
	for _, item := range items {
		if !(item.Quantity > 0) {
			continue
		}
		amount := item.Amount()
		data.Rows = append(data.Rows, ExportRow{
			Level:       item.Level,
			Unit:        item.Unit,
			PreviousQty: item.PreviousQty,
			Quantity:    item.Quantity,
			ItemNo:      item.ItemNo,
			Description: item.Description,
			Rate:        item.Rate,
			Amount:      amount,
		})
		data.TotalAmount += amount
	}
	data.PremiumAmount = data.TotalAmount * (project.TenderPremium / 100)
	data.NetPayable = data.TotalAmount + data.PremiumAmount
	return data
}

// SummaryRows returns the grand total, tender premium and net payable rows,
// in display order.
func (d ExportData) SummaryRows() []SummaryRow {
	return []SummaryRow{
		{Kind: SummaryGrandTotal, Label: "Grand Total Rs.", Amount: d.TotalAmount},
		{Kind: SummaryPremium, Label: "Tender Premium @ " + FormatPercent(d.Project.TenderPremium) + "%", Amount: d.PremiumAmount},
		{Kind: SummaryNetPayable, Label: "NET PAYABLE AMOUNT Rs.", Amount: d.NetPayable},
	}
}

// HeaderFields returns the label/value pairs printed above the item table.
func (d ExportData) HeaderFields() [][2]string {
	return [][2]string{
		{"Project:", d.Project.ProjectName},
		{"Contractor:", d.Project.ContractorName},
		{"Date:", FormatBillDate(d.Project.BillDate)},
		{"Tender Premium:", FormatPercent(d.Project.TenderPremium) + "%"},
	}
}

// IndentedDescription prefixes the description with two spaces per level.
func (r ExportRow) IndentedDescription() string {
	depth := int(r.Level)
	if depth < 0 {
		depth = 0
	}
	if depth > int(LevelSubSub) {
		depth = int(LevelSubSub)
	}
	return strings.Repeat("  ", depth) + r.Description
}

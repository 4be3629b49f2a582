package services

import (
	"bytes"
	"strings"
)

// GenerateCSV renders the bill as CSV with the same rows as the spreadsheet:
// title block, blank line, header, items, blank line, summary. Lines are
// separated by "\n" with no trailing newline.
//
// A field is quoted when it contains a comma, a double quote or a newline,
// with embedded quotes doubled. The Item of Work column of the table is
// always quoted.
func GenerateCSV(data ExportData) []byte {
	var rows [][]csvField

	rows = append(rows, []csvField{plain(DocumentTitle)})
	for _, field := range data.HeaderFields() {
		rows = append(rows, []csvField{plain(field[0]), plain(field[1])})
	}
	rows = append(rows, nil)

	header := make([]csvField, len(Columns))
	for i, h := range Columns {
		header[i] = tableField(i, h)
	}
	rows = append(rows, header)

	for _, r := range data.Rows {
		rows = append(rows, []csvField{
			tableField(colUnit, r.Unit),
			tableField(colPreviousQty, FormatQuantity(r.PreviousQty)),
			tableField(colQuantity, FormatQuantity(r.Quantity)),
			tableField(colItemNo, r.ItemNo),
			tableField(colDescription, r.Description),
			tableField(colRate, FormatQuantity(r.Rate)),
			tableField(colAmount, FormatAmount(r.Amount)),
			tableField(colSincePrev, "0"),
			tableField(colRemarks, ""),
		})
	}
	rows = append(rows, nil)

	for _, s := range data.SummaryRows() {
		amount := FormatAmount(s.Amount)
		rows = append(rows, []csvField{
			tableField(colUnit, ""),
			tableField(colPreviousQty, ""),
			tableField(colQuantity, ""),
			tableField(colItemNo, ""),
			tableField(colDescription, s.Label),
			tableField(colRate, ""),
			tableField(colAmount, amount),
			tableField(colSincePrev, amount),
			tableField(colRemarks, ""),
		})
	}

	var buf bytes.Buffer
	for i, row := range rows {
		if i > 0 {
			buf.WriteByte('\n')
		}
		for j, f := range row {
			if j > 0 {
				buf.WriteByte(',')
			}
			buf.WriteString(f.encode())
		}
	}
	return buf.Bytes()
}

// csvField is a cell value plus whether it must be quoted regardless of its
// content.
type csvField struct {
	value       string
	alwaysQuote bool
}

func plain(v string) csvField {
	return csvField{value: v}
}

// tableField builds a table cell; the Item of Work column is always quoted.
func tableField(col int, v string) csvField {
	return csvField{value: v, alwaysQuote: col == colDescription}
}

func (f csvField) encode() string {
	if f.alwaysQuote || strings.ContainsAny(f.value, ",\"\n") {
		return `"` + strings.ReplaceAll(f.value, `"`, `""`) + `"`
	}
	return f.value
}

package services

import (
	"fmt"
	"strings"
)

// GenerateTextSummary renders a plain-text digest of the bill: the header,
// one paragraph per item, then the totals and the net payable in words.
func GenerateTextSummary(data ExportData) []byte {
	var b strings.Builder
	b.WriteString(DocumentTitle + "\n")
	for _, field := range data.HeaderFields() {
		fmt.Fprintf(&b, "%s %s\n", field[0], field[1])
	}

	for _, r := range data.Rows {
		b.WriteString("\n")
		fmt.Fprintf(&b, "Item %s: %s\n", r.ItemNo, r.Description)
		fmt.Fprintf(&b, "Qty: %s %s @ %s = %s\n",
			FormatQuantity(r.Quantity), r.Unit, FormatCurrency(r.Rate), FormatCurrency(r.Amount))
	}

	b.WriteString("\n")
	for _, s := range data.SummaryRows() {
		fmt.Fprintf(&b, "%s: %s\n", strings.TrimSuffix(s.Label, " Rs."), FormatCurrency(s.Amount))
	}
	fmt.Fprintf(&b, "(%s)\n", AmountInWords(data.NetPayable))
	return []byte(b.String())
}

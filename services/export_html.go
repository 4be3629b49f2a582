package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/a-h/templ"
)

// summaryRowClass maps each summary row to the CSS class carrying its fill.
var summaryRowClass = map[SummaryKind]string{
	SummaryGrandTotal: "total-row",
	SummaryPremium:    "premium-row",
	SummaryNetPayable: "payable-row",
}

// billTableCSS styles the item table identically on screen and on paper.
var billTableCSS = `
  table { width: 100%; border-collapse: collapse; margin: 15px 0; font-size: 9pt; font-family: 'Calibri', Arial, sans-serif; table-layout: fixed; }
  th { background: ` + headerFill + `; border: 1px solid #000; padding: 4px; text-align: center; font-weight: bold; vertical-align: middle; word-wrap: break-word; color: #000; }
  td { border: 1px solid #000; padding: 4px; text-align: left; word-wrap: break-word; overflow-wrap: break-word; color: #000; }
  .amount { text-align: right; }
  td.level-1 { padding-left: 12px; }
  td.level-2 { padding-left: 20px; }
  tr.total-row { background: ` + grandTotalFill + `; font-weight: bold; }
  tr.premium-row { background: ` + premiumFill + `; font-weight: bold; }
  tr.payable-row { background: ` + netPayableFill + `; font-weight: bold; }
`

const screenCSS = `
  * { margin: 0; padding: 0; box-sizing: border-box; }
  body { font-family: 'Calibri', 'Arial', sans-serif; font-size: 9pt; line-height: 1.2; background: #f5f5f5; padding: 10mm; }
  .container { max-width: 1000px; margin: 0 auto; background: white; padding: 20px; }
  .header { margin-bottom: 15px; border-bottom: 2px solid #000; padding-bottom: 10px; }
  .header h1 { font-size: 12pt; font-weight: bold; margin-bottom: 5px; color: #000; }
  .project-info { display: grid; grid-template-columns: 1fr 1fr; gap: 10px; color: #333; margin: 8px 0; }
  .project-info div { padding: 3px 0; border-bottom: 1px solid #eee; }
`

const printCSS = `
  @page { size: A4 portrait; margin: 10mm; }
  * { margin: 0; padding: 0; box-sizing: border-box; -webkit-print-color-adjust: exact !important; print-color-adjust: exact !important; }
  html, body { width: 210mm; }
  body { font-family: 'Calibri', 'Arial', sans-serif; font-size: 9pt; line-height: 1.2; padding: 10mm; color: #000; }
  .container { width: 190mm; }
  .header { border-bottom: 2px solid #000; padding-bottom: 10px; margin-bottom: 15px; page-break-inside: avoid; }
  .header h1 { font-size: 12pt; font-weight: bold; margin-bottom: 5px; }
  .project-info { display: grid; grid-template-columns: 1fr 1fr; gap: 10px; margin: 8px 0; }
  table { page-break-inside: avoid; }
  @media print {
    html, body { margin: 0; }
    table, thead, tbody, tr, td, th { page-break-inside: avoid; }
  }
`

// BillDocument renders the bill as a standalone HTML page for screen viewing.
func BillDocument(data ExportData) templ.Component {
	return billPage(data, screenCSS)
}

// PrintDocument renders the bill as an A4 portrait HTML page meant to be
// printed to PDF by a browser. Colours are forced to print exactly.
func PrintDocument(data ExportData) templ.Component {
	return billPage(data, printCSS)
}

// GenerateHTML returns the screen HTML document.
func GenerateHTML(ctx context.Context, data ExportData) ([]byte, error) {
	return renderComponent(ctx, BillDocument(data))
}

// GeneratePrintHTML returns the print-oriented HTML document.
func GeneratePrintHTML(ctx context.Context, data ExportData) ([]byte, error) {
	return renderComponent(ctx, PrintDocument(data))
}

func renderComponent(ctx context.Context, c templ.Component) ([]byte, error) {
	var buf bytes.Buffer
	if err := c.Render(ctx, &buf); err != nil {
		return nil, fmt.Errorf("render html: %w", err)
	}
	return buf.Bytes(), nil
}

func billPage(data ExportData, css string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString("<!DOCTYPE html>\n<html lang=\"en\">\n<head>\n")
		b.WriteString("<meta charset=\"UTF-8\">\n")
		b.WriteString("<meta name=\"viewport\" content=\"width=device-width, initial-scale=1.0\">\n")
		fmt.Fprintf(&b, "<title>Contractor Bill - %s</title>\n", templ.EscapeString(data.Project.ProjectName))
		b.WriteString("<style>")
		b.WriteString(css)
		b.WriteString(billTableCSS)
		b.WriteString("</style>\n</head>\n<body>\n<div class=\"container\">\n")
		if _, err := io.WriteString(w, b.String()); err != nil {
			return err
		}

		if err := billHeader(data).Render(ctx, w); err != nil {
			return err
		}
		if err := billTable(data).Render(ctx, w); err != nil {
			return err
		}

		_, err := io.WriteString(w, "</div>\n</body>\n</html>\n")
		return err
	})
}

func billHeader(data ExportData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString("<div class=\"header\">\n")
		fmt.Fprintf(&b, "<h1>%s</h1>\n", DocumentTitle)
		b.WriteString("<div class=\"project-info\">\n")
		for _, field := range data.HeaderFields() {
			fmt.Fprintf(&b, "<div><strong>%s</strong> %s</div>\n",
				templ.EscapeString(field[0]), templ.EscapeString(field[1]))
		}
		b.WriteString("</div>\n</div>\n")
		_, err := io.WriteString(w, b.String())
		return err
	})
}

func billTable(data ExportData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString("<table>\n<thead>\n<tr>\n")
		for i, h := range Columns {
			fmt.Fprintf(&b, "<th style=\"width: %smm;\">%s</th>\n", ColumnWidthsMM[i], templ.EscapeString(h))
		}
		b.WriteString("</tr>\n</thead>\n<tbody>\n")

		for _, r := range data.Rows {
			b.WriteString("<tr>\n")
			writeCell(&b, "", templ.EscapeString(r.Unit))
			writeCell(&b, "amount", FormatQuantity(r.PreviousQty))
			writeCell(&b, "amount", FormatQuantity(r.Quantity))
			writeCell(&b, "", templ.EscapeString(r.ItemNo))
			writeCell(&b, levelClass(r.Level), templ.EscapeString(r.Description))
			writeCell(&b, "amount", FormatCurrency(r.Rate))
			writeCell(&b, "amount", FormatCurrency(r.Amount))
			writeCell(&b, "amount", FormatAmount(0))
			writeCell(&b, "", "")
			b.WriteString("</tr>\n")
		}

		for _, s := range data.SummaryRows() {
			fmt.Fprintf(&b, "<tr class=\"%s\">\n", summaryRowClass[s.Kind])
			for i := 0; i < colDescription; i++ {
				writeCell(&b, "", "")
			}
			writeCell(&b, "", "<strong>"+templ.EscapeString(s.Label)+"</strong>")
			writeCell(&b, "", "")
			writeCell(&b, "amount", "<strong>"+FormatCurrency(s.Amount)+"</strong>")
			writeCell(&b, "amount", "<strong>"+FormatCurrency(s.Amount)+"</strong>")
			writeCell(&b, "", "")
			b.WriteString("</tr>\n")
		}

		b.WriteString("</tbody>\n</table>\n")
		_, err := io.WriteString(w, b.String())
		return err
	})
}

// writeCell appends a <td>. content must already be escaped.
func writeCell(b *strings.Builder, class, content string) {
	if class == "" {
		fmt.Fprintf(b, "<td>%s</td>\n", content)
		return
	}
	fmt.Fprintf(b, "<td class=\"%s\">%s</td>\n", class, content)
}

func levelClass(level ItemLevel) string {
	switch level {
	case LevelSub:
		return "level-1"
	case LevelSubSub:
		return "level-2"
	}
	return ""
}

package services

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"time"
)

// archiveEntry is one file inside a zip bundle.
type archiveEntry struct {
	Name string
	Data []byte
}

// GenerateArchive bundles the spreadsheet, HTML, CSV and plain-text renderings
// of one bill into a zip. Entries are stamped with the bill date so the same
// bill always produces the same bytes.
func GenerateArchive(ctx context.Context, data ExportData) ([]byte, error) {
	xlsx, err := GenerateExcel(data)
	if err != nil {
		return nil, err
	}
	html, err := GenerateHTML(ctx, data)
	if err != nil {
		return nil, err
	}

	return writeArchive([]archiveEntry{
		{Name: "bill_summary.xlsx", Data: xlsx},
		{Name: "bill_summary.html", Data: html},
		{Name: "bill_summary.csv", Data: GenerateCSV(data)},
		{Name: "bill_summary.txt", Data: GenerateTextSummary(data)},
	}, data.Project.BillDate)
}

// writeArchive deflates entries, in order, into a new zip.
func writeArchive(entries []archiveEntry, modified time.Time) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, e := range entries {
		w, err := zw.CreateHeader(&zip.FileHeader{
			Name:     e.Name,
			Method:   zip.Deflate,
			Modified: modified,
		})
		if err != nil {
			return nil, fmt.Errorf("create archive entry %s: %w", e.Name, err)
		}
		if _, err := w.Write(e.Data); err != nil {
			return nil, fmt.Errorf("write archive entry %s: %w", e.Name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("close archive: %w", err)
	}
	return buf.Bytes(), nil
}

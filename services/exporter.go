package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Format is an export output format.
type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatHTML Format = "html"
	FormatCSV  Format = "csv"
	FormatPDF  Format = "pdf" // print-styled HTML, saved by the browser as PDF
	FormatTXT  Format = "txt"
	FormatZIP  Format = "zip"
)

// Formats lists every supported format.
var Formats = []Format{FormatXLSX, FormatHTML, FormatCSV, FormatPDF, FormatTXT, FormatZIP}

// ParseFormat maps a format name to a Format, ignoring case and surrounding
// space.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// Extension is the file extension written for the format.
func (f Format) Extension() string {
	if f == FormatPDF {
		return "pdf.html"
	}
	return string(f)
}

// ContentType is the MIME type served for the format.
func (f Format) ContentType() string {
	switch f {
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case FormatHTML, FormatPDF:
		return "text/html; charset=utf-8"
	case FormatCSV:
		return "text/csv; charset=utf-8"
	case FormatTXT:
		return "text/plain; charset=utf-8"
	case FormatZIP:
		return "application/zip"
	}
	return "application/octet-stream"
}

// Artifact is one rendered file ready to be downloaded or written to disk.
type Artifact struct {
	Name        string
	ContentType string
	Data        []byte
}

// BatchBill is one bill in a batch export.
type BatchBill struct {
	Project ProjectDetails
	Items   []BillItem
}

// BatchOptions controls BatchExport. Progress, when set, is called after
// each bill with the number of bills done and the batch size.
type BatchOptions struct {
	Formats     []Format
	BundleAsZip bool
	Progress    func(done, total int)
}

// Exporter validates bills, renders them and records exports in the history.
type Exporter struct {
	history *HistoryService
	logger  *zap.Logger
	now     func() time.Time
}

// ExporterOption configures an Exporter.
type ExporterOption func(*Exporter)

// WithClock sets the time source used for file names and history.
func WithClock(now func() time.Time) ExporterOption {
	return func(e *Exporter) { e.now = now }
}

// WithLogger sets the exporter's logger.
func WithLogger(logger *zap.Logger) ExporterOption {
	return func(e *Exporter) { e.logger = logger }
}

// NewExporter returns an Exporter recording history in store.
func NewExporter(store Store, opts ...ExporterOption) *Exporter {
	e := &Exporter{logger: zap.NewNop(), now: time.Now}
	for _, opt := range opts {
		opt(e)
	}
	e.history = NewHistoryService(store, e.logger)
	return e
}

// History returns the service the exporter records into.
func (e *Exporter) History() *HistoryService {
	return e.history
}

// ExportBill validates one bill, renders it in format and records the export.
// A failure to record history is logged and does not fail the export.
func (e *Exporter) ExportBill(ctx context.Context, project ProjectDetails, items []BillItem, format Format) (*Artifact, error) {
	if err := ValidateBill(project, items); err != nil {
		return nil, err
	}

	now := e.now()
	data := BuildExportData(project, items)
	body, err := render(ctx, data, format)
	if err != nil {
		return nil, err
	}
	artifact := &Artifact{
		Name:        GenerateFileName(project.ProjectName, format.Extension(), now),
		ContentType: format.ContentType(),
		Data:        body,
	}

	stats := CalculateBillStats(items, project.TenderPremium)
	entry := NewHistoryEntry(project, items, stats.TotalAmount, now)
	if err := e.history.Record(ctx, entry); err != nil {
		var se *StorageError
		if !errors.As(err, &se) {
			return nil, err
		}
		e.logger.Warn("failed to record bill history",
			zap.String("project", project.ProjectName), zap.Error(err))
	}

	e.logger.Info("exported bill",
		zap.String("project", project.ProjectName),
		zap.String("format", string(format)),
		zap.String("file", artifact.Name),
		zap.Int("bytes", len(body)))
	return artifact, nil
}

// BatchExport renders several bills in order. Every bill is validated before
// any is rendered. With BundleAsZip the result is a single archive holding
// Bill_<n>_<slug>.<ext> entries; otherwise one artifact per bill per format,
// named Bill_<n>_ followed by the usual export file name.
// Batch exports are not recorded in the history.
func (e *Exporter) BatchExport(ctx context.Context, bills []BatchBill, opts BatchOptions) ([]Artifact, error) {
	if len(bills) == 0 {
		return nil, nil
	}
	for i, bill := range bills {
		if err := ValidateBill(bill.Project, bill.Items); err != nil {
			return nil, fmt.Errorf("Bill %d: %w", i+1, err)
		}
	}

	now := e.now()
	var (
		artifacts []Artifact
		entries   []archiveEntry
	)
	for i, bill := range bills {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		data := BuildExportData(bill.Project, bill.Items)
		for _, format := range opts.Formats {
			body, err := render(ctx, data, format)
			if err != nil {
				return nil, fmt.Errorf("Bill %d: %w", i+1, err)
			}
			if opts.BundleAsZip {
				entries = append(entries, archiveEntry{
					Name: fmt.Sprintf("Bill_%d_%s.%s", i+1, Slugify(bill.Project.ProjectName), format.Extension()),
					Data: body,
				})
				continue
			}
			artifacts = append(artifacts, Artifact{
				Name:        fmt.Sprintf("Bill_%d_%s", i+1, GenerateFileName(bill.Project.ProjectName, format.Extension(), now)),
				ContentType: format.ContentType(),
				Data:        body,
			})
		}
		if opts.Progress != nil {
			opts.Progress(i+1, len(bills))
		}
	}

	if opts.BundleAsZip {
		body, err := writeArchive(entries, now)
		if err != nil {
			return nil, err
		}
		artifacts = []Artifact{{
			Name:        "Bills_Batch_" + now.Format("2006-01-02") + ".zip",
			ContentType: FormatZIP.ContentType(),
			Data:        body,
		}}
	}

	e.logger.Info("exported bill batch",
		zap.Int("bills", len(bills)),
		zap.Int("formats", len(opts.Formats)),
		zap.Bool("zip", opts.BundleAsZip))
	return artifacts, nil
}

func render(ctx context.Context, data ExportData, format Format) ([]byte, error) {
	switch format {
	case FormatXLSX:
		return GenerateExcel(data)
	case FormatHTML:
		return GenerateHTML(ctx, data)
	case FormatPDF:
		return GeneratePrintHTML(ctx, data)
	case FormatCSV:
		return GenerateCSV(data), nil
	case FormatTXT:
		return GenerateTextSummary(data), nil
	case FormatZIP:
		return GenerateArchive(ctx, data)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
}

package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/pocketbase/pocketbase/core"
	"go.uber.org/zap"

	"contractorbill/services"
)

// HandleBillParse reads an uploaded workbook from the "file" form field and
// returns the project details and items found in it.
// Route: POST /api/bills/parse
func HandleBillParse(maxUploadBytes int64, logger *zap.Logger) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		e.Request.Body = http.MaxBytesReader(e.Response, e.Request.Body, maxUploadBytes)
		if err := e.Request.ParseMultipartForm(maxUploadBytes); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "File too large or invalid form data")
		}

		file, header, err := e.Request.FormFile("file")
		if err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Please select a file to upload")
		}
		defer file.Close()

		parsed, err := services.ParseBillFile(file)
		if err != nil {
			var pe *services.ParseError
			if errors.As(err, &pe) {
				logger.Warn("unreadable bill workbook", zap.String("file", header.Filename), zap.Error(err))
				return ErrorToast(e, http.StatusUnprocessableEntity, "Could not read the uploaded workbook")
			}
			return internalError(e, logger, "Failed to parse workbook", err)
		}

		logger.Info("parsed bill workbook",
			zap.String("file", header.Filename),
			zap.Int("items", len(parsed.Items)))
		SetToast(e, "success", "Bill loaded from "+header.Filename)
		return e.JSON(http.StatusOK, parsed)
	}
}

// HandleBillExport validates the submitted bill and returns it rendered in
// the format named by the path.
// Route: POST /api/bills/export/{format}
func HandleBillExport(exporter *services.Exporter, logger *zap.Logger) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		format, err := services.ParseFormat(e.Request.PathValue("format"))
		if err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Unsupported export format")
		}

		var bill services.BillInput
		if err := json.NewDecoder(e.Request.Body).Decode(&bill); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid bill data")
		}

		artifact, err := exporter.ExportBill(e.Request.Context(), bill.ProjectDetails, bill.Items, format)
		if err != nil {
			return exportError(e, logger, err)
		}

		SetToast(e, "success", "Bill exported successfully!")
		return attachment(e, artifact.Name, artifact.ContentType, artifact.Data)
	}
}

// batchRequest is the body of a batch export.
type batchRequest struct {
	Bills   []services.BillInput `json:"bills"`
	Formats []string             `json:"formats"`
}

// HandleBatchExport renders several bills in the requested formats and
// returns them as one zip archive.
// Route: POST /api/bills/batch
func HandleBatchExport(exporter *services.Exporter, logger *zap.Logger) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var req batchRequest
		if err := json.NewDecoder(e.Request.Body).Decode(&req); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid batch data")
		}
		if len(req.Bills) == 0 {
			return ErrorToast(e, http.StatusBadRequest, "No bills to export")
		}

		formats := make([]services.Format, 0, len(req.Formats))
		for _, name := range req.Formats {
			f, err := services.ParseFormat(name)
			if err != nil {
				return ErrorToast(e, http.StatusBadRequest, "Unsupported export format")
			}
			formats = append(formats, f)
		}
		if len(formats) == 0 {
			formats = []services.Format{services.FormatXLSX}
		}

		bills := make([]services.BatchBill, len(req.Bills))
		for i, b := range req.Bills {
			bills[i] = services.BatchBill{Project: b.ProjectDetails, Items: b.Items}
		}

		artifacts, err := exporter.BatchExport(e.Request.Context(), bills, services.BatchOptions{
			Formats:     formats,
			BundleAsZip: true,
			Progress: func(done, total int) {
				logger.Debug("batch export progress", zap.Int("done", done), zap.Int("total", total))
			},
		})
		if err != nil {
			return exportError(e, logger, err)
		}

		zip := artifacts[0]
		SetToast(e, "success", "Batch export complete")
		return attachment(e, zip.Name, zip.ContentType, zip.Data)
	}
}

// exportError maps validation failures to 400 and anything else to 500.
func exportError(e *core.RequestEvent, logger *zap.Logger, err error) error {
	var ve *services.ValidationError
	if errors.As(err, &ve) {
		return ErrorToast(e, http.StatusBadRequest, err.Error())
	}
	if errors.Is(err, services.ErrUnknownFormat) {
		return ErrorToast(e, http.StatusBadRequest, "Unsupported export format")
	}
	return internalError(e, logger, "Failed to export bill", err)
}

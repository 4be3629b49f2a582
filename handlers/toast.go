package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/pocketbase/pocketbase/core"
	"go.uber.org/zap"
)

// ToastHeader carries a {"message","type"} notice for the client to show.
const ToastHeader = "X-Bill-Toast"

// SetToast attaches a toast notice to the response. A later call replaces an
// earlier one.
func SetToast(e *core.RequestEvent, toastType string, message string) {
	data, err := json.Marshal(map[string]string{
		"message": message,
		"type":    toastType,
	})
	if err != nil {
		return
	}
	e.Response.Header().Set(ToastHeader, string(data))
}

// ErrorToast sets an error toast and writes {"error": message} with status.
func ErrorToast(e *core.RequestEvent, status int, message string) error {
	SetToast(e, "error", message)
	return e.JSON(status, map[string]string{"error": message})
}

// internalError logs err and answers 500 with a generic message.
func internalError(e *core.RequestEvent, logger *zap.Logger, msg string, err error) error {
	logger.Error(msg, zap.Error(err), zap.String("path", e.Request.URL.Path))
	return ErrorToast(e, http.StatusInternalServerError, msg)
}

// attachment writes body as a download named filename.
func attachment(e *core.RequestEvent, filename, contentType string, body []byte) error {
	e.Response.Header().Set("Content-Type", contentType)
	e.Response.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	e.Response.WriteHeader(http.StatusOK)
	_, err := e.Response.Write(body)
	return err
}

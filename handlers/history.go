package handlers

import (
	"net/http"

	"github.com/pocketbase/pocketbase/core"
	"go.uber.org/zap"

	"contractorbill/services"
)

// HandleHistoryList returns past exports, newest first.
// Route: GET /api/history
func HandleHistoryList(history *services.HistoryService, logger *zap.Logger) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		entries, err := history.List(e.Request.Context())
		if err != nil {
			return internalError(e, logger, "Failed to load history", err)
		}
		return e.JSON(http.StatusOK, entries)
	}
}

// HandleHistoryClear removes every history entry.
// Route: DELETE /api/history
func HandleHistoryClear(history *services.HistoryService, logger *zap.Logger) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		if err := history.Clear(e.Request.Context()); err != nil {
			return internalError(e, logger, "Failed to clear history", err)
		}
		SetToast(e, "success", "History cleared")
		return e.NoContent(http.StatusNoContent)
	}
}

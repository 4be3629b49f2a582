package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/pocketbase/pocketbase/core"
	"go.uber.org/zap"

	"contractorbill/services"
)

// draftSummary is a draft as shown in the drafts list.
type draftSummary struct {
	ID          string    `json:"id"`
	ProjectName string    `json:"projectName"`
	ItemCount   int       `json:"itemCount"`
	SavedAt     time.Time `json:"savedAt"`
	Age         string    `json:"age"`
}

// HandleDraftList returns saved drafts, newest first, without their items.
// Route: GET /api/drafts
func HandleDraftList(drafts *services.DraftService, logger *zap.Logger) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		list, err := drafts.List(e.Request.Context())
		if err != nil {
			return internalError(e, logger, "Failed to load drafts", err)
		}

		now := time.Now()
		out := make([]draftSummary, 0, len(list))
		for _, d := range list {
			name := d.Bill.ProjectName
			if name == "" {
				name = "Untitled Project"
			}
			out = append(out, draftSummary{
				ID:          d.ID,
				ProjectName: name,
				ItemCount:   len(d.Bill.Items),
				SavedAt:     d.SavedAt,
				Age:         services.FormatDraftAge(d.SavedAt, now),
			})
		}
		return e.JSON(http.StatusOK, out)
	}
}

// HandleDraftSave stores the submitted bill as a new draft.
// Route: POST /api/drafts
func HandleDraftSave(drafts *services.DraftService, logger *zap.Logger) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var bill services.BillInput
		if err := json.NewDecoder(e.Request.Body).Decode(&bill); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid bill data")
		}

		draft, err := drafts.Save(e.Request.Context(), bill)
		if err != nil {
			return internalError(e, logger, "Failed to save draft", err)
		}
		SetToast(e, "success", "Draft saved")
		return e.JSON(http.StatusCreated, draft)
	}
}

// HandleDraftGet returns one draft with its items.
// Route: GET /api/drafts/{id}
func HandleDraftGet(drafts *services.DraftService, logger *zap.Logger) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		draft, err := drafts.Load(e.Request.Context(), e.Request.PathValue("id"))
		if err != nil {
			return internalError(e, logger, "Failed to load draft", err)
		}
		if draft == nil {
			return ErrorToast(e, http.StatusNotFound, "Draft not found")
		}
		return e.JSON(http.StatusOK, draft)
	}
}

// HandleDraftDelete removes one draft.
// Route: DELETE /api/drafts/{id}
func HandleDraftDelete(drafts *services.DraftService, logger *zap.Logger) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		if err := drafts.Delete(e.Request.Context(), e.Request.PathValue("id")); err != nil {
			return internalError(e, logger, "Failed to delete draft", err)
		}
		return e.NoContent(http.StatusNoContent)
	}
}

package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	// DraftsKey is the store key holding saved drafts.
	DraftsKey = "billgenerator_drafts"
	// MaxDrafts is the number of drafts kept, newest first.
	MaxDrafts = 5
)

// Draft is an in-progress bill saved for later.
type Draft struct {
	ID      string    `json:"id"`
	Bill    BillInput `json:"bill"`
	SavedAt time.Time `json:"savedAt"`
}

// DraftService keeps the capped list of drafts in a Store. Save and Delete
// through one service are serialised.
type DraftService struct {
	mu     sync.Mutex
	store  Store
	logger *zap.Logger
	now    func() time.Time
}

// NewDraftService returns a DraftService over store.
func NewDraftService(store Store, logger *zap.Logger) *DraftService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DraftService{store: store, logger: logger, now: time.Now}
}

// Save stores bill as the newest draft, evicting the oldest beyond MaxDrafts.
func (d *DraftService) Save(ctx context.Context, bill BillInput) (Draft, error) {
	draft := Draft{
		ID:      uuid.NewString(),
		Bill:    bill,
		SavedAt: d.now().UTC(),
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	drafts, err := d.List(ctx)
	if err != nil {
		return Draft{}, err
	}
	drafts = append([]Draft{draft}, drafts...)
	if len(drafts) > MaxDrafts {
		drafts = drafts[:MaxDrafts]
	}
	if err := saveList(ctx, d.store, DraftsKey, drafts); err != nil {
		return Draft{}, err
	}
	return draft, nil
}

// List returns saved drafts, newest first. Unreadable stored data is logged
// and treated as no drafts.
func (d *DraftService) List(ctx context.Context) ([]Draft, error) {
	drafts, err := loadList[Draft](ctx, d.store, DraftsKey)
	if err != nil {
		var se *StorageError
		if errors.As(err, &se) && se.Op == "decode" {
			d.logger.Warn("discarding unreadable drafts", zap.Error(err))
			return []Draft{}, nil
		}
		return nil, err
	}
	return drafts, nil
}

// Load returns the draft with the given id, or nil when there is none.
func (d *DraftService) Load(ctx context.Context, id string) (*Draft, error) {
	drafts, err := d.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range drafts {
		if drafts[i].ID == id {
			return &drafts[i], nil
		}
	}
	return nil, nil
}

// Delete removes the draft with the given id. Deleting an unknown id is not
// an error.
func (d *DraftService) Delete(ctx context.Context, id string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	drafts, err := d.List(ctx)
	if err != nil {
		return err
	}
	kept := drafts[:0]
	for _, draft := range drafts {
		if draft.ID != id {
			kept = append(kept, draft)
		}
	}
	return saveList(ctx, d.store, DraftsKey, kept)
}

// FormatDraftAge describes how long ago a draft was saved: "Just now",
// "5m ago", "3h ago", or the save date once a day has passed.
func FormatDraftAge(savedAt, now time.Time) string {
	diff := now.Sub(savedAt)
	switch {
	case diff < time.Minute:
		return "Just now"
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff/time.Minute))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff/time.Hour))
	}
	return FormatBillDate(savedAt)
}

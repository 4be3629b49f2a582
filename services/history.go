package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	// HistoryKey is the store key holding the export history.
	HistoryKey = "bill_history"
	// MaxHistory is the number of history entries kept, newest first.
	MaxHistory = 20
)

// HistoryEntry records one successful export.
type HistoryEntry struct {
	ID             string    `json:"id"`
	ProjectName    string    `json:"projectName"`
	ContractorName string    `json:"contractorName"`
	BillDate       string    `json:"billDate"`
	TotalAmount    float64   `json:"totalAmount"`
	ItemCount      int       `json:"itemCount"`
	Timestamp      time.Time `json:"timestamp"`
}

// NewHistoryEntry builds the entry for an exported bill. The item count is
// the number of items with a positive quantity.
func NewHistoryEntry(project ProjectDetails, items []BillItem, totalAmount float64, now time.Time) HistoryEntry {
	count := 0
	for _, item := range items {
		if item.Quantity > 0 {
			count++
		}
	}
	return HistoryEntry{
		ID:             uuid.NewString(),
		ProjectName:    project.ProjectName,
		ContractorName: project.ContractorName,
		BillDate:       FormatBillDate(project.BillDate),
		TotalAmount:    totalAmount,
		ItemCount:      count,
		Timestamp:      now.UTC(),
	}
}

// HistoryService keeps the capped list of past exports in a Store. Writes
// through one service are serialised so concurrent exports are not lost.
type HistoryService struct {
	mu     sync.Mutex
	store  Store
	logger *zap.Logger
}

// NewHistoryService returns a HistoryService over store.
func NewHistoryService(store Store, logger *zap.Logger) *HistoryService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HistoryService{store: store, logger: logger}
}

// Record prepends entry and drops the oldest entries beyond MaxHistory.
func (h *HistoryService) Record(ctx context.Context, entry HistoryEntry) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	history, err := h.List(ctx)
	if err != nil {
		return err
	}
	history = append([]HistoryEntry{entry}, history...)
	if len(history) > MaxHistory {
		history = history[:MaxHistory]
	}
	return saveList(ctx, h.store, HistoryKey, history)
}

// List returns the history, newest first. Unreadable stored data is logged
// and treated as an empty history.
func (h *HistoryService) List(ctx context.Context) ([]HistoryEntry, error) {
	history, err := loadList[HistoryEntry](ctx, h.store, HistoryKey)
	if err != nil {
		var se *StorageError
		if errors.As(err, &se) && se.Op == "decode" {
			h.logger.Warn("discarding unreadable bill history", zap.Error(err))
			return []HistoryEntry{}, nil
		}
		return nil, err
	}
	return history, nil
}

// Clear removes every history entry.
func (h *HistoryService) Clear(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.store.Delete(ctx, HistoryKey); err != nil {
		return &StorageError{Op: "delete", Key: HistoryKey, Err: err}
	}
	return nil
}

package scan

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/Abraxas-365/lectora/store"
	"github.com/google/uuid"
)

const historyKey = "scan_history"

const previewLength = 100

// History records scan attempts and their outcomes
type History struct {
	store *store.Store
}

// NewHistory creates a history log on the given store
func NewHistory(s *store.Store) *History {
	return &History{store: s}
}

// Add records a new scan attempt with status processing
func (h *History) Add(ctx context.Context, scanType Type, title string) (HistoryItem, error) {
	item := HistoryItem{
		ID:        uuid.New().String(),
		Type:      scanType,
		Title:     title,
		Timestamp: time.Now().UnixMilli(),
		Status:    StatusProcessing,
	}

	err := store.UpdateCollection(ctx, h.store, historyKey, func(items []HistoryItem) ([]HistoryItem, error) {
		return append(items, item), nil
	})
	if err != nil {
		return HistoryItem{}, err
	}
	return item, nil
}

// MarkSuccess resolves a processing entry with the extracted text
func (h *History) MarkSuccess(ctx context.Context, id, extractedText string, confidence float32) error {
	return h.update(ctx, id, func(item *HistoryItem) {
		item.Status = StatusSuccess
		item.ExtractedText = extractedText
		item.Preview = makePreview(extractedText)
		item.Confidence = confidence
	})
}

// MarkFailed resolves a processing entry as failed
func (h *History) MarkFailed(ctx context.Context, id string) error {
	return h.update(ctx, id, func(item *HistoryItem) {
		item.Status = StatusFailed
	})
}

func (h *History) update(ctx context.Context, id string, apply func(*HistoryItem)) error {
	return store.UpdateCollection(ctx, h.store, historyKey, func(items []HistoryItem) ([]HistoryItem, error) {
		for i := range items {
			if items[i].ID == id {
				apply(&items[i])
				return items, nil
			}
		}
		return nil, Errors.New(ErrHistoryNotFound).WithDetail("id", id)
	})
}

// List returns history entries newest first. A non-empty filter keeps
// only entries of that type.
func (h *History) List(ctx context.Context, filter Type) ([]HistoryItem, error) {
	items, err := store.LoadCollection[HistoryItem](ctx, h.store, historyKey)
	if err != nil {
		return nil, err
	}

	if filter != "" {
		kept := items[:0]
		for _, item := range items {
			if item.Type == filter {
				kept = append(kept, item)
			}
		}
		items = kept
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Timestamp > items[j].Timestamp
	})
	return items, nil
}

// Delete removes one history entry
func (h *History) Delete(ctx context.Context, id string) error {
	return store.UpdateCollection(ctx, h.store, historyKey, func(items []HistoryItem) ([]HistoryItem, error) {
		kept := items[:0]
		for _, item := range items {
			if item.ID != id {
				kept = append(kept, item)
			}
		}
		if len(kept) == len(items) {
			return nil, Errors.New(ErrHistoryNotFound).WithDetail("id", id)
		}
		return kept, nil
	})
}

// Clear removes every history entry
func (h *History) Clear(ctx context.Context) error {
	return store.SaveCollection(ctx, h.store, historyKey, []HistoryItem{})
}

func makePreview(text string) string {
	text = strings.TrimSpace(text)
	runes := []rune(text)
	if len(runes) <= previewLength {
		return text
	}
	return string(runes[:previewLength])
}

package scan

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/Abraxas-365/lectora/store"
	"github.com/google/uuid"
)

const savedTextsKey = "saved_texts"

// Library manages the saved-text collection. Mutations go through the
// store's update path, which holds the key lock across the full
// load-modify-write, so two concurrent saves cannot lose an append.
type Library struct {
	store *store.Store
}

// NewLibrary creates a library on the given store
func NewLibrary(s *store.Store) *Library {
	return &Library{store: s}
}

// Save validates and appends a new saved text. Title and text must both
// be non-empty after trimming; a validation failure leaves the
// collection untouched.
func (l *Library) Save(ctx context.Context, title, text string) (SavedText, error) {
	if strings.TrimSpace(title) == "" || strings.TrimSpace(text) == "" {
		return SavedText{}, Errors.New(ErrInvalidSavedText)
	}

	item := SavedText{
		ID:        uuid.New().String(),
		Title:     title,
		Text:      text,
		Timestamp: time.Now().UnixMilli(),
	}

	err := store.UpdateCollection(ctx, l.store, savedTextsKey, func(items []SavedText) ([]SavedText, error) {
		return append(items, item), nil
	})
	if err != nil {
		return SavedText{}, err
	}
	return item, nil
}

// List returns all saved texts, newest first
func (l *Library) List(ctx context.Context) ([]SavedText, error) {
	items, err := store.LoadCollection[SavedText](ctx, l.store, savedTextsKey)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Timestamp > items[j].Timestamp
	})
	return items, nil
}

// Get returns the saved text with the given id
func (l *Library) Get(ctx context.Context, id string) (SavedText, error) {
	items, err := store.LoadCollection[SavedText](ctx, l.store, savedTextsKey)
	if err != nil {
		return SavedText{}, err
	}
	for _, item := range items {
		if item.ID == id {
			return item, nil
		}
	}
	return SavedText{}, Errors.New(ErrTextNotFound).WithDetail("id", id)
}

// Delete removes the saved text with the given id
func (l *Library) Delete(ctx context.Context, id string) error {
	return store.UpdateCollection(ctx, l.store, savedTextsKey, func(items []SavedText) ([]SavedText, error) {
		kept := items[:0]
		for _, item := range items {
			if item.ID != id {
				kept = append(kept, item)
			}
		}
		if len(kept) == len(items) {
			return nil, Errors.New(ErrTextNotFound).WithDetail("id", id)
		}
		return kept, nil
	})
}

// Clear removes every saved text
func (l *Library) Clear(ctx context.Context) error {
	return store.SaveCollection(ctx, l.store, savedTextsKey, []SavedText{})
}

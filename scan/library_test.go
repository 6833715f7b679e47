package scan

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/Abraxas-365/lectora/errx"
	"github.com/Abraxas-365/lectora/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	return store.New(store.NewLocal(), t.TempDir())
}

func TestLibrary_Save_RejectsEmptyTitle(t *testing.T) {
	library := NewLibrary(newTestStore(t))

	_, err := library.Save(context.Background(), "   ", "some text")
	require.Error(t, err)
	assert.True(t, errx.IsCode(err, ErrInvalidSavedText))

	items, err := library.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, items, "a rejected save must not touch the collection")
}

func TestLibrary_Save_RejectsEmptyText(t *testing.T) {
	library := NewLibrary(newTestStore(t))

	_, err := library.Save(context.Background(), "Title", "")
	require.Error(t, err)
	assert.True(t, errx.IsCode(err, ErrInvalidSavedText))
}

func TestLibrary_Save_AppendsAndAssignsIdentity(t *testing.T) {
	library := NewLibrary(newTestStore(t))
	ctx := context.Background()

	before := time.Now().UnixMilli()
	item, err := library.Save(ctx, "Receipt", "total 12.50")
	require.NoError(t, err)

	assert.NotEmpty(t, item.ID)
	assert.Equal(t, "Receipt", item.Title)
	assert.Equal(t, "total 12.50", item.Text)
	assert.GreaterOrEqual(t, item.Timestamp, before)

	other, err := library.Save(ctx, "Note", "second")
	require.NoError(t, err)
	assert.NotEqual(t, item.ID, other.ID)
}

func TestLibrary_Save_ConcurrentSavesKeepEveryItem(t *testing.T) {
	library := NewLibrary(newTestStore(t))
	ctx := context.Background()

	const pairs = 50

	var wg sync.WaitGroup
	errs := make(chan error, pairs*2)
	for i := 0; i < pairs; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := library.Save(ctx, fmt.Sprintf("left %d", i), "x")
			errs <- err
		}(i)
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := library.Save(ctx, fmt.Sprintf("right %d", i), "x")
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}

	items, err := library.List(ctx)
	require.NoError(t, err)
	assert.Len(t, items, pairs*2, "every concurrent save must append exactly one item")
}

func TestLibrary_List_NeverSeesTornWrites(t *testing.T) {
	library := NewLibrary(newTestStore(t))
	ctx := context.Background()

	done := make(chan struct{})
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-done:
					return
				default:
				}
				_, err := library.List(ctx)
				assert.NoError(t, err)
			}
		}()
	}

	for i := 0; i < 25; i++ {
		_, err := library.Save(ctx, fmt.Sprintf("title %d", i), "x")
		require.NoError(t, err)
	}
	close(done)
	wg.Wait()
}

func TestLibrary_List_NewestFirst(t *testing.T) {
	st := newTestStore(t)
	library := NewLibrary(st)
	ctx := context.Background()

	// seed with explicit timestamps to avoid same-millisecond ties
	seeded := []SavedText{
		{ID: "a", Title: "old", Text: "x", Timestamp: 100},
		{ID: "b", Title: "new", Text: "x", Timestamp: 300},
		{ID: "c", Title: "mid", Text: "x", Timestamp: 200},
	}
	require.NoError(t, store.SaveCollection(ctx, st, "saved_texts", seeded))

	items, err := library.List(ctx)
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, "new", items[0].Title)
	assert.Equal(t, "mid", items[1].Title)
	assert.Equal(t, "old", items[2].Title)
}

func TestLibrary_Get_NotFound(t *testing.T) {
	library := NewLibrary(newTestStore(t))

	_, err := library.Get(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, errx.IsCode(err, ErrTextNotFound))
}

func TestLibrary_Delete_RemovesOnlyTarget(t *testing.T) {
	library := NewLibrary(newTestStore(t))
	ctx := context.Background()

	keep, err := library.Save(ctx, "keep", "x")
	require.NoError(t, err)
	drop, err := library.Save(ctx, "drop", "x")
	require.NoError(t, err)

	require.NoError(t, library.Delete(ctx, drop.ID))

	items, err := library.List(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, keep.ID, items[0].ID)
}

func TestLibrary_Delete_NotFound(t *testing.T) {
	library := NewLibrary(newTestStore(t))

	err := library.Delete(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, errx.IsCode(err, ErrTextNotFound))
}

func TestLibrary_Clear_EmptiesCollection(t *testing.T) {
	library := NewLibrary(newTestStore(t))
	ctx := context.Background()

	_, err := library.Save(ctx, "a", "x")
	require.NoError(t, err)
	require.NoError(t, library.Clear(ctx))

	items, err := library.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)
}

package scan

import (
	"context"
	"strings"
	"testing"

	"github.com/Abraxas-365/lectora/errx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistory_Add_StartsProcessing(t *testing.T) {
	history := NewHistory(newTestStore(t))

	item, err := history.Add(context.Background(), TypeDocument, "Morning scan")
	require.NoError(t, err)

	assert.NotEmpty(t, item.ID)
	assert.Equal(t, TypeDocument, item.Type)
	assert.Equal(t, StatusProcessing, item.Status)
	assert.Empty(t, item.ExtractedText)
}

func TestHistory_MarkSuccess_SetsTextPreviewAndConfidence(t *testing.T) {
	history := NewHistory(newTestStore(t))
	ctx := context.Background()

	item, err := history.Add(ctx, TypeDocument, "scan")
	require.NoError(t, err)

	long := strings.Repeat("lorem ipsum ", 20)
	require.NoError(t, history.MarkSuccess(ctx, item.ID, long, 0.87))

	items, err := history.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, items, 1)

	got := items[0]
	assert.Equal(t, StatusSuccess, got.Status)
	assert.Equal(t, long, got.ExtractedText)
	assert.Equal(t, float32(0.87), got.Confidence)
	assert.Len(t, []rune(got.Preview), previewLength)
}

func TestHistory_MarkFailed(t *testing.T) {
	history := NewHistory(newTestStore(t))
	ctx := context.Background()

	item, err := history.Add(ctx, TypeQR, "scan")
	require.NoError(t, err)
	require.NoError(t, history.MarkFailed(ctx, item.ID))

	items, err := history.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, StatusFailed, items[0].Status)
}

func TestHistory_Mark_UnknownIDFails(t *testing.T) {
	history := NewHistory(newTestStore(t))

	err := history.MarkFailed(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, errx.IsCode(err, ErrHistoryNotFound))
}

func TestHistory_List_FiltersByType(t *testing.T) {
	history := NewHistory(newTestStore(t))
	ctx := context.Background()

	_, err := history.Add(ctx, TypeDocument, "doc")
	require.NoError(t, err)
	_, err = history.Add(ctx, TypeQR, "code")
	require.NoError(t, err)

	docs, err := history.List(ctx, TypeDocument)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "doc", docs[0].Title)

	all, err := history.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestHistory_Delete(t *testing.T) {
	history := NewHistory(newTestStore(t))
	ctx := context.Background()

	item, err := history.Add(ctx, TypeDocument, "scan")
	require.NoError(t, err)
	require.NoError(t, history.Delete(ctx, item.ID))

	items, err := history.List(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestHistory_Clear(t *testing.T) {
	history := NewHistory(newTestStore(t))
	ctx := context.Background()

	_, err := history.Add(ctx, TypeDocument, "a")
	require.NoError(t, err)
	_, err = history.Add(ctx, TypeBarcode, "b")
	require.NoError(t, err)

	require.NoError(t, history.Clear(ctx))

	items, err := history.List(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestMakePreview_ShortTextUnchanged(t *testing.T) {
	assert.Equal(t, "short", makePreview("  short  "))
}

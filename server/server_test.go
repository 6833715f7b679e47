package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Abraxas-365/lectora/eventbus"
	"github.com/Abraxas-365/lectora/ocr"
	"github.com/Abraxas-365/lectora/scan"
	"github.com/Abraxas-365/lectora/speech"
	"github.com/Abraxas-365/lectora/store"
	"github.com/Abraxas-365/lectora/summarize"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubOCR struct {
	text string
	err  error
}

func (s *stubOCR) ExtractText(ctx context.Context, imageBase64 []byte, onProgress ocr.ProgressFunc, opts ...ocr.Option) (ocr.Result, error) {
	if s.err != nil {
		return ocr.Result{}, s.err
	}
	if onProgress != nil {
		onProgress(100)
	}
	return ocr.Result{Text: s.text}, nil
}

type stubSummarizer struct{}

func (stubSummarizer) Summarize(ctx context.Context, text string, opts ...summarize.Option) (string, error) {
	return "summary of: " + text, nil
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	st := store.New(store.NewLocal(), t.TempDir())
	library := scan.NewLibrary(st)
	history := scan.NewHistory(st)
	settings := scan.NewSettingsService(st)
	summarizer := summarize.NewClient(stubSummarizer{})

	session := scan.NewSession(scan.Deps{
		OCR:        ocr.NewClient(&stubOCR{text: "scanned words"}),
		Summarizer: summarizer,
		Library:    library,
		History:    history,
		Settings:   settings,
		Speaker:    speech.NewSpeaker(speech.NewNoopEngine(), speech.WithRestartDelay(0)),
		Store:      st,
		Bus:        eventbus.New(),
	})

	srv := New(session, library, history, settings, summarizer)
	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)
	return ts
}

func doJSON(t *testing.T, method, url string, body any) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func TestServer_Scan_ReturnsSnapshot(t *testing.T) {
	ts := newTestServer(t)

	resp := doJSON(t, http.MethodPost, ts.URL+"/v1/scans", map[string]string{
		"image": "aW1hZ2U=",
		"type":  "document",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	snapshot := decode[scan.Snapshot](t, resp)
	assert.Equal(t, scan.StateSuccess, snapshot.State)
	assert.Equal(t, "scanned words", snapshot.Text)
	assert.Equal(t, 100, snapshot.Progress)
}

func TestServer_Scan_EmptyImageIsValidationError(t *testing.T) {
	ts := newTestServer(t)

	resp := doJSON(t, http.MethodPost, ts.URL+"/v1/scans", map[string]string{"image": ""})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	body := decode[map[string]any](t, resp)
	assert.Equal(t, "OCR_EMPTY_IMAGE", body["code"])
}

func TestServer_Texts_SaveListDelete(t *testing.T) {
	ts := newTestServer(t)

	resp := doJSON(t, http.MethodPost, ts.URL+"/v1/texts", map[string]string{
		"title": "Receipt",
		"text":  "total 12.50",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decode[scan.SavedText](t, resp)
	require.NotEmpty(t, created.ID)

	resp = doJSON(t, http.MethodGet, ts.URL+"/v1/texts", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	items := decode[[]scan.SavedText](t, resp)
	require.Len(t, items, 1)
	assert.Equal(t, "Receipt", items[0].Title)

	resp = doJSON(t, http.MethodGet, fmt.Sprintf("%s/v1/texts/%s", ts.URL, created.ID), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doJSON(t, http.MethodDelete, fmt.Sprintf("%s/v1/texts/%s", ts.URL, created.ID), nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = doJSON(t, http.MethodGet, fmt.Sprintf("%s/v1/texts/%s", ts.URL, created.ID), nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestServer_Texts_SaveValidation(t *testing.T) {
	ts := newTestServer(t)

	resp := doJSON(t, http.MethodPost, ts.URL+"/v1/texts", map[string]string{
		"title": "",
		"text":  "body",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	body := decode[map[string]any](t, resp)
	assert.Equal(t, "SCAN_INVALID_SAVED_TEXT", body["code"])
}

func TestServer_Texts_Clear(t *testing.T) {
	ts := newTestServer(t)

	doJSON(t, http.MethodPost, ts.URL+"/v1/texts", map[string]string{"title": "a", "text": "x"})
	doJSON(t, http.MethodPost, ts.URL+"/v1/texts", map[string]string{"title": "b", "text": "y"})

	resp := doJSON(t, http.MethodDelete, ts.URL+"/v1/texts", nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = doJSON(t, http.MethodGet, ts.URL+"/v1/texts", nil)
	items := decode[[]scan.SavedText](t, resp)
	assert.Empty(t, items)
}

func TestServer_History_RecordsScans(t *testing.T) {
	ts := newTestServer(t)

	doJSON(t, http.MethodPost, ts.URL+"/v1/scans", map[string]string{"image": "aW1n", "type": "qr"})

	resp := doJSON(t, http.MethodGet, ts.URL+"/v1/history?type=qr", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	items := decode[[]scan.HistoryItem](t, resp)
	require.Len(t, items, 1)
	assert.Equal(t, scan.TypeQR, items[0].Type)
	assert.Equal(t, scan.StatusSuccess, items[0].Status)

	resp = doJSON(t, http.MethodGet, ts.URL+"/v1/history?type=document", nil)
	items = decode[[]scan.HistoryItem](t, resp)
	assert.Empty(t, items)

	resp = doJSON(t, http.MethodDelete, ts.URL+"/v1/history", nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestServer_Summaries(t *testing.T) {
	ts := newTestServer(t)

	resp := doJSON(t, http.MethodPost, ts.URL+"/v1/summaries", map[string]string{"text": "long text"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decode[map[string]string](t, resp)
	assert.Equal(t, "summary of: long text", body["summary"])
}

func TestServer_Settings_GetAndPut(t *testing.T) {
	ts := newTestServer(t)

	resp := doJSON(t, http.MethodGet, ts.URL+"/v1/settings", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	settings := decode[scan.Settings](t, resp)
	assert.Equal(t, scan.DefaultSettings(), settings)

	settings.AutoSave = true
	settings.Pitch = 5.0 // clamped on save
	resp = doJSON(t, http.MethodPut, ts.URL+"/v1/settings", settings)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	updated := decode[scan.Settings](t, resp)
	assert.True(t, updated.AutoSave)
	assert.Equal(t, 2.0, updated.Pitch)
}

func TestServer_InvalidBodyIsBadRequest(t *testing.T) {
	ts := newTestServer(t)

	req, err := http.NewRequest(http.MethodPost, ts.URL+"/v1/texts", bytes.NewBufferString("{broken"))
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

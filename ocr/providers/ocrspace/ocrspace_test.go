package ocrspace

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Abraxas-365/lectora/errx"
	"github.com/Abraxas-365/lectora/ocr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProvider(t *testing.T, handler http.HandlerFunc) *Provider {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return New("test-key", WithEndpoint(server.URL))
}

func TestProvider_ExtractText_Success(t *testing.T) {
	var gotAPIKey string
	var gotFields map[string]string

	provider := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		gotAPIKey = r.Header.Get("apikey")
		require.NoError(t, r.ParseMultipartForm(10<<20))
		gotFields = map[string]string{}
		for name, values := range r.MultipartForm.Value {
			gotFields[name] = values[0]
		}
		w.Write([]byte(`{
			"IsErroredOnProcessing": false,
			"ParsedResults": [{"ParsedText": "Hello\nWorld", "FileParseExitCode": 1}]
		}`))
	})

	var progress []int
	result, err := provider.ExtractText(context.Background(), []byte("aGVsbG8="), func(p int) {
		progress = append(progress, p)
	})
	require.NoError(t, err)

	assert.Equal(t, "Hello\nWorld", result.Text)
	assert.Equal(t, "test-key", gotAPIKey)

	assert.Equal(t, "data:image/jpeg;base64,aGVsbG8=", gotFields["base64Image"])
	assert.Equal(t, "eng", gotFields["language"])
	assert.Equal(t, "false", gotFields["isOverlayRequired"])
	assert.Equal(t, "true", gotFields["detectOrientation"])
	assert.Equal(t, "true", gotFields["scale"])
	assert.Equal(t, "1", gotFields["OCREngine"])
	assert.Equal(t, "JPG", gotFields["filetype"])

	require.NotEmpty(t, progress)
	for i := 1; i < len(progress); i++ {
		assert.GreaterOrEqual(t, progress[i], progress[i-1], "progress must be non-decreasing")
	}
	assert.Equal(t, 100, progress[len(progress)-1])
}

func TestProvider_ExtractText_KeepsExistingDataURLPrefix(t *testing.T) {
	var gotImage string
	provider := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(10<<20))
		gotImage = r.MultipartForm.Value["base64Image"][0]
		w.Write([]byte(`{"ParsedResults": [{"ParsedText": "x", "FileParseExitCode": 1}]}`))
	})

	_, err := provider.ExtractText(context.Background(), []byte("data:image/png;base64,aGVsbG8="), nil)
	require.NoError(t, err)
	assert.Equal(t, "data:image/png;base64,aGVsbG8=", gotImage)
}

func TestProvider_ExtractText_ProcessingErrorCarriesProviderMessage(t *testing.T) {
	provider := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"IsErroredOnProcessing": true, "ErrorMessage": "bad image"}`))
	})

	_, err := provider.ExtractText(context.Background(), []byte("aGVsbG8="), nil)
	require.Error(t, err)
	assert.True(t, errx.IsCode(err, ocr.ErrProviderFailed))
	assert.Contains(t, err.Error(), "bad image")
}

func TestProvider_ExtractText_ErrorMessageArrayShape(t *testing.T) {
	provider := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"IsErroredOnProcessing": true, "ErrorMessage": ["first failure", "second"]}`))
	})

	_, err := provider.ExtractText(context.Background(), []byte("aGVsbG8="), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "first failure")
}

func TestProvider_ExtractText_EmptyParsedResults(t *testing.T) {
	provider := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"IsErroredOnProcessing": false, "ParsedResults": []}`))
	})

	_, err := provider.ExtractText(context.Background(), []byte("aGVsbG8="), nil)
	require.Error(t, err)
	assert.True(t, errx.IsCode(err, ocr.ErrNoResults))
}

func TestProvider_ExtractText_BadFileParseExitCode(t *testing.T) {
	provider := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"ParsedResults": [{"ParsedText": "", "FileParseExitCode": -10, "ErrorMessage": "unreadable"}]}`))
	})

	_, err := provider.ExtractText(context.Background(), []byte("aGVsbG8="), nil)
	require.Error(t, err)
	assert.True(t, errx.IsCode(err, ocr.ErrProviderFailed))
	assert.Contains(t, err.Error(), "unreadable")
}

func TestProvider_ExtractText_NonSuccessStatus(t *testing.T) {
	provider := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})

	_, err := provider.ExtractText(context.Background(), []byte("aGVsbG8="), nil)
	require.Error(t, err)
	assert.True(t, errx.IsCode(err, ocr.ErrRequestFailed))
}

func TestProvider_ExtractText_OptionsOverrideFormFields(t *testing.T) {
	var gotFields map[string]string
	provider := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(10<<20))
		gotFields = map[string]string{}
		for name, values := range r.MultipartForm.Value {
			gotFields[name] = values[0]
		}
		w.Write([]byte(`{"ParsedResults": [{"ParsedText": "x", "FileParseExitCode": 1}]}`))
	})

	_, err := provider.ExtractText(context.Background(), []byte("aGVsbG8="), nil,
		ocr.WithLanguage("spa"),
		ocr.WithEngine(2),
		ocr.WithOverlay(true),
	)
	require.NoError(t, err)
	assert.Equal(t, "spa", gotFields["language"])
	assert.Equal(t, "2", gotFields["OCREngine"])
	assert.Equal(t, "true", gotFields["isOverlayRequired"])
}

func TestProvider_ExtractText_ProgressStopsShortOnFailure(t *testing.T) {
	provider := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"IsErroredOnProcessing": true, "ErrorMessage": "nope"}`))
	})

	var progress []int
	_, err := provider.ExtractText(context.Background(), []byte("aGVsbG8="), func(p int) {
		progress = append(progress, p)
	})
	require.Error(t, err)
	require.NotEmpty(t, progress)
	assert.True(t, strings.HasSuffix(err.Error(), "nope"))
	assert.Less(t, progress[len(progress)-1], 100)
}

package errx

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_Register_PrefixesCodes(t *testing.T) {
	registry := NewRegistry("TEST")
	code := registry.Register("SOMETHING_BROKE", TypeInternal, http.StatusInternalServerError, "Something broke")

	assert.Equal(t, Code("TEST_SOMETHING_BROKE"), code)

	err := registry.New(code)
	assert.Equal(t, code, err.Code)
	assert.Equal(t, TypeInternal, err.Type)
	assert.Equal(t, "Something broke", err.Message)
}

func TestRegistry_New_UnknownCodeFallsBack(t *testing.T) {
	registry := NewRegistry("TEST")

	err := registry.New("TEST_NEVER_REGISTERED")
	assert.Equal(t, Code("UNKNOWN_ERROR"), err.Code)
	assert.Equal(t, http.StatusInternalServerError, err.HTTPStatus)
}

func TestRegistry_New_CopiesDefinition(t *testing.T) {
	registry := NewRegistry("TEST")
	code := registry.Register("X", TypeValidation, http.StatusBadRequest, "x")

	first := registry.New(code).WithDetail("k", "v")
	second := registry.New(code)

	assert.NotNil(t, first.Details)
	assert.Nil(t, second.Details, "details must not leak between instances")
}

func TestIsCodeAndIsType_ThroughWrapping(t *testing.T) {
	registry := NewRegistry("TEST")
	code := registry.Register("NOT_FOUND", TypeNotFound, http.StatusNotFound, "missing")

	err := registry.New(code)
	wrapped := fmt.Errorf("outer: %w", err)

	assert.True(t, IsCode(wrapped, code))
	assert.True(t, IsType(wrapped, TypeNotFound))
	assert.False(t, IsCode(wrapped, Code("OTHER")))
	assert.False(t, IsCode(errors.New("plain"), code))
}

func TestError_UnwrapExposesCause(t *testing.T) {
	registry := NewRegistry("TEST")
	code := registry.Register("WRAPPED", TypeExternal, http.StatusBadGateway, "remote failed")

	cause := errors.New("connection refused")
	err := registry.NewWithCause(code, cause)

	assert.ErrorIs(t, err, cause)
}

func TestError_ToHTTP_WritesStatusAndJSON(t *testing.T) {
	registry := NewRegistry("TEST")
	code := registry.Register("BAD_INPUT", TypeValidation, http.StatusBadRequest, "bad input")

	rec := httptest.NewRecorder()
	registry.New(code).WithDetail("field", "title").ToHTTP(rec)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "TEST_BAD_INPUT")
	assert.Contains(t, rec.Body.String(), "title")
}

func TestError_ToHTTP_ZeroStatusDefaultsTo500(t *testing.T) {
	rec := httptest.NewRecorder()
	New("boom", TypeInternal).ToHTTP(rec)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestWrap_KeepsCodeOfWrappedError(t *testing.T) {
	registry := NewRegistry("TEST")
	code := registry.Register("INNER", TypeInternal, http.StatusInternalServerError, "inner")

	inner := registry.New(code)
	wrapped := Wrap(inner, "while doing the thing", TypeExternal)

	assert.Equal(t, code, wrapped.Code)
	assert.Equal(t, TypeExternal, wrapped.Type)
	assert.ErrorIs(t, wrapped, inner)
}

func TestWrap_NilReturnsNil(t *testing.T) {
	assert.Nil(t, Wrap(nil, "m", TypeInternal))
}

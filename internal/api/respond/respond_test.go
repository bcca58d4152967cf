package respond

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pulseboard/pulseboard/internal/model"
	"github.com/pulseboard/pulseboard/internal/pagination"
)

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestData(t *testing.T) {
	rec := httptest.NewRecorder()
	Data(rec, http.StatusCreated, map[string]string{"id": "u1"})

	assert.Equal(t, http.StatusCreated, rec.Code)
	out := decode(t, rec)
	assert.Equal(t, map[string]any{"id": "u1"}, out["data"])
	assert.NotContains(t, out, "error")
	assert.NotContains(t, out, "meta")
}

func TestPage(t *testing.T) {
	rec := httptest.NewRecorder()
	Page(rec, pagination.Page{Page: 2, PageSize: 25, TotalCount: 51}, []any{})

	assert.Equal(t, http.StatusOK, rec.Code)
	out := decode(t, rec)
	meta := out["meta"].(map[string]any)
	assert.Equal(t, float64(2), meta["page"])
	assert.Equal(t, float64(25), meta["page_size"])
	assert.Equal(t, float64(51), meta["total_count"])
	items, ok := out["data"].([]any)
	require.True(t, ok)
	assert.Empty(t, items)
}

func TestErrorValidation(t *testing.T) {
	rec := httptest.NewRecorder()
	Error(rec, &model.ValidationError{Messages: []string{"body is required", "mood is required"}})

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	e := decode(t, rec)["error"].(map[string]any)
	assert.Equal(t, "validation_error", e["code"])
	assert.Len(t, e["messages"].([]any), 2)
	assert.NotContains(t, e, "message")
}

func TestErrorNotFound(t *testing.T) {
	rec := httptest.NewRecorder()
	Error(rec, model.ErrNotFound)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	e := decode(t, rec)["error"].(map[string]any)
	assert.Equal(t, "not_found", e["code"])
	assert.Equal(t, "resource not found", e["message"])
}

// wrapped sentinels still map to their envelope
func TestErrorWrappedNotFound(t *testing.T) {
	rec := httptest.NewRecorder()
	Error(rec, errors.Join(errors.New("loading update"), model.ErrNotFound))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestErrorInternalHidesDetail(t *testing.T) {
	rec := httptest.NewRecorder()
	Error(rec, errors.New("pq: connection reset by peer"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	e := decode(t, rec)["error"].(map[string]any)
	assert.Equal(t, "internal_error", e["code"])
	assert.Equal(t, "internal server error", e["message"])
	assert.NotContains(t, rec.Body.String(), "connection reset")
}

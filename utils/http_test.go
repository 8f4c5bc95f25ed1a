package utils

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	require.NoError(t, WriteJSON(rec, 200, map[string]string{"status": "ok"}))

	assert.Equal(t, 200, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestWriteJSONNilBody(t *testing.T) {
	rec := httptest.NewRecorder()
	require.NoError(t, WriteJSON(rec, 204, nil))
	assert.Equal(t, 204, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestWriteRaw(t *testing.T) {
	rec := httptest.NewRecorder()
	require.NoError(t, WriteRaw(rec, 200, []byte(`{"response":{"allowed":true}}`)))

	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"response":{"allowed":true}}`, rec.Body.String())
}

func TestWriteBadRequest(t *testing.T) {
	rec := httptest.NewRecorder()
	require.NoError(t, WriteBadRequest(rec, "missing request field", map[string]interface{}{"field": "request"}))

	assert.Equal(t, 400, rec.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "bad_request", resp.Error)
	assert.Equal(t, "missing request field", resp.Message)
	assert.Equal(t, "request", resp.Details["field"])
}

func TestWriteUnsupportedMediaType(t *testing.T) {
	rec := httptest.NewRecorder()
	require.NoError(t, WriteUnsupportedMediaType(rec, ""))
	assert.Equal(t, 415, rec.Code)
	assert.Contains(t, rec.Body.String(), "unsupported_media_type")
}

func TestWriteInternalServerError(t *testing.T) {
	rec := httptest.NewRecorder()
	require.NoError(t, WriteInternalServerError(rec, ""))
	assert.Equal(t, 500, rec.Code)
	assert.Contains(t, rec.Body.String(), "internal_error")
}

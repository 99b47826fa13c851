package transport

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body
}

func TestWriteStatusMirrorsCode(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteStatus(rec, http.StatusCreated, "created", Body{"item": "x"})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	body := decode(t, rec)
	assert.Equal(t, float64(201), body["status"])
	assert.Equal(t, "created", body["message"])
	assert.Equal(t, "x", body["item"])
}

func TestWriteInternalHidesCause(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteInternal(rec, errors.New("connection refused"), false)
	body := decode(t, rec)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, body, "error")

	rec = httptest.NewRecorder()
	WriteInternal(rec, errors.New("connection refused"), true)
	body = decode(t, rec)
	assert.Equal(t, "connection refused", body["error"])
}

package responses

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/pratomobowo/pasarantar-sub000/pkg/errors"
	"github.com/pratomobowo/pasarantar-sub000/pkg/logger"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	return logger.New(logger.Options{ServiceName: "responses-test", Output: io.Discard})
}

func TestWriteSuccessWrapsData(t *testing.T) {
	rec := httptest.NewRecorder()

	WriteSuccess(rec, map[string]string{"hello": "dunia"})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body map[string]map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "dunia", body["data"]["hello"])
}

func TestWriteSuccessStatusCreated(t *testing.T) {
	rec := httptest.NewRecorder()

	WriteSuccessStatus(rec, http.StatusCreated, map[string]string{"id": "abc"})

	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestWriteErrorExposesClientMessages(t *testing.T) {
	rec := httptest.NewRecorder()

	err := pkgerrors.New(pkgerrors.CodeValidation, "Nama wajib diisi.").
		WithDetails(map[string]string{"name": "Nama wajib diisi."})
	WriteError(context.Background(), testLogger(t), rec, err)

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var body struct {
		Error struct {
			Code    string            `json:"code"`
			Message string            `json:"message"`
			Details map[string]string `json:"details"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, string(pkgerrors.CodeValidation), body.Error.Code)
	assert.Equal(t, "Nama wajib diisi.", body.Error.Message)
	assert.Equal(t, "Nama wajib diisi.", body.Error.Details["name"])
}

func TestWriteErrorMasksInternalMessages(t *testing.T) {
	rec := httptest.NewRecorder()

	err := pkgerrors.New(pkgerrors.CodeInternal, "db connection refused at 10.0.0.4")
	WriteError(context.Background(), testLogger(t), rec, err)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var body struct {
		Error struct {
			Message string `json:"message"`
			Details any    `json:"details"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.NotContains(t, body.Error.Message, "10.0.0.4")
	assert.Nil(t, body.Error.Details)
}

func TestWriteErrorWrapsPlainErrors(t *testing.T) {
	rec := httptest.NewRecorder()

	WriteError(context.Background(), testLogger(t), rec, assert.AnError)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, string(pkgerrors.CodeInternal), body.Error.Code)
}

package handler

import (
	"net/http"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/batch-fee-api/internal/repository"
	"github.com/noah-isme/batch-fee-api/internal/service"
)

func TestBatchHandlerGetMalformedIDIsNotFound(t *testing.T) {
	raw, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer raw.Close()
	db := sqlx.NewDb(raw, "sqlmock")

	svc := service.NewBatchService(repository.NewBatchRepository(db), nil, nil, nil)
	r := newTestRouter()
	r.GET("/batches/:id", NewBatchHandler(svc).Get)

	w, env := perform(t, r, http.MethodGet, "/batches/abc", "")
	require.Equal(t, http.StatusNotFound, w.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "NOT_FOUND", env.Error.Code)
	assert.Empty(t, w.Header().Get("Retry-After"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

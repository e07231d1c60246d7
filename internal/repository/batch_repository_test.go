package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/batch-fee-api/internal/models"
)

func newMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	sqlxdb := sqlx.NewDb(db, "sqlmock")
	return sqlxdb, mock, func() {
		db.Close()
	}
}

var batchRowColumns = []string{"id", "batch_name", "number_of_students", "classes_per_month", "course", "medium", "created_at"}

type countingObserver struct{ labels []string }

func (o *countingObserver) ObserveDBQuery(label string, _ time.Duration) {
	o.labels = append(o.labels, label)
}

func TestBatchRepositoryList(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	obs := &countingObserver{}
	repo := NewBatchRepository(db).WithObserver(obs)

	now := time.Now()
	rows := sqlmock.NewRows(batchRowColumns).
		AddRow("b1", "Morning Math", 8, 8, "Math", "English", now).
		AddRow("b2", "Evening Science", 4, 12, "Science", "Hindi", now.Add(time.Minute))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, batch_name, number_of_students, classes_per_month, course, medium, created_at FROM batches ORDER BY created_at ASC, id ASC")).
		WillReturnRows(rows)

	batches, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, batches, 2)
	assert.Equal(t, "Morning Math", batches[0].BatchName)
	assert.Equal(t, 12, batches[1].ClassesPerMonth)
	assert.Equal(t, []string{"batches.list"}, obs.labels)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBatchRepositoryListEmptyIsNotNil(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewBatchRepository(db)

	mock.ExpectQuery("FROM batches").WillReturnRows(sqlmock.NewRows(batchRowColumns))

	batches, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, batches)
	assert.Empty(t, batches)
}

func TestBatchRepositoryFindByIDNotFound(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewBatchRepository(db)

	const missing = "9b2f6a52-3c1d-4e0a-8f57-2d4c1b7e9a10"
	mock.ExpectQuery(regexp.QuoteMeta("FROM batches WHERE id = $1")).
		WithArgs(missing).
		WillReturnRows(sqlmock.NewRows(batchRowColumns))

	_, err := repo.FindByID(context.Background(), missing)
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBatchRepositoryFindByIDMalformedSkipsQuery(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewBatchRepository(db)

	_, err := repo.FindByID(context.Background(), "abc")
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBatchRepositoryExistsByName(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewBatchRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM batches WHERE batch_name = $1 LIMIT 1")).
		WithArgs("Morning Math").
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM batches WHERE batch_name = $1 LIMIT 1")).
		WithArgs("Unknown").
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}))

	exists, err := repo.ExistsByName(context.Background(), "Morning Math")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.ExistsByName(context.Background(), "Unknown")
	require.NoError(t, err)
	assert.False(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBatchRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewBatchRepository(db)

	mock.ExpectExec("INSERT INTO batches").WillReturnResult(sqlmock.NewResult(1, 1))

	batch := &models.Batch{BatchName: "Morning Math", NumberOfStudents: 8, ClassesPerMonth: 8, Course: "Math", Medium: "English"}
	require.NoError(t, repo.Create(context.Background(), batch))
	assert.NotEmpty(t, batch.ID)
	assert.False(t, batch.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBatchRepositoryCreateDuplicate(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewBatchRepository(db)

	mock.ExpectExec("INSERT INTO batches").WillReturnError(&pq.Error{Code: "23505", Message: "duplicate key value violates unique constraint"})

	err := repo.Create(context.Background(), &models.Batch{BatchName: "Morning Math"})
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestBatchRepositoryCreateOtherError(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewBatchRepository(db)

	mock.ExpectExec("INSERT INTO batches").WillReturnError(errors.New("connection reset"))

	err := repo.Create(context.Background(), &models.Batch{BatchName: "Morning Math"})
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrDuplicate))
}

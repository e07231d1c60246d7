package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/batch-fee-api/internal/models"
)

var feeStructureRowColumns = []string{"id", "name", "min_students", "max_students", "region", "medium", "course", "monthly_fee", "total_classes", "remarks", "created_at"}

func TestFeeStructureRepositoryList(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewFeeStructureRepository(db)

	rows := sqlmock.NewRows(feeStructureRowColumns).
		AddRow("fs1", "Standard Package", 6, 10, "India", "English", "Math", "200.00", 10, "Standard package for small groups", time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("FROM fee_structures ORDER BY created_at ASC, id ASC")).WillReturnRows(rows)

	items, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Standard Package", items[0].Name)
	assert.True(t, items[0].MonthlyFee.Equal(decimal.NewFromInt(200)))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFeeStructureRepositoryFindByIDs(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewFeeStructureRepository(db)

	const (
		known = "5d0c3f4e-8a21-4b6f-9c3e-7f1a2b3c4d5e"
		gone  = "0f9e8d7c-6b5a-4c3d-8e2f-1a0b9c8d7e6f"
	)
	rows := sqlmock.NewRows(feeStructureRowColumns).
		AddRow(known, "Standard Package", 6, 10, "India", "English", "Math", "200", 10, "r", time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("FROM fee_structures WHERE id IN (?, ?)")).
		WithArgs(known, gone).
		WillReturnRows(rows)

	found, err := repo.FindByIDs(context.Background(), []string{known, gone, "not-a-uuid"})
	require.NoError(t, err)
	assert.Len(t, found, 1)
	assert.Contains(t, found, known)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFeeStructureRepositoryFindByIDsOnlyMalformed(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewFeeStructureRepository(db)

	found, err := repo.FindByIDs(context.Background(), []string{"fs1"})
	require.NoError(t, err)
	assert.Empty(t, found)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFeeStructureRepositoryFindByIDMalformedSkipsQuery(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewFeeStructureRepository(db)

	_, err := repo.FindByID(context.Background(), "abc")
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFeeStructureRepositoryFindByIDsEmpty(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewFeeStructureRepository(db)

	found, err := repo.FindByIDs(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, found)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFeeStructureRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewFeeStructureRepository(db)

	mock.ExpectExec("INSERT INTO fee_structures").
		WithArgs(sqlmock.AnyArg(), "Standard Package", 6, 10, "India", "English", "Math", "200", 10, "notes", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	item := &models.FeeStructure{Name: "Standard Package", MinStudents: 6, MaxStudents: 10, Region: "India", Medium: "English", Course: "Math", MonthlyFee: decimal.NewFromInt(200), TotalClasses: 10, Remarks: "notes"}
	require.NoError(t, repo.Create(context.Background(), item))
	assert.NotEmpty(t, item.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

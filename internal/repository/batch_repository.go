package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/batch-fee-api/internal/models"
)

const batchColumns = "id, batch_name, number_of_students, classes_per_month, course, medium, created_at"

// BatchRepository handles persistence for batches.
type BatchRepository struct {
	db       *sqlx.DB
	observer QueryObserver
}

// NewBatchRepository creates a new repository instance.
func NewBatchRepository(db *sqlx.DB) *BatchRepository {
	return &BatchRepository{db: db, observer: noopObserver{}}
}

// WithObserver attaches a query timing observer.
func (r *BatchRepository) WithObserver(o QueryObserver) *BatchRepository {
	if o != nil {
		r.observer = o
	}
	return r
}

// List returns every batch in creation order.
func (r *BatchRepository) List(ctx context.Context) ([]models.Batch, error) {
	defer observe(r.observer, "batches.list", time.Now())
	query := "SELECT " + batchColumns + " FROM batches ORDER BY created_at ASC, id ASC"
	batches := []models.Batch{}
	if err := r.db.SelectContext(ctx, &batches, query); err != nil {
		return nil, fmt.Errorf("list batches: %w", err)
	}
	return batches, nil
}

// FindByID returns a batch by id, or sql.ErrNoRows.
func (r *BatchRepository) FindByID(ctx context.Context, id string) (*models.Batch, error) {
	if !validID(id) {
		return nil, sql.ErrNoRows
	}
	defer observe(r.observer, "batches.find", time.Now())
	query := "SELECT " + batchColumns + " FROM batches WHERE id = $1"
	var batch models.Batch
	if err := r.db.GetContext(ctx, &batch, query, id); err != nil {
		return nil, err
	}
	return &batch, nil
}

// ExistsByName checks uniqueness of the batch name.
func (r *BatchRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	defer observe(r.observer, "batches.exists", time.Now())
	var exists int
	if err := r.db.GetContext(ctx, &exists, "SELECT 1 FROM batches WHERE batch_name = $1 LIMIT 1", name); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("check batch name: %w", err)
	}
	return true, nil
}

// Create persists a new batch. A name collision yields ErrDuplicate.
func (r *BatchRepository) Create(ctx context.Context, batch *models.Batch) error {
	defer observe(r.observer, "batches.create", time.Now())
	if batch.ID == "" {
		batch.ID = uuid.NewString()
	}
	if batch.CreatedAt.IsZero() {
		batch.CreatedAt = time.Now().UTC()
	}

	const query = `INSERT INTO batches (id, batch_name, number_of_students, classes_per_month, course, medium, created_at) VALUES (:id, :batch_name, :number_of_students, :classes_per_month, :course, :medium, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, batch); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("create batch %q: %w", batch.BatchName, ErrDuplicate)
		}
		return fmt.Errorf("create batch: %w", err)
	}
	return nil
}

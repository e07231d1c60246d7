package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/batch-fee-api/internal/models"
)

const batchFeeColumns = "id, batch_name, fee_structure_id, student_discounts, total_monthly_fee, total_discount, final_fee, created_at"

// BatchFeeRepository handles persistence for calculated batch fees.
type BatchFeeRepository struct {
	db       *sqlx.DB
	observer QueryObserver
}

// NewBatchFeeRepository creates a new repository instance.
func NewBatchFeeRepository(db *sqlx.DB) *BatchFeeRepository {
	return &BatchFeeRepository{db: db, observer: noopObserver{}}
}

// WithObserver attaches a query timing observer.
func (r *BatchFeeRepository) WithObserver(o QueryObserver) *BatchFeeRepository {
	if o != nil {
		r.observer = o
	}
	return r
}

// List returns every batch fee in creation order.
func (r *BatchFeeRepository) List(ctx context.Context) ([]models.BatchFee, error) {
	defer observe(r.observer, "batch_fees.list", time.Now())
	query := "SELECT " + batchFeeColumns + " FROM batch_fees ORDER BY created_at ASC, id ASC"
	fees := []models.BatchFee{}
	if err := r.db.SelectContext(ctx, &fees, query); err != nil {
		return nil, fmt.Errorf("list batch fees: %w", err)
	}
	return fees, nil
}

// Create persists a batch fee in a single statement.
func (r *BatchFeeRepository) Create(ctx context.Context, fee *models.BatchFee) error {
	defer observe(r.observer, "batch_fees.create", time.Now())
	if fee.ID == "" {
		fee.ID = uuid.NewString()
	}
	if fee.CreatedAt.IsZero() {
		fee.CreatedAt = time.Now().UTC()
	}
	if fee.StudentDiscounts == nil {
		fee.StudentDiscounts = models.StudentDiscounts{}
	}

	const query = `INSERT INTO batch_fees (id, batch_name, fee_structure_id, student_discounts, total_monthly_fee, total_discount, final_fee, created_at) VALUES (:id, :batch_name, :fee_structure_id, :student_discounts, :total_monthly_fee, :total_discount, :final_fee, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, fee); err != nil {
		return fmt.Errorf("create batch fee: %w", err)
	}
	return nil
}

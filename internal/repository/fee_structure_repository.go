package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/batch-fee-api/internal/models"
)

const feeStructureColumns = "id, name, min_students, max_students, region, medium, course, monthly_fee, total_classes, remarks, created_at"

// FeeStructureRepository handles persistence for fee structures.
type FeeStructureRepository struct {
	db       *sqlx.DB
	observer QueryObserver
}

// NewFeeStructureRepository creates a new repository instance.
func NewFeeStructureRepository(db *sqlx.DB) *FeeStructureRepository {
	return &FeeStructureRepository{db: db, observer: noopObserver{}}
}

// WithObserver attaches a query timing observer.
func (r *FeeStructureRepository) WithObserver(o QueryObserver) *FeeStructureRepository {
	if o != nil {
		r.observer = o
	}
	return r
}

// List returns every fee structure in creation order.
func (r *FeeStructureRepository) List(ctx context.Context) ([]models.FeeStructure, error) {
	defer observe(r.observer, "fee_structures.list", time.Now())
	query := "SELECT " + feeStructureColumns + " FROM fee_structures ORDER BY created_at ASC, id ASC"
	items := []models.FeeStructure{}
	if err := r.db.SelectContext(ctx, &items, query); err != nil {
		return nil, fmt.Errorf("list fee structures: %w", err)
	}
	return items, nil
}

// FindByID returns a fee structure by id, or sql.ErrNoRows.
func (r *FeeStructureRepository) FindByID(ctx context.Context, id string) (*models.FeeStructure, error) {
	if !validID(id) {
		return nil, sql.ErrNoRows
	}
	defer observe(r.observer, "fee_structures.find", time.Now())
	query := "SELECT " + feeStructureColumns + " FROM fee_structures WHERE id = $1"
	var item models.FeeStructure
	if err := r.db.GetContext(ctx, &item, query, id); err != nil {
		return nil, err
	}
	return &item, nil
}

// FindByIDs returns the fee structures matching ids, keyed by id. Unknown and
// malformed ids are skipped.
func (r *FeeStructureRepository) FindByIDs(ctx context.Context, ids []string) (map[string]models.FeeStructure, error) {
	out := make(map[string]models.FeeStructure, len(ids))
	valid := make([]string, 0, len(ids))
	for _, id := range ids {
		if validID(id) {
			valid = append(valid, id)
		}
	}
	ids = valid
	if len(ids) == 0 {
		return out, nil
	}
	defer observe(r.observer, "fee_structures.find_many", time.Now())
	query, args, err := sqlx.In("SELECT "+feeStructureColumns+" FROM fee_structures WHERE id IN (?)", ids)
	if err != nil {
		return nil, fmt.Errorf("build fee structure lookup: %w", err)
	}
	var items []models.FeeStructure
	if err := r.db.SelectContext(ctx, &items, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("find fee structures: %w", err)
	}
	for _, item := range items {
		out[item.ID] = item
	}
	return out, nil
}

// Create persists a new fee structure.
func (r *FeeStructureRepository) Create(ctx context.Context, item *models.FeeStructure) error {
	defer observe(r.observer, "fee_structures.create", time.Now())
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	if item.CreatedAt.IsZero() {
		item.CreatedAt = time.Now().UTC()
	}

	const query = `INSERT INTO fee_structures (id, name, min_students, max_students, region, medium, course, monthly_fee, total_classes, remarks, created_at) VALUES (:id, :name, :min_students, :max_students, :region, :medium, :course, :monthly_fee, :total_classes, :remarks, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, item); err != nil {
		return fmt.Errorf("create fee structure: %w", err)
	}
	return nil
}

package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/noah-isme/batch-fee-api/internal/models"
	appErrors "github.com/noah-isme/batch-fee-api/pkg/errors"
)

type feeStructureRepository interface {
	List(ctx context.Context) ([]models.FeeStructure, error)
	FindByID(ctx context.Context, id string) (*models.FeeStructure, error)
	FindByIDs(ctx context.Context, ids []string) (map[string]models.FeeStructure, error)
	Create(ctx context.Context, item *models.FeeStructure) error
}

// CreateFeeStructureRequest captures fields for creating fee structures. Numeric
// fields are pointers so that an explicit zero is accepted while an absent field
// is rejected.
type CreateFeeStructureRequest struct {
	Name         string           `json:"feeStructureName" validate:"required"`
	MinStudents  *int             `json:"minStudents" validate:"required"`
	MaxStudents  *int             `json:"maxStudents" validate:"required"`
	Region       string           `json:"region" validate:"required"`
	Medium       string           `json:"medium" validate:"required"`
	Course       string           `json:"course" validate:"required"`
	MonthlyFee   *decimal.Decimal `json:"monthlyFee" validate:"required"`
	TotalClasses *int             `json:"totalClasses" validate:"required"`
	Remarks      string           `json:"remarks" validate:"required"`
}

// FeeStructureService handles fee structure registry workflows.
type FeeStructureService struct {
	repo      feeStructureRepository
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewFeeStructureService creates a new fee structure service.
func NewFeeStructureService(repo feeStructureRepository, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *FeeStructureService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FeeStructureService{repo: repo, cache: cache, validator: validate, logger: logger}
}

// List returns every fee structure in creation order and whether it came from cache.
func (s *FeeStructureService) List(ctx context.Context) ([]models.FeeStructure, bool, error) {
	items, hit, err := cachedList(ctx, s.cache, cacheKeyFeeStructures, s.repo.List)
	if err != nil {
		return nil, false, persistenceError(err, "failed to list fee structures")
	}
	return items, hit, nil
}

// Get returns a fee structure by identifier.
func (s *FeeStructureService) Get(ctx context.Context, id string) (*models.FeeStructure, error) {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "fee structure not found")
		}
		return nil, persistenceError(err, "failed to load fee structure")
	}
	return item, nil
}

// Create stores a fee structure. Only field presence is checked; names may repeat
// and the student range is not validated.
func (s *FeeStructureService) Create(ctx context.Context, req CreateFeeStructureRequest) (*models.FeeStructure, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Region = strings.TrimSpace(req.Region)
	req.Medium = strings.TrimSpace(req.Medium)
	req.Course = strings.TrimSpace(req.Course)
	req.Remarks = strings.TrimSpace(req.Remarks)
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid fee structure payload")
	}
	if !models.WholeCents(*req.MonthlyFee) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "monthlyFee must not have more than 2 decimal places")
	}

	item := &models.FeeStructure{
		Name:         req.Name,
		MinStudents:  *req.MinStudents,
		MaxStudents:  *req.MaxStudents,
		Region:       req.Region,
		Medium:       req.Medium,
		Course:       req.Course,
		MonthlyFee:   *req.MonthlyFee,
		TotalClasses: *req.TotalClasses,
		Remarks:      req.Remarks,
	}
	if err := s.repo.Create(ctx, item); err != nil {
		return nil, persistenceError(err, "failed to create fee structure")
	}

	s.cache.Invalidate(ctx, cacheKeyFeeStructures)
	return item, nil
}

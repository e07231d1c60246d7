package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/batch-fee-api/internal/models"
	"github.com/noah-isme/batch-fee-api/internal/repository"
	appErrors "github.com/noah-isme/batch-fee-api/pkg/errors"
)

type batchRepository interface {
	List(ctx context.Context) ([]models.Batch, error)
	FindByID(ctx context.Context, id string) (*models.Batch, error)
	ExistsByName(ctx context.Context, name string) (bool, error)
	Create(ctx context.Context, batch *models.Batch) error
}

// CreateBatchRequest captures fields for creating batches.
type CreateBatchRequest struct {
	BatchName        string `json:"batchName" validate:"required"`
	NumberOfStudents int    `json:"numberOfStudents" validate:"required,min=1"`
	ClassesPerMonth  int    `json:"classesPerMonth" validate:"required,min=1"`
	Course           string `json:"course" validate:"required"`
	Medium           string `json:"medium" validate:"required"`
}

// BatchService handles batch registry workflows.
type BatchService struct {
	repo      batchRepository
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewBatchService creates a new batch service.
func NewBatchService(repo batchRepository, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *BatchService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BatchService{repo: repo, cache: cache, validator: validate, logger: logger}
}

// List returns every batch in creation order and whether it came from cache.
func (s *BatchService) List(ctx context.Context) ([]models.Batch, bool, error) {
	batches, hit, err := cachedList(ctx, s.cache, cacheKeyBatches, s.repo.List)
	if err != nil {
		return nil, false, persistenceError(err, "failed to list batches")
	}
	return batches, hit, nil
}

// Get returns a batch by identifier.
func (s *BatchService) Get(ctx context.Context, id string) (*models.Batch, error) {
	batch, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "batch not found")
		}
		return nil, persistenceError(err, "failed to load batch")
	}
	return batch, nil
}

// Create adds a new batch ensuring the name is unique.
func (s *BatchService) Create(ctx context.Context, req CreateBatchRequest) (*models.Batch, error) {
	req.BatchName = strings.TrimSpace(req.BatchName)
	req.Course = strings.TrimSpace(req.Course)
	req.Medium = strings.TrimSpace(req.Medium)
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid batch payload")
	}

	exists, err := s.repo.ExistsByName(ctx, req.BatchName)
	if err != nil {
		return nil, persistenceError(err, "failed to check batch name")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "batch name already exists")
	}

	batch := &models.Batch{
		BatchName:        req.BatchName,
		NumberOfStudents: req.NumberOfStudents,
		ClassesPerMonth:  req.ClassesPerMonth,
		Course:           req.Course,
		Medium:           req.Medium,
	}
	if err := s.repo.Create(ctx, batch); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "batch name already exists")
		}
		return nil, persistenceError(err, "failed to create batch")
	}

	s.cache.Invalidate(ctx, cacheKeyBatches)
	s.logger.Info("batch created", zap.String("batch_id", batch.ID), zap.String("batch_name", batch.BatchName))
	return batch, nil
}

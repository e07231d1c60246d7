package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/noah-isme/batch-fee-api/internal/calculator"
	"github.com/noah-isme/batch-fee-api/internal/dto"
	"github.com/noah-isme/batch-fee-api/internal/models"
	appErrors "github.com/noah-isme/batch-fee-api/pkg/errors"
	"github.com/noah-isme/batch-fee-api/pkg/export"
)

type batchFeeRepository interface {
	List(ctx context.Context) ([]models.BatchFee, error)
	Create(ctx context.Context, fee *models.BatchFee) error
}

type batchLookup interface {
	Get(ctx context.Context, id string) (*models.Batch, error)
}

type feeStructureLookup interface {
	Get(ctx context.Context, id string) (*models.FeeStructure, error)
}

type feeStructureBulkLookup interface {
	FindByIDs(ctx context.Context, ids []string) (map[string]models.FeeStructure, error)
}

// Export formats supported by BatchFeeService.Export.
const (
	ExportFormatCSV = "csv"
	ExportFormatPDF = "pdf"
)

// ExportFile is a rendered batch fee report.
type ExportFile struct {
	Filename    string
	ContentType string
	Body        []byte
}

// BatchFeeServiceParams groups the collaborators of BatchFeeService.
type BatchFeeServiceParams struct {
	Repo          batchFeeRepository
	Batches       batchLookup
	FeeStructures feeStructureLookup
	FeeLookup     feeStructureBulkLookup
	Metrics       *MetricsService
	Validator     *validator.Validate
	Logger        *zap.Logger
}

// BatchFeeService calculates batch fees and records submitted calculations.
type BatchFeeService struct {
	repo          batchFeeRepository
	batches       batchLookup
	feeStructures feeStructureLookup
	feeLookup     feeStructureBulkLookup
	metrics       *MetricsService
	validator     *validator.Validate
	logger        *zap.Logger
	csv           *export.CSVExporter
	pdf           *export.PDFExporter
	now           func() time.Time
}

// NewBatchFeeService creates a new batch fee service.
func NewBatchFeeService(params BatchFeeServiceParams) *BatchFeeService {
	if params.Validator == nil {
		params.Validator = validator.New()
	}
	if params.Logger == nil {
		params.Logger = zap.NewNop()
	}
	return &BatchFeeService{
		repo:          params.Repo,
		batches:       params.Batches,
		feeStructures: params.FeeStructures,
		feeLookup:     params.FeeLookup,
		metrics:       params.Metrics,
		validator:     params.Validator,
		logger:        params.Logger,
		csv:           export.NewCSVExporter(),
		pdf:           export.NewPDFExporter(),
		now:           time.Now,
	}
}

// Calculate resolves the selected batch and fee structure and computes the fee.
// Nothing is persisted.
func (s *BatchFeeService) Calculate(ctx context.Context, req dto.CalculateBatchFeeRequest) (*calculator.Result, error) {
	result, err := s.calculate(ctx, req)
	s.metrics.ObserveBatchFee("calculate", err)
	return result, err
}

func (s *BatchFeeService) calculate(ctx context.Context, req dto.CalculateBatchFeeRequest) (*calculator.Result, error) {
	req.BatchID = strings.TrimSpace(req.BatchID)
	req.FeeStructureID = strings.TrimSpace(req.FeeStructureID)
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid batch fee payload")
	}

	discounts := make([]models.Discount, 0, len(req.StudentDiscounts))
	for i, d := range req.StudentDiscounts {
		name := strings.TrimSpace(d.StudentName)
		category := models.DiscountCategory(strings.TrimSpace(d.DiscountCategory))
		if name == "" {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("studentDiscounts[%d]: studentName is required", i))
		}
		if !category.Valid() {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("studentDiscounts[%d]: unknown discount category %q", i, d.DiscountCategory))
		}
		if !models.WholeCents(*d.DiscountAmount) {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("studentDiscounts[%d]: discountAmount must not have more than 2 decimal places", i))
		}
		discounts = append(discounts, models.Discount{
			StudentName:      name,
			DiscountCategory: category,
			DiscountAmount:   *d.DiscountAmount,
		})
	}

	batch, err := s.batches.Get(ctx, req.BatchID)
	if err != nil {
		return nil, err
	}
	feeStructure, err := s.feeStructures.Get(ctx, req.FeeStructureID)
	if err != nil {
		return nil, err
	}

	result := calculator.Compute(*batch, *feeStructure, discounts)
	if mismatches := result.Mismatches(); len(mismatches) > 0 {
		s.logger.Debug("batch does not match fee structure scope",
			zap.String("batch_id", batch.ID),
			zap.String("fee_structure_id", feeStructure.ID),
			zap.Any("mismatches", mismatches))
	}
	return &result, nil
}

// Submit persists a calculation result as a batch fee. A nil result is rejected
// before the store is contacted.
func (s *BatchFeeService) Submit(ctx context.Context, result *calculator.Result) (*models.BatchFee, error) {
	fee, err := s.submit(ctx, result)
	s.metrics.ObserveBatchFee("submit", err)
	return fee, err
}

func (s *BatchFeeService) submit(ctx context.Context, result *calculator.Result) (*models.BatchFee, error) {
	if result == nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "calculate fees before submitting")
	}
	fee := calculator.ToBatchFee(*result)
	if strings.TrimSpace(fee.BatchName) == "" || strings.TrimSpace(fee.FeeStructureID) == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "batch and fee structure are required")
	}

	if err := s.repo.Create(ctx, &fee); err != nil {
		return nil, persistenceError(err, "failed to save batch fee calculation")
	}
	s.logger.Info("batch fee recorded",
		zap.String("batch_fee_id", fee.ID),
		zap.String("batch_name", fee.BatchName),
		zap.String("final_fee", fee.FinalFee.String()))
	return &fee, nil
}

// Create calculates and persists in one step, so stored totals are always
// computed server side.
func (s *BatchFeeService) Create(ctx context.Context, req dto.CalculateBatchFeeRequest) (*models.BatchFeeDetail, error) {
	result, err := s.Calculate(ctx, req)
	if err != nil {
		return nil, err
	}
	fee, err := s.Submit(ctx, result)
	if err != nil {
		return nil, err
	}
	feeStructure := result.FeeStructure
	return &models.BatchFeeDetail{BatchFee: *fee, FeeStructure: &feeStructure}, nil
}

// List returns every batch fee with its fee structure attached when it still exists.
func (s *BatchFeeService) List(ctx context.Context) ([]models.BatchFeeDetail, error) {
	fees, err := s.repo.List(ctx)
	if err != nil {
		return nil, persistenceError(err, "failed to list batch fees")
	}

	ids := make([]string, 0, len(fees))
	seen := make(map[string]struct{}, len(fees))
	for _, fee := range fees {
		if _, ok := seen[fee.FeeStructureID]; ok {
			continue
		}
		seen[fee.FeeStructureID] = struct{}{}
		ids = append(ids, fee.FeeStructureID)
	}

	structures := map[string]models.FeeStructure{}
	if s.feeLookup != nil && len(ids) > 0 {
		structures, err = s.feeLookup.FindByIDs(ctx, ids)
		if err != nil {
			return nil, persistenceError(err, "failed to load fee structures")
		}
	}

	details := make([]models.BatchFeeDetail, 0, len(fees))
	for _, fee := range fees {
		detail := models.BatchFeeDetail{BatchFee: fee}
		if fs, ok := structures[fee.FeeStructureID]; ok {
			fs := fs
			detail.FeeStructure = &fs
		}
		details = append(details, detail)
	}
	return details, nil
}

// Export renders the batch fee history as CSV or PDF.
func (s *BatchFeeService) Export(ctx context.Context, format string) (*ExportFile, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = ExportFormatCSV
	}
	if format != ExportFormatCSV && format != ExportFormatPDF {
		return nil, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")
	}

	fees, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	data := batchFeeDataset(fees)
	stamp := s.now().UTC().Format("20060102-150405")

	switch format {
	case ExportFormatPDF:
		body, err := s.pdf.Render(data, "Batch Fee Statement")
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf")
		}
		return &ExportFile{Filename: "batch-fees-" + stamp + ".pdf", ContentType: "application/pdf", Body: body}, nil
	default:
		body, err := s.csv.Render(data)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
		}
		return &ExportFile{Filename: "batch-fees-" + stamp + ".csv", ContentType: "text/csv", Body: body}, nil
	}
}

var batchFeeExportHeaders = []string{"Batch", "Fee Structure", "Total Monthly Fee", "Total Discount", "Final Fee", "Discounts", "Created At"}

func batchFeeDataset(fees []models.BatchFeeDetail) export.Dataset {
	rows := make([]map[string]string, 0, len(fees))
	var billed, discounted, final decimal.Decimal
	for _, fee := range fees {
		billed = billed.Add(fee.TotalMonthlyFee)
		discounted = discounted.Add(fee.TotalDiscount)
		final = final.Add(fee.FinalFee)

		structure := fee.FeeStructureID
		if fee.FeeStructure != nil {
			structure = fee.FeeStructure.Name
		}
		discounts := make([]string, 0, len(fee.StudentDiscounts))
		for _, d := range fee.StudentDiscounts {
			discounts = append(discounts, fmt.Sprintf("%s (%s) %s", d.StudentName, d.DiscountCategory, d.DiscountAmount.StringFixed(2)))
		}
		rows = append(rows, map[string]string{
			"Batch":             fee.BatchName,
			"Fee Structure":     structure,
			"Total Monthly Fee": fee.TotalMonthlyFee.StringFixed(2),
			"Total Discount":    fee.TotalDiscount.StringFixed(2),
			"Final Fee":         fee.FinalFee.StringFixed(2),
			"Discounts":         strings.Join(discounts, "; "),
			"Created At":        fee.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	return export.Dataset{
		Headers: batchFeeExportHeaders,
		Rows:    rows,
		Summary: []string{
			fmt.Sprintf("Batch fees: %d", len(fees)),
			"Total monthly fee: " + billed.StringFixed(2),
			"Total discount: " + discounted.StringFixed(2),
			"Final fee: " + final.StringFixed(2),
		},
	}
}

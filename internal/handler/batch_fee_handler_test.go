package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/batch-fee-api/internal/calculator"
	"github.com/noah-isme/batch-fee-api/internal/dto"
	"github.com/noah-isme/batch-fee-api/internal/models"
	"github.com/noah-isme/batch-fee-api/internal/service"
	appErrors "github.com/noah-isme/batch-fee-api/pkg/errors"
)

type batchFeeServiceMock struct {
	calcResp     *calculator.Result
	calcErr      error
	createResp   *models.BatchFeeDetail
	createErr    error
	listResp     []models.BatchFeeDetail
	exportResp   *service.ExportFile
	exportErr    error
	lastRequest  dto.CalculateBatchFeeRequest
	lastFormat   string
	createCalled bool
}

func (m *batchFeeServiceMock) Calculate(ctx context.Context, req dto.CalculateBatchFeeRequest) (*calculator.Result, error) {
	m.lastRequest = req
	return m.calcResp, m.calcErr
}

func (m *batchFeeServiceMock) Create(ctx context.Context, req dto.CalculateBatchFeeRequest) (*models.BatchFeeDetail, error) {
	m.createCalled = true
	m.lastRequest = req
	return m.createResp, m.createErr
}

func (m *batchFeeServiceMock) List(ctx context.Context) ([]models.BatchFeeDetail, error) {
	return m.listResp, nil
}

func (m *batchFeeServiceMock) Export(ctx context.Context, format string) (*service.ExportFile, error) {
	m.lastFormat = format
	return m.exportResp, m.exportErr
}

const calculationPayload = `{"batchId":"b1","feeStructureId":"fs1","studentDiscounts":[` +
	`{"studentName":"Asha","discountCategory":"Merit Scholarship","discountAmount":50}]}`

func sampleResult() *calculator.Result {
	r := calculator.Compute(
		models.Batch{ID: "b1", BatchName: "Morning A", NumberOfStudents: 8, Course: "Math", Medium: "English"},
		models.FeeStructure{ID: "fs1", MinStudents: 10, MaxStudents: 20, Course: "Math", Medium: "English", MonthlyFee: decimal.NewFromInt(200)},
		[]models.Discount{{StudentName: "Asha", DiscountCategory: models.DiscountMeritScholarship, DiscountAmount: decimal.NewFromInt(50)}},
	)
	return &r
}

func TestBatchFeeHandlerCalculate(t *testing.T) {
	mockSvc := &batchFeeServiceMock{calcResp: sampleResult()}
	r := newTestRouter()
	r.POST("/batch-fees/calculate", NewBatchFeeHandler(mockSvc).Calculate)

	w, env := perform(t, r, http.MethodPost, "/batch-fees/calculate", calculationPayload)
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, mockSvc.lastRequest.StudentDiscounts, 1)
	assert.Equal(t, "50", mockSvc.lastRequest.StudentDiscounts[0].DiscountAmount.String())
	assert.False(t, mockSvc.createCalled)

	var body struct {
		TotalMonthlyFee float64               `json:"totalMonthlyFee"`
		FinalFee        float64               `json:"finalFee"`
		Discounts       []map[string]any      `json:"discounts"`
		Mismatches      []calculator.Mismatch `json:"mismatches"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &body))
	assert.Equal(t, 1600.0, body.TotalMonthlyFee)
	assert.Equal(t, 1550.0, body.FinalFee)
	require.Len(t, body.Discounts, 1)
	assert.Equal(t, 150.0, body.Discounts[0]["monthlyFeeAfterDiscount"])
	require.Len(t, body.Mismatches, 1)
	assert.Equal(t, "numberOfStudents", body.Mismatches[0].Field)
}

func TestBatchFeeHandlerCalculateNotFound(t *testing.T) {
	mockSvc := &batchFeeServiceMock{calcErr: appErrors.Clone(appErrors.ErrNotFound, "batch not found")}
	r := newTestRouter()
	r.POST("/batch-fees/calculate", NewBatchFeeHandler(mockSvc).Calculate)

	w, env := perform(t, r, http.MethodPost, "/batch-fees/calculate", calculationPayload)
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "NOT_FOUND", env.Error.Code)
}

func TestBatchFeeHandlerCreate(t *testing.T) {
	fee := calculator.ToBatchFee(*sampleResult())
	fee.ID = "fee-1"
	mockSvc := &batchFeeServiceMock{createResp: &models.BatchFeeDetail{BatchFee: fee}}
	r := newTestRouter()
	r.POST("/batch-fees", NewBatchFeeHandler(mockSvc).Create)

	w, env := perform(t, r, http.MethodPost, "/batch-fees", calculationPayload)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.True(t, mockSvc.createCalled)

	var body map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &body))
	assert.Equal(t, "fee-1", body["id"])
	assert.Equal(t, "Morning A", body["batchName"])
	assert.Equal(t, 1550.0, body["finalFee"])
}

func TestBatchFeeHandlerCreateMalformed(t *testing.T) {
	mockSvc := &batchFeeServiceMock{}
	r := newTestRouter()
	r.POST("/batch-fees", NewBatchFeeHandler(mockSvc).Create)

	w, _ := perform(t, r, http.MethodPost, "/batch-fees", `{"batchId":`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, mockSvc.createCalled)
}

func TestBatchFeeHandlerCreateStoreUnavailable(t *testing.T) {
	mockSvc := &batchFeeServiceMock{createErr: appErrors.Wrap(errors.New("dial tcp"), appErrors.ErrPersistence.Code, appErrors.ErrPersistence.Status, "failed to save batch fee calculation")}
	r := newTestRouter()
	r.POST("/batch-fees", NewBatchFeeHandler(mockSvc).Create)

	w, env := perform(t, r, http.MethodPost, "/batch-fees", calculationPayload)
	require.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "failed to save batch fee calculation", env.Error.Message)
}

func TestBatchFeeHandlerList(t *testing.T) {
	mockSvc := &batchFeeServiceMock{listResp: []models.BatchFeeDetail{
		{BatchFee: models.BatchFee{ID: "fee-1"}, FeeStructure: &models.FeeStructure{ID: "fs1", Name: "Standard"}},
		{BatchFee: models.BatchFee{ID: "fee-2"}},
	}}
	r := newTestRouter()
	r.GET("/batch-fees", NewBatchFeeHandler(mockSvc).List)

	w, env := perform(t, r, http.MethodGet, "/batch-fees", "")
	require.Equal(t, http.StatusOK, w.Code)

	var body []map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &body))
	require.Len(t, body, 2)
	assert.Contains(t, body[0], "feeStructure")
	assert.NotContains(t, body[1], "feeStructure")
}

func TestBatchFeeHandlerExport(t *testing.T) {
	mockSvc := &batchFeeServiceMock{exportResp: &service.ExportFile{
		Filename: "batch-fees.csv", ContentType: "text/csv", Body: []byte("Batch\n"),
	}}
	r := newTestRouter()
	r.GET("/batch-fees/export", NewBatchFeeHandler(mockSvc).Export)

	w, _ := perform(t, r, http.MethodGet, "/batch-fees/export", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "csv", mockSvc.lastFormat)
	assert.Equal(t, `attachment; filename="batch-fees.csv"`, w.Header().Get("Content-Disposition"))
	assert.Equal(t, "Batch\n", w.Body.String())
}

func TestBatchFeeHandlerExportBadFormat(t *testing.T) {
	mockSvc := &batchFeeServiceMock{exportErr: appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")}
	r := newTestRouter()
	r.GET("/batch-fees/export", NewBatchFeeHandler(mockSvc).Export)

	w, _ := perform(t, r, http.MethodGet, "/batch-fees/export?format=xlsx", "")
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "xlsx", mockSvc.lastFormat)
}

package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/batch-fee-api/internal/models"
	"github.com/noah-isme/batch-fee-api/internal/service"
	appErrors "github.com/noah-isme/batch-fee-api/pkg/errors"
)

type feeStructureServiceMock struct {
	listResp   []models.FeeStructure
	getResp    *models.FeeStructure
	getErr     error
	createResp *models.FeeStructure
	createErr  error
	lastCreate service.CreateFeeStructureRequest
}

func (m *feeStructureServiceMock) List(ctx context.Context) ([]models.FeeStructure, bool, error) {
	return m.listResp, false, nil
}

func (m *feeStructureServiceMock) Get(ctx context.Context, id string) (*models.FeeStructure, error) {
	return m.getResp, m.getErr
}

func (m *feeStructureServiceMock) Create(ctx context.Context, req service.CreateFeeStructureRequest) (*models.FeeStructure, error) {
	m.lastCreate = req
	return m.createResp, m.createErr
}

const feeStructurePayload = `{"feeStructureName":"Standard Math","minStudents":5,"maxStudents":10,"region":"India",` +
	`"medium":"English","course":"Math","monthlyFee":200.5,"totalClasses":12,"remarks":"evenings"}`

func TestFeeStructureHandlerCreate(t *testing.T) {
	mockSvc := &feeStructureServiceMock{createResp: &models.FeeStructure{ID: "fs1", Name: "Standard Math", MonthlyFee: decimal.RequireFromString("200.5")}}
	r := newTestRouter()
	r.POST("/fee-structures", NewFeeStructureHandler(mockSvc).Create)

	w, env := perform(t, r, http.MethodPost, "/fee-structures", feeStructurePayload)
	require.Equal(t, http.StatusCreated, w.Code)
	require.NotNil(t, mockSvc.lastCreate.MonthlyFee)
	assert.Equal(t, "200.5", mockSvc.lastCreate.MonthlyFee.String())
	assert.Equal(t, 5, *mockSvc.lastCreate.MinStudents)

	var item map[string]interface{}
	require.NoError(t, json.Unmarshal(env.Data, &item))
	assert.Equal(t, "Standard Math", item["feeStructureName"])
	assert.Equal(t, 200.5, item["monthlyFee"])
}

func TestFeeStructureHandlerCreateValidationError(t *testing.T) {
	mockSvc := &feeStructureServiceMock{createErr: appErrors.Clone(appErrors.ErrValidation, "invalid fee structure payload")}
	r := newTestRouter()
	r.POST("/fee-structures", NewFeeStructureHandler(mockSvc).Create)

	w, _ := perform(t, r, http.MethodPost, "/fee-structures", `{"feeStructureName":"x"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestFeeStructureHandlerListAndGet(t *testing.T) {
	mockSvc := &feeStructureServiceMock{
		listResp: []models.FeeStructure{},
		getResp:  &models.FeeStructure{ID: "fs1"},
	}
	h := NewFeeStructureHandler(mockSvc)
	r := newTestRouter()
	r.GET("/fee-structures", h.List)
	r.GET("/fee-structures/:id", h.Get)

	w, env := perform(t, r, http.MethodGet, "/fee-structures", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, string(env.Data))

	w, _ = perform(t, r, http.MethodGet, "/fee-structures/fs1", "")
	require.Equal(t, http.StatusOK, w.Code)
}

package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/university-timetable-api/internal/dto"
	"github.com/noah-isme/university-timetable-api/internal/models"
	appErrors "github.com/noah-isme/university-timetable-api/pkg/errors"
)

type assignmentServiceMock struct {
	applyResp     *dto.AssignmentOutcome
	applyErr      error
	listResp      *dto.AssignmentListResponse
	listErr       error
	lastTeacherID string
	lastFilter    models.AssignmentFilter
	lastStats     bool
	applyCalled   bool
	listCalled    bool
}

func (m *assignmentServiceMock) ApplyOperations(ctx context.Context, teacherID string, req dto.ManualAssignmentRequest) (*dto.AssignmentOutcome, error) {
	m.applyCalled = true
	m.lastTeacherID = teacherID
	return m.applyResp, m.applyErr
}

func (m *assignmentServiceMock) List(ctx context.Context, filter models.AssignmentFilter, includeStats bool) (*dto.AssignmentListResponse, error) {
	m.listCalled = true
	m.lastFilter = filter
	m.lastStats = includeStats
	return m.listResp, m.listErr
}

type batchProcessorMock struct {
	resp   *dto.AssignmentOutcome
	err    error
	called bool
}

func (m *batchProcessorMock) Process(ctx context.Context, req dto.BatchAssignmentRequest) (*dto.AssignmentOutcome, error) {
	m.called = true
	return m.resp, m.err
}

func TestAssignmentHandlerApplyPartialSuccess(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &assignmentServiceMock{
		applyResp: &dto.AssignmentOutcome{
			Results:      []dto.OperationResult{{Index: 0, Success: true}, {Index: 1, Error: "day 0 is a restricted day"}},
			SuccessCount: 1,
			FailureCount: 1,
			StatusCode:   http.StatusMultiStatus,
		},
	}
	handler := NewAssignmentHandler(mockSvc, &batchProcessorMock{})

	day := 1
	payload, _ := json.Marshal(dto.ManualAssignmentRequest{Operations: []dto.SlotOperationRequest{
		{Action: dto.ActionCreate, SlotID: "slot-a", DayOfWeek: &day},
	}})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/teachers/teacher-1/slot-operations", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "teacher-1"}}

	handler.Apply(c)
	require.Equal(t, http.StatusMultiStatus, w.Code)
	assert.True(t, mockSvc.applyCalled)
	assert.Equal(t, "teacher-1", mockSvc.lastTeacherID)
}

func TestAssignmentHandlerApplyInvalidBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewAssignmentHandler(&assignmentServiceMock{}, &batchProcessorMock{})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/teachers/teacher-1/slot-operations", bytes.NewBufferString(`{"operations":`))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "teacher-1"}}

	handler.Apply(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAssignmentHandlerApplyServiceError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &assignmentServiceMock{applyErr: appErrors.Clone(appErrors.ErrNotFound, "teacher not found")}
	handler := NewAssignmentHandler(mockSvc, &batchProcessorMock{})

	day := 1
	payload, _ := json.Marshal(dto.ManualAssignmentRequest{Operations: []dto.SlotOperationRequest{
		{Action: dto.ActionCreate, SlotID: "slot-a", DayOfWeek: &day},
	}})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/teachers/ghost/slot-operations", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "ghost"}}

	handler.Apply(c)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestAssignmentHandlerBatchCreated(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockBatch := &batchProcessorMock{resp: &dto.AssignmentOutcome{
		Results:      []dto.OperationResult{{Index: 0, Success: true}},
		SuccessCount: 1,
		StatusCode:   http.StatusCreated,
	}}
	handler := NewAssignmentHandler(&assignmentServiceMock{}, mockBatch)

	day := 2
	payload, _ := json.Marshal(dto.BatchAssignmentRequest{Items: []dto.BatchAssignmentItem{
		{TeacherID: "teacher-1", SlotID: "slot-a", DayOfWeek: &day, Action: dto.ActionCreate},
	}})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/slot-assignments/batch", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	handler.Batch(c)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.True(t, mockBatch.called)
}

func TestAssignmentHandlerListParsesFilter(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &assignmentServiceMock{listResp: &dto.AssignmentListResponse{}}
	handler := NewAssignmentHandler(mockSvc, &batchProcessorMock{})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/slot-assignments?departmentId=dept-1&dayOfWeek=3&includeStats=true", nil)
	c.Request = req

	handler.List(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, mockSvc.listCalled)
	assert.Equal(t, "dept-1", mockSvc.lastFilter.DepartmentID)
	require.NotNil(t, mockSvc.lastFilter.DayOfWeek)
	assert.Equal(t, 3, *mockSvc.lastFilter.DayOfWeek)
	assert.True(t, mockSvc.lastStats)
}

func TestAssignmentHandlerListBadDay(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewAssignmentHandler(&assignmentServiceMock{}, &batchProcessorMock{})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/slot-assignments?dayOfWeek=abc", nil)
	c.Request = req

	handler.List(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

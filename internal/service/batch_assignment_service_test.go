package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/university-timetable-api/internal/dto"
	"github.com/noah-isme/university-timetable-api/internal/models"
	appErrors "github.com/noah-isme/university-timetable-api/pkg/errors"
)

type applierStub struct {
	teachers      map[string]*models.Teacher
	applied       []dto.SlotOperationRequest
	failIndexes   map[int]string
	invalidations []string
}

func (s *applierStub) LoadTeacher(ctx context.Context, teacherID string) (*models.Teacher, error) {
	if teacher, ok := s.teachers[teacherID]; ok {
		return teacher, nil
	}
	return nil, appErrors.Clone(appErrors.ErrNotFound, "teacher not found")
}

func (s *applierStub) ApplyOperation(ctx context.Context, teacher *models.Teacher, index int, op dto.SlotOperationRequest) dto.OperationResult {
	s.applied = append(s.applied, op)
	result := dto.OperationResult{Index: index, Action: op.Action, TeacherID: teacher.ID, SlotID: op.SlotID, DayOfWeek: op.DayOfWeek}
	if msg, ok := s.failIndexes[index]; ok {
		result.Error = msg
		return result
	}
	result.Success = true
	return result
}

func (s *applierStub) InvalidateDepartmentSummary(ctx context.Context, departmentID string) {
	s.invalidations = append(s.invalidations, departmentID)
}

func batchItems(n int, teacherID string) []dto.BatchAssignmentItem {
	items := make([]dto.BatchAssignmentItem, 0, n)
	for i := 0; i < n; i++ {
		day := i % 7
		items = append(items, dto.BatchAssignmentItem{
			TeacherID: teacherID,
			SlotID:    "slot-a",
			DayOfWeek: &day,
			Action:    dto.ActionCreate,
		})
	}
	return items
}

func TestBatchAssignmentServiceAllSucceed(t *testing.T) {
	dept := "dept-1"
	applier := &applierStub{teachers: map[string]*models.Teacher{
		"teacher-1": {ID: "teacher-1", DepartmentID: &dept},
	}}
	svc := NewBatchAssignmentService(applier, 10, validator.New(), zap.NewNop())

	outcome, err := svc.Process(context.Background(), dto.BatchAssignmentRequest{Items: batchItems(3, "teacher-1")})
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, outcome.StatusCode)
	assert.Equal(t, 3, outcome.SuccessCount)
	assert.Equal(t, []string{"dept-1"}, applier.invalidations)
}

func TestBatchAssignmentServiceChunksPreserveOrder(t *testing.T) {
	applier := &applierStub{teachers: map[string]*models.Teacher{
		"teacher-1": {ID: "teacher-1"},
	}}
	// Chunk size 10 splits 25 items into 10/10/5; ordering must survive.
	svc := NewBatchAssignmentService(applier, 10, validator.New(), zap.NewNop())

	outcome, err := svc.Process(context.Background(), dto.BatchAssignmentRequest{Items: batchItems(25, "teacher-1")})
	require.NoError(t, err)
	require.Len(t, outcome.Results, 25)
	for i, result := range outcome.Results {
		assert.Equal(t, i, result.Index)
	}
	assert.Equal(t, 25, outcome.SuccessCount)
}

func TestBatchAssignmentServiceMissingTeacherID(t *testing.T) {
	applier := &applierStub{teachers: map[string]*models.Teacher{}}
	svc := NewBatchAssignmentService(applier, 10, validator.New(), zap.NewNop())

	day := models.DayTuesday
	outcome, err := svc.Process(context.Background(), dto.BatchAssignmentRequest{Items: []dto.BatchAssignmentItem{
		{SlotID: "slot-a", DayOfWeek: &day, Action: dto.ActionCreate},
	}})
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, outcome.StatusCode)
	assert.Contains(t, outcome.Results[0].Error, "teacherId")
	assert.Empty(t, applier.applied)
}

func TestBatchAssignmentServiceUnknownTeacherDoesNotAbortBatch(t *testing.T) {
	applier := &applierStub{teachers: map[string]*models.Teacher{
		"teacher-1": {ID: "teacher-1"},
	}}
	svc := NewBatchAssignmentService(applier, 10, validator.New(), zap.NewNop())

	day := models.DayTuesday
	outcome, err := svc.Process(context.Background(), dto.BatchAssignmentRequest{Items: []dto.BatchAssignmentItem{
		{TeacherID: "ghost", SlotID: "slot-a", DayOfWeek: &day, Action: dto.ActionCreate},
		{TeacherID: "teacher-1", SlotID: "slot-a", DayOfWeek: &day, Action: dto.ActionCreate},
	}})
	require.NoError(t, err)
	assert.Equal(t, http.StatusMultiStatus, outcome.StatusCode)
	assert.False(t, outcome.Results[0].Success)
	assert.True(t, outcome.Results[1].Success)
}

func TestBatchAssignmentServicePartialFailures(t *testing.T) {
	applier := &applierStub{
		teachers:    map[string]*models.Teacher{"teacher-1": {ID: "teacher-1"}},
		failIndexes: map[int]string{1: "department quota reached"},
	}
	svc := NewBatchAssignmentService(applier, 10, validator.New(), zap.NewNop())

	outcome, err := svc.Process(context.Background(), dto.BatchAssignmentRequest{Items: batchItems(3, "teacher-1")})
	require.NoError(t, err)
	assert.Equal(t, http.StatusMultiStatus, outcome.StatusCode)
	assert.Equal(t, 2, outcome.SuccessCount)
	assert.Equal(t, 1, outcome.FailureCount)
}

func TestBatchAssignmentServiceRejectsEmptyPayload(t *testing.T) {
	applier := &applierStub{teachers: map[string]*models.Teacher{}}
	svc := NewBatchAssignmentService(applier, 10, validator.New(), zap.NewNop())

	_, err := svc.Process(context.Background(), dto.BatchAssignmentRequest{})
	require.Error(t, err)
}

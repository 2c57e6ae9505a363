package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/university-timetable-api/internal/dto"
	"github.com/noah-isme/university-timetable-api/internal/models"
	appErrors "github.com/noah-isme/university-timetable-api/pkg/errors"
)

// operationApplier is the slice of AssignmentService the batch path needs.
type operationApplier interface {
	LoadTeacher(ctx context.Context, teacherID string) (*models.Teacher, error)
	ApplyOperation(ctx context.Context, teacher *models.Teacher, index int, op dto.SlotOperationRequest) dto.OperationResult
	InvalidateDepartmentSummary(ctx context.Context, departmentID string)
}

const defaultBatchChunkSize = 10

// BatchAssignmentService processes mixed-teacher operation batches in fixed
// chunks. Operations run sequentially so earlier ones shape later validation;
// each operation holds its own short-lived transaction, keeping lock footprint
// bounded to one chunk at a time.
type BatchAssignmentService struct {
	applier   operationApplier
	chunkSize int
	validator *validator.Validate
	logger    *zap.Logger
}

// NewBatchAssignmentService wires the batch path.
func NewBatchAssignmentService(applier operationApplier, chunkSize int, validate *validator.Validate, logger *zap.Logger) *BatchAssignmentService {
	if chunkSize <= 0 {
		chunkSize = defaultBatchChunkSize
	}
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BatchAssignmentService{applier: applier, chunkSize: chunkSize, validator: validate, logger: logger}
}

// Process applies all items in order and classifies the aggregate outcome.
func (s *BatchAssignmentService) Process(ctx context.Context, req dto.BatchAssignmentRequest) (*dto.AssignmentOutcome, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid batch assignment payload")
	}

	results := make([]dto.OperationResult, 0, len(req.Items))
	teacherCache := make(map[string]*models.Teacher)
	touchedDepartments := make(map[string]struct{})

	for start := 0; start < len(req.Items); start += s.chunkSize {
		end := start + s.chunkSize
		if end > len(req.Items) {
			end = len(req.Items)
		}
		for i := start; i < end; i++ {
			result := s.processItem(ctx, i, req.Items[i], teacherCache)
			if result.Success {
				if teacher := teacherCache[result.TeacherID]; teacher != nil && teacher.DepartmentID != nil {
					touchedDepartments[*teacher.DepartmentID] = struct{}{}
				}
			}
			results = append(results, result)
		}
	}

	for departmentID := range touchedDepartments {
		s.applier.InvalidateDepartmentSummary(ctx, departmentID)
	}

	outcome := classifyOutcome(results)
	s.logger.Info("batch assignment processed",
		zap.Int("items", len(req.Items)),
		zap.Int("succeeded", outcome.SuccessCount),
		zap.Int("failed", outcome.FailureCount))
	return outcome, nil
}

func (s *BatchAssignmentService) processItem(ctx context.Context, index int, item dto.BatchAssignmentItem, teacherCache map[string]*models.Teacher) dto.OperationResult {
	result := dto.OperationResult{
		Index:     index,
		Action:    item.Action,
		TeacherID: item.TeacherID,
		SlotID:    item.SlotID,
		DayOfWeek: item.DayOfWeek,
	}
	if item.TeacherID == "" {
		result.Error = "teacherId is required"
		return result
	}

	teacher, ok := teacherCache[item.TeacherID]
	if !ok {
		loaded, err := s.applier.LoadTeacher(ctx, item.TeacherID)
		if err != nil {
			result.Error = appErrors.FromError(err).Message
			return result
		}
		teacher = loaded
		teacherCache[item.TeacherID] = teacher
	}

	return s.applier.ApplyOperation(ctx, teacher, index, dto.SlotOperationRequest{
		Action:    item.Action,
		SlotID:    item.SlotID,
		DayOfWeek: item.DayOfWeek,
	})
}

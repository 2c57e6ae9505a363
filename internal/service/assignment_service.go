package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/noah-isme/university-timetable-api/internal/dto"
	"github.com/noah-isme/university-timetable-api/internal/models"
	appErrors "github.com/noah-isme/university-timetable-api/pkg/errors"
)

type slotAssignmentRepository interface {
	ListByTeacher(ctx context.Context, teacherID string) ([]models.TeacherSlotAssignmentDetail, error)
	List(ctx context.Context, filter models.AssignmentFilter) ([]models.TeacherSlotAssignmentDetail, error)
	CountDistinctTeachers(ctx context.Context, departmentID string, day int, slotType models.SlotType) (int, error)
	Create(ctx context.Context, exec sqlx.ExtContext, assignment *models.TeacherSlotAssignment) error
	UpdateSlot(ctx context.Context, exec sqlx.ExtContext, assignmentID, slotID string) error
	Delete(ctx context.Context, exec sqlx.ExtContext, assignmentID string) error
}

type assignmentTeacherReader interface {
	FindByID(ctx context.Context, id string) (*models.Teacher, error)
	CountByDepartment(ctx context.Context, departmentID string) (int, error)
}

type assignmentSlotReader interface {
	FindByID(ctx context.Context, id string) (*models.Slot, error)
}

type txProvider interface {
	BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error)
}

// AssignmentService drives the manual assignment path: each operation is
// validated against live state and committed in its own transaction.
type AssignmentService struct {
	assignments slotAssignmentRepository
	teachers    assignmentTeacherReader
	slots       assignmentSlotReader
	tx          txProvider
	engine      *RuleEngine
	cache       *CacheService
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewAssignmentService wires the manual assignment dependencies.
func NewAssignmentService(
	assignments slotAssignmentRepository,
	teachers assignmentTeacherReader,
	slots assignmentSlotReader,
	tx txProvider,
	engine *RuleEngine,
	cache *CacheService,
	validate *validator.Validate,
	logger *zap.Logger,
) *AssignmentService {
	if engine == nil {
		engine = NewRuleEngine()
	}
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AssignmentService{
		assignments: assignments,
		teachers:    teachers,
		slots:       slots,
		tx:          tx,
		engine:      engine,
		cache:       cache,
		validator:   validate,
		logger:      logger,
	}
}

// ApplyOperations processes the teacher's ordered operation list. Operations
// are isolated: a failure never aborts its siblings, and earlier successes are
// visible to later validations.
func (s *AssignmentService) ApplyOperations(ctx context.Context, teacherID string, req dto.ManualAssignmentRequest) (*dto.AssignmentOutcome, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid slot operations payload")
	}
	teacher, err := s.LoadTeacher(ctx, teacherID)
	if err != nil {
		return nil, err
	}

	results := make([]dto.OperationResult, 0, len(req.Operations))
	for i, op := range req.Operations {
		results = append(results, s.ApplyOperation(ctx, teacher, i, op))
	}

	outcome := classifyOutcome(results)
	if outcome.SuccessCount > 0 && teacher.DepartmentID != nil {
		s.InvalidateDepartmentSummary(ctx, *teacher.DepartmentID)
	}
	return outcome, nil
}

// LoadTeacher resolves a teacher id, mapping missing rows to NotFound.
func (s *AssignmentService) LoadTeacher(ctx context.Context, teacherID string) (*models.Teacher, error) {
	if teacherID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "teacher id is required")
	}
	teacher, err := s.teachers.FindByID(ctx, teacherID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "teacher not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teacher")
	}
	return teacher, nil
}

// ApplyOperation executes a single operation in its own transaction and
// reports the result. Unexpected failures are captured in the result rather
// than propagated.
func (s *AssignmentService) ApplyOperation(ctx context.Context, teacher *models.Teacher, index int, op dto.SlotOperationRequest) dto.OperationResult {
	result := dto.OperationResult{
		Index:     index,
		Action:    op.Action,
		TeacherID: teacher.ID,
		SlotID:    op.SlotID,
		DayOfWeek: op.DayOfWeek,
	}

	if op.DayOfWeek == nil {
		result.Error = "dayOfWeek is required"
		return result
	}
	day := *op.DayOfWeek
	if !models.ValidDay(day) {
		result.Error = fmt.Sprintf("dayOfWeek %d is out of range 0-6", day)
		return result
	}

	switch op.Action {
	case dto.ActionCreate:
		s.applyCreate(ctx, teacher, op, day, &result)
	case dto.ActionUpdate:
		s.applyUpdate(ctx, teacher, op, day, &result)
	case dto.ActionDelete:
		s.applyDelete(ctx, teacher, day, &result)
	default:
		result.Error = fmt.Sprintf("unknown action %q", op.Action)
	}
	return result
}

func (s *AssignmentService) applyCreate(ctx context.Context, teacher *models.Teacher, op dto.SlotOperationRequest, day int, result *dto.OperationResult) {
	if op.SlotID == "" {
		result.Error = "slotId is required"
		return
	}
	slot, existing, ok := s.loadCandidateState(ctx, teacher, op.SlotID, result)
	if !ok {
		return
	}

	snapshot, err := s.buildSnapshot(ctx, teacher, existing, slot.SlotType, day)
	if err != nil {
		result.Error = err.Error()
		return
	}
	candidate := AssignmentCandidate{TeacherID: teacher.ID, SlotID: slot.ID, SlotType: slot.SlotType, DayOfWeek: day}
	if violation := s.engine.Evaluate(snapshot, candidate); violation != nil {
		result.Rule = violation.Rule
		result.Error = violation.Message
		return
	}

	assignment := &models.TeacherSlotAssignment{TeacherID: teacher.ID, SlotID: slot.ID, DayOfWeek: day}
	err = s.withTx(ctx, func(tx *sqlx.Tx) error {
		return s.assignments.Create(ctx, tx, assignment)
	})
	if err != nil {
		if isUniqueViolation(err) {
			result.Error = "assignment already exists for this teacher, slot and day"
			return
		}
		s.logger.Error("create slot assignment failed", zap.String("teacherId", teacher.ID), zap.Error(err))
		result.Error = "failed to create assignment"
		return
	}
	result.Success = true
	result.AssignmentID = assignment.ID
}

func (s *AssignmentService) applyUpdate(ctx context.Context, teacher *models.Teacher, op dto.SlotOperationRequest, day int, result *dto.OperationResult) {
	if op.SlotID == "" {
		result.Error = "slotId is required"
		return
	}
	slot, existing, ok := s.loadCandidateState(ctx, teacher, op.SlotID, result)
	if !ok {
		return
	}

	current := findOnDay(existing, day)
	if current == nil {
		result.Error = fmt.Sprintf("no assignment on %s to update", models.DayName(day))
		return
	}

	snapshot, err := s.buildSnapshot(ctx, teacher, existing, slot.SlotType, day)
	if err != nil {
		result.Error = err.Error()
		return
	}
	candidate := AssignmentCandidate{TeacherID: teacher.ID, SlotID: slot.ID, SlotType: slot.SlotType, DayOfWeek: day, ExcludeAssignmentID: current.ID}
	if violation := s.engine.Evaluate(snapshot, candidate); violation != nil {
		result.Rule = violation.Rule
		result.Error = violation.Message
		return
	}

	err = s.withTx(ctx, func(tx *sqlx.Tx) error {
		return s.assignments.UpdateSlot(ctx, tx, current.ID, slot.ID)
	})
	if err != nil {
		if isUniqueViolation(err) {
			result.Error = "assignment already exists for this teacher, slot and day"
			return
		}
		s.logger.Error("update slot assignment failed", zap.String("assignmentId", current.ID), zap.Error(err))
		result.Error = "failed to update assignment"
		return
	}
	result.Success = true
	result.AssignmentID = current.ID
}

func (s *AssignmentService) applyDelete(ctx context.Context, teacher *models.Teacher, day int, result *dto.OperationResult) {
	existing, err := s.assignments.ListByTeacher(ctx, teacher.ID)
	if err != nil {
		result.Error = "failed to load current assignments"
		return
	}
	current := findOnDay(existing, day)
	if current == nil {
		result.Error = fmt.Sprintf("no assignment on %s to delete", models.DayName(day))
		return
	}

	err = s.withTx(ctx, func(tx *sqlx.Tx) error {
		return s.assignments.Delete(ctx, tx, current.ID)
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			result.Error = "assignment no longer exists"
			return
		}
		s.logger.Error("delete slot assignment failed", zap.String("assignmentId", current.ID), zap.Error(err))
		result.Error = "failed to delete assignment"
		return
	}
	result.Success = true
	result.AssignmentID = current.ID
}

// loadCandidateState reads the slot and the teacher's live assignments. Every
// operation re-reads state so earlier operations in the batch are seen.
func (s *AssignmentService) loadCandidateState(ctx context.Context, teacher *models.Teacher, slotID string, result *dto.OperationResult) (*models.Slot, []models.TeacherSlotAssignmentDetail, bool) {
	slot, err := s.slots.FindByID(ctx, slotID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			result.Error = fmt.Sprintf("slot %s not found", slotID)
		} else {
			result.Error = "failed to load slot"
		}
		return nil, nil, false
	}
	existing, err := s.assignments.ListByTeacher(ctx, teacher.ID)
	if err != nil {
		result.Error = "failed to load current assignments"
		return nil, nil, false
	}
	return slot, existing, true
}

func (s *AssignmentService) buildSnapshot(ctx context.Context, teacher *models.Teacher, existing []models.TeacherSlotAssignmentDetail, slotType models.SlotType, day int) (AssignmentSnapshot, error) {
	snapshot := AssignmentSnapshot{Existing: existing}
	if teacher.DepartmentID == nil {
		return snapshot, nil
	}
	count, err := s.teachers.CountByDepartment(ctx, *teacher.DepartmentID)
	if err != nil {
		return snapshot, fmt.Errorf("failed to count department teachers")
	}
	holders, err := s.assignments.CountDistinctTeachers(ctx, *teacher.DepartmentID, day, slotType)
	if err != nil {
		return snapshot, fmt.Errorf("failed to count department slot holders")
	}
	// The candidate teacher must not count against their own quota.
	for _, a := range existing {
		if a.DayOfWeek == day && a.SlotType == slotType {
			holders--
			break
		}
	}
	snapshot.DepartmentTeacherCount = count
	snapshot.DepartmentHolders = holders
	return snapshot, nil
}

// List returns filtered assignments, optionally with aggregate stats.
func (s *AssignmentService) List(ctx context.Context, filter models.AssignmentFilter, includeStats bool) (*dto.AssignmentListResponse, error) {
	assignments, err := s.assignments.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list assignments")
	}
	resp := &dto.AssignmentListResponse{Assignments: assignments}
	if includeStats {
		resp.Stats = buildAssignmentStats(assignments)
	}
	return resp, nil
}

// InvalidateDepartmentSummary drops the cached department summary after a
// successful write.
func (s *AssignmentService) InvalidateDepartmentSummary(ctx context.Context, departmentID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, departmentSummaryKey(departmentID)); err != nil {
		s.logger.Warn("summary cache invalidation failed", zap.String("departmentId", departmentID), zap.Error(err))
	}
}

func (s *AssignmentService) withTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	if s.tx == nil {
		return fmt.Errorf("transaction provider missing")
	}
	tx, err := s.tx.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

func findOnDay(existing []models.TeacherSlotAssignmentDetail, day int) *models.TeacherSlotAssignmentDetail {
	for i := range existing {
		if existing[i].DayOfWeek == day {
			return &existing[i]
		}
	}
	return nil
}

func classifyOutcome(results []dto.OperationResult) *dto.AssignmentOutcome {
	outcome := &dto.AssignmentOutcome{Results: results}
	for _, r := range results {
		if r.Success {
			outcome.SuccessCount++
		} else {
			outcome.FailureCount++
		}
	}
	switch {
	case outcome.FailureCount == 0:
		outcome.StatusCode = http.StatusCreated
	case outcome.SuccessCount == 0:
		outcome.StatusCode = http.StatusBadRequest
	default:
		outcome.StatusCode = http.StatusMultiStatus
	}
	return outcome
}

func buildAssignmentStats(assignments []models.TeacherSlotAssignmentDetail) *dto.AssignmentStats {
	stats := &dto.AssignmentStats{
		TotalAssignments: len(assignments),
		PerSlotType:      make(map[models.SlotType]int),
		PerDay:           make(map[string]int),
	}
	teachers := make(map[string]struct{})
	for _, a := range assignments {
		teachers[a.TeacherID] = struct{}{}
		stats.PerSlotType[a.SlotType]++
		stats.PerDay[models.DayName(a.DayOfWeek)]++
	}
	stats.DistinctTeachers = len(teachers)
	return stats
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

func departmentSummaryKey(departmentID string) string {
	return "summary:dept:" + departmentID
}

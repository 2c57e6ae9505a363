package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/university-timetable-api/internal/models"
)

// SlotAssignmentRepository persists teacher slot assignments.
type SlotAssignmentRepository struct {
	db *sqlx.DB
}

// NewSlotAssignmentRepository constructs the repository.
func NewSlotAssignmentRepository(db *sqlx.DB) *SlotAssignmentRepository {
	return &SlotAssignmentRepository{db: db}
}

func (r *SlotAssignmentRepository) exec(exec sqlx.ExtContext) sqlx.ExtContext {
	if exec != nil {
		return exec
	}
	return r.db
}

const assignmentDetailColumns = `
SELECT tsa.id, tsa.teacher_id, tsa.slot_id, tsa.day_of_week, tsa.created_at,
       s.name AS slot_name, s.slot_type AS slot_type,
       t.full_name AS teacher_name, t.department_id AS department_id
FROM teacher_slot_assignments tsa
JOIN slots s ON s.id = tsa.slot_id
JOIN teachers t ON t.id = tsa.teacher_id`

// ListByTeacher returns all of a teacher's assignments with slot attributes,
// ordered by day then slot type.
func (r *SlotAssignmentRepository) ListByTeacher(ctx context.Context, teacherID string) ([]models.TeacherSlotAssignmentDetail, error) {
	query := assignmentDetailColumns + `
WHERE tsa.teacher_id = $1
ORDER BY tsa.day_of_week ASC, s.slot_type ASC`
	var assignments []models.TeacherSlotAssignmentDetail
	if err := r.db.SelectContext(ctx, &assignments, query, teacherID); err != nil {
		return nil, fmt.Errorf("list teacher slot assignments: %w", err)
	}
	return assignments, nil
}

// List returns assignments matching the filter ordered by teacher, day.
func (r *SlotAssignmentRepository) List(ctx context.Context, filter models.AssignmentFilter) ([]models.TeacherSlotAssignmentDetail, error) {
	query := assignmentDetailColumns + ` WHERE 1=1`
	args := []interface{}{}
	idx := 1
	if filter.TeacherID != "" {
		query += fmt.Sprintf(" AND tsa.teacher_id = $%d", idx)
		args = append(args, filter.TeacherID)
		idx++
	}
	if filter.DepartmentID != "" {
		query += fmt.Sprintf(" AND t.department_id = $%d", idx)
		args = append(args, filter.DepartmentID)
		idx++
	}
	if filter.DayOfWeek != nil {
		query += fmt.Sprintf(" AND tsa.day_of_week = $%d", idx)
		args = append(args, *filter.DayOfWeek)
		idx++
	}
	if filter.SlotType != "" {
		query += fmt.Sprintf(" AND s.slot_type = $%d", idx)
		args = append(args, filter.SlotType)
		idx++
	}
	query += " ORDER BY t.full_name ASC, tsa.day_of_week ASC"

	var assignments []models.TeacherSlotAssignmentDetail
	if err := r.db.SelectContext(ctx, &assignments, query, args...); err != nil {
		return nil, fmt.Errorf("list slot assignments: %w", err)
	}
	return assignments, nil
}

// FindByTeacherAndDay returns the teacher's assignment on one day, if any.
func (r *SlotAssignmentRepository) FindByTeacherAndDay(ctx context.Context, teacherID string, day int) (*models.TeacherSlotAssignmentDetail, error) {
	query := assignmentDetailColumns + ` WHERE tsa.teacher_id = $1 AND tsa.day_of_week = $2 LIMIT 1`
	var assignment models.TeacherSlotAssignmentDetail
	if err := r.db.GetContext(ctx, &assignment, query, teacherID, day); err != nil {
		if err == sql.ErrNoRows {
			return nil, sql.ErrNoRows
		}
		return nil, fmt.Errorf("find slot assignment by day: %w", err)
	}
	return &assignment, nil
}

// CountDistinctTeachers counts distinct department teachers already holding the
// (day, slot type) pair. Feeds the quota rule.
func (r *SlotAssignmentRepository) CountDistinctTeachers(ctx context.Context, departmentID string, day int, slotType models.SlotType) (int, error) {
	const query = `
SELECT COUNT(DISTINCT tsa.teacher_id)
FROM teacher_slot_assignments tsa
JOIN slots s ON s.id = tsa.slot_id
JOIN teachers t ON t.id = tsa.teacher_id
WHERE t.department_id = $1 AND tsa.day_of_week = $2 AND s.slot_type = $3`
	var count int
	if err := r.db.GetContext(ctx, &count, query, departmentID, day, slotType); err != nil {
		return 0, fmt.Errorf("count department slot holders: %w", err)
	}
	return count, nil
}

// Create inserts a new assignment, tx-aware.
func (r *SlotAssignmentRepository) Create(ctx context.Context, exec sqlx.ExtContext, assignment *models.TeacherSlotAssignment) error {
	if assignment.ID == "" {
		assignment.ID = uuid.NewString()
	}
	if assignment.CreatedAt.IsZero() {
		assignment.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO teacher_slot_assignments (id, teacher_id, slot_id, day_of_week, created_at)
		VALUES (:id, :teacher_id, :slot_id, :day_of_week, :created_at)`
	if _, err := sqlx.NamedExecContext(ctx, r.exec(exec), query, assignment); err != nil {
		return fmt.Errorf("create slot assignment: %w", err)
	}
	return nil
}

// UpdateSlot moves an existing assignment onto a different slot, tx-aware.
func (r *SlotAssignmentRepository) UpdateSlot(ctx context.Context, exec sqlx.ExtContext, assignmentID, slotID string) error {
	const query = `UPDATE teacher_slot_assignments SET slot_id = $1 WHERE id = $2`
	result, err := r.exec(exec).ExecContext(ctx, query, slotID, assignmentID)
	if err != nil {
		return fmt.Errorf("update slot assignment: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check updated assignment rows: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes an assignment by id, tx-aware.
func (r *SlotAssignmentRepository) Delete(ctx context.Context, exec sqlx.ExtContext, assignmentID string) error {
	const query = `DELETE FROM teacher_slot_assignments WHERE id = $1`
	result, err := r.exec(exec).ExecContext(ctx, query, assignmentID)
	if err != nil {
		return fmt.Errorf("delete slot assignment: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check deleted assignment rows: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

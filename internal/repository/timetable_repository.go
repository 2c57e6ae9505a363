package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/university-timetable-api/internal/models"
)

// TimetableRepository persists generated timetable entries.
type TimetableRepository struct {
	db *sqlx.DB
}

// NewTimetableRepository constructs the repository.
func NewTimetableRepository(db *sqlx.DB) *TimetableRepository {
	return &TimetableRepository{db: db}
}

func (r *TimetableRepository) exec(exec sqlx.ExtContext) sqlx.ExtContext {
	if exec != nil {
		return exec
	}
	return r.db
}

const timetableDetailColumns = `
SELECT te.id, te.day_of_week, te.teacher_course_id, te.slot_id, te.room_id,
       te.is_recurring, te.start_date, te.end_date, te.session_type, te.created_at,
       tc.teacher_id AS teacher_id, t.full_name AS teacher_name,
       tc.course_id AS course_id, c.code AS course_code, c.name AS course_name,
       s.name AS slot_name, s.slot_type AS slot_type, s.start_time, s.end_time,
       rm.number AS room_number
FROM timetable_entries te
JOIN teacher_courses tc ON tc.id = te.teacher_course_id
JOIN teachers t ON t.id = tc.teacher_id
JOIN courses c ON c.id = tc.course_id
JOIN slots s ON s.id = te.slot_id
JOIN rooms rm ON rm.id = te.room_id`

// List returns timetable entries matching the filter ordered by day then slot.
func (r *TimetableRepository) List(ctx context.Context, filter models.TimetableFilter) ([]models.TimetableDetail, error) {
	query := timetableDetailColumns + ` WHERE 1=1`
	args := []interface{}{}
	idx := 1
	if filter.TeacherID != "" {
		query += fmt.Sprintf(" AND tc.teacher_id = $%d", idx)
		args = append(args, filter.TeacherID)
		idx++
	}
	if filter.CourseID != "" {
		query += fmt.Sprintf(" AND tc.course_id = $%d", idx)
		args = append(args, filter.CourseID)
		idx++
	}
	if filter.RoomID != "" {
		query += fmt.Sprintf(" AND te.room_id = $%d", idx)
		args = append(args, filter.RoomID)
		idx++
	}
	if filter.SlotID != "" {
		query += fmt.Sprintf(" AND te.slot_id = $%d", idx)
		args = append(args, filter.SlotID)
		idx++
	}
	if filter.DayOfWeek != nil {
		query += fmt.Sprintf(" AND te.day_of_week = $%d", idx)
		args = append(args, *filter.DayOfWeek)
		idx++
	}
	query += " ORDER BY te.day_of_week ASC, s.start_time ASC, rm.number ASC"

	var entries []models.TimetableDetail
	if err := r.db.SelectContext(ctx, &entries, query, args...); err != nil {
		return nil, fmt.Errorf("list timetable entries: %w", err)
	}
	return entries, nil
}

// IsBooked reports whether any entry occupies the (room, day, slot) cell.
func (r *TimetableRepository) IsBooked(ctx context.Context, roomID string, day int, slotID string) (bool, error) {
	const query = `SELECT COUNT(*) FROM timetable_entries WHERE room_id = $1 AND day_of_week = $2 AND slot_id = $3`
	var count int
	if err := r.db.GetContext(ctx, &count, query, roomID, day, slotID); err != nil {
		return false, fmt.Errorf("check room booking: %w", err)
	}
	return count > 0, nil
}

// DeleteAll clears the whole timetable, tx-aware. A regeneration replaces
// every entry atomically.
func (r *TimetableRepository) DeleteAll(ctx context.Context, exec sqlx.ExtContext) error {
	const query = `DELETE FROM timetable_entries`
	if _, err := r.exec(exec).ExecContext(ctx, query); err != nil {
		return fmt.Errorf("clear timetable: %w", err)
	}
	return nil
}

// BulkInsert writes a batch of timetable entries, tx-aware.
func (r *TimetableRepository) BulkInsert(ctx context.Context, exec sqlx.ExtContext, entries []models.TimetableEntry) error {
	if len(entries) == 0 {
		return nil
	}
	target := r.exec(exec)
	now := time.Now().UTC()

	const query = `
INSERT INTO timetable_entries (id, day_of_week, teacher_course_id, slot_id, room_id, is_recurring, start_date, end_date, session_type, created_at)
VALUES (:id, :day_of_week, :teacher_course_id, :slot_id, :room_id, :is_recurring, :start_date, :end_date, :session_type, :created_at)`

	for i := range entries {
		entry := &entries[i]
		if entry.ID == "" {
			entry.ID = uuid.NewString()
		}
		if entry.CreatedAt.IsZero() {
			entry.CreatedAt = now
		}
		if _, err := sqlx.NamedExecContext(ctx, target, query, entry); err != nil {
			return fmt.Errorf("insert timetable entry: %w", err)
		}
	}
	return nil
}

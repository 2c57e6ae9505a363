package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/university-timetable-api/internal/models"
)

// TeacherRepository reads instructor records.
type TeacherRepository struct {
	db *sqlx.DB
}

// NewTeacherRepository constructs the repository.
func NewTeacherRepository(db *sqlx.DB) *TeacherRepository {
	return &TeacherRepository{db: db}
}

const teacherColumns = `id, full_name, staff_code, department_id, role, specialisation,
       weekly_working_hours, is_industry_professional, is_placeholder, created_at, updated_at`

// FindByID loads one teacher.
func (r *TeacherRepository) FindByID(ctx context.Context, id string) (*models.Teacher, error) {
	query := `SELECT ` + teacherColumns + ` FROM teachers WHERE id = $1`
	var teacher models.Teacher
	if err := r.db.GetContext(ctx, &teacher, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, sql.ErrNoRows
		}
		return nil, fmt.Errorf("find teacher: %w", err)
	}
	return &teacher, nil
}

// ListAll returns every teacher ordered by name.
func (r *TeacherRepository) ListAll(ctx context.Context) ([]models.Teacher, error) {
	query := `SELECT ` + teacherColumns + ` FROM teachers ORDER BY full_name ASC`
	var teachers []models.Teacher
	if err := r.db.SelectContext(ctx, &teachers, query); err != nil {
		return nil, fmt.Errorf("list teachers: %w", err)
	}
	return teachers, nil
}

// CountByDepartment counts teachers belonging to a department. Placeholder
// rows count toward the quota denominator.
func (r *TeacherRepository) CountByDepartment(ctx context.Context, departmentID string) (int, error) {
	const query = `SELECT COUNT(*) FROM teachers WHERE department_id = $1`
	var count int
	if err := r.db.GetContext(ctx, &count, query, departmentID); err != nil {
		return 0, fmt.Errorf("count department teachers: %w", err)
	}
	return count, nil
}

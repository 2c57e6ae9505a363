package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/university-timetable-api/internal/models"
)

// TeacherCourseRepository reads teacher-course links.
type TeacherCourseRepository struct {
	db *sqlx.DB
}

// NewTeacherCourseRepository constructs the repository.
func NewTeacherCourseRepository(db *sqlx.DB) *TeacherCourseRepository {
	return &TeacherCourseRepository{db: db}
}

const teacherCourseDetailColumns = `
SELECT tc.id, tc.teacher_id, tc.course_id, tc.student_count, tc.academic_year, tc.semester,
       tc.requires_special_scheduling, tc.is_assistant, tc.created_at,
       c.code AS course_code, c.name AS course_name, c.course_type AS course_type,
       c.lecture_hours, c.tutorial_hours, c.practical_hours
FROM teacher_courses tc
JOIN courses c ON c.id = tc.course_id`

// ListAllDetails returns every teacher-course link with the joined course
// attributes the generator needs.
func (r *TeacherCourseRepository) ListAllDetails(ctx context.Context) ([]models.TeacherCourseDetail, error) {
	query := teacherCourseDetailColumns + ` ORDER BY tc.teacher_id ASC, c.code ASC`
	var details []models.TeacherCourseDetail
	if err := r.db.SelectContext(ctx, &details, query); err != nil {
		return nil, fmt.Errorf("list teacher courses: %w", err)
	}
	return details, nil
}

// ListByTeacher returns the teacher's course links with joined course attributes.
func (r *TeacherCourseRepository) ListByTeacher(ctx context.Context, teacherID string) ([]models.TeacherCourseDetail, error) {
	query := teacherCourseDetailColumns + ` WHERE tc.teacher_id = $1 ORDER BY c.code ASC`
	var details []models.TeacherCourseDetail
	if err := r.db.SelectContext(ctx, &details, query, teacherID); err != nil {
		return nil, fmt.Errorf("list teacher courses by teacher: %w", err)
	}
	return details, nil
}

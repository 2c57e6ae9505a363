package models

import "time"

// Course type codes.
const (
	CourseTypeTheory       = "T"
	CourseTypeLab          = "L"
	CourseTypeLabAndTheory = "LoT"
)

// Course is a teachable unit carrying the weekly hour load used for workload
// accounting and solver feasibility.
type Course struct {
	ID             string    `db:"id" json:"id"`
	Code           string    `db:"code" json:"code"`
	Name           string    `db:"name" json:"name"`
	CourseType     string    `db:"course_type" json:"course_type"`
	LectureHours   int       `db:"lecture_hours" json:"lecture_hours"`
	TutorialHours  int       `db:"tutorial_hours" json:"tutorial_hours"`
	PracticalHours int       `db:"practical_hours" json:"practical_hours"`
	DepartmentID   *string   `db:"department_id" json:"department_id,omitempty"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

// IsLab reports whether the course needs a lab room.
func (c Course) IsLab() bool {
	return c.PracticalHours > 0
}

// TeacherCourse ties a teacher to a course they deliver.
type TeacherCourse struct {
	ID                        string    `db:"id" json:"id"`
	TeacherID                 string    `db:"teacher_id" json:"teacher_id"`
	CourseID                  string    `db:"course_id" json:"course_id"`
	StudentCount              int       `db:"student_count" json:"student_count"`
	AcademicYear              int       `db:"academic_year" json:"academic_year"`
	Semester                  int       `db:"semester" json:"semester"`
	RequiresSpecialScheduling bool      `db:"requires_special_scheduling" json:"requires_special_scheduling"`
	IsAssistant               bool      `db:"is_assistant" json:"is_assistant"`
	CreatedAt                 time.Time `db:"created_at" json:"created_at"`
}

// TeacherCourseDetail joins the course attributes the generation engine and
// workload computation need.
type TeacherCourseDetail struct {
	TeacherCourse
	CourseCode     string `db:"course_code" json:"course_code"`
	CourseName     string `db:"course_name" json:"course_name"`
	CourseType     string `db:"course_type" json:"course_type"`
	LectureHours   int    `db:"lecture_hours" json:"lecture_hours"`
	TutorialHours  int    `db:"tutorial_hours" json:"tutorial_hours"`
	PracticalHours int    `db:"practical_hours" json:"practical_hours"`
}

// IsLabCourse reports whether the joined course needs a lab room.
func (d TeacherCourseDetail) IsLabCourse() bool {
	return d.PracticalHours > 0
}

// WeeklyHours computes the teaching load for the joined course. Practical
// hours count double.
func (d TeacherCourseDetail) WeeklyHours() int {
	switch d.CourseType {
	case CourseTypeTheory:
		return d.LectureHours + d.TutorialHours
	case CourseTypeLabAndTheory:
		return d.LectureHours + d.TutorialHours + d.PracticalHours*2
	case CourseTypeLab:
		return d.PracticalHours * 2
	}
	return 0
}

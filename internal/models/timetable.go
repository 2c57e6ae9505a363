package models

import "time"

// Session types for timetable entries.
const (
	SessionTypeLecture  = "Lecture"
	SessionTypeLab      = "Lab"
	SessionTypeTutorial = "Tutorial"
)

// TimetableEntry is one resolved cell of the weekly schedule.
type TimetableEntry struct {
	ID              string     `db:"id" json:"id"`
	DayOfWeek       int        `db:"day_of_week" json:"day_of_week"`
	TeacherCourseID string     `db:"teacher_course_id" json:"teacher_course_id"`
	SlotID          string     `db:"slot_id" json:"slot_id"`
	RoomID          string     `db:"room_id" json:"room_id"`
	IsRecurring     bool       `db:"is_recurring" json:"is_recurring"`
	StartDate       time.Time  `db:"start_date" json:"start_date"`
	EndDate         *time.Time `db:"end_date" json:"end_date,omitempty"`
	SessionType     string     `db:"session_type" json:"session_type"`
	CreatedAt       time.Time  `db:"created_at" json:"created_at"`
}

// TimetableDetail joins the display attributes used by listings and exports.
type TimetableDetail struct {
	TimetableEntry
	TeacherID   string   `db:"teacher_id" json:"teacher_id"`
	TeacherName string   `db:"teacher_name" json:"teacher_name"`
	CourseID    string   `db:"course_id" json:"course_id"`
	CourseCode  string   `db:"course_code" json:"course_code"`
	CourseName  string   `db:"course_name" json:"course_name"`
	SlotName    string   `db:"slot_name" json:"slot_name"`
	SlotType    SlotType `db:"slot_type" json:"slot_type"`
	StartTime   string   `db:"start_time" json:"start_time"`
	EndTime     string   `db:"end_time" json:"end_time"`
	RoomNumber  string   `db:"room_number" json:"room_number"`
}

// TimetableFilter captures query params for listing timetable entries.
type TimetableFilter struct {
	TeacherID string
	CourseID  string
	RoomID    string
	SlotID    string
	DayOfWeek *int
}

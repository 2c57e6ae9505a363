package dto

import "github.com/noah-isme/university-timetable-api/internal/models"

// SlotTypeDayCount is one (slot type, day) cell of the department summary.
type SlotTypeDayCount struct {
	DayOfWeek    int     `json:"dayOfWeek"`
	DayName      string  `json:"dayName"`
	TeacherCount int     `json:"teacherCount"`
	Percentage   float64 `json:"percentage"`
	WithinQuota  bool    `json:"withinQuota"`
}

// SlotTypeSummary groups per-day counts for one slot type.
type SlotTypeSummary struct {
	SlotType models.SlotType    `json:"slotType"`
	Days     []SlotTypeDayCount `json:"days"`
}

// DaysAssignedBucket is one bar of the days-assigned histogram: how many
// teachers hold assignments on exactly DistinctDays days.
type DaysAssignedBucket struct {
	DistinctDays int `json:"distinctDays"`
	TeacherCount int `json:"teacherCount"`
}

// CourseLoad is one course's contribution to a teacher's weekly load.
type CourseLoad struct {
	CourseCode  string `json:"courseCode"`
	CourseName  string `json:"courseName"`
	CourseType  string `json:"courseType"`
	WeeklyHours int    `json:"weeklyHours"`
}

// TeacherWorkloadResponse compares a teacher's course load against their
// weekly working-hour budget.
type TeacherWorkloadResponse struct {
	TeacherID   string       `json:"teacherId"`
	TeacherName string       `json:"teacherName"`
	Courses     []CourseLoad `json:"courses"`
	TotalHours  int          `json:"totalHours"`
	BudgetHours int          `json:"budgetHours"`
	Overloaded  bool         `json:"overloaded"`
}

// DepartmentSlotSummaryResponse is the department summary payload.
type DepartmentSlotSummaryResponse struct {
	DepartmentID   string               `json:"departmentId"`
	DepartmentName string               `json:"departmentName"`
	TeacherCount   int                  `json:"teacherCount"`
	Quota          int                  `json:"quota"`
	SlotTypes      []SlotTypeSummary    `json:"slotTypes"`
	DaysAssigned   []DaysAssignedBucket `json:"daysAssigned"`
	Compliant      bool                 `json:"compliant"`
}

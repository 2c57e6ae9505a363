package models

import "time"

// SlotType identifies one of the three macro teaching windows that stagger
// the working day.
type SlotType string

const (
	SlotTypeA SlotType = "A"
	SlotTypeB SlotType = "B"
	SlotTypeC SlotType = "C"
)

// SlotTypeWindow holds the canonical start and end time of a slot type.
type SlotTypeWindow struct {
	Start string
	End   string
}

var slotTypeWindows = map[SlotType]SlotTypeWindow{
	SlotTypeA: {Start: "08:00", End: "15:00"},
	SlotTypeB: {Start: "10:00", End: "17:00"},
	SlotTypeC: {Start: "12:00", End: "19:00"},
}

// SlotTypes returns the fixed slot types in catalog order.
func SlotTypes() []SlotType {
	return []SlotType{SlotTypeA, SlotTypeB, SlotTypeC}
}

// Valid reports whether the value is one of the three known slot types.
func (t SlotType) Valid() bool {
	_, ok := slotTypeWindows[t]
	return ok
}

// Window returns the canonical macro window for the slot type.
func (t SlotType) Window() (SlotTypeWindow, bool) {
	w, ok := slotTypeWindows[t]
	return w, ok
}

// Slot is a concrete bookable teaching period inside one slot type window.
type Slot struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	SlotType  SlotType  `db:"slot_type" json:"slot_type"`
	StartTime string    `db:"start_time" json:"start_time"`
	EndTime   string    `db:"end_time" json:"end_time"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Days of week follow the institutional convention 0=Monday .. 6=Sunday.
const (
	DayMonday    = 0
	DayTuesday   = 1
	DayWednesday = 2
	DayThursday  = 3
	DayFriday    = 4
	DaySaturday  = 5
	DaySunday    = 6
)

var dayNames = map[int]string{
	DayMonday:    "Monday",
	DayTuesday:   "Tuesday",
	DayWednesday: "Wednesday",
	DayThursday:  "Thursday",
	DayFriday:    "Friday",
	DaySaturday:  "Saturday",
	DaySunday:    "Sunday",
}

// RestrictedDays are mutually exclusive per teacher: a teacher holding one of
// them may never also hold the other.
var RestrictedDays = []int{DayMonday, DaySaturday}

// DayName returns the display name for a 0-6 day index.
func DayName(day int) string {
	if name, ok := dayNames[day]; ok {
		return name
	}
	return "Unknown"
}

// ValidDay reports whether the day index is within 0-6.
func ValidDay(day int) bool {
	return day >= DayMonday && day <= DaySunday
}

// WorkingDays lists the days the generation engine schedules over.
func WorkingDays() []int {
	return []int{DayMonday, DayTuesday, DayWednesday, DayThursday, DayFriday}
}

// TeacherSlotAssignment is a teacher's claim on one slot for one weekday.
type TeacherSlotAssignment struct {
	ID        string    `db:"id" json:"id"`
	TeacherID string    `db:"teacher_id" json:"teacher_id"`
	SlotID    string    `db:"slot_id" json:"slot_id"`
	DayOfWeek int       `db:"day_of_week" json:"day_of_week"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// TeacherSlotAssignmentDetail joins the slot attributes needed by the rule
// engine and the summary endpoints.
type TeacherSlotAssignmentDetail struct {
	TeacherSlotAssignment
	SlotName     string   `db:"slot_name" json:"slot_name"`
	SlotType     SlotType `db:"slot_type" json:"slot_type"`
	TeacherName  string   `db:"teacher_name" json:"teacher_name"`
	DepartmentID *string  `db:"department_id" json:"department_id,omitempty"`
}

// AssignmentFilter captures query options for listing slot assignments.
type AssignmentFilter struct {
	TeacherID    string
	DepartmentID string
	DayOfWeek    *int
	SlotType     SlotType
}

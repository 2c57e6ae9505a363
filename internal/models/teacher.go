package models

import "time"

// Teacher represents an instructor record.
type Teacher struct {
	ID                     string    `db:"id" json:"id"`
	FullName               string    `db:"full_name" json:"full_name"`
	StaffCode              *string   `db:"staff_code" json:"staff_code,omitempty"`
	DepartmentID           *string   `db:"department_id" json:"department_id,omitempty"`
	Role                   string    `db:"role" json:"role"`
	Specialisation         *string   `db:"specialisation" json:"specialisation,omitempty"`
	WeeklyWorkingHours     int       `db:"weekly_working_hours" json:"weekly_working_hours"`
	IsIndustryProfessional bool      `db:"is_industry_professional" json:"is_industry_professional"`
	IsPlaceholder          bool      `db:"is_placeholder" json:"is_placeholder"`
	CreatedAt              time.Time `db:"created_at" json:"created_at"`
	UpdatedAt              time.Time `db:"updated_at" json:"updated_at"`
}

// SchedulingEligible reports whether the teacher can hold real slot
// assignments. Placeholder rows reserve headcount for future recruitment and
// are skipped by the generator.
func (t Teacher) SchedulingEligible() bool {
	return !t.IsPlaceholder
}

// Department groups teachers for the slot-type quota.
type Department struct {
	ID            string     `db:"id" json:"id"`
	Name          string     `db:"name" json:"name"`
	EstablishedOn *time.Time `db:"established_on" json:"established_on,omitempty"`
	ContactInfo   *string    `db:"contact_info" json:"contact_info,omitempty"`
}

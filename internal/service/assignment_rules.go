package service

import (
	"fmt"
	"sort"
	"strings"

	"github.com/noah-isme/university-timetable-api/internal/models"
)

// AssignmentSnapshot is the read-only state the rule engine evaluates a
// candidate against. Callers build it from live storage (or fixtures in
// tests); the engine itself never touches a repository.
type AssignmentSnapshot struct {
	// Existing holds the teacher's current assignments with slot attributes.
	Existing []models.TeacherSlotAssignmentDetail
	// DepartmentTeacherCount is the size of the teacher's department, zero
	// when the teacher has no department.
	DepartmentTeacherCount int
	// DepartmentHolders counts distinct department teachers, excluding the
	// candidate teacher, already assigned to the candidate's (day, slot type).
	DepartmentHolders int
}

// AssignmentCandidate is one proposed (teacher, slot, day) assignment.
type AssignmentCandidate struct {
	TeacherID string
	SlotID    string
	SlotType  models.SlotType
	DayOfWeek int
	// ExcludeAssignmentID removes the assignment being replaced from the
	// snapshot, so updates validate against the post-change state.
	ExcludeAssignmentID string
}

// RuleEngine evaluates assignment candidates against the institutional rules.
// It is stateless and safe for concurrent use.
type RuleEngine struct{}

// NewRuleEngine constructs the engine.
func NewRuleEngine() *RuleEngine {
	return &RuleEngine{}
}

// maxAssignmentDays caps the distinct days a teacher may hold per week. At one
// slot per day this also caps total assignments.
const maxAssignmentDays = 5

// validDistributions are the only slot-type multisets allowed once a teacher
// reaches exactly five assignments.
var validDistributions = []map[models.SlotType]int{
	{models.SlotTypeA: 2, models.SlotTypeB: 2, models.SlotTypeC: 1},
	{models.SlotTypeA: 1, models.SlotTypeB: 2, models.SlotTypeC: 2},
	{models.SlotTypeA: 2, models.SlotTypeB: 1, models.SlotTypeC: 2},
}

// QuotaFor computes the department cap on distinct teachers per
// (day, slot type): a 33% share with rounding plus a one-teacher grace.
// The formula is institutional policy and is kept bit-for-bit.
func QuotaFor(departmentTeacherCount int) int {
	return int(float64(departmentTeacherCount)*0.33+0.5) + 1
}

// Evaluate checks the candidate against every rule in order and returns the
// first violation, or nil when the assignment is legal.
func (e *RuleEngine) Evaluate(snapshot AssignmentSnapshot, candidate AssignmentCandidate) *models.RuleViolationError {
	existing := snapshot.Existing
	if candidate.ExcludeAssignmentID != "" {
		filtered := make([]models.TeacherSlotAssignmentDetail, 0, len(existing))
		for _, a := range existing {
			if a.ID != candidate.ExcludeAssignmentID {
				filtered = append(filtered, a)
			}
		}
		existing = filtered
	}

	days := make(map[int]bool, len(existing))
	for _, a := range existing {
		days[a.DayOfWeek] = true
	}

	if v := checkFiveDayCap(days, candidate.DayOfWeek); v != nil {
		return v
	}
	if v := checkOneSlotPerDay(existing, candidate.DayOfWeek); v != nil {
		return v
	}
	if v := checkRestrictedDays(days, candidate.DayOfWeek); v != nil {
		return v
	}
	if v := checkDistribution(existing, candidate.SlotType); v != nil {
		return v
	}
	return checkDepartmentQuota(snapshot, candidate)
}

func checkFiveDayCap(days map[int]bool, candidateDay int) *models.RuleViolationError {
	if days[candidateDay] || len(days) < maxAssignmentDays {
		return nil
	}
	return &models.RuleViolationError{
		Rule:    models.RuleFiveDayCap,
		Message: fmt.Sprintf("teacher already holds assignments on %d distinct days; at most %d days per week are allowed", len(days), maxAssignmentDays),
	}
}

func checkOneSlotPerDay(existing []models.TeacherSlotAssignmentDetail, candidateDay int) *models.RuleViolationError {
	for _, a := range existing {
		if a.DayOfWeek == candidateDay {
			return &models.RuleViolationError{
				Rule:    models.RuleOneSlotPerDay,
				Message: fmt.Sprintf("teacher already holds slot %s on %s; one slot per day is allowed", a.SlotName, models.DayName(candidateDay)),
			}
		}
	}
	return nil
}

func checkRestrictedDays(days map[int]bool, candidateDay int) *models.RuleViolationError {
	var other int
	switch candidateDay {
	case models.DayMonday:
		other = models.DaySaturday
	case models.DaySaturday:
		other = models.DayMonday
	default:
		return nil
	}
	if !days[other] {
		return nil
	}
	return &models.RuleViolationError{
		Rule:    models.RuleRestrictedDay,
		Message: fmt.Sprintf("%s and %s are mutually exclusive; teacher already holds %s", models.DayName(models.DayMonday), models.DayName(models.DaySaturday), models.DayName(other)),
	}
}

func checkDistribution(existing []models.TeacherSlotAssignmentDetail, candidateType models.SlotType) *models.RuleViolationError {
	total := len(existing) + 1
	if total > maxAssignmentDays {
		return &models.RuleViolationError{
			Rule:    models.RuleSlotDistribution,
			Message: fmt.Sprintf("teacher cannot hold more than %d assignments per week", maxAssignmentDays),
		}
	}
	if total < maxAssignmentDays {
		return nil
	}

	counts := map[models.SlotType]int{}
	for _, a := range existing {
		counts[a.SlotType]++
	}
	counts[candidateType]++
	for _, valid := range validDistributions {
		if counts[models.SlotTypeA] == valid[models.SlotTypeA] &&
			counts[models.SlotTypeB] == valid[models.SlotTypeB] &&
			counts[models.SlotTypeC] == valid[models.SlotTypeC] {
			return nil
		}
	}
	return &models.RuleViolationError{
		Rule:    models.RuleSlotDistribution,
		Message: fmt.Sprintf("resulting slot-type distribution %s is not one of the allowed five-assignment distributions", formatDistribution(counts)),
	}
}

func checkDepartmentQuota(snapshot AssignmentSnapshot, candidate AssignmentCandidate) *models.RuleViolationError {
	if snapshot.DepartmentTeacherCount <= 0 {
		return nil
	}
	quota := QuotaFor(snapshot.DepartmentTeacherCount)
	if snapshot.DepartmentHolders < quota {
		return nil
	}
	return &models.RuleViolationError{
		Rule:    models.RuleDepartmentQuota,
		Message: fmt.Sprintf("department quota reached for %s type %s: %d of %d teachers already assigned", models.DayName(candidate.DayOfWeek), candidate.SlotType, snapshot.DepartmentHolders, quota),
	}
}

func formatDistribution(counts map[models.SlotType]int) string {
	types := make([]string, 0, len(counts))
	for t := range counts {
		types = append(types, string(t))
	}
	sort.Strings(types)
	parts := make([]string, 0, len(types))
	for _, t := range types {
		parts = append(parts, fmt.Sprintf("%s:%d", t, counts[models.SlotType(t)]))
	}
	return "{" + strings.Join(parts, ",") + "}"
}

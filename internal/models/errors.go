package models

// Rule names reported by the assignment rule engine. The first violated rule
// names the failure.
const (
	RuleFiveDayCap       = "FIVE_DAY_CAP"
	RuleOneSlotPerDay    = "ONE_SLOT_PER_DAY"
	RuleRestrictedDay    = "RESTRICTED_DAY"
	RuleSlotDistribution = "SLOT_DISTRIBUTION"
	RuleDepartmentQuota  = "DEPARTMENT_QUOTA"
)

// RuleViolationError reports which assignment rule rejected a candidate.
type RuleViolationError struct {
	Rule    string `json:"rule"`
	Message string `json:"message"`
}

// Error implements the error interface.
func (e *RuleViolationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return e.Message
}

package models

import "time"

// EscalationRule defines when and to whom an aged complaint is reassigned.
// An empty Category or Priority matches any value; see MatchesAny.
type EscalationRule struct {
	ID             string            `db:"id" json:"id"`
	Category       ComplaintCategory `db:"category" json:"category"`
	Priority       ComplaintPriority `db:"priority" json:"priority"`
	HoursThreshold float64           `db:"hours_threshold" json:"hours_threshold"`
	EscalateTo     string            `db:"escalate_to" json:"escalate_to"`
	IsActive       bool              `db:"is_active" json:"is_active"`
	CreatedAt      time.Time         `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time         `db:"updated_at" json:"updated_at"`
}

// MatchesAny reports whether a rule field is the "any" wildcard. Rules
// created without a category or priority apply to every complaint; the
// wildcard is the empty string, stated here once so the policy is explicit.
func MatchesAny(field string) bool {
	return field == ""
}

// MatchesComplaint reports whether the rule's category and priority select
// the given complaint. The age check is separate.
func (r EscalationRule) MatchesComplaint(c Complaint) bool {
	if !MatchesAny(string(r.Category)) && r.Category != c.Category {
		return false
	}
	if !MatchesAny(string(r.Priority)) && r.Priority != c.Priority {
		return false
	}
	return true
}

// Threshold returns the rule's age threshold as a duration. Negative
// thresholds are treated as zero rather than rejected; validation of
// rules belongs to the management surface, not the engine.
func (r EscalationRule) Threshold() time.Duration {
	if r.HoursThreshold <= 0 {
		return 0
	}
	return time.Duration(r.HoursThreshold * float64(time.Hour))
}

// EscalationRuleFilter captures filtering criteria for listing rules.
type EscalationRuleFilter struct {
	ActiveOnly bool
	Page       int
	PageSize   int
}

// EscalationResult summarises one engine pass.
type EscalationResult struct {
	Matched   int       `json:"matched"`
	Escalated int       `json:"escalated"`
	Skipped   int       `json:"skipped"`
	Message   string    `json:"message"`
	RanAt     time.Time `json:"ran_at"`
}

package models

import "time"

// HistoryAction identifies the kind of state change recorded.
type HistoryAction string

const (
	ActionEscalated     HistoryAction = "escalated"
	ActionAssigned      HistoryAction = "assigned"
	ActionStatusChanged HistoryAction = "status_changed"
	ActionReset         HistoryAction = "escalation_reset"
)

// SystemActor is the performed_by value for engine-initiated changes.
const SystemActor = "system"

// ComplaintHistory is an append-only audit row for a complaint state change.
type ComplaintHistory struct {
	ID          string        `db:"id" json:"id"`
	ComplaintID string        `db:"complaint_id" json:"complaint_id"`
	Action      HistoryAction `db:"action" json:"action"`
	OldValue    string        `db:"old_value" json:"old_value"`
	NewValue    string        `db:"new_value" json:"new_value"`
	PerformedBy string        `db:"performed_by" json:"performed_by"`
	Details     string        `db:"details" json:"details"`
	CreatedAt   time.Time     `db:"created_at" json:"created_at"`
}

// EscalationDetails is the structured Details payload for escalated rows.
type EscalationDetails struct {
	RuleID         string            `json:"rule_id"`
	HoursThreshold float64           `json:"hours_threshold"`
	Category       ComplaintCategory `json:"category"`
	Priority       ComplaintPriority `json:"priority"`
}

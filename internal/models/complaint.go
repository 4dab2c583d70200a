package models

import "time"

// ComplaintCategory classifies what a complaint is about.
type ComplaintCategory string

const (
	CategoryAcademic       ComplaintCategory = "academic"
	CategoryFacilities     ComplaintCategory = "facilities"
	CategoryHarassment     ComplaintCategory = "harassment"
	CategoryCourseContent  ComplaintCategory = "course_content"
	CategoryAdministrative ComplaintCategory = "administrative"
	CategoryOther          ComplaintCategory = "other"
)

// ComplaintPriority orders complaints by urgency.
type ComplaintPriority string

const (
	PriorityLow      ComplaintPriority = "low"
	PriorityMedium   ComplaintPriority = "medium"
	PriorityHigh     ComplaintPriority = "high"
	PriorityCritical ComplaintPriority = "critical"
)

// ComplaintStatus tracks the complaint lifecycle.
type ComplaintStatus string

const (
	StatusDraft      ComplaintStatus = "draft"
	StatusNew        ComplaintStatus = "new"
	StatusOpened     ComplaintStatus = "opened"
	StatusInProgress ComplaintStatus = "in_progress"
	StatusResolved   ComplaintStatus = "resolved"
	StatusClosed     ComplaintStatus = "closed"
	StatusReopened   ComplaintStatus = "reopened"
)

// OpenStatuses lists the statuses eligible for auto-escalation.
var OpenStatuses = []ComplaintStatus{StatusNew, StatusOpened}

// KnownCategories enumerates valid categories for validation.
var KnownCategories = []ComplaintCategory{
	CategoryAcademic, CategoryFacilities, CategoryHarassment,
	CategoryCourseContent, CategoryAdministrative, CategoryOther,
}

// KnownPriorities enumerates valid priorities for validation.
var KnownPriorities = []ComplaintPriority{
	PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical,
}

// KnownStatuses enumerates valid statuses for validation.
var KnownStatuses = []ComplaintStatus{
	StatusDraft, StatusNew, StatusOpened, StatusInProgress,
	StatusResolved, StatusClosed, StatusReopened,
}

// Complaint represents a student complaint stored in the complaints table.
//
// EscalatedAt is non-nil iff the complaint has been escalated since its
// last reset; EscalationLevel counts escalations over its lifetime and
// never decreases.
type Complaint struct {
	ID              string            `db:"id" json:"id"`
	Title           string            `db:"title" json:"title"`
	Description     string            `db:"description" json:"description"`
	Category        ComplaintCategory `db:"category" json:"category"`
	Priority        ComplaintPriority `db:"priority" json:"priority"`
	Status          ComplaintStatus   `db:"status" json:"status"`
	SubmittedBy     string            `db:"submitted_by" json:"submitted_by"`
	AssignedTo      *string           `db:"assigned_to" json:"assigned_to,omitempty"`
	EscalatedAt     *time.Time        `db:"escalated_at" json:"escalated_at,omitempty"`
	EscalationLevel int               `db:"escalation_level" json:"escalation_level"`
	VoteCount       int               `db:"vote_count" json:"vote_count"`
	CreatedAt       time.Time         `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time         `db:"updated_at" json:"updated_at"`
}

// ComplaintFilter captures filtering criteria for listing complaints.
type ComplaintFilter struct {
	Status     *ComplaintStatus
	Category   *ComplaintCategory
	Priority   *ComplaintPriority
	AssignedTo string
	Submitter  string
	Page       int
	PageSize   int
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}

// legalTransitions maps each status to the statuses it may move to.
var legalTransitions = map[ComplaintStatus][]ComplaintStatus{
	StatusDraft:      {StatusNew},
	StatusNew:        {StatusOpened, StatusInProgress, StatusClosed},
	StatusOpened:     {StatusInProgress, StatusResolved, StatusClosed},
	StatusInProgress: {StatusResolved, StatusClosed},
	StatusResolved:   {StatusClosed, StatusReopened},
	StatusClosed:     {StatusReopened},
	StatusReopened:   {StatusOpened, StatusInProgress, StatusResolved, StatusClosed},
}

// CanTransition reports whether a complaint may move from one status to another.
func CanTransition(from, to ComplaintStatus) bool {
	for _, allowed := range legalTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

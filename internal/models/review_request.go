// internal/models/review_request.go
package models

import "time"

// Status classifies a review request by its workflow state.
type Status int

const (
	StatusOther Status = iota
	StatusUnderReview
	StatusOnHold
	StatusPendingInfo
)

// Board labels as exported by the workflow tool.
const (
	LabelUnderReview = "💪 Reviewers on it"
	LabelOnHold      = "😴 On Hold"
	LabelPendingInfo = "⏳ Pending more information"
)

// StatusFromLabel maps a raw board label to a Status. Unknown labels map to
// StatusOther and are not escalated.
func StatusFromLabel(label string) Status {
	switch label {
	case LabelUnderReview:
		return StatusUnderReview
	case LabelOnHold:
		return StatusOnHold
	case LabelPendingInfo:
		return StatusPendingInfo
	default:
		return StatusOther
	}
}

func (s Status) String() string {
	switch s {
	case StatusUnderReview:
		return "under_review"
	case StatusOnHold:
		return "on_hold"
	case StatusPendingInfo:
		return "pending_info"
	default:
		return "other"
	}
}

// Signoff is one per-domain validation checkbox paired with its reviewer.
type Signoff struct {
	Domain        string
	Done          bool
	ReviewerEmail string // empty when the column held no address
}

// ReviewRequest is one normalized row from the review-request export.
type ReviewRequest struct {
	ID            string
	Status        Status
	StatusLabel   string
	LeadTime      int
	SLAOnHoldDate *time.Time // nil when the SLA column is absent
	Link          string
	Title         string
	CreatorEmail  string // empty when the creator column is absent
	Signoffs      []Signoff
}

// ValidationColumn pairs a signoff column with its reviewer-address column.
type ValidationColumn struct {
	Domain         string
	StatusColumn   string
	ReviewerColumn string
}

// ValidationColumns lists the per-domain signoff columns in evaluation order.
var ValidationColumns = []ValidationColumn{
	{Domain: "regulatory", StatusColumn: "REGULATORY_FINAL_VALIDATION", ReviewerColumn: "REGULATORY_REVIEWER_EMAIL"},
	{Domain: "financial_crime", StatusColumn: "FC_FINAL_VALIDATION", ReviewerColumn: "FINANCIAL_CRIME_REVIEWER_EMAIL"},
	{Domain: "security", StatusColumn: "SECURITY_FINAL_VALIDATION", ReviewerColumn: "SECURITY_REVIEWER_EMAIL"},
	{Domain: "finance", StatusColumn: "FINANCE_FINAL_VALIDATION", ReviewerColumn: "FINANCE_REVIEWER_EMAIL"},
	{Domain: "legal", StatusColumn: "LEGAL_FINAL_VALIDATION", ReviewerColumn: "LEGAL_REVIEWER_EMAIL"},
	{Domain: "risk", StatusColumn: "RISK_FINAL_VALIDATION", ReviewerColumn: "RISK_REVIEWER_EMAIL"},
	{Domain: "internal_control", StatusColumn: "IC_FINAL_VALIDATION", ReviewerColumn: "INTERNAL_CONTROL_REVIEWER_EMAIL"},
}

// DaysBetween returns the whole calendar days from a to b, ignoring the
// time-of-day component of both.
func DaysBetween(a, b time.Time) int {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	start := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	end := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(end.Sub(start).Hours() / 24)
}

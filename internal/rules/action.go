// Package rules holds the escalation decisions shared by the per-item-type
// evaluators. Evaluators are pure: they map a row and a date to the set of
// notifications that should go out, without touching the chat API.
package rules

import "strings"

// Kind labels a notification for metrics and logs.
type Kind string

const (
	KindCreator  Kind = "creator"
	KindFallback Kind = "fallback"
	KindReviewer Kind = "reviewer"
	KindOverdue  Kind = "overdue"
	KindOwner    Kind = "owner"
	KindNoOwner  Kind = "no_owner"
	KindAdmin    Kind = "admin"
)

// Action is one notification an evaluator decided to send.
type Action struct {
	Recipient string
	Message   string
	Link      string
	Kind      Kind
}

// LocalPart returns the mention handle for an email address, the part before
// the @ sign.
func LocalPart(email string) string {
	if i := strings.Index(email, "@"); i >= 0 {
		return email[:i]
	}
	return email
}

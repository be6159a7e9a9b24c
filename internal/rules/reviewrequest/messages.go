// internal/rules/reviewrequest/messages.go
package reviewrequest

import (
	"fmt"

	"escalation-notifier/internal/rules"
)

const (
	msgUnderReviewCheck = "⏳ This request is under review. Could you please double-check to make sure everything looks good?"
	msgDeadlineSoon     = "⏳ Just a heads-up, the deadline for this request is coming up soon. Let's make sure we get it done on time!"
	msgDeadlinePassed   = "🚨 Oops! The deadline for this request has passed. Please respond as soon as you can. Thanks!"
	msgOnHold           = "😴 This request is on hold for now. Could you please provide an update?"
	msgPendingInfo      = "👀 This request needs a bit more information to be processed. Could you please take a look and make sure everything looks good?"
)

// tierMessage returns the escalation message for an under-review lead time.
// Lead times outside the notification tiers return false.
func tierMessage(leadTime int) (string, bool) {
	switch {
	case leadTime == 4:
		return msgUnderReviewCheck, true
	case leadTime == 8:
		return msgDeadlineSoon, true
	case leadTime == 10:
		return msgDeadlinePassed, true
	case leadTime >= 12 && leadTime%2 == 0:
		return msgDeadlinePassed, true
	default:
		return "", false
	}
}

func formatCreatorMessage(creatorEmail, message, link, title string) string {
	return fmt.Sprintf("Hey @%s\n\n%s\n\n<%s|%s>", rules.LocalPart(creatorEmail), message, link, title)
}

func formatFallbackMessage(fallbackEmail, statusLabel, issue, message, link, title string) string {
	return fmt.Sprintf("Hey @%s\n\n*Issue : %s*\n%s\n\n%s\n\n<%s|%s>",
		rules.LocalPart(fallbackEmail), statusLabel, issue, message, link, title)
}

func formatReviewerMessage(reviewerEmail, message, link, title string) string {
	return fmt.Sprintf("*Reviewer Reminder:* Hey @%s,\n\n%s\nThanks 😉.\n\n<%s|%s>",
		rules.LocalPart(reviewerEmail), message, link, title)
}

// OverdueReminderMessage builds the recheck reminder for a tracked card that
// is still overdue after the recheck interval.
func OverdueReminderMessage(cardID, creatorEmail string) string {
	return fmt.Sprintf("Hey @%s\n\n🚨 Reminder: Your card %s is still overdue. Please respond as soon as you can. Thanks!",
		rules.LocalPart(creatorEmail), cardID)
}

// OverdueFallbackMessage builds the recheck reminder routed to the point of
// contact when the tracked card has no creator.
func OverdueFallbackMessage(cardID, fallbackEmail string) string {
	return fmt.Sprintf("Hey @%s\n\n🚨 Reminder: Card %s is still overdue and has no creator. Please check and take necessary action. Thanks!",
		rules.LocalPart(fallbackEmail), cardID)
}

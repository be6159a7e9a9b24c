// internal/rules/reviewrequest/rules.go
package reviewrequest

import (
	"fmt"
	"time"

	"escalation-notifier/internal/models"
	"escalation-notifier/internal/rules"
)

// Result is the outcome of evaluating one review request.
type Result struct {
	Actions []rules.Action
	// Overdue marks the request for the recheck tracker.
	Overdue bool
}

// Evaluator applies the review-request escalation rules. FallbackEmail is the
// point of contact that receives notifications for rows without a creator.
type Evaluator struct {
	FallbackEmail string
}

func NewEvaluator(fallbackEmail string) *Evaluator {
	return &Evaluator{FallbackEmail: fallbackEmail}
}

// Evaluate returns the notifications due for a request on the given day.
// Primary notifications always precede reviewer reminders.
func (e *Evaluator) Evaluate(req models.ReviewRequest, today time.Time) Result {
	switch req.Status {
	case models.StatusUnderReview:
		return e.evaluateUnderReview(req)
	case models.StatusOnHold:
		return e.evaluateOnHold(req, today)
	case models.StatusPendingInfo:
		return e.evaluatePendingInfo(req, today)
	default:
		return Result{}
	}
}

func (e *Evaluator) evaluateUnderReview(req models.ReviewRequest) Result {
	message, ok := tierMessage(req.LeadTime)
	if !ok {
		return Result{}
	}

	var res Result
	if req.CreatorEmail != "" {
		res.Actions = append(res.Actions, rules.Action{
			Recipient: req.CreatorEmail,
			Message:   formatCreatorMessage(req.CreatorEmail, message, req.Link, req.Title),
			Link:      req.Link,
			Kind:      rules.KindCreator,
		})
	} else {
		res.Actions = append(res.Actions, rules.Action{
			Recipient: e.FallbackEmail,
			Message: formatFallbackMessage(e.FallbackEmail, req.StatusLabel,
				"This card doesn't have a creator - Please take care of it", message, req.Link, req.Title),
			Link: req.Link,
			Kind: rules.KindFallback,
		})
	}

	res.Actions = append(res.Actions, e.reviewerActions(req, message)...)
	res.Overdue = req.LeadTime >= 12 && req.LeadTime%2 == 0
	return res
}

func (e *Evaluator) evaluateOnHold(req models.ReviewRequest, today time.Time) Result {
	var res Result

	if req.SLAOnHoldDate != nil {
		daysSinceSLA := models.DaysBetween(*req.SLAOnHoldDate, today)
		if daysSinceSLA > 0 && daysSinceSLA%30 == 0 {
			var message string
			var action rules.Action
			if req.CreatorEmail == "" {
				message = fmt.Sprintf("Hey @%s\n\n*Issue : %s*\n⚠️ Error: This card doesn't have a creator - Please take care of it\n\n%s",
					rules.LocalPart(e.FallbackEmail), req.StatusLabel, msgOnHold)
				action = rules.Action{Recipient: e.FallbackEmail, Kind: rules.KindFallback}
			} else {
				message = fmt.Sprintf("Hey @%s\n\n%s", rules.LocalPart(req.CreatorEmail), msgOnHold)
				action = rules.Action{Recipient: req.CreatorEmail, Kind: rules.KindCreator}
			}

			action.Message = fmt.Sprintf("%s\n\n<%s|%s>", message, req.Link, req.Title)
			action.Link = req.Link
			res.Actions = append(res.Actions, action)
			res.Actions = append(res.Actions, e.reviewerActions(req, message)...)
		}
	} else {
		message := fmt.Sprintf("Hey @%s\n\n*Issue : %s*\n⚠️ Error: This card has no SLA - Please take care of it\n\n%s",
			rules.LocalPart(e.FallbackEmail), req.StatusLabel, msgOnHold)
		res.Actions = append(res.Actions, rules.Action{
			Recipient: e.FallbackEmail,
			Message:   fmt.Sprintf("%s\n\n<%s|%s>", message, req.Link, req.Title),
			Link:      req.Link,
			Kind:      rules.KindFallback,
		})
		res.Actions = append(res.Actions, e.reviewerActions(req, message)...)
	}

	// A request with an SLA but no creator is flagged on top of the cadence
	// notification above.
	if req.SLAOnHoldDate != nil && req.CreatorEmail == "" {
		message := fmt.Sprintf("Hey @%s\n\n*Issue : %s*\n⚠️ Error: This card has a SLA but no creator - Please take care of it\n\n%s",
			rules.LocalPart(e.FallbackEmail), req.StatusLabel, msgOnHold)
		res.Actions = append(res.Actions, rules.Action{
			Recipient: e.FallbackEmail,
			Message:   fmt.Sprintf("%s\n\n<%s|%s>", message, req.Link, req.Title),
			Link:      req.Link,
			Kind:      rules.KindFallback,
		})
		res.Actions = append(res.Actions, e.reviewerActions(req, message)...)
	}

	return res
}

func (e *Evaluator) evaluatePendingInfo(req models.ReviewRequest, today time.Time) Result {
	var res Result

	if req.SLAOnHoldDate != nil {
		daysSinceSLA := models.DaysBetween(*req.SLAOnHoldDate, today)
		if daysSinceSLA >= 5 && (daysSinceSLA-5)%5 == 0 {
			if req.CreatorEmail != "" {
				res.Actions = append(res.Actions, rules.Action{
					Recipient: req.CreatorEmail,
					Message:   formatCreatorMessage(req.CreatorEmail, msgPendingInfo, req.Link, req.Title),
					Link:      req.Link,
					Kind:      rules.KindCreator,
				})
			} else {
				res.Actions = append(res.Actions, rules.Action{
					Recipient: e.FallbackEmail,
					Message: formatFallbackMessage(e.FallbackEmail, req.StatusLabel,
						"This card doesn't have creator - Please take care of it", msgPendingInfo, req.Link, req.Title),
					Link: req.Link,
					Kind: rules.KindFallback,
				})
			}
			res.Actions = append(res.Actions, e.reviewerActions(req, msgPendingInfo)...)
		}
	} else {
		res.Actions = append(res.Actions, rules.Action{
			Recipient: e.FallbackEmail,
			Message: formatFallbackMessage(e.FallbackEmail, req.StatusLabel,
				"⚠️ This card has no SLA - Please Take Care of It", msgPendingInfo, req.Link, req.Title),
			Link: req.Link,
			Kind: rules.KindFallback,
		})
		res.Actions = append(res.Actions, e.reviewerActions(req, msgPendingInfo)...)
	}

	return res
}

// reviewerActions reminds every reviewer whose signoff is still open. For
// under-review lead times inside a notification tier the reminder carries the
// tier message; otherwise it embeds the message that went to the creator.
func (e *Evaluator) reviewerActions(req models.ReviewRequest, message string) []rules.Action {
	if tier, ok := tierMessage(req.LeadTime); ok {
		message = tier
	}

	var actions []rules.Action
	for _, signoff := range req.Signoffs {
		if signoff.Done || signoff.ReviewerEmail == "" {
			continue
		}
		actions = append(actions, rules.Action{
			Recipient: signoff.ReviewerEmail,
			Message:   formatReviewerMessage(signoff.ReviewerEmail, message, req.Link, req.Title),
			Link:      req.Link,
			Kind:      rules.KindReviewer,
		})
	}
	return actions
}

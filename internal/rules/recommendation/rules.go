// internal/rules/recommendation/rules.go
package recommendation

import (
	"fmt"
	"time"

	apperrors "escalation-notifier/internal/common/errors"
	"escalation-notifier/internal/models"
	"escalation-notifier/internal/rules"
)

const (
	msgEtaEndingOwner = "⚠️ Your recommendation's ETA is coming to an end. Please do not forget to complete it with your audit trail, or to notify the Requestor that the implementation of your recommendation has to be postponed."
	msgEtaEndingMaker = "⚠️ Your recommendation's ETA is coming to an end. Please do not forget to complete it with your rationale for closure, or to postpone the ETA if needed."
	msgLate           = "🚨 Your recommendation card is late! Please have a look and update it accordingly."
)

// Evaluator applies the recommendation escalation rules. FallbackEmail is the
// point of contact notified for ownerless cards.
type Evaluator struct {
	FallbackEmail string
}

func NewEvaluator(fallbackEmail string) *Evaluator {
	return &Evaluator{FallbackEmail: fallbackEmail}
}

// Evaluate returns the notifications due for a recommendation on the given
// day. An ownerless card is flagged to the point of contact and nothing else
// is evaluated. Cards with an owner but no usable ETA are reported as
// malformed.
func (e *Evaluator) Evaluate(rec models.Recommendation, today time.Time) ([]rules.Action, error) {
	if rec.OwnerEmail == "" {
		message := fmt.Sprintf("*Issue 🚨 : No Owner*\nHey @%s, This card has no owner. Please have a look.\n\nLink = <%s|%s>",
			rules.LocalPart(e.FallbackEmail), rec.Link, rec.Condition)
		return []rules.Action{{
			Recipient: e.FallbackEmail,
			Message:   message,
			Link:      rec.Link,
			Kind:      rules.KindNoOwner,
		}}, nil
	}

	eta := rec.EffectiveETA()
	if eta == nil {
		return nil, apperrors.NewMalformedRowError("recommendation", rec.Link, "no ETA set")
	}
	daysUntilETA := models.DaysBetween(today, *eta)

	var actions []rules.Action
	if a, ok := e.buildAction(rec, rec.OwnerEmail, false, daysUntilETA); ok {
		actions = append(actions, a)
	}
	if rec.CreatorEmail != "" {
		if a, ok := e.buildAction(rec, rec.CreatorEmail, true, daysUntilETA); ok {
			actions = append(actions, a)
		}
	}
	return actions, nil
}

func (e *Evaluator) buildAction(rec models.Recommendation, recipient string, isCreator bool, daysUntilETA int) (rules.Action, bool) {
	var body string
	switch {
	case daysUntilETA == 10:
		if isCreator {
			body = fmt.Sprintf("⏳ Your recommendation card is waiting for you! Please do not forget to contact the @%s of the card to make sure it is currently being implemented.",
				rules.LocalPart(rec.OwnerEmail))
		} else {
			body = "⏳ Your recommendation card is waiting for you! Please do not forget to contact the Requestor of the card to keep him informed of the progress of the recommendation's implementation and, if necessary, ask him questions to implement it properly."
		}
	case daysUntilETA == 0:
		if isCreator {
			body = msgEtaEndingMaker
		} else {
			body = msgEtaEndingOwner
		}
	case daysUntilETA < 0 && (-daysUntilETA)%2 == 0:
		body = msgLate
	default:
		return rules.Action{}, false
	}

	kind := rules.KindOwner
	if isCreator {
		kind = rules.KindCreator
	}
	message := fmt.Sprintf("Hey @%s\n\n%s\n\nLink = <%s|%s>",
		rules.LocalPart(recipient), body, rec.Link, rec.Condition)
	return rules.Action{
		Recipient: recipient,
		Message:   message,
		Link:      rec.Link,
		Kind:      kind,
	}, true
}

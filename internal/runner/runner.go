// Package runner orchestrates one scan cycle: fetch both exports, evaluate
// every row, dispatch the resulting notifications, then recheck tracked
// overdue cards.
package runner

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"escalation-notifier/internal/common/logger"
	"escalation-notifier/internal/common/metrics"
	"escalation-notifier/internal/models"
	"escalation-notifier/internal/rules"
	"escalation-notifier/internal/rules/recommendation"
	"escalation-notifier/internal/rules/reviewrequest"
	"escalation-notifier/internal/tracker"
)

// DataSource provides the two export tables.
type DataSource interface {
	FetchReviewRequests(ctx context.Context) ([]models.ReviewRequest, error)
	FetchRecommendations(ctx context.Context) ([]models.Recommendation, error)
}

// Notifier dispatches evaluator actions and admin alerts.
type Notifier interface {
	Send(ctx context.Context, action rules.Action) error
	AlertAdmin(ctx context.Context, text string)
}

const defaultRecheckInterval = 48 * time.Hour

// Runner executes scan runs. A mutex keeps runs serialized: a cron tick that
// fires while a run is still going waits instead of overlapping it.
type Runner struct {
	mu sync.Mutex

	source     DataSource
	notifier   Notifier
	reviewEval *reviewrequest.Evaluator
	recoEval   *recommendation.Evaluator
	tracker    *tracker.Tracker
	logger     logger.Logger

	now             func() time.Time
	recheckInterval time.Duration
}

func New(source DataSource, notifier Notifier, reviewEval *reviewrequest.Evaluator,
	recoEval *recommendation.Evaluator, trk *tracker.Tracker, log logger.Logger) *Runner {
	return &Runner{
		source:          source,
		notifier:        notifier,
		reviewEval:      reviewEval,
		recoEval:        recoEval,
		tracker:         trk,
		logger:          log,
		now:             time.Now,
		recheckInterval: defaultRecheckInterval,
	}
}

// Run performs one full scan cycle. A review-request fetch failure aborts the
// run; a recommendation fetch failure skips only that phase but is still
// returned so a one-shot invocation exits non-zero. Send failures never
// abort: every remaining row still gets evaluated.
func (r *Runner) Run(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	runID := uuid.NewString()
	log := r.logger.WithFields(map[string]interface{}{"runId": runID})
	start := r.now()
	log.Info("starting run", nil)

	defer func() {
		metrics.RunDuration.Observe(time.Since(start).Seconds())
	}()

	requests, err := r.source.FetchReviewRequests(ctx)
	if err != nil {
		log.WithError(err).Error("failed to fetch review requests", nil)
		r.notifier.AlertAdmin(ctx, fmt.Sprintf("Error executing query or processing results: %v", err))
		metrics.RunsTotal.WithLabelValues("failed").Inc()
		return err
	}
	log.Info("processing review requests", map[string]interface{}{"count": len(requests)})

	today := r.now()
	for _, req := range requests {
		metrics.RowsProcessed.WithLabelValues("review_request").Inc()
		r.processReviewRequest(ctx, log, req, today)
	}

	outcome := "completed"
	recos, recoErr := r.source.FetchRecommendations(ctx)
	if recoErr != nil {
		log.WithError(recoErr).Error("failed to fetch recommendations", nil)
		r.notifier.AlertAdmin(ctx, fmt.Sprintf("Error executing query or processing results: %v", recoErr))
		outcome = "partial"
	} else {
		log.Info("processing recommendations", map[string]interface{}{"count": len(recos)})
		for _, rec := range recos {
			metrics.RowsProcessed.WithLabelValues("recommendation").Inc()
			r.processRecommendation(ctx, log, rec, today)
		}
	}

	r.checkOverdue(ctx, log)
	metrics.OverdueTracked.Set(float64(r.tracker.Len()))
	metrics.RunsTotal.WithLabelValues(outcome).Inc()

	log.Info("run finished", map[string]interface{}{
		"outcome":        outcome,
		"reviewRequests": len(requests),
		"overdueTracked": r.tracker.Len(),
	})
	return recoErr
}

func (r *Runner) processReviewRequest(ctx context.Context, log logger.Logger, req models.ReviewRequest, today time.Time) {
	result := r.reviewEval.Evaluate(req, today)
	for _, action := range result.Actions {
		// Send failures alert the admin inside the notifier; the row's
		// remaining actions and the rest of the run proceed regardless.
		_ = r.notifier.Send(ctx, action)
	}

	if result.Overdue {
		r.tracker.Record(req.ID, req.CreatorEmail, r.now())
	} else if req.Status != models.StatusUnderReview {
		// A card that left the review state no longer needs recheck
		// reminders.
		r.tracker.Evict(req.ID)
	}
}

func (r *Runner) processRecommendation(ctx context.Context, log logger.Logger, rec models.Recommendation, today time.Time) {
	actions, err := r.recoEval.Evaluate(rec, today)
	if err != nil {
		log.WithError(err).Warn("skipping recommendation", map[string]interface{}{"link": rec.Link})
		return
	}
	for _, action := range actions {
		_ = r.notifier.Send(ctx, action)
	}
}

// checkOverdue reminds about tracked cards whose recheck interval elapsed and
// restamps them so the next reminder waits a full interval again.
func (r *Runner) checkOverdue(ctx context.Context, log logger.Logger) {
	now := r.now()
	for _, due := range r.tracker.Due(now, r.recheckInterval) {
		action := rules.Action{Kind: rules.KindOverdue}
		if due.CreatorEmail != "" {
			action.Recipient = due.CreatorEmail
			action.Message = reviewrequest.OverdueReminderMessage(due.ID, due.CreatorEmail)
		} else {
			action.Recipient = r.reviewEval.FallbackEmail
			action.Message = reviewrequest.OverdueFallbackMessage(due.ID, r.reviewEval.FallbackEmail)
		}

		_ = r.notifier.Send(ctx, action)
		r.tracker.Refresh(due.ID, now)
		log.Info("sent overdue reminder", map[string]interface{}{"cardId": due.ID})
	}
}

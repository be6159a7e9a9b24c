// internal/runner/runner_test.go
package runner

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"escalation-notifier/internal/common/logger"
	"escalation-notifier/internal/models"
	"escalation-notifier/internal/rules"
	"escalation-notifier/internal/rules/recommendation"
	"escalation-notifier/internal/rules/reviewrequest"
	"escalation-notifier/internal/tracker"
)

// ==========================
// Test Helper Functions
// ==========================

const (
	reviewFallback = "poc-regulatory@example.com"
	recoFallback   = "poc-team@example.com"
)

type fakeSource struct {
	requests   []models.ReviewRequest
	recos      []models.Recommendation
	requestErr error
	recoErr    error
}

func (f *fakeSource) FetchReviewRequests(ctx context.Context) ([]models.ReviewRequest, error) {
	return f.requests, f.requestErr
}

func (f *fakeSource) FetchRecommendations(ctx context.Context) ([]models.Recommendation, error) {
	return f.recos, f.recoErr
}

type fakeNotifier struct {
	sent    []rules.Action
	alerts  []string
	failFor map[string]error
}

func newFakeNotifier() *fakeNotifier {
	return &fakeNotifier{failFor: map[string]error{}}
}

func (f *fakeNotifier) Send(ctx context.Context, action rules.Action) error {
	if err, ok := f.failFor[action.Recipient]; ok {
		return err
	}
	f.sent = append(f.sent, action)
	return nil
}

func (f *fakeNotifier) AlertAdmin(ctx context.Context, text string) {
	f.alerts = append(f.alerts, text)
}

func newTestRunner(source *fakeSource, notifier *fakeNotifier, now time.Time) *Runner {
	r := New(source, notifier,
		reviewrequest.NewEvaluator(reviewFallback),
		recommendation.NewEvaluator(recoFallback),
		tracker.New(),
		logger.NewNoOpLogger())
	r.now = func() time.Time { return now }
	return r
}

func underReviewRequest(id string, leadTime int) models.ReviewRequest {
	return models.ReviewRequest{
		ID:           id,
		Status:       models.StatusUnderReview,
		StatusLabel:  models.LabelUnderReview,
		LeadTime:     leadTime,
		Link:         "https://notion.example.com/" + id,
		Title:        "Request " + id,
		CreatorEmail: "alice@example.com",
	}
}

// ==========================
// Run Orchestration Tests
// ==========================

func TestRun_PrimaryPrecedesReviewerReminders(t *testing.T) {
	req := underReviewRequest("REQ-1", 10)
	req.Signoffs = []models.Signoff{
		{Domain: "regulatory", Done: false, ReviewerEmail: "bob@example.com"},
	}
	source := &fakeSource{requests: []models.ReviewRequest{req}}
	notifier := newFakeNotifier()

	r := newTestRunner(source, notifier, time.Date(2024, time.March, 15, 9, 0, 0, 0, time.UTC))
	assert.NoError(t, r.Run(context.Background()))

	assert.Len(t, notifier.sent, 2)
	assert.Equal(t, rules.KindCreator, notifier.sent[0].Kind)
	assert.Equal(t, rules.KindReviewer, notifier.sent[1].Kind)
}

func TestRun_SendFailureDoesNotStopOtherRows(t *testing.T) {
	first := underReviewRequest("REQ-1", 4)
	second := underReviewRequest("REQ-2", 4)
	second.CreatorEmail = "carol@example.com"

	source := &fakeSource{requests: []models.ReviewRequest{first, second}}
	notifier := newFakeNotifier()
	notifier.failFor["alice@example.com"] = errors.New("users_not_found")

	r := newTestRunner(source, notifier, time.Date(2024, time.March, 15, 9, 0, 0, 0, time.UTC))
	assert.NoError(t, r.Run(context.Background()))

	assert.Len(t, notifier.sent, 1)
	assert.Equal(t, "carol@example.com", notifier.sent[0].Recipient)
}

func TestRun_ReviewFetchFailureAbortsAndAlertsAdmin(t *testing.T) {
	source := &fakeSource{requestErr: errors.New("connection reset")}
	notifier := newFakeNotifier()

	r := newTestRunner(source, notifier, time.Date(2024, time.March, 15, 9, 0, 0, 0, time.UTC))
	err := r.Run(context.Background())

	assert.Error(t, err)
	assert.Len(t, notifier.alerts, 1)
	assert.Contains(t, notifier.alerts[0], "connection reset")
	assert.Empty(t, notifier.sent)
}

func TestRun_RecoFetchFailureSkipsOnlyRecommendations(t *testing.T) {
	source := &fakeSource{
		requests: []models.ReviewRequest{underReviewRequest("REQ-1", 4)},
		recoErr:  errors.New("warehouse suspended"),
	}
	notifier := newFakeNotifier()

	r := newTestRunner(source, notifier, time.Date(2024, time.March, 15, 9, 0, 0, 0, time.UTC))
	err := r.Run(context.Background())

	// The failure still surfaces so a one-shot invocation exits non-zero.
	assert.ErrorIs(t, err, source.recoErr)

	// Review requests were processed before the failure was reported.
	assert.Len(t, notifier.sent, 1)
	assert.Len(t, notifier.alerts, 1)
}

func TestRun_ProcessesRecommendations(t *testing.T) {
	eta := time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC)
	source := &fakeSource{
		recos: []models.Recommendation{{
			Link:       "https://notion.example.com/reco-1",
			Condition:  "Encrypt backups",
			OwnerEmail: "owner@example.com",
			InitialETA: &eta,
		}},
	}
	notifier := newFakeNotifier()

	r := newTestRunner(source, notifier, eta)
	assert.NoError(t, r.Run(context.Background()))

	assert.Len(t, notifier.sent, 1)
	assert.Equal(t, rules.KindOwner, notifier.sent[0].Kind)
}

// ==========================
// Overdue Tracking Tests
// ==========================

func TestRun_OverdueRecheckAfterTwoDays(t *testing.T) {
	source := &fakeSource{requests: []models.ReviewRequest{underReviewRequest("REQ-1", 12)}}
	notifier := newFakeNotifier()

	start := time.Date(2024, time.March, 15, 9, 0, 0, 0, time.UTC)
	r := newTestRunner(source, notifier, start)
	assert.NoError(t, r.Run(context.Background()))
	assert.Len(t, notifier.sent, 1) // the day-12 notification only

	// One day later the row has dropped out of the tiers; no reminder yet.
	source.requests[0].LeadTime = 13
	notifier.sent = nil
	r.now = func() time.Time { return start.Add(24 * time.Hour) }
	assert.NoError(t, r.Run(context.Background()))
	assert.Empty(t, notifier.sent)

	// Two days after tracking the recheck reminder fires.
	notifier.sent = nil
	r.now = func() time.Time { return start.Add(48 * time.Hour) }
	assert.NoError(t, r.Run(context.Background()))

	assert.Len(t, notifier.sent, 1)
	reminder := notifier.sent[0]
	assert.Equal(t, rules.KindOverdue, reminder.Kind)
	assert.Equal(t, "alice@example.com", reminder.Recipient)
	assert.Contains(t, reminder.Message, "Your card REQ-1 is still overdue")
	assert.Empty(t, reminder.Link)
}

func TestRun_OverdueRecheckFallsBackWithoutCreator(t *testing.T) {
	req := underReviewRequest("REQ-1", 12)
	req.CreatorEmail = ""
	source := &fakeSource{requests: []models.ReviewRequest{req}}
	notifier := newFakeNotifier()

	start := time.Date(2024, time.March, 15, 9, 0, 0, 0, time.UTC)
	r := newTestRunner(source, notifier, start)
	assert.NoError(t, r.Run(context.Background()))

	source.requests[0].LeadTime = 13
	notifier.sent = nil
	r.now = func() time.Time { return start.Add(48 * time.Hour) }
	assert.NoError(t, r.Run(context.Background()))

	assert.Len(t, notifier.sent, 1)
	assert.Equal(t, reviewFallback, notifier.sent[0].Recipient)
	assert.Contains(t, notifier.sent[0].Message, "Card REQ-1 is still overdue and has no creator")
}

func TestRun_RecheckRefreshesCadence(t *testing.T) {
	source := &fakeSource{requests: []models.ReviewRequest{underReviewRequest("REQ-1", 12)}}
	notifier := newFakeNotifier()

	start := time.Date(2024, time.March, 15, 9, 0, 0, 0, time.UTC)
	r := newTestRunner(source, notifier, start)
	assert.NoError(t, r.Run(context.Background()))

	source.requests[0].LeadTime = 13
	r.now = func() time.Time { return start.Add(48 * time.Hour) }
	assert.NoError(t, r.Run(context.Background()))

	// Immediately after a reminder the card is not due again.
	notifier.sent = nil
	r.now = func() time.Time { return start.Add(72 * time.Hour) }
	assert.NoError(t, r.Run(context.Background()))
	assert.Empty(t, notifier.sent)

	r.now = func() time.Time { return start.Add(96 * time.Hour) }
	assert.NoError(t, r.Run(context.Background()))
	assert.Len(t, notifier.sent, 1)
}

func TestRun_LeavingReviewStateEvictsFromTracker(t *testing.T) {
	source := &fakeSource{requests: []models.ReviewRequest{underReviewRequest("REQ-1", 12)}}
	notifier := newFakeNotifier()

	start := time.Date(2024, time.March, 15, 9, 0, 0, 0, time.UTC)
	r := newTestRunner(source, notifier, start)
	assert.NoError(t, r.Run(context.Background()))

	// The card moves on hold before the recheck interval elapses.
	source.requests[0].Status = models.StatusOnHold
	source.requests[0].StatusLabel = models.LabelOnHold
	notifier.sent = nil
	r.now = func() time.Time { return start.Add(72 * time.Hour) }
	assert.NoError(t, r.Run(context.Background()))

	for _, action := range notifier.sent {
		assert.NotEqual(t, rules.KindOverdue, action.Kind)
	}
}

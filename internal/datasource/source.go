// internal/datasource/source.go
package datasource

import (
	"context"
	"database/sql"
	"fmt"

	apperrors "escalation-notifier/internal/common/errors"
	"escalation-notifier/internal/common/logger"
	"escalation-notifier/internal/models"
)

const (
	slaDateLayout = "2006-01-02"
	etaDateLayout = "02/01/2006"
)

// Source reads the review-request and recommendation export tables and
// normalizes rows into typed models. Malformed rows are logged and skipped
// so that one bad export line never blocks a run.
type Source struct {
	db     *sql.DB
	logger logger.Logger
}

func NewSource(db *sql.DB, log logger.Logger) *Source {
	return &Source{
		db:     db,
		logger: log.WithFields(map[string]interface{}{"component": "datasource"}),
	}
}

// FetchReviewRequests returns every decodable review-request row.
func (s *Source) FetchReviewRequests(ctx context.Context) ([]models.ReviewRequest, error) {
	rows, err := s.db.QueryContext(ctx, reviewRequestQuery)
	if err != nil {
		return nil, apperrors.NewDataSourceFailedError("review_request", err)
	}
	defer rows.Close()

	raw, err := scanRows(rows)
	if err != nil {
		return nil, apperrors.NewDataSourceFailedError("review_request", err)
	}

	requests := make([]models.ReviewRequest, 0, len(raw))
	for _, row := range raw {
		req, err := decodeReviewRequest(row)
		if err != nil {
			s.logger.WithError(err).Warn("skipping malformed review request row", map[string]interface{}{
				"rowId": getString(row, colID),
			})
			continue
		}
		requests = append(requests, req)
	}

	s.logger.Info("fetched review requests", map[string]interface{}{
		"total":   len(raw),
		"decoded": len(requests),
	})
	return requests, nil
}

// FetchRecommendations returns every decodable recommendation row.
func (s *Source) FetchRecommendations(ctx context.Context) ([]models.Recommendation, error) {
	rows, err := s.db.QueryContext(ctx, recommendationQuery)
	if err != nil {
		return nil, apperrors.NewDataSourceFailedError("recommendation", err)
	}
	defer rows.Close()

	raw, err := scanRows(rows)
	if err != nil {
		return nil, apperrors.NewDataSourceFailedError("recommendation", err)
	}

	recos := make([]models.Recommendation, 0, len(raw))
	for _, row := range raw {
		reco, err := decodeRecommendation(row)
		if err != nil {
			s.logger.WithError(err).Warn("skipping malformed recommendation row", map[string]interface{}{
				"link": getString(row, colReco),
			})
			continue
		}
		recos = append(recos, reco)
	}

	s.logger.Info("fetched recommendations", map[string]interface{}{
		"total":   len(raw),
		"decoded": len(recos),
	})
	return recos, nil
}

func decodeReviewRequest(row map[string]interface{}) (models.ReviewRequest, error) {
	id := getString(row, colID)
	if id == "" {
		return models.ReviewRequest{}, apperrors.NewMalformedRowError("review_request", "", "missing ID")
	}

	// A missing lead time matches no notification tier, same as zero.
	leadTime, _ := getInt(row, colLeadTime)

	slaDate, err := getDate(row, colSLAOnHold, slaDateLayout)
	if err != nil {
		return models.ReviewRequest{}, apperrors.NewMalformedRowError("review_request", id, fmt.Sprintf("bad SLA date: %v", err))
	}

	label := getString(row, colStatus)
	req := models.ReviewRequest{
		ID:            id,
		Status:        models.StatusFromLabel(label),
		StatusLabel:   label,
		LeadTime:      leadTime,
		SLAOnHoldDate: slaDate,
		Link:          getString(row, colLink),
		Title:         getString(row, colRequest),
		CreatorEmail:  getString(row, colMail),
	}

	for _, vc := range models.ValidationColumns {
		// A sign-off is outstanding iff its column is empty or absent;
		// any value at all (a name, a date, a checkmark) means done.
		req.Signoffs = append(req.Signoffs, models.Signoff{
			Domain:        vc.Domain,
			Done:          getString(row, vc.StatusColumn) != "",
			ReviewerEmail: getString(row, vc.ReviewerColumn),
		})
	}

	return req, nil
}

func decodeRecommendation(row map[string]interface{}) (models.Recommendation, error) {
	link := getString(row, colReco)

	initial, err := getDate(row, colInitialETA, etaDateLayout)
	if err != nil {
		return models.Recommendation{}, apperrors.NewMalformedRowError("recommendation", link, fmt.Sprintf("bad initial ETA: %v", err))
	}
	postponed, err := getDate(row, colPostponedETA, etaDateLayout)
	if err != nil {
		return models.Recommendation{}, apperrors.NewMalformedRowError("recommendation", link, fmt.Sprintf("bad postponed ETA: %v", err))
	}

	return models.Recommendation{
		Link:         link,
		Condition:    getString(row, colCondition),
		OwnerEmail:   getString(row, colOwnerReco),
		CreatorEmail: getString(row, colCreatorReco),
		InitialETA:   initial,
		PostponedETA: postponed,
	}, nil
}

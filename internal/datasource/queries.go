// internal/datasource/queries.go
package datasource

// Column names in the review-request export table.
const (
	colID        = "ID"
	colStatus    = "STATUS"
	colLeadTime  = "LEAD_TIME"
	colSLAOnHold = "SLA_PUT_ON_HOLD_ON"
	colLink      = "LINK"
	colRequest   = "REQUEST"
	colMail      = "MAIL"
)

// Column names in the recommendation export table.
const (
	colReco         = "RECO"
	colCondition    = "CONDITION"
	colOwnerReco    = "OWNER_RECO"
	colCreatorReco  = "CREATOR_RECO"
	colInitialETA   = "FORMATTED_INITIAL_ETA"
	colPostponedETA = "FORMATTED_ETA_POSTPONED"
)

const reviewRequestQuery = `
SELECT
    ID, STATUS, LEAD_TIME, SLA_PUT_ON_HOLD_ON, LINK, REQUEST, MAIL,
    REGULATORY_FINAL_VALIDATION, REGULATORY_REVIEWER_EMAIL,
    FC_FINAL_VALIDATION, FINANCIAL_CRIME_REVIEWER_EMAIL,
    SECURITY_FINAL_VALIDATION, SECURITY_REVIEWER_EMAIL,
    FINANCE_FINAL_VALIDATION, FINANCE_REVIEWER_EMAIL,
    LEGAL_FINAL_VALIDATION, LEGAL_REVIEWER_EMAIL,
    RISK_FINAL_VALIDATION, RISK_REVIEWER_EMAIL,
    IC_FINAL_VALIDATION, INTERNAL_CONTROL_REVIEWER_EMAIL
FROM
    review_requests`

const recommendationQuery = `
SELECT
    RECO, CONDITION, OWNER_RECO, CREATOR_RECO,
    FORMATTED_INITIAL_ETA, FORMATTED_ETA_POSTPONED
FROM
    recommendations`

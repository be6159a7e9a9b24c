// internal/models/recommendation.go
package models

import "time"

// Recommendation is one normalized row from the recommendation export.
type Recommendation struct {
	Link         string
	Condition    string
	OwnerEmail   string // empty when no owner is assigned
	CreatorEmail string
	InitialETA   *time.Time
	PostponedETA *time.Time
}

// EffectiveETA returns the postponed ETA when one is set, otherwise the
// initial ETA. Nil means the card carries no usable deadline.
func (r Recommendation) EffectiveETA() *time.Time {
	if r.PostponedETA != nil {
		return r.PostponedETA
	}
	return r.InitialETA
}

// Package errors provides standardized error handling for the escalation runs.
package errors

import (
	"fmt"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeMissingCredential ErrorCode = "CONFIG_MISSING_CREDENTIAL"

	ErrCodeDataSourceFailed ErrorCode = "DATA_SOURCE_FAILED"
	ErrCodeMalformedRow     ErrorCode = "MALFORMED_ROW"

	ErrCodeRecipientLookupFailed ErrorCode = "RECIPIENT_LOOKUP_FAILED"
	ErrCodeDeliveryFailed        ErrorCode = "DELIVERY_FAILED"
)

// RunError represents a structured application error.
type RunError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *RunError) Error() string {
	return fmt.Sprintf("RunError[%s]: %s", e.Code, e.Message)
}

// ==========================
// 2. Error Constructors
// ==========================

// NewMissingCredentialError creates a fatal configuration error.
func NewMissingCredentialError(field string) *RunError {
	return &RunError{
		Code:      ErrCodeMissingCredential,
		Message:   "Required credential is not configured",
		Details:   fmt.Sprintf("field: %s", field),
		Timestamp: time.Now().UTC(),
	}
}

// NewDataSourceFailedError creates an error that aborts the current run.
func NewDataSourceFailedError(itemType string, err error) *RunError {
	return &RunError{
		Code:      ErrCodeDataSourceFailed,
		Message:   "Data source query failed",
		Details:   fmt.Sprintf("itemType: %s, error: %s", itemType, err.Error()),
		Timestamp: time.Now().UTC(),
	}
}

// NewMalformedRowError creates an error scoped to a single skipped row.
func NewMalformedRowError(itemType, rowID, reason string) *RunError {
	return &RunError{
		Code:      ErrCodeMalformedRow,
		Message:   "Row could not be decoded",
		Details:   fmt.Sprintf("itemType: %s, rowId: %s, reason: %s", itemType, rowID, reason),
		Timestamp: time.Now().UTC(),
	}
}

// NewRecipientLookupFailedError creates an error for an unresolvable recipient.
func NewRecipientLookupFailedError(email string, err error) *RunError {
	return &RunError{
		Code:      ErrCodeRecipientLookupFailed,
		Message:   "Recipient could not be resolved",
		Details:   fmt.Sprintf("email: %s, error: %s", email, err.Error()),
		Timestamp: time.Now().UTC(),
	}
}

// NewDeliveryFailedError creates an error for a failed message delivery.
func NewDeliveryFailedError(recipient string, err error) *RunError {
	return &RunError{
		Code:      ErrCodeDeliveryFailed,
		Message:   "Notification delivery failed",
		Details:   fmt.Sprintf("recipient: %s, error: %s", recipient, err.Error()),
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 3. Utility Functions
// ==========================

// CodeOf extracts the ErrorCode from an error, or empty when it is not a RunError.
func CodeOf(err error) ErrorCode {
	if re, ok := err.(*RunError); ok {
		return re.Code
	}
	return ""
}

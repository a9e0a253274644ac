// Package vision sends normalized laptop images to the external reasoning
// service and validates its replies into structured condition assessments.
package vision

import "errors"

// Domain errors for model invocation and response validation.
var (
	ErrInvocationFailed  = errors.New("vision service request failed")
	ErrResponseMalformed = errors.New("vision service reply is not valid JSON")
	ErrResponseInvalid   = errors.New("vision service reply failed validation")
)

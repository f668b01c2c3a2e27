package service

import "errors"

// ErrInvalidCredentials is returned for both an unknown email and a wrong
// password so a caller cannot probe which accounts exist.
var ErrInvalidCredentials = errors.New("invalid email or password")

// ValidationError reports malformed or missing input. MissingFields is
// populated by onboarding so the response can name exactly what was left
// out.
type ValidationError struct {
	Message       string
	MissingFields []string
}

func (e *ValidationError) Error() string { return e.Message }

// Package errs provides the error types the node's handlers use to report
// expected failures with an HTTP status.
package errs

import "errors"

// Response is the body returned to clients when a request fails.
type Response struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

// Trusted is an expected failure whose message is safe to return to the
// client with the carried status.
type Trusted struct {
	Err    error
	Status int
}

// NewTrusted wraps a provided error with an HTTP status code.
func NewTrusted(err error, status int) error {
	return &Trusted{err, status}
}

// Classify wraps the error with the status when match recognizes it, for
// example state.IsRejection for refused transactions. Any other error is
// returned unchanged and ends up as an internal error. A nil error stays nil.
func Classify(err error, status int, match func(error) bool) error {
	if err == nil || !match(err) {
		return err
	}
	return &Trusted{err, status}
}

// Error implements the error interface.
func (te *Trusted) Error() string {
	return te.Err.Error()
}

// Unwrap gives errors.Is access to the ledger error being reported.
func (te *Trusted) Unwrap() error {
	return te.Err
}

// IsTrusted checks if a Trusted error exists in the chain.
func IsTrusted(err error) bool {
	var te *Trusted
	return errors.As(err, &te)
}

// GetTrusted returns the Trusted error from the chain, or nil.
func GetTrusted(err error) *Trusted {
	var te *Trusted
	if !errors.As(err, &te) {
		return nil
	}
	return te
}

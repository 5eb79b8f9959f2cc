package integration

import "errors"

var (
	// ErrInvalidTimestamp indicates an upstream timestamp that could not be
	// normalized into a parseable form.
	ErrInvalidTimestamp = errors.New("integration: invalid timestamp")
	// ErrEmptyTimestamp indicates an absent timestamp field.
	ErrEmptyTimestamp = errors.New("integration: empty timestamp")

	// ErrRequestFailed indicates a transport-level failure against a remote
	// system. Call sites downgrade it to "no data" or a failed write.
	ErrRequestFailed = errors.New("integration: remote request failed")
	// ErrInvalidResponse indicates an unparseable remote response body.
	ErrInvalidResponse = errors.New("integration: invalid remote response")
	// ErrOrderNotFound indicates the remote system does not know the
	// referenced sales order.
	ErrOrderNotFound = errors.New("integration: sales order not found")
)

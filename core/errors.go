package core

import "errors"

var (
	// ErrModemUnresponsive is returned when the readiness probe exhausts a
	// bounded retry policy without an OK from the modem
	ErrModemUnresponsive = errors.New("modem unresponsive")

	// ErrSensorUnavailable is returned at boot when the optical sensor does
	// not answer its identity probe. The controller cannot continue.
	ErrSensorUnavailable = errors.New("optical sensor unavailable")

	// ErrNoModemPort is returned when a controller is built without a modem port
	ErrNoModemPort = errors.New("modem port not configured")

	// ErrBatteryUnavailable is returned when the battery query exhausts its retries
	ErrBatteryUnavailable = errors.New("battery status unavailable")

	// ErrBusy is returned when a trigger arrives while an emergency is being handled
	ErrBusy = errors.New("emergency already in progress")
)

// causeError attaches the underlying cause to one of the sentinels above so
// that errors.Is matches both
type causeError struct {
	sentinel error
	cause    error
}

func (e *causeError) Error() string {
	return e.sentinel.Error() + ": " + e.cause.Error()
}

func (e *causeError) Unwrap() []error {
	return []error{e.sentinel, e.cause}
}

func withCause(sentinel, cause error) error {
	if cause == nil {
		return sentinel
	}
	return &causeError{sentinel: sentinel, cause: cause}
}

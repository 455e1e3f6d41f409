package supervisor

import "errors"

// Failure classes of one session lifecycle. All of them are handled
// inside the supervisor loop: they end up in the cache's error field and
// steer the state machine, never escaping to the caller.
var (
	ErrSessionConstruction = errors.New("browser session could not be created")
	ErrAuthentication      = errors.New("portal authentication failed")
	ErrCaptureEmpty        = errors.New("capture produced no records")
	ErrRefresh             = errors.New("page refresh failed")
	ErrTransport           = errors.New("portal session transport failure")
)

// failureClass maps a failure to its metrics label.
func failureClass(err error) string {
	switch {
	case errors.Is(err, ErrSessionConstruction):
		return "session_construction"
	case errors.Is(err, ErrAuthentication):
		return "authentication"
	case errors.Is(err, ErrCaptureEmpty):
		return "capture_empty"
	case errors.Is(err, ErrRefresh):
		return "refresh"
	default:
		// ErrTransport and anything unclassified from the driver.
		return "transport"
	}
}

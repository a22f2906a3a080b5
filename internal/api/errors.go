package api

// Fallback messages used when the server gives none.
const (
	MsgUnreachable   = "could not reach the server"
	MsgUnparsable    = "could not interpret the server response"
	MsgRequestFailed = "request failed"
)

// Error is returned by every Client call that fails. Message is always
// suitable for showing to a user.
type Error struct {
	Status  int    // HTTP status; 0 when no response arrived
	Code    string // envelope error code, e.g. "HTTP_404"
	Message string
	Err     error
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Err }

package model

import "time"

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Envelope wraps every API response. Status is "success" exactly when Data
// is non-nil and Error is nil.
type Envelope[T any] struct {
	Status   string     `json:"status"`
	Data     *T         `json:"data"`
	Error    *ErrorBody `json:"error"`
	Metadata Metadata   `json:"metadata"`
}

type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

type Metadata struct {
	Timestamp string `json:"timestamp"`
}

// OK reports whether the envelope satisfies the success invariant.
func (e Envelope[T]) OK() bool {
	return e.Status == StatusSuccess && e.Data != nil && e.Error == nil
}

// Success wraps data in a success envelope stamped with now.
func Success[T any](data T, now time.Time) Envelope[T] {
	return Envelope[T]{
		Status:   StatusSuccess,
		Data:     &data,
		Metadata: Metadata{Timestamp: now.UTC().Format(time.RFC3339Nano)},
	}
}

// Failure builds an error envelope stamped with now.
func Failure(code, message string, details any, now time.Time) Envelope[struct{}] {
	return Envelope[struct{}]{
		Status:   StatusError,
		Error:    &ErrorBody{Code: code, Message: message, Details: details},
		Metadata: Metadata{Timestamp: now.UTC().Format(time.RFC3339Nano)},
	}
}

// Payload shapes carried in Envelope.Data.
type (
	TodoList struct {
		Items []Todo `json:"items"`
	}
	TodoItem struct {
		Item Todo `json:"item"`
	}
	Deleted struct {
		DeletedID int64 `json:"deleted_id"`
	}
)

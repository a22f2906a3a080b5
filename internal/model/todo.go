package model

import (
	"errors"
	"strings"
	"unicode/utf8"
)

// MaxTitleLength is the longest title the remote store accepts, in runes.
const MaxTitleLength = 200

var (
	ErrEmptyTitle     = errors.New("title cannot be empty")
	ErrTitleTooLong   = errors.New("title cannot be longer than 200 characters")
	ErrEmptyTodoPatch = errors.New("nothing to update")
)

// Todo is the domain model for a todo entry. The remote store owns it;
// clients only ever hold a read copy.
type Todo struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	IsCompleted bool      `json:"is_completed"`
	CreatedAt   Timestamp `json:"created_at"`
	UpdatedAt   Timestamp `json:"updated_at"`
}

// TodoPatch is a partial update. Nil fields are left out of the request body.
type TodoPatch struct {
	Title       *string `json:"title,omitempty"`
	IsCompleted *bool   `json:"is_completed,omitempty"`
}

// Empty reports whether the patch changes nothing.
func (p TodoPatch) Empty() bool { return p.Title == nil && p.IsCompleted == nil }

// RenameTo builds a patch that only changes the title.
func RenameTo(title string) TodoPatch { return TodoPatch{Title: &title} }

// CompleteAs builds a patch that only changes the completion flag.
func CompleteAs(done bool) TodoPatch { return TodoPatch{IsCompleted: &done} }

// NormalizeTitle trims s and checks it against the store's title rules.
func NormalizeTitle(s string) (string, error) {
	title := strings.TrimSpace(s)
	if title == "" {
		return "", ErrEmptyTitle
	}
	if utf8.RuneCountInString(title) > MaxTitleLength {
		return "", ErrTitleTooLong
	}
	return title, nil
}

// Stats counts completed and pending todos.
func Stats(todos []Todo) (done, pending int) {
	for _, t := range todos {
		if t.IsCompleted {
			done++
		} else {
			pending++
		}
	}
	return
}

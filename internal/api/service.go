package api

import (
	"context"

	"github.com/Makepad-fr/tada/internal/model"
)

// Service is the set of remote todo operations. *Client implements it;
// tests substitute fakes.
type Service interface {
	FetchTodos(ctx context.Context) ([]model.Todo, error)
	CreateTodo(ctx context.Context, title string) (model.Todo, error)
	UpdateTodo(ctx context.Context, id int64, patch model.TodoPatch) (model.Todo, error)
	DeleteTodo(ctx context.Context, id int64) (int64, error)
}

var _ Service = (*Client)(nil)

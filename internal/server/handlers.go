package server

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Makepad-fr/tada/internal/model"
)

const (
	codeValidation = "VALIDATION_ERROR"
	msgValidation  = "input validation failed"
)

type createRequest struct {
	Title *string `json:"title"`
}

// fieldError mirrors one entry of the validation details list.
type fieldError struct {
	Loc []string `json:"loc"`
	Msg string   `json:"msg"`
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, model.Success(gin.H{"ok": true}, s.now()))
}

func (s *Server) listTodos(c *gin.Context) {
	c.JSON(http.StatusOK, model.Success(model.TodoList{Items: s.store.List()}, s.now()))
}

func (s *Server) createTodo(c *gin.Context) {
	var req createRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.invalid(c, fieldError{Loc: []string{"body"}, Msg: err.Error()})
		return
	}
	if req.Title == nil {
		s.invalid(c, fieldError{Loc: []string{"body", "title"}, Msg: "field required"})
		return
	}

	t, err := s.store.Create(*req.Title)
	if err != nil {
		s.invalid(c, fieldError{Loc: []string{"body", "title"}, Msg: err.Error()})
		return
	}
	c.JSON(http.StatusCreated, model.Success(model.TodoItem{Item: t}, s.now()))
}

func (s *Server) updateTodo(c *gin.Context) {
	id, ok := s.pathID(c)
	if !ok {
		return
	}
	var patch model.TodoPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		s.invalid(c, fieldError{Loc: []string{"body"}, Msg: err.Error()})
		return
	}

	t, err := s.store.Update(id, patch)
	switch {
	case errors.Is(err, ErrNotFound):
		s.fail(c, http.StatusNotFound, err.Error())
	case errors.Is(err, model.ErrEmptyTodoPatch):
		s.invalid(c, fieldError{Loc: []string{"body"}, Msg: err.Error()})
	case err != nil:
		s.invalid(c, fieldError{Loc: []string{"body", "title"}, Msg: err.Error()})
	default:
		c.JSON(http.StatusOK, model.Success(model.TodoItem{Item: t}, s.now()))
	}
}

func (s *Server) deleteTodo(c *gin.Context) {
	id, ok := s.pathID(c)
	if !ok {
		return
	}
	if err := s.store.Delete(id); err != nil {
		s.fail(c, http.StatusNotFound, err.Error())
		return
	}
	c.JSON(http.StatusOK, model.Success(model.Deleted{DeletedID: id}, s.now()))
}

func (s *Server) pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		s.invalid(c, fieldError{Loc: []string{"path", "id"}, Msg: "value is not a valid integer"})
		return 0, false
	}
	return id, true
}

// fail answers with an HTTP_<status> error envelope.
func (s *Server) fail(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, model.Failure(fmt.Sprintf("HTTP_%d", status), message, nil, s.now()))
}

func (s *Server) invalid(c *gin.Context, details ...fieldError) {
	c.AbortWithStatusJSON(http.StatusUnprocessableEntity, model.Failure(codeValidation, msgValidation, details, s.now()))
}

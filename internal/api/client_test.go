package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/Makepad-fr/tada/internal/model"
	"github.com/Makepad-fr/tada/internal/server"
)

// recorded is one request as the fake server saw it.
type recorded struct {
	Method, Path, ContentType, RequestID, Body string
}

type fakeServer struct {
	mu       sync.Mutex
	requests []recorded
	status   int
	body     string
}

func (f *fakeServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b, _ := io.ReadAll(r.Body)
	f.mu.Lock()
	f.requests = append(f.requests, recorded{
		Method:      r.Method,
		Path:        r.URL.Path,
		ContentType: r.Header.Get("Content-Type"),
		RequestID:   r.Header.Get("X-Request-ID"),
		Body:        string(b),
	})
	f.mu.Unlock()
	w.WriteHeader(f.status)
	io.WriteString(w, f.body)
}

func newFake(t *testing.T, status int, body string) (*Client, *fakeServer) {
	t.Helper()
	f := &fakeServer{status: status, body: body}
	ts := httptest.NewServer(f)
	t.Cleanup(ts.Close)
	c, err := New(ts.URL + "/api/v1/")
	if err != nil {
		t.Fatal(err)
	}
	return c, f
}

const okItem = `{"status":"success","data":{"item":{"id":7,"title":"Buy milk","is_completed":false,
"created_at":"2024-05-01T10:00:00.123456","updated_at":"2024-05-01T10:00:00.123456"}},
"error":null,"metadata":{"timestamp":"2024-05-01T10:00:00Z"}}`

func TestRequestsCarryHeadersAndPaths(t *testing.T) {
	tests := []struct {
		name     string
		call     func(c *Client) error
		method   string
		path     string
		wantBody string
		body     string
	}{
		{
			name:   "fetch",
			call:   func(c *Client) error { _, err := c.FetchTodos(context.Background()); return err },
			method: http.MethodGet, path: "/api/v1/todos",
			body: `{"status":"success","data":{"items":[]},"error":null,"metadata":{"timestamp":"x"}}`,
		},
		{
			name:   "create",
			call:   func(c *Client) error { _, err := c.CreateTodo(context.Background(), "Buy milk"); return err },
			method: http.MethodPost, path: "/api/v1/todos", wantBody: `{"title":"Buy milk"}`,
			body: okItem,
		},
		{
			name:   "update",
			call:   func(c *Client) error { _, err := c.UpdateTodo(context.Background(), 7, model.CompleteAs(true)); return err },
			method: http.MethodPatch, path: "/api/v1/todos/7", wantBody: `{"is_completed":true}`,
			body: okItem,
		},
		{
			name:   "delete",
			call:   func(c *Client) error { _, err := c.DeleteTodo(context.Background(), 7); return err },
			method: http.MethodDelete, path: "/api/v1/todos/7",
			body: `{"status":"success","data":{"deleted_id":7},"error":null,"metadata":{"timestamp":"x"}}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, f := newFake(t, http.StatusOK, tt.body)
			if err := tt.call(c); err != nil {
				t.Fatalf("call: %v", err)
			}
			if len(f.requests) != 1 {
				t.Fatalf("requests: got %d, want 1", len(f.requests))
			}
			got := f.requests[0]
			if got.Method != tt.method || got.Path != tt.path {
				t.Errorf("request: got %s %s, want %s %s", got.Method, got.Path, tt.method, tt.path)
			}
			if got.ContentType != "application/json" {
				t.Errorf("Content-Type: got %q", got.ContentType)
			}
			if _, err := uuid.Parse(got.RequestID); err != nil {
				t.Errorf("X-Request-ID %q: %v", got.RequestID, err)
			}
			if got.Body != tt.wantBody {
				t.Errorf("body: got %q, want %q", got.Body, tt.wantBody)
			}
		})
	}
}

func TestCreateDecodesNaiveTimestamps(t *testing.T) {
	c, _ := newFake(t, http.StatusCreated, okItem)
	todo, err := c.CreateTodo(context.Background(), "Buy milk")
	if err != nil {
		t.Fatal(err)
	}
	if todo.ID != 7 || todo.Title != "Buy milk" {
		t.Errorf("todo: got %+v", todo)
	}
	want := time.Date(2024, 5, 1, 10, 0, 0, 123456000, time.UTC)
	if !todo.CreatedAt.Equal(want) {
		t.Errorf("CreatedAt: got %v, want %v", todo.CreatedAt.Time, want)
	}
}

func TestFailures(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantMsg    string
		wantCode   string
		wantStatus int
	}{
		{
			name:   "envelope error message",
			status: http.StatusNotFound,
			body: `{"status":"error","data":null,"error":{"code":"HTTP_404","message":"todo not found"},
"metadata":{"timestamp":"x"}}`,
			wantMsg: "todo not found", wantCode: "HTTP_404", wantStatus: 404,
		},
		{
			name:    "non-2xx without message",
			status:  http.StatusInternalServerError,
			body:    `{"status":"error","data":null,"error":null,"metadata":{"timestamp":"x"}}`,
			wantMsg: MsgRequestFailed, wantStatus: 500,
		},
		{
			name:    "2xx but status error",
			status:  http.StatusOK,
			body:    `{"status":"error","data":null,"error":{"code":"ERR","message":"nope"},"metadata":{"timestamp":"x"}}`,
			wantMsg: "nope", wantCode: "ERR", wantStatus: 200,
		},
		{
			name:    "2xx success with null data",
			status:  http.StatusOK,
			body:    `{"status":"success","data":null,"error":null,"metadata":{"timestamp":"x"}}`,
			wantMsg: MsgRequestFailed, wantStatus: 200,
		},
		{
			name:    "html body",
			status:  http.StatusBadGateway,
			body:    `<html>bad gateway</html>`,
			wantMsg: MsgUnparsable, wantStatus: 502,
		},
		{
			name:    "truncated json",
			status:  http.StatusOK,
			body:    `{"status":"success","data":{"items":[`,
			wantMsg: MsgUnparsable, wantStatus: 200,
		},
		{
			name:    "trailing garbage",
			status:  http.StatusOK,
			body:    `{"status":"success","data":{"items":[]},"error":null} extra`,
			wantMsg: MsgUnparsable, wantStatus: 200,
		},
		{
			name:    "not an envelope",
			status:  http.StatusOK,
			body:    `{"items":[]}`,
			wantMsg: MsgUnparsable, wantStatus: 200,
		},
		{
			name:    "unknown status value",
			status:  http.StatusOK,
			body:    `{"status":"maybe","data":{"items":[]}}`,
			wantMsg: MsgUnparsable, wantStatus: 200,
		},
		{
			name:    "payload shape mismatch",
			status:  http.StatusOK,
			body:    `{"status":"success","data":{"items":"lots"},"error":null,"metadata":{"timestamp":"x"}}`,
			wantMsg: MsgUnparsable, wantStatus: 200,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newFake(t, tt.status, tt.body)
			items, err := c.FetchTodos(context.Background())
			if err == nil {
				t.Fatalf("expected error, got items %v", items)
			}
			var apiErr *Error
			if !errors.As(err, &apiErr) {
				t.Fatalf("error type: got %T", err)
			}
			if err.Error() != tt.wantMsg {
				t.Errorf("message: got %q, want %q", err.Error(), tt.wantMsg)
			}
			if apiErr.Code != tt.wantCode {
				t.Errorf("code: got %q, want %q", apiErr.Code, tt.wantCode)
			}
			if apiErr.Status != tt.wantStatus {
				t.Errorf("status: got %d, want %d", apiErr.Status, tt.wantStatus)
			}
		})
	}
}

func TestTransportFailure(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	url := ts.URL
	ts.Close()

	c, err := New(url)
	if err != nil {
		t.Fatal(err)
	}
	_, err = c.FetchTodos(context.Background())
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("error type: got %T (%v)", err, err)
	}
	if apiErr.Message != MsgUnreachable || apiErr.Status != 0 || apiErr.Err == nil {
		t.Errorf("error: got %+v", apiErr)
	}
}

func TestNoRetry(t *testing.T) {
	c, f := newFake(t, http.StatusServiceUnavailable, `{"status":"error","data":null,"error":{"code":"HTTP_503","message":"busy"}}`)
	if _, err := c.DeleteTodo(context.Background(), 1); err == nil {
		t.Fatal("expected error")
	}
	if len(f.requests) != 1 {
		t.Errorf("requests: got %d, want exactly 1", len(f.requests))
	}
}

func TestTimeoutAppliesInAnyOptionOrder(t *testing.T) {
	for _, before := range []bool{true, false} {
		own := &http.Client{}
		opts := []Option{WithHTTPClient(own), WithTimeout(3 * time.Second)}
		if before {
			opts = []Option{WithTimeout(3 * time.Second), WithHTTPClient(own)}
		}
		c, err := New("http://localhost:8000/api/v1", opts...)
		if err != nil {
			t.Fatal(err)
		}
		if c.http.Timeout != 3*time.Second {
			t.Errorf("timeout first=%v: got %v, want 3s", before, c.http.Timeout)
		}
		if own.Timeout != 0 {
			t.Errorf("timeout first=%v: caller's client was modified (%v)", before, own.Timeout)
		}
	}
}

func TestTimeoutCutsSlowResponses(t *testing.T) {
	release := make(chan struct{})
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	t.Cleanup(ts.Close)
	t.Cleanup(func() { close(release) })

	c, err := New(ts.URL, WithTimeout(50*time.Millisecond), WithHTTPClient(&http.Client{}))
	if err != nil {
		t.Fatal(err)
	}
	_, err = c.FetchTodos(context.Background())
	var apiErr *Error
	if !errors.As(err, &apiErr) || apiErr.Message != MsgUnreachable {
		t.Errorf("error: got %v, want %q", err, MsgUnreachable)
	}
}

func TestNewRejectsRelativeURL(t *testing.T) {
	for _, u := range []string{"", "/api/v1", "localhost"} {
		if _, err := New(u); err == nil {
			t.Errorf("New(%q): expected error", u)
		}
	}
}

func TestAgainstReferenceServer(t *testing.T) {
	ts := httptest.NewServer(server.New(server.NewStore(nil), nil).Handler())
	t.Cleanup(ts.Close)
	c, err := New(ts.URL+"/api/v1", WithTimeout(5*time.Second))
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	first, err := c.CreateTodo(ctx, "first")
	if err != nil {
		t.Fatal(err)
	}
	second, err := c.CreateTodo(ctx, "second")
	if err != nil {
		t.Fatal(err)
	}

	items, err := c.FetchTodos(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 2 || items[0].ID != second.ID {
		t.Fatalf("list: got %+v, want newest first", items)
	}

	renamed, err := c.UpdateTodo(ctx, first.ID, model.RenameTo("first, renamed"))
	if err != nil {
		t.Fatal(err)
	}
	if renamed.Title != "first, renamed" || renamed.IsCompleted {
		t.Errorf("renamed: got %+v", renamed)
	}

	if _, err := c.CreateTodo(ctx, "   "); err == nil || !strings.Contains(err.Error(), "validation") {
		t.Errorf("blank create: got %v", err)
	}

	id, err := c.DeleteTodo(ctx, first.ID)
	if err != nil || id != first.ID {
		t.Fatalf("delete: got %d, %v", id, err)
	}
	if _, err := c.DeleteTodo(ctx, first.ID); err == nil || err.Error() != "todo not found" {
		t.Errorf("second delete: got %v", err)
	}
}

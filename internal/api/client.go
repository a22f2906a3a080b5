// Package api talks to the remote todo store over its JSON envelope API.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/Makepad-fr/tada/internal/model"
)

const defaultUserAgent = "tada"

// Client issues the four todo operations against a base URL such as
// http://localhost:8000/api/v1. It never retries.
type Client struct {
	baseURL   string
	http      *http.Client
	log       *log.Logger
	userAgent string
	timeout   time.Duration
	envelope  *jsonschema.Schema
}

// Option customizes a Client.
type Option func(*Client)

func WithHTTPClient(h *http.Client) Option { return func(c *Client) { c.http = h } }

// WithTimeout bounds each request. It applies on top of any client passed
// to WithHTTPClient, whatever the option order.
func WithTimeout(d time.Duration) Option { return func(c *Client) { c.timeout = d } }

func WithLogger(l *log.Logger) Option { return func(c *Client) { c.log = l } }

func WithUserAgent(ua string) Option { return func(c *Client) { c.userAgent = ua } }

// New returns a client for baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("base url must be absolute: %q", baseURL)
	}

	schema, err := compileEnvelopeSchema()
	if err != nil {
		return nil, fmt.Errorf("compile envelope schema: %w", err)
	}

	c := &Client{
		baseURL:   baseURL,
		http:      &http.Client{},
		log:       log.New(io.Discard),
		userAgent: defaultUserAgent,
		envelope:  schema,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.timeout > 0 {
		hc := *c.http
		hc.Timeout = c.timeout
		c.http = &hc
	}
	return c, nil
}

// BaseURL returns the normalized base URL.
func (c *Client) BaseURL() string { return c.baseURL }

// FetchTodos returns every todo, in the order the server lists them.
func (c *Client) FetchTodos(ctx context.Context) ([]model.Todo, error) {
	data, err := request[model.TodoList](ctx, c, http.MethodGet, "/todos", nil)
	if err != nil {
		return nil, err
	}
	return data.Items, nil
}

// CreateTodo creates a todo and returns it as stored.
func (c *Client) CreateTodo(ctx context.Context, title string) (model.Todo, error) {
	data, err := request[model.TodoItem](ctx, c, http.MethodPost, "/todos", map[string]string{"title": title})
	if err != nil {
		return model.Todo{}, err
	}
	return data.Item, nil
}

// UpdateTodo sends only the fields set in patch.
func (c *Client) UpdateTodo(ctx context.Context, id int64, patch model.TodoPatch) (model.Todo, error) {
	data, err := request[model.TodoItem](ctx, c, http.MethodPatch, todoPath(id), patch)
	if err != nil {
		return model.Todo{}, err
	}
	return data.Item, nil
}

// DeleteTodo deletes a todo and returns the id the server reports deleted.
func (c *Client) DeleteTodo(ctx context.Context, id int64) (int64, error) {
	data, err := request[model.Deleted](ctx, c, http.MethodDelete, todoPath(id), nil)
	if err != nil {
		return 0, err
	}
	return data.DeletedID, nil
}

func todoPath(id int64) string { return "/todos/" + strconv.FormatInt(id, 10) }

// request sends one call and decodes its envelope into T.
func request[T any](ctx context.Context, c *Client, method, path string, body any) (T, error) {
	var zero T

	reqBody := io.Reader(http.NoBody)
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return zero, &Error{Message: MsgRequestFailed, Err: fmt.Errorf("encode body: %w", err)}
		}
		reqBody = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return zero, &Error{Message: MsgRequestFailed, Err: err}
	}
	requestID := uuid.NewString()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-ID", requestID)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn("request failed", "method", method, "path", path, "request_id", requestID, "err", err)
		return zero, &Error{Message: MsgUnreachable, Err: err}
	}
	defer resp.Body.Close()

	out, err := decode[T](resp, c.envelope)
	latency := time.Since(start)
	if err != nil {
		c.log.Warn("request rejected", "method", method, "path", path, "status", resp.StatusCode,
			"latency", latency, "request_id", requestID, "err", err)
		return zero, err
	}
	c.log.Debug("request", "method", method, "path", path, "status", resp.StatusCode,
		"latency", latency, "request_id", requestID)
	return out, nil
}

// decode reads an envelope and returns its payload, or an *Error carrying
// the server's message (or a fallback).
func decode[T any](resp *http.Response, schema *jsonschema.Schema) (T, error) {
	var zero T

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return zero, &Error{Status: resp.StatusCode, Message: MsgUnparsable, Err: fmt.Errorf("read body: %w", err)}
	}
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return zero, &Error{Status: resp.StatusCode, Message: MsgUnparsable, Err: fmt.Errorf("parse body: %w", err)}
	}
	if err := schema.Validate(doc); err != nil {
		return zero, &Error{Status: resp.StatusCode, Message: MsgUnparsable, Err: fmt.Errorf("envelope: %w", err)}
	}

	var env model.Envelope[T]
	if err := json.Unmarshal(raw, &env); err != nil {
		// The payload did not match T. Still surface a server message if
		// there is one.
		var bare model.Envelope[json.RawMessage]
		if json.Unmarshal(raw, &bare) == nil && bare.Error != nil && bare.Error.Message != "" {
			return zero, &Error{Status: resp.StatusCode, Code: bare.Error.Code, Message: bare.Error.Message, Err: err}
		}
		return zero, &Error{Status: resp.StatusCode, Message: MsgUnparsable, Err: fmt.Errorf("decode payload: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 || !env.OK() {
		e := &Error{Status: resp.StatusCode, Message: MsgRequestFailed}
		if env.Error != nil {
			e.Code = env.Error.Code
			if env.Error.Message != "" {
				e.Message = env.Error.Message
			}
		}
		return zero, e
	}
	return *env.Data, nil
}

// Package rest implements service.Service against the taskdeck REST API.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"taskdeck/internal/logging"
	"taskdeck/internal/service"
)

// Client implements service.Service over HTTP/JSON.
// Calls are not retried and carry no timeout of their own; cancel ctx to
// abandon one.
type Client struct {
	baseURL *url.URL
	http    *http.Client
	logger  *log.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the HTTP client used for requests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithLogger sets the logger for request tracing.
func WithLogger(l *log.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// New creates a client for the service at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, errors.New("base URL is required")
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid base URL %q: scheme must be http or https", baseURL)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("invalid base URL %q: missing host", baseURL)
	}
	u.Path = strings.TrimSuffix(u.Path, "/")

	c := &Client{
		baseURL: u,
		http:    http.DefaultClient,
		logger:  logging.Discard(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the service root.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// ListTasks returns every task in server order.
func (c *Client) ListTasks(ctx context.Context) ([]service.Task, error) {
	var wire []taskJSON
	if _, err := c.do(ctx, "list tasks", http.MethodGet, "/tasks", nil, taskListSchema, &wire); err != nil {
		return nil, err
	}
	return toTasks(wire), nil
}

// CreateTask persists d and returns the server's record.
func (c *Client) CreateTask(ctx context.Context, d service.Draft) (service.Task, error) {
	var wire taskJSON
	if _, err := c.do(ctx, "create task", http.MethodPost, "/tasks/new", draftPayload(d), taskSchema, &wire); err != nil {
		return service.Task{}, err
	}
	return wire.toTask(), nil
}

// UpdateTask sends the full record t and returns the server's record.
// t must carry a committed identifier.
func (c *Client) UpdateTask(ctx context.Context, t service.Task) (service.Task, error) {
	const op = "update task"
	id, ok := t.ID.ServerID()
	if !ok {
		return service.Task{}, &service.TransportError{
			Op:  op,
			Err: fmt.Errorf("task %s has no server identifier", t.ID),
		}
	}
	var wire taskJSON
	path := "/tasks/update/" + strconv.FormatInt(id, 10)
	if _, err := c.do(ctx, op, http.MethodPut, path, updatePayload(t), taskSchema, &wire); err != nil {
		return service.Task{}, err
	}
	return wire.toTask(), nil
}

// DeleteTask removes the task with the given id.
func (c *Client) DeleteTask(ctx context.Context, id int64) (service.DeleteResult, error) {
	return c.delete(ctx, "delete task", "/tasks/delete/"+strconv.FormatInt(id, 10))
}

// ListCategories returns every category.
func (c *Client) ListCategories(ctx context.Context) ([]service.Category, error) {
	var wire []categoryJSON
	if _, err := c.do(ctx, "list categories", http.MethodGet, "/categories", nil, categoryListSchema, &wire); err != nil {
		return nil, err
	}
	out := make([]service.Category, len(wire))
	for i, w := range wire {
		out[i] = w.toCategory()
	}
	return out, nil
}

// CreateCategory creates a category with the given name.
func (c *Client) CreateCategory(ctx context.Context, name string) (service.Category, error) {
	var wire categoryJSON
	if _, err := c.do(ctx, "create category", http.MethodPost, "/categories/new", categoryPayload{Name: name}, categorySchema, &wire); err != nil {
		return service.Category{}, err
	}
	return wire.toCategory(), nil
}

// DeleteCategory removes the category with the given id.
func (c *Client) DeleteCategory(ctx context.Context, id int64) (service.DeleteResult, error) {
	return c.delete(ctx, "delete category", "/categories/delete/"+strconv.FormatInt(id, 10))
}

// ListCategoryTasks returns the tasks assigned to a category.
func (c *Client) ListCategoryTasks(ctx context.Context, categoryID int64) ([]service.Task, error) {
	var wire []taskJSON
	path := "/categories/" + strconv.FormatInt(categoryID, 10) + "/tasks"
	if _, err := c.do(ctx, "list category tasks", http.MethodGet, path, nil, taskListSchema, &wire); err != nil {
		return nil, err
	}
	return toTasks(wire), nil
}

func (c *Client) delete(ctx context.Context, op, path string) (service.DeleteResult, error) {
	body, err := c.do(ctx, op, http.MethodDelete, path, nil, nil, nil)
	if err != nil {
		return service.DeleteResult{}, err
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return service.DeleteResult{}, nil
	}
	if err := validate(messageSchema, body); err != nil {
		return service.DeleteResult{}, &service.TransportError{Op: op, Err: err}
	}
	var msg errorBody
	if err := json.Unmarshal(body, &msg); err == nil && msg.Message != "" {
		return service.DeleteResult{Message: msg.Message}, nil
	}
	var s string
	if err := json.Unmarshal(body, &s); err == nil {
		return service.DeleteResult{Message: s}, nil
	}
	return service.DeleteResult{Message: strings.TrimSpace(string(body))}, nil
}

// do performs one request. A non-2xx status, a network failure and a body
// that fails schema or decoding are all reported as *service.TransportError.
// When out is nil the raw body is returned undecoded.
func (c *Client) do(ctx context.Context, op, method, path string, in any, schema *jsonschema.Schema, out any) ([]byte, error) {
	var reqBody io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return nil, &service.TransportError{Op: op, Err: err}
		}
		reqBody = bytes.NewReader(data)
	}

	u := *c.baseURL
	u.Path += path
	req, err := http.NewRequestWithContext(ctx, method, u.String(), reqBody)
	if err != nil {
		return nil, &service.TransportError{Op: op, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.logger.Debug("request", "op", op, "method", method, "url", u.String())
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &service.TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &service.TransportError{Op: op, Status: resp.StatusCode, Err: err}
	}
	c.logger.Debug("response", "op", op, "status", resp.StatusCode, "bytes", len(body))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &service.TransportError{
			Op:      op,
			Status:  resp.StatusCode,
			Reason:  reason(resp),
			Message: errorMessage(body),
		}
	}

	if out == nil {
		return body, nil
	}
	if schema != nil {
		if err := validate(schema, body); err != nil {
			return nil, &service.TransportError{Op: op, Status: resp.StatusCode, Err: err}
		}
	}
	if err := json.Unmarshal(body, out); err != nil {
		return nil, &service.TransportError{Op: op, Status: resp.StatusCode, Err: err}
	}
	return body, nil
}

func toTasks(wire []taskJSON) []service.Task {
	out := make([]service.Task, len(wire))
	for i, w := range wire {
		out[i] = w.toTask()
	}
	return out
}

// reason returns the status text the server sent, falling back to the
// standard text for the code.
func reason(resp *http.Response) string {
	text := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if text == "" {
		return http.StatusText(resp.StatusCode)
	}
	return text
}

// errorMessage extracts {"error": "..."} from a failure body.
func errorMessage(body []byte) string {
	var e errorBody
	if err := json.Unmarshal(body, &e); err != nil {
		return ""
	}
	return e.Error
}

var _ service.Service = (*Client)(nil)

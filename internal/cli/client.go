package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"strings"
	"time"

	"intentos/internal/core"
	"intentos/internal/engine"
	"intentos/internal/theme"
	"intentos/internal/views"
)

// SessionCookie must match the server's session cookie name.
const SessionCookie = "intentos_session"

// APIError is a non-2xx answer from the server.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server returned %d %s", e.Status, http.StatusText(e.Status))
	}
	return fmt.Sprintf("server returned %d: %s", e.Status, e.Message)
}

// IsStatus reports whether err is an APIError with the given status.
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == status
}

type (
	// Summary is the aggregate view of a session's ledger.
	Summary struct {
		Categories []core.CategoryAmount `json:"categories"`
		Shares     []views.Share         `json:"shares"`
		Total      core.Money            `json:"total"`
		Count      int                   `json:"count"`
	}

	// ThemeState is the server's view of the session theme.
	ThemeState struct {
		Mode  theme.Mode   `json:"mode"`
		Flags []theme.Flag `json:"flags"`
		Dark  bool         `json:"dark"`
		Modes []theme.Mode `json:"modes"`
	}
)

// Client talks to an intentos server. The session cookie lives in a cookie
// jar so consecutive calls share one session.
type Client struct {
	base *url.URL
	http *http.Client
}

// NewClient returns a client for the server at baseURL, resuming sessionID
// when it is not empty.
func NewClient(baseURL, sessionID string, timeout time.Duration) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid server url %q", baseURL)
	}
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	if sessionID != "" {
		jar.SetCookies(u, []*http.Cookie{{Name: SessionCookie, Value: sessionID, Path: "/"}})
	}
	return &Client{
		base: u,
		http: &http.Client{Jar: jar, Timeout: timeout},
	}, nil
}

// SessionID returns the session the server currently associates with this
// client, or "" before the first request.
func (c *Client) SessionID() string {
	for _, ck := range c.http.Jar.Cookies(c.base) {
		if ck.Name == SessionCookie {
			return ck.Value
		}
	}
	return ""
}

func (c *Client) do(ctx context.Context, method, path string, body any, out any) error {
	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		rdr = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base.String()+path, rdr)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode >= 300 {
		apiErr := &APIError{Status: resp.StatusCode}
		var envelope struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(data, &envelope) == nil {
			apiErr.Message = envelope.Error
		}
		return apiErr
	}
	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// AddExpense creates an expense. amount is a decimal string.
func (c *Client) AddExpense(ctx context.Context, description, amount, category string) (core.Expense, error) {
	var e core.Expense
	err := c.do(ctx, http.MethodPost, "/api/expenses", map[string]string{
		"description": description,
		"amount":      amount,
		"category":    category,
	}, &e)
	return e, err
}

// ListExpenses returns up to limit expenses, optionally of one category.
func (c *Client) ListExpenses(ctx context.Context, category string, limit int) ([]core.Expense, error) {
	q := url.Values{}
	if category != "" {
		q.Set("category", category)
	}
	q.Set("limit", strconv.Itoa(limit))

	var out []core.Expense
	err := c.do(ctx, http.MethodGet, "/api/expenses?"+q.Encode(), nil, &out)
	return out, err
}

// RemoveExpense deletes an expense. Unknown ids are not an error.
func (c *Client) RemoveExpense(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/expenses/"+url.PathEscape(id), nil, nil)
}

// Summary returns the per-category totals.
func (c *Client) Summary(ctx context.Context) (Summary, error) {
	var s Summary
	err := c.do(ctx, http.MethodGet, "/api/expenses/summary", nil, &s)
	return s, err
}

// Theme returns the current theme.
func (c *Client) Theme(ctx context.Context) (ThemeState, error) {
	var t ThemeState
	err := c.do(ctx, http.MethodGet, "/api/theme", nil, &t)
	return t, err
}

// SetTheme switches the session theme.
func (c *Client) SetTheme(ctx context.Context, mode string) (ThemeState, error) {
	var t ThemeState
	err := c.do(ctx, http.MethodPut, "/api/theme", map[string]string{"mode": mode}, &t)
	return t, err
}

// Ask sends a natural-language request to the decision engine.
func (c *Client) Ask(ctx context.Context, message string) ([]engine.Result, error) {
	var out struct {
		Results []engine.Result `json:"results"`
	}
	err := c.do(ctx, http.MethodPost, "/api/intent", map[string]string{"message": message}, &out)
	return out.Results, err
}

// EndSession discards the session and its expenses on the server.
func (c *Client) EndSession(ctx context.Context) error {
	return c.do(ctx, http.MethodDelete, "/api/session", nil, nil)
}

// Package http provides HTTP server and handler implementations.
//
// This file implements utilities for parsing and validating HTTP request data.
// Bodies may be JSON objects or form-encoded; handlers read fields through
// RequestBodyParser without caring which one the client sent.

package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"intentos/internal/core"
	"intentos/internal/views"
)

// maxBodyBytes caps request bodies read by the parser.
const maxBodyBytes = 1 << 20

var (
	// ErrMalformedBody marks bodies that are neither a JSON object nor form data.
	ErrMalformedBody = errors.New("malformed request body")
	// ErrInvalidLimit marks a limit query parameter that is not an integer.
	ErrInvalidLimit = errors.New("limit must be an integer")
)

// RequestBodyParser handles different content types for request body parsing.
type RequestBodyParser struct {
	body        []byte
	contentType string
	jsonData    map[string]any
	formData    url.Values
	parsed      bool
	err         error
}

// NewRequestBodyParser creates a parser for the given request.
// It reads the body once and stores it for subsequent parsing.
func NewRequestBodyParser(r *http.Request) *RequestBodyParser {
	p := &RequestBodyParser{
		contentType: r.Header.Get("Content-Type"),
	}
	if r.Body == nil {
		return p
	}

	p.body, p.err = io.ReadAll(io.LimitReader(r.Body, maxBodyBytes+1))
	if p.err == nil && len(p.body) > maxBodyBytes {
		p.err = fmt.Errorf("body exceeds %d bytes", maxBodyBytes)
	}
	return p
}

// Parse attempts to parse the body as a JSON object or form data.
func (p *RequestBodyParser) Parse() error {
	if p.parsed {
		return p.err
	}
	p.parsed = true

	if p.err != nil {
		p.err = fmt.Errorf("%w: %w", ErrMalformedBody, p.err)
		return p.err
	}

	body := bytes.TrimSpace(p.body)
	if len(body) == 0 {
		p.formData = url.Values{}
		return nil
	}

	if body[0] == '{' || strings.HasPrefix(p.contentType, "application/json") {
		p.jsonData = make(map[string]any)
		if err := json.Unmarshal(body, &p.jsonData); err != nil {
			p.jsonData = nil
			p.err = fmt.Errorf("%w: %w", ErrMalformedBody, err)
		}
		return p.err
	}

	if strings.HasPrefix(p.contentType, "multipart/form-data") {
		p.err = p.parseMultipart()
		return p.err
	}

	p.formData, p.err = url.ParseQuery(string(body))
	if p.err != nil {
		p.err = fmt.Errorf("%w: %w", ErrMalformedBody, p.err)
	}
	return p.err
}

// parseMultipart handles FormData posts from the browser.
func (p *RequestBodyParser) parseMultipart() error {
	req, err := http.NewRequest(http.MethodPost, "/", bytes.NewReader(p.body))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrMalformedBody, err)
	}
	req.Header.Set("Content-Type", p.contentType)
	if err := req.ParseMultipartForm(maxBodyBytes); err != nil {
		return fmt.Errorf("%w: %w", ErrMalformedBody, err)
	}
	p.formData = url.Values(req.MultipartForm.Value)
	return nil
}

// Get returns a string value from the parsed data (JSON or form).
func (p *RequestBodyParser) Get(key string) string {
	if p.jsonData != nil {
		if val, ok := p.jsonData[key]; ok {
			return sanitizeInput(stringValue(val))
		}
		return ""
	}
	if p.formData != nil {
		return sanitizeInput(p.formData.Get(key))
	}
	return ""
}

// Values returns the body as a props map. JSON values keep their types,
// form values become strings.
func (p *RequestBodyParser) Values() map[string]any {
	out := make(map[string]any)
	if p.jsonData != nil {
		for k, v := range p.jsonData {
			out[k] = v
		}
		return out
	}
	for k := range p.formData {
		out[k] = sanitizeInput(p.formData.Get(k))
	}
	return out
}

// IsJSON returns true if the parsed content was JSON.
func (p *RequestBodyParser) IsJSON() bool {
	return p.jsonData != nil
}

// stringValue converts a decoded JSON value to string.
func stringValue(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case bool:
		return strconv.FormatBool(val)
	default:
		return ""
	}
}

// ExpenseInput is the decoded body of a create-expense request.
type ExpenseInput struct {
	Description string
	Amount      core.Money
	Category    string
}

// ParseExpenseInput reads description, amount and category from a JSON or
// form body. A malformed body wraps ErrMalformedBody; a bad amount wraps
// core.ErrInvalidExpense.
func ParseExpenseInput(r *http.Request) (ExpenseInput, error) {
	p := NewRequestBodyParser(r)
	if err := p.Parse(); err != nil {
		return ExpenseInput{}, err
	}

	amount, err := core.ParseAmount(p.Get("amount"))
	if err != nil {
		return ExpenseInput{}, fmt.Errorf("%w: %w", core.ErrInvalidExpense, err)
	}

	return ExpenseInput{
		Description: p.Get("description"),
		Amount:      amount,
		Category:    p.Get("category"),
	}, nil
}

// ParseProps decodes a component or tool invocation body into a props map.
func ParseProps(r *http.Request) (map[string]any, error) {
	p := NewRequestBodyParser(r)
	if err := p.Parse(); err != nil {
		return nil, err
	}
	return p.Values(), nil
}

// ParseLimit reads the limit query parameter, defaulting to
// views.DefaultLimit when absent.
func ParseLimit(q url.Values) (int, error) {
	raw := strings.TrimSpace(q.Get("limit"))
	if raw == "" {
		return views.DefaultLimit, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, ErrInvalidLimit
	}
	return n, nil
}

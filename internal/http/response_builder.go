// Package http provides HTTP server and handler implementations.
//
// This file implements the Builder Pattern for JSON responses. Every API
// handler writes through it so that status codes, headers and the
// {"error": "..."} envelope stay consistent.

package http

import (
	"encoding/json"
	"net/http"
)

// ResponseBuilder provides a fluent API for building JSON responses.
type ResponseBuilder struct {
	statusCode int
	headers    map[string]string
	value      any
	hasValue   bool
}

// NewResponse creates a new response builder with default 200 status.
func NewResponse() *ResponseBuilder {
	return &ResponseBuilder{
		statusCode: http.StatusOK,
		headers:    make(map[string]string),
	}
}

// Status sets the HTTP status code for the response.
func (b *ResponseBuilder) Status(code int) *ResponseBuilder {
	b.statusCode = code
	return b
}

// Header adds a custom header to the response.
func (b *ResponseBuilder) Header(name, value string) *ResponseBuilder {
	b.headers[name] = value
	return b
}

// JSON sets the value encoded as the response body.
func (b *ResponseBuilder) JSON(v any) *ResponseBuilder {
	b.value = v
	b.hasValue = true
	return b
}

// Write sends the built response to the http.ResponseWriter. An encoding
// failure turns into a plain 500.
func (b *ResponseBuilder) Write(w http.ResponseWriter) {
	for name, value := range b.headers {
		w.Header().Set(name, value)
	}

	if !b.hasValue {
		w.WriteHeader(b.statusCode)
		return
	}

	body, err := json.Marshal(b.value)
	if err != nil {
		logger.Error("Failed to encode response", "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(b.statusCode)
	_, _ = w.Write(append(body, '\n'))
}

// errorBody is the JSON envelope for failures.
type errorBody struct {
	Error string `json:"error"`
}

// ErrorResponse creates a standard JSON error response.
func ErrorResponse(statusCode int, message string) *ResponseBuilder {
	return NewResponse().Status(statusCode).JSON(errorBody{Error: message})
}

// BadRequestError creates a 400 Bad Request error response.
func BadRequestError(message string) *ResponseBuilder {
	return ErrorResponse(http.StatusBadRequest, message)
}

// UnprocessableEntityError creates a 422 Unprocessable Entity error response.
func UnprocessableEntityError(message string) *ResponseBuilder {
	return ErrorResponse(http.StatusUnprocessableEntity, message)
}

// InternalServerError creates a 500 Internal Server Error response.
func InternalServerError(message string) *ResponseBuilder {
	return ErrorResponse(http.StatusInternalServerError, message)
}

// NotFoundError creates a 404 Not Found error response.
func NotFoundError(message string) *ResponseBuilder {
	return ErrorResponse(http.StatusNotFound, message)
}

// GoneError creates a 410 Gone error response.
func GoneError(message string) *ResponseBuilder {
	return ErrorResponse(http.StatusGone, message)
}

// ServiceUnavailableError creates a 503 Service Unavailable error response.
func ServiceUnavailableError(message string) *ResponseBuilder {
	return ErrorResponse(http.StatusServiceUnavailable, message)
}

// TooManyRequestsError creates a 429 response with a retry hint.
func TooManyRequestsError() *ResponseBuilder {
	return ErrorResponse(http.StatusTooManyRequests, "rate limit exceeded").
		Header("Retry-After", "60")
}

// MethodNotAllowedError creates a 405 Method Not Allowed error response.
func MethodNotAllowedError(allowedMethods string) *ResponseBuilder {
	return ErrorResponse(http.StatusMethodNotAllowed, "method not allowed").
		Header("Allow", allowedMethods)
}

// Package engine talks to the external UI decision engine and executes the
// directives it returns.
package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"

	applog "intentos/internal/log"
	"intentos/internal/registry"
)

// Directive kinds.
const (
	KindComponent = registry.KindComponent
	KindTool      = registry.KindTool
)

// Conversation roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

const maxResponseBytes = 1 << 20

var (
	ErrNotConfigured = errors.New("decision engine not configured")
	ErrBadResponse   = errors.New("bad decision engine response")
)

var logger = applog.WithComponent(applog.ComponentEngine)

type (
	// Message is one conversation turn.
	Message struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	}

	// Request is what the engine needs to decide: the conversation so far,
	// ending with the latest user message.
	Request struct {
		SessionID string    `json:"session_id,omitempty"`
		Messages  []Message `json:"messages"`
	}

	// Directive asks for one component to be rendered or one tool to be
	// called.
	Directive struct {
		Kind  string         `json:"kind"`
		Name  string         `json:"name"`
		Props map[string]any `json:"props,omitempty"`
	}
)

// Decider turns a conversation into directives.
type Decider interface {
	Decide(ctx context.Context, req Request) ([]Directive, error)
}

// Config holds client configuration
type Config struct {
	URL     string
	APIKey  string
	Timeout time.Duration
}

// Client is the HTTP JSON client for the hosted engine.
type Client struct {
	url     string
	http    *http.Client
	catalog []registry.Entry
}

type wireRequest struct {
	System   string           `json:"system"`
	Catalog  []registry.Entry `json:"catalog"`
	Session  string           `json:"session_id,omitempty"`
	Messages []Message        `json:"messages"`
}

type wireResponse struct {
	Directives []Directive `json:"directives"`
}

// NewClient returns a client posting to cfg.URL. A non-empty APIKey is sent
// as a bearer token.
func NewClient(cfg Config, catalog []registry.Entry) (*Client, error) {
	if strings.TrimSpace(cfg.URL) == "" {
		return nil, ErrNotConfigured
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}

	var transport http.RoundTripper = http.DefaultTransport
	if cfg.APIKey != "" {
		transport = &oauth2.Transport{
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.APIKey, TokenType: "Bearer"}),
			Base:   http.DefaultTransport,
		}
	}

	return &Client{
		url:     cfg.URL,
		http:    &http.Client{Timeout: cfg.Timeout, Transport: transport},
		catalog: catalog,
	}, nil
}

// Decide implements Decider
func (c *Client) Decide(ctx context.Context, req Request) ([]Directive, error) {
	body, err := json.Marshal(wireRequest{
		System:   SystemPrompt,
		Catalog:  c.catalog,
		Session:  req.SessionID,
		Messages: req.Messages,
	})
	if err != nil {
		return nil, fmt.Errorf("encode engine request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build engine request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("call decision engine: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read engine response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: status %d: %s", ErrBadResponse, resp.StatusCode, truncate(string(data), 200))
	}

	var out wireResponse
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadResponse, err)
	}

	logger.InfoContext(ctx, "Engine decided",
		applog.FieldSessionID, req.SessionID,
		"directives", len(out.Directives),
		applog.FieldDuration, time.Since(start).Milliseconds())
	if out.Directives == nil {
		out.Directives = []Directive{}
	}
	return out.Directives, nil
}

func truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

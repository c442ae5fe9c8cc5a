package http

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"intentos/internal/engine"
	"intentos/internal/ledger"
	applog "intentos/internal/log"
	"intentos/internal/population"
	"intentos/internal/registry"
	"intentos/internal/session"
)

type intentResponse struct {
	Results []engine.Result `json:"results"`
}

func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	NewResponse().JSON(s.registry.Catalog()).Write(w)
}

func (s *Server) handleInvokeComponent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	props, err := ParseProps(r)
	if err != nil {
		BadRequestError("invalid request body").Write(w)
		return
	}

	rendered, err := s.registry.Components.Invoke(ctx, chi.URLParam(r, "name"), props)
	if err != nil {
		writeInvokeError(w, r, err)
		return
	}
	NewResponse().JSON(rendered).Write(w)
}

func (s *Server) handleInvokeTool(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	props, err := ParseProps(r)
	if err != nil {
		BadRequestError("invalid request body").Write(w)
		return
	}

	out, err := s.registry.Tools.Invoke(ctx, chi.URLParam(r, "name"), props)
	if err != nil {
		writeInvokeError(w, r, err)
		return
	}
	NewResponse().JSON(map[string]any{"output": out}).Write(w)
}

// writeInvokeError maps registry failures to status codes.
func writeInvokeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, registry.ErrUnknownComponent), errors.Is(err, registry.ErrUnknownTool):
		NotFoundError(err.Error()).Write(w)
	case errors.Is(err, registry.ErrInvalidProps), errors.Is(err, population.ErrInvalidQuery):
		UnprocessableEntityError(err.Error()).Write(w)
	case errors.Is(err, ledger.ErrSessionEnded):
		GoneError(err.Error()).Write(w)
	default:
		ctx := r.Context()
		applog.FromContext(ctx).ErrorContext(ctx, "Invocation failed",
			applog.FieldOperation, applog.OpInvoke,
			applog.FieldError, err)
		InternalServerError("invocation failed").Write(w)
	}
}

// handleIntent forwards the conversation to the decision engine and runs
// the directives it returns.
func (s *Server) handleIntent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess := session.MustFromContext(ctx, "intent")
	reqLogger := applog.FromContext(ctx)

	if s.decider == nil {
		ServiceUnavailableError(engine.ErrNotConfigured.Error()).Write(w)
		return
	}

	p := NewRequestBodyParser(r)
	if err := p.Parse(); err != nil {
		BadRequestError("invalid request body").Write(w)
		return
	}
	message := p.Get("message")
	if message == "" {
		UnprocessableEntityError("message is required").Write(w)
		return
	}

	history := sess.History()
	messages := make([]engine.Message, 0, len(history)+1)
	for _, t := range history {
		messages = append(messages, engine.Message{Role: t.Role, Content: t.Content})
	}
	messages = append(messages, engine.Message{Role: engine.RoleUser, Content: message})
	sess.Remember(engine.RoleUser, message)

	directives, err := s.decider.Decide(ctx, engine.Request{SessionID: sess.ID, Messages: messages})
	if err != nil {
		reqLogger.ErrorContext(ctx, "Decision engine failed",
			applog.FieldOperation, applog.OpDecide,
			applog.FieldError, err)
		ErrorResponse(http.StatusBadGateway, "decision engine unavailable").Write(w)
		return
	}

	results := s.dispatcher.Dispatch(ctx, directives)
	sess.Remember(engine.RoleAssistant, engine.Summary(results))

	reqLogger.InfoContext(ctx, "Intent handled",
		applog.FieldOperation, applog.OpDecide,
		"directives", len(directives))
	NewResponse().JSON(intentResponse{Results: results}).Write(w)
}

package http

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"intentos/internal/core"
	"intentos/internal/ledger"
	applog "intentos/internal/log"
	"intentos/internal/session"
	"intentos/internal/views"
)

type summaryResponse struct {
	Categories []core.CategoryAmount `json:"categories"`
	Shares     []views.Share         `json:"shares"`
	Total      core.Money            `json:"total"`
	Count      int                   `json:"count"`
}

func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess := session.MustFromContext(ctx, "list expenses")

	limit, err := ParseLimit(r.URL.Query())
	if err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}

	records, err := sess.Ledger().List(ctx)
	if err != nil {
		applog.FromContext(ctx).ErrorContext(ctx, "Failed to list expenses",
			applog.FieldOperation, applog.OpList,
			applog.FieldError, err)
		InternalServerError("could not list expenses").Write(w)
		return
	}

	filter := sanitizeInput(r.URL.Query().Get("category"))
	NewResponse().JSON(views.List(records, filter, limit)).Write(w)
}

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess := session.MustFromContext(ctx, "create expense")
	reqLogger := applog.FromContext(ctx)

	in, err := ParseExpenseInput(r)
	if err != nil {
		if errors.Is(err, ErrMalformedBody) {
			BadRequestError("invalid request body").Write(w)
			return
		}
		UnprocessableEntityError(err.Error()).Write(w)
		return
	}

	e, err := sess.Ledger().Add(ctx, in.Description, in.Amount, in.Category)
	if err != nil {
		if errors.Is(err, core.ErrInvalidExpense) {
			reqLogger.InfoContext(ctx, "Expense rejected", applog.FieldError, err)
			UnprocessableEntityError(err.Error()).Write(w)
			return
		}
		if errors.Is(err, ledger.ErrSessionEnded) {
			GoneError(err.Error()).Write(w)
			return
		}
		reqLogger.ErrorContext(ctx, "Failed to add expense",
			applog.FieldOperation, applog.OpCreate,
			applog.FieldError, err)
		InternalServerError("could not save expense").Write(w)
		return
	}

	reqLogger.InfoContext(ctx, "Expense created",
		applog.NewFields().
			WithOperation(applog.OpCreate).
			WithExpense(e.ID, e.Amount.Cents, e.Category).
			ToSlice()...)
	NewResponse().Status(http.StatusCreated).JSON(e).Write(w)
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess := session.MustFromContext(ctx, "delete expense")

	id := sanitizeInput(chi.URLParam(r, "id"))
	if err := sess.Ledger().Remove(ctx, id); err != nil {
		if errors.Is(err, ledger.ErrSessionEnded) {
			GoneError(err.Error()).Write(w)
			return
		}
		applog.FromContext(ctx).ErrorContext(ctx, "Failed to remove expense",
			applog.FieldOperation, applog.OpDelete,
			applog.FieldExpenseID, id,
			applog.FieldError, err)
		InternalServerError("could not remove expense").Write(w)
		return
	}
	NewResponse().Status(http.StatusNoContent).Write(w)
}

func (s *Server) handleExpenseSummary(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess := session.MustFromContext(ctx, "expense summary")

	records, err := sess.Ledger().List(ctx)
	if err != nil {
		applog.FromContext(ctx).ErrorContext(ctx, "Failed to list expenses",
			applog.FieldOperation, applog.OpList,
			applog.FieldError, err)
		InternalServerError("could not list expenses").Write(w)
		return
	}

	amounts := views.Aggregate(records)
	NewResponse().JSON(summaryResponse{
		Categories: amounts,
		Shares:     views.Shares(amounts),
		Total:      views.Total(records),
		Count:      len(records),
	}).Write(w)
}

package http

import (
	"errors"
	"net/http"

	"intentos/internal/ledger"
	applog "intentos/internal/log"
	"intentos/internal/session"
	"intentos/internal/theme"
)

type themeResponse struct {
	Mode  theme.Mode   `json:"mode"`
	Flags []theme.Flag `json:"flags"`
	Dark  bool         `json:"dark"`
	Modes []theme.Mode `json:"modes"`
}

func newThemeResponse(st *theme.State) themeResponse {
	return themeResponse{
		Mode:  st.Mode(),
		Flags: st.Flags(),
		Dark:  st.DarkLayer(),
		Modes: theme.Modes(),
	}
}

func (s *Server) handleGetTheme(w http.ResponseWriter, r *http.Request) {
	sess := session.MustFromContext(r.Context(), "get theme")
	NewResponse().JSON(newThemeResponse(sess.Theme())).Write(w)
}

func (s *Server) handleSetTheme(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess := session.MustFromContext(ctx, "set theme")

	p := NewRequestBodyParser(r)
	if err := p.Parse(); err != nil {
		BadRequestError("invalid request body").Write(w)
		return
	}

	mode, err := theme.ParseMode(p.Get("mode"))
	if err != nil {
		UnprocessableEntityError(err.Error()).Write(w)
		return
	}
	if err := sess.SetTheme(ctx, mode); err != nil {
		if errors.Is(err, theme.ErrUnknownMode) {
			UnprocessableEntityError(err.Error()).Write(w)
			return
		}
		if errors.Is(err, ledger.ErrSessionEnded) {
			GoneError(err.Error()).Write(w)
			return
		}
		applog.FromContext(ctx).ErrorContext(ctx, "Failed to set theme", applog.FieldError, err)
		InternalServerError("could not set theme").Write(w)
		return
	}

	applog.FromContext(ctx).InfoContext(ctx, "Theme changed", applog.FieldTheme, mode.String())
	NewResponse().JSON(newThemeResponse(sess.Theme())).Write(w)
}

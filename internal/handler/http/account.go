package http

import (
	"log/slog"
	"net/http"

	"github.com/utafrali/storefront/internal/domain"
	"github.com/utafrali/storefront/internal/session"
	apperrors "github.com/utafrali/storefront/pkg/errors"
	"github.com/utafrali/storefront/pkg/httputil"
	"github.com/utafrali/storefront/pkg/logger"
	"github.com/utafrali/storefront/pkg/validator"
)

// AccountHandler handles the mock sign-in and session teardown.
type AccountHandler struct {
	sessions *session.Manager
	logger   *slog.Logger
}

// NewAccountHandler creates a new account HTTP handler.
func NewAccountHandler(sessions *session.Manager, logger *slog.Logger) *AccountHandler {
	return &AccountHandler{sessions: sessions, logger: logger}
}

// Login handles POST /api/v1/auth/login
func (h *AccountHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req domain.LoginInput
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	user, err := storefrontFrom(r).Auth.Login(r.Context(), req)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, user)
}

// Logout handles POST /api/v1/auth/logout
func (h *AccountHandler) Logout(w http.ResponseWriter, r *http.Request) {
	storefrontFrom(r).Auth.Logout(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

// Me handles GET /api/v1/auth/me
func (h *AccountHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := storefrontFrom(r).Auth.CurrentUser()
	if !ok {
		httputil.WriteError(w, r, apperrors.Unauthorized("not signed in"), h.logger)
		return
	}
	httputil.WriteData(w, user)
}

// DeleteSession handles DELETE /api/v1/session. It drops the visitor's
// in-memory state and everything saved for it.
func (h *AccountHandler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Purge(r.Context(), logger.SessionIDFromContext(r.Context())); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

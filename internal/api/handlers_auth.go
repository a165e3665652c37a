// Vodarchive - Stream VOD and Clip Archive Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vodarchive

package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/tomtom215/vodarchive/internal/auth"
	"github.com/tomtom215/vodarchive/internal/logging"
	"github.com/tomtom215/vodarchive/internal/models"
)

// Login handles POST /api/v1/auth/login. The token is returned in the body
// and also set as an HTTP-only cookie for browser clients.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	if h.editor == nil || !h.editor.Enabled() {
		respondError(w, http.StatusServiceUnavailable, "EDITOR_DISABLED", "Editor access is not configured", nil)
		return
	}

	var req models.LoginRequest
	if !decodeBody(w, r, &req, false) {
		return
	}

	token, expiresAt, err := h.editor.Login(req.Password)
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		logging.Ctx(r.Context()).Warn().Str("remote_addr", sanitizeLogValue(r.RemoteAddr)).Msg("Editor login rejected")
		respondError(w, http.StatusUnauthorized, "AUTHENTICATION_ERROR", "Invalid password", nil)
		return
	case errors.Is(err, auth.ErrEditorDisabled):
		respondError(w, http.StatusServiceUnavailable, "EDITOR_DISABLED", "Editor access is not configured", nil)
		return
	case err != nil:
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to issue session token", err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     "token",
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteStrictMode,
	})

	logging.Ctx(r.Context()).Info().Time("expires_at", expiresAt).Msg("Editor logged in")
	respondSuccess(w, http.StatusOK, models.LoginResponse{Token: token, ExpiresAt: expiresAt}, start)
}

package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/neurolock/neurolock/internal/neurolock/service"
	"github.com/neurolock/neurolock/pkg/httpx"
	"github.com/neurolock/neurolock/pkg/jwtx"
	"github.com/neurolock/neurolock/pkg/neurosdk"
	"github.com/neurolock/neurolock/pkg/slogx"
)

// SessionsHandler handles the password factor and session introspection.
type SessionsHandler struct {
	EmployeeService *service.EmployeeService
	SessionService  *service.SessionService
}

// HandleLogin handles POST /v1/login
//
//	@Summary		Password login
//	@Description	Verifies the badge id and password and mints a pending session. The session only becomes authenticated after the liveness challenge.
//	@Tags			Sessions
//	@Accept			json
//	@Produce		json
//	@Param			request	body		neurosdk.LoginRequest	true	"Credentials"
//	@Success		200		{object}	neurosdk.LoginResponse	"Pending session"
//	@Failure		400		{object}	neurosdk.ErrorResponse	"Invalid request body"
//	@Failure		401		{object}	neurosdk.ErrorResponse	"Invalid credentials"
//	@Failure		500		{object}	neurosdk.ErrorResponse	"Internal server error"
//	@Router			/v1/login [post].
func (h *SessionsHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req neurosdk.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}
	if req.EmpID == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "emp_id and password are required")
		return
	}

	emp, err := h.EmployeeService.Authenticate(ctx, req.EmpID, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			log.Warn("login rejected", "emp_id", req.EmpID)
			writeError(w, http.StatusUnauthorized, "invalid_credentials", "Badge id or password incorrect")
			return
		}
		log.Error("login failed", "err", err)
		writeError(w, http.StatusInternalServerError, "server_error", "Login failed")
		return
	}

	token, claims, err := h.SessionService.MintPending(emp.EmpID)
	if err != nil {
		log.Error("failed to mint session", "err", err)
		writeError(w, http.StatusInternalServerError, "server_error", "Login failed")
		return
	}

	log.Info("pending session minted", "emp_id", emp.EmpID, "sid", claims.SID)
	httpx.SetSessionCookie(w, token, int(time.Until(claims.ExpiresAt.Time).Seconds()))
	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, neurosdk.LoginResponse{
		EmpID: emp.EmpID,
		Stage: claims.Stage,
		Token: token,
	})
}

// HandleLogout handles POST /v1/logout
//
//	@Summary		Logout
//	@Description	Clears the session cookie. The token itself simply expires; the server keeps no session state.
//	@Tags			Sessions
//	@Produce		json
//	@Success		204	"Cookie cleared"
//	@Router			/v1/logout [post].
func (h *SessionsHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	httpx.ClearSessionCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

// HandleSession handles GET /v1/session
//
//	@Summary		Inspect the current session
//	@Description	Reports the stage and authentication methods of the caller's session.
//	@Tags			Sessions
//	@Security		SessionAuth
//	@Produce		json
//	@Success		200	{object}	neurosdk.SessionResponse	"Session state"
//	@Failure		401	{object}	neurosdk.ErrorResponse		"Invalid or missing session"
//	@Router			/v1/session [get].
func (h *SessionsHandler) HandleSession(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	claims, ok := ctx.Value(httpx.CtxKeyClaims).(jwtx.Claims)
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_session", "No session in request")
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, neurosdk.SessionResponse{
		EmpID:         claims.EmpID,
		Stage:         claims.Stage,
		Authenticated: claims.Authenticated(),
		AMR:           claims.AMR,
	})
}

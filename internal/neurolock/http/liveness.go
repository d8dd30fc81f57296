package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/neurolock/neurolock/internal/neurolock/service"
	"github.com/neurolock/neurolock/pkg/httpx"
	"github.com/neurolock/neurolock/pkg/jwtx"
	"github.com/neurolock/neurolock/pkg/neurosdk"
	"github.com/neurolock/neurolock/pkg/slogx"
)

// LivenessHandler issues challenges and judges verification submissions.
type LivenessHandler struct {
	ChallengeService *service.ChallengeService
	SessionService   *service.SessionService
	MFAService       *service.MFAService
	AuditService     *service.AuditService
}

// HandleChallenge handles GET /v1/liveness/challenge
//
//	@Summary		Issue a liveness challenge
//	@Description	Draws a random challenge from the catalog and mints a single-use nonce for it. The nonce expires after ttl seconds plus a small grace window.
//	@Tags			Liveness
//	@Security		SessionAuth
//	@Produce		json
//	@Success		200	{object}	neurosdk.ChallengeResponse	"Challenge to perform"
//	@Failure		401	{object}	neurosdk.ErrorResponse		"Invalid or missing session"
//	@Failure		500	{object}	neurosdk.ErrorResponse		"Internal server error"
//	@Router			/v1/liveness/challenge [get].
func (h *LivenessHandler) HandleChallenge(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	rec, err := h.ChallengeService.IssueChallenge(ctx)
	if err != nil {
		log.Error("failed to issue challenge", "err", err)
		writeError(w, http.StatusInternalServerError, "server_error", "Could not issue challenge")
		return
	}

	log.Info("challenge issued",
		"emp_id", httpx.EmpIDFromCtx(ctx),
		"challenge", rec.Type.Wire(),
	)
	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, neurosdk.ChallengeResponse{
		Nonce:     rec.Nonce,
		Challenge: rec.Type.Wire(),
		Label:     rec.Type.Label(),
		TTL:       int(rec.TTL.Seconds()),
	})
}

// verifyPayload mirrors neurosdk.VerifyRequest with pointer fields so absent
// keys are distinguishable from zero values.
type verifyPayload struct {
	Nonce             *string  `json:"nonce"`
	Ts                *float64 `json:"ts"`
	Face              *string  `json:"face"`
	BlinkCount        *int     `json:"blink_count"`
	HeadMotion        *float64 `json:"head_motion"`
	FocusScore        *float64 `json:"focus_score"`
	ChallengeObserved *string  `json:"challenge_observed"`
}

// HandleVerify handles POST /v1/liveness/verify
//
//	@Summary		Submit a liveness challenge response
//	@Description	Runs the verification pipeline over the submitted signals. The nonce is consumed whatever the outcome; a failed attempt requires a fresh challenge. On acceptance the session is upgraded to authenticated.
//	@Tags			Liveness
//	@Security		SessionAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		neurosdk.VerifyRequest			true	"Observed signals"
//	@Success		200		{object}	neurosdk.VerifySuccessResponse	"Verification accepted"
//	@Failure		400		{object}	neurosdk.VerifyFailResponse		"Verification rejected"
//	@Failure		401		{object}	neurosdk.ErrorResponse			"Invalid or missing session"
//	@Router			/v1/liveness/verify [post].
func (h *LivenessHandler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)
	empID := httpx.EmpIDFromCtx(ctx)

	var req verifyPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		// Undecodable bodies degrade to the taxonomy, not a generic error.
		httpx.WriteJSON(w, http.StatusBadRequest, neurosdk.VerifyFailResponse{
			Status: "fail",
			Reason: neurosdk.ReasonMissingField,
		})
		return
	}

	verdict := h.ChallengeService.Verify(ctx, empID, service.Submission{
		Nonce:             req.Nonce,
		Ts:                req.Ts,
		Face:              req.Face,
		BlinkCount:        req.BlinkCount,
		HeadMotion:        req.HeadMotion,
		FocusScore:        req.FocusScore,
		ChallengeObserved: req.ChallengeObserved,
	})

	if !verdict.Accepted {
		log.Info("verification rejected",
			"emp_id", empID,
			"reason", string(verdict.Reason),
			"field", verdict.Field,
		)
		httpx.WriteJSON(w, http.StatusBadRequest, neurosdk.VerifyFailResponse{
			Status:     "fail",
			Reason:     string(verdict.Reason),
			Field:      verdict.Field,
			FocusScore: verdict.FocusScore,
		})
		return
	}

	if h.upgradeSession(w, r, jwtx.AMRFace) == nil {
		return
	}

	log.Info("verification accepted", "emp_id", empID, "focus_score", *verdict.FocusScore)
	httpx.WriteJSON(w, http.StatusOK, neurosdk.VerifySuccessResponse{
		Status:     "success",
		Message:    "Liveness verified",
		FocusScore: *verdict.FocusScore,
	})
}

// HandleMFAComplete handles POST /v1/liveness/mfa
//
//	@Summary		Complete authentication with a TOTP code
//	@Description	Fallback for employees whose liveness attempt was rejected with low_focus. A valid TOTP code upgrades the pending session without a new challenge.
//	@Tags			Liveness
//	@Security		SessionAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		neurosdk.MFACompleteRequest	true	"TOTP code"
//	@Success		200		{object}	neurosdk.SessionResponse	"Upgraded session"
//	@Failure		400		{object}	neurosdk.ErrorResponse		"Invalid request or code"
//	@Failure		401		{object}	neurosdk.ErrorResponse		"Invalid or missing session"
//	@Router			/v1/liveness/mfa [post].
func (h *LivenessHandler) HandleMFAComplete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)
	empID := httpx.EmpIDFromCtx(ctx)

	var req neurosdk.MFACompleteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Code == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "A TOTP code is required")
		return
	}

	if err := h.MFAService.VerifyTOTP(ctx, empID, req.Code); err != nil {
		switch {
		case errors.Is(err, service.ErrTOTPNotEnrolled):
			writeError(w, http.StatusBadRequest, "totp_not_enrolled", "No TOTP enrollment for this employee")
		case errors.Is(err, service.ErrInvalidTOTPCode):
			log.Warn("TOTP fallback rejected", "emp_id", empID)
			writeError(w, http.StatusBadRequest, "invalid_code", "TOTP code rejected")
		default:
			log.Error("TOTP fallback failed", "err", err)
			writeError(w, http.StatusInternalServerError, "server_error", "Verification failed")
		}
		return
	}

	claims := h.upgradeSession(w, r, jwtx.AMROTP)
	if claims == nil {
		return
	}

	log.Info("session upgraded via TOTP fallback", "emp_id", empID)
	httpx.WriteJSON(w, http.StatusOK, neurosdk.SessionResponse{
		EmpID:         claims.EmpID,
		Stage:         claims.Stage,
		Authenticated: claims.Authenticated(),
		AMR:           claims.AMR,
	})
}

// HandleAttempts handles GET /v1/liveness/attempts
//
//	@Summary		List recent verification attempts
//	@Description	Returns the audit trail of the caller's own verification attempts, newest first. Nonces are stored fingerprinted, so the records cannot be replayed.
//	@Tags			Liveness
//	@Security		SessionAuth
//	@Produce		json
//	@Param			limit	query		int							false	"Maximum records to return (default 20, capped at 100)"
//	@Success		200		{object}	neurosdk.AttemptsResponse	"Audited attempts"
//	@Failure		401		{object}	neurosdk.ErrorResponse		"Invalid or missing session"
//	@Failure		500		{object}	neurosdk.ErrorResponse		"Internal server error"
//	@Router			/v1/liveness/attempts [get].
func (h *LivenessHandler) HandleAttempts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)
	empID := httpx.EmpIDFromCtx(ctx)

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	captures, err := h.AuditService.ListAttempts(ctx, empID, limit)
	if err != nil {
		log.Error("failed to list attempts", "err", err, "emp_id", empID)
		writeError(w, http.StatusInternalServerError, "server_error", "Could not list attempts")
		return
	}

	attempts := make([]neurosdk.AttemptRecord, 0, len(captures))
	for _, c := range captures {
		attempts = append(attempts, neurosdk.AttemptRecord{
			Challenge:  c.Challenge.Wire(),
			Accepted:   c.Accepted,
			Reason:     string(c.Reason),
			ImageBytes: c.ImageBytes,
			CapturedAt: c.CapturedAt.Format(time.RFC3339),
		})
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, neurosdk.AttemptsResponse{Attempts: attempts})
}

// upgradeSession re-mints the caller's session at the authenticated stage and
// installs the new cookie. Returns nil after writing an error response.
func (h *LivenessHandler) upgradeSession(w http.ResponseWriter, r *http.Request, method string) *jwtx.Claims {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	claims, ok := ctx.Value(httpx.CtxKeyClaims).(jwtx.Claims)
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_session", "No session in request")
		return nil
	}

	token, upgraded, err := h.SessionService.Upgrade(&claims, method)
	if err != nil {
		log.Error("failed to upgrade session", "err", err)
		writeError(w, http.StatusInternalServerError, "server_error", "Session upgrade failed")
		return nil
	}

	httpx.SetSessionCookie(w, token, int(time.Until(upgraded.ExpiresAt.Time).Seconds()))
	httpx.NoCache(w)
	return &upgraded
}

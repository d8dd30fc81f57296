package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/neurolock/neurolock/internal/neurolock/service"
	"github.com/neurolock/neurolock/pkg/httpx"
	"github.com/neurolock/neurolock/pkg/neurosdk"
	"github.com/neurolock/neurolock/pkg/slogx"
)

// MFAHandler manages TOTP enrollment for the liveness fallback.
type MFAHandler struct {
	MFAService *service.MFAService
}

// HandleEnroll handles POST /v1/mfa/totp/enroll
//
//	@Summary		Enroll in TOTP
//	@Description	Generates a TOTP secret for the authenticated employee. The secret is shown once; confirm it with /v1/mfa/totp/verify.
//	@Tags			MFA
//	@Security		SessionAuth
//	@Produce		json
//	@Success		200	{object}	neurosdk.TOTPEnrollResponse	"TOTP secret and otpauth URL"
//	@Failure		400	{object}	neurosdk.ErrorResponse		"Already enrolled"
//	@Failure		401	{object}	neurosdk.ErrorResponse		"Invalid or missing session"
//	@Failure		500	{object}	neurosdk.ErrorResponse		"Internal server error"
//	@Router			/v1/mfa/totp/enroll [post].
func (h *MFAHandler) HandleEnroll(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)
	empID := httpx.EmpIDFromCtx(ctx)

	enrollment, err := h.MFAService.EnrollTOTP(ctx, empID)
	if err != nil {
		if errors.Is(err, service.ErrTOTPEnrolled) {
			writeError(w, http.StatusBadRequest, "totp_already_enrolled", "TOTP is already enrolled for this employee")
			return
		}
		log.Error("failed to enroll TOTP", "emp_id", empID, "err", err)
		writeError(w, http.StatusInternalServerError, "server_error", "Enrollment failed")
		return
	}

	log.Info("TOTP enrolled", "emp_id", empID)
	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, neurosdk.TOTPEnrollResponse{
		Secret:  enrollment.Secret,
		QRCode:  enrollment.URL,
		Issuer:  enrollment.Issuer,
		Account: enrollment.Account,
	})
}

// HandleVerify handles POST /v1/mfa/totp/verify
//
//	@Summary		Confirm a TOTP enrollment
//	@Description	Verifies a code against the enrolled secret so the employee knows the authenticator app is set up correctly.
//	@Tags			MFA
//	@Security		SessionAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		neurosdk.TOTPVerifyRequest	true	"TOTP code"
//	@Success		204		"Code accepted"
//	@Failure		400		{object}	neurosdk.ErrorResponse	"Invalid code or not enrolled"
//	@Failure		401		{object}	neurosdk.ErrorResponse	"Invalid or missing session"
//	@Router			/v1/mfa/totp/verify [post].
func (h *MFAHandler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)
	empID := httpx.EmpIDFromCtx(ctx)

	var req neurosdk.TOTPVerifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Code == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "A TOTP code is required")
		return
	}

	if err := h.MFAService.VerifyTOTP(ctx, empID, req.Code); err != nil {
		switch {
		case errors.Is(err, service.ErrTOTPNotEnrolled):
			writeError(w, http.StatusBadRequest, "totp_not_enrolled", "No TOTP enrollment for this employee")
		case errors.Is(err, service.ErrInvalidTOTPCode):
			log.Warn("TOTP verify rejected", "emp_id", empID)
			writeError(w, http.StatusBadRequest, "invalid_code", "TOTP code rejected")
		default:
			log.Error("TOTP verify failed", "err", err)
			writeError(w, http.StatusInternalServerError, "server_error", "Verification failed")
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

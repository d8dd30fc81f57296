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

// EmployeesHandler handles self-registration.
type EmployeesHandler struct {
	EmployeeService *service.EmployeeService
}

// HandleRegister handles POST /v1/employees/register
//
//	@Summary		Register a new employee
//	@Description	Creates an employee record and assigns the next sequential badge id. Requires the shared company code.
//	@Tags			Employees
//	@Accept			json
//	@Produce		json
//	@Param			request	body		neurosdk.RegisterRequest	true	"Registration details"
//	@Success		201		{object}	neurosdk.RegisterResponse	"Assigned badge id"
//	@Failure		400		{object}	neurosdk.ErrorResponse		"Validation failure"
//	@Failure		403		{object}	neurosdk.ErrorResponse		"Company code mismatch"
//	@Failure		500		{object}	neurosdk.ErrorResponse		"Internal server error"
//	@Router			/v1/employees/register [post].
func (h *EmployeesHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req neurosdk.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}

	emp, err := h.EmployeeService.Register(ctx, req.Name, req.CompanyCode, req.Password, req.ConfirmPassword)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrBadCompanyCode):
			log.Warn("registration rejected, bad company code")
			writeError(w, http.StatusForbidden, "invalid_company_code", "Company code not recognised")
		case errors.Is(err, service.ErrNameRequired):
			writeError(w, http.StatusBadRequest, "invalid_request", "Name is required")
		case errors.Is(err, service.ErrPasswordMismatch):
			writeError(w, http.StatusBadRequest, "invalid_request", "Password confirmation does not match")
		case errors.Is(err, service.ErrPasswordTooShort):
			writeError(w, http.StatusBadRequest, "invalid_request", "Password must be at least 8 characters")
		default:
			log.Error("registration failed", "err", err)
			writeError(w, http.StatusInternalServerError, "server_error", "Registration failed")
		}
		return
	}

	log.Info("employee registered", "emp_id", emp.EmpID)
	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusCreated, neurosdk.RegisterResponse{
		EmpID: emp.EmpID,
		Name:  emp.Name,
	})
}

// HandleChangePassword handles POST /v1/employees/password
//
//	@Summary		Change the caller's password
//	@Description	Rotates the password for the authenticated employee. The current password is re-checked before the new one is installed.
//	@Tags			Employees
//	@Security		SessionAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body	neurosdk.ChangePasswordRequest	true	"Current and new password"
//	@Success		204		"Password updated"
//	@Failure		400		{object}	neurosdk.ErrorResponse	"New password too short"
//	@Failure		401		{object}	neurosdk.ErrorResponse	"Current password incorrect or no session"
//	@Failure		500		{object}	neurosdk.ErrorResponse	"Internal server error"
//	@Router			/v1/employees/password [post].
func (h *EmployeesHandler) HandleChangePassword(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)
	empID := httpx.EmpIDFromCtx(ctx)

	var req neurosdk.ChangePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}

	err := h.EmployeeService.ChangePassword(ctx, empID, req.CurrentPassword, req.NewPassword)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			log.Warn("password change rejected", "emp_id", empID)
			writeError(w, http.StatusUnauthorized, "invalid_credentials", "Current password incorrect")
		case errors.Is(err, service.ErrPasswordTooShort):
			writeError(w, http.StatusBadRequest, "invalid_request", "Password must be at least 8 characters")
		default:
			log.Error("password change failed", "err", err)
			writeError(w, http.StatusInternalServerError, "server_error", "Password change failed")
		}
		return
	}

	log.Info("password changed", "emp_id", empID)
	w.WriteHeader(http.StatusNoContent)
}

func writeError(w http.ResponseWriter, code int, errCode, desc string) {
	httpx.WriteJSON(w, code, neurosdk.ErrorResponse{
		Error:            errCode,
		ErrorDescription: desc,
	})
}

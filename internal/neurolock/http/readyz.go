package http

import (
	"net/http"
	"time"

	"github.com/neurolock/neurolock/internal/neurolock/store"
	"github.com/neurolock/neurolock/pkg/httpx"
	"github.com/neurolock/neurolock/pkg/jwtx"
	"github.com/neurolock/neurolock/pkg/neurosdk"
)

// ReadyzHandler godoc
//
//	@Summary		Readiness Check Endpoint
//	@Description	Readiness probe endpoint returning service health status and checks for critical dependencies
//	@Description	Includes uptime, version, database connectivity and a session signer round trip
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	neurosdk.HealthResponse	"status, uptime, version, checks"
//	@Failure		503	{object}	neurosdk.HealthResponse	"status, uptime, version, checks - service not ready"
//	@Router			/readyz [get].
func ReadyzHandler(
	startTime time.Time,
	version string,
	st store.Store,
	keys jwtx.SignVerifier,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks := &neurosdk.HealthChecks{
			Database: "ok",
			Signer:   "ok",
		}
		overallStatus := "ok"
		statusCode := http.StatusOK

		if err := st.Ping(r.Context()); err != nil {
			checks.Database = "error: " + err.Error()
			overallStatus = "degraded"
			statusCode = http.StatusServiceUnavailable
		}

		if err := signerCheck(keys); err != nil {
			checks.Signer = "error: " + err.Error()
			overallStatus = "degraded"
			statusCode = http.StatusServiceUnavailable
		}

		response := neurosdk.HealthResponse{
			Status:  overallStatus,
			Uptime:  time.Since(startTime).String(),
			Version: version,
			Checks:  checks,
		}
		httpx.WriteJSON(w, statusCode, response)
	}
}

// signerCheck mints and verifies a throwaway token so broken key material is
// reported before login traffic hits it.
func signerCheck(keys jwtx.SignVerifier) error {
	claims := jwtx.NewSessionClaims(
		"readyz", "", "", jwtx.StagePending, nil,
		time.Minute, keys.Issuer(), time.Now(),
	)
	token, err := keys.Sign(claims)
	if err != nil {
		return err
	}
	_, err = keys.Verify(token)
	return err
}

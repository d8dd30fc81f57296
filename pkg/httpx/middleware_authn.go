package httpx

import (
	"context"
	"net/http"
	"strings"

	"github.com/neurolock/neurolock/pkg/jwtx"
	"github.com/neurolock/neurolock/pkg/slogx"
)

// SessionCookieName is the cookie carrying the signed session token.
const SessionCookieName = "neurolock_session"

// AuthnMiddleware verifies the session token from the session cookie, falling
// back to an Authorization bearer header for non-browser clients.
func AuthnMiddleware(v jwtx.Verifier) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			log := slogx.FromContext(ctx)

			raw := sessionTokenFromRequest(r)
			if raw == "" {
				writeSessionError(w, http.StatusUnauthorized, "missing session token")
				return
			}

			claims, err := v.Verify(raw)
			if err != nil {
				log.Warn("session verify failed", "err", err)
				writeSessionError(w, http.StatusUnauthorized, "session verification failed")
				return
			}

			ctx = contextWithSession(ctx, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequirePendingSession admits sessions at either stage: a pending session is
// the knowledge-factor precondition for the liveness endpoints, and an already
// authenticated session may re-run the challenge.
func RequirePendingSession() Middleware {
	return requireStage(jwtx.StagePending, jwtx.StageAuthenticated)
}

// RequireAuthenticatedSession admits only sessions that passed the liveness gate.
func RequireAuthenticatedSession() Middleware {
	return requireStage(jwtx.StageAuthenticated)
}

func requireStage(allowed ...string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			stage := stageFromCtx(r.Context())
			for _, s := range allowed {
				if stage == s {
					next.ServeHTTP(w, r)
					return
				}
			}
			writeSessionError(w, http.StatusForbidden, "session stage insufficient")
		})
	}
}

// SetSessionCookie installs the signed session token on the response.
func SetSessionCookie(w http.ResponseWriter, token string, maxAgeSeconds int) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   maxAgeSeconds,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearSessionCookie removes the session cookie.
func ClearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func sessionTokenFromRequest(r *http.Request) string {
	if c, err := r.Cookie(SessionCookieName); err == nil && c.Value != "" {
		return c.Value
	}
	if authz := r.Header.Get("Authorization"); strings.HasPrefix(authz, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(authz, "Bearer"))
	}
	return ""
}

func contextWithSession(ctx context.Context, c *jwtx.Claims) context.Context {
	ctx = context.WithValue(ctx, CtxKeyEmpID, c.EmpID)
	ctx = context.WithValue(ctx, CtxKeySessionID, c.SID)
	ctx = context.WithValue(ctx, CtxKeyStage, c.Stage)
	ctx = context.WithValue(ctx, CtxKeyClaims, *c)
	return ctx
}

func writeSessionError(w http.ResponseWriter, code int, desc string) {
	WriteJSON(w, code, map[string]string{
		"error":             "invalid_session",
		"error_description": desc,
	})
}

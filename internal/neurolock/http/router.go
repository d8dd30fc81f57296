package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/neurolock/neurolock/internal/neurolock/service"
	"github.com/neurolock/neurolock/internal/neurolock/store"
	"github.com/neurolock/neurolock/pkg/httpx"
	"github.com/neurolock/neurolock/pkg/jwtx"
	"github.com/neurolock/neurolock/pkg/slogx"

	_ "github.com/neurolock/neurolock/api/neurolock" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	keys         jwtx.SignVerifier
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store            store.Store
	EmployeeService  *service.EmployeeService
	SessionService   *service.SessionService
	ChallengeService *service.ChallengeService
	MFAService       *service.MFAService
	AuditService     *service.AuditService
}

func NewRouter(
	keys jwtx.SignVerifier,
	buildVersion string,
	st store.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		keys:         keys,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
	}

	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerEmployees()
	r.registerSessions()
	r.registerLiveness()
	r.registerMFA()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			NeuroLock Liveness Authentication API
//	@version		0.1.0
//	@description	Two-stage employee authentication: a password login yields a pending
//	@description	session; a time-boxed liveness challenge (or a TOTP fallback) upgrades
//	@description	it to authenticated. Challenge nonces are strictly single use.
//
//	@contact.name	NeuroLock Team
//	@contact.url	https://github.com/neurolock/neurolock
//
//	@license.name	MIT
//	@license.url	https://opensource.org/licenses/MIT
//
//	@host		localhost:8080
//	@BasePath	/
//
//	@schemes	http https
//
//	@securityDefinitions.apikey	SessionAuth
//	@in							header
//	@name						Authorization
//	@description				Session token. Format: "Bearer {token}". Browsers use the neurolock_session cookie instead.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerEmployees() {
	h := &EmployeesHandler{EmployeeService: r.EmployeeService}

	// Public signup endpoint, gated by the company code in the body.
	r.Mux.Handle("POST /v1/employees/register",
		httpx.Chain(http.HandlerFunc(h.HandleRegister),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	// Password rotation re-checks the current password, so it is gated the
	// same way login is.
	r.Mux.Handle("POST /v1/employees/password",
		httpx.Chain(http.HandlerFunc(h.HandleChangePassword),
			httpx.AuthnMiddleware(r.keys),
			httpx.RequireAuthenticatedSession(),
			httpx.RateLimitByEmployee(httpx.StrictLimit),
		),
	)
}

func (r *Router) registerSessions() {
	h := &SessionsHandler{
		EmployeeService: r.EmployeeService,
		SessionService:  r.SessionService,
	}

	// POST /login - strict by IP (password guessing)
	r.Mux.Handle("POST /v1/login",
		httpx.Chain(http.HandlerFunc(h.HandleLogin),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	r.Mux.Handle("POST /v1/logout",
		httpx.Chain(http.HandlerFunc(h.HandleLogout),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)

	// GET /session - any stage may inspect itself
	r.Mux.Handle("GET /v1/session",
		httpx.Chain(http.HandlerFunc(h.HandleSession),
			httpx.AuthnMiddleware(r.keys),
			httpx.RateLimitByEmployee(httpx.LenientLimit),
		),
	)
}

func (r *Router) registerLiveness() {
	h := &LivenessHandler{
		ChallengeService: r.ChallengeService,
		SessionService:   r.SessionService,
		MFAService:       r.MFAService,
		AuditService:     r.AuditService,
	}

	// GET /liveness/challenge - pending session required, moderate by user
	r.Mux.Handle("GET /v1/liveness/challenge",
		httpx.Chain(http.HandlerFunc(h.HandleChallenge),
			httpx.AuthnMiddleware(r.keys),
			httpx.RequirePendingSession(),
			httpx.RateLimitByEmployee(httpx.ModerateLimit),
		),
	)

	// POST /liveness/verify - strict by user (each attempt burns a nonce anyway,
	// but the image decode is the most expensive request in the service)
	r.Mux.Handle("POST /v1/liveness/verify",
		httpx.Chain(http.HandlerFunc(h.HandleVerify),
			httpx.AuthnMiddleware(r.keys),
			httpx.RequirePendingSession(),
			httpx.RateLimitByEmployee(httpx.StrictLimit),
		),
	)

	// GET /liveness/attempts - audit history for the caller's own badge,
	// available once fully authenticated
	r.Mux.Handle("GET /v1/liveness/attempts",
		httpx.Chain(http.HandlerFunc(h.HandleAttempts),
			httpx.AuthnMiddleware(r.keys),
			httpx.RequireAuthenticatedSession(),
			httpx.RateLimitByEmployee(httpx.ModerateLimit),
		),
	)

	// POST /liveness/mfa - TOTP fallback after a low_focus rejection, strict
	// by user to slow code brute force
	r.Mux.Handle("POST /v1/liveness/mfa",
		httpx.Chain(http.HandlerFunc(h.HandleMFAComplete),
			httpx.AuthnMiddleware(r.keys),
			httpx.RequirePendingSession(),
			httpx.RateLimitByEmployee(httpx.StrictLimit),
		),
	)
}

func (r *Router) registerMFA() {
	h := &MFAHandler{MFAService: r.MFAService}

	// Enrollment management requires a fully authenticated session.
	r.Mux.Handle("POST /v1/mfa/totp/enroll",
		httpx.Chain(http.HandlerFunc(h.HandleEnroll),
			httpx.AuthnMiddleware(r.keys),
			httpx.RequireAuthenticatedSession(),
			httpx.RateLimitByEmployee(httpx.ModerateLimit),
		),
	)

	r.Mux.Handle("POST /v1/mfa/totp/verify",
		httpx.Chain(http.HandlerFunc(h.HandleVerify),
			httpx.AuthnMiddleware(r.keys),
			httpx.RequireAuthenticatedSession(),
			httpx.RateLimitByEmployee(httpx.StrictLimit),
		),
	)
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store, r.keys),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}

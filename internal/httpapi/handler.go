// Package httpapi exposes the insurance administration REST API. Handlers
// decode and validate request bodies, delegate to the service layer, and
// translate service errors into JSON responses.
package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/medbridge/insurance-api/internal/domain/user"
	"github.com/medbridge/insurance-api/internal/errors"
	"github.com/medbridge/insurance-api/internal/httputil"
	"github.com/medbridge/insurance-api/internal/metrics"
	"github.com/medbridge/insurance-api/internal/middleware"
	"github.com/medbridge/insurance-api/internal/services/auth"
	"github.com/medbridge/insurance-api/internal/services/claims"
	"github.com/medbridge/insurance-api/internal/services/policies"
	"github.com/medbridge/insurance-api/internal/services/users"
	"github.com/medbridge/insurance-api/pkg/logger"
)

// Handler holds the service dependencies shared by all endpoints.
type Handler struct {
	auth     *auth.Service
	users    *users.Service
	policies *policies.Service
	claims   *claims.Service
	log      *logger.Logger
}

func NewHandler(authSvc *auth.Service, userSvc *users.Service, policySvc *policies.Service, claimSvc *claims.Service, log *logger.Logger) *Handler {
	if log == nil {
		log = logger.NewDefault("httpapi")
	}
	return &Handler{
		auth:     authSvc,
		users:    userSvc,
		policies: policySvc,
		claims:   claimSvc,
		log:      log.WithField("component", "httpapi"),
	}
}

// NewRouter builds the full route table. The /api subtree runs behind the
// bearer-token middleware except for registration and login; role guards wrap
// the individual handlers that need them.
func NewRouter(h *Handler, authmw *middleware.AuthMiddleware, limiter *middleware.RateLimiter) *mux.Router {
	router := mux.NewRouter()
	router.Use(middleware.CORS)
	router.Use(metrics.InstrumentHandler)

	router.HandleFunc("/", h.handleRoot).Methods(http.MethodGet)
	router.HandleFunc("/health", h.handleHealth).Methods(http.MethodGet)
	router.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet)

	api := router.PathPrefix("/api").Subrouter()

	public := api.NewRoute().Subrouter()
	if limiter != nil {
		public.Use(limiter.Handler)
	}
	public.HandleFunc("/auth/register", h.handleRegister).Methods(http.MethodPost)
	public.HandleFunc("/auth/login", h.handleLogin).Methods(http.MethodPost)

	// authentication runs before the limiter so authenticated traffic is
	// limited per user rather than per source address
	protected := api.NewRoute().Subrouter()
	protected.Use(authmw.Handler)
	if limiter != nil {
		protected.Use(limiter.Handler)
	}

	protected.HandleFunc("/auth/me", h.handleMe).Methods(http.MethodGet)

	staff := middleware.RequireRoles(user.RoleProvider, user.RoleAdministrator)
	admin := middleware.RequireRoles(user.RoleAdministrator)

	protected.Handle("/users", staff(http.HandlerFunc(h.handleListUsers))).Methods(http.MethodGet)
	protected.HandleFunc("/users/{id}", h.handleGetUser).Methods(http.MethodGet)
	protected.HandleFunc("/users/{id}", h.handleUpdateUser).Methods(http.MethodPut)
	protected.Handle("/users/{id}/activate", admin(http.HandlerFunc(h.handleActivateUser))).Methods(http.MethodPost)
	protected.Handle("/users/{id}/deactivate", admin(http.HandlerFunc(h.handleDeactivateUser))).Methods(http.MethodPost)

	protected.Handle("/policies", staff(http.HandlerFunc(h.handleCreatePolicy))).Methods(http.MethodPost)
	protected.HandleFunc("/policies", h.handleListPolicies).Methods(http.MethodGet)
	// registered before /policies/{id} so "programs" is not captured as an id
	protected.Handle("/policies/programs", staff(http.HandlerFunc(h.handlePayerProgramStats))).Methods(http.MethodGet)
	protected.HandleFunc("/policies/{id}", h.handleGetPolicy).Methods(http.MethodGet)
	protected.Handle("/policies/{id}", staff(http.HandlerFunc(h.handleUpdatePolicy))).Methods(http.MethodPut)
	protected.Handle("/policies/{id}/status", admin(http.HandlerFunc(h.handleSetPolicyStatus))).Methods(http.MethodPatch)

	protected.HandleFunc("/claims", h.handleSubmitClaim).Methods(http.MethodPost)
	protected.HandleFunc("/claims", h.handleListClaims).Methods(http.MethodGet)
	protected.HandleFunc("/claims/{id}", h.handleGetClaim).Methods(http.MethodGet)
	protected.Handle("/claims/{id}/review", staff(http.HandlerFunc(h.handleReviewClaim))).Methods(http.MethodPost)
	protected.Handle("/claims/{id}/status", admin(http.HandlerFunc(h.handleSetClaimStatus))).Methods(http.MethodPatch)

	return router
}

func (h *Handler) handleRoot(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string]string{
		"service": "insurance-api",
		"status":  "ok",
	})
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// decode unmarshals the body into dst and runs its ozzo validation rules.
// Both failure modes surface as a 400 with the offending detail.
func decode(r *http.Request, dst interface{ Validate() error }) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return errors.Validation("invalid request body")
	}
	if err := dst.Validate(); err != nil {
		return errors.Validation(err.Error())
	}
	return nil
}

// caller returns the authenticated user placed in the context by the auth
// middleware. Routes registered on the protected subrouter always have one.
func caller(r *http.Request) (user.User, error) {
	u, ok := middleware.CurrentUser(r.Context())
	if !ok {
		return user.User{}, errors.Unauthorized("authentication required")
	}
	return u, nil
}

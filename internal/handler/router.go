package handler

import (
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rentalconnect/rentalconnect/internal/domain"
	"github.com/rentalconnect/rentalconnect/internal/observability/metrics"
	"github.com/rentalconnect/rentalconnect/internal/security/audit"
	"github.com/rentalconnect/rentalconnect/internal/security/auth"
	"github.com/rentalconnect/rentalconnect/internal/security/middleware"
	"github.com/rentalconnect/rentalconnect/internal/security/ratelimit"
	"github.com/rentalconnect/rentalconnect/internal/service"
)

// maxBodyBytes leaves room for base64 listing images
const maxBodyBytes = 10 << 20

// RouterConfig wires services and security components into the API
type RouterConfig struct {
	Auth      *service.AuthService
	Accounts  *service.AccountService
	Listings  *service.ListingService
	Bookmarks *service.BookmarkService
	Messages  *service.MessageService

	Tokens      *auth.TokenManager
	Audit       *audit.Logger
	AuthLimiter *ratelimit.Limiter
	Health      map[string]HealthCheck
	CORSOrigins []string
	Logger      *slog.Logger
}

// NewRouter builds the /api mux and wraps it in the shared middleware chain
func NewRouter(cfg RouterConfig) http.Handler {
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}
	auditLog := cfg.Audit
	if auditLog == nil {
		auditLog = audit.NewLogger(log)
	}

	authH := NewAuthHandler(cfg.Auth, log)
	profileH := NewProfileHandler(cfg.Accounts, log)
	listingH := NewListingHandler(cfg.Listings, log)
	savedH := NewSavedHandler(cfg.Bookmarks, log)
	renterH := NewRenterHandler(cfg.Accounts, log)
	messageH := NewMessageHandler(cfg.Messages, log)
	healthH := NewHealthHandler(cfg.Health, log)

	authed := middleware.Authenticate(cfg.Tokens, auditLog, log)
	landlord := middleware.RequireRole(domain.RoleLandlord, auditLog)
	protect := func(h http.HandlerFunc) http.Handler {
		return authed(h)
	}
	landlordOnly := func(h http.HandlerFunc) http.Handler {
		return middleware.Chain(h, authed, landlord)
	}
	throttled := func(h http.HandlerFunc) http.Handler {
		if cfg.AuthLimiter == nil {
			return h
		}
		return middleware.RateLimit(cfg.AuthLimiter, log)(h)
	}

	mux := http.NewServeMux()

	mux.Handle("POST /api/auth/register", throttled(authH.Register))
	mux.Handle("POST /api/auth/login", throttled(authH.Login))

	mux.Handle("GET /api/users/profile", protect(profileH.Get))
	mux.Handle("PUT /api/users/profile", protect(profileH.Update))

	mux.HandleFunc("GET /api/properties", listingH.List)
	mux.HandleFunc("GET /api/properties/{id}", listingH.Get)
	mux.Handle("POST /api/properties", landlordOnly(listingH.Create))
	mux.Handle("PUT /api/properties/{id}", landlordOnly(listingH.Update))
	mux.Handle("DELETE /api/properties/{id}", landlordOnly(listingH.Delete))

	mux.Handle("GET /api/saved", protect(savedH.List))
	mux.Handle("POST /api/saved/{listingId}", protect(savedH.Save))
	mux.Handle("DELETE /api/saved/{listingId}", protect(savedH.Unsave))
	mux.Handle("GET /api/saved/check/{listingId}", protect(savedH.Check))

	mux.HandleFunc("GET /api/renters", renterH.List)
	mux.HandleFunc("GET /api/renters/{id}", renterH.Get)

	mux.Handle("GET /api/messages", protect(messageH.List))
	mux.Handle("POST /api/messages", protect(messageH.Send))
	mux.Handle("PUT /api/messages/{id}/read", protect(messageH.MarkRead))

	mux.HandleFunc("GET /api/health", healthH.Health)
	mux.HandleFunc("GET /api/ready", healthH.Ready)
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, log, http.StatusNotFound, ErrorResponse{Error: "route not found"})
	})

	// metrics must see the request the mux annotates with its pattern, so
	// nothing between it and the mux may copy the request
	return middleware.Chain(mux,
		middleware.RequestID(log),
		middleware.Recover(log),
		metrics.HTTPMetricsMiddleware,
		middleware.CORS(cfg.CORSOrigins),
		middleware.LimitBody(maxBodyBytes),
		middleware.ValidateJSONContentType(log),
	)
}

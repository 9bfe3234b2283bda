package http

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/barangaymabini/portal/internal/auth"
	"github.com/barangaymabini/portal/internal/certificate"
	"github.com/barangaymabini/portal/internal/config"
	httpmiddleware "github.com/barangaymabini/portal/internal/http/middleware"
	"github.com/barangaymabini/portal/internal/request"
	"github.com/barangaymabini/portal/internal/resident"
	"github.com/barangaymabini/portal/internal/session"
	"github.com/barangaymabini/portal/internal/user"
)

// Handler keeps the shared infrastructure the top-level routes need.
type Handler struct {
	cfg           *config.Config
	pool          *pgxpool.Pool
	redis         *redis.Client
	publicLimiter *httpmiddleware.RateLimiter
	authLimiter   *httpmiddleware.RateLimiter
}

// NewRouter wires repositories, services and handlers into the portal router.
func NewRouter(cfg *config.Config, pool *pgxpool.Pool, redisClient *redis.Client) http.Handler {
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTAccessTTL)
	sessions := session.NewStore(redisClient)

	userRepo := user.NewRepository(pool)
	userService := user.NewService(userRepo, sessions, jwtManager, cfg.AdminCode, cfg.ModeratorCode)
	userHandler := user.NewHandler(userService)

	residentRepo := resident.NewRepository(pool)
	residentService := resident.NewService(residentRepo)
	residentHandler := resident.NewHandler(residentService)

	certRepo := certificate.NewRepository(pool)
	certService := certificate.NewService(certRepo, residentRepo)
	certHandler := certificate.NewHandler(certService)

	requestRepo := request.NewRepository(pool)
	requestService := request.NewService(requestRepo)
	requestHandler := request.NewHandler(requestService)

	h := &Handler{
		cfg:           cfg,
		pool:          pool,
		redis:         redisClient,
		publicLimiter: httpmiddleware.NewRateLimiter(cfg.RateLimitPublic.RequestsPerSecond, cfg.RateLimitPublic.Burst),
		authLimiter:   httpmiddleware.NewRateLimiter(cfg.RateLimitAuth.RequestsPerSecond, cfg.RateLimitAuth.Burst),
	}

	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(httpmiddleware.Logging)
	r.Use(httpmiddleware.Recover)
	r.Use(httpmiddleware.CORS(cfg.AllowOrigins))

	r.Group(func(public chi.Router) {
		public.Use(httpmiddleware.IPRateLimit(h.publicLimiter))

		public.Get("/health", h.Health)
		public.Get("/ready", h.Ready)

		public.Post("/register", userHandler.HandleRegister)
		public.Post("/api/login", userHandler.HandleLogin)
		public.Get("/api/me", userHandler.HandleMe)
		public.Post("/api/logout", userHandler.HandleLogout)

		// Citizens submit certificate requests without an account.
		public.Post("/requests", requestHandler.HandleCreate)
	})

	r.Group(func(private chi.Router) {
		private.Use(httpmiddleware.Auth(jwtManager))
		private.Use(httpmiddleware.UserRateLimit(h.authLimiter))

		private.Get("/users/me", userHandler.HandleProfile)
		private.Get("/user/{username}", userHandler.HandleGetByUsername)

		private.Group(func(admin chi.Router) {
			admin.Use(httpmiddleware.RequireAdmin)
			admin.Get("/users", userHandler.HandleList)
			admin.Put("/users/{id}", userHandler.HandleUpdate)
			admin.Delete("/users/{id}", userHandler.HandleDelete)
		})

		private.Get("/residents", residentHandler.HandleList)
		private.Get("/certificates", certHandler.HandleListRecent)
		private.Get("/certificates/search", certHandler.HandleSearch)
		private.Get("/certificates/{id}", certHandler.HandleGet)
		private.Get("/certificates/resident/{residentId}", certHandler.HandleListByResident)
		private.Get("/requests", requestHandler.HandleList)
		private.Get("/requests/{id}", requestHandler.HandleGet)
		private.Get("/dashboard/summary", h.DashboardSummary)

		private.Group(func(staff chi.Router) {
			staff.Use(httpmiddleware.RequireStaff)

			staff.Post("/residents", residentHandler.HandleCreate)
			staff.Put("/residents/{id}", residentHandler.HandleUpdate)
			staff.Delete("/residents/{id}", residentHandler.HandleDelete)
			staff.Post("/residents/upload-csv", residentHandler.HandleUploadCSV)

			staff.Post("/certificates", certHandler.HandleGenerate)

			staff.Put("/requests/{id}", requestHandler.HandleUpdate)
			staff.Put("/requests/{id}/approve", requestHandler.HandleApprove)
			staff.Put("/requests/{id}/reject", requestHandler.HandleReject)
			staff.Delete("/requests/{id}", requestHandler.HandleDelete)
		})
	})

	return r
}

// Health answers a static liveness probe.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Ready checks the Postgres and Redis connections.
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	dbErr := h.pool.Ping(ctx)
	redisErr := h.redis.Ping(ctx).Err()

	if dbErr != nil || redisErr != nil {
		WriteError(w, http.StatusServiceUnavailable, "INTERNAL", "dependencies unavailable", map[string]any{
			"db":    errorString(dbErr),
			"redis": errorString(redisErr),
		})
		return
	}

	WriteJSON(w, http.StatusOK, map[string]bool{"ready": true})
}

func errorString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

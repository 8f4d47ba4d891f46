// Package api wires the HTTP surface of the Soumetsu service: the chi
// router, the middleware stack and the server lifecycle.
package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/soumetsu/soumetsu/internal/api/handlers"
	apimiddleware "github.com/soumetsu/soumetsu/internal/api/middleware"
	"github.com/soumetsu/soumetsu/internal/hcaptcha"
	"github.com/soumetsu/soumetsu/internal/logger"
	"github.com/soumetsu/soumetsu/internal/privileges"
	"github.com/soumetsu/soumetsu/internal/storage"
	"github.com/soumetsu/soumetsu/pkg/config"
	"github.com/soumetsu/soumetsu/pkg/sessions"
	"github.com/soumetsu/soumetsu/pkg/store"
)

// Deps bundles everything the HTTP layer needs.
type Deps struct {
	Store    store.Store
	Sessions *sessions.Store
	Storage  storage.Backend
	Captcha  *hcaptcha.Client
}

// NewRouter creates and configures the chi router with all middleware
// and routes.
//
// Middleware stack, in order: request id, real ip, request logging,
// panic recovery, request timeout, metrics, CORS (when configured), rate
// limiting (when enabled) and session resolution. Authorization is
// enforced per route group.
func NewRouter(cfg *config.Config, deps Deps) http.Handler {
	r := chi.NewRouter()

	// Middleware stack - order matters
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(requestLogger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(30 * time.Second))
	r.Use(apimiddleware.Metrics())

	if len(cfg.CORS.AllowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   cfg.CORS.AllowedOrigins,
			AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Authorization", "Content-Type"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	if cfg.RateLimit.Enabled {
		r.Use(apimiddleware.RateLimit(deps.Sessions, cfg.RateLimit.Requests, cfg.RateLimit.Window))
	}

	r.Use(apimiddleware.SessionAuth(deps.Sessions))

	healthHandler := handlers.NewHealthHandler(deps.Store, deps.Sessions)
	authHandler := handlers.NewAuthHandler(deps.Store, deps.Sessions, deps.Captcha)
	userHandler := handlers.NewUserHandler(deps.Store)
	userFilesHandler := handlers.NewUserFilesHandler(deps.Storage,
		cfg.Uploads.MaxAvatarBytes, cfg.Uploads.MaxBannerBytes)
	scoreHandler := handlers.NewScoreHandler(deps.Store)
	beatmapHandler := handlers.NewBeatmapHandler(deps.Store)
	leaderboardHandler := handlers.NewLeaderboardHandler(deps.Store)
	clanHandler := handlers.NewClanHandler(deps.Store)
	friendHandler := handlers.NewFriendHandler(deps.Store)
	commentHandler := handlers.NewCommentHandler(deps.Store)
	badgeHandler := handlers.NewBadgeHandler(deps.Store)
	achievementHandler := handlers.NewAchievementHandler(deps.Store)
	teamHandler := handlers.NewTeamHandler(deps.Store)
	adminHandler := handlers.NewAdminHandler(deps.Store, deps.Sessions)
	peppyHandler := handlers.NewPeppyHandler(deps.Store)

	// Health routes - unauthenticated
	r.Route("/health", func(r chi.Router) {
		r.Get("/", healthHandler.Liveness)
		r.Get("/ready", healthHandler.Readiness)
	})

	// Root redirect to health for convenience
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/health", http.StatusTemporaryRedirect)
	})

	r.Route("/api", func(r chi.Router) {
		// Legacy osu! API v1 compatibility, bare arrays of strings.
		r.Get("/get_user", peppyHandler.GetUser)
		r.Get("/get_scores", peppyHandler.GetScores)
		r.Get("/get_user_recent", peppyHandler.GetUserRecent)

		r.Route("/v2", func(r chi.Router) {
			r.Route("/auth", func(r chi.Router) {
				r.Post("/register", authHandler.Register)
				r.Post("/login", authHandler.Login)

				r.Group(func(r chi.Router) {
					r.Use(apimiddleware.RequireAuth())
					r.Post("/logout", authHandler.Logout)
					r.Get("/me", authHandler.Me)
				})
			})

			r.Route("/users", func(r chi.Router) {
				r.Get("/", userHandler.List)

				r.Group(func(r chi.Router) {
					r.Use(apimiddleware.RequireAuth())
					r.Patch("/me", userHandler.UpdateMe)
					r.Post("/me/avatar", userFilesHandler.UploadAvatar)
					r.Post("/me/banner", userFilesHandler.UploadBanner)
				})

				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", userHandler.Get)
					r.Get("/stats", userHandler.Stats)
					r.Get("/history", userHandler.History)
					r.Get("/badges", badgeHandler.UserBadges)
					r.Get("/achievements", achievementHandler.UserAchievements)

					r.Route("/scores", func(r chi.Router) {
						r.Get("/best", scoreHandler.Best)
						r.Get("/recent", scoreHandler.Recent)
						r.Get("/firsts", scoreHandler.Firsts)
					})

					r.Get("/comments", commentHandler.List)
					r.Group(func(r chi.Router) {
						r.Use(apimiddleware.RequireAuth())
						r.Post("/comments", commentHandler.Create)
					})
				})
			})

			r.Get("/scores/{id}", scoreHandler.Get)

			r.Route("/beatmaps", func(r chi.Router) {
				r.Get("/md5/{md5}", beatmapHandler.GetByMD5)
				r.Get("/{id}", beatmapHandler.Get)
				r.Get("/{id}/scores", beatmapHandler.Scores)
			})

			r.Get("/leaderboard", leaderboardHandler.Global)

			r.Route("/clans", func(r chi.Router) {
				r.Get("/", clanHandler.List)
				r.Get("/leaderboard", leaderboardHandler.Clans)
				r.Get("/{id}", clanHandler.Get)
				r.Get("/{id}/members", clanHandler.Members)

				r.Group(func(r chi.Router) {
					r.Use(apimiddleware.RequireAuth())
					r.Post("/", clanHandler.Create)
					r.Patch("/{id}", clanHandler.Update)
					r.Delete("/{id}", clanHandler.Delete)
					r.Post("/{id}/join", clanHandler.Join)
					r.Post("/{id}/leave", clanHandler.Leave)
				})
			})

			r.Route("/friends", func(r chi.Router) {
				r.Use(apimiddleware.RequireAuth())
				r.Get("/", friendHandler.List)
				r.Post("/{id}", friendHandler.Add)
				r.Delete("/{id}", friendHandler.Remove)
			})

			r.Group(func(r chi.Router) {
				r.Use(apimiddleware.RequireAuth())
				r.Delete("/comments/{id}", commentHandler.Delete)
			})

			r.Get("/badges", badgeHandler.List)
			r.Get("/achievements", achievementHandler.List)
			r.Get("/team", teamHandler.Get)

			r.Route("/admin", func(r chi.Router) {
				r.Group(func(r chi.Router) {
					r.Use(apimiddleware.RequirePrivileges(privileges.AdminBanUsers))
					r.Post("/users/{id}/ban", adminHandler.Ban)
					r.Post("/users/{id}/restrict", adminHandler.Restrict)
					r.Post("/users/{id}/unrestrict", adminHandler.Unrestrict)
				})

				r.Group(func(r chi.Router) {
					r.Use(apimiddleware.RequirePrivileges(privileges.AdminSilenceUsers))
					r.Post("/users/{id}/silence", adminHandler.Silence)
				})

				r.Group(func(r chi.Router) {
					r.Use(apimiddleware.RequirePrivileges(privileges.AdminManageBadges))
					r.Post("/users/{id}/badges/{badge}", adminHandler.GrantBadge)
				})

				r.Group(func(r chi.Router) {
					r.Use(apimiddleware.RequirePrivileges(privileges.AdminManageBeatmaps))
					r.Post("/beatmaps/{id}/rank", adminHandler.RankBeatmap)
				})

				r.Group(func(r chi.Router) {
					r.Use(apimiddleware.RequirePrivileges(privileges.AdminViewLogs))
					r.Get("/logs", adminHandler.Logs)
				})
			})
		})
	})

	return r
}

// isHealthPath returns true if the request path is a healthcheck endpoint.
func isHealthPath(path string) bool {
	return path == "/health" || strings.HasPrefix(path, "/health/")
}

// requestLogger logs requests using the internal logger.
//
// Request completion is logged at INFO; healthcheck requests are logged
// at DEBUG to reduce noise.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := chimiddleware.GetReqID(r.Context())

		logger.Debug("API request started",
			"request_id", requestID,
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
		)

		// Wrap response writer to capture status code
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		duration := time.Since(start)

		logArgs := []any{
			"request_id", requestID,
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", duration.String(),
		}

		if isHealthPath(r.URL.Path) {
			logger.Debug("API request completed", logArgs...)
		} else {
			logger.Info("API request completed", logArgs...)
		}
	})
}

package chi

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	logpkg "github.com/peroute/hackwest-project/internal/logger"
	"github.com/peroute/hackwest-project/internal/metrics"
)

// APIPrefix is the mount point of every versioned route.
const APIPrefix = "/api/v1"

// RouterOptions configures cross-cutting middleware.
type RouterOptions struct {
	APIKeys     []string
	CORSOrigins []string
}

// NewRouter mounts the API routes behind recovery, request id, logging, CORS, auth and metrics.
func NewRouter(s *Server, opts RouterOptions) http.Handler {
	r := chi.NewRouter()
	r.Use(jsonRecoverer(s.logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(s.logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: opts.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID", "X-Total-Count"},
		MaxAge:         300,
	}))
	r.Use(BearerAuthMiddleware(opts.APIKeys))
	r.Use(metrics.Middleware())

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, codeNotFound, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, codeBadRequest, "method not allowed")
	})

	r.Get("/", s.Root)
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)

	r.Route(APIPrefix, func(r chi.Router) {
		r.Route("/ask", func(r chi.Router) {
			r.Post("/", s.Ask)
			r.Get("/history/{user_id}", s.AskHistory)
			r.Get("/stats/overview", s.AskOverview)
		})

		r.Route("/resources", func(r chi.Router) {
			r.Post("/", s.CreateResource)
			r.Get("/", s.ListResources)
			r.Post("/batch", s.BatchCreateResources)
			r.Get("/search/semantic", s.SemanticSearchResources)
			r.Get("/{id}", s.GetResource)
			r.Put("/{id}", s.UpdateResource)
			r.Delete("/{id}", s.DeleteResource)
		})

		r.Route("/search", func(r chi.Router) {
			r.Post("/", s.Search)
			r.Post("/semantic", s.SemanticSearch)
			r.Get("/status", s.SearchStatus)
		})

		r.Route("/users", func(r chi.Router) {
			r.Post("/", s.CreateUser)
			r.Get("/", s.ListUsers)
			r.Get("/{id}", s.GetUser)
			r.Put("/{id}", s.UpdateUser)
			r.Delete("/{id}", s.DeleteUser)
		})

		r.Route("/analytics", func(r chi.Router) {
			r.Post("/search-log", s.RecordSearch)
			r.Get("/search-stats", s.SearchStats)
			r.Get("/user-activity/{user_id}", s.UserActivity)
			r.Get("/system-health", s.SystemHealth)
			r.Get("/search-trends", s.SearchTrends)
		})

		r.Post("/upload/json", s.UploadJSON)
	})

	return chiMiddleware.StripSlashes(r)
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					if rvr == http.ErrAbortHandler { //nolint:errorlint // sentinel panic value
						panic(rvr)
					}
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(ErrorResponse{
						Code:    codeInternalError,
						Message: "internal error",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			requestID := chiMiddleware.GetReqID(r.Context())
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.Int64("content_length", r.ContentLength),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}

func requestLogger(r *http.Request, fallback *zap.Logger) *zap.Logger {
	return logpkg.FromContext(r.Context(), fallback)
}

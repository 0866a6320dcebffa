package httpapi

import (
	"net/http"

	"github.com/riskibarqy/brawl-tracker/internal/platform/logging"
	"github.com/riskibarqy/brawl-tracker/internal/platform/metrics"
)

type RouterConfig struct {
	Logger             *logging.Logger
	Metrics            *metrics.Manager
	SwaggerEnabled     bool
	CORSAllowedOrigins []string
	AdminToken         string
}

func NewRouter(handler *Handler, cfg RouterConfig) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	logger = logger.Named("http")

	mux := http.NewServeMux()
	registerSystemRoutes(mux, handler, cfg.Metrics, cfg.SwaggerEnabled)
	registerPublicRoutes(mux, handler)
	registerAdminRoutes(mux, handler, cfg.AdminToken)

	return RequestTracing(RequestID(RequestLogging(logger, cfg.Metrics, mux, CORS(cfg.CORSAllowedOrigins, recoverPanic(logger, mux)))))
}

func recoverPanic(logger *logging.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, span := startSpan(r.Context(), "httpapi.recoverPanic")
		defer span.End()

		defer func() {
			if rec := recover(); rec != nil {
				logger.ErrorContext(ctx, "panic recovered", "panic", rec, "path", r.URL.Path)
				writeInternalError(ctx, w)
			}
		}()
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

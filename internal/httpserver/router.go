package httpserver

import (
	"net/http"

	"log/slog"

	"riskwatch/internal/analysis"
	"riskwatch/internal/auth"
)

func NewRouter(
	logger *slog.Logger,
	authSvc *auth.Service,
	issuer *auth.TokenIssuer,
	pipeline *analysis.Pipeline,
	logStore *analysis.Store,
) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/", rootHandler)
	mux.HandleFunc("/health", healthHandler)

	// Auth
	mux.Handle("/api/v1/auth/signup", signupHandler(authSvc, logger))
	mux.Handle("/api/v1/auth/login", loginHandler(authSvc, logger))

	// Analysis. The pipeline verifies the bearer token itself, so these
	// handlers are not wrapped in the middleware.
	mux.Handle("/api/v1/analyze/text", &analysis.TextHandler{
		Pipeline: pipeline,
		Logger:   logger,
	})
	mux.Handle("/api/v1/analyze/image", &analysis.ImageHandler{
		Pipeline: pipeline,
		Logger:   logger,
	})

	// History
	secured := auth.BearerMiddleware(issuer)
	mux.Handle("/api/v1/analyses", secured(&analysis.HistoryHandler{
		Store:  logStore,
		Logger: logger,
	}))

	// CORS wrapper (simple, for local UI/tools).
	return withCORS(mux)
}

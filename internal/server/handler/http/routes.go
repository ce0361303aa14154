package http

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/clipsentry/clipsentry/internal/middleware"
)

// NewRouter constructs the HTTP handler serving the clipboard sync API.
//
// Routes:
//
//	GET  /health                 → liveness probe (unauthenticated)
//	POST /api/clipboard          → clipboardHandler.Upload
//	GET  /api/clipboard/latest   → clipboardHandler.Latest
//	GET  /api/clipboard/history  → clipboardHandler.History
//	POST /api/paste/validate     → pasteHandler.ValidatePaste
//	GET  /api/rules              → pasteHandler.Rules
//	GET  /api/audit              → auditHandler.List
//	GET  /api/audit/verify       → auditHandler.Verify
//
// Everything under /api requires the shared bearer token; the caller
// identity comes from headers set by the fronting auth layer.
func NewRouter(
	clipboardHandler *ClipboardHandler,
	pasteHandler *PasteHandler,
	auditHandler *AuditHandler,
	logger *zap.Logger,
	authToken string,
) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.WithRequestLogging(logger))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(chiMiddleware.AllowContentType("application/json"))
		r.Use(middleware.BearerAuth(authToken))

		r.Post("/clipboard", clipboardHandler.Upload)
		r.Get("/clipboard/latest", clipboardHandler.Latest)
		r.Get("/clipboard/history", clipboardHandler.History)

		r.Post("/paste/validate", pasteHandler.ValidatePaste)
		r.Get("/rules", pasteHandler.Rules)

		r.Get("/audit", auditHandler.List)
		r.Get("/audit/verify", auditHandler.Verify)
	})

	return r
}

package api

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
	"pcbridge/internal/api/handlers"
	"pcbridge/internal/api/middleware"
)

type Dependencies struct {
	HealthHandler      *handlers.HealthHandler
	WebhookHandler     *handlers.WebhookHandler
	DiagnosticsHandler *handlers.DiagnosticsHandler
	RequestLogger      *middleware.RequestLogger
}

func NewRouter(deps *Dependencies) *httprouter.Router {
	router := httprouter.New()

	logMid := deps.RequestLogger

	// Liveness
	router.GET("/", chain(deps.HealthHandler.Check, logMid.Handle))

	// Ingest
	router.POST("/webhook", chain(deps.WebhookHandler.Handle, logMid.Handle))

	// Diagnostics
	router.GET("/test-read", chain(deps.DiagnosticsHandler.TestRead, logMid.Handle))
	router.GET("/test-write", chain(deps.DiagnosticsHandler.TestWrite, logMid.Handle))
	router.POST("/test-write", chain(deps.DiagnosticsHandler.TestWrite, logMid.Handle))
	router.GET("/inspect-schema", chain(deps.DiagnosticsHandler.InspectSchema, logMid.Handle))

	return router
}

// Helper function to chain middlewares
func chain(handler http.HandlerFunc, middlewares ...func(http.HandlerFunc) http.HandlerFunc) httprouter.Handle {
	for i := len(middlewares) - 1; i >= 0; i-- {
		handler = middlewares[i](handler)
	}
	return wrap(handler)
}

// Convert http.HandlerFunc to httprouter.Handle
func wrap(handler http.HandlerFunc) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		handler(w, r)
	}
}

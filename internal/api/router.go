package api

import (
	"net/http"

	"lifeos-proxy/internal/services"

	"github.com/charmbracelet/log"
)

// NewRouter builds the full handler chain: request id and access log,
// panic recovery, CORS, then routing.
func NewRouter(service services.TaskService, logger *log.Logger) http.Handler {
	if logger == nil {
		logger = log.Default()
	}

	mux := http.NewServeMux()
	RegisterRoutes(mux, NewHandlers(service, logger))

	var handler http.Handler = mux
	handler = CORSMiddleware(handler)
	handler = RecoveryMiddleware(handler, logger)
	handler = RequestIDMiddleware(handler, logger)
	return handler
}

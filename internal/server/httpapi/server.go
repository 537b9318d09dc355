// Package httpapi exposes the learning-platform REST API.
package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"github.com/learnbatch/learnbatch/internal/service"
)

// Server wires services into HTTP handlers.
type Server struct {
	auth    service.AuthService
	users   service.UserService
	batches service.BatchService
	log     *zap.Logger
}

// New constructs an HTTP server with injected services.
func New(auth service.AuthService, users service.UserService, batches service.BatchService, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{auth: auth, users: users, batches: batches, log: log}
}

// Routes builds the route tree. Paths mirror the public API of the platform.
func (s *Server) Routes() *chi.Mux {
	r := chi.NewRouter()
	r.Use(
		RequestLogger(s.log),
		Recoverer(s.log),
	)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, r, map[string]string{"status": "ok"})
	})

	// signup and login issue the token other routes require
	r.Post("/saveuser", s.saveUser)
	r.Post("/loginuser", s.loginUser)

	r.Group(func(pr chi.Router) {
		pr.Use(s.requireAuth)

		pr.Get("/getuser", s.getUser)
		pr.Put("/updateuser", s.updateUser)

		pr.Post("/createbatch", s.createBatch)
		pr.Get("/getbatch/{id}", s.getBatch)
		pr.Put("/batchupdate/{batchId}", s.updateBatch)
	})

	return r
}

// Handler wraps the route tree with CORS for the browser frontend.
func (s *Server) Handler(allowedOrigins []string) http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedHeaders: []string{"Authorization", "Content-Type"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut},
	})
	return c.Handler(s.Routes())
}

// errorResponse is the failure envelope for every endpoint.
type errorResponse struct {
	Error string `json:"error"`
}

// writeError renders the uniform failure envelope.
func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	render.Status(r, status)
	render.JSON(w, r, errorResponse{Error: msg})
}

// internalError hides internals from the caller and logs them instead.
func (s *Server) internalError(w http.ResponseWriter, r *http.Request, err error) {
	s.log.Error("request failed",
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Error(err),
	)
	writeError(w, r, http.StatusInternalServerError, "internal server error")
}

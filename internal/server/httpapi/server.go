// Package httpapi exposes the registry over HTTP. It owns routing, token
// middleware, request decoding, and the mapping of service errors to
// status codes.
package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/akarpovs/filedepot/internal/logging"
	"github.com/akarpovs/filedepot/internal/server/services"
)

// TokenHeader carries the session token on authenticated requests.
const TokenHeader = "X-Token"

// Server wires the services to the HTTP routes.
type Server struct {
	users *services.UserService
	nodes *services.NodeService
	log   logging.Logger
}

func NewServer(users *services.UserService, nodes *services.NodeService, log logging.Logger) *Server {
	return &Server{users: users, nodes: nodes, log: log}
}

// Router assembles the route tree.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.Recoverer)

	r.Post("/users", s.handleRegister)
	r.Get("/connect", s.handleConnect)
	r.Get("/disconnect", s.handleDisconnect)

	r.Group(func(r chi.Router) {
		r.Use(s.requireToken)

		r.Get("/users/me", s.handleMe)
		r.Post("/files", s.handleCreateNode)
		r.Get("/files", s.handleListNodes)
		r.Get("/files/{id}", s.handleGetNode)
		r.Put("/files/{id}/publish", s.handleSetVisibility(true))
		r.Put("/files/{id}/unpublish", s.handleSetVisibility(false))
	})

	r.Group(func(r chi.Router) {
		r.Use(s.maybeToken)

		r.Get("/files/{id}/data", s.handleNodeData)
	})

	return r
}

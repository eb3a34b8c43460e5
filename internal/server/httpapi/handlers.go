package httpapi

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/akarpovs/filedepot/internal/common"
	"github.com/akarpovs/filedepot/internal/server/models"
	"github.com/akarpovs/filedepot/internal/server/tree"
)

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userBody struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

type tokenBody struct {
	Token string `json:"token"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, r, common.NewValidation("malformed_body", "Malformed request body"))
		return
	}

	user, err := s.users.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusCreated, userBody{ID: user.ID, Email: user.Email})
}

func (s *Server) handleConnect(w http.ResponseWriter, r *http.Request) {
	token, err := s.users.Login(r.Context(), r.Header.Get("Authorization"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, tokenBody{Token: token})
}

// handleDisconnect always answers 204: revoking an unknown or absent token
// is indistinguishable from revoking a live one.
func (s *Server) handleDisconnect(w http.ResponseWriter, r *http.Request) {
	s.users.Logout(r.Context(), r.Header.Get(TokenHeader))
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	user, err := s.users.GetByID(r.Context(), CallerID(r.Context()))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, userBody{ID: user.ID, Email: user.Email})
}

func (s *Server) handleCreateNode(w http.ResponseWriter, r *http.Request) {
	req, err := tree.DecodeCreateRequest(r.Body)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	node, err := s.nodes.Create(r.Context(), CallerID(r.Context()), req)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusCreated, node.Projection())
}

func (s *Server) handleListNodes(w http.ResponseWriter, r *http.Request) {
	// a malformed or missing page silently becomes the first page
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 0 {
		page = 0
	}

	list, err := s.nodes.List(r.Context(), CallerID(r.Context()), r.URL.Query().Get("parentId"), page)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	out := make([]models.NodeProjection, 0, len(list))
	for _, n := range list {
		out = append(out, n.Projection())
	}
	s.respondJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetNode(w http.ResponseWriter, r *http.Request) {
	node, err := s.nodes.Get(r.Context(), chi.URLParam(r, "id"), CallerID(r.Context()))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, node.Projection())
}

func (s *Server) handleSetVisibility(isPublic bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		node, err := s.nodes.SetVisibility(r.Context(), chi.URLParam(r, "id"), CallerID(r.Context()), isPublic)
		if err != nil {
			s.respondError(w, r, err)
			return
		}
		s.respondJSON(w, http.StatusOK, node.Projection())
	}
}

func (s *Server) handleNodeData(w http.ResponseWriter, r *http.Request) {
	rc, contentType, err := s.nodes.OpenPayload(r.Context(),
		chi.URLParam(r, "id"), CallerID(r.Context()), r.URL.Query().Get("size"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Type", contentType)
	if _, err := io.Copy(w, rc); err != nil {
		s.log.Error(r.Context(), "payload stream interrupted", "err", err)
	}
}

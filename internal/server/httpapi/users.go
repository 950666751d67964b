package httpapi

import (
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/storefront/internal/server/validation"
)

func (s *HTTPServer) listUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.users.List(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, toUserResponses(users))
}

func (s *HTTPServer) getUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", "user")
	if !ok {
		return
	}

	user, err := s.users.Get(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, toUserResponse(user))
}

func (s *HTTPServer) createUser(w http.ResponseWriter, r *http.Request) {
	var req userRequest
	if err := validation.Bind(r.Body, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	user, err := s.users.Create(r.Context(), req.toModel(0))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.logger.Info(r.Context(), "User created", "id", user.ID)
	writeJSON(w, r, http.StatusCreated, toUserResponse(user))
}

// updateUser validates the payload before looking the user up, so a bad
// payload for a missing id is a 400.
func (s *HTTPServer) updateUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", "user")
	if !ok {
		return
	}

	var req userRequest
	if err := validation.Bind(r.Body, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	user, err := s.users.Update(r.Context(), req.toModel(id))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, toUserResponse(user))
}

func (s *HTTPServer) deleteUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", "user")
	if !ok {
		return
	}

	if err := s.users.Delete(r.Context(), id); err != nil {
		s.writeError(w, r, err)
		return
	}

	s.logger.Info(r.Context(), "User deleted", "id", id)
	writeMessage(w, r, http.StatusOK, fmt.Sprintf("successfully deleted user %d", id))
}

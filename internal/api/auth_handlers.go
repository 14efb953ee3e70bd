package api

import (
	"errors"
	"net/http"

	"gatherly/internal/auth"
	"gatherly/internal/format"
	"gatherly/internal/models"
)

type registerRequest struct {
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	Password    string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionResponse struct {
	Token string       `json:"token"`
	User  *userPayload `json:"user"`
}

// userPayload is the user record without the password hash, carrying the
// resolved display name and avatar initials alongside the raw fields.
type userPayload struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName,omitempty"`
	Name        string `json:"name"`
	Initials    string `json:"initials"`
	CreatedAt   int64  `json:"createdAt"`
}

func toUserPayload(u *models.User) *userPayload {
	return &userPayload{
		ID:          u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		Name:        format.UserName(u),
		Initials:    format.UserInitials(u),
		CreatedAt:   u.CreatedAt,
	}
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := s.authenticator.Register(r.Context(), req.Email, req.DisplayName, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrWeakPassword):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, auth.ErrEmailExists):
			writeError(w, http.StatusConflict, err.Error())
		default:
			serviceError(w, err)
		}
		return
	}

	s.respondWithSession(w, user, http.StatusCreated)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := s.authenticator.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, http.StatusUnauthorized, auth.ErrInvalidCredentials.Error())
		return
	}

	s.respondWithSession(w, user, http.StatusOK)
}

func (s *Server) respondWithSession(w http.ResponseWriter, user *models.User, status int) {
	token, err := s.jwt.Generate(user)
	if err != nil {
		serviceError(w, err)
		return
	}
	writeJSON(w, status, sessionResponse{Token: token, User: toUserPayload(user)})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	user, err := s.users.GetUserByID(r.Context(), UserID(r.Context()))
	if err != nil {
		writeError(w, http.StatusNotFound, "user not found")
		return
	}
	writeJSON(w, http.StatusOK, toUserPayload(user))
}

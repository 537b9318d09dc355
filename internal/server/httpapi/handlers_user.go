package httpapi

import (
	"errors"
	"net/http"

	"github.com/go-chi/render"

	"github.com/learnbatch/learnbatch/internal/errs"
	"github.com/learnbatch/learnbatch/internal/model"
)

// saveUser handles POST /saveuser: create-or-return-existing, keyed by email.
func (s *Server) saveUser(w http.ResponseWriter, r *http.Request) {
	var req saveUserRequest
	if err := decodeValid(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	u, tokens, created, err := s.auth.Register(r.Context(), req.toModel())
	if err != nil {
		if errors.Is(err, errs.ErrValidation) {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		s.internalError(w, r, err)
		return
	}

	if !created {
		// idempotent-by-email: the stored record wins, no new token
		render.Status(r, http.StatusOK)
		render.JSON(w, r, struct {
			Message string      `json:"message"`
			User    *model.User `json:"user"`
		}{"User already exists", u})
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, struct {
		Message string      `json:"message"`
		User    *model.User `json:"user"`
		Token   string      `json:"token"`
	}{"User saved successfully", u, tokens.AccessToken})
}

// loginUser handles POST /loginuser.
func (s *Server) loginUser(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeValid(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	tokens, u, err := s.auth.LoginWithIP(r.Context(), req.Email, req.Password, r.RemoteAddr)
	if err != nil {
		switch {
		case errors.Is(err, errs.ErrValidation):
			writeError(w, r, http.StatusBadRequest, err.Error())
		case errors.Is(err, errs.ErrUnauthorized):
			writeError(w, r, http.StatusUnauthorized, "invalid email or password")
		case errors.Is(err, errs.ErrRateLimited):
			writeError(w, r, http.StatusTooManyRequests, "too many login attempts, try again later")
		default:
			s.internalError(w, r, err)
		}
		return
	}

	render.JSON(w, r, struct {
		Message string      `json:"message"`
		Token   string      `json:"token"`
		User    *model.User `json:"user"`
	}{"Login successful", tokens.AccessToken, u})
}

// getUser handles GET /getuser: the caller's own record, located by token identity.
func (s *Server) getUser(w http.ResponseWriter, r *http.Request) {
	claims, ok := ClaimsFromCtx(r.Context())
	if !ok {
		writeError(w, r, http.StatusUnauthorized, "unauthorized")
		return
	}

	u, err := s.users.GetByEmail(r.Context(), claims.Email)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			writeError(w, r, http.StatusNotFound, "user not found")
			return
		}
		s.internalError(w, r, err)
		return
	}
	render.JSON(w, r, u)
}

// updateUser handles PUT /updateuser: sparse profile patch.
func (s *Server) updateUser(w http.ResponseWriter, r *http.Request) {
	claims, ok := ClaimsFromCtx(r.Context())
	if !ok {
		writeError(w, r, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req updateUserRequest
	if err := decodeValid(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	u, err := s.users.UpdateProfile(r.Context(), claims.Email, req.toModel())
	if err != nil {
		switch {
		case errors.Is(err, errs.ErrValidation):
			writeError(w, r, http.StatusBadRequest, err.Error())
		case errors.Is(err, errs.ErrNotFound):
			writeError(w, r, http.StatusNotFound, "user not found")
		default:
			s.internalError(w, r, err)
		}
		return
	}

	render.JSON(w, r, struct {
		Message string      `json:"message"`
		User    *model.User `json:"user"`
	}{"User updated successfully", u})
}

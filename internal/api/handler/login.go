package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/orgstack/orghub/internal/api/response"
	"github.com/orgstack/orghub/internal/session"
)

// Sessions defines the login interface the handler depends on.
type Sessions interface {
	Login(ctx context.Context, email, password string) (*session.LoginResult, error)
}

// NewLoginHandler returns an http.HandlerFunc for POST /admin/login.
func NewLoginHandler(svc Sessions) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid JSON body", nil)
			return
		}
		if !validEmail(req.Email) {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "email must be a valid email address", nil)
			return
		}
		if req.Password == "" {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "password is required", nil)
			return
		}

		result, err := svc.Login(r.Context(), req.Email, req.Password)
		if err != nil {
			// Never reveal which part of the credentials was wrong.
			if errors.Is(err, session.ErrInvalidCredentials) {
				response.Error(w, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid credentials", nil)
				return
			}
			serverError(w, err)
			return
		}

		response.JSON(w, map[string]string{
			"access_token": result.AccessToken,
			"token_type":   result.TokenType,
			"org_id":       result.OrgID,
		})
	}
}

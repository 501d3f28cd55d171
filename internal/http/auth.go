package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/aulasoft/institution/internal/domain"
	"github.com/aulasoft/institution/internal/service"
	"github.com/aulasoft/institution/pkg/httpx"
)

// AuthHandler serves the /api/auth endpoints.
type AuthHandler struct {
	Auth   *service.AuthService
	Tokens *service.TokenService
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Role      string `json:"role"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// authResponse is the login/register/refresh success payload.
type authResponse struct {
	UserID          int64     `json:"userId"`
	FirstName       string    `json:"firstName"`
	LastName        string    `json:"lastName"`
	Email           string    `json:"email"`
	Role            string    `json:"role"`
	Token           string    `json:"token"`
	RefreshToken    string    `json:"refreshToken"`
	TokenExpiration time.Time `json:"tokenExpiration"`
}

func newAuthResponse(user domain.User, pair domain.TokenPair) authResponse {
	return authResponse{
		UserID:          user.ID,
		FirstName:       user.FirstName,
		LastName:        user.LastName,
		Email:           user.Email,
		Role:            user.Role.String(),
		Token:           pair.AccessToken,
		RefreshToken:    pair.RefreshToken,
		TokenExpiration: pair.ExpiresAt,
	}
}

// HandleLogin serves POST /api/auth/login.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Email == "" || req.Password == "" {
		respondError(w, http.StatusBadRequest, "email and password are required")
		return
	}

	user, pair, err := h.Auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			respondError(w, http.StatusUnauthorized, "invalid credentials")
			return
		}
		respondServiceError(w, r, err)
		return
	}

	httpx.NoCache(w)
	respondOK(w, http.StatusOK, "login successful", newAuthResponse(user, pair))
}

// HandleRegister serves POST /api/auth/register.
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Email == "" || req.Password == "" || req.FirstName == "" || req.LastName == "" {
		respondError(w, http.StatusBadRequest, "all fields are required")
		return
	}

	role, err := domain.ParseRole(req.Role)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid role", err.Error())
		return
	}

	user, pair, err := h.Auth.Register(r.Context(), req.FirstName, req.LastName, req.Email, req.Password, role)
	if err != nil {
		if errors.Is(err, service.ErrEmailTaken) {
			respondError(w, http.StatusConflict, "email already registered")
			return
		}
		respondServiceError(w, r, err)
		return
	}

	httpx.NoCache(w)
	respondOK(w, http.StatusCreated, "account created", newAuthResponse(user, pair))
}

// HandleLogout serves POST /api/auth/logout. The presented access token is
// revoked by jti together with every live refresh token of its subject.
// The acknowledgment is the same whether or not the token was still live.
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	raw := bearerToken(r)
	if raw == "" {
		respondError(w, http.StatusBadRequest, "missing bearer token")
		return
	}

	if err := h.Tokens.Revoke(r.Context(), raw); err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondOK(w, http.StatusOK, "logged out", nil)
}

// HandleRefresh serves POST /api/auth/refresh. The presented refresh token
// is consumed and replaced.
func (h *AuthHandler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	pair, user, err := h.Tokens.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		if errors.Is(err, service.ErrInvalidRefresh) {
			respondError(w, http.StatusUnauthorized, "invalid refresh token")
			return
		}
		respondServiceError(w, r, err)
		return
	}

	httpx.NoCache(w)
	respondOK(w, http.StatusOK, "token refreshed", newAuthResponse(user, pair))
}

func bearerToken(r *http.Request) string {
	authz := r.Header.Get("Authorization")
	if !strings.HasPrefix(authz, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(authz, "Bearer"))
}

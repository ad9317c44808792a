package handlers

import (
	"errors"
	"net/http"

	"github.com/dancefloor/backend/internal/logging"
	"github.com/dancefloor/backend/internal/middleware"
	"github.com/dancefloor/backend/internal/models"
	"github.com/dancefloor/backend/internal/services"
)

// AuthHandler registers DJs and issues their tokens.
type AuthHandler struct {
	accounts    *services.AccountService
	authService *services.AuthService
}

func NewAuthHandler(accounts *services.AccountService, authService *services.AuthService) *AuthHandler {
	return &AuthHandler{accounts: accounts, authService: authService}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	p, err := h.accounts.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		writeServiceError(r.Context(), w, err, "failed to register dj")
		return
	}

	h.respondWithToken(w, r, http.StatusCreated, p)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	p, err := h.accounts.Login(r.Context(), req.Email, req.Password)
	if errors.Is(err, services.ErrBadCredentials) {
		logging.LogSecurityEvent(r.Context(), logging.SecurityEventBadCredentials, "login with bad credentials")
	}
	if err != nil {
		writeServiceError(r.Context(), w, err, "failed to log in")
		return
	}

	h.respondWithToken(w, r, http.StatusOK, p)
}

// Me returns the caller's account as stored, which may be newer than the
// claims in the token.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	p := middleware.GetPrincipal(r.Context())
	dj, err := h.accounts.Account(r.Context(), p)
	if err != nil {
		writeServiceError(r.Context(), w, err, "failed to fetch account")
		return
	}
	writeJSON(w, http.StatusOK, services.AccountToResponse(dj))
}

func (h *AuthHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateProfileRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	dj, err := h.accounts.UpdateProfile(r.Context(), middleware.GetPrincipal(r.Context()), services.ProfileFromRequest(req))
	if err != nil {
		writeServiceError(r.Context(), w, err, "failed to update account")
		return
	}
	writeJSON(w, http.StatusOK, services.AccountToResponse(dj))
}

// DeleteMe removes the caller's account and every dancefloor they ran.
func (h *AuthHandler) DeleteMe(w http.ResponseWriter, r *http.Request) {
	var req models.DeleteAccountRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	err := h.accounts.Delete(r.Context(), middleware.GetPrincipal(r.Context()), req.Password)
	if errors.Is(err, services.ErrWrongPassword) {
		logging.LogSecurityEvent(r.Context(), logging.SecurityEventBadCredentials, "account deletion with wrong password")
	}
	if err != nil {
		writeServiceError(r.Context(), w, err, "failed to delete account")
		return
	}
	writeJSON(w, http.StatusOK, models.MessageAck{Message: "Account deleted successfully."})
}

func (h *AuthHandler) respondWithToken(w http.ResponseWriter, r *http.Request, status int, p services.Principal) {
	token, err := h.authService.GenerateToken(p)
	if err != nil {
		writeErrorWithCause(r.Context(), w, http.StatusInternalServerError, "failed to generate token", err)
		return
	}
	writeJSON(w, status, models.AuthResponse{
		Token: token,
		DJ:    models.DJResponse{ID: p.ID, Name: p.Name, Email: p.Email},
	})
}

package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"extynct-community/internal/httputil"
	"extynct-community/internal/model"
	"extynct-community/internal/service"
	"extynct-community/internal/transport/http/middleware"
)

// AuthHandler groups session endpoints and their dependencies.
type AuthHandler struct {
	accountService *service.AccountService
	sessionService *service.SessionService
}

// NewAuthHandler wires dependencies for authentication endpoints.
func NewAuthHandler(accountService *service.AccountService, sessionService *service.SessionService) *AuthHandler {
	return &AuthHandler{
		accountService: accountService,
		sessionService: sessionService,
	}
}

// SignIn handles credential sign-in
// POST /api/auth/signin
func (h *AuthHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	var req model.SignInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if tooLarge(err) {
			httputil.WritePayloadTooLarge(w, "Request body exceeds the 25MB limit")
			return
		}
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	if strings.TrimSpace(req.Identifier) == "" {
		httputil.WriteBadRequest(w, "Enter your email or username")
		return
	}
	if req.Password == "" {
		httputil.WriteBadRequest(w, "Enter your password")
		return
	}

	account, err := h.accountService.SignIn(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrAccountNotFound):
			httputil.WriteUnauthorized(w, "No account found for that email or username")
		case errors.Is(err, model.ErrLegacyDigest):
			httputil.WriteUnauthorized(w, "This account needs a password reset before it can sign in")
		case errors.Is(err, model.ErrIncorrectPassword):
			httputil.WriteUnauthorized(w, "Incorrect password")
		default:
			httputil.WriteInternalError(w, "Failed to sign in")
		}
		return
	}

	token, err := h.sessionService.Mint(r.Context(), account.ID)
	if err != nil {
		httputil.WriteInternalError(w, "Failed to start the session")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"account": account.Public(),
		"token":   token,
	})
}

// SignOut ends the caller's session. The token comes from the
// Authorization header or, failing that, a {token} body. Signing out a
// token that is already gone still succeeds.
// POST /api/auth/signout
func (h *AuthHandler) SignOut(w http.ResponseWriter, r *http.Request) {
	token := middleware.BearerToken(r)
	if token == "" {
		var body struct {
			Token string `json:"token"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err == nil {
			token = strings.TrimSpace(body.Token)
		}
	}
	if token == "" {
		httputil.WriteBadRequest(w, "Missing session token")
		return
	}

	if err := h.sessionService.Remove(r.Context(), token); err != nil {
		httputil.WriteInternalError(w, "Failed to sign out")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Session returns the account behind the caller's token
// GET /api/auth/session
func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	account, err := h.sessionService.Resolve(r.Context(), middleware.BearerToken(r))
	if err != nil {
		switch {
		case errors.Is(err, model.ErrMissingToken):
			httputil.WriteUnauthorized(w, "Missing session token")
		case errors.Is(err, model.ErrSessionNotFound), errors.Is(err, model.ErrSessionOrphaned):
			httputil.WriteUnauthorized(w, "Session expired. Please sign in again.")
		default:
			httputil.WriteInternalError(w, "Unable to verify the session")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"account": account.Public(),
	})
}

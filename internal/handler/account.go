package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"extynct-community/internal/httputil"
	"extynct-community/internal/model"
	"extynct-community/internal/service"
)

// AccountHandler serves account creation.
type AccountHandler struct {
	accountService *service.AccountService
	sessionService *service.SessionService
}

// NewAccountHandler wires dependencies for account endpoints.
func NewAccountHandler(accountService *service.AccountService, sessionService *service.SessionService) *AccountHandler {
	return &AccountHandler{
		accountService: accountService,
		sessionService: sessionService,
	}
}

// Create handles account sign-up
// POST /api/accounts
func (h *AccountHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CreateAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if tooLarge(err) {
			httputil.WritePayloadTooLarge(w, "Request body exceeds the 25MB limit")
			return
		}
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	// Browser clients confirm the password locally; API callers send a
	// single password field.
	if req.Confirm == "" {
		req.Confirm = req.Password
	}

	account, err := h.accountService.Create(r.Context(), &req)
	if err != nil {
		switch {
		case model.IsValidation(err):
			httputil.WriteBadRequest(w, err.Error())
		case errors.Is(err, model.ErrUsernameTaken), errors.Is(err, model.ErrEmailTaken):
			httputil.WriteConflictWithCode(w, model.CodeDuplicate, err.Error())
		default:
			httputil.WriteInternalError(w, "Failed to create the account")
		}
		return
	}

	token, err := h.sessionService.Mint(r.Context(), account.ID)
	if err != nil {
		httputil.WriteInternalError(w, "Account created but the session could not be started")
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, map[string]any{
		"account": account.Public(),
		"token":   token,
	})
}

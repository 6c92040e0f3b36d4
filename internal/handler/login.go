package handler

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"extynct-community/internal/httputil"
	"extynct-community/internal/model"
)

// adminTokenTTL bounds how long a legacy login token stays valid.
const adminTokenTTL = time.Hour

// LoginHandler serves the legacy admin login endpoint. Credentials come
// from configuration; entries may be plaintext or bcrypt hashes.
type LoginHandler struct {
	credentials map[string]string
	jwtSecret   string
	redirectURL string
}

// NewLoginHandler wires the legacy login endpoint.
func NewLoginHandler(credentials map[string]string, jwtSecret, redirectURL string) *LoginHandler {
	return &LoginHandler{
		credentials: credentials,
		jwtSecret:   jwtSecret,
		redirectURL: redirectURL,
	}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login checks the configured credential list and issues a short-lived
// token on success
// POST /api/login
func (h *LoginHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if tooLarge(err) {
			httputil.WritePayloadTooLarge(w, "Request body exceeds the 25MB limit")
			return
		}
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	username := strings.TrimSpace(req.Username)
	if username == "" || req.Password == "" {
		httputil.WriteBadRequest(w, "Username and password are required")
		return
	}

	secret, ok := h.credentials[username]
	if !ok || !matchSecret(secret, req.Password) {
		httputil.WriteUnauthorized(w, model.ErrInvalidCredentials.Error())
		return
	}

	token, err := h.mintToken(username)
	if err != nil {
		httputil.WriteInternalError(w, "Failed to issue a login token")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]string{
		"token":       token,
		"redirectUrl": h.redirectURL,
	})
}

func (h *LoginHandler) mintToken(username string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": username,
		"iat": now.Unix(),
		"exp": now.Add(adminTokenTTL).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(h.jwtSecret))
}

// matchSecret compares the presented password against a configured
// entry. Entries starting with "$2" are bcrypt hashes.
func matchSecret(stored, presented string) bool {
	if strings.HasPrefix(stored, "$2") {
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(presented)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(stored), []byte(presented)) == 1
}

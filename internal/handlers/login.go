package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/swaglabs/storefront-e2e/internal/accounts"
)

// Login error messages, as worded by the hosted storefront
const (
	MsgUsernameRequired = "Epic sadface: Username is required"
	MsgPasswordRequired = "Epic sadface: Password is required"
	MsgNoMatch          = "Epic sadface: Username and password do not match any user in this service"
	MsgLockedOut        = "Epic sadface: Sorry, this user has been locked out."
)

// LoginHandler validates credentials against the catalog
type LoginHandler struct {
	catalog     *accounts.Catalog
	glitchDelay time.Duration
	log         logrus.FieldLogger
	sleep       func(time.Duration)
}

// NewLoginHandler creates a login handler. performance_glitch_user logins
// are held for glitchDelay.
func NewLoginHandler(catalog *accounts.Catalog, glitchDelay time.Duration, log logrus.FieldLogger) *LoginHandler {
	return &LoginHandler{
		catalog:     catalog,
		glitchDelay: glitchDelay,
		log:         log,
		sleep:       time.Sleep,
	}
}

// LoginRequest is the body of POST /api/login
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse is returned on success
type LoginResponse struct {
	Username string `json:"username"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// ServeHTTP handles the login request
func (h *LoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendErrorResponse(w, "Malformed login request", http.StatusBadRequest)
		return
	}

	if req.Username == "" {
		sendErrorResponse(w, MsgUsernameRequired, http.StatusBadRequest)
		return
	}
	if req.Password == "" {
		sendErrorResponse(w, MsgPasswordRequired, http.StatusBadRequest)
		return
	}

	account, err := h.catalog.Lookup(req.Username)
	if err != nil || account.Password != req.Password {
		h.log.WithField("account", req.Username).Debug("Rejected login")
		sendErrorResponse(w, MsgNoMatch, http.StatusUnauthorized)
		return
	}
	if account.ExpectedBehavior == accounts.BehaviorLockedOut {
		h.log.WithField("account", req.Username).Debug("Locked out login")
		sendErrorResponse(w, MsgLockedOut, http.StatusForbidden)
		return
	}
	if account.Username == accounts.PerformanceGlitchUser && h.glitchDelay > 0 {
		h.sleep(h.glitchDelay)
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(LoginResponse{Username: account.Username}); err != nil {
		h.log.WithError(err).Warn("Error encoding login response")
	}
}

// sendErrorResponse sends a JSON error response
func sendErrorResponse(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(ErrorResponse{
		Error:   http.StatusText(statusCode),
		Message: message,
	})
}

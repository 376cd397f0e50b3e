package handlers

import (
	"encoding/json"
	"net/http"

	"planclan/internal/common/errors"
	"planclan/internal/common/logging"
	"planclan/internal/common/validation"
)

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// HandleLogin authenticates credentials and sets the session cookie. The
// response also carries a bearer token for clients that prefer headers
// over cookies.
func (h *Handlers) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var creds credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		writeError(w, errors.ValidationError("invalid JSON body"))
		return
	}

	sessionID, session, err := h.auth.Login(creds.Username, creds.Password)
	if err != nil {
		writeError(w, errors.AuthError("invalid credentials"))
		return
	}

	token, err := h.auth.IssueToken(creds.Username, creds.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     "session",
		Value:    sessionID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
		Expires:  session.ExpiresAt,
	})

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"user_id":    session.UserID,
		"username":   session.Username,
		"is_default": session.IsDefault,
		"token":      token,
	})
}

// HandleLogout invalidates the session and clears the cookie.
func (h *Handlers) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie("session"); err == nil {
		h.auth.Logout(cookie.Value)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     "session",
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})

	w.WriteHeader(http.StatusNoContent)
}

// HandleRegister creates a new account.
func (h *Handlers) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var creds credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		writeError(w, errors.ValidationError("invalid JSON body"))
		return
	}

	v := validation.NewValidator()
	v.RequireString(creds.Username, "username").
		RequireMinLength(creds.Password, 8, "password")
	if v.HasErrors() {
		writeError(w, errors.ValidationError(v.Error().Error()))
		return
	}

	if existing, err := h.storage.GetUserByUsername(creds.Username); err == nil && existing != nil {
		writeError(w, errors.ValidationError("username is already taken"))
		return
	}

	user, err := h.storage.CreateUser(creds.Username, creds.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	logging.Info("User registered",
		logging.Field{Key: "user_id", Value: user.ID},
		logging.Field{Key: "username", Value: user.Username},
	)

	writeJSON(w, http.StatusCreated, user)
}

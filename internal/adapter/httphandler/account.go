package httphandler

import (
	"net/http"
	"time"

	"github.com/niksmo/snublejuice/internal/core/domain"
	"github.com/niksmo/snublejuice/internal/core/port"
)

const (
	tokenCookie    = "token"
	tokenCookieAge = 365 * 24 * time.Hour
)

type AccountHandler struct {
	accounts     port.AccountManager
	secureCookie bool
}

// RegisterAccount mounts the account routes. Session cookies are marked
// Secure when secureCookie is set.
func RegisterAccount(mux *http.ServeMux, accounts port.AccountManager, secureCookie bool) {
	h := AccountHandler{accounts, secureCookie}
	mux.HandleFunc("POST /account/register", h.Register)
	mux.HandleFunc("POST /account/login", h.Login)
	mux.HandleFunc("POST /account/logout", h.Logout)
	mux.HandleFunc("POST /account/delete", h.Delete)
	mux.HandleFunc("POST /account/favourite", h.Favourite)
	mux.HandleFunc("POST /account/notification", h.Notification)
	mux.HandleFunc("GET /account/profile", h.Profile)
}

func (h AccountHandler) Register(w http.ResponseWriter, r *http.Request) {
	const op = "AccountHandler.Register"
	log := requestLogger(r, op)

	var req RegisterRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, log, err)
		return
	}

	token, err := h.accounts.Register(
		r.Context(), req.Username, req.Email, req.Password, req.Notify,
	)
	if err != nil {
		writeError(w, log, err)
		return
	}

	h.setToken(w, token)
	writeJSON(w, log, http.StatusCreated, Message{
		Message:  "registered",
		Username: req.Username,
	})
}

func (h AccountHandler) Login(w http.ResponseWriter, r *http.Request) {
	const op = "AccountHandler.Login"
	log := requestLogger(r, op)

	var req Credentials
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, log, err)
		return
	}

	token, err := h.accounts.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		writeError(w, log, err)
		return
	}

	h.setToken(w, token)
	writeJSON(w, log, http.StatusOK, Message{
		Message:  "logged in",
		Username: req.Username,
	})
}

func (h AccountHandler) Logout(w http.ResponseWriter, r *http.Request) {
	const op = "AccountHandler.Logout"
	log := requestLogger(r, op)

	h.clearToken(w)
	writeJSON(w, log, http.StatusOK, Message{Message: "logged out"})
}

// Delete removes the account named in the body once its password
// is confirmed.
func (h AccountHandler) Delete(w http.ResponseWriter, r *http.Request) {
	const op = "AccountHandler.Delete"
	log := requestLogger(r, op)

	var req Credentials
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, log, err)
		return
	}

	if err := h.accounts.DeleteAccount(r.Context(), req.Username, req.Password); err != nil {
		writeError(w, log, err)
		return
	}

	h.clearToken(w)
	writeJSON(w, log, http.StatusOK, Message{Message: "user deleted"})
}

func (h AccountHandler) Favourite(w http.ResponseWriter, r *http.Request) {
	const op = "AccountHandler.Favourite"
	log := requestLogger(r, op)

	username, err := h.authenticate(r)
	if err != nil {
		writeError(w, log, err)
		return
	}

	var req FavouriteRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, log, err)
		return
	}

	added, err := h.accounts.ToggleFavourite(r.Context(), username, req.Index)
	if err != nil {
		writeError(w, log, err)
		return
	}
	writeJSON(w, log, http.StatusOK, Message{
		Message: "favourite updated",
		Added:   &added,
	})
}

func (h AccountHandler) Notification(w http.ResponseWriter, r *http.Request) {
	const op = "AccountHandler.Notification"
	log := requestLogger(r, op)

	username, err := h.authenticate(r)
	if err != nil {
		writeError(w, log, err)
		return
	}

	var req NotificationRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, log, err)
		return
	}

	if err := h.accounts.SetNotification(r.Context(), username, req.Notify); err != nil {
		writeError(w, log, err)
		return
	}

	msg := "notifications disabled"
	if req.Notify {
		msg = "notifications enabled"
	}
	writeJSON(w, log, http.StatusOK, Message{Message: msg})
}

func (h AccountHandler) Profile(w http.ResponseWriter, r *http.Request) {
	const op = "AccountHandler.Profile"
	log := requestLogger(r, op)

	username, err := h.authenticate(r)
	if err != nil {
		writeError(w, log, err)
		return
	}

	u, err := h.accounts.Profile(r.Context(), username)
	if err != nil {
		writeError(w, log, err)
		return
	}
	writeJSON(w, log, http.StatusOK, fromDomainUser(u))
}

func (h AccountHandler) authenticate(r *http.Request) (string, error) {
	c, err := r.Cookie(tokenCookie)
	if err != nil {
		return "", domain.ErrUnauthorized
	}
	return h.accounts.Authenticate(c.Value)
}

func (h AccountHandler) setToken(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     tokenCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(tokenCookieAge.Seconds()),
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h AccountHandler) clearToken(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     tokenCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}

package handler

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"quillfeed/internal/httputil"
	"quillfeed/internal/model"
	"quillfeed/internal/render"
	"quillfeed/internal/service"
)

type AuthHandler struct {
	userService *service.UserService
	authService *service.AuthService
	render      render.Renderer
}

func NewAuthHandler(userService *service.UserService, authService *service.AuthService, rnd render.Renderer) *AuthHandler {
	return &AuthHandler{
		userService: userService,
		authService: authService,
		render:      rnd,
	}
}

// Login handles GET and POST /auth/login/
// A successful login returns the user to the path in ?next=, or the index.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet {
		data := baseContext(r)
		data["next"] = r.URL.Query().Get("next")
		h.render.HTML(w, http.StatusOK, "login.html", data)
		return
	}

	username := r.FormValue("username")
	password := r.FormValue("password")

	user, err := h.userService.Authenticate(r.Context(), username, password)
	if err != nil {
		if errors.Is(err, model.ErrWrongCredentials) {
			data := baseContext(r)
			data["error"] = "Wrong username or password."
			data["next"] = r.FormValue("next")
			h.render.HTML(w, http.StatusOK, "login.html", data)
			return
		}
		log.Printf("[ERROR] Login handler: %v", err)
		httputil.ServerError(h.render, w)
		return
	}

	if !h.setSession(w, user) {
		httputil.ServerError(h.render, w)
		return
	}
	httputil.Redirect(w, r, safeNext(r.FormValue("next")))
}

// Signup handles GET and POST /auth/signup/
// Registration logs the new account in immediately.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet {
		h.render.HTML(w, http.StatusOK, "signup.html", baseContext(r))
		return
	}

	username := strings.TrimSpace(r.FormValue("username"))
	password := r.FormValue("password")

	user, err := h.userService.Register(r.Context(), username, password)
	if err != nil {
		msg := ""
		switch {
		case errors.Is(err, model.ErrUsernameRequired):
			msg = "Username is required."
		case errors.Is(err, model.ErrUsernameTooLong):
			msg = "Username is too long."
		case errors.Is(err, model.ErrUsernameTaken):
			msg = "That username is taken."
		case errors.Is(err, model.ErrPasswordTooShort):
			msg = "Password must be at least 8 characters."
		default:
			log.Printf("[ERROR] Signup handler: %v", err)
			httputil.ServerError(h.render, w)
			return
		}
		data := baseContext(r)
		data["error"] = msg
		h.render.HTML(w, http.StatusOK, "signup.html", data)
		return
	}

	if !h.setSession(w, user) {
		httputil.ServerError(h.render, w)
		return
	}
	httputil.Redirect(w, r, "/")
}

// Logout handles GET /auth/logout/
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, h.authService.ClearSessionCookie())
	httputil.Redirect(w, r, "/")
}

func (h *AuthHandler) setSession(w http.ResponseWriter, user *model.User) bool {
	token, err := h.authService.IssueToken(user)
	if err != nil {
		log.Printf("[ERROR] issue session token: user=%d err=%v", user.ID, err)
		return false
	}
	http.SetCookie(w, h.authService.SessionCookie(token))
	return true
}

// safeNext keeps redirects on this site: only rooted paths are honored.
func safeNext(next string) string {
	if strings.HasPrefix(next, "/") && !strings.HasPrefix(next, "//") {
		return next
	}
	return "/"
}

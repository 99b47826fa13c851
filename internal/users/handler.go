package users

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"aura-backend/internal/httpx"
	"aura-backend/internal/middleware"
	"aura-backend/internal/transport"
	"aura-backend/internal/validation"
)

const RefreshCookie = "aura_refresh"

var loginMessages = map[string]string{
	"email":    "A valid email is required",
	"password": "Password is required",
}

type Handler struct {
	service      *Service
	val          *validation.Validator
	log          *slog.Logger
	cookieSecure bool
	expose       bool
}

func NewHandler(service *Service, val *validation.Validator, log *slog.Logger, cookieSecure, exposeErrors bool) *Handler {
	return &Handler{
		service:      service,
		val:          val,
		log:          log,
		cookieSecure: cookieSecure,
		expose:       exposeErrors,
	}
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)

	var req LoginRequest
	if err := httpx.DecodeJSON(r.Body, &req); err != nil {
		log.Warn("admin login: invalid json")
		transport.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	req.Email = normalizeEmail(req.Email)
	if missing := h.val.Violations(req, loginMessages); len(missing) > 0 {
		log.Warn("admin login: validation error")
		transport.WriteStatus(w, http.StatusBadRequest, "Some fields are missing!", transport.Body{
			"missingFields": missing,
		})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	user, tokens, err := h.service.Login(ctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, ErrTokensDisabled) {
			log.Warn("admin login: not configured")
			transport.WriteError(w, http.StatusServiceUnavailable, "Authentication is not configured")
			return
		}
		if errors.Is(err, ErrInvalidCredentials) {
			log.Warn("admin login: invalid credentials", slog.String("email", req.Email))
			transport.WriteError(w, http.StatusUnauthorized, "Invalid email or password")
			return
		}
		log.Error("admin login: database error", slog.String("error", err.Error()))
		transport.WriteInternal(w, err, h.expose)
		return
	}

	h.setCookies(w, tokens)
	log.Info("admin login: ok", slog.String("user_id", user.ID))
	transport.WriteStatus(w, http.StatusOK, "Login successful", transport.Body{
		"user":   user,
		"tokens": tokens,
	})
}

func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)

	token := ""
	if c, err := r.Cookie(RefreshCookie); err == nil {
		token = c.Value
	}
	if token == "" {
		var req RefreshRequest
		_ = httpx.DecodeLooseJSON(r.Body, &req)
		token = strings.TrimSpace(req.RefreshToken)
	}
	if token == "" {
		log.Warn("admin refresh: missing refresh token")
		transport.WriteError(w, http.StatusUnauthorized, "Missing refresh token")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	user, tokens, err := h.service.Refresh(ctx, token)
	if err != nil {
		if errors.Is(err, ErrTokensDisabled) {
			log.Warn("admin refresh: not configured")
			transport.WriteError(w, http.StatusServiceUnavailable, "Authentication is not configured")
			return
		}
		if errors.Is(err, ErrInvalidCredentials) {
			log.Warn("admin refresh: invalid refresh token")
			h.clearCookies(w)
			transport.WriteError(w, http.StatusUnauthorized, "Invalid refresh token")
			return
		}
		log.Error("admin refresh: database error", slog.String("error", err.Error()))
		transport.WriteInternal(w, err, h.expose)
		return
	}

	h.setCookies(w, tokens)
	log.Info("admin refresh: ok", slog.String("user_id", user.ID))
	transport.WriteStatus(w, http.StatusOK, "Token refreshed", transport.Body{
		"tokens": tokens,
	})
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	h.clearCookies(w)
	h.logWithRequest(r).Info("admin logout: ok")
	transport.WriteStatus(w, http.StatusOK, "Logged out", nil)
}

func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	id, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		transport.WriteError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	user, err := h.service.Get(ctx, id.UserID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			// Static API key callers have no user document.
			transport.WriteStatus(w, http.StatusOK, "ok", transport.Body{
				"user": User{ID: id.UserID, Email: id.Email, Role: id.Role},
			})
			return
		}
		log.Error("admin me: database error", slog.String("error", err.Error()))
		transport.WriteInternal(w, err, h.expose)
		return
	}

	log.Info("admin me: ok", slog.String("user_id", user.ID))
	transport.WriteStatus(w, http.StatusOK, "ok", transport.Body{"user": user})
}

func (h *Handler) setCookies(w http.ResponseWriter, t Tokens) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.AccessCookie,
		Value:    t.AccessToken,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(h.service.AccessTTL().Seconds()),
	})
	http.SetCookie(w, &http.Cookie{
		Name:     RefreshCookie,
		Value:    t.RefreshToken,
		Path:     "/admin",
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(h.service.RefreshTTL().Seconds()),
	})
}

func (h *Handler) clearCookies(w http.ResponseWriter) {
	expire := time.Now().Add(-time.Hour)
	for _, c := range []struct{ name, path string }{
		{middleware.AccessCookie, "/"},
		{RefreshCookie, "/admin"},
	} {
		http.SetCookie(w, &http.Cookie{
			Name:     c.name,
			Value:    "",
			Path:     c.path,
			HttpOnly: true,
			Secure:   h.cookieSecure,
			SameSite: http.SameSiteLaxMode,
			Expires:  expire,
			MaxAge:   -1,
		})
	}
}

func (h *Handler) logWithRequest(r *http.Request) *slog.Logger {
	if r == nil {
		return h.log
	}
	if id := middleware.RequestIDFromContext(r.Context()); id != "" {
		return h.log.With(slog.String("request_id", id))
	}
	return h.log
}

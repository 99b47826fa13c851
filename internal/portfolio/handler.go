package portfolio

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
	"aura-backend/internal/uploads"
	"aura-backend/internal/validation"
	"github.com/go-chi/chi/v5"
)

var fieldMessages = map[string]string{
	"title": "Title is required",
	"url":   "URL must be a valid link",
}

type Handler struct {
	service *Service
	uploads *uploads.Store
	val     *validation.Validator
	log     *slog.Logger
	expose  bool
}

func NewHandler(service *Service, store *uploads.Store, val *validation.Validator, log *slog.Logger, exposeErrors bool) *Handler {
	return &Handler{
		service: service,
		uploads: store,
		val:     val,
		log:     log,
		expose:  exposeErrors,
	}
}

// decode reads a JSON or multipart body. An attached image is stored and its URL
// replaces the image field; the stored file is returned so a failed write can drop it.
func (h *Handler) decode(w http.ResponseWriter, r *http.Request, log *slog.Logger, op string) (UpsertRequest, uploads.Saved, bool) {
	var req UpsertRequest
	var saved uploads.Saved
	if uploads.IsMultipart(r) && h.uploads != nil {
		form, fh, err := h.uploads.ParseSingle(w, r, uploads.ImageField)
		if err != nil {
			log.Warn(op+": upload rejected", slog.String("error", err.Error()))
			uploads.WriteError(w, err, h.expose)
			return UpsertRequest{}, uploads.Saved{}, false
		}
		req = RequestFromForm(form)
		if fh != nil {
			saved, err = h.uploads.SaveImage(fh)
			if err != nil {
				log.Warn(op+": upload rejected", slog.String("error", err.Error()))
				uploads.WriteError(w, err, h.expose)
				return UpsertRequest{}, uploads.Saved{}, false
			}
			req.Image = saved.URL
		}
	} else if err := httpx.DecodeLooseJSON(r.Body, &req); err != nil {
		log.Warn(op + ": invalid json")
		transport.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return UpsertRequest{}, uploads.Saved{}, false
	}

	req.normalize()
	if missing := h.val.Violations(req, fieldMessages); len(missing) > 0 {
		h.discard(log, op, saved)
		log.Warn(op + ": validation error")
		transport.WriteStatus(w, http.StatusBadRequest, "Some fields are missing!", transport.Body{
			"missingFields": missing,
		})
		return UpsertRequest{}, uploads.Saved{}, false
	}
	return req, saved, true
}

func (h *Handler) discard(log *slog.Logger, op string, saved uploads.Saved) {
	if h.uploads == nil || saved.Name == "" {
		return
	}
	if err := h.uploads.Discard(saved); err != nil {
		log.Warn(op+": discard upload failed", slog.String("file", saved.Name), slog.String("error", err.Error()))
	}
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	req, saved, ok := h.decode(w, r, log, "portfolio create")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	item, err := h.service.Create(ctx, req)
	if err != nil {
		h.discard(log, "portfolio create", saved)
		log.Error("portfolio create: database error", slog.String("error", err.Error()))
		transport.WriteInternal(w, err, h.expose)
		return
	}

	log.Info("portfolio create: ok", slog.String("portfolio_id", item.ID))
	transport.WriteStatus(w, http.StatusCreated, "Portfolio created successfully", transport.Body{"portfolio": item})
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	req, saved, ok := h.decode(w, r, log, "portfolio update")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	item, err := h.service.Update(ctx, id, req)
	if err != nil {
		h.discard(log, "portfolio update", saved)
		if errors.Is(err, ErrNotFound) {
			log.Warn("portfolio update: not found", slog.String("portfolio_id", id))
			transport.WriteError(w, http.StatusNotFound, "Portfolio not found")
			return
		}
		log.Error("portfolio update: database error", slog.String("error", err.Error()))
		transport.WriteInternal(w, err, h.expose)
		return
	}

	log.Info("portfolio update: ok", slog.String("portfolio_id", id))
	transport.WriteStatus(w, http.StatusOK, "Portfolio updated successfully", transport.Body{"portfolio": item})
}

func (h *Handler) PublicList(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, "portfolio public list", true)
}

func (h *Handler) AdminList(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, "portfolio admin list", false)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request, op string, publishedOnly bool) {
	log := h.logWithRequest(r)
	page := httpx.ParsePage(r.URL.Query())
	filter := ListFilter{Title: r.URL.Query().Get("title"), PublishedOnly: publishedOnly}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	items, total, err := h.service.List(ctx, filter, page)
	if err != nil {
		log.Error(op+": database error", slog.String("error", err.Error()))
		transport.WriteInternal(w, err, h.expose)
		return
	}
	if items == nil {
		items = []Item{}
	}

	log.Info(op+": ok", slog.Int("count", len(items)))
	transport.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"totalPortfolios": total,
		"totalPages":      page.TotalPages(total),
		"currentPage":     page.Page,
		"limit":           page.Limit,
		"portfolios":      items,
	})
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	id := strings.TrimSpace(chi.URLParam(r, "id"))

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	item, err := h.service.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			transport.WriteError(w, http.StatusNotFound, "Portfolio not found")
			return
		}
		log.Error("portfolio get: database error", slog.String("error", err.Error()))
		transport.WriteInternal(w, err, h.expose)
		return
	}

	transport.WriteStatus(w, http.StatusOK, "Portfolio fetched successfully", transport.Body{"portfolio": item})
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	id := strings.TrimSpace(chi.URLParam(r, "id"))

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.service.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			log.Warn("portfolio delete: not found", slog.String("portfolio_id", id))
			transport.WriteError(w, http.StatusNotFound, "Portfolio not found")
			return
		}
		log.Error("portfolio delete: database error", slog.String("error", err.Error()))
		transport.WriteInternal(w, err, h.expose)
		return
	}

	log.Info("portfolio delete: ok", slog.String("portfolio_id", id))
	transport.WriteStatus(w, http.StatusOK, "Portfolio deleted successfully", nil)
}

func (h *Handler) DeleteMany(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)

	var body httpx.IDList
	_ = httpx.DecodeLooseJSON(r.Body, &body)
	ids := body.Clean()
	if len(ids) == 0 {
		log.Warn("portfolio delete many: no ids")
		transport.WriteError(w, http.StatusBadRequest, "Invalid request. Provide portfolio IDs.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	deleted, err := h.service.DeleteMany(ctx, ids)
	if err != nil {
		log.Error("portfolio delete many: database error", slog.String("error", err.Error()))
		transport.WriteInternal(w, err, h.expose)
		return
	}

	log.Info("portfolio delete many: ok", slog.Int64("deleted", deleted))
	transport.WriteStatus(w, http.StatusOK, "Portfolios deleted successfully.", transport.Body{"deletedCount": deleted})
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

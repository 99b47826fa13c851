package faqs

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
	"github.com/go-chi/chi/v5"
)

var fieldMessages = map[string]string{
	"question": "Question is required",
	"answer":   "Answer is required",
}

type Handler struct {
	service *Service
	val     *validation.Validator
	log     *slog.Logger
	expose  bool
}

func NewHandler(service *Service, val *validation.Validator, log *slog.Logger, exposeErrors bool) *Handler {
	return &Handler{
		service: service,
		val:     val,
		log:     log,
		expose:  exposeErrors,
	}
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, log *slog.Logger, op string) (UpsertRequest, bool) {
	var req UpsertRequest
	if err := httpx.DecodeLooseJSON(r.Body, &req); err != nil {
		log.Warn(op + ": invalid json")
		transport.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return UpsertRequest{}, false
	}
	req.normalize()
	if missing := h.val.Violations(req, fieldMessages); len(missing) > 0 {
		log.Warn(op + ": validation error")
		transport.WriteStatus(w, http.StatusBadRequest, "Some fields are missing!", transport.Body{
			"missingFields": missing,
		})
		return UpsertRequest{}, false
	}
	return req, true
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	req, ok := h.decode(w, r, log, "faqs create")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	item, err := h.service.Create(ctx, req)
	if err != nil {
		log.Error("faqs create: database error", slog.String("error", err.Error()))
		transport.WriteInternal(w, err, h.expose)
		return
	}

	log.Info("faqs create: ok", slog.String("faq_id", item.ID))
	transport.WriteStatus(w, http.StatusCreated, "FAQ created successfully", transport.Body{"faq": item})
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	req, ok := h.decode(w, r, log, "faqs update")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	item, err := h.service.Update(ctx, id, req)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			log.Warn("faqs update: not found", slog.String("faq_id", id))
			transport.WriteError(w, http.StatusNotFound, "FAQ not found")
			return
		}
		log.Error("faqs update: database error", slog.String("error", err.Error()))
		transport.WriteInternal(w, err, h.expose)
		return
	}

	log.Info("faqs update: ok", slog.String("faq_id", id))
	transport.WriteStatus(w, http.StatusOK, "FAQ updated successfully", transport.Body{"faq": item})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	page := httpx.ParsePage(r.URL.Query())

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	items, total, err := h.service.List(ctx, ListFilter{Question: r.URL.Query().Get("question")}, page)
	if err != nil {
		log.Error("faqs list: database error", slog.String("error", err.Error()))
		transport.WriteInternal(w, err, h.expose)
		return
	}
	if items == nil {
		items = []FAQ{}
	}

	log.Info("faqs list: ok", slog.Int("count", len(items)))
	transport.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"totalFaqs":   total,
		"totalPages":  page.TotalPages(total),
		"currentPage": page.Page,
		"limit":       page.Limit,
		"faqs":        items,
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
			transport.WriteError(w, http.StatusNotFound, "FAQ not found")
			return
		}
		log.Error("faqs get: database error", slog.String("error", err.Error()))
		transport.WriteInternal(w, err, h.expose)
		return
	}

	transport.WriteStatus(w, http.StatusOK, "FAQ fetched successfully", transport.Body{"faq": item})
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	id := strings.TrimSpace(chi.URLParam(r, "id"))

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.service.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			log.Warn("faqs delete: not found", slog.String("faq_id", id))
			transport.WriteError(w, http.StatusNotFound, "FAQ not found")
			return
		}
		log.Error("faqs delete: database error", slog.String("error", err.Error()))
		transport.WriteInternal(w, err, h.expose)
		return
	}

	log.Info("faqs delete: ok", slog.String("faq_id", id))
	transport.WriteStatus(w, http.StatusOK, "FAQ deleted successfully", nil)
}

func (h *Handler) DeleteMany(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)

	var body httpx.IDList
	_ = httpx.DecodeLooseJSON(r.Body, &body)
	ids := body.Clean()
	if len(ids) == 0 {
		log.Warn("faqs delete many: no ids")
		transport.WriteError(w, http.StatusBadRequest, "Invalid request. Provide FAQ IDs.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	deleted, err := h.service.DeleteMany(ctx, ids)
	if err != nil {
		log.Error("faqs delete many: database error", slog.String("error", err.Error()))
		transport.WriteInternal(w, err, h.expose)
		return
	}

	log.Info("faqs delete many: ok", slog.Int64("deleted", deleted))
	transport.WriteStatus(w, http.StatusOK, "FAQs deleted successfully.", transport.Body{"deletedCount": deleted})
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

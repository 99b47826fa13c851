package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"aura-backend/internal/cache"
	"aura-backend/internal/httpx"
	"aura-backend/internal/middleware"
	"aura-backend/internal/transport"
	"aura-backend/internal/uploads"

	"github.com/go-chi/chi/v5"
)

const (
	cacheArea    = "services"
	messageFound = "Service not found"
)

var errBadBody = errors.New("invalid request body")

type Handler struct {
	service  *Service
	uploads  *uploads.Store
	cache    cache.Cache
	cacheTTL time.Duration
	log      *slog.Logger
	expose   bool
}

// NewHandler wires the HTTP surface of services. store may be nil, in which case
// multipart updates are answered without attaching an image.
func NewHandler(service *Service, store *uploads.Store, c cache.Cache, cacheTTL time.Duration, log *slog.Logger, exposeErrors bool) *Handler {
	if c == nil {
		c = cache.NewNoop()
	}
	return &Handler{
		service:  service,
		uploads:  store,
		cache:    c,
		cacheTTL: cacheTTL,
		log:      log,
		expose:   exposeErrors,
	}
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)

	var req CreateRequest
	if err := httpx.DecodeLooseJSON(r.Body, &req); err != nil {
		log.Warn("services create: invalid json", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	item, err := h.service.Create(ctx, req)
	if err != nil {
		if h.writeValidation(w, log, "services create", err) {
			return
		}
		log.Error("services create: database error", slog.String("error", err.Error()))
		transport.WriteInternal(w, err, h.expose)
		return
	}

	h.invalidate(ctx, log)
	log.Info("services create: ok", slog.String("service_id", item.ID), slog.String("slug", item.Slug))
	transport.WriteStatus(w, http.StatusCreated, "Service created successfully", transport.Body{
		"service": item,
	})
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	id := strings.TrimSpace(chi.URLParam(r, "id"))

	req, saved, err := h.decodeUpdate(w, r)
	if err != nil {
		switch {
		case errors.Is(err, errBadBody):
			log.Warn("services update: invalid body", slog.String("service_id", id), slog.String("error", err.Error()))
			transport.WriteError(w, http.StatusBadRequest, "Invalid request body")
		case uploads.IsClientError(err):
			log.Warn("services update: upload rejected", slog.String("service_id", id), slog.String("error", err.Error()))
			uploads.WriteError(w, err, h.expose)
		default:
			log.Error("services update: upload failed", slog.String("service_id", id), slog.String("error", err.Error()))
			transport.WriteInternal(w, err, h.expose)
		}
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	item, err := h.service.Update(ctx, id, req)
	if err != nil {
		h.discard(log, saved)
		if errors.Is(err, ErrNotFound) {
			log.Warn("services update: not found", slog.String("service_id", id))
			transport.WriteError(w, http.StatusNotFound, messageFound)
			return
		}
		if h.writeValidation(w, log, "services update", err) {
			return
		}
		log.Error("services update: database error", slog.String("error", err.Error()))
		transport.WriteInternal(w, err, h.expose)
		return
	}

	h.invalidate(ctx, log)
	log.Info("services update: ok", slog.String("service_id", item.ID))
	transport.WriteStatus(w, http.StatusOK, "Service updated successfully", transport.Body{
		"service": item,
	})
}

// decodeUpdate reads either a JSON body or a multipart form. A file sent as
// "image" fills how_we_delivered.image when that section came without one; the
// stored file is returned so a failed update can drop it.
func (h *Handler) decodeUpdate(w http.ResponseWriter, r *http.Request) (UpdateRequest, uploads.Saved, error) {
	if !uploads.IsMultipart(r) || h.uploads == nil {
		var req UpdateRequest
		if err := httpx.DecodeLooseJSON(r.Body, &req); err != nil {
			return UpdateRequest{}, uploads.Saved{}, fmt.Errorf("%w: %v", errBadBody, err)
		}
		return req, uploads.Saved{}, nil
	}

	form, fh, err := h.uploads.ParseSingle(w, r, uploads.ImageField)
	if err != nil {
		return UpdateRequest{}, uploads.Saved{}, err
	}
	req, err := UpdateRequestFromForm(form)
	if err != nil {
		return UpdateRequest{}, uploads.Saved{}, fmt.Errorf("%w: %v", errBadBody, err)
	}

	var saved uploads.Saved
	if fh != nil && req.HowWeDelivered != nil && strings.TrimSpace(req.HowWeDelivered.Image) == "" {
		saved, err = h.uploads.SaveImage(fh)
		if err != nil {
			return UpdateRequest{}, uploads.Saved{}, err
		}
		req.HowWeDelivered.Image = saved.URL
	}
	return req, saved, nil
}

func (h *Handler) discard(log *slog.Logger, saved uploads.Saved) {
	if h.uploads == nil || saved.Name == "" {
		return
	}
	if err := h.uploads.Discard(saved); err != nil {
		log.Warn("services update: discard upload failed", slog.String("file", saved.Name), slog.String("error", err.Error()))
	}
}

func (h *Handler) AdminList(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, "services admin list", false)
}

func (h *Handler) PublicList(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, "services public list", true)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request, op string, publishedOnly bool) {
	log := h.logWithRequest(r)
	page := httpx.ParsePage(r.URL.Query())
	filter := ListFilter{
		Title:         r.URL.Query().Get("title"),
		PublishedOnly: publishedOnly,
	}

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	res, err := h.service.List(ctx, filter, page)
	if err != nil {
		log.Error(op+": database error", slog.String("error", err.Error()))
		transport.WriteInternal(w, err, h.expose)
		return
	}

	items := res.Items
	if items == nil {
		items = []Summary{}
	}
	log.Info(op+": ok", slog.Int("count", len(items)), slog.Int64("total", res.Total))
	transport.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"totalServices": res.Total,
		"totalPages":    res.TotalPages,
		"currentPage":   res.Page.Page,
		"limit":         res.Page.Limit,
		"services":      items,
	})
}

func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	id := strings.TrimSpace(chi.URLParam(r, "id"))

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	item, err := h.service.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			log.Warn("services get: not found", slog.String("service_id", id))
			transport.WriteError(w, http.StatusNotFound, messageFound)
			return
		}
		log.Error("services get: database error", slog.String("error", err.Error()))
		transport.WriteInternal(w, err, h.expose)
		return
	}

	log.Info("services get: ok", slog.String("service_id", id))
	transport.WriteStatus(w, http.StatusOK, "Service fetched successfully", transport.Body{
		"service": item,
	})
}

func (h *Handler) GetBySlug(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	slug := strings.TrimSpace(chi.URLParam(r, "slug"))
	if slug == "" {
		transport.WriteError(w, http.StatusNotFound, messageFound)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	key := cache.Key(cacheArea, "slug", slug)
	var item Record
	if cache.GetJSON(ctx, h.cache, key, &item) {
		log.Info("services get by slug: cache hit", slog.String("slug", slug))
		transport.WriteStatus(w, http.StatusOK, "Service fetched successfully", transport.Body{"service": item})
		return
	}

	item, err := h.service.GetPublishedBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			log.Warn("services get by slug: not found", slog.String("slug", slug))
			transport.WriteError(w, http.StatusNotFound, messageFound)
			return
		}
		log.Error("services get by slug: database error", slog.String("error", err.Error()))
		transport.WriteInternal(w, err, h.expose)
		return
	}

	cache.SetJSON(ctx, h.cache, key, item, h.cacheTTL)
	log.Info("services get by slug: ok", slog.String("slug", slug))
	transport.WriteStatus(w, http.StatusOK, "Service fetched successfully", transport.Body{"service": item})
}

func (h *Handler) DeleteMany(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)

	var body httpx.IDList
	// A missing or malformed body is the same as no ids.
	_ = httpx.DecodeLooseJSON(r.Body, &body)
	ids := body.Clean()
	if len(ids) == 0 {
		log.Warn("services delete: no ids")
		transport.WriteError(w, http.StatusBadRequest, "Invalid request. Provide service IDs.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	deleted, err := h.service.DeleteMany(ctx, ids)
	if err != nil {
		log.Error("services delete: database error", slog.String("error", err.Error()))
		transport.WriteInternal(w, err, h.expose)
		return
	}

	h.invalidate(ctx, log)
	log.Info("services delete: ok", slog.Int("requested", len(ids)), slog.Int64("deleted", deleted))
	transport.WriteStatus(w, http.StatusOK, "Services deleted successfully.", transport.Body{
		"deletedCount": deleted,
	})
}

type slugsPayload struct {
	TotalServices int64       `json:"totalServices"`
	Slugs         []SlugEntry `json:"slugs"`
}

func (h *Handler) Slugs(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	key := cache.Key(cacheArea, "slugs")
	var payload slugsPayload
	if cache.GetJSON(ctx, h.cache, key, &payload) {
		log.Info("services slugs: cache hit", slog.Int64("total", payload.TotalServices))
		transport.WriteJSON(w, http.StatusOK, payload)
		return
	}

	items, total, err := h.service.PublishedSlugs(ctx)
	if err != nil {
		log.Error("services slugs: database error", slog.String("error", err.Error()))
		transport.WriteInternal(w, err, h.expose)
		return
	}
	if items == nil {
		items = []SlugEntry{}
	}

	payload = slugsPayload{TotalServices: total, Slugs: items}
	cache.SetJSON(ctx, h.cache, key, payload, h.cacheTTL)
	log.Info("services slugs: ok", slog.Int64("total", total))
	transport.WriteJSON(w, http.StatusOK, payload)
}

func (h *Handler) writeValidation(w http.ResponseWriter, log *slog.Logger, op string, err error) bool {
	var verr *ValidationError
	if !errors.As(err, &verr) {
		return false
	}
	log.Warn(op+": validation error", slog.String("message", verr.Message), slog.Int("fields", len(verr.Fields)))
	transport.WriteStatus(w, http.StatusBadRequest, verr.Message, transport.Body{
		"missingFields": verr.Fields,
	})
	return true
}

// invalidate drops every cached public view after a write.
func (h *Handler) invalidate(ctx context.Context, log *slog.Logger) {
	if err := h.cache.DeletePrefix(ctx, cache.Key(cacheArea, "")); err != nil {
		log.Warn("services cache: invalidate failed", slog.String("error", err.Error()))
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

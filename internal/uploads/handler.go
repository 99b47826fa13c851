package uploads

import (
	"errors"
	"log/slog"
	"net/http"

	"aura-backend/internal/middleware"
	"aura-backend/internal/transport"
)

// ImageField is the only multipart file field accepted by upload endpoints.
const ImageField = "image"

type Handler struct {
	store  *Store
	log    *slog.Logger
	expose bool
}

func NewHandler(store *Store, log *slog.Logger, exposeErrors bool) *Handler {
	return &Handler{store: store, log: log, expose: exposeErrors}
}

func (h *Handler) UploadImage(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)

	_, fh, err := h.store.ParseSingle(w, r, ImageField)
	if err != nil {
		log.Warn("upload image: rejected", slog.String("error", err.Error()))
		WriteError(w, err, h.expose)
		return
	}
	if fh == nil {
		log.Warn("upload image: no file")
		transport.WriteError(w, http.StatusBadRequest, "No file uploaded")
		return
	}

	saved, err := h.store.SaveUnique(fh)
	if err != nil {
		log.Warn("upload image: save failed", slog.String("error", err.Error()))
		WriteError(w, err, h.expose)
		return
	}

	log.Info("upload image: ok", slog.String("file", saved.Name), slog.Int64("bytes", saved.Size))
	transport.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"files":     []string{saved.URL},
		"isSuccess": true,
		"messages":  []string{"Image uploaded successfully"},
	})
}

// IsClientError reports whether err is one of the upload rejections WriteError
// answers with a fixed message.
func IsClientError(err error) bool {
	return errors.Is(err, ErrTooLarge) || errors.Is(err, ErrNotImage) ||
		errors.Is(err, ErrTooManyFiles) || errors.Is(err, ErrBadForm)
}

// WriteError maps upload failures onto responses. Anything unrecognised is a 500
// whose cause is only echoed when expose is set.
func WriteError(w http.ResponseWriter, err error, expose bool) {
	switch {
	case errors.Is(err, ErrTooLarge):
		transport.WriteError(w, http.StatusRequestEntityTooLarge, "File too large! Please upload smaller files.")
	case errors.Is(err, ErrNotImage):
		transport.WriteError(w, http.StatusInternalServerError, "Only image files are allowed!")
	case errors.Is(err, ErrTooManyFiles), errors.Is(err, ErrBadForm):
		transport.WriteError(w, http.StatusBadRequest, err.Error())
	default:
		transport.WriteInternal(w, err, expose)
	}
}

func (h *Handler) logWithRequest(r *http.Request) *slog.Logger {
	if id := middleware.RequestIDFromContext(r.Context()); id != "" {
		return h.log.With(slog.String("request_id", id))
	}
	return h.log
}

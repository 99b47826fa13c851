package uploads

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"aura-backend/internal/httpx"
	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

var (
	ErrTooLarge     = errors.New("file too large")
	ErrNotImage     = errors.New("only image files are allowed")
	ErrTooManyFiles = errors.New("only one file may be uploaded per field")
	ErrBadForm      = errors.New("invalid multipart form")
)

// formOverhead is room for the non-file parts of a multipart body.
const formOverhead = 1 << 20

var extChars = regexp.MustCompile(`^\.[a-z0-9]{1,8}$`)

// Saved describes a file written to the upload directory.
type Saved struct {
	Name        string
	Path        string
	URL         string
	ContentType string
	Size        int64
}

type Store struct {
	dir       string
	publicURL string
	maxBytes  int64
	now       func() time.Time
}

func NewStore(dir, publicURL string, maxBytes int64) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Store{
		dir:       dir,
		publicURL: strings.TrimRight(publicURL, "/"),
		maxBytes:  maxBytes,
		now:       time.Now,
	}, nil
}

func (s *Store) PublicURL(name string) string {
	return s.publicURL + "/" + name
}

// IsMultipart reports whether r carries a multipart body.
func IsMultipart(r *http.Request) bool {
	return strings.HasPrefix(strings.ToLower(r.Header.Get("Content-Type")), "multipart/form-data")
}

// ParseSingle parses a multipart body and returns its fields plus the one file sent
// under field. The file header is nil when the client attached nothing.
func (s *Store) ParseSingle(w http.ResponseWriter, r *http.Request, field string) (httpx.Form, *multipart.FileHeader, error) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxBytes+formOverhead)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		if isBodyTooLarge(err) {
			return nil, nil, ErrTooLarge
		}
		return nil, nil, fmt.Errorf("%w: %v", ErrBadForm, err)
	}

	form := httpx.Form(r.MultipartForm.Value)
	files := r.MultipartForm.File[field]
	switch {
	case len(files) == 0:
		return form, nil, nil
	case len(files) > 1:
		return nil, nil, ErrTooManyFiles
	}
	if files[0].Size > s.maxBytes {
		return nil, nil, ErrTooLarge
	}
	return form, files[0], nil
}

func isBodyTooLarge(err error) bool {
	var mbe *http.MaxBytesError
	if errors.As(err, &mbe) {
		return true
	}
	return strings.Contains(err.Error(), "request body too large")
}

// SaveImage stores an image attached to a record as <unix-millis><ext>.
func (s *Store) SaveImage(fh *multipart.FileHeader) (Saved, error) {
	return s.save(fh, func(ext string) string {
		return fmt.Sprintf("%d%s", s.now().UnixMilli(), ext)
	})
}

// SaveUnique stores a standalone upload as <unix-millis>-<uuid><ext>.
func (s *Store) SaveUnique(fh *multipart.FileHeader) (Saved, error) {
	return s.save(fh, s.uniqueName)
}

func (s *Store) uniqueName(ext string) string {
	return fmt.Sprintf("%d-%s%s", s.now().UnixMilli(), uuid.NewString(), ext)
}

func (s *Store) save(fh *multipart.FileHeader, name func(ext string) string) (Saved, error) {
	if fh == nil {
		return Saved{}, errors.New("no file")
	}
	if fh.Size > s.maxBytes {
		return Saved{}, ErrTooLarge
	}

	src, err := fh.Open()
	if err != nil {
		return Saved{}, fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	mt, err := mimetype.DetectReader(src)
	if err != nil {
		return Saved{}, fmt.Errorf("detect content type: %w", err)
	}
	if !strings.HasPrefix(mt.String(), "image/") {
		return Saved{}, ErrNotImage
	}
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return Saved{}, fmt.Errorf("rewind upload: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if !extChars.MatchString(ext) {
		ext = mt.Extension()
	}

	filename := name(ext)
	dst, err := os.OpenFile(filepath.Join(s.dir, filename), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if errors.Is(err, os.ErrExist) {
		// Two uploads in the same millisecond.
		filename = s.uniqueName(ext)
		dst, err = os.OpenFile(filepath.Join(s.dir, filename), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	}
	if err != nil {
		return Saved{}, fmt.Errorf("create upload: %w", err)
	}

	written, err := io.Copy(dst, src)
	if closeErr := dst.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(filepath.Join(s.dir, filename))
		return Saved{}, fmt.Errorf("write upload: %w", err)
	}

	return Saved{
		Name:        filename,
		Path:        filepath.Join(s.dir, filename),
		URL:         s.PublicURL(filename),
		ContentType: mt.String(),
		Size:        written,
	}, nil
}

// Discard removes a file saved by SaveImage or SaveUnique whose record was never
// written.
func (s *Store) Discard(saved Saved) error {
	if saved.Name == "" {
		return nil
	}
	err := os.Remove(filepath.Join(s.dir, filepath.Base(saved.Name)))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

// FileServer serves stored uploads. Directory listings are not exposed.
func (s *Store) FileServer(prefix string) http.Handler {
	files := http.StripPrefix(prefix, http.FileServer(http.Dir(s.dir)))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/") {
			http.NotFound(w, r)
			return
		}
		files.ServeHTTP(w, r)
	})
}

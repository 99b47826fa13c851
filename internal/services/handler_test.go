package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"aura-backend/internal/uploads"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

func testRouter(t *testing.T, repo Repository, store *uploads.Store, c *spyCache) http.Handler {
	t.Helper()
	var h *Handler
	if c == nil {
		h = NewHandler(newTestService(repo), store, nil, time.Minute, slog.New(slog.NewTextHandler(io.Discard, nil)), false)
	} else {
		h = NewHandler(newTestService(repo), store, c, time.Minute, slog.New(slog.NewTextHandler(io.Discard, nil)), false)
	}

	r := chi.NewRouter()
	r.Post("/service/add", h.Create)
	r.Put("/service/update/{id}", h.Update)
	r.Get("/service/admin/list", h.AdminList)
	r.Get("/service/list", h.PublicList)
	r.Get("/service/slugs", h.Slugs)
	r.Get("/service/slug/{slug}", h.GetBySlug)
	r.Get("/service/{id}", h.GetByID)
	r.Delete("/service/delete", h.DeleteMany)
	return r
}

func do(t *testing.T, h http.Handler, method, path, body string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return rec, out
}

// spyCache records invalidations and serves what was set.
type spyCache struct {
	data        map[string][]byte
	invalidated []string
}

func newSpyCache() *spyCache {
	return &spyCache{data: map[string][]byte{}}
}

func (s *spyCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	v, ok := s.data[key]
	return v, ok, nil
}

func (s *spyCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	s.data[key] = value
	return nil
}

func (s *spyCache) Delete(ctx context.Context, keys ...string) error {
	for _, k := range keys {
		delete(s.data, k)
	}
	return nil
}

func (s *spyCache) DeletePrefix(ctx context.Context, prefix string) error {
	s.invalidated = append(s.invalidated, prefix)
	for k := range s.data {
		if strings.HasPrefix(k, prefix) {
			delete(s.data, k)
		}
	}
	return nil
}

const fullPayload = `{"title":"A","slug":"a","published":true,"description":"d","short_description":"s","metaDescription":"m","detail":"x"}`

func TestCreateThenDuplicate(t *testing.T) {
	var stored []Record
	repo := &mockRepo{
		ExistsByTitleFn: func(ctx context.Context, title string) (bool, error) {
			for _, s := range stored {
				if s.Title == title {
					return true, nil
				}
			}
			return false, nil
		},
		ExistsBySlugFn: func(ctx context.Context, slug string) (bool, error) {
			for _, s := range stored {
				if s.Slug == slug {
					return true, nil
				}
			}
			return false, nil
		},
		CreateFn: func(ctx context.Context, item Record) error {
			stored = append(stored, item)
			return nil
		},
	}
	c := newSpyCache()
	router := testRouter(t, repo, nil, c)

	rec, body := do(t, router, http.MethodPost, "/service/add", fullPayload)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, float64(201), body["status"])
	assert.Equal(t, "Service created successfully", body["message"])
	service := body["service"].(map[string]interface{})
	assert.Equal(t, true, service["published"])
	assert.Equal(t, []string{"services:"}, c.invalidated)

	rec, body = do(t, router, http.MethodPost, "/service/add", fullPayload)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Validation failed!", body["message"])
	assert.Equal(t, []interface{}{
		map[string]interface{}{"name": "title", "message": "Service title already exists"},
		map[string]interface{}{"name": "slug", "message": "Service slug already exists"},
	}, body["missingFields"])
	assert.Len(t, stored, 1)
}

func TestCreateMissingFields(t *testing.T) {
	router := testRouter(t, &mockRepo{}, nil, nil)

	rec, body := do(t, router, http.MethodPost, "/service/add", `{"published":"true","title":"A"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, float64(400), body["status"])
	assert.Equal(t, "Some fields are missing!", body["message"])
	assert.Len(t, body["missingFields"], 5)
}

func TestCreateStorageErrorHidesCause(t *testing.T) {
	repo := &mockRepo{
		ExistsByTitleFn: func(ctx context.Context, title string) (bool, error) { return false, errors.New("socket closed") },
		ExistsBySlugFn:  func(ctx context.Context, slug string) (bool, error) { return false, nil },
	}
	router := testRouter(t, repo, nil, nil)

	rec, body := do(t, router, http.MethodPost, "/service/add", fullPayload)
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Internal server error", body["message"])
	assert.NotContains(t, body, "error")
}

func TestUpdateNestedSectionMissingField(t *testing.T) {
	router := testRouter(t, &mockRepo{}, nil, nil)

	rec, body := do(t, router, http.MethodPut, "/service/update/abc", `{"faqs":{"published":true,"title":"Q"}}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, []interface{}{
		map[string]interface{}{"name": "faqs.description", "message": "FAQs description is required"},
	}, body["missingFields"])
}

func TestUpdateOK(t *testing.T) {
	repo := &mockRepo{
		UpdateFn: func(ctx context.Context, id string, set bson.M) (Record, error) {
			assert.Equal(t, "abc", id)
			assert.Equal(t, "Renamed", set["title"])
			return Record{ID: id, Title: "Renamed"}, nil
		},
	}
	router := testRouter(t, repo, nil, nil)

	rec, body := do(t, router, http.MethodPut, "/service/update/abc", `{"id":"abc","title":"Renamed","createdAt":"2024-01-01T00:00:00Z"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Service updated successfully", body["message"])
}

func TestUpdateUnknownIDIs404(t *testing.T) {
	repo := &mockRepo{
		UpdateFn: func(ctx context.Context, id string, set bson.M) (Record, error) {
			return Record{}, mongo.ErrNoDocuments
		},
	}
	router := testRouter(t, repo, nil, nil)

	rec, body := do(t, router, http.MethodPut, "/service/update/nope", `{"title":"x"}`)
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Service not found", body["message"])
}

// deliveryUpload builds a multipart update carrying fields plus a PNG under "image".
func deliveryUpload(t *testing.T, fields [][2]string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for _, f := range fields {
		require.NoError(t, mw.WriteField(f[0], f[1]))
	}
	fw, err := mw.CreateFormFile(uploads.ImageField, "team.png")
	require.NoError(t, err)
	_, err = fw.Write(append([]byte("\x89PNG\r\n\x1a\n"), make([]byte, 32)...))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPut, "/service/update/abc", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestUpdateMultipartAttachesDeliveryImage(t *testing.T) {
	store, err := uploads.NewStore(t.TempDir(), "http://cdn.test/uploads", 1<<20)
	require.NoError(t, err)

	var gotSet bson.M
	repo := &mockRepo{
		UpdateFn: func(ctx context.Context, id string, set bson.M) (Record, error) {
			gotSet = set
			return Record{ID: id}, nil
		},
	}
	router := testRouter(t, repo, store, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, deliveryUpload(t, [][2]string{
		{"published", "false"},
		{"how_we_delivered[description]", "We shipped"},
		{"how_we_delivered[published]", "true"},
	}))

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	section, ok := gotSet["how_we_delivered"].(DeliverySection)
	require.True(t, ok)
	assert.Equal(t, "We shipped", section.Description)
	assert.True(t, section.Published)
	assert.True(t, strings.HasPrefix(section.Image, "http://cdn.test/uploads/"), section.Image)
	assert.True(t, strings.HasSuffix(section.Image, ".png"), section.Image)
}

func TestUpdateMultipartStorageFailureIs500(t *testing.T) {
	dir := t.TempDir()
	store, err := uploads.NewStore(dir, "http://cdn.test/uploads", 1<<20)
	require.NoError(t, err)
	require.NoError(t, os.RemoveAll(dir))

	repo := &mockRepo{
		UpdateFn: func(ctx context.Context, id string, set bson.M) (Record, error) {
			t.Fatal("update must not run when the image could not be stored")
			return Record{}, nil
		},
	}
	router := testRouter(t, repo, store, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, deliveryUpload(t, [][2]string{
		{"how_we_delivered[description]", "We shipped"},
	}))

	require.Equal(t, http.StatusInternalServerError, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{"status":500,"message":"Internal server error"}`, rec.Body.String())
}

func TestUpdateMultipartValidationDropsStoredImage(t *testing.T) {
	dir := t.TempDir()
	store, err := uploads.NewStore(dir, "http://cdn.test/uploads", 1<<20)
	require.NoError(t, err)
	router := testRouter(t, &mockRepo{}, store, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, deliveryUpload(t, [][2]string{
		{"how_we_delivered[published]", "true"},
	}))

	require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestUpdateMalformedJSONIs400(t *testing.T) {
	router := testRouter(t, &mockRepo{}, nil, nil)

	rec, body := do(t, router, http.MethodPut, "/service/update/abc", `{"title":`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid request body", body["message"])
}

func TestListPagination(t *testing.T) {
	all := make([]Summary, 12)
	for i := range all {
		all[i] = Summary{ID: string(rune('a' + i)), Title: "S"}
	}
	repo := &mockRepo{
		ListFn: func(ctx context.Context, filter ListFilter, limit, skip int64) ([]Summary, error) {
			assert.True(t, filter.PublishedOnly)
			end := skip + limit
			if end > int64(len(all)) {
				end = int64(len(all))
			}
			return all[skip:end], nil
		},
		CountFn: func(ctx context.Context, filter ListFilter) (int64, error) { return int64(len(all)), nil },
	}
	router := testRouter(t, repo, nil, nil)

	rec, body := do(t, router, http.MethodGet, "/service/list?page=2&limit=5", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(12), body["totalServices"])
	assert.Equal(t, float64(3), body["totalPages"])
	assert.Equal(t, float64(2), body["currentPage"])
	assert.Equal(t, float64(5), body["limit"])
	assert.Len(t, body["services"], 5)
}

func TestListBadPagingFallsBack(t *testing.T) {
	repo := &mockRepo{
		ListFn: func(ctx context.Context, filter ListFilter, limit, skip int64) ([]Summary, error) {
			assert.False(t, filter.PublishedOnly)
			assert.Equal(t, "web", filter.Title)
			assert.Equal(t, int64(10), limit)
			assert.Equal(t, int64(0), skip)
			return nil, nil
		},
		CountFn: func(ctx context.Context, filter ListFilter) (int64, error) { return 0, nil },
	}
	router := testRouter(t, repo, nil, nil)

	rec, body := do(t, router, http.MethodGet, "/service/admin/list?title=web&page=-1&limit=0", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(1), body["currentPage"])
	assert.Equal(t, float64(0), body["totalPages"])
	assert.Equal(t, []interface{}{}, body["services"])
}

func TestDeleteManyRejectsEmpty(t *testing.T) {
	// A nil DeleteManyFn panics if storage is reached.
	router := testRouter(t, &mockRepo{}, nil, nil)

	for _, body := range []string{`{"ids":[]}`, `{}`, `{"ids":["  "]}`, ""} {
		rec, out := do(t, router, http.MethodDelete, "/service/delete", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
		assert.Equal(t, "Invalid request. Provide service IDs.", out["message"])
	}
}

func TestDeleteManyReportsCount(t *testing.T) {
	repo := &mockRepo{
		DeleteManyFn: func(ctx context.Context, ids []string) (int64, error) {
			assert.Equal(t, []string{"a", "b"}, ids)
			return 1, nil
		},
	}
	router := testRouter(t, repo, nil, nil)

	rec, body := do(t, router, http.MethodDelete, "/service/delete", `{"ids":["a","b"]}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(1), body["deletedCount"])
}

func TestGetBySlugCaches(t *testing.T) {
	calls := 0
	repo := &mockRepo{
		FindPublishedBySlugFn: func(ctx context.Context, slug string) (Record, error) {
			calls++
			return Record{ID: "1", Slug: slug, Published: true}, nil
		},
	}
	router := testRouter(t, repo, nil, newSpyCache())

	for i := 0; i < 2; i++ {
		rec, body := do(t, router, http.MethodGet, "/service/slug/web-design", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "web-design", body["service"].(map[string]interface{})["slug"])
	}
	assert.Equal(t, 1, calls)
}

func TestGetBySlugUnpublishedIsNotFound(t *testing.T) {
	repo := &mockRepo{
		FindPublishedBySlugFn: func(ctx context.Context, slug string) (Record, error) {
			return Record{}, mongo.ErrNoDocuments
		},
	}
	router := testRouter(t, repo, nil, nil)

	rec, body := do(t, router, http.MethodGet, "/service/slug/draft", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, float64(404), body["status"])
}

func TestGetByID(t *testing.T) {
	repo := &mockRepo{
		FindByIDFn: func(ctx context.Context, id string) (Record, error) {
			return Record{ID: id, Title: "A"}, nil
		},
	}
	router := testRouter(t, repo, nil, nil)

	rec, body := do(t, router, http.MethodGet, "/service/abc", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Service fetched successfully", body["message"])
	assert.Equal(t, "abc", body["service"].(map[string]interface{})["id"])
}

func TestSlugs(t *testing.T) {
	repo := &mockRepo{
		PublishedSlugsFn: func(ctx context.Context) ([]SlugEntry, error) {
			return []SlugEntry{{ID: "1", Slug: "a", Title: "A"}}, nil
		},
		CountFn: func(ctx context.Context, filter ListFilter) (int64, error) { return 1, nil },
	}
	router := testRouter(t, repo, nil, nil)

	rec, body := do(t, router, http.MethodGet, "/service/slugs", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(1), body["totalServices"])
	assert.Equal(t, []interface{}{
		map[string]interface{}{"id": "1", "slug": "a", "title": "A"},
	}, body["slugs"])
}

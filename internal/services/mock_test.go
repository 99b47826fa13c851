package services

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
)

// mockRepo implements Repository. Leave a Fn nil to make an unexpected call panic.
type mockRepo struct {
	CreateFn              func(ctx context.Context, item Record) error
	ExistsByTitleFn       func(ctx context.Context, title string) (bool, error)
	ExistsBySlugFn        func(ctx context.Context, slug string) (bool, error)
	UpdateFn              func(ctx context.Context, id string, set bson.M) (Record, error)
	FindByIDFn            func(ctx context.Context, id string) (Record, error)
	FindPublishedBySlugFn func(ctx context.Context, slug string) (Record, error)
	ListFn                func(ctx context.Context, filter ListFilter, limit, skip int64) ([]Summary, error)
	CountFn               func(ctx context.Context, filter ListFilter) (int64, error)
	DeleteManyFn          func(ctx context.Context, ids []string) (int64, error)
	PublishedSlugsFn      func(ctx context.Context) ([]SlugEntry, error)
}

func (m *mockRepo) Create(ctx context.Context, item Record) error {
	return m.CreateFn(ctx, item)
}

func (m *mockRepo) ExistsByTitle(ctx context.Context, title string) (bool, error) {
	return m.ExistsByTitleFn(ctx, title)
}

func (m *mockRepo) ExistsBySlug(ctx context.Context, slug string) (bool, error) {
	return m.ExistsBySlugFn(ctx, slug)
}

func (m *mockRepo) Update(ctx context.Context, id string, set bson.M) (Record, error) {
	return m.UpdateFn(ctx, id, set)
}

func (m *mockRepo) FindByID(ctx context.Context, id string) (Record, error) {
	return m.FindByIDFn(ctx, id)
}

func (m *mockRepo) FindPublishedBySlug(ctx context.Context, slug string) (Record, error) {
	return m.FindPublishedBySlugFn(ctx, slug)
}

func (m *mockRepo) List(ctx context.Context, filter ListFilter, limit, skip int64) ([]Summary, error) {
	return m.ListFn(ctx, filter, limit, skip)
}

func (m *mockRepo) Count(ctx context.Context, filter ListFilter) (int64, error) {
	return m.CountFn(ctx, filter)
}

func (m *mockRepo) DeleteMany(ctx context.Context, ids []string) (int64, error) {
	return m.DeleteManyFn(ctx, ids)
}

func (m *mockRepo) PublishedSlugs(ctx context.Context) ([]SlugEntry, error) {
	return m.PublishedSlugsFn(ctx)
}

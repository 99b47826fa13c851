package faqs

import (
	"context"
	"errors"
	"strings"
	"time"

	"aura-backend/internal/httpx"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

var ErrNotFound = errors.New("faq not found")

type Service struct {
	repo     Repository
	location *time.Location
}

func NewService(repo Repository, location *time.Location) *Service {
	return &Service{
		repo:     repo,
		location: location,
	}
}

func (s *Service) Create(ctx context.Context, req UpsertRequest) (FAQ, error) {
	now := time.Now().In(s.location)
	item := FAQ{
		ID:        primitive.NewObjectID().Hex(),
		Question:  req.Question,
		Answer:    req.Answer,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(ctx, item); err != nil {
		return FAQ{}, err
	}
	return item, nil
}

func (s *Service) Update(ctx context.Context, id string, req UpsertRequest) (FAQ, error) {
	set := bson.M{
		"question":  req.Question,
		"answer":    req.Answer,
		"updatedAt": time.Now().In(s.location),
	}

	updated, err := s.repo.Update(ctx, strings.TrimSpace(id), set)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return FAQ{}, ErrNotFound
		}
		return FAQ{}, err
	}
	return updated, nil
}

func (s *Service) Get(ctx context.Context, id string) (FAQ, error) {
	item, err := s.repo.FindByID(ctx, strings.TrimSpace(id))
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return FAQ{}, ErrNotFound
		}
		return FAQ{}, err
	}
	return item, nil
}

func (s *Service) List(ctx context.Context, filter ListFilter, page httpx.Page) ([]FAQ, int64, error) {
	filter.Question = strings.TrimSpace(filter.Question)
	items, err := s.repo.List(ctx, filter, page.Limit, page.Skip())
	if err != nil {
		return nil, 0, err
	}
	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	deleted, err := s.repo.Delete(ctx, strings.TrimSpace(id))
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNotFound
	}
	return nil
}

func (s *Service) DeleteMany(ctx context.Context, ids []string) (int64, error) {
	return s.repo.DeleteMany(ctx, ids)
}

func (r *UpsertRequest) normalize() {
	r.Question = strings.TrimSpace(r.Question)
	r.Answer = strings.TrimSpace(r.Answer)
}

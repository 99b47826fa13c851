package portfolio

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

var ErrNotFound = errors.New("portfolio item not found")

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

func (s *Service) Create(ctx context.Context, req UpsertRequest) (Item, error) {
	now := time.Now().In(s.location)
	item := Item{
		ID:          primitive.NewObjectID().Hex(),
		Title:       req.Title,
		Description: req.Description,
		Image:       req.Image,
		URL:         req.URL,
		Files:       req.Files,
		Published:   req.Published.Bool(),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if item.Files == nil {
		item.Files = []string{}
	}

	if err := s.repo.Create(ctx, item); err != nil {
		return Item{}, err
	}
	return item, nil
}

// Update replaces every editable field. An empty image keeps the stored one so a
// form resubmitted without a new file does not drop the picture.
func (s *Service) Update(ctx context.Context, id string, req UpsertRequest) (Item, error) {
	files := req.Files
	if files == nil {
		files = []string{}
	}
	set := bson.M{
		"title":       req.Title,
		"description": req.Description,
		"url":         req.URL,
		"files":       files,
		"published":   req.Published.Bool(),
		"updatedAt":   time.Now().In(s.location),
	}
	if req.Image != "" {
		set["image"] = req.Image
	}

	updated, err := s.repo.Update(ctx, strings.TrimSpace(id), set)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Item{}, ErrNotFound
		}
		return Item{}, err
	}
	return updated, nil
}

func (s *Service) Get(ctx context.Context, id string) (Item, error) {
	item, err := s.repo.FindByID(ctx, strings.TrimSpace(id))
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Item{}, ErrNotFound
		}
		return Item{}, err
	}
	return item, nil
}

func (s *Service) List(ctx context.Context, filter ListFilter, page httpx.Page) ([]Item, int64, error) {
	filter.Title = strings.TrimSpace(filter.Title)
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

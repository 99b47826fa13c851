package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"aura-backend/internal/httpx"
	"aura-backend/internal/validation"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

var (
	ErrNotFound = errors.New("service not found")
	ErrNoIDs    = errors.New("no service ids")
)

// ValidationError carries the missingFields list answered with a 400.
type ValidationError struct {
	Message string
	Fields  []validation.Violation
}

func (e *ValidationError) Error() string {
	return e.Message
}

type Service struct {
	repo     Repository
	val      *validation.Validator
	location *time.Location
	now      func() time.Time
}

func NewService(repo Repository, val *validation.Validator, location *time.Location) *Service {
	return &Service{
		repo:     repo,
		val:      val,
		location: location,
		now:      time.Now,
	}
}

func (s *Service) Create(ctx context.Context, req CreateRequest) (Record, error) {
	req.normalize()
	if missing := ValidateCreate(s.val, req); len(missing) > 0 {
		return Record{}, &ValidationError{Message: MessageMissingFields, Fields: missing}
	}

	conflicts, err := CheckDuplicates(ctx, s.repo, req.Title, req.Slug)
	if err != nil {
		return Record{}, err
	}
	if len(conflicts) > 0 {
		return Record{}, &ValidationError{Message: MessageConflict, Fields: conflicts}
	}

	now := s.now().In(s.location)
	item := Record{
		ID:               primitive.NewObjectID().Hex(),
		Title:            req.Title,
		Description:      req.Description,
		ShortDescription: req.ShortDescription,
		MetaDescription:  req.MetaDescription,
		Slug:             req.Slug,
		Detail:           req.Detail,
		Published:        req.Published.Bool(),
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := s.repo.Create(ctx, item); err != nil {
		// Lost the race between the pre-check and the insert.
		if conflicts := conflictViolations(err); conflicts != nil {
			return Record{}, &ValidationError{Message: MessageConflict, Fields: conflicts}
		}
		return Record{}, err
	}
	return item, nil
}

func (s *Service) Update(ctx context.Context, id string, req UpdateRequest) (Record, error) {
	id = strings.TrimSpace(id)
	req.normalize()
	if missing := ValidateUpdate(s.val, req); len(missing) > 0 {
		return Record{}, &ValidationError{Message: MessageMissingFields, Fields: missing}
	}

	updated, err := s.repo.Update(ctx, id, ProjectUpdate(req, s.now().In(s.location)))
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Record{}, ErrNotFound
		}
		if conflicts := conflictViolations(err); conflicts != nil {
			return Record{}, &ValidationError{Message: MessageConflict, Fields: conflicts}
		}
		return Record{}, err
	}
	return updated, nil
}

func (s *Service) Get(ctx context.Context, id string) (Record, error) {
	item, err := s.repo.FindByID(ctx, strings.TrimSpace(id))
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Record{}, ErrNotFound
		}
		return Record{}, err
	}
	return item, nil
}

// GetPublishedBySlug never returns unpublished records.
func (s *Service) GetPublishedBySlug(ctx context.Context, slug string) (Record, error) {
	item, err := s.repo.FindPublishedBySlug(ctx, strings.TrimSpace(slug))
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Record{}, ErrNotFound
		}
		return Record{}, err
	}
	return item, nil
}

type ListResult struct {
	Items      []Summary
	Total      int64
	TotalPages int64
	Page       httpx.Page
}

func (s *Service) List(ctx context.Context, filter ListFilter, page httpx.Page) (ListResult, error) {
	filter.Title = strings.TrimSpace(filter.Title)
	items, err := s.repo.List(ctx, filter, page.Limit, page.Skip())
	if err != nil {
		return ListResult{}, err
	}
	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		return ListResult{}, err
	}
	return ListResult{
		Items:      items,
		Total:      total,
		TotalPages: page.TotalPages(total),
		Page:       page,
	}, nil
}

// DeleteMany removes every listed record in one call. Unknown ids are ignored;
// the returned count says how many records actually went away.
func (s *Service) DeleteMany(ctx context.Context, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, ErrNoIDs
	}
	return s.repo.DeleteMany(ctx, ids)
}

func (s *Service) PublishedSlugs(ctx context.Context) ([]SlugEntry, int64, error) {
	items, err := s.repo.PublishedSlugs(ctx)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.repo.Count(ctx, ListFilter{PublishedOnly: true})
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

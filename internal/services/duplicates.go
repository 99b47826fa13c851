package services

import (
	"context"
	"strings"

	"aura-backend/internal/db"
	"aura-backend/internal/validation"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/sync/errgroup"
)

var (
	titleConflict = validation.Violation{Name: "title", Message: "Service title already exists"}
	slugConflict  = validation.Violation{Name: "slug", Message: "Service slug already exists"}
)

// CheckDuplicates looks up title and slug concurrently. An empty title or slug
// skips its lookup.
func CheckDuplicates(ctx context.Context, repo Repository, title, slug string) ([]validation.Violation, error) {
	var titleTaken, slugTaken bool

	g, gctx := errgroup.WithContext(ctx)
	if title != "" {
		g.Go(func() error {
			var err error
			titleTaken, err = repo.ExistsByTitle(gctx, title)
			return err
		})
	}
	if slug != "" {
		g.Go(func() error {
			var err error
			slugTaken, err = repo.ExistsBySlug(gctx, slug)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var out []validation.Violation
	if titleTaken {
		out = append(out, titleConflict)
	}
	if slugTaken {
		out = append(out, slugConflict)
	}
	return out, nil
}

// conflictViolations translates a unique-index violation into the same entries the
// pre-check produces. It returns nil for any other error.
func conflictViolations(err error) []validation.Violation {
	if err == nil || !mongo.IsDuplicateKeyError(err) {
		return nil
	}
	msg := err.Error()
	var out []validation.Violation
	if strings.Contains(msg, db.ServiceTitleIndex) {
		out = append(out, titleConflict)
	}
	if strings.Contains(msg, db.ServiceSlugIndex) {
		out = append(out, slugConflict)
	}
	if len(out) == 0 {
		// Index created outside EnsureIndexes; slug is the public identity.
		out = append(out, slugConflict)
	}
	return out
}

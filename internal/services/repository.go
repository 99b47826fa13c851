package services

import (
	"context"
	"errors"
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Repository interface {
	Create(ctx context.Context, item Record) error
	ExistsByTitle(ctx context.Context, title string) (bool, error)
	ExistsBySlug(ctx context.Context, slug string) (bool, error)
	Update(ctx context.Context, id string, set bson.M) (Record, error)
	FindByID(ctx context.Context, id string) (Record, error)
	FindPublishedBySlug(ctx context.Context, slug string) (Record, error)
	List(ctx context.Context, filter ListFilter, limit, skip int64) ([]Summary, error)
	Count(ctx context.Context, filter ListFilter) (int64, error)
	DeleteMany(ctx context.Context, ids []string) (int64, error)
	PublishedSlugs(ctx context.Context) ([]SlugEntry, error)
}

type MongoRepository struct {
	col *mongo.Collection
}

func NewRepository(col *mongo.Collection) *MongoRepository {
	return &MongoRepository{col: col}
}

func (r *MongoRepository) Create(ctx context.Context, item Record) error {
	_, err := r.col.InsertOne(ctx, item)
	return err
}

func (r *MongoRepository) exists(ctx context.Context, filter bson.M) (bool, error) {
	opts := options.FindOne().SetProjection(bson.M{"_id": 1})
	var doc bson.M
	err := r.col.FindOne(ctx, filter, opts).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *MongoRepository) ExistsByTitle(ctx context.Context, title string) (bool, error) {
	return r.exists(ctx, bson.M{"title": title})
}

func (r *MongoRepository) ExistsBySlug(ctx context.Context, slug string) (bool, error) {
	return r.exists(ctx, bson.M{"slug": slug})
}

func (r *MongoRepository) Update(ctx context.Context, id string, set bson.M) (Record, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	update := bson.M{"$set": set}

	var updated Record
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&updated); err != nil {
		return Record{}, err
	}
	return updated, nil
}

func (r *MongoRepository) FindByID(ctx context.Context, id string) (Record, error) {
	var item Record
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&item); err != nil {
		return Record{}, err
	}
	return item, nil
}

func (r *MongoRepository) FindPublishedBySlug(ctx context.Context, slug string) (Record, error) {
	var item Record
	if err := r.col.FindOne(ctx, bson.M{"slug": slug, "published": true}).Decode(&item); err != nil {
		return Record{}, err
	}
	return item, nil
}

func listQuery(filter ListFilter) bson.M {
	query := bson.M{}
	if filter.PublishedOnly {
		query["published"] = true
	}
	if filter.Title != "" {
		query["title"] = primitive.Regex{Pattern: regexp.QuoteMeta(filter.Title), Options: "i"}
	}
	return query
}

func listProjection(filter ListFilter) bson.M {
	projection := bson.M{"title": 1, "short_description": 1, "createdAt": 1}
	if !filter.PublishedOnly {
		projection["published"] = 1
	}
	return projection
}

func (r *MongoRepository) List(ctx context.Context, filter ListFilter, limit, skip int64) ([]Summary, error) {
	opts := options.Find().
		SetProjection(listProjection(filter)).
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(limit).
		SetSkip(skip)

	cursor, err := r.col.Find(ctx, listQuery(filter), opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	items := make([]Summary, 0)
	if err := cursor.All(ctx, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *MongoRepository) Count(ctx context.Context, filter ListFilter) (int64, error) {
	return r.col.CountDocuments(ctx, listQuery(filter))
}

func (r *MongoRepository) DeleteMany(ctx context.Context, ids []string) (int64, error) {
	res, err := r.col.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

func publishedSlugsQuery() bson.M {
	return bson.M{"published": true}
}

func (r *MongoRepository) PublishedSlugs(ctx context.Context) ([]SlugEntry, error) {
	opts := options.Find().
		SetProjection(bson.M{"slug": 1, "title": 1}).
		SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := r.col.Find(ctx, publishedSlugsQuery(), opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	items := make([]SlugEntry, 0)
	if err := cursor.All(ctx, &items); err != nil {
		return nil, err
	}
	return items, nil
}

package faqs

import (
	"context"
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Repository interface {
	Create(ctx context.Context, item FAQ) error
	Update(ctx context.Context, id string, set bson.M) (FAQ, error)
	FindByID(ctx context.Context, id string) (FAQ, error)
	Delete(ctx context.Context, id string) (bool, error)
	DeleteMany(ctx context.Context, ids []string) (int64, error)
	List(ctx context.Context, filter ListFilter, limit, skip int64) ([]FAQ, error)
	Count(ctx context.Context, filter ListFilter) (int64, error)
}

type MongoRepository struct {
	col *mongo.Collection
}

func NewRepository(col *mongo.Collection) *MongoRepository {
	return &MongoRepository{col: col}
}

func (r *MongoRepository) Create(ctx context.Context, item FAQ) error {
	_, err := r.col.InsertOne(ctx, item)
	return err
}

func (r *MongoRepository) Update(ctx context.Context, id string, set bson.M) (FAQ, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated FAQ
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&updated); err != nil {
		return FAQ{}, err
	}
	return updated, nil
}

func (r *MongoRepository) FindByID(ctx context.Context, id string) (FAQ, error) {
	var item FAQ
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&item); err != nil {
		return FAQ{}, err
	}
	return item, nil
}

func (r *MongoRepository) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, err
	}
	return res.DeletedCount > 0, nil
}

func (r *MongoRepository) DeleteMany(ctx context.Context, ids []string) (int64, error) {
	res, err := r.col.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

func listQuery(filter ListFilter) bson.M {
	query := bson.M{}
	if filter.Question != "" {
		query["question"] = primitive.Regex{Pattern: regexp.QuoteMeta(filter.Question), Options: "i"}
	}
	return query
}

func (r *MongoRepository) List(ctx context.Context, filter ListFilter, limit, skip int64) ([]FAQ, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(limit).
		SetSkip(skip)

	cursor, err := r.col.Find(ctx, listQuery(filter), opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	items := make([]FAQ, 0)
	for cursor.Next(ctx) {
		var item FAQ
		if err := cursor.Decode(&item); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *MongoRepository) Count(ctx context.Context, filter ListFilter) (int64, error) {
	return r.col.CountDocuments(ctx, listQuery(filter))
}

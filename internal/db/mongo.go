package db

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Index names are matched against duplicate-key errors to tell which field collided.
const (
	ServiceTitleIndex = "services_title_unique"
	ServiceSlugIndex  = "services_slug_unique"
	UserEmailIndex    = "users_email_unique"
)

type Collections struct {
	Services   *mongo.Collection
	FAQs       *mongo.Collection
	Portfolios *mongo.Collection
	Users      *mongo.Collection
}

func Connect(ctx context.Context, uri, dbName string) (*mongo.Client, *Collections, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, nil, err
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, nil, err
	}

	return client, NewCollections(client.Database(dbName)), nil
}

func NewCollections(db *mongo.Database) *Collections {
	return &Collections{
		Services:   db.Collection("services"),
		FAQs:       db.Collection("faqs"),
		Portfolios: db.Collection("portfolios"),
		Users:      db.Collection("users"),
	}
}

// nonEmptyString limits a unique index to documents where the field is a non-empty
// string, so drafts without a title or slug never collide with each other.
func nonEmptyString(field string) bson.D {
	return bson.D{{Key: field, Value: bson.D{{Key: "$gt", Value: ""}}}}
}

func EnsureIndexes(ctx context.Context, cols *Collections) error {
	indexTimeout, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	_, err := cols.Services.Indexes().CreateMany(indexTimeout, []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "title", Value: 1}},
			Options: options.Index().
				SetName(ServiceTitleIndex).
				SetUnique(true).
				SetPartialFilterExpression(nonEmptyString("title")),
		},
		{
			Keys: bson.D{{Key: "slug", Value: 1}},
			Options: options.Index().
				SetName(ServiceSlugIndex).
				SetUnique(true).
				SetPartialFilterExpression(nonEmptyString("slug")),
		},
		{
			Keys: bson.D{{Key: "published", Value: 1}, {Key: "createdAt", Value: -1}},
		},
	})
	if err != nil {
		return err
	}

	_, err = cols.FAQs.Indexes().CreateMany(indexTimeout, []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "createdAt", Value: -1}},
		},
	})
	if err != nil {
		return err
	}

	_, err = cols.Portfolios.Indexes().CreateMany(indexTimeout, []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "published", Value: 1}, {Key: "createdAt", Value: -1}},
		},
	})
	if err != nil {
		return err
	}

	_, err = cols.Users.Indexes().CreateMany(indexTimeout, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetName(UserEmailIndex).SetUnique(true),
		},
	})
	if err != nil {
		return err
	}

	return nil
}

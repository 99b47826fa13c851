package users

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Repository interface {
	FindByEmail(ctx context.Context, email string) (User, error)
	FindByID(ctx context.Context, id string) (User, error)
	UpsertByEmail(ctx context.Context, user User) (User, error)
}

type MongoRepository struct {
	col *mongo.Collection
}

func NewRepository(col *mongo.Collection) *MongoRepository {
	return &MongoRepository{col: col}
}

func (r *MongoRepository) FindByEmail(ctx context.Context, email string) (User, error) {
	var u User
	if err := r.col.FindOne(ctx, bson.M{"email": email}).Decode(&u); err != nil {
		return User{}, err
	}
	return u, nil
}

func (r *MongoRepository) FindByID(ctx context.Context, id string) (User, error) {
	var u User
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&u); err != nil {
		return User{}, err
	}
	return u, nil
}

// UpsertByEmail sets name, hash and role, keeping the id and createdAt of an
// existing user.
func (r *MongoRepository) UpsertByEmail(ctx context.Context, user User) (User, error) {
	update := bson.M{
		"$set": bson.M{
			"name":         user.Name,
			"passwordHash": user.PasswordHash,
			"role":         user.Role,
			"updatedAt":    user.UpdatedAt,
		},
		"$setOnInsert": bson.M{
			"_id":       user.ID,
			"createdAt": user.CreatedAt,
		},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var out User
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"email": user.Email}, update, opts).Decode(&out); err != nil {
		return User{}, err
	}
	return out, nil
}

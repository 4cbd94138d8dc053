package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/anikasharma/recipe-share/backend/internal/models"
)

// MongoStore handles recipe CRUD in MongoDB. It is ownership-agnostic: who
// may mutate which recipe is decided above this layer.
type MongoStore struct {
	col *mongo.Collection
}

func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{col: db.Collection("recipes")}
}

// Insert stores a new recipe and returns it with its assigned id.
func (s *MongoStore) Insert(ctx context.Context, rec *models.Recipe) (*models.Recipe, error) {
	rec.CreatedAt = time.Now().UTC()
	res, err := s.col.InsertOne(ctx, rec)
	if err != nil {
		return nil, fmt.Errorf("mongo insert: %w", err)
	}
	rec.ID = res.InsertedID.(primitive.ObjectID)
	return rec, nil
}

// GetByID looks up a recipe. A malformed hex id yields ErrInvalidID, a
// well-formed but absent one ErrNotFound.
func (s *MongoStore) GetByID(ctx context.Context, id string) (*models.Recipe, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrInvalidID
	}
	var rec models.Recipe
	if err := s.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&rec); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("mongo find: %w", err)
	}
	return &rec, nil
}

// List returns one page of recipes, newest first, plus the total count.
// page and limit must be positive; the caller validates them.
func (s *MongoStore) List(ctx context.Context, page, limit int) ([]models.Recipe, int64, error) {
	total, err := s.col.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, 0, fmt.Errorf("mongo count: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64(page-1) * int64(limit)).
		SetLimit(int64(limit))
	cur, err := s.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("mongo find: %w", err)
	}
	defer cur.Close(ctx)

	var recs []models.Recipe
	if err := cur.All(ctx, &recs); err != nil {
		return nil, 0, fmt.Errorf("mongo cursor: %w", err)
	}
	return recs, total, nil
}

// Update replaces the mutable fields of a recipe and returns the updated
// document. created_by and created_at are not part of the $set and can never
// change here.
func (s *MongoStore) Update(ctx context.Context, id string, in *models.RecipeInput) (*models.Recipe, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrInvalidID
	}

	set := bson.M{
		"title":        in.Title,
		"ingredients":  in.Ingredients,
		"instructions": in.Instructions,
		"cooking_time": in.CookingTime,
		"servings":     in.Servings,
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var rec models.Recipe
	err = s.col.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set}, opts).Decode(&rec)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("mongo update: %w", err)
	}
	return &rec, nil
}

// Delete removes a recipe.
func (s *MongoStore) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrInvalidID
	}
	res, err := s.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("mongo delete: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// SetImageKey records the object-store key of a recipe's cover image.
func (s *MongoStore) SetImageKey(ctx context.Context, id, key string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrInvalidID
	}
	res, err := s.col.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{"image_object_key": key}})
	if err != nil {
		return fmt.Errorf("mongo set image key: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

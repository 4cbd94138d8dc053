package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Recipe is a single recipe stored in MongoDB. CreatedBy and CreatedAt are
// server-assigned and immutable after insert.
type Recipe struct {
	ID             primitive.ObjectID `json:"id"                         bson:"_id,omitempty"`
	Title          string             `json:"title"                      bson:"title"`
	Ingredients    []string           `json:"ingredients"                bson:"ingredients"`
	Instructions   string             `json:"instructions"               bson:"instructions"`
	CookingTime    *int               `json:"cooking_time,omitempty"     bson:"cooking_time,omitempty"`
	Servings       *int               `json:"servings,omitempty"         bson:"servings,omitempty"`
	ImageObjectKey string             `json:"image_object_key,omitempty" bson:"image_object_key,omitempty"`
	CreatedBy      string             `json:"created_by"                 bson:"created_by"`
	CreatedAt      time.Time          `json:"created_at"                 bson:"created_at"`
}

// RecipeInput is the JSON body for POST /api/recipes and PUT /api/recipes/{id}.
// It deliberately has no created_by field: ownership always comes from the
// authenticated token.
type RecipeInput struct {
	Title        string   `json:"title"`
	Ingredients  []string `json:"ingredients"`
	Instructions string   `json:"instructions"`
	CookingTime  *int     `json:"cooking_time"`
	Servings     *int     `json:"servings"`
}

// Pagination describes the page window returned by GET /api/recipes.
type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int   `json:"pages"`
}

// RecipeList is the body for GET /api/recipes.
type RecipeList struct {
	Recipes    []Recipe   `json:"recipes"`
	Pagination Pagination `json:"pagination"`
}

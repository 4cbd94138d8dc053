package recipe

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"math"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/anikasharma/recipe-share/backend/internal/auth"
	"github.com/anikasharma/recipe-share/backend/internal/models"
	"github.com/anikasharma/recipe-share/backend/internal/store"
)

const (
	defaultPage  = 1
	defaultLimit = 10

	// maxImageBytes caps cover-image uploads at 5 MiB.
	maxImageBytes = 5 << 20
)

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// storeError maps store sentinel errors onto HTTP responses. Anything that
// is not a domain error is logged and surfaced as a generic 500.
func storeError(w http.ResponseWriter, err error, action string) {
	switch {
	case errors.Is(err, store.ErrInvalidID):
		writeError(w, http.StatusBadRequest, "invalid recipe id")
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, "recipe not found")
	default:
		log.Printf("%s: %v", action, err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

// RecipeStore defines the interface for recipe persistence. The store is
// ownership-agnostic; these handlers decide who may mutate what.
type RecipeStore interface {
	Insert(ctx context.Context, rec *models.Recipe) (*models.Recipe, error)
	GetByID(ctx context.Context, id string) (*models.Recipe, error)
	List(ctx context.Context, page, limit int) ([]models.Recipe, int64, error)
	Update(ctx context.Context, id string, in *models.RecipeInput) (*models.Recipe, error)
	Delete(ctx context.Context, id string) error
	SetImageKey(ctx context.Context, id, key string) error
}

// FileStore defines the interface for image storage.
type FileStore interface {
	Upload(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	Download(ctx context.Context, key string) (io.ReadCloser, string, error)
	Remove(ctx context.Context, key string) error
}

// Handler holds recipe HTTP handlers.
type Handler struct {
	recipes RecipeStore
	images  FileStore
}

func NewHandler(recipes RecipeStore, images FileStore) *Handler {
	return &Handler{recipes: recipes, images: images}
}

func validateInput(in *models.RecipeInput) string {
	if in.Title == "" {
		return "title is required"
	}
	if in.Instructions == "" {
		return "instructions are required"
	}
	if in.CookingTime != nil && *in.CookingTime <= 0 {
		return "cooking_time must be positive"
	}
	if in.Servings != nil && *in.Servings <= 0 {
		return "servings must be positive"
	}
	return ""
}

// Create stores a new recipe owned by the authenticated user. Ownership
// always comes from the token, never from the request body.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	claims := auth.ClaimsFrom(r.Context())
	if claims == nil {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var in models.RecipeInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if msg := validateInput(&in); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}
	if in.Ingredients == nil {
		in.Ingredients = []string{}
	}

	rec := &models.Recipe{
		Title:        in.Title,
		Ingredients:  in.Ingredients,
		Instructions: in.Instructions,
		CookingTime:  in.CookingTime,
		Servings:     in.Servings,
		CreatedBy:    claims.UserID,
	}
	saved, err := h.recipes.Insert(r.Context(), rec)
	if err != nil {
		log.Printf("insert recipe: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to save recipe")
		return
	}
	writeJSON(w, http.StatusCreated, saved)
}

// List returns one public page of recipes, newest first.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page := positiveQueryParam(r, "page", defaultPage)
	limit := positiveQueryParam(r, "limit", defaultLimit)

	recipes, total, err := h.recipes.List(r.Context(), page, limit)
	if err != nil {
		log.Printf("list recipes: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if recipes == nil {
		recipes = []models.Recipe{}
	}

	writeJSON(w, http.StatusOK, models.RecipeList{
		Recipes: recipes,
		Pagination: models.Pagination{
			Page:  page,
			Limit: limit,
			Total: total,
			Pages: int(math.Ceil(float64(total) / float64(limit))),
		},
	})
}

// Get returns a single recipe. Reads are public.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	rec, err := h.recipes.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		storeError(w, err, "get recipe")
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// Update replaces the mutable fields of a recipe. Only the owner may update;
// existence is checked first so a missing recipe reports 404 to everyone.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	claims := auth.ClaimsFrom(r.Context())
	if claims == nil {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	id := chi.URLParam(r, "id")

	rec, err := h.recipes.GetByID(r.Context(), id)
	if err != nil {
		storeError(w, err, "get recipe")
		return
	}
	if rec.CreatedBy != claims.UserID {
		writeError(w, http.StatusForbidden, "not the recipe owner")
		return
	}

	var in models.RecipeInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if msg := validateInput(&in); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}
	if in.Ingredients == nil {
		in.Ingredients = []string{}
	}

	updated, err := h.recipes.Update(r.Context(), id, &in)
	if err != nil {
		storeError(w, err, "update recipe")
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// Delete removes a recipe and its stored image. Same gate as Update:
// existence first, then ownership.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	claims := auth.ClaimsFrom(r.Context())
	if claims == nil {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	id := chi.URLParam(r, "id")

	rec, err := h.recipes.GetByID(r.Context(), id)
	if err != nil {
		storeError(w, err, "get recipe")
		return
	}
	if rec.CreatedBy != claims.UserID {
		writeError(w, http.StatusForbidden, "not the recipe owner")
		return
	}

	if err := h.recipes.Delete(r.Context(), id); err != nil {
		storeError(w, err, "delete recipe")
		return
	}

	// Remove the image only once the record is gone, so a failed delete
	// never leaves a record pointing at a missing object.
	if rec.ImageObjectKey != "" {
		if err := h.images.Remove(r.Context(), rec.ImageObjectKey); err != nil {
			log.Printf("remove image %s: %v", rec.ImageObjectKey, err)
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "recipe deleted"})
}

// UploadImage attaches a cover image to a recipe the caller owns. The body
// is the raw image; a previous image is replaced.
func (h *Handler) UploadImage(w http.ResponseWriter, r *http.Request) {
	claims := auth.ClaimsFrom(r.Context())
	if claims == nil {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	id := chi.URLParam(r, "id")

	rec, err := h.recipes.GetByID(r.Context(), id)
	if err != nil {
		storeError(w, err, "get recipe")
		return
	}
	if rec.CreatedBy != claims.UserID {
		writeError(w, http.StatusForbidden, "not the recipe owner")
		return
	}

	data, err := io.ReadAll(io.LimitReader(r.Body, maxImageBytes+1))
	if err != nil {
		writeError(w, http.StatusBadRequest, "could not read image")
		return
	}
	if len(data) == 0 {
		writeError(w, http.StatusBadRequest, "image body is empty")
		return
	}
	if len(data) > maxImageBytes {
		writeError(w, http.StatusBadRequest, "image too large")
		return
	}

	contentType := r.Header.Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}

	key := fmt.Sprintf("recipes/%s/%s", id, uuid.New().String())
	if err := h.images.Upload(r.Context(), key, bytes.NewReader(data), int64(len(data)), contentType); err != nil {
		log.Printf("upload image: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to store image")
		return
	}
	if err := h.recipes.SetImageKey(r.Context(), id, key); err != nil {
		storeError(w, err, "set image key")
		return
	}
	if rec.ImageObjectKey != "" {
		if err := h.images.Remove(r.Context(), rec.ImageObjectKey); err != nil {
			log.Printf("remove old image %s: %v", rec.ImageObjectKey, err)
		}
	}

	updated, err := h.recipes.GetByID(r.Context(), id)
	if err != nil {
		storeError(w, err, "get recipe")
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// DownloadImage streams a recipe's cover image. Reads are public.
func (h *Handler) DownloadImage(w http.ResponseWriter, r *http.Request) {
	rec, err := h.recipes.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		storeError(w, err, "get recipe")
		return
	}
	if rec.ImageObjectKey == "" {
		writeError(w, http.StatusNotFound, "image not available")
		return
	}

	rc, contentType, err := h.images.Download(r.Context(), rec.ImageObjectKey)
	if err != nil {
		log.Printf("download image %s: %v", rec.ImageObjectKey, err)
		writeError(w, http.StatusInternalServerError, "download failed")
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Type", contentType)
	if _, err := io.Copy(w, rc); err != nil {
		log.Printf("stream image %s: %v", rec.ImageObjectKey, err)
	}
}

func positiveQueryParam(r *http.Request, name string, fallback int) int {
	n, err := strconv.Atoi(r.URL.Query().Get(name))
	if err != nil || n < 1 {
		return fallback
	}
	return n
}

package transport

import (
	"net/http"

	"catalog-service/internal/domain"
	"catalog-service/internal/middleware"
	"catalog-service/internal/service"

	"go.uber.org/zap"
)

// CategoryRequest represents the category create/update payload. Omit parent_id for a root category.
type CategoryRequest struct {
	ParentID     *string `json:"parent_id" validate:"omitempty,uuid"`
	Name         string  `json:"name" validate:"required,max=255"`
	Description  string  `json:"description" validate:"max=2000"`
	DisplayOrder int     `json:"display_order" validate:"gte=0"`
}

// CategoryResponse represents a category
type CategoryResponse struct {
	ID           string  `json:"id"`
	ParentID     *string `json:"parent_id"`
	Name         string  `json:"name"`
	Description  string  `json:"description"`
	ImageURL     string  `json:"image_url,omitempty"`
	DisplayOrder int     `json:"display_order"`
}

// CategoryHandler handles HTTP requests for categories
type CategoryHandler struct {
	categories service.CategoryService
	images     service.ImageBucket
	logger     *zap.Logger
}

// NewCategoryHandler creates a new CategoryHandler
func NewCategoryHandler(categories service.CategoryService, images service.ImageBucket, logger *zap.Logger) *CategoryHandler {
	return &CategoryHandler{
		categories: categories,
		images:     images,
		logger:     logger,
	}
}

func (h *CategoryHandler) toResponse(c *domain.Category) CategoryResponse {
	return CategoryResponse{
		ID:           c.ID().String(),
		ParentID:     optionalString(c.ParentID()),
		Name:         c.Name(),
		Description:  c.Description(),
		ImageURL:     h.images.URL(c.ImageRef()),
		DisplayOrder: c.DisplayOrder(),
	}
}

func (h *CategoryHandler) respondList(w http.ResponseWriter, categories []*domain.Category) {
	response := make([]CategoryResponse, 0, len(categories))
	for _, c := range categories {
		response = append(response, h.toResponse(c))
	}
	middleware.RespondWithJSON(w, http.StatusOK, response)
}

func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	categories, err := h.categories.List(r.Context())
	if err != nil {
		respondWithServiceError(w, h.logger, "list categories", err)
		return
	}
	h.respondList(w, categories)
}

func (h *CategoryHandler) ListRoots(w http.ResponseWriter, r *http.Request) {
	categories, err := h.categories.ListRoots(r.Context())
	if err != nil {
		respondWithServiceError(w, h.logger, "list root categories", err)
		return
	}
	h.respondList(w, categories)
}

func (h *CategoryHandler) ListSubcategories(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	categories, err := h.categories.ListSubcategories(r.Context(), id)
	if err != nil {
		respondWithServiceError(w, h.logger, "list subcategories", err)
		return
	}
	h.respondList(w, categories)
}

func (h *CategoryHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	category, err := h.categories.Get(r.Context(), id)
	if err != nil {
		respondWithServiceError(w, h.logger, "get category", err)
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, h.toResponse(category))
}

func (h *CategoryHandler) decodeInput(w http.ResponseWriter, r *http.Request) (service.CategoryInput, bool) {
	var req CategoryRequest
	if !decodeRequest(w, r, h.logger, &req) {
		return service.CategoryInput{}, false
	}

	parentID, err := parseOptionalID(req.ParentID)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid parent_id")
		return service.CategoryInput{}, false
	}
	return service.CategoryInput{
		ParentID:     parentID,
		Name:         req.Name,
		Description:  req.Description,
		DisplayOrder: req.DisplayOrder,
	}, true
}

func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	in, ok := h.decodeInput(w, r)
	if !ok {
		return
	}

	category, err := h.categories.Create(r.Context(), in)
	if err != nil {
		respondWithServiceError(w, h.logger, "create category", err)
		return
	}

	h.logger.Info("Category created", zap.String("category_id", category.ID().String()))
	middleware.RespondWithJSON(w, http.StatusCreated, h.toResponse(category))
}

func (h *CategoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	in, ok := h.decodeInput(w, r)
	if !ok {
		return
	}

	category, err := h.categories.Update(r.Context(), id, in)
	if err != nil {
		respondWithServiceError(w, h.logger, "update category", err)
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, h.toResponse(category))
}

func (h *CategoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.categories.Delete(r.Context(), id); err != nil {
		respondWithServiceError(w, h.logger, "delete category", err)
		return
	}

	h.logger.Info("Category deleted", zap.String("category_id", id.String()))
	w.WriteHeader(http.StatusNoContent)
}

func (h *CategoryHandler) SetImage(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	data, ok := readUpload(w, r, h.images.MaxBytes)
	if !ok {
		return
	}

	category, err := h.categories.SetImage(r.Context(), id, data)
	if err != nil {
		respondWithServiceError(w, h.logger, "set category image", err)
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, h.toResponse(category))
}

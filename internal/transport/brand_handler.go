package transport

import (
	"net/http"

	"catalog-service/internal/domain"
	"catalog-service/internal/middleware"
	"catalog-service/internal/service"

	"go.uber.org/zap"
)

// BrandRequest represents the brand create/update payload
type BrandRequest struct {
	Name         string `json:"name" validate:"required,max=255"`
	Description  string `json:"description" validate:"max=2000"`
	DisplayOrder int    `json:"display_order" validate:"gte=0"`
}

// BrandResponse represents a brand
type BrandResponse struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	ImageURL     string `json:"image_url,omitempty"`
	DisplayOrder int    `json:"display_order"`
}

// BrandHandler handles HTTP requests for brands
type BrandHandler struct {
	brands service.BrandService
	images service.ImageBucket
	logger *zap.Logger
}

// NewBrandHandler creates a new BrandHandler
func NewBrandHandler(brands service.BrandService, images service.ImageBucket, logger *zap.Logger) *BrandHandler {
	return &BrandHandler{
		brands: brands,
		images: images,
		logger: logger,
	}
}

func (h *BrandHandler) toResponse(b *domain.Brand) BrandResponse {
	return BrandResponse{
		ID:           b.ID().String(),
		Name:         b.Name(),
		Description:  b.Description(),
		ImageURL:     h.images.URL(b.ImageRef()),
		DisplayOrder: b.DisplayOrder(),
	}
}

func (h *BrandHandler) List(w http.ResponseWriter, r *http.Request) {
	brands, err := h.brands.List(r.Context())
	if err != nil {
		respondWithServiceError(w, h.logger, "list brands", err)
		return
	}

	response := make([]BrandResponse, 0, len(brands))
	for _, b := range brands {
		response = append(response, h.toResponse(b))
	}
	middleware.RespondWithJSON(w, http.StatusOK, response)
}

func (h *BrandHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	brand, err := h.brands.Get(r.Context(), id)
	if err != nil {
		respondWithServiceError(w, h.logger, "get brand", err)
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, h.toResponse(brand))
}

func (h *BrandHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req BrandRequest
	if !decodeRequest(w, r, h.logger, &req) {
		return
	}

	brand, err := h.brands.Create(r.Context(), service.BrandInput(req))
	if err != nil {
		respondWithServiceError(w, h.logger, "create brand", err)
		return
	}

	h.logger.Info("Brand created", zap.String("brand_id", brand.ID().String()))
	middleware.RespondWithJSON(w, http.StatusCreated, h.toResponse(brand))
}

func (h *BrandHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req BrandRequest
	if !decodeRequest(w, r, h.logger, &req) {
		return
	}

	brand, err := h.brands.Update(r.Context(), id, service.BrandInput(req))
	if err != nil {
		respondWithServiceError(w, h.logger, "update brand", err)
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, h.toResponse(brand))
}

func (h *BrandHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.brands.Delete(r.Context(), id); err != nil {
		respondWithServiceError(w, h.logger, "delete brand", err)
		return
	}

	h.logger.Info("Brand deleted", zap.String("brand_id", id.String()))
	w.WriteHeader(http.StatusNoContent)
}

func (h *BrandHandler) SetImage(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	data, ok := readUpload(w, r, h.images.MaxBytes)
	if !ok {
		return
	}

	brand, err := h.brands.SetImage(r.Context(), id, data)
	if err != nil {
		respondWithServiceError(w, h.logger, "set brand image", err)
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, h.toResponse(brand))
}

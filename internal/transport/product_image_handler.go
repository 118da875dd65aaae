package transport

import (
	"net/http"

	"catalog-service/internal/domain"
	"catalog-service/internal/middleware"
	"catalog-service/internal/service"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ImageOrderRequest assigns a display position to one image
type ImageOrderRequest struct {
	ID           string `json:"id" validate:"required,uuid"`
	DisplayOrder int    `json:"display_order" validate:"gte=0"`
}

// ReorderImagesRequest represents the batch reorder payload
type ReorderImagesRequest struct {
	Images []ImageOrderRequest `json:"images" validate:"required,min=1,dive"`
}

// DisplayOrderRequest represents the single image update payload
type DisplayOrderRequest struct {
	DisplayOrder *int `json:"display_order" validate:"required,gte=0"`
}

// ProductImageResponse represents a product image
type ProductImageResponse struct {
	ID           string `json:"id"`
	ProductID    string `json:"product_id"`
	URL          string `json:"url"`
	DisplayOrder int    `json:"display_order"`
}

// ImageCountResponse represents the number of images of a product
type ImageCountResponse struct {
	ProductID string `json:"product_id"`
	Count     int    `json:"count"`
}

// ProductImageHandler handles HTTP requests for product images
type ProductImageHandler struct {
	images service.ProductImageService
	blobs  service.ImageBucket
	logger *zap.Logger
}

// NewProductImageHandler creates a new ProductImageHandler
func NewProductImageHandler(images service.ProductImageService, blobs service.ImageBucket, logger *zap.Logger) *ProductImageHandler {
	return &ProductImageHandler{
		images: images,
		blobs:  blobs,
		logger: logger,
	}
}

func (h *ProductImageHandler) toResponse(img *domain.ProductImage) ProductImageResponse {
	return ProductImageResponse{
		ID:           img.ID().String(),
		ProductID:    img.ProductID().String(),
		URL:          h.blobs.URL(img.ImageRef()),
		DisplayOrder: img.DisplayOrder(),
	}
}

func (h *ProductImageHandler) respondList(w http.ResponseWriter, status int, images []*domain.ProductImage) {
	response := make([]ProductImageResponse, 0, len(images))
	for _, img := range images {
		response = append(response, h.toResponse(img))
	}
	middleware.RespondWithJSON(w, status, response)
}

func (h *ProductImageHandler) List(w http.ResponseWriter, r *http.Request) {
	productID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	images, err := h.images.ListByProduct(r.Context(), productID)
	if err != nil {
		respondWithServiceError(w, h.logger, "list product images", err)
		return
	}
	h.respondList(w, http.StatusOK, images)
}

func (h *ProductImageHandler) Count(w http.ResponseWriter, r *http.Request) {
	productID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	count, err := h.images.Count(r.Context(), productID)
	if err != nil {
		respondWithServiceError(w, h.logger, "count product images", err)
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, ImageCountResponse{ProductID: productID.String(), Count: count})
}

func (h *ProductImageHandler) Get(w http.ResponseWriter, r *http.Request) {
	productID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	imageID, ok := pathID(w, r, "imageId")
	if !ok {
		return
	}

	img, err := h.images.Get(r.Context(), productID, imageID)
	if err != nil {
		respondWithServiceError(w, h.logger, "get product image", err)
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, h.toResponse(img))
}

func (h *ProductImageHandler) Upload(w http.ResponseWriter, r *http.Request) {
	productID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	data, ok := readUpload(w, r, h.blobs.MaxBytes)
	if !ok {
		return
	}
	displayOrder, err := formInt(r, "display_order")
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	img, err := h.images.Upload(r.Context(), productID, data, displayOrder)
	if err != nil {
		respondWithServiceError(w, h.logger, "upload product image", err)
		return
	}

	h.logger.Info("Product image uploaded",
		zap.String("product_id", productID.String()),
		zap.String("image_id", img.ID().String()),
	)
	middleware.RespondWithJSON(w, http.StatusCreated, h.toResponse(img))
}

func (h *ProductImageHandler) Reorder(w http.ResponseWriter, r *http.Request) {
	productID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req ReorderImagesRequest
	if !decodeRequest(w, r, h.logger, &req) {
		return
	}

	orders := make([]service.ImageOrder, 0, len(req.Images))
	for _, o := range req.Images {
		id, err := uuid.Parse(o.ID)
		if err != nil {
			middleware.RespondWithError(w, http.StatusBadRequest, "invalid image id")
			return
		}
		orders = append(orders, service.ImageOrder{ImageID: id, DisplayOrder: o.DisplayOrder})
	}

	images, err := h.images.Reorder(r.Context(), productID, orders)
	if err != nil {
		respondWithServiceError(w, h.logger, "reorder product images", err)
		return
	}
	h.respondList(w, http.StatusOK, images)
}

func (h *ProductImageHandler) UpdateDisplayOrder(w http.ResponseWriter, r *http.Request) {
	productID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	imageID, ok := pathID(w, r, "imageId")
	if !ok {
		return
	}
	var req DisplayOrderRequest
	if !decodeRequest(w, r, h.logger, &req) {
		return
	}

	img, err := h.images.UpdateDisplayOrder(r.Context(), productID, imageID, *req.DisplayOrder)
	if err != nil {
		respondWithServiceError(w, h.logger, "update product image", err)
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, h.toResponse(img))
}

func (h *ProductImageHandler) Delete(w http.ResponseWriter, r *http.Request) {
	productID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	imageID, ok := pathID(w, r, "imageId")
	if !ok {
		return
	}

	if err := h.images.Delete(r.Context(), productID, imageID); err != nil {
		respondWithServiceError(w, h.logger, "delete product image", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

package transport

import (
	"net/http"

	"catalog-service/internal/domain"
	"catalog-service/internal/middleware"
	"catalog-service/internal/service"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ProductRequest represents the product create/update payload.
// Prices are decimal strings so that no precision is lost in transit.
type ProductRequest struct {
	BrandID     *string `json:"brand_id" validate:"omitempty,uuid"`
	CategoryID  *string `json:"category_id" validate:"omitempty,uuid"`
	Name        string  `json:"name" validate:"required,max=255"`
	Description string  `json:"description" validate:"max=2000"`
	Price       string  `json:"price" validate:"required,numeric"`
	Discount    string  `json:"discount" validate:"omitempty,numeric"`
	SKU         string  `json:"sku" validate:"required,len=8"`
	Stock       int     `json:"stock" validate:"gte=0"`
	IsAvailable bool    `json:"is_available"`
}

// ProductResponse represents a product
type ProductResponse struct {
	ID          string  `json:"id"`
	BrandID     *string `json:"brand_id"`
	CategoryID  *string `json:"category_id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       string  `json:"price"`
	Discount    string  `json:"discount"`
	FinalPrice  string  `json:"final_price"`
	SKU         string  `json:"sku"`
	Stock       int     `json:"stock"`
	IsAvailable bool    `json:"is_available"`
	Slug        string  `json:"slug"`
}

// ProductHandler handles HTTP requests for products
type ProductHandler struct {
	products service.ProductService
	logger   *zap.Logger
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(products service.ProductService, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{
		products: products,
		logger:   logger,
	}
}

// formatMoney pads to cents but never rounds away stored precision
func formatMoney(d decimal.Decimal) string {
	if d.Exponent() < -2 {
		return d.String()
	}
	return d.StringFixed(2)
}

func toProductResponse(p *domain.Product) ProductResponse {
	return ProductResponse{
		ID:          p.ID().String(),
		BrandID:     optionalString(p.BrandID()),
		CategoryID:  optionalString(p.CategoryID()),
		Name:        p.Name(),
		Description: p.Description(),
		Price:       formatMoney(p.Price()),
		Discount:    p.Discount().String(),
		FinalPrice:  p.FinalPrice().StringFixed(2),
		SKU:         p.SKU(),
		Stock:       p.Stock(),
		IsAvailable: p.IsAvailable(),
		Slug:        p.Slug(),
	}
}

func (h *ProductHandler) decodeDetails(w http.ResponseWriter, r *http.Request) (domain.ProductDetails, bool) {
	var req ProductRequest
	if !decodeRequest(w, r, h.logger, &req) {
		return domain.ProductDetails{}, false
	}

	fail := func(message string) (domain.ProductDetails, bool) {
		middleware.RespondWithError(w, http.StatusBadRequest, message)
		return domain.ProductDetails{}, false
	}

	brandID, err := parseOptionalID(req.BrandID)
	if err != nil {
		return fail("invalid brand_id")
	}
	categoryID, err := parseOptionalID(req.CategoryID)
	if err != nil {
		return fail("invalid category_id")
	}
	price, err := decimal.NewFromString(req.Price)
	if err != nil {
		return fail("invalid price")
	}
	discount := decimal.Zero
	if req.Discount != "" {
		if discount, err = decimal.NewFromString(req.Discount); err != nil {
			return fail("invalid discount")
		}
	}

	return domain.ProductDetails{
		BrandID:     brandID,
		CategoryID:  categoryID,
		Name:        req.Name,
		Description: req.Description,
		Price:       price,
		Discount:    discount,
		SKU:         req.SKU,
		Stock:       req.Stock,
		IsAvailable: req.IsAvailable,
	}, true
}

func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	products, err := h.products.List(r.Context())
	if err != nil {
		respondWithServiceError(w, h.logger, "list products", err)
		return
	}

	response := make([]ProductResponse, 0, len(products))
	for _, p := range products {
		response = append(response, toProductResponse(p))
	}
	middleware.RespondWithJSON(w, http.StatusOK, response)
}

func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	product, err := h.products.Get(r.Context(), id)
	if err != nil {
		respondWithServiceError(w, h.logger, "get product", err)
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, toProductResponse(product))
}

func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	details, ok := h.decodeDetails(w, r)
	if !ok {
		return
	}

	product, err := h.products.Create(r.Context(), details)
	if err != nil {
		respondWithServiceError(w, h.logger, "create product", err)
		return
	}

	h.logger.Info("Product created",
		zap.String("product_id", product.ID().String()),
		zap.String("sku", product.SKU()),
	)
	middleware.RespondWithJSON(w, http.StatusCreated, toProductResponse(product))
}

func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	details, ok := h.decodeDetails(w, r)
	if !ok {
		return
	}

	product, err := h.products.Update(r.Context(), id, details)
	if err != nil {
		respondWithServiceError(w, h.logger, "update product", err)
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, toProductResponse(product))
}

func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.products.Delete(r.Context(), id); err != nil {
		respondWithServiceError(w, h.logger, "delete product", err)
		return
	}

	h.logger.Info("Product deleted", zap.String("product_id", id.String()))
	w.WriteHeader(http.StatusNoContent)
}

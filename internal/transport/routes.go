package transport

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Handlers groups the catalog handlers mounted under /api/v1
type Handlers struct {
	Brands        *BrandHandler
	Categories    *CategoryHandler
	Products      *ProductHandler
	ProductImages *ProductImageHandler
}

// RegisterRoutes registers the catalog API. Reads are public; writeGuard wraps every write.
func RegisterRoutes(r chi.Router, h Handlers, writeGuard func(http.Handler) http.Handler) {
	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/brands", func(r chi.Router) {
			r.Get("/", h.Brands.List)
			r.Get("/{id}", h.Brands.Get)

			r.Group(func(r chi.Router) {
				r.Use(writeGuard)
				r.Post("/", h.Brands.Create)
				r.Put("/{id}", h.Brands.Update)
				r.Delete("/{id}", h.Brands.Delete)
				r.Put("/{id}/image", h.Brands.SetImage)
			})
		})

		r.Route("/categories", func(r chi.Router) {
			r.Get("/", h.Categories.List)
			r.Get("/roots", h.Categories.ListRoots)
			r.Get("/{id}", h.Categories.Get)
			r.Get("/{id}/subcategories", h.Categories.ListSubcategories)

			r.Group(func(r chi.Router) {
				r.Use(writeGuard)
				r.Post("/", h.Categories.Create)
				r.Put("/{id}", h.Categories.Update)
				r.Delete("/{id}", h.Categories.Delete)
				r.Put("/{id}/image", h.Categories.SetImage)
			})
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", h.Products.List)
			r.Get("/{id}", h.Products.Get)
			r.Get("/{id}/images", h.ProductImages.List)
			r.Get("/{id}/images/count", h.ProductImages.Count)
			r.Get("/{id}/images/{imageId}", h.ProductImages.Get)

			r.Group(func(r chi.Router) {
				r.Use(writeGuard)
				r.Post("/", h.Products.Create)
				r.Put("/{id}", h.Products.Update)
				r.Delete("/{id}", h.Products.Delete)
				r.Post("/{id}/images", h.ProductImages.Upload)
				r.Put("/{id}/images/order", h.ProductImages.Reorder)
				r.Put("/{id}/images/{imageId}", h.ProductImages.UpdateDisplayOrder)
				r.Delete("/{id}/images/{imageId}", h.ProductImages.Delete)
			})
		})
	})
}

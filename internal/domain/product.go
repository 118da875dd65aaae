package domain

import (
	"encoding/json"
	"strings"
	"unicode"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductDetails carries the mutable attributes of a product
type ProductDetails struct {
	BrandID     *uuid.UUID
	CategoryID  *uuid.UUID
	Name        string
	Description string
	Price       decimal.Decimal
	Discount    decimal.Decimal
	SKU         string
	Stock       int
	IsAvailable bool
}

// Product represents a sellable item in the catalog.
// Brand and category are weak references by id; images are owned by ProductImage rows.
type Product struct {
	id          uuid.UUID
	brandID     *uuid.UUID
	categoryID  *uuid.UUID
	name        string
	description string
	price       decimal.Decimal
	discount    decimal.Decimal
	sku         string
	stock       int
	isAvailable bool
	slug        string
}

// NewProduct creates a product with a freshly generated id
func NewProduct(details ProductDetails) (*Product, error) {
	p := &Product{id: uuid.New()}
	if err := p.Update(details); err != nil {
		return nil, err
	}
	return p, nil
}

// RestoreProduct rebuilds a product from persisted state, keeping the stored slug
func RestoreProduct(id uuid.UUID, details ProductDetails, slug string) *Product {
	return &Product{
		id:          id,
		brandID:     copyID(details.BrandID),
		categoryID:  copyID(details.CategoryID),
		name:        details.Name,
		description: details.Description,
		price:       details.Price,
		discount:    details.Discount,
		sku:         details.SKU,
		stock:       details.Stock,
		isAvailable: details.IsAvailable,
		slug:        slug,
	}
}

// Update validates and applies new attribute values and regenerates the slug
func (p *Product) Update(details ProductDetails) error {
	sku := strings.ToUpper(strings.TrimSpace(details.SKU))

	if err := validateName(details.Name); err != nil {
		return err
	}
	if err := validateDescription(details.Description); err != nil {
		return err
	}
	if details.Price.IsNegative() {
		return invalid("price", "must be non-negative")
	}
	if details.Discount.IsNegative() || details.Discount.GreaterThan(decimal.NewFromInt(1)) {
		return invalid("discount", "must be between 0 and 1")
	}
	if err := validateSKU(sku); err != nil {
		return err
	}
	if details.Stock < 0 {
		return invalid("stock", "must be non-negative")
	}

	p.brandID = copyID(details.BrandID)
	p.categoryID = copyID(details.CategoryID)
	p.name = details.Name
	p.description = details.Description
	p.price = details.Price
	p.discount = details.Discount
	p.sku = sku
	p.stock = details.Stock
	p.isAvailable = details.IsAvailable
	p.slug = Slugify(details.Name) + "-" + strings.ToLower(sku)
	return nil
}

func (p *Product) ID() uuid.UUID { return p.id }
func (p *Product) BrandID() *uuid.UUID { return copyID(p.brandID) }
func (p *Product) CategoryID() *uuid.UUID { return copyID(p.categoryID) }
func (p *Product) Name() string { return p.name }
func (p *Product) Description() string { return p.description }
func (p *Product) Price() decimal.Decimal { return p.price }
func (p *Product) Discount() decimal.Decimal { return p.discount }
func (p *Product) SKU() string { return p.sku }
func (p *Product) Stock() int { return p.stock }
func (p *Product) IsAvailable() bool { return p.isAvailable }
func (p *Product) Slug() string { return p.slug }

// FinalPrice is the price after discount, rounded to cents
func (p *Product) FinalPrice() decimal.Decimal {
	return p.price.Mul(decimal.NewFromInt(1).Sub(p.discount)).Round(2)
}

// Details returns a copy of the mutable attributes
func (p *Product) Details() ProductDetails {
	return ProductDetails{
		BrandID:     copyID(p.brandID),
		CategoryID:  copyID(p.categoryID),
		Name:        p.name,
		Description: p.description,
		Price:       p.price,
		Discount:    p.discount,
		SKU:         p.sku,
		Stock:       p.stock,
		IsAvailable: p.isAvailable,
	}
}

func validateSKU(sku string) error {
	if len(sku) != SKULength {
		return invalid("sku", "must be exactly 8 characters")
	}
	for _, r := range sku {
		if !(r >= 'A' && r <= 'Z') && !(r >= '0' && r <= '9') {
			return invalid("sku", "must contain only letters and digits")
		}
	}
	return nil
}

// Slugify lower-cases s and collapses every run of non-alphanumerics into a single dash
func Slugify(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

type productRecord struct {
	V           int             `json:"v"`
	ID          uuid.UUID       `json:"id"`
	BrandID     *uuid.UUID      `json:"brand_id"`
	CategoryID  *uuid.UUID      `json:"category_id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Discount    decimal.Decimal `json:"discount"`
	SKU         string          `json:"sku"`
	Stock       int             `json:"stock"`
	IsAvailable bool            `json:"is_available"`
	Slug        string          `json:"slug"`
}

// MarshalJSON implements the cache serialization contract for Product.
// Decimals are written as strings so no precision is lost.
func (p *Product) MarshalJSON() ([]byte, error) {
	return json.Marshal(productRecord{
		V:           recordVersion,
		ID:          p.id,
		BrandID:     p.brandID,
		CategoryID:  p.categoryID,
		Name:        p.name,
		Description: p.description,
		Price:       p.price,
		Discount:    p.discount,
		SKU:         p.sku,
		Stock:       p.stock,
		IsAvailable: p.isAvailable,
		Slug:        p.slug,
	})
}

// UnmarshalJSON restores every field of a serialized product, including the derived slug
func (p *Product) UnmarshalJSON(data []byte) error {
	var rec productRecord
	if err := decodeRecord(data, &rec, func() int { return rec.V }); err != nil {
		return err
	}
	*p = *RestoreProduct(rec.ID, ProductDetails{
		BrandID:     rec.BrandID,
		CategoryID:  rec.CategoryID,
		Name:        rec.Name,
		Description: rec.Description,
		Price:       rec.Price,
		Discount:    rec.Discount,
		SKU:         rec.SKU,
		Stock:       rec.Stock,
		IsAvailable: rec.IsAvailable,
	}, rec.Slug)
	return nil
}

package domain

import (
	"encoding/json"
	"strings"

	"github.com/google/uuid"
)

// ProductImage is an image attached to exactly one product
type ProductImage struct {
	id           uuid.UUID
	productID    uuid.UUID
	imageRef     string
	displayOrder int
}

// NewProductImage creates an image for productID with a freshly generated id
func NewProductImage(productID uuid.UUID, imageRef string, displayOrder int) (*ProductImage, error) {
	if productID == uuid.Nil {
		return nil, invalid("product_id", "is required")
	}
	img := &ProductImage{id: uuid.New(), productID: productID}
	if err := img.Update(imageRef, displayOrder); err != nil {
		return nil, err
	}
	return img, nil
}

// RestoreProductImage rebuilds an image from persisted state
func RestoreProductImage(id, productID uuid.UUID, imageRef string, displayOrder int) *ProductImage {
	return &ProductImage{
		id:           id,
		productID:    productID,
		imageRef:     imageRef,
		displayOrder: displayOrder,
	}
}

// Update validates and applies a new image reference and display order.
// The owning product never changes.
func (i *ProductImage) Update(imageRef string, displayOrder int) error {
	if strings.TrimSpace(imageRef) == "" {
		return invalid("image_ref", "is required")
	}
	if err := validateDisplayOrder(displayOrder); err != nil {
		return err
	}

	i.imageRef = imageRef
	i.displayOrder = displayOrder
	return nil
}

func (i *ProductImage) ID() uuid.UUID { return i.id }
func (i *ProductImage) ProductID() uuid.UUID { return i.productID }
func (i *ProductImage) ImageRef() string { return i.imageRef }
func (i *ProductImage) DisplayOrder() int { return i.displayOrder }

type productImageRecord struct {
	V            int       `json:"v"`
	ID           uuid.UUID `json:"id"`
	ProductID    uuid.UUID `json:"product_id"`
	ImageRef     string    `json:"image_ref"`
	DisplayOrder int       `json:"display_order"`
}

// MarshalJSON implements the cache serialization contract for ProductImage
func (i *ProductImage) MarshalJSON() ([]byte, error) {
	return json.Marshal(productImageRecord{
		V:            recordVersion,
		ID:           i.id,
		ProductID:    i.productID,
		ImageRef:     i.imageRef,
		DisplayOrder: i.displayOrder,
	})
}

// UnmarshalJSON restores every field of a serialized image
func (i *ProductImage) UnmarshalJSON(data []byte) error {
	var rec productImageRecord
	if err := decodeRecord(data, &rec, func() int { return rec.V }); err != nil {
		return err
	}
	*i = *RestoreProductImage(rec.ID, rec.ProductID, rec.ImageRef, rec.DisplayOrder)
	return nil
}

package domain

import (
	"encoding/json"

	"github.com/google/uuid"
)

// Brand represents a product brand in the catalog
type Brand struct {
	id           uuid.UUID
	name         string
	description  string
	imageRef     string
	displayOrder int
}

// NewBrand creates a brand with a freshly generated id
func NewBrand(name, description string, displayOrder int) (*Brand, error) {
	b := &Brand{id: uuid.New()}
	if err := b.Update(name, description, displayOrder); err != nil {
		return nil, err
	}
	return b, nil
}

// RestoreBrand rebuilds a brand from persisted state
func RestoreBrand(id uuid.UUID, name, description, imageRef string, displayOrder int) *Brand {
	return &Brand{
		id:           id,
		name:         name,
		description:  description,
		imageRef:     imageRef,
		displayOrder: displayOrder,
	}
}

// Update validates and applies new attribute values
func (b *Brand) Update(name, description string, displayOrder int) error {
	if err := validateName(name); err != nil {
		return err
	}
	if err := validateDescription(description); err != nil {
		return err
	}
	if err := validateDisplayOrder(displayOrder); err != nil {
		return err
	}

	b.name = name
	b.description = description
	b.displayOrder = displayOrder
	return nil
}

// SetImage replaces the image reference
func (b *Brand) SetImage(ref string) {
	b.imageRef = ref
}

func (b *Brand) ID() uuid.UUID { return b.id }
func (b *Brand) Name() string { return b.name }
func (b *Brand) Description() string { return b.description }
func (b *Brand) ImageRef() string { return b.imageRef }
func (b *Brand) DisplayOrder() int { return b.displayOrder }

type brandRecord struct {
	V            int       `json:"v"`
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	ImageRef     string    `json:"image_ref"`
	DisplayOrder int       `json:"display_order"`
}

// MarshalJSON implements the cache serialization contract for Brand
func (b *Brand) MarshalJSON() ([]byte, error) {
	return json.Marshal(brandRecord{
		V:            recordVersion,
		ID:           b.id,
		Name:         b.name,
		Description:  b.description,
		ImageRef:     b.imageRef,
		DisplayOrder: b.displayOrder,
	})
}

// UnmarshalJSON restores every field, including the ones only settable through Update
func (b *Brand) UnmarshalJSON(data []byte) error {
	var rec brandRecord
	if err := decodeRecord(data, &rec, func() int { return rec.V }); err != nil {
		return err
	}
	*b = *RestoreBrand(rec.ID, rec.Name, rec.Description, rec.ImageRef, rec.DisplayOrder)
	return nil
}

package domain

import (
	"encoding/json"

	"github.com/google/uuid"
)

// Category represents a node in the self-referential category tree.
// A nil parent marks a root category.
type Category struct {
	id           uuid.UUID
	parentID     *uuid.UUID
	name         string
	description  string
	imageRef     string
	displayOrder int
}

// NewCategory creates a category with a freshly generated id.
// The caller is responsible for checking that the parent exists.
func NewCategory(parentID *uuid.UUID, name, description string, displayOrder int) (*Category, error) {
	c := &Category{id: uuid.New()}
	if err := c.Update(parentID, name, description, displayOrder); err != nil {
		return nil, err
	}
	return c, nil
}

// RestoreCategory rebuilds a category from persisted state
func RestoreCategory(id uuid.UUID, parentID *uuid.UUID, name, description, imageRef string, displayOrder int) *Category {
	return &Category{
		id:           id,
		parentID:     copyID(parentID),
		name:         name,
		description:  description,
		imageRef:     imageRef,
		displayOrder: displayOrder,
	}
}

// Update validates and applies new attribute values
func (c *Category) Update(parentID *uuid.UUID, name, description string, displayOrder int) error {
	if parentID != nil && *parentID == c.id {
		return invalid("parent_id", "must not reference the category itself")
	}
	if err := validateName(name); err != nil {
		return err
	}
	if err := validateDescription(description); err != nil {
		return err
	}
	if err := validateDisplayOrder(displayOrder); err != nil {
		return err
	}

	c.parentID = copyID(parentID)
	c.name = name
	c.description = description
	c.displayOrder = displayOrder
	return nil
}

// SetImage replaces the image reference
func (c *Category) SetImage(ref string) {
	c.imageRef = ref
}

func (c *Category) ID() uuid.UUID { return c.id }
func (c *Category) ParentID() *uuid.UUID { return copyID(c.parentID) }
func (c *Category) Name() string { return c.name }
func (c *Category) Description() string { return c.description }
func (c *Category) ImageRef() string { return c.imageRef }
func (c *Category) DisplayOrder() int { return c.displayOrder }
func (c *Category) IsRoot() bool { return c.parentID == nil }

type categoryRecord struct {
	V            int        `json:"v"`
	ID           uuid.UUID  `json:"id"`
	ParentID     *uuid.UUID `json:"parent_id"`
	Name         string     `json:"name"`
	Description  string     `json:"description"`
	ImageRef     string     `json:"image_ref"`
	DisplayOrder int        `json:"display_order"`
}

// MarshalJSON implements the cache serialization contract for Category
func (c *Category) MarshalJSON() ([]byte, error) {
	return json.Marshal(categoryRecord{
		V:            recordVersion,
		ID:           c.id,
		ParentID:     c.parentID,
		Name:         c.name,
		Description:  c.description,
		ImageRef:     c.imageRef,
		DisplayOrder: c.displayOrder,
	})
}

// UnmarshalJSON restores every field of a serialized category
func (c *Category) UnmarshalJSON(data []byte) error {
	var rec categoryRecord
	if err := decodeRecord(data, &rec, func() int { return rec.V }); err != nil {
		return err
	}
	*c = *RestoreCategory(rec.ID, rec.ParentID, rec.Name, rec.Description, rec.ImageRef, rec.DisplayOrder)
	return nil
}

func copyID(id *uuid.UUID) *uuid.UUID {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}

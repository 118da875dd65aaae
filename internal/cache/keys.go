package cache

import (
	"strings"

	"github.com/google/uuid"
)

// Entity names used as the first key segment. Every node must agree on
// these exactly, otherwise invalidations on one node miss entries written by another.
const (
	EntityBrand        = "Brand"
	EntityCategory     = "Category"
	EntityProduct      = "Product"
	EntityProductImage = "ProductImage"
)

const (
	keySeparator = "_"
	allSegment   = "All"
	subSegment   = "Sub"
)

// EntityKey identifies a single entity: "{Entity}_{id}"
func EntityKey(entity string, id uuid.UUID) string {
	return entity + keySeparator + id.String()
}

// AllKey identifies the full collection of an entity: "{Entity}_All"
func AllKey(entity string) string {
	return entity + keySeparator + allSegment
}

// RelationKey identifies a collection scoped by a related id:
// "{Entity}_{Relation}_{relatedID}". An empty relatedID is kept as-is.
func RelationKey(entity, relation, relatedID string) string {
	return entity + keySeparator + relation + keySeparator + relatedID
}

// CategorySubKey identifies the direct children of parentID. Root categories
// (nil parent) share the key "Category_Sub_".
func CategorySubKey(parentID *uuid.UUID) string {
	related := ""
	if parentID != nil {
		related = parentID.String()
	}
	return RelationKey(EntityCategory, subSegment, related)
}

// ProductImagesKey identifies the images of one product: "ProductImage_All_{productId}"
func ProductImagesKey(productID uuid.UUID) string {
	return RelationKey(EntityProductImage, allSegment, productID.String())
}

// EntityOf extracts the entity segment of a key, used as a metrics label
func EntityOf(key string) string {
	entity, _, found := strings.Cut(key, keySeparator)
	if !found {
		return "unknown"
	}
	return entity
}

package domain

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

var (
	// ErrValidation is wrapped by every invariant violation raised by an entity
	ErrValidation = errors.New("validation failed")

	// ErrSchemaMismatch is returned when a serialized entity was written with another schema version
	ErrSchemaMismatch = errors.New("serialized entity schema mismatch")
)

const (
	MaxNameLength        = 255
	MaxDescriptionLength = 2000
	SKULength            = 8
)

// recordVersion is bumped whenever a serialized record changes shape.
const recordVersion = 1

func invalid(field, reason string) error {
	return fmt.Errorf("%w: %s %s", ErrValidation, field, reason)
}

func validateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return invalid("name", "is required")
	}
	if utf8.RuneCountInString(name) > MaxNameLength {
		return invalid("name", fmt.Sprintf("must be at most %d characters", MaxNameLength))
	}
	return nil
}

func validateDescription(description string) error {
	if utf8.RuneCountInString(description) > MaxDescriptionLength {
		return invalid("description", fmt.Sprintf("must be at most %d characters", MaxDescriptionLength))
	}
	return nil
}

func validateDisplayOrder(order int) error {
	if order < 0 {
		return invalid("display_order", "must be non-negative")
	}
	return nil
}

// decodeRecord strictly decodes a serialized record and checks its schema version.
func decodeRecord(data []byte, rec any, version func() int) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(rec); err != nil {
		return fmt.Errorf("%w: %v", ErrSchemaMismatch, err)
	}
	if v := version(); v != recordVersion {
		return fmt.Errorf("%w: version %d, want %d", ErrSchemaMismatch, v, recordVersion)
	}
	return nil
}

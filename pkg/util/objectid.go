package util

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ParseObjectID converts a hex string to an ObjectID, with a uniform error
// for handlers to surface.
func ParseObjectID(id string) (primitive.ObjectID, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("invalid object id format: %w", err)
	}
	return objID, nil
}

// IsValidObjectID reports whether id is a valid ObjectID hex string.
func IsValidObjectID(id string) bool {
	_, err := primitive.ObjectIDFromHex(id)
	return err == nil
}

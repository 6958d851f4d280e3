package domain

import "go.mongodb.org/mongo-driver/bson/primitive"

// ParseID converts a hex id from a URL or token. Malformed ids are reported as
// not found since they can never match a stored document.
func ParseID(hex string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return primitive.NilObjectID, Errorf(ErrNotFound, "Resource not found with id of %s", hex)
	}
	return id, nil
}

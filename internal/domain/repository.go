package domain

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserRepository persists users of both roles.
type UserRepository interface {
	// Create fails with ErrEmailTaken when the email is already registered.
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*User, error)
	// GetByEmail includes the password hash; callers must not expose it.
	GetByEmail(ctx context.Context, email string) (*User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Update(ctx context.Context, user *User) error
	UpdatePreferences(ctx context.Context, id primitive.ObjectID, livingStandards *[]string, additionalInfo *string) (*User, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	// FindByIDs returns the users found, keyed by id. Missing ids are skipped.
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*User, error)
}

// AccommodationRepository persists listings and runs listing searches.
type AccommodationRepository interface {
	Create(ctx context.Context, acc *Accommodation) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*Accommodation, error)
	Update(ctx context.Context, acc *Accommodation) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	// Search returns one page of available listings plus the number of
	// listings matching the same predicate.
	Search(ctx context.Context, q ListingQuery) ([]*Accommodation, int64, error)
	ListByOwner(ctx context.Context, ownerID primitive.ObjectID) ([]*Accommodation, error)
	// IncrementOccupancy adds one tenant and marks the listing unavailable when full.
	IncrementOccupancy(ctx context.Context, id primitive.ObjectID) (*Accommodation, error)
}

// BookingRepository persists booking requests.
type BookingRepository interface {
	// Create fails with ErrConflict when the pair already has an active request.
	Create(ctx context.Context, req *BookingRequest) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*BookingRequest, error)
	// FindActive returns the newest active request for the pair or ErrNotFound.
	FindActive(ctx context.Context, seekerID, accommodationID primitive.ObjectID) (*BookingRequest, error)
	// UpdateStatus writes req only if the stored status still equals from.
	// A lost race yields ErrConflict.
	UpdateStatus(ctx context.Context, req *BookingRequest, from BookingStatus) error
	ListBySeeker(ctx context.Context, seekerID primitive.ObjectID, status BookingStatus) ([]*BookingRequest, error)
	ListByOwner(ctx context.Context, ownerID primitive.ObjectID, status BookingStatus) ([]*BookingRequest, error)
	CountActiveForAccommodation(ctx context.Context, accommodationID primitive.ObjectID) (int64, error)
}

package usecase

import (
	"context"

	"github.com/Abdurahmanit/meraroom-service/internal/domain"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BookingMetrics is satisfied by *metrics.MetricsManager.
type BookingMetrics interface {
	BookingCreated()
	BookingTransitioned(from, to string)
}

// ListingMetrics is satisfied by *metrics.MetricsManager.
type ListingMetrics interface {
	ListingCreated()
	ListingDeleted()
}

type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

type TokenIssuer interface {
	Issue(userID string, role domain.Role) (string, error)
}

// OwnerListings is the part of the listing service the auth flows need.
type OwnerListings interface {
	Create(ctx context.Context, ownerID primitive.ObjectID, acc *domain.Accommodation, photos []domain.Upload) (*domain.Accommodation, error)
	OwnerProfileChanged(ctx context.Context, ownerID primitive.ObjectID)
}

type nopBookingMetrics struct{}

func (nopBookingMetrics) BookingCreated() {}
func (nopBookingMetrics) BookingTransitioned(from, to string) {}

type nopListingMetrics struct{}

func (nopListingMetrics) ListingCreated() {}
func (nopListingMetrics) ListingDeleted() {}

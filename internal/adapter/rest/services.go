package rest

import (
	"context"
	"time"

	"github.com/Abdurahmanit/meraroom-service/internal/domain"
	"github.com/Abdurahmanit/meraroom-service/internal/usecase"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// The handlers depend on these narrow views of the usecases.

type AuthService interface {
	RegisterSeeker(ctx context.Context, in usecase.RegisterSeekerInput, certificate *domain.Upload) (*usecase.AuthResult, error)
	RegisterOwner(ctx context.Context, in usecase.RegisterOwnerInput, idProof *domain.Upload, listing *domain.Accommodation, photos []domain.Upload) (*usecase.AuthResult, *domain.Accommodation, error)
	Login(ctx context.Context, email, password string) (*usecase.AuthResult, error)
	GetMe(ctx context.Context, userID primitive.ObjectID) (*domain.User, error)
	UpdateMyDetails(ctx context.Context, userID primitive.ObjectID, patch domain.ProfilePatch) (*domain.User, error)
}

type ListingService interface {
	Search(ctx context.Context, q domain.ListingQuery) (*domain.ListingPage, error)
	Get(ctx context.Context, idHex string) (*domain.ListingView, error)
	Create(ctx context.Context, ownerID primitive.ObjectID, acc *domain.Accommodation, photos []domain.Upload) (*domain.Accommodation, error)
	Update(ctx context.Context, ownerID primitive.ObjectID, idHex string, patch domain.AccommodationPatch, photos []domain.Upload) (*domain.Accommodation, error)
	Delete(ctx context.Context, ownerID primitive.ObjectID, idHex string) error
	ListMine(ctx context.Context, ownerID primitive.ObjectID) ([]*domain.Accommodation, error)
}

type PreferencesService interface {
	GetPreferences(ctx context.Context, userID primitive.ObjectID) (*usecase.Preferences, error)
	UpdatePreferences(ctx context.Context, userID primitive.ObjectID, standards *[]string, info *string) (*usecase.Preferences, error)
}

type BookingService interface {
	CreateBookingRequest(ctx context.Context, seekerID primitive.ObjectID, accommodationID, message string) (*domain.BookingRequest, error)
	GetMyBookingRequestForAccommodation(ctx context.Context, seekerID primitive.ObjectID, accommodationID string) (*domain.BookingRequest, error)
	Accept(ctx context.Context, ownerID primitive.ObjectID, bookingID, note string) (*domain.BookingRequest, error)
	Reject(ctx context.Context, ownerID primitive.ObjectID, bookingID, note string) (*domain.BookingRequest, error)
	MarkBooked(ctx context.Context, ownerID primitive.ObjectID, bookingID string) (*domain.BookingRequest, error)
	MarkLiving(ctx context.Context, ownerID primitive.ObjectID, bookingID string, from *time.Time) (*domain.BookingRequest, error)
	Cancel(ctx context.Context, actorID primitive.ObjectID, role domain.Role, bookingID, reason string) (*domain.BookingRequest, error)
	ListForSeeker(ctx context.Context, seekerID primitive.ObjectID, status string) ([]*domain.BookingRequest, error)
	ListForOwner(ctx context.Context, ownerID primitive.ObjectID, status string) ([]*domain.BookingRequest, error)
}

// FileOpener streams stored uploads back to clients.
type FileOpener interface {
	Open(ctx context.Context, path string) (*domain.StoredFile, error)
}

// Pinger reports whether the primary database is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingFunc adapts a plain function to Pinger.
type PingFunc func(ctx context.Context) error

func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }

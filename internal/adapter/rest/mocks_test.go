package rest

import (
	"context"
	"time"

	"github.com/Abdurahmanit/meraroom-service/internal/domain"
	"github.com/Abdurahmanit/meraroom-service/internal/usecase"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type MockAuthService struct{ mock.Mock }

func (m *MockAuthService) RegisterSeeker(ctx context.Context, in usecase.RegisterSeekerInput, certificate *domain.Upload) (*usecase.AuthResult, error) {
	args := m.Called(ctx, in, certificate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.AuthResult), args.Error(1)
}
func (m *MockAuthService) RegisterOwner(ctx context.Context, in usecase.RegisterOwnerInput, idProof *domain.Upload, listing *domain.Accommodation, photos []domain.Upload) (*usecase.AuthResult, *domain.Accommodation, error) {
	args := m.Called(ctx, in, idProof, listing, photos)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*usecase.AuthResult), args.Get(1).(*domain.Accommodation), args.Error(2)
}
func (m *MockAuthService) Login(ctx context.Context, email, password string) (*usecase.AuthResult, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.AuthResult), args.Error(1)
}
func (m *MockAuthService) GetMe(ctx context.Context, userID primitive.ObjectID) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockAuthService) UpdateMyDetails(ctx context.Context, userID primitive.ObjectID, patch domain.ProfilePatch) (*domain.User, error) {
	args := m.Called(ctx, userID, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

type MockListingService struct{ mock.Mock }

func (m *MockListingService) Search(ctx context.Context, q domain.ListingQuery) (*domain.ListingPage, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ListingPage), args.Error(1)
}
func (m *MockListingService) Get(ctx context.Context, idHex string) (*domain.ListingView, error) {
	args := m.Called(ctx, idHex)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ListingView), args.Error(1)
}
func (m *MockListingService) Create(ctx context.Context, ownerID primitive.ObjectID, acc *domain.Accommodation, photos []domain.Upload) (*domain.Accommodation, error) {
	args := m.Called(ctx, ownerID, acc, photos)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Accommodation), args.Error(1)
}
func (m *MockListingService) Update(ctx context.Context, ownerID primitive.ObjectID, idHex string, patch domain.AccommodationPatch, photos []domain.Upload) (*domain.Accommodation, error) {
	args := m.Called(ctx, ownerID, idHex, patch, photos)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Accommodation), args.Error(1)
}
func (m *MockListingService) Delete(ctx context.Context, ownerID primitive.ObjectID, idHex string) error {
	args := m.Called(ctx, ownerID, idHex)
	return args.Error(0)
}
func (m *MockListingService) ListMine(ctx context.Context, ownerID primitive.ObjectID) ([]*domain.Accommodation, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Accommodation), args.Error(1)
}

type MockPreferencesService struct{ mock.Mock }

func (m *MockPreferencesService) GetPreferences(ctx context.Context, userID primitive.ObjectID) (*usecase.Preferences, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.Preferences), args.Error(1)
}
func (m *MockPreferencesService) UpdatePreferences(ctx context.Context, userID primitive.ObjectID, standards *[]string, info *string) (*usecase.Preferences, error) {
	args := m.Called(ctx, userID, standards, info)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.Preferences), args.Error(1)
}

type MockBookingService struct{ mock.Mock }

func (m *MockBookingService) booking(args mock.Arguments) (*domain.BookingRequest, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BookingRequest), args.Error(1)
}
func (m *MockBookingService) CreateBookingRequest(ctx context.Context, seekerID primitive.ObjectID, accommodationID, message string) (*domain.BookingRequest, error) {
	return m.booking(m.Called(ctx, seekerID, accommodationID, message))
}
func (m *MockBookingService) GetMyBookingRequestForAccommodation(ctx context.Context, seekerID primitive.ObjectID, accommodationID string) (*domain.BookingRequest, error) {
	return m.booking(m.Called(ctx, seekerID, accommodationID))
}
func (m *MockBookingService) Accept(ctx context.Context, ownerID primitive.ObjectID, bookingID, note string) (*domain.BookingRequest, error) {
	return m.booking(m.Called(ctx, ownerID, bookingID, note))
}
func (m *MockBookingService) Reject(ctx context.Context, ownerID primitive.ObjectID, bookingID, note string) (*domain.BookingRequest, error) {
	return m.booking(m.Called(ctx, ownerID, bookingID, note))
}
func (m *MockBookingService) MarkBooked(ctx context.Context, ownerID primitive.ObjectID, bookingID string) (*domain.BookingRequest, error) {
	return m.booking(m.Called(ctx, ownerID, bookingID))
}
func (m *MockBookingService) MarkLiving(ctx context.Context, ownerID primitive.ObjectID, bookingID string, from *time.Time) (*domain.BookingRequest, error) {
	return m.booking(m.Called(ctx, ownerID, bookingID, from))
}
func (m *MockBookingService) Cancel(ctx context.Context, actorID primitive.ObjectID, role domain.Role, bookingID, reason string) (*domain.BookingRequest, error) {
	return m.booking(m.Called(ctx, actorID, role, bookingID, reason))
}
func (m *MockBookingService) ListForSeeker(ctx context.Context, seekerID primitive.ObjectID, status string) ([]*domain.BookingRequest, error) {
	args := m.Called(ctx, seekerID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.BookingRequest), args.Error(1)
}
func (m *MockBookingService) ListForOwner(ctx context.Context, ownerID primitive.ObjectID, status string) ([]*domain.BookingRequest, error) {
	args := m.Called(ctx, ownerID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.BookingRequest), args.Error(1)
}

type MockFileOpener struct{ mock.Mock }

func (m *MockFileOpener) Open(ctx context.Context, path string) (*domain.StoredFile, error) {
	args := m.Called(ctx, path)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.StoredFile), args.Error(1)
}

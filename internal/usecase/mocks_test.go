package usecase

import (
	"context"

	"github.com/Abdurahmanit/meraroom-service/internal/domain"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type MockUserRepository struct{ mock.Mock }

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}
func (m *MockUserRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}
func (m *MockUserRepository) Update(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}
func (m *MockUserRepository) UpdatePreferences(ctx context.Context, id primitive.ObjectID, livingStandards *[]string, additionalInfo *string) (*domain.User, error) {
	args := m.Called(ctx, id, livingStandards, additionalInfo)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockUserRepository) FindByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*domain.User, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[primitive.ObjectID]*domain.User), args.Error(1)
}

type MockAccommodationRepository struct{ mock.Mock }

func (m *MockAccommodationRepository) Create(ctx context.Context, acc *domain.Accommodation) error {
	args := m.Called(ctx, acc)
	return args.Error(0)
}
func (m *MockAccommodationRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Accommodation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Accommodation), args.Error(1)
}
func (m *MockAccommodationRepository) Update(ctx context.Context, acc *domain.Accommodation) error {
	args := m.Called(ctx, acc)
	return args.Error(0)
}
func (m *MockAccommodationRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockAccommodationRepository) Search(ctx context.Context, q domain.ListingQuery) ([]*domain.Accommodation, int64, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]*domain.Accommodation), args.Get(1).(int64), args.Error(2)
}
func (m *MockAccommodationRepository) ListByOwner(ctx context.Context, ownerID primitive.ObjectID) ([]*domain.Accommodation, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Accommodation), args.Error(1)
}
func (m *MockAccommodationRepository) IncrementOccupancy(ctx context.Context, id primitive.ObjectID) (*domain.Accommodation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Accommodation), args.Error(1)
}

type MockBookingRepository struct{ mock.Mock }

func (m *MockBookingRepository) Create(ctx context.Context, req *domain.BookingRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}
func (m *MockBookingRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.BookingRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BookingRequest), args.Error(1)
}
func (m *MockBookingRepository) FindActive(ctx context.Context, seekerID, accommodationID primitive.ObjectID) (*domain.BookingRequest, error) {
	args := m.Called(ctx, seekerID, accommodationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BookingRequest), args.Error(1)
}
func (m *MockBookingRepository) UpdateStatus(ctx context.Context, req *domain.BookingRequest, from domain.BookingStatus) error {
	args := m.Called(ctx, req, from)
	return args.Error(0)
}
func (m *MockBookingRepository) ListBySeeker(ctx context.Context, seekerID primitive.ObjectID, status domain.BookingStatus) ([]*domain.BookingRequest, error) {
	args := m.Called(ctx, seekerID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.BookingRequest), args.Error(1)
}
func (m *MockBookingRepository) ListByOwner(ctx context.Context, ownerID primitive.ObjectID, status domain.BookingStatus) ([]*domain.BookingRequest, error) {
	args := m.Called(ctx, ownerID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.BookingRequest), args.Error(1)
}
func (m *MockBookingRepository) CountActiveForAccommodation(ctx context.Context, accommodationID primitive.ObjectID) (int64, error) {
	args := m.Called(ctx, accommodationID)
	return args.Get(0).(int64), args.Error(1)
}

type MockListingCache struct{ mock.Mock }

func (m *MockListingCache) GetPage(ctx context.Context, q domain.ListingQuery) (*domain.ListingPage, domain.CacheGeneration, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Get(1).(domain.CacheGeneration), args.Error(2)
	}
	return args.Get(0).(*domain.ListingPage), args.Get(1).(domain.CacheGeneration), args.Error(2)
}
func (m *MockListingCache) SetPage(ctx context.Context, gen domain.CacheGeneration, q domain.ListingQuery, page *domain.ListingPage) error {
	args := m.Called(ctx, gen, q, page)
	return args.Error(0)
}
func (m *MockListingCache) GetListing(ctx context.Context, id primitive.ObjectID) (*domain.ListingView, domain.CacheGeneration, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Get(1).(domain.CacheGeneration), args.Error(2)
	}
	return args.Get(0).(*domain.ListingView), args.Get(1).(domain.CacheGeneration), args.Error(2)
}
func (m *MockListingCache) SetListing(ctx context.Context, gen domain.CacheGeneration, view *domain.ListingView) error {
	args := m.Called(ctx, gen, view)
	return args.Error(0)
}
func (m *MockListingCache) Invalidate(ctx context.Context, id primitive.ObjectID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockListingCache) InvalidateAll(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type MockFileStorage struct{ mock.Mock }

func (m *MockFileStorage) Save(ctx context.Context, f domain.Upload) (string, error) {
	args := m.Called(ctx, f)
	return args.String(0), args.Error(1)
}
func (m *MockFileStorage) Open(ctx context.Context, path string) (*domain.StoredFile, error) {
	args := m.Called(ctx, path)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.StoredFile), args.Error(1)
}
func (m *MockFileStorage) Remove(ctx context.Context, path string) error {
	args := m.Called(ctx, path)
	return args.Error(0)
}

type MockEventPublisher struct{ mock.Mock }

func (m *MockEventPublisher) Publish(ctx context.Context, subject string, data interface{}) error {
	args := m.Called(ctx, subject, data)
	return args.Error(0)
}

type MockEmailSender struct{ mock.Mock }

func (m *MockEmailSender) Send(ctx context.Context, to []string, subject, bodyHTML, bodyText string) error {
	args := m.Called(ctx, to, subject, bodyHTML, bodyText)
	return args.Error(0)
}

type MockMetrics struct{ mock.Mock }

func (m *MockMetrics) BookingCreated() { m.Called() }
func (m *MockMetrics) BookingTransitioned(from, to string) { m.Called(from, to) }
func (m *MockMetrics) ListingCreated() { m.Called() }
func (m *MockMetrics) ListingDeleted() { m.Called() }

type MockHasher struct{ mock.Mock }

func (m *MockHasher) Hash(password string) (string, error) {
	args := m.Called(password)
	return args.String(0), args.Error(1)
}
func (m *MockHasher) Compare(hash, password string) error {
	args := m.Called(hash, password)
	return args.Error(0)
}

type MockTokenIssuer struct{ mock.Mock }

func (m *MockTokenIssuer) Issue(userID string, role domain.Role) (string, error) {
	args := m.Called(userID, role)
	return args.String(0), args.Error(1)
}

package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Abdurahmanit/meraroom-service/internal/domain"
	"github.com/Abdurahmanit/meraroom-service/internal/platform/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

const (
	bookingCollectionName = "bookingrequests"
	activePairIndexName   = "uniq_active_seeker_accommodation"
)

// BookingRepository implements domain.BookingRepository using MongoDB.
type BookingRepository struct {
	collection *mongo.Collection
	logger     *logger.Logger
}

// NewBookingRepository ensures the indexes, including the partial unique index
// that allows one active request per (seeker, accommodation). Failing to build
// that index is fatal.
func NewBookingRepository(db *mongo.Database, log *logger.Logger) (*BookingRepository, error) {
	collection := db.Collection(bookingCollectionName)

	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "seeker", Value: 1}, {Key: "accommodation", Value: 1}},
			Options: options.Index().
				SetName(activePairIndexName).
				SetUnique(true).
				SetPartialFilterExpression(bson.D{{Key: "active", Value: true}}),
		},
		{Keys: bson.D{{Key: "owner", Value: 1}, {Key: "status", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "seeker", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "accommodation", Value: 1}, {Key: "status", Value: 1}}},
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if _, err := collection.Indexes().CreateMany(ctx, indexes); err != nil {
		log.Error("Failed to create indexes for booking requests collection", zap.Error(err))
		return nil, fmt.Errorf("create indexes for %s: %w", bookingCollectionName, err)
	}
	log.Info("Successfully ensured indexes for booking requests collection")

	return &BookingRepository{
		collection: collection,
		logger:     log.Named("BookingRepository"),
	}, nil
}

func activeStatusFilter() bson.D {
	statuses := make(bson.A, 0, len(domain.ActiveBookingStatuses))
	for _, s := range domain.ActiveBookingStatuses {
		statuses = append(statuses, string(s))
	}
	return bson.D{{Key: "$in", Value: statuses}}
}

func (r *BookingRepository) Create(ctx context.Context, req *domain.BookingRequest) error {
	doc := fromDomainBooking(req)
	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			r.logger.Warn("Active booking request already exists",
				zap.String("seeker_id", req.SeekerID.Hex()),
				zap.String("accommodation_id", req.AccommodationID.Hex()))
			return domain.Errorf(domain.ErrConflict, "You already have an active request or booking for this accommodation.")
		}
		r.logger.Error("Failed to insert booking request", zap.Error(err))
		return fmt.Errorf("db insert failed: %w", err)
	}
	r.logger.Info("Booking request created in DB", zap.String("booking_id", req.ID.Hex()))
	return nil
}

func (r *BookingRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.BookingRequest, error) {
	var doc bookingDocument
	if err := r.collection.FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		r.logger.Error("Failed to get booking request", zap.Error(err), zap.String("booking_id", id.Hex()))
		return nil, fmt.Errorf("db findone failed: %w", err)
	}
	return doc.toDomainBooking(), nil
}

func (r *BookingRepository) FindActive(ctx context.Context, seekerID, accommodationID primitive.ObjectID) (*domain.BookingRequest, error) {
	filter := bson.D{
		{Key: "seeker", Value: seekerID},
		{Key: "accommodation", Value: accommodationID},
		{Key: "status", Value: activeStatusFilter()},
	}
	opts := options.FindOne().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	var doc bookingDocument
	if err := r.collection.FindOne(ctx, filter, opts).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		r.logger.Error("Failed to find active booking request", zap.Error(err))
		return nil, fmt.Errorf("db findone failed: %w", err)
	}
	return doc.toDomainBooking(), nil
}

func (r *BookingRepository) UpdateStatus(ctx context.Context, req *domain.BookingRequest, from domain.BookingStatus) error {
	doc := fromDomainBooking(req)
	set := bson.D{
		{Key: "status", Value: doc.Status},
		{Key: "active", Value: doc.Active},
		{Key: "updatedAt", Value: doc.UpdatedAt},
	}
	optional := []struct {
		key string
		val *time.Time
	}{
		{"acceptedAt", doc.AcceptedAt},
		{"rejectedAt", doc.RejectedAt},
		{"bookedAt", doc.BookedAt},
		{"livingFromDate", doc.LivingFromDate},
		{"cancelledAt", doc.CancelledAt},
	}
	for _, o := range optional {
		if o.val != nil {
			set = append(set, bson.E{Key: o.key, Value: *o.val})
		}
	}
	if doc.OwnerNote != "" {
		set = append(set, bson.E{Key: "ownerNote", Value: doc.OwnerNote})
	}
	if doc.CancellationReason != "" {
		set = append(set, bson.E{Key: "cancellationReason", Value: doc.CancellationReason})
	}

	filter := bson.D{{Key: "_id", Value: doc.ID}, {Key: "status", Value: string(from)}}
	res, err := r.collection.UpdateOne(ctx, filter, bson.D{{Key: "$set", Value: set}})
	if err != nil {
		r.logger.Error("Failed to update booking status", zap.Error(err), zap.String("booking_id", doc.ID.Hex()))
		return fmt.Errorf("db update failed: %w", err)
	}
	if res.MatchedCount == 0 {
		n, err := r.collection.CountDocuments(ctx, bson.D{{Key: "_id", Value: doc.ID}})
		if err != nil {
			return fmt.Errorf("db count failed: %w", err)
		}
		if n == 0 {
			return domain.ErrNotFound
		}
		r.logger.Warn("Booking status changed concurrently",
			zap.String("booking_id", doc.ID.Hex()),
			zap.String("expected_status", string(from)))
		return domain.Errorf(domain.ErrConflict, "Booking request status changed concurrently, please reload.")
	}
	return nil
}

func (r *BookingRepository) list(ctx context.Context, filter bson.D) ([]*domain.BookingRequest, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		r.logger.Error("Failed to list booking requests", zap.Error(err))
		return nil, fmt.Errorf("db find failed: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []*bookingDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("db cursor all failed: %w", err)
	}
	out := make([]*domain.BookingRequest, len(docs))
	for i, d := range docs {
		out[i] = d.toDomainBooking()
	}
	return out, nil
}

func (r *BookingRepository) ListBySeeker(ctx context.Context, seekerID primitive.ObjectID, status domain.BookingStatus) ([]*domain.BookingRequest, error) {
	filter := bson.D{{Key: "seeker", Value: seekerID}}
	if status != "" {
		filter = append(filter, bson.E{Key: "status", Value: string(status)})
	}
	return r.list(ctx, filter)
}

func (r *BookingRepository) ListByOwner(ctx context.Context, ownerID primitive.ObjectID, status domain.BookingStatus) ([]*domain.BookingRequest, error) {
	filter := bson.D{{Key: "owner", Value: ownerID}}
	if status != "" {
		filter = append(filter, bson.E{Key: "status", Value: string(status)})
	}
	return r.list(ctx, filter)
}

func (r *BookingRepository) CountActiveForAccommodation(ctx context.Context, accommodationID primitive.ObjectID) (int64, error) {
	n, err := r.collection.CountDocuments(ctx, bson.D{
		{Key: "accommodation", Value: accommodationID},
		{Key: "status", Value: activeStatusFilter()},
	})
	if err != nil {
		r.logger.Error("Failed to count active booking requests", zap.Error(err))
		return 0, fmt.Errorf("db count failed: %w", err)
	}
	return n, nil
}

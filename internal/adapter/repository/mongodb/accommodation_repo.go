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

const accommodationCollectionName = "accommodations"

// AccommodationRepository implements domain.AccommodationRepository using MongoDB.
type AccommodationRepository struct {
	collection *mongo.Collection
	logger     *logger.Logger
}

func NewAccommodationRepository(db *mongo.Database, log *logger.Logger) (*AccommodationRepository, error) {
	collection := db.Collection(accommodationCollectionName)

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "owner", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "isAvailable", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "isAvailable", Value: 1}, {Key: "rentAmount", Value: 1}}},
		{Keys: bson.D{{Key: "city", Value: 1}}},
		{Keys: bson.D{{Key: "slug", Value: 1}}},
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if _, err := collection.Indexes().CreateMany(ctx, indexes); err != nil {
		// Search still works without these; only the unique indexes are mandatory.
		log.Error("Failed to create indexes for accommodations collection", zap.Error(err))
	} else {
		log.Info("Successfully ensured indexes for accommodations collection")
	}

	return &AccommodationRepository{
		collection: collection,
		logger:     log.Named("AccommodationRepository"),
	}, nil
}

func (r *AccommodationRepository) Create(ctx context.Context, acc *domain.Accommodation) error {
	doc := fromDomainAccommodation(acc)
	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		r.logger.Error("Failed to insert accommodation", zap.Error(err))
		return fmt.Errorf("db insert failed: %w", err)
	}
	r.logger.Info("Accommodation created in DB", zap.String("accommodation_id", acc.ID.Hex()), zap.String("slug", acc.Slug))
	return nil
}

func (r *AccommodationRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Accommodation, error) {
	var doc accommodationDocument
	if err := r.collection.FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		r.logger.Error("Failed to get accommodation", zap.Error(err), zap.String("accommodation_id", id.Hex()))
		return nil, fmt.Errorf("db findone failed: %w", err)
	}
	return doc.toDomainAccommodation(), nil
}

// Update replaces the stored listing. The owner is part of the match so a
// listing can never change hands through an update.
func (r *AccommodationRepository) Update(ctx context.Context, acc *domain.Accommodation) error {
	doc := fromDomainAccommodation(acc)
	res, err := r.collection.ReplaceOne(ctx, bson.D{{Key: "_id", Value: acc.ID}, {Key: "owner", Value: acc.OwnerID}}, doc)
	if err != nil {
		r.logger.Error("Failed to update accommodation", zap.Error(err), zap.String("accommodation_id", acc.ID.Hex()))
		return fmt.Errorf("db replace failed: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *AccommodationRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.collection.DeleteOne(ctx, bson.D{{Key: "_id", Value: id}})
	if err != nil {
		r.logger.Error("Failed to delete accommodation", zap.Error(err), zap.String("accommodation_id", id.Hex()))
		return fmt.Errorf("db delete failed: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *AccommodationRepository) Search(ctx context.Context, q domain.ListingQuery) ([]*domain.Accommodation, int64, error) {
	filter := buildListingFilter(q)
	r.logger.Debug("Searching accommodations", zap.Any("filter", filter), zap.Int("page", q.Page), zap.Int("limit", q.Limit))

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		r.logger.Error("Failed to count accommodations", zap.Error(err))
		return nil, 0, fmt.Errorf("db count failed: %w", err)
	}

	findOptions := options.Find().
		SetSort(listingSort(q.Sort)).
		SetSkip(q.Skip()).
		SetLimit(int64(q.Limit))
	if proj := listingProjection(q.Select); proj != nil {
		findOptions.SetProjection(proj)
	}

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		r.logger.Error("Failed to find accommodations", zap.Error(err))
		return nil, 0, fmt.Errorf("db find failed: %w", err)
	}
	defer cursor.Close(ctx)

	items, err := decodeAccommodations(ctx, cursor)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *AccommodationRepository) ListByOwner(ctx context.Context, ownerID primitive.ObjectID) ([]*domain.Accommodation, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.D{{Key: "owner", Value: ownerID}}, opts)
	if err != nil {
		r.logger.Error("Failed to list owner accommodations", zap.Error(err), zap.String("owner_id", ownerID.Hex()))
		return nil, fmt.Errorf("db find failed: %w", err)
	}
	defer cursor.Close(ctx)
	return decodeAccommodations(ctx, cursor)
}

// IncrementOccupancy runs as one pipeline update so concurrent move-ins
// cannot both read the same occupancy.
func (r *AccommodationRepository) IncrementOccupancy(ctx context.Context, id primitive.ObjectID) (*domain.Accommodation, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$set", Value: bson.D{
			{Key: "currentOccupancy", Value: bson.D{{Key: "$add", Value: bson.A{"$currentOccupancy", 1}}}},
			{Key: "updatedAt", Value: "$$NOW"},
		}}},
		{{Key: "$set", Value: bson.D{
			{Key: "isAvailable", Value: bson.D{{Key: "$and", Value: bson.A{
				"$isAvailable",
				bson.D{{Key: "$lt", Value: bson.A{"$currentOccupancy", "$totalRooms"}}},
			}}}},
		}}},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc accommodationDocument
	if err := r.collection.FindOneAndUpdate(ctx, bson.D{{Key: "_id", Value: id}}, pipeline, opts).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		r.logger.Error("Failed to increment occupancy", zap.Error(err), zap.String("accommodation_id", id.Hex()))
		return nil, fmt.Errorf("db findoneandupdate failed: %w", err)
	}
	return doc.toDomainAccommodation(), nil
}

func decodeAccommodations(ctx context.Context, cursor *mongo.Cursor) ([]*domain.Accommodation, error) {
	var docs []*accommodationDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("db cursor all failed: %w", err)
	}
	out := make([]*domain.Accommodation, len(docs))
	for i, d := range docs {
		out[i] = d.toDomainAccommodation()
	}
	return out, nil
}

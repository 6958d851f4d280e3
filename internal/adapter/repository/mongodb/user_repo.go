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

const userCollectionName = "users"

// UserRepository implements domain.UserRepository using MongoDB.
type UserRepository struct {
	collection *mongo.Collection
	logger     *logger.Logger
}

// NewUserRepository creates the repository and ensures its indexes.
func NewUserRepository(db *mongo.Database, log *logger.Logger) (*UserRepository, error) {
	collection := db.Collection(userCollectionName)

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true).SetName("uniq_email")},
		{Keys: bson.D{{Key: "role", Value: 1}}},
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if _, err := collection.Indexes().CreateMany(ctx, indexes); err != nil {
		log.Error("Failed to create indexes for users collection", zap.Error(err))
		return nil, fmt.Errorf("create indexes for %s: %w", userCollectionName, err)
	}
	log.Info("Successfully ensured indexes for users collection")

	return &UserRepository{
		collection: collection,
		logger:     log.Named("UserRepository"),
	}, nil
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	doc, err := fromDomainUser(user)
	if err != nil {
		return err
	}
	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			r.logger.Warn("Duplicate email on user creation", zap.String("email", user.Email))
			return domain.ErrEmailTaken
		}
		r.logger.Error("Failed to insert user into DB", zap.Error(err))
		return fmt.Errorf("db insert failed: %w", err)
	}
	r.logger.Info("User created in DB", zap.String("user_id", user.ID.Hex()), zap.String("role", string(user.Role())))
	return nil
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.D) (*domain.User, error) {
	var doc userDocument
	if err := r.collection.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("db findone failed: %w", err)
	}
	return doc.toDomainUser()
}

func (r *UserRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
	u, err := r.findOne(ctx, bson.D{{Key: "_id", Value: id}})
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		r.logger.Error("Failed to get user by ID", zap.Error(err), zap.String("user_id", id.Hex()))
	}
	return u, err
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	u, err := r.findOne(ctx, bson.D{{Key: "email", Value: domain.NormalizeEmail(email)}})
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		r.logger.Error("Failed to get user by email", zap.Error(err))
	}
	return u, err
}

func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	n, err := r.collection.CountDocuments(ctx, bson.D{{Key: "email", Value: domain.NormalizeEmail(email)}}, options.Count().SetLimit(1))
	if err != nil {
		r.logger.Error("Failed to count users by email", zap.Error(err))
		return false, fmt.Errorf("db count failed: %w", err)
	}
	return n > 0, nil
}

// Update rewrites profile fields. Role, email, password and creation time are never touched.
func (r *UserRepository) Update(ctx context.Context, user *domain.User) error {
	doc, err := fromDomainUser(user)
	if err != nil {
		return err
	}
	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: "name", Value: doc.Name},
		{Key: "phone", Value: doc.Phone},
		{Key: "isVerified", Value: doc.IsVerified},
		{Key: "profile", Value: doc.Profile},
		{Key: "registrationPreferences", Value: doc.RegistrationPreferences},
		{Key: "updatedAt", Value: doc.UpdatedAt},
	}}}
	res, err := r.collection.UpdateOne(ctx, bson.D{{Key: "_id", Value: doc.ID}}, update)
	if err != nil {
		r.logger.Error("Failed to update user", zap.Error(err), zap.String("user_id", doc.ID.Hex()))
		return fmt.Errorf("db update failed: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *UserRepository) UpdatePreferences(ctx context.Context, id primitive.ObjectID, livingStandards *[]string, additionalInfo *string) (*domain.User, error) {
	set := bson.D{{Key: "updatedAt", Value: time.Now().UTC()}}
	if livingStandards != nil {
		set = append(set, bson.E{Key: "livingStandards", Value: nonNil(*livingStandards)})
	}
	if additionalInfo != nil {
		set = append(set, bson.E{Key: "additional_info", Value: *additionalInfo})
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc userDocument
	err := r.collection.FindOneAndUpdate(ctx, bson.D{{Key: "_id", Value: id}}, bson.D{{Key: "$set", Value: set}}, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		r.logger.Error("Failed to update preferences", zap.Error(err), zap.String("user_id", id.Hex()))
		return nil, fmt.Errorf("db findoneandupdate failed: %w", err)
	}
	return doc.toDomainUser()
}

func (r *UserRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.collection.DeleteOne(ctx, bson.D{{Key: "_id", Value: id}})
	if err != nil {
		r.logger.Error("Failed to delete user", zap.Error(err), zap.String("user_id", id.Hex()))
		return fmt.Errorf("db delete failed: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *UserRepository) FindByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*domain.User, error) {
	out := make(map[primitive.ObjectID]*domain.User, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	cursor, err := r.collection.Find(ctx, bson.D{{Key: "_id", Value: bson.D{{Key: "$in", Value: ids}}}})
	if err != nil {
		r.logger.Error("Failed to find users by ids", zap.Error(err))
		return nil, fmt.Errorf("db find failed: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []*userDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("db cursor all failed: %w", err)
	}
	for _, d := range docs {
		u, err := d.toDomainUser()
		if err != nil {
			r.logger.Warn("Skipping undecodable user", zap.String("user_id", d.ID.Hex()), zap.Error(err))
			continue
		}
		out[u.ID] = u
	}
	return out, nil
}

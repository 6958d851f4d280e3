package usecase

import (
	"context"
	"errors"

	"github.com/Abdurahmanit/meraroom-service/internal/domain"
	"github.com/Abdurahmanit/meraroom-service/internal/platform/logger"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Preferences is the living-standards view of a user.
type Preferences struct {
	LivingStandards []string
	AdditionalInfo  string
}

type PreferencesUsecase struct {
	users  domain.UserRepository
	logger *logger.Logger
}

func NewPreferencesUsecase(users domain.UserRepository, log *logger.Logger) *PreferencesUsecase {
	return &PreferencesUsecase{users: users, logger: log.Named("PreferencesUsecase")}
}

func preferencesOf(u *domain.User) *Preferences {
	standards := u.LivingStandards
	if standards == nil {
		standards = []string{}
	}
	return &Preferences{LivingStandards: standards, AdditionalInfo: u.AdditionalInfo}
}

func (uc *PreferencesUsecase) GetPreferences(ctx context.Context, userID primitive.ObjectID) (*Preferences, error) {
	u, err := uc.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.Errorf(domain.ErrNotFound, "User not found with id of %s", userID.Hex())
		}
		return nil, err
	}
	return preferencesOf(u), nil
}

// UpdatePreferences replaces whichever of the two fields is non-nil. The
// stored values are exactly the submitted ones.
func (uc *PreferencesUsecase) UpdatePreferences(ctx context.Context, userID primitive.ObjectID, standards *[]string, info *string) (*Preferences, error) {
	if standards != nil {
		if err := domain.ValidateLivingStandards(*standards); err != nil {
			return nil, err
		}
	}
	if info != nil && len(*info) > domain.MaxAdditionalInfoLen {
		return nil, &domain.ValidationError{Fields: []domain.FieldError{{Field: "additional_info", Message: "Additional info cannot be more than 1000 characters"}}}
	}
	if standards == nil && info == nil {
		return uc.GetPreferences(ctx, userID)
	}

	u, err := uc.users.UpdatePreferences(ctx, userID, standards, info)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.Errorf(domain.ErrNotFound, "User not found with id of %s", userID.Hex())
		}
		return nil, err
	}
	uc.logger.Info("Living standards updated", zap.String("user_id", userID.Hex()), zap.Int("count", len(u.LivingStandards)))
	return preferencesOf(u), nil
}

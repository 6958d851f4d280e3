package usecase

import (
	"context"
	"testing"

	"github.com/Abdurahmanit/meraroom-service/internal/domain"
	"github.com/Abdurahmanit/meraroom-service/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestPreferencesRoundTrip(t *testing.T) {
	users := new(MockUserRepository)
	uc := NewPreferencesUsecase(users, logger.NewNop())
	id := primitive.NewObjectID()
	standards := []string{"non-smoker", "vegetarian", "early-riser"}
	info := "Looking for a quiet room"

	stored := &domain.User{ID: id, LivingStandards: standards, AdditionalInfo: info}
	users.On("UpdatePreferences", mock.Anything, id, &standards, &info).Return(stored, nil)
	users.On("GetByID", mock.Anything, id).Return(stored, nil)

	put, err := uc.UpdatePreferences(context.Background(), id, &standards, &info)
	require.NoError(t, err)
	got, err := uc.GetPreferences(context.Background(), id)
	require.NoError(t, err)

	assert.Equal(t, standards, put.LivingStandards)
	assert.Equal(t, standards, got.LivingStandards)
	assert.Equal(t, info, got.AdditionalInfo)
}

func TestUpdatePreferencesValidation(t *testing.T) {
	users := new(MockUserRepository)
	uc := NewPreferencesUsecase(users, logger.NewNop())
	id := primitive.NewObjectID()

	dup := []string{"pets", "pets"}
	_, err := uc.UpdatePreferences(context.Background(), id, &dup, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	long := string(make([]byte, domain.MaxAdditionalInfoLen+1))
	_, err = uc.UpdatePreferences(context.Background(), id, nil, &long)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	users.AssertNotCalled(t, "UpdatePreferences", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestGetPreferencesNeverReturnsNilSlice(t *testing.T) {
	users := new(MockUserRepository)
	uc := NewPreferencesUsecase(users, logger.NewNop())
	id := primitive.NewObjectID()
	users.On("GetByID", mock.Anything, id).Return(&domain.User{ID: id}, nil)

	got, err := uc.GetPreferences(context.Background(), id)
	require.NoError(t, err)
	assert.NotNil(t, got.LivingStandards)
	assert.Empty(t, got.LivingStandards)
}

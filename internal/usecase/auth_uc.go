package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/Abdurahmanit/meraroom-service/internal/domain"
	"github.com/Abdurahmanit/meraroom-service/internal/platform/logger"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// AuthUsecase handles registration, login and the caller's own profile.
type AuthUsecase struct {
	users    domain.UserRepository
	listings OwnerListings
	storage  domain.FileStorage
	hasher   PasswordHasher
	tokens   TokenIssuer
	logger   *logger.Logger
}

func NewAuthUsecase(users domain.UserRepository, listings OwnerListings, storage domain.FileStorage, hasher PasswordHasher, tokens TokenIssuer, log *logger.Logger) *AuthUsecase {
	return &AuthUsecase{
		users:    users,
		listings: listings,
		storage:  storage,
		hasher:   hasher,
		tokens:   tokens,
		logger:   log.Named("AuthUsecase"),
	}
}

// AuthResult is returned by registration and login.
type AuthResult struct {
	Token string
	User  *domain.User
}

// Credentials are the identity fields shared by both registration forms.
type Credentials struct {
	Name     string
	Email    string
	Phone    string
	Password string
}

type RegisterSeekerInput struct {
	Credentials
	Profile     domain.SeekerProfile
	Preferences map[string]string
}

type RegisterOwnerInput struct {
	Credentials
	PermanentAddress string
}

// newUser hashes the password and builds a validated user. The email must
// not be registered yet.
func (uc *AuthUsecase) newUser(ctx context.Context, c Credentials, profile domain.Profile) (*domain.User, error) {
	taken, err := uc.users.ExistsByEmail(ctx, domain.NormalizeEmail(c.Email))
	if err != nil {
		return nil, err
	}
	if taken {
		uc.logger.Warn("Registration with existing email", zap.String("email", domain.NormalizeEmail(c.Email)))
		return nil, domain.ErrEmailTaken
	}
	hash, err := uc.hasher.Hash(c.Password)
	if err != nil {
		return nil, err
	}
	return domain.NewUser(c.Name, c.Email, c.Phone, hash, profile)
}

func (uc *AuthUsecase) issue(u *domain.User) (*AuthResult, error) {
	token, err := uc.tokens.Issue(u.ID.Hex(), u.Role())
	if err != nil {
		uc.logger.Error("Failed to issue token", zap.String("user_id", u.ID.Hex()), zap.Error(err))
		return nil, err
	}
	return &AuthResult{Token: token, User: u}, nil
}

func (uc *AuthUsecase) discard(ctx context.Context, path string) {
	if path == "" {
		return
	}
	if err := uc.storage.Remove(ctx, path); err != nil {
		uc.logger.Warn("Failed to remove stored file", zap.String("path", path), zap.Error(err))
	}
}

// RegisterSeeker creates a seeker account. certificate is optional.
func (uc *AuthUsecase) RegisterSeeker(ctx context.Context, in RegisterSeekerInput, certificate *domain.Upload) (*AuthResult, error) {
	uc.logger.Info("Registering seeker", zap.String("email", domain.NormalizeEmail(in.Email)))

	profile := in.Profile
	switch profile.UserType {
	case domain.UserTypeStudent:
		profile.Company, profile.Designation = "", ""
	case domain.UserTypeWorking:
		profile.College, profile.Course = "", ""
	}
	user, err := uc.newUser(ctx, in.Credentials, &profile)
	if err != nil {
		return nil, err
	}
	for k, v := range in.Preferences {
		if strings.TrimSpace(v) != "" {
			user.RegistrationPreferences.Set(k, v)
		}
	}

	var certPath string
	if certificate != nil {
		if certPath, err = uc.storage.Save(ctx, *certificate); err != nil {
			return nil, err
		}
		profile.ScholarshipCertificate = certPath
	}

	if err := uc.users.Create(ctx, user); err != nil {
		uc.discard(ctx, certPath)
		return nil, err
	}
	uc.logger.Info("Seeker registered", zap.String("user_id", user.ID.Hex()))
	return uc.issue(user)
}

// RegisterOwner creates an owner account together with the first listing.
// If the listing cannot be created the account is removed again.
func (uc *AuthUsecase) RegisterOwner(ctx context.Context, in RegisterOwnerInput, idProof *domain.Upload, listing *domain.Accommodation, photos []domain.Upload) (*AuthResult, *domain.Accommodation, error) {
	uc.logger.Info("Registering owner", zap.String("email", domain.NormalizeEmail(in.Email)))

	if idProof == nil {
		return nil, nil, &domain.ValidationError{Fields: []domain.FieldError{{Field: "ownerIDProof", Message: "Owner ID Proof is required"}}}
	}
	if err := checkPhotoCount(len(photos), true); err != nil {
		return nil, nil, err
	}

	profile := &domain.OwnerProfile{PermanentAddress: strings.TrimSpace(in.PermanentAddress)}
	user, err := uc.newUser(ctx, in.Credentials, profile)
	if err != nil {
		return nil, nil, err
	}

	proofPath, err := uc.storage.Save(ctx, *idProof)
	if err != nil {
		return nil, nil, err
	}
	profile.IDProof = proofPath

	if err := uc.users.Create(ctx, user); err != nil {
		uc.discard(ctx, proofPath)
		return nil, nil, err
	}

	acc, err := uc.listings.Create(ctx, user.ID, listing, photos)
	if err != nil {
		uc.logger.Warn("First listing rejected, rolling back owner registration", zap.String("user_id", user.ID.Hex()), zap.Error(err))
		if delErr := uc.users.Delete(ctx, user.ID); delErr != nil {
			uc.logger.Error("Failed to roll back owner registration", zap.String("user_id", user.ID.Hex()), zap.Error(delErr))
		}
		uc.discard(ctx, proofPath)
		return nil, nil, err
	}

	res, err := uc.issue(user)
	if err != nil {
		return nil, nil, err
	}
	uc.logger.Info("Owner registered", zap.String("user_id", user.ID.Hex()), zap.String("accommodation_id", acc.ID.Hex()))
	return res, acc, nil
}

// Login verifies the credentials and issues a session token.
func (uc *AuthUsecase) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return nil, domain.Errorf(domain.ErrInvalidInput, "Please provide an email and password")
	}
	user, err := uc.users.GetByEmail(ctx, domain.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.Errorf(domain.ErrUnauthenticated, "Invalid credentials")
		}
		return nil, err
	}
	if err := uc.hasher.Compare(user.PasswordHash, password); err != nil {
		uc.logger.Warn("Login with wrong password", zap.String("user_id", user.ID.Hex()))
		return nil, domain.Errorf(domain.ErrUnauthenticated, "Invalid credentials")
	}
	uc.logger.Info("User logged in", zap.String("user_id", user.ID.Hex()))
	return uc.issue(user)
}

func (uc *AuthUsecase) GetMe(ctx context.Context, userID primitive.ObjectID) (*domain.User, error) {
	user, err := uc.users.GetByID(ctx, userID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.Errorf(domain.ErrNotFound, "User with ID %s not found in database.", userID.Hex())
	}
	return user, err
}

// UpdateMyDetails applies a profile patch to the caller's own account.
func (uc *AuthUsecase) UpdateMyDetails(ctx context.Context, userID primitive.ObjectID, patch domain.ProfilePatch) (*domain.User, error) {
	user, err := uc.GetMe(ctx, userID)
	if err != nil {
		return nil, err
	}
	n, err := patch.Apply(user)
	if err != nil {
		return nil, err
	}
	if err := uc.users.Update(ctx, user); err != nil {
		return nil, err
	}
	if user.Role() == domain.RoleOwner && (patch.Name != nil || patch.Phone != nil) {
		uc.listings.OwnerProfileChanged(ctx, user.ID)
	}
	uc.logger.Info("Profile updated", zap.String("user_id", userID.Hex()), zap.Int("fields", n))
	return user, nil
}

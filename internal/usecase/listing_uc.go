package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/Abdurahmanit/meraroom-service/internal/domain"
	"github.com/Abdurahmanit/meraroom-service/internal/platform/logger"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// ListingUsecase implements listing search and owner-side listing management.
type ListingUsecase struct {
	accommodations domain.AccommodationRepository
	users          domain.UserRepository
	bookings       domain.BookingRepository
	storage        domain.FileStorage
	cache          domain.ListingCache
	metrics        ListingMetrics
	logger         *logger.Logger
	now            func() time.Time
}

// NewListingUsecase wires the listing service. cache and m may be nil.
func NewListingUsecase(
	accommodations domain.AccommodationRepository,
	users domain.UserRepository,
	bookings domain.BookingRepository,
	storage domain.FileStorage,
	cache domain.ListingCache,
	m ListingMetrics,
	log *logger.Logger,
) *ListingUsecase {
	if m == nil {
		m = nopListingMetrics{}
	}
	return &ListingUsecase{
		accommodations: accommodations,
		users:          users,
		bookings:       bookings,
		storage:        storage,
		cache:          cache,
		metrics:        m,
		logger:         log.Named("ListingUsecase"),
		now:            func() time.Time { return time.Now().UTC() },
	}
}

// Search returns one page of available listings with a short owner summary.
func (uc *ListingUsecase) Search(ctx context.Context, q domain.ListingQuery) (*domain.ListingPage, error) {
	var (
		gen  domain.CacheGeneration
		fill bool
	)
	if uc.cache != nil {
		page, g, err := uc.cache.GetPage(ctx, q)
		switch {
		case err == nil:
			uc.logger.Debug("Search served from cache")
			return page, nil
		case errors.Is(err, domain.ErrCacheMiss):
			gen, fill = g, true
		default:
			uc.logger.Warn("Listing cache read failed", zap.Error(err))
		}
	}

	items, total, err := uc.accommodations.Search(ctx, q)
	if err != nil {
		uc.logger.Error("Listing search failed", zap.Error(err))
		return nil, err
	}

	owners, err := uc.ownersOf(ctx, items)
	if err != nil {
		return nil, err
	}
	views := make([]*domain.ListingView, 0, len(items))
	for _, acc := range items {
		view := &domain.ListingView{Accommodation: *acc}
		if u, ok := owners[acc.OwnerID]; ok {
			view.Owner = &domain.OwnerSummary{ID: u.ID, Name: u.Name, IsVerified: u.IsVerified}
		}
		views = append(views, view)
	}

	page := &domain.ListingPage{Items: views, Pagination: domain.NewPagination(q.Page, q.Limit, total)}
	if fill {
		if err := uc.cache.SetPage(ctx, gen, q, page); err != nil {
			uc.logger.Warn("Listing cache write failed", zap.Error(err))
		}
	}
	return page, nil
}

func (uc *ListingUsecase) ownersOf(ctx context.Context, items []*domain.Accommodation) (map[primitive.ObjectID]*domain.User, error) {
	if len(items) == 0 {
		return map[primitive.ObjectID]*domain.User{}, nil
	}
	seen := make(map[primitive.ObjectID]struct{}, len(items))
	ids := make([]primitive.ObjectID, 0, len(items))
	for _, acc := range items {
		if _, dup := seen[acc.OwnerID]; !dup {
			seen[acc.OwnerID] = struct{}{}
			ids = append(ids, acc.OwnerID)
		}
	}
	return uc.users.FindByIDs(ctx, ids)
}

func (uc *ListingUsecase) load(ctx context.Context, idHex string) (*domain.Accommodation, error) {
	id, err := domain.ParseID(idHex)
	if err != nil {
		return nil, err
	}
	acc, err := uc.accommodations.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.Errorf(domain.ErrNotFound, "Accommodation not found with id of %s", idHex)
		}
		return nil, err
	}
	return acc, nil
}

// Get returns a single listing with the owner's contact details.
func (uc *ListingUsecase) Get(ctx context.Context, idHex string) (*domain.ListingView, error) {
	var (
		gen  domain.CacheGeneration
		fill bool
	)
	if uc.cache != nil {
		if id, err := primitive.ObjectIDFromHex(idHex); err == nil {
			view, g, err := uc.cache.GetListing(ctx, id)
			switch {
			case err == nil:
				return view, nil
			case errors.Is(err, domain.ErrCacheMiss):
				gen, fill = g, true
			default:
				uc.logger.Warn("Listing cache read failed", zap.Error(err))
			}
		}
	}

	acc, err := uc.load(ctx, idHex)
	if err != nil {
		return nil, err
	}
	view := &domain.ListingView{Accommodation: *acc}
	owner, err := uc.users.GetByID(ctx, acc.OwnerID)
	switch {
	case err == nil:
		view.Contact = &domain.OwnerContact{
			ID:         owner.ID,
			Name:       owner.Name,
			Email:      owner.Email,
			Phone:      owner.Phone,
			IsVerified: owner.IsVerified,
		}
	case errors.Is(err, domain.ErrNotFound):
		uc.logger.Warn("Listing owner no longer exists", zap.String("accommodation_id", idHex), zap.String("owner_id", acc.OwnerID.Hex()))
	default:
		return nil, err
	}

	if fill {
		if err := uc.cache.SetListing(ctx, gen, view); err != nil {
			uc.logger.Warn("Listing cache write failed", zap.Error(err))
		}
	}
	return view, nil
}

func checkPhotoCount(n int, required bool) error {
	if required && n == 0 {
		return &domain.ValidationError{Fields: []domain.FieldError{{Field: "propertyPhotos", Message: "At least one property photo is required"}}}
	}
	if n > domain.MaxPhotos {
		return &domain.ValidationError{Fields: []domain.FieldError{{Field: "propertyPhotos", Message: "photos exceeds the limit of 10 photos"}}}
	}
	return nil
}

// saveUploads stores files in order. On failure the ones already stored are removed.
func (uc *ListingUsecase) saveUploads(ctx context.Context, files []domain.Upload) ([]string, error) {
	paths := make([]string, 0, len(files))
	for _, f := range files {
		p, err := uc.storage.Save(ctx, f)
		if err != nil {
			uc.removeFiles(ctx, paths)
			return nil, err
		}
		paths = append(paths, p)
	}
	return paths, nil
}

func (uc *ListingUsecase) removeFiles(ctx context.Context, paths []string) {
	for _, p := range paths {
		if err := uc.storage.Remove(ctx, p); err != nil {
			uc.logger.Warn("Failed to remove stored file", zap.String("path", p), zap.Error(err))
		}
	}
}

func (uc *ListingUsecase) invalidate(ctx context.Context, id primitive.ObjectID) {
	if uc.cache == nil {
		return
	}
	if err := uc.cache.Invalidate(ctx, id); err != nil {
		uc.logger.Warn("Listing cache invalidation failed", zap.String("accommodation_id", id.Hex()), zap.Error(err))
	}
}

// OwnerProfileChanged drops cached listings that embed the owner's name or
// contact details.
func (uc *ListingUsecase) OwnerProfileChanged(ctx context.Context, ownerID primitive.ObjectID) {
	if uc.cache == nil {
		return
	}
	if err := uc.cache.InvalidateAll(ctx); err != nil {
		uc.logger.Warn("Listing cache invalidation failed", zap.String("owner_id", ownerID.Hex()), zap.Error(err))
	}
}

// Create stores the photos and persists a new available listing for ownerID.
func (uc *ListingUsecase) Create(ctx context.Context, ownerID primitive.ObjectID, acc *domain.Accommodation, photos []domain.Upload) (*domain.Accommodation, error) {
	uc.logger.Info("Creating accommodation", zap.String("owner_id", ownerID.Hex()), zap.Int("photos", len(photos)))

	if err := checkPhotoCount(len(photos), true); err != nil {
		return nil, err
	}
	acc.ID = primitive.NilObjectID
	acc.OwnerID = ownerID
	acc.IsAvailable = true
	acc.CreatedAt = time.Time{}
	acc.Prepare(uc.now())
	// Paths are not known until the upload; validate with the right count.
	acc.Photos = make([]string, len(photos))
	if err := acc.Validate(); err != nil {
		return nil, err
	}

	paths, err := uc.saveUploads(ctx, photos)
	if err != nil {
		return nil, err
	}
	acc.Photos = paths

	if err := uc.accommodations.Create(ctx, acc); err != nil {
		uc.logger.Error("Failed to save accommodation", zap.Error(err))
		uc.removeFiles(ctx, paths)
		return nil, err
	}

	uc.metrics.ListingCreated()
	uc.invalidate(ctx, acc.ID)
	uc.logger.Info("Accommodation created", zap.String("accommodation_id", acc.ID.Hex()), zap.String("slug", acc.Slug))
	return acc, nil
}

func (uc *ListingUsecase) loadOwned(ctx context.Context, ownerID primitive.ObjectID, idHex, action string) (*domain.Accommodation, error) {
	acc, err := uc.load(ctx, idHex)
	if err != nil {
		return nil, err
	}
	if acc.OwnerID != ownerID {
		uc.logger.Warn("Ownership check failed",
			zap.String("accommodation_id", idHex),
			zap.String("user_id", ownerID.Hex()),
			zap.String("action", action))
		return nil, domain.Errorf(domain.ErrForbidden, "User not authorized to %s this accommodation", action)
	}
	return acc, nil
}

// Update applies patch to an owned listing. Non-empty photos replace the
// whole photo set and the replaced files are deleted after the save.
func (uc *ListingUsecase) Update(ctx context.Context, ownerID primitive.ObjectID, idHex string, patch domain.AccommodationPatch, photos []domain.Upload) (*domain.Accommodation, error) {
	uc.logger.Info("Updating accommodation", zap.String("accommodation_id", idHex), zap.String("owner_id", ownerID.Hex()))

	acc, err := uc.loadOwned(ctx, ownerID, idHex, "update")
	if err != nil {
		return nil, err
	}
	if err := checkPhotoCount(len(photos), false); err != nil {
		return nil, err
	}

	patch.Apply(acc)
	acc.Prepare(uc.now())
	oldPhotos := acc.Photos
	if len(photos) > 0 {
		acc.Photos = make([]string, len(photos))
	}
	if err := acc.Validate(); err != nil {
		return nil, err
	}

	var newPaths []string
	if len(photos) > 0 {
		if newPaths, err = uc.saveUploads(ctx, photos); err != nil {
			return nil, err
		}
		acc.Photos = newPaths
	}

	if err := uc.accommodations.Update(ctx, acc); err != nil {
		uc.logger.Error("Failed to save accommodation", zap.Error(err))
		uc.removeFiles(ctx, newPaths)
		return nil, err
	}
	if len(newPaths) > 0 {
		uc.removeFiles(ctx, oldPhotos)
	}

	uc.invalidate(ctx, acc.ID)
	return acc, nil
}

// Delete removes an owned listing and then its photos. Listings with active
// booking requests cannot be deleted.
func (uc *ListingUsecase) Delete(ctx context.Context, ownerID primitive.ObjectID, idHex string) error {
	uc.logger.Info("Deleting accommodation", zap.String("accommodation_id", idHex), zap.String("owner_id", ownerID.Hex()))

	acc, err := uc.loadOwned(ctx, ownerID, idHex, "delete")
	if err != nil {
		return err
	}
	active, err := uc.bookings.CountActiveForAccommodation(ctx, acc.ID)
	if err != nil {
		return err
	}
	if active > 0 {
		return domain.Errorf(domain.ErrInvalidOperation, "Cannot delete an accommodation with %d active booking request(s)", active)
	}

	if err := uc.accommodations.Delete(ctx, acc.ID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Errorf(domain.ErrNotFound, "Accommodation not found with id of %s", idHex)
		}
		return err
	}
	uc.removeFiles(ctx, acc.Photos)

	uc.metrics.ListingDeleted()
	uc.invalidate(ctx, acc.ID)
	return nil
}

// ListMine returns every listing of the owner, newest first.
func (uc *ListingUsecase) ListMine(ctx context.Context, ownerID primitive.ObjectID) ([]*domain.Accommodation, error) {
	return uc.accommodations.ListByOwner(ctx, ownerID)
}

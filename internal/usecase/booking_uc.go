package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Abdurahmanit/meraroom-service/internal/domain"
	"github.com/Abdurahmanit/meraroom-service/internal/platform/logger"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// BookingUsecase creates booking requests and moves them through their lifecycle.
type BookingUsecase struct {
	bookings       domain.BookingRepository
	accommodations domain.AccommodationRepository
	cache          domain.ListingCache
	events         domain.EventPublisher
	metrics        BookingMetrics
	logger         *logger.Logger
	now            func() time.Time
}

// NewBookingUsecase wires the booking service. cache, events and m may be nil.
func NewBookingUsecase(
	bookings domain.BookingRepository,
	accommodations domain.AccommodationRepository,
	cache domain.ListingCache,
	events domain.EventPublisher,
	m BookingMetrics,
	log *logger.Logger,
) *BookingUsecase {
	if m == nil {
		m = nopBookingMetrics{}
	}
	return &BookingUsecase{
		bookings:       bookings,
		accommodations: accommodations,
		cache:          cache,
		events:         events,
		metrics:        m,
		logger:         log.Named("BookingUsecase"),
		now:            func() time.Time { return time.Now().UTC() },
	}
}

// CreateBookingRequest records a seeker's interest in a listing.
//
// The lookup for an existing active request only produces a friendlier
// message; the unique index behind BookingRepository.Create is what rejects
// a concurrent duplicate.
func (uc *BookingUsecase) CreateBookingRequest(ctx context.Context, seekerID primitive.ObjectID, accommodationID, message string) (*domain.BookingRequest, error) {
	uc.logger.Info("Creating booking request",
		zap.String("seeker_id", seekerID.Hex()),
		zap.String("accommodation_id", accommodationID))

	if accommodationID == "" {
		return nil, &domain.ValidationError{Fields: []domain.FieldError{{Field: "accommodationId", Message: "Accommodation ID is required"}}}
	}
	accID, err := domain.ParseID(accommodationID)
	if err != nil {
		return nil, err
	}
	acc, err := uc.accommodations.GetByID(ctx, accID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.Errorf(domain.ErrNotFound, "Accommodation not found with id of %s", accommodationID)
		}
		return nil, err
	}

	req, err := domain.NewBookingRequest(seekerID, acc, message, uc.now())
	if err != nil {
		uc.logger.Warn("Booking request rejected", zap.String("seeker_id", seekerID.Hex()), zap.Error(err))
		return nil, err
	}

	existing, err := uc.bookings.FindActive(ctx, seekerID, accID)
	switch {
	case err == nil:
		uc.logger.Warn("Seeker already has an active booking request",
			zap.String("seeker_id", seekerID.Hex()),
			zap.String("booking_id", existing.ID.Hex()),
			zap.String("status", string(existing.Status)))
		return nil, domain.Errorf(domain.ErrConflict, "You already have an active request or booking (status: %s) for this accommodation.", existing.Status)
	case !errors.Is(err, domain.ErrNotFound):
		return nil, err
	}

	if !acc.IsAvailable {
		return nil, domain.Errorf(domain.ErrInvalidOperation, "This accommodation is not currently available for booking")
	}

	if err := uc.bookings.Create(ctx, req); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			uc.logger.Warn("Concurrent duplicate booking request rejected by index", zap.String("seeker_id", seekerID.Hex()))
		}
		return nil, err
	}

	uc.metrics.BookingCreated()
	uc.publish(ctx, req, "")
	uc.logger.Info("Booking request created", zap.String("booking_id", req.ID.Hex()))
	return req, nil
}

// GetMyBookingRequestForAccommodation returns the seeker's active request for
// the listing, or nil with no error when there is none.
func (uc *BookingUsecase) GetMyBookingRequestForAccommodation(ctx context.Context, seekerID primitive.ObjectID, accommodationID string) (*domain.BookingRequest, error) {
	accID, err := domain.ParseID(accommodationID)
	if err != nil {
		return nil, err
	}
	req, err := uc.bookings.FindActive(ctx, seekerID, accID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return req, nil
}

func (uc *BookingUsecase) Accept(ctx context.Context, ownerID primitive.ObjectID, bookingID, note string) (*domain.BookingRequest, error) {
	return uc.transition(ctx, ownerID, domain.RoleOwner, bookingID, domain.BookingAccepted, nil, func(r *domain.BookingRequest) {
		r.OwnerNote = note
	}, note)
}

func (uc *BookingUsecase) Reject(ctx context.Context, ownerID primitive.ObjectID, bookingID, note string) (*domain.BookingRequest, error) {
	return uc.transition(ctx, ownerID, domain.RoleOwner, bookingID, domain.BookingRejected, nil, func(r *domain.BookingRequest) {
		r.OwnerNote = note
	}, note)
}

func (uc *BookingUsecase) MarkBooked(ctx context.Context, ownerID primitive.ObjectID, bookingID string) (*domain.BookingRequest, error) {
	return uc.transition(ctx, ownerID, domain.RoleOwner, bookingID, domain.BookingBooked, nil, nil, "")
}

// MarkLiving records that the seeker moved in. from defaults to now.
func (uc *BookingUsecase) MarkLiving(ctx context.Context, ownerID primitive.ObjectID, bookingID string, from *time.Time) (*domain.BookingRequest, error) {
	return uc.transition(ctx, ownerID, domain.RoleOwner, bookingID, domain.BookingLiving, from, nil, "")
}

func (uc *BookingUsecase) CancelBySeeker(ctx context.Context, seekerID primitive.ObjectID, bookingID, reason string) (*domain.BookingRequest, error) {
	return uc.transition(ctx, seekerID, domain.RoleSeeker, bookingID, domain.BookingCancelledBySeeker, nil, func(r *domain.BookingRequest) {
		r.CancellationReason = reason
	}, reason)
}

func (uc *BookingUsecase) CancelByOwner(ctx context.Context, ownerID primitive.ObjectID, bookingID, reason string) (*domain.BookingRequest, error) {
	return uc.transition(ctx, ownerID, domain.RoleOwner, bookingID, domain.BookingCancelledByOwner, nil, func(r *domain.BookingRequest) {
		r.CancellationReason = reason
	}, reason)
}

// Cancel cancels on behalf of whichever side of the request the actor is.
func (uc *BookingUsecase) Cancel(ctx context.Context, actorID primitive.ObjectID, role domain.Role, bookingID, reason string) (*domain.BookingRequest, error) {
	if role == domain.RoleOwner {
		return uc.CancelByOwner(ctx, actorID, bookingID, reason)
	}
	return uc.CancelBySeeker(ctx, actorID, bookingID, reason)
}

func (uc *BookingUsecase) transition(
	ctx context.Context,
	actorID primitive.ObjectID,
	actorRole domain.Role,
	bookingID string,
	next domain.BookingStatus,
	livingFrom *time.Time,
	annotate func(*domain.BookingRequest),
	note string,
) (*domain.BookingRequest, error) {
	log := uc.logger.With(
		zap.String("booking_id", bookingID),
		zap.String("actor_id", actorID.Hex()),
		zap.String("to", string(next)))
	log.Info("Transitioning booking request")

	if len([]rune(note)) > domain.MaxBookingNoteLen {
		return nil, &domain.ValidationError{Fields: []domain.FieldError{{Field: "note", Message: "Note cannot be more than 500 characters"}}}
	}
	id, err := domain.ParseID(bookingID)
	if err != nil {
		return nil, err
	}
	req, err := uc.bookings.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.Errorf(domain.ErrNotFound, "Booking request not found with id of %s", bookingID)
		}
		return nil, err
	}

	party := req.SeekerID
	if actorRole == domain.RoleOwner {
		party = req.OwnerID
	}
	if party != actorID {
		log.Warn("Actor is not a party to the booking request")
		return nil, domain.Errorf(domain.ErrForbidden, "User %s is not authorized to update this booking request", actorID.Hex())
	}

	from := req.Status
	if err := req.Transition(next, uc.now(), livingFrom); err != nil {
		log.Warn("Rejected booking transition", zap.String("from", string(from)))
		return nil, err
	}
	if annotate != nil {
		annotate(req)
	}

	if err := uc.bookings.UpdateStatus(ctx, req, from); err != nil {
		return nil, err
	}

	if next == domain.BookingLiving {
		if _, err := uc.accommodations.IncrementOccupancy(ctx, req.AccommodationID); err != nil {
			log.Error("Failed to record new tenant on accommodation",
				zap.String("accommodation_id", req.AccommodationID.Hex()), zap.Error(err))
		} else if uc.cache != nil {
			if err := uc.cache.Invalidate(ctx, req.AccommodationID); err != nil {
				log.Warn("Listing cache invalidation failed", zap.Error(err))
			}
		}
	}

	uc.metrics.BookingTransitioned(string(from), string(next))
	uc.publish(ctx, req, from)
	log.Info("Booking request transitioned", zap.String("from", string(from)))
	return req, nil
}

func (uc *BookingUsecase) publish(ctx context.Context, req *domain.BookingRequest, from domain.BookingStatus) {
	if uc.events == nil {
		return
	}
	subject := domain.BookingSubject(req.Status)
	if err := uc.events.Publish(ctx, subject, domain.NewBookingEvent(req, from)); err != nil {
		uc.logger.Error("Failed to publish booking event",
			zap.String("subject", subject),
			zap.String("booking_id", req.ID.Hex()),
			zap.Error(err))
	}
}

func parseStatusFilter(raw string) (domain.BookingStatus, error) {
	if raw == "" {
		return "", nil
	}
	s := domain.BookingStatus(raw)
	if !s.IsValid() {
		return "", &domain.ValidationError{Fields: []domain.FieldError{{Field: "status", Message: fmt.Sprintf("Unknown booking status %q", raw)}}}
	}
	return s, nil
}

// ListForSeeker lists the seeker's requests, newest first. status may be empty.
func (uc *BookingUsecase) ListForSeeker(ctx context.Context, seekerID primitive.ObjectID, status string) ([]*domain.BookingRequest, error) {
	s, err := parseStatusFilter(status)
	if err != nil {
		return nil, err
	}
	return uc.bookings.ListBySeeker(ctx, seekerID, s)
}

// ListForOwner lists requests for the owner's listings, newest first.
func (uc *BookingUsecase) ListForOwner(ctx context.Context, ownerID primitive.ObjectID, status string) ([]*domain.BookingRequest, error) {
	s, err := parseStatusFilter(status)
	if err != nil {
		return nil, err
	}
	return uc.bookings.ListByOwner(ctx, ownerID, s)
}

package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BookingStatus is a state of the booking request lifecycle.
type BookingStatus string

const (
	BookingPending           BookingStatus = "pending"
	BookingAccepted          BookingStatus = "accepted"
	BookingRejected          BookingStatus = "rejected"
	BookingBooked            BookingStatus = "booked"
	BookingLiving            BookingStatus = "living"
	BookingCancelledBySeeker BookingStatus = "cancelled_by_seeker"
	BookingCancelledByOwner  BookingStatus = "cancelled_by_owner"
)

// ActiveBookingStatuses are the states in which a seeker still has an open
// relationship with a listing. At most one request per (seeker, accommodation)
// may be in one of them.
var ActiveBookingStatuses = []BookingStatus{BookingPending, BookingAccepted, BookingBooked, BookingLiving}

var bookingTransitions = map[BookingStatus][]BookingStatus{
	BookingPending:  {BookingAccepted, BookingRejected, BookingCancelledBySeeker},
	BookingAccepted: {BookingBooked, BookingCancelledBySeeker, BookingCancelledByOwner},
	BookingBooked:   {BookingLiving, BookingCancelledBySeeker, BookingCancelledByOwner},
}

func (s BookingStatus) IsValid() bool {
	switch s {
	case BookingPending, BookingAccepted, BookingRejected, BookingBooked, BookingLiving,
		BookingCancelledBySeeker, BookingCancelledByOwner:
		return true
	}
	return false
}

// IsActive reports whether s is in the active set.
func (s BookingStatus) IsActive() bool {
	for _, a := range ActiveBookingStatuses {
		if s == a {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no transition leaves s.
func (s BookingStatus) IsTerminal() bool {
	return len(bookingTransitions[s]) == 0
}

// CanTransition reports whether the lifecycle allows from -> to.
func CanTransition(from, to BookingStatus) bool {
	for _, next := range bookingTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

const MaxBookingNoteLen = 500

// BookingRequest is a seeker's interest in an accommodation.
type BookingRequest struct {
	ID                 primitive.ObjectID
	SeekerID           primitive.ObjectID
	OwnerID            primitive.ObjectID
	AccommodationID    primitive.ObjectID
	Status             BookingStatus
	MessageFromSeeker  string
	OwnerNote          string
	CancellationReason string
	RequestedAt        time.Time
	AcceptedAt         *time.Time
	RejectedAt         *time.Time
	BookedAt           *time.Time
	LivingFromDate     *time.Time
	CancelledAt        *time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// NewBookingRequest builds a pending request. The owner is taken from the
// accommodation so later owner-side lookups do not need a join.
func NewBookingRequest(seekerID primitive.ObjectID, acc *Accommodation, message string, now time.Time) (*BookingRequest, error) {
	if seekerID == acc.OwnerID {
		return nil, Errorf(ErrInvalidOperation, "You cannot book your own property")
	}
	if len([]rune(message)) > MaxBookingNoteLen {
		return nil, &ValidationError{Fields: []FieldError{{Field: "message", Message: "Message cannot be more than 500 characters"}}}
	}
	return &BookingRequest{
		ID:                primitive.NewObjectID(),
		SeekerID:          seekerID,
		OwnerID:           acc.OwnerID,
		AccommodationID:   acc.ID,
		Status:            BookingPending,
		MessageFromSeeker: message,
		RequestedAt:       now,
		CreatedAt:         now,
		UpdatedAt:         now,
	}, nil
}

// IsActive reports whether the request still blocks a new one for the same pair.
func (b *BookingRequest) IsActive() bool { return b.Status.IsActive() }

// Transition moves the request to next and stamps the matching timestamp.
// at is used for every stamp except living, where livingFrom (if non-nil) wins.
func (b *BookingRequest) Transition(next BookingStatus, at time.Time, livingFrom *time.Time) error {
	if !CanTransition(b.Status, next) {
		return Errorf(ErrInvalidTransition, "Cannot change booking request from %s to %s", b.Status, next)
	}
	switch next {
	case BookingAccepted:
		b.AcceptedAt = &at
	case BookingRejected:
		b.RejectedAt = &at
	case BookingBooked:
		b.BookedAt = &at
	case BookingLiving:
		from := at
		if livingFrom != nil {
			from = *livingFrom
		}
		b.LivingFromDate = &from
	case BookingCancelledBySeeker, BookingCancelledByOwner:
		b.CancelledAt = &at
	}
	b.Status = next
	b.UpdatedAt = at
	return nil
}

package domain

import "time"

const (
	SubjectBookingRequested = "booking.requested"
	subjectBookingPrefix    = "booking."
)

// BookingSubject is the bus subject announcing that a request entered status.
func BookingSubject(status BookingStatus) string {
	if status == BookingPending {
		return SubjectBookingRequested
	}
	return subjectBookingPrefix + string(status)
}

// BookingEvent is the payload of every booking.* message.
type BookingEvent struct {
	BookingID       string        `json:"bookingId"`
	SeekerID        string        `json:"seekerId"`
	OwnerID         string        `json:"ownerId"`
	AccommodationID string        `json:"accommodationId"`
	From            BookingStatus `json:"from,omitempty"`
	Status          BookingStatus `json:"status"`
	Message         string        `json:"message,omitempty"`
	OccurredAt      time.Time     `json:"occurredAt"`
}

// NewBookingEvent describes req after it moved from the given status.
// from is empty for a newly created request.
func NewBookingEvent(req *BookingRequest, from BookingStatus) BookingEvent {
	ev := BookingEvent{
		BookingID:       req.ID.Hex(),
		SeekerID:        req.SeekerID.Hex(),
		OwnerID:         req.OwnerID.Hex(),
		AccommodationID: req.AccommodationID.Hex(),
		From:            from,
		Status:          req.Status,
		OccurredAt:      req.UpdatedAt,
	}
	switch req.Status {
	case BookingPending:
		ev.Message = req.MessageFromSeeker
	case BookingAccepted, BookingRejected:
		ev.Message = req.OwnerNote
	case BookingCancelledBySeeker, BookingCancelledByOwner:
		ev.Message = req.CancellationReason
	}
	return ev
}

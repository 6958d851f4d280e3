package rest

import (
	"net/http"

	"github.com/Abdurahmanit/meraroom-service/internal/domain"
	"github.com/Abdurahmanit/meraroom-service/internal/platform/logger"
	"github.com/go-chi/chi/v5"
)

// BookingHandler serves booking requests for both parties.
type BookingHandler struct {
	responder
	bookings BookingService
}

func NewBookingHandler(bookings BookingService, production bool, log *logger.Logger) *BookingHandler {
	return &BookingHandler{
		responder: responder{logger: log.Named("BookingHandler"), production: production},
		bookings:  bookings,
	}
}

func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request) {
	p, ok := h.principal(w, r)
	if !ok {
		return
	}
	var req bookingCreateRequest
	if err := decodeJSON(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	if err := validateStruct(&req); err != nil {
		h.fail(w, r, err)
		return
	}

	booking, err := h.bookings.CreateBookingRequest(r.Context(), p.ID, req.AccommodationID, req.MessageFromSeeker)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, http.StatusCreated, toBookingDTO(booking), "Booking request submitted successfully. The owner will be notified.")
}

func (h *BookingHandler) GetMyRequest(w http.ResponseWriter, r *http.Request) {
	p, ok := h.principal(w, r)
	if !ok {
		return
	}
	booking, err := h.bookings.GetMyBookingRequestForAccommodation(r.Context(), p.ID, chi.URLParam(r, "accommodationId"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if booking == nil {
		h.ok(w, http.StatusOK, nil, "No active booking request found for this accommodation by the current user.")
		return
	}
	h.ok(w, http.StatusOK, toBookingDTO(booking), "")
}

func (h *BookingHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	p, ok := h.principal(w, r)
	if !ok {
		return
	}
	items, err := h.bookings.ListForSeeker(r.Context(), p.ID, r.URL.Query().Get("status"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.list(w, toBookingDTOs(items), len(items), nil)
}

func (h *BookingHandler) ListForOwner(w http.ResponseWriter, r *http.Request) {
	p, ok := h.principal(w, r)
	if !ok {
		return
	}
	items, err := h.bookings.ListForOwner(r.Context(), p.ID, r.URL.Query().Get("status"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.list(w, toBookingDTOs(items), len(items), nil)
}

// respondTransition writes the outcome of any status change.
func (h *BookingHandler) respondTransition(w http.ResponseWriter, r *http.Request, booking *domain.BookingRequest, err error) {
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, http.StatusOK, toBookingDTO(booking), "Booking request is now "+string(booking.Status))
}

func (h *BookingHandler) Accept(w http.ResponseWriter, r *http.Request) {
	p, ok := h.principal(w, r)
	if !ok {
		return
	}
	var req bookingNoteRequest
	if err := h.decodeValid(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	booking, err := h.bookings.Accept(r.Context(), p.ID, chi.URLParam(r, "id"), req.Note)
	h.respondTransition(w, r, booking, err)
}

func (h *BookingHandler) Reject(w http.ResponseWriter, r *http.Request) {
	p, ok := h.principal(w, r)
	if !ok {
		return
	}
	var req bookingNoteRequest
	if err := h.decodeValid(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	booking, err := h.bookings.Reject(r.Context(), p.ID, chi.URLParam(r, "id"), req.Note)
	h.respondTransition(w, r, booking, err)
}

func (h *BookingHandler) MarkBooked(w http.ResponseWriter, r *http.Request) {
	p, ok := h.principal(w, r)
	if !ok {
		return
	}
	booking, err := h.bookings.MarkBooked(r.Context(), p.ID, chi.URLParam(r, "id"))
	h.respondTransition(w, r, booking, err)
}

func (h *BookingHandler) MarkLiving(w http.ResponseWriter, r *http.Request) {
	p, ok := h.principal(w, r)
	if !ok {
		return
	}
	var req bookingLivingRequest
	if err := decodeJSON(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	from, err := req.date()
	if err != nil {
		h.fail(w, r, err)
		return
	}
	booking, err := h.bookings.MarkLiving(r.Context(), p.ID, chi.URLParam(r, "id"), from)
	h.respondTransition(w, r, booking, err)
}

// Cancel acts as the seeker or the owner depending on the caller's role.
func (h *BookingHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	p, ok := h.principal(w, r)
	if !ok {
		return
	}
	var req bookingCancelRequest
	if err := h.decodeValid(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	booking, err := h.bookings.Cancel(r.Context(), p.ID, p.Role, chi.URLParam(r, "id"), req.Reason)
	h.respondTransition(w, r, booking, err)
}

func (h *BookingHandler) decodeValid(r *http.Request, dst interface{}) error {
	if err := decodeJSON(r, dst); err != nil {
		return err
	}
	return validateStruct(dst)
}

package rest

import (
	"net/http"

	"github.com/Abdurahmanit/meraroom-service/internal/domain"
	"github.com/Abdurahmanit/meraroom-service/internal/platform/logger"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// AccommodationHandler serves listing search and owner CRUD.
type AccommodationHandler struct {
	responder
	listings     ListingService
	maxFileBytes int64
}

func NewAccommodationHandler(listings ListingService, maxFileBytes int64, production bool, log *logger.Logger) *AccommodationHandler {
	return &AccommodationHandler{
		responder:    responder{logger: log.Named("AccommodationHandler"), production: production},
		listings:     listings,
		maxFileBytes: maxFileBytes,
	}
}

func (h *AccommodationHandler) Search(w http.ResponseWriter, r *http.Request) {
	q, notes := domain.ParseListingQuery(r.URL.Query())
	for _, n := range notes {
		h.logger.Warn("Search parameter dropped", zap.String("note", n))
	}

	page, err := h.listings.Search(r.Context(), q)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	var data interface{}
	if len(q.Select) > 0 {
		data, err = projectListings(page.Items, q.Select)
		if err != nil {
			h.fail(w, r, err)
			return
		}
	} else {
		items := make([]*accommodationDTO, 0, len(page.Items))
		for _, v := range page.Items {
			items = append(items, toListingDTO(v))
		}
		data = items
	}
	h.list(w, data, len(page.Items), toPaginationDTO(page.Pagination))
}

func (h *AccommodationHandler) Get(w http.ResponseWriter, r *http.Request) {
	view, err := h.listings.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, http.StatusOK, toListingDTO(view), "")
}

func (h *AccommodationHandler) Create(w http.ResponseWriter, r *http.Request) {
	p, ok := h.principal(w, r)
	if !ok {
		return
	}
	form, err := parseUploadForm(w, r, h.maxFileBytes, propertyPhotosField)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	acc, err := parseAccommodation(form.values)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	created, err := h.listings.Create(r.Context(), p.ID, acc, form.files[propertyPhotosField.name])
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, http.StatusCreated, toAccommodationDTO(created), "")
}

func (h *AccommodationHandler) Update(w http.ResponseWriter, r *http.Request) {
	p, ok := h.principal(w, r)
	if !ok {
		return
	}
	form, err := parseUploadForm(w, r, h.maxFileBytes, propertyPhotosField)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	patch, err := parseAccommodationPatch(form.values)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	updated, err := h.listings.Update(r.Context(), p.ID, chi.URLParam(r, "id"), patch, form.files[propertyPhotosField.name])
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, http.StatusOK, toAccommodationDTO(updated), "")
}

func (h *AccommodationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	p, ok := h.principal(w, r)
	if !ok {
		return
	}
	if err := h.listings.Delete(r.Context(), p.ID, chi.URLParam(r, "id")); err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, http.StatusOK, struct{}{}, "")
}

func (h *AccommodationHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	p, ok := h.principal(w, r)
	if !ok {
		return
	}
	items, err := h.listings.ListMine(r.Context(), p.ID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.list(w, toAccommodationDTOs(items), len(items), nil)
}

package rest

import (
	"net/http"

	"github.com/Abdurahmanit/meraroom-service/internal/platform/logger"
)

// UserHandler serves the icon-based living standards and additional info.
type UserHandler struct {
	responder
	prefs PreferencesService
}

func NewUserHandler(prefs PreferencesService, production bool, log *logger.Logger) *UserHandler {
	return &UserHandler{
		responder: responder{logger: log.Named("UserHandler"), production: production},
		prefs:     prefs,
	}
}

func (h *UserHandler) GetPreferences(w http.ResponseWriter, r *http.Request) {
	p, ok := h.principal(w, r)
	if !ok {
		return
	}
	prefs, err := h.prefs.GetPreferences(r.Context(), p.ID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, http.StatusOK, toPreferencesDTO(prefs), "")
}

func (h *UserHandler) UpdatePreferences(w http.ResponseWriter, r *http.Request) {
	p, ok := h.principal(w, r)
	if !ok {
		return
	}
	var req preferencesRequest
	if err := decodeJSON(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	prefs, err := h.prefs.UpdatePreferences(r.Context(), p.ID, req.SelectedLivingStandards, req.AdditionalInfo)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, http.StatusOK, toPreferencesDTO(prefs), "Living Standards and additional info updated successfully")
}

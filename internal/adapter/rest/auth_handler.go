package rest

import (
	"net/http"

	"github.com/Abdurahmanit/meraroom-service/internal/domain"
	"github.com/Abdurahmanit/meraroom-service/internal/platform/logger"
	"go.uber.org/zap"
)

// AuthHandler serves registration, login and the caller's own profile.
type AuthHandler struct {
	responder
	auth         AuthService
	maxFileBytes int64
}

func NewAuthHandler(auth AuthService, maxFileBytes int64, production bool, log *logger.Logger) *AuthHandler {
	return &AuthHandler{
		responder:    responder{logger: log.Named("AuthHandler"), production: production},
		auth:         auth,
		maxFileBytes: maxFileBytes,
	}
}

func (h *AuthHandler) RegisterSeeker(w http.ResponseWriter, r *http.Request) {
	form, err := parseUploadForm(w, r, h.maxFileBytes, scholarshipCertificateField)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	in, err := parseSeekerRegistration(form.values)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	res, err := h.auth.RegisterSeeker(r.Context(), in, form.first(scholarshipCertificateField.name))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.logger.Info("Seeker registered", zap.String("user_id", res.User.ID.Hex()))
	h.writeJSON(w, http.StatusCreated, tokenEnvelope{Success: true, Token: res.Token, User: toUserDTO(res.User)})
}

func (h *AuthHandler) RegisterOwner(w http.ResponseWriter, r *http.Request) {
	form, err := parseUploadForm(w, r, h.maxFileBytes, ownerIDProofField, propertyPhotosField)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	in, listing, err := parseOwnerRegistration(form.values)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	res, acc, err := h.auth.RegisterOwner(r.Context(), in, form.first(ownerIDProofField.name), listing, form.files[propertyPhotosField.name])
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.logger.Info("Owner registered", zap.String("user_id", res.User.ID.Hex()), zap.String("accommodation_id", acc.ID.Hex()))
	h.writeJSON(w, http.StatusCreated, tokenEnvelope{
		Success: true,
		Token:   res.Token,
		User:    toUserDTO(res.User),
		Data:    toAccommodationDTO(acc),
	})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	if req.Email == "" || req.Password == "" {
		h.fail(w, r, domain.Errorf(domain.ErrInvalidInput, "Please provide an email and password"))
		return
	}
	if err := validateStruct(&req); err != nil {
		h.fail(w, r, err)
		return
	}

	res, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, tokenEnvelope{Success: true, Token: res.Token, User: toUserDTO(res.User)})
}

func (h *AuthHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	p, ok := h.principal(w, r)
	if !ok {
		return
	}
	user, err := h.auth.GetMe(r.Context(), p.ID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, http.StatusOK, toUserDTO(user), "")
}

// Logout only acknowledges; sessions are stateless and the client drops the token.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.ok(w, http.StatusOK, struct{}{}, "Logged out successfully (Client should clear token)")
}

func (h *AuthHandler) UpdateMyDetails(w http.ResponseWriter, r *http.Request) {
	p, ok := h.principal(w, r)
	if !ok {
		return
	}
	var req updateDetailsRequest
	if err := decodeJSON(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	if err := validateStruct(&req); err != nil {
		h.fail(w, r, err)
		return
	}

	user, err := h.auth.UpdateMyDetails(r.Context(), p.ID, req.toPatch())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, http.StatusOK, toUserDTO(user), "Profile details updated successfully.")
}

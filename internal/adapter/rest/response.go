package rest

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/Abdurahmanit/meraroom-service/internal/adapter/rest/middleware"
	"github.com/Abdurahmanit/meraroom-service/internal/domain"
	"github.com/Abdurahmanit/meraroom-service/internal/platform/logger"
	"go.uber.org/zap"
)

type envelope struct {
	Success    bool           `json:"success"`
	Count      *int           `json:"count,omitempty"`
	Pagination *paginationDTO `json:"pagination,omitempty"`
	Data       interface{}    `json:"data"`
	Message    string         `json:"message,omitempty"`
}

type tokenEnvelope struct {
	Success bool        `json:"success"`
	Token   string      `json:"token"`
	User    *userDTO    `json:"user"`
	Data    interface{} `json:"data,omitempty"`
}

type fieldErrorDTO struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type errorEnvelope struct {
	Success bool            `json:"success"`
	Error   string          `json:"error"`
	Errors  []fieldErrorDTO `json:"errors,omitempty"`
}

// responder is embedded by every handler for uniform output.
type responder struct {
	logger     *logger.Logger
	production bool
}

func (rs responder) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		rs.logger.Error("Failed to encode response", zap.Error(err))
	}
}

func (rs responder) ok(w http.ResponseWriter, status int, data interface{}, message string) {
	rs.writeJSON(w, status, envelope{Success: true, Data: data, Message: message})
}

func (rs responder) list(w http.ResponseWriter, data interface{}, count int, p *paginationDTO) {
	rs.writeJSON(w, http.StatusOK, envelope{Success: true, Count: &count, Pagination: p, Data: data})
}

// statusFor maps a domain error onto an HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidInput),
		errors.Is(err, domain.ErrInvalidOperation),
		errors.Is(err, domain.ErrInvalidTransition):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrConflict), errors.Is(err, domain.ErrEmailTaken):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// fail writes err as the error envelope. Server errors are logged and, in
// production, replaced by a generic message.
func (rs responder) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	body := errorEnvelope{Error: err.Error()}

	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		for _, f := range verr.Fields {
			body.Errors = append(body.Errors, fieldErrorDTO{Field: f.Field, Message: f.Message})
		}
	}

	fields := []zap.Field{
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Int("status", status),
		zap.String("request_id", middleware.RequestIDFromContext(r.Context())),
		zap.Error(err),
	}
	if status == http.StatusInternalServerError {
		rs.logger.Error("Request failed", fields...)
		if rs.production {
			body.Error = "Server Error"
		}
	} else {
		rs.logger.Debug("Request rejected", fields...)
	}
	rs.writeJSON(w, status, body)
}

// principal returns the authenticated caller. Routes that call it are always
// mounted behind Authenticate.
func (rs responder) principal(w http.ResponseWriter, r *http.Request) (*middleware.Principal, bool) {
	p, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		rs.fail(w, r, domain.Errorf(domain.ErrUnauthenticated, "Not authorized to access this route"))
	}
	return p, ok
}

func decodeJSON(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field != "" {
			return domain.Errorf(domain.ErrInvalidInput, "Invalid value for %s", typeErr.Field)
		}
		return domain.Errorf(domain.ErrInvalidInput, "Invalid request body")
	}
	return nil
}

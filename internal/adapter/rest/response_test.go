package rest

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/Abdurahmanit/meraroom-service/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{&domain.ValidationError{Fields: []domain.FieldError{{Field: "email", Message: "bad"}}}, http.StatusBadRequest},
		{domain.Errorf(domain.ErrInvalidInput, "bad"), http.StatusBadRequest},
		{domain.Errorf(domain.ErrInvalidOperation, "full"), http.StatusBadRequest},
		{domain.Errorf(domain.ErrInvalidTransition, "no"), http.StatusBadRequest},
		{domain.Errorf(domain.ErrUnauthenticated, "who"), http.StatusUnauthorized},
		{domain.Errorf(domain.ErrForbidden, "not yours"), http.StatusForbidden},
		{domain.Errorf(domain.ErrNotFound, "gone"), http.StatusNotFound},
		{domain.Errorf(domain.ErrConflict, "dup"), http.StatusConflict},
		{fmt.Errorf("register: %w", domain.ErrEmailTaken), http.StatusConflict},
		{fmt.Errorf("find: %w", domain.ErrRepository), http.StatusInternalServerError},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			assert.Equal(t, tt.want, statusFor(tt.err))
		})
	}
}

func TestDecodeJSON(t *testing.T) {
	var req bookingCreateRequest
	r := httptest.NewRequest(http.MethodPost, "/", http.NoBody)
	assert.NoError(t, decodeJSON(r, &req))

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"accommodationId": 42}`))
	err := decodeJSON(r, &req)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, "Invalid value for accommodationId", err.Error())

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"accommodationId":`))
	assert.EqualError(t, decodeJSON(r, &req), "Invalid request body")
}

func ownerFormValues() url.Values {
	return url.Values{
		"ownerName":            {"Ravi Kulkarni"},
		"ownerEmail":           {"ravi@example.com"},
		"ownerPhone":           {"9000000001"},
		"ownerPassword":        {"secret1"},
		"ownerConfirmPassword": {"secret1"},
		"ownerAddress":         {"5 MG Road, Pune"},
		"termsAgreement":       {"on"},
		"propertyType":         {"hostel"},
		"propertyAddress":      {"12 FC Road"},
		"propertyCity":         {"Pune"},
		"propertyLandmark":     {"Near Garware College"},
		"propertyDescription":  {"Hostel for students"},
		"totalRooms":           {"10"},
		"messFacility":         {"available"},
		"availableFrom":        {"2024-06-01T00:00:00Z"},
		"rentAmount":           {"6000"},
		"agreementTerms":       {"monthly"},
		"preferredTenantType":  {"student", "working"},
	}
}

func TestParseOwnerRegistration(t *testing.T) {
	in, acc, err := parseOwnerRegistration(ownerFormValues())
	require.NoError(t, err)
	assert.Equal(t, "ravi@example.com", in.Credentials.Email)
	assert.Equal(t, "5 MG Road, Pune", in.PermanentAddress)
	assert.Equal(t, "12 FC Road", acc.Address)
	assert.Equal(t, "Hostel for students", acc.Description)
	assert.Equal(t, []string{"student", "working"}, acc.PreferredTenantType)
	assert.True(t, acc.AvailableFrom.Equal(time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)))

	values := ownerFormValues()
	values.Del("termsAgreement")
	values.Set("propertyCity", "")
	values.Set("rentAmount", "lots")
	_, _, err = parseOwnerRegistration(values)

	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	fields := map[string]string{}
	for _, f := range verr.Fields {
		fields[f.Field] = f.Message
	}
	assert.Equal(t, "Please agree to the terms and conditions", fields["termsAgreement"])
	assert.Equal(t, "Property city is required", fields["city"])
	assert.Equal(t, "Rent amount must be a positive number", fields["rentAmount"])
}

func TestParseAccommodationPatch(t *testing.T) {
	patch, err := parseAccommodationPatch(url.Values{
		"city":        {" Mumbai "},
		"amenities":   {"wifi,ac"},
		"rentAmount":  {"9000.5"},
		"isAvailable": {"false"},
	})
	require.NoError(t, err)
	require.NotNil(t, patch.City)
	assert.Equal(t, "Mumbai", *patch.City)
	assert.Equal(t, []string{"wifi", "ac"}, *patch.Amenities)
	assert.Equal(t, 9000.5, *patch.RentAmount)
	assert.False(t, *patch.IsAvailable)
	assert.Nil(t, patch.Address)
	assert.Nil(t, patch.TotalRooms)

	_, err = parseAccommodationPatch(url.Values{"totalRooms": {"ten"}, "availableFrom": {"soon"}})
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Len(t, verr.Fields, 2)
}

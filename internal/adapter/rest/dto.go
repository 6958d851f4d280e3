package rest

import (
	"encoding/json"
	"time"

	"github.com/Abdurahmanit/meraroom-service/internal/domain"
	"github.com/Abdurahmanit/meraroom-service/internal/usecase"
)

type registrationPreferencesDTO struct {
	AccommodationType string `json:"accommodationType,omitempty"`
	Budget            string `json:"budget,omitempty"`
	PreferredGender   string `json:"preferredGender,omitempty"`
	Hobbies           string `json:"hobbies,omitempty"`
	Habits            string `json:"habits,omitempty"`
	Restrictions      string `json:"restrictions,omitempty"`
	SpecialReq        string `json:"specialReq,omitempty"`
}

// userDTO is the public shape of a user. The password hash is never included.
type userDTO struct {
	MongoID                 string                     `json:"_id"`
	ID                      string                     `json:"id"`
	Role                    domain.Role                `json:"role"`
	Name                    string                     `json:"name"`
	Email                   string                     `json:"email"`
	Phone                   string                     `json:"phone"`
	IsVerified              bool                       `json:"isVerified"`
	Hometown                string                     `json:"hometown,omitempty"`
	UserType                domain.UserType            `json:"userType,omitempty"`
	College                 string                     `json:"college,omitempty"`
	Course                  string                     `json:"course,omitempty"`
	Company                 string                     `json:"company,omitempty"`
	Designation             string                     `json:"designation,omitempty"`
	ScholarshipCertificate  string                     `json:"scholarshipCertificate,omitempty"`
	FatherName              string                     `json:"fatherName,omitempty"`
	FatherContact           string                     `json:"fatherContact,omitempty"`
	MotherName              string                     `json:"motherName,omitempty"`
	MotherContact           string                     `json:"motherContact,omitempty"`
	EmergencyContact        string                     `json:"emergencyContact,omitempty"`
	PermanentAddress        string                     `json:"permanentAddress,omitempty"`
	IDProof                 string                     `json:"idProof,omitempty"`
	RegistrationPreferences registrationPreferencesDTO `json:"registrationPreferences"`
	LivingStandards         []string                   `json:"livingStandards"`
	AdditionalInfo          string                     `json:"additional_info"`
	CreatedAt               time.Time                  `json:"createdAt"`
	UpdatedAt               time.Time                  `json:"updatedAt"`
}

func toUserDTO(u *domain.User) *userDTO {
	if u == nil {
		return nil
	}
	p := u.RegistrationPreferences
	dto := &userDTO{
		MongoID:    u.ID.Hex(),
		ID:         u.ID.Hex(),
		Role:       u.Role(),
		Name:       u.Name,
		Email:      u.Email,
		Phone:      u.Phone,
		IsVerified: u.IsVerified,
		RegistrationPreferences: registrationPreferencesDTO{
			AccommodationType: p.AccommodationType,
			Budget:            p.Budget,
			PreferredGender:   p.PreferredGender,
			Hobbies:           p.Hobbies,
			Habits:            p.Habits,
			Restrictions:      p.Restrictions,
			SpecialReq:        p.SpecialReq,
		},
		LivingStandards: u.LivingStandards,
		AdditionalInfo:  u.AdditionalInfo,
		CreatedAt:       u.CreatedAt,
		UpdatedAt:       u.UpdatedAt,
	}
	if dto.LivingStandards == nil {
		dto.LivingStandards = []string{}
	}
	if s, ok := u.Seeker(); ok {
		dto.Hometown = s.Hometown
		dto.UserType = s.UserType
		dto.College = s.College
		dto.Course = s.Course
		dto.Company = s.Company
		dto.Designation = s.Designation
		dto.ScholarshipCertificate = s.ScholarshipCertificate
		dto.FatherName = s.FatherName
		dto.FatherContact = s.FatherContact
		dto.MotherName = s.MotherName
		dto.MotherContact = s.MotherContact
		dto.EmergencyContact = s.EmergencyContact
	}
	if o, ok := u.Owner(); ok {
		dto.PermanentAddress = o.PermanentAddress
		dto.IDProof = o.IDProof
	}
	return dto
}

type ownerSummaryDTO struct {
	ID         string `json:"_id"`
	Name       string `json:"name"`
	IsVerified bool   `json:"isVerified"`
}

type ownerContactDTO struct {
	ID         string `json:"_id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	IsVerified bool   `json:"isVerified"`
}

type accommodationDTO struct {
	MongoID             string               `json:"_id"`
	ID                  string               `json:"id"`
	Owner               interface{}          `json:"owner"`
	PropertyType        domain.PropertyType  `json:"propertyType"`
	PropertyName        string               `json:"propertyName,omitempty"`
	Address             string               `json:"address"`
	City                string               `json:"city"`
	Landmark            string               `json:"landmark"`
	TotalRooms          int                  `json:"totalRooms"`
	CurrentOccupancy    int                  `json:"currentOccupancy"`
	Photos              []string             `json:"photos"`
	Description         string               `json:"description"`
	Amenities           []string             `json:"amenities"`
	NearbyFacilities    string               `json:"nearbyFacilities,omitempty"`
	Transportation      string               `json:"transportation,omitempty"`
	MessFacility        domain.MessFacility  `json:"messFacility"`
	AvailableFrom       time.Time            `json:"availableFrom"`
	RentAmount          float64              `json:"rentAmount"`
	SecurityDeposit     float64              `json:"securityDeposit"`
	OtherCharges        string               `json:"otherCharges,omitempty"`
	StudentDiscount     string               `json:"studentDiscount,omitempty"`
	PreferredTenantType []string             `json:"preferredTenantType"`
	AllowedGender       domain.Gender        `json:"allowedGender"`
	HouseRules          string               `json:"houseRules,omitempty"`
	AgreementTerms      domain.AgreementTerm `json:"agreementTerms"`
	Slug                string               `json:"slug"`
	IsAvailable         bool                 `json:"isAvailable"`
	AverageRating       *float64             `json:"averageRating,omitempty"`
	CreatedAt           time.Time            `json:"createdAt"`
	UpdatedAt           time.Time            `json:"updatedAt"`
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func toAccommodationDTO(a *domain.Accommodation) *accommodationDTO {
	return &accommodationDTO{
		MongoID:             a.ID.Hex(),
		ID:                  a.ID.Hex(),
		Owner:               a.OwnerID.Hex(),
		PropertyType:        a.PropertyType,
		PropertyName:        a.PropertyName,
		Address:             a.Address,
		City:                a.City,
		Landmark:            a.Landmark,
		TotalRooms:          a.TotalRooms,
		CurrentOccupancy:    a.CurrentOccupancy,
		Photos:              nonNil(a.Photos),
		Description:         a.Description,
		Amenities:           nonNil(a.Amenities),
		NearbyFacilities:    a.NearbyFacilities,
		Transportation:      a.Transportation,
		MessFacility:        a.MessFacility,
		AvailableFrom:       a.AvailableFrom,
		RentAmount:          a.RentAmount,
		SecurityDeposit:     a.SecurityDeposit,
		OtherCharges:        a.OtherCharges,
		StudentDiscount:     a.StudentDiscount,
		PreferredTenantType: nonNil(a.PreferredTenantType),
		AllowedGender:       a.AllowedGender,
		HouseRules:          a.HouseRules,
		AgreementTerms:      a.AgreementTerms,
		Slug:                a.Slug,
		IsAvailable:         a.IsAvailable,
		AverageRating:       a.AverageRating,
		CreatedAt:           a.CreatedAt,
		UpdatedAt:           a.UpdatedAt,
	}
}

func toAccommodationDTOs(items []*domain.Accommodation) []*accommodationDTO {
	out := make([]*accommodationDTO, 0, len(items))
	for _, a := range items {
		out = append(out, toAccommodationDTO(a))
	}
	return out
}

func toListingDTO(v *domain.ListingView) *accommodationDTO {
	dto := toAccommodationDTO(&v.Accommodation)
	switch {
	case v.Contact != nil:
		dto.Owner = ownerContactDTO{
			ID:         v.Contact.ID.Hex(),
			Name:       v.Contact.Name,
			Email:      v.Contact.Email,
			Phone:      v.Contact.Phone,
			IsVerified: v.Contact.IsVerified,
		}
	case v.Owner != nil:
		dto.Owner = ownerSummaryDTO{ID: v.Owner.ID.Hex(), Name: v.Owner.Name, IsVerified: v.Owner.IsVerified}
	}
	return dto
}

// projectListings keeps only the selected fields plus ids and owner. The
// repository already projected the document, so this only trims zero values
// the DTO would otherwise emit.
func projectListings(items []*domain.ListingView, selected []string) ([]interface{}, error) {
	keep := map[string]struct{}{"_id": {}, "id": {}, "owner": {}}
	for _, f := range selected {
		keep[f] = struct{}{}
	}
	out := make([]interface{}, 0, len(items))
	for _, v := range items {
		raw, err := json.Marshal(toListingDTO(v))
		if err != nil {
			return nil, err
		}
		var m map[string]interface{}
		if err := json.Unmarshal(raw, &m); err != nil {
			return nil, err
		}
		for k := range m {
			if _, ok := keep[k]; !ok {
				delete(m, k)
			}
		}
		out = append(out, m)
	}
	return out, nil
}

type pageRefDTO struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

type paginationDTO struct {
	CurrentPage int         `json:"currentPage"`
	TotalPages  int         `json:"totalPages"`
	TotalDocs   int64       `json:"totalDocs"`
	Next        *pageRefDTO `json:"next,omitempty"`
	Prev        *pageRefDTO `json:"prev,omitempty"`
}

func toPaginationDTO(p domain.Pagination) *paginationDTO {
	dto := &paginationDTO{CurrentPage: p.CurrentPage, TotalPages: p.TotalPages, TotalDocs: p.TotalDocs}
	if p.Next != nil {
		dto.Next = &pageRefDTO{Page: p.Next.Page, Limit: p.Next.Limit}
	}
	if p.Prev != nil {
		dto.Prev = &pageRefDTO{Page: p.Prev.Page, Limit: p.Prev.Limit}
	}
	return dto
}

type bookingDTO struct {
	MongoID            string               `json:"_id"`
	ID                 string               `json:"id"`
	Seeker             string               `json:"seeker"`
	Owner              string               `json:"owner"`
	Accommodation      string               `json:"accommodation"`
	Status             domain.BookingStatus `json:"status"`
	MessageFromSeeker  string               `json:"messageFromSeeker,omitempty"`
	OwnerNote          string               `json:"ownerNote,omitempty"`
	CancellationReason string               `json:"cancellationReason,omitempty"`
	RequestedAt        time.Time            `json:"requestedAt"`
	AcceptedAt         *time.Time           `json:"acceptedAt,omitempty"`
	RejectedAt         *time.Time           `json:"rejectedAt,omitempty"`
	BookedAt           *time.Time           `json:"bookedAt,omitempty"`
	LivingFromDate     *time.Time           `json:"livingFromDate,omitempty"`
	CancelledAt        *time.Time           `json:"cancelledAt,omitempty"`
	CreatedAt          time.Time            `json:"createdAt"`
	UpdatedAt          time.Time            `json:"updatedAt"`
}

func toBookingDTO(b *domain.BookingRequest) *bookingDTO {
	return &bookingDTO{
		MongoID:            b.ID.Hex(),
		ID:                 b.ID.Hex(),
		Seeker:             b.SeekerID.Hex(),
		Owner:              b.OwnerID.Hex(),
		Accommodation:      b.AccommodationID.Hex(),
		Status:             b.Status,
		MessageFromSeeker:  b.MessageFromSeeker,
		OwnerNote:          b.OwnerNote,
		CancellationReason: b.CancellationReason,
		RequestedAt:        b.RequestedAt,
		AcceptedAt:         b.AcceptedAt,
		RejectedAt:         b.RejectedAt,
		BookedAt:           b.BookedAt,
		LivingFromDate:     b.LivingFromDate,
		CancelledAt:        b.CancelledAt,
		CreatedAt:          b.CreatedAt,
		UpdatedAt:          b.UpdatedAt,
	}
}

func toBookingDTOs(items []*domain.BookingRequest) []*bookingDTO {
	out := make([]*bookingDTO, 0, len(items))
	for _, b := range items {
		out = append(out, toBookingDTO(b))
	}
	return out
}

type preferencesDTO struct {
	LivingStandards []string `json:"livingStandards"`
	AdditionalInfo  string   `json:"additional_info"`
}

func toPreferencesDTO(p *usecase.Preferences) preferencesDTO {
	return preferencesDTO{LivingStandards: nonNil(p.LivingStandards), AdditionalInfo: p.AdditionalInfo}
}

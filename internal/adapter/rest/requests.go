package rest

import (
	"errors"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Abdurahmanit/meraroom-service/internal/domain"
	"github.com/Abdurahmanit/meraroom-service/internal/usecase"
)

const dateMsg = "Availability date is required"

var preferenceKeys = []string{"accommodationType", "budget", "preferredGender", "hobbies", "habits", "restrictions", "specialReq"}

// seekerRegistrationForm mirrors the seeker signup form.
type seekerRegistrationForm struct {
	FullName         string `form:"fullName" validate:"required" msg:"Full name is required"`
	Email            string `form:"email" validate:"required,email" msg:"Please include a valid email"`
	Phone            string `form:"phone" validate:"mobile" msg:"Please include a valid 10-digit phone number"`
	Password         string `form:"password" validate:"min=6" msg:"Password must be at least 6 characters"`
	ConfirmPassword  string `form:"confirmPassword" validate:"eqfield=Password" msg:"Passwords do not match"`
	Hometown         string `form:"hometown" validate:"required" msg:"Hometown is required"`
	UserType         string `form:"userType" validate:"oneof=student working" msg:"User type (student/working) is required"`
	College          string `form:"college" validate:"required_if=UserType student" msg:"College is required for students"`
	Course           string `form:"course"`
	Company          string `form:"company" validate:"required_if=UserType working" msg:"Company is required for working professionals"`
	Designation      string `form:"designation"`
	FatherName       string `form:"fatherName" validate:"required" msg:"Father's name is required"`
	FatherContact    string `form:"fatherContact" validate:"mobile" msg:"Father's contact number is required"`
	MotherName       string `form:"motherName"`
	MotherContact    string `form:"motherContact" validate:"omitempty,mobile" msg:"Please include a valid 10-digit phone number"`
	EmergencyContact string `form:"emergencyContact" validate:"omitempty,mobile" msg:"Please include a valid 10-digit phone number"`
}

func parseSeekerRegistration(values url.Values) (usecase.RegisterSeekerInput, error) {
	var f seekerRegistrationForm
	if err := bindForm(values, &f); err != nil {
		return usecase.RegisterSeekerInput{}, err
	}
	if err := validateStruct(&f); err != nil {
		return usecase.RegisterSeekerInput{}, err
	}
	prefs := make(map[string]string, len(preferenceKeys))
	for _, k := range preferenceKeys {
		if v := strings.TrimSpace(values.Get(k)); v != "" {
			prefs[k] = v
		}
	}
	return usecase.RegisterSeekerInput{
		Credentials: usecase.Credentials{Name: f.FullName, Email: f.Email, Phone: f.Phone, Password: f.Password},
		Profile: domain.SeekerProfile{
			Hometown:         f.Hometown,
			UserType:         domain.UserType(f.UserType),
			College:          f.College,
			Course:           f.Course,
			Company:          f.Company,
			Designation:      f.Designation,
			FatherName:       f.FatherName,
			FatherContact:    f.FatherContact,
			MotherName:       f.MotherName,
			MotherContact:    f.MotherContact,
			EmergencyContact: f.EmergencyContact,
		},
		Preferences: prefs,
	}, nil
}

// accommodationForm is shared by owner signup and listing creation. Owner
// signup prefixes some names with "property", hence the aliases.
type accommodationForm struct {
	PropertyType        string   `form:"propertyType" validate:"oneof=hostel pg flat house room" msg:"Property type is required"`
	PropertyName        string   `form:"propertyName"`
	Address             string   `form:"address,propertyAddress" validate:"required" msg:"Property address is required"`
	City                string   `form:"city,propertyCity" validate:"required" msg:"Property city is required"`
	Landmark            string   `form:"landmark,propertyLandmark" validate:"required" msg:"Property landmark is required"`
	TotalRooms          int      `form:"totalRooms" validate:"min=1" msg:"Total rooms must be a number >= 1"`
	CurrentOccupancy    int      `form:"currentOccupancy" validate:"min=0" msg:"Current occupancy cannot be negative"`
	Description         string   `form:"description,propertyDescription" validate:"required,max=500" msg:"Property description is required (max 500 characters)"`
	Amenities           []string `form:"amenities"`
	NearbyFacilities    string   `form:"nearbyFacilities"`
	Transportation      string   `form:"transportation"`
	MessFacility        string   `form:"messFacility" validate:"oneof=included available not-available" msg:"Mess facility option is required"`
	AvailableFrom       string   `form:"availableFrom" validate:"required" msg:"Availability date is required"`
	RentAmount          float64  `form:"rentAmount" validate:"min=0" msg:"Rent amount must be a positive number"`
	SecurityDeposit     float64  `form:"securityDeposit" validate:"min=0" msg:"Security deposit must be a positive number"`
	OtherCharges        string   `form:"otherCharges"`
	StudentDiscount     string   `form:"studentDiscount"`
	PreferredTenantType []string `form:"preferredTenantType"`
	AllowedGender       string   `form:"allowedGender" validate:"omitempty,oneof=male female any" msg:"Allowed gender must be male, female or any"`
	HouseRules          string   `form:"houseRules"`
	AgreementTerms      string   `form:"agreementTerms" validate:"oneof=11-months 6-months 3-months monthly" msg:"Agreement terms are required"`
}

func parseDate(raw string) (time.Time, bool) {
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, strings.TrimSpace(raw)); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

func (f *accommodationForm) toDomain() (*domain.Accommodation, error) {
	from, ok := parseDate(f.AvailableFrom)
	if !ok {
		return nil, &domain.ValidationError{Fields: []domain.FieldError{{Field: "availableFrom", Message: dateMsg}}}
	}
	return &domain.Accommodation{
		PropertyType:        domain.PropertyType(f.PropertyType),
		PropertyName:        f.PropertyName,
		Address:             f.Address,
		City:                f.City,
		Landmark:            f.Landmark,
		TotalRooms:          f.TotalRooms,
		CurrentOccupancy:    f.CurrentOccupancy,
		Description:         f.Description,
		Amenities:           nonNil(f.Amenities),
		NearbyFacilities:    f.NearbyFacilities,
		Transportation:      f.Transportation,
		MessFacility:        domain.MessFacility(f.MessFacility),
		AvailableFrom:       from,
		RentAmount:          f.RentAmount,
		SecurityDeposit:     f.SecurityDeposit,
		OtherCharges:        f.OtherCharges,
		StudentDiscount:     f.StudentDiscount,
		PreferredTenantType: nonNil(f.PreferredTenantType),
		AllowedGender:       domain.Gender(f.AllowedGender),
		HouseRules:          f.HouseRules,
		AgreementTerms:      domain.AgreementTerm(f.AgreementTerms),
	}, nil
}

func parseAccommodation(values url.Values) (*domain.Accommodation, error) {
	var f accommodationForm
	if err := bindForm(values, &f); err != nil {
		return nil, err
	}
	if err := validateStruct(&f); err != nil {
		return nil, err
	}
	return f.toDomain()
}

type ownerRegistrationForm struct {
	OwnerName            string `form:"ownerName" validate:"required" msg:"Owner name is required"`
	OwnerEmail           string `form:"ownerEmail" validate:"required,email" msg:"Please include a valid owner email"`
	OwnerPhone           string `form:"ownerPhone" validate:"mobile" msg:"Please include a valid 10-digit owner phone number"`
	OwnerPassword        string `form:"ownerPassword" validate:"min=6" msg:"Password must be at least 6 characters"`
	OwnerConfirmPassword string `form:"ownerConfirmPassword" validate:"eqfield=OwnerPassword" msg:"Owner passwords do not match"`
	OwnerAddress         string `form:"ownerAddress" validate:"required" msg:"Owner permanent address is required"`
	TermsAgreement       string `form:"termsAgreement" validate:"eq=on" msg:"Please agree to the terms and conditions"`
}

// parseOwnerRegistration validates the owner part and the first listing
// together so the client sees every problem at once.
func parseOwnerRegistration(values url.Values) (usecase.RegisterOwnerInput, *domain.Accommodation, error) {
	var (
		owner   ownerRegistrationForm
		listing accommodationForm
	)
	all := &domain.ValidationError{}
	collect := func(err error) error {
		if err == nil {
			return nil
		}
		var verr *domain.ValidationError
		if errors.As(err, &verr) {
			all.Fields = append(all.Fields, verr.Fields...)
			return nil
		}
		return err
	}
	for _, err := range []error{
		bindForm(values, &owner),
		bindForm(values, &listing),
	} {
		if err := collect(err); err != nil {
			return usecase.RegisterOwnerInput{}, nil, err
		}
	}
	if err := collect(validateStruct(&owner)); err != nil {
		return usecase.RegisterOwnerInput{}, nil, err
	}
	if err := collect(validateStruct(&listing)); err != nil {
		return usecase.RegisterOwnerInput{}, nil, err
	}
	if err := all.OrNil(); err != nil {
		return usecase.RegisterOwnerInput{}, nil, err
	}

	acc, err := listing.toDomain()
	if err != nil {
		return usecase.RegisterOwnerInput{}, nil, err
	}
	in := usecase.RegisterOwnerInput{
		Credentials: usecase.Credentials{
			Name:     owner.OwnerName,
			Email:    owner.OwnerEmail,
			Phone:    owner.OwnerPhone,
			Password: owner.OwnerPassword,
		},
		PermanentAddress: owner.OwnerAddress,
	}
	return in, acc, nil
}

// parseAccommodationPatch reads only the keys present in values.
func parseAccommodationPatch(values url.Values) (domain.AccommodationPatch, error) {
	var p domain.AccommodationPatch
	verr := &domain.ValidationError{}

	str := func(key string) *string {
		if !values.Has(key) {
			return nil
		}
		s := strings.TrimSpace(values.Get(key))
		return &s
	}
	list := func(key string) *[]string {
		if !values.Has(key) {
			return nil
		}
		l := splitList(values[key])
		return &l
	}

	p.PropertyName = str("propertyName")
	p.Address = str("address")
	p.City = str("city")
	p.Landmark = str("landmark")
	p.Description = str("description")
	p.NearbyFacilities = str("nearbyFacilities")
	p.Transportation = str("transportation")
	p.OtherCharges = str("otherCharges")
	p.StudentDiscount = str("studentDiscount")
	p.HouseRules = str("houseRules")
	p.Amenities = list("amenities")
	p.PreferredTenantType = list("preferredTenantType")

	if s := str("propertyType"); s != nil {
		t := domain.PropertyType(*s)
		p.PropertyType = &t
	}
	if s := str("messFacility"); s != nil {
		m := domain.MessFacility(*s)
		p.MessFacility = &m
	}
	if s := str("allowedGender"); s != nil {
		g := domain.Gender(*s)
		p.AllowedGender = &g
	}
	if s := str("agreementTerms"); s != nil {
		a := domain.AgreementTerm(*s)
		p.AgreementTerms = &a
	}
	for key, dst := range map[string]**int{"totalRooms": &p.TotalRooms, "currentOccupancy": &p.CurrentOccupancy} {
		if s := str(key); s != nil {
			n, err := strconv.Atoi(*s)
			if err != nil {
				verr.Add(key, key+" must be a whole number")
				continue
			}
			*dst = &n
		}
	}
	for key, dst := range map[string]**float64{"rentAmount": &p.RentAmount, "securityDeposit": &p.SecurityDeposit} {
		if s := str(key); s != nil {
			f, err := strconv.ParseFloat(*s, 64)
			if err != nil {
				verr.Add(key, key+" must be a number")
				continue
			}
			*dst = &f
		}
	}
	if s := str("availableFrom"); s != nil {
		t, ok := parseDate(*s)
		if !ok {
			verr.Add("availableFrom", dateMsg)
		} else {
			p.AvailableFrom = &t
		}
	}
	if s := str("isAvailable"); s != nil {
		b, err := strconv.ParseBool(*s)
		if err != nil {
			verr.Add("isAvailable", "isAvailable must be true or false")
		} else {
			p.IsAvailable = &b
		}
	}
	return p, verr.OrNil()
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email" msg:"Please include a valid email"`
	Password string `json:"password" validate:"required" msg:"Password is required"`
}

// updateDetailsRequest is the general profile edit. Nil fields are untouched.
type updateDetailsRequest struct {
	Name                    *string           `json:"name" validate:"omitempty,min=1" msg:"Name is required"`
	Phone                   *string           `json:"phone" validate:"omitempty,mobile" msg:"Please provide a valid phone number"`
	Hometown                *string           `json:"hometown"`
	UserType                *string           `json:"userType" validate:"omitempty,oneof=student working" msg:"User type must be student or working"`
	College                 *string           `json:"college"`
	Course                  *string           `json:"course"`
	Company                 *string           `json:"company"`
	Designation             *string           `json:"designation"`
	FatherName              *string           `json:"fatherName"`
	FatherContact           *string           `json:"fatherContact" validate:"omitempty,mobile" msg:"Please provide a valid phone number"`
	MotherName              *string           `json:"motherName"`
	MotherContact           *string           `json:"motherContact" validate:"omitempty,mobile" msg:"Please provide a valid phone number"`
	EmergencyContact        *string           `json:"emergencyContact" validate:"omitempty,mobile" msg:"Please provide a valid phone number"`
	PermanentAddress        *string           `json:"permanentAddress"`
	RegistrationPreferences map[string]string `json:"registrationPreferences"`
}

func (r updateDetailsRequest) toPatch() domain.ProfilePatch {
	return domain.ProfilePatch{
		Name:             r.Name,
		Phone:            r.Phone,
		Hometown:         r.Hometown,
		UserType:         r.UserType,
		College:          r.College,
		Course:           r.Course,
		Company:          r.Company,
		Designation:      r.Designation,
		FatherName:       r.FatherName,
		FatherContact:    r.FatherContact,
		MotherName:       r.MotherName,
		MotherContact:    r.MotherContact,
		EmergencyContact: r.EmergencyContact,
		PermanentAddress: r.PermanentAddress,
		Preferences:      r.RegistrationPreferences,
	}
}

type preferencesRequest struct {
	SelectedLivingStandards *[]string `json:"selectedLivingStandards"`
	AdditionalInfo          *string   `json:"additional_info"`
}

type bookingCreateRequest struct {
	AccommodationID   string `json:"accommodationId"`
	MessageFromSeeker string `json:"messageFromSeeker" validate:"max=500" msg:"Message cannot be more than 500 characters"`
}

type bookingNoteRequest struct {
	Note string `json:"note" validate:"max=500" msg:"Note cannot be more than 500 characters"`
}

type bookingCancelRequest struct {
	Reason string `json:"reason" validate:"max=500" msg:"Reason cannot be more than 500 characters"`
}

type bookingLivingRequest struct {
	FromDate string `json:"fromDate"`
}

func (r bookingLivingRequest) date() (*time.Time, error) {
	if strings.TrimSpace(r.FromDate) == "" {
		return nil, nil
	}
	t, ok := parseDate(r.FromDate)
	if !ok {
		return nil, &domain.ValidationError{Fields: []domain.FieldError{{Field: "fromDate", Message: "fromDate must be a date (YYYY-MM-DD)"}}}
	}
	return &t, nil
}

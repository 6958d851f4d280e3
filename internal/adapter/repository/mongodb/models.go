package mongodb

import (
	"fmt"
	"time"

	"github.com/Abdurahmanit/meraroom-service/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// userDocument stores both roles in one collection; role selects how the
// profile sub-document is decoded.
type userDocument struct {
	ID                      primitive.ObjectID              `bson:"_id"`
	Role                    string                          `bson:"role"`
	Name                    string                          `bson:"name"`
	Email                   string                          `bson:"email"`
	Phone                   string                          `bson:"phone"`
	Password                string                          `bson:"password"`
	IsVerified              bool                            `bson:"isVerified"`
	Profile                 bson.Raw                        `bson:"profile"`
	RegistrationPreferences registrationPreferencesDocument `bson:"registrationPreferences"`
	LivingStandards         []string                        `bson:"livingStandards"`
	AdditionalInfo          string                          `bson:"additional_info"`
	CreatedAt               time.Time                       `bson:"createdAt"`
	UpdatedAt               time.Time                       `bson:"updatedAt"`
}

type seekerProfileDocument struct {
	Hometown               string `bson:"hometown"`
	UserType               string `bson:"userType"`
	College                string `bson:"college,omitempty"`
	Course                 string `bson:"course,omitempty"`
	Company                string `bson:"company,omitempty"`
	Designation            string `bson:"designation,omitempty"`
	ScholarshipCertificate string `bson:"scholarshipCertificate,omitempty"`
	FatherName             string `bson:"fatherName"`
	FatherContact          string `bson:"fatherContact"`
	MotherName             string `bson:"motherName,omitempty"`
	MotherContact          string `bson:"motherContact,omitempty"`
	EmergencyContact       string `bson:"emergencyContact,omitempty"`
}

type ownerProfileDocument struct {
	PermanentAddress string `bson:"permanentAddress"`
	IDProof          string `bson:"idProof,omitempty"`
}

type registrationPreferencesDocument struct {
	AccommodationType string `bson:"accommodationType,omitempty"`
	Budget            string `bson:"budget,omitempty"`
	PreferredGender   string `bson:"preferredGender,omitempty"`
	Hobbies           string `bson:"hobbies,omitempty"`
	Habits            string `bson:"habits,omitempty"`
	Restrictions      string `bson:"restrictions,omitempty"`
	SpecialReq        string `bson:"specialReq,omitempty"`
}

func fromDomainUser(u *domain.User) (*userDocument, error) {
	var profile any
	switch p := u.Profile.(type) {
	case *domain.SeekerProfile:
		profile = seekerProfileDocument{
			Hometown:               p.Hometown,
			UserType:               string(p.UserType),
			College:                p.College,
			Course:                 p.Course,
			Company:                p.Company,
			Designation:            p.Designation,
			ScholarshipCertificate: p.ScholarshipCertificate,
			FatherName:             p.FatherName,
			FatherContact:          p.FatherContact,
			MotherName:             p.MotherName,
			MotherContact:          p.MotherContact,
			EmergencyContact:       p.EmergencyContact,
		}
	case *domain.OwnerProfile:
		profile = ownerProfileDocument{PermanentAddress: p.PermanentAddress, IDProof: p.IDProof}
	default:
		return nil, fmt.Errorf("user %s has no profile", u.ID.Hex())
	}
	raw, err := bson.Marshal(profile)
	if err != nil {
		return nil, fmt.Errorf("marshal profile: %w", err)
	}

	standards := u.LivingStandards
	if standards == nil {
		standards = []string{}
	}
	rp := u.RegistrationPreferences
	return &userDocument{
		ID:         u.ID,
		Role:       string(u.Role()),
		Name:       u.Name,
		Email:      u.Email,
		Phone:      u.Phone,
		Password:   u.PasswordHash,
		IsVerified: u.IsVerified,
		Profile:    raw,
		RegistrationPreferences: registrationPreferencesDocument{
			AccommodationType: rp.AccommodationType,
			Budget:            rp.Budget,
			PreferredGender:   rp.PreferredGender,
			Hobbies:           rp.Hobbies,
			Habits:            rp.Habits,
			Restrictions:      rp.Restrictions,
			SpecialReq:        rp.SpecialReq,
		},
		LivingStandards: standards,
		AdditionalInfo:  u.AdditionalInfo,
		CreatedAt:       u.CreatedAt,
		UpdatedAt:       u.UpdatedAt,
	}, nil
}

func (d *userDocument) toDomainUser() (*domain.User, error) {
	var profile domain.Profile
	switch domain.Role(d.Role) {
	case domain.RoleSeeker:
		var p seekerProfileDocument
		if len(d.Profile) > 0 {
			if err := bson.Unmarshal(d.Profile, &p); err != nil {
				return nil, fmt.Errorf("decode seeker profile: %w", err)
			}
		}
		profile = &domain.SeekerProfile{
			Hometown:               p.Hometown,
			UserType:               domain.UserType(p.UserType),
			College:                p.College,
			Course:                 p.Course,
			Company:                p.Company,
			Designation:            p.Designation,
			ScholarshipCertificate: p.ScholarshipCertificate,
			FatherName:             p.FatherName,
			FatherContact:          p.FatherContact,
			MotherName:             p.MotherName,
			MotherContact:          p.MotherContact,
			EmergencyContact:       p.EmergencyContact,
		}
	case domain.RoleOwner:
		var p ownerProfileDocument
		if len(d.Profile) > 0 {
			if err := bson.Unmarshal(d.Profile, &p); err != nil {
				return nil, fmt.Errorf("decode owner profile: %w", err)
			}
		}
		profile = &domain.OwnerProfile{PermanentAddress: p.PermanentAddress, IDProof: p.IDProof}
	default:
		return nil, fmt.Errorf("user %s has unknown role %q", d.ID.Hex(), d.Role)
	}

	standards := d.LivingStandards
	if standards == nil {
		standards = []string{}
	}
	rp := d.RegistrationPreferences
	return &domain.User{
		ID:           d.ID,
		Name:         d.Name,
		Email:        d.Email,
		Phone:        d.Phone,
		PasswordHash: d.Password,
		IsVerified:   d.IsVerified,
		Profile:      profile,
		RegistrationPreferences: domain.RegistrationPreferences{
			AccommodationType: rp.AccommodationType,
			Budget:            rp.Budget,
			PreferredGender:   rp.PreferredGender,
			Hobbies:           rp.Hobbies,
			Habits:            rp.Habits,
			Restrictions:      rp.Restrictions,
			SpecialReq:        rp.SpecialReq,
		},
		LivingStandards: standards,
		AdditionalInfo:  d.AdditionalInfo,
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
	}, nil
}

// accommodationDocument uses the public field names so passthrough filters
// map onto stored fields one to one.
type accommodationDocument struct {
	ID                  primitive.ObjectID `bson:"_id"`
	Owner               primitive.ObjectID `bson:"owner"`
	PropertyType        string             `bson:"propertyType"`
	PropertyName        string             `bson:"propertyName,omitempty"`
	Address             string             `bson:"address"`
	City                string             `bson:"city"`
	Landmark            string             `bson:"landmark"`
	TotalRooms          int                `bson:"totalRooms"`
	CurrentOccupancy    int                `bson:"currentOccupancy"`
	Photos              []string           `bson:"photos"`
	Description         string             `bson:"description"`
	Amenities           []string           `bson:"amenities"`
	NearbyFacilities    string             `bson:"nearbyFacilities,omitempty"`
	Transportation      string             `bson:"transportation,omitempty"`
	MessFacility        string             `bson:"messFacility"`
	AvailableFrom       time.Time          `bson:"availableFrom"`
	RentAmount          float64            `bson:"rentAmount"`
	SecurityDeposit     float64            `bson:"securityDeposit"`
	OtherCharges        string             `bson:"otherCharges,omitempty"`
	StudentDiscount     string             `bson:"studentDiscount,omitempty"`
	PreferredTenantType []string           `bson:"preferredTenantType"`
	AllowedGender       string             `bson:"allowedGender"`
	HouseRules          string             `bson:"houseRules,omitempty"`
	AgreementTerms      string             `bson:"agreementTerms"`
	Slug                string             `bson:"slug"`
	IsAvailable         bool               `bson:"isAvailable"`
	AverageRating       *float64           `bson:"averageRating,omitempty"`
	CreatedAt           time.Time          `bson:"createdAt"`
	UpdatedAt           time.Time          `bson:"updatedAt"`
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func fromDomainAccommodation(a *domain.Accommodation) *accommodationDocument {
	return &accommodationDocument{
		ID:                  a.ID,
		Owner:               a.OwnerID,
		PropertyType:        string(a.PropertyType),
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
		MessFacility:        string(a.MessFacility),
		AvailableFrom:       a.AvailableFrom,
		RentAmount:          a.RentAmount,
		SecurityDeposit:     a.SecurityDeposit,
		OtherCharges:        a.OtherCharges,
		StudentDiscount:     a.StudentDiscount,
		PreferredTenantType: nonNil(a.PreferredTenantType),
		AllowedGender:       string(a.AllowedGender),
		HouseRules:          a.HouseRules,
		AgreementTerms:      string(a.AgreementTerms),
		Slug:                a.Slug,
		IsAvailable:         a.IsAvailable,
		AverageRating:       a.AverageRating,
		CreatedAt:           a.CreatedAt,
		UpdatedAt:           a.UpdatedAt,
	}
}

func (d *accommodationDocument) toDomainAccommodation() *domain.Accommodation {
	return &domain.Accommodation{
		ID:                  d.ID,
		OwnerID:             d.Owner,
		PropertyType:        domain.PropertyType(d.PropertyType),
		PropertyName:        d.PropertyName,
		Address:             d.Address,
		City:                d.City,
		Landmark:            d.Landmark,
		TotalRooms:          d.TotalRooms,
		CurrentOccupancy:    d.CurrentOccupancy,
		Photos:              nonNil(d.Photos),
		Description:         d.Description,
		Amenities:           nonNil(d.Amenities),
		NearbyFacilities:    d.NearbyFacilities,
		Transportation:      d.Transportation,
		MessFacility:        domain.MessFacility(d.MessFacility),
		AvailableFrom:       d.AvailableFrom,
		RentAmount:          d.RentAmount,
		SecurityDeposit:     d.SecurityDeposit,
		OtherCharges:        d.OtherCharges,
		StudentDiscount:     d.StudentDiscount,
		PreferredTenantType: nonNil(d.PreferredTenantType),
		AllowedGender:       domain.Gender(d.AllowedGender),
		HouseRules:          d.HouseRules,
		AgreementTerms:      domain.AgreementTerm(d.AgreementTerms),
		Slug:                d.Slug,
		IsAvailable:         d.IsAvailable,
		AverageRating:       d.AverageRating,
		CreatedAt:           d.CreatedAt,
		UpdatedAt:           d.UpdatedAt,
	}
}

// bookingDocument carries a derived active flag; the partial unique index on
// (seeker, accommodation) only covers documents where it is true.
type bookingDocument struct {
	ID                 primitive.ObjectID `bson:"_id"`
	Seeker             primitive.ObjectID `bson:"seeker"`
	Owner              primitive.ObjectID `bson:"owner"`
	Accommodation      primitive.ObjectID `bson:"accommodation"`
	Status             string             `bson:"status"`
	Active             bool               `bson:"active"`
	MessageFromSeeker  string             `bson:"messageFromSeeker,omitempty"`
	OwnerNote          string             `bson:"ownerNote,omitempty"`
	CancellationReason string             `bson:"cancellationReason,omitempty"`
	RequestedAt        time.Time          `bson:"requestedAt"`
	AcceptedAt         *time.Time         `bson:"acceptedAt,omitempty"`
	RejectedAt         *time.Time         `bson:"rejectedAt,omitempty"`
	BookedAt           *time.Time         `bson:"bookedAt,omitempty"`
	LivingFromDate     *time.Time         `bson:"livingFromDate,omitempty"`
	CancelledAt        *time.Time         `bson:"cancelledAt,omitempty"`
	CreatedAt          time.Time          `bson:"createdAt"`
	UpdatedAt          time.Time          `bson:"updatedAt"`
}

func fromDomainBooking(b *domain.BookingRequest) *bookingDocument {
	return &bookingDocument{
		ID:                 b.ID,
		Seeker:             b.SeekerID,
		Owner:              b.OwnerID,
		Accommodation:      b.AccommodationID,
		Status:             string(b.Status),
		Active:             b.Status.IsActive(),
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

func (d *bookingDocument) toDomainBooking() *domain.BookingRequest {
	return &domain.BookingRequest{
		ID:                 d.ID,
		SeekerID:           d.Seeker,
		OwnerID:            d.Owner,
		AccommodationID:    d.Accommodation,
		Status:             domain.BookingStatus(d.Status),
		MessageFromSeeker:  d.MessageFromSeeker,
		OwnerNote:          d.OwnerNote,
		CancellationReason: d.CancellationReason,
		RequestedAt:        d.RequestedAt,
		AcceptedAt:         d.AcceptedAt,
		RejectedAt:         d.RejectedAt,
		BookedAt:           d.BookedAt,
		LivingFromDate:     d.LivingFromDate,
		CancelledAt:        d.CancelledAt,
		CreatedAt:          d.CreatedAt,
		UpdatedAt:          d.UpdatedAt,
	}
}

package domain

import (
	"strings"
	"time"

	"github.com/gosimple/slug"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PropertyType enumerates the kinds of rentable property.
type PropertyType string

const (
	PropertyHostel PropertyType = "hostel"
	PropertyPG     PropertyType = "pg"
	PropertyFlat   PropertyType = "flat"
	PropertyHouse  PropertyType = "house"
	PropertyRoom   PropertyType = "room"
)

func (t PropertyType) IsValid() bool {
	switch t {
	case PropertyHostel, PropertyPG, PropertyFlat, PropertyHouse, PropertyRoom:
		return true
	}
	return false
}

// MessFacility describes whether meals come with the room.
type MessFacility string

const (
	MessIncluded     MessFacility = "included"
	MessAvailable    MessFacility = "available"
	MessNotAvailable MessFacility = "not-available"
)

func (m MessFacility) IsValid() bool {
	return m == MessIncluded || m == MessAvailable || m == MessNotAvailable
}

// AgreementTerm is the minimum lease length.
type AgreementTerm string

const (
	Agreement11Months AgreementTerm = "11-months"
	Agreement6Months  AgreementTerm = "6-months"
	Agreement3Months  AgreementTerm = "3-months"
	AgreementMonthly  AgreementTerm = "monthly"
)

func (a AgreementTerm) IsValid() bool {
	switch a {
	case Agreement11Months, Agreement6Months, Agreement3Months, AgreementMonthly:
		return true
	}
	return false
}

// Gender restricts who may occupy a listing.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderAny    Gender = "any"
)

func (g Gender) IsValid() bool {
	return g == GenderMale || g == GenderFemale || g == GenderAny
}

const (
	MaxPhotos         = 10
	MaxDescriptionLen = 500
)

// Accommodation is a rentable listing owned by an owner-role user.
type Accommodation struct {
	ID                  primitive.ObjectID
	OwnerID             primitive.ObjectID
	PropertyType        PropertyType
	PropertyName        string
	Address             string
	City                string
	Landmark            string
	TotalRooms          int
	CurrentOccupancy    int
	Photos              []string
	Description         string
	Amenities           []string
	NearbyFacilities    string
	Transportation      string
	MessFacility        MessFacility
	AvailableFrom       time.Time
	RentAmount          float64
	SecurityDeposit     float64
	OtherCharges        string
	StudentDiscount     string
	PreferredTenantType []string
	AllowedGender       Gender
	HouseRules          string
	AgreementTerms      AgreementTerm
	Slug                string
	IsAvailable         bool
	AverageRating       *float64
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// Validate checks field-level rules for a listing about to be persisted.
func (a *Accommodation) Validate() error {
	v := &ValidationError{}
	if a.OwnerID.IsZero() {
		v.Add("owner", "Owner is required")
	}
	if !a.PropertyType.IsValid() {
		v.Add("propertyType", "Please select property type")
	}
	if strings.TrimSpace(a.Address) == "" {
		v.Add("address", "Please add property address")
	}
	if strings.TrimSpace(a.City) == "" {
		v.Add("city", "Please add city")
	}
	if strings.TrimSpace(a.Landmark) == "" {
		v.Add("landmark", "Please add nearest landmark")
	}
	if a.TotalRooms < 1 {
		v.Add("totalRooms", "Total rooms must be at least 1")
	}
	if a.CurrentOccupancy < 0 {
		v.Add("currentOccupancy", "Current occupancy cannot be negative")
	}
	if len(a.Photos) == 0 {
		v.Add("photos", "Please upload at least one property photo")
	}
	if len(a.Photos) > MaxPhotos {
		v.Add("photos", "photos exceeds the limit of 10 photos")
	}
	if strings.TrimSpace(a.Description) == "" {
		v.Add("description", "Please add a description")
	} else if len([]rune(a.Description)) > MaxDescriptionLen {
		v.Add("description", "Description cannot be more than 500 characters")
	}
	if !a.MessFacility.IsValid() {
		v.Add("messFacility", "Please select mess facility")
	}
	if a.AvailableFrom.IsZero() {
		v.Add("availableFrom", "Please specify availability date")
	}
	if a.RentAmount < 0 {
		v.Add("rentAmount", "Rent amount cannot be negative")
	}
	if a.SecurityDeposit < 0 {
		v.Add("securityDeposit", "Security deposit cannot be negative")
	}
	if !a.AgreementTerms.IsValid() {
		v.Add("agreementTerms", "Please select agreement terms")
	}
	if a.AllowedGender != "" && !a.AllowedGender.IsValid() {
		v.Add("allowedGender", "Allowed gender must be male, female or any")
	}
	if a.AverageRating != nil && (*a.AverageRating < 1 || *a.AverageRating > 5) {
		v.Add("averageRating", "Rating must be between 1 and 5")
	}
	return v.OrNil()
}

// Prepare fills defaults and derives the slug. Call before every save.
func (a *Accommodation) Prepare(now time.Time) {
	if a.ID.IsZero() {
		a.ID = primitive.NewObjectID()
	}
	if a.AllowedGender == "" {
		a.AllowedGender = GenderAny
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = now
	}
	a.UpdatedAt = now
	a.Slug = BuildSlug(a.PropertyName, a.Address, a.City, a.ID)
}

// HasVacancy reports whether another tenant can move in.
func (a *Accommodation) HasVacancy() bool {
	return a.CurrentOccupancy < a.TotalRooms
}

// BuildSlug derives "<name-or-address>-<city>-<id suffix>".
func BuildSlug(propertyName, address, city string, id primitive.ObjectID) string {
	base := strings.TrimSpace(propertyName)
	if base == "" {
		r := []rune(address)
		if len(r) > 30 {
			r = r[:30]
		}
		base = string(r)
	}
	hex := id.Hex()
	parts := []string{slug.Make(base), slug.Make(city), hex[len(hex)-5:]}
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, "-")
}

// AccommodationPatch carries optional listing edits. Nil fields are left untouched.
type AccommodationPatch struct {
	PropertyType        *PropertyType
	PropertyName        *string
	Address             *string
	City                *string
	Landmark            *string
	TotalRooms          *int
	CurrentOccupancy    *int
	Description         *string
	Amenities           *[]string
	NearbyFacilities    *string
	Transportation      *string
	MessFacility        *MessFacility
	AvailableFrom       *time.Time
	RentAmount          *float64
	SecurityDeposit     *float64
	OtherCharges        *string
	StudentDiscount     *string
	PreferredTenantType *[]string
	AllowedGender       *Gender
	HouseRules          *string
	AgreementTerms      *AgreementTerm
	IsAvailable         *bool
}

// Apply copies the set fields onto a.
func (p AccommodationPatch) Apply(a *Accommodation) {
	if p.PropertyType != nil {
		a.PropertyType = *p.PropertyType
	}
	if p.PropertyName != nil {
		a.PropertyName = strings.TrimSpace(*p.PropertyName)
	}
	if p.Address != nil {
		a.Address = *p.Address
	}
	if p.City != nil {
		a.City = strings.TrimSpace(*p.City)
	}
	if p.Landmark != nil {
		a.Landmark = strings.TrimSpace(*p.Landmark)
	}
	if p.TotalRooms != nil {
		a.TotalRooms = *p.TotalRooms
	}
	if p.CurrentOccupancy != nil {
		a.CurrentOccupancy = *p.CurrentOccupancy
	}
	if p.Description != nil {
		a.Description = *p.Description
	}
	if p.Amenities != nil {
		a.Amenities = *p.Amenities
	}
	if p.NearbyFacilities != nil {
		a.NearbyFacilities = *p.NearbyFacilities
	}
	if p.Transportation != nil {
		a.Transportation = *p.Transportation
	}
	if p.MessFacility != nil {
		a.MessFacility = *p.MessFacility
	}
	if p.AvailableFrom != nil {
		a.AvailableFrom = *p.AvailableFrom
	}
	if p.RentAmount != nil {
		a.RentAmount = *p.RentAmount
	}
	if p.SecurityDeposit != nil {
		a.SecurityDeposit = *p.SecurityDeposit
	}
	if p.OtherCharges != nil {
		a.OtherCharges = *p.OtherCharges
	}
	if p.StudentDiscount != nil {
		a.StudentDiscount = *p.StudentDiscount
	}
	if p.PreferredTenantType != nil {
		a.PreferredTenantType = *p.PreferredTenantType
	}
	if p.AllowedGender != nil {
		a.AllowedGender = *p.AllowedGender
	}
	if p.HouseRules != nil {
		a.HouseRules = *p.HouseRules
	}
	if p.AgreementTerms != nil {
		a.AgreementTerms = *p.AgreementTerms
	}
	if p.IsAvailable != nil {
		a.IsAvailable = *p.IsAvailable
	}
}

// OwnerSummary is the owner projection attached to search results.
type OwnerSummary struct {
	ID         primitive.ObjectID
	Name       string
	IsVerified bool
}

// OwnerContact is the wider owner projection exposed on a single listing.
type OwnerContact struct {
	ID         primitive.ObjectID
	Name       string
	Email      string
	Phone      string
	IsVerified bool
}

// ListingView is an accommodation together with the owner projection
// appropriate for the read path that produced it.
type ListingView struct {
	Accommodation
	Owner   *OwnerSummary
	Contact *OwnerContact
}

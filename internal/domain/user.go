package domain

import (
	"regexp"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role is fixed at registration.
type Role string

const (
	RoleSeeker Role = "seeker"
	RoleOwner  Role = "owner"
)

// IsValid checks if the Role is one of the defined constants.
func (r Role) IsValid() bool {
	return r == RoleSeeker || r == RoleOwner
}

// UserType distinguishes students from working seekers.
type UserType string

const (
	UserTypeStudent UserType = "student"
	UserTypeWorking UserType = "working"
)

func (t UserType) IsValid() bool {
	return t == UserTypeStudent || t == UserTypeWorking
}

const (
	MinPasswordLength    = 6
	MaxAdditionalInfoLen = 1000
)

var (
	phonePattern = regexp.MustCompile(`^[6-9]\d{9}$`)
	emailPattern = regexp.MustCompile(`^\w+([.-]?\w+)*@\w+([.-]?\w+)*(\.\w{2,3})+$`)
)

// ValidPhone reports whether s is a 10-digit Indian mobile number.
func ValidPhone(s string) bool { return phonePattern.MatchString(s) }

// ValidEmail reports whether s looks like an email address.
func ValidEmail(s string) bool { return emailPattern.MatchString(s) }

// NormalizeEmail lower-cases and trims an email so uniqueness is case-insensitive.
func NormalizeEmail(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

// Profile is the role-specific part of a user. Exactly two implementations
// exist: *SeekerProfile and *OwnerProfile.
type Profile interface {
	Role() Role
	validate(v *ValidationError)
	sealed()
}

// SeekerProfile holds what a room seeker provides at registration.
type SeekerProfile struct {
	Hometown               string
	UserType               UserType
	College                string
	Course                 string
	Company                string
	Designation            string
	ScholarshipCertificate string
	FatherName             string
	FatherContact          string
	MotherName             string
	MotherContact          string
	EmergencyContact       string
}

func (*SeekerProfile) Role() Role { return RoleSeeker }
func (*SeekerProfile) sealed() {}

func (p *SeekerProfile) validate(v *ValidationError) {
	if strings.TrimSpace(p.Hometown) == "" {
		v.Add("hometown", "Hometown is required")
	}
	switch p.UserType {
	case UserTypeStudent:
		if strings.TrimSpace(p.College) == "" {
			v.Add("college", "College is required for students")
		}
	case UserTypeWorking:
		if strings.TrimSpace(p.Company) == "" {
			v.Add("company", "Company is required for working professionals")
		}
	default:
		v.Add("userType", "User type must be student or working")
	}
	if strings.TrimSpace(p.FatherName) == "" {
		v.Add("fatherName", "Father's name is required")
	}
	if !ValidPhone(p.FatherContact) {
		v.Add("fatherContact", "Please add a valid 10-digit phone number")
	}
	if p.MotherContact != "" && !ValidPhone(p.MotherContact) {
		v.Add("motherContact", "Please add a valid 10-digit phone number")
	}
	if p.EmergencyContact != "" && !ValidPhone(p.EmergencyContact) {
		v.Add("emergencyContact", "Please add a valid 10-digit phone number")
	}
}

// OwnerProfile holds what a property owner provides at registration.
type OwnerProfile struct {
	PermanentAddress string
	IDProof          string
}

func (*OwnerProfile) Role() Role { return RoleOwner }
func (*OwnerProfile) sealed() {}

func (p *OwnerProfile) validate(v *ValidationError) {
	if strings.TrimSpace(p.PermanentAddress) == "" {
		v.Add("permanentAddress", "Permanent address is required")
	}
}

// RegistrationPreferences is the free-text questionnaire from the signup form.
type RegistrationPreferences struct {
	AccommodationType string
	Budget            string
	PreferredGender   string
	Hobbies           string
	Habits            string
	Restrictions      string
	SpecialReq        string
}

// Set assigns one questionnaire answer by its wire key. Unknown keys are reported.
func (p *RegistrationPreferences) Set(key, value string) bool {
	switch key {
	case "accommodationType":
		p.AccommodationType = value
	case "budget":
		p.Budget = value
	case "preferredGender":
		p.PreferredGender = value
	case "hobbies":
		p.Hobbies = value
	case "habits":
		p.Habits = value
	case "restrictions":
		p.Restrictions = value
	case "specialReq":
		p.SpecialReq = value
	default:
		return false
	}
	return true
}

// User is the common identity shared by seekers and owners.
type User struct {
	ID                      primitive.ObjectID
	Name                    string
	Email                   string
	Phone                   string
	PasswordHash            string
	IsVerified              bool
	Profile                 Profile
	RegistrationPreferences RegistrationPreferences
	LivingStandards         []string
	AdditionalInfo          string
	CreatedAt               time.Time
	UpdatedAt               time.Time
}

// Role returns the role implied by the profile variant.
func (u *User) Role() Role {
	if u.Profile == nil {
		return ""
	}
	return u.Profile.Role()
}

// Seeker returns the seeker profile if the user is a seeker.
func (u *User) Seeker() (*SeekerProfile, bool) {
	p, ok := u.Profile.(*SeekerProfile)
	return p, ok
}

// Owner returns the owner profile if the user is an owner.
func (u *User) Owner() (*OwnerProfile, bool) {
	p, ok := u.Profile.(*OwnerProfile)
	return p, ok
}

// NewUser validates identity and profile fields and returns an unsaved user.
// passwordHash must already be hashed.
func NewUser(name, email, phone, passwordHash string, profile Profile) (*User, error) {
	u := &User{
		ID:              primitive.NewObjectID(),
		Name:            strings.TrimSpace(name),
		Email:           NormalizeEmail(email),
		Phone:           strings.TrimSpace(phone),
		PasswordHash:    passwordHash,
		Profile:         profile,
		LivingStandards: []string{},
	}
	if err := u.Validate(); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	u.CreatedAt, u.UpdatedAt = now, now
	return u, nil
}

// Validate checks the invariants of the identity and its profile variant.
func (u *User) Validate() error {
	v := &ValidationError{}
	if u.Name == "" {
		v.Add("name", "Please add a name")
	}
	if !ValidEmail(u.Email) {
		v.Add("email", "Please add a valid email")
	}
	if !ValidPhone(u.Phone) {
		v.Add("phone", "Please add a valid 10-digit phone number")
	}
	if u.PasswordHash == "" {
		v.Add("password", "Please add a password")
	}
	if u.Profile == nil {
		v.Add("role", "User role is required")
	} else {
		u.Profile.validate(v)
	}
	if len(u.AdditionalInfo) > MaxAdditionalInfoLen {
		v.Add("additional_info", "Additional info cannot be more than 1000 characters")
	}
	return v.OrNil()
}

// ProfilePatch carries optional profile edits. Nil fields are left untouched.
type ProfilePatch struct {
	Name             *string
	Phone            *string
	Hometown         *string
	UserType         *string
	College          *string
	Course           *string
	Company          *string
	Designation      *string
	FatherName       *string
	FatherContact    *string
	MotherName       *string
	MotherContact    *string
	EmergencyContact *string
	PermanentAddress *string
	Preferences      map[string]string
}

// Apply merges the patch into u and reports how many fields were set.
// Fields that belong to the other role's profile are ignored.
func (p ProfilePatch) Apply(u *User) (int, error) {
	n := 0
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = strings.TrimSpace(*src)
			n++
		}
	}
	set(&u.Name, p.Name)
	set(&u.Phone, p.Phone)

	switch prof := u.Profile.(type) {
	case *SeekerProfile:
		set(&prof.Hometown, p.Hometown)
		if p.UserType != nil {
			prof.UserType = UserType(*p.UserType)
			n++
		}
		set(&prof.College, p.College)
		set(&prof.Course, p.Course)
		set(&prof.Company, p.Company)
		set(&prof.Designation, p.Designation)
		set(&prof.FatherName, p.FatherName)
		set(&prof.FatherContact, p.FatherContact)
		set(&prof.MotherName, p.MotherName)
		set(&prof.MotherContact, p.MotherContact)
		set(&prof.EmergencyContact, p.EmergencyContact)
	case *OwnerProfile:
		set(&prof.PermanentAddress, p.PermanentAddress)
	}

	for k, val := range p.Preferences {
		if u.RegistrationPreferences.Set(k, val) {
			n++
		}
	}
	if n == 0 {
		return 0, Errorf(ErrInvalidInput, "No valid fields provided for update")
	}
	u.UpdatedAt = time.Now().UTC()
	return n, u.Validate()
}

// ValidateLivingStandards rejects blank and repeated tags; order is kept as given.
func ValidateLivingStandards(tags []string) error {
	seen := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		if strings.TrimSpace(t) == "" {
			return &ValidationError{Fields: []FieldError{{Field: "selectedLivingStandards", Message: "Living standards cannot contain empty values"}}}
		}
		if _, dup := seen[t]; dup {
			return &ValidationError{Fields: []FieldError{{Field: "selectedLivingStandards", Message: "Living standards must not repeat: " + t}}}
		}
		seen[t] = struct{}{}
	}
	return nil
}

package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func validSeeker() *SeekerProfile {
	return &SeekerProfile{
		Hometown:      "Patna",
		UserType:      UserTypeStudent,
		College:       "DU",
		FatherName:    "R. Kumar",
		FatherContact: "9876543210",
	}
}

func TestNewUserSeeker(t *testing.T) {
	u, err := NewUser(" Asha ", "Asha@Example.COM", "9123456789", "hash", validSeeker())
	require.NoError(t, err)
	assert.Equal(t, RoleSeeker, u.Role())
	assert.Equal(t, "asha@example.com", u.Email)
	assert.Equal(t, "Asha", u.Name)
	_, isOwner := u.Owner()
	assert.False(t, isOwner)
	assert.NotNil(t, u.LivingStandards)
}

func TestNewUserValidation(t *testing.T) {
	seeker := validSeeker()
	seeker.UserType = UserTypeWorking
	seeker.FatherContact = "12345"

	_, err := NewUser("", "not-an-email", "5123456789", "hash", seeker)
	require.Error(t, err)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)

	fields := map[string]bool{}
	for _, f := range verr.Fields {
		fields[f.Field] = true
	}
	for _, want := range []string{"name", "email", "phone", "company", "fatherContact"} {
		assert.True(t, fields[want], want)
	}
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestNewUserOwnerNeedsAddress(t *testing.T) {
	_, err := NewUser("Ravi", "ravi@example.com", "9000000000", "hash", &OwnerProfile{})
	assert.ErrorIs(t, err, ErrInvalidInput)

	u, err := NewUser("Ravi", "ravi@example.com", "9000000000", "hash", &OwnerProfile{PermanentAddress: "12 MG Road"})
	require.NoError(t, err)
	assert.Equal(t, RoleOwner, u.Role())
}

func TestProfilePatchApply(t *testing.T) {
	u := &User{ID: primitive.NewObjectID(), Name: "Asha", Email: "a@b.com", Phone: "9123456789", PasswordHash: "h", Profile: validSeeker()}
	str := func(s string) *string { return &s }

	n, err := ProfilePatch{
		Name:             str("Asha K"),
		Hometown:         str("Gaya"),
		PermanentAddress: str("ignored for seekers"),
		Preferences:      map[string]string{"budget": "5000-10000", "unknown": "x"},
	}.Apply(u)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, "Asha K", u.Name)
	p, _ := u.Seeker()
	assert.Equal(t, "Gaya", p.Hometown)
	assert.Equal(t, "5000-10000", u.RegistrationPreferences.Budget)

	_, err = ProfilePatch{}.Apply(u)
	require.Error(t, err)
	assert.Equal(t, "No valid fields provided for update", err.Error())

	_, err = ProfilePatch{Phone: str("123")}.Apply(u)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestValidateLivingStandards(t *testing.T) {
	assert.NoError(t, ValidateLivingStandards([]string{"night-owl", "vegan"}))
	assert.NoError(t, ValidateLivingStandards(nil))
	assert.ErrorIs(t, ValidateLivingStandards([]string{"vegan", "vegan"}), ErrInvalidInput)
	assert.ErrorIs(t, ValidateLivingStandards([]string{" "}), ErrInvalidInput)
}

func TestBuildSlug(t *testing.T) {
	id, err := primitive.ObjectIDFromHex("65f0c0ffee00000000abcdef")
	require.NoError(t, err)

	assert.Equal(t, "sunrise-pg-new-delhi-bcdef", BuildSlug("Sunrise PG", "ignored", "New Delhi", id))

	got := BuildSlug("", "221B Baker Street, Near The Big Clock Tower", "Pune", id)
	assert.Equal(t, "221b-baker-street-near-the-bi-pune-bcdef", got)
	assert.True(t, strings.HasSuffix(BuildSlug("Only Name", "", "", id), "-bcdef"))
}

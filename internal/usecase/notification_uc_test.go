package usecase

import (
	"context"
	"strings"
	"testing"

	"github.com/Abdurahmanit/meraroom-service/internal/domain"
	"github.com/Abdurahmanit/meraroom-service/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestHandleBookingRequestedEmailsOwner(t *testing.T) {
	users := new(MockUserRepository)
	accs := new(MockAccommodationRepository)
	sender := new(MockEmailSender)
	uc := NewNotificationUsecase(users, accs, sender, logger.NewNop())

	owner := &domain.User{ID: primitive.NewObjectID(), Name: "Ravi", Email: "ravi@example.com"}
	seeker := &domain.User{ID: primitive.NewObjectID(), Name: "Priya <3", Phone: "9876543210"}
	acc := &domain.Accommodation{ID: primitive.NewObjectID(), PropertyName: "Sunrise PG", City: "Pune"}

	users.On("GetByID", mock.Anything, owner.ID).Return(owner, nil)
	users.On("GetByID", mock.Anything, seeker.ID).Return(seeker, nil)
	accs.On("GetByID", mock.Anything, acc.ID).Return(acc, nil)
	sender.On("Send", mock.Anything, []string{"ravi@example.com"}, "New booking request for Sunrise PG",
		mock.MatchedBy(func(h string) bool { return strings.Contains(h, "Priya &lt;3") }),
		mock.MatchedBy(func(txt string) bool { return strings.Contains(txt, "Is parking available?") })).Return(nil)

	err := uc.HandleBookingRequested(context.Background(), domain.BookingEvent{
		BookingID:       primitive.NewObjectID().Hex(),
		OwnerID:         owner.ID.Hex(),
		SeekerID:        seeker.ID.Hex(),
		AccommodationID: acc.ID.Hex(),
		Status:          domain.BookingPending,
		Message:         "Is parking available?",
	})
	require.NoError(t, err)
	sender.AssertExpectations(t)
}

func TestBookingRequestedEmailEscapesHTML(t *testing.T) {
	owner := &domain.User{Name: "Ravi"}
	seeker := &domain.User{Name: "<b>Priya</b>", Phone: "9876543210"}
	acc := &domain.Accommodation{Address: "12 MG Road", City: "Pune"}

	subject, bodyHTML, bodyText := bookingRequestedEmail(owner, seeker, acc, "see you")
	assert.Equal(t, "New booking request for 12 MG Road", subject)
	assert.Contains(t, bodyHTML, "&lt;b&gt;Priya&lt;/b&gt;")
	assert.NotContains(t, bodyHTML, "<b>Priya</b>")
	assert.Contains(t, bodyText, "<b>Priya</b> has requested to book 12 MG Road, Pune.")
	assert.Contains(t, bodyText, "see you")
}

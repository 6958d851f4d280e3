package usecase

import (
	"context"
	"fmt"
	"html"

	"github.com/Abdurahmanit/meraroom-service/internal/domain"
	"github.com/Abdurahmanit/meraroom-service/internal/platform/logger"
	"go.uber.org/zap"
)

// NotificationUsecase tells owners about new booking requests by email.
type NotificationUsecase struct {
	users          domain.UserRepository
	accommodations domain.AccommodationRepository
	sender         domain.EmailSender
	logger         *logger.Logger
}

func NewNotificationUsecase(users domain.UserRepository, accommodations domain.AccommodationRepository, sender domain.EmailSender, log *logger.Logger) *NotificationUsecase {
	return &NotificationUsecase{
		users:          users,
		accommodations: accommodations,
		sender:         sender,
		logger:         log.Named("NotificationUsecase"),
	}
}

// HandleBookingRequested emails the owner named in ev.
func (uc *NotificationUsecase) HandleBookingRequested(ctx context.Context, ev domain.BookingEvent) error {
	ownerID, err := domain.ParseID(ev.OwnerID)
	if err != nil {
		return err
	}
	seekerID, err := domain.ParseID(ev.SeekerID)
	if err != nil {
		return err
	}
	accID, err := domain.ParseID(ev.AccommodationID)
	if err != nil {
		return err
	}

	owner, err := uc.users.GetByID(ctx, ownerID)
	if err != nil {
		return fmt.Errorf("load owner %s: %w", ev.OwnerID, err)
	}
	seeker, err := uc.users.GetByID(ctx, seekerID)
	if err != nil {
		return fmt.Errorf("load seeker %s: %w", ev.SeekerID, err)
	}
	acc, err := uc.accommodations.GetByID(ctx, accID)
	if err != nil {
		return fmt.Errorf("load accommodation %s: %w", ev.AccommodationID, err)
	}

	subject, bodyHTML, bodyText := bookingRequestedEmail(owner, seeker, acc, ev.Message)
	if err := uc.sender.Send(ctx, []string{owner.Email}, subject, bodyHTML, bodyText); err != nil {
		return err
	}
	uc.logger.Info("Owner notified of booking request",
		zap.String("booking_id", ev.BookingID),
		zap.String("owner_id", ev.OwnerID))
	return nil
}

func listingTitle(acc *domain.Accommodation) string {
	if acc.PropertyName != "" {
		return acc.PropertyName
	}
	return acc.Address
}

func bookingRequestedEmail(owner, seeker *domain.User, acc *domain.Accommodation, message string) (subject, bodyHTML, bodyText string) {
	title := listingTitle(acc)
	subject = fmt.Sprintf("New booking request for %s", title)
	bodyText = fmt.Sprintf("Hello %s,\n\n%s has requested to book %s, %s.\nPhone: %s\n",
		owner.Name, seeker.Name, title, acc.City, seeker.Phone)
	bodyHTML = fmt.Sprintf("<p>Hello %s,</p><p><strong>%s</strong> has requested to book <strong>%s</strong>, %s.</p><p>Phone: %s</p>",
		html.EscapeString(owner.Name), html.EscapeString(seeker.Name), html.EscapeString(title),
		html.EscapeString(acc.City), html.EscapeString(seeker.Phone))
	if message != "" {
		bodyText += "\nMessage:\n" + message + "\n"
		bodyHTML += "<blockquote>" + html.EscapeString(message) + "</blockquote>"
	}
	return subject, bodyHTML, bodyText
}

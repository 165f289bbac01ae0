package service

import (
	"fmt"
	"os"
	"strings"

	"instapark/internal/db"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/twilio/twilio-go"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"
	"go.uber.org/zap"
)

// SenderService sends the confirmation email and SMS for a booking. Both are
// fired asynchronously; a delivery failure is logged, never surfaced to the
// booking flow.
type SenderService struct {
	log *zap.Logger
}

func NewSenderService(log *zap.Logger) *SenderService {
	return &SenderService{log: log}
}

func (s *SenderService) SendBookingEmail(b *db.Booking, status string) {
	subject := fmt.Sprintf("Your InstaPark booking is %s", status)
	plainBody := fmt.Sprintf(
		"Hello %s,\n\nYour parking booking at InstaPark is %s.\n\n"+
			"Booking Details:\n"+
			"Location: %s\n"+
			"Slot: %s\n"+
			"Date: %s\n"+
			"Time: %s - %s\n"+
			"Vehicle: %s\n\n"+
			"Thank you for choosing InstaPark.",
		b.UserName, status, b.Location, b.SelectedSlot, b.Date,
		b.StartTime, b.EndTime, b.VehicleType,
	)

	go func(toEmail, toName, subject, body string) {
		if err := sendEmailWithSendGrid(toEmail, toName, subject, body); err != nil {
			s.log.Warn("booking email not sent",
				zap.String("email", toEmail), zap.Error(err))
		}
	}(b.UserEmail, b.UserName, subject, plainBody)
}

func (s *SenderService) SendBookingSMS(b *db.Booking, status string) {
	message := fmt.Sprintf("InstaPark: your booking for slot %s on %s (%s-%s) is %s. Details in your email.",
		b.SelectedSlot, b.Date, b.StartTime, b.EndTime, status)

	go func(toNumber, body string) {
		if err := sendSMS(toNumber, body); err != nil {
			s.log.Warn("booking SMS not sent",
				zap.String("phone", toNumber), zap.Error(err))
		}
	}(b.UserPhone, message)
}

func sendEmailWithSendGrid(toEmailAddress, toName, subject, plainTextContent string) error {
	apiKey := os.Getenv("SENDGRID_API_KEY")
	if apiKey == "" {
		return fmt.Errorf("SENDGRID_API_KEY not set")
	}
	fromEmail := os.Getenv("SENDGRID_FROM_EMAIL")
	if fromEmail == "" {
		return fmt.Errorf("SENDGRID_FROM_EMAIL not set")
	}
	fromName := os.Getenv("SENDGRID_FROM_NAME")
	if fromName == "" {
		fromName = "InstaPark"
	}

	from := mail.NewEmail(fromName, fromEmail)
	to := mail.NewEmail(toName, toEmailAddress)
	message := mail.NewSingleEmail(from, subject, to, plainTextContent, "")

	client := sendgrid.NewSendClient(apiKey)
	response, err := client.Send(message)
	if err != nil {
		return fmt.Errorf("sending email through SendGrid: %w", err)
	}
	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return fmt.Errorf("SendGrid returned status %d: %s", response.StatusCode, response.Body)
	}
	return nil
}

func sendSMS(toNumber, messageBody string) error {
	accountSid := os.Getenv("TWILIO_ACCOUNT_SID")
	authToken := os.Getenv("TWILIO_AUTH_TOKEN")
	fromNumber := os.Getenv("TWILIO_FROM_NUMBER")
	if accountSid == "" || authToken == "" || fromNumber == "" {
		return fmt.Errorf("Twilio credentials not fully configured")
	}
	if !strings.HasPrefix(toNumber, "+") {
		return fmt.Errorf("destination number %q is not in E.164 format", toNumber)
	}

	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username:   accountSid,
		Password:   authToken,
		AccountSid: accountSid,
	})

	params := &openapi.CreateMessageParams{}
	params.SetTo(toNumber)
	params.SetFrom(fromNumber)
	params.SetBody(messageBody)

	if _, err := client.Api.CreateMessage(params); err != nil {
		return fmt.Errorf("sending SMS through Twilio: %w", err)
	}
	return nil
}

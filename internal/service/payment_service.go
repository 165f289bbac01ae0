package service

import (
	"fmt"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/checkout/session"
	"github.com/stripe/stripe-go/v82/refund"
	"go.uber.org/zap"
)

// PaymentService wraps Stripe Checkout for the wizard's payment step. It is
// disabled when no API key is configured, in which case the wizard still
// works and simply skips the checkout link.
type PaymentService struct {
	enabled    bool
	successURL string
	cancelURL  string
	log        *zap.Logger
}

func NewPaymentService(apiKey string, log *zap.Logger) *PaymentService {
	if apiKey != "" {
		stripe.Key = apiKey
	}
	return &PaymentService{
		enabled:    apiKey != "",
		successURL: "http://localhost:3000/booking/confirmation?session_id={CHECKOUT_SESSION_ID}",
		cancelURL:  "http://localhost:3000/booking/failed?session_id={CHECKOUT_SESSION_ID}",
		log:        log,
	}
}

// Enabled reports whether checkout sessions can be created.
func (p *PaymentService) Enabled() bool { return p.enabled }

// CreateCheckoutSession creates a card checkout for the given amount and
// returns its URL and session ID.
func (p *PaymentService) CreateCheckoutSession(amountCents int64, description, customerEmail string) (string, string, error) {
	if !p.enabled {
		return "", "", fmt.Errorf("payments are not configured")
	}
	params := &stripe.CheckoutSessionParams{
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String("usd"),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(description),
					},
					UnitAmount: stripe.Int64(amountCents),
				},
				Quantity: stripe.Int64(1),
			},
		},
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL: stripe.String(p.successURL),
		CancelURL:  stripe.String(p.cancelURL),
	}
	if customerEmail != "" {
		params.CustomerEmail = stripe.String(customerEmail)
	}

	sess, err := session.New(params)
	if err != nil {
		return "", "", fmt.Errorf("creating checkout session: %w", err)
	}
	return sess.URL, sess.ID, nil
}

// RefundBySessionID refunds the payment behind a checkout session, if any.
func (p *PaymentService) RefundBySessionID(sessionID string) error {
	if !p.enabled {
		return fmt.Errorf("payments are not configured")
	}
	sess, err := session.Get(sessionID, nil)
	if err != nil {
		return fmt.Errorf("fetching checkout session: %w", err)
	}
	if sess.PaymentIntent == nil || sess.PaymentIntent.ID == "" {
		return fmt.Errorf("no payment intent found for session %s", sessionID)
	}
	_, err = refund.New(&stripe.RefundParams{
		PaymentIntent: stripe.String(sess.PaymentIntent.ID),
	})
	if err != nil {
		return fmt.Errorf("refunding payment: %w", err)
	}
	p.log.Info("payment refunded", zap.String("checkout_session", sessionID))
	return nil
}

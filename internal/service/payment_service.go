package service

import (
	"fmt"
	"os"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/checkout/session"
	"github.com/stripe/stripe-go/v82/refund"
)

// PaymentService wraps the payment provider. Without STRIPE_SECRET_KEY the
// payment step is simulated: Pay confirms in-band and nothing is charged.
type PaymentService struct {
	enabled bool
}

func NewPaymentService() *PaymentService {
	key := os.Getenv("STRIPE_SECRET_KEY")
	if key == "" {
		return &PaymentService{}
	}
	stripe.Key = key
	return &PaymentService{enabled: true}
}

func (s *PaymentService) Enabled() bool {
	return s != nil && s.enabled
}

// CreateCheckout opens a Stripe Checkout session for the frozen reservation
// total and returns its URL and id.
func (s *PaymentService) CreateCheckout(amount float64, reservationCode, customerEmail string) (string, string, error) {
	params := &stripe.CheckoutSessionParams{
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String("eur"),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(fmt.Sprintf("Parking reservation %s", reservationCode)),
					},
					UnitAmount: stripe.Int64(int64(amount * 100)),
				},
				Quantity: stripe.Int64(1),
			},
		},
		Mode:          stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL:    stripe.String(os.Getenv("CHECKOUT_SUCCESS_URL")),
		CancelURL:     stripe.String(os.Getenv("CHECKOUT_CANCEL_URL")),
		CustomerEmail: stripe.String(customerEmail),
	}

	sess, err := session.New(params)
	if err != nil {
		return "", "", err
	}
	return sess.URL, sess.ID, nil
}

// Refund refunds the payment behind a checkout session.
func (s *PaymentService) Refund(sessionID string) error {
	if !s.Enabled() || sessionID == "" {
		return nil
	}
	sess, err := session.Get(sessionID, nil)
	if err != nil {
		return err
	}
	if sess.PaymentIntent == nil || sess.PaymentIntent.ID == "" {
		return fmt.Errorf("no payment intent found for session %s", sessionID)
	}
	params := &stripe.RefundParams{
		PaymentIntent: stripe.String(sess.PaymentIntent.ID),
	}
	_, err = refund.New(params)
	return err
}

package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/checkout/session"

	"resume-review/internal/shared/metrics"
	"resume-review/internal/shared/telemetry"
)

// Service creates hosted checkout sessions and, when payment linkage is
// enabled, checks that a session was paid before an analysis runs.
type Service struct {
	Sessions SessionAPI
	BaseURL  string
	Ledger   Ledger
}

// NewStripeSessions returns the stripe-go checkout session client for key.
func NewStripeSessions(secretKey string) *session.Client {
	return &session.Client{B: stripe.GetBackend(stripe.APIBackend), Key: secretKey}
}

// SuccessURL is where the provider sends the buyer after payment.
func (s *Service) SuccessURL() string {
	return s.base() + "/?paid=true&session_id=" + SessionIDPlaceholder
}

// CancelURL is where the provider sends the buyer after aborting.
func (s *Service) CancelURL() string {
	return s.base() + "/"
}

func (s *Service) base() string {
	return strings.TrimRight(s.BaseURL, "/")
}

// SessionParams builds the request for one fixed-price, one-time payment.
func (s *Service) SessionParams() *stripe.CheckoutSessionParams {
	return &stripe.CheckoutSessionParams{
		PaymentMethodTypes: stripe.StringSlice([]string{PaymentMethodCard}),
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String(string(Currency)),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(ProductName),
					},
					UnitAmount: stripe.Int64(UnitAmountCents),
				},
				Quantity: stripe.Int64(Quantity),
			},
		},
		SuccessURL: stripe.String(s.SuccessURL()),
		CancelURL:  stripe.String(s.CancelURL()),
	}
}

// Create asks the provider for a new checkout session.
func (s *Service) Create(ctx context.Context) (Session, error) {
	if s.Sessions == nil {
		return Session{}, errors.New("checkout sessions client not configured")
	}
	params := s.SessionParams()
	params.Context = ctx

	cs, err := s.Sessions.New(params)
	if err != nil {
		metrics.IncCheckoutFailed()
		return Session{}, fmt.Errorf("create checkout session: %w", err)
	}
	if cs == nil || strings.TrimSpace(cs.URL) == "" {
		metrics.IncCheckoutFailed()
		return Session{}, ErrMissingSessionURL
	}

	metrics.IncCheckoutCreated()
	telemetry.Info("checkout.created", map[string]any{
		"session_id": cs.ID,
	})
	return Session{ID: cs.ID, URL: cs.URL}, nil
}

// Redeem confirms that sessionID belongs to a paid checkout and marks it as
// used so it unlocks a single analysis.
func (s *Service) Redeem(ctx context.Context, sessionID string) error {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return ErrPaymentRequired
	}
	if s.Sessions == nil {
		return errors.New("checkout sessions client not configured")
	}
	if s.Ledger != nil && s.Ledger.Redeemed(sessionID) {
		return ErrSessionRedeemed
	}

	params := &stripe.CheckoutSessionParams{}
	params.Context = ctx
	cs, err := s.Sessions.Get(sessionID, params)
	if err != nil {
		var stripeErr *stripe.Error
		if errors.As(err, &stripeErr) && stripeErr.HTTPStatusCode == 404 {
			return ErrPaymentRequired
		}
		return fmt.Errorf("get checkout session: %w", err)
	}
	if cs == nil || cs.PaymentStatus != stripe.CheckoutSessionPaymentStatusPaid {
		return ErrPaymentRequired
	}

	if s.Ledger != nil && !s.Ledger.Redeem(sessionID) {
		return ErrSessionRedeemed
	}
	return nil
}

// Release returns a redeemed session to the unused state, so a buyer whose
// analysis failed can retry with the same payment.
func (s *Service) Release(sessionID string) {
	if s.Ledger == nil {
		return
	}
	s.Ledger.Release(strings.TrimSpace(sessionID))
}

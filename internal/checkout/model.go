package checkout

import "github.com/stripe/stripe-go/v76"

const (
	ProductName       = "AI Bewerbungs-Check"
	UnitAmountCents   = 500
	Currency          = stripe.CurrencyEUR
	PaymentMethodCard = "card"
	Quantity          = 1

	// SessionIDPlaceholder is expanded by the provider in the success URL.
	SessionIDPlaceholder = "{CHECKOUT_SESSION_ID}"
)

// Session is the provider-hosted payment flow handed to the browser.
type Session struct {
	ID  string
	URL string
}

// SessionAPI is the subset of the Stripe checkout session client the
// service uses. *session.Client from stripe-go satisfies it.
type SessionAPI interface {
	New(params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error)
	Get(id string, params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error)
}

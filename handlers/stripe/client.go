package stripe

import (
	"os"
	"strconv"

	stripe "github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/client"
)

// Gateway is the surface of the Stripe API this service uses. Handlers and
// the reconciler never touch a global client: the gateway is constructed
// once, validated, and injected.
type Gateway interface {
	CreateCheckoutSession(params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error)
	RetrieveSubscription(id string) (*stripe.Subscription, error)
	CancelSubscription(id string) (*stripe.Subscription, error)
	RetrieveAccount(id string) (*stripe.Account, error)
	CreateAccount(params *stripe.AccountParams) (*stripe.Account, error)
	CreateAccountLink(params *stripe.AccountLinkParams) (*stripe.AccountLink, error)
}

type apiGateway struct {
	api *client.API
}

// NewGatewayFromEnv builds the Stripe gateway from STRIPE_SECRET_KEY.
// Returns ErrNotConfigured when the key is absent so callers can decide to
// run degraded (free subscriptions still work without Stripe).
func NewGatewayFromEnv() (Gateway, error) {
	secret := os.Getenv("STRIPE_SECRET_KEY")
	if secret == "" {
		return nil, ErrNotConfigured
	}
	return &apiGateway{api: client.New(secret, nil)}, nil
}

func (g *apiGateway) CreateCheckoutSession(params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error) {
	return g.api.CheckoutSessions.New(params)
}

func (g *apiGateway) RetrieveSubscription(id string) (*stripe.Subscription, error) {
	params := &stripe.SubscriptionParams{}
	params.AddExpand("items.data.price")
	return g.api.Subscriptions.Get(id, params)
}

func (g *apiGateway) CancelSubscription(id string) (*stripe.Subscription, error) {
	return g.api.Subscriptions.Cancel(id, &stripe.SubscriptionCancelParams{
		Prorate: stripe.Bool(false),
	})
}

func (g *apiGateway) RetrieveAccount(id string) (*stripe.Account, error) {
	return g.api.Accounts.GetByID(id, nil)
}

func (g *apiGateway) CreateAccount(params *stripe.AccountParams) (*stripe.Account, error) {
	return g.api.Accounts.New(params)
}

func (g *apiGateway) CreateAccountLink(params *stripe.AccountLinkParams) (*stripe.AccountLink, error) {
	return g.api.AccountLinks.New(params)
}

// PlatformFeePercent is the cut taken on destination charges
func PlatformFeePercent() float64 {
	value, err := strconv.ParseFloat(os.Getenv("STRIPE_PLATFORM_FEE_PERCENT"), 64)
	if err != nil || value < 0 {
		return 8
	}
	return value
}

func SiteURL() string {
	if url := os.Getenv("SITE_URL"); url != "" {
		return url
	}
	return "http://localhost:8080"
}

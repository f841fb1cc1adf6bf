package orders

import (
	"context"

	"github.com/stripe/stripe-go/v84"
	"github.com/stripe/stripe-go/v84/checkout/session"

	pkgstripe "github.com/verdemart/verdemart-backend/pkg/stripe"
)

// StripeSessionReader fetches completed checkout sessions from Stripe. Session
// state is always read fresh from the processor, never from a local cache.
type StripeSessionReader interface {
	GetSession(ctx context.Context, id string) (*stripe.CheckoutSession, error)
}

type stripeClientWrapper struct{}

// NewStripeClient wraps the provided Stripe client so the order recorder can be tested.
func NewStripeClient(api *pkgstripe.Client) StripeSessionReader {
	if api == nil {
		return nil
	}
	return &stripeClientWrapper{}
}

func (w *stripeClientWrapper) GetSession(ctx context.Context, id string) (*stripe.CheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{}
	params.Context = ctx
	params.AddExpand("line_items")
	params.AddExpand("customer")
	return session.Get(id, params)
}

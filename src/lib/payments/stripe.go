package payments

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/stripe/stripe-go/v82"
)

type StripeProvider struct {
	client *stripe.Client
}

func NewStripeProvider(c *stripe.Client) *StripeProvider {
	return &StripeProvider{client: c}
}

func (p *StripeProvider) Name() string {
	return "stripe"
}

// buildSessionParams maps a SessionInput onto hosted Checkout Session
// parameters. The metadata is mirrored onto the PaymentIntent so webhook
// events on either object can be traced back to the payment row.
func buildSessionParams(in *SessionInput) *stripe.CheckoutSessionCreateParams {
	successUrl := fmt.Sprintf("%s/checkout/callback/success", os.Getenv("APP_HOST"))
	piParams := &stripe.CheckoutSessionCreatePaymentIntentDataParams{}
	for k, v := range in.Metadata {
		piParams.AddMetadata(k, v)
	}
	qty := in.Quantity
	if qty < 1 {
		qty = 1
	}
	createParams := &stripe.CheckoutSessionCreateParams{
		SuccessURL:        stripe.String(successUrl),
		UIMode:            stripe.String("hosted"),
		Mode:              stripe.String("payment"),
		PaymentIntentData: piParams,
		ClientReferenceID: stripe.String(in.InvoiceNo),
		LineItems: []*stripe.CheckoutSessionCreateLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionCreateLineItemPriceDataParams{
					Currency:   stripe.String(in.Currency),
					UnitAmount: stripe.Int64(in.Amount / qty),
					ProductData: &stripe.CheckoutSessionCreateLineItemPriceDataProductDataParams{
						Name: stripe.String(in.Description),
					},
				},
				Quantity: stripe.Int64(qty),
			},
		},
		Metadata: in.Metadata,
	}
	if in.CustomerEmail != "" {
		createParams.CustomerEmail = stripe.String(in.CustomerEmail)
	}
	return createParams
}

// CreateSession mints a hosted Checkout Session for the given invoice.
func (p *StripeProvider) CreateSession(ctx context.Context, in *SessionInput) (*Session, error) {
	checkoutSession, err := p.client.V1CheckoutSessions.Create(ctx, buildSessionParams(in))
	if err != nil {
		log.Printf("[stripe] CreateSession failed for invoice %s: %s\n", in.InvoiceNo, err.Error())
		return nil, err
	}
	log.Printf("[stripe] CheckoutSessionID: %s\n", checkoutSession.ID)
	return &Session{
		RedirectURL: checkoutSession.URL,
		SessionID:   checkoutSession.ID,
	}, nil
}

package payments

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildSessionParams(t *testing.T) {
	t.Setenv("APP_HOST", "https://app.example.com")

	in := &SessionInput{
		InvoiceNo:     "INV-20260829-ABCDEF01",
		Amount:        60000,
		Currency:      "usd",
		Description:   "Deluxe Double, 3 night(s)",
		Quantity:      2,
		CustomerEmail: "guest@example.com",
		Metadata: map[string]string{
			"invoice_no": "INV-20260829-ABCDEF01",
			"booking_id": "42",
		},
	}
	params := buildSessionParams(in)

	assert.Equal(t, "https://app.example.com/checkout/callback/success", *params.SuccessURL)
	assert.Equal(t, "payment", *params.Mode)
	assert.Equal(t, in.InvoiceNo, *params.ClientReferenceID)
	assert.Equal(t, "guest@example.com", *params.CustomerEmail)

	assert.Len(t, params.LineItems, 1)
	li := params.LineItems[0]
	assert.Equal(t, int64(2), *li.Quantity)
	assert.Equal(t, int64(30000), *li.PriceData.UnitAmount)
	assert.Equal(t, "usd", *li.PriceData.Currency)
	assert.Equal(t, in.Description, *li.PriceData.ProductData.Name)

	assert.Equal(t, in.Metadata, params.Metadata)
	assert.Equal(t, "42", params.PaymentIntentData.Metadata["booking_id"])
}

func TestBuildSessionParamsQuantityFloor(t *testing.T) {
	in := &SessionInput{
		InvoiceNo: "INV-20260829-ABCDEF02",
		Amount:    9900,
		Currency:  "usd",
	}
	params := buildSessionParams(in)

	li := params.LineItems[0]
	assert.Equal(t, int64(1), *li.Quantity)
	assert.Equal(t, int64(9900), *li.PriceData.UnitAmount)
	assert.Nil(t, params.CustomerEmail)
}

func TestProviderName(t *testing.T) {
	assert.Equal(t, "stripe", NewStripeProvider(nil).Name())
}

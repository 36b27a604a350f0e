package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBookingStatus(t *testing.T) {
	assert.True(t, BOOKING_PENDING.Valid())
	assert.True(t, BOOKING_CONFIRMED.Valid())
	assert.True(t, BOOKING_CANCELLED.Valid())
	assert.True(t, BOOKING_COMPLETED.Valid())
	assert.False(t, BookingStatus("held").Valid())

	assert.False(t, BOOKING_PENDING.Terminal())
	assert.True(t, BOOKING_CONFIRMED.Terminal())
	assert.True(t, BOOKING_CANCELLED.Terminal())
}

func TestPaymentStatus(t *testing.T) {
	assert.True(t, PAYMENT_PENDING.Valid())
	assert.True(t, PAYMENT_PAID.Valid())
	assert.True(t, PAYMENT_FAILED.Valid())
	assert.False(t, PaymentStatus("refunded").Valid())

	assert.False(t, PAYMENT_PENDING.Terminal())
	assert.True(t, PAYMENT_PAID.Terminal())
	assert.True(t, PAYMENT_FAILED.Terminal())
}

func TestIdentity(t *testing.T) {
	assert.True(t, Identity{UserID: 1, Role: ROLE_ADMIN}.IsAdmin())
	assert.False(t, Identity{UserID: 1, Role: ROLE_USER}.IsAdmin())
}

package utils

import (
	"errors"
	"fmt"
	"regexp"
	"testing"
	"time"

	"hbs/src/types"

	"github.com/stretchr/testify/assert"
)

func TestNewInvoiceNo(t *testing.T) {
	now := time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC)
	re := regexp.MustCompile(`^INV-20260829-[0-9A-F]{8}$`)

	seen := map[string]bool{}
	for range 20 {
		inv := newInvoiceNo(now)
		assert.Regexp(t, re, inv)
		assert.False(t, seen[inv], "duplicate invoice number %s", inv)
		seen[inv] = true
	}
}

func TestParseStayDates(t *testing.T) {
	in, out, err := ParseStayDates("2026-09-01", "2026-09-04")
	assert.Nil(t, err)
	assert.Equal(t, 1, in.Day())
	assert.Equal(t, 4, out.Day())
	assert.True(t, out.After(in))

	_, _, err = ParseStayDates("01-09-2026", "2026-09-04")
	assert.NotNil(t, err)

	_, _, err = ParseStayDates("2026-09-01", "tomorrow")
	assert.NotNil(t, err)
}

func TestInsufficientInventoryError(t *testing.T) {
	var err error = &InsufficientInventoryError{RoomID: 7, Requested: 3, Available: 1}
	assert.Equal(t, "room [7] has only 1 of 3 requested units available", err.Error())

	wrapped := fmt.Errorf("booking failed: %w", err)
	var conflict *InsufficientInventoryError
	assert.True(t, errors.As(wrapped, &conflict))
	assert.Equal(t, uint(1), conflict.Available)
}

func TestOverridePaymentStatusRejectsBadInput(t *testing.T) {
	_, err := OverridePaymentStatus([]string{"00000000-0000-0000-0000-000000000001"}, types.PAYMENT_PENDING)
	assert.ErrorIs(t, err, ErrInvalidStatus)

	_, err = OverridePaymentStatus([]string{"not-a-uuid"}, types.PAYMENT_FAILED)
	assert.NotNil(t, err)
	assert.NotErrorIs(t, err, ErrInvalidStatus)
}

func TestSettleRejectsNonTerminalStatus(t *testing.T) {
	_, err := SettlePaymentBySession("cs_test_123", types.PAYMENT_PENDING, "webhook", nil)
	assert.ErrorIs(t, err, ErrInvalidStatus)

	_, err = SettlePaymentByInvoice("INV-20260829-DEADBEEF", types.PAYMENT_PENDING, "webhook", nil)
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestUpdateBookingStatusRejectsUnknownStatus(t *testing.T) {
	err := UpdateBookingStatus(1, types.BookingStatus("teleported"))
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

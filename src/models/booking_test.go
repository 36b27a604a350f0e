package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNights(t *testing.T) {
	in := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

	b := Booking{CheckIn: in, CheckOut: in.Add(3 * 24 * time.Hour)}
	assert.Equal(t, 3, b.Nights())

	b = Booking{CheckIn: in, CheckOut: in.Add(24 * time.Hour)}
	assert.Equal(t, 1, b.Nights())
}

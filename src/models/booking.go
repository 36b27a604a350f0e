package models

import (
	"time"

	"hbs/src/types"
)

// Booking reserves Qty units of a room over the half-open interval
// [CheckIn, CheckOut). Only pending and confirmed bookings count against
// room inventory.
type Booking struct {
	ID       uint                `gorm:"primarykey" json:"id"`
	RoomID   uint                `json:"room_id,omitempty"`
	UserID   uint                `json:"user_id,omitempty"`
	Qty      uint                `json:"qty,omitempty"`
	CheckIn  time.Time           `json:"check_in,omitempty"`
	CheckOut time.Time           `json:"check_out,omitempty"`
	Status   types.BookingStatus `gorm:"default:'pending'" json:"status,omitempty"`
	Metadata *types.Metadata     `gorm:"type:jsonb" json:"metadata,omitempty"`

	Room    *Room    `gorm:"foreignKey:room_id" json:"room,omitempty"`
	User    *User    `gorm:"foreignKey:user_id" json:"user,omitempty"`
	Payment *Payment `gorm:"foreignKey:booking_id" json:"payment,omitempty"`

	types.Timestamps
}

// Nights returns the length of the stay in nights.
func (b *Booking) Nights() int {
	return int(b.CheckOut.Sub(b.CheckIn).Hours() / 24)
}

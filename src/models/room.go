package models

import (
	"hbs/src/types"
)

// Room is a bookable unit type within a hotel. TotalUnits is the number of
// physical rooms of this type; Price is per night in the smallest currency
// unit. The booking flow only ever reads rooms, it never mutates them.
type Room struct {
	ID         uint   `gorm:"primarykey" json:"id"`
	HotelID    uint   `json:"hotel_id,omitempty"`
	Name       string `json:"name,omitempty"`
	TotalUnits uint   `json:"total_units"`
	Price      int64  `json:"price,omitempty"`
	Currency   string `gorm:"default:'usd'" json:"currency,omitempty"`
	Capacity   uint   `json:"capacity,omitempty"`

	Hotel    *Hotel    `gorm:"foreignKey:hotel_id" json:"hotel,omitempty"`
	Bookings []Booking `gorm:"foreignKey:room_id" json:"bookings,omitempty"`

	types.Timestamps
}

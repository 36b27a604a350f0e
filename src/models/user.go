package models

import (
	"hbs/src/types"
)

type User struct {
	ID    uint   `gorm:"primarykey" json:"id"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
	Role  string `gorm:"default:'user'" json:"role,omitempty"`

	Bookings []Booking `gorm:"foreignKey:user_id" json:"bookings,omitempty"`
	Payments []Payment `gorm:"foreignKey:user_id" json:"payments,omitempty"`

	types.Timestamps
}

package models

import (
	"hbs/src/types"

	"github.com/google/uuid"
)

// Payment mirrors one external payment attempt. BookingID is optional so the
// schema can carry non-booking charges, but in the booking flow a booking
// owns at most one non-terminal payment at a time, enforced in the
// repository layer. Status moves pending -> paid|failed and never back.
type Payment struct {
	ID uuid.UUID `gorm:"primarykey;type:uuid;default:gen_random_uuid()" json:"id"`

	UserID            uint                `json:"user_id,omitempty"`
	BookingID         *uint               `json:"booking_id,omitempty"`
	InvoiceNo         string              `gorm:"uniqueIndex" json:"invoice_no,omitempty"`
	Amount            int64               `json:"amount,omitempty"`
	Currency          string              `json:"currency,omitempty"`
	Status            types.PaymentStatus `gorm:"default:'pending'" json:"status,omitempty"`
	PaymentMethod     string              `json:"payment_method,omitempty"`
	PaymentURL        string              `json:"payment_url,omitempty"`
	CheckoutSessionID *string             `json:"checkout_session_id,omitempty"`
	Metadata          *types.Metadata     `gorm:"type:jsonb" json:"metadata,omitempty"`

	User    *User    `gorm:"foreignKey:user_id" json:"-"`
	Booking *Booking `gorm:"foreignKey:booking_id" json:"-"`

	types.Timestamps
}

package types

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"gorm.io/gorm"
)

type Timestamps struct {
	CreatedAt time.Time      `gorm:"autoCreateTime:nano" json:"created_at,omitempty"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime:nano" json:"updated_at,omitempty"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty,omitnil"`
}

type Metadata map[string]any

func (a Metadata) Value() (driver.Value, error) {
	valueString, err := json.Marshal(a)
	return string(valueString), err
}
func (a *Metadata) Scan(value any) error {
	b, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}
	if err := json.Unmarshal(b, &a); err != nil {
		return err
	}
	return nil
}

// Identity is the already-resolved caller handed to the core operations.
// Handlers build it from the auth middleware context values; business code
// never reads ambient session state on its own.
type Identity struct {
	UserID uint
	Role   string
}

func (i Identity) IsAdmin() bool {
	return i.Role == ROLE_ADMIN
}

const (
	ROLE_USER  = "user"
	ROLE_ADMIN = "admin"
)

type BookingStatus string

const (
	BOOKING_PENDING   BookingStatus = "pending"
	BOOKING_CONFIRMED BookingStatus = "confirmed"
	BOOKING_CANCELLED BookingStatus = "cancelled"
	BOOKING_COMPLETED BookingStatus = "completed"
)

func (s BookingStatus) Valid() bool {
	switch s {
	case BOOKING_PENDING, BOOKING_CONFIRMED, BOOKING_CANCELLED, BOOKING_COMPLETED:
		return true
	}
	return false
}

// Terminal reports whether no automatic transition leaves the status.
func (s BookingStatus) Terminal() bool {
	return s == BOOKING_CONFIRMED || s == BOOKING_CANCELLED || s == BOOKING_COMPLETED
}

type PaymentStatus string

const (
	PAYMENT_PENDING PaymentStatus = "pending"
	PAYMENT_PAID    PaymentStatus = "paid"
	PAYMENT_FAILED  PaymentStatus = "failed"
)

func (s PaymentStatus) Valid() bool {
	switch s {
	case PAYMENT_PENDING, PAYMENT_PAID, PAYMENT_FAILED:
		return true
	}
	return false
}

func (s PaymentStatus) Terminal() bool {
	return s == PAYMENT_PAID || s == PAYMENT_FAILED
}

type CreateBookingRequestBody struct {
	RoomID   uint   `json:"room_id" binding:"required"`
	CheckIn  string `json:"check_in" binding:"required,bookabledate"`
	CheckOut string `json:"check_out" binding:"required,gtdate=CheckIn"`
	Qty      uint   `json:"qty" binding:"required,min=1"`
	Method   string `json:"method,omitempty"`
}

type CreateHotelRequestBody struct {
	Name         string `json:"name" binding:"required"`
	About        string `json:"about,omitempty"`
	Location     string `json:"location,omitempty"`
	ContactEmail string `json:"email" binding:"required,email"`
}

type CreateRoomRequestBody struct {
	HotelID    uint   `json:"hotel" binding:"required"`
	Name       string `json:"name" binding:"required"`
	TotalUnits uint   `json:"total_units" binding:"required"`
	Price      int64  `json:"price" binding:"required,min=1"`
	Currency   string `json:"currency" binding:"required"`
	Capacity   uint   `json:"capacity,omitempty"`
}

type UpdateBookingStatusRequestBody struct {
	Status string `json:"status" binding:"required"`
}

type UpdatePaymentStatusRequestBody struct {
	Status string `json:"status" binding:"required"`
}

type SweepOverrideRequestBody struct {
	PaymentIDs []string `json:"payment_ids" binding:"required,min=1"`
	NewStatus  string   `json:"new_status" binding:"required"`
}

type AvailabilityQueryParams struct {
	CheckIn  string `form:"check_in" binding:"required"`
	CheckOut string `form:"check_out" binding:"required"`
}

type SimpleRequestParams struct {
	ID uint `uri:"id" binding:"required"`
}

type HotelSlugParams struct {
	Slug string `uri:"slug" binding:"required"`
}

type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

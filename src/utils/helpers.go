package utils

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"hbs/src/config"
	"hbs/src/db"
	"hbs/src/lib"
	"hbs/src/lib/payments"
	"hbs/src/models"
	"hbs/src/monitoring"
	"hbs/src/types"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrRoomNotFound         = errors.New("room not found")
	ErrBookingNotFound      = errors.New("booking not found")
	ErrPaymentNotFound      = errors.New("payment not found")
	ErrPaymentSessionFailed = errors.New("payment session could not be created")
	ErrInvalidStatus        = errors.New("invalid status value")
)

// InsufficientInventoryError carries how many units were actually free so the
// caller can surface it to the client.
type InsufficientInventoryError struct {
	RoomID    uint
	Requested uint
	Available uint
}

func (e *InsufficientInventoryError) Error() string {
	return fmt.Sprintf("room [%d] has only %d of %d requested units available", e.RoomID, e.Available, e.Requested)
}

// ParseStayDates parses the wire-format check-in and check-out dates. The
// binding validators already guarantee ordering, this is just the conversion.
func ParseStayDates(checkIn, checkOut string) (time.Time, time.Time, error) {
	in, err := time.Parse(config.DATE_PARSE_FORMAT, checkIn)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	out, err := time.Parse(config.DATE_PARSE_FORMAT, checkOut)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return in, out, nil
}

// overlapping scopes a booking query to rows whose stay intersects the
// half-open interval [checkIn, checkOut). Back-to-back stays where one
// check-out equals the next check-in do not overlap.
func overlapping(tx *gorm.DB, roomID uint, checkIn, checkOut time.Time) *gorm.DB {
	return tx.
		Model(&models.Booking{}).
		Where(&models.Booking{RoomID: roomID}).
		Where(clause.IN{Column: "status", Values: []any{types.BOOKING_PENDING, types.BOOKING_CONFIRMED}}).
		Where("NOT (check_out <= ? OR check_in >= ?)", checkIn, checkOut)
}

// ComputeAvailability returns how many units of the room are free over every
// night of [checkIn, checkOut). Pending bookings hold inventory the same as
// confirmed ones; cancelled and completed rows do not count.
func ComputeAvailability(tx *gorm.DB, roomID uint, checkIn, checkOut time.Time) (uint, error) {
	var room models.Room
	if err := tx.Where(&models.Room{ID: roomID}).First(&room).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrRoomNotFound
		}
		return 0, err
	}
	var reserved int64
	err := overlapping(tx, roomID, checkIn, checkOut).
		Select("COALESCE(SUM(qty), 0)").
		Scan(&reserved).
		Error
	if err != nil {
		return 0, err
	}
	if reserved >= int64(room.TotalUnits) {
		return 0, nil
	}
	return room.TotalUnits - uint(reserved), nil
}

func newInvoiceNo(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return fmt.Sprintf("INV-%s-%s", now.Format("20060102"), suffix)
}

// CreateBookingWithPayment runs the whole booking flow: it reserves the room
// units and opens a hosted checkout session, returning the booking with its
// payment row attached.
//
// The availability check and the booking insert run in one transaction under
// a row lock on the room, so two concurrent requests for the last unit
// serialize and the loser sees the winner's hold. The outbound provider call
// happens after commit; if it fails the hold is released right away by
// cancelling the booking and failing the payment, rather than leaving it for
// the expiry sweep.
func CreateBookingWithPayment(ctx *gin.Context, ident types.Identity, params *types.CreateBookingRequestBody) (*models.Booking, error) {
	checkIn, checkOut, err := ParseStayDates(params.CheckIn, params.CheckOut)
	if err != nil {
		log.Printf("Error parsing stay dates: %s\n", err.Error())
		return nil, err
	}
	d := db.GetDb()
	now := time.Now()

	var booking models.Booking
	var payment models.Payment
	var room models.Room
	err = d.Transaction(func(tx *gorm.DB) error {
		err := tx.
			Clauses(clause.Locking{
				Strength: "UPDATE",
			}).
			Where(&models.Room{ID: params.RoomID}).
			First(&room).
			Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRoomNotFound
			}
			return err
		}
		available, err := ComputeAvailability(tx, room.ID, checkIn, checkOut)
		if err != nil {
			return err
		}
		if params.Qty > available {
			monitoring.BookingConflicts.Inc()
			return &InsufficientInventoryError{
				RoomID:    room.ID,
				Requested: params.Qty,
				Available: available,
			}
		}

		nights := int64(checkOut.Sub(checkIn).Hours() / 24)
		amount := room.Price * nights * int64(params.Qty)
		metadata := types.Metadata{
			"room_id":   room.ID,
			"check_in":  params.CheckIn,
			"check_out": params.CheckOut,
		}
		booking = models.Booking{
			RoomID:   room.ID,
			UserID:   ident.UserID,
			Qty:      params.Qty,
			CheckIn:  checkIn,
			CheckOut: checkOut,
			Status:   types.BOOKING_PENDING,
			Metadata: &metadata,
		}
		if err := tx.Create(&booking).Error; err != nil {
			log.Printf("error in Booking transaction: %s\n", err.Error())
			return err
		}
		method := params.Method
		if method == "" {
			method = "stripe"
		}
		payment = models.Payment{
			UserID:        ident.UserID,
			BookingID:     &booking.ID,
			InvoiceNo:     newInvoiceNo(now),
			Amount:        amount,
			Currency:      room.Currency,
			Status:        types.PAYMENT_PENDING,
			PaymentMethod: method,
		}
		if err := tx.Create(&payment).Error; err != nil {
			log.Printf("error in Payment transaction: %s\n", err.Error())
			return err
		}
		return nil
	})
	if err != nil {
		log.Printf("CreateBookingWithPayment failed: %s\n", err.Error())
		return nil, err
	}
	monitoring.BookingsCreated.Inc()

	provider := payments.NewStripeProvider(lib.GetStripeClient())
	session, err := createPaymentSession(ctx, provider, &payment, &booking, &room)
	if err != nil {
		log.Printf("CreatePaymentSession failed for invoice %s: %s\n", payment.InvoiceNo, err.Error())
		if cErr := cancelAfterSessionFailure(d, &payment, &booking); cErr != nil {
			log.Printf("Error releasing booking [%d] after session failure: %s\n", booking.ID, cErr.Error())
		}
		return nil, ErrPaymentSessionFailed
	}

	err = d.Transaction(func(tx *gorm.DB) error {
		return tx.
			Model(&models.Payment{}).
			Where(&models.Payment{ID: payment.ID}).
			Updates(&models.Payment{
				PaymentURL:        session.RedirectURL,
				CheckoutSessionID: &session.SessionID,
			}).
			Error
	})
	if err != nil {
		log.Printf("Error while saving session on Payment: %s\n", err.Error())
		return nil, err
	}
	payment.PaymentURL = session.RedirectURL
	payment.CheckoutSessionID = &session.SessionID
	booking.Payment = &payment

	rd := lib.GetRedisClient()
	if rd != nil {
		if err := rd.Set(ctx, payment.InvoiceNo, session.RedirectURL, config.PaymentTimeout()).Err(); err != nil {
			log.Printf("Error caching value [%s]: %s\n", payment.InvoiceNo, err.Error())
		}
	}
	return &booking, nil
}

func createPaymentSession(ctx context.Context, provider payments.Provider, payment *models.Payment, booking *models.Booking, room *models.Room) (*payments.Session, error) {
	sctx, cancel := context.WithTimeout(ctx, payments.SessionTimeout)
	defer cancel()
	session, err := provider.CreateSession(sctx, &payments.SessionInput{
		InvoiceNo:   payment.InvoiceNo,
		Amount:      payment.Amount,
		Currency:    payment.Currency,
		Description: fmt.Sprintf("%s, %d night(s)", room.Name, booking.Nights()),
		Quantity:    int64(booking.Qty),
		Metadata: map[string]string{
			"invoice_no": payment.InvoiceNo,
			"booking_id": fmt.Sprint(booking.ID),
			"payment_id": payment.ID.String(),
		},
	})
	if err != nil {
		monitoring.PaymentSessions.WithLabelValues(provider.Name(), "error").Inc()
		return nil, err
	}
	monitoring.PaymentSessions.WithLabelValues(provider.Name(), "ok").Inc()
	return session, nil
}

// cancelAfterSessionFailure releases the inventory hold taken by a booking
// whose checkout session never materialized.
func cancelAfterSessionFailure(d *gorm.DB, payment *models.Payment, booking *models.Booking) error {
	return d.Transaction(func(tx *gorm.DB) error {
		err := tx.
			Model(&models.Payment{}).
			Where(&models.Payment{ID: payment.ID, Status: types.PAYMENT_PENDING}).
			Update("status", types.PAYMENT_FAILED).
			Error
		if err != nil {
			return err
		}
		return tx.
			Model(&models.Booking{}).
			Where(&models.Booking{ID: booking.ID, Status: types.BOOKING_PENDING}).
			Update("status", types.BOOKING_CANCELLED).
			Error
	})
}

// settlePayment moves one payment to a terminal status and cascades the
// outcome onto its booking. The status guard on the payment update makes the
// transition idempotent: replayed webhooks and sweep overlaps fall through
// without touching rows that already settled.
func settlePayment(tx *gorm.DB, payment *models.Payment, newStatus types.PaymentStatus, source string, raw types.Metadata) (bool, error) {
	updates := map[string]any{"status": newStatus}
	if raw != nil {
		updates["metadata"] = &raw
	}
	res := tx.
		Model(&models.Payment{}).
		Where(&models.Payment{ID: payment.ID, Status: types.PAYMENT_PENDING}).
		Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected == 0 {
		log.Printf("Payment [%s] already settled, skipping %s update\n", payment.InvoiceNo, source)
		return false, nil
	}
	bookingStatus := types.BOOKING_CANCELLED
	if newStatus == types.PAYMENT_PAID {
		bookingStatus = types.BOOKING_CONFIRMED
	}
	if payment.BookingID != nil {
		err := tx.
			Model(&models.Booking{}).
			Where(&models.Booking{ID: *payment.BookingID, Status: types.BOOKING_PENDING}).
			Update("status", bookingStatus).
			Error
		if err != nil {
			return false, err
		}
	}
	monitoring.PaymentsSettled.WithLabelValues(string(newStatus), source).Inc()
	return true, nil
}

// sendPaymentReceipt mails the customer once their payment lands. Failures
// are logged and dropped, a lost email never blocks settlement.
func sendPaymentReceipt(payment *models.Payment) {
	if payment.User == nil || payment.User.Email == "" {
		return
	}
	body := fmt.Sprintf(
		"Your payment for invoice %s has been received. Amount: %d %s. Your booking is confirmed.",
		payment.InvoiceNo, payment.Amount, strings.ToUpper(payment.Currency),
	)
	err := lib.SendMail(&lib.SendMailInput{
		From:     os.Getenv("SMTP_FROM"),
		FromName: "Reservations",
		To:       []string{payment.User.Email},
		Subject:  fmt.Sprintf("Payment received for invoice %s", payment.InvoiceNo),
		Body:     body,
	})
	if err != nil {
		log.Printf("Error sending receipt for invoice %s: %s\n", payment.InvoiceNo, err.Error())
	}
}

// SettlePaymentBySession resolves the payment behind a provider checkout
// session and applies the terminal status. Used by the webhook path.
func SettlePaymentBySession(sessionID string, newStatus types.PaymentStatus, source string, raw types.Metadata) (*models.Payment, error) {
	if !newStatus.Terminal() {
		return nil, ErrInvalidStatus
	}
	d := db.GetDb()
	var payment models.Payment
	var changed bool
	err := d.Transaction(func(tx *gorm.DB) error {
		err := tx.
			Where(&models.Payment{CheckoutSessionID: &sessionID}).
			Preload("User").
			First(&payment).
			Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPaymentNotFound
			}
			return err
		}
		changed, err = settlePayment(tx, &payment, newStatus, source, raw)
		return err
	})
	if err != nil {
		return nil, err
	}
	if changed && newStatus == types.PAYMENT_PAID {
		go sendPaymentReceipt(&payment)
	}
	return &payment, nil
}

// SettlePaymentByInvoice is the fallback lookup for provider events that
// carry the invoice number but no session id.
func SettlePaymentByInvoice(invoiceNo string, newStatus types.PaymentStatus, source string, raw types.Metadata) (*models.Payment, error) {
	if !newStatus.Terminal() {
		return nil, ErrInvalidStatus
	}
	d := db.GetDb()
	var payment models.Payment
	var changed bool
	err := d.Transaction(func(tx *gorm.DB) error {
		err := tx.
			Where(&models.Payment{InvoiceNo: invoiceNo}).
			Preload("User").
			First(&payment).
			Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPaymentNotFound
			}
			return err
		}
		changed, err = settlePayment(tx, &payment, newStatus, source, raw)
		return err
	})
	if err != nil {
		return nil, err
	}
	if changed && newStatus == types.PAYMENT_PAID {
		go sendPaymentReceipt(&payment)
	}
	return &payment, nil
}

// ExpireStalePayments fails every payment that has sat pending for longer
// than the cutoff and releases the bookings holding inventory for them. It
// returns how many payments were expired.
func ExpireStalePayments(timeout time.Duration) (int64, error) {
	d := db.GetDb()
	cutoff := time.Now().Add(-timeout)
	var expired int64
	err := d.Transaction(func(tx *gorm.DB) error {
		var stale []models.Payment
		err := tx.
			Clauses(clause.Locking{
				Strength: "UPDATE",
			}).
			Where(&models.Payment{Status: types.PAYMENT_PENDING}).
			Where("created_at < ?", cutoff).
			Find(&stale).
			Error
		if err != nil {
			return err
		}
		for i := range stale {
			changed, err := settlePayment(tx, &stale[i], types.PAYMENT_FAILED, "sweep", nil)
			if err != nil {
				return err
			}
			if changed {
				expired++
			}
		}
		return nil
	})
	if err != nil {
		log.Printf("ExpireStalePayments failed: %s\n", err.Error())
		return 0, err
	}
	monitoring.SweepRuns.Inc()
	monitoring.SweepExpired.Add(float64(expired))
	return expired, nil
}

// OverridePaymentStatus is the back-office escape hatch: it forces the named
// payments to a terminal status with the same cascade as the sweep. Payments
// that already settled are skipped, not errors.
func OverridePaymentStatus(ids []string, newStatus types.PaymentStatus) (int64, error) {
	if !newStatus.Terminal() {
		return 0, ErrInvalidStatus
	}
	parsed := make([]uuid.UUID, 0, len(ids))
	for _, raw := range ids {
		id, err := uuid.Parse(raw)
		if err != nil {
			return 0, fmt.Errorf("invalid payment id [%s]: %w", raw, err)
		}
		parsed = append(parsed, id)
	}
	d := db.GetDb()
	var updated int64
	err := d.Transaction(func(tx *gorm.DB) error {
		for _, id := range parsed {
			var payment models.Payment
			err := tx.
				Clauses(clause.Locking{
					Strength: "UPDATE",
				}).
				Where(&models.Payment{ID: id}).
				First(&payment).
				Error
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrPaymentNotFound
				}
				return err
			}
			if payment.Status.Terminal() {
				continue
			}
			changed, err := settlePayment(tx, &payment, newStatus, "override", nil)
			if err != nil {
				return err
			}
			if changed {
				updated++
			}
		}
		return nil
	})
	if err != nil {
		log.Printf("OverridePaymentStatus failed: %s\n", err.Error())
		return 0, err
	}
	return updated, nil
}

// UpdateBookingStatus applies a back-office status change. Transitions out of
// cancelled are rejected; everything else is at the operator's discretion.
func UpdateBookingStatus(id uint, newStatus types.BookingStatus) error {
	if !newStatus.Valid() {
		return ErrInvalidStatus
	}
	d := db.GetDb()
	return d.Transaction(func(tx *gorm.DB) error {
		var booking models.Booking
		err := tx.
			Clauses(clause.Locking{
				Strength: "UPDATE",
			}).
			Where(&models.Booking{ID: id}).
			First(&booking).
			Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBookingNotFound
			}
			return err
		}
		if booking.Status == types.BOOKING_CANCELLED && newStatus != types.BOOKING_CANCELLED {
			return ErrInvalidStatus
		}
		return tx.
			Model(&models.Booking{}).
			Where(&models.Booking{ID: id}).
			Update("status", newStatus).
			Error
	})
}

// DeleteBooking soft-deletes a booking. A pending booking is cancelled first
// so its inventory hold and payment do not outlive it.
func DeleteBooking(id uint) error {
	d := db.GetDb()
	return d.Transaction(func(tx *gorm.DB) error {
		var booking models.Booking
		err := tx.
			Clauses(clause.Locking{
				Strength: "UPDATE",
			}).
			Where(&models.Booking{ID: id}).
			First(&booking).
			Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBookingNotFound
			}
			return err
		}
		if booking.Status == types.BOOKING_PENDING {
			err := tx.
				Model(&models.Payment{}).
				Where(&models.Payment{BookingID: &booking.ID, Status: types.PAYMENT_PENDING}).
				Update("status", types.PAYMENT_FAILED).
				Error
			if err != nil {
				return err
			}
			err = tx.
				Model(&models.Booking{}).
				Where(&models.Booking{ID: booking.ID}).
				Update("status", types.BOOKING_CANCELLED).
				Error
			if err != nil {
				return err
			}
		}
		return tx.Delete(&models.Booking{}, booking.ID).Error
	})
}

// DeletePayment soft-deletes a payment. A still-pending payment is failed
// first with the usual booking cascade so no inventory hold survives it.
func DeletePayment(id uuid.UUID) error {
	d := db.GetDb()
	return d.Transaction(func(tx *gorm.DB) error {
		var payment models.Payment
		err := tx.
			Clauses(clause.Locking{
				Strength: "UPDATE",
			}).
			Where(&models.Payment{ID: id}).
			First(&payment).
			Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPaymentNotFound
			}
			return err
		}
		if payment.Status == types.PAYMENT_PENDING {
			if _, err := settlePayment(tx, &payment, types.PAYMENT_FAILED, "delete", nil); err != nil {
				return err
			}
		}
		return tx.
			Where(&models.Payment{ID: id}).
			Delete(&models.Payment{}).
			Error
	})
}

func GetOwnBookings(userID uint) ([]models.Booking, error) {
	d := db.GetDb()
	bookings := []models.Booking{}
	err := d.
		Where(&models.Booking{UserID: userID}).
		Preload("Room").
		Preload("Payment").
		Order("created_at DESC").
		Find(&bookings).
		Error
	return bookings, err
}

func GetOwnPayments(userID uint) ([]models.Payment, error) {
	d := db.GetDb()
	pays := []models.Payment{}
	err := d.
		Where(&models.Payment{UserID: userID}).
		Order("created_at DESC").
		Find(&pays).
		Error
	return pays, err
}

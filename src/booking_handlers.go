package main

import (
	"errors"
	"net/http"

	"hbs/src/db"
	"hbs/src/models"
	"hbs/src/types"
	"hbs/src/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func identityFromContext(ctx *gin.Context) types.Identity {
	return types.Identity{
		UserID: ctx.GetUint("id"),
		Role:   ctx.GetString("role"),
	}
}

func bookingHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		POST("/bookings", func(ctx *gin.Context) {
			var body types.CreateBookingRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			ident := identityFromContext(ctx)
			booking, err := utils.CreateBookingWithPayment(ctx, ident, &body)
			if err != nil {
				var conflict *utils.InsufficientInventoryError
				switch {
				case errors.Is(err, utils.ErrRoomNotFound):
					ctx.Status(http.StatusNotFound)
				case errors.As(err, &conflict):
					ctx.JSON(http.StatusConflict, gin.H{
						"error":           conflict.Error(),
						"available_units": conflict.Available,
					})
				case errors.Is(err, utils.ErrPaymentSessionFailed):
					ctx.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
				default:
					ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				}
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{
				"data":        booking,
				"payment_url": booking.Payment.PaymentURL,
			})
		}).
		GET("/bookings", func(ctx *gin.Context) {
			ident := identityFromContext(ctx)
			bookings, err := utils.GetOwnBookings(ident.UserID)
			if err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": bookings})
		}).
		GET("/bookings/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			ident := identityFromContext(ctx)
			var booking models.Booking
			db := db.GetDb()
			err := db.
				Where(&models.Booking{ID: params.ID}).
				Preload("Room").
				Preload("Payment").
				First(&booking).
				Error
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					ctx.Status(http.StatusNotFound)
					return
				}
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			if booking.UserID != ident.UserID && !ident.IsAdmin() {
				ctx.Status(http.StatusNotFound)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": booking})
		})
	return g
}

func bookingAdminHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/bookings", func(ctx *gin.Context) {
			var bookings []models.Booking
			db := db.GetDb()
			err := db.
				Preload("Room").
				Preload("Payment").
				Order("created_at DESC").
				Limit(100).
				Find(&bookings).
				Error
			if err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": bookings})
		}).
		PUT("/bookings/:id/status", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			var body types.UpdateBookingStatusRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			err := utils.UpdateBookingStatus(params.ID, types.BookingStatus(body.Status))
			if err != nil {
				switch {
				case errors.Is(err, utils.ErrBookingNotFound):
					ctx.Status(http.StatusNotFound)
				case errors.Is(err, utils.ErrInvalidStatus):
					ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				default:
					ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				}
				return
			}
			ctx.Status(http.StatusNoContent)
		}).
		DELETE("/bookings/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			err := utils.DeleteBooking(params.ID)
			if err != nil {
				if errors.Is(err, utils.ErrBookingNotFound) {
					ctx.Status(http.StatusNotFound)
					return
				}
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			ctx.Status(http.StatusNoContent)
		})
	return g
}

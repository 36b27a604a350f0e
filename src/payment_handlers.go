package main

import (
	"errors"
	"net/http"

	"hbs/src/db"
	"hbs/src/models"
	"hbs/src/types"
	"hbs/src/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

func paymentHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/payments", func(ctx *gin.Context) {
			ident := identityFromContext(ctx)
			pays, err := utils.GetOwnPayments(ident.UserID)
			if err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": pays})
		}).
		GET("/payments/:id", func(ctx *gin.Context) {
			var params struct {
				ID string `uri:"id" binding:"required,uuid"`
			}
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			id := uuid.MustParse(params.ID)
			ident := identityFromContext(ctx)
			var payment models.Payment
			db := db.GetDb()
			err := db.
				Where(&models.Payment{ID: id}).
				First(&payment).
				Error
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					ctx.Status(http.StatusNotFound)
					return
				}
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			if payment.UserID != ident.UserID && !ident.IsAdmin() {
				ctx.Status(http.StatusNotFound)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": payment})
		})
	return g
}

func paymentAdminHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		PUT("/payments/:id/status", func(ctx *gin.Context) {
			var params struct {
				ID string `uri:"id" binding:"required,uuid"`
			}
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			var body types.UpdatePaymentStatusRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			updated, err := utils.OverridePaymentStatus([]string{params.ID}, types.PaymentStatus(body.Status))
			if err != nil {
				switch {
				case errors.Is(err, utils.ErrPaymentNotFound):
					ctx.Status(http.StatusNotFound)
				case errors.Is(err, utils.ErrInvalidStatus):
					ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				default:
					ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				}
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"updated": updated})
		}).
		DELETE("/payments/:id", func(ctx *gin.Context) {
			var params struct {
				ID string `uri:"id" binding:"required,uuid"`
			}
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			err := utils.DeletePayment(uuid.MustParse(params.ID))
			if err != nil {
				if errors.Is(err, utils.ErrPaymentNotFound) {
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

package main

import (
	"errors"
	"net/http"

	"hbs/src/config"
	"hbs/src/middlewares"
	"hbs/src/types"
	"hbs/src/utils"

	"github.com/gin-gonic/gin"
)

// cronRoutes exposes the payment sweep to an external scheduler. The default
// GET expires everything past the configured timeout; the POST variant lets
// an operator force named payments to a terminal status.
func cronRoutes(g *gin.Engine) *gin.RouterGroup {
	apiv1 := apiv1Group(g)
	cron := apiv1.Group("/cron")
	cron.Use(middlewares.CronAuth)
	cron.
		GET("/update-payments-status", func(ctx *gin.Context) {
			expired, err := utils.ExpireStalePayments(config.PaymentTimeout())
			if err != nil {
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"expired": expired})
		}).
		POST("/update-payments-status", func(ctx *gin.Context) {
			var body types.SweepOverrideRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			updated, err := utils.OverridePaymentStatus(body.PaymentIDs, types.PaymentStatus(body.NewStatus))
			if err != nil {
				switch {
				case errors.Is(err, utils.ErrInvalidStatus):
					ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				case errors.Is(err, utils.ErrPaymentNotFound):
					ctx.Status(http.StatusNotFound)
				default:
					ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				}
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"updated": updated})
		})
	return cron
}

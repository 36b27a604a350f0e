package main

import (
	"errors"
	"log"
	"net/http"

	"hbs/src/db"
	"hbs/src/models"
	"hbs/src/types"
	"hbs/src/utils"

	"github.com/gin-gonic/gin"
	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

// hotelRoutes are the unauthenticated browse surface: hotels, their rooms
// and per-room availability over a stay window.
func hotelRoutes(g *gin.Engine) *gin.RouterGroup {
	apiv1 := apiv1Group(g)
	apiv1.
		GET("/hotels", func(ctx *gin.Context) {
			var hotels []models.Hotel
			db := db.GetDb()
			err := db.
				Order("name asc").
				Limit(50).
				Find(&hotels).
				Error
			if err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": hotels})
		}).
		GET("/hotels/:slug", func(ctx *gin.Context) {
			var params types.HotelSlugParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			var hotel models.Hotel
			db := db.GetDb()
			err := db.
				Where(&models.Hotel{Slug: params.Slug}).
				Preload("Rooms").
				First(&hotel).
				Error
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					ctx.Status(http.StatusNotFound)
					return
				}
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": hotel})
		}).
		GET("/rooms/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			var room models.Room
			db := db.GetDb()
			err := db.
				Where(&models.Room{ID: params.ID}).
				Preload("Hotel").
				First(&room).
				Error
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					ctx.Status(http.StatusNotFound)
					return
				}
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": room})
		}).
		GET("/rooms/:id/availability", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			var query types.AvailabilityQueryParams
			if err := ctx.ShouldBindQuery(&query); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			checkIn, checkOut, err := utils.ParseStayDates(query.CheckIn, query.CheckOut)
			if err != nil || !checkOut.After(checkIn) {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid stay window"})
				return
			}
			db := db.GetDb()
			var available uint
			err = db.Transaction(func(tx *gorm.DB) error {
				available, err = utils.ComputeAvailability(tx, params.ID, checkIn, checkOut)
				return err
			})
			if err != nil {
				if errors.Is(err, utils.ErrRoomNotFound) {
					ctx.Status(http.StatusNotFound)
					return
				}
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{
				"room_id":         params.ID,
				"check_in":        query.CheckIn,
				"check_out":       query.CheckOut,
				"available_units": available,
			})
		})
	return apiv1
}

// hotelAdminHandlers manage the catalogue. Slugs are derived from the hotel
// name on create and never recomputed after that.
func hotelAdminHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		POST("/hotels", func(ctx *gin.Context) {
			var body types.CreateHotelRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			hotel := models.Hotel{
				Name:         body.Name,
				Slug:         slug.Make(body.Name),
				About:        body.About,
				Location:     body.Location,
				ContactEmail: body.ContactEmail,
			}
			db := db.GetDb()
			if err := db.Create(&hotel).Error; err != nil {
				log.Printf("Error creating Hotel: %s\n", err.Error())
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{"id": hotel.ID, "slug": hotel.Slug})
		}).
		PUT("/hotels/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			var body types.CreateHotelRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			db := db.GetDb()
			res := db.
				Model(&models.Hotel{}).
				Where(&models.Hotel{ID: params.ID}).
				Updates(&models.Hotel{
					Name:         body.Name,
					About:        body.About,
					Location:     body.Location,
					ContactEmail: body.ContactEmail,
				})
			if res.Error != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": res.Error.Error()})
				return
			}
			if res.RowsAffected == 0 {
				ctx.Status(http.StatusNotFound)
				return
			}
			ctx.Status(http.StatusNoContent)
		}).
		POST("/rooms", func(ctx *gin.Context) {
			var body types.CreateRoomRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			db := db.GetDb()
			var room models.Room
			err := db.Transaction(func(tx *gorm.DB) error {
				var hotel models.Hotel
				if err := tx.Where(&models.Hotel{ID: body.HotelID}).First(&hotel).Error; err != nil {
					return err
				}
				room = models.Room{
					HotelID:    hotel.ID,
					Name:       body.Name,
					TotalUnits: body.TotalUnits,
					Price:      body.Price,
					Currency:   body.Currency,
					Capacity:   body.Capacity,
				}
				return tx.Create(&room).Error
			})
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					ctx.Status(http.StatusNotFound)
					return
				}
				log.Printf("Error creating Room: %s\n", err.Error())
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{"id": room.ID})
		}).
		PUT("/rooms/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			var body types.CreateRoomRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			db := db.GetDb()
			res := db.
				Model(&models.Room{}).
				Where(&models.Room{ID: params.ID}).
				Updates(&models.Room{
					Name:       body.Name,
					TotalUnits: body.TotalUnits,
					Price:      body.Price,
					Currency:   body.Currency,
					Capacity:   body.Capacity,
				})
			if res.Error != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": res.Error.Error()})
				return
			}
			if res.RowsAffected == 0 {
				ctx.Status(http.StatusNotFound)
				return
			}
			ctx.Status(http.StatusNoContent)
		}).
		DELETE("/rooms/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			db := db.GetDb()
			res := db.Delete(&models.Room{}, params.ID)
			if res.Error != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": res.Error.Error()})
				return
			}
			if res.RowsAffected == 0 {
				ctx.Status(http.StatusNotFound)
				return
			}
			ctx.Status(http.StatusNoContent)
		})
	return g
}

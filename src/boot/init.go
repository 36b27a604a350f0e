package boot

import (
	"log"
	"time"

	"hbs/src/config"
	"hbs/src/db"
	"hbs/src/lib"
	"hbs/src/models"
	"hbs/src/utils"

	"gorm.io/gorm"
)

func InitDb() *gorm.DB {
	db := db.GetDb()

	err := db.AutoMigrate(
		&models.User{},
		&models.Hotel{},
		&models.Room{},
		&models.Booking{},
		&models.Payment{},
	)
	if err != nil {
		log.Fatalf("error migration: %s", err.Error())
	}

	return db
}

// InitScheduler starts the in-process expiry sweep. The HTTP cron endpoint
// covers deployments that prefer an external trigger; both paths run the same
// sweep and tolerate each other.
func InitScheduler() {
	sched, err := lib.GetScheduler()
	if err != nil {
		log.Println("An error has occurred. Check logs for info")
		return
	}
	id, err := lib.CreateCronJob(func() {
		expired, err := utils.ExpireStalePayments(config.PaymentTimeout())
		if err != nil {
			log.Printf("Error running payment sweep: %s\n", err.Error())
			return
		}
		log.Printf("[sweep] expired %d stale payments\n", expired)
	}, 1*time.Hour)
	if err != nil {
		log.Printf("Error running job: %s\n", err.Error())
		return
	}
	log.Printf("Job ID: %s\n", *id)
	sched.Start()
}

func StopScheduler() {
	sched, err := lib.GetScheduler()
	if err != nil {
		log.Println("Error retrieving Scheduler. Check logs for info")
		return
	}
	err = sched.Shutdown()
	if err != nil {
		log.Println("An error has occurred while shutting stopping Scheduler. Check logs for info")
		return
	}
}

package storage

import (
	"log"
	"os"

	"meetings-server/models"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func connectToDB() *gorm.DB {
	// Only load .env in development
	if os.Getenv("RENDER") == "" {
		err := godotenv.Load()
		if err != nil {
			log.Println("Warning: Could not load .env file (this is normal in production)")
		}
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Panic("DB_CONNECTION_STRING environment variable is required")
	}

	db, dbError := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if dbError != nil {
		log.Panic("error connection to db: " + dbError.Error())
	}

	DB = db
	return db
}

// Migrate creates the schema and seeds the fixed lookup rows. Exposed so
// tests can run it against their own database handle.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.Department{},
		&models.User{},
		&models.MeetingStatus{},
		&models.MeetingLocation{},
		&models.MeetingPriority{},
		&models.Meeting{},
		&models.MeetingParticipant{},
		&models.MeetingFinishNote{},
		&models.MeetingAttachment{},
		&models.MeetingReminder{},
		&models.Notification{},
		&models.AuditLog{},
	)
	if err != nil {
		return err
	}
	return seedStatuses(db)
}

// seedStatuses inserts the three meeting statuses when missing. Ids are fixed
// by convention (Scheduled=1, Completed=2, Cancelled=3) so existing data keeps
// meaning across redeploys.
func seedStatuses(db *gorm.DB) error {
	seed := []models.MeetingStatus{
		{ID: 1, Status: models.StatusScheduled},
		{ID: 2, Status: models.StatusCompleted},
		{ID: 3, Status: models.StatusCancelled},
	}
	for _, s := range seed {
		var existing models.MeetingStatus
		if err := db.Where("status = ?", s.Status).First(&existing).Error; err == nil {
			continue
		}
		if err := db.Create(&s).Error; err != nil {
			return err
		}
	}
	return nil
}

func InitializeDB() *gorm.DB {
	db := connectToDB()
	if err := Migrate(db); err != nil {
		log.Panic("error migrating db: " + err.Error())
	}
	return db
}

package services

import (
	"fmt"

	"meetings-server/models"

	"gorm.io/gorm"
)

// StatusIDs is the closed status enum resolved to row ids once at startup.
// Request handlers never search for a status by name or guess an id.
type StatusIDs struct {
	Scheduled uint
	Completed uint
	Cancelled uint
}

var statusIDs StatusIDs

// InitStatuses resolves the three meeting statuses against the database and
// fails fast when any is missing. Must run after migration, before serving.
func InitStatuses(db *gorm.DB) error {
	resolve := func(name string) (uint, error) {
		var s models.MeetingStatus
		if err := db.Where("status = ?", name).First(&s).Error; err != nil {
			return 0, fmt.Errorf("meeting status %q not found: %w", name, err)
		}
		return s.ID, nil
	}

	var ids StatusIDs
	var err error
	if ids.Scheduled, err = resolve(models.StatusScheduled); err != nil {
		return err
	}
	if ids.Completed, err = resolve(models.StatusCompleted); err != nil {
		return err
	}
	if ids.Cancelled, err = resolve(models.StatusCancelled); err != nil {
		return err
	}

	statusIDs = ids
	return nil
}

// Statuses returns the resolved id mapping.
func Statuses() StatusIDs {
	return statusIDs
}

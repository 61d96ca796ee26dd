package models

import "time"

// Meeting type values.
const (
	MeetingTypeInternal = "internal"
	MeetingTypeExternal = "external"
)

// MeetingStatus names. Rows are seeded at startup; the id mapping is resolved
// once by services.InitStatuses and never guessed per request.
const (
	StatusScheduled = "Scheduled"
	StatusCompleted = "Completed"
	StatusCancelled = "Cancelled"
)

type MeetingStatus struct {
	ID     uint   `json:"id" gorm:"primaryKey"`
	Status string `json:"status" gorm:"size:200;not null;uniqueIndex"`
}

type Meeting struct {
	ID          uint   `json:"id" gorm:"primaryKey"`
	Title       string `json:"title" gorm:"size:300;not null"`
	Description string `json:"description" gorm:"size:1000"`

	// Sponsoring entity and free-text agenda points.
	Authority     string `json:"authority" gorm:"size:300"`
	MeetingPoints string `json:"meetingPoints" gorm:"type:text"`

	StartTime time.Time `json:"startTime" gorm:"not null;index"`
	EndTime   time.Time `json:"endTime" gorm:"not null"`

	LocationID *uint            `json:"locationID"`
	Location   *MeetingLocation `json:"location" gorm:"foreignKey:LocationID"`

	PriorityID *uint            `json:"priorityID"`
	Priority   *MeetingPriority `json:"priority" gorm:"foreignKey:PriorityID"`

	MeetingType string `json:"meetingType" gorm:"size:16;default:internal"` // internal, external

	OrganizerID uint `json:"organizerID" gorm:"not null;index"`
	Organizer   User `json:"organizer" gorm:"foreignKey:OrganizerID"`

	RecurrenceRule string `json:"recurrenceRule" gorm:"size:500"` // iCal RRULE, stored opaque
	IsRecurring    bool   `json:"isRecurring" gorm:"default:false"`

	MeetingStatusID uint          `json:"meetingStatusID" gorm:"not null"`
	MeetingStatus   MeetingStatus `json:"meetingStatus" gorm:"foreignKey:MeetingStatusID"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Participants []MeetingParticipant `json:"participants" gorm:"foreignKey:MeetingID;constraint:OnDelete:CASCADE"`
	Attachments  []MeetingAttachment  `json:"attachments" gorm:"foreignKey:MeetingID;constraint:OnDelete:CASCADE"`
	FinishNotes  []MeetingFinishNote  `json:"finishNotes" gorm:"foreignKey:MeetingID;constraint:OnDelete:CASCADE"`
	Reminders    []MeetingReminder    `json:"reminders" gorm:"foreignKey:MeetingID;constraint:OnDelete:CASCADE"`
}

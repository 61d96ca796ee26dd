package models

import "time"

// RSVP states. Pending moves to accepted or declined; accepted and declined
// may flip back and forth, each transition restamping RespondedAt.
const (
	ResponsePending  = "pending"
	ResponseAccepted = "accepted"
	ResponseDeclined = "declined"
)

type MeetingParticipant struct {
	ID        uint    `json:"id" gorm:"primaryKey"`
	MeetingID uint    `json:"meetingID" gorm:"not null;index;uniqueIndex:idx_meeting_user"`
	Meeting   Meeting `json:"-" gorm:"foreignKey:MeetingID"`

	UserID uint `json:"userID" gorm:"not null;index;uniqueIndex:idx_meeting_user"`
	User   User `json:"user" gorm:"foreignKey:UserID"`

	ResponseStatus string `json:"responseStatus" gorm:"size:16;default:pending"` // pending, accepted, declined
	DeclinedReason string `json:"declinedReason" gorm:"size:500"`

	IsOrganizer bool `json:"isOrganizer" gorm:"default:false"`

	// Attendance is written only by the meeting-result roster overwrite,
	// never by the RSVP flow.
	IsAttended bool       `json:"isAttended" gorm:"default:false"`
	AttendedAt *time.Time `json:"attendedAt"`

	InvitedAt   time.Time  `json:"invitedAt"`
	RespondedAt *time.Time `json:"respondedAt"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

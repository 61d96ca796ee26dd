package models

import "time"

// Notification types.
const (
	NotificationInvitation = "invitation"
	NotificationUpdate     = "update"
	NotificationCancelled  = "cancelled"
	NotificationReminder   = "reminder"
)

// Notification is an in-app notification row. Several rows may exist per
// (user, meeting) over time; the reconciler keeps them from piling up unread.
type Notification struct {
	ID     uint `json:"id" gorm:"primaryKey"`
	UserID uint `json:"userID" gorm:"not null;index"`
	User   User `json:"-" gorm:"foreignKey:UserID"`

	MeetingID *uint    `json:"meetingID" gorm:"index"`
	Meeting   *Meeting `json:"-" gorm:"foreignKey:MeetingID;constraint:OnDelete:CASCADE"`

	NotificationType string `json:"notificationType" gorm:"size:32;index"` // invitation, update, cancelled, reminder
	Title            string `json:"title" gorm:"size:300"`
	Message          string `json:"message" gorm:"size:500"`

	IsRead    bool       `json:"isRead" gorm:"default:false"`
	ReadAt    *time.Time `json:"readAt"`
	CreatedAt time.Time  `json:"createdAt"`
}

// MeetingReminder marks when a participant should be nudged about an upcoming
// meeting. Reminders are pulled by the client polling endpoints; no in-process
// scheduler sends them.
type MeetingReminder struct {
	ID        uint    `json:"id" gorm:"primaryKey"`
	MeetingID uint    `json:"meetingID" gorm:"not null;index"`
	Meeting   Meeting `json:"-" gorm:"foreignKey:MeetingID"`

	UserID uint `json:"userID" gorm:"not null;index"`
	User   User `json:"-" gorm:"foreignKey:UserID"`

	ReminderTime time.Time `json:"reminderTime" gorm:"not null"`

	IsSent    bool       `json:"isSent" gorm:"default:false"`
	SentAt    *time.Time `json:"sentAt"`
	CreatedAt time.Time  `json:"createdAt"`
}

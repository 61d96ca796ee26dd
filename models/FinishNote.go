package models

import "time"

// MeetingFinishNote is the post-meeting record written when the organizer
// saves the meeting result.
type MeetingFinishNote struct {
	ID        uint    `json:"id" gorm:"primaryKey"`
	MeetingID uint    `json:"meetingID" gorm:"not null;index"`
	Meeting   Meeting `json:"-" gorm:"foreignKey:MeetingID"`

	UserID uint `json:"userID" gorm:"not null"`
	User   User `json:"user" gorm:"foreignKey:UserID"`

	NoteContent string `json:"noteContent" gorm:"type:text;not null"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Attachments []MeetingAttachment `json:"attachments" gorm:"foreignKey:FinishNoteID"`
}

type MeetingAttachment struct {
	ID        uint    `json:"id" gorm:"primaryKey"`
	MeetingID uint    `json:"meetingID" gorm:"not null;index"`
	Meeting   Meeting `json:"-" gorm:"foreignKey:MeetingID"`

	FinishNoteID *uint `json:"finishNoteID" gorm:"index"`

	FileName    string `json:"fileName" gorm:"size:300;not null"`
	FilePath    string `json:"filePath" gorm:"size:1000;not null"`
	FileSize    int64  `json:"fileSize"`
	ContentType string `json:"contentType" gorm:"size:200"`

	UploadedBy uint `json:"uploadedBy" gorm:"not null"`
	Uploader   User `json:"uploader" gorm:"foreignKey:UploadedBy"`

	UploadedAt time.Time `json:"uploadedAt"`
}

package services

import (
	"time"

	"meetings-server/models"
)

// MeetingView is the read-optimized shape returned by the meeting service.
// Relations are flattened so callers never walk lazy object graphs.
type MeetingView struct {
	ID            uint   `json:"id"`
	Title         string `json:"title"`
	Description   string `json:"description"`
	Authority     string `json:"authority"`
	MeetingPoints string `json:"meetingPoints"`

	StartTime time.Time `json:"startTime"`
	EndTime   time.Time `json:"endTime"`

	LocationID *uint  `json:"locationID"`
	Location   string `json:"location,omitempty"`

	PriorityID    *uint  `json:"priorityID"`
	Priority      string `json:"priority,omitempty"`
	PriorityColor string `json:"priorityColor,omitempty"`

	MeetingType string `json:"meetingType"`

	OrganizerID           uint   `json:"organizerID"`
	OrganizerName         string `json:"organizerName"`
	OrganizerDepartmentID *uint  `json:"organizerDepartmentID"`

	RecurrenceRule string `json:"recurrenceRule"`
	IsRecurring    bool   `json:"isRecurring"`

	MeetingStatusID uint   `json:"meetingStatusID"`
	Status          string `json:"status"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Participants []ParticipantView `json:"participants"`
	Attachments  []AttachmentView  `json:"attachments"`
	FinishNotes  []FinishNoteView  `json:"finishNotes"`
}

type ParticipantView struct {
	UserID         uint       `json:"userID"`
	Name           string     `json:"name"`
	UserName       string     `json:"userName"`
	Email          string     `json:"email"`
	ResponseStatus string     `json:"responseStatus"`
	DeclinedReason string     `json:"declinedReason,omitempty"`
	IsOrganizer    bool       `json:"isOrganizer"`
	IsAttended     bool       `json:"isAttended"`
	AttendedAt     *time.Time `json:"attendedAt"`
	InvitedAt      time.Time  `json:"invitedAt"`
	RespondedAt    *time.Time `json:"respondedAt"`
}

type AttachmentView struct {
	ID           uint      `json:"id"`
	FinishNoteID *uint     `json:"finishNoteID"`
	FileName     string    `json:"fileName"`
	FilePath     string    `json:"filePath"`
	FileSize     int64     `json:"fileSize"`
	ContentType  string    `json:"contentType"`
	UploadedBy   string    `json:"uploadedBy"`
	UploadedAt   time.Time `json:"uploadedAt"`
}

type FinishNoteView struct {
	ID          uint             `json:"id"`
	MeetingID   uint             `json:"meetingID"`
	UserID      uint             `json:"userID"`
	CreatedBy   string           `json:"createdBy"`
	NoteContent string           `json:"noteContent"`
	CreatedAt   time.Time        `json:"createdAt"`
	UpdatedAt   time.Time        `json:"updatedAt"`
	Attachments []AttachmentView `json:"attachments"`
}

// AcceptedParticipant is the named result for the accepted-roster listing
// used when recording attendance.
type AcceptedParticipant struct {
	UserID     uint   `json:"userId"`
	UserName   string `json:"userName"`
	Name       string `json:"name"`
	IsAttended bool   `json:"isAttended"`
}

func participantView(p models.MeetingParticipant) ParticipantView {
	return ParticipantView{
		UserID:         p.UserID,
		Name:           p.User.Name(),
		UserName:       p.User.UserName,
		Email:          p.User.Email,
		ResponseStatus: p.ResponseStatus,
		DeclinedReason: p.DeclinedReason,
		IsOrganizer:    p.IsOrganizer,
		IsAttended:     p.IsAttended,
		AttendedAt:     p.AttendedAt,
		InvitedAt:      p.InvitedAt,
		RespondedAt:    p.RespondedAt,
	}
}

func attachmentView(a models.MeetingAttachment) AttachmentView {
	uploadedBy := a.Uploader.Name()
	if uploadedBy == "" {
		uploadedBy = a.Uploader.Email
	}
	return AttachmentView{
		ID:           a.ID,
		FinishNoteID: a.FinishNoteID,
		FileName:     a.FileName,
		FilePath:     a.FilePath,
		FileSize:     a.FileSize,
		ContentType:  a.ContentType,
		UploadedBy:   uploadedBy,
		UploadedAt:   a.UploadedAt,
	}
}

func meetingView(m models.Meeting, organizerDeptID *uint) *MeetingView {
	view := &MeetingView{
		ID:                    m.ID,
		Title:                 m.Title,
		Description:           m.Description,
		Authority:             m.Authority,
		MeetingPoints:         m.MeetingPoints,
		StartTime:             m.StartTime,
		EndTime:               m.EndTime,
		LocationID:            m.LocationID,
		PriorityID:            m.PriorityID,
		MeetingType:           m.MeetingType,
		OrganizerID:           m.OrganizerID,
		OrganizerName:         m.Organizer.Name(),
		OrganizerDepartmentID: organizerDeptID,
		RecurrenceRule:        m.RecurrenceRule,
		IsRecurring:           m.IsRecurring,
		MeetingStatusID:       m.MeetingStatusID,
		Status:                m.MeetingStatus.Status,
		CreatedAt:             m.CreatedAt,
		UpdatedAt:             m.UpdatedAt,
		Participants:          make([]ParticipantView, 0, len(m.Participants)),
		Attachments:           make([]AttachmentView, 0, len(m.Attachments)),
		FinishNotes:           make([]FinishNoteView, 0, len(m.FinishNotes)),
	}
	if m.Location != nil {
		view.Location = m.Location.Location
	}
	if m.Priority != nil {
		view.Priority = m.Priority.Priority
		view.PriorityColor = m.Priority.PriorityColor
	}
	for _, p := range m.Participants {
		view.Participants = append(view.Participants, participantView(p))
	}
	for _, a := range m.Attachments {
		view.Attachments = append(view.Attachments, attachmentView(a))
	}
	for _, n := range m.FinishNotes {
		note := FinishNoteView{
			ID:          n.ID,
			MeetingID:   n.MeetingID,
			UserID:      n.UserID,
			CreatedBy:   n.User.Name(),
			NoteContent: n.NoteContent,
			CreatedAt:   n.CreatedAt,
			UpdatedAt:   n.UpdatedAt,
			Attachments: make([]AttachmentView, 0),
		}
		for _, a := range m.Attachments {
			if a.FinishNoteID != nil && *a.FinishNoteID == n.ID {
				note.Attachments = append(note.Attachments, attachmentView(a))
			}
		}
		view.FinishNotes = append(view.FinishNotes, note)
	}
	return view
}

package services

import (
	"fmt"
	"io"
	"os"
	"time"

	"gorm.io/gorm"

	"meetings-server/models"
	"meetings-server/storage"
	"meetings-server/utils"
)

// Actor identifies the authenticated caller. Handlers build it from token
// claims and pass it down explicitly; services never read ambient request
// state.
type Actor struct {
	ID           uint
	Role         string
	DepartmentID *uint
}

type MeetingService struct{}

func NewMeetingService() MeetingService {
	return MeetingService{}
}

type CreateMeetingInput struct {
	Title         string `json:"title" validate:"required,max=300"`
	Description   string `json:"description" validate:"max=1000"`
	Authority     string `json:"authority" validate:"max=300"`
	MeetingPoints string `json:"meetingPoints"`

	StartTime time.Time `json:"startTime" validate:"required"`
	EndTime   time.Time `json:"endTime" validate:"required"`

	LocationID *uint `json:"locationID"`
	PriorityID *uint `json:"priorityID"`

	MeetingType string `json:"meetingType" validate:"omitempty,oneof=internal external"`

	RecurrenceRule string `json:"recurrenceRule" validate:"max=500"`
	IsRecurring    bool   `json:"isRecurring"`

	ParticipantIDs []uint `json:"participantIDs"`
}

type UpdateMeetingInput struct {
	Title         string `json:"title" validate:"max=300"`
	Description   string `json:"description" validate:"max=1000"`
	Authority     string `json:"authority" validate:"max=300"`
	MeetingPoints string `json:"meetingPoints"`

	StartTime time.Time `json:"startTime" validate:"required"`
	EndTime   time.Time `json:"endTime" validate:"required"`

	LocationID *uint `json:"locationID"`
	PriorityID *uint `json:"priorityID"`

	MeetingType string `json:"meetingType" validate:"required,oneof=internal external"`

	RecurrenceRule string `json:"recurrenceRule" validate:"max=500"`
	IsRecurring    bool   `json:"isRecurring"`

	MeetingStatusID uint `json:"meetingStatusID"`

	ParticipantIDs []uint `json:"participantIDs"`
}

// canManage reports whether the actor may modify the meeting. Only the
// organizer and admins can.
func canManage(actor Actor, m *models.Meeting) bool {
	if actor.ID == m.OrganizerID {
		return true
	}
	return actor.Role == models.RoleAdmin || actor.Role == models.RoleSuperAdmin
}

// Create stores a new meeting, its organizer row and its invited participants
// in one transaction. Notifications are written after commit and never fail
// the creation.
func (s MeetingService) Create(actor Actor, input CreateMeetingInput) (*MeetingView, error) {
	if !input.EndTime.After(input.StartTime) {
		return nil, fmt.Errorf("%w: endTime must be after startTime", ErrValidation)
	}

	meetingType := input.MeetingType
	if meetingType == "" {
		meetingType = models.MeetingTypeInternal
	}

	meeting := models.Meeting{
		Title:           input.Title,
		Description:     input.Description,
		Authority:       input.Authority,
		MeetingPoints:   input.MeetingPoints,
		StartTime:       input.StartTime,
		EndTime:         input.EndTime,
		LocationID:      input.LocationID,
		PriorityID:      input.PriorityID,
		MeetingType:     meetingType,
		OrganizerID:     actor.ID,
		RecurrenceRule:  input.RecurrenceRule,
		IsRecurring:     input.IsRecurring,
		MeetingStatusID: Statuses().Scheduled,
	}

	var added []uint
	err := storage.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&meeting).Error; err != nil {
			return err
		}

		now := time.Now()
		organizer := models.MeetingParticipant{
			MeetingID:      meeting.ID,
			UserID:         actor.ID,
			ResponseStatus: models.ResponseAccepted,
			IsOrganizer:    true,
			InvitedAt:      now,
			RespondedAt:    &now,
		}
		if err := tx.Create(&organizer).Error; err != nil {
			return err
		}

		var err error
		added, _, err = syncParticipants(tx, meeting.ID, actor.ID, input.ParticipantIDs)
		return err
	})
	if err != nil {
		return nil, err
	}

	// Everyone on the meeting, organizer included, gets an invitation.
	NewNotificationService().CreateForMeeting(&meeting, append(added, actor.ID))

	return s.GetByID(meeting.ID)
}

// Update patches an existing meeting and re-syncs its participant set.
// Participants kept across the update keep their response state untouched.
func (s MeetingService) Update(actor Actor, meetingID uint, input UpdateMeetingInput) (*MeetingView, error) {
	if !input.EndTime.After(input.StartTime) {
		return nil, fmt.Errorf("%w: endTime must be after startTime", ErrValidation)
	}

	var meeting models.Meeting
	var added, removed []uint
	err := storage.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&meeting, meetingID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return ErrNotFound
			}
			return err
		}
		if !canManage(actor, &meeting) {
			return ErrForbidden
		}

		// Blank optional text fields mean "leave unchanged"; times,
		// references and flags are always overwritten.
		if input.Title != "" {
			meeting.Title = input.Title
		}
		if input.Description != "" {
			meeting.Description = input.Description
		}
		if input.Authority != "" {
			meeting.Authority = input.Authority
		}
		if input.MeetingPoints != "" {
			meeting.MeetingPoints = input.MeetingPoints
		}
		if input.RecurrenceRule != "" {
			meeting.RecurrenceRule = input.RecurrenceRule
		}
		meeting.StartTime = input.StartTime
		meeting.EndTime = input.EndTime
		meeting.LocationID = input.LocationID
		meeting.PriorityID = input.PriorityID
		meeting.MeetingType = input.MeetingType
		meeting.IsRecurring = input.IsRecurring
		if input.MeetingStatusID > 0 {
			meeting.MeetingStatusID = input.MeetingStatusID
		} else {
			meeting.MeetingStatusID = Statuses().Scheduled
		}

		if err := tx.Save(&meeting).Error; err != nil {
			return err
		}

		var err error
		added, removed, err = syncParticipants(tx, meeting.ID, meeting.OrganizerID, input.ParticipantIDs)
		return err
	})
	if err != nil {
		return nil, err
	}

	NewNotificationService().UpdateForMeeting(&meeting, added, removed)

	return s.GetByID(meeting.ID)
}

// Cancel marks the meeting cancelled and retracts outstanding invitation and
// update notifications in favor of a single cancellation notice per user.
func (s MeetingService) Cancel(actor Actor, meetingID uint) error {
	var meeting models.Meeting
	err := storage.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&meeting, meetingID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return ErrNotFound
			}
			return err
		}
		if !canManage(actor, &meeting) {
			return ErrForbidden
		}

		meeting.MeetingStatusID = Statuses().Cancelled
		return tx.Save(&meeting).Error
	})
	if err != nil {
		return err
	}

	NewNotificationService().ReconcileCancellation(&meeting)
	return nil
}

// Delete removes the meeting and every dependent row. Children are deleted
// explicitly so the operation does not depend on database-level cascades.
func (s MeetingService) Delete(actor Actor, meetingID uint) error {
	return storage.DB.Transaction(func(tx *gorm.DB) error {
		var meeting models.Meeting
		if err := tx.First(&meeting, meetingID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return ErrNotFound
			}
			return err
		}
		if !canManage(actor, &meeting) {
			return ErrForbidden
		}

		for _, child := range []interface{}{
			&models.MeetingParticipant{},
			&models.MeetingAttachment{},
			&models.MeetingFinishNote{},
			&models.MeetingReminder{},
			&models.Notification{},
		} {
			if err := tx.Where("meeting_id = ?", meetingID).Delete(child).Error; err != nil {
				return err
			}
		}

		return tx.Delete(&models.Meeting{}, meetingID).Error
	})
}

// RespondToInvitation records or changes the actor's RSVP. Declining always
// requires a reason; accepting clears any earlier one.
func (s MeetingService) RespondToInvitation(actor Actor, meetingID uint, status string, reason string) error {
	if status != models.ResponseAccepted && status != models.ResponseDeclined {
		return fmt.Errorf("%w: status must be accepted or declined", ErrValidation)
	}
	if status == models.ResponseDeclined && reason == "" {
		return fmt.Errorf("%w: a reason is required when declining", ErrValidation)
	}

	return storage.DB.Transaction(func(tx *gorm.DB) error {
		var meeting models.Meeting
		if err := tx.First(&meeting, meetingID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return ErrNotFound
			}
			return err
		}
		if meeting.MeetingStatusID == Statuses().Cancelled {
			return fmt.Errorf("%w: meeting is cancelled", ErrValidation)
		}

		var participant models.MeetingParticipant
		err := tx.Where("meeting_id = ? AND user_id = ?", meetingID, actor.ID).First(&participant).Error
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return ErrNotFound
			}
			return err
		}

		now := time.Now()
		participant.ResponseStatus = status
		participant.RespondedAt = &now
		if status == models.ResponseAccepted {
			participant.DeclinedReason = ""
		} else {
			participant.DeclinedReason = reason
		}
		return tx.Save(&participant).Error
	})
}

type AttendanceEntry struct {
	UserID     uint `json:"userId" validate:"required"`
	IsAttended bool `json:"isAttended"`
}

// ResultAttachment carries one uploaded file into SaveResult. Content must be
// seekable so the signature check can rewind before the copy to disk.
type ResultAttachment struct {
	FileName    string
	ContentType string
	Size        int64
	Content     io.ReadSeeker
}

type SaveResultInput struct {
	NoteContent string            `json:"noteContent" validate:"required"`
	Attendance  []AttendanceEntry `json:"attendance"`
	Attachments []ResultAttachment
}

func validateAttachment(a ResultAttachment) error {
	if a.Size > utils.MaxAttachmentSize {
		return fmt.Errorf("%w: file %q exceeds the %d byte limit", ErrValidation, a.FileName, utils.MaxAttachmentSize)
	}
	if !utils.AllowedAttachmentExtension(a.FileName) {
		return fmt.Errorf("%w: file %q has a disallowed extension", ErrValidation, a.FileName)
	}
	if !utils.AllowedAttachmentContentType(a.ContentType) {
		return fmt.Errorf("%w: file %q has a disallowed content type %q", ErrValidation, a.FileName, a.ContentType)
	}

	head := make([]byte, 8)
	n, err := a.Content.Read(head)
	if err != nil && err != io.EOF {
		return err
	}
	if _, err := a.Content.Seek(0, io.SeekStart); err != nil {
		return err
	}
	if !utils.ValidFileSignature(a.FileName, head[:n]) {
		return fmt.Errorf("%w: file %q content does not match its extension", ErrValidation, a.FileName)
	}
	return nil
}

// SaveResult records the meeting outcome: a finish note, the attendance
// roster and any attachments, then marks the meeting completed. Every
// attachment is validated before any file touches disk, and each file is
// written before its metadata row so the table never references a missing
// file.
func (s MeetingService) SaveResult(actor Actor, meetingID uint, input SaveResultInput) error {
	for _, a := range input.Attachments {
		if err := validateAttachment(a); err != nil {
			return err
		}
	}

	var savedPaths []string
	err := storage.DB.Transaction(func(tx *gorm.DB) error {
		var meeting models.Meeting
		if err := tx.First(&meeting, meetingID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return ErrNotFound
			}
			return err
		}
		if !canManage(actor, &meeting) {
			return ErrForbidden
		}

		note := models.MeetingFinishNote{
			MeetingID:   meetingID,
			UserID:      actor.ID,
			NoteContent: input.NoteContent,
		}
		if err := tx.Create(&note).Error; err != nil {
			return err
		}

		now := time.Now()
		for _, a := range input.Attachments {
			path, err := storage.SaveUpload(a.FileName, a.Content)
			if err != nil {
				return err
			}
			savedPaths = append(savedPaths, path)

			attachment := models.MeetingAttachment{
				MeetingID:    meetingID,
				FinishNoteID: &note.ID,
				FileName:     a.FileName,
				FilePath:     path,
				FileSize:     a.Size,
				ContentType:  a.ContentType,
				UploadedBy:   actor.ID,
				UploadedAt:   now,
			}
			if err := tx.Create(&attachment).Error; err != nil {
				return err
			}
		}

		// Attendance is a full overwrite: everyone is reset, then the
		// submitted entries are applied.
		if err := tx.Model(&models.MeetingParticipant{}).
			Where("meeting_id = ?", meetingID).
			Updates(map[string]interface{}{"is_attended": false, "attended_at": nil}).Error; err != nil {
			return err
		}
		for _, entry := range input.Attendance {
			if !entry.IsAttended {
				continue
			}
			if err := tx.Model(&models.MeetingParticipant{}).
				Where("meeting_id = ? AND user_id = ?", meetingID, entry.UserID).
				Updates(map[string]interface{}{"is_attended": true, "attended_at": now}).Error; err != nil {
				return err
			}
		}

		meeting.MeetingStatusID = Statuses().Completed
		return tx.Save(&meeting).Error
	})
	if err != nil {
		for _, path := range savedPaths {
			os.Remove(path)
		}
		return err
	}
	return nil
}

func withMeetingPreloads(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Organizer").
		Preload("MeetingStatus").
		Preload("Location").
		Preload("Priority").
		Preload("Participants.User").
		Preload("Attachments.Uploader").
		Preload("FinishNotes.User")
}

func (s MeetingService) GetByID(meetingID uint) (*MeetingView, error) {
	var meeting models.Meeting
	err := withMeetingPreloads(storage.DB).First(&meeting, meetingID).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return meetingView(meeting, meeting.Organizer.DepartmentID), nil
}

func viewsOf(meetings []models.Meeting) []MeetingView {
	views := make([]MeetingView, 0, len(meetings))
	for _, m := range meetings {
		views = append(views, *meetingView(m, m.Organizer.DepartmentID))
	}
	return views
}

func (s MeetingService) GetAll() ([]MeetingView, error) {
	var meetings []models.Meeting
	err := withMeetingPreloads(storage.DB).Order("start_time desc").Find(&meetings).Error
	if err != nil {
		return nil, err
	}
	return viewsOf(meetings), nil
}

// GetForUser returns meetings the user organizes or is invited to.
func (s MeetingService) GetForUser(userID uint) ([]MeetingView, error) {
	var meetings []models.Meeting
	err := withMeetingPreloads(storage.DB).
		Where("id IN (SELECT meeting_id FROM meeting_participants WHERE user_id = ?)", userID).
		Order("start_time desc").
		Find(&meetings).Error
	if err != nil {
		return nil, err
	}
	return viewsOf(meetings), nil
}

func (s MeetingService) GetByDateRange(from, to time.Time) ([]MeetingView, error) {
	var meetings []models.Meeting
	err := withMeetingPreloads(storage.DB).
		Where("start_time >= ? AND start_time < ?", from, to).
		Order("start_time asc").
		Find(&meetings).Error
	if err != nil {
		return nil, err
	}
	return viewsOf(meetings), nil
}

func (s MeetingService) GetTodayForUser(userID uint) ([]MeetingView, error) {
	now := time.Now()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	dayEnd := dayStart.Add(24 * time.Hour)

	var meetings []models.Meeting
	err := withMeetingPreloads(storage.DB).
		Where("id IN (SELECT meeting_id FROM meeting_participants WHERE user_id = ?)", userID).
		Where("start_time >= ? AND start_time < ?", dayStart, dayEnd).
		Where("meeting_status_id <> ?", Statuses().Cancelled).
		Order("start_time asc").
		Find(&meetings).Error
	if err != nil {
		return nil, err
	}
	return viewsOf(meetings), nil
}

// GetByDepartment returns meetings whose organizer belongs to the department.
func (s MeetingService) GetByDepartment(departmentID uint) ([]MeetingView, error) {
	var meetings []models.Meeting
	err := withMeetingPreloads(storage.DB).
		Where("organizer_id IN (SELECT id FROM users WHERE department_id = ?)", departmentID).
		Order("start_time desc").
		Find(&meetings).Error
	if err != nil {
		return nil, err
	}
	return viewsOf(meetings), nil
}

// AcceptedParticipants lists the roster eligible for attendance marking.
func (s MeetingService) AcceptedParticipants(meetingID uint) ([]AcceptedParticipant, error) {
	var participants []models.MeetingParticipant
	err := storage.DB.Preload("User").
		Where("meeting_id = ? AND response_status = ?", meetingID, models.ResponseAccepted).
		Find(&participants).Error
	if err != nil {
		return nil, err
	}

	roster := make([]AcceptedParticipant, 0, len(participants))
	for _, p := range participants {
		roster = append(roster, AcceptedParticipant{
			UserID:     p.UserID,
			UserName:   p.User.UserName,
			Name:       p.User.Name(),
			IsAttended: p.IsAttended,
		})
	}
	return roster, nil
}

func (s MeetingService) GetParticipant(meetingID, userID uint) (*ParticipantView, error) {
	var participant models.MeetingParticipant
	err := storage.DB.Preload("User").
		Where("meeting_id = ? AND user_id = ?", meetingID, userID).
		First(&participant).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}
	view := participantView(participant)
	return &view, nil
}

// syncParticipants reconciles the stored non-organizer participant rows with
// the requested user id set. Zero ids, the organizer and duplicates are
// dropped from the request first. Removed users are hard-deleted, new users
// are inserted as pending, and everyone else keeps their response untouched.
func syncParticipants(tx *gorm.DB, meetingID, organizerID uint, userIDs []uint) (added []uint, removed []uint, err error) {
	desired := make(map[uint]bool, len(userIDs))
	for _, id := range userIDs {
		if id == 0 || id == organizerID {
			continue
		}
		desired[id] = true
	}

	var existing []models.MeetingParticipant
	if err := tx.Where("meeting_id = ? AND is_organizer = ?", meetingID, false).Find(&existing).Error; err != nil {
		return nil, nil, err
	}

	current := make(map[uint]bool, len(existing))
	for _, p := range existing {
		current[p.UserID] = true
		if !desired[p.UserID] {
			removed = append(removed, p.UserID)
		}
	}
	if len(removed) > 0 {
		if err := tx.Where("meeting_id = ? AND user_id IN ?", meetingID, removed).
			Delete(&models.MeetingParticipant{}).Error; err != nil {
			return nil, nil, err
		}
	}

	now := time.Now()
	for _, id := range userIDs {
		if id == 0 || id == organizerID || current[id] {
			continue
		}
		current[id] = true
		participant := models.MeetingParticipant{
			MeetingID:      meetingID,
			UserID:         id,
			ResponseStatus: models.ResponsePending,
			InvitedAt:      now,
		}
		if err := tx.Create(&participant).Error; err != nil {
			return nil, nil, err
		}
		added = append(added, id)
	}

	return added, removed, nil
}

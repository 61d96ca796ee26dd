package services

import (
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"

	"meetings-server/models"
	"meetings-server/storage"
)

type NotificationService struct{}

func NewNotificationService() NotificationService {
	return NotificationService{}
}

func invitationMessage(m *models.Meeting) (string, string) {
	return "Meeting invitation",
		fmt.Sprintf("You have been invited to %q on %s", m.Title, m.StartTime.Format("02 Jan 2006 15:04"))
}

func updateMessage(m *models.Meeting) (string, string) {
	return "Meeting updated",
		fmt.Sprintf("The meeting %q has been updated, now scheduled for %s", m.Title, m.StartTime.Format("02 Jan 2006 15:04"))
}

func cancelledMessage(m *models.Meeting) (string, string) {
	return "Meeting cancelled",
		fmt.Sprintf("The meeting %q scheduled for %s has been cancelled", m.Title, m.StartTime.Format("02 Jan 2006 15:04"))
}

// CreateForMeeting writes invitation notifications for freshly invited users.
// Failures are logged and skipped; notification delivery never fails the
// meeting operation that triggered it.
func (s NotificationService) CreateForMeeting(m *models.Meeting, userIDs []uint) {
	meetingID := m.ID
	title, message := invitationMessage(m)
	for _, userID := range userIDs {
		notification := models.Notification{
			UserID:           userID,
			MeetingID:        &meetingID,
			NotificationType: models.NotificationInvitation,
			Title:            title,
			Message:          message,
		}
		if err := storage.DB.Create(&notification).Error; err != nil {
			log.Println("Failed to create invitation notification for user", userID, "meeting", meetingID, ":", err)
		}
	}
}

// UpdateForMeeting reconciles notifications after a meeting edit. Users
// removed from the meeting lose their rows for it, newly added users get an
// invitation, and the remaining participants get an update notice unless
// they already have an unread row for this meeting, so repeated edits never
// pile up unread noise.
func (s NotificationService) UpdateForMeeting(m *models.Meeting, added, removed []uint) {
	if len(removed) > 0 {
		err := storage.DB.Where("meeting_id = ? AND user_id IN ?", m.ID, removed).
			Delete(&models.Notification{}).Error
		if err != nil {
			log.Println("Failed to delete notifications for removed participants of meeting", m.ID, ":", err)
		}
	}

	s.CreateForMeeting(m, added)

	isNew := make(map[uint]bool, len(added))
	for _, id := range added {
		isNew[id] = true
	}

	var participants []models.MeetingParticipant
	if err := storage.DB.Where("meeting_id = ?", m.ID).
		Find(&participants).Error; err != nil {
		log.Println("Failed to load participants for meeting", m.ID, ":", err)
		return
	}

	meetingID := m.ID
	title, message := updateMessage(m)
	for _, p := range participants {
		if isNew[p.UserID] {
			continue
		}

		var unread int64
		err := storage.DB.Model(&models.Notification{}).
			Where("meeting_id = ? AND user_id = ? AND is_read = ?", m.ID, p.UserID, false).
			Count(&unread).Error
		if err != nil {
			log.Println("Failed to count unread notifications for user", p.UserID, "meeting", m.ID, ":", err)
			continue
		}
		if unread > 0 {
			continue
		}

		notification := models.Notification{
			UserID:           p.UserID,
			MeetingID:        &meetingID,
			NotificationType: models.NotificationUpdate,
			Title:            title,
			Message:          message,
		}
		if err := storage.DB.Create(&notification).Error; err != nil {
			log.Println("Failed to create update notification for user", p.UserID, "meeting", meetingID, ":", err)
		}
	}
}

// ReconcileCancellation replaces whatever notifications a participant holds
// for the meeting with exactly one fresh cancellation notice. An existing row
// is converted in place rather than stacked on, so a user who never read the
// invitation sees only the cancellation.
func (s NotificationService) ReconcileCancellation(m *models.Meeting) {
	var participants []models.MeetingParticipant
	if err := storage.DB.Where("meeting_id = ?", m.ID).
		Find(&participants).Error; err != nil {
		log.Println("Failed to load participants for meeting", m.ID, ":", err)
		return
	}

	meetingID := m.ID
	title, message := cancelledMessage(m)
	for _, p := range participants {
		var rows []models.Notification
		err := storage.DB.Where("meeting_id = ? AND user_id = ?", m.ID, p.UserID).
			Order("created_at desc, id desc").
			Find(&rows).Error
		if err != nil {
			log.Println("Failed to load notifications for user", p.UserID, "meeting", m.ID, ":", err)
			continue
		}

		if len(rows) == 0 {
			notification := models.Notification{
				UserID:           p.UserID,
				MeetingID:        &meetingID,
				NotificationType: models.NotificationCancelled,
				Title:            title,
				Message:          message,
			}
			if err := storage.DB.Create(&notification).Error; err != nil {
				log.Println("Failed to create cancellation notification for user", p.UserID, "meeting", meetingID, ":", err)
			}
			continue
		}

		keep := rows[0]
		keep.NotificationType = models.NotificationCancelled
		keep.Title = title
		keep.Message = message
		keep.IsRead = false
		keep.ReadAt = nil
		keep.CreatedAt = time.Now()
		if err := storage.DB.Save(&keep).Error; err != nil {
			log.Println("Failed to convert notification", keep.ID, "to cancellation:", err)
			continue
		}

		for _, stale := range rows[1:] {
			if err := storage.DB.Delete(&models.Notification{}, stale.ID).Error; err != nil {
				log.Println("Failed to delete stale notification", stale.ID, ":", err)
			}
		}
	}
}

// NotificationMeetingView carries the meeting summary shown alongside a
// notification, including the recipient's own RSVP for that meeting.
type NotificationMeetingView struct {
	ID             uint      `json:"id"`
	Title          string    `json:"title"`
	StartTime      time.Time `json:"startTime"`
	EndTime        time.Time `json:"endTime"`
	Location       string    `json:"location"`
	ResponseStatus string    `json:"responseStatus"`
}

type NotificationView struct {
	ID               uint                     `json:"id"`
	MeetingID        *uint                    `json:"meetingID"`
	Meeting          *NotificationMeetingView `json:"meeting"`
	NotificationType string                   `json:"notificationType"`
	Title            string                   `json:"title"`
	Message          string                   `json:"message"`
	IsRead           bool                     `json:"isRead"`
	ReadAt           *time.Time               `json:"readAt"`
	CreatedAt        time.Time                `json:"createdAt"`
}

func notificationView(n models.Notification, responseByMeeting map[uint]string) NotificationView {
	view := NotificationView{
		ID:               n.ID,
		MeetingID:        n.MeetingID,
		NotificationType: n.NotificationType,
		Title:            n.Title,
		Message:          n.Message,
		IsRead:           n.IsRead,
		ReadAt:           n.ReadAt,
		CreatedAt:        n.CreatedAt,
	}
	if n.Meeting != nil {
		meeting := NotificationMeetingView{
			ID:             n.Meeting.ID,
			Title:          n.Meeting.Title,
			StartTime:      n.Meeting.StartTime,
			EndTime:        n.Meeting.EndTime,
			ResponseStatus: responseByMeeting[n.Meeting.ID],
		}
		if n.Meeting.Location != nil {
			meeting.Location = n.Meeting.Location.Location
		}
		view.Meeting = &meeting
	}
	return view
}

func responseStatusesFor(userID uint) (map[uint]string, error) {
	var rows []models.MeetingParticipant
	if err := storage.DB.Where("user_id = ?", userID).Find(&rows).Error; err != nil {
		return nil, err
	}
	statuses := make(map[uint]string, len(rows))
	for _, row := range rows {
		statuses[row.MeetingID] = row.ResponseStatus
	}
	return statuses, nil
}

// ListForUser returns the user's notifications, newest first, each enriched
// with the referenced meeting's summary and the user's own RSVP for it.
func (s NotificationService) ListForUser(userID uint, unreadOnly bool) ([]NotificationView, error) {
	query := storage.DB.Preload("Meeting.Location").Where("user_id = ?", userID)
	if unreadOnly {
		query = query.Where("is_read = ?", false)
	}

	var rows []models.Notification
	if err := query.Order("created_at desc, id desc").Find(&rows).Error; err != nil {
		return nil, err
	}

	statuses, err := responseStatusesFor(userID)
	if err != nil {
		return nil, err
	}

	views := make([]NotificationView, 0, len(rows))
	for _, n := range rows {
		views = append(views, notificationView(n, statuses))
	}
	return views, nil
}

// GetByID returns one of the user's notifications with the same meeting
// enrichment as ListForUser. Users can only read their own rows.
func (s NotificationService) GetByID(userID, notificationID uint) (NotificationView, error) {
	var n models.Notification
	err := storage.DB.Preload("Meeting.Location").First(&n, notificationID).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return NotificationView{}, ErrNotFound
		}
		return NotificationView{}, err
	}
	if n.UserID != userID {
		return NotificationView{}, ErrForbidden
	}

	statuses, err := responseStatusesFor(userID)
	if err != nil {
		return NotificationView{}, err
	}
	return notificationView(n, statuses), nil
}

func (s NotificationService) UnreadCount(userID uint) (int64, error) {
	var count int64
	err := storage.DB.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&count).Error
	return count, err
}

// MarkRead marks one notification read. Users can only touch their own rows.
func (s NotificationService) MarkRead(userID, notificationID uint) error {
	var notification models.Notification
	err := storage.DB.First(&notification, notificationID).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return ErrNotFound
		}
		return err
	}
	if notification.UserID != userID {
		return ErrForbidden
	}
	if notification.IsRead {
		return nil
	}

	now := time.Now()
	notification.IsRead = true
	notification.ReadAt = &now
	return storage.DB.Save(&notification).Error
}

func (s NotificationService) MarkAllRead(userID uint) error {
	now := time.Now()
	return storage.DB.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Updates(map[string]interface{}{"is_read": true, "read_at": now}).Error
}

// UpcomingForUser returns the user's non-cancelled meetings starting within
// the window, used by the client-side reminder poll. Each returned meeting is
// stamped with a sent reminder row so onlyNew polls alert at most once.
func (s NotificationService) UpcomingForUser(userID uint, window time.Duration, onlyNew bool) ([]MeetingView, error) {
	if window <= 0 {
		window = 30 * time.Minute
	}
	now := time.Now()

	var meetings []models.Meeting
	query := withMeetingPreloads(storage.DB).
		Where("id IN (SELECT meeting_id FROM meeting_participants WHERE user_id = ?)", userID).
		Where("start_time > ? AND start_time <= ?", now, now.Add(window)).
		Where("meeting_status_id <> ?", Statuses().Cancelled).
		Order("start_time asc")
	if onlyNew {
		query = query.Where("id NOT IN (SELECT meeting_id FROM meeting_reminders WHERE user_id = ? AND is_sent = ?)", userID, true)
	}
	if err := query.Find(&meetings).Error; err != nil {
		return nil, err
	}

	for _, m := range meetings {
		var existing models.MeetingReminder
		err := storage.DB.Where("meeting_id = ? AND user_id = ?", m.ID, userID).First(&existing).Error
		if err == gorm.ErrRecordNotFound {
			reminder := models.MeetingReminder{
				MeetingID:    m.ID,
				UserID:       userID,
				ReminderTime: m.StartTime,
				IsSent:       true,
				SentAt:       &now,
			}
			if err := storage.DB.Create(&reminder).Error; err != nil {
				log.Println("Failed to record reminder for user", userID, "meeting", m.ID, ":", err)
			}
		}
	}

	return viewsOf(meetings), nil
}

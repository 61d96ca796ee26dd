package services

import (
	"errors"
	"testing"
	"time"

	"meetings-server/models"
	"meetings-server/storage"
)

func TestMarkReadOwnership(t *testing.T) {
	setupTestDB(t)

	organizer := createTestUser(t, "organizer", models.RoleUser, nil)
	invitee := createTestUser(t, "invitee", models.RoleUser, nil)
	snoop := createTestUser(t, "snoop", models.RoleUser, nil)

	svc := NewMeetingService()
	_, err := svc.Create(Actor{ID: organizer.ID, Role: organizer.Role}, baseMeetingInput(invitee.ID))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	notificationService := NewNotificationService()
	list, err := notificationService.ListForUser(invitee.ID, false)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 || list[0].IsRead {
		t.Fatalf("expected 1 unread notification, got %+v", list)
	}

	// Only the owner may mark it read.
	if err := notificationService.MarkRead(snoop.ID, list[0].ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}

	if err := notificationService.MarkRead(invitee.ID, list[0].ID); err != nil {
		t.Fatalf("mark read: %v", err)
	}

	count, err := notificationService.UnreadCount(invitee.ID)
	if err != nil {
		t.Fatalf("unread count: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected 0 unread, got %d", count)
	}

	// Marking twice is a no-op, not an error.
	if err := notificationService.MarkRead(invitee.ID, list[0].ID); err != nil {
		t.Fatalf("second mark read: %v", err)
	}

	if err := notificationService.MarkRead(invitee.ID, 9999); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListForUserEnrichmentAndUnreadFilter(t *testing.T) {
	setupTestDB(t)

	department := createTestDepartment(t, "Engineering")
	location := models.MeetingLocation{Location: "Board room", DepartmentID: department.ID}
	if err := storage.DB.Create(&location).Error; err != nil {
		t.Fatalf("create location: %v", err)
	}

	organizer := createTestUser(t, "organizer", models.RoleUser, nil)
	invitee := createTestUser(t, "invitee", models.RoleUser, nil)

	svc := NewMeetingService()
	actor := Actor{ID: organizer.ID, Role: organizer.Role}

	input := baseMeetingInput(invitee.ID)
	input.LocationID = &location.ID
	meeting, err := svc.Create(actor, input)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	notificationService := NewNotificationService()
	if err := svc.RespondToInvitation(Actor{ID: invitee.ID, Role: invitee.Role}, meeting.ID, models.ResponseAccepted, ""); err != nil {
		t.Fatalf("respond: %v", err)
	}

	list, err := notificationService.ListForUser(invitee.ID, false)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(list))
	}
	enriched := list[0]
	if enriched.Meeting == nil {
		t.Fatalf("expected meeting enrichment, got %+v", enriched)
	}
	if enriched.Meeting.Title != meeting.Title || enriched.Meeting.Location != "Board room" {
		t.Fatalf("wrong meeting summary: %+v", enriched.Meeting)
	}
	if !enriched.Meeting.StartTime.Equal(meeting.StartTime) || !enriched.Meeting.EndTime.Equal(meeting.EndTime) {
		t.Fatalf("wrong meeting times: %+v", enriched.Meeting)
	}
	if enriched.Meeting.ResponseStatus != models.ResponseAccepted {
		t.Fatalf("expected accepted response status, got %q", enriched.Meeting.ResponseStatus)
	}

	if err := notificationService.MarkRead(invitee.ID, enriched.ID); err != nil {
		t.Fatalf("mark read: %v", err)
	}

	unread, err := notificationService.ListForUser(invitee.ID, true)
	if err != nil {
		t.Fatalf("unread list: %v", err)
	}
	if len(unread) != 0 {
		t.Fatalf("expected no unread notifications, got %d", len(unread))
	}
	all, err := notificationService.ListForUser(invitee.ID, false)
	if err != nil {
		t.Fatalf("full list: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("read notification should still list, got %d", len(all))
	}

	single, err := notificationService.GetByID(invitee.ID, enriched.ID)
	if err != nil {
		t.Fatalf("get by id: %v", err)
	}
	if single.Meeting == nil || single.Meeting.ID != meeting.ID {
		t.Fatalf("expected enriched single notification, got %+v", single)
	}
	if _, err := notificationService.GetByID(organizer.ID, enriched.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for foreign notification, got %v", err)
	}
	if _, err := notificationService.GetByID(invitee.ID, 9999); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUpcomingForUserWindow(t *testing.T) {
	setupTestDB(t)

	organizer := createTestUser(t, "organizer", models.RoleUser, nil)
	actor := Actor{ID: organizer.ID, Role: organizer.Role}
	svc := NewMeetingService()

	soon := baseMeetingInput()
	soon.Title = "Soon"
	soon.StartTime = time.Now().Add(10 * time.Minute)
	soon.EndTime = soon.StartTime.Add(time.Hour)
	soonMeeting, err := svc.Create(actor, soon)
	if err != nil {
		t.Fatalf("create soon: %v", err)
	}

	far := baseMeetingInput()
	far.Title = "Far"
	far.StartTime = time.Now().Add(3 * time.Hour)
	far.EndTime = far.StartTime.Add(time.Hour)
	if _, err := svc.Create(actor, far); err != nil {
		t.Fatalf("create far: %v", err)
	}

	cancelled := baseMeetingInput()
	cancelled.Title = "Cancelled"
	cancelled.StartTime = time.Now().Add(15 * time.Minute)
	cancelled.EndTime = cancelled.StartTime.Add(time.Hour)
	cancelledMeeting, err := svc.Create(actor, cancelled)
	if err != nil {
		t.Fatalf("create cancelled: %v", err)
	}
	if err := svc.Cancel(actor, cancelledMeeting.ID); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	notificationService := NewNotificationService()
	upcoming, err := notificationService.UpcomingForUser(organizer.ID, 30*time.Minute, false)
	if err != nil {
		t.Fatalf("upcoming: %v", err)
	}
	if len(upcoming) != 1 || upcoming[0].ID != soonMeeting.ID {
		t.Fatalf("expected only the soon meeting, got %+v", upcoming)
	}

	// The poll stamped a sent reminder, so an onlyNew poll goes quiet.
	var reminders int64
	storage.DB.Model(&models.MeetingReminder{}).
		Where("meeting_id = ? AND user_id = ? AND is_sent = ?", soonMeeting.ID, organizer.ID, true).
		Count(&reminders)
	if reminders != 1 {
		t.Fatalf("expected 1 sent reminder, got %d", reminders)
	}

	quiet, err := notificationService.UpcomingForUser(organizer.ID, 30*time.Minute, true)
	if err != nil {
		t.Fatalf("onlyNew upcoming: %v", err)
	}
	if len(quiet) != 0 {
		t.Fatalf("expected no new reminders, got %d", len(quiet))
	}
}

func TestTodayForUserSkipsCancelled(t *testing.T) {
	setupTestDB(t)

	organizer := createTestUser(t, "organizer", models.RoleUser, nil)
	actor := Actor{ID: organizer.ID, Role: organizer.Role}
	svc := NewMeetingService()

	today := baseMeetingInput()
	today.StartTime = time.Now().Add(time.Minute)
	today.EndTime = today.StartTime.Add(30 * time.Minute)
	todayMeeting, err := svc.Create(actor, today)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	tomorrow := baseMeetingInput()
	tomorrow.StartTime = time.Now().Add(26 * time.Hour)
	tomorrow.EndTime = tomorrow.StartTime.Add(time.Hour)
	if _, err := svc.Create(actor, tomorrow); err != nil {
		t.Fatalf("create tomorrow: %v", err)
	}

	got, err := svc.GetTodayForUser(organizer.ID)
	if err != nil {
		t.Fatalf("today: %v", err)
	}
	if len(got) != 1 || got[0].ID != todayMeeting.ID {
		t.Fatalf("expected only today's meeting, got %d", len(got))
	}

	if err := svc.Cancel(actor, todayMeeting.ID); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	got, err = svc.GetTodayForUser(organizer.ID)
	if err != nil {
		t.Fatalf("today after cancel: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("cancelled meeting should not appear, got %d", len(got))
	}

	// The organizer's own invitation row was converted, not duplicated.
	var rows []models.Notification
	storage.DB.Where("meeting_id = ? AND user_id = ?", todayMeeting.ID, organizer.ID).Find(&rows)
	if len(rows) != 1 || rows[0].NotificationType != models.NotificationCancelled {
		t.Fatalf("expected 1 converted cancellation row, got %+v", rows)
	}
}

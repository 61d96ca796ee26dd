package routes

import (
	"time"

	"meetings-server/services"
	"meetings-server/utils"

	"github.com/kataras/iris/v12"
)

func GetNotifications(ctx iris.Context) {
	unreadOnly := ctx.URLParamDefault("unreadOnly", "") == "true"

	actor := actorFromContext(ctx)
	notificationService := services.NewNotificationService()
	notifications, err := notificationService.ListForUser(actor.ID, unreadOnly)
	if err != nil {
		surfaceServiceError(err, ctx)
		return
	}
	ctx.JSON(notifications)
}

func GetNotificationByID(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "Bad Request", "invalid notification id", ctx)
		return
	}

	actor := actorFromContext(ctx)
	notificationService := services.NewNotificationService()
	notification, err := notificationService.GetByID(actor.ID, id)
	if err != nil {
		surfaceServiceError(err, ctx)
		return
	}
	ctx.JSON(notification)
}

func GetUnreadCount(ctx iris.Context) {
	actor := actorFromContext(ctx)
	notificationService := services.NewNotificationService()
	count, err := notificationService.UnreadCount(actor.ID)
	if err != nil {
		surfaceServiceError(err, ctx)
		return
	}
	ctx.JSON(iris.Map{"count": count})
}

func MarkNotificationRead(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "Bad Request", "invalid notification id", ctx)
		return
	}

	actor := actorFromContext(ctx)
	notificationService := services.NewNotificationService()
	if err := notificationService.MarkRead(actor.ID, id); err != nil {
		surfaceServiceError(err, ctx)
		return
	}
	ctx.StatusCode(iris.StatusNoContent)
}

func MarkAllNotificationsRead(ctx iris.Context) {
	actor := actorFromContext(ctx)
	notificationService := services.NewNotificationService()
	if err := notificationService.MarkAllRead(actor.ID); err != nil {
		surfaceServiceError(err, ctx)
		return
	}
	ctx.StatusCode(iris.StatusNoContent)
}

// GetUpcomingMeetings backs the client reminder poll: meetings starting
// within the next windowMinutes (default 30). onlyNew=true suppresses
// meetings already reminded about.
func GetUpcomingMeetings(ctx iris.Context) {
	windowMinutes := ctx.URLParamIntDefault("windowMinutes", 30)
	onlyNew := ctx.URLParamDefault("onlyNew", "") == "true"

	actor := actorFromContext(ctx)
	notificationService := services.NewNotificationService()
	meetings, err := notificationService.UpcomingForUser(actor.ID, time.Duration(windowMinutes)*time.Minute, onlyNew)
	if err != nil {
		surfaceServiceError(err, ctx)
		return
	}
	ctx.JSON(meetings)
}

package routes

import (
	"errors"
	"time"

	"meetings-server/services"
	"meetings-server/utils"

	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
)

func actorFromContext(ctx iris.Context) services.Actor {
	claims := jwt.Get(ctx).(*utils.AccessToken)
	return services.Actor{
		ID:           claims.ID,
		Role:         claims.Role,
		DepartmentID: claims.DepartmentID,
	}
}

// surfaceServiceError maps service sentinels onto HTTP responses so every
// handler reports failures the same way.
func surfaceServiceError(err error, ctx iris.Context) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		utils.CreateNotFound(ctx)
	case errors.Is(err, services.ErrForbidden):
		utils.CreateForbidden(ctx)
	case errors.Is(err, services.ErrValidation):
		utils.CreateError(iris.StatusUnprocessableEntity, "Validation Error", err.Error(), ctx)
	default:
		utils.CreateInternalServerError(ctx)
	}
}

func CreateMeeting(ctx iris.Context) {
	var input services.CreateMeetingInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	actor := actorFromContext(ctx)
	meetingService := services.NewMeetingService()
	meeting, err := meetingService.Create(actor, input)
	if err != nil {
		surfaceServiceError(err, ctx)
		return
	}

	utils.Audit(ctx, "meeting.create", "meeting", meeting.ID, nil, meeting)

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(meeting)
}

// GetMeetings lists meetings according to the caller's visibility:
// super admins see all, department heads see theirs plus their department's,
// everyone else sees only their own.
func GetMeetings(ctx iris.Context) {
	actor := actorFromContext(ctx)
	meetingService := services.NewMeetingService()
	meetings, err := meetingService.VisibleMeetings(actor)
	if err != nil {
		surfaceServiceError(err, ctx)
		return
	}
	ctx.JSON(meetings)
}

func GetMeetingByID(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "Bad Request", "invalid meeting id", ctx)
		return
	}

	meetingService := services.NewMeetingService()
	meeting, err := meetingService.GetByID(id)
	if err != nil {
		surfaceServiceError(err, ctx)
		return
	}
	ctx.JSON(meeting)
}

func UpdateMeeting(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "Bad Request", "invalid meeting id", ctx)
		return
	}

	var input services.UpdateMeetingInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	actor := actorFromContext(ctx)
	meetingService := services.NewMeetingService()

	before, beforeErr := meetingService.GetByID(id)
	if beforeErr != nil {
		surfaceServiceError(beforeErr, ctx)
		return
	}

	meeting, err := meetingService.Update(actor, id, input)
	if err != nil {
		surfaceServiceError(err, ctx)
		return
	}

	utils.Audit(ctx, "meeting.update", "meeting", meeting.ID, before, meeting)

	ctx.JSON(meeting)
}

func DeleteMeeting(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "Bad Request", "invalid meeting id", ctx)
		return
	}

	actor := actorFromContext(ctx)
	meetingService := services.NewMeetingService()

	before, beforeErr := meetingService.GetByID(id)
	if beforeErr != nil {
		surfaceServiceError(beforeErr, ctx)
		return
	}

	if err := meetingService.Delete(actor, id); err != nil {
		surfaceServiceError(err, ctx)
		return
	}

	utils.Audit(ctx, "meeting.delete", "meeting", id, before, nil)

	ctx.StatusCode(iris.StatusNoContent)
}

func CancelMeeting(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "Bad Request", "invalid meeting id", ctx)
		return
	}

	actor := actorFromContext(ctx)
	meetingService := services.NewMeetingService()
	if err := meetingService.Cancel(actor, id); err != nil {
		surfaceServiceError(err, ctx)
		return
	}

	utils.Audit(ctx, "meeting.cancel", "meeting", id, nil, nil)

	ctx.StatusCode(iris.StatusNoContent)
}

type RespondInput struct {
	Status string `json:"status" validate:"required,oneof=accepted declined"`
	Reason string `json:"reason" validate:"max=500"`
}

// RespondToMeeting records the caller's RSVP for the meeting.
func RespondToMeeting(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "Bad Request", "invalid meeting id", ctx)
		return
	}

	var input RespondInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	actor := actorFromContext(ctx)
	meetingService := services.NewMeetingService()
	if err := meetingService.RespondToInvitation(actor, id, input.Status, input.Reason); err != nil {
		surfaceServiceError(err, ctx)
		return
	}

	participant, err := meetingService.GetParticipant(id, actor.ID)
	if err != nil {
		surfaceServiceError(err, ctx)
		return
	}
	ctx.JSON(participant)
}

// GetMeetingParticipant returns one participant row for a meeting.
func GetMeetingParticipant(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "Bad Request", "invalid meeting id", ctx)
		return
	}
	userID, err := ctx.Params().GetUint("userID")
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "Bad Request", "invalid user id", ctx)
		return
	}

	meetingService := services.NewMeetingService()
	participant, err := meetingService.GetParticipant(id, userID)
	if err != nil {
		surfaceServiceError(err, ctx)
		return
	}
	ctx.JSON(participant)
}

func GetMyMeetings(ctx iris.Context) {
	actor := actorFromContext(ctx)
	meetingService := services.NewMeetingService()
	meetings, err := meetingService.GetForUser(actor.ID)
	if err != nil {
		surfaceServiceError(err, ctx)
		return
	}
	ctx.JSON(meetings)
}

func GetTodayMeetings(ctx iris.Context) {
	actor := actorFromContext(ctx)
	meetingService := services.NewMeetingService()
	meetings, err := meetingService.GetTodayForUser(actor.ID)
	if err != nil {
		surfaceServiceError(err, ctx)
		return
	}
	ctx.JSON(meetings)
}

// GetMeetingsByRange lists meetings starting inside [from, to), both bounds
// RFC 3339 timestamps.
func GetMeetingsByRange(ctx iris.Context) {
	fromParam := ctx.URLParam("from")
	toParam := ctx.URLParam("to")

	from, fromErr := time.Parse(time.RFC3339, fromParam)
	to, toErr := time.Parse(time.RFC3339, toParam)
	if fromErr != nil || toErr != nil || !to.After(from) {
		utils.CreateError(iris.StatusBadRequest, "Bad Request", "from and to must be RFC3339 timestamps with to after from", ctx)
		return
	}

	meetingService := services.NewMeetingService()
	meetings, err := meetingService.GetByDateRange(from, to)
	if err != nil {
		surfaceServiceError(err, ctx)
		return
	}
	ctx.JSON(meetings)
}

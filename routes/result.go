package routes

import (
	"encoding/json"
	"mime/multipart"
	"path/filepath"

	"meetings-server/models"
	"meetings-server/services"
	"meetings-server/storage"
	"meetings-server/utils"

	"github.com/kataras/iris/v12"
)

const maxResultFormMemory = 32 << 20

// SaveMeetingResult closes out a meeting from a multipart form: a noteContent
// field, an attendance field holding a JSON array of {userId, isAttended},
// and zero or more files under "attachments". The whole submission is
// rejected before anything is stored if any file fails validation.
func SaveMeetingResult(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "Bad Request", "invalid meeting id", ctx)
		return
	}

	if err := ctx.Request().ParseMultipartForm(maxResultFormMemory); err != nil {
		utils.CreateError(iris.StatusBadRequest, "Bad Request", "invalid multipart form", ctx)
		return
	}

	input := services.SaveResultInput{
		NoteContent: ctx.FormValue("noteContent"),
	}
	if input.NoteContent == "" {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "noteContent is required", ctx)
		return
	}

	if attendanceRaw := ctx.FormValue("attendance"); attendanceRaw != "" {
		if err := json.Unmarshal([]byte(attendanceRaw), &input.Attendance); err != nil {
			utils.CreateError(iris.StatusBadRequest, "Validation Error", "attendance must be a JSON array", ctx)
			return
		}
	}

	form := ctx.Request().MultipartForm
	var opened []multipart.File
	defer func() {
		for _, f := range opened {
			f.Close()
		}
	}()
	if form != nil {
		for _, header := range form.File["attachments"] {
			file, openErr := header.Open()
			if openErr != nil {
				utils.CreateInternalServerError(ctx)
				return
			}
			opened = append(opened, file)

			input.Attachments = append(input.Attachments, services.ResultAttachment{
				FileName:    filepath.Base(header.Filename),
				ContentType: header.Header.Get("Content-Type"),
				Size:        header.Size,
				Content:     file,
			})
		}
	}

	actor := actorFromContext(ctx)
	meetingService := services.NewMeetingService()
	if err := meetingService.SaveResult(actor, id, input); err != nil {
		surfaceServiceError(err, ctx)
		return
	}

	utils.Audit(ctx, "meeting.save_result", "meeting", id, nil, nil)

	meeting, err := meetingService.GetByID(id)
	if err != nil {
		surfaceServiceError(err, ctx)
		return
	}
	ctx.JSON(meeting)
}

// GetAcceptedParticipants lists the roster the result form marks attendance
// against.
func GetAcceptedParticipants(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "Bad Request", "invalid meeting id", ctx)
		return
	}

	meetingService := services.NewMeetingService()
	roster, err := meetingService.AcceptedParticipants(id)
	if err != nil {
		surfaceServiceError(err, ctx)
		return
	}
	ctx.JSON(roster)
}

// DownloadAttachment streams a stored meeting attachment back to the client.
func DownloadAttachment(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "Bad Request", "invalid attachment id", ctx)
		return
	}

	var attachment models.MeetingAttachment
	if err := storage.DB.First(&attachment, id).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	ctx.Header("Content-Type", attachment.ContentType)
	if err := ctx.SendFile(attachment.FilePath, attachment.FileName); err != nil {
		utils.CreateInternalServerError(ctx)
	}
}

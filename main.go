package main

import (
	"fmt"
	"log"
	"os"

	"meetings-server/routes"
	"meetings-server/services"
	"meetings-server/storage"
	"meetings-server/utils"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
)

func main() {
	// Only load .env in development
	if os.Getenv("RENDER") == "" {
		godotenv.Load()
	}

	db := storage.InitializeDB()
	storage.InitializeRedis()
	storage.InitializeUploads()

	// The status table must resolve before any request is served.
	if err := services.InitStatuses(db); err != nil {
		log.Fatalf("meeting statuses not resolvable: %v", err)
	}

	app := iris.New()
	app.Validator = validator.New()

	// CORS configuration
	app.AllowMethods(iris.MethodOptions)
	app.UseRouter(func(ctx iris.Context) {
		ctx.Header("Access-Control-Allow-Origin", ctx.GetHeader("Origin"))
		ctx.Header("Vary", "Origin")
		ctx.Header("Access-Control-Allow-Credentials", "true")
		ctx.Header("Access-Control-Allow-Headers", "Authorization, Content-Type, X-Requested-With")
		ctx.Header("Access-Control-Allow-Methods", "GET,POST,PATCH,PUT,DELETE,OPTIONS")
		if ctx.Method() == iris.MethodOptions {
			ctx.StatusCode(iris.StatusNoContent)
			return
		}
		ctx.Next()
	})

	app.Use(iris.Compression)

	accessTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("ACCESS_TOKEN_SECRET")))
	accessTokenVerifier.WithDefaultBlocklist()
	accessTokenVerifierMiddleware := accessTokenVerifier.Verify(func() interface{} {
		return new(utils.AccessToken)
	})

	refreshTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("REFRESH_TOKEN_SECRET")))
	refreshTokenVerifier.WithDefaultBlocklist()
	refreshTokenVerifierMiddleware := refreshTokenVerifier.Verify(func() interface{} {
		return new(jwt.Claims)
	})

	refreshTokenVerifier.Extractors = append(refreshTokenVerifier.Extractors, func(ctx iris.Context) string {
		var tokenInput utils.RefreshTokenInput
		err := ctx.ReadJSON(&tokenInput)
		if err != nil {
			return ""
		}
		return tokenInput.RefreshToken
	})

	app.Get("/health", func(ctx iris.Context) {
		ctx.JSON(iris.Map{"status": "ok"})
	})

	user := app.Party("/api/user")
	{
		user.Post("/register", routes.Register)
		user.Post("/login", routes.Login)
		user.Get("/me", accessTokenVerifierMiddleware, routes.GetCurrentUser)
		user.Get("/search", accessTokenVerifierMiddleware, routes.SearchUsers)
		user.Patch("/pushtoken", accessTokenVerifierMiddleware, routes.AlterPushToken)
		user.Patch("/settings/notifications", accessTokenVerifierMiddleware, routes.AllowsNotifications)
	}

	meetings := app.Party("/api/meetings", accessTokenVerifierMiddleware)
	{
		meetings.Post("/", routes.CreateMeeting)
		meetings.Get("/", routes.GetMeetings)
		meetings.Get("/mine", routes.GetMyMeetings)
		meetings.Get("/today", routes.GetTodayMeetings)
		meetings.Get("/daterange", routes.GetMeetingsByRange)
		meetings.Get("/{id:uint}", routes.GetMeetingByID)
		meetings.Put("/{id:uint}", routes.UpdateMeeting)
		meetings.Delete("/{id:uint}", routes.DeleteMeeting)
		meetings.Post("/{id:uint}/cancel", routes.CancelMeeting)
		meetings.Post("/{id:uint}/rsvp", routes.RespondToMeeting)
		meetings.Get("/{id:uint}/participants/{userID:uint}", routes.GetMeetingParticipant)
		meetings.Get("/{id:uint}/accepted-participants", routes.GetAcceptedParticipants)
		meetings.Post("/{id:uint}/result", routes.SaveMeetingResult)
	}

	attachments := app.Party("/api/attachments", accessTokenVerifierMiddleware)
	{
		attachments.Get("/{id:uint}/download", routes.DownloadAttachment)
	}

	notifications := app.Party("/api/notifications", accessTokenVerifierMiddleware)
	{
		notifications.Get("/", routes.GetNotifications)
		notifications.Get("/unread-count", routes.GetUnreadCount)
		notifications.Get("/{id:uint}", routes.GetNotificationByID)
		notifications.Post("/{id:uint}/read", routes.MarkNotificationRead)
		notifications.Post("/read-all", routes.MarkAllNotificationsRead)
		notifications.Get("/today-meetings", routes.GetTodayMeetings)
		notifications.Get("/upcoming-meetings", routes.GetUpcomingMeetings)
	}

	directory := app.Party("/api/directory", accessTokenVerifierMiddleware)
	{
		directory.Get("/departments", routes.GetDepartments)
		directory.Get("/locations", routes.GetLocations)
		directory.Get("/priorities", routes.GetPriorities)
	}

	admin := app.Party("/api/admin", accessTokenVerifierMiddleware, utils.AdminOnlyMiddleware)
	{
		admin.Get("/users", routes.AdminListUsers)
		admin.Get("/users/{id:uint}", routes.AdminGetUser)
		admin.Patch("/users/{id:uint}/role", utils.SuperAdminOnlyMiddleware, routes.AdminChangeUserRole)
		admin.Patch("/users/{id:uint}/department", routes.AdminChangeUserDepartment)

		admin.Post("/departments", routes.CreateDepartment)
		admin.Patch("/departments/{id:uint}", routes.UpdateDepartment)
		admin.Delete("/departments/{id:uint}", routes.DeleteDepartment)

		admin.Post("/locations", routes.CreateLocation)
		admin.Delete("/locations/{id:uint}", routes.DeleteLocation)

		admin.Post("/priorities", routes.CreatePriority)
		admin.Delete("/priorities/{id:uint}", routes.DeletePriority)

		admin.Get("/audit", routes.AdminListAuditLogs)
	}

	app.Post("/api/refresh", refreshTokenVerifierMiddleware, utils.RefreshToken)

	port := os.Getenv("PORT")
	if port == "" {
		port = "4000"
	}
	addr := "0.0.0.0:" + port
	fmt.Printf("Server starting on %s\n", addr)

	if err := app.Listen(addr); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

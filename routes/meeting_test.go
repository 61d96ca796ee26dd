package routes

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"

	"meetings-server/models"
	"meetings-server/storage"
	"meetings-server/utils"
)

func buildMeetingTestApp() *iris.Application {
	os.Setenv("ACCESS_TOKEN_SECRET", "testsecret")
	app := iris.New()
	app.Validator = validator.New()

	accessTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("ACCESS_TOKEN_SECRET")))
	accessTokenVerifierMiddleware := accessTokenVerifier.Verify(func() interface{} { return new(utils.AccessToken) })

	meetings := app.Party("/api/meetings", accessTokenVerifierMiddleware)
	{
		meetings.Post("/", CreateMeeting)
	}
	if err := app.Build(); err != nil {
		panic(err)
	}
	return app
}

func TestCreateMeetingValidationFailsWith422(t *testing.T) {
	setupRouteTestDB(t)
	app := buildMeetingTestApp()

	organizer := models.User{UserName: "organizer", Email: "organizer@example.com", Role: models.RoleUser}
	if err := storage.DB.Create(&organizer).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}

	// Tag validation passes but the end-before-start rule in the service
	// rejects it, which must surface as 422 like field-level failures do.
	start := time.Now().Add(2 * time.Hour)
	body := fmt.Sprintf(`{"title":"Standup","startTime":%q,"endTime":%q}`,
		start.Format(time.RFC3339), start.Add(-time.Hour).Format(time.RFC3339))

	req := httptest.NewRequest(http.MethodPost, "/api/meetings", jsonBody(body))
	req.Header.Set("Authorization", "Bearer "+signTestToken(organizer.ID, models.RoleUser))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	app.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d: %s", resp.Code, resp.Body.String())
	}

	var meetings int64
	storage.DB.Model(&models.Meeting{}).Count(&meetings)
	if meetings != 0 {
		t.Fatalf("expected no meeting stored, got %d", meetings)
	}
}

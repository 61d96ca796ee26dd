package utils

import (
	"github.com/go-playground/validator/v10"
	"github.com/kataras/iris/v12"
)

func CreateError(statusCode int, title string, detail string, ctx iris.Context) {
	ctx.StopWithJSON(statusCode, iris.Map{"error": title, "message": detail})
}

func CreateNotFound(ctx iris.Context) {
	CreateError(iris.StatusNotFound, "Not Found", "resource not found", ctx)
}

func CreateForbidden(ctx iris.Context) {
	CreateError(iris.StatusForbidden, "Forbidden", "you do not have access to this resource", ctx)
}

func CreateInternalServerError(ctx iris.Context) {
	CreateError(iris.StatusInternalServerError, "Internal Server Error", "an unexpected error occurred", ctx)
}

// HandleValidationErrors turns validator tag failures into a field-level
// response; any other read error becomes a plain 400.
func HandleValidationErrors(err error, ctx iris.Context) {
	if errs, ok := err.(validator.ValidationErrors); ok {
		validationErrors := make([]iris.Map, 0, len(errs))
		for _, e := range errs {
			validationErrors = append(validationErrors, iris.Map{
				"field": e.Field(),
				"tag":   e.Tag(),
				"value": e.Param(),
			})
		}
		ctx.StopWithJSON(iris.StatusUnprocessableEntity, iris.Map{
			"error":  "Validation Error",
			"fields": validationErrors,
		})
		return
	}
	CreateError(iris.StatusBadRequest, "Bad Request", err.Error(), ctx)
}

// JSONError is the flat error shape the admin surface returns.
func JSONError(ctx iris.Context, status int, code string, message string) {
	ctx.StopWithJSON(status, iris.Map{"error": code, "message": message})
}

type PageMeta struct {
	Page    int   `json:"page"`
	PerPage int   `json:"per_page"`
	Total   int64 `json:"total"`
}

func JSONPage(ctx iris.Context, data interface{}, page, perPage int, total int64) {
	ctx.JSON(iris.Map{
		"data":  data,
		"meta":  PageMeta{Page: page, PerPage: perPage, Total: total},
		"links": iris.Map{},
	})
}

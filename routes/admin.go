package routes

import (
	"net/http"
	"strings"

	"meetings-server/models"
	"meetings-server/storage"
	"meetings-server/utils"

	"github.com/kataras/iris/v12"
	"golang.org/x/exp/slices"
)

var assignableRoles = []string{
	models.RoleSuperAdmin,
	models.RoleAdmin,
	models.RoleOfficeManager,
	models.RoleLeader,
	models.RoleUser,
}

// AdminListUsers - GET /api/admin/users?role=&q=&page=&per_page=
func AdminListUsers(ctx iris.Context) {
	page := ctx.URLParamIntDefault("page", 1)
	perPage := ctx.URLParamIntDefault("per_page", 25)
	if perPage <= 0 || perPage > 100 {
		perPage = 25
	}
	if page <= 0 {
		page = 1
	}

	var users []models.User
	q := strings.TrimSpace(ctx.URLParamDefault("q", ""))
	role := strings.TrimSpace(ctx.URLParamDefault("role", ""))

	query := storage.DB.Model(&models.User{}).Preload("Department")
	if role != "" {
		query = query.Where("role = ?", role)
	}
	if q != "" {
		like := "%" + strings.ToLower(q) + "%"
		query = query.Where("lower(first_name) LIKE ? OR lower(last_name) LIKE ? OR lower(user_name) LIKE ? OR lower(email) LIKE ?",
			like, like, like, like)
	}

	var total int64
	query.Count(&total)
	query = query.Offset((page - 1) * perPage).Limit(perPage)
	if err := query.Find(&users).Error; err != nil {
		utils.JSONError(ctx, http.StatusInternalServerError, "server_error", err.Error())
		return
	}

	utils.JSONPage(ctx, users, page, perPage, total)
}

func AdminGetUser(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.JSONError(ctx, http.StatusBadRequest, "invalid_id", "invalid id")
		return
	}

	var user models.User
	if err := storage.DB.Preload("Department").First(&user, id).Error; err != nil {
		utils.JSONError(ctx, http.StatusNotFound, "not_found", "user not found")
		return
	}

	var actions []models.AuditLog
	storage.DB.Where("actor_user_id = ?", id).Order("created_at DESC").Limit(50).Find(&actions)

	ctx.JSON(iris.Map{
		"data": iris.Map{
			"user":          user,
			"recentActions": actions,
		},
		"meta":  iris.Map{},
		"links": iris.Map{},
	})
}

// AdminChangeUserRole - PATCH /api/admin/users/:id/role (super_admin only)
func AdminChangeUserRole(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		ctx.StopWithJSON(http.StatusBadRequest, iris.Map{"error": "invalid_id"})
		return
	}

	var body struct {
		Role string `json:"role"`
	}
	if err := ctx.ReadJSON(&body); err != nil || !slices.Contains(assignableRoles, body.Role) {
		ctx.StopWithJSON(http.StatusBadRequest, iris.Map{"error": "invalid_role"})
		return
	}

	var user models.User
	if err := storage.DB.First(&user, id).Error; err != nil {
		ctx.StopWithJSON(http.StatusNotFound, iris.Map{"error": "not_found"})
		return
	}

	before := user
	user.Role = body.Role
	if err := storage.DB.Save(&user).Error; err != nil {
		ctx.StopWithJSON(http.StatusInternalServerError, iris.Map{"error": "server_error"})
		return
	}

	utils.Audit(ctx, "user.role_update", "user", user.ID, before, user)

	ctx.JSON(iris.Map{"data": user})
}

// AdminChangeUserDepartment - PATCH /api/admin/users/:id/department
func AdminChangeUserDepartment(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		ctx.StopWithJSON(http.StatusBadRequest, iris.Map{"error": "invalid_id"})
		return
	}

	var body struct {
		DepartmentID *uint `json:"departmentID"`
	}
	if err := ctx.ReadJSON(&body); err != nil {
		ctx.StopWithJSON(http.StatusBadRequest, iris.Map{"error": "invalid_payload"})
		return
	}

	if body.DepartmentID != nil {
		var department models.Department
		if err := storage.DB.First(&department, *body.DepartmentID).Error; err != nil {
			ctx.StopWithJSON(http.StatusNotFound, iris.Map{"error": "department_not_found"})
			return
		}
	}

	var user models.User
	if err := storage.DB.First(&user, id).Error; err != nil {
		ctx.StopWithJSON(http.StatusNotFound, iris.Map{"error": "not_found"})
		return
	}

	before := user
	user.DepartmentID = body.DepartmentID
	if err := storage.DB.Save(&user).Error; err != nil {
		ctx.StopWithJSON(http.StatusInternalServerError, iris.Map{"error": "server_error"})
		return
	}

	utils.Audit(ctx, "user.department_update", "user", user.ID, before, user)

	ctx.JSON(iris.Map{"data": user})
}

type DepartmentInput struct {
	Name        string `json:"name" validate:"required,max=200"`
	Description string `json:"description" validate:"max=1000"`
}

func GetDepartments(ctx iris.Context) {
	var departments []models.Department
	if err := storage.DB.Order("name asc").Find(&departments).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	ctx.JSON(departments)
}

func CreateDepartment(ctx iris.Context) {
	var input DepartmentInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	department := models.Department{Name: input.Name, Description: input.Description}
	if err := storage.DB.Create(&department).Error; err != nil {
		utils.JSONError(ctx, http.StatusConflict, "conflict", "department name already exists")
		return
	}

	utils.Audit(ctx, "department.create", "department", department.ID, nil, department)

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(department)
}

func UpdateDepartment(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.JSONError(ctx, http.StatusBadRequest, "invalid_id", "invalid id")
		return
	}

	var input DepartmentInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	var department models.Department
	if err := storage.DB.First(&department, id).Error; err != nil {
		utils.JSONError(ctx, http.StatusNotFound, "not_found", "department not found")
		return
	}

	before := department
	department.Name = input.Name
	department.Description = input.Description
	if err := storage.DB.Save(&department).Error; err != nil {
		utils.JSONError(ctx, http.StatusInternalServerError, "server_error", err.Error())
		return
	}

	utils.Audit(ctx, "department.update", "department", department.ID, before, department)

	ctx.JSON(department)
}

func DeleteDepartment(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.JSONError(ctx, http.StatusBadRequest, "invalid_id", "invalid id")
		return
	}

	var members int64
	storage.DB.Model(&models.User{}).Where("department_id = ?", id).Count(&members)
	if members > 0 {
		utils.JSONError(ctx, http.StatusConflict, "conflict", "department still has members")
		return
	}

	if err := storage.DB.Delete(&models.Department{}, id).Error; err != nil {
		utils.JSONError(ctx, http.StatusInternalServerError, "server_error", err.Error())
		return
	}

	utils.Audit(ctx, "department.delete", "department", id, nil, nil)

	ctx.StatusCode(iris.StatusNoContent)
}

type LocationInput struct {
	Location     string `json:"location" validate:"required,max=500"`
	DepartmentID uint   `json:"departmentID" validate:"required"`
}

// GetLocations lists active meeting rooms; pass ?all=true to include retired
// ones.
func GetLocations(ctx iris.Context) {
	query := storage.DB.Order("location asc")
	if ctx.URLParamDefault("all", "") != "true" {
		query = query.Where("is_deleted = ?", false)
	}

	var locations []models.MeetingLocation
	if err := query.Find(&locations).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	ctx.JSON(locations)
}

func CreateLocation(ctx iris.Context) {
	var input LocationInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	var department models.Department
	if err := storage.DB.First(&department, input.DepartmentID).Error; err != nil {
		utils.JSONError(ctx, http.StatusNotFound, "department_not_found", "department not found")
		return
	}

	location := models.MeetingLocation{Location: input.Location, DepartmentID: input.DepartmentID}
	if err := storage.DB.Create(&location).Error; err != nil {
		utils.JSONError(ctx, http.StatusInternalServerError, "server_error", err.Error())
		return
	}

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(location)
}

// DeleteLocation retires the room. The row stays so old meetings keep their
// location.
func DeleteLocation(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.JSONError(ctx, http.StatusBadRequest, "invalid_id", "invalid id")
		return
	}

	result := storage.DB.Model(&models.MeetingLocation{}).Where("id = ?", id).Update("is_deleted", true)
	if result.Error != nil {
		utils.JSONError(ctx, http.StatusInternalServerError, "server_error", result.Error.Error())
		return
	}
	if result.RowsAffected == 0 {
		utils.JSONError(ctx, http.StatusNotFound, "not_found", "location not found")
		return
	}

	ctx.StatusCode(iris.StatusNoContent)
}

type PriorityInput struct {
	Priority      string `json:"priority" validate:"required,max=100"`
	PriorityColor string `json:"priorityColor" validate:"max=20"`
}

func GetPriorities(ctx iris.Context) {
	query := storage.DB.Order("priority asc")
	if ctx.URLParamDefault("all", "") != "true" {
		query = query.Where("is_deleted = ?", false)
	}

	var priorities []models.MeetingPriority
	if err := query.Find(&priorities).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	ctx.JSON(priorities)
}

func CreatePriority(ctx iris.Context) {
	var input PriorityInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	priority := models.MeetingPriority{Priority: input.Priority, PriorityColor: input.PriorityColor}
	if err := storage.DB.Create(&priority).Error; err != nil {
		utils.JSONError(ctx, http.StatusInternalServerError, "server_error", err.Error())
		return
	}

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(priority)
}

func DeletePriority(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.JSONError(ctx, http.StatusBadRequest, "invalid_id", "invalid id")
		return
	}

	result := storage.DB.Model(&models.MeetingPriority{}).Where("id = ?", id).Update("is_deleted", true)
	if result.Error != nil {
		utils.JSONError(ctx, http.StatusInternalServerError, "server_error", result.Error.Error())
		return
	}
	if result.RowsAffected == 0 {
		utils.JSONError(ctx, http.StatusNotFound, "not_found", "priority not found")
		return
	}

	ctx.StatusCode(iris.StatusNoContent)
}

// AdminListAuditLogs - GET /api/admin/audit?page=&per_page=
func AdminListAuditLogs(ctx iris.Context) {
	page := ctx.URLParamIntDefault("page", 1)
	perPage := ctx.URLParamIntDefault("per_page", 50)
	if perPage <= 0 || perPage > 200 {
		perPage = 50
	}
	if page <= 0 {
		page = 1
	}

	query := storage.DB.Model(&models.AuditLog{}).Order("created_at DESC")

	var total int64
	query.Count(&total)

	var logs []models.AuditLog
	if err := query.Offset((page - 1) * perPage).Limit(perPage).Find(&logs).Error; err != nil {
		utils.JSONError(ctx, http.StatusInternalServerError, "server_error", err.Error())
		return
	}

	utils.JSONPage(ctx, logs, page, perPage, total)
}

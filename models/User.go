package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Role values stored on User.Role.
const (
	RoleSuperAdmin    = "super_admin"
	RoleAdmin         = "admin"
	RoleOfficeManager = "office_manager"
	RoleLeader        = "leader"
	RoleUser          = "user"
)

type User struct {
	gorm.Model
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	UserName  string `json:"userName" gorm:"size:100;uniqueIndex"`
	Email     string `json:"email" gorm:"size:256;uniqueIndex"`
	Password  string `json:"-"`

	Role string `json:"role" gorm:"type:varchar(20);default:user;index"` // super_admin, admin, office_manager, leader, user

	// A user belongs to at most one department; meeting visibility keys off it.
	DepartmentID *uint       `json:"departmentID" gorm:"index"`
	Department   *Department `json:"department" gorm:"foreignKey:DepartmentID"`

	PushTokens          datatypes.JSON `json:"pushTokens"`
	AllowsNotifications *bool          `json:"allowsNotifications"`
}

// Name returns the display name used in meeting views.
func (u *User) Name() string {
	if u.FirstName == "" && u.LastName == "" {
		return u.UserName
	}
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

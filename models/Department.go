package models

import "time"

type Department struct {
	ID          uint   `json:"id" gorm:"primaryKey"`
	Name        string `json:"name" gorm:"size:200;not null;uniqueIndex"`
	Description string `json:"description" gorm:"size:500"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// MeetingLocation is a bookable place owned by a department.
type MeetingLocation struct {
	ID       uint   `json:"id" gorm:"primaryKey"`
	Location string `json:"location" gorm:"size:500;not null"`

	DepartmentID uint       `json:"departmentID" gorm:"index"`
	Department   Department `json:"department" gorm:"foreignKey:DepartmentID"`

	IsDeleted bool      `json:"isDeleted" gorm:"default:false"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type MeetingPriority struct {
	ID            uint   `json:"id" gorm:"primaryKey"`
	Priority      string `json:"priority" gorm:"size:100;not null"`
	PriorityColor string `json:"priorityColor" gorm:"size:20"`

	IsDeleted bool      `json:"isDeleted" gorm:"default:false"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

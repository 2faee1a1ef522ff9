package models

import (
	"gorm.io/gorm"
)

type PropertyType struct {
	gorm.Model
	Code     string `json:"code" gorm:"type:varchar(64);uniqueIndex"`
	Name     string `json:"name"`
	IsActive *bool  `json:"isActive" gorm:"default:true"`
}

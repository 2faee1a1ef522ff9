package models

import (
	"gorm.io/gorm"
)

type Amenity struct {
	gorm.Model
	Code     string `json:"code" gorm:"type:varchar(64);uniqueIndex"`
	Name     string `json:"name"`
	Icon     string `json:"icon"`
	IsActive *bool  `json:"isActive" gorm:"default:true"`
}

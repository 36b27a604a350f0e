package models

import (
	"hbs/src/types"
)

type Hotel struct {
	ID           uint   `gorm:"primarykey" json:"id"`
	Name         string `json:"name,omitempty"`
	Slug         string `gorm:"uniqueIndex" json:"slug,omitempty"`
	About        string `json:"about,omitempty"`
	Location     string `json:"location,omitempty"`
	ContactEmail string `json:"email,omitempty"`

	Rooms []Room `gorm:"foreignKey:hotel_id" json:"rooms,omitempty"`

	types.Timestamps
}

package models

import "gorm.io/gorm"

type Room struct {
	gorm.Model

	Name    string `gorm:"not null"`
	IsGroup bool   `gorm:"not null;default:false"`

	// Relationships
	Participants []Participant `gorm:"foreignKey:RoomID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Messages     []Message     `gorm:"foreignKey:RoomID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}

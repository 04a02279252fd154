package models

import "gorm.io/gorm"

type Message struct {
	gorm.Model

	Content  string `gorm:"not null"`
	SenderID uint   `gorm:"not null;index"`
	RoomID   uint   `gorm:"not null;index"`

	// Relationships
	Sender User `gorm:"foreignKey:SenderID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Room   Room `gorm:"foreignKey:RoomID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}

package models

import "time"

// Participant is the membership edge between a User and a Room. The composite
// unique index makes concurrent joins for the same pair collapse into one row.
//
// No gorm.Model here: the edge is hard-deleted on leave, otherwise a
// soft-deleted row would keep occupying the unique index and block rejoining.
type Participant struct {
	ID        uint `gorm:"primarykey"`
	CreatedAt time.Time

	UserID uint `gorm:"not null;uniqueIndex:idx_participant_user_room"`
	RoomID uint `gorm:"not null;uniqueIndex:idx_participant_user_room"`

	// Relationships
	User User `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Room Room `gorm:"foreignKey:RoomID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}

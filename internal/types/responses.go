package types

import "time"

type UserResponse struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// SenderResponse is the projection of a user attached to a message.
type SenderResponse struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
}

type RoomResponse struct {
	ID           uint           `json:"id"`
	Name         string         `json:"name"`
	IsGroup      bool           `json:"isGroup"`
	CreatedAt    time.Time      `json:"createdAt"`
	Participants []UserResponse `json:"participants,omitempty"`
}

type MessageResponse struct {
	ID        uint           `json:"id"`
	Content   string         `json:"content"`
	SenderID  uint           `json:"senderId"`
	RoomID    uint           `json:"roomId"`
	CreatedAt time.Time      `json:"createdAt"`
	Sender    SenderResponse `json:"sender"`
}

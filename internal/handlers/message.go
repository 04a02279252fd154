package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/chatloop-dev/chatloop/db"
	"github.com/chatloop-dev/chatloop/internal/models"
	"github.com/chatloop-dev/chatloop/internal/types"
	"github.com/chatloop-dev/chatloop/internal/utils"
	"github.com/gin-gonic/gin"
)

type PostMessageRequest struct {
	Content string `json:"content" binding:"required"`
}

func ListMessages(ctx *gin.Context) {
	roomID, err := utils.GetRoomID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	isMember, err := isParticipant(roomID, userID)

	if err != nil {
		log.Printf("Failed to check membership: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	if !isMember {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "You are not part of this room"})
		return
	}

	var messages []models.Message

	err = db.DB.Preload("Sender").
		Where("room_id = ?", roomID).
		Order("created_at ASC, id ASC").
		Find(&messages).Error

	if err != nil {
		log.Printf("Failed to fetch messages: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	response := make([]types.MessageResponse, 0, len(messages))

	for _, message := range messages {
		response = append(response, messageResponse(message, message.Sender.Username))
	}

	ctx.JSON(http.StatusOK, response)
}

func PostMessage(ctx *gin.Context) {
	roomID, err := utils.GetRoomID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var body PostMessageRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Message content is required"})
		return
	}

	body.Content = strings.TrimSpace(body.Content)

	if body.Content == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Message content is required"})
		return
	}

	message, err := storeMessage(roomID, currentUser.ID, body.Content)

	if err != nil {
		if errors.Is(err, errNotParticipant) {
			ctx.JSON(http.StatusForbidden, gin.H{"error": "You are not part of this room"})
			return
		}
		log.Printf("Failed to store message: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	// The row is durable at this point; only then does it fan out.
	broadcastMessage(message, currentUser.Username)

	ctx.JSON(http.StatusOK, gin.H{
		"message": messageResponse(message, currentUser.Username),
	})
}

var errNotParticipant = errors.New("sender is not a participant of the room")

// storeMessage persists a message after verifying the sender's membership
// edge. It returns errNotParticipant when the sender has no such edge.
func storeMessage(roomID uint, senderID uint, content string) (models.Message, error) {
	isMember, err := isParticipant(roomID, senderID)

	if err != nil {
		return models.Message{}, err
	}

	if !isMember {
		return models.Message{}, errNotParticipant
	}

	message := models.Message{
		Content:  content,
		SenderID: senderID,
		RoomID:   roomID,
	}

	if err := db.DB.Create(&message).Error; err != nil {
		return models.Message{}, err
	}

	return message, nil
}

func isParticipant(roomID uint, userID uint) (bool, error) {
	var count int64

	err := db.DB.Model(&models.Participant{}).
		Where("room_id = ? AND user_id = ?", roomID, userID).
		Count(&count).Error

	if err != nil {
		return false, err
	}

	return count > 0, nil
}

func messageResponse(message models.Message, senderUsername string) types.MessageResponse {
	return types.MessageResponse{
		ID:        message.ID,
		Content:   message.Content,
		SenderID:  message.SenderID,
		RoomID:    message.RoomID,
		CreatedAt: message.CreatedAt,
		Sender: types.SenderResponse{
			ID:       message.SenderID,
			Username: senderUsername,
		},
	}
}

// broadcastMessage fans a stored message out to the room's broadcast group.
// Two events go out: "message" with the stored payload, and a lighter
// "newMessage" relay kept for older clients.
func broadcastMessage(message models.Message, senderUsername string) {
	event := struct {
		Type string `json:"type"`
		types.MessageResponse
	}{
		Type:            "message",
		MessageResponse: messageResponse(message, senderUsername),
	}

	payload, err := json.Marshal(event)

	if err != nil {
		log.Printf("Failed to marshal message event: %v", err)
		return
	}

	hub.Broadcast(message.RoomID, payload)

	relay, err := json.Marshal(gin.H{
		"type":     "newMessage",
		"senderId": message.SenderID,
		"content":  message.Content,
		"roomId":   message.RoomID,
	})

	if err != nil {
		log.Printf("Failed to marshal relay event: %v", err)
		return
	}

	hub.Broadcast(message.RoomID, relay)
}

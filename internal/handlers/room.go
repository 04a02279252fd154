package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/chatloop-dev/chatloop/db"
	"github.com/chatloop-dev/chatloop/internal/models"
	"github.com/chatloop-dev/chatloop/internal/types"
	"github.com/chatloop-dev/chatloop/internal/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CreateRoomRequest struct {
	Name    string `json:"name" binding:"required"`
	IsGroup bool   `json:"isGroup"`
}

type RoomIDRequest struct {
	RoomID uint `json:"roomId" binding:"required"`
}

func CreateRoom(ctx *gin.Context) {
	var body CreateRoomRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	body.Name = strings.TrimSpace(body.Name)

	if body.Name == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Room name is required"})
		return
	}

	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	room := models.Room{
		Name:    body.Name,
		IsGroup: body.IsGroup,
	}

	// The room and its creator's membership are one logical unit: a room
	// must never exist without its creator as first participant.
	err = db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&room).Error; err != nil {
			return err
		}

		return tx.Create(&models.Participant{
			UserID: userID,
			RoomID: room.ID,
		}).Error
	})

	if err != nil {
		log.Printf("Failed to create room: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create room"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message": "Room created successfully",
		"room": types.RoomResponse{
			ID:        room.ID,
			Name:      room.Name,
			IsGroup:   room.IsGroup,
			CreatedAt: room.CreatedAt,
		},
	})
}

func JoinRoom(ctx *gin.Context) {
	var body RoomIDRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var room models.Room

	if err := db.DB.First(&room, body.RoomID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Room not found"})
		} else {
			log.Printf("Failed to fetch room: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	// ON CONFLICT DO NOTHING against the (user_id, room_id) unique index, so
	// concurrent joins by the same user collapse into a single row instead of
	// racing a check-then-insert.
	participant := models.Participant{
		UserID: userID,
		RoomID: room.ID,
	}

	result := db.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "room_id"}},
		DoNothing: true,
	}).Create(&participant)

	if result.Error != nil {
		log.Printf("Failed to join room: %v", result.Error)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	if result.RowsAffected == 0 {
		ctx.JSON(http.StatusOK, gin.H{
			"message": "User already joined the room",
			"roomId":  room.ID,
		})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message": "Joined room successfully",
		"roomId":  room.ID,
	})
}

func LeaveRoom(ctx *gin.Context) {
	var body RoomIDRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	result := db.DB.Where("room_id = ? AND user_id = ?", body.RoomID, userID).Delete(&models.Participant{})

	if result.Error != nil {
		log.Printf("Failed to leave room: %v", result.Error)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	if result.RowsAffected == 0 {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "User is not part of this room"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Left room successfully"})
}

func ListRooms(ctx *gin.Context) {
	var rooms []models.Room

	if err := db.DB.Order("created_at DESC").Find(&rooms).Error; err != nil {
		log.Printf("Failed to list rooms: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	response := make([]types.RoomResponse, 0, len(rooms))

	for _, room := range rooms {
		response = append(response, types.RoomResponse{
			ID:        room.ID,
			Name:      room.Name,
			IsGroup:   room.IsGroup,
			CreatedAt: room.CreatedAt,
		})
	}

	ctx.JSON(http.StatusOK, response)
}

func ListJoinedRooms(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	rooms, err := roomsByMembership(userID, true)

	if err != nil {
		log.Printf("Failed to list joined rooms: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	ctx.JSON(http.StatusOK, rooms)
}

func ListJoinedAndNotJoinedRooms(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	joined, err := roomsByMembership(userID, true)

	if err != nil {
		log.Printf("Failed to list joined rooms: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	notJoined, err := roomsByMembership(userID, false)

	if err != nil {
		log.Printf("Failed to list not-joined rooms: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"joinedRooms":    joined,
		"notJoinedRooms": notJoined,
	})
}

func ListRoomUsers(ctx *gin.Context) {
	roomID, err := utils.GetRoomID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var room models.Room

	if err := db.DB.First(&room, roomID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Room not found"})
		} else {
			log.Printf("Failed to fetch room: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	var participants []models.Participant

	if err := db.DB.Preload("User").Where("room_id = ?", roomID).Find(&participants).Error; err != nil {
		log.Printf("Failed to fetch participants: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	response := make([]types.UserResponse, 0, len(participants))

	for _, participant := range participants {
		response = append(response, types.UserResponse{
			ID:       participant.User.ID,
			Username: participant.User.Username,
			Email:    participant.User.Email,
		})
	}

	ctx.JSON(http.StatusOK, response)
}

// roomsByMembership partitions rooms on whether userID has a membership edge.
// Both halves of the partition use the same subquery so a room lands in
// exactly one of them.
func roomsByMembership(userID uint, joined bool) ([]types.RoomResponse, error) {
	memberOf := db.DB.Model(&models.Participant{}).Select("room_id").Where("user_id = ?", userID)

	query := db.DB.Preload("Participants.User").Order("created_at DESC")

	if joined {
		query = query.Where("id IN (?)", memberOf)
	} else {
		query = query.Where("id NOT IN (?)", memberOf)
	}

	var rooms []models.Room

	if err := query.Find(&rooms).Error; err != nil {
		return nil, err
	}

	response := make([]types.RoomResponse, 0, len(rooms))

	for _, room := range rooms {
		members := make([]types.UserResponse, 0, len(room.Participants))

		for _, participant := range room.Participants {
			members = append(members, types.UserResponse{
				ID:       participant.User.ID,
				Username: participant.User.Username,
				Email:    participant.User.Email,
			})
		}

		response = append(response, types.RoomResponse{
			ID:           room.ID,
			Name:         room.Name,
			IsGroup:      room.IsGroup,
			CreatedAt:    room.CreatedAt,
			Participants: members,
		})
	}

	return response, nil
}

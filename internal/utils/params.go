package utils

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
)

func GetRoomID(ctx *gin.Context) (uint, error) {
	roomIDStr := ctx.Param("room_id")

	if roomIDStr == "" {
		return 0, errors.New("Room ID not found")
	}

	roomID, err := strconv.ParseUint(roomIDStr, 10, 32)

	if err != nil {
		return 0, errors.New("Invalid Room ID")
	}

	return uint(roomID), nil
}

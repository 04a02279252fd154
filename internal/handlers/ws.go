package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/chatloop-dev/chatloop/internal/chat"
	"github.com/chatloop-dev/chatloop/internal/types"
	"github.com/chatloop-dev/chatloop/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// hub is the process-wide broadcast registry shared by the websocket event
// loop and the REST message handler.
var hub = chat.NewHub()

type inboundEvent struct {
	Type    string `json:"type"`
	RoomID  uint   `json:"roomId"`
	Content string `json:"content"`
}

func WebSocket(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if origin == "" {
				return true
			}
			for _, allowed := range types.AllowedOrigins {
				if origin == allowed {
					return true
				}
			}
			return false
		},
	}

	conn, err := upgrader.Upgrade(ctx.Writer, ctx.Request, nil)

	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}

	client := chat.NewClient(hub, conn, currentUser.ID, currentUser.Username)

	hub.Register(client)

	log.Printf("WebSocket connected for user %d", currentUser.ID)

	go client.WritePump()
	client.ReadPump(handleSocketEvent)

	log.Printf("WebSocket closed for user %d", currentUser.ID)
}

func handleSocketEvent(c *chat.Client, raw []byte) {
	var event inboundEvent

	if err := json.Unmarshal(raw, &event); err != nil {
		sendError(c, "Invalid event payload")
		return
	}

	switch event.Type {
	case "join":
		if event.RoomID == 0 {
			sendError(c, "roomId is required")
			return
		}

		// Transport-level subscription only; whether the user may read the
		// room's history is still decided by the REST surface.
		hub.Join(event.RoomID, c)

		ack, err := json.Marshal(gin.H{
			"type":   "joinedRoom",
			"roomId": event.RoomID,
		})

		if err != nil {
			log.Printf("Failed to marshal join ack: %v", err)
			return
		}

		hub.Send(c, ack)
	case "sendMessage":
		if event.RoomID == 0 || event.Content == "" {
			sendError(c, "roomId and content are required")
			return
		}

		// The sender is always the authenticated connection owner; a
		// senderId in the payload is ignored. Membership is checked the
		// same way as on the REST path.
		message, err := storeMessage(event.RoomID, c.UserID, event.Content)

		if err != nil {
			if errors.Is(err, errNotParticipant) {
				sendError(c, "You are not part of this room")
				return
			}
			log.Printf("Failed to store message from socket: %v", err)
			sendError(c, "Failed to send message")
			return
		}

		broadcastMessage(message, c.Username)
	default:
		sendError(c, "Unsupported event type")
	}
}

func sendError(c *chat.Client, message string) {
	payload, err := json.Marshal(gin.H{
		"type":  "error",
		"error": message,
	})

	if err != nil {
		log.Printf("Failed to marshal error event: %v", err)
		return
	}

	hub.Send(c, payload)
}

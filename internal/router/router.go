package router

import (
	"time"

	"github.com/chatloop-dev/chatloop/internal/handlers"
	"github.com/chatloop-dev/chatloop/internal/middleware"
	"github.com/chatloop-dev/chatloop/internal/types"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func NewRouter() *gin.Engine {
	r := gin.Default()

	// Add CORS middleware
	r.Use(cors.New(cors.Config{
		AllowOrigins:     types.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	api := r.Group("/api")
	{
		api.GET("/health", handlers.HealthCheck)
		api.GET("/ws", middleware.AuthMiddleware(), handlers.WebSocket)

		auth := api.Group("/auth")
		{
			auth.POST("/register", handlers.Register)
			auth.POST("/login", handlers.Login)
			auth.GET("/me", middleware.AuthMiddleware(), handlers.Me)
		}

		rooms := api.Group("/rooms", middleware.AuthMiddleware())
		{
			rooms.GET("", handlers.ListRooms)
			rooms.POST("/create", handlers.CreateRoom)
			rooms.POST("/join", handlers.JoinRoom)
			rooms.POST("/leave", handlers.LeaveRoom)
			rooms.GET("/joined", handlers.ListJoinedRooms)
			rooms.GET("/joined-and-not", handlers.ListJoinedAndNotJoinedRooms)

			rooms.GET("/:room_id/users", handlers.ListRoomUsers)
			rooms.GET("/:room_id/messages", handlers.ListMessages)
			rooms.POST("/:room_id/messages", handlers.PostMessage)
		}
	}

	return r
}

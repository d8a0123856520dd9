package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/engrsakib/weblog-with-go/controllers"
	"github.com/engrsakib/weblog-with-go/middleware"
)

func NotificationRoutes(r *gin.Engine) {
	authGroup := r.Group("/")
	authGroup.Use(middleware.AuthMiddleware())
	{
		authGroup.GET("/new-notification", controllers.NewNotification)
		authGroup.POST("/notifications", controllers.Notifications)
		authGroup.POST("/all-notifications-count", controllers.AllNotificationsCount)
	}
}

package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/engrsakib/weblog-with-go/controllers"
	"github.com/engrsakib/weblog-with-go/middleware"
)

func CommentRoutes(r *gin.Engine) {
	r.POST("/get-blog-comments", controllers.GetBlogComments)
	r.POST("/get-replies", controllers.GetReplies)

	authGroup := r.Group("/")
	authGroup.Use(middleware.AuthMiddleware())
	{
		authGroup.POST("/add-comment", controllers.AddComment)
		authGroup.POST("/delete-comment", controllers.DeleteComment)
	}
}

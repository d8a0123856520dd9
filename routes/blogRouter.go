package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/engrsakib/weblog-with-go/controllers"
	"github.com/engrsakib/weblog-with-go/middleware"
)

// BlogRoutes registers the blog endpoints under the paths the frontend
// already calls.
func BlogRoutes(r *gin.Engine) {
	r.POST("/latest-blogs", controllers.LatestBlogs)
	r.POST("/all-latest-blogs-count", controllers.AllLatestBlogsCount)
	r.GET("/trending-blogs", controllers.TrendingBlogs)
	r.POST("/get-blog", controllers.GetBlog)
	r.POST("/search-blogs", controllers.SearchBlogs)
	r.POST("/search-blogs-count", controllers.SearchBlogsCount)
	r.GET("/tags/distinct", controllers.DistinctTags)

	authGroup := r.Group("/")
	authGroup.Use(middleware.AuthMiddleware())
	{
		authGroup.POST("/create-blog", controllers.CreateBlog)
		authGroup.POST("/delete-blog", controllers.DeleteBlog)
		authGroup.POST("/user-written-blogs", controllers.UserWrittenBlogs)
		authGroup.POST("/user-written-blogs-count", controllers.UserWrittenBlogsCount)
		authGroup.POST("/like-blog", controllers.LikeBlog)
		authGroup.POST("/isliked-by-user", controllers.IsLikedByUser)
	}
}

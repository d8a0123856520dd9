package main

import (
	"log/slog"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/engrsakib/weblog-with-go/config"
	"github.com/engrsakib/weblog-with-go/controllers"
	"github.com/engrsakib/weblog-with-go/middleware"
	"github.com/engrsakib/weblog-with-go/routes"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(log)

	config.ConnectDB()
	controllers.Init(log)
	controllers.RegisterValidators()

	r := gin.Default()
	r.Use(cors.Default())
	// 100 requests per 15 minutes per client
	r.Use(middleware.RateLimiter(rate.Limit(100.0/900.0), 100))
	r.Use(middleware.RequestLogger(log))

	r.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "WeBlog API Server is running!",
			"status":  "ok",
		})
	})

	routes.BlogRoutes(r)
	routes.CommentRoutes(r)
	routes.NotificationRoutes(r)

	port := os.Getenv("PORT")
	if port == "" {
		port = "5000"
	}

	if err := r.Run(":" + port); err != nil {
		log.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

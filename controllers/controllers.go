package controllers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/engrsakib/weblog-with-go/config"
	"github.com/engrsakib/weblog-with-go/models"
	"github.com/engrsakib/weblog-with-go/services"
)

var (
	blogStore           *services.BlogStore
	commentStore        *services.CommentStore
	ledger              *services.CounterLedger
	notificationService *services.NotificationService
	engagement          *services.EngagementService
	userResolver        *services.UserResolver
)

// Init wires the services against the live database. Called from main
// after config.ConnectDB.
func Init(log *slog.Logger) {
	InitWith(
		config.GetCollection("blogs"),
		config.GetCollection("comments"),
		config.GetCollection("notifications"),
		config.GetCollection("users"),
		log,
	)
}

// InitWith builds the service graph from explicit collections. Tests use
// it to substitute fakes.
func InitWith(blogs, comments, notifications, users services.Collection, log *slog.Logger) {
	blogStore = services.NewBlogStore(blogs, users)
	commentStore = services.NewCommentStore(comments)
	ledger = services.NewCounterLedger(blogs)
	notificationService = services.NewNotificationService(notifications)
	engagement = services.NewEngagementService(blogStore, commentStore, ledger, notificationService, log)
	userResolver = services.NewUserResolver(users)
}

// respondError maps the service error taxonomy onto HTTP statuses.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrAuthorization):
		c.JSON(http.StatusForbidden, gin.H{"error": "Unauthorized"})
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

// actorID reads the authenticated user id the auth middleware stored.
func actorID(c *gin.Context) (primitive.ObjectID, bool) {
	userId, exists := c.Get("userId")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized request"})
		return primitive.NilObjectID, false
	}
	id, err := primitive.ObjectIDFromHex(userId.(string))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid user identity"})
		return primitive.NilObjectID, false
	}
	return id, true
}

func profileJSON(user models.User, fallback primitive.ObjectID) gin.H {
	if user.ID.IsZero() {
		return gin.H{"_id": fallback, "personal_info": gin.H{}}
	}
	return gin.H{
		"_id":           user.ID,
		"personal_info": user.PersonalInfo,
	}
}

func blogJSON(blog models.Blog, author models.User) gin.H {
	return gin.H{
		"_id":         blog.ID,
		"blog_id":     blog.BlogID,
		"title":       blog.Title,
		"banner":      blog.Banner,
		"des":         blog.Des,
		"content":     blog.Content,
		"tags":        blog.Tags,
		"author":      profileJSON(author, blog.Author),
		"activity":    blog.Activity,
		"draft":       blog.Draft,
		"publishedAt": blog.PublishedAt,
		"editedAt":    blog.EditedAt,
		"createdAt":   blog.CreatedAt,
		"updatedAt":   blog.UpdatedAt,
	}
}

func commentJSON(comment models.Comment, author models.User) gin.H {
	return gin.H{
		"_id":          comment.ID,
		"blog_id":      comment.BlogID,
		"blog_author":  comment.BlogAuthor,
		"comment":      comment.Text,
		"children":     comment.Children,
		"commented_by": profileJSON(author, comment.CommentedBy),
		"isReply":      comment.IsReply,
		"parent":       comment.Parent,
		"commentedAt":  comment.CommentedAt,
	}
}

// blogsResponse resolves the author profiles of a listing in one batch.
func blogsResponse(c *gin.Context, blogs []models.Blog) ([]gin.H, bool) {
	authorIDs := make([]primitive.ObjectID, 0, len(blogs))
	for _, b := range blogs {
		authorIDs = append(authorIDs, b.Author)
	}
	profiles, err := userResolver.Resolve(c.Request.Context(), authorIDs)
	if err != nil {
		respondError(c, err)
		return nil, false
	}

	out := make([]gin.H, 0, len(blogs))
	for _, b := range blogs {
		out = append(out, blogJSON(b, profiles[b.Author]))
	}
	return out, true
}

func commentsResponse(c *gin.Context, comments []models.Comment) ([]gin.H, bool) {
	authorIDs := make([]primitive.ObjectID, 0, len(comments))
	for _, cm := range comments {
		authorIDs = append(authorIDs, cm.CommentedBy)
	}
	profiles, err := userResolver.Resolve(c.Request.Context(), authorIDs)
	if err != nil {
		respondError(c, err)
		return nil, false
	}

	out := make([]gin.H, 0, len(comments))
	for _, cm := range comments {
		out = append(out, commentJSON(cm, profiles[cm.CommentedBy]))
	}
	return out, true
}

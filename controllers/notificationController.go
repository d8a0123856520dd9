package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/engrsakib/weblog-with-go/models"
)

const notificationsPerPage = 10

// NewNotification reports whether the actor has any unseen notification.
func NewNotification(c *gin.Context) {
	actor, ok := actorID(c)
	if !ok {
		return
	}

	ctx, cancel := handlerContext()
	defer cancel()

	hasUnread, err := notificationService.HasUnread(ctx, actor)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"new_notification_available": hasUnread})
}

// Notifications godoc
// @Summary      list the actor's notifications
// @Description  Returns one page newest first and marks every returned row seen.
// @Description  deletedDocCount shifts the window when the client knows rows
// @Description  disappeared since its last count fetch.
// @Tags         Notifications
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        body  body      object  true  "Input (page, filter, deletedDocCount)"
// @Success      200   {object}  map[string]interface{}
// @Router       /notifications [post]
func Notifications(c *gin.Context) {
	var input struct {
		Page            int64  `json:"page"`
		Filter          string `json:"filter" binding:"omitempty,notiffilter"`
		DeletedDocCount int64  `json:"deletedDocCount"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if input.Page < 1 {
		input.Page = 1
	}

	actor, ok := actorID(c)
	if !ok {
		return
	}

	ctx, cancel := handlerContext()
	defer cancel()

	notifications, err := notificationService.ListForRecipient(ctx, actor, input.Filter, input.Page, notificationsPerPage, input.DeletedDocCount)
	if err != nil {
		respondError(c, err)
		return
	}

	// resolve the actor profiles, blog titles and comment bodies the
	// frontend renders
	userIDs := make([]primitive.ObjectID, 0, len(notifications))
	blogIDs := make([]primitive.ObjectID, 0, len(notifications))
	commentIDs := []primitive.ObjectID{}
	for _, n := range notifications {
		userIDs = append(userIDs, n.User)
		blogIDs = append(blogIDs, n.Blog)
		if n.Comment != nil {
			commentIDs = append(commentIDs, *n.Comment)
		}
	}

	profiles, err := userResolver.Resolve(ctx, userIDs)
	if err != nil {
		respondError(c, err)
		return
	}
	blogs, err := blogStore.GetByIDs(ctx, blogIDs)
	if err != nil {
		respondError(c, err)
		return
	}
	comments, err := commentStore.GetByIDs(ctx, commentIDs)
	if err != nil {
		respondError(c, err)
		return
	}

	out := make([]gin.H, 0, len(notifications))
	for _, n := range notifications {
		item := gin.H{
			"_id":       n.ID,
			"type":      n.Type,
			"seen":      n.Seen,
			"user":      profileJSON(profiles[n.User], n.User),
			"createdAt": n.CreatedAt,
		}
		if blog, found := blogs[n.Blog]; found {
			item["blog"] = gin.H{"_id": blog.ID, "blog_id": blog.BlogID, "title": blog.Title}
		}
		if n.Comment != nil {
			if comment, found := comments[*n.Comment]; found {
				item["comment"] = gin.H{"_id": comment.ID, "comment": comment.Text}
			}
		}
		out = append(out, item)
	}
	c.JSON(http.StatusOK, gin.H{"notifications": out})
}

// AllNotificationsCount counts with the same predicate the listing uses,
// so pagination math stays consistent with the returned pages.
func AllNotificationsCount(c *gin.Context) {
	var input struct {
		Filter string `json:"filter" binding:"omitempty,notiffilter"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	actor, ok := actorID(c)
	if !ok {
		return
	}

	ctx, cancel := handlerContext()
	defer cancel()

	count, err := notificationService.Count(ctx, actor, input.Filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"totalDocs": count})
}

// notificationFilters are the filter values the listing endpoints accept.
var notificationFilters = map[string]bool{
	"":                         true,
	"all":                      true,
	"unread":                   true,
	"read":                     true,
	models.NotificationLike:    true,
	models.NotificationComment: true,
	models.NotificationReply:   true,
}

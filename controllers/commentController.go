package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	commentsPerPage = 10
	repliesPerPage  = 5
)

// AddComment godoc
// @Summary      add a comment or reply to a blog
// @Description  Pass replying_to to reply under another comment. Replies notify
// @Description  the parent comment's author; top-level comments notify the blog author.
// @Tags         Comments
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        body  body      object  true  "Input (_id, comment, replying_to)"
// @Success      200   {object}  map[string]interface{}
// @Failure      400   {object}  map[string]interface{}
// @Router       /add-comment [post]
func AddComment(c *gin.Context) {
	var input struct {
		ID         string `json:"_id" binding:"required"`
		Comment    string `json:"comment" binding:"required"`
		ReplyingTo string `json:"replying_to"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	blogID, err := primitive.ObjectIDFromHex(input.ID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid Blog ID"})
		return
	}

	var parentID *primitive.ObjectID
	if input.ReplyingTo != "" {
		pID, err := primitive.ObjectIDFromHex(input.ReplyingTo)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid Parent Comment ID"})
			return
		}
		parentID = &pID
	}

	actor, ok := actorID(c)
	if !ok {
		return
	}

	ctx, cancel := handlerContext()
	defer cancel()

	comment, err := engagement.AddComment(ctx, blogID, actor, input.Comment, parentID)
	if err != nil {
		respondError(c, err)
		return
	}

	profiles, err := userResolver.Resolve(ctx, []primitive.ObjectID{actor})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, commentJSON(comment, profiles[actor]))
}

// GetBlogComments godoc
// @Summary      list live top-level comments of a blog
// @Tags         Comments
// @Accept       json
// @Produce      json
// @Param        body  body      object  true  "Input (blog_id, skip)"
// @Success      200   {array}   map[string]interface{}
// @Router       /get-blog-comments [post]
func GetBlogComments(c *gin.Context) {
	var input struct {
		BlogID string `json:"blog_id" binding:"required"`
		Skip   int64  `json:"skip"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	blogID, err := primitive.ObjectIDFromHex(input.BlogID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid Blog ID"})
		return
	}

	ctx, cancel := handlerContext()
	defer cancel()

	comments, err := commentStore.ListTopLevel(ctx, blogID, input.Skip, commentsPerPage)
	if err != nil {
		respondError(c, err)
		return
	}
	out, ok := commentsResponse(c, comments)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, out)
}

// GetReplies lists the direct replies of a comment. Soft-deleted replies
// are not filtered here, so a deleted parent still shows its thread.
func GetReplies(c *gin.Context) {
	var input struct {
		ID   string `json:"_id" binding:"required"`
		Skip int64  `json:"skip"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	parentID, err := primitive.ObjectIDFromHex(input.ID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid Comment ID"})
		return
	}

	ctx, cancel := handlerContext()
	defer cancel()

	replies, err := commentStore.ListReplies(ctx, parentID, input.Skip, repliesPerPage)
	if err != nil {
		respondError(c, err)
		return
	}
	out, ok := commentsResponse(c, replies)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"replies": out})
}

// DeleteComment godoc
// @Summary      soft delete a comment
// @Description  Only the comment's author can delete it. Replies of the deleted
// @Description  comment stay visible.
// @Tags         Comments
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      403  {object}  map[string]interface{}
// @Router       /delete-comment [post]
func DeleteComment(c *gin.Context) {
	var input struct {
		ID string `json:"_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	commentID, err := primitive.ObjectIDFromHex(input.ID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid Comment ID"})
		return
	}

	actor, ok := actorID(c)
	if !ok {
		return
	}

	ctx, cancel := handlerContext()
	defer cancel()

	if err := engagement.DeleteComment(ctx, commentID, actor); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Comment deleted successfully"})
}

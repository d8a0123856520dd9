package controllers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/engrsakib/weblog-with-go/services"
)

const handlerTimeout = 10 * time.Second

func handlerContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), handlerTimeout)
}

// LatestBlogs godoc
// @Summary      list published blogs, newest first
// @Tags         Blogs
// @Accept       json
// @Produce      json
// @Param        body  body      object  true  "Input (page)"
// @Success      200   {object}  map[string]interface{}
// @Router       /latest-blogs [post]
func LatestBlogs(c *gin.Context) {
	var input struct {
		Page int64 `json:"page"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if input.Page < 1 {
		input.Page = 1
	}

	ctx, cancel := handlerContext()
	defer cancel()

	blogs, err := blogStore.ListLatest(ctx, input.Page)
	if err != nil {
		respondError(c, err)
		return
	}
	out, ok := blogsResponse(c, blogs)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"blogs": out})
}

func AllLatestBlogsCount(c *gin.Context) {
	ctx, cancel := handlerContext()
	defer cancel()

	count, err := blogStore.CountLatest(ctx)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"totalDocs": count})
}

func TrendingBlogs(c *gin.Context) {
	ctx, cancel := handlerContext()
	defer cancel()

	blogs, err := blogStore.Trending(ctx)
	if err != nil {
		respondError(c, err)
		return
	}
	out, ok := blogsResponse(c, blogs)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"blogs": out})
}

// GetBlog godoc
// @Summary      fetch one blog by slug
// @Description  Non-edit fetches count one read against the blog's activity.
// @Tags         Blogs
// @Accept       json
// @Produce      json
// @Param        body  body      object  true  "Input (blog_id, draft, mode)"
// @Success      200   {object}  map[string]interface{}
// @Failure      404   {object}  map[string]interface{}
// @Router       /get-blog [post]
func GetBlog(c *gin.Context) {
	var input struct {
		BlogID string `json:"blog_id" binding:"required"`
		Draft  bool   `json:"draft"`
		Mode   string `json:"mode"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := handlerContext()
	defer cancel()

	editMode := input.Mode == "edit"
	blog, err := blogStore.Get(ctx, input.BlogID, input.Draft, editMode)
	if err != nil {
		respondError(c, err)
		return
	}

	if !editMode {
		if err := engagement.RecordRead(ctx, blog.ID); err != nil {
			respondError(c, err)
			return
		}
	}

	profiles, err := userResolver.Resolve(ctx, []primitive.ObjectID{blog.Author})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"blog": blogJSON(blog, profiles[blog.Author])})
}

// CreateBlog godoc
// @Summary      create or update a blog
// @Description  Passing an existing blog_id as id updates that blog. The first
// @Description  draft-to-published transition stamps publishedAt exactly once.
// @Tags         Blogs
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /create-blog [post]
func CreateBlog(c *gin.Context) {
	var input struct {
		ID      string   `json:"id"`
		Title   string   `json:"title" binding:"required"`
		Des     string   `json:"des" binding:"max=200"`
		Banner  string   `json:"banner"`
		Content bson.A   `json:"content"`
		Tags    []string `json:"tags"`
		Draft   bool     `json:"draft"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	author, ok := actorID(c)
	if !ok {
		return
	}

	ctx, cancel := handlerContext()
	defer cancel()

	blogID, err := blogStore.Save(ctx, author, services.BlogInput{
		ID:      input.ID,
		Title:   input.Title,
		Des:     input.Des,
		Banner:  input.Banner,
		Content: input.Content,
		Tags:    input.Tags,
		Draft:   input.Draft,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"blog_id": blogID})
}

// DeleteBlog removes a blog the actor authored. Comments and notifications
// referencing the blog are intentionally left behind.
func DeleteBlog(c *gin.Context) {
	var input struct {
		BlogID string `json:"blog_id" binding:"required"`
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

	if err := blogStore.Delete(ctx, input.BlogID, actor); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Blog deleted successfully"})
}

func UserWrittenBlogs(c *gin.Context) {
	var input struct {
		Page  int64  `json:"page"`
		Draft *bool  `json:"draft"`
		Query string `json:"query"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if input.Page < 1 {
		input.Page = 1
	}

	author, ok := actorID(c)
	if !ok {
		return
	}

	ctx, cancel := handlerContext()
	defer cancel()

	blogs, err := blogStore.ListByAuthor(ctx, services.AuthorQuery{
		Author: author,
		Draft:  input.Draft,
		Query:  input.Query,
	}, input.Page)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"blogs": blogs})
}

func UserWrittenBlogsCount(c *gin.Context) {
	var input struct {
		Draft *bool  `json:"draft"`
		Query string `json:"query"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	author, ok := actorID(c)
	if !ok {
		return
	}

	ctx, cancel := handlerContext()
	defer cancel()

	count, err := blogStore.CountByAuthor(ctx, services.AuthorQuery{
		Author: author,
		Draft:  input.Draft,
		Query:  input.Query,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"totalDocs": count})
}

func SearchBlogs(c *gin.Context) {
	var input struct {
		Query         string `json:"query"`
		Tag           string `json:"tag"`
		Page          int64  `json:"page"`
		EliminateBlog string `json:"eliminate_blog"`
		Limit         int64  `json:"limit"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if input.Page < 1 {
		input.Page = 1
	}

	ctx, cancel := handlerContext()
	defer cancel()

	blogs, err := blogStore.Search(ctx, services.SearchQuery{
		Query:         input.Query,
		Tag:           input.Tag,
		EliminateBlog: input.EliminateBlog,
		Limit:         input.Limit,
	}, input.Page)
	if err != nil {
		respondError(c, err)
		return
	}
	out, ok := blogsResponse(c, blogs)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"blogs": out})
}

func SearchBlogsCount(c *gin.Context) {
	var input struct {
		Query         string `json:"query"`
		Tag           string `json:"tag"`
		EliminateBlog string `json:"eliminate_blog"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := handlerContext()
	defer cancel()

	count, err := blogStore.SearchCount(ctx, services.SearchQuery{
		Query:         input.Query,
		Tag:           input.Tag,
		EliminateBlog: input.EliminateBlog,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"totalDocs": count})
}

// LikeBlog godoc
// @Summary      toggle the actor's like on a blog
// @Description  The stored liked_by membership decides the toggle; the client's
// @Description  islikedByUser flag only widens the unlike branch.
// @Tags         Blogs
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /like-blog [post]
func LikeBlog(c *gin.Context) {
	var input struct {
		ID            string `json:"_id" binding:"required"`
		IsLikedByUser bool   `json:"islikedByUser"`
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

	actor, ok := actorID(c)
	if !ok {
		return
	}

	ctx, cancel := handlerContext()
	defer cancel()

	liked, err := engagement.ToggleLike(ctx, blogID, actor, input.IsLikedByUser)
	if err != nil {
		respondError(c, err)
		return
	}

	message := "Blog unliked successfully"
	if liked {
		message = "Blog liked successfully"
	}
	c.JSON(http.StatusOK, gin.H{"message": message, "liked": liked})
}

func IsLikedByUser(c *gin.Context) {
	var input struct {
		ID string `json:"_id" binding:"required"`
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

	actor, ok := actorID(c)
	if !ok {
		return
	}

	ctx, cancel := handlerContext()
	defer cancel()

	liked, err := engagement.IsLikedBy(ctx, blogID, actor)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"result": liked})
}

// DistinctTags returns a random sample of tags used by published blogs.
func DistinctTags(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "12"))

	ctx, cancel := handlerContext()
	defer cancel()

	tags, err := blogStore.DistinctTags(ctx, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tags": tags})
}

package services

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"regexp"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/engrsakib/weblog-with-go/models"
)

const (
	blogsPerPage    = 10
	trendingLimit   = 5
	maxDesLength    = 200
	maxDistinctTags = 50
)

// BlogStore owns the blog documents and the author back-references on the
// users collection.
type BlogStore struct {
	blogs Collection
	users Collection
}

func NewBlogStore(blogs, users Collection) *BlogStore {
	return &BlogStore{blogs: blogs, users: users}
}

// BlogInput is the authoring payload. A non-empty ID updates the existing
// blog with that slug instead of creating a new one.
type BlogInput struct {
	ID      string
	Title   string
	Des     string
	Banner  string
	Content bson.A
	Tags    []string
	Draft   bool
}

// Save creates or updates a blog and returns its slug. publishedAt is set
// exactly once, on the first draft to published transition; every later
// update stamps editedAt instead.
func (s *BlogStore) Save(ctx context.Context, authorID primitive.ObjectID, input BlogInput) (string, error) {
	if strings.TrimSpace(input.Title) == "" {
		return "", fmt.Errorf("%w: title is required", ErrValidation)
	}
	if len(input.Des) > maxDesLength {
		return "", fmt.Errorf("%w: description exceeds %d characters", ErrValidation, maxDesLength)
	}

	now := time.Now()

	if input.ID != "" {
		var existing models.Blog
		err := s.blogs.FindOne(ctx, bson.M{"blog_id": input.ID}).Decode(&existing)
		if errors.Is(err, mongo.ErrNoDocuments) {
			return "", ErrNotFound
		}
		if err != nil {
			return "", storageErr("find blog", err)
		}

		update := bson.M{
			"title":     input.Title,
			"des":       input.Des,
			"banner":    input.Banner,
			"content":   input.Content,
			"tags":      input.Tags,
			"draft":     input.Draft,
			"editedAt":  now,
			"updatedAt": now,
		}
		if existing.Draft && !input.Draft && existing.PublishedAt == nil {
			update["publishedAt"] = now
		}

		_, err = s.blogs.UpdateOne(ctx, bson.M{"blog_id": input.ID}, bson.M{"$set": update})
		if err != nil {
			return "", storageErr("update blog", err)
		}
		return input.ID, nil
	}

	blog := models.Blog{
		ID:        primitive.NewObjectID(),
		BlogID:    s.uniqueSlug(ctx, input.Title),
		Title:     input.Title,
		Banner:    input.Banner,
		Des:       input.Des,
		Content:   input.Content,
		Tags:      input.Tags,
		Author:    authorID,
		Comments:  []primitive.ObjectID{},
		LikedBy:   []primitive.ObjectID{},
		Draft:     input.Draft,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if !input.Draft {
		blog.PublishedAt = &now
	}

	if _, err := s.blogs.InsertOne(ctx, blog); err != nil {
		return "", storageErr("insert blog", err)
	}

	// back-reference on the author document
	_, err := s.users.UpdateByID(ctx, authorID, bson.M{"$push": bson.M{"blogs": blog.ID}})
	if err != nil {
		return "", storageErr("link blog to author", err)
	}
	return blog.BlogID, nil
}

var slugStrip = regexp.MustCompile("[^a-z0-9]+")

// uniqueSlug lowercases the title and suffixes a counter until no other
// blog carries the slug.
func (s *BlogStore) uniqueSlug(ctx context.Context, title string) string {
	slug := strings.ToLower(title)
	slug = slugStrip.ReplaceAllString(slug, "-")
	slug = strings.Trim(slug, "-")
	if slug == "" {
		slug = "blog"
	}

	base := slug
	for counter := 1; ; counter++ {
		count, err := s.blogs.CountDocuments(ctx, bson.M{"blog_id": slug})
		if err == nil && count == 0 {
			return slug
		}
		if err != nil {
			// fall back to a timestamped slug rather than looping on a
			// broken connection
			return fmt.Sprintf("%s-%d", base, time.Now().UnixNano())
		}
		slug = fmt.Sprintf("%s-%d", base, counter)
	}
}

// Get resolves a blog by slug. Edit mode returns drafts as well and must
// not count as a read; the caller records reads separately.
func (s *BlogStore) Get(ctx context.Context, blogID string, draft bool, editMode bool) (models.Blog, error) {
	filter := bson.M{"blog_id": blogID}
	if !editMode {
		filter["draft"] = draft
	}

	var blog models.Blog
	err := s.blogs.FindOne(ctx, filter).Decode(&blog)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Blog{}, ErrNotFound
	}
	if err != nil {
		return models.Blog{}, storageErr("find blog", err)
	}
	return blog, nil
}

func (s *BlogStore) GetByID(ctx context.Context, id primitive.ObjectID) (models.Blog, error) {
	var blog models.Blog
	err := s.blogs.FindOne(ctx, bson.M{"_id": id}).Decode(&blog)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Blog{}, ErrNotFound
	}
	if err != nil {
		return models.Blog{}, storageErr("find blog", err)
	}
	return blog, nil
}

// GetByIDs batch-fetches blogs for reference embedding, keyed by id.
// Missing ids are absent from the map.
func (s *BlogStore) GetByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.Blog, error) {
	refs := map[primitive.ObjectID]models.Blog{}
	if len(ids) == 0 {
		return refs, nil
	}
	blogs, err := s.find(ctx, bson.M{"_id": bson.M{"$in": ids}}, options.Find())
	if err != nil {
		return nil, err
	}
	for _, b := range blogs {
		refs[b.ID] = b
	}
	return refs, nil
}

// Delete removes a blog permanently. Comments and notifications that
// reference it are left in place (no cascade), matching the product
// behavior callers rely on.
func (s *BlogStore) Delete(ctx context.Context, blogID string, actorID primitive.ObjectID) error {
	blog, err := s.Get(ctx, blogID, false, true)
	if err != nil {
		return err
	}
	if blog.Author != actorID {
		return fmt.Errorf("%w: only the author can delete a blog", ErrAuthorization)
	}

	if _, err := s.blogs.DeleteOne(ctx, bson.M{"_id": blog.ID}); err != nil {
		return storageErr("delete blog", err)
	}
	_, err = s.users.UpdateByID(ctx, actorID, bson.M{"$pull": bson.M{"blogs": blog.ID}})
	if err != nil {
		return storageErr("unlink blog from author", err)
	}
	return nil
}

// ListLatest returns one page of published blogs, newest first.
func (s *BlogStore) ListLatest(ctx context.Context, page int64) ([]models.Blog, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "publishedAt", Value: -1}}).
		SetSkip((page - 1) * blogsPerPage).
		SetLimit(blogsPerPage)
	return s.find(ctx, bson.M{"draft": false}, opts)
}

func (s *BlogStore) CountLatest(ctx context.Context) (int64, error) {
	count, err := s.blogs.CountDocuments(ctx, bson.M{"draft": false})
	if err != nil {
		return 0, storageErr("count blogs", err)
	}
	return count, nil
}

// Trending orders published blogs by reads, then likes, then publish time.
// The tie-break chain is fixed.
func (s *BlogStore) Trending(ctx context.Context) ([]models.Blog, error) {
	opts := options.Find().
		SetSort(bson.D{
			{Key: "activity.total_reads", Value: -1},
			{Key: "activity.total_likes", Value: -1},
			{Key: "publishedAt", Value: -1},
		}).
		SetLimit(trendingLimit)
	return s.find(ctx, bson.M{"draft": false}, opts)
}

// AuthorQuery filters an author's own blogs in the dashboard.
type AuthorQuery struct {
	Author primitive.ObjectID
	Draft  *bool
	Query  string
}

func (q AuthorQuery) filter() bson.M {
	filter := bson.M{"author": q.Author}
	if q.Draft != nil {
		filter["draft"] = *q.Draft
	}
	if q.Query != "" {
		filter["title"] = primitive.Regex{Pattern: regexp.QuoteMeta(q.Query), Options: "i"}
	}
	return filter
}

func (s *BlogStore) ListByAuthor(ctx context.Context, q AuthorQuery, page int64) ([]models.Blog, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "updatedAt", Value: -1}}).
		SetSkip((page - 1) * blogsPerPage).
		SetLimit(blogsPerPage)
	return s.find(ctx, q.filter(), opts)
}

func (s *BlogStore) CountByAuthor(ctx context.Context, q AuthorQuery) (int64, error) {
	count, err := s.blogs.CountDocuments(ctx, q.filter())
	if err != nil {
		return 0, storageErr("count author blogs", err)
	}
	return count, nil
}

// SearchQuery filters published blogs by free text or tag. Matching is a
// plain case-insensitive substring match; relevance ranking is out of
// scope here.
type SearchQuery struct {
	Query         string
	Tag           string
	EliminateBlog string
	Limit         int64
}

func (s *BlogStore) searchFilter(ctx context.Context, q SearchQuery) bson.M {
	filter := bson.M{"draft": false}

	if q.EliminateBlog != "" {
		var eliminate models.Blog
		err := s.blogs.FindOne(ctx, bson.M{"blog_id": q.EliminateBlog}).Decode(&eliminate)
		if err == nil {
			filter["_id"] = bson.M{"$ne": eliminate.ID}
		}
	}
	if q.Query != "" {
		re := primitive.Regex{Pattern: regexp.QuoteMeta(q.Query), Options: "i"}
		filter["$or"] = bson.A{
			bson.M{"title": re},
			bson.M{"des": re},
			bson.M{"tags": bson.M{"$in": bson.A{re}}},
		}
	}
	if q.Tag != "" {
		filter["tags"] = q.Tag
	}
	return filter
}

func (s *BlogStore) Search(ctx context.Context, q SearchQuery, page int64) ([]models.Blog, error) {
	perPage := q.Limit
	if perPage <= 0 {
		perPage = blogsPerPage
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "publishedAt", Value: -1}}).
		SetSkip((page - 1) * perPage).
		SetLimit(perPage)
	return s.find(ctx, s.searchFilter(ctx, q), opts)
}

func (s *BlogStore) SearchCount(ctx context.Context, q SearchQuery) (int64, error) {
	count, err := s.blogs.CountDocuments(ctx, s.searchFilter(ctx, q))
	if err != nil {
		return 0, storageErr("count search blogs", err)
	}
	return count, nil
}

// DistinctTags returns up to limit distinct tags of published blogs in
// random order.
func (s *BlogStore) DistinctTags(ctx context.Context, limit int) ([]string, error) {
	if limit <= 0 || limit > maxDistinctTags {
		limit = maxDistinctTags
	}
	values, err := s.blogs.Distinct(ctx, "tags", bson.M{"draft": false})
	if err != nil {
		return nil, storageErr("distinct tags", err)
	}

	tags := make([]string, 0, len(values))
	for _, v := range values {
		if tag, ok := v.(string); ok {
			tags = append(tags, tag)
		}
	}
	rand.Shuffle(len(tags), func(i, j int) {
		tags[i], tags[j] = tags[j], tags[i]
	})
	if len(tags) > limit {
		tags = tags[:limit]
	}
	return tags, nil
}

// Like adds the user to liked_by and bumps the counter in one update, so
// the set and the counter can never drift apart within a single call.
func (s *BlogStore) Like(ctx context.Context, blogID, userID primitive.ObjectID) error {
	_, err := s.blogs.UpdateByID(ctx, blogID, bson.M{
		"$addToSet": bson.M{"liked_by": userID},
		"$inc":      bson.M{"activity.total_likes": 1},
	})
	if err != nil {
		return storageErr("like blog", err)
	}
	return nil
}

func (s *BlogStore) Unlike(ctx context.Context, blogID, userID primitive.ObjectID) error {
	_, err := s.blogs.UpdateByID(ctx, blogID, bson.M{
		"$pull": bson.M{"liked_by": userID},
		"$inc":  bson.M{"activity.total_likes": -1},
	})
	if err != nil {
		return storageErr("unlike blog", err)
	}
	return nil
}

// AttachComment records the comment reference on the blog document.
func (s *BlogStore) AttachComment(ctx context.Context, blogID, commentID primitive.ObjectID) error {
	_, err := s.blogs.UpdateByID(ctx, blogID, bson.M{"$push": bson.M{"comments": commentID}})
	if err != nil {
		return storageErr("attach comment to blog", err)
	}
	return nil
}

func (s *BlogStore) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.Blog, error) {
	cursor, err := s.blogs.Find(ctx, filter, opts)
	if err != nil {
		return nil, storageErr("list blogs", err)
	}
	blogs := []models.Blog{}
	if err := cursor.All(ctx, &blogs); err != nil {
		return nil, storageErr("decode blogs", err)
	}
	return blogs, nil
}

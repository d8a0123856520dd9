package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/engrsakib/weblog-with-go/models"
)

// CommentStore owns the comment documents and their parent/child links.
type CommentStore struct {
	comments Collection
}

func NewCommentStore(comments Collection) *CommentStore {
	return &CommentStore{comments: comments}
}

// Create inserts a live comment. The body must be non-empty after trimming.
func (s *CommentStore) Create(ctx context.Context, blogID, blogAuthor, authorID primitive.ObjectID, body string, parent *primitive.ObjectID) (models.Comment, error) {
	if strings.TrimSpace(body) == "" {
		return models.Comment{}, fmt.Errorf("%w: comment cannot be empty", ErrValidation)
	}

	comment := models.Comment{
		ID:          primitive.NewObjectID(),
		BlogID:      blogID,
		BlogAuthor:  blogAuthor,
		Text:        body,
		CommentedBy: authorID,
		IsReply:     parent != nil,
		Parent:      parent,
		Children:    []primitive.ObjectID{},
		CommentedAt: time.Now(),
	}

	if _, err := s.comments.InsertOne(ctx, comment); err != nil {
		return models.Comment{}, storageErr("insert comment", err)
	}
	return comment, nil
}

func (s *CommentStore) Get(ctx context.Context, id primitive.ObjectID) (models.Comment, error) {
	var comment models.Comment
	err := s.comments.FindOne(ctx, bson.M{"_id": id}).Decode(&comment)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Comment{}, ErrNotFound
	}
	if err != nil {
		return models.Comment{}, storageErr("find comment", err)
	}
	return comment, nil
}

// GetByIDs batch-fetches comments for reference embedding, keyed by id.
func (s *CommentStore) GetByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.Comment, error) {
	refs := map[primitive.ObjectID]models.Comment{}
	if len(ids) == 0 {
		return refs, nil
	}
	cursor, err := s.comments.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, storageErr("find comments", err)
	}
	comments := []models.Comment{}
	if err := cursor.All(ctx, &comments); err != nil {
		return nil, storageErr("decode comments", err)
	}
	for _, cm := range comments {
		refs[cm.ID] = cm
	}
	return refs, nil
}

// LinkChild appends childID to the parent's children sequence. A nil parent
// means a top-level comment and is a silent no-op.
func (s *CommentStore) LinkChild(ctx context.Context, parentID *primitive.ObjectID, childID primitive.ObjectID) error {
	if parentID == nil {
		return nil
	}
	_, err := s.comments.UpdateByID(ctx, *parentID, bson.M{"$push": bson.M{"children": childID}})
	if err != nil {
		return storageErr("link child comment", err)
	}
	return nil
}

// UnlinkChild removes childID from the parent's children sequence. Only
// called when the deleted comment is itself a reply.
func (s *CommentStore) UnlinkChild(ctx context.Context, parentID, childID primitive.ObjectID) error {
	_, err := s.comments.UpdateByID(ctx, parentID, bson.M{"$pull": bson.M{"children": childID}})
	if err != nil {
		return storageErr("unlink child comment", err)
	}
	return nil
}

// SoftDelete marks the comment deleted. Descendants are untouched: a
// deleted comment's replies remain visible and resolvable by id.
func (s *CommentStore) SoftDelete(ctx context.Context, id primitive.ObjectID) error {
	now := time.Now()
	_, err := s.comments.UpdateByID(ctx, id, bson.M{"$set": bson.M{"deletedAt": now}})
	if err != nil {
		return storageErr("soft delete comment", err)
	}
	return nil
}

// ListTopLevel returns live top-level comments of a blog, newest first.
func (s *CommentStore) ListTopLevel(ctx context.Context, blogID primitive.ObjectID, skip, limit int64) ([]models.Comment, error) {
	filter := bson.M{
		"blog_id":   blogID,
		"isReply":   false,
		"deletedAt": nil,
	}
	return s.list(ctx, filter, skip, limit)
}

// ListReplies returns the direct replies of a comment, newest first.
// Soft-deleted replies are not filtered out here; a deleted parent can
// still show its thread.
func (s *CommentStore) ListReplies(ctx context.Context, parentID primitive.ObjectID, skip, limit int64) ([]models.Comment, error) {
	filter := bson.M{
		"parent":  parentID,
		"isReply": true,
	}
	return s.list(ctx, filter, skip, limit)
}

func (s *CommentStore) list(ctx context.Context, filter bson.M, skip, limit int64) ([]models.Comment, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "commentedAt", Value: -1}}).
		SetSkip(skip).
		SetLimit(limit)

	cursor, err := s.comments.Find(ctx, filter, opts)
	if err != nil {
		return nil, storageErr("list comments", err)
	}
	comments := []models.Comment{}
	if err := cursor.All(ctx, &comments); err != nil {
		return nil, storageErr("decode comments", err)
	}
	return comments, nil
}

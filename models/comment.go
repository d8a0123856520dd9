package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Comment struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	BlogID     primitive.ObjectID `bson:"blog_id" json:"blog_id"`
	BlogAuthor primitive.ObjectID `bson:"blog_author" json:"blog_author"`
	Text       string             `bson:"comment" json:"comment"`

	CommentedBy primitive.ObjectID `bson:"commented_by" json:"commented_by"`

	// IsReply is true iff Parent is set. Children and Parent must stay
	// symmetric: an id appears in a parent's children exactly when its own
	// parent field points back.
	IsReply  bool                 `bson:"isReply" json:"isReply"`
	Parent   *primitive.ObjectID  `bson:"parent,omitempty" json:"parent,omitempty"`
	Children []primitive.ObjectID `bson:"children" json:"children"`

	CommentedAt time.Time `bson:"commentedAt" json:"commentedAt"`
	// DeletedAt is a soft delete marker. The row and its parent linkage
	// stay mutable after deletion.
	DeletedAt *time.Time `bson:"deletedAt,omitempty" json:"deletedAt,omitempty"`
}

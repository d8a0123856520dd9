package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Activity holds the denormalized engagement counters of a blog. The
// counters are only ever mutated through $inc updates so concurrent
// requests never lose a delta.
type Activity struct {
	TotalLikes          int64 `bson:"total_likes" json:"total_likes"`
	TotalComments       int64 `bson:"total_comments" json:"total_comments"`
	TotalReads          int64 `bson:"total_reads" json:"total_reads"`
	TotalParentComments int64 `bson:"total_parent_comments" json:"total_parent_comments"`
}

type Blog struct {
	ID      primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	BlogID  string             `bson:"blog_id" json:"blog_id"` // human readable slug, immutable
	Title   string             `bson:"title" json:"title"`
	Banner  string             `bson:"banner" json:"banner"`
	Des     string             `bson:"des" json:"des"`
	Content bson.A             `bson:"content" json:"content"`
	Tags    []string           `bson:"tags" json:"tags"`
	Author  primitive.ObjectID `bson:"author" json:"author"`

	Activity Activity             `bson:"activity" json:"activity"`
	Comments []primitive.ObjectID `bson:"comments" json:"comments"`
	// liked_by is a membership set; activity.total_likes must equal its
	// size, which is why like/unlike mutate both in a single update.
	LikedBy []primitive.ObjectID `bson:"liked_by" json:"-"`

	Draft       bool       `bson:"draft" json:"draft"`
	PublishedAt *time.Time `bson:"publishedAt,omitempty" json:"publishedAt,omitempty"`
	EditedAt    *time.Time `bson:"editedAt,omitempty" json:"editedAt,omitempty"`
	CreatedAt   time.Time  `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time  `bson:"updatedAt" json:"updatedAt"`
}

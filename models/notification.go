package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	NotificationLike    = "like"
	NotificationComment = "comment"
	NotificationReply   = "reply"
)

type Notification struct {
	ID              primitive.ObjectID  `bson:"_id,omitempty" json:"_id"`
	Type            string              `bson:"type" json:"type"`
	Blog            primitive.ObjectID  `bson:"blog" json:"blog"`
	NotificationFor primitive.ObjectID  `bson:"notification_for" json:"notification_for"`
	User            primitive.ObjectID  `bson:"user" json:"user"` // the actor
	Comment         *primitive.ObjectID `bson:"comment,omitempty" json:"comment,omitempty"`
	Seen            bool                `bson:"seen" json:"seen"`
	CreatedAt       time.Time           `bson:"createdAt" json:"createdAt"`
}

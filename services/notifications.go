package services

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/engrsakib/weblog-with-go/models"
	"github.com/engrsakib/weblog-with-go/utils"
)

// Notification filters accepted by ListForRecipient and Count.
const (
	FilterAll    = "all"
	FilterUnread = "unread"
	FilterRead   = "read"
)

// NotificationService creates and lists notification rows. Rows are never
// deleted here; read state is tracked independently of the originating
// event.
type NotificationService struct {
	notifications Collection
}

func NewNotificationService(notifications Collection) *NotificationService {
	return &NotificationService{notifications: notifications}
}

// Emit inserts one unseen notification. Self-directed events (recipient ==
// actor) never produce a row.
func (s *NotificationService) Emit(ctx context.Context, typ string, blogID, recipient, actor primitive.ObjectID, commentID *primitive.ObjectID) error {
	if recipient == actor {
		return nil
	}

	notification := models.Notification{
		ID:              primitive.NewObjectID(),
		Type:            typ,
		Blog:            blogID,
		NotificationFor: recipient,
		User:            actor,
		Comment:         commentID,
		Seen:            false,
		CreatedAt:       time.Now(),
	}
	if _, err := s.notifications.InsertOne(ctx, notification); err != nil {
		return storageErr("insert notification", err)
	}
	return nil
}

// filterQuery builds the predicate a filter maps to. List and Count must
// use the same predicate or pagination math breaks.
func filterQuery(recipient primitive.ObjectID, filter string) bson.M {
	query := bson.M{"notification_for": recipient}
	switch filter {
	case FilterUnread:
		query["seen"] = false
	case FilterRead:
		query["seen"] = true
	case models.NotificationLike, models.NotificationComment, models.NotificationReply:
		query["type"] = filter
	}
	return query
}

// ListForRecipient returns one page of notifications, newest first, and
// marks every unseen row in the page as seen (read-on-view). A row returned
// once with filter=unread is never returned by that filter again.
func (s *NotificationService) ListForRecipient(ctx context.Context, recipient primitive.ObjectID, filter string, page, pageSize, deletedDocCount int64) ([]models.Notification, error) {
	query := filterQuery(recipient, filter)
	skip := utils.ResolveOffset(page, pageSize, deletedDocCount)

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(skip).
		SetLimit(pageSize)

	cursor, err := s.notifications.Find(ctx, query, opts)
	if err != nil {
		return nil, storageErr("list notifications", err)
	}
	notifications := []models.Notification{}
	if err := cursor.All(ctx, &notifications); err != nil {
		return nil, storageErr("decode notifications", err)
	}

	unseen := []primitive.ObjectID{}
	for _, n := range notifications {
		if !n.Seen {
			unseen = append(unseen, n.ID)
		}
	}
	if len(unseen) > 0 {
		_, err := s.notifications.UpdateMany(ctx,
			bson.M{"_id": bson.M{"$in": unseen}},
			bson.M{"$set": bson.M{"seen": true}},
		)
		if err != nil {
			return nil, storageErr("mark notifications seen", err)
		}
	}

	return notifications, nil
}

// Count returns the total matching a filter, for "has more pages" math.
func (s *NotificationService) Count(ctx context.Context, recipient primitive.ObjectID, filter string) (int64, error) {
	total, err := s.notifications.CountDocuments(ctx, filterQuery(recipient, filter))
	if err != nil {
		return 0, storageErr("count notifications", err)
	}
	return total, nil
}

// HasUnread reports whether any unseen notification exists. It backs a
// boolean badge, not an exact count.
func (s *NotificationService) HasUnread(ctx context.Context, recipient primitive.ObjectID) (bool, error) {
	count, err := s.notifications.CountDocuments(ctx, bson.M{
		"notification_for": recipient,
		"seen":             false,
	})
	if err != nil {
		return false, storageErr("count unread notifications", err)
	}
	return count > 0, nil
}

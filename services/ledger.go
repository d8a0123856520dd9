package services

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CounterField selects which activity counter a delta applies to.
type CounterField string

const (
	FieldLikes          CounterField = "likes"
	FieldComments       CounterField = "comments"
	FieldParentComments CounterField = "parent_comments"
	FieldReads          CounterField = "reads"
)

var counterKeys = map[CounterField]string{
	FieldLikes:          "activity.total_likes",
	FieldComments:       "activity.total_comments",
	FieldParentComments: "activity.total_parent_comments",
	FieldReads:          "activity.total_reads",
}

// CounterLedger applies counter deltas to a blog's activity aggregate.
//
// Every delta is a single $inc update, i.e. one atomic read-modify-write on
// the server. N concurrent callers always end up with initial + sum of
// deltas, so the counters never need a reconciliation pass. The result is
// not floored at zero; an excess decrement goes negative.
type CounterLedger struct {
	blogs Collection
}

func NewCounterLedger(blogs Collection) *CounterLedger {
	return &CounterLedger{blogs: blogs}
}

// ApplyDelta increments the given counter by amount. A zero amount is a
// no-op and issues no write.
func (l *CounterLedger) ApplyDelta(ctx context.Context, blogID primitive.ObjectID, field CounterField, amount int64) error {
	key, ok := counterKeys[field]
	if !ok {
		return fmt.Errorf("%w: unknown counter field %q", ErrValidation, field)
	}
	if amount == 0 {
		return nil
	}

	_, err := l.blogs.UpdateByID(ctx, blogID, bson.M{"$inc": bson.M{key: amount}})
	if err != nil {
		return storageErr("apply counter delta", err)
	}
	return nil
}

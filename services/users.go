package services

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/engrsakib/weblog-with-go/models"
)

// UserResolver looks up the display fields (fullname, username, avatar)
// embedded into comment, blog and notification responses. This service
// stores only user references; the accounts themselves are owned elsewhere.
type UserResolver struct {
	users Collection
}

func NewUserResolver(users Collection) *UserResolver {
	return &UserResolver{users: users}
}

// Resolve fetches the profiles for a set of user ids in one query. Unknown
// ids are simply absent from the result map.
func (r *UserResolver) Resolve(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.User, error) {
	profiles := map[primitive.ObjectID]models.User{}
	if len(ids) == 0 {
		return profiles, nil
	}

	opts := options.Find().SetProjection(bson.M{"personal_info": 1})
	cursor, err := r.users.Find(ctx, bson.M{"_id": bson.M{"$in": ids}}, opts)
	if err != nil {
		return nil, storageErr("find users", err)
	}
	users := []models.User{}
	if err := cursor.All(ctx, &users); err != nil {
		return nil, storageErr("decode users", err)
	}

	for _, u := range users {
		profiles[u.ID] = u
	}
	return profiles, nil
}

package models

import "go.mongodb.org/mongo-driver/bson/primitive"

type PersonalInfo struct {
	Fullname   string `bson:"fullname" json:"fullname"`
	Username   string `bson:"username" json:"username"`
	ProfileImg string `bson:"profile_img" json:"profile_img"`
}

// User carries only the profile fields this service embeds into comment,
// blog and notification responses. Account management lives elsewhere.
type User struct {
	ID           primitive.ObjectID   `bson:"_id,omitempty" json:"_id"`
	PersonalInfo PersonalInfo         `bson:"personal_info" json:"personal_info"`
	Blogs        []primitive.ObjectID `bson:"blogs" json:"-"`
}

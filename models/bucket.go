package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Bucket holds what one account can see: its projects, tasks and favorites.
type Bucket struct {
	ID        primitive.ObjectID   `json:"_id" bson:"_id,omitempty"`
	Owner     primitive.ObjectID   `json:"owner" bson:"owner"`
	Projects  []primitive.ObjectID `json:"projects" bson:"projects"`
	Tasks     []primitive.ObjectID `json:"tasks" bson:"tasks"`
	Favorites []primitive.ObjectID `json:"favorites" bson:"favorites"`
}

func NewBucket(owner primitive.ObjectID) (*Bucket, error) {
	if owner.IsZero() {
		return nil, &ValidationError{Field: "owner", Reason: "is required"}
	}
	return &Bucket{
		Owner:     owner,
		Projects:  []primitive.ObjectID{},
		Tasks:     []primitive.ObjectID{},
		Favorites: []primitive.ObjectID{},
	}, nil
}

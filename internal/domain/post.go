package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PostImage is a stored picture attached to a post. Original and thumbnail
// currently point at the same rendition.
type PostImage struct {
	PublicID  string `bson:"publicId" json:"publicId"`
	Original  string `bson:"original" json:"original"`
	Thumbnail string `bson:"thumbnail" json:"thumbnail"`
}

// Post is a feed entry created by a developer.
type Post struct {
	ID        primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Caption   string               `bson:"caption,omitempty" json:"caption,omitempty"`
	Images    []PostImage          `bson:"images,omitempty" json:"images,omitempty"`
	Owner     primitive.ObjectID   `bson:"owner" json:"owner"`
	Likes     []primitive.ObjectID `bson:"likes,omitempty" json:"likes,omitempty"`
	Comments  []primitive.ObjectID `bson:"comments,omitempty" json:"comments,omitempty"`
	CreatedAt time.Time            `bson:"createdAt" json:"createdAt"`
}

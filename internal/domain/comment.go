package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Reply is embedded inside a Comment, not a separate collection. Replies
// are small owner-scoped lists; lookups scan the array by id.
type Reply struct {
	ID        primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	User      primitive.ObjectID   `bson:"user" json:"user"`
	Reply     string               `bson:"reply,omitempty" json:"reply,omitempty"`
	Image     string               `bson:"image,omitempty" json:"image,omitempty"`
	Likes     []primitive.ObjectID `bson:"likes,omitempty" json:"likes,omitempty"`
	CreatedAt time.Time            `bson:"createdAt" json:"createdAt"`
}

// Comment belongs to one Post and is referenced from the post's comments
// array by id.
type Comment struct {
	ID        primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Post      primitive.ObjectID   `bson:"post" json:"post"`
	Comment   string               `bson:"comment,omitempty" json:"comment,omitempty"`
	Image     string               `bson:"image,omitempty" json:"image,omitempty"`
	User      primitive.ObjectID   `bson:"user" json:"user"`
	Likes     []primitive.ObjectID `bson:"likes,omitempty" json:"likes,omitempty"`
	Replies   []Reply              `bson:"replies,omitempty" json:"replies,omitempty"`
	CreatedAt time.Time            `bson:"createdAt" json:"createdAt"`
}

// FindReply returns the index of the reply with the given id, or -1.
func (c *Comment) FindReply(replyID primitive.ObjectID) int {
	for i := range c.Replies {
		if c.Replies[i].ID == replyID {
			return i
		}
	}
	return -1
}

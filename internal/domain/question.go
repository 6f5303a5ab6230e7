package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Tag labels a question on the stack board.
type Tag struct {
	ID  primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Tag string             `bson:"tag,omitempty" json:"tag,omitempty"`
}

// Question is a Q&A thread ("stack") opened by a developer.
type Question struct {
	ID          primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Question    string               `bson:"question,omitempty" json:"question,omitempty"`
	Description string               `bson:"description,omitempty" json:"description,omitempty"`
	Tags        []Tag                `bson:"tags,omitempty" json:"tags,omitempty"`
	Owner       primitive.ObjectID   `bson:"owner" json:"owner"`
	Answers     []primitive.ObjectID `bson:"answers,omitempty" json:"answers,omitempty"`
	Views       []primitive.ObjectID `bson:"views,omitempty" json:"views,omitempty"`
	Likes       []primitive.ObjectID `bson:"likes,omitempty" json:"likes,omitempty"`
	CreatedAt   time.Time            `bson:"createdAt" json:"createdAt"`
}

// Answer belongs to one Question.
type Answer struct {
	ID         primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	QuestionID primitive.ObjectID   `bson:"questionId" json:"questionId"`
	Answer     string               `bson:"answer,omitempty" json:"answer,omitempty"`
	User       primitive.ObjectID   `bson:"user" json:"user"`
	Likes      []primitive.ObjectID `bson:"likes,omitempty" json:"likes,omitempty"`
	CreatedAt  time.Time            `bson:"createdAt" json:"createdAt"`
}

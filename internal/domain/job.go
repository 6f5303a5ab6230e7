package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Applicant links a developer to a job together with the uploaded CV URL.
type Applicant struct {
	User primitive.ObjectID `bson:"user" json:"user"`
	CV   string             `bson:"cv,omitempty" json:"cv,omitempty"`
}

// Job is a hiring post created by a client.
type Job struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name          string             `bson:"name,omitempty" json:"name,omitempty"`
	About         string             `bson:"about,omitempty" json:"about,omitempty"`
	Time          string             `bson:"time,omitempty" json:"time,omitempty"`   // Fulltime / Halftime
	Label         string             `bson:"label,omitempty" json:"label,omitempty"` // Beginner / Intermediate / Expert
	Salary        string             `bson:"salary,omitempty" json:"salary,omitempty"`
	Location      string             `bson:"location,omitempty" json:"location,omitempty"`
	Applicants    []Applicant        `bson:"applicants,omitempty" json:"applicants,omitempty"`
	Owner         primitive.ObjectID `bson:"owner" json:"owner"`
	StartEmployee int                `bson:"startEmployee,omitempty" json:"startEmployee,omitempty"`
	EndEmployee   int                `bson:"endEmployee,omitempty" json:"endEmployee,omitempty"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
}

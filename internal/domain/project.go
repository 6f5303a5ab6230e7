package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Project lifecycle states.
const (
	ProjectStatusApplying = "applying"
	ProjectStatusComplete = "complete"

	PaymentNotVerified = "notverified"
	PaymentVerified    = "verified"
)

// Project is a freelance engagement posted by a client. Developers bid on
// it with proposals; the client hires one or more of them and settles the
// price on completion.
type Project struct {
	ID         primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Name       string               `bson:"name,omitempty" json:"name,omitempty"`
	About      string               `bson:"about,omitempty" json:"about,omitempty"`
	Time       string               `bson:"time,omitempty" json:"time,omitempty"`
	Label      string               `bson:"label,omitempty" json:"label,omitempty"`
	Price      int64                `bson:"price,omitempty" json:"price,omitempty"`
	PriceType  string               `bson:"priceType,omitempty" json:"priceType,omitempty"` // Fixed Price / Hourly
	Location   string               `bson:"location,omitempty" json:"location,omitempty"`
	Type       string               `bson:"type,omitempty" json:"type,omitempty"`
	Category   string               `bson:"category,omitempty" json:"category,omitempty"`
	Length     string               `bson:"length,omitempty" json:"length,omitempty"` // Under 3 Months / Over 3 Months
	Skills     []Skill              `bson:"skills,omitempty" json:"skills,omitempty"`
	Proposers  []primitive.ObjectID `bson:"proposers,omitempty" json:"proposers,omitempty"` // Proposal refs
	Owner      primitive.ObjectID   `bson:"owner" json:"owner"`
	Interviews []primitive.ObjectID `bson:"interviews,omitempty" json:"interviews,omitempty"`
	Invites    []primitive.ObjectID `bson:"invites,omitempty" json:"invites,omitempty"`
	Payment    string               `bson:"payment" json:"payment"`
	HiredDev   []primitive.ObjectID `bson:"hiredDev,omitempty" json:"hiredDev,omitempty"`
	Status     string               `bson:"status" json:"status"`
	CreatedAt  time.Time            `bson:"createdAt" json:"createdAt"`
}

// Proposal is a developer's bid on a project.
type Proposal struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	User        primitive.ObjectID `bson:"user" json:"user"`
	ProjectID   primitive.ObjectID `bson:"projectId" json:"projectId"`
	BidPrice    int64              `bson:"bidPrice,omitempty" json:"bidPrice,omitempty"`
	ProjectTime string             `bson:"projectTime,omitempty" json:"projectTime,omitempty"`
	CoverLetter string             `bson:"coverLetter,omitempty" json:"coverLetter,omitempty"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
}

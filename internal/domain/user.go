package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role type to distinguish between user roles
type Role string

const (
	RoleDeveloper Role = "developer"
	RoleClient    Role = "client"
	RoleAdmin     Role = "admin"
)

// Image holds the stored-object identifier and the public URL of an
// uploaded picture (avatar, banner, post image).
type Image struct {
	PublicID string `bson:"publicId,omitempty" json:"publicId,omitempty"`
	URL      string `bson:"url,omitempty" json:"url,omitempty"`
}

// Profile sub-documents. Each entry carries its own generated id so the
// delete endpoints can locate it by id within the owning array.

type Education struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	School    string             `bson:"school,omitempty" json:"school,omitempty"`
	Degree    string             `bson:"degree,omitempty" json:"degree,omitempty"`
	StartDate string             `bson:"startDate,omitempty" json:"startDate,omitempty"`
	EndDate   string             `bson:"endDate,omitempty" json:"endDate,omitempty"`
	Grade     string             `bson:"grade,omitempty" json:"grade,omitempty"`
}

type Skill struct {
	ID    primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Skill string             `bson:"skill,omitempty" json:"skill,omitempty"`
}

type Language struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Language string             `bson:"language,omitempty" json:"language,omitempty"`
}

type Experience struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title       string             `bson:"title,omitempty" json:"title,omitempty"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Time        string             `bson:"time,omitempty" json:"time,omitempty"`
	Certificate string             `bson:"certificate,omitempty" json:"certificate,omitempty"`
}

type Portfolio struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title       string             `bson:"title,omitempty" json:"title,omitempty"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Link        string             `bson:"link,omitempty" json:"link,omitempty"`
	GitLink     string             `bson:"gitLink,omitempty" json:"gitLink,omitempty"`
}

// User represents a member of the community: a developer, a client posting
// jobs and projects, or an admin.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string             `bson:"name" json:"name"`
	Contact      string             `bson:"contact,omitempty" json:"contact,omitempty"`
	Email        string             `bson:"email" json:"email"` // Unique index
	PasswordHash string             `bson:"passwordHash" json:"-"`
	Role         Role               `bson:"role" json:"role"`
	Avatar       Image              `bson:"avatar,omitempty" json:"avatar,omitempty"`
	Banner       Image              `bson:"banner,omitempty" json:"banner,omitempty"`

	// Balance is kept in whole currency units. Debits go through a
	// conditional update so it never drops below zero.
	Balance int64 `bson:"balance" json:"balance"`

	About    string `bson:"about,omitempty" json:"about,omitempty"`
	Title    string `bson:"title,omitempty" json:"title,omitempty"`
	Location string `bson:"location,omitempty" json:"location,omitempty"`

	Educations  []Education  `bson:"educations,omitempty" json:"educations,omitempty"`
	Skills      []Skill      `bson:"skills,omitempty" json:"skills,omitempty"`
	Languages   []Language   `bson:"languages,omitempty" json:"languages,omitempty"`
	Experiences []Experience `bson:"experiences,omitempty" json:"experiences,omitempty"`
	Portfolios  []Portfolio  `bson:"portfolios,omitempty" json:"portfolios,omitempty"`

	// Back-references to owned and participated resources.
	Posts      []primitive.ObjectID `bson:"posts,omitempty" json:"posts,omitempty"`
	Questions  []primitive.ObjectID `bson:"questions,omitempty" json:"questions,omitempty"`
	Jobs       []primitive.ObjectID `bson:"jobs,omitempty" json:"jobs,omitempty"`             // Jobs applied to
	MyJobs     []primitive.ObjectID `bson:"myJobs,omitempty" json:"myJobs,omitempty"`         // Jobs owned (client)
	Projects   []primitive.ObjectID `bson:"projects,omitempty" json:"projects,omitempty"`     // Projects applied to
	MyProjects []primitive.ObjectID `bson:"myProjects,omitempty" json:"myProjects,omitempty"` // Projects owned (client)

	OngoingProjectsDev     []primitive.ObjectID `bson:"ongoingProjectsDev,omitempty" json:"ongoingProjectsDev,omitempty"`
	OngoingProjectsClient  []primitive.ObjectID `bson:"ongoingProjectsClient,omitempty" json:"ongoingProjectsClient,omitempty"`
	CompleteProjectsDev    []primitive.ObjectID `bson:"completeProjectsDev,omitempty" json:"completeProjectsDev,omitempty"`
	CompleteProjectsClient []primitive.ObjectID `bson:"completeProjectsClient,omitempty" json:"completeProjectsClient,omitempty"`

	// Password reset state. The raw token is mailed to the user; only its
	// sha256 hex digest is stored.
	ResetPasswordToken  string     `bson:"resetPasswordToken,omitempty" json:"-"`
	ResetPasswordExpire *time.Time `bson:"resetPasswordExpire,omitempty" json:"-"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

func (u *User) IsDeveloper() bool {
	return u.Role == RoleDeveloper
}

func (u *User) IsClient() bool {
	return u.Role == RoleClient
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

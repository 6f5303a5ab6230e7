package service

import (
	"context"
	"errors"

	"devcommunity/internal/domain"
	"devcommunity/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ErrInvalidID is returned when a path or body id is not a valid hex ObjectID.
var ErrInvalidID = errors.New("invalid id format")

// parseID converts a hex string id from the transport layer to an ObjectID.
func parseID(id string) (primitive.ObjectID, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, ErrInvalidID
	}
	return objectID, nil
}

// Detail structs are the read-time hydration ("populate") step: stored
// reference ids resolved into the referenced documents. Handlers serialize
// them directly.

type PostDetails struct {
	domain.Post
	OwnerDetail    *domain.User     `json:"ownerDetail,omitempty"`
	CommentDetails []CommentDetails `json:"commentDetails,omitempty"`
}

type CommentDetails struct {
	domain.Comment
	UserDetail   *domain.User   `json:"userDetail,omitempty"`
	ReplyDetails []ReplyDetails `json:"replyDetails,omitempty"`
}

type ReplyDetails struct {
	domain.Reply
	UserDetail *domain.User `json:"userDetail,omitempty"`
}

type QuestionDetails struct {
	domain.Question
	OwnerDetail   *domain.User    `json:"ownerDetail,omitempty"`
	AnswerDetails []AnswerDetails `json:"answerDetails,omitempty"`
}

type AnswerDetails struct {
	domain.Answer
	UserDetail *domain.User `json:"userDetail,omitempty"`
}

type JobDetails struct {
	domain.Job
	OwnerDetail      *domain.User       `json:"ownerDetail,omitempty"`
	ApplicantDetails []ApplicantDetails `json:"applicantDetails,omitempty"`
}

type ApplicantDetails struct {
	UserDetail *domain.User `json:"userDetail,omitempty"`
	CV         string       `json:"cv,omitempty"`
}

type ProjectDetails struct {
	domain.Project
	OwnerDetail     *domain.User      `json:"ownerDetail,omitempty"`
	ProposalDetails []ProposalDetails `json:"proposalDetails,omitempty"`
}

type ProposalDetails struct {
	domain.Proposal
	UserDetail *domain.User `json:"userDetail,omitempty"`
}

// loadUserMap batch-fetches the given users and indexes them by id.
// Password hashes are cleared before the documents leave the service layer.
func loadUserMap(ctx context.Context, userRepo repository.UserRepository, ids []primitive.ObjectID) (map[primitive.ObjectID]*domain.User, error) {
	unique := make([]primitive.ObjectID, 0, len(ids))
	seen := make(map[primitive.ObjectID]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}

	users, err := userRepo.GetByIDs(ctx, unique)
	if err != nil {
		return nil, err
	}

	byID := make(map[primitive.ObjectID]*domain.User, len(users))
	for i := range users {
		users[i].PasswordHash = ""
		byID[users[i].ID] = &users[i]
	}
	return byID, nil
}

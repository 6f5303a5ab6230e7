package repository

import (
	"context"

	"devcommunity/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Error constants for the repository layer.
var (
	ErrNotFound          = RepositoryError("not found")
	ErrDuplicateEmail    = RepositoryError("email already taken")
	ErrInsufficientFunds = RepositoryError("insufficient funds")
	ErrUpdateFailed      = RepositoryError("update failed")
	ErrDeleteFailed      = RepositoryError("delete failed")
)

// RepositoryError helps distinguish repository errors.
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// ListOptions is the generic query-builder input for list endpoints.
// Keyword is matched with a case-insensitive regex against SearchField;
// Filters are exact-match constraints; Page/Limit paginate (skip/limit).
type ListOptions struct {
	Keyword     string
	SearchField string
	Filters     map[string]string
	Page        int
	Limit       int
}

// UserRepository defines the interface for interacting with user data.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
	GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]domain.User, error)
	GetByRole(ctx context.Context, role domain.Role) ([]domain.User, error)
	// GetByResetToken looks up a user by the sha256 hex digest of a reset
	// token. Tokens past resetPasswordExpire count as absent: implementations
	// must return ErrNotFound for them, not the user.
	GetByResetToken(ctx context.Context, tokenHash string) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	// Update replaces the stored document with the given one (save
	// semantics); array mutations happen in memory before the call.
	Update(ctx context.Context, user *domain.User) error
	Delete(ctx context.Context, id primitive.ObjectID) error

	// DebitBalance subtracts amount from the user's balance only when the
	// balance covers it, as a single conditional document update. Returns
	// ErrInsufficientFunds when it does not.
	DebitBalance(ctx context.Context, id primitive.ObjectID, amount int64) error
	CreditBalance(ctx context.Context, id primitive.ObjectID, amount int64) error
}

// PostRepository defines the interface for interacting with post data.
type PostRepository interface {
	Create(ctx context.Context, post *domain.Post) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Post, error)
	GetByOwner(ctx context.Context, owner primitive.ObjectID) ([]domain.Post, error)
	List(ctx context.Context) ([]domain.Post, error) // Newest first
	Update(ctx context.Context, post *domain.Post) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// CommentRepository defines the interface for interacting with post comments.
type CommentRepository interface {
	Create(ctx context.Context, comment *domain.Comment) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Comment, error)
	GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]domain.Comment, error)
	Update(ctx context.Context, comment *domain.Comment) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// QuestionRepository defines the interface for interacting with stack questions.
type QuestionRepository interface {
	Create(ctx context.Context, question *domain.Question) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Question, error)
	List(ctx context.Context) ([]domain.Question, error)
	Update(ctx context.Context, question *domain.Question) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// AnswerRepository defines the interface for interacting with question answers.
type AnswerRepository interface {
	Create(ctx context.Context, answer *domain.Answer) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Answer, error)
	GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]domain.Answer, error)
	Update(ctx context.Context, answer *domain.Answer) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// JobRepository defines the interface for interacting with job posts.
type JobRepository interface {
	Create(ctx context.Context, job *domain.Job) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Job, error)
	List(ctx context.Context, opts ListOptions) ([]domain.Job, error)
	Update(ctx context.Context, job *domain.Job) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// ProjectRepository defines the interface for interacting with projects.
type ProjectRepository interface {
	Create(ctx context.Context, project *domain.Project) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Project, error)
	List(ctx context.Context, opts ListOptions) ([]domain.Project, error)
	Update(ctx context.Context, project *domain.Project) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// ProposalRepository defines the interface for interacting with project proposals.
type ProposalRepository interface {
	Create(ctx context.Context, proposal *domain.Proposal) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Proposal, error)
	GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]domain.Proposal, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

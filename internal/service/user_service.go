package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"devcommunity/internal/domain"
	"devcommunity/internal/repository"
	"devcommunity/internal/storage"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrEntryNotFound = errors.New("profile entry not found")
	ErrInvalidRole   = errors.New("invalid role")
)

// Profile is the logged-in user's document with every back-reference list
// resolved into the referenced documents.
type Profile struct {
	*domain.User
	PostDetails     []PostDetails     `json:"postDetails,omitempty"`
	QuestionDetails []QuestionDetails `json:"questionDetails,omitempty"`

	AppliedJobDetails []JobDetails `json:"appliedJobDetails,omitempty"`
	MyJobDetails      []JobDetails `json:"myJobDetails,omitempty"`

	AppliedProjectDetails []ProjectDetails `json:"appliedProjectDetails,omitempty"`
	MyProjectDetails      []ProjectDetails `json:"myProjectDetails,omitempty"`

	OngoingProjectsDevDetails     []ProjectDetails `json:"ongoingProjectsDevDetails,omitempty"`
	OngoingProjectsClientDetails  []ProjectDetails `json:"ongoingProjectsClientDetails,omitempty"`
	CompleteProjectsDevDetails    []ProjectDetails `json:"completeProjectsDevDetails,omitempty"`
	CompleteProjectsClientDetails []ProjectDetails `json:"completeProjectsClientDetails,omitempty"`
}

// UserService handles profiles, the developer directory and admin account
// management.
type UserService interface {
	GetProfile(ctx context.Context, userID string) (*Profile, error)
	GetUser(ctx context.Context, id string) (*domain.User, error)

	UpdateProfile(ctx context.Context, userID, name, title, location, contact string) (*domain.User, error)
	UpdateAbout(ctx context.Context, userID, about string) (*domain.User, error)
	UpdateAvatar(ctx context.Context, userID, avatarDataURL string) (*domain.User, error)
	UpdateBanner(ctx context.Context, userID, bannerDataURL string) (*domain.User, error)

	AddEducation(ctx context.Context, userID string, education domain.Education) (*domain.User, error)
	DeleteEducation(ctx context.Context, userID, educationID string) (*domain.User, error)
	AddSkill(ctx context.Context, userID, skill string) (*domain.User, error)
	DeleteSkill(ctx context.Context, userID, skillID string) (*domain.User, error)
	AddLanguage(ctx context.Context, userID, language string) (*domain.User, error)
	DeleteLanguage(ctx context.Context, userID, languageID string) (*domain.User, error)
	AddExperience(ctx context.Context, userID string, experience domain.Experience) (*domain.User, error)
	DeleteExperience(ctx context.Context, userID, experienceID string) (*domain.User, error)
	AddPortfolio(ctx context.Context, userID string, portfolio domain.Portfolio) (*domain.User, error)
	DeletePortfolio(ctx context.Context, userID, portfolioID string) (*domain.User, error)

	Developers(ctx context.Context) ([]domain.User, error)
	Developer(ctx context.Context, id string) (*Profile, error)

	ListUsers(ctx context.Context) ([]domain.User, error)
	UpdateUserRole(ctx context.Context, id, name, email, role string) (*domain.User, error)
	DeleteUser(ctx context.Context, id string) error
}

type userService struct {
	userRepo     repository.UserRepository
	postRepo     repository.PostRepository
	questionRepo repository.QuestionRepository
	jobRepo      repository.JobRepository
	projectRepo  repository.ProjectRepository
	proposalRepo repository.ProposalRepository
	storage      storage.FileStorage
}

func NewUserService(
	userRepo repository.UserRepository,
	postRepo repository.PostRepository,
	questionRepo repository.QuestionRepository,
	jobRepo repository.JobRepository,
	projectRepo repository.ProjectRepository,
	proposalRepo repository.ProposalRepository,
	fileStorage storage.FileStorage,
) UserService {
	return &userService{
		userRepo:     userRepo,
		postRepo:     postRepo,
		questionRepo: questionRepo,
		jobRepo:      jobRepo,
		projectRepo:  projectRepo,
		proposalRepo: proposalRepo,
		storage:      fileStorage,
	}
}

// GetProfile loads the user and resolves all back-reference lists. Dangling
// references (a deleted post still listed on the user) are skipped rather
// than failing the whole profile.
func (s *userService) GetProfile(ctx context.Context, userID string) (*Profile, error) {
	objectID, err := parseID(userID)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(ctx, objectID)
	if err != nil {
		return nil, err
	}
	user.PasswordHash = ""

	profile := &Profile{User: user}

	posts, err := s.postRepo.GetByOwner(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load profile posts: %w", err)
	}
	for _, post := range posts {
		profile.PostDetails = append(profile.PostDetails, PostDetails{Post: post, OwnerDetail: user})
	}

	for _, id := range user.Questions {
		question, err := s.questionRepo.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				continue
			}
			return nil, fmt.Errorf("failed to load profile questions: %w", err)
		}
		profile.QuestionDetails = append(profile.QuestionDetails, QuestionDetails{Question: *question, OwnerDetail: user})
	}

	if profile.AppliedJobDetails, err = s.jobDetails(ctx, user.Jobs, false); err != nil {
		return nil, err
	}
	if profile.MyJobDetails, err = s.jobDetails(ctx, user.MyJobs, true); err != nil {
		return nil, err
	}

	if profile.AppliedProjectDetails, err = s.projectDetails(ctx, user.Projects, false); err != nil {
		return nil, err
	}
	if profile.MyProjectDetails, err = s.projectDetails(ctx, user.MyProjects, true); err != nil {
		return nil, err
	}
	if profile.OngoingProjectsDevDetails, err = s.projectDetails(ctx, user.OngoingProjectsDev, false); err != nil {
		return nil, err
	}
	if profile.OngoingProjectsClientDetails, err = s.projectDetails(ctx, user.OngoingProjectsClient, false); err != nil {
		return nil, err
	}
	if profile.CompleteProjectsDevDetails, err = s.projectDetails(ctx, user.CompleteProjectsDev, false); err != nil {
		return nil, err
	}
	if profile.CompleteProjectsClientDetails, err = s.projectDetails(ctx, user.CompleteProjectsClient, false); err != nil {
		return nil, err
	}

	return profile, nil
}

// jobDetails resolves job references, attaching owners and, for owned jobs,
// the applicant users.
func (s *userService) jobDetails(ctx context.Context, ids []primitive.ObjectID, withApplicants bool) ([]JobDetails, error) {
	var details []JobDetails
	var ownerIDs []primitive.ObjectID

	for _, id := range ids {
		job, err := s.jobRepo.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				continue
			}
			return nil, fmt.Errorf("failed to load job %s: %w", id.Hex(), err)
		}

		detail := JobDetails{Job: *job}
		if withApplicants {
			var applicantIDs []primitive.ObjectID
			for _, applicant := range job.Applicants {
				applicantIDs = append(applicantIDs, applicant.User)
			}
			users, err := loadUserMap(ctx, s.userRepo, applicantIDs)
			if err != nil {
				return nil, err
			}
			for _, applicant := range job.Applicants {
				detail.ApplicantDetails = append(detail.ApplicantDetails, ApplicantDetails{
					UserDetail: users[applicant.User],
					CV:         applicant.CV,
				})
			}
		}
		details = append(details, detail)
		ownerIDs = append(ownerIDs, job.Owner)
	}

	owners, err := loadUserMap(ctx, s.userRepo, ownerIDs)
	if err != nil {
		return nil, err
	}
	for i := range details {
		details[i].OwnerDetail = owners[details[i].Owner]
	}
	return details, nil
}

// projectDetails resolves project references, attaching owners and, for
// owned projects, the submitted proposals with their authors.
func (s *userService) projectDetails(ctx context.Context, ids []primitive.ObjectID, withProposals bool) ([]ProjectDetails, error) {
	var details []ProjectDetails
	var ownerIDs []primitive.ObjectID

	for _, id := range ids {
		project, err := s.projectRepo.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				continue
			}
			return nil, fmt.Errorf("failed to load project %s: %w", id.Hex(), err)
		}

		detail := ProjectDetails{Project: *project}
		if withProposals {
			proposals, err := s.proposalRepo.GetByIDs(ctx, project.Proposers)
			if err != nil {
				return nil, fmt.Errorf("failed to load proposals: %w", err)
			}
			var proposerIDs []primitive.ObjectID
			for _, proposal := range proposals {
				proposerIDs = append(proposerIDs, proposal.User)
			}
			users, err := loadUserMap(ctx, s.userRepo, proposerIDs)
			if err != nil {
				return nil, err
			}
			for _, proposal := range proposals {
				detail.ProposalDetails = append(detail.ProposalDetails, ProposalDetails{
					Proposal:   proposal,
					UserDetail: users[proposal.User],
				})
			}
		}
		details = append(details, detail)
		ownerIDs = append(ownerIDs, project.Owner)
	}

	owners, err := loadUserMap(ctx, s.userRepo, ownerIDs)
	if err != nil {
		return nil, err
	}
	for i := range details {
		details[i].OwnerDetail = owners[details[i].Owner]
	}
	return details, nil
}

func (s *userService) GetUser(ctx context.Context, id string) (*domain.User, error) {
	objectID, err := parseID(id)
	if err != nil {
		return nil, err
	}
	user, err := s.userRepo.GetByID(ctx, objectID)
	if err != nil {
		return nil, err
	}
	user.PasswordHash = ""
	return user, nil
}

// UpdateProfile overwrites the basic profile fields. Empty values are
// ignored so the frontend can send partial updates.
func (s *userService) UpdateProfile(ctx context.Context, userID, name, title, location, contact string) (*domain.User, error) {
	return s.mutateUser(ctx, userID, func(user *domain.User) error {
		if name != "" {
			user.Name = name
		}
		if title != "" {
			user.Title = title
		}
		if location != "" {
			user.Location = location
		}
		if contact != "" {
			user.Contact = contact
		}
		return nil
	})
}

func (s *userService) UpdateAbout(ctx context.Context, userID, about string) (*domain.User, error) {
	return s.mutateUser(ctx, userID, func(user *domain.User) error {
		user.About = about
		return nil
	})
}

func (s *userService) UpdateAvatar(ctx context.Context, userID, avatarDataURL string) (*domain.User, error) {
	return s.mutateUser(ctx, userID, func(user *domain.User) error {
		uploaded, err := s.storage.UploadDataURL(ctx, avatarDataURL, storage.FolderAvatars)
		if err != nil {
			return fmt.Errorf("failed to upload avatar: %w", err)
		}
		if user.Avatar.PublicID != "" {
			if err := s.storage.DeleteObject(ctx, user.Avatar.PublicID); err != nil {
				log.Printf("WARN: Failed to delete old avatar %s: %v", user.Avatar.PublicID, err)
			}
		}
		user.Avatar = domain.Image{PublicID: uploaded.PublicID, URL: uploaded.URL}
		return nil
	})
}

func (s *userService) UpdateBanner(ctx context.Context, userID, bannerDataURL string) (*domain.User, error) {
	return s.mutateUser(ctx, userID, func(user *domain.User) error {
		uploaded, err := s.storage.UploadDataURL(ctx, bannerDataURL, storage.FolderBanners)
		if err != nil {
			return fmt.Errorf("failed to upload banner: %w", err)
		}
		if user.Banner.PublicID != "" {
			if err := s.storage.DeleteObject(ctx, user.Banner.PublicID); err != nil {
				log.Printf("WARN: Failed to delete old banner %s: %v", user.Banner.PublicID, err)
			}
		}
		user.Banner = domain.Image{PublicID: uploaded.PublicID, URL: uploaded.URL}
		return nil
	})
}

func (s *userService) AddEducation(ctx context.Context, userID string, education domain.Education) (*domain.User, error) {
	return s.mutateUser(ctx, userID, func(user *domain.User) error {
		education.ID = primitive.NewObjectID()
		user.Educations = append(user.Educations, education)
		return nil
	})
}

func (s *userService) DeleteEducation(ctx context.Context, userID, educationID string) (*domain.User, error) {
	entryID, err := parseID(educationID)
	if err != nil {
		return nil, err
	}
	return s.mutateUser(ctx, userID, func(user *domain.User) error {
		for i, entry := range user.Educations {
			if entry.ID == entryID {
				user.Educations = append(user.Educations[:i], user.Educations[i+1:]...)
				return nil
			}
		}
		return ErrEntryNotFound
	})
}

func (s *userService) AddSkill(ctx context.Context, userID, skill string) (*domain.User, error) {
	return s.mutateUser(ctx, userID, func(user *domain.User) error {
		user.Skills = append(user.Skills, domain.Skill{ID: primitive.NewObjectID(), Skill: skill})
		return nil
	})
}

func (s *userService) DeleteSkill(ctx context.Context, userID, skillID string) (*domain.User, error) {
	entryID, err := parseID(skillID)
	if err != nil {
		return nil, err
	}
	return s.mutateUser(ctx, userID, func(user *domain.User) error {
		for i, entry := range user.Skills {
			if entry.ID == entryID {
				user.Skills = append(user.Skills[:i], user.Skills[i+1:]...)
				return nil
			}
		}
		return ErrEntryNotFound
	})
}

func (s *userService) AddLanguage(ctx context.Context, userID, language string) (*domain.User, error) {
	return s.mutateUser(ctx, userID, func(user *domain.User) error {
		user.Languages = append(user.Languages, domain.Language{ID: primitive.NewObjectID(), Language: language})
		return nil
	})
}

func (s *userService) DeleteLanguage(ctx context.Context, userID, languageID string) (*domain.User, error) {
	entryID, err := parseID(languageID)
	if err != nil {
		return nil, err
	}
	return s.mutateUser(ctx, userID, func(user *domain.User) error {
		for i, entry := range user.Languages {
			if entry.ID == entryID {
				user.Languages = append(user.Languages[:i], user.Languages[i+1:]...)
				return nil
			}
		}
		return ErrEntryNotFound
	})
}

func (s *userService) AddExperience(ctx context.Context, userID string, experience domain.Experience) (*domain.User, error) {
	return s.mutateUser(ctx, userID, func(user *domain.User) error {
		experience.ID = primitive.NewObjectID()
		user.Experiences = append(user.Experiences, experience)
		return nil
	})
}

func (s *userService) DeleteExperience(ctx context.Context, userID, experienceID string) (*domain.User, error) {
	entryID, err := parseID(experienceID)
	if err != nil {
		return nil, err
	}
	return s.mutateUser(ctx, userID, func(user *domain.User) error {
		for i, entry := range user.Experiences {
			if entry.ID == entryID {
				user.Experiences = append(user.Experiences[:i], user.Experiences[i+1:]...)
				return nil
			}
		}
		return ErrEntryNotFound
	})
}

func (s *userService) AddPortfolio(ctx context.Context, userID string, portfolio domain.Portfolio) (*domain.User, error) {
	return s.mutateUser(ctx, userID, func(user *domain.User) error {
		portfolio.ID = primitive.NewObjectID()
		user.Portfolios = append(user.Portfolios, portfolio)
		return nil
	})
}

func (s *userService) DeletePortfolio(ctx context.Context, userID, portfolioID string) (*domain.User, error) {
	entryID, err := parseID(portfolioID)
	if err != nil {
		return nil, err
	}
	return s.mutateUser(ctx, userID, func(user *domain.User) error {
		for i, entry := range user.Portfolios {
			if entry.ID == entryID {
				user.Portfolios = append(user.Portfolios[:i], user.Portfolios[i+1:]...)
				return nil
			}
		}
		return ErrEntryNotFound
	})
}

// Developers lists every account with the developer role for the directory.
func (s *userService) Developers(ctx context.Context) ([]domain.User, error) {
	developers, err := s.userRepo.GetByRole(ctx, domain.RoleDeveloper)
	if err != nil {
		return nil, fmt.Errorf("failed to list developers: %w", err)
	}
	for i := range developers {
		developers[i].PasswordHash = ""
	}
	return developers, nil
}

// Developer returns a single developer's public profile, hydrated the same
// way as the owner's own view.
func (s *userService) Developer(ctx context.Context, id string) (*Profile, error) {
	return s.GetProfile(ctx, id)
}

func (s *userService) ListUsers(ctx context.Context) ([]domain.User, error) {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	for i := range users {
		users[i].PasswordHash = ""
	}
	return users, nil
}

// UpdateUserRole lets an admin rename an account and change its role.
func (s *userService) UpdateUserRole(ctx context.Context, id, name, email, role string) (*domain.User, error) {
	switch domain.Role(role) {
	case domain.RoleDeveloper, domain.RoleClient, domain.RoleAdmin:
	default:
		return nil, ErrInvalidRole
	}

	return s.mutateUser(ctx, id, func(user *domain.User) error {
		if name != "" {
			user.Name = name
		}
		if email != "" {
			user.Email = email
		}
		user.Role = domain.Role(role)
		return nil
	})
}

// DeleteUser removes the account and its stored avatar and banner objects.
func (s *userService) DeleteUser(ctx context.Context, id string) error {
	objectID, err := parseID(id)
	if err != nil {
		return err
	}

	user, err := s.userRepo.GetByID(ctx, objectID)
	if err != nil {
		return err
	}

	for _, publicID := range []string{user.Avatar.PublicID, user.Banner.PublicID} {
		if publicID == "" {
			continue
		}
		if err := s.storage.DeleteObject(ctx, publicID); err != nil {
			log.Printf("WARN: Failed to delete stored object %s for user %s: %v", publicID, id, err)
		}
	}

	return s.userRepo.Delete(ctx, objectID)
}

// mutateUser loads a user, applies the mutation and saves the document back.
// The returned user has the password hash cleared.
func (s *userService) mutateUser(ctx context.Context, userID string, mutate func(*domain.User) error) (*domain.User, error) {
	objectID, err := parseID(userID)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(ctx, objectID)
	if err != nil {
		return nil, err
	}

	if err := mutate(user); err != nil {
		return nil, err
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to save user: %w", err)
	}

	user.PasswordHash = ""
	return user, nil
}

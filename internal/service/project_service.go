package service

import (
	"context"
	"errors"
	"fmt"

	"devcommunity/internal/domain"
	"devcommunity/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrNotProjectOwner     = errors.New("user does not own this project")
	ErrAlreadyProposed     = errors.New("user has already submitted a proposal")
	ErrAlreadyHired        = errors.New("developer is already hired")
	ErrDeveloperNotHired   = errors.New("developer is not hired on this project")
	ErrInsufficientBalance = errors.New("balance does not cover the project price")
)

// CreateProjectInput carries the fields of a new project posting.
type CreateProjectInput struct {
	Name      string
	About     string
	Time      string
	Label     string
	Price     int64
	PriceType string
	Location  string
	Type      string
	Category  string
	Length    string
	Skills    []string
}

// ProjectService handles freelance projects: postings, proposals, hiring and
// completion with the balance transfer.
type ProjectService interface {
	CreateProject(ctx context.Context, ownerID string, input CreateProjectInput) (*domain.Project, error)
	ListProjects(ctx context.Context, opts repository.ListOptions) ([]ProjectDetails, error)
	GetProject(ctx context.Context, projectID string) (*ProjectDetails, error)
	ApplyProject(ctx context.Context, actorID, projectID string, bidPrice int64, projectTime, coverLetter string) (*domain.Proposal, error)
	HireDeveloper(ctx context.Context, actorID, projectID, developerID string) (*domain.Project, error)
	CompleteProject(ctx context.Context, actorID, projectID, developerID string) (*domain.Project, error)
}

type projectService struct {
	projectRepo  repository.ProjectRepository
	proposalRepo repository.ProposalRepository
	userRepo     repository.UserRepository
}

func NewProjectService(projectRepo repository.ProjectRepository, proposalRepo repository.ProposalRepository, userRepo repository.UserRepository) ProjectService {
	return &projectService{
		projectRepo:  projectRepo,
		proposalRepo: proposalRepo,
		userRepo:     userRepo,
	}
}

// CreateProject stores the project and records it on the owner's postings.
func (s *projectService) CreateProject(ctx context.Context, ownerID string, input CreateProjectInput) (*domain.Project, error) {
	owner, err := parseID(ownerID)
	if err != nil {
		return nil, err
	}

	project := &domain.Project{
		Name:      input.Name,
		About:     input.About,
		Time:      input.Time,
		Label:     input.Label,
		Price:     input.Price,
		PriceType: input.PriceType,
		Location:  input.Location,
		Type:      input.Type,
		Category:  input.Category,
		Length:    input.Length,
		Owner:     owner,
	}
	for _, skill := range input.Skills {
		project.Skills = append(project.Skills, domain.Skill{ID: primitive.NewObjectID(), Skill: skill})
	}

	projectID, err := s.projectRepo.Create(ctx, project)
	if err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	user, err := s.userRepo.GetByID(ctx, owner)
	if err != nil {
		return nil, err
	}
	user.MyProjects = append(user.MyProjects, projectID)
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to record project on user: %w", err)
	}
	return project, nil
}

// ListProjects returns projects matching the search options with owners
// resolved.
func (s *projectService) ListProjects(ctx context.Context, opts repository.ListOptions) ([]ProjectDetails, error) {
	if opts.SearchField == "" {
		opts.SearchField = "name"
	}

	projects, err := s.projectRepo.List(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}

	var ownerIDs []primitive.ObjectID
	for _, project := range projects {
		ownerIDs = append(ownerIDs, project.Owner)
	}
	owners, err := loadUserMap(ctx, s.userRepo, ownerIDs)
	if err != nil {
		return nil, err
	}

	details := make([]ProjectDetails, 0, len(projects))
	for _, project := range projects {
		details = append(details, ProjectDetails{Project: project, OwnerDetail: owners[project.Owner]})
	}
	return details, nil
}

// GetProject returns a single project with its owner and the submitted
// proposals, each with its author, resolved.
func (s *projectService) GetProject(ctx context.Context, projectID string) (*ProjectDetails, error) {
	objectID, err := parseID(projectID)
	if err != nil {
		return nil, err
	}

	project, err := s.projectRepo.GetByID(ctx, objectID)
	if err != nil {
		return nil, err
	}

	proposals, err := s.proposalRepo.GetByIDs(ctx, project.Proposers)
	if err != nil {
		return nil, fmt.Errorf("failed to load proposals: %w", err)
	}

	userIDs := []primitive.ObjectID{project.Owner}
	for _, proposal := range proposals {
		userIDs = append(userIDs, proposal.User)
	}
	users, err := loadUserMap(ctx, s.userRepo, userIDs)
	if err != nil {
		return nil, err
	}

	detail := &ProjectDetails{Project: *project, OwnerDetail: users[project.Owner]}
	for _, proposal := range proposals {
		detail.ProposalDetails = append(detail.ProposalDetails, ProposalDetails{
			Proposal:   proposal,
			UserDetail: users[proposal.User],
		})
	}
	return detail, nil
}

// ApplyProject submits a proposal, references it from the project and
// records the project on the developer. One proposal per developer.
func (s *projectService) ApplyProject(ctx context.Context, actorID, projectID string, bidPrice int64, projectTime, coverLetter string) (*domain.Proposal, error) {
	actor, err := parseID(actorID)
	if err != nil {
		return nil, err
	}
	objectID, err := parseID(projectID)
	if err != nil {
		return nil, err
	}

	project, err := s.projectRepo.GetByID(ctx, objectID)
	if err != nil {
		return nil, err
	}

	existing, err := s.proposalRepo.GetByIDs(ctx, project.Proposers)
	if err != nil {
		return nil, fmt.Errorf("failed to load proposals: %w", err)
	}
	for _, proposal := range existing {
		if proposal.User == actor {
			return nil, ErrAlreadyProposed
		}
	}

	proposal := &domain.Proposal{
		User:        actor,
		ProjectID:   project.ID,
		BidPrice:    bidPrice,
		ProjectTime: projectTime,
		CoverLetter: coverLetter,
	}
	proposalID, err := s.proposalRepo.Create(ctx, proposal)
	if err != nil {
		return nil, fmt.Errorf("failed to create proposal: %w", err)
	}

	project.Proposers = append(project.Proposers, proposalID)
	if err := s.projectRepo.Update(ctx, project); err != nil {
		return nil, fmt.Errorf("failed to record proposal on project: %w", err)
	}

	user, err := s.userRepo.GetByID(ctx, actor)
	if err != nil {
		return nil, err
	}
	if !containsID(user.Projects, objectID) {
		user.Projects = append(user.Projects, objectID)
		if err := s.userRepo.Update(ctx, user); err != nil {
			return nil, fmt.Errorf("failed to record proposal on user: %w", err)
		}
	}
	return proposal, nil
}

// HireDeveloper puts the developer on the project and moves it onto both
// sides' ongoing lists. Only the project owner may hire.
func (s *projectService) HireDeveloper(ctx context.Context, actorID, projectID, developerID string) (*domain.Project, error) {
	actor, err := parseID(actorID)
	if err != nil {
		return nil, err
	}
	objectID, err := parseID(projectID)
	if err != nil {
		return nil, err
	}
	developer, err := parseID(developerID)
	if err != nil {
		return nil, err
	}

	project, err := s.projectRepo.GetByID(ctx, objectID)
	if err != nil {
		return nil, err
	}
	if project.Owner != actor {
		return nil, ErrNotProjectOwner
	}
	if containsID(project.HiredDev, developer) {
		return nil, ErrAlreadyHired
	}

	dev, err := s.userRepo.GetByID(ctx, developer)
	if err != nil {
		return nil, err
	}
	client, err := s.userRepo.GetByID(ctx, actor)
	if err != nil {
		return nil, err
	}

	project.HiredDev = append(project.HiredDev, developer)
	if err := s.projectRepo.Update(ctx, project); err != nil {
		return nil, fmt.Errorf("failed to save project: %w", err)
	}

	if !containsID(dev.OngoingProjectsDev, objectID) {
		dev.OngoingProjectsDev = append(dev.OngoingProjectsDev, objectID)
		if err := s.userRepo.Update(ctx, dev); err != nil {
			return nil, fmt.Errorf("failed to record hire on developer: %w", err)
		}
	}
	if !containsID(client.OngoingProjectsClient, objectID) {
		client.OngoingProjectsClient = append(client.OngoingProjectsClient, objectID)
		if err := s.userRepo.Update(ctx, client); err != nil {
			return nil, fmt.Errorf("failed to record hire on client: %w", err)
		}
	}
	return project, nil
}

// CompleteProject settles the engagement: the project price moves from the
// client's balance to the developer's, and the project moves from both
// ongoing lists to the complete lists. The debit is a single conditional
// update, so a balance that does not cover the price fails before anything
// else changes.
func (s *projectService) CompleteProject(ctx context.Context, actorID, projectID, developerID string) (*domain.Project, error) {
	actor, err := parseID(actorID)
	if err != nil {
		return nil, err
	}
	objectID, err := parseID(projectID)
	if err != nil {
		return nil, err
	}
	developer, err := parseID(developerID)
	if err != nil {
		return nil, err
	}

	project, err := s.projectRepo.GetByID(ctx, objectID)
	if err != nil {
		return nil, err
	}
	if project.Owner != actor {
		return nil, ErrNotProjectOwner
	}
	if !containsID(project.HiredDev, developer) {
		return nil, ErrDeveloperNotHired
	}

	if err := s.userRepo.DebitBalance(ctx, actor, project.Price); err != nil {
		if errors.Is(err, repository.ErrInsufficientFunds) {
			return nil, ErrInsufficientBalance
		}
		return nil, fmt.Errorf("failed to debit client: %w", err)
	}
	if err := s.userRepo.CreditBalance(ctx, developer, project.Price); err != nil {
		return nil, fmt.Errorf("failed to credit developer: %w", err)
	}

	project.Status = domain.ProjectStatusComplete
	project.Payment = domain.PaymentVerified
	if err := s.projectRepo.Update(ctx, project); err != nil {
		return nil, fmt.Errorf("failed to save project: %w", err)
	}

	dev, err := s.userRepo.GetByID(ctx, developer)
	if err != nil {
		return nil, err
	}
	dev.OngoingProjectsDev = removeID(dev.OngoingProjectsDev, objectID)
	if !containsID(dev.CompleteProjectsDev, objectID) {
		dev.CompleteProjectsDev = append(dev.CompleteProjectsDev, objectID)
	}
	if err := s.userRepo.Update(ctx, dev); err != nil {
		return nil, fmt.Errorf("failed to record completion on developer: %w", err)
	}

	client, err := s.userRepo.GetByID(ctx, actor)
	if err != nil {
		return nil, err
	}
	client.OngoingProjectsClient = removeID(client.OngoingProjectsClient, objectID)
	if !containsID(client.CompleteProjectsClient, objectID) {
		client.CompleteProjectsClient = append(client.CompleteProjectsClient, objectID)
	}
	if err := s.userRepo.Update(ctx, client); err != nil {
		return nil, fmt.Errorf("failed to record completion on client: %w", err)
	}
	return project, nil
}

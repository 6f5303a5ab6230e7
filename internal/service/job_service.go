package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"devcommunity/internal/domain"
	"devcommunity/internal/mailer"
	"devcommunity/internal/repository"
	"devcommunity/internal/storage"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrNotJobOwner    = errors.New("user does not own this job")
	ErrAlreadyApplied = errors.New("user has already applied")
)

// CreateJobInput carries the fields of a new job post.
type CreateJobInput struct {
	Name          string
	About         string
	Time          string
	Label         string
	Salary        string
	Location      string
	StartEmployee int
	EndEmployee   int
}

// JobService handles hiring posts and applications.
type JobService interface {
	CreateJob(ctx context.Context, ownerID string, input CreateJobInput) (*domain.Job, error)
	ListJobs(ctx context.Context, opts repository.ListOptions) ([]JobDetails, error)
	GetJob(ctx context.Context, jobID string) (*JobDetails, error)
	ApplyJob(ctx context.Context, actorID, jobID, cvDataURL string) (*domain.Job, error)
	MailApplicants(ctx context.Context, actorID, jobID, subject, message string) (int, error)
	DeleteJob(ctx context.Context, actorID, jobID string) error
}

type jobService struct {
	jobRepo  repository.JobRepository
	userRepo repository.UserRepository
	storage  storage.FileStorage
	mail     mailer.Mailer
}

func NewJobService(jobRepo repository.JobRepository, userRepo repository.UserRepository, fileStorage storage.FileStorage, mail mailer.Mailer) JobService {
	return &jobService{
		jobRepo:  jobRepo,
		userRepo: userRepo,
		storage:  fileStorage,
		mail:     mail,
	}
}

// CreateJob stores the job and records it on the owner's posted jobs.
func (s *jobService) CreateJob(ctx context.Context, ownerID string, input CreateJobInput) (*domain.Job, error) {
	owner, err := parseID(ownerID)
	if err != nil {
		return nil, err
	}

	job := &domain.Job{
		Name:          input.Name,
		About:         input.About,
		Time:          input.Time,
		Label:         input.Label,
		Salary:        input.Salary,
		Location:      input.Location,
		Owner:         owner,
		StartEmployee: input.StartEmployee,
		EndEmployee:   input.EndEmployee,
	}

	jobID, err := s.jobRepo.Create(ctx, job)
	if err != nil {
		return nil, fmt.Errorf("failed to create job: %w", err)
	}

	user, err := s.userRepo.GetByID(ctx, owner)
	if err != nil {
		return nil, err
	}
	user.MyJobs = append(user.MyJobs, jobID)
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to record job on user: %w", err)
	}
	return job, nil
}

// ListJobs returns jobs matching the search options with owners resolved.
func (s *jobService) ListJobs(ctx context.Context, opts repository.ListOptions) ([]JobDetails, error) {
	if opts.SearchField == "" {
		opts.SearchField = "name"
	}

	jobs, err := s.jobRepo.List(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}

	var ownerIDs []primitive.ObjectID
	for _, job := range jobs {
		ownerIDs = append(ownerIDs, job.Owner)
	}
	owners, err := loadUserMap(ctx, s.userRepo, ownerIDs)
	if err != nil {
		return nil, err
	}

	details := make([]JobDetails, 0, len(jobs))
	for _, job := range jobs {
		details = append(details, JobDetails{Job: job, OwnerDetail: owners[job.Owner]})
	}
	return details, nil
}

// GetJob returns a single job with its owner and applicants resolved.
func (s *jobService) GetJob(ctx context.Context, jobID string) (*JobDetails, error) {
	objectID, err := parseID(jobID)
	if err != nil {
		return nil, err
	}

	job, err := s.jobRepo.GetByID(ctx, objectID)
	if err != nil {
		return nil, err
	}

	userIDs := []primitive.ObjectID{job.Owner}
	for _, applicant := range job.Applicants {
		userIDs = append(userIDs, applicant.User)
	}
	users, err := loadUserMap(ctx, s.userRepo, userIDs)
	if err != nil {
		return nil, err
	}

	detail := &JobDetails{Job: *job, OwnerDetail: users[job.Owner]}
	for _, applicant := range job.Applicants {
		detail.ApplicantDetails = append(detail.ApplicantDetails, ApplicantDetails{
			UserDetail: users[applicant.User],
			CV:         applicant.CV,
		})
	}
	return detail, nil
}

// ApplyJob uploads the CV, adds the applicant to the job and records the job
// on the applicant. A second application to the same job is rejected.
func (s *jobService) ApplyJob(ctx context.Context, actorID, jobID, cvDataURL string) (*domain.Job, error) {
	actor, err := parseID(actorID)
	if err != nil {
		return nil, err
	}
	objectID, err := parseID(jobID)
	if err != nil {
		return nil, err
	}

	job, err := s.jobRepo.GetByID(ctx, objectID)
	if err != nil {
		return nil, err
	}
	for _, applicant := range job.Applicants {
		if applicant.User == actor {
			return nil, ErrAlreadyApplied
		}
	}

	var cvURL string
	if cvDataURL != "" {
		uploaded, err := s.storage.UploadDataURL(ctx, cvDataURL, storage.FolderCV)
		if err != nil {
			return nil, fmt.Errorf("failed to upload cv: %w", err)
		}
		cvURL = uploaded.URL
	}

	job.Applicants = append(job.Applicants, domain.Applicant{User: actor, CV: cvURL})
	if err := s.jobRepo.Update(ctx, job); err != nil {
		return nil, fmt.Errorf("failed to save application: %w", err)
	}

	user, err := s.userRepo.GetByID(ctx, actor)
	if err != nil {
		return nil, err
	}
	if !containsID(user.Jobs, objectID) {
		user.Jobs = append(user.Jobs, objectID)
		if err := s.userRepo.Update(ctx, user); err != nil {
			return nil, fmt.Errorf("failed to record application on user: %w", err)
		}
	}
	return job, nil
}

// MailApplicants sends the message to every applicant of the job. Delivery
// happens in the background, one goroutine per recipient; the returned count
// is the number of recipients the mail was dispatched to.
func (s *jobService) MailApplicants(ctx context.Context, actorID, jobID, subject, message string) (int, error) {
	actor, err := parseID(actorID)
	if err != nil {
		return 0, err
	}
	objectID, err := parseID(jobID)
	if err != nil {
		return 0, err
	}

	job, err := s.jobRepo.GetByID(ctx, objectID)
	if err != nil {
		return 0, err
	}
	if job.Owner != actor {
		return 0, ErrNotJobOwner
	}

	var applicantIDs []primitive.ObjectID
	for _, applicant := range job.Applicants {
		applicantIDs = append(applicantIDs, applicant.User)
	}
	applicants, err := s.userRepo.GetByIDs(ctx, applicantIDs)
	if err != nil {
		return 0, fmt.Errorf("failed to load applicants: %w", err)
	}

	if subject == "" {
		subject = fmt.Sprintf("Update on your application for %s", job.Name)
	}
	for _, applicant := range applicants {
		go func(to string) {
			if err := s.mail.Send(to, subject, message); err != nil {
				log.Printf("ERROR: Failed to mail applicant %s for job %s: %v", to, jobID, err)
			}
		}(applicant.Email)
	}
	return len(applicants), nil
}

// DeleteJob removes the job and the back-reference on the owner. Only the
// owner may delete.
func (s *jobService) DeleteJob(ctx context.Context, actorID, jobID string) error {
	actor, err := parseID(actorID)
	if err != nil {
		return err
	}
	objectID, err := parseID(jobID)
	if err != nil {
		return err
	}

	job, err := s.jobRepo.GetByID(ctx, objectID)
	if err != nil {
		return err
	}
	if job.Owner != actor {
		return ErrNotJobOwner
	}

	if err := s.jobRepo.Delete(ctx, objectID); err != nil {
		return err
	}

	owner, err := s.userRepo.GetByID(ctx, actor)
	if err != nil {
		return err
	}
	owner.MyJobs = removeID(owner.MyJobs, objectID)
	return s.userRepo.Update(ctx, owner)
}

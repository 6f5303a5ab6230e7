package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"devcommunity/internal/domain"
	"devcommunity/internal/repository"
	"devcommunity/internal/storage"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// In-memory repository fakes. They mirror the persistence semantics the
// services rely on: generated ids, createdAt stamps, save-style updates and
// the conditional balance debit. Documents are copied on the way in and out
// so tests see the same isolation a real database gives.

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[primitive.ObjectID]domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[primitive.ObjectID]domain.User)}
}

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Email == user.Email {
			return primitive.NilObjectID, repository.ErrDuplicateEmail
		}
	}
	user.ID = primitive.NewObjectID()
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	r.users[user.ID] = *user
	return user.ID, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Email == email {
			u := user
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeUserRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	u := user
	return &u, nil
}

func (r *fakeUserRepo) GetByIDs(_ context.Context, ids []primitive.ObjectID) ([]domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.User
	for _, id := range ids {
		if user, ok := r.users[id]; ok {
			out = append(out, user)
		}
	}
	return out, nil
}

func (r *fakeUserRepo) GetByRole(_ context.Context, role domain.Role) ([]domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.User
	for _, user := range r.users {
		if user.Role == role {
			out = append(out, user)
		}
	}
	return out, nil
}

func (r *fakeUserRepo) GetByResetToken(_ context.Context, tokenHash string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.ResetPasswordToken == tokenHash && tokenHash != "" &&
			user.ResetPasswordExpire != nil && user.ResetPasswordExpire.After(time.Now()) {
			u := user
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeUserRepo) List(_ context.Context) ([]domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.User
	for _, user := range r.users {
		out = append(out, user)
	}
	return out, nil
}

func (r *fakeUserRepo) Update(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; !ok {
		return repository.ErrNotFound
	}
	stored := *user
	// The service layer clears hashes before returning users to callers;
	// keep the stored credential when the update carries an empty hash.
	if stored.PasswordHash == "" {
		stored.PasswordHash = r.users[user.ID].PasswordHash
	}
	stored.UpdatedAt = time.Now()
	r.users[user.ID] = stored
	return nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.users, id)
	return nil
}

func (r *fakeUserRepo) DebitBalance(_ context.Context, id primitive.ObjectID, amount int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	if user.Balance < amount {
		return repository.ErrInsufficientFunds
	}
	user.Balance -= amount
	r.users[id] = user
	return nil
}

func (r *fakeUserRepo) CreditBalance(_ context.Context, id primitive.ObjectID, amount int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	user.Balance += amount
	r.users[id] = user
	return nil
}

type fakePostRepo struct {
	mu    sync.Mutex
	posts map[primitive.ObjectID]domain.Post
}

func newFakePostRepo() *fakePostRepo {
	return &fakePostRepo{posts: make(map[primitive.ObjectID]domain.Post)}
}

func (r *fakePostRepo) Create(_ context.Context, post *domain.Post) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	post.ID = primitive.NewObjectID()
	post.CreatedAt = time.Now()
	r.posts[post.ID] = *post
	return post.ID, nil
}

func (r *fakePostRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	post, ok := r.posts[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	p := post
	return &p, nil
}

func (r *fakePostRepo) GetByOwner(_ context.Context, owner primitive.ObjectID) ([]domain.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Post
	for _, post := range r.posts {
		if post.Owner == owner {
			out = append(out, post)
		}
	}
	return out, nil
}

func (r *fakePostRepo) List(_ context.Context) ([]domain.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Post
	for _, post := range r.posts {
		out = append(out, post)
	}
	return out, nil
}

func (r *fakePostRepo) Update(_ context.Context, post *domain.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.posts[post.ID]; !ok {
		return repository.ErrNotFound
	}
	r.posts[post.ID] = *post
	return nil
}

func (r *fakePostRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.posts[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.posts, id)
	return nil
}

type fakeCommentRepo struct {
	mu       sync.Mutex
	comments map[primitive.ObjectID]domain.Comment
}

func newFakeCommentRepo() *fakeCommentRepo {
	return &fakeCommentRepo{comments: make(map[primitive.ObjectID]domain.Comment)}
}

func (r *fakeCommentRepo) Create(_ context.Context, comment *domain.Comment) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	comment.ID = primitive.NewObjectID()
	comment.CreatedAt = time.Now()
	r.comments[comment.ID] = *comment
	return comment.ID, nil
}

func (r *fakeCommentRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	comment, ok := r.comments[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	c := comment
	return &c, nil
}

func (r *fakeCommentRepo) GetByIDs(_ context.Context, ids []primitive.ObjectID) ([]domain.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Comment
	for _, id := range ids {
		if comment, ok := r.comments[id]; ok {
			out = append(out, comment)
		}
	}
	return out, nil
}

func (r *fakeCommentRepo) Update(_ context.Context, comment *domain.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.comments[comment.ID]; !ok {
		return repository.ErrNotFound
	}
	r.comments[comment.ID] = *comment
	return nil
}

func (r *fakeCommentRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.comments[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.comments, id)
	return nil
}

type fakeQuestionRepo struct {
	mu        sync.Mutex
	questions map[primitive.ObjectID]domain.Question
}

func newFakeQuestionRepo() *fakeQuestionRepo {
	return &fakeQuestionRepo{questions: make(map[primitive.ObjectID]domain.Question)}
}

func (r *fakeQuestionRepo) Create(_ context.Context, question *domain.Question) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	question.ID = primitive.NewObjectID()
	question.CreatedAt = time.Now()
	r.questions[question.ID] = *question
	return question.ID, nil
}

func (r *fakeQuestionRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Question, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	question, ok := r.questions[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	q := question
	return &q, nil
}

func (r *fakeQuestionRepo) List(_ context.Context) ([]domain.Question, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Question
	for _, question := range r.questions {
		out = append(out, question)
	}
	return out, nil
}

func (r *fakeQuestionRepo) Update(_ context.Context, question *domain.Question) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.questions[question.ID]; !ok {
		return repository.ErrNotFound
	}
	r.questions[question.ID] = *question
	return nil
}

func (r *fakeQuestionRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.questions[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.questions, id)
	return nil
}

type fakeAnswerRepo struct {
	mu      sync.Mutex
	answers map[primitive.ObjectID]domain.Answer
}

func newFakeAnswerRepo() *fakeAnswerRepo {
	return &fakeAnswerRepo{answers: make(map[primitive.ObjectID]domain.Answer)}
}

func (r *fakeAnswerRepo) Create(_ context.Context, answer *domain.Answer) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	answer.ID = primitive.NewObjectID()
	answer.CreatedAt = time.Now()
	r.answers[answer.ID] = *answer
	return answer.ID, nil
}

func (r *fakeAnswerRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Answer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	answer, ok := r.answers[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	a := answer
	return &a, nil
}

func (r *fakeAnswerRepo) GetByIDs(_ context.Context, ids []primitive.ObjectID) ([]domain.Answer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Answer
	for _, id := range ids {
		if answer, ok := r.answers[id]; ok {
			out = append(out, answer)
		}
	}
	return out, nil
}

func (r *fakeAnswerRepo) Update(_ context.Context, answer *domain.Answer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.answers[answer.ID]; !ok {
		return repository.ErrNotFound
	}
	r.answers[answer.ID] = *answer
	return nil
}

func (r *fakeAnswerRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.answers[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.answers, id)
	return nil
}

type fakeJobRepo struct {
	mu   sync.Mutex
	jobs map[primitive.ObjectID]domain.Job
}

func newFakeJobRepo() *fakeJobRepo {
	return &fakeJobRepo{jobs: make(map[primitive.ObjectID]domain.Job)}
}

func (r *fakeJobRepo) Create(_ context.Context, job *domain.Job) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	job.ID = primitive.NewObjectID()
	job.CreatedAt = time.Now()
	r.jobs[job.ID] = *job
	return job.ID, nil
}

func (r *fakeJobRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	job, ok := r.jobs[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	j := job
	return &j, nil
}

func (r *fakeJobRepo) List(_ context.Context, _ repository.ListOptions) ([]domain.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Job
	for _, job := range r.jobs {
		out = append(out, job)
	}
	return out, nil
}

func (r *fakeJobRepo) Update(_ context.Context, job *domain.Job) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.jobs[job.ID]; !ok {
		return repository.ErrNotFound
	}
	r.jobs[job.ID] = *job
	return nil
}

func (r *fakeJobRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.jobs[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.jobs, id)
	return nil
}

type fakeProjectRepo struct {
	mu       sync.Mutex
	projects map[primitive.ObjectID]domain.Project
}

func newFakeProjectRepo() *fakeProjectRepo {
	return &fakeProjectRepo{projects: make(map[primitive.ObjectID]domain.Project)}
}

func (r *fakeProjectRepo) Create(_ context.Context, project *domain.Project) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	project.ID = primitive.NewObjectID()
	project.CreatedAt = time.Now()
	if project.Payment == "" {
		project.Payment = domain.PaymentNotVerified
	}
	if project.Status == "" {
		project.Status = domain.ProjectStatusApplying
	}
	r.projects[project.ID] = *project
	return project.ID, nil
}

func (r *fakeProjectRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	project, ok := r.projects[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	p := project
	return &p, nil
}

func (r *fakeProjectRepo) List(_ context.Context, _ repository.ListOptions) ([]domain.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Project
	for _, project := range r.projects {
		out = append(out, project)
	}
	return out, nil
}

func (r *fakeProjectRepo) Update(_ context.Context, project *domain.Project) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.projects[project.ID]; !ok {
		return repository.ErrNotFound
	}
	r.projects[project.ID] = *project
	return nil
}

func (r *fakeProjectRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.projects[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.projects, id)
	return nil
}

type fakeProposalRepo struct {
	mu        sync.Mutex
	proposals map[primitive.ObjectID]domain.Proposal
}

func newFakeProposalRepo() *fakeProposalRepo {
	return &fakeProposalRepo{proposals: make(map[primitive.ObjectID]domain.Proposal)}
}

func (r *fakeProposalRepo) Create(_ context.Context, proposal *domain.Proposal) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	proposal.ID = primitive.NewObjectID()
	proposal.CreatedAt = time.Now()
	r.proposals[proposal.ID] = *proposal
	return proposal.ID, nil
}

func (r *fakeProposalRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Proposal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	proposal, ok := r.proposals[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	p := proposal
	return &p, nil
}

func (r *fakeProposalRepo) GetByIDs(_ context.Context, ids []primitive.ObjectID) ([]domain.Proposal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Proposal
	for _, id := range ids {
		if proposal, ok := r.proposals[id]; ok {
			out = append(out, proposal)
		}
	}
	return out, nil
}

func (r *fakeProposalRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.proposals[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.proposals, id)
	return nil
}

// fakeStorage hands out deterministic object keys and records deletions.
type fakeStorage struct {
	mu        sync.Mutex
	uploads   int
	objects   map[string]bool
	deleted   []string
	uploadErr error
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{objects: make(map[string]bool)}
}

func (s *fakeStorage) UploadDataURL(_ context.Context, dataURL, folder string) (*storage.UploadResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.uploadErr != nil {
		return nil, s.uploadErr
	}
	if dataURL == "" {
		return nil, storage.ErrInvalidDataURL
	}
	s.uploads++
	key := fmt.Sprintf("%s/object-%d", folder, s.uploads)
	s.objects[key] = true
	return &storage.UploadResult{PublicID: key, URL: "https://files.test/" + key}, nil
}

func (s *fakeStorage) DeleteObject(_ context.Context, objectKey string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, objectKey)
	s.deleted = append(s.deleted, objectKey)
	return nil
}

type sentMail struct {
	To      string
	Subject string
	Body    string
}

// fakeMailer records outbound mail; sendErr makes every Send fail.
type fakeMailer struct {
	mu      sync.Mutex
	sent    []sentMail
	sendErr error
}

func (m *fakeMailer) Send(to, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sendErr != nil {
		return m.sendErr
	}
	m.sent = append(m.sent, sentMail{To: to, Subject: subject, Body: body})
	return nil
}

func (m *fakeMailer) sentCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}

func (m *fakeMailer) lastMail() (sentMail, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.sent) == 0 {
		return sentMail{}, false
	}
	return m.sent[len(m.sent)-1], true
}

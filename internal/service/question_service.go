package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"devcommunity/internal/domain"
	"devcommunity/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrNotQuestionOwner = errors.New("user does not own this question")
	ErrNotAnswerAuthor  = errors.New("user did not write this answer")
)

// QuestionService handles the Q&A board: questions and their answers.
type QuestionService interface {
	CreateQuestion(ctx context.Context, ownerID, question, description string, tags []string) (*QuestionDetails, error)
	ListQuestions(ctx context.Context) ([]QuestionDetails, error)
	GetQuestion(ctx context.Context, questionID string) (*QuestionDetails, error)
	DeleteQuestion(ctx context.Context, actorID, questionID string) error
	LikeQuestion(ctx context.Context, actorID, questionID string) (*domain.Question, bool, error)
	ViewQuestion(ctx context.Context, actorID, questionID string) (*domain.Question, error)

	AddAnswer(ctx context.Context, actorID, questionID, text string) (*QuestionDetails, error)
	UpdateAnswer(ctx context.Context, actorID, answerID, text string) (*domain.Answer, error)
	DeleteAnswer(ctx context.Context, actorID, answerID string) error
	LikeAnswer(ctx context.Context, actorID, answerID string) (*domain.Answer, bool, error)
}

type questionService struct {
	questionRepo repository.QuestionRepository
	answerRepo   repository.AnswerRepository
	userRepo     repository.UserRepository
}

func NewQuestionService(questionRepo repository.QuestionRepository, answerRepo repository.AnswerRepository, userRepo repository.UserRepository) QuestionService {
	return &questionService{
		questionRepo: questionRepo,
		answerRepo:   answerRepo,
		userRepo:     userRepo,
	}
}

// CreateQuestion stores the question and records it on the owner.
func (s *questionService) CreateQuestion(ctx context.Context, ownerID, question, description string, tags []string) (*QuestionDetails, error) {
	owner, err := parseID(ownerID)
	if err != nil {
		return nil, err
	}

	doc := &domain.Question{
		Question:    question,
		Description: description,
		Owner:       owner,
	}
	for _, tag := range tags {
		doc.Tags = append(doc.Tags, domain.Tag{ID: primitive.NewObjectID(), Tag: tag})
	}

	questionID, err := s.questionRepo.Create(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("failed to create question: %w", err)
	}

	user, err := s.userRepo.GetByID(ctx, owner)
	if err != nil {
		return nil, err
	}
	user.Questions = append(user.Questions, questionID)
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to record question on user: %w", err)
	}

	details, err := s.hydrateQuestions(ctx, []domain.Question{*doc})
	if err != nil {
		return nil, err
	}
	return &details[0], nil
}

// ListQuestions returns all questions, newest first, with owners and answers
// resolved.
func (s *questionService) ListQuestions(ctx context.Context) ([]QuestionDetails, error) {
	questions, err := s.questionRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list questions: %w", err)
	}
	return s.hydrateQuestions(ctx, questions)
}

func (s *questionService) GetQuestion(ctx context.Context, questionID string) (*QuestionDetails, error) {
	objectID, err := parseID(questionID)
	if err != nil {
		return nil, err
	}
	question, err := s.questionRepo.GetByID(ctx, objectID)
	if err != nil {
		return nil, err
	}
	details, err := s.hydrateQuestions(ctx, []domain.Question{*question})
	if err != nil {
		return nil, err
	}
	return &details[0], nil
}

// DeleteQuestion removes the question, its answers and the back-reference on
// the owner. Only the owner may delete.
func (s *questionService) DeleteQuestion(ctx context.Context, actorID, questionID string) error {
	actor, err := parseID(actorID)
	if err != nil {
		return err
	}
	objectID, err := parseID(questionID)
	if err != nil {
		return err
	}

	question, err := s.questionRepo.GetByID(ctx, objectID)
	if err != nil {
		return err
	}
	if question.Owner != actor {
		return ErrNotQuestionOwner
	}

	for _, answerID := range question.Answers {
		if err := s.answerRepo.Delete(ctx, answerID); err != nil && !errors.Is(err, repository.ErrNotFound) {
			log.Printf("WARN: Failed to delete answer %s of question %s: %v", answerID.Hex(), questionID, err)
		}
	}

	if err := s.questionRepo.Delete(ctx, objectID); err != nil {
		return err
	}

	owner, err := s.userRepo.GetByID(ctx, actor)
	if err != nil {
		return err
	}
	owner.Questions = removeID(owner.Questions, objectID)
	return s.userRepo.Update(ctx, owner)
}

func (s *questionService) LikeQuestion(ctx context.Context, actorID, questionID string) (*domain.Question, bool, error) {
	actor, err := parseID(actorID)
	if err != nil {
		return nil, false, err
	}
	objectID, err := parseID(questionID)
	if err != nil {
		return nil, false, err
	}

	question, err := s.questionRepo.GetByID(ctx, objectID)
	if err != nil {
		return nil, false, err
	}

	var liked bool
	question.Likes, liked = toggleLike(question.Likes, actor)
	if err := s.questionRepo.Update(ctx, question); err != nil {
		return nil, false, fmt.Errorf("failed to save question: %w", err)
	}
	return question, liked, nil
}

// ViewQuestion records the viewer once. A repeat view leaves the list
// unchanged.
func (s *questionService) ViewQuestion(ctx context.Context, actorID, questionID string) (*domain.Question, error) {
	actor, err := parseID(actorID)
	if err != nil {
		return nil, err
	}
	objectID, err := parseID(questionID)
	if err != nil {
		return nil, err
	}

	question, err := s.questionRepo.GetByID(ctx, objectID)
	if err != nil {
		return nil, err
	}

	if !containsID(question.Views, actor) {
		question.Views = append(question.Views, actor)
		if err := s.questionRepo.Update(ctx, question); err != nil {
			return nil, fmt.Errorf("failed to save question view: %w", err)
		}
	}
	return question, nil
}

// AddAnswer stores a new answer document, references it from the question
// and returns the re-hydrated question.
func (s *questionService) AddAnswer(ctx context.Context, actorID, questionID, text string) (*QuestionDetails, error) {
	actor, err := parseID(actorID)
	if err != nil {
		return nil, err
	}
	objectID, err := parseID(questionID)
	if err != nil {
		return nil, err
	}

	question, err := s.questionRepo.GetByID(ctx, objectID)
	if err != nil {
		return nil, err
	}

	answer := &domain.Answer{
		QuestionID: question.ID,
		Answer:     text,
		User:       actor,
	}
	answerID, err := s.answerRepo.Create(ctx, answer)
	if err != nil {
		return nil, fmt.Errorf("failed to create answer: %w", err)
	}

	question.Answers = append(question.Answers, answerID)
	if err := s.questionRepo.Update(ctx, question); err != nil {
		return nil, fmt.Errorf("failed to record answer on question: %w", err)
	}

	details, err := s.hydrateQuestions(ctx, []domain.Question{*question})
	if err != nil {
		return nil, err
	}
	return &details[0], nil
}

// UpdateAnswer changes the text. Only the author may update.
func (s *questionService) UpdateAnswer(ctx context.Context, actorID, answerID, text string) (*domain.Answer, error) {
	actor, err := parseID(actorID)
	if err != nil {
		return nil, err
	}
	objectID, err := parseID(answerID)
	if err != nil {
		return nil, err
	}

	answer, err := s.answerRepo.GetByID(ctx, objectID)
	if err != nil {
		return nil, err
	}
	if answer.User != actor {
		return nil, ErrNotAnswerAuthor
	}

	answer.Answer = text
	if err := s.answerRepo.Update(ctx, answer); err != nil {
		return nil, fmt.Errorf("failed to save answer: %w", err)
	}
	return answer, nil
}

// DeleteAnswer removes the answer document and splices exactly one reference
// out of the question's answer list.
func (s *questionService) DeleteAnswer(ctx context.Context, actorID, answerID string) error {
	actor, err := parseID(actorID)
	if err != nil {
		return err
	}
	objectID, err := parseID(answerID)
	if err != nil {
		return err
	}

	answer, err := s.answerRepo.GetByID(ctx, objectID)
	if err != nil {
		return err
	}
	if answer.User != actor {
		return ErrNotAnswerAuthor
	}

	if err := s.answerRepo.Delete(ctx, objectID); err != nil {
		return err
	}

	question, err := s.questionRepo.GetByID(ctx, answer.QuestionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil
		}
		return err
	}
	question.Answers = removeID(question.Answers, objectID)
	return s.questionRepo.Update(ctx, question)
}

func (s *questionService) LikeAnswer(ctx context.Context, actorID, answerID string) (*domain.Answer, bool, error) {
	actor, err := parseID(actorID)
	if err != nil {
		return nil, false, err
	}
	objectID, err := parseID(answerID)
	if err != nil {
		return nil, false, err
	}

	answer, err := s.answerRepo.GetByID(ctx, objectID)
	if err != nil {
		return nil, false, err
	}

	var liked bool
	answer.Likes, liked = toggleLike(answer.Likes, actor)
	if err := s.answerRepo.Update(ctx, answer); err != nil {
		return nil, false, fmt.Errorf("failed to save answer: %w", err)
	}
	return answer, liked, nil
}

// hydrateQuestions resolves owners, answers and answer authors for a batch
// of questions with one answer fetch and one user fetch.
func (s *questionService) hydrateQuestions(ctx context.Context, questions []domain.Question) ([]QuestionDetails, error) {
	var answerIDs []primitive.ObjectID
	for _, question := range questions {
		answerIDs = append(answerIDs, question.Answers...)
	}

	answers, err := s.answerRepo.GetByIDs(ctx, answerIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load answers: %w", err)
	}
	answerByID := make(map[primitive.ObjectID]*domain.Answer, len(answers))
	for i := range answers {
		answerByID[answers[i].ID] = &answers[i]
	}

	var userIDs []primitive.ObjectID
	for _, question := range questions {
		userIDs = append(userIDs, question.Owner)
	}
	for _, answer := range answers {
		userIDs = append(userIDs, answer.User)
	}
	users, err := loadUserMap(ctx, s.userRepo, userIDs)
	if err != nil {
		return nil, err
	}

	details := make([]QuestionDetails, 0, len(questions))
	for _, question := range questions {
		detail := QuestionDetails{Question: question, OwnerDetail: users[question.Owner]}
		for _, answerID := range question.Answers {
			answer, ok := answerByID[answerID]
			if !ok {
				continue
			}
			detail.AnswerDetails = append(detail.AnswerDetails, AnswerDetails{
				Answer:     *answer,
				UserDetail: users[answer.User],
			})
		}
		details = append(details, detail)
	}
	return details, nil
}

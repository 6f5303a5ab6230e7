package service

import (
	"context"
	"testing"

	"devcommunity/internal/domain"
	"devcommunity/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type questionFixture struct {
	questions *fakeQuestionRepo
	answers   *fakeAnswerRepo
	users     *fakeUserRepo
	svc       QuestionService
}

func newQuestionFixture(t *testing.T) *questionFixture {
	t.Helper()
	f := &questionFixture{
		questions: newFakeQuestionRepo(),
		answers:   newFakeAnswerRepo(),
		users:     newFakeUserRepo(),
	}
	f.svc = NewQuestionService(f.questions, f.answers, f.users)
	return f
}

func (f *questionFixture) addUser(t *testing.T, name string) *domain.User {
	t.Helper()
	user := &domain.User{Name: name, Email: name + "@example.com", PasswordHash: "x", Role: domain.RoleDeveloper}
	_, err := f.users.Create(context.Background(), user)
	require.NoError(t, err)
	return user
}

func TestCreateQuestionRecordsOwnerRef(t *testing.T) {
	f := newQuestionFixture(t)
	owner := f.addUser(t, "ada")

	question, err := f.svc.CreateQuestion(context.Background(), owner.ID.Hex(), "how?", "details", []string{"go", "mongodb"})
	require.NoError(t, err)
	assert.Len(t, question.Tags, 2)

	stored, err := f.users.GetByID(context.Background(), owner.ID)
	require.NoError(t, err)
	require.Len(t, stored.Questions, 1)
	assert.Equal(t, question.ID, stored.Questions[0])
}

func TestViewQuestionAddOnce(t *testing.T) {
	f := newQuestionFixture(t)
	owner := f.addUser(t, "ada")
	viewer := f.addUser(t, "bob")

	created, err := f.svc.CreateQuestion(context.Background(), owner.ID.Hex(), "how?", "", nil)
	require.NoError(t, err)

	question, err := f.svc.ViewQuestion(context.Background(), viewer.ID.Hex(), created.ID.Hex())
	require.NoError(t, err)
	assert.Len(t, question.Views, 1)

	// A repeat view does not grow the list.
	question, err = f.svc.ViewQuestion(context.Background(), viewer.ID.Hex(), created.ID.Hex())
	require.NoError(t, err)
	assert.Len(t, question.Views, 1)
}

func TestLikeQuestionToggle(t *testing.T) {
	f := newQuestionFixture(t)
	owner := f.addUser(t, "ada")
	actor := f.addUser(t, "bob")

	created, err := f.svc.CreateQuestion(context.Background(), owner.ID.Hex(), "how?", "", nil)
	require.NoError(t, err)

	question, liked, err := f.svc.LikeQuestion(context.Background(), actor.ID.Hex(), created.ID.Hex())
	require.NoError(t, err)
	assert.True(t, liked)
	assert.Contains(t, question.Likes, actor.ID)

	question, liked, err = f.svc.LikeQuestion(context.Background(), actor.ID.Hex(), created.ID.Hex())
	require.NoError(t, err)
	assert.False(t, liked)
	assert.Empty(t, question.Likes)
}

func TestAnswerLifecycle(t *testing.T) {
	f := newQuestionFixture(t)
	owner := f.addUser(t, "ada")
	answerer := f.addUser(t, "bob")

	created, err := f.svc.CreateQuestion(context.Background(), owner.ID.Hex(), "how?", "", nil)
	require.NoError(t, err)

	question, err := f.svc.AddAnswer(context.Background(), answerer.ID.Hex(), created.ID.Hex(), "like this")
	require.NoError(t, err)
	require.Len(t, question.AnswerDetails, 1)
	answerID := question.AnswerDetails[0].Answer.ID
	require.NotNil(t, question.AnswerDetails[0].UserDetail)
	assert.Equal(t, "bob", question.AnswerDetails[0].UserDetail.Name)

	_, err = f.svc.UpdateAnswer(context.Background(), owner.ID.Hex(), answerID.Hex(), "hijacked")
	assert.ErrorIs(t, err, ErrNotAnswerAuthor)

	answer, err := f.svc.UpdateAnswer(context.Background(), answerer.ID.Hex(), answerID.Hex(), "edited")
	require.NoError(t, err)
	assert.Equal(t, "edited", answer.Answer)

	err = f.svc.DeleteAnswer(context.Background(), owner.ID.Hex(), answerID.Hex())
	assert.ErrorIs(t, err, ErrNotAnswerAuthor)

	require.NoError(t, f.svc.DeleteAnswer(context.Background(), answerer.ID.Hex(), answerID.Hex()))

	stored, err := f.questions.GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Empty(t, stored.Answers)
	_, err = f.answers.GetByID(context.Background(), answerID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestDeleteQuestionOwnershipGate(t *testing.T) {
	f := newQuestionFixture(t)
	owner := f.addUser(t, "ada")
	other := f.addUser(t, "bob")

	created, err := f.svc.CreateQuestion(context.Background(), owner.ID.Hex(), "how?", "", nil)
	require.NoError(t, err)
	_, err = f.svc.AddAnswer(context.Background(), other.ID.Hex(), created.ID.Hex(), "like this")
	require.NoError(t, err)

	err = f.svc.DeleteQuestion(context.Background(), other.ID.Hex(), created.ID.Hex())
	assert.ErrorIs(t, err, ErrNotQuestionOwner)

	require.NoError(t, f.svc.DeleteQuestion(context.Background(), owner.ID.Hex(), created.ID.Hex()))

	_, err = f.questions.GetByID(context.Background(), created.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	stored, err := f.users.GetByID(context.Background(), owner.ID)
	require.NoError(t, err)
	assert.Empty(t, stored.Questions)
}

package service

import (
	"context"
	"testing"

	"devcommunity/internal/domain"
	"devcommunity/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type postFixture struct {
	posts    *fakePostRepo
	comments *fakeCommentRepo
	users    *fakeUserRepo
	files    *fakeStorage
	svc      PostService
}

func newPostFixture(t *testing.T) *postFixture {
	t.Helper()
	f := &postFixture{
		posts:    newFakePostRepo(),
		comments: newFakeCommentRepo(),
		users:    newFakeUserRepo(),
		files:    newFakeStorage(),
	}
	f.svc = NewPostService(f.posts, f.comments, f.users, f.files)
	return f
}

func (f *postFixture) addUser(t *testing.T, name string) *domain.User {
	t.Helper()
	user := &domain.User{Name: name, Email: name + "@example.com", PasswordHash: "x", Role: domain.RoleDeveloper}
	_, err := f.users.Create(context.Background(), user)
	require.NoError(t, err)
	return user
}

func TestCreatePostRecordsOwnerRef(t *testing.T) {
	f := newPostFixture(t)
	owner := f.addUser(t, "ada")

	post, err := f.svc.CreatePost(context.Background(), owner.ID.Hex(), "hello", []string{"data:image/png;base64,aGk="})
	require.NoError(t, err)
	require.Len(t, post.Images, 1)
	assert.Equal(t, owner.ID, post.Owner)

	stored, err := f.users.GetByID(context.Background(), owner.ID)
	require.NoError(t, err)
	require.Len(t, stored.Posts, 1)
	assert.Equal(t, post.ID, stored.Posts[0])
}

func TestLikePostToggle(t *testing.T) {
	f := newPostFixture(t)
	owner := f.addUser(t, "ada")
	actor := f.addUser(t, "bob")

	created, err := f.svc.CreatePost(context.Background(), owner.ID.Hex(), "hello", nil)
	require.NoError(t, err)

	post, liked, err := f.svc.LikePost(context.Background(), actor.ID.Hex(), created.ID.Hex())
	require.NoError(t, err)
	assert.True(t, liked)
	assert.Contains(t, post.Likes, actor.ID)

	post, liked, err = f.svc.LikePost(context.Background(), actor.ID.Hex(), created.ID.Hex())
	require.NoError(t, err)
	assert.False(t, liked)
	assert.Empty(t, post.Likes)
}

func TestUpdatePostOwnershipGate(t *testing.T) {
	f := newPostFixture(t)
	owner := f.addUser(t, "ada")
	other := f.addUser(t, "bob")

	created, err := f.svc.CreatePost(context.Background(), owner.ID.Hex(), "hello", nil)
	require.NoError(t, err)

	_, err = f.svc.UpdatePost(context.Background(), other.ID.Hex(), created.ID.Hex(), "hijacked")
	assert.ErrorIs(t, err, ErrNotPostOwner)

	updated, err := f.svc.UpdatePost(context.Background(), owner.ID.Hex(), created.ID.Hex(), "edited")
	require.NoError(t, err)
	assert.Equal(t, "edited", updated.Caption)
}

func TestDeletePost(t *testing.T) {
	f := newPostFixture(t)
	owner := f.addUser(t, "ada")
	other := f.addUser(t, "bob")

	created, err := f.svc.CreatePost(context.Background(), owner.ID.Hex(), "hello", []string{"data:image/png;base64,aGk="})
	require.NoError(t, err)
	_, err = f.svc.AddComment(context.Background(), other.ID.Hex(), created.ID.Hex(), "first", "")
	require.NoError(t, err)

	err = f.svc.DeletePost(context.Background(), other.ID.Hex(), created.ID.Hex())
	assert.ErrorIs(t, err, ErrNotPostOwner)

	require.NoError(t, f.svc.DeletePost(context.Background(), owner.ID.Hex(), created.ID.Hex()))

	_, err = f.posts.GetByID(context.Background(), created.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	// Stored image removed, back-reference spliced, comment doc gone.
	assert.Contains(t, f.files.deleted, created.Images[0].PublicID)
	stored, err := f.users.GetByID(context.Background(), owner.ID)
	require.NoError(t, err)
	assert.Empty(t, stored.Posts)
}

func TestDeleteCommentSplicesSingleRef(t *testing.T) {
	f := newPostFixture(t)
	owner := f.addUser(t, "ada")
	commenter := f.addUser(t, "bob")

	created, err := f.svc.CreatePost(context.Background(), owner.ID.Hex(), "hello", nil)
	require.NoError(t, err)

	first, err := f.svc.AddComment(context.Background(), commenter.ID.Hex(), created.ID.Hex(), "first", "")
	require.NoError(t, err)
	require.Len(t, first.CommentDetails, 1)
	target := first.CommentDetails[0].Comment

	second, err := f.svc.AddComment(context.Background(), commenter.ID.Hex(), created.ID.Hex(), "second", "")
	require.NoError(t, err)
	require.Len(t, second.CommentDetails, 2)

	// A different user cannot delete.
	err = f.svc.DeleteComment(context.Background(), owner.ID.Hex(), target.ID.Hex())
	assert.ErrorIs(t, err, ErrNotCommentAuthor)

	require.NoError(t, f.svc.DeleteComment(context.Background(), commenter.ID.Hex(), target.ID.Hex()))

	post, err := f.posts.GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	require.Len(t, post.Comments, 1)
	assert.NotEqual(t, target.ID, post.Comments[0])

	_, err = f.comments.GetByID(context.Background(), target.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestReplyLifecycle(t *testing.T) {
	f := newPostFixture(t)
	owner := f.addUser(t, "ada")
	replier := f.addUser(t, "bob")

	created, err := f.svc.CreatePost(context.Background(), owner.ID.Hex(), "hello", nil)
	require.NoError(t, err)
	withComment, err := f.svc.AddComment(context.Background(), owner.ID.Hex(), created.ID.Hex(), "first", "")
	require.NoError(t, err)
	commentID := withComment.CommentDetails[0].Comment.ID

	comment, err := f.svc.AddReply(context.Background(), replier.ID.Hex(), commentID.Hex(), "a reply")
	require.NoError(t, err)
	require.Len(t, comment.Replies, 1)
	assert.False(t, comment.Replies[0].CreatedAt.IsZero())
	replyID := comment.Replies[0].ID

	// Like requires the comment to belong to the post in the path.
	_, err = f.svc.LikeReply(context.Background(), owner.ID.Hex(), primitive.NewObjectID().Hex(), commentID.Hex(), replyID.Hex())
	assert.Error(t, err)

	liked, err := f.svc.LikeReply(context.Background(), owner.ID.Hex(), created.ID.Hex(), commentID.Hex(), replyID.Hex())
	require.NoError(t, err)
	assert.True(t, liked)
	liked, err = f.svc.LikeReply(context.Background(), owner.ID.Hex(), created.ID.Hex(), commentID.Hex(), replyID.Hex())
	require.NoError(t, err)
	assert.False(t, liked)

	// Only the author edits or deletes.
	_, err = f.svc.UpdateReply(context.Background(), owner.ID.Hex(), commentID.Hex(), replyID.Hex(), "edited")
	assert.ErrorIs(t, err, ErrNotReplyAuthor)

	comment, err = f.svc.UpdateReply(context.Background(), replier.ID.Hex(), commentID.Hex(), replyID.Hex(), "edited")
	require.NoError(t, err)
	assert.Equal(t, "edited", comment.Replies[0].Reply)

	require.NoError(t, f.svc.DeleteReply(context.Background(), replier.ID.Hex(), commentID.Hex(), replyID.Hex()))

	stored, err := f.comments.GetByID(context.Background(), commentID)
	require.NoError(t, err)
	assert.Empty(t, stored.Replies)

	err = f.svc.DeleteReply(context.Background(), replier.ID.Hex(), commentID.Hex(), replyID.Hex())
	assert.ErrorIs(t, err, ErrReplyNotFound)
}

func TestGetPostHydration(t *testing.T) {
	f := newPostFixture(t)
	owner := f.addUser(t, "ada")
	commenter := f.addUser(t, "bob")

	created, err := f.svc.CreatePost(context.Background(), owner.ID.Hex(), "hello", nil)
	require.NoError(t, err)
	_, err = f.svc.AddComment(context.Background(), commenter.ID.Hex(), created.ID.Hex(), "first", "")
	require.NoError(t, err)

	post, err := f.svc.GetPost(context.Background(), created.ID.Hex())
	require.NoError(t, err)
	require.NotNil(t, post.OwnerDetail)
	assert.Equal(t, "ada", post.OwnerDetail.Name)
	assert.Empty(t, post.OwnerDetail.PasswordHash)
	require.Len(t, post.CommentDetails, 1)
	require.NotNil(t, post.CommentDetails[0].UserDetail)
	assert.Equal(t, "bob", post.CommentDetails[0].UserDetail.Name)
}

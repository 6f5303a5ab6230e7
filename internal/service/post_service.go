package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"devcommunity/internal/domain"
	"devcommunity/internal/repository"
	"devcommunity/internal/storage"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrNotPostOwner     = errors.New("user does not own this post")
	ErrNotCommentAuthor = errors.New("user did not write this comment")
	ErrNotReplyAuthor   = errors.New("user did not write this reply")
	ErrCommentNotInPost = errors.New("comment does not belong to this post")
	ErrReplyNotFound    = errors.New("reply not found")
)

// PostService handles the feed: posts, their comments and the replies
// embedded in those comments.
type PostService interface {
	CreatePost(ctx context.Context, ownerID, caption string, imageDataURLs []string) (*PostDetails, error)
	ListPosts(ctx context.Context) ([]PostDetails, error)
	GetPost(ctx context.Context, postID string) (*PostDetails, error)
	MyPosts(ctx context.Context, ownerID string) ([]PostDetails, error)
	LikePost(ctx context.Context, actorID, postID string) (*domain.Post, bool, error)
	UpdatePost(ctx context.Context, actorID, postID, caption string) (*domain.Post, error)
	DeletePost(ctx context.Context, actorID, postID string) error

	AddComment(ctx context.Context, actorID, postID, text, imageDataURL string) (*PostDetails, error)
	UpdateComment(ctx context.Context, actorID, commentID, text string) (*domain.Comment, error)
	DeleteComment(ctx context.Context, actorID, commentID string) error
	LikeComment(ctx context.Context, actorID, commentID string) (*domain.Comment, bool, error)

	AddReply(ctx context.Context, actorID, commentID, text string) (*domain.Comment, error)
	LikeReply(ctx context.Context, actorID, postID, commentID, replyID string) (bool, error)
	UpdateReply(ctx context.Context, actorID, commentID, replyID, text string) (*domain.Comment, error)
	DeleteReply(ctx context.Context, actorID, commentID, replyID string) error
}

type postService struct {
	postRepo    repository.PostRepository
	commentRepo repository.CommentRepository
	userRepo    repository.UserRepository
	storage     storage.FileStorage
}

func NewPostService(postRepo repository.PostRepository, commentRepo repository.CommentRepository, userRepo repository.UserRepository, fileStorage storage.FileStorage) PostService {
	return &postService{
		postRepo:    postRepo,
		commentRepo: commentRepo,
		userRepo:    userRepo,
		storage:     fileStorage,
	}
}

// CreatePost uploads the attached images, stores the post and records it on
// the owner's posts list.
func (s *postService) CreatePost(ctx context.Context, ownerID, caption string, imageDataURLs []string) (*PostDetails, error) {
	owner, err := parseID(ownerID)
	if err != nil {
		return nil, err
	}

	post := &domain.Post{
		Caption: caption,
		Owner:   owner,
	}
	for _, dataURL := range imageDataURLs {
		uploaded, err := s.storage.UploadDataURL(ctx, dataURL, storage.FolderPosts)
		if err != nil {
			return nil, fmt.Errorf("failed to upload post image: %w", err)
		}
		post.Images = append(post.Images, domain.PostImage{
			PublicID:  uploaded.PublicID,
			Original:  uploaded.URL,
			Thumbnail: uploaded.URL,
		})
	}

	postID, err := s.postRepo.Create(ctx, post)
	if err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}

	user, err := s.userRepo.GetByID(ctx, owner)
	if err != nil {
		return nil, err
	}
	user.Posts = append(user.Posts, postID)
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to record post on user: %w", err)
	}

	details, err := s.hydratePosts(ctx, []domain.Post{*post})
	if err != nil {
		return nil, err
	}
	return &details[0], nil
}

// ListPosts returns the feed, newest first, fully hydrated.
func (s *postService) ListPosts(ctx context.Context) ([]PostDetails, error) {
	posts, err := s.postRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	return s.hydratePosts(ctx, posts)
}

func (s *postService) GetPost(ctx context.Context, postID string) (*PostDetails, error) {
	objectID, err := parseID(postID)
	if err != nil {
		return nil, err
	}
	post, err := s.postRepo.GetByID(ctx, objectID)
	if err != nil {
		return nil, err
	}
	details, err := s.hydratePosts(ctx, []domain.Post{*post})
	if err != nil {
		return nil, err
	}
	return &details[0], nil
}

func (s *postService) MyPosts(ctx context.Context, ownerID string) ([]PostDetails, error) {
	owner, err := parseID(ownerID)
	if err != nil {
		return nil, err
	}
	posts, err := s.postRepo.GetByOwner(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("failed to list own posts: %w", err)
	}
	return s.hydratePosts(ctx, posts)
}

// LikePost toggles the actor's like on a post. The returned flag reports
// whether the post is liked after the call.
func (s *postService) LikePost(ctx context.Context, actorID, postID string) (*domain.Post, bool, error) {
	actor, err := parseID(actorID)
	if err != nil {
		return nil, false, err
	}
	objectID, err := parseID(postID)
	if err != nil {
		return nil, false, err
	}

	post, err := s.postRepo.GetByID(ctx, objectID)
	if err != nil {
		return nil, false, err
	}

	var liked bool
	post.Likes, liked = toggleLike(post.Likes, actor)
	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, false, fmt.Errorf("failed to save post: %w", err)
	}
	return post, liked, nil
}

// UpdatePost changes the caption. Only the owner may update.
func (s *postService) UpdatePost(ctx context.Context, actorID, postID, caption string) (*domain.Post, error) {
	actor, err := parseID(actorID)
	if err != nil {
		return nil, err
	}
	objectID, err := parseID(postID)
	if err != nil {
		return nil, err
	}

	post, err := s.postRepo.GetByID(ctx, objectID)
	if err != nil {
		return nil, err
	}
	if post.Owner != actor {
		return nil, ErrNotPostOwner
	}

	post.Caption = caption
	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, fmt.Errorf("failed to save post: %w", err)
	}
	return post, nil
}

// DeletePost removes the post, its comment documents, its stored images and
// the single back-reference on the owner.
func (s *postService) DeletePost(ctx context.Context, actorID, postID string) error {
	actor, err := parseID(actorID)
	if err != nil {
		return err
	}
	objectID, err := parseID(postID)
	if err != nil {
		return err
	}

	post, err := s.postRepo.GetByID(ctx, objectID)
	if err != nil {
		return err
	}
	if post.Owner != actor {
		return ErrNotPostOwner
	}

	for _, image := range post.Images {
		if err := s.storage.DeleteObject(ctx, image.PublicID); err != nil {
			log.Printf("WARN: Failed to delete post image %s: %v", image.PublicID, err)
		}
	}
	for _, commentID := range post.Comments {
		if err := s.commentRepo.Delete(ctx, commentID); err != nil && !errors.Is(err, repository.ErrNotFound) {
			log.Printf("WARN: Failed to delete comment %s of post %s: %v", commentID.Hex(), postID, err)
		}
	}

	if err := s.postRepo.Delete(ctx, objectID); err != nil {
		return err
	}

	owner, err := s.userRepo.GetByID(ctx, actor)
	if err != nil {
		return err
	}
	owner.Posts = removeID(owner.Posts, objectID)
	return s.userRepo.Update(ctx, owner)
}

// AddComment stores a new comment document, references it from the post and
// returns the re-hydrated post.
func (s *postService) AddComment(ctx context.Context, actorID, postID, text, imageDataURL string) (*PostDetails, error) {
	actor, err := parseID(actorID)
	if err != nil {
		return nil, err
	}
	objectID, err := parseID(postID)
	if err != nil {
		return nil, err
	}

	post, err := s.postRepo.GetByID(ctx, objectID)
	if err != nil {
		return nil, err
	}

	comment := &domain.Comment{
		Post:    post.ID,
		Comment: text,
		User:    actor,
	}
	if imageDataURL != "" {
		uploaded, err := s.storage.UploadDataURL(ctx, imageDataURL, storage.FolderComments)
		if err != nil {
			return nil, fmt.Errorf("failed to upload comment image: %w", err)
		}
		comment.Image = uploaded.URL
	}

	commentID, err := s.commentRepo.Create(ctx, comment)
	if err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}

	post.Comments = append(post.Comments, commentID)
	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, fmt.Errorf("failed to record comment on post: %w", err)
	}

	details, err := s.hydratePosts(ctx, []domain.Post{*post})
	if err != nil {
		return nil, err
	}
	return &details[0], nil
}

// UpdateComment changes the text. Only the author may update.
func (s *postService) UpdateComment(ctx context.Context, actorID, commentID, text string) (*domain.Comment, error) {
	actor, err := parseID(actorID)
	if err != nil {
		return nil, err
	}
	objectID, err := parseID(commentID)
	if err != nil {
		return nil, err
	}

	comment, err := s.commentRepo.GetByID(ctx, objectID)
	if err != nil {
		return nil, err
	}
	if comment.User != actor {
		return nil, ErrNotCommentAuthor
	}

	comment.Comment = text
	if err := s.commentRepo.Update(ctx, comment); err != nil {
		return nil, fmt.Errorf("failed to save comment: %w", err)
	}
	return comment, nil
}

// DeleteComment removes the comment document and splices exactly one
// reference out of the post's comment list.
func (s *postService) DeleteComment(ctx context.Context, actorID, commentID string) error {
	actor, err := parseID(actorID)
	if err != nil {
		return err
	}
	objectID, err := parseID(commentID)
	if err != nil {
		return err
	}

	comment, err := s.commentRepo.GetByID(ctx, objectID)
	if err != nil {
		return err
	}
	if comment.User != actor {
		return ErrNotCommentAuthor
	}

	if err := s.commentRepo.Delete(ctx, objectID); err != nil {
		return err
	}

	post, err := s.postRepo.GetByID(ctx, comment.Post)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil
		}
		return err
	}
	post.Comments = removeID(post.Comments, objectID)
	return s.postRepo.Update(ctx, post)
}

func (s *postService) LikeComment(ctx context.Context, actorID, commentID string) (*domain.Comment, bool, error) {
	actor, err := parseID(actorID)
	if err != nil {
		return nil, false, err
	}
	objectID, err := parseID(commentID)
	if err != nil {
		return nil, false, err
	}

	comment, err := s.commentRepo.GetByID(ctx, objectID)
	if err != nil {
		return nil, false, err
	}

	var liked bool
	comment.Likes, liked = toggleLike(comment.Likes, actor)
	if err := s.commentRepo.Update(ctx, comment); err != nil {
		return nil, false, fmt.Errorf("failed to save comment: %w", err)
	}
	return comment, liked, nil
}

// AddReply appends a new embedded reply to the comment.
func (s *postService) AddReply(ctx context.Context, actorID, commentID, text string) (*domain.Comment, error) {
	actor, err := parseID(actorID)
	if err != nil {
		return nil, err
	}
	objectID, err := parseID(commentID)
	if err != nil {
		return nil, err
	}

	comment, err := s.commentRepo.GetByID(ctx, objectID)
	if err != nil {
		return nil, err
	}

	comment.Replies = append(comment.Replies, domain.Reply{
		ID:        primitive.NewObjectID(),
		User:      actor,
		Reply:     text,
		CreatedAt: time.Now().UTC(),
	})
	if err := s.commentRepo.Update(ctx, comment); err != nil {
		return nil, fmt.Errorf("failed to save reply: %w", err)
	}
	return comment, nil
}

// LikeReply toggles a like on an embedded reply. The comment must be
// referenced from the given post; both the comment and the reply are located
// by scanning the respective lists.
func (s *postService) LikeReply(ctx context.Context, actorID, postID, commentID, replyID string) (bool, error) {
	actor, err := parseID(actorID)
	if err != nil {
		return false, err
	}
	postObjectID, err := parseID(postID)
	if err != nil {
		return false, err
	}
	commentObjectID, err := parseID(commentID)
	if err != nil {
		return false, err
	}
	replyObjectID, err := parseID(replyID)
	if err != nil {
		return false, err
	}

	post, err := s.postRepo.GetByID(ctx, postObjectID)
	if err != nil {
		return false, err
	}
	if !containsID(post.Comments, commentObjectID) {
		return false, ErrCommentNotInPost
	}

	comment, err := s.commentRepo.GetByID(ctx, commentObjectID)
	if err != nil {
		return false, err
	}

	idx := comment.FindReply(replyObjectID)
	if idx < 0 {
		return false, ErrReplyNotFound
	}

	var liked bool
	comment.Replies[idx].Likes, liked = toggleLike(comment.Replies[idx].Likes, actor)
	if err := s.commentRepo.Update(ctx, comment); err != nil {
		return false, fmt.Errorf("failed to save reply like: %w", err)
	}
	return liked, nil
}

// UpdateReply changes the text of an embedded reply. Only the author may
// update.
func (s *postService) UpdateReply(ctx context.Context, actorID, commentID, replyID, text string) (*domain.Comment, error) {
	actor, err := parseID(actorID)
	if err != nil {
		return nil, err
	}
	commentObjectID, err := parseID(commentID)
	if err != nil {
		return nil, err
	}
	replyObjectID, err := parseID(replyID)
	if err != nil {
		return nil, err
	}

	comment, err := s.commentRepo.GetByID(ctx, commentObjectID)
	if err != nil {
		return nil, err
	}

	idx := comment.FindReply(replyObjectID)
	if idx < 0 {
		return nil, ErrReplyNotFound
	}
	if comment.Replies[idx].User != actor {
		return nil, ErrNotReplyAuthor
	}

	comment.Replies[idx].Reply = text
	if err := s.commentRepo.Update(ctx, comment); err != nil {
		return nil, fmt.Errorf("failed to save reply: %w", err)
	}
	return comment, nil
}

// DeleteReply splices an embedded reply out of the comment.
func (s *postService) DeleteReply(ctx context.Context, actorID, commentID, replyID string) error {
	actor, err := parseID(actorID)
	if err != nil {
		return err
	}
	commentObjectID, err := parseID(commentID)
	if err != nil {
		return err
	}
	replyObjectID, err := parseID(replyID)
	if err != nil {
		return err
	}

	comment, err := s.commentRepo.GetByID(ctx, commentObjectID)
	if err != nil {
		return err
	}

	idx := comment.FindReply(replyObjectID)
	if idx < 0 {
		return ErrReplyNotFound
	}
	if comment.Replies[idx].User != actor {
		return ErrNotReplyAuthor
	}

	comment.Replies = append(comment.Replies[:idx], comment.Replies[idx+1:]...)
	return s.commentRepo.Update(ctx, comment)
}

// hydratePosts resolves owners, comments, comment authors and reply authors
// for a batch of posts with one comment fetch and one user fetch.
func (s *postService) hydratePosts(ctx context.Context, posts []domain.Post) ([]PostDetails, error) {
	var commentIDs []primitive.ObjectID
	for _, post := range posts {
		commentIDs = append(commentIDs, post.Comments...)
	}

	comments, err := s.commentRepo.GetByIDs(ctx, commentIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load comments: %w", err)
	}
	commentByID := make(map[primitive.ObjectID]*domain.Comment, len(comments))
	for i := range comments {
		commentByID[comments[i].ID] = &comments[i]
	}

	var userIDs []primitive.ObjectID
	for _, post := range posts {
		userIDs = append(userIDs, post.Owner)
	}
	for _, comment := range comments {
		userIDs = append(userIDs, comment.User)
		for _, reply := range comment.Replies {
			userIDs = append(userIDs, reply.User)
		}
	}
	users, err := loadUserMap(ctx, s.userRepo, userIDs)
	if err != nil {
		return nil, err
	}

	details := make([]PostDetails, 0, len(posts))
	for _, post := range posts {
		detail := PostDetails{Post: post, OwnerDetail: users[post.Owner]}
		for _, commentID := range post.Comments {
			comment, ok := commentByID[commentID]
			if !ok {
				continue
			}
			commentDetail := CommentDetails{Comment: *comment, UserDetail: users[comment.User]}
			for _, reply := range comment.Replies {
				commentDetail.ReplyDetails = append(commentDetail.ReplyDetails, ReplyDetails{
					Reply:      reply,
					UserDetail: users[reply.User],
				})
			}
			detail.CommentDetails = append(detail.CommentDetails, commentDetail)
		}
		details = append(details, detail)
	}
	return details, nil
}

package mongo

import (
	"context"
	"errors"
	"time"

	"devcommunity/internal/domain"
	"devcommunity/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const commentCollectionName = "post_comments"

// mongoCommentRepository implements repository.CommentRepository
type mongoCommentRepository struct {
	collection *mongo.Collection
}

// NewMongoCommentRepository creates a new Comment repository backed by MongoDB.
func NewMongoCommentRepository(db *mongo.Database) repository.CommentRepository {
	return &mongoCommentRepository{
		collection: db.Collection(commentCollectionName),
	}
}

// Create inserts a new comment into the database.
func (r *mongoCommentRepository) Create(ctx context.Context, comment *domain.Comment) (primitive.ObjectID, error) {
	if comment.Post == primitive.NilObjectID || comment.User == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("comment post and user are required")
	}

	comment.ID = primitive.NewObjectID()
	comment.CreatedAt = time.Now().UTC()

	result, err := r.collection.InsertOne(ctx, comment)
	if err != nil {
		return primitive.NilObjectID, err
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted ID")
	}
	return insertedID, nil
}

// GetByID retrieves a comment by its ID.
func (r *mongoCommentRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Comment, error) {
	var comment domain.Comment
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&comment)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &comment, nil
}

// GetByIDs retrieves the comments referenced from a post's comments array.
func (r *mongoCommentRepository) GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]domain.Comment, error) {
	if len(ids) == 0 {
		return []domain.Comment{}, nil
	}

	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{"_id": bson.M{"$in": ids}}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var comments []domain.Comment
	if err = cursor.All(ctx, &comments); err != nil {
		return nil, err
	}
	return comments, nil
}

// Update replaces the stored comment document. Reply mutations happen in
// memory (linear scan by id) before this call.
func (r *mongoCommentRepository) Update(ctx context.Context, comment *domain.Comment) error {
	if comment.ID == primitive.NilObjectID {
		return errors.New("comment ID is required for update")
	}

	result, err := r.collection.ReplaceOne(ctx, bson.M{"_id": comment.ID}, comment)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete removes a comment.
func (r *mongoCommentRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureCommentIndexes creates necessary indexes for the comments collection.
func EnsureCommentIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "post", Value: 1}},
			Options: options.Index(),
		},
	}

	_, _ = collection.Indexes().CreateMany(ctx, indexes)
}

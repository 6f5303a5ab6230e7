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

const postCollectionName = "posts"

// mongoPostRepository implements repository.PostRepository
type mongoPostRepository struct {
	collection *mongo.Collection
}

// NewMongoPostRepository creates a new Post repository backed by MongoDB.
func NewMongoPostRepository(db *mongo.Database) repository.PostRepository {
	return &mongoPostRepository{
		collection: db.Collection(postCollectionName),
	}
}

// Create inserts a new post into the database.
func (r *mongoPostRepository) Create(ctx context.Context, post *domain.Post) (primitive.ObjectID, error) {
	if post.Owner == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("post owner is required")
	}

	post.ID = primitive.NewObjectID()
	post.CreatedAt = time.Now().UTC()

	result, err := r.collection.InsertOne(ctx, post)
	if err != nil {
		return primitive.NilObjectID, err
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted ID")
	}
	return insertedID, nil
}

// GetByID retrieves a post by its ID.
func (r *mongoPostRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Post, error) {
	var post domain.Post
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&post)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &post, nil
}

// GetByOwner retrieves all posts created by a specific user, newest first.
func (r *mongoPostRepository) GetByOwner(ctx context.Context, owner primitive.ObjectID) ([]domain.Post, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := r.collection.Find(ctx, bson.M{"owner": owner}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var posts []domain.Post
	if err = cursor.All(ctx, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// List retrieves the whole feed, newest first.
func (r *mongoPostRepository) List(ctx context.Context) ([]domain.Post, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := r.collection.Find(ctx, bson.M{}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var posts []domain.Post
	if err = cursor.All(ctx, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// Update replaces the stored post document (save semantics).
func (r *mongoPostRepository) Update(ctx context.Context, post *domain.Post) error {
	if post.ID == primitive.NilObjectID {
		return errors.New("post ID is required for update")
	}

	result, err := r.collection.ReplaceOne(ctx, bson.M{"_id": post.ID}, post)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete removes a post.
func (r *mongoPostRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsurePostIndexes creates necessary indexes for the posts collection.
func EnsurePostIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "owner", Value: 1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "createdAt", Value: -1}},
			Options: options.Index(),
		},
	}

	_, _ = collection.Indexes().CreateMany(ctx, indexes)
}

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

const questionCollectionName = "questions"

// mongoQuestionRepository implements repository.QuestionRepository
type mongoQuestionRepository struct {
	collection *mongo.Collection
}

// NewMongoQuestionRepository creates a new Question repository backed by MongoDB.
func NewMongoQuestionRepository(db *mongo.Database) repository.QuestionRepository {
	return &mongoQuestionRepository{
		collection: db.Collection(questionCollectionName),
	}
}

// Create inserts a new question into the database.
func (r *mongoQuestionRepository) Create(ctx context.Context, question *domain.Question) (primitive.ObjectID, error) {
	if question.Owner == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("question owner is required")
	}

	question.ID = primitive.NewObjectID()
	question.CreatedAt = time.Now().UTC()

	result, err := r.collection.InsertOne(ctx, question)
	if err != nil {
		return primitive.NilObjectID, err
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted ID")
	}
	return insertedID, nil
}

// GetByID retrieves a question by its ID.
func (r *mongoQuestionRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Question, error) {
	var question domain.Question
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&question)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &question, nil
}

// List retrieves all questions, newest first.
func (r *mongoQuestionRepository) List(ctx context.Context) ([]domain.Question, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := r.collection.Find(ctx, bson.M{}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var questions []domain.Question
	if err = cursor.All(ctx, &questions); err != nil {
		return nil, err
	}
	return questions, nil
}

// Update replaces the stored question document (save semantics).
func (r *mongoQuestionRepository) Update(ctx context.Context, question *domain.Question) error {
	if question.ID == primitive.NilObjectID {
		return errors.New("question ID is required for update")
	}

	result, err := r.collection.ReplaceOne(ctx, bson.M{"_id": question.ID}, question)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete removes a question.
func (r *mongoQuestionRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureQuestionIndexes creates necessary indexes for the questions collection.
func EnsureQuestionIndexes(ctx context.Context, collection *mongo.Collection) {
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

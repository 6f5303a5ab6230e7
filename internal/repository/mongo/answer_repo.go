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

const answerCollectionName = "question_answers"

// mongoAnswerRepository implements repository.AnswerRepository
type mongoAnswerRepository struct {
	collection *mongo.Collection
}

// NewMongoAnswerRepository creates a new Answer repository backed by MongoDB.
func NewMongoAnswerRepository(db *mongo.Database) repository.AnswerRepository {
	return &mongoAnswerRepository{
		collection: db.Collection(answerCollectionName),
	}
}

// Create inserts a new answer into the database.
func (r *mongoAnswerRepository) Create(ctx context.Context, answer *domain.Answer) (primitive.ObjectID, error) {
	if answer.QuestionID == primitive.NilObjectID || answer.User == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("answer question and user are required")
	}

	answer.ID = primitive.NewObjectID()
	answer.CreatedAt = time.Now().UTC()

	result, err := r.collection.InsertOne(ctx, answer)
	if err != nil {
		return primitive.NilObjectID, err
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted ID")
	}
	return insertedID, nil
}

// GetByID retrieves an answer by its ID.
func (r *mongoAnswerRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Answer, error) {
	var answer domain.Answer
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&answer)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &answer, nil
}

// GetByIDs retrieves the answers referenced from a question's answers array.
func (r *mongoAnswerRepository) GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]domain.Answer, error) {
	if len(ids) == 0 {
		return []domain.Answer{}, nil
	}

	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{"_id": bson.M{"$in": ids}}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var answers []domain.Answer
	if err = cursor.All(ctx, &answers); err != nil {
		return nil, err
	}
	return answers, nil
}

// Update replaces the stored answer document.
func (r *mongoAnswerRepository) Update(ctx context.Context, answer *domain.Answer) error {
	if answer.ID == primitive.NilObjectID {
		return errors.New("answer ID is required for update")
	}

	result, err := r.collection.ReplaceOne(ctx, bson.M{"_id": answer.ID}, answer)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete removes an answer.
func (r *mongoAnswerRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureAnswerIndexes creates necessary indexes for the answers collection.
func EnsureAnswerIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "questionId", Value: 1}},
			Options: options.Index(),
		},
	}

	_, _ = collection.Indexes().CreateMany(ctx, indexes)
}

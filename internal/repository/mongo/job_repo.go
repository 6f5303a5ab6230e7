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

const jobCollectionName = "jobs"

// mongoJobRepository implements repository.JobRepository
type mongoJobRepository struct {
	collection *mongo.Collection
}

// NewMongoJobRepository creates a new Job repository backed by MongoDB.
func NewMongoJobRepository(db *mongo.Database) repository.JobRepository {
	return &mongoJobRepository{
		collection: db.Collection(jobCollectionName),
	}
}

// Create inserts a new job into the database.
func (r *mongoJobRepository) Create(ctx context.Context, job *domain.Job) (primitive.ObjectID, error) {
	if job.Owner == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("job owner is required")
	}

	job.ID = primitive.NewObjectID()
	job.CreatedAt = time.Now().UTC()

	result, err := r.collection.InsertOne(ctx, job)
	if err != nil {
		return primitive.NilObjectID, err
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted ID")
	}
	return insertedID, nil
}

// GetByID retrieves a job by its ID.
func (r *mongoJobRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Job, error) {
	var job domain.Job
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&job)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &job, nil
}

// List retrieves jobs matching the list options, newest first.
func (r *mongoJobRepository) List(ctx context.Context, opts repository.ListOptions) ([]domain.Job, error) {
	cursor, err := r.collection.Find(ctx, buildListFilter(opts), buildListFindOptions(opts))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var jobs []domain.Job
	if err = cursor.All(ctx, &jobs); err != nil {
		return nil, err
	}
	return jobs, nil
}

// Update replaces the stored job document (save semantics; applicants are
// appended in memory first).
func (r *mongoJobRepository) Update(ctx context.Context, job *domain.Job) error {
	if job.ID == primitive.NilObjectID {
		return errors.New("job ID is required for update")
	}

	result, err := r.collection.ReplaceOne(ctx, bson.M{"_id": job.ID}, job)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete removes a job.
func (r *mongoJobRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureJobIndexes creates necessary indexes for the jobs collection.
func EnsureJobIndexes(ctx context.Context, collection *mongo.Collection) {
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

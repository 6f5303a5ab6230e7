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

const projectCollectionName = "projects"

// mongoProjectRepository implements repository.ProjectRepository
type mongoProjectRepository struct {
	collection *mongo.Collection
}

// NewMongoProjectRepository creates a new Project repository backed by MongoDB.
func NewMongoProjectRepository(db *mongo.Database) repository.ProjectRepository {
	return &mongoProjectRepository{
		collection: db.Collection(projectCollectionName),
	}
}

// Create inserts a new project into the database with default lifecycle
// fields set.
func (r *mongoProjectRepository) Create(ctx context.Context, project *domain.Project) (primitive.ObjectID, error) {
	if project.Owner == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("project owner is required")
	}

	project.ID = primitive.NewObjectID()
	project.CreatedAt = time.Now().UTC()
	if project.Payment == "" {
		project.Payment = domain.PaymentNotVerified
	}
	if project.Status == "" {
		project.Status = domain.ProjectStatusApplying
	}

	result, err := r.collection.InsertOne(ctx, project)
	if err != nil {
		return primitive.NilObjectID, err
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted ID")
	}
	return insertedID, nil
}

// GetByID retrieves a project by its ID.
func (r *mongoProjectRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Project, error) {
	var project domain.Project
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&project)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &project, nil
}

// List retrieves projects matching the list options, newest first.
func (r *mongoProjectRepository) List(ctx context.Context, opts repository.ListOptions) ([]domain.Project, error) {
	cursor, err := r.collection.Find(ctx, buildListFilter(opts), buildListFindOptions(opts))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var projects []domain.Project
	if err = cursor.All(ctx, &projects); err != nil {
		return nil, err
	}
	return projects, nil
}

// Update replaces the stored project document (save semantics).
func (r *mongoProjectRepository) Update(ctx context.Context, project *domain.Project) error {
	if project.ID == primitive.NilObjectID {
		return errors.New("project ID is required for update")
	}

	result, err := r.collection.ReplaceOne(ctx, bson.M{"_id": project.ID}, project)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete removes a project.
func (r *mongoProjectRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureProjectIndexes creates necessary indexes for the projects collection.
func EnsureProjectIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "owner", Value: 1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "createdAt", Value: -1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "name", Value: "text"}, {Key: "about", Value: "text"}},
			Options: options.Index().SetName("project_text_search"),
		},
	}

	_, _ = collection.Indexes().CreateMany(ctx, indexes)
}

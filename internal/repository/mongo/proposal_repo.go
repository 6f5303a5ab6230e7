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

const proposalCollectionName = "proposals"

// mongoProposalRepository implements repository.ProposalRepository
type mongoProposalRepository struct {
	collection *mongo.Collection
}

// NewMongoProposalRepository creates a new Proposal repository backed by MongoDB.
func NewMongoProposalRepository(db *mongo.Database) repository.ProposalRepository {
	return &mongoProposalRepository{
		collection: db.Collection(proposalCollectionName),
	}
}

// Create inserts a new proposal into the database.
func (r *mongoProposalRepository) Create(ctx context.Context, proposal *domain.Proposal) (primitive.ObjectID, error) {
	if proposal.User == primitive.NilObjectID || proposal.ProjectID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("proposal user and project are required")
	}

	proposal.ID = primitive.NewObjectID()
	proposal.CreatedAt = time.Now().UTC()

	result, err := r.collection.InsertOne(ctx, proposal)
	if err != nil {
		return primitive.NilObjectID, err
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted ID")
	}
	return insertedID, nil
}

// GetByID retrieves a proposal by its ID.
func (r *mongoProposalRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Proposal, error) {
	var proposal domain.Proposal
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&proposal)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &proposal, nil
}

// GetByIDs retrieves the proposals referenced from a project's proposers array.
func (r *mongoProposalRepository) GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]domain.Proposal, error) {
	if len(ids) == 0 {
		return []domain.Proposal{}, nil
	}

	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{"_id": bson.M{"$in": ids}}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var proposals []domain.Proposal
	if err = cursor.All(ctx, &proposals); err != nil {
		return nil, err
	}
	return proposals, nil
}

// Delete removes a proposal.
func (r *mongoProposalRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureProposalIndexes creates necessary indexes for the proposals collection.
func EnsureProposalIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "projectId", Value: 1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "user", Value: 1}},
			Options: options.Index(),
		},
	}

	_, _ = collection.Indexes().CreateMany(ctx, indexes)
}

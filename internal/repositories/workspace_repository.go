package repositories

import (
	"context"
	"time"

	"github.com/teamsync-app/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// WorkspaceRepository defines the interface for workspace data operations
type WorkspaceRepository interface {
	CreateWorkspace(ctx context.Context, workspace *models.Workspace) error
	GetWorkspaceByID(ctx context.Context, id string) (*models.Workspace, error)
}

// MongoWorkspaceRepository implements WorkspaceRepository for MongoDB
type MongoWorkspaceRepository struct {
	collection *mongo.Collection
}

// NewMongoWorkspaceRepository creates a new MongoWorkspaceRepository
func NewMongoWorkspaceRepository(db *mongo.Database) *MongoWorkspaceRepository {
	return &MongoWorkspaceRepository{collection: db.Collection("workspaces")}
}

// CreateWorkspace inserts a new workspace in MongoDB
func (r *MongoWorkspaceRepository) CreateWorkspace(ctx context.Context, workspace *models.Workspace) error {
	workspace.ID = primitive.NewObjectID()
	workspace.CreatedAt = time.Now()
	workspace.UpdatedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, workspace)
	return err
}

// GetWorkspaceByID retrieves a workspace by id from MongoDB
func (r *MongoWorkspaceRepository) GetWorkspaceByID(ctx context.Context, id string) (*models.Workspace, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}

	var workspace models.Workspace
	err = r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&workspace)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &workspace, nil
}

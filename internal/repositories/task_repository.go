package repositories

import (
	"context"
	"time"

	"github.com/teamsync-app/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// TaskRepository defines the interface for task data operations
type TaskRepository interface {
	CreateTask(ctx context.Context, task *models.Task) error
	GetTaskInWorkspace(ctx context.Context, taskID, workspaceID string) (*models.Task, error)
}

// MongoTaskRepository implements TaskRepository for MongoDB
type MongoTaskRepository struct {
	collection *mongo.Collection
}

// NewMongoTaskRepository creates a new MongoTaskRepository
func NewMongoTaskRepository(db *mongo.Database) *MongoTaskRepository {
	return &MongoTaskRepository{collection: db.Collection("tasks")}
}

// CreateTask inserts a new task in MongoDB
func (r *MongoTaskRepository) CreateTask(ctx context.Context, task *models.Task) error {
	task.ID = primitive.NewObjectID()
	task.CreatedAt = time.Now()
	task.UpdatedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, task)
	return err
}

// GetTaskInWorkspace retrieves a task matching both the task id and the
// workspace id. This single combined-predicate lookup is what guards
// cross-workspace access: a real task id paired with the wrong workspace
// resolves to ErrNotFound.
func (r *MongoTaskRepository) GetTaskInWorkspace(ctx context.Context, taskID, workspaceID string) (*models.Task, error) {
	taskObjID, err := primitive.ObjectIDFromHex(taskID)
	if err != nil {
		return nil, ErrNotFound
	}
	workspaceObjID, err := primitive.ObjectIDFromHex(workspaceID)
	if err != nil {
		return nil, ErrNotFound
	}

	var task models.Task
	err = r.collection.FindOne(ctx, bson.M{"_id": taskObjID, "workspace_id": workspaceObjID}).Decode(&task)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &task, nil
}

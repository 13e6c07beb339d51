package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/teamsync-app/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrNotFound is returned when a lookup matches no record. A malformed
// ObjectID hex string resolves to ErrNotFound as well, since no record
// can carry such an id.
var ErrNotFound = errors.New("record not found")

// CommentRepository defines the interface for comment data operations
type CommentRepository interface {
	CreateComment(ctx context.Context, comment *models.Comment) error
	GetCommentInWorkspace(ctx context.Context, commentID, workspaceID string) (*models.Comment, error)
	GetCommentsByTask(ctx context.Context, taskID, workspaceID string) ([]models.Comment, error)
	DeleteComment(ctx context.Context, commentID string) error
}

// MongoCommentRepository implements CommentRepository for MongoDB
type MongoCommentRepository struct {
	collection *mongo.Collection
}

// NewMongoCommentRepository creates a new MongoCommentRepository
func NewMongoCommentRepository(db *mongo.Database) *MongoCommentRepository {
	return &MongoCommentRepository{collection: db.Collection("comments")}
}

// CreateComment inserts a new comment in MongoDB
func (r *MongoCommentRepository) CreateComment(ctx context.Context, comment *models.Comment) error {
	comment.ID = primitive.NewObjectID()
	comment.CreatedAt = time.Now()
	comment.UpdatedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, comment)
	return err
}

// GetCommentInWorkspace retrieves a comment matching both the comment id and
// the workspace id. A comment that exists under a different workspace is
// reported as ErrNotFound.
func (r *MongoCommentRepository) GetCommentInWorkspace(ctx context.Context, commentID, workspaceID string) (*models.Comment, error) {
	commentObjID, err := primitive.ObjectIDFromHex(commentID)
	if err != nil {
		return nil, ErrNotFound
	}
	workspaceObjID, err := primitive.ObjectIDFromHex(workspaceID)
	if err != nil {
		return nil, ErrNotFound
	}

	var comment models.Comment
	err = r.collection.FindOne(ctx, bson.M{"_id": commentObjID, "workspace_id": workspaceObjID}).Decode(&comment)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &comment, nil
}

// GetCommentsByTask retrieves all comments for a task within a workspace,
// oldest first.
func (r *MongoCommentRepository) GetCommentsByTask(ctx context.Context, taskID, workspaceID string) ([]models.Comment, error) {
	taskObjID, err := primitive.ObjectIDFromHex(taskID)
	if err != nil {
		return nil, ErrNotFound
	}
	workspaceObjID, err := primitive.ObjectIDFromHex(workspaceID)
	if err != nil {
		return nil, ErrNotFound
	}

	comments := []models.Comment{}
	findOptions := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{"task_id": taskObjID, "workspace_id": workspaceObjID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &comments); err != nil {
		return nil, err
	}
	return comments, nil
}

// DeleteComment deletes a comment by id. The scoping predicate is applied by
// the preceding lookup, so the delete keys on id alone; deleting an
// already-gone comment is not an error here.
func (r *MongoCommentRepository) DeleteComment(ctx context.Context, commentID string) error {
	objID, err := primitive.ObjectIDFromHex(commentID)
	if err != nil {
		return ErrNotFound
	}
	_, err = r.collection.DeleteOne(ctx, bson.M{"_id": objID})
	return err
}

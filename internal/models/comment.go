package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Comment represents a comment on a task, stored in MongoDB.
// The workspace reference is denormalized onto the comment so that
// list/delete queries can scope on a single collection; it must match
// the task's workspace at creation time.
type Comment struct {
	ID          primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	TaskID      primitive.ObjectID `json:"task_id" bson:"task_id"`
	UserID      uint               `json:"user_id" bson:"user_id"` // ID of the authoring user in PostgreSQL
	WorkspaceID primitive.ObjectID `json:"workspace_id" bson:"workspace_id"`
	Content     string             `json:"content" bson:"content"`
	CreatedAt   time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at" bson:"updated_at"`
}

// CreateCommentRequest defines the request body for creating a new comment.
// Content is trimmed before validation; bounds apply to the trimmed value.
type CreateCommentRequest struct {
	Content string `json:"content" validate:"required,min=1,max=1000"`
}

// UserBrief is the reduced author profile attached to comment responses.
// Full user records never leave the service layer.
type UserBrief struct {
	Name           string `json:"name"`
	Email          string `json:"email"`
	ProfilePicture string `json:"profile_picture"`
}

// CommentResponse is a comment enriched with its author's reduced profile
type CommentResponse struct {
	ID          string    `json:"id"`
	TaskID      string    `json:"task_id"`
	WorkspaceID string    `json:"workspace_id"`
	User        UserBrief `json:"user"`
	Content     string    `json:"content"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ToResponse assembles the read-side view of a comment with its author profile
func (c *Comment) ToResponse(user UserBrief) CommentResponse {
	return CommentResponse{
		ID:          c.ID.Hex(),
		TaskID:      c.TaskID.Hex(),
		WorkspaceID: c.WorkspaceID.Hex(),
		User:        user,
		Content:     c.Content,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Workspace is the top-level tenant container for tasks and comments,
// stored in MongoDB.
type Workspace struct {
	ID        primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Name      string             `json:"name" bson:"name"`
	Owner     uint               `json:"owner" bson:"owner"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time          `json:"updated_at" bson:"updated_at"`
}

// CreateWorkspaceRequest defines the request body for creating a new workspace
type CreateWorkspaceRequest struct {
	Name string `json:"name" validate:"required,min=1,max=255"`
}

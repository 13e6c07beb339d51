package services

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/teamsync-app/backend/internal/apperrors"
	"github.com/teamsync-app/backend/internal/models"
	"github.com/teamsync-app/backend/internal/repositories"
	"gorm.io/gorm"
)

const maxCommentLength = 1000

// CommentService defines all comment-related business operations.
// Every operation verifies that the entities it touches belong to the
// claimed workspace before reading or writing anything.
type CommentService interface {
	CreateComment(ctx context.Context, taskID string, userID uint, workspaceID, content string) (*models.CommentResponse, error)
	ListComments(ctx context.Context, taskID, workspaceID string) ([]models.CommentResponse, error)
	DeleteComment(ctx context.Context, commentID string, userID uint, workspaceID string) error
}

type commentService struct {
	commentRepo repositories.CommentRepository
	taskRepo    repositories.TaskRepository
	userRepo    repositories.UserRepository
}

// NewCommentService creates a new CommentService
func NewCommentService(commentRepo repositories.CommentRepository, taskRepo repositories.TaskRepository, userRepo repositories.UserRepository) CommentService {
	return &commentService{
		commentRepo: commentRepo,
		taskRepo:    taskRepo,
		userRepo:    userRepo,
	}
}

// CreateComment creates a comment on a task after verifying the task
// belongs to the claimed workspace. The returned comment carries the
// author's reduced profile.
func (s *commentService) CreateComment(ctx context.Context, taskID string, userID uint, workspaceID, content string) (*models.CommentResponse, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperrors.Validation("Comment cannot be empty")
	}
	if utf8.RuneCountInString(content) > maxCommentLength {
		return nil, apperrors.Validation("Comment is too long")
	}

	task, err := s.taskRepo.GetTaskInWorkspace(ctx, taskID, workspaceID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.NotFound("Task not found")
		}
		return nil, apperrors.Internal("failed to look up task", err)
	}

	comment := &models.Comment{
		TaskID:      task.ID,
		UserID:      userID,
		WorkspaceID: task.WorkspaceID,
		Content:     content,
	}
	if err := s.commentRepo.CreateComment(ctx, comment); err != nil {
		return nil, apperrors.Internal("failed to create comment", err)
	}

	profile, err := s.resolveAuthor(userID)
	if err != nil {
		return nil, err
	}

	resp := comment.ToResponse(profile)
	return &resp, nil
}

// ListComments returns all comments on a task within a workspace, oldest
// first, each with its author's reduced profile. A task with no comments
// yields an empty slice, not an error.
func (s *commentService) ListComments(ctx context.Context, taskID, workspaceID string) ([]models.CommentResponse, error) {
	if _, err := s.taskRepo.GetTaskInWorkspace(ctx, taskID, workspaceID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.NotFound("Task not found")
		}
		return nil, apperrors.Internal("failed to look up task", err)
	}

	comments, err := s.commentRepo.GetCommentsByTask(ctx, taskID, workspaceID)
	if err != nil {
		return nil, apperrors.Internal("failed to list comments", err)
	}

	// Comments on one task rarely have many distinct authors; resolve
	// each author once.
	profiles := make(map[uint]models.UserBrief)
	responses := make([]models.CommentResponse, 0, len(comments))
	for i := range comments {
		profile, ok := profiles[comments[i].UserID]
		if !ok {
			profile, err = s.resolveAuthor(comments[i].UserID)
			if err != nil {
				return nil, err
			}
			profiles[comments[i].UserID] = profile
		}
		responses = append(responses, comments[i].ToResponse(profile))
	}
	return responses, nil
}

// DeleteComment deletes a comment within a workspace. Only the comment's
// author may delete it. The losing side of a concurrent delete observes
// NotFound from the scoped lookup.
func (s *commentService) DeleteComment(ctx context.Context, commentID string, userID uint, workspaceID string) error {
	comment, err := s.commentRepo.GetCommentInWorkspace(ctx, commentID, workspaceID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return apperrors.NotFound("Comment not found")
		}
		return apperrors.Internal("failed to look up comment", err)
	}

	if comment.UserID != userID {
		return apperrors.Unauthorized("You can only delete your own comments")
	}

	// The workspace predicate was applied by the lookup above, so the
	// delete keys on id alone.
	if err := s.commentRepo.DeleteComment(ctx, comment.ID.Hex()); err != nil {
		return apperrors.Internal("failed to delete comment", err)
	}
	return nil
}

// resolveAuthor projects a user row to the reduced profile exposed on
// comment responses. A missing row (author deleted after commenting)
// yields a zero-valued profile rather than failing the read.
func (s *commentService) resolveAuthor(userID uint) (models.UserBrief, error) {
	user, err := s.userRepo.GetUserByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.UserBrief{}, nil
		}
		return models.UserBrief{}, apperrors.Internal("failed to resolve comment author", err)
	}
	return user.Brief(), nil
}

package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/teamsync-app/backend/internal/apperrors"
	"github.com/teamsync-app/backend/internal/models"
	"github.com/teamsync-app/backend/internal/services"
)

// CommentHandler handles HTTP requests related to task comments
type CommentHandler struct {
	commentService services.CommentService
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(commentService services.CommentService) *CommentHandler {
	return &CommentHandler{commentService: commentService}
}

// RegisterCommentRoutes registers comment-related routes
func (h *CommentHandler) RegisterCommentRoutes(g *echo.Group) {
	g.GET("/workspaces/:workspaceId/tasks/:taskId/comments", h.GetComments)
	g.POST("/workspaces/:workspaceId/tasks/:taskId/comments", h.CreateComment)
	g.DELETE("/workspaces/:workspaceId/comments/:commentId", h.DeleteComment)
}

// CreateComment creates a new comment on a task
func (h *CommentHandler) CreateComment(c echo.Context) error {
	claims, ok := callerClaims(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized")
	}
	workspaceID := c.Param("workspaceId")
	taskID := c.Param("taskId")

	var req models.CreateCommentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	req.Content = strings.TrimSpace(req.Content)

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Comment must be between 1 and 1000 characters")
	}

	comment, err := h.commentService.CreateComment(c.Request().Context(), taskID, claims.UserID, workspaceID, req.Content)
	if err != nil {
		return mapServiceError(err)
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"message": "Comment created successfully",
		"comment": comment,
	})
}

// GetComments retrieves all comments for a task, oldest first
func (h *CommentHandler) GetComments(c echo.Context) error {
	workspaceID := c.Param("workspaceId")
	taskID := c.Param("taskId")

	comments, err := h.commentService.ListComments(c.Request().Context(), taskID, workspaceID)
	if err != nil {
		return mapServiceError(err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message":  "Comments retrieved successfully",
		"comments": comments,
	})
}

// DeleteComment deletes a comment; only its author may do so
func (h *CommentHandler) DeleteComment(c echo.Context) error {
	claims, ok := callerClaims(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized")
	}
	workspaceID := c.Param("workspaceId")
	commentID := c.Param("commentId")

	if err := h.commentService.DeleteComment(c.Request().Context(), commentID, claims.UserID, workspaceID); err != nil {
		return mapServiceError(err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message": "Comment deleted successfully",
	})
}

// callerClaims extracts the authenticated caller's claims set by the JWT middleware
func callerClaims(c echo.Context) (*models.JwtCustomClaims, bool) {
	claims, ok := c.Get("user").(*models.JwtCustomClaims)
	return claims, ok
}

// mapServiceError translates service error kinds to HTTP responses.
// This is the only place status codes are decided for service failures.
func mapServiceError(err error) error {
	var appErr *apperrors.Error
	if errors.As(err, &appErr) {
		switch appErr.Kind {
		case apperrors.KindValidation:
			return echo.NewHTTPError(http.StatusBadRequest, appErr.Message)
		case apperrors.KindNotFound:
			return echo.NewHTTPError(http.StatusNotFound, appErr.Message)
		case apperrors.KindUnauthorized:
			return echo.NewHTTPError(http.StatusUnauthorized, appErr.Message)
		}
	}
	return echo.NewHTTPError(http.StatusInternalServerError, "Internal server error")
}

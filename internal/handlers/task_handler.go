package handlers

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/teamsync-app/backend/internal/models"
	"github.com/teamsync-app/backend/internal/repositories"
)

// TaskHandler handles HTTP requests related to tasks
type TaskHandler struct {
	taskRepository      repositories.TaskRepository
	workspaceRepository repositories.WorkspaceRepository
}

// NewTaskHandler creates a new TaskHandler
func NewTaskHandler(taskRepo repositories.TaskRepository, workspaceRepo repositories.WorkspaceRepository) *TaskHandler {
	return &TaskHandler{
		taskRepository:      taskRepo,
		workspaceRepository: workspaceRepo,
	}
}

// RegisterTaskRoutes registers task-related routes
func (h *TaskHandler) RegisterTaskRoutes(g *echo.Group) {
	g.POST("/workspaces/:workspaceId/tasks", h.CreateTask)
	g.GET("/workspaces/:workspaceId/tasks/:taskId", h.GetTask)
}

// CreateTask creates a new task within a workspace
func (h *TaskHandler) CreateTask(c echo.Context) error {
	claims, ok := callerClaims(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized")
	}
	workspaceID := c.Param("workspaceId")

	var req models.CreateTaskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	// Tasks can only be created under an existing workspace
	workspace, err := h.workspaceRepository.GetWorkspaceByID(c.Request().Context(), workspaceID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Workspace not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	task := &models.Task{
		WorkspaceID: workspace.ID,
		Title:       req.Title,
		Description: req.Description,
		CreatedBy:   claims.UserID,
	}
	if err := h.taskRepository.CreateTask(c.Request().Context(), task); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"message": "Task created successfully",
		"task":    task,
	})
}

// GetTask retrieves a task scoped to its workspace
func (h *TaskHandler) GetTask(c echo.Context) error {
	task, err := h.taskRepository.GetTaskInWorkspace(c.Request().Context(), c.Param("taskId"), c.Param("workspaceId"))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Task not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message": "Task retrieved successfully",
		"task":    task,
	})
}

package handlers

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/teamsync-app/backend/internal/models"
	"github.com/teamsync-app/backend/internal/repositories"
)

// WorkspaceHandler handles HTTP requests related to workspaces
type WorkspaceHandler struct {
	workspaceRepository repositories.WorkspaceRepository
}

// NewWorkspaceHandler creates a new WorkspaceHandler
func NewWorkspaceHandler(workspaceRepo repositories.WorkspaceRepository) *WorkspaceHandler {
	return &WorkspaceHandler{workspaceRepository: workspaceRepo}
}

// RegisterWorkspaceRoutes registers workspace-related routes
func (h *WorkspaceHandler) RegisterWorkspaceRoutes(g *echo.Group) {
	g.POST("/workspaces", h.CreateWorkspace)
	g.GET("/workspaces/:workspaceId", h.GetWorkspace)
}

// CreateWorkspace creates a new workspace owned by the caller
func (h *WorkspaceHandler) CreateWorkspace(c echo.Context) error {
	claims, ok := callerClaims(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized")
	}

	var req models.CreateWorkspaceRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	workspace := &models.Workspace{
		Name:  req.Name,
		Owner: claims.UserID,
	}
	if err := h.workspaceRepository.CreateWorkspace(c.Request().Context(), workspace); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"message":   "Workspace created successfully",
		"workspace": workspace,
	})
}

// GetWorkspace retrieves a workspace by id
func (h *WorkspaceHandler) GetWorkspace(c echo.Context) error {
	workspace, err := h.workspaceRepository.GetWorkspaceByID(c.Request().Context(), c.Param("workspaceId"))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Workspace not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message":   "Workspace retrieved successfully",
		"workspace": workspace,
	})
}

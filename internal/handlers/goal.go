package handlers

import (
	"io"
	"net/http"

	"learntrack/internal/auth"
	"learntrack/internal/dto"
	"learntrack/internal/importer"
	"learntrack/internal/service"

	"github.com/gin-gonic/gin"
)

const maxPlanSize = 1 << 20

type GoalHandler struct {
	svc *service.GoalService
}

func NewGoalHandler(svc *service.GoalService) *GoalHandler {
	return &GoalHandler{svc: svc}
}

// Create godoc
// @Summary      Create a goal
// @Tags         goals
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      dto.CreateGoalRequest  true  "Goal body"
// @Success      201   {object}  dto.GoalResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /goals [post]
func (h *GoalHandler) Create(c *gin.Context) {
	var req dto.CreateGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	gp, err := h.svc.Create(c.Request.Context(), auth.UserIDFromContext(c), service.GoalInput{
		Title:       req.Title,
		Description: req.Description,
		Deadline:    req.Deadline.Ptr(),
		Category:    req.Category,
		Priority:    req.Priority,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, goalToResponse(gp))
}

// Import godoc
// @Summary      Import a learning plan
// @Description  Creates one goal and its tasks from a YAML plan. Nothing is created if the plan is invalid.
// @Tags         goals
// @Accept       application/x-yaml
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      string  true  "YAML plan"
// @Success      201   {object}  dto.GoalResponse
// @Failure      400   {object}  map[string]string
// @Failure      413   {object}  map[string]string
// @Router       /goals/import [post]
func (h *GoalHandler) Import(c *gin.Context) {
	data, err := io.ReadAll(io.LimitReader(c.Request.Body, maxPlanSize+1))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if len(data) > maxPlanSize {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "plan too large"})
		return
	}
	gp, err := importer.Import(c.Request.Context(), h.svc, auth.UserIDFromContext(c), data)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, goalToResponse(gp))
}

// List godoc
// @Summary      List own goals with progress
// @Tags         goals
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dto.ListGoalsResponse
// @Failure      500  {object}  map[string]string
// @Router       /goals [get]
func (h *GoalHandler) List(c *gin.Context) {
	list, err := h.svc.List(c.Request.Context(), auth.UserIDFromContext(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ListGoalsResponse{Items: goalsToResponses(list)})
}

// GetByID godoc
// @Summary      Get a goal by ID
// @Tags         goals
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Goal ID"
// @Success      200  {object}  dto.GoalResponse
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /goals/{id} [get]
func (h *GoalHandler) GetByID(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	gp, err := h.svc.Get(c.Request.Context(), auth.UserIDFromContext(c), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, goalToResponse(gp))
}

// Update godoc
// @Summary      Update a goal
// @Tags         goals
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int                    true  "Goal ID"
// @Param        body  body      dto.UpdateGoalRequest  true  "Partial update"
// @Success      200   {object}  dto.GoalResponse
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /goals/{id} [put]
func (h *GoalHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	patch := service.GoalPatch{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Priority:    req.Priority,
	}
	if req.Deadline != nil {
		patch.Deadline = req.Deadline.Ptr()
	}
	gp, err := h.svc.Update(c.Request.Context(), auth.UserIDFromContext(c), id, patch)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, goalToResponse(gp))
}

// Delete godoc
// @Summary      Delete a goal and its tasks
// @Tags         goals
// @Security     BearerAuth
// @Param        id   path  int  true  "Goal ID"
// @Success      204
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /goals/{id} [delete]
func (h *GoalHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), auth.UserIDFromContext(c), id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

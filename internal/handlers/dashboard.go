package handlers

import (
	"net/http"
	"time"

	"learntrack/internal/auth"
	"learntrack/internal/dto"
	"learntrack/internal/service"

	"github.com/gin-gonic/gin"
)

// DashboardHandler serves the read-only statistics endpoints. Every request
// is evaluated at the current UTC time.
type DashboardHandler struct {
	svc *service.DashboardService
	now func() time.Time
}

func NewDashboardHandler(svc *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{svc: svc, now: func() time.Time { return time.Now().UTC() }}
}

// Get godoc
// @Summary      Dashboard
// @Description  Stats, the five newest goals and the next ten open tasks.
// @Tags         dashboard
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dto.DashboardResponse
// @Failure      401  {object}  map[string]string
// @Router       /dashboard [get]
func (h *DashboardHandler) Get(c *gin.Context) {
	d, err := h.svc.Dashboard(c.Request.Context(), auth.UserIDFromContext(c), h.now())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dashboardToResponse(d))
}

// Progress godoc
// @Summary      Daily completion series
// @Tags         dashboard
// @Produce      json
// @Security     BearerAuth
// @Param        days  query     int  false  "Number of days, 1-365"  default(30)
// @Success      200   {object}  dto.ProgressResponse
// @Failure      400   {object}  map[string]string
// @Router       /dashboard/progress [get]
func (h *DashboardHandler) Progress(c *gin.Context) {
	days, ok := queryInt(c, "days", service.DefaultProgressDays)
	if !ok {
		return
	}
	p, err := h.svc.Progress(c.Request.Context(), auth.UserIDFromContext(c), h.now(), days)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, progressToResponse(p))
}

// RecentGoals godoc
// @Summary      Newest goals
// @Tags         dashboard
// @Produce      json
// @Security     BearerAuth
// @Param        limit  query     int  false  "1-50"  default(5)
// @Success      200    {object}  dto.ListGoalsResponse
// @Failure      400    {object}  map[string]string
// @Router       /dashboard/goals/recent [get]
func (h *DashboardHandler) RecentGoals(c *gin.Context) {
	limit, ok := queryInt(c, "limit", service.DefaultRecentLimit)
	if !ok {
		return
	}
	list, err := h.svc.RecentGoals(c.Request.Context(), auth.UserIDFromContext(c), limit)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ListGoalsResponse{Items: goalsToResponses(list)})
}

// UpcomingTasks godoc
// @Summary      Open tasks due soonest
// @Tags         dashboard
// @Produce      json
// @Security     BearerAuth
// @Param        limit  query     int  false  "1-100"  default(10)
// @Success      200    {object}  dto.ListTasksResponse
// @Failure      400    {object}  map[string]string
// @Router       /dashboard/tasks/upcoming [get]
func (h *DashboardHandler) UpcomingTasks(c *gin.Context) {
	limit, ok := queryInt(c, "limit", service.DefaultUpcomingLimit)
	if !ok {
		return
	}
	list, err := h.svc.UpcomingTasks(c.Request.Context(), auth.UserIDFromContext(c), h.now(), limit)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ListTasksResponse{Items: tasksToResponses(list)})
}

// OverdueTasks godoc
// @Summary      Open tasks past their due date
// @Tags         dashboard
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dto.ListTasksResponse
// @Router       /dashboard/tasks/overdue [get]
func (h *DashboardHandler) OverdueTasks(c *gin.Context) {
	list, err := h.svc.OverdueTasks(c.Request.Context(), auth.UserIDFromContext(c), h.now())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ListTasksResponse{Items: tasksToResponses(list)})
}

package handlers

import (
	"context"
	"net/http"

	"brew_control/internal/models"
	"brew_control/internal/service"

	"github.com/gin-gonic/gin"
)

// Common response/status constants to avoid magic strings and typos.
const (
	statusOK = "ok"

	actionStart   = "start"
	actionPause   = "pause"
	actionStop    = "stop"
	actionReset   = "reset"
	actionRestart = "restart"
	actionAdvance = "advance"

	errBrewAction = "failed to change brew state"
	errGetBrew    = "failed to load brew"
	errEditBrew   = "failed to edit brew"
	errGetStatus  = "failed to load status"
	errRecipe     = "failed to export recipe"
)

// StepRequest is the payload for adding or editing a step.
type StepRequest struct {
	// New name; may be empty on edit to keep the current one
	Name string `json:"name" example:"Mash in"`
	// Brew minute at which the step takes over
	Duration int `json:"duration" example:"0"`
	// Setpoint in °C
	Setpoint float64 `json:"setpoint" example:"65"`
}

// TaskRequest is the payload for adding or editing a task.
type TaskRequest struct {
	Name string `json:"name" example:"Add hops"`
	// Brew minute of the reminder
	Time int `json:"time" example:"75"`
}

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": statusOK,
	})
}

// @Summary      Get status
// @Description  Latest snapshot of channels, sensors, alarms and the sequencer
// @Tags         status
// @Produce      json
// @Success      200  {object}  brew_control.Status
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/status [get]
// @Security     BearerAuth
func (h *Handler) getStatus(c *gin.Context) {
	st, err := h.services.Monitoring.GetStatus(c.Request.Context())
	if err != nil {
		h.logAndJSONError(c, err, errGetStatus, "status_get_failed")
		return
	}
	c.JSON(http.StatusOK, st)
}

// @Summary      Get brew
// @Tags         brew
// @Produce      json
// @Success      200  {object}  models.Brew
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/brew [get]
// @Router       /api/v1/brew/steps [get]
// @Security     BearerAuth
func (h *Handler) getBrew(c *gin.Context) {
	b, err := h.services.Brew.Get(c.Request.Context())
	if err != nil {
		h.logAndJSONError(c, err, errGetBrew, "brew_get_failed")
		return
	}
	c.JSON(http.StatusOK, b)
}

// @Summary      Export recipe
// @Description  Current steps and tasks as a YAML recipe
// @Tags         brew
// @Produce      application/x-yaml
// @Param        name  query  string  false  "Recipe name"
// @Success      200
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/brew/recipe [get]
// @Security     BearerAuth
func (h *Handler) exportRecipe(c *gin.Context) {
	out, err := h.services.Brew.Recipe(c.Request.Context(), c.Query("name"))
	if err != nil {
		h.logAndJSONError(c, err, errRecipe, "brew_recipe_failed")
		return
	}
	c.Data(http.StatusOK, "application/x-yaml", out)
}

// brewAction serves the lifecycle endpoints. Each one answers with the brew
// as it is after the command was applied.
//
// @Summary      Change brew state
// @Description  action is one of start, pause, stop, reset, restart, advance
// @Tags         brew
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "status, brew"
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Failure      503  {object}  map[string]string
// @Router       /api/v1/brew/{action} [post]
// @Security     BearerAuth
func (h *Handler) brewAction(action string) gin.HandlerFunc {
	var call func(context.Context) (models.Brew, error)
	switch action {
	case actionStart:
		call = func(ctx context.Context) (models.Brew, error) { return h.services.Brew.Start(ctx) }
	case actionPause:
		call = func(ctx context.Context) (models.Brew, error) { return h.services.Brew.Pause(ctx) }
	case actionStop:
		call = func(ctx context.Context) (models.Brew, error) { return h.services.Brew.Stop(ctx) }
	case actionReset:
		call = func(ctx context.Context) (models.Brew, error) { return h.services.Brew.Reset(ctx) }
	case actionRestart:
		call = func(ctx context.Context) (models.Brew, error) { return h.services.Brew.Restart(ctx) }
	case actionAdvance:
		call = func(ctx context.Context) (models.Brew, error) { return h.services.Brew.Advance(ctx) }
	default:
		panic("unknown brew action " + action)
	}
	return func(c *gin.Context) {
		b, err := call(c.Request.Context())
		if err != nil {
			h.logAndJSONError(c, err, errBrewAction, "brew_"+action+"_failed")
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": b.Status, "brew": b})
	}
}

// @Summary      Add step
// @Description  The new step becomes the active one
// @Tags         brew
// @Accept       json
// @Produce      json
// @Param        body  body  StepRequest  true  "Step payload"
// @Success      200   {object}  models.Brew
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /api/v1/brew/steps [post]
// @Security     BearerAuth
func (h *Handler) addStep(c *gin.Context) {
	var req StepRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badBody(c, err)
		return
	}
	b, err := h.services.Brew.AddStep(c.Request.Context(), service.StepParams(req))
	h.respondBrew(c, b, err, "brew_add_step_failed", "step", req.Name)
}

// @Summary      Edit step
// @Tags         brew
// @Accept       json
// @Produce      json
// @Param        name  path  string       true  "Step name"
// @Param        body  body  StepRequest  true  "Step payload"
// @Success      200   {object}  models.Brew
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /api/v1/brew/steps/{name} [put]
// @Security     BearerAuth
func (h *Handler) editStep(c *gin.Context) {
	var req StepRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badBody(c, err)
		return
	}
	name := c.Param("name")
	b, err := h.services.Brew.EditStep(c.Request.Context(), name, service.StepParams(req))
	h.respondBrew(c, b, err, "brew_edit_step_failed", "step", name)
}

// @Summary      Remove step
// @Tags         brew
// @Produce      json
// @Param        name  path  string  true  "Step name"
// @Success      200   {object}  models.Brew
// @Failure      404   {object}  map[string]string
// @Failure      409   {object}  map[string]string  "step is active while brewing"
// @Router       /api/v1/brew/steps/{name} [delete]
// @Security     BearerAuth
func (h *Handler) removeStep(c *gin.Context) {
	name := c.Param("name")
	b, err := h.services.Brew.RemoveStep(c.Request.Context(), name)
	h.respondBrew(c, b, err, "brew_remove_step_failed", "step", name)
}

// @Summary      Add task
// @Tags         brew
// @Accept       json
// @Produce      json
// @Param        name  path  string       true  "Step name"
// @Param        body  body  TaskRequest  true  "Task payload"
// @Success      200   {object}  models.Brew
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /api/v1/brew/steps/{name}/tasks [post]
// @Security     BearerAuth
func (h *Handler) addTask(c *gin.Context) {
	var req TaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badBody(c, err)
		return
	}
	step := c.Param("name")
	b, err := h.services.Brew.AddTask(c.Request.Context(), step, service.TaskParams(req))
	h.respondBrew(c, b, err, "brew_add_task_failed", "step", step, "task", req.Name)
}

// @Summary      Edit task
// @Tags         brew
// @Accept       json
// @Produce      json
// @Param        name  path  string       true  "Task name"
// @Param        body  body  TaskRequest  true  "Task payload"
// @Success      200   {object}  models.Brew
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /api/v1/brew/tasks/{name} [put]
// @Security     BearerAuth
func (h *Handler) editTask(c *gin.Context) {
	var req TaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badBody(c, err)
		return
	}
	name := c.Param("name")
	b, err := h.services.Brew.EditTask(c.Request.Context(), name, service.TaskParams(req))
	h.respondBrew(c, b, err, "brew_edit_task_failed", "task", name)
}

// @Summary      Remove task
// @Tags         brew
// @Produce      json
// @Param        name  path  string  true  "Task name"
// @Success      200   {object}  models.Brew
// @Failure      404   {object}  map[string]string
// @Router       /api/v1/brew/tasks/{name} [delete]
// @Security     BearerAuth
func (h *Handler) removeTask(c *gin.Context) {
	name := c.Param("name")
	b, err := h.services.Brew.RemoveTask(c.Request.Context(), name)
	h.respondBrew(c, b, err, "brew_remove_task_failed", "task", name)
}

func (h *Handler) respondBrew(c *gin.Context, b models.Brew, err error, logKey string, kv ...interface{}) {
	if err != nil {
		h.logAndJSONError(c, err, errEditBrew, logKey, kv...)
		return
	}
	c.JSON(http.StatusOK, b)
}

package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"brew_control/internal/models"
	"brew_control/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	errChannel = "failed to update channel"
	errSensor  = "failed to update sensor"
)

// EnableRequest switches a channel on or off.
type EnableRequest struct {
	Enabled *bool `json:"enabled" binding:"required" example:"true"`
}

// ChannelConfigRequest replaces a channel's regulator and alarm settings.
type ChannelConfigRequest struct {
	Regulator models.RegulatorConfig `json:"regulator"`
	Alarm     models.AlarmConfig     `json:"alarm"`
}

// pathID parses the :id path parameter; it writes a 400 and returns false on
// failure.
func pathID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid id %q", c.Param("id"))})
		return 0, false
	}
	return id, true
}

// @Summary      Enable or disable a channel
// @Description  A disabled channel outputs 0 and keeps its controller state
// @Tags         channels
// @Accept       json
// @Produce      json
// @Param        id    path  int            true  "Channel id"
// @Param        body  body  EnableRequest  true  "Enable payload"
// @Success      200   {object}  map[string]interface{}
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /api/v1/channels/{id}/enable [post]
// @Security     BearerAuth
func (h *Handler) setEnabled(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req EnableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badBody(c, err)
		return
	}
	if err := h.services.Channels.SetEnabled(c.Request.Context(), id, *req.Enabled); err != nil {
		h.logAndJSONError(c, err, errChannel, "channel_enable_failed", "channel", id)
		return
	}
	c.JSON(http.StatusOK, gin.H{"channel": id, "enabled": *req.Enabled})
}

// @Summary      Acknowledge alarm
// @Description  acknowledged is false when the channel had no active alarm
// @Tags         channels
// @Produce      json
// @Param        id  path  int  true  "Channel id"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  map[string]string
// @Router       /api/v1/channels/{id}/ack [post]
// @Security     BearerAuth
func (h *Handler) ackAlarm(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	acked, err := h.services.Channels.Acknowledge(c.Request.Context(), id)
	if err != nil {
		h.logAndJSONError(c, err, errChannel, "channel_ack_failed", "channel", id)
		return
	}
	c.JSON(http.StatusOK, gin.H{"channel": id, "acknowledged": acked})
}

// @Summary      Replace channel configuration
// @Description  Regulator and alarm settings are validated together and applied at the next tick, or not at all
// @Tags         channels
// @Accept       json
// @Produce      json
// @Param        id    path  int                   true  "Channel id"
// @Param        body  body  ChannelConfigRequest  true  "Configuration"
// @Success      200   {object}  controller.ChannelConfig
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /api/v1/channels/{id}/config [put]
// @Security     BearerAuth
func (h *Handler) setConfig(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req ChannelConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badBody(c, err)
		return
	}
	applied, err := h.services.Channels.SetConfig(c.Request.Context(), id, service.ChannelParams(req))
	if err != nil {
		h.logAndJSONError(c, err, errChannel, "channel_config_failed", "channel", id)
		return
	}
	c.JSON(http.StatusOK, applied)
}

// @Summary      Reset controller state
// @Description  Clears the PID integral and derivative memory
// @Tags         channels
// @Produce      json
// @Param        id  path  int  true  "Channel id"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  map[string]string
// @Router       /api/v1/channels/{id}/reset [post]
// @Security     BearerAuth
func (h *Handler) resetController(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.services.Channels.ResetController(c.Request.Context(), id); err != nil {
		h.logAndJSONError(c, err, errChannel, "channel_reset_failed", "channel", id)
		return
	}
	c.JSON(http.StatusOK, gin.H{"channel": id, "status": "reset"})
}

// @Summary      Configure sensor source
// @Tags         sensors
// @Accept       json
// @Produce      json
// @Param        id    path  int                  true  "Sensor id"
// @Param        body  body  models.SensorConfig  true  "Sensor configuration"
// @Success      200   {object}  models.SensorConfig
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /api/v1/sensors/{id}/simulation [put]
// @Security     BearerAuth
func (h *Handler) setSimulation(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req models.SensorConfig
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badBody(c, err)
		return
	}
	applied, err := h.services.Channels.SetSimulation(c.Request.Context(), id, req)
	if err != nil {
		h.logAndJSONError(c, err, errSensor, "sensor_config_failed", "sensor", id)
		return
	}
	c.JSON(http.StatusOK, applied)
}

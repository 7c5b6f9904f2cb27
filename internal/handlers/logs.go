package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"brew_control/internal/service"

	"github.com/gin-gonic/gin"
)

// Accepted forms of the from/to query parameters.
var logTimeLayouts = []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"}

// @Summary      List logs
// @Description  Brew log entries oldest first. A date-only 'to' covers that whole day.
// @Tags         logs
// @Produce      json
// @Param        from   query  string  false  "Start of range (RFC3339, 'YYYY-MM-DD HH:MM:SS' or 'YYYY-MM-DD')"  example(2025-08-01)
// @Param        to     query  string  false  "End of range, same forms as from"  example(2025-08-31)
// @Param        type   query  string  false  "Event type"  Enums(START,PAUSE,STOP,RESET,STEP_ADVANCE,STEP_EDIT,TASK_EDIT,CONFIG_CHANGE,ENABLE_TOGGLE,ALARM_START,ALARM_CLEAR,ALARM_ACK,SIMULATION_SET)
// @Param        limit  query  int     false  "Newest entries only (max 1000)"
// @Success      200    {object}  map[string]interface{}  "count, events"
// @Failure      400    {object}  map[string]string
// @Failure      401    {object}  map[string]string
// @Failure      500    {object}  map[string]string
// @Router       /api/v1/logs [get]
// @Security     BearerAuth
func (h *Handler) getLogs(c *gin.Context) {
	f, err := logFilterFromQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	events, err := h.services.EventLog.List(c.Request.Context(), f)
	if err != nil {
		h.logAndJSONError(c, err, "failed to load logs", "logs_list_failed",
			"from", f.From, "to", f.To, "type", f.Type, "limit", f.Limit)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(events), "events": events})
}

func logFilterFromQuery(c *gin.Context) (service.LogFilter, error) {
	f := service.LogFilter{Type: c.Query("type")}

	if qs := c.Query("from"); qs != "" {
		t, err := parseLogTime(qs)
		if err != nil {
			return f, fmt.Errorf("invalid 'from': %w", err)
		}
		f.From = t
	}
	if qs := c.Query("to"); qs != "" {
		t, err := parseLogTime(qs)
		if err != nil {
			return f, fmt.Errorf("invalid 'to': %w", err)
		}
		if !strings.ContainsAny(qs, "T ") {
			t = t.Add(24*time.Hour - time.Nanosecond)
		}
		f.To = t
	}
	if qs := c.Query("limit"); qs != "" {
		n, err := strconv.Atoi(qs)
		if err != nil {
			return f, fmt.Errorf("invalid 'limit': %q is not a number", qs)
		}
		f.Limit = n
	}
	return f, nil
}

func parseLogTime(s string) (time.Time, error) {
	for _, layout := range logTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("%q: use RFC3339, 'YYYY-MM-DD HH:MM:SS' or 'YYYY-MM-DD'", s)
}

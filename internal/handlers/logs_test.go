package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"brew_control/internal/models"
	"brew_control/internal/service"
)

func TestLogsHandler_ListsEvents(t *testing.T) {
	at := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	logs := &mockEventLog{resp: []models.BrewEvent{
		{EventID: "e1", OccurredAt: at, Type: models.EventStart, Description: "brew started"},
		{EventID: "e2", OccurredAt: at.Add(time.Minute), Type: models.EventStepAdvance, Description: "Mash out"},
	}}
	r := newTestRouter(&service.Service{Authorization: &mockAuth{parseID: 1}, EventLog: logs})

	w := serve(r, http.MethodGet, "/api/v1/logs/?from=2025-03-01T09:00:00Z&to=2025-03-01&type=step_advance&limit=50", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	var out struct {
		Count  int                `json:"count"`
		Events []models.BrewEvent `json:"events"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Count != 2 || len(out.Events) != 2 {
		t.Fatalf("unexpected response: %+v", out)
	}

	// type normalization belongs to the service
	if logs.last.Type != "step_advance" || logs.last.Limit != 50 {
		t.Fatalf("filter = %+v", logs.last)
	}
	if !logs.last.From.Equal(at) {
		t.Fatalf("from = %v", logs.last.From)
	}
	endOfDay := time.Date(2025, 3, 1, 23, 59, 59, int(time.Second-time.Nanosecond), time.UTC)
	if !logs.last.To.Equal(endOfDay) {
		t.Fatalf("date-only 'to' = %v; want end of day", logs.last.To)
	}
}

func TestLogsHandler_BadQuery(t *testing.T) {
	for _, q := range []string{"from=notatime", "to=31/12/2025", "limit=ten"} {
		t.Run(q, func(t *testing.T) {
			logs := &mockEventLog{}
			r := newTestRouter(&service.Service{Authorization: &mockAuth{parseID: 1}, EventLog: logs})

			w := serve(r, http.MethodGet, "/api/v1/logs/?"+q, "")
			if w.Code != http.StatusBadRequest {
				t.Fatalf("status=%d, want 400", w.Code)
			}
			if logs.calls != 0 {
				t.Fatalf("service called on a bad query")
			}
		})
	}
}

func TestLogsHandler_ServiceErrors(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("%w: unknown event type", models.ErrValidation), http.StatusBadRequest},
		{errors.New("database is locked"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		logs := &mockEventLog{err: tc.err}
		r := newTestRouter(&service.Service{Authorization: &mockAuth{parseID: 1}, EventLog: logs})

		w := serve(r, http.MethodGet, "/api/v1/logs/", "")
		if w.Code != tc.want {
			t.Fatalf("%v: status=%d, want %d", tc.err, w.Code, tc.want)
		}
	}
}

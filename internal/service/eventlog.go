package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"brew_control/internal/models"
	"brew_control/internal/repository"
)

// MaxLogLimit caps a single log read.
const MaxLogLimit = 1000

var errInvalidTimeRange = fmt.Errorf("%w: from must be <= to", models.ErrValidation)

// EventLogService answers history queries over the brew log.
type EventLogService struct {
	eventRepo repository.EventRepo
}

func NewEventLogService(eventRepo repository.EventRepo) *EventLogService {
	return &EventLogService{eventRepo: eventRepo}
}

// List returns the events matching f, oldest first.
func (s *EventLogService) List(ctx context.Context, f LogFilter) ([]models.BrewEvent, error) {
	q, err := buildQuery(f)
	if err != nil {
		return nil, err
	}
	events, err := s.eventRepo.List(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list brew events: %w", err)
	}
	return events, nil
}

// buildQuery normalizes f into a repository query. A zero limit still reads
// at most MaxLogLimit entries.
func buildQuery(f LogFilter) (repository.EventQuery, error) {
	q := repository.EventQuery{
		From: normalizeToUTC(f.From),
		To:   normalizeToUTC(f.To),
		Type: strings.ToUpper(strings.TrimSpace(f.Type)),
	}
	if !q.From.IsZero() && !q.To.IsZero() && q.From.After(q.To) {
		return repository.EventQuery{}, errInvalidTimeRange
	}
	if q.Type != "" && !models.IsEventType(q.Type) {
		return repository.EventQuery{}, fmt.Errorf("%w: unknown event type %q", models.ErrValidation, q.Type)
	}
	switch {
	case f.Limit < 0:
		return repository.EventQuery{}, fmt.Errorf("%w: limit %d is negative", models.ErrValidation, f.Limit)
	case f.Limit == 0 || f.Limit > MaxLogLimit:
		q.Limit = MaxLogLimit
	default:
		q.Limit = f.Limit
	}
	return q, nil
}

func normalizeToUTC(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return t.UTC()
}

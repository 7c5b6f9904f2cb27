package service

import (
	"context"

	"brew_control"
	"brew_control/internal/repository"
)

type statusReader interface {
	Status() brew_control.Status
}

type MonitoringService struct {
	loop       statusReader
	statusRepo repository.StatusRepo
}

func NewMonitoringService(loop statusReader, statusRepo repository.StatusRepo) *MonitoringService {
	return &MonitoringService{loop: loop, statusRepo: statusRepo}
}

// GetStatus returns the loop's latest snapshot. Until the first tick it falls
// back to the snapshot persisted by a previous run, if there is one.
func (s *MonitoringService) GetStatus(ctx context.Context) (brew_control.Status, error) {
	st := s.loop.Status()
	if st.Tick > 0 || s.statusRepo == nil {
		return st, nil
	}
	saved, err := s.statusRepo.Load(ctx)
	if err != nil {
		return brew_control.Status{}, err
	}
	if saved.Tick == 0 {
		return st, nil
	}
	saved.UpdatedAt = normalizeToUTC(saved.UpdatedAt)
	return saved, nil
}

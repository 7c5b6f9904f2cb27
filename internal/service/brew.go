package service

import (
	"context"
	"fmt"
	"strings"

	"brew_control/internal/controller"
	"brew_control/internal/models"
	"brew_control/internal/recipe"
)

// BrewService turns brew requests into loop commands. Every call waits for
// the next tick boundary.
type BrewService struct {
	loop controller.Submitter
}

func NewBrewService(loop controller.Submitter) *BrewService {
	return &BrewService{loop: loop}
}

func (s *BrewService) Start(ctx context.Context) (models.Brew, error) {
	return s.do(ctx, controller.Start{})
}

func (s *BrewService) Pause(ctx context.Context) (models.Brew, error) {
	return s.do(ctx, controller.Pause{})
}

func (s *BrewService) Stop(ctx context.Context) (models.Brew, error) {
	return s.do(ctx, controller.Stop{})
}

// Reset rewinds to the first step; it is allowed in any state.
func (s *BrewService) Reset(ctx context.Context) (models.Brew, error) {
	return s.do(ctx, controller.Reset{})
}

func (s *BrewService) Restart(ctx context.Context) (models.Brew, error) {
	return s.do(ctx, controller.Restart{})
}

func (s *BrewService) Advance(ctx context.Context) (models.Brew, error) {
	return s.do(ctx, controller.Advance{})
}

func (s *BrewService) Get(ctx context.Context) (models.Brew, error) {
	return s.do(ctx, controller.GetBrew{})
}

func (s *BrewService) AddStep(ctx context.Context, p StepParams) (models.Brew, error) {
	return s.do(ctx, controller.AddStep{Name: p.Name, Duration: p.Duration, Setpoint: p.Setpoint})
}

// EditStep keeps the step's name when p.Name is blank.
func (s *BrewService) EditStep(ctx context.Context, name string, p StepParams) (models.Brew, error) {
	return s.do(ctx, controller.EditStep{
		Name:     name,
		NewName:  orDefault(p.Name, name),
		Duration: p.Duration,
		Setpoint: p.Setpoint,
	})
}

func (s *BrewService) RemoveStep(ctx context.Context, name string) (models.Brew, error) {
	return s.do(ctx, controller.RemoveStep{Name: name})
}

func (s *BrewService) AddTask(ctx context.Context, step string, p TaskParams) (models.Brew, error) {
	return s.do(ctx, controller.AddTask{Step: step, Name: p.Name, Time: p.Time})
}

func (s *BrewService) EditTask(ctx context.Context, name string, p TaskParams) (models.Brew, error) {
	return s.do(ctx, controller.EditTask{Name: name, NewName: orDefault(p.Name, name), Time: p.Time})
}

func (s *BrewService) RemoveTask(ctx context.Context, name string) (models.Brew, error) {
	return s.do(ctx, controller.RemoveTask{Name: name})
}

func (s *BrewService) Recipe(ctx context.Context, name string) ([]byte, error) {
	b, err := s.Get(ctx)
	if err != nil {
		return nil, err
	}
	out, err := recipe.Marshal(recipe.FromBrew(orDefault(name, "brew"), b))
	if err != nil {
		return nil, fmt.Errorf("export recipe: %w", err)
	}
	return out, nil
}

func (s *BrewService) do(ctx context.Context, cmd controller.Command) (models.Brew, error) {
	return controller.Do[models.Brew](ctx, s.loop, cmd)
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}

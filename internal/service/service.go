package service

import (
	"context"
	"time"

	"brew_control"
	"brew_control/internal/controller"
	"brew_control/internal/models"
	"brew_control/internal/repository"
)

type Authorization interface {
	SignUp(ctx context.Context, username, password string) (int, error)
	GenerateToken(ctx context.Context, username, password string) (string, error)
	ParseToken(accessToken string) (int, error)
}

// Brew drives the step sequencer: lifecycle, step and task edits, recipe export.
type Brew interface {
	Start(ctx context.Context) (models.Brew, error)
	Pause(ctx context.Context) (models.Brew, error)
	Stop(ctx context.Context) (models.Brew, error)
	Reset(ctx context.Context) (models.Brew, error)
	Restart(ctx context.Context) (models.Brew, error)
	Advance(ctx context.Context) (models.Brew, error)

	Get(ctx context.Context) (models.Brew, error)
	AddStep(ctx context.Context, p StepParams) (models.Brew, error)
	EditStep(ctx context.Context, name string, p StepParams) (models.Brew, error)
	RemoveStep(ctx context.Context, name string) (models.Brew, error)
	AddTask(ctx context.Context, step string, p TaskParams) (models.Brew, error)
	EditTask(ctx context.Context, name string, p TaskParams) (models.Brew, error)
	RemoveTask(ctx context.Context, name string) (models.Brew, error)

	// Recipe exports the current plan as YAML.
	Recipe(ctx context.Context, name string) ([]byte, error)
}

// Channels changes regulator, alarm and sensor settings.
type Channels interface {
	SetEnabled(ctx context.Context, id int, enabled bool) error
	Acknowledge(ctx context.Context, id int) (bool, error)
	SetConfig(ctx context.Context, id int, p ChannelParams) (controller.ChannelConfig, error)
	ResetController(ctx context.Context, id int) error
	SetSimulation(ctx context.Context, sensor int, cfg models.SensorConfig) (models.SensorConfig, error)
}

// Monitoring exposes the latest status snapshot.
type Monitoring interface {
	GetStatus(ctx context.Context) (brew_control.Status, error)
}

// EventLog exposes append-only logs with filtering access.
type EventLog interface {
	List(ctx context.Context, f LogFilter) ([]models.BrewEvent, error)
}

// Loop is the part of the controller the services need.
type Loop interface {
	controller.Submitter
	Status() brew_control.Status
}

//
// Root Service aggregates all sub-services.
//

type Service struct {
	Brew
	Channels
	Monitoring
	EventLog
	Authorization
}

// AuthConfig carries the token settings read from configuration.
type AuthConfig struct {
	SigningKey string
	TokenTTL   time.Duration
}

// NewService wires the control loop and the repository layer into concrete
// services.
func NewService(repos *repository.Repository, loop Loop, auth AuthConfig) *Service {
	return &Service{
		Brew:          NewBrewService(loop),
		Channels:      NewChannelService(loop),
		Monitoring:    NewMonitoringService(loop, repos.StatusRepo),
		EventLog:      NewEventLogService(repos.EventRepo),
		Authorization: NewAuthService(repos.Auth, auth.SigningKey, auth.TokenTTL),
	}
}

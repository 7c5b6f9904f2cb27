package service

import (
	"context"
	"strings"

	"brew_control/internal/controller"
	"brew_control/internal/models"
)

type ChannelService struct {
	loop controller.Submitter
}

func NewChannelService(loop controller.Submitter) *ChannelService {
	return &ChannelService{loop: loop}
}

func (s *ChannelService) SetEnabled(ctx context.Context, id int, enabled bool) error {
	_, err := s.loop.Submit(ctx, controller.ToggleEnable{Channel: id, Enabled: enabled})
	return err
}

// Acknowledge reports false when the channel had no active alarm.
func (s *ChannelService) Acknowledge(ctx context.Context, id int) (bool, error) {
	return controller.Do[bool](ctx, s.loop, controller.AckAlarm{Channel: id})
}

// SetConfig upper-cases the enum fields before handing the config to the
// loop, which validates and applies it atomically.
func (s *ChannelService) SetConfig(ctx context.Context, id int, p ChannelParams) (controller.ChannelConfig, error) {
	reg := p.Regulator
	reg.Strategy = models.Strategy(strings.ToUpper(strings.TrimSpace(string(reg.Strategy))))
	al := p.Alarm
	al.ResetMode = models.ResetMode(strings.ToUpper(strings.TrimSpace(string(al.ResetMode))))
	return controller.Do[controller.ChannelConfig](ctx, s.loop, controller.SetConfig{
		Channel:   id,
		Regulator: reg,
		Alarm:     al,
	})
}

func (s *ChannelService) ResetController(ctx context.Context, id int) error {
	_, err := s.loop.Submit(ctx, controller.ResetController{Channel: id})
	return err
}

func (s *ChannelService) SetSimulation(ctx context.Context, sensor int, cfg models.SensorConfig) (models.SensorConfig, error) {
	return controller.Do[models.SensorConfig](ctx, s.loop, controller.SetSimulation{Sensor: sensor, Config: cfg})
}

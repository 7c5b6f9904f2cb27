package regulator

import "brew_control/internal/models"

// Manual outputs a fixed percentage.
type Manual struct {
	Output float64
}

func (m *Manual) Kind() models.Strategy   { return models.StrategyManual }
func (m *Manual) Compute(_ Input) float64 { return clamp(m.Output) }
func (m *Manual) Reset()                  {}

// Package sequencer owns the ordered brew steps and the brew/step state
// machines.
//
// Steps live in a slice that is re-sorted by duration and re-indexed after
// every structural edit, so indices and index names (S0, S1, ...) are not
// stable across edits. Callers must look items up by name after editing.
package sequencer

import (
	"slices"
	"time"

	"brew_control/internal/models"
)

// NoActiveStep is the active-step sentinel for "none".
const NoActiveStep = -1

type entry struct {
	key  uint64
	step models.BrewStep
}

// Sequencer is not safe for concurrent use; the control loop owns it.
type Sequencer struct {
	entries []entry
	active  int
	nextKey uint64

	status       models.BrewStatus
	startDate    time.Time
	elapsed      time.Duration // accumulated before runningSince
	runningSince time.Time     // zero unless Started
}

// New returns an empty sequencer in NotStarted.
func New() *Sequencer {
	return &Sequencer{active: NoActiveStep, status: models.BrewNotStarted}
}

// Status returns the brew status.
func (s *Sequencer) Status() models.BrewStatus { return s.status }

// Len returns the number of steps.
func (s *Sequencer) Len() int { return len(s.entries) }

// StartDate returns the time of the first start, zero if never started.
func (s *Sequencer) StartDate() time.Time { return s.startDate }

// ActiveIndex returns the active step index or NoActiveStep.
func (s *Sequencer) ActiveIndex() int { return s.active }

// ActiveStep returns a copy of the active step.
func (s *Sequencer) ActiveStep() (models.BrewStep, bool) {
	if s.active == NoActiveStep {
		return models.BrewStep{}, false
	}
	return cloneStep(s.entries[s.active].step), true
}

// Steps returns copies of all steps in index order.
func (s *Sequencer) Steps() []models.BrewStep {
	out := make([]models.BrewStep, len(s.entries))
	for i, e := range s.entries {
		out[i] = cloneStep(e.step)
	}
	return out
}

// Elapsed returns brew-clock time: it only runs while Started.
func (s *Sequencer) Elapsed(now time.Time) time.Duration {
	if s.runningSince.IsZero() {
		return s.elapsed
	}
	return s.elapsed + now.Sub(s.runningSince)
}

// Snapshot returns a read-only view of the brew.
func (s *Sequencer) Snapshot() models.Brew {
	return models.Brew{
		Steps:      s.Steps(),
		Status:     s.status,
		ActiveStep: s.active,
		StartDate:  s.startDate,
	}
}

// Start moves NotStarted, Paused or Stopped to Started. It reports whether
// anything changed; with no active step it is a no-op.
func (s *Sequencer) Start(now time.Time) bool {
	if s.active == NoActiveStep {
		return false
	}
	switch s.status {
	case models.BrewNotStarted, models.BrewPaused, models.BrewStopped:
	default:
		return false
	}
	s.status = models.BrewStarted
	s.entries[s.active].step.Status = models.StepStarted
	if s.startDate.IsZero() {
		s.startDate = now
	}
	s.runningSince = now
	return true
}

// Pause moves Started to Paused.
func (s *Sequencer) Pause(now time.Time) bool {
	if s.status != models.BrewStarted {
		return false
	}
	s.freezeClock(now)
	s.status = models.BrewPaused
	s.setActiveStatus(models.StepPaused)
	return true
}

// Stop moves Started or Paused to Stopped.
func (s *Sequencer) Stop(now time.Time) bool {
	if s.status != models.BrewStarted && s.status != models.BrewPaused {
		return false
	}
	s.freezeClock(now)
	s.status = models.BrewStopped
	s.setActiveStatus(models.StepStopped)
	return true
}

// Reset unconditionally returns to NotStarted with the first step active and
// the brew clock at zero. The start date is kept.
func (s *Sequencer) Reset() {
	s.status = models.BrewNotStarted
	for i := range s.entries {
		s.entries[i].step.Status = models.StepNotStarted
	}
	s.active = NoActiveStep
	if len(s.entries) > 0 {
		s.active = 0
	}
	s.elapsed = 0
	s.runningSince = time.Time{}
}

// Advance ends the active step and starts the next one when the brew is
// Started; past the last step the brew is Stopped. The active reference
// moves to the next step (or NoActiveStep) whatever the brew status is.
func (s *Sequencer) Advance(now time.Time) bool {
	if s.active == NoActiveStep {
		return false
	}
	next := s.active + 1
	if s.status == models.BrewStarted {
		s.entries[s.active].step.Status = models.StepEnded
		if next < len(s.entries) {
			s.entries[next].step.Status = models.StepStarted
		} else {
			s.freezeClock(now)
			s.status = models.BrewStopped
		}
	}
	if next < len(s.entries) {
		s.active = next
	} else {
		s.active = NoActiveStep
	}
	return true
}

// NextStep returns the step after the active one.
func (s *Sequencer) NextStep() (models.BrewStep, bool) {
	if s.active == NoActiveStep || s.active+1 >= len(s.entries) {
		return models.BrewStep{}, false
	}
	return cloneStep(s.entries[s.active+1].step), true
}

func (s *Sequencer) freezeClock(now time.Time) {
	if s.runningSince.IsZero() {
		return
	}
	s.elapsed += now.Sub(s.runningSince)
	s.runningSince = time.Time{}
}

func (s *Sequencer) setActiveStatus(st models.StepStatus) {
	if s.active != NoActiveStep {
		s.entries[s.active].step.Status = st
	}
}

func cloneStep(st models.BrewStep) models.BrewStep {
	st.Tasks = slices.Clone(st.Tasks)
	return st
}

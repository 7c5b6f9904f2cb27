package sequencer

import (
	"cmp"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	"brew_control/internal/models"
)

// MaxMinutes bounds step durations and task times.
const MaxMinutes = 24 * 60

// TaskRef is a task together with the name of the step that owns it.
type TaskRef struct {
	models.Task
	Step string
}

// AddStep inserts a step, re-sorts and re-indexes the sequence and makes the
// new step the active one. If the previous active step was running, the new
// active step takes over its status so at most one step is ever Started.
func (s *Sequencer) AddStep(name string, duration int, setpoint float64) error {
	name = strings.TrimSpace(name)
	if err := validateStep(name, duration, setpoint); err != nil {
		return err
	}
	if s.stepPos(name) >= 0 {
		return fmt.Errorf("%w: step %q already exists", models.ErrConflict, name)
	}

	inherited := models.StepNotStarted
	if s.active != NoActiveStep {
		prev := &s.entries[s.active].step
		if prev.Status == models.StepStarted || prev.Status == models.StepPaused {
			inherited = prev.Status
			prev.Status = models.StepNotStarted
		}
	}

	s.nextKey++
	key := s.nextKey
	s.entries = append(s.entries, entry{key: key, step: models.BrewStep{
		Name:     name,
		Duration: duration,
		Setpoint: setpoint,
		Status:   inherited,
	}})
	s.reindex(key)
	return nil
}

// EditStep replaces name, duration and setpoint of the step called name.
func (s *Sequencer) EditStep(name, newName string, duration int, setpoint float64) error {
	newName = strings.TrimSpace(newName)
	if err := validateStep(newName, duration, setpoint); err != nil {
		return err
	}
	pos := s.stepPos(name)
	if pos < 0 {
		return fmt.Errorf("%w: step %q", models.ErrNotFound, name)
	}
	if newName != name && s.stepPos(newName) >= 0 {
		return fmt.Errorf("%w: step %q already exists", models.ErrConflict, newName)
	}
	st := &s.entries[pos].step
	st.Name = newName
	st.Duration = duration
	st.Setpoint = setpoint
	s.reindex(s.activeKey())
	return nil
}

// RemoveStep deletes a step and its tasks. The active step cannot be removed
// while the brew is running.
func (s *Sequencer) RemoveStep(name string) error {
	pos := s.stepPos(name)
	if pos < 0 {
		return fmt.Errorf("%w: step %q", models.ErrNotFound, name)
	}
	running := s.status == models.BrewStarted || s.status == models.BrewPaused
	if pos == s.active && running {
		return fmt.Errorf("%w: step %q is active", models.ErrConflict, name)
	}

	wasActive := pos == s.active
	key := s.activeKey()
	if wasActive {
		key = 0
	}
	s.entries = slices.Delete(s.entries, pos, pos+1)
	s.reindex(key)
	if wasActive && len(s.entries) > 0 {
		// its successor takes the slot
		s.active = min(pos, len(s.entries)-1)
	}
	return nil
}

// AddTask attaches a reminder to the step called stepName.
func (s *Sequencer) AddTask(stepName, name string, minute int) error {
	name = strings.TrimSpace(name)
	if err := validateTask(name, minute); err != nil {
		return err
	}
	pos := s.stepPos(stepName)
	if pos < 0 {
		return fmt.Errorf("%w: step %q", models.ErrNotFound, stepName)
	}
	if _, _, ok := s.taskPos(name); ok {
		return fmt.Errorf("%w: task %q already exists", models.ErrConflict, name)
	}
	st := &s.entries[pos].step
	st.Tasks = append(st.Tasks, models.Task{Name: name, Time: minute})
	reindexTasks(st)
	return nil
}

// EditTask renames and/or re-times the task called name.
func (s *Sequencer) EditTask(name, newName string, minute int) error {
	newName = strings.TrimSpace(newName)
	if err := validateTask(newName, minute); err != nil {
		return err
	}
	sp, tp, ok := s.taskPos(name)
	if !ok {
		return fmt.Errorf("%w: task %q", models.ErrNotFound, name)
	}
	if newName != name {
		if _, _, dup := s.taskPos(newName); dup {
			return fmt.Errorf("%w: task %q already exists", models.ErrConflict, newName)
		}
	}
	st := &s.entries[sp].step
	st.Tasks[tp].Name = newName
	st.Tasks[tp].Time = minute
	reindexTasks(st)
	return nil
}

// RemoveTask deletes the task called name.
func (s *Sequencer) RemoveTask(name string) error {
	sp, tp, ok := s.taskPos(name)
	if !ok {
		return fmt.Errorf("%w: task %q", models.ErrNotFound, name)
	}
	st := &s.entries[sp].step
	st.Tasks = slices.Delete(st.Tasks, tp, tp+1)
	reindexTasks(st)
	return nil
}

// StepByName returns the step called name.
func (s *Sequencer) StepByName(name string) (models.BrewStep, bool) {
	pos := s.stepPos(name)
	if pos < 0 {
		return models.BrewStep{}, false
	}
	return cloneStep(s.entries[pos].step), true
}

// StepByIndexName resolves an index name such as "S2".
func (s *Sequencer) StepByIndexName(indexName string) (models.BrewStep, bool) {
	for _, e := range s.entries {
		if e.step.IndexName == indexName {
			return cloneStep(e.step), true
		}
	}
	return models.BrewStep{}, false
}

// TaskByIndexName resolves a composite index name such as "S1T0".
func (s *Sequencer) TaskByIndexName(indexName string) (TaskRef, bool) {
	stepPart, taskPart, ok := strings.Cut(indexName, "T")
	if !ok {
		return TaskRef{}, false
	}
	st, ok := s.StepByIndexName(stepPart)
	if !ok {
		return TaskRef{}, false
	}
	for _, t := range st.Tasks {
		if t.IndexName == "T"+taskPart {
			return TaskRef{Task: t, Step: st.Name}, true
		}
	}
	return TaskRef{}, false
}

// Tasks returns every task of every step ordered by brew time.
func (s *Sequencer) Tasks() []TaskRef {
	var out []TaskRef
	for _, e := range s.entries {
		for _, t := range e.step.Tasks {
			out = append(out, TaskRef{Task: t, Step: e.step.Name})
		}
	}
	slices.SortStableFunc(out, func(a, b TaskRef) int { return cmp.Compare(a.Time, b.Time) })
	return out
}

// reindex sorts steps by duration and renumbers them; activeKey (0 for none)
// names the entry that must stay active.
func (s *Sequencer) reindex(activeKey uint64) {
	slices.SortStableFunc(s.entries, func(a, b entry) int {
		return cmp.Compare(a.step.Duration, b.step.Duration)
	})
	s.active = NoActiveStep
	for i := range s.entries {
		st := &s.entries[i].step
		st.Index = i
		st.IndexName = "S" + strconv.Itoa(i)
		reindexTasks(st)
		if activeKey != 0 && s.entries[i].key == activeKey {
			s.active = i
		}
	}
}

func reindexTasks(st *models.BrewStep) {
	slices.SortStableFunc(st.Tasks, func(a, b models.Task) int { return cmp.Compare(a.Time, b.Time) })
	for i := range st.Tasks {
		st.Tasks[i].Index = i
		st.Tasks[i].IndexName = "T" + strconv.Itoa(i)
	}
}

func (s *Sequencer) activeKey() uint64 {
	if s.active == NoActiveStep {
		return 0
	}
	return s.entries[s.active].key
}

func (s *Sequencer) stepPos(name string) int {
	return slices.IndexFunc(s.entries, func(e entry) bool { return e.step.Name == name })
}

func (s *Sequencer) taskPos(name string) (int, int, bool) {
	for i, e := range s.entries {
		for j, t := range e.step.Tasks {
			if t.Name == name {
				return i, j, true
			}
		}
	}
	return 0, 0, false
}

func validateStep(name string, duration int, setpoint float64) error {
	if name == "" {
		return fmt.Errorf("%w: step name is empty", models.ErrValidation)
	}
	if duration < 0 || duration > MaxMinutes {
		return fmt.Errorf("%w: duration %d outside [0, %d] minutes", models.ErrValidation, duration, MaxMinutes)
	}
	if math.IsNaN(setpoint) || setpoint < models.MinSetpoint || setpoint > models.MaxSetpoint {
		return fmt.Errorf("%w: setpoint %.1f outside [%.0f, %.0f]", models.ErrValidation, setpoint, models.MinSetpoint, models.MaxSetpoint)
	}
	return nil
}

func validateTask(name string, minute int) error {
	if name == "" {
		return fmt.Errorf("%w: task name is empty", models.ErrValidation)
	}
	if minute < 0 || minute > MaxMinutes {
		return fmt.Errorf("%w: task time %d outside [0, %d] minutes", models.ErrValidation, minute, MaxMinutes)
	}
	return nil
}

package ir

import (
	"fmt"
	"time"
)

// ScheduleKind tags a Task's trigger mechanism (spec §3.5). STARTUP is a
// SPEC_FULL.md §3 supplement (original_source/model/task.py) alongside the
// three spec.md names.
type ScheduleKind int

const (
	SchedulePeriodic ScheduleKind = iota
	ScheduleEvent
	ScheduleContinuous
	ScheduleStartup
)

// Schedule is a Task's trigger configuration.
type Schedule struct {
	Kind            ScheduleKind
	Period          time.Duration // PeriodicSchedule only; must be > 0
	EventSource     string        // EventSchedule only
	TriggerVariable string        // EventSchedule only (supplement)
}

// NewPeriodicSchedule constructs a periodic schedule, rejecting a
// non-positive period (spec §3.5: "Period must be strictly positive").
func NewPeriodicSchedule(period time.Duration) (Schedule, error) {
	if period <= 0 {
		return Schedule{}, fmt.Errorf("periodic task period must be strictly positive, got %s", period)
	}
	return Schedule{Kind: SchedulePeriodic, Period: period}, nil
}

// NewEventSchedule constructs an event-triggered schedule.
func NewEventSchedule(source string) (Schedule, error) {
	if source == "" {
		return Schedule{}, fmt.Errorf("event task requires a trigger source")
	}
	return Schedule{Kind: ScheduleEvent, EventSource: source, TriggerVariable: source}, nil
}

// NewContinuousSchedule constructs the continuous (run-every-idle-cycle)
// schedule.
func NewContinuousSchedule() Schedule { return Schedule{Kind: ScheduleContinuous} }

// NewStartupSchedule constructs the startup-once schedule (supplement).
func NewStartupSchedule() Schedule { return Schedule{Kind: ScheduleStartup} }

// Task binds an ordered list of POUs to a schedule (spec §3.5).
type Task struct {
	Name     string
	Schedule Schedule
	Priority *int
	POURefs  []string

	// Watchdog is an optional maximum-scan-time guard (SPEC_FULL.md §3
	// supplement); must be strictly positive when set.
	Watchdog *time.Duration
}

// NewTask constructs a Task with no priority and no watchdog; use
// WithPriority and WithWatchdog to set them.
func NewTask(name string, schedule Schedule, pouRefs []string) (*Task, error) {
	return &Task{Name: name, Schedule: schedule, POURefs: pouRefs}, nil
}

// WithWatchdog attaches a watchdog duration, rejecting non-positive
// values.
func (t *Task) WithWatchdog(d time.Duration) (*Task, error) {
	if d <= 0 {
		return nil, fmt.Errorf("task %q: watchdog must be strictly positive, got %s", t.Name, d)
	}
	clone := *t
	clone.Watchdog = &d
	return &clone, nil
}

// WithPriority attaches a priority value.
func (t *Task) WithPriority(p int) *Task {
	clone := *t
	clone.Priority = &p
	return &clone
}

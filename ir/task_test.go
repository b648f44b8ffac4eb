package ir

import (
	"testing"
	"time"
)

func TestNewPeriodicScheduleRejectsNonPositivePeriod(t *testing.T) {
	if _, err := NewPeriodicSchedule(0); err == nil {
		t.Fatal("expected error: zero period")
	}
	if _, err := NewPeriodicSchedule(-time.Millisecond); err == nil {
		t.Fatal("expected error: negative period")
	}
	s, err := NewPeriodicSchedule(10 * time.Millisecond)
	if err != nil {
		t.Fatalf("NewPeriodicSchedule: %v", err)
	}
	if s.Kind != SchedulePeriodic || s.Period != 10*time.Millisecond {
		t.Errorf("unexpected schedule: %+v", s)
	}
}

func TestNewEventScheduleRequiresSource(t *testing.T) {
	if _, err := NewEventSchedule(""); err == nil {
		t.Fatal("expected error: empty event source")
	}
	s, err := NewEventSchedule("Sensor1")
	if err != nil {
		t.Fatalf("NewEventSchedule: %v", err)
	}
	if s.EventSource != "Sensor1" || s.TriggerVariable != "Sensor1" {
		t.Errorf("unexpected schedule: %+v", s)
	}
}

func TestTaskWithWatchdogAndPriorityAreImmutable(t *testing.T) {
	task, err := NewTask("Main", NewContinuousSchedule(), []string{"Prog1"})
	if err != nil {
		t.Fatalf("NewTask: %v", err)
	}

	if _, err := task.WithWatchdog(0); err == nil {
		t.Fatal("expected error: non-positive watchdog")
	}

	withWatchdog, err := task.WithWatchdog(50 * time.Millisecond)
	if err != nil {
		t.Fatalf("WithWatchdog: %v", err)
	}
	if task.Watchdog != nil {
		t.Error("original task should not be mutated by WithWatchdog")
	}
	if withWatchdog.Watchdog == nil || *withWatchdog.Watchdog != 50*time.Millisecond {
		t.Errorf("withWatchdog.Watchdog = %v, want 50ms", withWatchdog.Watchdog)
	}

	withPriority := task.WithPriority(5)
	if task.Priority != nil {
		t.Error("original task should not be mutated by WithPriority")
	}
	if withPriority.Priority == nil || *withPriority.Priority != 5 {
		t.Errorf("withPriority.Priority = %v, want 5", withPriority.Priority)
	}
}

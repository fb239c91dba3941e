package shared

import (
	"fmt"
	"time"
)

// LifecycleStatus is the state of a long-running job such as a simulation run
type LifecycleStatus string

const (
	LifecycleStatusPending   LifecycleStatus = "PENDING"
	LifecycleStatusRunning   LifecycleStatus = "RUNNING"
	LifecycleStatusCompleted LifecycleStatus = "COMPLETED"
	LifecycleStatusFailed    LifecycleStatus = "FAILED"
	LifecycleStatusStopped   LifecycleStatus = "STOPPED"
)

// Lifecycle tracks PENDING -> RUNNING -> COMPLETED/FAILED/STOPPED with timestamps
// taken from the injected clock. COMPLETED, FAILED and STOPPED are terminal.
type Lifecycle struct {
	status    LifecycleStatus
	startedAt *time.Time
	stoppedAt *time.Time
	lastError error
	clock     Clock
}

// NewLifecycle creates a lifecycle in PENDING state
func NewLifecycle(clock Clock) *Lifecycle {
	if clock == nil {
		clock = NewRealClock()
	}
	return &Lifecycle{status: LifecycleStatusPending, clock: clock}
}

func (l *Lifecycle) Status() LifecycleStatus { return l.status }
func (l *Lifecycle) StartedAt() *time.Time   { return l.startedAt }
func (l *Lifecycle) StoppedAt() *time.Time   { return l.stoppedAt }
func (l *Lifecycle) LastError() error        { return l.lastError }

// IsFinished reports whether a terminal state was reached
func (l *Lifecycle) IsFinished() bool {
	switch l.status {
	case LifecycleStatusCompleted, LifecycleStatusFailed, LifecycleStatusStopped:
		return true
	}
	return false
}

// Start moves PENDING to RUNNING
func (l *Lifecycle) Start() error {
	if l.status != LifecycleStatusPending {
		return fmt.Errorf("cannot start from %s state", l.status)
	}
	now := l.clock.Now()
	l.status = LifecycleStatusRunning
	l.startedAt = &now
	return nil
}

// Complete moves RUNNING to COMPLETED
func (l *Lifecycle) Complete() error {
	if l.status != LifecycleStatusRunning {
		return fmt.Errorf("cannot complete from %s state", l.status)
	}
	l.finish(LifecycleStatusCompleted, nil)
	return nil
}

// Fail records err and moves any non-terminal state to FAILED
func (l *Lifecycle) Fail(err error) error {
	if l.IsFinished() {
		return fmt.Errorf("cannot fail from %s state", l.status)
	}
	l.finish(LifecycleStatusFailed, err)
	return nil
}

// Stop moves any non-terminal state to STOPPED
func (l *Lifecycle) Stop() error {
	if l.IsFinished() {
		return fmt.Errorf("cannot stop from %s state", l.status)
	}
	l.finish(LifecycleStatusStopped, nil)
	return nil
}

func (l *Lifecycle) finish(status LifecycleStatus, err error) {
	now := l.clock.Now()
	l.status = status
	l.stoppedAt = &now
	l.lastError = err
}

// RuntimeDuration is the time spent running so far, or in total once finished
func (l *Lifecycle) RuntimeDuration() time.Duration {
	if l.startedAt == nil {
		return 0
	}
	end := l.clock.Now()
	if l.stoppedAt != nil {
		end = *l.stoppedAt
	}
	return end.Sub(*l.startedAt)
}

package simulation

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"

	"github.com/andrescamacho/processor-go/internal/application/common"
	appProcessing "github.com/andrescamacho/processor-go/internal/application/processing"
	processingCommands "github.com/andrescamacho/processor-go/internal/application/processing/commands"
	"github.com/andrescamacho/processor-go/internal/domain/shared"
)

// Intervals maps each cadence to the number of world ticks between evaluations
type Intervals map[appProcessing.Cadence]int

// DefaultIntervals evaluates normal units every 100 ticks, rare every 250 and long every 2000
func DefaultIntervals() Intervals {
	return Intervals{
		appProcessing.CadenceNormal: appProcessing.DefaultNormalInterval,
		appProcessing.CadenceRare:   appProcessing.DefaultRareInterval,
		appProcessing.CadenceLong:   appProcessing.DefaultLongInterval,
	}
}

// Validate rejects missing or non-positive intervals
func (iv Intervals) Validate() error {
	for _, c := range appProcessing.Cadences {
		if iv[c] <= 0 {
			return fmt.Errorf("interval for cadence %s must be positive, got %d", c, iv[c])
		}
	}
	return nil
}

// Options configures a Ticker
type Options struct {
	Intervals Intervals

	// TicksPerSecond paces the run against wall time; zero runs as fast as possible
	TicksPerSecond float64

	// Step is the number of world ticks simulated per loop iteration; defaults to the
	// smallest interval
	Step int

	Clock shared.Clock

	// AfterStep runs after every step once due cadences have been ticked
	AfterStep func(ctx context.Context, worldTick int) error
}

// Summary reports what a run did
type Summary struct {
	Ticks       int
	Evaluations int
	Completions int
	Status      shared.LifecycleStatus
}

// Ticker drives world time: it advances a tick counter and sends a TickUnitsCommand for
// each cadence whose interval has elapsed.
type Ticker struct {
	mediator  common.Mediator
	intervals Intervals
	limiter   *rate.Limiter
	step      int
	afterStep func(ctx context.Context, worldTick int) error

	accumulated map[appProcessing.Cadence]int
	worldTick   int
	lifecycle   *shared.Lifecycle
}

// NewTicker creates a ticker dispatching through the mediator
func NewTicker(m common.Mediator, opts Options) (*Ticker, error) {
	if m == nil {
		return nil, fmt.Errorf("ticker requires a mediator")
	}
	intervals := opts.Intervals
	if intervals == nil {
		intervals = DefaultIntervals()
	}
	if err := intervals.Validate(); err != nil {
		return nil, err
	}

	step := opts.Step
	if step <= 0 {
		step = intervals[appProcessing.CadenceNormal]
		for _, c := range appProcessing.Cadences {
			if intervals[c] < step {
				step = intervals[c]
			}
		}
	}

	clock := opts.Clock
	if clock == nil {
		clock = shared.NewRealClock()
	}

	var limiter *rate.Limiter
	if opts.TicksPerSecond > 0 {
		burst := step
		if int(opts.TicksPerSecond) > burst {
			burst = int(opts.TicksPerSecond)
		}
		limiter = rate.NewLimiter(rate.Limit(opts.TicksPerSecond), burst)
	}

	return &Ticker{
		mediator:    m,
		intervals:   intervals,
		limiter:     limiter,
		step:        step,
		afterStep:   opts.AfterStep,
		accumulated: make(map[appProcessing.Cadence]int),
		lifecycle:   shared.NewLifecycle(clock),
	}, nil
}

// WorldTick returns the number of ticks simulated so far
func (t *Ticker) WorldTick() int { return t.worldTick }

// Lifecycle exposes the run state
func (t *Ticker) Lifecycle() *shared.Lifecycle { return t.lifecycle }

// Run simulates totalTicks world ticks. A cancelled context stops the run between steps.
// A ticker runs once.
func (t *Ticker) Run(ctx context.Context, totalTicks int) (*Summary, error) {
	if totalTicks < 0 {
		return nil, fmt.Errorf("ticks must not be negative: %d", totalTicks)
	}
	if err := t.lifecycle.Start(); err != nil {
		return nil, err
	}
	logger := common.LoggerFromContext(ctx)
	logger.Log("INFO", fmt.Sprintf("[Ticker] Starting run of %d ticks (step %d)", totalTicks, t.step), nil)

	summary := &Summary{}
	for summary.Ticks < totalTicks {
		step := t.step
		if remaining := totalTicks - summary.Ticks; remaining < step {
			step = remaining
		}

		if t.limiter != nil {
			if err := t.limiter.WaitN(ctx, step); err != nil {
				return t.stop(ctx, summary, err)
			}
		} else if err := ctx.Err(); err != nil {
			return t.stop(ctx, summary, err)
		}

		if err := t.advance(ctx, step, summary); err != nil {
			_ = t.lifecycle.Fail(err)
			summary.Status = t.lifecycle.Status()
			logger.Log("ERROR", fmt.Sprintf("[Ticker] Run failed at tick %d: %v", t.worldTick, err), nil)
			return summary, err
		}
		summary.Ticks += step
	}

	_ = t.lifecycle.Complete()
	summary.Status = t.lifecycle.Status()
	logger.Log("INFO", fmt.Sprintf("[Ticker] Run completed: %d ticks, %d evaluations, %d completions in %s",
		summary.Ticks, summary.Evaluations, summary.Completions, t.lifecycle.RuntimeDuration()), nil)
	return summary, nil
}

// advance moves world time forward by step ticks and fires every due cadence
func (t *Ticker) advance(ctx context.Context, step int, summary *Summary) error {
	t.worldTick += step
	for _, cadence := range appProcessing.Cadences {
		interval := t.intervals[cadence]
		t.accumulated[cadence] += step
		for t.accumulated[cadence] >= interval {
			t.accumulated[cadence] -= interval

			resp, err := t.mediator.Send(ctx, &processingCommands.TickUnitsCommand{
				Cadence: cadence,
				Elapsed: interval,
			})
			if err != nil {
				return fmt.Errorf("tick %s units: %w", cadence, err)
			}
			if tickResp, ok := resp.(*processingCommands.TickUnitsResponse); ok {
				summary.Evaluations += len(tickResp.Results)
				summary.Completions += tickResp.Completed()
			}
		}
	}
	if t.afterStep != nil {
		if err := t.afterStep(ctx, t.worldTick); err != nil {
			return fmt.Errorf("after step at tick %d: %w", t.worldTick, err)
		}
	}
	return nil
}

func (t *Ticker) stop(ctx context.Context, summary *Summary, cause error) (*Summary, error) {
	_ = t.lifecycle.Stop()
	summary.Status = t.lifecycle.Status()
	common.LoggerFromContext(ctx).Log("INFO", fmt.Sprintf("[Ticker] Run stopped at tick %d: %v", t.worldTick, cause), nil)
	return summary, cause
}

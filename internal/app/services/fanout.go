package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/stallhub/internal/pkg/metrics"
)

// FanOut runs best-effort side effects. A step's failure is logged and
// counted but never reaches the caller, and never stops the next step.
type FanOut struct {
	async   bool
	timeout time.Duration
	logger  zerolog.Logger
	wg      sync.WaitGroup
}

// NewFanOut creates a FanOut. In async mode steps run on their own goroutine
// with a context detached from the request.
func NewFanOut(async bool, timeout time.Duration, logger zerolog.Logger) *FanOut {
	return &FanOut{
		async:   async,
		timeout: timeout,
		logger:  logger,
	}
}

// Step is one side effect of a fan-out
type Step struct {
	Name string
	Run  func(ctx context.Context) error
}

// Plan loads what the steps need and returns them. A plan may return no
// steps when there is nobody to notify.
type Plan func(ctx context.Context) ([]Step, error)

// Dispatch runs steps in order
func (f *FanOut) Dispatch(ctx context.Context, steps ...Step) {
	f.DispatchPlan(ctx, "dispatch", func(context.Context) ([]Step, error) { return steps, nil })
}

// DispatchPlan runs plan and then the steps it returns. A failing plan is
// reported under name and nothing else runs.
func (f *FanOut) DispatchPlan(ctx context.Context, name string, plan Plan) {
	ctx = context.WithoutCancel(ctx)
	if !f.async {
		f.run(ctx, name, plan)
		return
	}

	f.wg.Add(1)
	go func() {
		defer f.wg.Done()
		f.run(ctx, name, plan)
	}()
}

func (f *FanOut) run(parent context.Context, name string, plan Plan) {
	ctx := parent
	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(parent, f.timeout)
		defer cancel()
	}

	var steps []Step
	err := f.runStep(ctx, Step{Name: name, Run: func(ctx context.Context) error {
		var err error
		steps, err = plan(ctx)
		return err
	}})
	if err != nil {
		metrics.RecordFanOutStep(name, false)
		f.logger.Warn().Err(err).Str("step", name).Msg("Side effect planning failed")
		return
	}

	for _, step := range steps {
		err := f.runStep(ctx, step)
		metrics.RecordFanOutStep(step.Name, err == nil)
		if err != nil {
			f.logger.Warn().Err(err).Str("step", step.Name).Msg("Side effect failed")
			continue
		}
		f.logger.Debug().Str("step", step.Name).Msg("Side effect completed")
	}
}

func (f *FanOut) runStep(ctx context.Context, step Step) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return step.Run(ctx)
}

// Wait blocks until every dispatched fan-out has finished
func (f *FanOut) Wait() {
	f.wg.Wait()
}

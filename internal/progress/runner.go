// Package progress drives the stepped "processing" indicator shown while a
// batch runs. The steps advance on fixed timers and are cosmetic: the only
// real state transition is the single process call executed at the bank
// transfer step. The gateway exposes no incremental processing status; if it
// ever does, this runner is the seam to replace.
package progress

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	StepPending = "PENDING"
	StepActive  = "ACTIVE"
	StepDone    = "DONE"
	StepFailed  = "FAILED"
)

var stepNames = []string{"Validation", "Calculation", "Bank Transfer", "Confirmation"}

// processStepIndex is where the real gateway call happens.
const processStepIndex = 2

type Step struct {
	Name   string `json:"name"`
	Status string `json:"status"`
}

type Snapshot struct {
	BatchID string `json:"batch_id"`
	Steps   []Step `json:"steps"`
	Done    bool   `json:"done"`
	Error   string `json:"error,omitempty"`
}

type run struct {
	mu    sync.Mutex
	steps []Step
	done  bool
	err   string
}

func (r *run) snapshot(batchID string) Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return Snapshot{
		BatchID: batchID,
		Steps:   append([]Step(nil), r.steps...),
		Done:    r.done,
		Error:   r.err,
	}
}

type Runner struct {
	runs      sync.Map // batchID -> *run
	stepDelay time.Duration
	logger    *logrus.Logger
}

func NewRunner(stepDelay time.Duration, logger *logrus.Logger) *Runner {
	if stepDelay <= 0 {
		stepDelay = 1500 * time.Millisecond
	}
	return &Runner{stepDelay: stepDelay, logger: logger}
}

// Start launches the sequence for a batch. A batch already mid-sequence is
// left alone and Start reports false.
func (r *Runner) Start(ctx context.Context, batchID string, process func(context.Context) error) bool {
	steps := make([]Step, len(stepNames))
	for i, name := range stepNames {
		steps[i] = Step{Name: name, Status: StepPending}
	}
	state := &run{steps: steps}

	if existing, loaded := r.runs.LoadOrStore(batchID, state); loaded {
		if !existing.(*run).snapshot(batchID).Done {
			return false
		}
		r.runs.Store(batchID, state)
	}

	go r.sequence(ctx, batchID, state, process)
	return true
}

func (r *Runner) sequence(ctx context.Context, batchID string, state *run, process func(context.Context) error) {
	for i := range stepNames {
		state.mu.Lock()
		state.steps[i].Status = StepActive
		state.mu.Unlock()

		if i == processStepIndex {
			if err := process(ctx); err != nil {
				state.mu.Lock()
				state.steps[i].Status = StepFailed
				state.done = true
				state.err = err.Error()
				state.mu.Unlock()
				r.logger.WithError(err).WithField("batch_id", batchID).Warn("batch processing failed mid-sequence")
				return
			}
		} else {
			select {
			case <-time.After(r.stepDelay):
			case <-ctx.Done():
				state.mu.Lock()
				state.steps[i].Status = StepFailed
				state.done = true
				state.err = ctx.Err().Error()
				state.mu.Unlock()
				return
			}
		}

		state.mu.Lock()
		state.steps[i].Status = StepDone
		state.mu.Unlock()
	}

	state.mu.Lock()
	state.done = true
	state.mu.Unlock()
}

// Snapshot returns the current sequence state for a batch.
func (r *Runner) Snapshot(batchID string) (Snapshot, bool) {
	v, ok := r.runs.Load(batchID)
	if !ok {
		return Snapshot{}, false
	}
	return v.(*run).snapshot(batchID), true
}

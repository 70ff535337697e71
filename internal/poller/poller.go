// Package poller schedules the periodic dashboard refreshes. Unlike the old
// setInterval approach, a job that is still in flight when its next tick
// arrives is skipped rather than overlapped, and shutdown cancels the shared
// context so in-flight refreshes stop instead of racing a dead process.
package poller

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

type Job func(ctx context.Context) error

type Poller struct {
	cron   *cron.Cron
	logger *logrus.Logger

	ctx    context.Context
	cancel context.CancelFunc

	// onRun, when set, observes each job completion (for metrics).
	onRun func(name string, skipped bool, err error)
}

func New(logger *logrus.Logger, onRun func(name string, skipped bool, err error)) *Poller {
	ctx, cancel := context.WithCancel(context.Background())
	return &Poller{
		cron:   cron.New(),
		logger: logger,
		ctx:    ctx,
		cancel: cancel,
		onRun:  onRun,
	}
}

// Add registers a job to run at the given interval. Failures are logged, not
// surfaced: background refreshes stay silent to avoid notification spam.
func (p *Poller) Add(name string, every time.Duration, job Job) error {
	var inFlight int32

	_, err := p.cron.AddFunc(fmt.Sprintf("@every %s", every), func() {
		if !atomic.CompareAndSwapInt32(&inFlight, 0, 1) {
			p.logger.WithField("job", name).Debug("poll still in flight, skipping tick")
			if p.onRun != nil {
				p.onRun(name, true, nil)
			}
			return
		}
		defer atomic.StoreInt32(&inFlight, 0)

		err := job(p.ctx)
		if err != nil && p.ctx.Err() == nil {
			p.logger.WithError(err).WithField("job", name).Warn("background refresh failed")
		}
		if p.onRun != nil {
			p.onRun(name, false, err)
		}
	})
	return err
}

func (p *Poller) Start() {
	p.cron.Start()
}

// Stop halts scheduling and cancels in-flight jobs.
func (p *Poller) Stop() {
	p.cancel()
	<-p.cron.Stop().Done()
}

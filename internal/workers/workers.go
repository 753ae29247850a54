package workers

import (
	"context"
	"fmt"

	"github.com/fleetzen/fleetzen/internal/logger"
	"github.com/fleetzen/fleetzen/internal/service"
	"golang.org/x/sync/errgroup"
)

// namedWorker pairs a worker with the name used in its log lines.
type namedWorker struct {
	name   string
	worker Worker
}

type Workers struct {
	workers []namedWorker

	logger *logger.Logger
}

func NewWorkers(logger *logger.Logger) *Workers {
	return &Workers{logger: logger}
}

// NewClientWorkers registers the agent daemon's jobs from services.
func NewClientWorkers(services *service.ClientServices, logger *logger.Logger) *Workers {
	return NewWorkers(logger).
		Add("connectivity", services.Connectivity).
		Add("sync", services.SyncJob).
		Add("reaper", services.ReaperJob)
}

// Add registers worker under name. Nil workers are ignored.
func (w *Workers) Add(name string, worker Worker) *Workers {
	if worker != nil {
		w.workers = append(w.workers, namedWorker{name: name, worker: worker})
	}
	return w
}

// Run starts every registered worker and waits for all of them. The first
// worker error cancels the others and is returned.
func (w *Workers) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	for _, nw := range w.workers {
		g.Go(func() error {
			w.logger.Info().Str("worker", nw.name).Msg("worker started")
			defer w.logger.Info().Str("worker", nw.name).Msg("worker stopped")

			if err := nw.worker.Run(gctx); err != nil {
				return fmt.Errorf("worker %s: %w", nw.name, err)
			}
			return nil
		})
	}

	return g.Wait()
}

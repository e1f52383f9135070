package workers

import (
	"context"
	"log/slog"
	"os"
	"sync/atomic"
	"time"

	"github.com/shirou/gopsutil/process"

	"docintel/contract"
)

var _ contract.Worker = (*MonitorWorker)(nil)

// MonitorWorker periodically logs the engine's own resource usage and
// pipeline progress while a batch is running. Purely observational: it
// terminates with the pipeline context and never touches session state.
type MonitorWorker struct {
	log       *slog.Logger
	interval  time.Duration
	processed *atomic.Int64
	total     int
}

func NewMonitorWorker(log *slog.Logger, interval time.Duration, processed *atomic.Int64, total int) *MonitorWorker {
	return &MonitorWorker{
		log:       log,
		interval:  interval,
		processed: processed,
		total:     total,
	}
}

func (w *MonitorWorker) Run(ctx context.Context) error {
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		w.log.Debug("Monitor disabled, cannot inspect own process", "error", err)
		return nil
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			cpu, err := proc.CPUPercent()
			if err != nil {
				w.log.Debug("Error while reading cpu usage", "error", err)
				continue
			}
			ram, err := proc.MemoryPercent()
			if err != nil {
				w.log.Debug("Error while reading ram usage", "error", err)
				continue
			}
			w.log.Info("Batch progress",
				"processed", w.processed.Load(),
				"total", w.total,
				"cpu_pct", cpu,
				"ram_pct", ram)
		}
	}
}

package debug

// Runtime metrics logger. Started only when config.Debug is true.
// Emits goroutine count, heap usage and caller supplied gauges (frame cache
// fill, shape count) at a fixed interval so memory growth during long
// labeling sessions can be correlated with what the user was doing.

import (
	"context"
	"log/slog"
	"runtime"
	"runtime/metrics"
	"slices"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
)

// Gauges returns extra key/value pairs appended to every sample.
type Gauges func() []any

// Snapshot holds gauges published by the owner of the measured state and read
// by the logger goroutine. The UI state is only touched on the Tk thread, so
// values are copied in there and never read from the logger directly.
type Snapshot struct {
	mu sync.Mutex
	kv []any
}

// Publish replaces the current gauges.
func (s *Snapshot) Publish(kv ...any) {
	s.mu.Lock()
	s.kv = slices.Clone(kv)
	s.mu.Unlock()
}

// Gauges returns a copy of the last published gauges. It satisfies Gauges.
func (s *Snapshot) Gauges() []any {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.kv)
}

// Sample collects one set of runtime attributes plus gauges.
func Sample(g Gauges) []any {
	samples := []metrics.Sample{{Name: "/sched/goroutines:goroutines"}}
	metrics.Read(samples)
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	attrs := []any{
		slog.Uint64("goroutines", samples[0].Value.Uint64()),
		slog.String("heap_alloc", humanize.Bytes(ms.HeapAlloc)),
		slog.String("heap_sys", humanize.Bytes(ms.HeapSys)),
		slog.Uint64("num_gc", uint64(ms.NumGC)),
	}
	if g != nil {
		attrs = append(attrs, g()...)
	}
	return attrs
}

// StartRuntimeLogger launches a ticker that logs Sample until ctx is done.
// It is lightweight; disable by running without the debug flag.
func StartRuntimeLogger(ctx context.Context, interval time.Duration, logger *slog.Logger, g Gauges) {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	go func() {
		t := time.NewTicker(interval)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				logger.Info("runtime-stats", Sample(g)...)
			}
		}
	}()
}

package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/programmableapple/attorney-portfolio/internal/api/metrics"
	"github.com/programmableapple/attorney-portfolio/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// Dispatcher routes sector recounts to a fixed set of workers using
// consistent hashing on the sector name, so recounts of one sector never run
// concurrently.
type Dispatcher struct {
	workers   []chan string
	recounter ports.SectorRecounter
	log       zerolog.Logger
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, recounter ports.SectorRecounter, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers:   make([]chan string, numWorkers),
		recounter: recounter,
		log:       log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan string, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Enqueue schedules a recount of sector on the worker responsible for it. It
// never blocks: when that worker's channel is full the job is dropped, and the
// next change to the sector corrects its count.
func (d *Dispatcher) Enqueue(sector string) {
	idx := d.shardIndex(sector)
	select {
	case d.workers[idx] <- sector:
		metrics.RecountQueueDepth.WithLabelValues(strconv.Itoa(idx)).Inc()
	default:
		metrics.RecountsTotal.WithLabelValues("dropped").Inc()
		d.log.Warn().Str("sector", sector).Int("worker_id", idx).Msg("recount queue full, job dropped")
	}
}

// shardIndex maps a sector name deterministically to a worker index.
func (d *Dispatcher) shardIndex(sector string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(sector))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan string) {
	depth := metrics.RecountQueueDepth.WithLabelValues(strconv.Itoa(id))
	for {
		select {
		case <-ctx.Done():
			return
		case sector, ok := <-ch:
			if !ok {
				return
			}
			depth.Dec()

			start := time.Now()
			err := d.recounter.Recount(ctx, sector)
			metrics.RecountDuration.Observe(time.Since(start).Seconds())
			if err != nil {
				metrics.RecountsTotal.WithLabelValues("error").Inc()
				d.log.Error().Err(err).
					Str("sector", sector).
					Int("worker_id", id).
					Msg("sector recount failed")
				continue
			}
			metrics.RecountsTotal.WithLabelValues("ok").Inc()
		}
	}
}

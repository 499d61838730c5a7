package devapi

import (
	"context"
	"log"
	"math/rand"
	"sync"
	"time"

	"smsDashboard/repository"
)

const (
	batchNormal       = 10
	batchHighPriority = 20
	failRateNormal    = 0.05
	failRateHigh      = 0.02
)

// Simulator stands in for the delivery pipeline: every tick each pair with a
// running session "sends" a batch and records successes and failures.
type Simulator struct {
	metrics *repository.MetricRepository
	log     *log.Logger

	mu  sync.Mutex
	rnd *rand.Rand
}

func NewSimulator(metrics *repository.MetricRepository, logger *log.Logger, seed int64) *Simulator {
	if logger == nil {
		logger = log.Default()
	}
	return &Simulator{metrics: metrics, log: logger, rnd: rand.New(rand.NewSource(seed))}
}

// Tick sends one batch for every active pair. High priority pairs send
// larger batches with a lower failure rate.
func (s *Simulator) Tick(ctx context.Context) error {
	active, err := s.metrics.ListActive(ctx)
	if err != nil {
		return err
	}
	for _, co := range active {
		batch, rate := int64(batchNormal), failRateNormal
		if co.IsHighPriority {
			batch, rate = batchHighPriority, failRateHigh
		}
		failed := s.failures(batch, rate)
		if err := s.metrics.AddCounts(ctx, co.Country, co.Operator, batch, batch-failed, failed); err != nil {
			return err
		}
	}
	return nil
}

func (s *Simulator) failures(batch int64, rate float64) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for i := int64(0); i < batch; i++ {
		if s.rnd.Float64() < rate {
			n++
		}
	}
	return n
}

// Run ticks every interval until ctx is done.
func (s *Simulator) Run(ctx context.Context, interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if err := s.Tick(ctx); err != nil && ctx.Err() == nil {
				s.log.Printf("simulator tick: %v", err)
			}
		}
	}
}

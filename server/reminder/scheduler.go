package reminder

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Scheduler runs the background delivery loop against the reminder store.
type Scheduler struct {
	service  *Service
	interval time.Duration
	running  bool
	stopCh   chan struct{}
	wg       sync.WaitGroup
	mu       sync.Mutex
	logger   *slog.Logger

	processedChan chan int // For testing: reports delivered count per cycle
}

// NewScheduler creates a delivery scheduler polling at the given interval.
func NewScheduler(service *Service, interval time.Duration, logger *slog.Logger) *Scheduler {
	if interval <= 0 {
		interval = 2 * time.Second
	}
	return &Scheduler{
		service:  service,
		interval: interval,
		stopCh:   make(chan struct{}),
		logger:   logger,
	}
}

// Start begins the delivery loop.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = true
	s.stopCh = make(chan struct{})
	s.mu.Unlock()

	s.wg.Add(1)
	go s.run(ctx)

	s.logger.Info("reminder delivery loop started", slog.Duration("interval", s.interval))
	return nil
}

// Stop gracefully stops the loop, letting the current poll iteration finish.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	close(s.stopCh)
	s.mu.Unlock()

	s.wg.Wait()
	s.logger.Info("reminder delivery loop stopped")
}

// IsRunning returns whether the loop is running.
func (s *Scheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// EnableTestMode enables test mode with a channel reporting per-cycle counts.
func (s *Scheduler) EnableTestMode() <-chan int {
	s.processedChan = make(chan int, 100)
	return s.processedChan
}

// run is the main loop. It never terminates on a transient error; failures
// are logged and the next tick retries.
func (s *Scheduler) run(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	// Process immediately on start
	s.processCycle(ctx)

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("delivery loop context cancelled")
			return
		case <-s.stopCh:
			return
		case <-ticker.C:
			s.processCycle(ctx)
		}
	}
}

// processCycle runs one poll of the due set.
func (s *Scheduler) processCycle(ctx context.Context) {
	delivered, err := s.service.ProcessDue(ctx)
	if err != nil {
		s.logger.Error("failed to process due reminders", slog.String("error", err.Error()))
		return
	}

	if delivered > 0 {
		s.logger.Info("delivered due reminders", slog.Int("count", delivered))
	}

	if s.processedChan != nil {
		select {
		case s.processedChan <- delivered:
		default:
			// Don't block if channel is full
		}
	}
}

// RunOnce processes the due set once (for manual triggering and tests).
func (s *Scheduler) RunOnce(ctx context.Context) (int, error) {
	return s.service.ProcessDue(ctx)
}

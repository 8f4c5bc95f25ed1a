// Package audit persists a trail of completed reviews without ever touching
// the decision path: entries are queued on a bounded buffer and written by
// background workers, and a full buffer drops the entry rather than block a
// review.
package audit

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/upb/admission-webhook/models"
	"github.com/upb/admission-webhook/repositories"
	"go.uber.org/zap"
)

// Service handles asynchronous audit logging of admission reviews.
type Service struct {
	auditRepo   repositories.ReviewAuditRepository
	logger      *zap.Logger
	entryChan   chan *models.ReviewAudit
	workerCount int
	bufferSize  int
	wg          sync.WaitGroup
	started     bool
	mu          sync.Mutex
}

// Config holds configuration for the audit Service
type Config struct {
	BufferSize  int // Size of the entry buffer channel
	WorkerCount int // Number of concurrent workers
}

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	return Config{
		BufferSize:  4096,
		WorkerCount: 2,
	}
}

// NewService creates a new audit Service instance
func NewService(auditRepo repositories.ReviewAuditRepository, logger *zap.Logger, config Config) *Service {
	return &Service{
		auditRepo:   auditRepo,
		logger:      logger,
		entryChan:   make(chan *models.ReviewAudit, config.BufferSize),
		workerCount: config.WorkerCount,
		bufferSize:  config.BufferSize,
	}
}

// Start starts the background workers
func (s *Service) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return fmt.Errorf("audit service already started")
	}

	for i := 0; i < s.workerCount; i++ {
		s.wg.Add(1)
		go s.worker(i)
	}

	s.started = true
	s.logger.Info("started audit service",
		zap.Int("worker_count", s.workerCount),
		zap.Int("buffer_size", s.bufferSize))

	return nil
}

// Stop gracefully stops the audit service, waiting for pending entries to be
// written up to the timeout.
func (s *Service) Stop(timeout time.Duration) error {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return fmt.Errorf("audit service not started")
	}
	s.started = false
	s.mu.Unlock()

	s.logger.Info("stopping audit service", zap.Int("pending_entries", len(s.entryChan)))

	close(s.entryChan)

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("audit service stopped gracefully")
		return nil
	case <-time.After(timeout):
		return fmt.Errorf("audit service stop timeout after %v", timeout)
	}
}

// Record implements admission.Recorder. It never blocks: when the buffer is
// full the entry is dropped with a warning, because audit must not slow down
// or fail a review.
func (s *Service) Record(entry *models.ReviewAudit) {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		s.logger.Warn("audit service not started, dropping entry",
			zap.String("request_uid", entry.RequestUID))
		return
	}
	s.mu.Unlock()

	select {
	case s.entryChan <- entry:
	default:
		s.logger.Warn("audit buffer full, dropping entry",
			zap.String("request_uid", entry.RequestUID),
			zap.String("outcome", string(entry.Outcome)))
	}
}

// worker drains the entry channel
func (s *Service) worker(id int) {
	defer s.wg.Done()

	s.logger.Debug("audit worker started", zap.Int("worker_id", id))

	for entry := range s.entryChan {
		if err := s.persist(entry); err != nil {
			s.logger.Error("failed to persist audit entry",
				zap.Int("worker_id", id),
				zap.Error(err),
				zap.String("request_uid", entry.RequestUID))
		}
	}

	s.logger.Debug("audit worker stopped", zap.Int("worker_id", id))
}

// persist writes a single entry with its own bounded timeout
func (s *Service) persist(entry *models.ReviewAudit) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.auditRepo.Insert(ctx, entry); err != nil {
		return fmt.Errorf("failed to insert audit entry: %w", err)
	}

	return nil
}

// Stats represents audit service statistics
type Stats struct {
	BufferSize     int
	PendingEntries int
	WorkerCount    int
	Started        bool
}

// GetStats returns statistics about the audit service
func (s *Service) GetStats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	return Stats{
		BufferSize:     s.bufferSize,
		PendingEntries: len(s.entryChan),
		WorkerCount:    s.workerCount,
		Started:        s.started,
	}
}

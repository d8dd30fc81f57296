package service

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/neurolock/neurolock/internal/neurolock/domain"
	"github.com/neurolock/neurolock/internal/neurolock/store"
	"github.com/neurolock/neurolock/pkg/cryptox"
	"github.com/neurolock/neurolock/pkg/idx"
)

// Attempt listing page bounds.
const (
	defaultAttemptLimit = 20
	maxAttemptLimit     = 100
)

// AuditService persists verification attempts off the request path. Writes
// are queued onto a bounded channel and handled by a single worker; when the
// queue is full the attempt is dropped with a log line rather than delaying
// the verdict.
type AuditService struct {
	Store      store.Store
	Logger     *slog.Logger
	CaptureDir string

	queue  chan auditJob
	stopCh chan struct{}
	doneCh chan struct{}
}

type auditJob struct {
	empID   string
	rec     domain.ChallengeRecord
	verdict domain.Verdict
	image   []byte
}

// NewAuditService creates the audit writer. queueSize 0 defaults to 64.
func NewAuditService(st store.Store, logger *slog.Logger, captureDir string, queueSize int) *AuditService {
	if queueSize <= 0 {
		queueSize = 64
	}
	return &AuditService{
		Store:      st,
		Logger:     logger,
		CaptureDir: captureDir,
		queue:      make(chan auditJob, queueSize),
		stopCh:     make(chan struct{}),
		doneCh:     make(chan struct{}),
	}
}

// Start launches the background writer. Call Stop to drain and shut down.
func (s *AuditService) Start() error {
	if err := os.MkdirAll(s.CaptureDir, 0o750); err != nil {
		return fmt.Errorf("failed to create capture dir: %w", err)
	}
	go s.run()
	s.Logger.Info("audit service started", "capture_dir", s.CaptureDir)
	return nil
}

// Stop drains queued attempts and shuts the worker down.
func (s *AuditService) Stop() {
	close(s.stopCh)
	<-s.doneCh
	s.Logger.Info("audit service stopped")
}

// RecordAttempt queues one attempt for persistence. Never blocks.
func (s *AuditService) RecordAttempt(_ context.Context, empID string, rec domain.ChallengeRecord, verdict domain.Verdict, image []byte) {
	job := auditJob{empID: empID, rec: rec, verdict: verdict, image: image}
	select {
	case s.queue <- job:
	default:
		s.Logger.Warn("audit queue full, dropping attempt",
			"emp_id", empID, "nonce", cryptox.FingerprintToken(rec.Nonce))
	}
}

// ListAttempts returns an employee's most recent attempts, newest first.
// A non-positive limit falls back to the default page size.
func (s *AuditService) ListAttempts(ctx context.Context, empID string, limit int) ([]domain.Capture, error) {
	if limit <= 0 {
		limit = defaultAttemptLimit
	}
	if limit > maxAttemptLimit {
		limit = maxAttemptLimit
	}
	return s.Store.Captures().ListCapturesByEmployee(ctx, empID, limit)
}

func (s *AuditService) run() {
	defer close(s.doneCh)
	for {
		select {
		case job := <-s.queue:
			s.persist(job)
		case <-s.stopCh:
			// Drain whatever is already queued before exiting.
			for {
				select {
				case job := <-s.queue:
					s.persist(job)
				default:
					return
				}
			}
		}
	}
}

func (s *AuditService) persist(job auditJob) {
	now := time.Now()

	var path string
	if len(job.image) > 0 {
		path = filepath.Join(s.CaptureDir, fmt.Sprintf("capture_%d.jpg", now.UnixMilli()))
		if err := os.WriteFile(path, job.image, 0o640); err != nil {
			s.Logger.Error("failed to write capture image", "error", err, "path", path)
			path = ""
		}
	}

	// The row keeps only a fingerprint of the nonce; the raw value stays in
	// memory so a leaked database cannot be replayed against live challenges.
	capture := domain.Capture{
		ID:         idx.New().String(),
		EmpID:      job.empID,
		Nonce:      cryptox.FingerprintToken(job.rec.Nonce),
		Challenge:  job.rec.Type,
		Accepted:   job.verdict.Accepted,
		Reason:     job.verdict.Reason,
		ImagePath:  path,
		ImageBytes: int64(len(job.image)),
		CapturedAt: now.UTC(),
	}
	if err := s.Store.Captures().CreateCapture(context.Background(), capture); err != nil {
		s.Logger.Error("failed to persist capture row", "error", err, "emp_id", job.empID)
	}
}

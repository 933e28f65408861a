package review

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/lumen/internal/classifier"
	"github.com/JaimeStill/lumen/internal/config"
	"github.com/JaimeStill/lumen/internal/metrics"
	"github.com/JaimeStill/lumen/internal/queue"
	"github.com/JaimeStill/lumen/pkg/lifecycle"
	"github.com/JaimeStill/lumen/pkg/pagination"
)

// System is the review session. Every operation is safe to call while
// analysis is in flight and none of them waits for it.
type System interface {
	Handler() *Handler

	// Start launches the analysis pipeline on the lifecycle context.
	Start(lc *lifecycle.Coordinator)

	Session() Session
	Configure(endpoint string) error

	Init(ctx context.Context) error
	Next(ctx context.Context) (*BatchView, error)
	Reset(ctx context.Context, confirmed bool) error

	Confirm(id string) (*Record, error)
	Deny(id string) (*Record, error)

	Batch() BatchView
	History() []Record
	Find(id string) (*Record, error)
	Search(page pagination.PageRequest, filters Filters) *pagination.PageResult[Record]
	Statuses() []Status

	// Notify posts a status message on behalf of another component.
	Notify(kind StatusKind, text string) Status

	// Wait blocks until every submitted record has been analyzed.
	Wait(ctx context.Context) error
}

type session struct {
	id         uuid.UUID
	started    time.Time
	classifier classifier.System
	timeout    time.Duration
	pagination pagination.Config
	metrics    *metrics.Metrics
	logger     *slog.Logger

	store    *store
	board    *board
	pipeline *pipeline

	// queueMu serializes init, next, and reset.
	queueMu sync.Mutex

	mu     sync.RWMutex
	client queue.Client
}

// New creates a review session. When queueCfg carries an endpoint the
// session starts configured.
func New(
	analyzer classifier.System,
	queueCfg *config.QueueConfig,
	cfg *config.ReviewConfig,
	pagination pagination.Config,
	m *metrics.Metrics,
	logger *slog.Logger,
) (System, error) {
	s := &session{
		id:         uuid.New(),
		started:    time.Now(),
		classifier: analyzer,
		timeout:    queueCfg.TimeoutDuration(),
		pagination: pagination,
		metrics:    m,
		logger:     logger.With("system", "review"),
		store:      newStore(),
		board:      newBoard(cfg.StatusTTLDuration()),
	}
	s.pipeline = newPipeline(cfg.Workers, s.analyze, s.logger)

	if queueCfg.Endpoint != "" {
		if err := s.Configure(queueCfg.Endpoint); err != nil {
			return nil, err
		}
	}

	return s, nil
}

func (s *session) Handler() *Handler {
	return NewHandler(s, s.logger, s.pagination)
}

func (s *session) Start(lc *lifecycle.Coordinator) {
	lc.Go(s.pipeline.run)
}

func (s *session) Session() Session {
	s.mu.RLock()
	endpoint := ""
	if s.client != nil {
		endpoint = s.client.Endpoint()
	}
	s.mu.RUnlock()

	c := s.store.counts()
	return Session{
		ID:         s.id,
		Endpoint:   endpoint,
		Configured: endpoint != "",
		StartedAt:  s.started,
		History:    c.history,
		Batch:      c.batch,
		Analyzing:  c.analyzing,
		Reviewed:   c.reviewed,
	}
}

func (s *session) Configure(endpoint string) error {
	endpoint = strings.TrimSpace(endpoint)

	u, err := url.ParseRequestURI(endpoint)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: %q", ErrInvalidEndpoint, endpoint)
	}

	client, err := queue.New(endpoint, s.timeout, s.logger)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidEndpoint, err)
	}

	s.mu.Lock()
	s.client = client
	s.mu.Unlock()

	s.logger.Info("queue endpoint configured", "endpoint", endpoint)
	return nil
}

func (s *session) queue() (queue.Client, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.client == nil {
		return nil, queue.ErrNotConfigured
	}
	return s.client, nil
}

func (s *session) Init(ctx context.Context) error {
	s.queueMu.Lock()
	defer s.queueMu.Unlock()

	client, err := s.queue()
	if err != nil {
		return s.fail("initialize queue", err)
	}

	start := time.Now()
	ack, err := client.Init(ctx)
	if err != nil {
		s.metrics.ObserveQueueCall(string(queue.ActionInit), metrics.OutcomeFailure, time.Since(start))
		return s.fail("initialize queue", err)
	}
	s.metrics.ObserveQueueCall(string(queue.ActionInit), metrics.OutcomeSuccess, time.Since(start))

	s.store.clearBatch()
	s.board.post(KindSuccess, "Queue initialized successfully.")
	s.logger.InfoContext(ctx, "queue initialized", "message", ack.Message)
	return nil
}

func (s *session) Next(ctx context.Context) (*BatchView, error) {
	s.queueMu.Lock()
	defer s.queueMu.Unlock()

	client, err := s.queue()
	if err != nil {
		return nil, s.fail("fetch next batch", err)
	}

	start := time.Now()
	batch, err := client.Next(ctx)
	if errors.Is(err, queue.ErrNoMoreBatches) {
		s.metrics.ObserveQueueCall(string(queue.ActionNext), metrics.OutcomeEmpty, time.Since(start))
		s.store.clearBatch()
		s.board.post(KindInfo, "No more batches available.")
		s.logger.InfoContext(ctx, "queue exhausted")
		return nil, err
	}
	if err != nil {
		s.metrics.ObserveQueueCall(string(queue.ActionNext), metrics.OutcomeFailure, time.Since(start))
		return nil, s.fail("fetch next batch", err)
	}
	s.metrics.ObserveQueueCall(string(queue.ActionNext), metrics.OutcomeSuccess, time.Since(start))

	now := time.Now()
	recs := make([]Record, 0, len(batch.Images))
	jobs := make([]job, 0, len(batch.Images))
	for _, img := range batch.Images {
		r := newRecord(img, batch.FolderName, now)
		recs = append(recs, r)
		jobs = append(jobs, job{key: r.Key, locator: r.DirectDownloadURL})
	}

	s.store.load(newBatchInfo(batch), recs)
	s.metrics.AddBacklog(len(jobs))
	s.pipeline.submit(jobs...)

	s.board.post(KindSuccess, fmt.Sprintf(
		"Loaded batch %d of %d from %s (%d images).",
		batch.BatchIndex, batch.TotalBatches, batch.FolderName, len(recs),
	))
	s.logger.InfoContext(
		ctx, "batch loaded",
		"folder", batch.FolderName,
		"batch_index", batch.BatchIndex,
		"total_batches", batch.TotalBatches,
		"images", len(recs),
	)

	view := s.store.view()
	return &view, nil
}

func (s *session) Reset(ctx context.Context, confirmed bool) error {
	if !confirmed {
		return ErrResetNotConfirmed
	}

	s.queueMu.Lock()
	defer s.queueMu.Unlock()

	client, err := s.queue()
	if err != nil {
		return s.fail("reset queue", err)
	}

	start := time.Now()
	ack, err := client.Reset(ctx)
	if err != nil {
		s.metrics.ObserveQueueCall(string(queue.ActionReset), metrics.OutcomeFailure, time.Since(start))
		return s.fail("reset queue", err)
	}
	s.metrics.ObserveQueueCall(string(queue.ActionReset), metrics.OutcomeSuccess, time.Since(start))

	s.store.clearBatch()
	s.board.post(KindSuccess, "Queue reset successfully.")
	s.logger.InfoContext(ctx, "queue reset", "message", ack.Message)
	return nil
}

func (s *session) Confirm(id string) (*Record, error) {
	return s.decide(id, "confirm", Record.confirm)
}

func (s *session) Deny(id string) (*Record, error) {
	return s.decide(id, "deny", Record.deny)
}

func (s *session) decide(id, decision string, rule func(Record, time.Time) (Record, bool)) (*Record, error) {
	applied := false
	rec, ok := s.store.update(id, func(r Record) (Record, bool) {
		next, changed := rule(r, time.Now())
		applied = changed
		return next, changed
	})
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	if applied {
		s.metrics.IncDecision(decision)
		s.logger.Info(
			"record reviewed",
			"decision", decision,
			"image_id", rec.ID,
			"final_status", *rec.FinalStatus,
		)
	}
	return &rec, nil
}

func (s *session) Batch() BatchView {
	return s.store.view()
}

func (s *session) History() []Record {
	return s.store.history()
}

func (s *session) Find(id string) (*Record, error) {
	rec, ok := s.store.find(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return &rec, nil
}

func (s *session) Search(page pagination.PageRequest, filters Filters) *pagination.PageResult[Record] {
	page.Normalize(s.pagination)

	var matched []Record
	for _, r := range s.store.history() {
		if filters.match(r, page) {
			matched = append(matched, r)
		}
	}

	result := pagination.Slice(matched, page)
	return &result
}

func (s *session) Statuses() []Status {
	return s.board.list()
}

func (s *session) Notify(kind StatusKind, text string) Status {
	return s.board.post(kind, text)
}

func (s *session) Wait(ctx context.Context) error {
	return s.pipeline.wait(ctx)
}

// analyze runs one record through the classifier and merges the outcome.
func (s *session) analyze(ctx context.Context, j job) {
	defer s.metrics.AddBacklog(-1)

	start := time.Now()
	judgment, err := s.classifier.Analyze(ctx, j.locator)
	duration := time.Since(start)

	if err != nil {
		s.metrics.ObserveAnalysis(metrics.OutcomeFailure, duration)
		rec, _ := s.store.merge(j.key, func(r Record) Record {
			return r.withError(err.Error(), time.Now())
		})
		s.logger.Warn(
			"analysis failed",
			"image_id", rec.ID,
			"image_name", rec.Name,
			"error", err,
		)
		return
	}

	s.metrics.ObserveAnalysis(metrics.OutcomeSuccess, duration)
	rec, _ := s.store.merge(j.key, func(r Record) Record {
		return r.withJudgment(judgment, time.Now())
	})
	s.logger.Debug(
		"analysis merged",
		"image_id", rec.ID,
		"lights_on", judgment.LightsOn,
		"duration", duration,
	)
}

// fail posts an error status for a failed queue operation and returns the
// wrapped error.
func (s *session) fail(action string, err error) error {
	if errors.Is(err, queue.ErrNotConfigured) {
		s.board.post(KindError, "Please configure the queue endpoint first.")
	} else {
		s.board.post(KindError, fmt.Sprintf("Failed to %s.", action))
	}
	return fmt.Errorf("%s: %w", action, err)
}

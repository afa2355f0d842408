package snapshot

import (
	"context"
	"fmt"
	"sync"

	"github.com/robfig/cron/v3"

	"github.com/okian/flagrank/pkg/logger"
)

// Job is a scheduled unit of work.
type Job func(ctx context.Context) error

// Scheduler runs jobs on cron specs. Overlapping runs of the same job are
// skipped.
type Scheduler struct {
	mu      sync.Mutex
	cron    *cron.Cron
	started bool
	settings
}

// NewScheduler creates a stopped scheduler.
func NewScheduler(opts ...Option) *Scheduler {
	s := &Scheduler{settings: defaults()}
	for _, opt := range opts {
		opt(&s.settings)
	}

	cl := cronLogger{log: s.log}
	s.cron = cron.New(
		cron.WithLogger(cl),
		cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
	)
	return s
}

// Schedule registers job under name. spec is a standard five-field cron
// expression or a descriptor such as "@every 8h".
func (s *Scheduler) Schedule(ctx context.Context, spec, name string, job Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.cron.AddFunc(spec, func() {
		if err := job(ctx); err != nil {
			s.log.Error(ctx, "scheduled job failed", logger.String("job", name), logger.Error(err))
			return
		}
		s.log.Debug(ctx, "scheduled job done", logger.String("job", name))
	})
	if err != nil {
		return fmt.Errorf("%w: %q: %w", ErrInvalidSpec, spec, err)
	}
	return nil
}

// Start begins running jobs.
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		s.cron.Start()
		s.started = true
	}
}

// Stop halts the scheduler and waits for running jobs until ctx is done.
func (s *Scheduler) Stop(ctx context.Context) {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return
	}
	s.started = false
	done := s.cron.Stop()
	s.mu.Unlock()

	select {
	case <-done.Done():
	case <-ctx.Done():
	}
}

// cronLogger adapts logger.Logger to cron.Logger.
type cronLogger struct {
	log logger.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debug(context.Background(), "cron: "+msg, kvFields(keysAndValues)...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Error(context.Background(), "cron: "+msg, append(kvFields(keysAndValues), logger.Error(err))...)
}

func kvFields(kv []interface{}) []logger.Field {
	fields := make([]logger.Field, 0, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			key = fmt.Sprint(kv[i])
		}
		fields = append(fields, logger.Any(key, kv[i+1]))
	}
	return fields
}

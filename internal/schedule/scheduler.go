package schedule

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/phrazzld/todo-summary-api/internal/config"
	"github.com/phrazzld/todo-summary-api/internal/events"
	"github.com/phrazzld/todo-summary-api/internal/platform/logger"
	"github.com/robfig/cron/v3"
)

// ErrInvalidSchedule is returned when the cron expression or timezone cannot be parsed.
var ErrInvalidSchedule = errors.New("invalid schedule")

// Job is the work performed on every tick.
type Job func(ctx context.Context) error

// Parser accepts standard 5-field expressions and descriptors such as @daily or @every 1h.
var Parser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

// Scheduler runs a single Job on a cron schedule in a fixed location.
// Ticks that fire while the previous run is still in progress are skipped.
type Scheduler struct {
	mu      sync.Mutex
	cron    *cron.Cron
	entryID cron.EntryID
	spec    string
	loc     *time.Location
	timeout time.Duration
	job     Job
	logger  *slog.Logger
	started bool
}

// LoadLocation resolves an IANA timezone name; empty means UTC.
func LoadLocation(name string) (*time.Location, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("%w: timezone %q: %w", ErrInvalidSchedule, name, err)
	}
	return loc, nil
}

// New creates a Scheduler from cfg. The cron expression is validated eagerly
// so a bad configuration fails at startup rather than silently never firing.
func New(cfg config.ScheduleConfig, job Job, log *slog.Logger) (*Scheduler, error) {
	if log == nil {
		log = slog.Default()
	}
	if job == nil {
		return nil, errors.New("job cannot be nil")
	}

	loc, err := LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, err
	}

	s := &Scheduler{
		spec:    strings.TrimSpace(cfg.Cron),
		loc:     loc,
		timeout: time.Duration(cfg.RunTimeoutSeconds) * time.Second,
		job:     job,
		logger:  log.With(slog.String("component", "scheduler")),
	}
	if s.spec == "" {
		return s, nil
	}

	schedule, err := Parser.Parse(s.spec)
	if err != nil {
		return nil, fmt.Errorf("%w: cron %q: %w", ErrInvalidSchedule, s.spec, err)
	}

	cronLogger := cronLogger{logger: s.logger}
	s.cron = cron.New(
		cron.WithParser(Parser),
		cron.WithLocation(loc),
		cron.WithLogger(cronLogger),
		cron.WithChain(cron.Recover(cronLogger), cron.SkipIfStillRunning(cronLogger)),
	)
	s.entryID = s.cron.Schedule(schedule, cron.FuncJob(s.tick))

	return s, nil
}

// Enabled reports whether a cron expression was configured.
func (s *Scheduler) Enabled() bool {
	return s.cron != nil
}

// Start begins firing the job. It does not block.
func (s *Scheduler) Start() {
	if !s.Enabled() {
		s.logger.Info("scheduled summaries disabled")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return
	}
	s.started = true
	s.cron.Start()

	s.logger.Info("scheduler started",
		slog.String("cron", s.spec),
		slog.String("tz", s.loc.String()),
		slog.Time("next_run", s.Next()))
}

// Stop prevents further ticks and waits for a running job to finish or for
// ctx to be done, whichever comes first.
func (s *Scheduler) Stop(ctx context.Context) error {
	if !s.Enabled() {
		return nil
	}

	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return nil
	}
	s.started = false
	done := s.cron.Stop().Done()
	s.mu.Unlock()

	select {
	case <-done:
		s.logger.Info("scheduler stopped")
		return nil
	case <-ctx.Done():
		return fmt.Errorf("waiting for scheduled run to finish: %w", ctx.Err())
	}
}

// Next returns the next activation time, or the zero time when disabled or not started.
func (s *Scheduler) Next() time.Time {
	if !s.Enabled() {
		return time.Time{}
	}
	return s.cron.Entry(s.entryID).Next
}

// tick runs the job once with its own bounded context.
func (s *Scheduler) tick() {
	ctx := context.Background()
	ctx = events.WithTrigger(ctx, events.TriggerSchedule)
	ctx = logger.WithLogger(ctx, s.logger)

	var cancel context.CancelFunc
	if s.timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
	} else {
		ctx, cancel = context.WithCancel(ctx)
	}
	defer cancel()

	start := time.Now()
	if err := s.job(ctx); err != nil {
		s.logger.Error("scheduled summary run failed",
			slog.String("error", err.Error()),
			slog.Duration("duration", time.Since(start)))
		return
	}
	s.logger.Info("scheduled summary run completed", slog.Duration("duration", time.Since(start)))
}

// cronLogger adapts slog to cron.Logger.
type cronLogger struct {
	logger *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debug(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Error(msg, append([]any{slog.String("error", err.Error())}, keysAndValues...)...)
}

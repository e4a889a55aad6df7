// Package scheduler запускает фоновые задачи раз в сутки в заданное время.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/magabrotheeeer/bdd-service/internal/lib/sl"
)

// Task — задача, выполняемая при каждом срабатывании.
type Task struct {
	Name string
	Run  func(ctx context.Context) error
}

// Scheduler срабатывает ежедневно в hour:minute по часовому поясу loc
// и последовательно выполняет зарегистрированные задачи.
type Scheduler struct {
	log        *slog.Logger
	loc        *time.Location
	hour       int
	minute     int
	runOnStart bool
	tasks      []Task

	wg    sync.WaitGroup
	now   func() time.Time
	after func(d time.Duration) <-chan time.Time
}

// New создаёт планировщик. runAt задаётся как "HH:MM", timezone — имя из базы IANA.
func New(log *slog.Logger, runAt, timezone string, runOnStart bool) (*Scheduler, error) {
	const op = "scheduler.New"

	at, err := time.Parse("15:04", runAt)
	if err != nil {
		return nil, fmt.Errorf("%s: invalid run_at %q: %w", op, runAt, err)
	}
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("%s: invalid timezone %q: %w", op, timezone, err)
	}

	return &Scheduler{
		log:        log,
		loc:        loc,
		hour:       at.Hour(),
		minute:     at.Minute(),
		runOnStart: runOnStart,
		now:        time.Now,
		after:      time.After,
	}, nil
}

// Register добавляет задачу. Вызывать до Start.
func (s *Scheduler) Register(task Task) {
	s.tasks = append(s.tasks, task)
}

// NextRun возвращает ближайший момент срабатывания строго после now.
func (s *Scheduler) NextRun(now time.Time) time.Time {
	local := now.In(s.loc)
	next := time.Date(local.Year(), local.Month(), local.Day(), s.hour, s.minute, 0, 0, s.loc)
	if !next.After(local) {
		next = time.Date(local.Year(), local.Month(), local.Day()+1, s.hour, s.minute, 0, 0, s.loc)
	}
	return next
}

// Start блокируется до отмены ctx, выполняя задачи в каждое срабатывание.
// Уже начатое выполнение задач доводится до конца.
func (s *Scheduler) Start(ctx context.Context) {
	s.wg.Add(1)
	defer s.wg.Done()

	if s.runOnStart {
		s.runTasks(ctx)
	}

	for {
		next := s.NextRun(s.now())
		s.log.Info("next scheduled run", slog.Time("at", next))
		select {
		case <-ctx.Done():
			s.log.Info("scheduler stopped")
			return
		case <-s.after(next.Sub(s.now())):
			s.runTasks(ctx)
		}
	}
}

// Wait ждёт завершения Start, включая выполняющиеся задачи.
func (s *Scheduler) Wait() {
	s.wg.Wait()
}

func (s *Scheduler) runTasks(ctx context.Context) {
	for _, task := range s.tasks {
		s.runTask(ctx, task)
	}
}

func (s *Scheduler) runTask(ctx context.Context, task Task) {
	log := s.log.With(slog.String("task", task.Name))
	defer func() {
		if r := recover(); r != nil {
			log.Error("task panicked", slog.Any("panic", r))
		}
	}()

	log.Info("task started")
	if err := task.Run(ctx); err != nil {
		log.Error("task failed", sl.Err(err))
		return
	}
	log.Info("task finished")
}

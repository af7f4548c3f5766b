package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
)

// RunTimeout bounds a single scheduled reminder run.
const RunTimeout = 30 * time.Second

// ReminderScheduler triggers reminder runs on cron schedules. Overlapping
// runs are skipped while the previous one is still going.
type ReminderScheduler struct {
	cron    *cron.Cron
	run     func(ctx context.Context) error
	timeout time.Duration
}

func NewReminderScheduler(loc *time.Location, run func(ctx context.Context) error) *ReminderScheduler {
	if loc == nil {
		loc = time.Local
	}
	return &ReminderScheduler{
		cron: cron.New(
			cron.WithLocation(loc),
			cron.WithSeconds(),
			cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
		),
		run:     run,
		timeout: RunTimeout,
	}
}

// Every schedules a run each interval, truncated to whole seconds.
func (s *ReminderScheduler) Every(interval time.Duration) (cron.EntryID, error) {
	if interval <= 0 {
		return 0, fmt.Errorf("reminder interval must be positive")
	}
	seconds := int(interval.Seconds())
	if seconds <= 0 {
		seconds = 1
	}
	return s.cron.AddFunc(fmt.Sprintf("@every %ds", seconds), s.runOnce)
}

// DailyAt schedules a run every day at an HH:MM wall-clock time.
func (s *ReminderScheduler) DailyAt(clock string) (cron.EntryID, error) {
	spec, err := dailySpec(clock)
	if err != nil {
		return 0, err
	}
	return s.cron.AddFunc(spec, s.runOnce)
}

// Jobs returns the number of registered schedules.
func (s *ReminderScheduler) Jobs() int {
	return len(s.cron.Entries())
}

func (s *ReminderScheduler) Start() {
	s.cron.Start()
}

// Stop waits for a running reminder pass to finish.
func (s *ReminderScheduler) Stop() {
	<-s.cron.Stop().Done()
}

func (s *ReminderScheduler) runOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	log.Println("[info] scheduled reminder run")
	if err := s.run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Printf("scheduled reminders: %v", err)
	}
}

// dailySpec turns HH:MM into a seconds-first cron spec.
func dailySpec(clock string) (string, error) {
	parts := strings.Split(strings.TrimSpace(clock), ":")
	if len(parts) != 2 {
		return "", fmt.Errorf("invalid reminder time %q, expected HH:MM", clock)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return "", fmt.Errorf("invalid hour in reminder time %q", clock)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return "", fmt.Errorf("invalid minute in reminder time %q", clock)
	}
	return fmt.Sprintf("0 %d %d * * *", minute, hour), nil
}

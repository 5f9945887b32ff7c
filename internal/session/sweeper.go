package session

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/ekato-labs/tradecore/pkg/logger"
)

// Sweeper evicts expired sessions on a fixed cadence for the lifetime of the
// process. The scan is O(n) over live sessions and shares the store's lock
// with request handlers, so the interval should stay in the seconds range.
type Sweeper struct {
	cron  *cron.Cron
	store *Store
	log   *logger.Logger
}

// NewSweeper schedules an eviction pass every interval.
func NewSweeper(store *Store, interval time.Duration, log *logger.Logger) (*Sweeper, error) {
	if log == nil {
		log = logger.NewDefault("sweeper")
	}
	s := &Sweeper{
		cron:  cron.New(),
		store: store,
		log:   log,
	}
	spec := fmt.Sprintf("@every %s", interval)
	if _, err := s.cron.AddFunc(spec, s.sweep); err != nil {
		return nil, fmt.Errorf("schedule session sweep: %w", err)
	}
	return s, nil
}

// Start begins the sweep schedule.
func (s *Sweeper) Start() {
	s.cron.Start()
	s.log.Info("session sweeper started")
}

// Stop halts the schedule and waits for a running sweep to finish.
func (s *Sweeper) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.log.Info("session sweeper stopped")
}

func (s *Sweeper) sweep() {
	if removed := s.store.Sweep(); removed > 0 {
		s.log.WithField("removed", removed).Debug("expired sessions evicted")
	}
}

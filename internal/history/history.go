// Package history keeps the match log bounded. Rooms are short-lived but
// their identifiers accumulate in the matches table forever; the pruning
// service periodically trims each room's records down to the most recent
// handful.
package history

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/badAtCoding144/vigilant-octo-pong/internal/db"
)

type Config struct {
	Interval    time.Duration
	KeepPerRoom int
}

func DefaultConfig() Config {
	return Config{
		Interval:    10 * time.Minute,
		KeepPerRoom: 50,
	}
}

type Service struct {
	database *db.Database
	config   Config
	stop     chan struct{}
	wg       sync.WaitGroup
	log      *logrus.Entry
}

func New(database *db.Database, config Config) *Service {
	return &Service{
		database: database,
		config:   config,
		stop:     make(chan struct{}),
		log:      logrus.WithField("component", "history"),
	}
}

func (s *Service) Start() {
	s.wg.Add(1)
	go s.run()
	s.log.WithFields(logrus.Fields{
		"interval": s.config.Interval,
		"keep":     s.config.KeepPerRoom,
	}).Info("history pruning started")
}

func (s *Service) Stop() {
	close(s.stop)
	s.wg.Wait()
	s.log.Info("history pruning stopped")
}

func (s *Service) run() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	s.pruneAll()

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			s.pruneAll()
		}
	}
}

func (s *Service) pruneAll() {
	roomIDs, err := s.database.RoomIDs()
	if err != nil {
		s.log.WithError(err).Error("failed to list recorded rooms")
		return
	}

	pruned := 0
	for _, roomID := range roomIDs {
		count, err := s.database.MatchCountForRoom(roomID)
		if err != nil {
			continue
		}
		if count <= s.config.KeepPerRoom {
			continue
		}
		if err := s.database.PruneMatches(roomID, s.config.KeepPerRoom); err != nil {
			s.log.WithError(err).WithField("room", roomID).Error("prune failed")
			continue
		}
		pruned++
	}

	if pruned > 0 {
		s.log.WithField("rooms", pruned).Info("pruned match history")
	}
}

// PruneNow trims one room immediately, outside the timer cadence.
func (s *Service) PruneNow(roomID string) error {
	return s.database.PruneMatches(roomID, s.config.KeepPerRoom)
}

package sessions

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"anglegen/internal/genai"
	"anglegen/internal/generation"
)

// Options configures the in-memory session registry.
type Options struct {
	// TTL is how long an idle session survives before cleanup reclaims it.
	TTL time.Duration
	// CleanupInterval is how often the reaper scans for expired sessions.
	CleanupInterval time.Duration
	Logger          zerolog.Logger
}

// Store keeps live generation sessions in memory, keyed by uuid. Nothing
// survives a restart: the session is the only home a generated artifact has.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*generation.Session

	ttl      time.Duration
	interval time.Duration
	logger   zerolog.Logger
}

func NewStore(opts Options) *Store {
	ttl := opts.TTL
	if ttl <= 0 {
		ttl = 2 * time.Hour
	}
	interval := opts.CleanupInterval
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &Store{
		sessions: make(map[string]*generation.Session),
		ttl:      ttl,
		interval: interval,
		logger:   opts.Logger,
	}
}

// Create registers a new session for a freshly uploaded source image and
// returns it.
func (s *Store) Create(src genai.SourceImage) *generation.Session {
	sess := generation.NewSession(uuid.NewString(), src)
	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()
	s.logger.Info().Str("session", sess.ID).Msg("sessions: created")
	return sess
}

// Get looks up a live session by identifier.
func (s *Store) Get(id string) (*generation.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	return sess, ok
}

// Delete removes a session immediately.
func (s *Store) Delete(id string) {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
}

// Len reports the number of live sessions.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// StartCleanup runs the expiry reaper until ctx is cancelled.
func (s *Store) StartCleanup(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.reap(time.Now())
			}
		}
	}()
}

func (s *Store) reap(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	reaped := 0
	for id, sess := range s.sessions {
		if now.Sub(sess.LastActive()) > s.ttl {
			delete(s.sessions, id)
			reaped++
		}
	}
	if reaped > 0 {
		s.logger.Info().Int("reaped", reaped).Int("active", len(s.sessions)).Msg("sessions: cleaned up expired")
	}
}

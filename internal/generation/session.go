package generation

import (
	"sync"
	"time"

	"anglegen/internal/catalog"
	"anglegen/internal/genai"
)

// Session is the single live generation session for one uploaded image: the
// source, the user's current inputs, and the per-angle item collection. All
// mutation goes through keyed updates under the session mutex; readers get
// value snapshots.
type Session struct {
	ID string

	mu      sync.Mutex
	source  genai.SourceImage
	detail  string
	styleID string
	items   *itemSet
	epoch   uint64

	createdAt  time.Time
	lastActive time.Time
}

// runSnapshot captures the inputs of one generation run at invocation time.
// Settlements carry the epoch back so results from superseded runs can be
// discarded.
type runSnapshot struct {
	epoch       uint64
	source      genai.SourceImage
	detail      string
	stylePrompt string
}

// NewSession creates a session around a freshly uploaded source image, with
// one PENDING item per configured angle.
func NewSession(id string, src genai.SourceImage) *Session {
	now := time.Now()
	return &Session{
		ID:         id,
		source:     src,
		styleID:    "none",
		items:      newItemSet(catalog.Angles()),
		createdAt:  now,
		lastActive: now,
	}
}

// ReplaceSource swaps in a new source image wholesale and resets every item
// to PENDING. The epoch bump makes any still-outstanding settlements from
// the previous source land silently in the void.
func (s *Session) ReplaceSource(src genai.SourceImage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.source = src
	s.epoch++
	s.items.setAll(StatusPending)
	s.lastActive = time.Now()
}

// SetInputs updates the free-text detail and selected style identifier.
func (s *Session) SetInputs(detail, styleID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.detail = detail
	if styleID != "" {
		s.styleID = styleID
	}
	s.lastActive = time.Now()
}

// Snapshot returns the current item collection in configuration order.
func (s *Session) Snapshot() []Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.items.snapshot()
}

// Item returns a value copy of one entry.
func (s *Session) Item(id string) (Item, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.items.get(id)
}

// Source returns the current source image.
func (s *Session) Source() genai.SourceImage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.source
}

// LastActive reports when the session was last touched; the registry uses
// it for TTL cleanup.
func (s *Session) LastActive() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActive
}

// beginBulkRun starts a new generation epoch: every item flips to LOADING
// in one visible update and the inputs are snapshotted for the run.
func (s *Session) beginBulkRun() runSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.epoch++
	s.items.setAll(StatusLoading)
	s.lastActive = time.Now()
	return runSnapshot{
		epoch:       s.epoch,
		source:      s.source,
		detail:      s.detail,
		stylePrompt: catalog.StylePrompt(s.styleID),
	}
}

// beginItemRun marks a single item LOADING and snapshots the inputs fresh
// at this invocation. It joins the current epoch rather than starting a new
// one, so it neither invalidates a concurrent bulk run nor survives being
// superseded by one.
func (s *Session) beginItemRun(id string) (runSnapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items.byID[id]; !ok {
		return runSnapshot{}, false
	}
	s.items.setOne(id, StatusLoading)
	s.lastActive = time.Now()
	return runSnapshot{
		epoch:       s.epoch,
		source:      s.source,
		detail:      s.detail,
		stylePrompt: catalog.StylePrompt(s.styleID),
	}, true
}

// applyResult settles one item with the outcome of a request issued under
// the given epoch. Results from superseded epochs are discarded silently;
// the return value reports whether the update was applied.
func (s *Session) applyResult(epoch uint64, id string, res Result) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if epoch != s.epoch {
		return false
	}
	if !s.items.apply(id, res) {
		return false
	}
	s.lastActive = time.Now()
	return true
}

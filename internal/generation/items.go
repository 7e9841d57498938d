package generation

import "anglegen/internal/catalog"

// Status is the lifecycle state of one generation item.
// PENDING -> LOADING -> {SUCCESS, ERROR}; SUCCESS and ERROR are stable but
// re-enterable through regeneration.
type Status string

const (
	StatusPending Status = "PENDING"
	StatusLoading Status = "LOADING"
	StatusSuccess Status = "SUCCESS"
	StatusError   Status = "ERROR"
)

// Item tracks one angle's generation state. Image is set iff the status is
// SUCCESS; Error and ErrorKind iff the status is ERROR.
type Item struct {
	ID        string
	Title     string
	Status    Status
	Image     []byte
	Error     string
	ErrorKind string
}

// Result is the settled outcome of one generation request. A non-empty Err
// marks the item ERROR; otherwise Image marks it SUCCESS.
type Result struct {
	Image []byte
	Err   string
	Kind  string
}

// itemSet holds one entry per configured angle, keyed by angle identifier.
// The identifier set is fixed at construction: entries are only ever
// rewritten in place, never added or removed. itemSet is not goroutine-safe
// on its own; the owning Session serializes access.
type itemSet struct {
	order []string
	byID  map[string]*Item
}

func newItemSet(angles []catalog.Angle) *itemSet {
	s := &itemSet{
		order: make([]string, 0, len(angles)),
		byID:  make(map[string]*Item, len(angles)),
	}
	for _, a := range angles {
		s.order = append(s.order, a.ID)
		s.byID[a.ID] = &Item{ID: a.ID, Title: a.Title, Status: StatusPending}
	}
	return s
}

// setAll bulk-overwrites every entry's status, clearing stale results and
// errors while keeping identifier and title.
func (s *itemSet) setAll(status Status) {
	for _, item := range s.byID {
		item.Status = status
		item.Image = nil
		item.Error = ""
		item.ErrorKind = ""
	}
}

// setOne marks a single entry, clearing its stale result and error.
// Unknown identifiers are ignored.
func (s *itemSet) setOne(id string, status Status) {
	item, ok := s.byID[id]
	if !ok {
		return
	}
	item.Status = status
	item.Image = nil
	item.Error = ""
	item.ErrorKind = ""
}

// apply replaces exactly one entry's outcome, leaving every other entry
// untouched. It reports whether the identifier matched a configured angle.
func (s *itemSet) apply(id string, res Result) bool {
	item, ok := s.byID[id]
	if !ok {
		return false
	}
	if res.Err != "" {
		item.Status = StatusError
		item.Image = nil
		item.Error = res.Err
		item.ErrorKind = res.Kind
	} else {
		item.Status = StatusSuccess
		item.Image = res.Image
		item.Error = ""
		item.ErrorKind = ""
	}
	return true
}

// get returns a value copy of one entry.
func (s *itemSet) get(id string) (Item, bool) {
	item, ok := s.byID[id]
	if !ok {
		return Item{}, false
	}
	return *item, true
}

// snapshot returns value copies of every entry in configuration order, so
// callers can render without aliasing the live set.
func (s *itemSet) snapshot() []Item {
	out := make([]Item, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, *s.byID[id])
	}
	return out
}

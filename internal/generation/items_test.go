package generation

import (
	"testing"

	"anglegen/internal/catalog"
)

func angleIDs() map[string]struct{} {
	ids := make(map[string]struct{})
	for _, a := range catalog.Angles() {
		ids[a.ID] = struct{}{}
	}
	return ids
}

func assertIDSet(t *testing.T, items []Item) {
	t.Helper()
	want := angleIDs()
	if len(items) != len(want) {
		t.Fatalf("expected %d items, got %d", len(want), len(items))
	}
	for _, item := range items {
		if _, ok := want[item.ID]; !ok {
			t.Fatalf("unexpected item id %q", item.ID)
		}
		delete(want, item.ID)
	}
	if len(want) != 0 {
		t.Fatalf("missing item ids: %v", want)
	}
}

func TestNewItemSet(t *testing.T) {
	set := newItemSet(catalog.Angles())
	items := set.snapshot()
	assertIDSet(t, items)
	for _, item := range items {
		if item.Status != StatusPending {
			t.Fatalf("item %q status = %s, want PENDING", item.ID, item.Status)
		}
		if item.Image != nil || item.Error != "" {
			t.Fatalf("fresh item %q carries result state", item.ID)
		}
		if item.Title == "" {
			t.Fatalf("item %q has no title", item.ID)
		}
	}
}

func TestSetAllClearsStaleState(t *testing.T) {
	set := newItemSet(catalog.Angles())
	set.apply("side", Result{Image: []byte("img")})
	set.apply("low", Result{Err: "boom"})

	set.setAll(StatusLoading)

	for _, item := range set.snapshot() {
		if item.Status != StatusLoading {
			t.Fatalf("item %q status = %s, want LOADING", item.ID, item.Status)
		}
		if item.Image != nil || item.Error != "" {
			t.Fatalf("item %q kept stale result after setAll", item.ID)
		}
	}
	assertIDSet(t, set.snapshot())
}

func TestApplyTouchesOnlyOneEntry(t *testing.T) {
	set := newItemSet(catalog.Angles())
	set.setAll(StatusLoading)

	if !set.apply("low", Result{Image: []byte("img")}) {
		t.Fatal("apply(low) = false")
	}

	for _, item := range set.snapshot() {
		switch item.ID {
		case "low":
			if item.Status != StatusSuccess || string(item.Image) != "img" || item.Error != "" {
				t.Fatalf("low = %+v", item)
			}
		default:
			if item.Status != StatusLoading {
				t.Fatalf("sibling %q was disturbed: %+v", item.ID, item)
			}
		}
	}
}

func TestApplyErrorOutcome(t *testing.T) {
	set := newItemSet(catalog.Angles())
	set.apply("high", Result{Image: []byte("img")})
	set.apply("high", Result{Err: "quota"})

	item, ok := set.get("high")
	if !ok {
		t.Fatal("high not found")
	}
	if item.Status != StatusError || item.Error != "quota" || item.Image != nil {
		t.Fatalf("high = %+v", item)
	}
}

func TestApplyUnknownIDIsRejected(t *testing.T) {
	set := newItemSet(catalog.Angles())
	before := set.snapshot()

	if set.apply("front", Result{Image: []byte("img")}) {
		t.Fatal("apply(front) = true for unknown id")
	}

	after := set.snapshot()
	assertIDSet(t, after)
	for i := range before {
		if before[i].ID != after[i].ID || before[i].Status != after[i].Status {
			t.Fatalf("collection changed by unknown-id apply: %+v vs %+v", before[i], after[i])
		}
	}
}

func TestSnapshotDoesNotAlias(t *testing.T) {
	set := newItemSet(catalog.Angles())
	snap := set.snapshot()
	snap[0].Status = StatusError
	snap[0].Error = "mutated"

	item, _ := set.get(snap[0].ID)
	if item.Status != StatusPending || item.Error != "" {
		t.Fatalf("snapshot mutation leaked into the set: %+v", item)
	}
}

package generation

import (
	"context"
	"fmt"
	"io"
	"reflect"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"anglegen/internal/catalog"
	"anglegen/internal/genai"
)

var testImage = genai.SourceImage{Data: []byte{0x89, 0x50}, MIMEType: "image/png"}

// stubCall is one in-flight Generate invocation waiting to be settled by
// the test.
type stubCall struct {
	angleID string
	prompt  string
	done    chan stubOutcome
}

type stubOutcome struct {
	image []byte
	err   error
}

// stubGenerator hands every call to the test through a channel so tests can
// settle items in a chosen order.
type stubGenerator struct {
	calls chan stubCall
}

func newStubGenerator() *stubGenerator {
	return &stubGenerator{calls: make(chan stubCall, 16)}
}

func (g *stubGenerator) Generate(ctx context.Context, src genai.SourceImage, prompt string) ([]byte, error) {
	call := stubCall{
		angleID: angleIDForPrompt(prompt),
		prompt:  prompt,
		done:    make(chan stubOutcome),
	}
	g.calls <- call
	select {
	case out := <-call.done:
		return out.image, out.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func angleIDForPrompt(prompt string) string {
	for _, a := range catalog.Angles() {
		if strings.HasPrefix(prompt, a.Prompt) {
			return a.ID
		}
	}
	return ""
}

// collectCalls waits for exactly n in-flight calls keyed by angle id.
func collectCalls(t *testing.T, g *stubGenerator, n int) map[string]stubCall {
	t.Helper()
	out := make(map[string]stubCall, n)
	deadline := time.After(5 * time.Second)
	for len(out) < n {
		select {
		case call := <-g.calls:
			out[call.angleID] = call
		case <-deadline:
			t.Fatalf("timed out waiting for %d calls, have %d", n, len(out))
		}
	}
	return out
}

func testOrchestrator(g Generator) *Orchestrator {
	return NewOrchestrator(g, zerolog.New(io.Discard))
}

func TestGenerateAllMarksEveryItemLoadingBeforeSettlement(t *testing.T) {
	stub := newStubGenerator()
	orch := testOrchestrator(stub)
	sess := NewSession("s1", testImage)

	done := make(chan struct{})
	go func() {
		orch.GenerateAll(context.Background(), sess)
		close(done)
	}()

	calls := collectCalls(t, stub, 3)

	// All requests are in flight, none settled: every item must be LOADING.
	items := sess.Snapshot()
	assertIDSet(t, items)
	for _, item := range items {
		if item.Status != StatusLoading {
			t.Fatalf("item %q status = %s before settlement, want LOADING", item.ID, item.Status)
		}
	}

	for id, call := range calls {
		call.done <- stubOutcome{image: []byte("img-" + id)}
	}
	<-done

	for _, item := range sess.Snapshot() {
		if item.Status != StatusSuccess {
			t.Fatalf("item %q status = %s after fan-in, want SUCCESS", item.ID, item.Status)
		}
		if string(item.Image) != "img-"+item.ID {
			t.Fatalf("item %q carries wrong image %q", item.ID, item.Image)
		}
	}
}

func TestGenerateAllIsolatesFailures(t *testing.T) {
	orders := map[string][]string{
		"failure settles first": {"side", "low", "high"},
		"failure settles last":  {"low", "high", "side"},
	}

	for name, order := range orders {
		t.Run(name, func(t *testing.T) {
			stub := newStubGenerator()
			orch := testOrchestrator(stub)
			sess := NewSession("s1", testImage)

			done := make(chan struct{})
			go func() {
				orch.GenerateAll(context.Background(), sess)
				close(done)
			}()

			calls := collectCalls(t, stub, 3)
			for _, id := range order {
				call := calls[id]
				if id == "side" {
					call.done <- stubOutcome{err: fmt.Errorf("network down")}
				} else {
					call.done <- stubOutcome{image: []byte("img-" + id)}
				}
			}
			<-done

			for _, item := range sess.Snapshot() {
				switch item.ID {
				case "side":
					if item.Status != StatusError || item.Error != "network down" {
						t.Fatalf("side = %+v, want ERROR", item)
					}
				default:
					if item.Status != StatusSuccess || string(item.Image) != "img-"+item.ID {
						t.Fatalf("%s = %+v, want SUCCESS", item.ID, item)
					}
				}
			}
		})
	}
}

func TestGenerateAllComposesPromptFromSessionInputs(t *testing.T) {
	stub := newStubGenerator()
	orch := testOrchestrator(stub)
	sess := NewSession("s1", testImage)
	sess.SetInputs("a red couch", "cinematic")

	done := make(chan struct{})
	go func() {
		orch.GenerateAll(context.Background(), sess)
		close(done)
	}()

	calls := collectCalls(t, stub, 3)
	stylePrompt := catalog.StylePrompt("cinematic")
	for id, call := range calls {
		angle, _ := catalog.AngleByID(id)
		want := Compose(angle.Prompt, "a red couch", stylePrompt)
		if call.prompt != want {
			t.Fatalf("prompt for %s = %q, want %q", id, call.prompt, want)
		}
		call.done <- stubOutcome{image: []byte("img")}
	}
	<-done
}

func TestRegenerateOneAffectsOnlyTarget(t *testing.T) {
	stub := newStubGenerator()
	orch := testOrchestrator(stub)
	sess := NewSession("s1", testImage)

	done := make(chan struct{})
	go func() {
		orch.GenerateAll(context.Background(), sess)
		close(done)
	}()
	for id, call := range collectCalls(t, stub, 3) {
		call.done <- stubOutcome{image: []byte("img-" + id)}
	}
	<-done

	before := sess.Snapshot()

	regenDone := make(chan struct{})
	go func() {
		orch.RegenerateOne(context.Background(), sess, "low")
		close(regenDone)
	}()

	call := collectCalls(t, stub, 1)["low"]

	// Target is LOADING, siblings untouched mid-flight.
	for _, item := range sess.Snapshot() {
		if item.ID == "low" {
			if item.Status != StatusLoading {
				t.Fatalf("low status = %s mid-regeneration, want LOADING", item.Status)
			}
			continue
		}
		if item.Status != StatusSuccess {
			t.Fatalf("sibling %q disturbed mid-regeneration: %+v", item.ID, item)
		}
	}

	call.done <- stubOutcome{err: fmt.Errorf("policy block")}
	<-regenDone

	after := sess.Snapshot()
	for i := range after {
		if after[i].ID == "low" {
			if after[i].Status != StatusError || after[i].Error != "policy block" {
				t.Fatalf("low = %+v, want ERROR", after[i])
			}
			continue
		}
		if !reflect.DeepEqual(before[i], after[i]) {
			t.Fatalf("sibling %q changed: %+v vs %+v", after[i].ID, before[i], after[i])
		}
	}
}

func TestRegenerateOneUnknownIDIsNoOp(t *testing.T) {
	stub := newStubGenerator()
	orch := testOrchestrator(stub)
	sess := NewSession("s1", testImage)

	before := sess.Snapshot()
	orch.RegenerateOne(context.Background(), sess, "front")
	after := sess.Snapshot()

	if !reflect.DeepEqual(before, after) {
		t.Fatalf("collection changed: %+v vs %+v", before, after)
	}
	select {
	case call := <-stub.calls:
		t.Fatalf("unexpected generation call for %q", call.angleID)
	default:
	}
}

func TestGenerateAllSupersedesOutstandingRun(t *testing.T) {
	stub := newStubGenerator()
	orch := testOrchestrator(stub)
	sess := NewSession("s1", testImage)
	sess.SetInputs("first", "")

	firstDone := make(chan struct{})
	go func() {
		orch.GenerateAll(context.Background(), sess)
		close(firstDone)
	}()
	firstCalls := collectCalls(t, stub, 3)

	// A second bulk run starts while the first is still outstanding.
	sess.SetInputs("second", "")
	secondDone := make(chan struct{})
	go func() {
		orch.GenerateAll(context.Background(), sess)
		close(secondDone)
	}()
	secondCalls := collectCalls(t, stub, 3)
	for id, call := range secondCalls {
		call.done <- stubOutcome{image: []byte("second-" + id)}
	}
	<-secondDone

	// The superseded run settles afterwards; its results must be discarded.
	for id, call := range firstCalls {
		call.done <- stubOutcome{image: []byte("first-" + id)}
	}
	<-firstDone

	for _, item := range sess.Snapshot() {
		if item.Status != StatusSuccess || string(item.Image) != "second-"+item.ID {
			t.Fatalf("item %q = %+v, want result from the superseding run", item.ID, item)
		}
	}
}

func TestReplaceSourceResetsItemsAndDiscardsInFlight(t *testing.T) {
	stub := newStubGenerator()
	orch := testOrchestrator(stub)
	sess := NewSession("s1", testImage)

	done := make(chan struct{})
	go func() {
		orch.GenerateAll(context.Background(), sess)
		close(done)
	}()
	calls := collectCalls(t, stub, 3)

	sess.ReplaceSource(genai.SourceImage{Data: []byte("new"), MIMEType: "image/jpeg"})

	for _, item := range sess.Snapshot() {
		if item.Status != StatusPending {
			t.Fatalf("item %q status = %s after new upload, want PENDING", item.ID, item.Status)
		}
	}

	for id, call := range calls {
		call.done <- stubOutcome{image: []byte("stale-" + id)}
	}
	<-done

	for _, item := range sess.Snapshot() {
		if item.Status != StatusPending {
			t.Fatalf("stale settlement overwrote item %q: %+v", item.ID, item)
		}
	}
}

// A quick sanity check that concurrent snapshots and settlements do not
// race; meaningful under -race.
func TestConcurrentSnapshotAndSettle(t *testing.T) {
	stub := newStubGenerator()
	orch := testOrchestrator(stub)
	sess := NewSession("s1", testImage)

	var wg sync.WaitGroup
	stop := make(chan struct{})
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-stop:
				return
			default:
				_ = sess.Snapshot()
			}
		}
	}()

	done := make(chan struct{})
	go func() {
		orch.GenerateAll(context.Background(), sess)
		close(done)
	}()
	for id, call := range collectCalls(t, stub, 3) {
		call.done <- stubOutcome{image: []byte("img-" + id)}
	}
	<-done
	close(stop)
	wg.Wait()
}

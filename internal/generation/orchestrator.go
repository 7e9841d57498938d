package generation

import (
	"context"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"anglegen/internal/catalog"
	"anglegen/internal/genai"
)

// Generator is the one contract the orchestrator needs from the upstream
// model: submit (image, prompt), get image bytes or a failure.
type Generator interface {
	Generate(ctx context.Context, src genai.SourceImage, prompt string) ([]byte, error)
}

// Orchestrator drives bulk generation and single-item regeneration over a
// session's item collection. Failures are per-item data: no item's outcome
// ever aborts or delays a sibling.
type Orchestrator struct {
	generator Generator
	angles    []catalog.Angle
	logger    zerolog.Logger
}

func NewOrchestrator(gen Generator, logger zerolog.Logger) *Orchestrator {
	return &Orchestrator{
		generator: gen,
		angles:    catalog.Angles(),
		logger:    logger,
	}
}

// GenerateAll runs one generation per configured angle concurrently. Every
// item flips to LOADING before the first request is issued; each item then
// settles independently as its own request completes, in whatever order the
// upstream answers. GenerateAll returns once all requests have settled.
func (o *Orchestrator) GenerateAll(ctx context.Context, sess *Session) {
	run := sess.beginBulkRun()

	g, gctx := errgroup.WithContext(ctx)
	for _, angle := range o.angles {
		angle := angle
		g.Go(func() error {
			// Always nil: item failures stay in the item, so one angle
			// can never short-circuit the group.
			o.generateItem(gctx, sess, run, angle)
			return nil
		})
	}
	_ = g.Wait()
}

// RegenerateOne re-runs a single angle with a fresh snapshot of the
// session's inputs, leaving every other item untouched. An identifier
// outside the configured angle set is a silent no-op.
func (o *Orchestrator) RegenerateOne(ctx context.Context, sess *Session, angleID string) {
	var target catalog.Angle
	found := false
	for _, angle := range o.angles {
		if angle.ID == angleID {
			target = angle
			found = true
			break
		}
	}
	if !found {
		return
	}

	run, ok := sess.beginItemRun(angleID)
	if !ok {
		return
	}
	o.generateItem(ctx, sess, run, target)
}

func (o *Orchestrator) generateItem(ctx context.Context, sess *Session, run runSnapshot, angle catalog.Angle) {
	prompt := Compose(angle.Prompt, run.detail, run.stylePrompt)

	image, err := o.generator.Generate(ctx, run.source, prompt)
	var res Result
	if err != nil {
		res = Result{Err: err.Error(), Kind: string(genai.KindUpstream)}
		if ge, ok := genai.AsError(err); ok {
			res.Kind = string(ge.Kind)
		}
	} else {
		res = Result{Image: image}
	}

	if !sess.applyResult(run.epoch, angle.ID, res) {
		o.logger.Debug().
			Str("session", sess.ID).
			Str("angle", angle.ID).
			Uint64("epoch", run.epoch).
			Msg("generation: discarded stale result")
		return
	}

	evt := o.logger.Info()
	if err != nil {
		evt = o.logger.Warn().Err(err)
	}
	evt.Str("session", sess.ID).Str("angle", angle.ID).Msg("generation: item settled")
}

// Package insight turns a window of check-ins into model-generated insights:
// reduce, serialize, prompt, call the model, then validate what comes back.
package insight

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/SUMMERxKx/nwHacks/internal"
	"github.com/SUMMERxKx/nwHacks/internal/llm"
	"github.com/SUMMERxKx/nwHacks/internal/window"
)

// Stage is the last state a pipeline run reached.
type Stage string

const (
	StageIdle           Stage = "idle"
	StageWindowResolved Stage = "window_resolved"
	StageDataFetched    Stage = "data_fetched"
	StageReduced        Stage = "reduced"
	StagePromptBuilt    Stage = "prompt_built"
	StageModelCalled    Stage = "model_called"
	StageParsed         Stage = "parsed"
	StageDone           Stage = "done"
)

var (
	errInsufficientData = errors.New("insufficient check-ins")
	errNoModel          = errors.New("no model client configured")
)

// CheckInSource is the read side of the check-in store.
type CheckInSource interface {
	ListCheckIns(ctx context.Context, userID, start, end string) ([]internal.CheckIn, error)
}

// Request carries everything a run needs. UserID is always explicit.
type Request struct {
	UserID  string
	Period  window.Period
	Message string
	Tone    Tone
}

// Descriptor is one insight type expressed as data.
type Descriptor[T any] struct {
	Kind Kind
	// Validate runs before the window is resolved. Its error reaches the caller.
	Validate func(Request) error
	// MinCheckIns short-circuits to Fallback without calling the model.
	MinCheckIns int
	System      func(Request) string
	User        func(req Request, memory MemorySnapshot, serialized string) string
	Parse       func(raw string, w window.Window) (T, error)
	// Fallback must return a fresh value on every call.
	Fallback func() T
}

type Pipeline struct {
	source  CheckInSource
	model   llm.Completer
	logger  internal.Logger
	timeout time.Duration
	now     func() time.Time
}

// NewPipeline wires a pipeline. model may be nil, in which case every run
// that gets as far as the model call resolves to its fallback.
func NewPipeline(source CheckInSource, model llm.Completer, logger internal.Logger, timeout time.Duration) *Pipeline {
	return &Pipeline{
		source:  source,
		model:   model,
		logger:  logger,
		timeout: timeout,
		now:     time.Now,
	}
}

// WithClock replaces the wall clock used to resolve windows.
func (p *Pipeline) WithClock(now func() time.Time) *Pipeline {
	cp := *p
	cp.now = now
	return &cp
}

// Run executes d for req. The only error it returns comes from d.Validate;
// every later failure is logged and replaced by d.Fallback().
func Run[T any](ctx context.Context, p *Pipeline, d *Descriptor[T], req Request) (T, error) {
	if d.Validate != nil {
		if err := d.Validate(req); err != nil {
			var zero T
			return zero, err
		}
	}

	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	log := p.logger.With("insight", string(d.Kind), "user_id", req.UserID)
	started := time.Now()
	out, stage, err := execute(ctx, p, d, req)
	switch {
	case errors.Is(err, errInsufficientData):
		log.Infof("skipping model call: %v", err)
		return d.Fallback(), nil
	case err != nil:
		log.Errorf("insight pipeline failed after stage %s: %v", stage, err)
		return d.Fallback(), nil
	}
	log.Debugf("insight pipeline done in %s", time.Since(started))
	return out, nil
}

func execute[T any](ctx context.Context, p *Pipeline, d *Descriptor[T], req Request) (out T, stage Stage, err error) {
	stage = StageIdle
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()

	w := window.Resolve(req.Period, p.now())
	stage = StageWindowResolved

	checkIns, err := p.source.ListCheckIns(ctx, req.UserID, w.Start, w.End)
	if err != nil {
		return out, stage, fmt.Errorf("%w: list check-ins: %w", internal.ErrUpstreamUnavailable, err)
	}
	stage = StageDataFetched
	if len(checkIns) < d.MinCheckIns {
		return out, stage, fmt.Errorf("%w: have %d, need %d", errInsufficientData, len(checkIns), d.MinCheckIns)
	}

	// Newest first, so the memory lists favour recent answers.
	sort.SliceStable(checkIns, func(i, j int) bool { return checkIns[i].Date > checkIns[j].Date })
	memory := Reduce(checkIns)
	serialized := Serialize(checkIns)
	stage = StageReduced

	system, user := d.System(req), d.User(req, memory, serialized)
	stage = StagePromptBuilt

	if p.model == nil {
		return out, stage, fmt.Errorf("%w: %w", internal.ErrUpstreamUnavailable, errNoModel)
	}
	raw, err := p.model.Complete(ctx, system, user)
	if err != nil {
		return out, stage, fmt.Errorf("%w: %w", internal.ErrUpstreamUnavailable, err)
	}
	stage = StageModelCalled

	out, err = d.Parse(raw, w)
	if err != nil {
		return out, stage, err
	}
	return out, StageDone, nil
}

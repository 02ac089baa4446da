// Package chain runs the keyframe chaining loop that turns a single prompt
// into a sequence of continuous video segments. Each segment starts from the
// exact frame the previous segment ended on, which is what makes the
// concatenated clips look like one continuous video.
package chain

import (
	gocontext "context"
	"time"

	"framechain/pkg/api"
	"framechain/pkg/broker"
	"framechain/pkg/clip"
	"framechain/pkg/continuity"
	"framechain/pkg/events"
	"framechain/pkg/frame"
	"framechain/pkg/job"
	"framechain/pkg/relay"
	"framechain/pkg/store"
	"framechain/pkg/util/context"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// SetupFunc is the function called when a run is submitted.
type SetupFunc func(ctx context.Context) error

// TearDownFunc is the function called when a run is finished. (Either success or failure)
type TearDownFunc func(ctx context.Context, state api.RunState) error

// Orchestrator defines the entries of the chain engine.
type Orchestrator interface {
	// Run executes the whole chain for the given spec and blocks until the
	// run reaches a terminal status. The returned error is non-nil only
	// when no segment could even be attempted (invalid spec, first frame
	// failure), per-segment failures are recorded on the run state instead.
	Run(ctx context.Context, spec api.RunSpec) (api.RunState, error)

	// Set function to be called when a run is submitted.
	SetSetupFunc(SetupFunc)

	// Set function to be called when a run is finished. (Either success or failure)
	SetTearDownFunc(TearDownFunc)

	// ListRuns returns a list of the runs in the system. Information returned are runID and name
	ListRuns(ctx context.Context) ([]api.RunInfo, error)

	RunState(ctx context.Context, rid string) (api.RunState, error)

	SegmentState(ctx context.Context, rid string, index int) (api.SegmentState, error)
}

// Dependencies are the collaborators of the orchestrator. Broker is
// optional, every other field is required.
type Dependencies struct {
	Frames    frame.Synthesizer
	Predictor continuity.Predictor
	Relay     relay.Relay
	Clips     clip.Synthesizer
	Fetch     frame.Fetcher
	Store     store.Store
	Broker    broker.Broker
}

// Config tunes the orchestrator.
type Config struct {
	// TimeBudget bounds the wall-clock duration of a whole run. Segments
	// not started when the budget runs out are marked SKIPPED. Zero means
	// no budget.
	TimeBudget time.Duration `json:"time_budget" env:"CHAIN_TIME_BUDGET"`

	// EventsExchange is the exchange run lifecycle events are published to.
	EventsExchange string `json:"events_exchange" env:"CHAIN_EVENTS_EXCHANGE" envDefault:"framechain.ex.runs"`
}

// New returns a new instance of Orchestrator.
func New(deps Dependencies, cfg Config) (Orchestrator, error) {
	switch {
	case deps.Frames == nil:
		return nil, errors.New("frame synthesizer is required")
	case deps.Predictor == nil:
		return nil, errors.New("continuity predictor is required")
	case deps.Relay == nil:
		return nil, errors.New("hosting relay is required")
	case deps.Clips == nil:
		return nil, errors.New("clip synthesizer is required")
	case deps.Fetch == nil:
		return nil, errors.New("frame fetcher is required")
	case deps.Store == nil:
		return nil, errors.New("run store is required")
	}
	if cfg.EventsExchange == "" {
		cfg.EventsExchange = "framechain.ex.runs"
	}
	return &orchestrator{deps: deps, cfg: cfg}, nil
}

type orchestrator struct {
	deps         Dependencies
	cfg          Config
	setupFunc    SetupFunc
	teardownFunc TearDownFunc
}

// segmentOutcome is what a successful segment hands to the next one.
type segmentOutcome struct {
	endFrame    api.MediaAsset
	description string
	videoURL    string
}

func (o *orchestrator) Run(ctx context.Context, spec api.RunSpec) (api.RunState, error) {
	if err := spec.Validate(); err != nil {
		return api.RunState{}, errors.Wrap(err, "invalid run spec")
	}
	rid := ctx.RunID()
	if rid == "" {
		rid = uuid.New().String()
		ctx = context.WithRunID(ctx, rid)
	}
	if o.cfg.TimeBudget > 0 {
		budgeted, cancel := gocontext.WithTimeout(ctx, o.cfg.TimeBudget)
		defer cancel()
		ctx = context.WithRunID(context.FromContext(budgeted), rid)
	}

	count := spec.SegmentCount()
	ctx.Logger().Infof("starting run %s: %ds target as %d segments of %ds", spec.Name, spec.TargetDuration, count, spec.SegmentDuration)

	// Call setup func
	if o.setupFunc != nil {
		if err := o.setupFunc(ctx); err != nil {
			return api.RunState{}, err
		}
	}

	// Create run & segments into store
	if err := o.deps.Store.CreateRun(ctx, rid, spec); err != nil {
		return api.RunState{}, errors.Wrapf(err, "cannot create run %s", spec.Name)
	}
	if err := o.deps.Store.CreateSegments(ctx, rid, count); err != nil {
		return api.RunState{}, errors.Wrapf(err, "cannot create segments for run %s", spec.Name)
	}
	o.publish(ctx, events.Event{
		Type:         events.TypeRunSubmitted,
		RunID:        rid,
		SegmentIndex: -1,
		Status:       api.StatusCreated,
		Data:         events.RunEventData{TargetDuration: spec.TargetDuration},
	})

	// The chain needs an anchor: without a first frame there is nothing
	// to predict from and nothing to chain, so this failure is fatal.
	current, err := o.deps.Frames.Synthesize(ctx, spec.Prompt, spec.Style)
	if err != nil {
		o.setRunStatus(ctx, rid, api.StatusFailed)
		o.finish(ctx, rid, api.StatusFailed, 0, spec)
		state, _ := o.deps.Store.RunState(ctx, rid)
		return state, errors.Wrap(err, "cannot synthesize first frame")
	}
	// The regeneration prompt of the frame currently chained from. Starts
	// as the styled run prompt and becomes the continuity description of
	// whichever frame last closed a segment.
	currentDesc := frame.StylePrompt(spec.Prompt, spec.Style)

	o.setRunStatus(ctx, rid, api.StatusRunning)

	succeeded := 0
	achieved := 0
	lastEndURL := ""
	for i := 0; i < count; i++ {
		sctx := context.WithSegment(ctx, i)
		if ctx.Err() != nil {
			sctx.Logger().Warnf("run budget exhausted, skipping segment %d", i)
			o.setSegmentStatus(sctx, rid, i, api.StatusSkipped, "run budget exhausted")
			continue
		}

		// The frame chained from is always the most recent end frame
		// actually produced, failed segments never advance it.
		if lastEndURL != "" && current.Hosted() && current.URL() != lastEndURL {
			sctx.Logger().Errorf("start frame %s does not match previous end frame %s", current.URL(), lastEndURL)
		}

		out, err := o.runSegment(sctx, rid, i, spec, &current, currentDesc)
		if err != nil {
			if job.IsTimeout(err) {
				sctx.Logger().Errorf("segment %d timed out: %s", i, err)
				o.setSegmentStatus(sctx, rid, i, api.StatusTimedOut, err.Error())
			} else {
				sctx.Logger().Errorf("segment %d failed: %s", i, err)
				o.setSegmentStatus(sctx, rid, i, api.StatusFailed, err.Error())
			}
			o.publish(sctx, events.Event{
				Type:         events.TypeSegmentFailed,
				RunID:        rid,
				SegmentIndex: i,
				Status:       api.StatusFailed,
				Data:         events.SegmentEventData{Failure: err.Error()},
			})
			continue
		}

		succeeded++
		achieved += spec.SegmentDuration
		current = out.endFrame
		currentDesc = out.description
		lastEndURL = out.endFrame.URL()
		o.publish(sctx, events.Event{
			Type:         events.TypeSegmentChained,
			RunID:        rid,
			SegmentIndex: i,
			Status:       api.StatusCompleted,
			Data:         events.SegmentEventData{VideoURL: out.videoURL, EndFrameURL: lastEndURL},
		})
	}

	status := api.StatusPartiallyCompleted
	switch succeeded {
	case count:
		status = api.StatusCompleted
	case 0:
		status = api.StatusFailed
	}
	o.setRunStatus(ctx, rid, status)
	o.finish(ctx, rid, status, achieved, spec)

	state, err := o.deps.Store.RunState(ctx, rid)
	if err != nil {
		return api.RunState{}, errors.Wrapf(err, "cannot get state for run %s", rid)
	}
	ctx.Logger().Infof("run finished with status %s, %ds of %ds achieved", status, achieved, spec.TargetDuration)
	return state, nil
}

// runSegment drives one link of the chain: predict the future frame, make
// both keyframes addressable by the video backend, synthesize the clip and
// resolve the end frame the next segment chains from.
func (o *orchestrator) runSegment(ctx context.Context, rid string, index int, spec api.RunSpec, current *api.MediaAsset, currentDesc string) (segmentOutcome, error) {
	o.setSegmentStatus(ctx, rid, index, api.StatusRunning, "")

	o.setSegmentPhase(ctx, rid, index, api.PhasePredicting)
	pred, err := o.deps.Predictor.Predict(ctx, *current, spec)
	if err != nil {
		return segmentOutcome{}, errors.Wrap(err, "cannot predict continuity")
	}
	if pred.Degraded {
		ctx.Logger().Warn("continuity prediction degraded to generic motion")
	}

	o.setSegmentPhase(ctx, rid, index, api.PhaseRelaying)
	if !current.Hosted() {
		url, err := o.deps.Relay.Relay(ctx, current.Bytes, currentDesc)
		if err != nil {
			// Without a hosted start frame the segment cannot even be
			// submitted. The unhosted frame stays current so the next
			// segment retries the relay.
			return segmentOutcome{}, errors.Wrap(err, "cannot host start frame")
		}
		current.AddURL(url)
		current.Origin = api.OriginRelayed
	}
	o.setSegmentStartFrame(ctx, rid, index, current.URL())

	if pred.EndFrame != nil && !pred.EndFrame.Hosted() {
		url, err := o.deps.Relay.Relay(ctx, pred.EndFrame.Bytes, pred.Description)
		if err != nil {
			// A lost end frame only costs dual-keyframe mode.
			ctx.Logger().Warnf("cannot host predicted end frame, falling back to single-keyframe mode: %s", err)
			pred.EndFrame = nil
		} else {
			pred.EndFrame.AddURL(url)
			pred.EndFrame.Origin = api.OriginRelayed
		}
	}

	o.setSegmentPhase(ctx, rid, index, api.PhaseSubmitting)
	req := clip.Request{
		Motion:        pred.Description,
		Duration:      spec.SegmentDuration,
		StartFrameURL: current.URL(),
	}
	if pred.EndFrame != nil {
		req.EndFrameURL = pred.EndFrame.URL()
	}
	h, err := o.deps.Clips.Submit(ctx, req)
	if err != nil {
		return segmentOutcome{}, errors.Wrap(err, "cannot submit segment clip")
	}

	o.setSegmentPhase(ctx, rid, index, api.PhasePolling)
	res, err := o.deps.Clips.Await(ctx, h)
	if err != nil {
		return segmentOutcome{}, err
	}

	o.setSegmentPhase(ctx, rid, index, api.PhaseChained)
	endFrame := o.resolveEndFrame(ctx, pred, res)
	if err := o.deps.Store.SetSegmentResult(ctx, rid, index, store.SegmentResult{
		Motion:       pred.Description,
		EndFrameURL:  endFrame.URL(),
		VideoURL:     res.VideoURL,
		ThumbnailURL: res.ThumbnailURL,
		Duration:     spec.SegmentDuration,
		Degraded:     pred.Degraded,
	}); err != nil {
		ctx.Logger().Error(errors.Wrapf(err, "cannot record result for segment %d", index))
	}
	o.setSegmentStatus(ctx, rid, index, api.StatusCompleted, "")

	return segmentOutcome{endFrame: endFrame, description: pred.Description, videoURL: res.VideoURL}, nil
}

// resolveEndFrame picks the frame the next segment chains from. A
// materialized prediction wins because the clip was interpolated towards it.
// Otherwise the last frame of the produced clip, exposed by the backend as
// the clip thumbnail, becomes the anchor. The thumbnail already lives on the
// video backend so it needs no relay, only its bytes for the next vision
// analysis.
func (o *orchestrator) resolveEndFrame(ctx context.Context, pred continuity.Prediction, res clip.Result) api.MediaAsset {
	if pred.EndFrame != nil {
		return *pred.EndFrame
	}
	endFrame := api.MediaAsset{
		Kind:   api.AssetImage,
		Origin: api.OriginSynthesized,
		URLs:   []string{res.ThumbnailURL},
	}
	bytes, err := o.deps.Fetch.Fetch(ctx, res.ThumbnailURL)
	if err != nil {
		ctx.Logger().Warnf("cannot fetch clip thumbnail %s: %s", res.ThumbnailURL, err)
	} else {
		endFrame.Bytes = bytes
	}
	return endFrame
}

// finish publishes the terminal event and calls the teardown func.
func (o *orchestrator) finish(ctx context.Context, rid string, status api.Status, achieved int, spec api.RunSpec) {
	o.publish(ctx, events.Event{
		Type:         events.TypeRunFinished,
		RunID:        rid,
		SegmentIndex: -1,
		Status:       status,
		Data:         events.RunEventData{AchievedDuration: achieved, TargetDuration: spec.TargetDuration},
	})
	if o.teardownFunc != nil {
		state, err := o.deps.Store.RunState(ctx, rid)
		if err != nil {
			ctx.Logger().Error(errors.Wrap(err, "cannot get run state for teardown"))
			return
		}
		if err := o.teardownFunc(ctx, state); err != nil {
			ctx.Logger().Error(errors.Wrap(err, "error calling teardown function"))
		}
	}
}

func (o *orchestrator) publish(ctx context.Context, evt events.Event) {
	if o.deps.Broker == nil {
		return
	}
	evt.Time = time.Now()
	if err := o.deps.Broker.Publish(ctx, evt, o.cfg.EventsExchange, ""); err != nil {
		ctx.Logger().Warnf("cannot publish event %s: %s", evt, err)
	}
}

func (o *orchestrator) setRunStatus(ctx context.Context, rid string, status api.Status) {
	if err := o.deps.Store.SetRunStatus(ctx, rid, status); err != nil {
		ctx.Logger().Error(errors.Wrapf(err, "cannot set status %s for run", status))
	}
}

func (o *orchestrator) setSegmentStatus(ctx context.Context, rid string, index int, status api.Status, failure string) {
	if err := o.deps.Store.SetSegmentStatus(ctx, rid, index, status, failure); err != nil {
		ctx.Logger().Error(errors.Wrapf(err, "cannot set status %s for segment %d", status, index))
	}
}

func (o *orchestrator) setSegmentPhase(ctx context.Context, rid string, index int, phase api.Phase) {
	if err := o.deps.Store.SetSegmentPhase(ctx, rid, index, phase); err != nil {
		ctx.Logger().Error(errors.Wrapf(err, "cannot set phase %s for segment %d", phase, index))
	}
}

func (o *orchestrator) setSegmentStartFrame(ctx context.Context, rid string, index int, url string) {
	if err := o.deps.Store.SetSegmentStartFrame(ctx, rid, index, url); err != nil {
		ctx.Logger().Error(errors.Wrapf(err, "cannot set start frame for segment %d", index))
	}
}

func (o *orchestrator) SetSetupFunc(f SetupFunc) {
	o.setupFunc = f
}

func (o *orchestrator) SetTearDownFunc(f TearDownFunc) {
	o.teardownFunc = f
}

func (o *orchestrator) ListRuns(ctx context.Context) ([]api.RunInfo, error) {
	runs, err := o.deps.Store.ListRuns(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "cannot list runs")
	}
	var res []api.RunInfo
	for rid, name := range runs {
		res = append(res, api.RunInfo{
			RunID: rid,
			Name:  name,
		})
	}
	return res, nil
}

func (o *orchestrator) RunState(ctx context.Context, rid string) (api.RunState, error) {
	return o.deps.Store.RunState(ctx, rid)
}

func (o *orchestrator) SegmentState(ctx context.Context, rid string, index int) (api.SegmentState, error) {
	return o.deps.Store.SegmentState(ctx, rid, index)
}

// Package assemble folds segment lifecycle events into an ordered playlist
// of clip URLs per run. The chain publishes one SEGMENT_CHAINED event per
// finished segment, so a consumer can build the final video without polling
// the controller.
package assemble

import (
	"sort"
	"sync"

	"framechain/pkg/api"
	"framechain/pkg/events"
	"framechain/pkg/util/context"

	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
)

// Playlist is the ordered list of clip URLs of one run.
type Playlist struct {
	RunID            string
	Status           api.Status
	Clips            []Clip
	AchievedDuration int
}

// Clip is one entry of a playlist.
type Clip struct {
	SegmentIndex int
	VideoURL     string
}

// FinishedFunc is called when a run reaches a terminal status, with its
// assembled playlist.
type FinishedFunc func(ctx context.Context, p Playlist)

// Assembler accumulates run events into playlists. Safe for concurrent use.
type Assembler struct {
	mu         sync.Mutex
	runs       map[string]*Playlist
	onFinished FinishedFunc
}

// New returns an Assembler. onFinished may be nil.
func New(onFinished FinishedFunc) *Assembler {
	return &Assembler{
		runs:       make(map[string]*Playlist),
		onFinished: onFinished,
	}
}

// Handle folds one event into the matching playlist. It satisfies
// broker.HandleFunc.
func (a *Assembler) Handle(ctx context.Context, evt events.Event) error {
	if evt.RunID == "" {
		return errors.New("event has no run id")
	}

	a.mu.Lock()
	p, exists := a.runs[evt.RunID]
	if !exists {
		p = &Playlist{RunID: evt.RunID, Status: api.StatusRunning}
		a.runs[evt.RunID] = p
	}

	switch evt.Type {
	case events.TypeRunSubmitted:
		// Playlist already created above

	case events.TypeSegmentChained:
		var data events.SegmentEventData
		if err := mapstructure.Decode(evt.Data, &data); err != nil {
			a.mu.Unlock()
			return errors.Wrapf(err, "cannot decode data of event %s", evt)
		}
		p.Clips = append(p.Clips, Clip{
			SegmentIndex: evt.SegmentIndex,
			VideoURL:     data.VideoURL,
		})
		sort.Slice(p.Clips, func(i, j int) bool {
			return p.Clips[i].SegmentIndex < p.Clips[j].SegmentIndex
		})

	case events.TypeSegmentFailed:
		ctx.Logger().Warnf("segment %d of run %s failed, playlist will have a gap", evt.SegmentIndex, evt.RunID)

	case events.TypeRunFinished:
		var data events.RunEventData
		if err := mapstructure.Decode(evt.Data, &data); err != nil {
			a.mu.Unlock()
			return errors.Wrapf(err, "cannot decode data of event %s", evt)
		}
		p.Status = evt.Status
		p.AchievedDuration = data.AchievedDuration
		finished := *p
		a.mu.Unlock()
		if a.onFinished != nil {
			a.onFinished(ctx, finished)
		}
		return nil

	default:
		ctx.Logger().Tracef("ignoring event type %s", evt.Type)
	}

	a.mu.Unlock()
	return nil
}

// Playlist returns a copy of the playlist of the given run.
func (a *Assembler) Playlist(runID string) (Playlist, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	p, exists := a.runs[runID]
	if !exists {
		return Playlist{}, false
	}
	return *p, true
}

package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"framechain/pkg/api"
)

type run struct {
	spec       api.RunSpec
	status     api.Status
	segments   []*segment
	createTime *time.Time
	startTime  *time.Time
	endTime    *time.Time
}

type segment struct {
	index         int
	status        api.Status
	phase         api.Phase
	startFrameURL string
	endFrameURL   string
	videoURL      string
	thumbnailURL  string
	motion        string
	duration      int
	degraded      bool
	failure       string
	startTime     *time.Time
	endTime       *time.Time
}

// NewInMemoryStore returns a new InMemory store
func NewInMemoryStore() (Store, error) {
	return &inMemory{
		runs: make(map[string]*run),
	}, nil
}

type inMemory struct {
	mu   sync.RWMutex
	runs map[string]*run
}

func (s *inMemory) CreateRun(ctx context.Context, runID string, spec api.RunSpec) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	s.runs[runID] = &run{
		spec:       spec,
		status:     api.StatusCreated,
		createTime: &now,
	}
	return nil
}

func (s *inMemory) CreateSegments(ctx context.Context, runID string, count int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, exists := s.runs[runID]
	if !exists {
		return NotFoundError(fmt.Sprintf("run %s", runID))
	}
	segments := make([]*segment, count)
	for i := 0; i < count; i++ {
		segments[i] = &segment{
			index:  i,
			status: api.StatusCreated,
		}
	}
	r.segments = segments
	return nil
}

func (s *inMemory) SetRunStatus(ctx context.Context, runID string, status api.Status) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, exists := s.runs[runID]
	if !exists {
		return NotFoundError(fmt.Sprintf("run %s", runID))
	}
	r.status = status
	now := time.Now()
	if status.Finished() {
		r.endTime = &now
	} else if status == api.StatusRunning {
		r.startTime = &now
	}
	return nil
}

func (s *inMemory) segment(runID string, index int) (*segment, error) {
	r, exists := s.runs[runID]
	if !exists {
		return nil, NotFoundError(fmt.Sprintf("run %s", runID))
	}
	if index < 0 || index >= len(r.segments) {
		return nil, NotFoundError(fmt.Sprintf("segment %d of run %s", index, runID))
	}
	return r.segments[index], nil
}

func (s *inMemory) SetSegmentStatus(ctx context.Context, runID string, index int, status api.Status, failure string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	seg, err := s.segment(runID, index)
	if err != nil {
		return err
	}
	seg.status = status
	seg.failure = failure
	now := time.Now()
	if status == api.StatusRunning {
		seg.startTime = &now
	} else if status.Finished() {
		seg.endTime = &now
	}
	return nil
}

func (s *inMemory) SetSegmentPhase(ctx context.Context, runID string, index int, phase api.Phase) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	seg, err := s.segment(runID, index)
	if err != nil {
		return err
	}
	seg.phase = phase
	return nil
}

func (s *inMemory) SetSegmentStartFrame(ctx context.Context, runID string, index int, url string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	seg, err := s.segment(runID, index)
	if err != nil {
		return err
	}
	seg.startFrameURL = url
	return nil
}

func (s *inMemory) SetSegmentResult(ctx context.Context, runID string, index int, res SegmentResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	seg, err := s.segment(runID, index)
	if err != nil {
		return err
	}
	seg.motion = res.Motion
	seg.endFrameURL = res.EndFrameURL
	seg.videoURL = res.VideoURL
	seg.thumbnailURL = res.ThumbnailURL
	seg.duration = res.Duration
	seg.degraded = res.Degraded
	return nil
}

func (s *inMemory) ListRuns(ctx context.Context) (map[string]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	res := make(map[string]string)
	for k, v := range s.runs {
		res[k] = v.spec.Name
	}
	return res, nil
}

func (s *inMemory) RunState(ctx context.Context, runID string) (api.RunState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, exists := s.runs[runID]
	if !exists {
		return api.RunState{}, NotFoundError(fmt.Sprintf("run %s", runID))
	}

	achieved := 0
	segments := make([]api.SegmentState, len(r.segments))
	for i, seg := range r.segments {
		segments[i] = segmentState(seg)
		if seg.status == api.StatusCompleted {
			achieved += seg.duration
		}
	}
	return api.RunState{
		Name:             r.spec.Name,
		RunID:            runID,
		Status:           r.status,
		Prompt:           r.spec.Prompt,
		Style:            r.spec.Style,
		TargetDuration:   r.spec.TargetDuration,
		SegmentDuration:  r.spec.SegmentDuration,
		AchievedDuration: achieved,
		Segments:         segments,
		CreateTime:       r.createTime,
		StartTime:        r.startTime,
		EndTime:          r.endTime,
	}, nil
}

func (s *inMemory) SegmentState(ctx context.Context, runID string, index int) (api.SegmentState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	seg, err := s.segment(runID, index)
	if err != nil {
		return api.SegmentState{}, err
	}
	return segmentState(seg), nil
}

func segmentState(seg *segment) api.SegmentState {
	return api.SegmentState{
		Index:         seg.index,
		Status:        seg.status,
		Phase:         seg.phase,
		StartFrameURL: seg.startFrameURL,
		EndFrameURL:   seg.endFrameURL,
		VideoURL:      seg.videoURL,
		ThumbnailURL:  seg.thumbnailURL,
		Motion:        seg.motion,
		Duration:      seg.duration,
		Degraded:      seg.degraded,
		Failure:       seg.failure,
		StartTime:     seg.startTime,
		EndTime:       seg.endTime,
	}
}

package context

import (
	gocontext "context"
	"strconv"

	"github.com/sirupsen/logrus"
)

// Context extends the regular golang context.Context interface with
// functionnalities such as access to a field-scoped logger and to the
// identifiers of the current run, segment and job.
type Context interface {
	gocontext.Context
	Logger() *logrus.Entry
	RunID() string
	SegmentIndex() int
	JobID() string
}

// Background returns a non-nil, empty Context.
func Background() Context {
	return ctx{
		Context: gocontext.Background(),
		segment: -1,
	}
}

// FromContext returns a new context from the given go context.
func FromContext(c gocontext.Context) Context {
	return ctx{
		Context: c,
		segment: -1,
	}
}

// WithRunID returns a copy of the context with a run identifier.
func WithRunID(c Context, rid string) Context {
	return ctx{
		c,
		rid,
		c.SegmentIndex(),
		c.JobID(),
	}
}

// WithSegment returns a copy of the context with a segment index.
func WithSegment(c Context, index int) Context {
	return ctx{
		c,
		c.RunID(),
		index,
		c.JobID(),
	}
}

// WithJobID returns a copy of the context with a jobID.
func WithJobID(c Context, jobID string) Context {
	return ctx{
		c,
		c.RunID(),
		c.SegmentIndex(),
		jobID,
	}
}

type ctx struct {
	gocontext.Context
	runID   string
	segment int
	jobID   string
}

func (c ctx) Logger() *logrus.Entry {
	l := logrus.New()
	l.SetLevel(logrus.TraceLevel)
	l.SetFormatter(&logrus.TextFormatter{
		DisableColors: true,
		FullTimestamp: true,
		FieldMap: logrus.FieldMap{
			logrus.FieldKeyMsg: "message",
		},
	})
	e := logrus.NewEntry(l)
	if c.RunID() != "" {
		e = e.WithField("run_id", c.RunID())
	}
	if c.SegmentIndex() >= 0 {
		e = e.WithField("segment", strconv.Itoa(c.SegmentIndex()))
	}
	if c.JobID() != "" {
		e = e.WithField("job_id", c.JobID())
	}
	return e
}

func (c ctx) RunID() string {
	return c.runID
}

// SegmentIndex returns the current segment index, -1 when outside of the
// segment loop.
func (c ctx) SegmentIndex() int {
	return c.segment
}

func (c ctx) JobID() string {
	return c.jobID
}

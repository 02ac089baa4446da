package common

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"text/tabwriter"
	"time"

	"framechain/pkg/api"
)

const (
	progressBarWidth       = 20
	progressBarChar        = "■"
	progressBarPlaceholder = "·"
)

var (
	statusIconMap map[api.Status]string
)

func init() {
	statusIconMap = map[api.Status]string{
		api.StatusCreated:            "◷",
		api.StatusSubmitted:          "◷",
		api.StatusRunning:            "●",
		api.StatusCompleted:          "✔",
		api.StatusPartiallyCompleted: "◐",
		api.StatusFailed:             "✖",
		api.StatusTimedOut:           "⧖",
		api.StatusSkipped:            "○",
	}
}

// PrintOptions defines print options
type PrintOptions struct{}

// PrintRun prints the run state in the given writer
func PrintRun(w io.Writer, run api.RunState, opts PrintOptions) {
	fmt.Fprintln(w)

	// Header
	tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
	fmt.Fprintf(tw, "Name:\t%s\n", run.Name)
	fmt.Fprintf(tw, "RunID:\t%s\n", run.RunID)
	fmt.Fprintf(tw, "Status:\t%s\n", run.Status)
	fmt.Fprintf(tw, "Prompt:\t%s\n", run.Prompt)
	if run.Style != "" {
		fmt.Fprintf(tw, "Style:\t%s\n", run.Style)
	}
	fmt.Fprintf(tw, "Video:\t%s\n", videoProgression(run))
	fmt.Fprintf(tw, "Created:\t%s\n", date(run.CreateTime))
	fmt.Fprintf(tw, "Started:\t%s\n", date(run.StartTime))
	fmt.Fprintf(tw, "Finished:\t%s\n", date(run.EndTime))
	fmt.Fprintf(tw, "Duration:\t%s\n", duration(run.StartTime, run.EndTime))
	tw.Flush()
	fmt.Fprintln(w)

	tw.Init(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "SEGMENT\tPHASE\tDURATION\tMOTION")
	fmt.Fprintf(tw, "%s %s\t\t\t\n", statusIconMap[run.Status], run.Name)
	for i, seg := range run.Segments {
		prefix := "├"
		if i == len(run.Segments)-1 {
			prefix = "└"
		}
		printSegment(tw, seg, prefix, opts)
	}
	tw.Flush()
}

func printSegment(w io.Writer, seg api.SegmentState, prefix string, opts PrintOptions) {
	motion := seg.Motion
	if seg.Failure != "" {
		motion = seg.Failure
	}
	if seg.Degraded {
		motion = "(degraded) " + motion
	}
	fmt.Fprintf(w, "%s %s segment %d\t%s\t%s\t%s\n", prefix, statusIconMap[seg.Status], seg.Index, seg.Phase, duration(seg.StartTime, seg.EndTime), motion)
}

// videoProgression returns the achieved seconds against the target with a
// progress bar.
func videoProgression(run api.RunState) string {
	if run.TargetDuration <= 0 {
		return ""
	}
	if run.AchievedDuration >= run.TargetDuration {
		return fmt.Sprintf("%ds/%ds", run.AchievedDuration, run.TargetDuration)
	}
	return fmt.Sprintf("%s %ds/%ds", progressBar(run.AchievedDuration, run.TargetDuration), run.AchievedDuration, run.TargetDuration)
}

func progressBar(current, total int) string {
	value := (current * progressBarWidth) / total
	buf := bytes.NewBuffer(make([]byte, 0, progressBarWidth))
	for i := 0; i < progressBarWidth; i++ {
		if i < value {
			fmt.Fprintf(buf, progressBarChar)
		} else {
			fmt.Fprintf(buf, progressBarPlaceholder)
		}
	}
	return buf.String()
}

func date(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2 Jan 2006 15:04:05.000")
}

func duration(start, end *time.Time) string {
	var d time.Duration
	if start == nil {
		return ""
	}
	if end == nil {
		d = time.Now().Sub(*start)
	} else {
		d = end.Sub(*start)
	}

	// Print
	if d.Seconds() <= 60.0 {
		return fmt.Sprintf("%0.0fs", d.Seconds())
	} else if d.Minutes() <= 60.0 {
		m := int64(d.Minutes())
		s := math.Mod(d.Seconds(), 60)
		return fmt.Sprintf("%0.dm %0.0fs", m, s)
	} else {
		h := int64(d.Hours())
		m := int64(math.Mod(d.Minutes(), 60))
		s := math.Mod(d.Seconds(), 60)
		return fmt.Sprintf("%0.dh %0.dm %0.0fs", h, m, s)
	}
}

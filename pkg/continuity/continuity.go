// Package continuity predicts what a scene looks like a few seconds in the
// future so that independently generated clips can be chained into a video
// that looks continuous.
package continuity

import (
	"fmt"

	"framechain/pkg/api"
	"framechain/pkg/capability"
	"framechain/pkg/frame"
	"framechain/pkg/util/context"
)

// Prediction is the outcome of one continuity prediction.
type Prediction struct {
	// Description is a concrete, regenerable description of the scene
	// after the segment duration has elapsed. Used as the motion prompt
	// of the video job and as the regeneration prompt of the hosting
	// relay.
	Description string

	// EndFrame is the materialized future frame. Nil in cheap mode and
	// when materialization failed, in which case the video backend
	// extrapolates from the start frame alone.
	EndFrame *api.MediaAsset

	// Degraded is true when vision analysis failed and Description is a
	// generic, style-only motion description. Approximate continuity is
	// preferable to stopping the run.
	Degraded bool
}

// Predictor describes the future state of the current frame.
type Predictor interface {
	Predict(ctx context.Context, current api.MediaAsset, spec api.RunSpec) (Prediction, error)
}

// NewPredictor returns a Predictor backed by the given vision capability.
// For premium runs the predicted description is also converted into an
// actual end frame image through the frame synthesizer, enabling
// dual-keyframe video generation downstream.
func NewPredictor(vision capability.Vision, frames frame.Synthesizer) Predictor {
	return predictor{
		vision: vision,
		frames: frames,
	}
}

type predictor struct {
	vision capability.Vision
	frames frame.Synthesizer
}

func (p predictor) Predict(ctx context.Context, current api.MediaAsset, spec api.RunSpec) (Prediction, error) {
	description, degraded := p.describe(ctx, current, spec.Prompt, spec.Style, spec.SegmentDuration)
	pred := Prediction{
		Description: description,
		Degraded:    degraded,
	}

	if !spec.Premium || degraded {
		return pred, nil
	}

	endFrame, err := p.frames.Synthesize(ctx, description, spec.Style)
	if err != nil {
		// A missing end frame only costs dual-keyframe mode, the
		// segment continues with the start frame alone.
		ctx.Logger().Warnf("cannot materialize predicted end frame: %s", err)
		return pred, nil
	}
	endFrame.Origin = api.OriginPredicted
	pred.EndFrame = &endFrame
	return pred, nil
}

// describe asks the vision model for the future scene description, falling
// back to a generic style-only motion description on failure.
func (p predictor) describe(ctx context.Context, current api.MediaAsset, narrative, style string, segmentDuration int) (string, bool) {
	if len(current.Bytes) == 0 {
		ctx.Logger().Warn("no frame bytes available for vision analysis")
		return genericMotion(style), true
	}

	instruction := instructionPrompt(narrative, segmentDuration)
	description, err := p.vision.Analyze(ctx, current.Bytes, instruction)
	if err != nil {
		ctx.Logger().Warnf("vision analysis failed: %s", err)
		return genericMotion(style), true
	}
	return description, false
}

func instructionPrompt(narrative string, segmentDuration int) string {
	return fmt.Sprintf(
		"This image is the current frame of a continuous video about: %s. "+
			"Describe in concrete, regenerable detail exactly what this same scene looks like %d seconds later. "+
			"Keep the characters, art style, environment and camera framing identical. "+
			"Only motion, pose and lighting may change, and only plausibly. "+
			"Answer with the description only.",
		narrative, segmentDuration)
}

func genericMotion(style string) string {
	if style == "" {
		return "The scene continues with slow, natural motion while the camera holds its framing."
	}
	return fmt.Sprintf("The scene continues in %s style with slow, natural motion while the camera holds its framing.", style)
}

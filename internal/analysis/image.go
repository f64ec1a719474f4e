package analysis

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"math/rand/v2"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
)

const (
	imageScoreFloor = 0.4
	imageScoreSpan  = 0.55
)

// RasterScorer is the image backend. It decodes just the raster header for
// dimensions and maps a sampled signal into [0.4, 0.95). Bytes that do not
// decode as an image produce a terminal "Analysis Failed" result rather than
// an error, so the pipeline still logs and returns the outcome.
type RasterScorer struct {
	sample func() float64
}

func NewRasterScorer() *RasterScorer {
	return &RasterScorer{sample: rand.Float64}
}

// NewRasterScorerWithSample injects the signal source in [0, 1).
func NewRasterScorerWithSample(sample func() float64) *RasterScorer {
	return &RasterScorer{sample: sample}
}

func (s *RasterScorer) Score(ctx context.Context, content Content) Result {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(content.Data))
	if err != nil {
		return Result{
			Score:       0.0,
			Label:       "Analysis Failed",
			Explanation: fmt.Sprintf("Failed to analyze image: %v", err),
			Image: &ImageMetadata{
				Size:     "unknown",
				Filename: content.Filename,
			},
		}
	}

	size := fmt.Sprintf("%dx%d", cfg.Width, cfg.Height)
	score := round2(imageScoreFloor + s.sample()*imageScoreSpan)

	return Result{
		Score:       score,
		Label:       DeriveLabel(score, ImageThresholds),
		Explanation: fmt.Sprintf("Image analysis complete. Dimensions: %s. Risk indicators detected in visual patterns.", size),
		Image: &ImageMetadata{
			Size:     size,
			Filename: content.Filename,
		},
	}
}

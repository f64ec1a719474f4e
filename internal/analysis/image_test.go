package analysis

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodePNG(t *testing.T, width, height int) []byte {
	t.Helper()
	var buf bytes.Buffer
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestRasterScorerExtractsDimensions(t *testing.T) {
	scorer := NewRasterScorerWithSample(func() float64 { return 0.5 })
	res := scorer.Score(context.Background(), Content{
		Modality: ModalityImage,
		Data:     encodePNG(t, 3, 2),
		Filename: "meme.png",
	})

	require.NotNil(t, res.Image)
	assert.Equal(t, "3x2", res.Image.Size)
	assert.Equal(t, "meme.png", res.Image.Filename)
	// 0.4 + 0.5*0.55 = 0.675, rounded to 0.68
	assert.InDelta(t, 0.68, res.Score, 1e-9)
	assert.Equal(t, "Suspected Propaganda", res.Label)
	assert.Contains(t, res.Explanation, "Dimensions: 3x2")
}

func TestRasterScorerScoreBands(t *testing.T) {
	cases := []struct {
		sample float64
		score  float64
		label  string
	}{
		{0, 0.4, "Requires Review"},
		{0.5, 0.68, "Suspected Propaganda"},
		{0.99, 0.94, "Harmful Meme"},
	}
	for _, c := range cases {
		scorer := NewRasterScorerWithSample(func() float64 { return c.sample })
		res := scorer.Score(context.Background(), Content{
			Modality: ModalityImage,
			Data:     encodePNG(t, 8, 8),
			Filename: "meme.png",
		})
		assert.InDelta(t, c.score, res.Score, 1e-9, "sample %v", c.sample)
		assert.Equal(t, c.label, res.Label, "sample %v", c.sample)
	}
}

// Bytes that do not decode are a reportable outcome, not an error: the scorer
// still returns a Result so the pipeline can log and respond.
func TestRasterScorerDecodeFailure(t *testing.T) {
	scorer := NewRasterScorer()
	res := scorer.Score(context.Background(), Content{
		Modality: ModalityImage,
		Data:     []byte("definitely not an image"),
		Filename: "broken.png",
	})

	assert.Equal(t, 0.0, res.Score)
	assert.Equal(t, "Analysis Failed", res.Label)
	assert.Contains(t, res.Explanation, "Failed to analyze image")
	require.NotNil(t, res.Image)
	assert.Equal(t, "unknown", res.Image.Size)
	assert.Equal(t, "broken.png", res.Image.Filename)
}

func TestRasterScorerEmptyBytes(t *testing.T) {
	scorer := NewRasterScorer()
	res := scorer.Score(context.Background(), Content{Modality: ModalityImage, Filename: "empty.png"})

	assert.Equal(t, "Analysis Failed", res.Label)
	assert.Equal(t, 0.0, res.Score)
}

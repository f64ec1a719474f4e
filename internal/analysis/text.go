package analysis

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	indicatorWeight = 0.15
	baseScoreCap    = 0.9
	// NoiseCeiling bounds the backend noise term. With zero indicators the
	// score can never reach the lowest non-Safe threshold above it, so
	// indicator-free text cannot be labelled harmful.
	NoiseCeiling = 0.2
)

// DefaultIndicators is the built-in vocabulary, used when no indicators file
// is configured.
func DefaultIndicators() []string {
	return []string{
		"propaganda", "fake", "hoax", "conspiracy", "misleading",
		"unverified", "misinformation", "disinformation",
	}
}

type indicatorsFile struct {
	Indicators []string `yaml:"indicators"`
}

// LoadIndicators reads the vocabulary from a yaml file. Entries are lowercased;
// an empty file is an error.
func LoadIndicators(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var f indicatorsFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, err
	}
	var vocab []string
	for _, ind := range f.Indicators {
		ind = strings.ToLower(strings.TrimSpace(ind))
		if ind != "" {
			vocab = append(vocab, ind)
		}
	}
	if len(vocab) == 0 {
		return nil, fmt.Errorf("indicators file %s contains no entries", path)
	}
	return vocab, nil
}

// KeywordScorer is the deterministic reference text backend: it counts
// indicator vocabulary occurrences (case-insensitive substring match) and maps
// the count to a score. The noise seam stands in for a model-derived signal;
// a production backend replaces it entirely.
type KeywordScorer struct {
	vocabulary []string
	noise      func() float64
}

func NewKeywordScorer(vocabulary []string) *KeywordScorer {
	return &KeywordScorer{
		vocabulary: vocabulary,
		noise:      func() float64 { return rand.Float64() * NoiseCeiling },
	}
}

// NewKeywordScorerWithNoise injects a noise source in [0, NoiseCeiling].
// Tests pin this to a constant to make scoring reproducible.
func NewKeywordScorerWithNoise(vocabulary []string, noise func() float64) *KeywordScorer {
	return &KeywordScorer{
		vocabulary: vocabulary,
		noise:      noise,
	}
}

func (s *KeywordScorer) Score(ctx context.Context, content Content) Result {
	lower := strings.ToLower(content.Text)

	indicators := 0
	for _, kw := range s.vocabulary {
		if strings.Contains(lower, kw) {
			indicators++
		}
	}

	base := math.Min(float64(indicators)*indicatorWeight, baseScoreCap)
	score := round2(math.Min(base+s.noise(), 1.0))

	explanation := "No obvious risk indicators detected."
	if indicators > 0 {
		explanation = fmt.Sprintf("Detected %d risk indicators in content.", indicators)
	}

	return Result{
		Score:       score,
		Label:       DeriveLabel(score, TextThresholds),
		Explanation: explanation,
		Text:        &TextMetadata{Indicators: indicators},
	}
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}

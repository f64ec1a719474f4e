package analysis

import (
	"context"
	"encoding/json"
	"log/slog"
	"math"
	"strings"

	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/responses"
	"github.com/openai/openai-go/v3/shared"
)

const (
	defaultModel     = shared.ResponsesModel("gpt-5.1")
	modelInputLimit  = 32 * 1024 // cap what we send to the model
	modelScorePrompt = `You assess text for propaganda, misinformation, and harmful content.
Reply with JSON only, no prose: {"score": <float 0..1>, "explanation": <short string>, "indicators": <int count of risk signals found>}.`
)

type modelVerdict struct {
	Score       float64 `json:"score"`
	Explanation string  `json:"explanation"`
	Indicators  int     `json:"indicators"`
}

// ModelScorer is the pluggable-model text backend: it asks a language model
// for a continuous risk signal and derives the label from the same threshold
// table as the keyword backend. Any model or parse failure falls back to the
// wrapped deterministic scorer so Score stays total.
type ModelScorer struct {
	client   *openai.Client
	model    shared.ResponsesModel
	fallback Scorer
	logger   *slog.Logger
}

func NewModelScorer(apiKey string, fallback Scorer, logger *slog.Logger) *ModelScorer {
	client := openai.NewClient(option.WithAPIKey(apiKey))
	return &ModelScorer{
		client:   &client,
		model:    defaultModel,
		fallback: fallback,
		logger:   logger,
	}
}

func (s *ModelScorer) Score(ctx context.Context, content Content) Result {
	input := content.Text
	if len(input) > modelInputLimit {
		input = input[:modelInputLimit]
	}

	resp, err := s.client.Responses.New(ctx, responses.ResponseNewParams{
		Model: s.model,
		Input: responses.ResponseNewParamsInputUnion{
			OfInputItemList: responses.ResponseInputParam{
				responses.ResponseInputItemParamOfMessage(modelScorePrompt, responses.EasyInputMessageRoleSystem),
				responses.ResponseInputItemParamOfMessage(input, responses.EasyInputMessageRoleUser),
			},
		},
	})
	if err != nil {
		s.logger.Error("model scoring failed, using fallback", "err", err)
		return s.fallback.Score(ctx, content)
	}

	output := strings.TrimSpace(resp.OutputText())
	var verdict modelVerdict
	if err := json.Unmarshal([]byte(output), &verdict); err != nil {
		s.logger.Error("model returned unparseable verdict, using fallback", "err", err)
		return s.fallback.Score(ctx, content)
	}

	score := round2(math.Min(math.Max(verdict.Score, 0), 1))
	return Result{
		Score:       score,
		Label:       DeriveLabel(score, TextThresholds),
		Explanation: verdict.Explanation,
		Text:        &TextMetadata{Indicators: verdict.Indicators},
	}
}

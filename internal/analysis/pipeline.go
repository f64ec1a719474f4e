package analysis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"riskwatch/internal/auth"
)

const (
	// MaxImageBytes is the upload size ceiling, checked before the scorer runs.
	MaxImageBytes = 10 << 20
	// textExcerptCap bounds the stored input excerpt so the audit log cannot
	// grow with input size.
	textExcerptCap = 500

	// UnknownAnalysisID is returned when the audit write failed and no entry
	// id exists. The Recorded flag on the outcome carries the same fact
	// explicitly.
	UnknownAnalysisID = "unknown"
)

var (
	ErrEmptyText     = errors.New("text cannot be empty")
	ErrNotAnImage    = errors.New("file must be an image")
	ErrImageTooLarge = errors.New("image file too large (max 10MB)")
)

// TokenVerifier authenticates a bearer token. Verification is pure: no
// lookups, no side effects.
type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

// LogWriter appends one audit entry per completed analysis.
type LogWriter interface {
	Insert(ctx context.Context, e *LogEntry) error
}

// Outcome is what one pipeline run returns: the scoring result, the id of the
// audit entry it produced, and whether that entry actually landed. Audit
// write failure degrades the outcome (Recorded false, id "unknown") instead
// of failing the analysis.
type Outcome struct {
	Result
	AnalysisID string
	Recorded   bool
}

// Pipeline runs the access-controlled scoring flow: verify the token,
// validate the request shape, dispatch to the modality-matched backend,
// append the audit entry, respond. Only the audit append has side effects.
// All dependencies are injected; a Pipeline holds no mutable state and is
// safe for arbitrary concurrent use.
type Pipeline struct {
	verifier TokenVerifier
	text     Scorer
	image    Scorer
	logs     LogWriter
	logger   *slog.Logger
}

func NewPipeline(verifier TokenVerifier, text, image Scorer, logs LogWriter, logger *slog.Logger) *Pipeline {
	return &Pipeline{
		verifier: verifier,
		text:     text,
		image:    image,
		logs:     logs,
		logger:   logger,
	}
}

func (p *Pipeline) AnalyzeText(ctx context.Context, token, text string) (*Outcome, error) {
	claims, err := p.verifier.Verify(token)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyText
	}

	result := p.text.Score(ctx, Content{
		Modality: ModalityText,
		Text:     text,
	})

	id, recorded := p.record(ctx, claims.UserID, ModalityText, truncate(text, textExcerptCap), result)
	return &Outcome{
		Result:     result,
		AnalysisID: id,
		Recorded:   recorded,
	}, nil
}

func (p *Pipeline) AnalyzeImage(ctx context.Context, token string, data []byte, contentType, filename string) (*Outcome, error) {
	claims, err := p.verifier.Verify(token)
	if err != nil {
		return nil, err
	}
	if !strings.HasPrefix(contentType, "image/") {
		return nil, ErrNotAnImage
	}
	if len(data) > MaxImageBytes {
		return nil, ErrImageTooLarge
	}

	result := p.image.Score(ctx, Content{
		Modality: ModalityImage,
		Data:     data,
		Filename: filename,
	})

	size := "unknown"
	if result.Image != nil {
		size = result.Image.Size
	}
	excerpt := fmt.Sprintf("Image: %s (%s)", filename, size)

	id, recorded := p.record(ctx, claims.UserID, ModalityImage, excerpt, result)
	return &Outcome{
		Result:     result,
		AnalysisID: id,
		Recorded:   recorded,
	}, nil
}

func (p *Pipeline) record(ctx context.Context, userID string, modality Modality, excerpt string, result Result) (string, bool) {
	entry := &LogEntry{
		UserID:    userID,
		Type:      modality,
		InputData: excerpt,
		Score:     result.Score,
		Label:     result.Label,
	}
	if err := p.logs.Insert(ctx, entry); err != nil {
		p.logger.Error("append analysis log", "err", err, "user", userID, "modality", modality)
		return UnknownAnalysisID, false
	}
	return entry.ID, true
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

// IsAuthError reports whether err came from token verification.
func IsAuthError(err error) bool {
	return errors.Is(err, auth.ErrTokenMalformed) ||
		errors.Is(err, auth.ErrTokenBadSignature) ||
		errors.Is(err, auth.ErrTokenExpired)
}

// IsValidationError reports whether err is a request-shape violation.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrEmptyText) ||
		errors.Is(err, ErrNotAnImage) ||
		errors.Is(err, ErrImageTooLarge)
}

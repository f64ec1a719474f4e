package analysis

import "context"

type Modality string

const (
	ModalityText  Modality = "text"
	ModalityImage Modality = "image"
)

// Content is the raw input handed to a scoring backend. Exactly one modality
// payload is populated, selected by Modality.
type Content struct {
	Modality Modality
	Text     string
	Data     []byte
	Filename string
}

// TextMetadata carries the indicator-count side channel of the text backend.
type TextMetadata struct {
	Indicators int
}

// ImageMetadata carries the decoded dimensions ("WxH", or "unknown" when the
// bytes could not be decoded) and the client-supplied filename.
type ImageMetadata struct {
	Size     string
	Filename string
}

// Result is the common contract every scoring backend produces. Score is in
// [0,1] and Label is always derived from Score through a threshold table,
// never set independently. A decode failure is still a Result (score 0,
// label "Analysis Failed"), not an error.
type Result struct {
	Score       float64
	Label       string
	Explanation string
	Text        *TextMetadata
	Image       *ImageMetadata
}

// Scorer turns raw content into a Result. Implementations must be total over
// well-formed input (always a Result, never a panic) and safe for concurrent
// use. Persistence is the pipeline's job, not the scorer's.
type Scorer interface {
	Score(ctx context.Context, content Content) Result
}

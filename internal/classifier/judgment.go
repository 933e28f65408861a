// Package classifier decides whether the ceiling lights in a bus-shelter photo are on.
// It retrieves the image bytes from their locator and submits them to a multimodal
// model that must answer with a strict JSON judgment.
package classifier

import (
	"fmt"

	"github.com/JaimeStill/lumen/pkg/formatting"
)

// Judgment is the classifier's structured answer for one image.
type Judgment struct {
	LightsOn    bool    `json:"lightsOn"`
	Confidence  float64 `json:"confidence"`
	Explanation string  `json:"explanation"`
}

// wireJudgment uses pointers so absent fields can be told apart from zero values.
type wireJudgment struct {
	LightsOn    *bool    `json:"lightsOn"`
	Confidence  *float64 `json:"confidence"`
	Explanation *string  `json:"explanation"`
}

// ParseJudgment decodes and validates a model response. All three fields are
// required, unknown fields are rejected, and confidence must lie in [0,1].
func ParseJudgment(content string) (*Judgment, error) {
	w, err := formatting.ParseStrict[wireJudgment](content)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidJudgment, err)
	}

	switch {
	case w.LightsOn == nil:
		return nil, fmt.Errorf("%w: missing lightsOn", ErrInvalidJudgment)
	case w.Confidence == nil:
		return nil, fmt.Errorf("%w: missing confidence", ErrInvalidJudgment)
	case w.Explanation == nil:
		return nil, fmt.Errorf("%w: missing explanation", ErrInvalidJudgment)
	}

	if *w.Confidence < 0 || *w.Confidence > 1 {
		return nil, fmt.Errorf("%w: confidence %v outside [0,1]", ErrInvalidJudgment, *w.Confidence)
	}

	return &Judgment{
		LightsOn:    *w.LightsOn,
		Confidence:  *w.Confidence,
		Explanation: *w.Explanation,
	}, nil
}

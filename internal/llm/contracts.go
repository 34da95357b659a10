package llm

import "context"

// Prose is the structured reply we ask the model for.
type Prose struct {
	Text       string   `json:"prose"`
	Highlights []string `json:"highlights,omitempty"`
}

// ProseSynthesizer turns a finished review opinion (JSON) into Korean prose.
// It only ever sees masked input.
type ProseSynthesizer interface {
	SynthesizeProse(ctx context.Context, opinionJSON []byte) (Prose, error)
}

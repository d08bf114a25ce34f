package tts

import "context"

// Synthesizer converts text to audio bytes. Errors propagate to the
// caller as generation failures; no retry policy is imposed here.
type Synthesizer interface {
	Synthesize(ctx context.Context, text, voice string) ([]byte, error)
}

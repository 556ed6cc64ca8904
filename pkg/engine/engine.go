package engine

import (
	"context"
	"fmt"
	"strings"
)

// Engine is a loaded speech-to-text model. Implementations take a path
// to an encoded audio artifact and return whatever result object the
// backend produces. Engines are not safe for concurrent use; all calls
// must go through the Gate.
type Engine interface {
	// Name returns the provider name for logging/metrics.
	Name() string
	// Transcribe runs recognition on the audio file at path.
	Transcribe(ctx context.Context, path string) (any, error)
	// Close releases underlying resources.
	Close() error
}

// Warmer is implemented by engines that need a startup pass before
// they can serve calls (model download, binary check, auth probe).
type Warmer interface {
	Warm(ctx context.Context) error
}

// Warm runs the engine's warm-up pass when it has one.
func Warm(ctx context.Context, eng Engine) error {
	if w, ok := eng.(Warmer); ok {
		return w.Warm(ctx)
	}
	return nil
}

// VendorConfig selects an engine provider and its free-form settings.
type VendorConfig struct {
	Provider string         `mapstructure:"provider"`
	Settings map[string]any `mapstructure:"settings"`
}

// Hypothesis is a structured recognition result carrying a transcript.
type Hypothesis interface {
	Text() string
}

// Text extracts the transcript from an engine result. Structured
// results expose Text(); anything else falls back to its string form.
// The returned transcript is whitespace-trimmed.
func Text(result any) string {
	switch r := result.(type) {
	case nil:
		return ""
	case Hypothesis:
		return strings.TrimSpace(r.Text())
	case string:
		return strings.TrimSpace(r)
	case fmt.Stringer:
		return strings.TrimSpace(r.String())
	default:
		return strings.TrimSpace(fmt.Sprint(r))
	}
}

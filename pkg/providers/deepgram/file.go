package deepgram

import (
	"context"
	"log/slog"
	"strings"

	prerecorded "github.com/deepgram/deepgram-go-sdk/v3/pkg/api/listen/v1/rest"
	listenapi "github.com/deepgram/deepgram-go-sdk/v3/pkg/api/listen/v1/rest/interfaces"
	interfaces "github.com/deepgram/deepgram-go-sdk/v3/pkg/client/interfaces"
	client "github.com/deepgram/deepgram-go-sdk/v3/pkg/client/listen"

	"github.com/harunnryd/scriba/pkg/configutil"
	"github.com/harunnryd/scriba/pkg/errorsx"
	"github.com/harunnryd/scriba/pkg/logging"
	"github.com/harunnryd/scriba/pkg/resilience"
)

type Config struct {
	APIKey      string `mapstructure:"api_key"`
	Model       string `mapstructure:"model"`
	Language    string `mapstructure:"language"`
	SmartFormat bool   `mapstructure:"smart_format"`
	MaxRetries  int    `mapstructure:"max_retries"`
}

func (c Config) withDefaults() Config {
	if c.Model == "" {
		c.Model = "nova-2"
	}
	return c
}

// hypothesis carries the extracted transcript back through the gate.
type hypothesis struct {
	text string
}

func (h hypothesis) Text() string { return h.text }

// FileEngine transcribes WAV artifacts through Deepgram's prerecorded
// REST API. Unlike a local model there is nothing to keep resident;
// the gate still serializes calls so remote quota behaves like one
// model instance.
type FileEngine struct {
	cfg   Config
	dg    *prerecorded.Client
	retry resilience.RetryPolicy
	log   *slog.Logger
}

func New(cfg Config) (*FileEngine, error) {
	if err := configutil.RequireString(cfg.APIKey, "engine.settings.api_key"); err != nil {
		return nil, err
	}
	cfg = cfg.withDefaults()
	rest := client.NewREST(cfg.APIKey, &interfaces.ClientOptions{})
	return &FileEngine{
		cfg:   cfg,
		dg:    prerecorded.New(rest),
		retry: resilience.NewRetryPolicy(cfg.MaxRetries, 0),
		log:   logging.NewComponentLogger(slog.Default(), "deepgram_file"),
	}, nil
}

func (e *FileEngine) Name() string { return "deepgram_file" }

func (e *FileEngine) Close() error { return nil }

func (e *FileEngine) Transcribe(ctx context.Context, path string) (any, error) {
	options := &interfaces.PreRecordedTranscriptionOptions{
		Model:       e.cfg.Model,
		Language:    e.cfg.Language,
		SmartFormat: e.cfg.SmartFormat,
	}

	var text string
	err := e.retry.Do(func() error {
		res, err := e.dg.FromFile(ctx, path, options)
		if err != nil {
			if strings.Contains(err.Error(), "429") {
				return resilience.RateLimitError{Provider: e.Name(), Message: err.Error()}
			}
			return err
		}
		text = firstTranscript(res)
		return nil
	})
	if err != nil {
		if resilience.IsRateLimit(err) {
			return nil, errorsx.Wrap(err, errorsx.ReasonEngineRateLimit)
		}
		return nil, errorsx.Wrap(err, errorsx.ReasonTranscribe)
	}
	return hypothesis{text: text}, nil
}

func firstTranscript(res *listenapi.PreRecordedResponse) string {
	if res == nil || res.Results == nil {
		return ""
	}
	for _, ch := range res.Results.Channels {
		for _, alt := range ch.Alternatives {
			if alt.Transcript != "" {
				return alt.Transcript
			}
		}
	}
	return ""
}

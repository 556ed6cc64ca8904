package scriba

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/harunnryd/scriba/pkg/engine"
	"github.com/harunnryd/scriba/pkg/server"
	"github.com/harunnryd/scriba/pkg/session"
)

type Config struct {
	Server        server.Config       `mapstructure:"server"`
	Engine        engine.VendorConfig `mapstructure:"engine"`
	Session       SessionConfig       `mapstructure:"session"`
	LogLevel      string              `mapstructure:"log_level"`
	LogFormat     string              `mapstructure:"log_format"`
	Observability ObservabilityConfig `mapstructure:"observability"`
}

// SessionConfig carries the streaming loop intervals as milliseconds.
// Zero values fall back to the session package defaults.
type SessionConfig struct {
	WarmupDelayMS     int `mapstructure:"warmup_delay_ms"`
	PollIntervalMS    int `mapstructure:"poll_interval_ms"`
	FailureBackoffMS  int `mapstructure:"failure_backoff_ms"`
	MinPartialAudioMS int `mapstructure:"min_partial_audio_ms"`
	MinFinalAudioMS   int `mapstructure:"min_final_audio_ms"`
}

func (c SessionConfig) Tunables() session.Tunables {
	ms := func(v int) time.Duration { return time.Duration(v) * time.Millisecond }
	return session.Tunables{
		WarmupDelay:     ms(c.WarmupDelayMS),
		PollInterval:    ms(c.PollIntervalMS),
		FailureBackoff:  ms(c.FailureBackoffMS),
		MinPartialAudio: ms(c.MinPartialAudioMS),
		MinFinalAudio:   ms(c.MinFinalAudioMS),
	}
}

type ObservabilityConfig struct {
	ArtifactsDir string `mapstructure:"artifacts_dir"`
}

// configKeys registers every scalar key with viper: AutomaticEnv alone
// does not surface env values through Unmarshal for keys absent from
// the file, so each one is bound explicitly.
var configKeys = []string{
	"log_level",
	"log_format",
	"engine.provider",
	"server.addr",
	"server.upload_path",
	"server.health_path",
	"server.stream_path",
	"server.max_upload_bytes",
	"server.drain_timeout_ms",
	"server.write_timeout_ms",
	"server.allow_any_origin",
	"session.warmup_delay_ms",
	"session.poll_interval_ms",
	"session.failure_backoff_ms",
	"session.min_partial_audio_ms",
	"session.min_final_audio_ms",
	"observability.artifacts_dir",
}

// LoadConfig reads the config file at path (optional; env-only setups
// may omit it) layered under SCRIBA_* environment overrides.
func LoadConfig(path string) (Config, error) {
	v := viper.New()
	v.SetDefault("engine.provider", "mock")
	v.SetEnvPrefix("SCRIBA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, key := range configKeys {
		if err := v.BindEnv(key); err != nil {
			return Config{}, err
		}
	}

	if strings.TrimSpace(path) != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

package server

type Config struct {
	Addr           string   `mapstructure:"addr"`
	UploadPath     string   `mapstructure:"upload_path"`
	HealthPath     string   `mapstructure:"health_path"`
	StreamPath     string   `mapstructure:"stream_path"`
	MaxUploadBytes int64    `mapstructure:"max_upload_bytes"`
	DrainTimeoutMS int      `mapstructure:"drain_timeout_ms"`
	WriteTimeoutMS int      `mapstructure:"write_timeout_ms"`
	AllowAnyOrigin bool     `mapstructure:"allow_any_origin"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

func (c Config) withDefaults() Config {
	if c.Addr == "" {
		c.Addr = ":5051"
	}
	if c.UploadPath == "" {
		c.UploadPath = "/transcribe"
	}
	if c.HealthPath == "" {
		c.HealthPath = "/health"
	}
	if c.StreamPath == "" {
		c.StreamPath = "/ws/stream"
	}
	if c.MaxUploadBytes <= 0 {
		c.MaxUploadBytes = 32 << 20
	}
	if c.DrainTimeoutMS <= 0 {
		c.DrainTimeoutMS = 15_000
	}
	if c.WriteTimeoutMS <= 0 {
		c.WriteTimeoutMS = 5_000
	}
	if !c.AllowAnyOrigin && len(c.AllowedOrigins) == 0 {
		c.AllowAnyOrigin = true
	}
	return c
}

package errorsx

// ReasonCode is a short machine-readable error reason.
type ReasonCode string

const (
	ReasonUnknown ReasonCode = "unknown"

	// ReasonModelNotReady means the engine has not finished warming up.
	ReasonModelNotReady ReasonCode = "model_not_ready"
	// ReasonTranscribe means the engine call itself failed.
	ReasonTranscribe ReasonCode = "transcribe_failed"
	// ReasonEngineExec means a runner process could not be executed.
	ReasonEngineExec ReasonCode = "engine_exec"
	// ReasonEngineRateLimit means the remote engine rejected the call with a rate limit.
	ReasonEngineRateLimit ReasonCode = "engine_rate_limit"

	ReasonAudioDecode   ReasonCode = "audio_decode"
	ReasonArtifactWrite ReasonCode = "artifact_write"

	ReasonTransportSend ReasonCode = "transport_send"
	ReasonControlParse  ReasonCode = "control_parse"
)

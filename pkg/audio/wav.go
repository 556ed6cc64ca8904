package audio

import (
	"io"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/harunnryd/scriba/pkg/errorsx"
)

// WriteWAV encodes samples as a 16-bit mono PCM WAV stream. Samples
// outside [-1, 1] are clamped before quantization.
func WriteWAV(w io.WriteSeeker, samples []float32, rate int) error {
	if rate <= 0 {
		rate = SampleRate
	}
	enc := wav.NewEncoder(w, rate, 16, 1, 1)
	data := make([]int, len(samples))
	for i, s := range samples {
		if s > 1 {
			s = 1
		} else if s < -1 {
			s = -1
		}
		data[i] = int(s * 32767)
	}
	buf := &goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: 1, SampleRate: rate},
		Data:           data,
		SourceBitDepth: 16,
	}
	if err := enc.Write(buf); err != nil {
		return errorsx.Wrap(err, errorsx.ReasonArtifactWrite)
	}
	return errorsx.Wrap(enc.Close(), errorsx.ReasonArtifactWrite)
}

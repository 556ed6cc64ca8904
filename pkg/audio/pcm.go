package audio

import (
	"encoding/binary"

	"github.com/harunnryd/scriba/pkg/errorsx"
)

// DecodeS16LE converts raw signed 16-bit little-endian PCM into
// float32 samples in [-1, 1).
func DecodeS16LE(data []byte) ([]float32, error) {
	if len(data)%2 != 0 {
		return nil, errorsx.New(errorsx.ReasonAudioDecode, "odd pcm payload length %d", len(data))
	}
	samples := make([]float32, len(data)/2)
	for i := range samples {
		v := int16(binary.LittleEndian.Uint16(data[i*2:]))
		samples[i] = float32(v) / 32768.0
	}
	return samples, nil
}

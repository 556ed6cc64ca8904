package audio

import (
	"testing"

	"github.com/harunnryd/scriba/pkg/errorsx"
)

func TestDecodeS16LE(t *testing.T) {
	// 0, 16384, -16384, -32768 as little-endian int16
	data := []byte{0x00, 0x00, 0x00, 0x40, 0x00, 0xC0, 0x00, 0x80}
	samples, err := DecodeS16LE(data)
	if err != nil {
		t.Fatalf("decode error: %v", err)
	}
	want := []float32{0, 0.5, -0.5, -1}
	if len(samples) != len(want) {
		t.Fatalf("expected %d samples, got %d", len(want), len(samples))
	}
	for i := range want {
		if samples[i] != want[i] {
			t.Fatalf("sample %d: expected %f, got %f", i, want[i], samples[i])
		}
	}
}

func TestDecodeS16LEOddLength(t *testing.T) {
	_, err := DecodeS16LE([]byte{0x01})
	if err == nil {
		t.Fatalf("expected error for odd payload")
	}
	if !errorsx.HasReason(err, errorsx.ReasonAudioDecode) {
		t.Fatalf("expected audio_decode reason, got %s", errorsx.Reason(err))
	}
}

func TestDecodeS16LEEmpty(t *testing.T) {
	samples, err := DecodeS16LE(nil)
	if err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if len(samples) != 0 {
		t.Fatalf("expected no samples, got %d", len(samples))
	}
}

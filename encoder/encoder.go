// Package encoder serializes a finished recording into the WAV container the
// speech engine decodes: 16 kHz, mono, 16-bit PCM.
package encoder

import (
	"fmt"
	"io"
	"os"

	gaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

const (
	SampleRate    = 16000
	Channels      = 1
	BitsPerSample = 16
)

const pcmScale = 32767

// Encode writes samples as a mono 16-bit PCM WAV stream. Floats are scaled
// by 32767 and clamped; capture delivers [-1, 1] but a hot microphone can
// clip past it.
func Encode(w io.WriteSeeker, samples []float32) error {
	data := make([]int, len(samples))
	for i, s := range samples {
		v := int(s * pcmScale)
		if v > pcmScale {
			v = pcmScale
		} else if v < -pcmScale-1 {
			v = -pcmScale - 1
		}
		data[i] = v
	}

	buf := &gaudio.IntBuffer{
		Format:         &gaudio.Format{NumChannels: Channels, SampleRate: SampleRate},
		Data:           data,
		SourceBitDepth: BitsPerSample,
	}

	enc := wav.NewEncoder(w, SampleRate, BitsPerSample, Channels, 1)
	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("writing wav: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("closing wav encoder: %w", err)
	}
	return nil
}

// WriteFile encodes samples into a WAV file at path.
func WriteFile(path string, samples []float32) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating wav file: %w", err)
	}
	if err := Encode(f, samples); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Decode reads a WAV stream back into float samples. Used by tests to verify
// the encode path round-trips.
func Decode(r io.ReadSeeker) ([]float32, error) {
	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		return nil, fmt.Errorf("not a valid wav stream")
	}
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("decoding wav: %w", err)
	}
	out := make([]float32, len(buf.Data))
	for i, v := range buf.Data {
		out[i] = float32(v) / pcmScale
	}
	return out, nil
}

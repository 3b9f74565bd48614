package source

import (
	"errors"
	"fmt"
	"io"

	"github.com/cwbudde/radarping/dsp/buffer"
	"github.com/hajimehoshi/go-mp3"
	"github.com/mewkiz/flac"
)

// DecodeMP3 decodes a whole MP3 stream. go-mp3 always yields
// interleaved 16-bit stereo.
func DecodeMP3(r io.Reader) (*buffer.Buffer, error) {
	dec, err := mp3.NewDecoder(r)
	if err != nil {
		return nil, fmt.Errorf("mp3: %w", err)
	}
	raw, err := io.ReadAll(dec)
	if err != nil {
		return nil, fmt.Errorf("mp3: %w", err)
	}
	return pcm16ToBuffer(raw, 2, dec.SampleRate())
}

// DecodeFLAC decodes a whole FLAC stream into interleaved floats.
func DecodeFLAC(r io.Reader) (*buffer.Buffer, error) {
	stream, err := flac.New(r)
	if err != nil {
		return nil, fmt.Errorf("flac: %w", err)
	}
	defer stream.Close()

	channels := int(stream.Info.NChannels)
	if channels < 1 {
		return nil, fmt.Errorf("flac: stream has no channels")
	}
	scale := intScale(int(stream.Info.BitsPerSample))

	var samples []float64
	for {
		f, err := stream.ParseNext()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("flac: %w", err)
		}
		for i := 0; i < int(f.BlockSize); i++ {
			for ch := 0; ch < channels; ch++ {
				samples = append(samples, float64(f.Subframes[ch].Samples[i])*scale)
			}
		}
	}
	return interleavedToBuffer(samples, channels, int(stream.Info.SampleRate))
}

// intScale maps signed integers of the given bit depth to [-1, 1).
func intScale(bits int) float64 {
	if bits < 1 {
		bits = 16
	}
	return 1 / float64(int64(1)<<(bits-1))
}

func pcm16ToBuffer(raw []byte, channels, sampleRate int) (*buffer.Buffer, error) {
	pcm := make([]int16, len(raw)/2)
	for i := range pcm {
		pcm[i] = int16(uint16(raw[2*i]) | uint16(raw[2*i+1])<<8)
	}
	samples := make([]float64, len(pcm))
	buffer.FromInt16(samples, pcm)
	return interleavedToBuffer(samples, channels, sampleRate)
}

// interleavedToBuffer wraps samples, dropping a trailing partial frame
// and downmixing layouts wider than stereo.
func interleavedToBuffer(samples []float64, channels, sampleRate int) (*buffer.Buffer, error) {
	samples = samples[:len(samples)-len(samples)%channels]
	if channels > 2 {
		mono, err := buffer.Downmix(nil, samples, channels)
		if err != nil {
			return nil, err
		}
		return buffer.FromMono(mono, sampleRate), nil
	}
	return buffer.FromInterleaved(samples, channels, sampleRate)
}

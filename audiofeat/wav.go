// Package audiofeat computes the raw signal scalars the scorer's vocal
// formulas consume. Only PCM16 WAV is handled locally; anything else is
// expected to come from an external analysis service.
package audiofeat

import (
	"context"
	"encoding/binary"
	"fmt"
	"math"

	"docintel/contract"
	"docintel/domain"
	"docintel/errors"
)

var _ contract.AudioFeatureProvider = (*WAVAnalyzer)(nil)

// frameLength is the envelope window used for the tempo estimate.
const frameLength = 50 // milliseconds

type WAVAnalyzer struct{}

func NewWAVAnalyzer() WAVAnalyzer {
	return WAVAnalyzer{}
}

// Analyze parses a PCM16 WAV payload and returns RMS, an envelope-peak
// tempo estimate in beats per minute and the sample standard deviation.
// Samples are normalized to [-1, 1] so the scorer's scale factors apply.
func (WAVAnalyzer) Analyze(_ context.Context, data []byte) (domain.AudioFeatures, error) {
	samples, sampleRate, err := decodePCM16(data)
	if err != nil {
		return domain.AudioFeatures{}, fmt.Errorf("%w: %w", errors.ErrFeatureComputation, err)
	}
	if len(samples) == 0 {
		return domain.AudioFeatures{}, fmt.Errorf("%w: empty data chunk", errors.ErrFeatureComputation)
	}

	var sum, sumSquares float64
	for _, s := range samples {
		sum += s
		sumSquares += s * s
	}
	n := float64(len(samples))
	mean := sum / n
	rms := math.Sqrt(sumSquares / n)
	variance := sumSquares/n - mean*mean
	if variance < 0 {
		variance = 0
	}

	return domain.AudioFeatures{
		RMS:    rms,
		Tempo:  estimateTempo(samples, sampleRate),
		StdDev: math.Sqrt(variance),
	}, nil
}

// estimateTempo counts local maxima of the frame-level energy envelope
// that stand above the mean envelope, scaled to peaks per minute. Coarse
// on purpose: the scorer only needs a bounded scalar, not beat tracking.
func estimateTempo(samples []float64, sampleRate int) float64 {
	frameSize := sampleRate * frameLength / 1000
	if frameSize <= 0 || len(samples) < frameSize*3 {
		return 0
	}

	var envelope []float64
	for start := 0; start+frameSize <= len(samples); start += frameSize {
		var energy float64
		for _, s := range samples[start : start+frameSize] {
			energy += s * s
		}
		envelope = append(envelope, math.Sqrt(energy/float64(frameSize)))
	}

	var total float64
	for _, e := range envelope {
		total += e
	}
	threshold := total / float64(len(envelope))

	peaks := 0
	for i := 1; i < len(envelope)-1; i++ {
		if envelope[i] > threshold && envelope[i] > envelope[i-1] && envelope[i] >= envelope[i+1] {
			peaks++
		}
	}

	durationMinutes := float64(len(samples)) / float64(sampleRate) / 60
	if durationMinutes == 0 {
		return 0
	}
	return float64(peaks) / durationMinutes
}

// decodePCM16 walks the RIFF chunks and returns normalized mono samples
// (channels averaged) plus the sample rate.
func decodePCM16(data []byte) ([]float64, int, error) {
	if len(data) < 12 || string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		return nil, 0, fmt.Errorf("not a RIFF/WAVE payload")
	}

	var sampleRate int
	var channels int
	var bitsPerSample int
	var pcm []byte

	offset := 12
	for offset+8 <= len(data) {
		chunkID := string(data[offset : offset+4])
		chunkSize := int(binary.LittleEndian.Uint32(data[offset+4 : offset+8]))
		body := offset + 8
		if body+chunkSize > len(data) {
			chunkSize = len(data) - body
		}

		switch chunkID {
		case "fmt ":
			if chunkSize < 16 {
				return nil, 0, fmt.Errorf("truncated fmt chunk")
			}
			format := binary.LittleEndian.Uint16(data[body : body+2])
			if format != 1 {
				return nil, 0, fmt.Errorf("unsupported wav format %d, want PCM", format)
			}
			channels = int(binary.LittleEndian.Uint16(data[body+2 : body+4]))
			sampleRate = int(binary.LittleEndian.Uint32(data[body+4 : body+8]))
			bitsPerSample = int(binary.LittleEndian.Uint16(data[body+14 : body+16]))
		case "data":
			pcm = data[body : body+chunkSize]
		}

		// Chunks are word-aligned.
		offset = body + chunkSize + chunkSize%2
	}

	if sampleRate == 0 || channels == 0 {
		return nil, 0, fmt.Errorf("missing fmt chunk")
	}
	if bitsPerSample != 16 {
		return nil, 0, fmt.Errorf("unsupported bit depth %d, want 16", bitsPerSample)
	}
	if len(pcm) == 0 {
		return nil, 0, fmt.Errorf("missing data chunk")
	}

	frame := 2 * channels
	samples := make([]float64, 0, len(pcm)/frame)
	for i := 0; i+frame <= len(pcm); i += frame {
		var acc float64
		for ch := 0; ch < channels; ch++ {
			raw := int16(binary.LittleEndian.Uint16(pcm[i+2*ch : i+2*ch+2]))
			acc += float64(raw) / 32768
		}
		samples = append(samples, acc/float64(channels))
	}
	return samples, sampleRate, nil
}

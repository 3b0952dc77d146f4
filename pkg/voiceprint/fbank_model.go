package voiceprint

import (
	"math"

	"github.com/haivivi/meetscribe/pkg/audio/fbank"
)

// FbankModel is a self-contained embedder built on mel filterbank
// statistics: it extracts CMVN-normalized fbank frames and pools them into
// a mean+std vector. It needs no model weights, so it always works, at the
// cost of weaker speaker separation than a trained network.
type FbankModel struct {
	extractor *fbank.Extractor
}

// NewFbankModel builds an embedder with the default fbank configuration.
func NewFbankModel() *FbankModel {
	return &FbankModel{extractor: fbank.New(fbank.DefaultConfig())}
}

// Extract implements Model. The embedding concatenates the per-mel mean and
// standard deviation over all frames.
func (m *FbankModel) Extract(samples []int16) ([]float32, error) {
	if len(samples) < MinSamples {
		return nil, ErrTooShort
	}
	// No CMVN here: normalizing per-mel stats over the segment would
	// flatten exactly the statistics the pooling below embeds.
	frames := m.extractor.ExtractFromInt16(samples)
	if len(frames) == 0 {
		return nil, ErrTooShort
	}

	mels := m.extractor.NumMels()
	mean := make([]float64, mels)
	for _, frame := range frames {
		for i, v := range frame {
			mean[i] += float64(v)
		}
	}
	n := float64(len(frames))
	for i := range mean {
		mean[i] /= n
	}

	variance := make([]float64, mels)
	for _, frame := range frames {
		for i, v := range frame {
			d := float64(v) - mean[i]
			variance[i] += d * d
		}
	}

	out := make([]float32, 2*mels)
	for i := range mean {
		out[i] = float32(mean[i])
		out[mels+i] = float32(math.Sqrt(variance[i] / n))
	}
	return out, nil
}

// Dimension implements Model.
func (m *FbankModel) Dimension() int {
	return 2 * m.extractor.NumMels()
}

// Close implements Model. The fbank extractor holds no external resources.
func (m *FbankModel) Close() error { return nil }

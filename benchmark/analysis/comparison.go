package analysis

import (
	"bytes"
	"fmt"
	"time"

	"github.com/discochess/lzwpack/internal/codec"
)

// Sample is one input used to compare codecs.
type Sample struct {
	Name string
	Data []byte
}

// CodecResult holds the measurements of one codec over all samples.
type CodecResult struct {
	Codec       string
	Ratios      []float64 // Per-sample input/output ratio, 0 for empty output.
	InputBytes  int64
	OutputBytes int64
	EncodeTime  time.Duration
	DecodeTime  time.Duration
}

// Ratio returns the overall ratio over all samples.
func (r *CodecResult) Ratio() float64 {
	if r.OutputBytes == 0 {
		return 0
	}
	return float64(r.InputBytes) / float64(r.OutputBytes)
}

// RunCodec encodes and decodes every sample with c and checks that each
// round trip restores the input.
func RunCodec(c codec.Codec, samples []Sample) (*CodecResult, error) {
	res := &CodecResult{Codec: c.Name(), Ratios: make([]float64, 0, len(samples))}
	for _, s := range samples {
		start := time.Now()
		packed, err := c.Encode(s.Data)
		if err != nil {
			return nil, fmt.Errorf("%s: encoding %s: %w", c.Name(), s.Name, err)
		}
		res.EncodeTime += time.Since(start)

		start = time.Now()
		restored, err := c.Decode(packed)
		if err != nil {
			return nil, fmt.Errorf("%s: decoding %s: %w", c.Name(), s.Name, err)
		}
		res.DecodeTime += time.Since(start)

		if !bytes.Equal(restored, s.Data) {
			return nil, fmt.Errorf("%s: round trip of %s changed the data", c.Name(), s.Name)
		}

		res.InputBytes += int64(len(s.Data))
		res.OutputBytes += int64(len(packed))
		ratio := 0.0
		if len(packed) > 0 {
			ratio = float64(len(s.Data)) / float64(len(packed))
		}
		res.Ratios = append(res.Ratios, ratio)
	}
	return res, nil
}

// RunCodecs runs every codec over the samples, in order.
func RunCodecs(codecs []codec.Codec, samples []Sample) ([]*CodecResult, error) {
	results := make([]*CodecResult, 0, len(codecs))
	for _, c := range codecs {
		res, err := RunCodec(c, samples)
		if err != nil {
			return nil, err
		}
		results = append(results, res)
	}
	return results, nil
}

// CodecComparison contains a full statistical comparison between two codecs.
type CodecComparison struct {
	Codec1          string
	Codec2          string
	Stats1          *DescriptiveStats
	Stats2          *DescriptiveStats
	MannWhitney     *MannWhitneyResult
	EffectSize      *EffectSize
	BootstrapCI     *BootstrapResult
	Winner          string // Codec with the higher mean ratio, or "tie".
	WinnerConfident bool   // True if statistically significant.
}

// CompareCodecs performs a full statistical comparison of the per-sample
// ratios of two codecs.
func CompareCodecs(
	result1, result2 *CodecResult,
	bootstrapIterations int,
	confidence float64,
) *CodecComparison {
	sample1 := result1.Ratios
	sample2 := result2.Ratios

	mw := MannWhitneyU(sample1, sample2)
	stats1 := Describe(sample1)
	stats2 := Describe(sample2)

	winner := "tie"
	confident := false
	switch {
	case stats1.Mean > stats2.Mean:
		winner = result1.Codec
		confident = mw.Significant
	case stats2.Mean > stats1.Mean:
		winner = result2.Codec
		confident = mw.Significant
	}

	return &CodecComparison{
		Codec1:          result1.Codec,
		Codec2:          result2.Codec,
		Stats1:          stats1,
		Stats2:          stats2,
		MannWhitney:     mw,
		EffectSize:      ComputeEffectSize(sample1, sample2),
		BootstrapCI:     BootstrapConfidenceInterval(sample1, sample2, bootstrapIterations, confidence),
		Winner:          winner,
		WinnerConfident: confident,
	}
}

// Summary returns a human-readable summary of the comparison.
func (c *CodecComparison) Summary() string {
	sig := "not statistically significant"
	if c.MannWhitney.Significant {
		sig = fmt.Sprintf("statistically significant (p=%.4f)", c.MannWhitney.PValue)
	}

	return fmt.Sprintf(
		"%s vs %s:\n"+
			"  %s: mean=%.2f, median=%.2f, std=%.2f\n"+
			"  %s: mean=%.2f, median=%.2f, std=%.2f\n"+
			"  Difference: %.2f ratio (%.1f%%)\n"+
			"  Effect size: %.2f (%s)\n"+
			"  Result: %s, %s",
		c.Codec1, c.Codec2,
		c.Codec1, c.Stats1.Mean, c.Stats1.Median, c.Stats1.StdDev,
		c.Codec2, c.Stats2.Mean, c.Stats2.Median, c.Stats2.StdDev,
		c.Stats1.Mean-c.Stats2.Mean,
		safePctDiff(c.Stats1.Mean, c.Stats2.Mean),
		c.EffectSize.CohensD, c.EffectSize.Interpretation,
		c.Winner, sig,
	)
}

func safePctDiff(a, b float64) float64 {
	if b == 0 {
		return 0
	}
	return (a - b) / b * 100
}

// MultiCodecComparison compares several codecs against a baseline.
type MultiCodecComparison struct {
	Baseline    string
	Comparisons []*CodecComparison
}

// CompareAll compares every result against the one named baseline, in
// result order. It returns nil when baseline is missing.
func CompareAll(
	results []*CodecResult,
	baseline string,
	bootstrapIterations int,
	confidence float64,
) *MultiCodecComparison {
	var base *CodecResult
	for _, r := range results {
		if r.Codec == baseline {
			base = r
			break
		}
	}
	if base == nil {
		return nil
	}

	multi := &MultiCodecComparison{Baseline: baseline}
	for _, r := range results {
		if r == base {
			continue
		}
		multi.Comparisons = append(multi.Comparisons, CompareCodecs(base, r, bootstrapIterations, confidence))
	}
	return multi
}

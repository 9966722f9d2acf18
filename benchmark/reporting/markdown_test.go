package reporting

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/discochess/lzwpack/benchmark/analysis"
)

func TestMarkdownReport(t *testing.T) {
	var buf bytes.Buffer
	r := NewMarkdownReport(&buf)
	r.now = func() time.Time { return time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC) }

	lzw := &analysis.CodecResult{Codec: "lzw", Ratios: []float64{2, 3, 4}, InputBytes: 300, OutputBytes: 100}
	none := &analysis.CodecResult{Codec: "none", Ratios: []float64{1, 1, 1}, InputBytes: 300, OutputBytes: 300}

	r.WriteHeader("Codec Comparison")
	r.WriteMethodology([]analysis.Sample{{Name: "a", Data: []byte("abc")}})
	r.WriteSummaryTable([]*analysis.CodecResult{lzw, none})
	r.WriteComparison(analysis.CompareCodecs(lzw, none, 100, 0.95))
	r.WriteDistributionChart("lzw", lzw.Ratios)
	r.WriteFooter()

	out := buf.String()
	for _, want := range []string{
		"# Codec Comparison",
		"Generated: 2024-01-02T03:04:05Z",
		"- **Samples:** 1",
		"| lzw | 300 | 100 | 3.000 | 3.000 |",
		"## lzw vs none",
		"95% CI for mean ratio difference",
		"### lzw Ratio Distribution",
		"*Report generated by lzwpack compare*",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q\n%s", want, out)
		}
	}
}

func TestMakeHistogram(t *testing.T) {
	hist, lo, width := makeHistogram([]float64{1, 1.5, 2, 3}, 4)
	if lo != 1 || width != 0.5 {
		t.Errorf("lo, width = %v, %v, want 1, 0.5", lo, width)
	}
	total := 0
	for _, c := range hist {
		total += c
	}
	if total != 4 || hist[3] != 1 {
		t.Errorf("hist = %v", hist)
	}

	hist, _, _ = makeHistogram(nil, 3)
	if len(hist) != 3 {
		t.Errorf("empty histogram has %d buckets", len(hist))
	}
}

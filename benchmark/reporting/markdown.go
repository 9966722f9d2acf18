// Package reporting provides report generation for benchmark results.
package reporting

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/discochess/lzwpack/benchmark/analysis"
)

// MarkdownReport generates benchmark reports in Markdown format.
type MarkdownReport struct {
	w   io.Writer
	now func() time.Time
}

// NewMarkdownReport creates a new Markdown report writer.
func NewMarkdownReport(w io.Writer) *MarkdownReport {
	return &MarkdownReport{w: w, now: time.Now}
}

// WriteHeader writes the report header.
func (r *MarkdownReport) WriteHeader(title string) {
	fmt.Fprintf(r.w, "# %s\n\n", title)
	fmt.Fprintf(r.w, "Generated: %s\n\n", r.now().Format(time.RFC3339))
}

// WriteMethodology writes the methodology section.
func (r *MarkdownReport) WriteMethodology(samples []analysis.Sample) {
	var total int64
	for _, s := range samples {
		total += int64(len(s.Data))
	}
	fmt.Fprintln(r.w, "## Methodology")
	fmt.Fprintln(r.w)
	fmt.Fprintf(r.w, "- **Samples:** %d\n", len(samples))
	fmt.Fprintf(r.w, "- **Input bytes:** %d\n", total)
	fmt.Fprintln(r.w, "- **Metric:** Compression ratio, input bytes / output bytes (higher is better)")
	fmt.Fprintln(r.w, "- **Statistical tests:** Mann-Whitney U (non-parametric), Cohen's d effect size")
	fmt.Fprintln(r.w)
}

// WriteSummaryTable writes the summary table, one row per codec.
func (r *MarkdownReport) WriteSummaryTable(results []*analysis.CodecResult) {
	fmt.Fprintln(r.w, "## Summary")
	fmt.Fprintln(r.w)
	fmt.Fprintln(r.w, "| Codec | Input | Output | Ratio | Median Ratio | Encode | Decode |")
	fmt.Fprintln(r.w, "|-------|-------|--------|-------|--------------|--------|--------|")

	for _, res := range results {
		desc := analysis.Describe(res.Ratios)
		fmt.Fprintf(r.w, "| %s | %d | %d | %.3f | %.3f | %s | %s |\n",
			res.Codec, res.InputBytes, res.OutputBytes, res.Ratio(), desc.Median,
			res.EncodeTime.Round(time.Microsecond), res.DecodeTime.Round(time.Microsecond))
	}
	fmt.Fprintln(r.w)
}

// WriteComparison writes a detailed comparison section.
func (r *MarkdownReport) WriteComparison(comp *analysis.CodecComparison) {
	fmt.Fprintf(r.w, "## %s vs %s\n\n", comp.Codec1, comp.Codec2)

	fmt.Fprintln(r.w, "### Descriptive Statistics")
	fmt.Fprintln(r.w)
	fmt.Fprintln(r.w, "| Metric | "+comp.Codec1+" | "+comp.Codec2+" |")
	fmt.Fprintln(r.w, "|--------|"+strings.Repeat("-", len(comp.Codec1)+2)+"|"+strings.Repeat("-", len(comp.Codec2)+2)+"|")
	fmt.Fprintf(r.w, "| Mean | %.3f | %.3f |\n", comp.Stats1.Mean, comp.Stats2.Mean)
	fmt.Fprintf(r.w, "| Median | %.3f | %.3f |\n", comp.Stats1.Median, comp.Stats2.Median)
	fmt.Fprintf(r.w, "| Std Dev | %.3f | %.3f |\n", comp.Stats1.StdDev, comp.Stats2.StdDev)
	fmt.Fprintf(r.w, "| Min | %.3f | %.3f |\n", comp.Stats1.Min, comp.Stats2.Min)
	fmt.Fprintf(r.w, "| Max | %.3f | %.3f |\n", comp.Stats1.Max, comp.Stats2.Max)
	fmt.Fprintln(r.w)

	fmt.Fprintln(r.w, "### Statistical Analysis")
	fmt.Fprintln(r.w)
	fmt.Fprintf(r.w, "- **Mann-Whitney U:** %.2f (z=%.2f, p=%.4f)\n",
		comp.MannWhitney.U, comp.MannWhitney.Z, comp.MannWhitney.PValue)
	fmt.Fprintf(r.w, "- **Effect size (Cohen's d):** %.2f (%s)\n",
		comp.EffectSize.CohensD, comp.EffectSize.Interpretation)
	fmt.Fprintf(r.w, "- **%.0f%% CI for mean ratio difference:** [%.3f, %.3f]\n",
		comp.BootstrapCI.Confidence*100, comp.BootstrapCI.LowerBound, comp.BootstrapCI.UpperBound)
	fmt.Fprintln(r.w)

	fmt.Fprintln(r.w, "### Conclusion")
	fmt.Fprintln(r.w)
	if comp.WinnerConfident {
		fmt.Fprintf(r.w, "**%s** compresses significantly better than %s ",
			comp.Winner, otherCodec(comp.Winner, comp.Codec1, comp.Codec2))
		fmt.Fprintf(r.w, "(p < 0.05, effect size: %s).\n", comp.EffectSize.Interpretation)
	} else {
		fmt.Fprintln(r.w, "No statistically significant difference detected between codecs (p >= 0.05).")
	}
	fmt.Fprintln(r.w)
}

func otherCodec(winner, c1, c2 string) string {
	if winner == c1 {
		return c2
	}
	return c1
}

// WriteDistributionChart writes an ASCII histogram of per-sample ratios.
func (r *MarkdownReport) WriteDistributionChart(name string, ratios []float64) {
	fmt.Fprintf(r.w, "### %s Ratio Distribution\n\n", name)
	fmt.Fprintln(r.w, "```")

	const buckets = 10
	hist, lo, width := makeHistogram(ratios, buckets)
	maxCount := 0
	for _, count := range hist {
		maxCount = max(maxCount, count)
	}

	const barWidth = 40
	for i, count := range hist {
		barLen := 0
		if maxCount > 0 {
			barLen = count * barWidth / maxCount
		}
		from := lo + float64(i)*width
		fmt.Fprintf(r.w, "%6.2f-%6.2f │ %s %d\n", from, from+width, strings.Repeat("█", barLen), count)
	}

	fmt.Fprintln(r.w, "```")
	fmt.Fprintln(r.w)
}

// makeHistogram buckets data into equal-width bins between its minimum and
// maximum. It returns the counts, the lower bound and the bin width.
func makeHistogram(data []float64, buckets int) ([]int, float64, float64) {
	hist := make([]int, buckets)
	if len(data) == 0 {
		return hist, 0, 1
	}

	lo, hi := data[0], data[0]
	for _, v := range data {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	if hi == lo {
		hi = lo + 1
	}

	width := (hi - lo) / float64(buckets)
	for _, v := range data {
		bucket := int((v - lo) / width)
		if bucket >= buckets {
			bucket = buckets - 1
		}
		hist[bucket]++
	}
	return hist, lo, width
}

// WriteFooter writes the report footer.
func (r *MarkdownReport) WriteFooter() {
	fmt.Fprintln(r.w, "---")
	fmt.Fprintln(r.w)
	fmt.Fprintln(r.w, "*Report generated by lzwpack compare*")
}

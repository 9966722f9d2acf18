package stats

import "testing"

func TestHelp(t *testing.T) {
	if got := Help(MetricCompress); got == MetricCompress {
		t.Errorf("Help(%q) should have a description", MetricCompress)
	}
	if got := Help("custom_metric"); got != "custom_metric" {
		t.Errorf("Help(custom_metric) = %q, want the name", got)
	}
}
